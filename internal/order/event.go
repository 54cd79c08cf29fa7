package order

import (
	"time"

	"github.com/shopspring/decimal"
)

const EventPaid = "order.paid"

// Event is published on the order topic once a payment is confirmed.
type Event struct {
	Type       string          `json:"type"`
	StoreID    string          `json:"storeId"`
	OrderID    string          `json:"orderId"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Currency   string          `json:"currency"`
	Items      int             `json:"items"`
	Movements  int             `json:"movements"`
	At         time.Time       `json:"at"`
}
