package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	BaseModel
	StoreID          string          `db:"store_id" json:"storeId"`
	IsPaid           bool            `db:"is_paid" json:"isPaid"`
	TotalPrice       decimal.Decimal `db:"total_price" json:"totalPrice"`
	Currency         string          `db:"currency" json:"currency"`
	Phone            string          `db:"phone" json:"phone"`
	Address          string          `db:"address" json:"address"`
	PaymentSessionID *string         `db:"payment_session_id" json:"paymentSessionId,omitempty"`
	PaidAt           *time.Time      `db:"paid_at" json:"paidAt,omitempty"`
	Items            []OrderItem     `db:"-" json:"orderItems"`
}

type OrderItem struct {
	ID          string          `db:"id" json:"id"`
	OrderID     string          `db:"order_id" json:"orderId"`
	ProductID   string          `db:"product_id" json:"productId"`
	VariantID   *string         `db:"variant_id" json:"variantId,omitempty"`
	Quantity    int             `db:"quantity" json:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price" json:"unitPrice"`
	ProductName string          `db:"product_name" json:"productName,omitempty"`
}
