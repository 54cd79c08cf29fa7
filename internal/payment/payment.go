// Package payment abstracts the hosted checkout provider.
package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var (
	ErrInvalidSignature = errors.New("payment: invalid webhook signature")
	ErrUnknownCurrency  = errors.New("payment: unknown currency")
)

type LineItem struct {
	Name string
	// Description lists the variant's options, e.g. "Tee - Color - Red / Size - S".
	Description string
	Images      []string
	UnitPrice   decimal.Decimal
	Quantity    int
}

type CheckoutRequest struct {
	OrderID    string
	Currency   string
	Items      []LineItem
	SuccessURL string
	CancelURL  string
}

type Session struct {
	ID  string
	URL string
}

// Completion is a verified checkout.session.completed notification.
type Completion struct {
	SessionID string
	OrderID   string
	Address   string
	Phone     string
}

type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req *CheckoutRequest) (*Session, error)
	// ParseWebhook verifies the signature of payload. Events other than a
	// completed checkout yield nil, nil.
	ParseWebhook(payload []byte, signature string) (*Completion, error)
}

// Decimals is the number of minor-unit digits of an ISO 4217 currency:
// 2 for USD, 0 for JPY, 3 for KWD.
func Decimals(code string) (int, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}
	scale, _ := currency.Standard.Rounding(unit)
	return scale, nil
}

// MinorUnits converts amount to the smallest unit of the currency. Amounts
// in three-decimal currencies end in 0, as Stripe requires.
func MinorUnits(amount decimal.Decimal, code string) (int64, error) {
	scale, err := Decimals(code)
	if err != nil {
		return 0, err
	}
	if scale == 3 {
		return amount.Shift(2).Round(0).IntPart() * 10, nil
	}
	return amount.Shift(int32(scale)).Round(0).IntPart(), nil
}
