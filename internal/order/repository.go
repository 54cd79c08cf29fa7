package order

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/order/dto"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type Repository interface {
	// Checkout
	PricedProducts(ctx context.Context, storeID string, ids []string) ([]dto.PricedProduct, error)
	VariantOwners(ctx context.Context, storeID string, ids []string) ([]dto.VariantOwner, error)
	VariantLabels(ctx context.Context, variantIDs []string) ([]dto.VariantLabel, error)
	ProductImages(ctx context.Context, productIDs []string) ([]dto.ProductImage, error)
	Create(ctx context.Context, o *model.Order) error
	SetPaymentSession(ctx context.Context, orderID, sessionID string) error
	Delete(ctx context.Context, id string) error

	// Payment confirmation; q is the enclosing transaction.
	FindBySession(ctx context.Context, sessionID string) (*model.Order, error)
	MarkPaid(ctx context.Context, q sqlx.ExtContext, id, address, phone string, at time.Time) (*model.Order, error)
	FindItems(ctx context.Context, q sqlx.ExtContext, orderIDs []string) ([]model.OrderItem, error)
	WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error

	// Dashboard
	FindByID(ctx context.Context, storeID, id string) (*model.Order, error)
	FindAll(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)
	TotalRevenue(ctx context.Context, storeID string) (decimal.Decimal, error)
	SalesCount(ctx context.Context, storeID string) (int, error)
	StockCount(ctx context.Context, storeID string) (int, error)
	MonthlyRevenue(ctx context.Context, storeID string, from, to time.Time) ([]dto.MonthlyRevenue, error)
}
