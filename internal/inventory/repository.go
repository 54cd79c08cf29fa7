package inventory

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type Repository interface {
	// Stock reads take a row lock; q must be the enclosing transaction.
	LockProduct(ctx context.Context, q sqlx.ExtContext, storeID, productID string) (*dto.StockLevel, error)
	LockVariant(ctx context.Context, q sqlx.ExtContext, productID, variantID string) (*dto.StockLevel, error)

	// Core stock operations
	SetProductStock(ctx context.Context, q sqlx.ExtContext, productID string, stock int, archive bool) error
	SetVariantStock(ctx context.Context, q sqlx.ExtContext, variantID string, stock int) error
	VariantStockTotal(ctx context.Context, q sqlx.ExtContext, productID string) (int, error)

	// Movements / Audit
	LogMovement(ctx context.Context, q sqlx.ExtContext, movement *model.InventoryMovement) error
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error)

	// Transaction support
	WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}
