package inventory

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type UseCase interface {
	// DeductForOrder decrements stock for every line of a paid order inside
	// tx and records one sale movement per adjusted row.
	DeductForOrder(ctx context.Context, tx *sqlx.Tx, order *model.Order) ([]model.InventoryMovement, error)
	AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.InventoryMovement, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error)
}

// StockObserver is told which products changed stock once the change is
// committed.
type StockObserver interface {
	StockChanged(ctx context.Context, storeID string, productIDs []string)
}
