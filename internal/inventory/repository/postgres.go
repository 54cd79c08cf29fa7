package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-catalog-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/query"
	"github.com/fekuna/omnipos-catalog-service/pkg/database/postgres"
	"github.com/jmoiron/sqlx"
)

var movementSorts = query.SortTable{
	query.Newest: query.BaseSorts[query.Newest],
	query.Oldest: query.BaseSorts[query.Oldest],
}

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return postgres.WithTx(ctx, r.DB, fn)
}

func (r *PGRepository) LockProduct(ctx context.Context, q sqlx.ExtContext, storeID, productID string) (*dto.StockLevel, error) {
	query := `
        SELECT id, stock, (SELECT count(*) FROM variants v WHERE v.product_id = products.id) AS variants
        FROM products
        WHERE store_id = $1 AND id = $2
        FOR UPDATE
    `
	return getLevel(ctx, q, query, storeID, productID)
}

func (r *PGRepository) LockVariant(ctx context.Context, q sqlx.ExtContext, productID, variantID string) (*dto.StockLevel, error) {
	query := `SELECT id, stock, 0 AS variants FROM variants WHERE product_id = $1 AND id = $2 FOR UPDATE`
	return getLevel(ctx, q, query, productID, variantID)
}

func getLevel(ctx context.Context, q sqlx.ExtContext, query string, args ...any) (*dto.StockLevel, error) {
	var level dto.StockLevel
	if err := sqlx.GetContext(ctx, q, &level, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &level, nil
}

// SetProductStock writes the new stock. archive only ever sets the flag; a
// restock never unarchives a product.
func (r *PGRepository) SetProductStock(ctx context.Context, q sqlx.ExtContext, productID string, stock int, archive bool) error {
	_, err := q.ExecContext(ctx,
		`UPDATE products SET stock = $1, is_archived = is_archived OR $2, updated_at = now() WHERE id = $3`,
		stock, archive, productID)
	return err
}

func (r *PGRepository) SetVariantStock(ctx context.Context, q sqlx.ExtContext, variantID string, stock int) error {
	_, err := q.ExecContext(ctx, `UPDATE variants SET stock = $1, updated_at = now() WHERE id = $2`, stock, variantID)
	return err
}

func (r *PGRepository) VariantStockTotal(ctx context.Context, q sqlx.ExtContext, productID string) (int, error) {
	var total int
	err := sqlx.GetContext(ctx, q, &total, `SELECT COALESCE(SUM(stock), 0) FROM variants WHERE product_id = $1`, productID)
	return total, err
}

func (r *PGRepository) LogMovement(ctx context.Context, q sqlx.ExtContext, m *model.InventoryMovement) error {
	query := `
        INSERT INTO inventory_movements (
            id, store_id, product_id, variant_id,
            movement_type, quantity_change, quantity_before, quantity_after,
            reference_type, reference_id, notes, created_at
        )
        VALUES (
            :id, :store_id, :product_id, :variant_id,
            :movement_type, :quantity_change, :quantity_before, :quantity_after,
            :reference_type, :reference_id, :notes, :created_at
        )
    `
	_, err := sqlx.NamedExecContext(ctx, q, query, m)
	return err
}

func (r *PGRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.InventoryMovement, int, error) {
	filter := query.ForStore(f.StoreID)
	if f.ProductID != "" {
		filter.And("product_id = " + filter.Bind(f.ProductID))
	}
	if f.MovementType != "" {
		filter.And("movement_type = " + filter.Bind(f.MovementType))
	}
	if f.StartDate != nil {
		filter.And("created_at >= " + filter.Bind(*f.StartDate))
	}
	if f.EndDate != nil {
		filter.And("created_at < " + filter.Bind(*f.EndDate))
	}
	return query.List[model.InventoryMovement](ctx, r.DB, "inventory_movements", filter, movementSorts.Resolve(f.Sort), f.Params)
}
