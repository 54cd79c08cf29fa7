package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/order/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/query"
	"github.com/fekuna/omnipos-catalog-service/pkg/database/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

var orderSorts = query.SortTable{
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

func (r *PGRepository) PricedProducts(ctx context.Context, storeID string, ids []string) ([]dto.PricedProduct, error) {
	out := []dto.PricedProduct{}
	if len(ids) == 0 {
		return out, nil
	}
	q, args, err := sqlx.In(`SELECT id, name, price, sale_price, is_archived FROM products WHERE store_id = ? AND id IN (?)`, storeID, ids)
	if err != nil {
		return nil, err
	}
	err = r.DB.SelectContext(ctx, &out, r.DB.Rebind(q), args...)
	return out, err
}

func (r *PGRepository) VariantOwners(ctx context.Context, storeID string, ids []string) ([]dto.VariantOwner, error) {
	out := []dto.VariantOwner{}
	if len(ids) == 0 {
		return out, nil
	}
	q, args, err := sqlx.In(`
        SELECT v.id, v.product_id
        FROM variants v
        JOIN products p ON p.id = v.product_id
        WHERE p.store_id = ? AND v.id IN (?)
    `, storeID, ids)
	if err != nil {
		return nil, err
	}
	err = r.DB.SelectContext(ctx, &out, r.DB.Rebind(q), args...)
	return out, err
}

// VariantLabels returns the option names and values of each variant, in
// option creation order.
func (r *PGRepository) VariantLabels(ctx context.Context, variantIDs []string) ([]dto.VariantLabel, error) {
	out := []dto.VariantLabel{}
	if len(variantIDs) == 0 {
		return out, nil
	}
	q, args, err := sqlx.In(`
        SELECT vov.variant_id, o.name AS option_name, ov.name AS value_name
        FROM variant_option_values vov
        JOIN options o ON o.id = vov.option_id
        JOIN option_values ov ON ov.id = vov.option_value_id
        WHERE vov.variant_id IN (?)
        ORDER BY o.created_at, o.id
    `, variantIDs)
	if err != nil {
		return nil, err
	}
	err = r.DB.SelectContext(ctx, &out, r.DB.Rebind(q), args...)
	return out, err
}

func (r *PGRepository) ProductImages(ctx context.Context, productIDs []string) ([]dto.ProductImage, error) {
	out := []dto.ProductImage{}
	if len(productIDs) == 0 {
		return out, nil
	}
	q, args, err := sqlx.In(`SELECT product_id, url FROM images WHERE product_id IN (?) ORDER BY id`, productIDs)
	if err != nil {
		return nil, err
	}
	err = r.DB.SelectContext(ctx, &out, r.DB.Rebind(q), args...)
	return out, err
}

func (r *PGRepository) Create(ctx context.Context, o *model.Order) error {
	return postgres.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		_, err := tx.NamedExecContext(ctx, `
            INSERT INTO orders (id, store_id, is_paid, total_price, currency, phone, address, created_at, updated_at)
            VALUES (:id, :store_id, :is_paid, :total_price, :currency, :phone, :address, :created_at, :updated_at)
        `, o)
		if err != nil {
			return err
		}
		for i := range o.Items {
			_, err := tx.NamedExecContext(ctx, `
                INSERT INTO order_items (id, order_id, product_id, variant_id, quantity, unit_price)
                VALUES (:id, :order_id, :product_id, :variant_id, :quantity, :unit_price)
            `, &o.Items[i])
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PGRepository) SetPaymentSession(ctx context.Context, orderID, sessionID string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE orders SET payment_session_id = $1, updated_at = now() WHERE id = $2`, sessionID, orderID)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM orders WHERE id = $1 AND NOT is_paid`, id)
	return err
}

func (r *PGRepository) FindBySession(ctx context.Context, sessionID string) (*model.Order, error) {
	var o model.Order
	err := r.DB.GetContext(ctx, &o, `SELECT * FROM orders WHERE payment_session_id = $1 LIMIT 1`, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

// MarkPaid flips is_paid only for an unpaid order. It returns nil when the
// order does not exist or was already paid.
func (r *PGRepository) MarkPaid(ctx context.Context, q sqlx.ExtContext, id, address, phone string, at time.Time) (*model.Order, error) {
	var o model.Order
	err := sqlx.GetContext(ctx, q, &o, `
        UPDATE orders
        SET is_paid = true, address = $2, phone = $3, paid_at = $4, updated_at = $4
        WHERE id = $1 AND NOT is_paid
        RETURNING *
    `, id, address, phone, at)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *PGRepository) FindItems(ctx context.Context, q sqlx.ExtContext, orderIDs []string) ([]model.OrderItem, error) {
	items := []model.OrderItem{}
	if len(orderIDs) == 0 {
		return items, nil
	}
	query, args, err := sqlx.In(`
        SELECT oi.id, oi.order_id, oi.product_id, oi.variant_id, oi.quantity, oi.unit_price, p.name AS product_name
        FROM order_items oi
        JOIN products p ON p.id = oi.product_id
        WHERE oi.order_id IN (?)
        ORDER BY oi.order_id, oi.id
    `, orderIDs)
	if err != nil {
		return nil, err
	}
	err = sqlx.SelectContext(ctx, q, &items, q.Rebind(query), args...)
	return items, err
}

func (r *PGRepository) FindByID(ctx context.Context, storeID, id string) (*model.Order, error) {
	var o model.Order
	err := r.DB.GetContext(ctx, &o, `SELECT * FROM orders WHERE id = $1 AND store_id = $2 LIMIT 1`, id, storeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := r.attachItems(ctx, []*model.Order{&o}); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.OrderFilters) ([]model.Order, int, error) {
	filter := query.ForStore(f.StoreID).BoolEquals("is_paid", f.IsPaid)
	orders, count, err := query.List[model.Order](ctx, r.DB, "orders", filter, orderSorts.Resolve(f.Sort), f.Params)
	if err != nil {
		return nil, 0, err
	}
	ptrs := make([]*model.Order, len(orders))
	for i := range orders {
		ptrs[i] = &orders[i]
	}
	if err := r.attachItems(ctx, ptrs); err != nil {
		return nil, 0, err
	}
	return orders, count, nil
}

func (r *PGRepository) attachItems(ctx context.Context, orders []*model.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	byID := make(map[string]*model.Order, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = o
		o.Items = []model.OrderItem{}
	}
	items, err := r.FindItems(ctx, r.DB, ids)
	if err != nil {
		return err
	}
	for _, it := range items {
		if o, ok := byID[it.OrderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	return nil
}

func (r *PGRepository) TotalRevenue(ctx context.Context, storeID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.DB.GetContext(ctx, &total,
		`SELECT COALESCE(SUM(total_price), 0) FROM orders WHERE store_id = $1 AND is_paid`, storeID)
	return total, err
}

func (r *PGRepository) SalesCount(ctx context.Context, storeID string) (int, error) {
	var n int
	err := r.DB.GetContext(ctx, &n, `SELECT count(*) FROM orders WHERE store_id = $1 AND is_paid`, storeID)
	return n, err
}

func (r *PGRepository) StockCount(ctx context.Context, storeID string) (int, error) {
	var n int
	err := r.DB.GetContext(ctx, &n, `SELECT count(*) FROM products WHERE store_id = $1 AND NOT is_archived`, storeID)
	return n, err
}

func (r *PGRepository) MonthlyRevenue(ctx context.Context, storeID string, from, to time.Time) ([]dto.MonthlyRevenue, error) {
	out := []dto.MonthlyRevenue{}
	err := r.DB.SelectContext(ctx, &out, `
        SELECT EXTRACT(MONTH FROM created_at)::int AS month, SUM(total_price) AS total
        FROM orders
        WHERE store_id = $1 AND is_paid AND created_at >= $2 AND created_at < $3
        GROUP BY month
        ORDER BY month
    `, storeID, from, to)
	return out, err
}
