package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/navigation/editor"
	"github.com/fekuna/omnipos-catalog-service/internal/query"
	"github.com/fekuna/omnipos-catalog-service/internal/tree"
	"github.com/fekuna/omnipos-catalog-service/pkg/database/postgres"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

const insertItem = `
    INSERT INTO navigation_items (id, navigation_id, parent_id, name, url, sort_order, category_id)
    VALUES (:id, :navigation_id, :parent_id, :name, :url, :sort_order, :category_id)
`

func (r *PGRepository) Create(ctx context.Context, n *model.Navigation, items []model.NavigationItem) error {
	return postgres.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		_, err := tx.NamedExecContext(ctx, `
            INSERT INTO navigations (id, store_id, name, slug, created_at, updated_at)
            VALUES (:id, :store_id, :name, :slug, :created_at, :updated_at)
        `, n)
		if err != nil {
			return err
		}
		return insertItems(ctx, tx, items)
	})
}

// insertItems expects items in pre-order so every parent row exists before
// its children reference it.
func insertItems(ctx context.Context, tx *sqlx.Tx, items []model.NavigationItem) error {
	for i := range items {
		if _, err := tx.NamedExecContext(ctx, insertItem, &items[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *PGRepository) Replace(ctx context.Context, n *model.Navigation, items []model.NavigationItem) error {
	return postgres.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		_, err := tx.NamedExecContext(ctx, `
            UPDATE navigations SET name = :name, slug = :slug, updated_at = :updated_at
            WHERE id = :id AND store_id = :store_id
        `, n)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM navigation_items WHERE navigation_id = $1`, n.ID); err != nil {
			return err
		}
		return insertItems(ctx, tx, items)
	})
}

func (r *PGRepository) FindByID(ctx context.Context, storeID, id string) (*model.Navigation, error) {
	return r.findOne(ctx, `SELECT * FROM navigations WHERE id = $1 AND store_id = $2 LIMIT 1`, id, storeID)
}

func (r *PGRepository) FindBySlug(ctx context.Context, storeID, slug string) (*model.Navigation, error) {
	return r.findOne(ctx, `SELECT * FROM navigations WHERE slug = $1 AND store_id = $2 LIMIT 1`, slug, storeID)
}

func (r *PGRepository) findOne(ctx context.Context, q string, args ...any) (*model.Navigation, error) {
	var n model.Navigation
	if err := r.DB.GetContext(ctx, &n, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	navs := []model.Navigation{n}
	if err := r.attachItems(ctx, navs); err != nil {
		return nil, err
	}
	return &navs[0], nil
}

func (r *PGRepository) FindAll(ctx context.Context, params query.Params) ([]model.Navigation, int, error) {
	filter := query.ForStore(params.StoreID).NameContains("name", params.Query)
	navs, count, err := query.List[model.Navigation](ctx, r.DB, "navigations", filter, query.BaseSorts.Resolve(params.Sort), params)
	if err != nil {
		return nil, 0, err
	}
	if err := r.attachItems(ctx, navs); err != nil {
		return nil, 0, err
	}
	return navs, count, nil
}

// attachItems loads the items of navs and nests them, siblings ordered by
// sort_order, down to the editor's depth limit.
func (r *PGRepository) attachItems(ctx context.Context, navs []model.Navigation) error {
	if len(navs) == 0 {
		return nil
	}
	ids := make([]string, len(navs))
	for i, n := range navs {
		ids[i] = n.ID
	}
	q, args, err := sqlx.In(`SELECT * FROM navigation_items WHERE navigation_id IN (?) ORDER BY sort_order ASC, id ASC`, ids)
	if err != nil {
		return err
	}
	var items []model.NavigationItem
	if err := r.DB.SelectContext(ctx, &items, r.DB.Rebind(q), args...); err != nil {
		return err
	}

	byNav := map[string][]model.NavigationItem{}
	for _, it := range items {
		byNav[it.NavigationID] = append(byNav[it.NavigationID], it)
	}
	for i := range navs {
		navs[i].Items = Nest(byNav[navs[i].ID])
	}
	return nil
}

// Nest turns flat rows into the item tree.
func Nest(items []model.NavigationItem) []model.NavigationItem {
	arena := tree.Build(items,
		func(it model.NavigationItem) string { return it.ID },
		model.NavigationItem.ParentKey,
	)
	nested := tree.Nest(arena, editor.MaxDepth, func(it model.NavigationItem, children []model.NavigationItem) model.NavigationItem {
		if children == nil {
			children = []model.NavigationItem{}
		}
		it.Items = children
		return it
	})
	return nested
}

func (r *PGRepository) Delete(ctx context.Context, storeID, id string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM navigations WHERE id = $1 AND store_id = $2", id, storeID)
	return err
}

// OwnedCategories compares ids as text so malformed ids count as unknown
// instead of failing the query.
func (r *PGRepository) OwnedCategories(ctx context.Context, storeID string, ids []string) (map[string]bool, error) {
	owned := make(map[string]bool, len(ids))
	if len(ids) == 0 {
		return owned, nil
	}
	q, args, err := sqlx.In(`SELECT id::text FROM categories WHERE store_id = ? AND id::text IN (?)`, storeID, ids)
	if err != nil {
		return nil, err
	}
	var found []string
	if err := r.DB.SelectContext(ctx, &found, r.DB.Rebind(q), args...); err != nil {
		return nil, err
	}
	for _, id := range found {
		owned[id] = true
	}
	return owned, nil
}
