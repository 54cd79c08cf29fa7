package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-catalog-service/internal/category/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/query"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, c *model.Category) error {
	query := `
        INSERT INTO categories (id, store_id, parent_id, name, description, image_url, created_at, updated_at)
        VALUES (:id, :store_id, :parent_id, :name, :description, :image_url, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, c)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, storeID, id string) (*model.Category, error) {
	var category model.Category
	query := `SELECT * FROM categories WHERE id = $1 AND store_id = $2 LIMIT 1`
	err := r.DB.GetContext(ctx, &category, query, id, storeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.CategoryFilters) ([]model.Category, int, error) {
	filter := query.ForStore(f.StoreID).NameContains("name", f.Query)
	if f.OnlyParents {
		filter.And("parent_id IS NULL")
	} else if f.ParentID != nil {
		filter.And("parent_id = " + filter.Bind(*f.ParentID))
	}
	return query.List[model.Category](ctx, r.DB, "categories", filter, query.BaseSorts.Resolve(f.Sort), f.Params)
}

// FindByStore loads every category of the store, the input for tree
// assembly.
func (r *PGRepository) FindByStore(ctx context.Context, storeID string) ([]model.Category, error) {
	categories := []model.Category{}
	err := r.DB.SelectContext(ctx, &categories,
		`SELECT * FROM categories WHERE store_id = $1 ORDER BY created_at ASC, id ASC`, storeID)
	return categories, err
}

func (r *PGRepository) Update(ctx context.Context, c *model.Category) error {
	query := `
        UPDATE categories
        SET parent_id = :parent_id,
            name = :name,
            description = :description,
            image_url = :image_url,
            updated_at = :updated_at
        WHERE id = :id AND store_id = :store_id
    `
	_, err := r.DB.NamedExecContext(ctx, query, c)
	return err
}

// Delete removes the category. The parent_id foreign key is ON DELETE SET
// NULL, so children stay and become roots.
func (r *PGRepository) Delete(ctx context.Context, storeID, id string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM categories WHERE id = $1 AND store_id = $2", id, storeID)
	return err
}
