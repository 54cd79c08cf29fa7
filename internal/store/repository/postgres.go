package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, s *model.Store) error {
	query := `
        INSERT INTO stores (id, user_id, name, created_at, updated_at)
        VALUES (:id, :user_id, :name, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, s)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Store, error) {
	var s model.Store
	if err := r.DB.GetContext(ctx, &s, `SELECT * FROM stores WHERE id = $1 LIMIT 1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGRepository) FindByUser(ctx context.Context, userID string) ([]model.Store, error) {
	stores := []model.Store{}
	err := r.DB.SelectContext(ctx, &stores,
		`SELECT * FROM stores WHERE user_id = $1 ORDER BY created_at ASC, id ASC`, userID)
	return stores, err
}

func (r *PGRepository) Update(ctx context.Context, s *model.Store) error {
	query := `
        UPDATE stores
        SET name = :name,
            logo = :logo,
            description = :description,
            address = :address,
            phone = :phone,
            email = :email,
            facebook = :facebook,
            instagram = :instagram,
            twitter = :twitter,
            updated_at = :updated_at
        WHERE id = :id AND user_id = :user_id
    `
	_, err := r.DB.NamedExecContext(ctx, query, s)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id, userID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM stores WHERE id = $1 AND user_id = $2`, id, userID)
	return err
}

func (r *PGRepository) Exists(ctx context.Context, id, userID string) (bool, error) {
	var ok bool
	err := r.DB.GetContext(ctx, &ok,
		`SELECT EXISTS (SELECT 1 FROM stores WHERE id = $1 AND user_id = $2)`, id, userID)
	return ok, err
}
