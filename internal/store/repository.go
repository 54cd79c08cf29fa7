package store

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, s *model.Store) error
	FindByID(ctx context.Context, id string) (*model.Store, error)
	FindByUser(ctx context.Context, userID string) ([]model.Store, error)
	Update(ctx context.Context, s *model.Store) error
	Delete(ctx context.Context, id, userID string) error
	Exists(ctx context.Context, id, userID string) (bool, error)
}
