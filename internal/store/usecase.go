package store

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/store/dto"
)

type UseCase interface {
	CreateStore(ctx context.Context, input *dto.CreateStoreInput) (*model.Store, error)
	GetStore(ctx context.Context, id string) (*model.Store, error)
	ListStores(ctx context.Context, userID string) ([]model.Store, error)
	UpdateStore(ctx context.Context, input *dto.UpdateStoreInput) (*model.Store, error)
	DeleteStore(ctx context.Context, id, userID string) error

	Owns(ctx context.Context, storeID, userID string) (bool, error)
	FirstStoreID(ctx context.Context, userID string) (string, error)
}
