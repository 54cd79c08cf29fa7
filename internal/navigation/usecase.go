package navigation

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/navigation/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/query"
)

type UseCase interface {
	CreateNavigation(ctx context.Context, input *dto.CreateNavigationInput) (*model.Navigation, error)
	GetNavigationByID(ctx context.Context, storeID, id string) (*model.Navigation, error)
	GetNavigationBySlug(ctx context.Context, storeID, slug string) (*model.Navigation, error)
	ListNavigation(ctx context.Context, params query.Params) ([]model.Navigation, int, error)
	UpdateNavigation(ctx context.Context, input *dto.UpdateNavigationInput) (*model.Navigation, error)
	DeleteNavigation(ctx context.Context, storeID, id string) error
	MoveItem(ctx context.Context, input *dto.MoveItemInput) (*model.Navigation, error)
	// CategoriesChanged drops cached navigations, whose items carry
	// category ids.
	CategoriesChanged(ctx context.Context, storeID string)
}
