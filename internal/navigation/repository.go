package navigation

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/query"
)

type Repository interface {
	// Create stores the navigation and its flattened items in one transaction.
	Create(ctx context.Context, n *model.Navigation, items []model.NavigationItem) error
	FindByID(ctx context.Context, storeID, id string) (*model.Navigation, error)
	FindBySlug(ctx context.Context, storeID, slug string) (*model.Navigation, error)
	FindAll(ctx context.Context, params query.Params) ([]model.Navigation, int, error)
	// Replace updates name and slug and swaps the whole item tree atomically.
	Replace(ctx context.Context, n *model.Navigation, items []model.NavigationItem) error
	Delete(ctx context.Context, storeID, id string) error
	// OwnedCategories reports which of ids are categories of the store.
	OwnedCategories(ctx context.Context, storeID string, ids []string) (map[string]bool, error)
}
