package category

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/category/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

// Observer is told after a category was renamed, moved or deleted, so
// caches holding category ids or names can be dropped.
type Observer interface {
	CategoriesChanged(ctx context.Context, storeID string)
}

type UseCase interface {
	CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error)
	GetCategory(ctx context.Context, storeID, id string, opts dto.GetOptions) (*model.Category, error)
	ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, int, error)
	Breadcrumbs(ctx context.Context, storeID, id string) ([]model.Breadcrumb, error)
	UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error)
	DeleteCategory(ctx context.Context, storeID, id string) error
}
