package product

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
)

type Repository interface {
	// Create and Update write the product together with its images, tags,
	// seo, categories and variants.
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, storeID, id string, opts dto.GetOptions) (*model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, storeID, id string) error

	// Ownership checks for referenced rows
	CountCategories(ctx context.Context, storeID string, ids []string) (int, error)
	ValueOptions(ctx context.Context, storeID string, valueIDs []string) (map[string]string, error)
}
