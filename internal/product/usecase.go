package product

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
)

type UseCase interface {
	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	GetProduct(ctx context.Context, storeID, id string, opts dto.GetOptions) (*model.Product, error)
	ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	SearchProducts(ctx context.Context, storeID, q string, limit int) ([]model.Product, error)
	UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, storeID, id string) error
	// StockChanged refreshes cached listings and search documents after
	// stock moved outside the product write path.
	StockChanged(ctx context.Context, storeID string, productIDs []string)
	// CategoriesChanged drops cached listings that embed category data.
	CategoriesChanged(ctx context.Context, storeID string)
}
