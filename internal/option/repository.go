package option

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/query"
	"github.com/fekuna/omnipos-catalog-service/internal/variant"
)

type Repository interface {
	Create(ctx context.Context, o *model.Option) error
	FindByID(ctx context.Context, storeID, id string) (*model.Option, error)
	FindAll(ctx context.Context, params query.Params) ([]model.Option, int, error)
	FindValues(ctx context.Context, storeID string, optionIDs []string) ([]variant.OptionValue, error)
	Update(ctx context.Context, o *model.Option) error
	Delete(ctx context.Context, storeID, id string) error
}
