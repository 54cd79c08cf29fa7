package option

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/option/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/query"
	"github.com/fekuna/omnipos-catalog-service/internal/variant"
)

type UseCase interface {
	CreateOption(ctx context.Context, input *dto.CreateOptionInput) (*model.Option, error)
	GetOption(ctx context.Context, storeID, id string) (*model.Option, error)
	ListOptions(ctx context.Context, params query.Params) ([]model.Option, int, error)
	UpdateOption(ctx context.Context, input *dto.UpdateOptionInput) (*model.Option, error)
	DeleteOption(ctx context.Context, storeID, id string) error
	GenerateVariants(ctx context.Context, storeID string, optionIDs []string) ([]variant.Combination, error)
}
