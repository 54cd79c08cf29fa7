package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/option"
	"github.com/fekuna/omnipos-catalog-service/internal/option/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/query"
	"github.com/fekuna/omnipos-catalog-service/internal/variant"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const MsgNotFound = "option.not_found"

type optionUseCase struct {
	repo   option.Repository
	logger logger.ZapLogger
}

func NewOptionUseCase(repo option.Repository, log logger.ZapLogger) option.UseCase {
	return &optionUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *optionUseCase) CreateOption(ctx context.Context, input *dto.CreateOptionInput) (*model.Option, error) {
	now := time.Now()
	o := &model.Option{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		StoreID:   input.StoreID,
		Name:      Capitalize(input.Name),
	}
	o.Values = newValues(o.ID, input.Values, now)
	if len(o.Values) == 0 {
		return nil, apperror.Field("values", "validation.required")
	}

	if err := uc.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	uc.logger.Info("option created", zap.String("store_id", o.StoreID), zap.String("option_id", o.ID))
	return o, nil
}

func (uc *optionUseCase) GetOption(ctx context.Context, storeID, id string) (*model.Option, error) {
	o, err := uc.repo.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperror.NotFound(MsgNotFound)
	}
	return o, nil
}

func (uc *optionUseCase) ListOptions(ctx context.Context, params query.Params) ([]model.Option, int, error) {
	return uc.repo.FindAll(ctx, params)
}

// UpdateOption renames the option and sets its values. Values whose name
// is unchanged keep their identity.
func (uc *optionUseCase) UpdateOption(ctx context.Context, input *dto.UpdateOptionInput) (*model.Option, error) {
	o, err := uc.GetOption(ctx, input.StoreID, input.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	o.Name = Capitalize(input.Name)
	o.UpdatedAt = now
	o.Values = newValues(o.ID, input.Values, now)
	if len(o.Values) == 0 {
		return nil, apperror.Field("values", "validation.required")
	}

	if err := uc.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (uc *optionUseCase) DeleteOption(ctx context.Context, storeID, id string) error {
	if _, err := uc.GetOption(ctx, storeID, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, storeID, id)
}

// GenerateVariants returns every combination of the values of the given
// options. Options vary in the order their ids were passed, the first one
// slowest.
func (uc *optionUseCase) GenerateVariants(ctx context.Context, storeID string, optionIDs []string) ([]variant.Combination, error) {
	values, err := uc.repo.FindValues(ctx, storeID, optionIDs)
	if err != nil {
		return nil, err
	}
	combos := variant.Combinations(values)
	if combos == nil {
		combos = []variant.Combination{}
	}
	return combos, nil
}

// Capitalize upper-cases the first letter of every word and trims spaces.
// A Caser is stateful, so one is built per call.
func Capitalize(s string) string {
	return cases.Title(language.English, cases.NoLower).String(strings.TrimSpace(s))
}

// newValues builds value rows for names, skipping blanks and repeats.
// Creation times are spaced so the stored order follows the submitted order.
func newValues(optionID string, names []string, now time.Time) []model.OptionValue {
	values := make([]model.OptionValue, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = Capitalize(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		values = append(values, model.OptionValue{
			ID:        uuid.New().String(),
			OptionID:  optionID,
			Name:      name,
			CreatedAt: now.Add(time.Duration(len(values)) * time.Microsecond),
		})
	}
	return values
}
