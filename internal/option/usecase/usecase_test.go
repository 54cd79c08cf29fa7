package usecase

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/option/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/query"
	"github.com/fekuna/omnipos-catalog-service/internal/variant"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockOptionRepo struct {
	options map[string]*model.Option
	values  []variant.OptionValue
	updated *model.Option
}

func (m *MockOptionRepo) Create(_ context.Context, o *model.Option) error {
	if m.options == nil {
		m.options = map[string]*model.Option{}
	}
	m.options[o.ID] = o
	return nil
}

func (m *MockOptionRepo) FindByID(_ context.Context, storeID, id string) (*model.Option, error) {
	if o, ok := m.options[id]; ok && o.StoreID == storeID {
		cp := *o
		return &cp, nil
	}
	return nil, nil
}

func (m *MockOptionRepo) FindAll(context.Context, query.Params) ([]model.Option, int, error) {
	return nil, 0, nil
}

func (m *MockOptionRepo) FindValues(context.Context, string, []string) ([]variant.OptionValue, error) {
	return m.values, nil
}

func (m *MockOptionRepo) Update(_ context.Context, o *model.Option) error {
	m.updated = o
	return nil
}

func (m *MockOptionRepo) Delete(context.Context, string, string) error { return nil }

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Red", Capitalize(" red "))
	assert.Equal(t, "Extra Large", Capitalize("extra large"))
	assert.Equal(t, "XL", Capitalize("XL"))
}

func TestCreateOptionCapitalizesAndKeepsOrder(t *testing.T) {
	repo := &MockOptionRepo{}
	uc := NewOptionUseCase(repo, logger.NewNop())

	o, err := uc.CreateOption(context.Background(), &dto.CreateOptionInput{
		StoreID:       "s1",
		OptionRequest: dto.OptionRequest{Name: "color", Values: []string{"red", " ", "navy blue"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Color", o.Name)
	require.Len(t, o.Values, 2)
	assert.Equal(t, "Red", o.Values[0].Name)
	assert.Equal(t, "Navy Blue", o.Values[1].Name)
	assert.True(t, o.Values[0].CreatedAt.Before(o.Values[1].CreatedAt))
	assert.Equal(t, o.ID, o.Values[1].OptionID)
}

func TestCreateOptionNeedsValues(t *testing.T) {
	uc := NewOptionUseCase(&MockOptionRepo{}, logger.NewNop())
	_, err := uc.CreateOption(context.Background(), &dto.CreateOptionInput{
		StoreID:       "s1",
		OptionRequest: dto.OptionRequest{Name: "Size", Values: []string{"  "}},
	})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestUpdateOptionSetsValues(t *testing.T) {
	repo := &MockOptionRepo{options: map[string]*model.Option{
		"o1": {BaseModel: model.BaseModel{ID: "o1"}, StoreID: "s1", Name: "Size",
			Values: []model.OptionValue{{ID: "v1", Name: "S"}}},
	}}
	uc := NewOptionUseCase(repo, logger.NewNop())

	_, err := uc.UpdateOption(context.Background(), &dto.UpdateOptionInput{
		ID: "o1", StoreID: "s1",
		OptionRequest: dto.OptionRequest{Name: "size", Values: []string{"m", "l", "M"}},
	})
	require.NoError(t, err)
	require.NotNil(t, repo.updated)
	require.Len(t, repo.updated.Values, 2)
	assert.Equal(t, "M", repo.updated.Values[0].Name)
	assert.Equal(t, "L", repo.updated.Values[1].Name)

	_, err = uc.UpdateOption(context.Background(), &dto.UpdateOptionInput{
		ID: "o1", StoreID: "s2",
		OptionRequest: dto.OptionRequest{Name: "size", Values: []string{"m"}},
	})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestGenerateVariants(t *testing.T) {
	repo := &MockOptionRepo{values: []variant.OptionValue{
		{OptionID: "c", OptionName: "Color", ValueID: "red", ValueName: "Red"},
		{OptionID: "c", OptionName: "Color", ValueID: "blue", ValueName: "Blue"},
		{OptionID: "s", OptionName: "Size", ValueID: "s", ValueName: "S"},
		{OptionID: "s", OptionName: "Size", ValueID: "m", ValueName: "M"},
	}}
	uc := NewOptionUseCase(repo, logger.NewNop())

	combos, err := uc.GenerateVariants(context.Background(), "s1", []string{"c", "s"})
	require.NoError(t, err)
	require.Len(t, combos, 4)
	assert.Equal(t, "blue", combos[2][0].ValueID)
	assert.Equal(t, "s", combos[2][1].ValueID)

	empty, err := NewOptionUseCase(&MockOptionRepo{}, logger.NewNop()).GenerateVariants(context.Background(), "s1", nil)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
