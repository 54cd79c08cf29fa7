package usecase

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/category/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockCategoryRepo keeps categories in insertion order and emulates the
// ON DELETE SET NULL parent foreign key.
type MockCategoryRepo struct {
	items []model.Category
}

func (m *MockCategoryRepo) Create(_ context.Context, c *model.Category) error {
	m.items = append(m.items, *c)
	return nil
}

func (m *MockCategoryRepo) FindByID(_ context.Context, storeID, id string) (*model.Category, error) {
	for _, c := range m.items {
		if c.ID == id && c.StoreID == storeID {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (m *MockCategoryRepo) FindAll(_ context.Context, f *dto.CategoryFilters) ([]model.Category, int, error) {
	out := []model.Category{}
	for _, c := range m.items {
		if c.StoreID != f.StoreID {
			continue
		}
		if f.OnlyParents && c.ParentID != nil {
			continue
		}
		if f.ParentID != nil && (c.ParentID == nil || *c.ParentID != *f.ParentID) {
			continue
		}
		out = append(out, c)
	}
	return out, len(out), nil
}

func (m *MockCategoryRepo) FindByStore(_ context.Context, storeID string) ([]model.Category, error) {
	var out []model.Category
	for _, c := range m.items {
		if c.StoreID == storeID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *MockCategoryRepo) Update(_ context.Context, c *model.Category) error {
	for i := range m.items {
		if m.items[i].ID == c.ID {
			m.items[i] = *c
		}
	}
	return nil
}

func (m *MockCategoryRepo) Delete(_ context.Context, storeID, id string) error {
	kept := m.items[:0]
	for _, c := range m.items {
		if c.ID == id && c.StoreID == storeID {
			continue
		}
		if c.ParentID != nil && *c.ParentID == id {
			c.ParentID = nil
		}
		kept = append(kept, c)
	}
	m.items = kept
	return nil
}

func strPtr(s string) *string { return &s }

func cat(id, parent string) model.Category {
	c := model.Category{BaseModel: model.BaseModel{ID: id}, StoreID: "s1", Name: id}
	if parent != "" {
		c.ParentID = strPtr(parent)
	}
	return c
}

// clothing > men > shirts > formal > slim
func seeded() *MockCategoryRepo {
	return &MockCategoryRepo{items: []model.Category{
		cat("clothing", ""),
		cat("men", "clothing"),
		cat("shirts", "men"),
		cat("formal", "shirts"),
		cat("slim", "formal"),
		cat("women", "clothing"),
		{BaseModel: model.BaseModel{ID: "other"}, StoreID: "s2", Name: "other"},
	}}
}

func TestBreadcrumbsRootToLeaf(t *testing.T) {
	uc := NewCategoryUseCase(seeded(), logger.NewNop())

	crumbs, err := uc.Breadcrumbs(context.Background(), "s1", "shirts")
	require.NoError(t, err)
	require.Len(t, crumbs, 3)
	assert.Equal(t, "clothing", crumbs[0].Name)
	assert.Equal(t, "men", crumbs[1].Name)
	assert.Equal(t, "shirts", crumbs[2].Name)
	assert.Equal(t, "/dashboard/s1/categories/shirts", crumbs[2].Href)
}

func TestBreadcrumbsOtherStoreNotFound(t *testing.T) {
	uc := NewCategoryUseCase(seeded(), logger.NewNop())
	_, err := uc.Breadcrumbs(context.Background(), "s1", "other")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestBreadcrumbsCycleIsAnError(t *testing.T) {
	repo := &MockCategoryRepo{items: []model.Category{cat("a", "b"), cat("b", "a")}}
	uc := NewCategoryUseCase(repo, logger.NewNop())

	_, err := uc.Breadcrumbs(context.Background(), "s1", "a")
	assert.True(t, apperror.Is(err, apperror.KindInternal))
}

func TestGetCategoryWithParentAndChildren(t *testing.T) {
	uc := NewCategoryUseCase(seeded(), logger.NewNop())

	got, err := uc.GetCategory(context.Background(), "s1", "slim", dto.GetOptions{WithParent: true})
	require.NoError(t, err)
	require.NotNil(t, got.Parent)
	assert.Equal(t, "formal", got.Parent.ID)
	assert.Equal(t, "shirts", got.Parent.Parent.ID)
	assert.Equal(t, "men", got.Parent.Parent.Parent.ID)
	// Only three ancestor levels are attached.
	assert.Nil(t, got.Parent.Parent.Parent.Parent)

	got, err = uc.GetCategory(context.Background(), "s1", "clothing", dto.GetOptions{WithChildren: true})
	require.NoError(t, err)
	require.Len(t, got.Children, 2)
	men := got.Children[0]
	require.Len(t, men.Children, 1)
	shirts := men.Children[0]
	require.Len(t, shirts.Children, 1)
	// clothing plus three levels of children; slim is cut off.
	assert.Empty(t, shirts.Children[0].Children)
}

func TestGetCategoryMissing(t *testing.T) {
	uc := NewCategoryUseCase(seeded(), logger.NewNop())
	_, err := uc.GetCategory(context.Background(), "s2", "men", dto.GetOptions{})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestCreateCategoryParentMustBelongToStore(t *testing.T) {
	repo := seeded()
	uc := NewCategoryUseCase(repo, logger.NewNop())

	_, err := uc.CreateCategory(context.Background(), &dto.CreateCategoryInput{
		StoreID:         "s1",
		CategoryRequest: dto.CategoryRequest{Name: "Hats", ParentID: strPtr("other")},
	})
	require.True(t, apperror.Is(err, apperror.KindValidation))
	assert.Equal(t, []string{MsgParentInvalid}, apperror.From(err).Fields["parentId"])

	created, err := uc.CreateCategory(context.Background(), &dto.CreateCategoryInput{
		StoreID:         "s1",
		CategoryRequest: dto.CategoryRequest{Name: "Hats", ParentID: strPtr("")},
	})
	require.NoError(t, err)
	assert.Nil(t, created.ParentID)
	assert.Nil(t, created.Description)
	assert.NotEmpty(t, created.ID)
}

func TestUpdateCategoryRejectsCycles(t *testing.T) {
	uc := NewCategoryUseCase(seeded(), logger.NewNop())
	ctx := context.Background()

	_, err := uc.UpdateCategory(ctx, &dto.UpdateCategoryInput{
		ID: "men", StoreID: "s1",
		CategoryRequest: dto.CategoryRequest{Name: "men", ParentID: strPtr("men")},
	})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = uc.UpdateCategory(ctx, &dto.UpdateCategoryInput{
		ID: "men", StoreID: "s1",
		CategoryRequest: dto.CategoryRequest{Name: "men", ParentID: strPtr("formal")},
	})
	require.True(t, apperror.Is(err, apperror.KindValidation))
	assert.Equal(t, []string{MsgParentCycle}, apperror.From(err).Fields["parentId"])

	updated, err := uc.UpdateCategory(ctx, &dto.UpdateCategoryInput{
		ID: "women", StoreID: "s1",
		CategoryRequest: dto.CategoryRequest{Name: "Women", ParentID: strPtr("men")},
	})
	require.NoError(t, err)
	assert.Equal(t, "men", *updated.ParentID)
}

func TestDeleteCategoryOrphansChildren(t *testing.T) {
	repo := seeded()
	uc := NewCategoryUseCase(repo, logger.NewNop())
	ctx := context.Background()

	require.NoError(t, uc.DeleteCategory(ctx, "s1", "clothing"))

	roots, count, err := uc.ListCategories(ctx, &dto.CategoryFilters{OnlyParents: true, Params: paramsFor("s1")})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, "men", roots[0].ID)
	assert.Equal(t, "women", roots[1].ID)

	err = uc.DeleteCategory(ctx, "s1", "clothing")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

type recordingObserver struct {
	stores []string
}

func (o *recordingObserver) CategoriesChanged(_ context.Context, storeID string) {
	o.stores = append(o.stores, storeID)
}

func TestCategoryWritesNotifyObservers(t *testing.T) {
	obs := &recordingObserver{}
	uc := NewCategoryUseCase(seeded(), logger.NewNop(), obs)
	ctx := context.Background()

	_, err := uc.CreateCategory(ctx, &dto.CreateCategoryInput{StoreID: "s1", CategoryRequest: dto.CategoryRequest{Name: "Hats"}})
	require.NoError(t, err)
	assert.Empty(t, obs.stores)

	_, err = uc.UpdateCategory(ctx, &dto.UpdateCategoryInput{ID: "men", StoreID: "s1", CategoryRequest: dto.CategoryRequest{Name: "Men"}})
	require.NoError(t, err)
	require.NoError(t, uc.DeleteCategory(ctx, "s1", "women"))
	assert.Equal(t, []string{"s1", "s1"}, obs.stores)

	assert.Error(t, uc.DeleteCategory(ctx, "s1", "women"))
	assert.Len(t, obs.stores, 2)
}

func TestListCategoriesWithChildren(t *testing.T) {
	uc := NewCategoryUseCase(seeded(), logger.NewNop())

	items, _, err := uc.ListCategories(context.Background(), &dto.CategoryFilters{
		Params: paramsFor("s1"), OnlyParents: true, WithChildren: true,
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Len(t, items[0].Children, 2)
}
