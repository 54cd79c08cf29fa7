package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/navigation/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/navigation/editor"
	"github.com/fekuna/omnipos-catalog-service/internal/navigation/repository"
	"github.com/fekuna/omnipos-catalog-service/internal/query"
	"github.com/fekuna/omnipos-catalog-service/pkg/cache"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockNavigationRepo stores flat item rows per navigation and enforces the
// per-store slug uniqueness the database would.
type MockNavigationRepo struct {
	navs       map[string]model.Navigation
	items      map[string][]model.NavigationItem
	categories map[string]string // category id -> store id
}

func newRepo() *MockNavigationRepo {
	return &MockNavigationRepo{navs: map[string]model.Navigation{}, items: map[string][]model.NavigationItem{}}
}

func (m *MockNavigationRepo) slugTaken(n *model.Navigation) error {
	for _, other := range m.navs {
		if other.ID != n.ID && other.StoreID == n.StoreID && other.Slug == n.Slug {
			return &pgconn.PgError{Code: "23505", ConstraintName: "navigations_store_slug_key"}
		}
	}
	return nil
}

func (m *MockNavigationRepo) Create(_ context.Context, n *model.Navigation, items []model.NavigationItem) error {
	if err := m.slugTaken(n); err != nil {
		return err
	}
	m.navs[n.ID] = *n
	m.items[n.ID] = items
	return nil
}

func (m *MockNavigationRepo) load(n model.Navigation) *model.Navigation {
	n.Items = repository.Nest(m.items[n.ID])
	return &n
}

func (m *MockNavigationRepo) FindByID(_ context.Context, storeID, id string) (*model.Navigation, error) {
	n, ok := m.navs[id]
	if !ok || n.StoreID != storeID {
		return nil, nil
	}
	return m.load(n), nil
}

func (m *MockNavigationRepo) FindBySlug(_ context.Context, storeID, slug string) (*model.Navigation, error) {
	for _, n := range m.navs {
		if n.StoreID == storeID && n.Slug == slug {
			return m.load(n), nil
		}
	}
	return nil, nil
}

func (m *MockNavigationRepo) FindAll(_ context.Context, params query.Params) ([]model.Navigation, int, error) {
	out := []model.Navigation{}
	for _, n := range m.navs {
		if n.StoreID == params.StoreID {
			out = append(out, *m.load(n))
		}
	}
	return out, len(out), nil
}

func (m *MockNavigationRepo) Replace(_ context.Context, n *model.Navigation, items []model.NavigationItem) error {
	if err := m.slugTaken(n); err != nil {
		return err
	}
	m.navs[n.ID] = *n
	m.items[n.ID] = items
	return nil
}

func (m *MockNavigationRepo) Delete(_ context.Context, storeID, id string) error {
	if n, ok := m.navs[id]; ok && n.StoreID == storeID {
		delete(m.navs, id)
		delete(m.items, id)
	}
	return nil
}

func (m *MockNavigationRepo) OwnedCategories(_ context.Context, storeID string, ids []string) (map[string]bool, error) {
	owned := map[string]bool{}
	for _, id := range ids {
		if m.categories[id] == storeID {
			owned[id] = true
		}
	}
	return owned, nil
}

func item(name string, children ...editor.Item) editor.Item {
	return editor.Item{Name: name, URL: "/" + name, Items: children}
}

func create(t *testing.T, uc interface {
	CreateNavigation(context.Context, *dto.CreateNavigationInput) (*model.Navigation, error)
}, slug string, items ...editor.Item) *model.Navigation {
	t.Helper()
	n, err := uc.CreateNavigation(context.Background(), &dto.CreateNavigationInput{
		StoreID:           "s1",
		NavigationRequest: dto.NavigationRequest{Name: "Main", Slug: slug, Items: items},
	})
	require.NoError(t, err)
	return n
}

func TestCreateNavigationAssignsPreOrderAndSortOrder(t *testing.T) {
	repo := newRepo()
	uc := NewNavigationUseCase(repo, nil, 0, logger.NewNop())

	n := create(t, uc, "main",
		item("shop", item("shirts"), item("pants")),
		item("about"),
	)

	rows := repo.items[n.ID]
	require.Len(t, rows, 4)
	names := []string{rows[0].Name, rows[1].Name, rows[2].Name, rows[3].Name}
	assert.Equal(t, []string{"shop", "shirts", "pants", "about"}, names)
	assert.Equal(t, []int{0, 0, 1, 1}, []int{rows[0].SortOrder, rows[1].SortOrder, rows[2].SortOrder, rows[3].SortOrder})
	assert.Nil(t, rows[0].ParentID)
	assert.Equal(t, rows[0].ID, *rows[1].ParentID)
	assert.Equal(t, rows[0].ID, *rows[2].ParentID)

	require.Len(t, n.Items, 2)
	assert.Len(t, n.Items[0].Items, 2)
}

func TestCreateNavigationRejectsDeepTree(t *testing.T) {
	uc := NewNavigationUseCase(newRepo(), nil, 0, logger.NewNop())

	_, err := uc.CreateNavigation(context.Background(), &dto.CreateNavigationInput{
		StoreID: "s1",
		NavigationRequest: dto.NavigationRequest{
			Name: "Main", Slug: "main",
			Items: []editor.Item{item("a", item("b", item("c", item("d", item("e")))))},
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	assert.Equal(t, []string{MsgDepthExceeded}, apperror.From(err).Fields["items"])
}

func TestNavigationItemsMustLinkOwnCategories(t *testing.T) {
	repo := newRepo()
	repo.categories = map[string]string{"shirts": "s1", "other-store": "s2"}
	uc := NewNavigationUseCase(repo, nil, 0, logger.NewNop())

	own, foreign, blank := "shirts", "other-store", ""
	shop := item("shop", editor.Item{Name: "shirts", URL: "/shirts", CategoryID: &own})
	shop.Items = append(shop.Items, editor.Item{Name: "x", URL: "/x", CategoryID: &foreign})
	about := editor.Item{Name: "about", URL: "/about", CategoryID: &blank}

	_, err := uc.CreateNavigation(context.Background(), &dto.CreateNavigationInput{
		StoreID:           "s1",
		NavigationRequest: dto.NavigationRequest{Name: "Main", Slug: "main", Items: []editor.Item{shop, about}},
	})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	assert.Equal(t, map[string][]string{"items.0.items.1.categoryId": {MsgCategoryInvalid}}, apperror.From(err).Fields)
	assert.Empty(t, repo.navs)

	n := create(t, uc, "main", item("home"))
	_, err = uc.UpdateNavigation(context.Background(), &dto.UpdateNavigationInput{
		ID: n.ID, StoreID: "s1",
		NavigationRequest: dto.NavigationRequest{Name: "Main", Slug: "main",
			Items: []editor.Item{{Name: "x", URL: "/x", CategoryID: &foreign}}},
	})
	assert.Equal(t, []string{MsgCategoryInvalid}, apperror.From(err).Fields["items.0.categoryId"])

	shop.Items = shop.Items[:1]
	created := create(t, uc, "menu", shop, about)
	assert.Equal(t, "shirts", *created.Items[0].Items[0].CategoryID)
	assert.Nil(t, created.Items[1].CategoryID)
}

func TestDuplicateSlugIsConflict(t *testing.T) {
	uc := NewNavigationUseCase(newRepo(), nil, 0, logger.NewNop())
	create(t, uc, "main")

	_, err := uc.CreateNavigation(context.Background(), &dto.CreateNavigationInput{
		StoreID:           "s1",
		NavigationRequest: dto.NavigationRequest{Name: "Other", Slug: "main"},
	})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	assert.Equal(t, MsgSlugTaken, apperror.From(err).Message)
}

func TestUpdateNavigationReplacesItems(t *testing.T) {
	repo := newRepo()
	uc := NewNavigationUseCase(repo, nil, 0, logger.NewNop())
	n := create(t, uc, "main", item("a"), item("b"))

	updated, err := uc.UpdateNavigation(context.Background(), &dto.UpdateNavigationInput{
		ID: n.ID, StoreID: "s1",
		NavigationRequest: dto.NavigationRequest{Name: "Footer", Slug: "footer", Items: []editor.Item{item("c")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "footer", updated.Slug)
	require.Len(t, repo.items[n.ID], 1)
	assert.Equal(t, "c", repo.items[n.ID][0].Name)

	_, err = uc.GetNavigationBySlug(context.Background(), "s1", "main")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestMoveItemKeepsIDs(t *testing.T) {
	repo := newRepo()
	uc := NewNavigationUseCase(repo, nil, 0, logger.NewNop())
	n := create(t, uc, "main", item("a"), item("b"))
	a, b := n.Items[0].ID, n.Items[1].ID

	moved, err := uc.MoveItem(context.Background(), &dto.MoveItemInput{
		StoreID: "s1", NavigationID: n.ID, ItemID: b, TargetID: a, Zone: editor.AsChild,
	})
	require.NoError(t, err)
	require.Len(t, moved.Items, 1)
	assert.Equal(t, a, moved.Items[0].ID)
	require.Len(t, moved.Items[0].Items, 1)
	assert.Equal(t, b, moved.Items[0].Items[0].ID)
	assert.Equal(t, a, *repo.items[n.ID][1].ParentID)
}

func TestMoveItemRejectsDepthAndLeavesTree(t *testing.T) {
	repo := newRepo()
	uc := NewNavigationUseCase(repo, nil, 0, logger.NewNop())
	n := create(t, uc, "main", item("a", item("b", item("c", item("d")))), item("x", item("y")))
	before := repo.items[n.ID]
	d := n.Items[0].Items[0].Items[0].Items[0].ID
	x := n.Items[1].ID

	_, err := uc.MoveItem(context.Background(), &dto.MoveItemInput{
		StoreID: "s1", NavigationID: n.ID, ItemID: x, TargetID: d, Zone: editor.AsChild,
	})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	assert.Equal(t, before, repo.items[n.ID])
}

func TestMoveItemUnknownItem(t *testing.T) {
	uc := NewNavigationUseCase(newRepo(), nil, 0, logger.NewNop())
	n := create(t, uc, "main", item("a"))

	_, err := uc.MoveItem(context.Background(), &dto.MoveItemInput{
		StoreID: "s1", NavigationID: n.ID, ItemID: "ghost", TargetID: n.Items[0].ID,
	})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestDeleteNavigationNotFound(t *testing.T) {
	uc := NewNavigationUseCase(newRepo(), nil, 0, logger.NewNop())
	err := uc.DeleteNavigation(context.Background(), "s1", "missing")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestCategoriesChangedDropsCachedNavigation(t *testing.T) {
	mr := miniredis.RunT(t)
	rc, err := cache.NewRedisClient(&cache.Config{Addr: mr.Addr()})
	require.NoError(t, err)
	repo := newRepo()
	repo.categories = map[string]string{"shirts": "s1"}
	uc := NewNavigationUseCase(repo, rc, time.Minute, logger.NewNop())
	ctx := context.Background()

	shirts := "shirts"
	n := create(t, uc, "main", editor.Item{Name: "Shirts", URL: "/shirts", CategoryID: &shirts})
	cached, err := uc.GetNavigationBySlug(ctx, "s1", "main")
	require.NoError(t, err)
	require.NotNil(t, cached.Items[0].CategoryID)

	// The category is deleted and the foreign key clears the link.
	repo.items[n.ID][0].CategoryID = nil
	stale, err := uc.GetNavigationBySlug(ctx, "s1", "main")
	require.NoError(t, err)
	assert.NotNil(t, stale.Items[0].CategoryID)

	uc.CategoriesChanged(ctx, "s1")
	fresh, err := uc.GetNavigationBySlug(ctx, "s1", "main")
	require.NoError(t, err)
	assert.Nil(t, fresh.Items[0].CategoryID)
}
