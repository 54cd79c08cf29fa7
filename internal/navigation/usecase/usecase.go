package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/navigation"
	"github.com/fekuna/omnipos-catalog-service/internal/navigation/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/navigation/editor"
	"github.com/fekuna/omnipos-catalog-service/internal/query"
	"github.com/fekuna/omnipos-catalog-service/pkg/cache"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	MsgNotFound        = "navigation.not_found"
	MsgSlugTaken       = "navigation.slug.taken"
	MsgDepthExceeded   = "navigation.depth.exceeded"
	MsgItemNotFound    = "navigation.item.not_found"
	MsgTargetInvalid   = "navigation.target.invalid"
	MsgCategoryInvalid = "navigation.category.invalid"

	slugConstraint = "navigations_store_slug_key"
)

type navigationUseCase struct {
	repo     navigation.Repository
	cache    *cache.RedisClient
	cacheTTL time.Duration
	logger   logger.ZapLogger
}

// NewNavigationUseCase wires the use case. cache may be nil, in which case
// lookups by slug always hit the database.
func NewNavigationUseCase(repo navigation.Repository, cache *cache.RedisClient, cacheTTL time.Duration, log logger.ZapLogger) navigation.UseCase {
	return &navigationUseCase{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   log,
	}
}

func (uc *navigationUseCase) CreateNavigation(ctx context.Context, input *dto.CreateNavigationInput) (*model.Navigation, error) {
	if err := checkDepth(input.Items); err != nil {
		return nil, err
	}
	if err := uc.checkCategories(ctx, input.StoreID, input.Items); err != nil {
		return nil, err
	}

	now := time.Now()
	n := &model.Navigation{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		StoreID:   input.StoreID,
		Name:      input.Name,
		Slug:      input.Slug,
	}
	items := Materialize(n.ID, input.Items, false)

	if err := uc.repo.Create(ctx, n, items); err != nil {
		return nil, mapSlugConflict(err)
	}
	uc.invalidate(ctx, n.StoreID)
	uc.logger.Info("navigation created", zap.String("store_id", n.StoreID), zap.String("navigation_id", n.ID), zap.Int("items", len(items)))

	n.Items = nest(items)
	return n, nil
}

func (uc *navigationUseCase) GetNavigationByID(ctx context.Context, storeID, id string) (*model.Navigation, error) {
	n, err := uc.repo.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, apperror.NotFound(MsgNotFound)
	}
	return n, nil
}

func (uc *navigationUseCase) GetNavigationBySlug(ctx context.Context, storeID, slug string) (*model.Navigation, error) {
	key := slugKey(storeID, slug)
	if uc.cache != nil {
		var cached model.Navigation
		err := uc.cache.GetJSON(ctx, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			uc.logger.Warn("navigation cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	n, err := uc.repo.FindBySlug(ctx, storeID, slug)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, apperror.NotFound(MsgNotFound)
	}

	if uc.cache != nil {
		if err := uc.cache.SetJSON(ctx, key, n, uc.cacheTTL); err != nil {
			uc.logger.Warn("navigation cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return n, nil
}

func (uc *navigationUseCase) ListNavigation(ctx context.Context, params query.Params) ([]model.Navigation, int, error) {
	return uc.repo.FindAll(ctx, params)
}

// UpdateNavigation replaces the navigation's whole item tree.
func (uc *navigationUseCase) UpdateNavigation(ctx context.Context, input *dto.UpdateNavigationInput) (*model.Navigation, error) {
	if err := checkDepth(input.Items); err != nil {
		return nil, err
	}
	n, err := uc.GetNavigationByID(ctx, input.StoreID, input.ID)
	if err != nil {
		return nil, err
	}
	if err := uc.checkCategories(ctx, input.StoreID, input.Items); err != nil {
		return nil, err
	}

	n.Name = input.Name
	n.Slug = input.Slug
	n.UpdatedAt = time.Now()
	items := Materialize(n.ID, input.Items, false)

	if err := uc.repo.Replace(ctx, n, items); err != nil {
		return nil, mapSlugConflict(err)
	}
	uc.invalidate(ctx, n.StoreID)

	n.Items = nest(items)
	return n, nil
}

func (uc *navigationUseCase) DeleteNavigation(ctx context.Context, storeID, id string) error {
	if _, err := uc.GetNavigationByID(ctx, storeID, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, storeID, id); err != nil {
		return err
	}
	uc.invalidate(ctx, storeID)
	return nil
}

// MoveItem applies one drag-and-drop gesture to the stored tree and
// persists the result. Item ids survive the move.
func (uc *navigationUseCase) MoveItem(ctx context.Context, input *dto.MoveItemInput) (*model.Navigation, error) {
	n, err := uc.GetNavigationByID(ctx, input.StoreID, input.NavigationID)
	if err != nil {
		return nil, err
	}

	moved, err := editor.Move(ToEditor(n.Items), input.ItemID, input.TargetID, input.Zone, editor.MaxDepth)
	switch {
	case errors.Is(err, editor.ErrDepthExceeded):
		return nil, apperror.Field("targetId", MsgDepthExceeded)
	case errors.Is(err, editor.ErrItemNotFound):
		return nil, apperror.NotFound(MsgItemNotFound)
	case errors.Is(err, editor.ErrTargetNotFound):
		return nil, apperror.Field("targetId", MsgTargetInvalid)
	case err != nil:
		return nil, apperror.Internal(fmt.Errorf("move navigation item: %w", err))
	}

	n.UpdatedAt = time.Now()
	items := Materialize(n.ID, moved, true)
	if err := uc.repo.Replace(ctx, n, items); err != nil {
		return nil, err
	}
	uc.invalidate(ctx, n.StoreID)

	n.Items = nest(items)
	return n, nil
}

func (uc *navigationUseCase) CategoriesChanged(ctx context.Context, storeID string) {
	uc.invalidate(ctx, storeID)
}

func (uc *navigationUseCase) invalidate(ctx context.Context, storeID string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeletePattern(ctx, fmt.Sprintf("navigation:%s:*", storeID)); err != nil {
		uc.logger.Warn("navigation cache invalidation failed", zap.String("store_id", storeID), zap.Error(err))
	}
}

func slugKey(storeID, slug string) string {
	return fmt.Sprintf("navigation:%s:slug:%s", storeID, slug)
}

func checkDepth(items []editor.Item) error {
	if editor.Depth(items) > editor.MaxDepth {
		return apperror.Field("items", MsgDepthExceeded)
	}
	return nil
}

// checkCategories rejects items linked to a category the store does not
// own, keyed by the item's path. Blank category ids are cleared in place.
func (uc *navigationUseCase) checkCategories(ctx context.Context, storeID string, items []editor.Item) error {
	refs := map[string][]string{}
	var ids []string
	var walk func(prefix string, items []editor.Item)
	walk = func(prefix string, items []editor.Item) {
		for i := range items {
			key := fmt.Sprintf("%s.%d", prefix, i)
			if id := items[i].CategoryID; id != nil {
				if *id == "" {
					items[i].CategoryID = nil
				} else {
					if _, ok := refs[*id]; !ok {
						ids = append(ids, *id)
					}
					refs[*id] = append(refs[*id], key+".categoryId")
				}
			}
			walk(key+".items", items[i].Items)
		}
	}
	walk("items", items)
	if len(ids) == 0 {
		return nil
	}

	owned, err := uc.repo.OwnedCategories(ctx, storeID, ids)
	if err != nil {
		return err
	}
	fields := map[string][]string{}
	for _, id := range ids {
		if owned[id] {
			continue
		}
		for _, key := range refs[id] {
			fields[key] = append(fields[key], MsgCategoryInvalid)
		}
	}
	if len(fields) > 0 {
		return apperror.Validation(fields)
	}
	return nil
}

func mapSlugConflict(err error) error {
	if constraint, ok := apperror.UniqueViolation(err); ok && constraint == slugConstraint {
		return apperror.Conflict("slug", MsgSlugTaken)
	}
	return err
}
