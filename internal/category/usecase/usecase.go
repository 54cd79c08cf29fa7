package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/category"
	"github.com/fekuna/omnipos-catalog-service/internal/category/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/tree"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// Levels of children loaded below a listed or fetched category.
	childLevels = 3
	// Ancestors attached when a category is fetched with its parent.
	parentLevels = 3

	MsgParentInvalid = "category.parent.invalid"
	MsgParentCycle   = "category.parent.cycle"
)

type categoryUseCase struct {
	repo      category.Repository
	observers []category.Observer
	logger    logger.ZapLogger
}

func NewCategoryUseCase(repo category.Repository, log logger.ZapLogger, observers ...category.Observer) category.UseCase {
	return &categoryUseCase{
		repo:      repo,
		observers: observers,
		logger:    log,
	}
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error) {
	if input.ParentID != nil && *input.ParentID != "" {
		parent, err := uc.repo.FindByID(ctx, input.StoreID, *input.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, apperror.Field("parentId", MsgParentInvalid)
		}
	} else {
		input.ParentID = nil
	}

	now := time.Now()
	cat := &model.Category{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		StoreID:     input.StoreID,
		ParentID:    input.ParentID,
		Name:        input.Name,
		Description: optional(input.Description),
		ImageURL:    optional(input.ImageURL),
	}

	if err := uc.repo.Create(ctx, cat); err != nil {
		return nil, err
	}
	uc.logger.Info("category created", zap.String("store_id", cat.StoreID), zap.String("category_id", cat.ID))
	return cat, nil
}

func (uc *categoryUseCase) GetCategory(ctx context.Context, storeID, id string, opts dto.GetOptions) (*model.Category, error) {
	cat, err := uc.repo.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, apperror.NotFound("category.not_found")
	}
	if !opts.WithChildren && !opts.WithParent {
		return cat, nil
	}

	arena, err := uc.arena(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if opts.WithChildren {
		if nested, ok := tree.NestNode(arena, cat.ID, childLevels+1, attachChildren); ok {
			cat.Children = nested.Children
		}
	}
	if opts.WithParent {
		ancestors, err := arena.Ancestors(cat.ID)
		if err != nil {
			return nil, apperror.Internal(fmt.Errorf("category %s: %w", cat.ID, err))
		}
		cat.Parent = chainParents(ancestors, parentLevels)
	}
	return cat, nil
}

func (uc *categoryUseCase) ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, int, error) {
	categories, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}
	if !filters.WithChildren || len(categories) == 0 {
		return categories, count, nil
	}

	arena, err := uc.arena(ctx, filters.StoreID)
	if err != nil {
		return nil, 0, err
	}
	for i := range categories {
		if nested, ok := tree.NestNode(arena, categories[i].ID, childLevels+1, attachChildren); ok {
			categories[i].Children = nested.Children
		}
	}
	return categories, count, nil
}

// Breadcrumbs lists the ancestors of the category root first, ending with
// the category itself.
func (uc *categoryUseCase) Breadcrumbs(ctx context.Context, storeID, id string) ([]model.Breadcrumb, error) {
	arena, err := uc.arena(ctx, storeID)
	if err != nil {
		return nil, err
	}
	node, ok := arena.Get(id)
	if !ok {
		return nil, apperror.NotFound("category.not_found")
	}
	ancestors, err := arena.Ancestors(id)
	if err != nil {
		uc.logger.Error("category parent chain loops", zap.String("category_id", id), zap.Error(err))
		return nil, apperror.Internal(err)
	}

	crumbs := make([]model.Breadcrumb, 0, len(ancestors)+1)
	for _, c := range append(ancestors, node.Value) {
		crumbs = append(crumbs, model.Breadcrumb{
			Name: c.Name,
			Href: fmt.Sprintf("/dashboard/%s/categories/%s", storeID, c.ID),
		})
	}
	return crumbs, nil
}

func (uc *categoryUseCase) UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error) {
	cat, err := uc.repo.FindByID(ctx, input.StoreID, input.ID)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, apperror.NotFound("category.not_found")
	}

	parentID := input.ParentID
	if parentID != nil && *parentID == "" {
		parentID = nil
	}
	if parentID != nil {
		if *parentID == cat.ID {
			return nil, apperror.Field("parentId", MsgParentCycle)
		}
		arena, err := uc.arena(ctx, input.StoreID)
		if err != nil {
			return nil, err
		}
		if _, ok := arena.Get(*parentID); !ok {
			return nil, apperror.Field("parentId", MsgParentInvalid)
		}
		if arena.IsDescendant(cat.ID, *parentID) {
			return nil, apperror.Field("parentId", MsgParentCycle)
		}
	}

	cat.Name = input.Name
	cat.Description = optional(input.Description)
	cat.ImageURL = optional(input.ImageURL)
	cat.ParentID = parentID
	cat.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, cat); err != nil {
		return nil, err
	}
	uc.changed(ctx, cat.StoreID)
	return cat, nil
}

// DeleteCategory removes the category only. Its children are kept and
// become roots; navigation items linking it lose their category.
func (uc *categoryUseCase) DeleteCategory(ctx context.Context, storeID, id string) error {
	cat, err := uc.repo.FindByID(ctx, storeID, id)
	if err != nil {
		return err
	}
	if cat == nil {
		return apperror.NotFound("category.not_found")
	}
	if err := uc.repo.Delete(ctx, storeID, id); err != nil {
		return err
	}
	uc.changed(ctx, storeID)
	uc.logger.Info("category deleted", zap.String("store_id", storeID), zap.String("category_id", id))
	return nil
}

func (uc *categoryUseCase) changed(ctx context.Context, storeID string) {
	for _, o := range uc.observers {
		o.CategoriesChanged(ctx, storeID)
	}
}

func (uc *categoryUseCase) arena(ctx context.Context, storeID string) (*tree.Arena[model.Category], error) {
	all, err := uc.repo.FindByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return tree.Build(all,
		func(c model.Category) string { return c.ID },
		model.Category.ParentKey,
	), nil
}

func attachChildren(c model.Category, children []model.Category) model.Category {
	c.Children = children
	return c
}

// chainParents links ancestors (root first) into a Parent chain starting at
// the nearest one, keeping at most levels links.
func chainParents(ancestors []model.Category, levels int) *model.Category {
	var parent *model.Category
	start := 0
	if len(ancestors) > levels {
		start = len(ancestors) - levels
	}
	for i := start; i < len(ancestors); i++ {
		c := ancestors[i]
		c.Parent = parent
		parent = &c
	}
	return parent
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
