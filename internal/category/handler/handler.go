package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-catalog-service/internal/category"
	"github.com/fekuna/omnipos-catalog-service/internal/category/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/httpx"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/query"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CategoryHandler struct {
	uc     category.UseCase
	logger logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{
		uc:     uc,
		logger: log,
	}
}

// RegisterPublic mounts the read API under /api/:storeId.
func (h *CategoryHandler) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("/categories", h.ListCategories)
	rg.GET("/categories/:categoryId", h.GetCategory)
	rg.GET("/categories/:categoryId/breadcrumbs", h.Breadcrumbs)
}

// RegisterDashboard mounts the store owner actions under
// /dashboard/:storeId.
func (h *CategoryHandler) RegisterDashboard(rg *gin.RouterGroup) {
	rg.GET("/categories/:categoryId/edit", h.EditCategory)
	rg.POST("/categories", h.CreateCategory)
	rg.PUT("/categories/:categoryId", h.UpdateCategory)
	rg.DELETE("/categories/:categoryId", h.DeleteCategory)
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	filters := &dto.CategoryFilters{
		Params:       httpx.ListParams(c),
		OnlyParents:  httpx.Flag(c, "onlyParentCategories"),
		WithChildren: httpx.Flag(c, "withChildCategories"),
	}
	if parentID := c.Query("parentId"); parentID != "" {
		filters.ParentID = &parentID
	}

	items, count, err := h.uc.ListCategories(c.Request.Context(), filters)
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, query.Page[model.Category]{Items: items, Count: count})
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	cat, err := h.uc.GetCategory(c.Request.Context(), c.Param("storeId"), c.Param("categoryId"), dto.GetOptions{
		WithChildren: httpx.Flag(c, "withChildCategories"),
		WithParent:   httpx.Flag(c, "withParent"),
	})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) Breadcrumbs(c *gin.Context) {
	crumbs, err := h.uc.Breadcrumbs(c.Request.Context(), c.Param("storeId"), c.Param("categoryId"))
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": crumbs})
}

// EditCategory loads a category for the edit form. A missing category sends
// the owner back to the list instead of showing an error.
func (h *CategoryHandler) EditCategory(c *gin.Context) {
	storeID := c.Param("storeId")
	cat, err := h.uc.GetCategory(c.Request.Context(), storeID, c.Param("categoryId"), dto.GetOptions{WithParent: true})
	if httpx.IsNotFound(err) {
		c.Redirect(http.StatusSeeOther, "/dashboard/"+storeID+"/categories")
		return
	}
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req dto.CategoryRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Error(c, h.logger, err)
		return
	}

	cat, err := h.uc.CreateCategory(c.Request.Context(), &dto.CreateCategoryInput{
		StoreID:         c.Param("storeId"),
		CategoryRequest: req,
	})
	if err != nil {
		h.logger.Warn("failed to create category", zap.Error(err))
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	var req dto.CategoryRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Error(c, h.logger, err)
		return
	}

	cat, err := h.uc.UpdateCategory(c.Request.Context(), &dto.UpdateCategoryInput{
		ID:              c.Param("categoryId"),
		StoreID:         c.Param("storeId"),
		CategoryRequest: req,
	})
	if err != nil {
		h.logger.Warn("failed to update category", zap.Error(err))
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	if err := h.uc.DeleteCategory(c.Request.Context(), c.Param("storeId"), c.Param("categoryId")); err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
