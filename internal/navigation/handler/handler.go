package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/httpx"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/navigation"
	"github.com/fekuna/omnipos-catalog-service/internal/navigation/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/navigation/editor"
	"github.com/fekuna/omnipos-catalog-service/internal/query"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

type NavigationHandler struct {
	uc     navigation.UseCase
	logger logger.ZapLogger
}

func NewNavigationHandler(uc navigation.UseCase, log logger.ZapLogger) *NavigationHandler {
	return &NavigationHandler{uc: uc, logger: log}
}

func (h *NavigationHandler) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("/navigation", h.ListNavigation)
	rg.GET("/navigation/by-slug/:slug", h.GetNavigationBySlug)
	rg.GET("/navigation/:navigationId", h.GetNavigation)
}

func (h *NavigationHandler) RegisterDashboard(rg *gin.RouterGroup) {
	rg.POST("/navigation", h.CreateNavigation)
	rg.PUT("/navigation/:navigationId", h.UpdateNavigation)
	rg.DELETE("/navigation/:navigationId", h.DeleteNavigation)
	rg.POST("/navigation/:navigationId/move", h.MoveItem)
}

func (h *NavigationHandler) ListNavigation(c *gin.Context) {
	items, count, err := h.uc.ListNavigation(c.Request.Context(), httpx.ListParams(c))
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, query.Page[model.Navigation]{Items: items, Count: count})
}

func (h *NavigationHandler) GetNavigation(c *gin.Context) {
	n, err := h.uc.GetNavigationByID(c.Request.Context(), c.Param("storeId"), c.Param("navigationId"))
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *NavigationHandler) GetNavigationBySlug(c *gin.Context) {
	n, err := h.uc.GetNavigationBySlug(c.Request.Context(), c.Param("storeId"), c.Param("slug"))
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *NavigationHandler) CreateNavigation(c *gin.Context) {
	var req dto.NavigationRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	n, err := h.uc.CreateNavigation(c.Request.Context(), &dto.CreateNavigationInput{StoreID: c.Param("storeId"), NavigationRequest: req})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, n)
}

func (h *NavigationHandler) UpdateNavigation(c *gin.Context) {
	var req dto.NavigationRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	n, err := h.uc.UpdateNavigation(c.Request.Context(), &dto.UpdateNavigationInput{
		ID:                c.Param("navigationId"),
		StoreID:           c.Param("storeId"),
		NavigationRequest: req,
	})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *NavigationHandler) DeleteNavigation(c *gin.Context) {
	if err := h.uc.DeleteNavigation(c.Request.Context(), c.Param("storeId"), c.Param("navigationId")); err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MoveItem persists a single drop from the editor. mode defaults to
// sibling.
func (h *NavigationHandler) MoveItem(c *gin.Context) {
	var req dto.MoveItemRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	zone, ok := editor.ParseZone(req.Mode)
	if !ok {
		httpx.Error(c, h.logger, apperror.Field("mode", "validation.oneof"))
		return
	}
	n, err := h.uc.MoveItem(c.Request.Context(), &dto.MoveItemInput{
		StoreID:      c.Param("storeId"),
		NavigationID: c.Param("navigationId"),
		ItemID:       req.ItemID,
		TargetID:     req.TargetID,
		Zone:         zone,
	})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, n)
}
