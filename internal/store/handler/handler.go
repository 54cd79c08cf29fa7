package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/httpx"
	"github.com/fekuna/omnipos-catalog-service/internal/store"
	"github.com/fekuna/omnipos-catalog-service/internal/store/dto"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

type StoreHandler struct {
	uc     store.UseCase
	logger logger.ZapLogger
}

func NewStoreHandler(uc store.UseCase, log logger.ZapLogger) *StoreHandler {
	return &StoreHandler{uc: uc, logger: log}
}

func (h *StoreHandler) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("", h.GetStore)
}

// RegisterAccount mounts the store routes not scoped to one store.
func (h *StoreHandler) RegisterAccount(rg *gin.RouterGroup) {
	rg.GET("/stores", h.ListStores)
	rg.POST("/stores", h.CreateStore)
}

func (h *StoreHandler) RegisterDashboard(rg *gin.RouterGroup) {
	rg.GET("/settings", h.GetStore)
	rg.PUT("/settings", h.UpdateStore)
	rg.DELETE("/settings", h.DeleteStore)
}

func (h *StoreHandler) GetStore(c *gin.Context) {
	s, err := h.uc.GetStore(c.Request.Context(), c.Param("storeId"))
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *StoreHandler) ListStores(c *gin.Context) {
	stores, err := h.uc.ListStores(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, stores)
}

func (h *StoreHandler) CreateStore(c *gin.Context) {
	var req dto.CreateStoreRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	s, err := h.uc.CreateStore(c.Request.Context(), &dto.CreateStoreInput{UserID: auth.GetUserID(c), CreateStoreRequest: req})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

func (h *StoreHandler) UpdateStore(c *gin.Context) {
	var req dto.UpdateStoreRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	s, err := h.uc.UpdateStore(c.Request.Context(), &dto.UpdateStoreInput{
		ID:                 c.Param("storeId"),
		UserID:             auth.GetUserID(c),
		UpdateStoreRequest: req,
	})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *StoreHandler) DeleteStore(c *gin.Context) {
	if err := h.uc.DeleteStore(c.Request.Context(), c.Param("storeId"), auth.GetUserID(c)); err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
