package handler

import (
	"net/http"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/httpx"
	"github.com/fekuna/omnipos-catalog-service/internal/inventory"
	"github.com/fekuna/omnipos-catalog-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/query"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type InventoryHandler struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *InventoryHandler) RegisterDashboard(rg *gin.RouterGroup) {
	rg.GET("/inventory/movements", h.ListMovements)
	rg.POST("/inventory/adjustments", h.AdjustStock)
}

func (h *InventoryHandler) ListMovements(c *gin.Context) {
	filters := &dto.MovementFilters{
		Params:       httpx.ListParams(c),
		ProductID:    c.Query("productId"),
		MovementType: c.Query("type"),
	}

	var err error
	if filters.StartDate, err = dateQuery(c, "from"); err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	if filters.EndDate, err = dateQuery(c, "to"); err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	if filters.EndDate != nil {
		// to is inclusive
		end := filters.EndDate.AddDate(0, 0, 1)
		filters.EndDate = &end
	}

	items, count, err := h.uc.ListMovements(c.Request.Context(), filters)
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, query.Page[model.InventoryMovement]{Items: items, Count: count})
}

func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	var req dto.AdjustStockRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	m, err := h.uc.AdjustStock(c.Request.Context(), &dto.AdjustStockInput{StoreID: c.Param("storeId"), AdjustStockRequest: req})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func dateQuery(c *gin.Context, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, apperror.Field(key, "validation.date")
	}
	return &t, nil
}
