package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-catalog-service/internal/httpx"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/option"
	"github.com/fekuna/omnipos-catalog-service/internal/option/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/query"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

type OptionHandler struct {
	uc     option.UseCase
	logger logger.ZapLogger
}

func NewOptionHandler(uc option.UseCase, log logger.ZapLogger) *OptionHandler {
	return &OptionHandler{uc: uc, logger: log}
}

func (h *OptionHandler) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("/options", h.ListOptions)
	rg.GET("/options/:optionId", h.GetOption)
}

func (h *OptionHandler) RegisterDashboard(rg *gin.RouterGroup) {
	rg.POST("/options", h.CreateOption)
	rg.POST("/options/combinations", h.GenerateVariants)
	rg.PUT("/options/:optionId", h.UpdateOption)
	rg.DELETE("/options/:optionId", h.DeleteOption)
}

func (h *OptionHandler) ListOptions(c *gin.Context) {
	items, count, err := h.uc.ListOptions(c.Request.Context(), httpx.ListParams(c))
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, query.Page[model.Option]{Items: items, Count: count})
}

func (h *OptionHandler) GetOption(c *gin.Context) {
	o, err := h.uc.GetOption(c.Request.Context(), c.Param("storeId"), c.Param("optionId"))
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *OptionHandler) CreateOption(c *gin.Context) {
	var req dto.OptionRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	o, err := h.uc.CreateOption(c.Request.Context(), &dto.CreateOptionInput{StoreID: c.Param("storeId"), OptionRequest: req})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

func (h *OptionHandler) UpdateOption(c *gin.Context) {
	var req dto.OptionRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	o, err := h.uc.UpdateOption(c.Request.Context(), &dto.UpdateOptionInput{
		ID:            c.Param("optionId"),
		StoreID:       c.Param("storeId"),
		OptionRequest: req,
	})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *OptionHandler) DeleteOption(c *gin.Context) {
	if err := h.uc.DeleteOption(c.Request.Context(), c.Param("storeId"), c.Param("optionId")); err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GenerateVariants returns the full cartesian product of the selected
// options for the variant matrix editor.
func (h *OptionHandler) GenerateVariants(c *gin.Context) {
	var req dto.CombinationsRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	combos, err := h.uc.GenerateVariants(c.Request.Context(), c.Param("storeId"), req.OptionIDs)
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"combinations": combos, "count": len(combos)})
}
