package handler

import (
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-catalog-service/internal/httpx"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/product"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/query"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ProductHandler) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("/products", h.ListProducts)
	rg.GET("/products/search", h.SearchProducts)
	rg.GET("/products/:productId", h.GetProduct)
}

func (h *ProductHandler) RegisterDashboard(rg *gin.RouterGroup) {
	rg.GET("/products", h.ListProducts)
	rg.GET("/products/:productId", h.GetProduct)
	rg.POST("/products", h.CreateProduct)
	rg.PUT("/products/:productId", h.UpdateProduct)
	rg.DELETE("/products/:productId", h.DeleteProduct)
}

// ListProducts accepts isArchived / isFeatured explicitly or as tokens of
// the filter parameter, categoryIds as a comma separated list and the
// withTags, withCategories and withSeo flags.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	filters := &dto.ProductFilters{
		Params:         httpx.ListParams(c),
		IsArchived:     httpx.OptionalFlag(c, "isArchived"),
		IsFeatured:     httpx.OptionalFlag(c, "isFeatured"),
		CategoryIDs:    httpx.CSV(c, "categoryIds"),
		WithTags:       httpx.Flag(c, "withTags"),
		WithCategories: httpx.Flag(c, "withCategories"),
		WithSeo:        httpx.Flag(c, "withSeo"),
	}
	tokens := httpx.FilterTokens(c)
	on := true
	if filters.IsArchived == nil && tokens["archived"] {
		filters.IsArchived = &on
	}
	if filters.IsFeatured == nil && tokens["featured"] {
		filters.IsFeatured = &on
	}

	products, count, err := h.uc.ListProducts(c.Request.Context(), filters)
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, query.Page[model.Product]{Items: products, Count: count})
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	p, err := h.uc.GetProduct(c.Request.Context(), c.Param("storeId"), c.Param("productId"), dto.GetOptions{
		IsArchived:     httpx.OptionalFlag(c, "isArchived"),
		IsFeatured:     httpx.OptionalFlag(c, "isFeatured"),
		WithTags:       httpx.Flag(c, "withTags"),
		WithCategories: httpx.Flag(c, "withCategories"),
		WithSeo:        httpx.Flag(c, "withSeo"),
	})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) SearchProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	products, err := h.uc.SearchProducts(c.Request.Context(), c.Param("storeId"), c.Query("q"), limit)
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, query.Page[model.Product]{Items: products, Count: len(products)})
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req dto.ProductRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	p, err := h.uc.CreateProduct(c.Request.Context(), &dto.CreateProductInput{StoreID: c.Param("storeId"), ProductRequest: req})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req dto.ProductRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	p, err := h.uc.UpdateProduct(c.Request.Context(), &dto.UpdateProductInput{
		ID:             c.Param("productId"),
		StoreID:        c.Param("storeId"),
		ProductRequest: req,
	})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.uc.DeleteProduct(c.Request.Context(), c.Param("storeId"), c.Param("productId")); err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
