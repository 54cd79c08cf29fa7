package handler

import (
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/httpx"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/order"
	"github.com/fekuna/omnipos-catalog-service/internal/order/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/query"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

const (
	SignatureHeader = "Stripe-Signature"

	maxWebhookBody = 1 << 16
)

type OrderHandler struct {
	uc     order.UseCase
	logger logger.ZapLogger
}

func NewOrderHandler(uc order.UseCase, log logger.ZapLogger) *OrderHandler {
	return &OrderHandler{uc: uc, logger: log}
}

func (h *OrderHandler) RegisterPublic(rg *gin.RouterGroup) {
	rg.POST("/checkout", h.Checkout)
}

// RegisterWebhook mounts the payment callback outside any store scope.
func (h *OrderHandler) RegisterWebhook(rg *gin.RouterGroup) {
	rg.POST("/webhook", h.Webhook)
}

func (h *OrderHandler) RegisterDashboard(rg *gin.RouterGroup) {
	rg.GET("/orders", h.ListOrders)
	rg.GET("/orders/:orderId", h.GetOrder)
	rg.GET("/overview", h.Overview)
}

func (h *OrderHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	res, err := h.uc.Checkout(c.Request.Context(), &dto.CheckoutInput{
		StoreID:         c.Param("storeId"),
		RedirectURL:     redirectURL(c),
		CheckoutRequest: req,
	})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// redirectURL is where the provider sends the shopper back to. The
// storefront passes it explicitly; otherwise the Origin header is used.
func redirectURL(c *gin.Context) string {
	if u := c.Query("redirectUrl"); u != "" {
		return u
	}
	return c.GetHeader("Origin")
}

func (h *OrderHandler) Webhook(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody)
	payload, err := c.GetRawData()
	if err != nil {
		httpx.Error(c, h.logger, apperror.BadRequest(apperror.MsgBadRequest))
		return
	}
	if err := h.uc.HandleWebhook(c.Request.Context(), payload, c.GetHeader(SignatureHeader)); err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	items, count, err := h.uc.ListOrders(c.Request.Context(), &dto.OrderFilters{
		Params: httpx.ListParams(c),
		IsPaid: httpx.OptionalFlag(c, "isPaid"),
	})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, query.Page[model.Order]{Items: items, Count: count})
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	o, err := h.uc.GetOrder(c.Request.Context(), c.Param("storeId"), c.Param("orderId"))
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) Overview(c *gin.Context) {
	year, _ := strconv.Atoi(c.Query("year"))
	o, err := h.uc.Overview(c.Request.Context(), c.Param("storeId"), year)
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, o)
}
