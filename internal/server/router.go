// Package server assembles the HTTP surface: the public storefront API, the
// payment webhook, the session endpoints and the store owner dashboard.
package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	authH "github.com/fekuna/omnipos-catalog-service/internal/auth/handler"
	catH "github.com/fekuna/omnipos-catalog-service/internal/category/handler"
	invH "github.com/fekuna/omnipos-catalog-service/internal/inventory/handler"
	navH "github.com/fekuna/omnipos-catalog-service/internal/navigation/handler"
	optH "github.com/fekuna/omnipos-catalog-service/internal/option/handler"
	orderH "github.com/fekuna/omnipos-catalog-service/internal/order/handler"
	prodH "github.com/fekuna/omnipos-catalog-service/internal/product/handler"
	storeH "github.com/fekuna/omnipos-catalog-service/internal/store/handler"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/fekuna/omnipos-catalog-service/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

const publicPrefix = "/api/"

type Handlers struct {
	Auth       *authH.AuthHandler
	Store      *storeH.StoreHandler
	Category   *catH.CategoryHandler
	Option     *optH.OptionHandler
	Navigation *navH.NavigationHandler
	Product    *prodH.ProductHandler
	Inventory  *invH.InventoryHandler
	Order      *orderH.OrderHandler
}

type Options struct {
	CORSOrigins []string
	Sessions    *auth.SessionManager
	Stores      auth.StoreOwnership
	// Ping reports backing service health for /healthz. Optional.
	Ping func(ctx context.Context) error
}

func NewRouter(h *Handlers, opts *Options, log logger.ZapLogger) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Recovery(log),
		publicCORS(opts.CORSOrigins),
		auth.Session(opts.Sessions, log),
	)

	r.GET("/healthz", health(opts.Ping, log))

	api := r.Group("/api")
	h.Order.RegisterWebhook(api)

	store := api.Group("/:storeId")
	h.Store.RegisterPublic(store)
	h.Category.RegisterPublic(store)
	h.Option.RegisterPublic(store)
	h.Navigation.RegisterPublic(store)
	h.Product.RegisterPublic(store)
	h.Order.RegisterPublic(store)

	h.Auth.Register(r.Group("/auth"))

	account := r.Group("/dashboard", auth.RequireUser(log))
	h.Store.RegisterAccount(account)

	dashboard := account.Group("/:storeId", auth.RequireStoreOwner(opts.Stores, log))
	h.Store.RegisterDashboard(dashboard)
	h.Category.RegisterDashboard(dashboard)
	h.Option.RegisterDashboard(dashboard)
	h.Navigation.RegisterDashboard(dashboard)
	h.Product.RegisterDashboard(dashboard)
	h.Inventory.RegisterDashboard(dashboard)
	h.Order.RegisterDashboard(dashboard)

	return r
}

// publicCORS applies the storefront CORS policy to /api routes. Preflight
// requests are answered here since gin has no OPTIONS routes to match.
func publicCORS(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins:       origins,
		AllowedMethods:       []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:       []string{"Content-Type", "Accept-Language", middleware.RequestIDHeader},
		ExposedHeaders:       []string{middleware.RequestIDHeader},
		MaxAge:               600,
		OptionsSuccessStatus: http.StatusNoContent,
	})
	return func(ctx *gin.Context) {
		if !strings.HasPrefix(ctx.Request.URL.Path, publicPrefix) {
			ctx.Next()
			return
		}
		if ctx.Request.Method == http.MethodOptions && ctx.GetHeader("Access-Control-Request-Method") != "" {
			c.HandlerFunc(ctx.Writer, ctx.Request)
			ctx.Abort()
			return
		}
		c.HandlerFunc(ctx.Writer, ctx.Request)
		ctx.Next()
	}
}

func health(ping func(ctx context.Context) error, log logger.ZapLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				log.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
