package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fekuna/omnipos-catalog-service/config"
	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	authH "github.com/fekuna/omnipos-catalog-service/internal/auth/handler"
	authRepoPkg "github.com/fekuna/omnipos-catalog-service/internal/auth/repository"
	authUCPkg "github.com/fekuna/omnipos-catalog-service/internal/auth/usecase"
	catH "github.com/fekuna/omnipos-catalog-service/internal/category/handler"
	catRepoPkg "github.com/fekuna/omnipos-catalog-service/internal/category/repository"
	catUCPkg "github.com/fekuna/omnipos-catalog-service/internal/category/usecase"
	invH "github.com/fekuna/omnipos-catalog-service/internal/inventory/handler"
	invRepoPkg "github.com/fekuna/omnipos-catalog-service/internal/inventory/repository"
	invUCPkg "github.com/fekuna/omnipos-catalog-service/internal/inventory/usecase"
	navH "github.com/fekuna/omnipos-catalog-service/internal/navigation/handler"
	navRepoPkg "github.com/fekuna/omnipos-catalog-service/internal/navigation/repository"
	navUCPkg "github.com/fekuna/omnipos-catalog-service/internal/navigation/usecase"
	optH "github.com/fekuna/omnipos-catalog-service/internal/option/handler"
	optRepoPkg "github.com/fekuna/omnipos-catalog-service/internal/option/repository"
	optUCPkg "github.com/fekuna/omnipos-catalog-service/internal/option/usecase"
	orderH "github.com/fekuna/omnipos-catalog-service/internal/order/handler"
	orderRepoPkg "github.com/fekuna/omnipos-catalog-service/internal/order/repository"
	orderUCPkg "github.com/fekuna/omnipos-catalog-service/internal/order/usecase"
	"github.com/fekuna/omnipos-catalog-service/internal/payment"
	"github.com/fekuna/omnipos-catalog-service/internal/product"
	prodH "github.com/fekuna/omnipos-catalog-service/internal/product/handler"
	prodListenerPkg "github.com/fekuna/omnipos-catalog-service/internal/product/listener"
	prodRepoPkg "github.com/fekuna/omnipos-catalog-service/internal/product/repository"
	prodUCPkg "github.com/fekuna/omnipos-catalog-service/internal/product/usecase"
	"github.com/fekuna/omnipos-catalog-service/internal/server"
	storeH "github.com/fekuna/omnipos-catalog-service/internal/store/handler"
	storeRepoPkg "github.com/fekuna/omnipos-catalog-service/internal/store/repository"
	storeUCPkg "github.com/fekuna/omnipos-catalog-service/internal/store/usecase"
	"github.com/fekuna/omnipos-catalog-service/migrations"
	"github.com/fekuna/omnipos-catalog-service/pkg/broker"
	"github.com/fekuna/omnipos-catalog-service/pkg/cache"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/fekuna/omnipos-catalog-service/pkg/search"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, the gRPC health endpoint and the search indexer",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, appLogger, err := bootstrap()
	if err != nil {
		return err
	}
	defer appLogger.Sync()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.Postgres.AutoMigrate {
		if err := migrations.Up(cmd.Context(), postgresConfig(cfg).DSN(), appLogger); err != nil {
			return err
		}
	}

	// Database
	db, err := openDatabase(cfg, appLogger)
	if err != nil {
		return err
	}
	defer db.Close()

	// Repositories
	storeRepo := storeRepoPkg.NewPGRepository(db)
	authRepo := authRepoPkg.NewPGRepository(db)
	catRepo := catRepoPkg.NewPGRepository(db)
	optRepo := optRepoPkg.NewPGRepository(db)
	navRepo := navRepoPkg.NewPGRepository(db)
	prodRepo := prodRepoPkg.NewPGRepository(db)
	invRepo := invRepoPkg.NewPGRepository(db)
	orderRepo := orderRepoPkg.NewPGRepository(db)

	// Redis
	var redisClient *cache.RedisClient
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Redis, running without cache and locks", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
			appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
		}
	}

	// Kafka producer. Product events are indexed inline when it is disabled.
	var publisher broker.Publisher
	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()
		publisher = producer
		appLogger.Info("Kafka producer ready", zap.Strings("brokers", cfg.Kafka.Brokers))
	}

	// Elasticsearch
	var esClient *search.Client
	if cfg.Elastic.Enabled {
		esClient, err = search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Elasticsearch, search falls back to SQL", zap.Error(err))
			esClient = nil
		} else {
			appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	// Use cases
	storeUC := storeUCPkg.NewStoreUseCase(storeRepo, appLogger)
	authUC := authUCPkg.NewAuthUseCase(authRepo, storeUC, appLogger)
	optUC := optUCPkg.NewOptionUseCase(optRepo, appLogger)
	navUC := navUCPkg.NewNavigationUseCase(navRepo, redisClient, cfg.Redis.ListCacheTTL, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, redisClient, esClient, publisher, prodUCPkg.Settings{
		SearchIndex:  cfg.Elastic.Index,
		EventTopic:   cfg.Kafka.CatalogTopic,
		ListCacheTTL: cfg.Redis.ListCacheTTL,
	}, appLogger)
	catUC := catUCPkg.NewCategoryUseCase(catRepo, appLogger, navUC, prodUC)
	invUC := invUCPkg.NewInventoryUseCase(invRepo, redisClient, prodUC, appLogger)
	gateway := payment.NewStripeGateway(&payment.StripeConfig{
		SecretKey:     cfg.Payment.StripeSecretKey,
		WebhookSecret: cfg.Payment.StripeWebhookSecret,
	})
	orderUC := orderUCPkg.NewOrderUseCase(orderRepo, invUC, gateway, redisClient, publisher, prodUC, orderUCPkg.Settings{
		DefaultCurrency: cfg.Payment.DefaultCurrency,
		EventTopic:      cfg.Kafka.OrderTopic,
	}, appLogger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Search indexer
	if esClient != nil {
		indexer := product.NewIndexer(esClient, cfg.Elastic.Index, appLogger)
		if err := indexer.EnsureIndex(ctx); err != nil {
			appLogger.Warn("Could not ensure product index", zap.String("index", cfg.Elastic.Index), zap.Error(err))
		}
		if cfg.Kafka.Enabled {
			consumer := broker.NewConsumer(&broker.Config{
				Brokers: cfg.Kafka.Brokers,
				Topic:   cfg.Kafka.CatalogTopic,
				GroupID: cfg.Kafka.IndexerGroup,
			})
			defer consumer.Close()
			go prodListenerPkg.NewIndexListener(consumer, indexer, appLogger).Start(ctx)
		}
	}

	// HTTP
	sessions := auth.NewSessionManager(&auth.SessionConfig{
		SecretKey:  cfg.Session.SecretKey,
		TTL:        cfg.Session.TTL,
		CookieName: cfg.Session.CookieName,
		Secure:     cfg.Session.Secure,
	})
	router := server.NewRouter(&server.Handlers{
		Auth:       authH.NewAuthHandler(authUC, sessions, appLogger),
		Store:      storeH.NewStoreHandler(storeUC, appLogger),
		Category:   catH.NewCategoryHandler(catUC, appLogger),
		Option:     optH.NewOptionHandler(optUC, appLogger),
		Navigation: navH.NewNavigationHandler(navUC, appLogger),
		Product:    prodH.NewProductHandler(prodUC, appLogger),
		Inventory:  invH.NewInventoryHandler(invUC, appLogger),
		Order:      orderH.NewOrderHandler(orderUC, appLogger),
	}, &server.Options{
		CORSOrigins: cfg.Server.CORSOrigins,
		Sessions:    sessions,
		Stores:      storeUC,
		Ping:        db.PingContext,
	}, appLogger)

	httpServer := &http.Server{
		Addr:    listenAddr(cfg.Server.HTTPPort),
		Handler: router,
	}
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// gRPC health
	grpcServer, err := startGRPC(cfg, appLogger)
	if err != nil {
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	cancel()
	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer stop()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP shutdown failed", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
	return nil
}

func startGRPC(cfg *config.Config, log logger.ZapLogger) (*grpc.Server, error) {
	lis, err := net.Listen("tcp", listenAddr(cfg.Server.GRPCPort))
	if err != nil {
		return nil, err
	}

	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	go func() {
		log.Info("Starting gRPC health server", zap.String("addr", lis.Addr().String()))
		if err := grpcServer.Serve(lis); err != nil {
			log.Error("gRPC server stopped", zap.Error(err))
		}
	}()
	return grpcServer, nil
}

func listenAddr(port string) string {
	if !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
