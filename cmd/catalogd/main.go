package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fekuna/omnipos-catalog-service/config"
	"github.com/fekuna/omnipos-catalog-service/pkg/database/postgres"
	"github.com/fekuna/omnipos-catalog-service/pkg/i18n"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	envFile    string
	localeFile string
)

var rootCmd = &cobra.Command{
	Use:   "catalogd",
	Short: "Multi-tenant storefront catalog and checkout service",
	Long: `catalogd serves the storefront API, the store owner dashboard and the
payment webhook for every store in one database.

Running it without a subcommand is the same as "catalogd serve".`,
	SilenceUsage: true,
	RunE:         runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Env file to load before reading configuration")
	rootCmd.PersistentFlags().StringVar(&localeFile, "locale", "", "Extra go-i18n message file overriding the embedded messages")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

// bootstrap loads configuration and the logger shared by every command.
func bootstrap() (*config.Config, logger.ZapLogger, error) {
	_ = godotenv.Load(envFile)
	cfg := config.LoadEnv()

	appLogger := logger.NewZapLogger(&logger.ZapLoggerConfig{
		IsDevelopment:     cfg.IsDevelopment(),
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	})

	if err := i18n.Init(); err != nil {
		return nil, nil, fmt.Errorf("load messages: %w", err)
	}
	if localeFile != "" {
		if err := i18n.Load(localeFile); err != nil {
			appLogger.Warn("Failed to load locale override", zap.String("path", localeFile), zap.Error(err))
		}
	}
	return cfg, appLogger, nil
}

func postgresConfig(cfg *config.Config) *postgres.Config {
	return &postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	}
}

func openDatabase(cfg *config.Config, log logger.ZapLogger) (*sqlx.DB, error) {
	db, err := postgres.NewPostgres(postgresConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	log.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))
	return db, nil
}
