//go:build integration

// Package testdb starts a throwaway PostgreSQL container with the schema
// applied, for tests built with the integration tag.
package testdb

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/omnipos-catalog-service/migrations"
	"github.com/fekuna/omnipos-catalog-service/pkg/database/postgres"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Start runs postgres, applies the migrations and returns a connected pool.
// The container is terminated when the test ends.
func Start(t *testing.T) *sqlx.DB {
	t.Helper()
	db, _ := StartDSN(t)
	return db
}

// StartDSN is Start that also returns the connection string.
func StartDSN(t *testing.T) (*sqlx.DB, string) {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("catalog"),
		tcpostgres.WithUsername("catalog"),
		tcpostgres.WithPassword("catalog"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, migrations.Up(ctx, dsn, logger.NewNop()))

	db, err := postgres.Open(dsn, nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, dsn
}

// SeedStore inserts a user and a store owned by it and returns their ids.
func SeedStore(t *testing.T, db *sqlx.DB) (userID, storeID string) {
	t.Helper()
	userID, storeID = uuid.NewString(), uuid.NewString()
	_, err := db.Exec(`INSERT INTO users (id, email, password_hash) VALUES ($1, $2, 'x')`,
		userID, userID+"@example.com")
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO stores (id, user_id, name) VALUES ($1, $2, $3)`,
		storeID, userID, "store-"+storeID)
	require.NoError(t, err)
	return userID, storeID
}
