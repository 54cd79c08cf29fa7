// Package migrations embeds the schema and applies it with golang-migrate.
package migrations

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/fekuna/omnipos-catalog-service/pkg/database/postgres"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed *.sql
var files embed.FS

type Migration struct {
	Version uint
	Name    string
}

// Load lists the embedded migrations in version order.
func Load() ([]Migration, error) {
	src, err := iofs.New(files, ".")
	if err != nil {
		return nil, err
	}
	defer src.Close()

	var out []Migration
	version, err := src.First()
	for err == nil {
		r, name, readErr := src.ReadUp(version)
		if readErr != nil {
			return nil, readErr
		}
		r.Close()
		out = append(out, Migration{Version: version, Name: name})
		version, err = src.Next(version)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return out, nil
}

// Up applies every pending migration. golang-migrate holds an advisory lock
// while it runs, so concurrent instances apply each migration once.
// Cancelling ctx stops after the migration in progress.
func Up(ctx context.Context, dsn string, log logger.ZapLogger) error {
	m, err := open(dsn, log)
	if err != nil {
		return err
	}
	defer closeMigrate(m, log)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			m.GracefulStop <- true
		case <-done:
		}
	}()

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("Schema is up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	if version, _, err := m.Version(); err == nil {
		log.Info("Migrations applied", zap.Uint("version", version))
	}
	return nil
}

// Version reports the applied schema version, 0 before the first migration.
// dirty is set when a migration failed halfway and needs manual repair.
func Version(dsn string, log logger.ZapLogger) (version uint, dirty bool, err error) {
	m, err := open(dsn, log)
	if err != nil {
		return 0, false, err
	}
	defer closeMigrate(m, log)

	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// open gives golang-migrate a pool of its own; closing the migrator closes
// the pool with it.
func open(dsn string, log logger.ZapLogger) (*migrate.Migrate, error) {
	db, err := postgres.Open(dsn, nil)
	if err != nil {
		return nil, err
	}
	driver, err := pgxmigrate.WithInstance(db.DB, &pgxmigrate.Config{})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("migration driver: %w", err)
	}
	src, err := iofs.New(files, ".")
	if err != nil {
		driver.Close()
		return nil, err
	}
	m, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		src.Close()
		driver.Close()
		return nil, err
	}
	m.Log = migrateLogger{log: log}
	return m, nil
}

func closeMigrate(m *migrate.Migrate, log logger.ZapLogger) {
	srcErr, dbErr := m.Close()
	if err := errors.Join(srcErr, dbErr); err != nil {
		log.Warn("Failed to close migrator", zap.Error(err))
	}
}

// migrateLogger routes golang-migrate's progress lines to zap.
type migrateLogger struct {
	log logger.ZapLogger
}

func (l migrateLogger) Printf(format string, v ...any) {
	l.log.Debug(fmt.Sprintf(format, v...))
}

func (l migrateLogger) Verbose() bool { return false }
