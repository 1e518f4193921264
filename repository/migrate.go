package repository

import (
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"github.com/StephaneWamba/genai-data-insights-platform/internal/database"
)

// Migrate applies every pending migration under migrationsPath to the
// metadata store: postgres.WithInstance over the already-open *sql.DB,
// file-sourced SQL. A nil pool or empty path is a no-op, matching the
// degraded modes where no metadata store is configured.
func Migrate(pool *database.Pool, migrationsPath string, logger *zap.Logger) error {
	if pool == nil || migrationsPath == "" {
		return nil
	}
	sqlDB, err := pool.DB().DB()
	if err != nil {
		return fmt.Errorf("repository: get sql.DB for migration: %w", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("repository: create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return fmt.Errorf("repository: create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("repository: apply migrations: %w", err)
	}
	logger.Info("metadata store migrations applied", zap.String("path", migrationsPath))
	return nil
}
