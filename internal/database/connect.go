package database

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens dsn with the Postgres driver, or with the pure-Go sqlite
// driver when dsn is empty (a shared in-memory database) or starts with
// "sqlite://" — the forms used by in-process tests.
func Connect(dsn string, cfg PoolConfig, logger *zap.Logger) (*Pool, error) {
	var (
		dialector gorm.Dialector
	)
	switch {
	case dsn == "":
		dialector = sqlite.Open("file::memory:?cache=shared")
	case len(dsn) >= 9 && dsn[:9] == "sqlite://":
		dialector = sqlite.Open(dsn[9:])
	default:
		dialector = postgres.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("database: open: %w", err)
	}
	return Open(db, cfg, logger)
}
