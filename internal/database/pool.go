// Package database wraps a *gorm.DB with pool tuning, health checks and
// retryable transactions. Both the Analytical Store Adapter and the Query
// Repository construct their own Pool, each over its own gorm dialector
// (Postgres in production, sqlite in tests).
package database

import (
	"context"
	gosql "database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PoolConfig tunes the underlying sql.DB connection pool.
type PoolConfig struct {
	MaxOpenConns        int
	MaxIdleConns        int
	ConnMaxLifetime     time.Duration
	HealthCheckInterval time.Duration
}

// Pool wraps a *gorm.DB with lifecycle management: tuned limits, a
// background health-check loop, and retryable transactions.
type Pool struct {
	db     *gorm.DB
	sqlDB  *gosql.DB
	cfg    PoolConfig
	logger *zap.Logger
	mu     sync.RWMutex
	closed bool
}

// Open wraps an already-opened *gorm.DB (the caller chooses the dialector:
// postgres in production, sqlite in tests) and applies pool tuning.
func Open(db *gorm.DB, cfg PoolConfig, logger *zap.Logger) (*Pool, error) {
	if db == nil {
		return nil, fmt.Errorf("database: db cannot be nil")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database: get underlying sql.DB: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	p := &Pool{
		db:     db,
		sqlDB:  sqlDB,
		cfg:    cfg,
		logger: logger.With(zap.String("component", "db_pool")),
	}

	if cfg.HealthCheckInterval > 0 {
		go p.healthCheckLoop()
	}

	p.logger.Info("database pool initialized",
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.MaxIdleConns),
	)
	return p, nil
}

// DB returns the wrapped gorm handle.
func (p *Pool) DB() *gorm.DB {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.db
}

// Ping checks the connection is live.
func (p *Pool) Ping(ctx context.Context) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return fmt.Errorf("database: pool is closed")
	}
	return p.sqlDB.PingContext(ctx)
}

// Close releases the pool's connections.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.sqlDB.Close()
}

func (p *Pool) healthCheckLoop() {
	ticker := time.NewTicker(p.cfg.HealthCheckInterval)
	defer ticker.Stop()
	for range ticker.C {
		p.mu.RLock()
		if p.closed {
			p.mu.RUnlock()
			return
		}
		p.mu.RUnlock()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := p.Ping(ctx); err != nil {
			p.logger.Warn("database health check failed", zap.Error(err))
		}
		cancel()
	}
}

// TxFunc is a unit of work run inside a transaction.
type TxFunc func(tx *gorm.DB) error

// WithTransaction runs fn inside a single transaction.
func (p *Pool) WithTransaction(ctx context.Context, fn TxFunc) error {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return fmt.Errorf("database: pool is closed")
	}
	db := p.db
	p.mu.RUnlock()
	return db.WithContext(ctx).Transaction(fn)
}

const (
	retryBaseDelay = 50 * time.Millisecond
	retryMaxDelay  = time.Second
)

// retryableSubstrings marks transaction errors worth retrying: lock
// contention and serialization conflicts (Postgres SQLSTATE 40001) plus
// the usual dropped-connection messages.
var retryableSubstrings = []string{
	"deadlock",
	"serialization failure",
	"40001",
	"connection reset",
	"connection refused",
	"broken pipe",
	"bad connection",
}

// WithTransactionRetry runs fn inside a transaction, retrying retryable
// errors with a doubling delay capped at retryMaxDelay. A non-retryable
// error returns immediately.
func (p *Pool) WithTransactionRetry(ctx context.Context, maxRetries int, fn TxFunc) error {
	delay := retryBaseDelay
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		err := p.WithTransaction(ctx, fn)
		if err == nil {
			return nil
		}
		if !isRetryableError(err) {
			return err
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		if delay *= 2; delay > retryMaxDelay {
			delay = retryMaxDelay
		}
	}
	return fmt.Errorf("database: transaction failed after %d retries: %w", maxRetries, lastErr)
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, sub := range retryableSubstrings {
		if strings.Contains(msg, sub) {
			return true
		}
	}
	return false
}
