// Package warehouse implements the Analytical Store Adapter:
// read-only, retried-once access to the columnar warehouse, built over
// internal/database.Pool for connection management and gorm for querying.
// The adapter never mutates the warehouse, and it degrades to an empty
// result rather than an error on bad input or a persistent failure.
package warehouse

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/StephaneWamba/genai-data-insights-platform/internal/database"
	"github.com/StephaneWamba/genai-data-insights-platform/types"
)

// QueryRecorder receives every executed query's duration for process-wide
// metrics. A nil QueryRecorder disables forwarding.
type QueryRecorder interface {
	ObserveWarehouseQuery(operation string, seconds float64)
}

// Adapter provides typed, read-only access to the analytical store.
type Adapter struct {
	pool     *database.Pool // nil when WAREHOUSE_URL is unset: every call returns empty
	recorder QueryRecorder
	logger   *zap.Logger
}

func New(pool *database.Pool, recorder QueryRecorder, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{
		pool:     pool,
		recorder: recorder,
		logger:   logger.With(zap.String("component", "warehouse")),
	}
}

// observe reports one query's elapsed time. Called only on paths that
// actually hit the warehouse, so disabled/invalid-input shortcuts don't
// skew the histogram.
func (a *Adapter) observe(operation string, start time.Time) {
	if a.recorder != nil {
		a.recorder.ObserveWarehouseQuery(operation, time.Since(start).Seconds())
	}
}

// salesDataRow mirrors the sales_data table.
type salesDataRow struct {
	Date     time.Time `gorm:"column:date"`
	Product  string    `gorm:"column:product"`
	Category string    `gorm:"column:category"`
	Store    string    `gorm:"column:store"`
	Quantity int       `gorm:"column:quantity_sold"`
	Revenue  float64   `gorm:"column:revenue"`
	Cost     float64   `gorm:"column:cost"`
	Profit   float64   `gorm:"column:profit"`
	Region   string    `gorm:"column:region"`
}

// Sales returns the last `days` days of transaction rows. days must lie in
// [1,365]; an out-of-range value yields an empty result.
func (a *Adapter) Sales(ctx context.Context, days int) []types.SalesRecord {
	if days < 1 || days > 365 {
		a.logger.Warn("sales: days out of range, returning empty", zap.Int("days", days))
		return nil
	}
	if a.pool == nil {
		return nil
	}
	defer a.observe("sales", time.Now())

	var rows []salesDataRow
	err := a.withRetry(func() error {
		cutoff := time.Now().AddDate(0, 0, -days)
		return a.pool.DB().WithContext(ctx).
			Table("sales_data").
			Where("date >= ?", cutoff).
			Order("date, store, product").
			Find(&rows).Error
	})
	if err != nil {
		a.logger.Warn("sales: query failed after retry, returning empty", zap.Error(err))
		return nil
	}

	out := make([]types.SalesRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, types.SalesRecord{
			Date:     r.Date.Format("2006-01-02"),
			Product:  r.Product,
			Category: r.Category,
			Store:    r.Store,
			Quantity: r.Quantity,
			Revenue:  r.Revenue,
			Cost:     r.Cost,
			Profit:   r.Profit,
			Region:   r.Region,
		})
	}
	return out
}

type inventoryDataRow struct {
	Store        string `gorm:"column:store"`
	Product      string `gorm:"column:product"`
	CurrentStock int    `gorm:"column:current_stock"`
	ReorderLevel int    `gorm:"column:reorder_level"`
	Supplier     string `gorm:"column:supplier"`
	Status       string `gorm:"column:status"`
}

// Inventory returns every (store, product) stock row.
func (a *Adapter) Inventory(ctx context.Context) []types.InventoryRecord {
	if a.pool == nil {
		return nil
	}
	defer a.observe("inventory", time.Now())

	var rows []inventoryDataRow
	err := a.withRetry(func() error {
		return a.pool.DB().WithContext(ctx).Table("inventory_data").Find(&rows).Error
	})
	if err != nil {
		a.logger.Warn("inventory: query failed after retry, returning empty", zap.Error(err))
		return nil
	}

	out := make([]types.InventoryRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, types.InventoryRecord{
			Store:        r.Store,
			Product:      r.Product,
			CurrentStock: r.CurrentStock,
			ReorderLevel: r.ReorderLevel,
			Supplier:     r.Supplier,
			Status:       r.Status,
		})
	}
	return out
}

type customerDataRow struct {
	CustomerID     string  `gorm:"column:customer_id"`
	Name           string  `gorm:"column:name"`
	Region         string  `gorm:"column:region"`
	TotalPurchases int     `gorm:"column:total_purchases"`
	TotalSpent     float64 `gorm:"column:total_spent"`
	PreferredStore string  `gorm:"column:preferred_store"`
}

// Customers returns up to `limit` customer profiles. limit must lie in
// [1,10000]; an out-of-range value yields an empty result.
func (a *Adapter) Customers(ctx context.Context, limit int) []types.CustomerRecord {
	if limit < 1 || limit > 10000 {
		a.logger.Warn("customers: limit out of range, returning empty", zap.Int("limit", limit))
		return nil
	}
	if a.pool == nil {
		return nil
	}
	defer a.observe("customers", time.Now())

	var rows []customerDataRow
	err := a.withRetry(func() error {
		return a.pool.DB().WithContext(ctx).Table("customer_data").Limit(limit).Find(&rows).Error
	})
	if err != nil {
		a.logger.Warn("customers: query failed after retry, returning empty", zap.Error(err))
		return nil
	}

	out := make([]types.CustomerRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, types.CustomerRecord{
			CustomerID:     r.CustomerID,
			Name:           r.Name,
			Region:         r.Region,
			TotalPurchases: r.TotalPurchases,
			TotalSpent:     r.TotalSpent,
			PreferredStore: r.PreferredStore,
		})
	}
	return out
}

type dailyTotalsRow struct {
	Revenue          float64 `gorm:"column:revenue"`
	Profit           float64 `gorm:"column:profit"`
	CustomerCount    int     `gorm:"column:customer_count"`
	TransactionCount int     `gorm:"column:transaction_count"`
}

// Metrics computes the business metrics from the pre-aggregated per-day
// totals view, deriving margin, average order value, and turnover.
func (a *Adapter) Metrics(ctx context.Context) types.MetricsContext {
	if a.pool == nil {
		return types.MetricsContext{}
	}
	defer a.observe("metrics", time.Now())

	var row dailyTotalsRow
	err := a.withRetry(func() error {
		return a.pool.DB().WithContext(ctx).
			Table("daily_totals").
			Select("SUM(revenue) as revenue, SUM(profit) as profit, SUM(customer_count) as customer_count, SUM(transaction_count) as transaction_count").
			Scan(&row).Error
	})
	if err != nil {
		a.logger.Warn("metrics: query failed after retry, returning zero-value", zap.Error(err))
		return types.MetricsContext{}
	}

	margin := 0.0
	if row.Revenue != 0 {
		margin = row.Profit / row.Revenue * 100
	}
	aov := 0.0
	if row.TransactionCount != 0 {
		aov = row.Revenue / float64(row.TransactionCount)
	}

	return types.MetricsContext{
		Revenue:           row.Revenue,
		Profit:            row.Profit,
		MarginPct:         margin,
		CustomerCount:     row.CustomerCount,
		AverageOrderValue: aov,
		InventoryTurnover: inventoryTurnover(row.Revenue, row.Profit),
	}
}

// inventoryTurnover approximates turnover from revenue and profit
// (cost = revenue - profit); the warehouse exposes no dedicated
// cost-of-goods view to this adapter. Returns 0 when cost cannot be
// computed.
func inventoryTurnover(revenue, profit float64) float64 {
	cost := revenue - profit
	if cost <= 0 {
		return 0
	}
	return cost / revenue
}

// AggregateDimension is the closed set of pre-aggregated materialized views
// RunAggregate can read.
type AggregateDimension string

const (
	AggregateByStore   AggregateDimension = "per_store"
	AggregateByProduct AggregateDimension = "per_product"
	AggregateByDay     AggregateDimension = "per_day"
)

// AggregateSpec parameterizes RunAggregate.
type AggregateSpec struct {
	Dimension AggregateDimension
	Days      int
}

// AggregateRow is one row of a pre-aggregated view.
type AggregateRow struct {
	Key     string
	Revenue float64
	Profit  float64
}

var aggregateTables = map[AggregateDimension]string{
	AggregateByStore:   "store_daily_aggregate",
	AggregateByProduct: "product_daily_aggregate",
	AggregateByDay:     "daily_totals",
}

// RunAggregate reads a parameterized, pre-aggregated materialized view.
// An unrecognized dimension or an out-of-range Days yields an empty result.
func (a *Adapter) RunAggregate(ctx context.Context, spec AggregateSpec) []AggregateRow {
	table, ok := aggregateTables[spec.Dimension]
	if !ok {
		a.logger.Warn("run_aggregate: unknown dimension, returning empty", zap.String("dimension", string(spec.Dimension)))
		return nil
	}
	if spec.Days < 1 || spec.Days > 365 {
		a.logger.Warn("run_aggregate: days out of range, returning empty", zap.Int("days", spec.Days))
		return nil
	}
	if a.pool == nil {
		return nil
	}
	defer a.observe("run_aggregate", time.Now())

	var rows []AggregateRow
	err := a.withRetry(func() error {
		cutoff := time.Now().AddDate(0, 0, -spec.Days)
		return a.pool.DB().WithContext(ctx).
			Table(table).
			Select("key, SUM(revenue) as revenue, SUM(profit) as profit").
			Where("date >= ?", cutoff).
			Group("key").
			Scan(&rows).Error
	})
	if err != nil {
		a.logger.Warn("run_aggregate: query failed after retry, returning empty", zap.Error(err))
		return nil
	}
	return rows
}

// withRetry runs fn once, and a second time if the first attempt fails.
func (a *Adapter) withRetry(fn func() error) error {
	if err := fn(); err == nil {
		return nil
	}
	return fn()
}
