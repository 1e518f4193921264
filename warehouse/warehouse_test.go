package warehouse

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/StephaneWamba/genai-data-insights-platform/internal/database"
)

func TestSalesDaysOutOfRangeReturnsEmpty(t *testing.T) {
	a := New(nil, nil, zap.NewNop())
	assert.Empty(t, a.Sales(context.Background(), 0))
	assert.Empty(t, a.Sales(context.Background(), 366))
}

func TestCustomersLimitOutOfRangeReturnsEmpty(t *testing.T) {
	a := New(nil, nil, zap.NewNop())
	assert.Empty(t, a.Customers(context.Background(), 0))
	assert.Empty(t, a.Customers(context.Background(), 10001))
}

func TestNilPoolYieldsEmptyResultsNeverPanics(t *testing.T) {
	a := New(nil, nil, zap.NewNop())
	ctx := context.Background()

	assert.Empty(t, a.Sales(ctx, 30))
	assert.Empty(t, a.Inventory(ctx))
	assert.Empty(t, a.Customers(ctx, 100))
	assert.Equal(t, 0.0, a.Metrics(ctx).Revenue)
}

func TestRunAggregateUnknownDimensionReturnsEmpty(t *testing.T) {
	a := New(nil, nil, zap.NewNop())
	out := a.RunAggregate(context.Background(), AggregateSpec{Dimension: "not_real", Days: 30})
	assert.Empty(t, out)
}

func TestRunAggregateDaysOutOfRangeReturnsEmpty(t *testing.T) {
	a := New(nil, nil, zap.NewNop())
	out := a.RunAggregate(context.Background(), AggregateSpec{Dimension: AggregateByStore, Days: 0})
	assert.Empty(t, out)
}

func setupMockPool(t *testing.T) (sqlmock.Sqlmock, *database.Pool) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{Conn: mockDB})
	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	require.NoError(t, err)

	pool, err := database.Open(gormDB, database.PoolConfig{MaxOpenConns: 5, MaxIdleConns: 2}, zap.NewNop())
	require.NoError(t, err)
	return mock, pool
}

func TestInventoryQueriesThePool(t *testing.T) {
	mock, pool := setupMockPool(t)
	defer pool.Close()

	rows := sqlmock.NewRows([]string{"store", "product", "current_stock", "reorder_level", "supplier", "status"}).
		AddRow("paris-1", "hats", 3, 10, "acme", "low")
	mock.ExpectQuery(`SELECT \* FROM "inventory_data"`).WillReturnRows(rows)

	a := New(pool, nil, zap.NewNop())
	out := a.Inventory(context.Background())
	require.Len(t, out, 1)
	assert.Equal(t, "hats", out[0].Product)
	assert.Equal(t, 3, out[0].CurrentStock)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryRetriesOnceThenEmptyOnPersistentFailure(t *testing.T) {
	mock, pool := setupMockPool(t)
	defer pool.Close()

	mock.ExpectQuery(`SELECT \* FROM "inventory_data"`).WillReturnError(sql.ErrConnDone)
	mock.ExpectQuery(`SELECT \* FROM "inventory_data"`).WillReturnError(sql.ErrConnDone)

	a := New(pool, nil, zap.NewNop())
	out := a.Inventory(context.Background())
	assert.Empty(t, out)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMetricsDerivesMarginAndAOV(t *testing.T) {
	mock, pool := setupMockPool(t)
	defer pool.Close()

	rows := sqlmock.NewRows([]string{"revenue", "profit", "customer_count", "transaction_count"}).
		AddRow(1000.0, 200.0, 10, 50)
	mock.ExpectQuery(`SELECT SUM\(revenue\)`).WillReturnRows(rows)

	a := New(pool, nil, zap.NewNop())
	m := a.Metrics(context.Background())
	assert.Equal(t, 1000.0, m.Revenue)
	// margin = profit/revenue*100, AOV = revenue/transaction_count
	assert.Equal(t, 20.0, m.MarginPct)
	assert.Equal(t, 20.0, m.AverageOrderValue)
}

func TestMetricsZeroRevenueYieldsZeroMargin(t *testing.T) {
	mock, pool := setupMockPool(t)
	defer pool.Close()

	rows := sqlmock.NewRows([]string{"revenue", "profit", "customer_count", "transaction_count"}).
		AddRow(0.0, 0.0, 0, 0)
	mock.ExpectQuery(`SELECT SUM\(revenue\)`).WillReturnRows(rows)

	a := New(pool, nil, zap.NewNop())
	m := a.Metrics(context.Background())
	assert.Equal(t, 0.0, m.MarginPct)
	assert.Equal(t, 0.0, m.AverageOrderValue)
}
