package types

// DataContextKind discriminates the DataContext tagged variant.
type DataContextKind string

const (
	DataContextSales     DataContextKind = "sales"
	DataContextInventory DataContextKind = "inventory"
	DataContextCustomer  DataContextKind = "customer"
	DataContextMetrics   DataContextKind = "metrics"
	DataContextDynamic   DataContextKind = "dynamic"
)

// DataContext is the grounding evidence fetched for a question. Every
// variant reports its row count and the set of columns it materializes.
// RowCount returns the length of the backing slice, never a separately
// tracked counter that could drift from it; MetricsContext holds a single
// aggregate record rather than a slice and always reports 1.
type DataContext interface {
	Kind() DataContextKind
	RowCount() int
	Columns() []string
}

// SalesRecord is one transaction row fetched from the warehouse's sales_data table.
type SalesRecord struct {
	Date     string
	Product  string
	Category string
	Store    string
	Quantity int
	Revenue  float64
	Cost     float64
	Profit   float64
	Region   string
}

// SalesContext is the DataContext variant for sales/revenue/profit/product/store questions.
type SalesContext struct {
	Records      []SalesRecord
	TotalRevenue float64
	TotalProfit  float64
	TopProducts  []LabeledAmount // top 5 by revenue
	TopStores    []LabeledAmount // top 3 by revenue
	MarginPct    float64
}

func (SalesContext) Kind() DataContextKind { return DataContextSales }
func (c SalesContext) RowCount() int       { return len(c.Records) }
func (SalesContext) Columns() []string {
	return []string{"date", "product", "category", "store", "quantity", "revenue", "cost", "profit", "region"}
}

// LabeledAmount is a (label, dollar amount) pair used for top-N rankings.
type LabeledAmount struct {
	Label  string
	Amount float64
}

// InventoryRecord is one (store, product) row from the inventory_data table.
type InventoryRecord struct {
	Store        string
	Product      string
	CurrentStock int
	ReorderLevel int
	Supplier     string
	Status       string
}

// InventoryContext is the DataContext variant for inventory/stock/restock/reorder questions.
type InventoryContext struct {
	Items         []InventoryRecord
	TotalStock    int
	LowStockItems []InventoryRecord // CurrentStock <= ReorderLevel
}

func (InventoryContext) Kind() DataContextKind { return DataContextInventory }
func (c InventoryContext) RowCount() int       { return len(c.Items) }
func (InventoryContext) Columns() []string {
	return []string{"store", "product", "current_stock", "reorder_level", "supplier", "status"}
}

// CustomerRecord is one customer profile with purchase aggregates.
type CustomerRecord struct {
	CustomerID     string
	Name           string
	Region         string
	TotalPurchases int
	TotalSpent     float64
	PreferredStore string
}

// CustomerContext is the DataContext variant for customer/segment/purchase questions.
type CustomerContext struct {
	Customers        []CustomerRecord
	TotalPurchases   int
	AveragePurchases float64
}

func (CustomerContext) Kind() DataContextKind { return DataContextCustomer }
func (c CustomerContext) RowCount() int       { return len(c.Customers) }
func (CustomerContext) Columns() []string {
	return []string{"customer_id", "name", "region", "total_purchases", "total_spent", "preferred_store"}
}

// MetricsContext is the DataContext variant for metric/kpi/performance/summary questions.
type MetricsContext struct {
	Revenue           float64
	Profit            float64
	MarginPct         float64
	CustomerCount     int
	AverageOrderValue float64
	InventoryTurnover float64
}

func (MetricsContext) Kind() DataContextKind { return DataContextMetrics }
func (MetricsContext) RowCount() int         { return 1 }
func (MetricsContext) Columns() []string {
	return []string{"revenue", "profit", "margin_pct", "customer_count", "average_order_value", "inventory_turnover"}
}

// DynamicContext is the fallback DataContext variant when no selection rule
// matched a warehouse source.
type DynamicContext struct {
	ColumnNames []string
	Rows        []map[string]any
	Description string
}

func (DynamicContext) Kind() DataContextKind { return DataContextDynamic }
func (c DynamicContext) RowCount() int       { return len(c.Rows) }
func (c DynamicContext) Columns() []string   { return c.ColumnNames }
