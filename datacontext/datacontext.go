// Package datacontext implements the Data-Context Retriever: it picks
// which warehouse source to query from keywords in the question text, then
// renders a bounded, deterministic text summary for the Insight Generator.
package datacontext

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/StephaneWamba/genai-data-insights-platform/types"
	"github.com/StephaneWamba/genai-data-insights-platform/warehouse"
)

// Retriever selects and fetches the grounding data for a question.
type Retriever struct {
	warehouse *warehouse.Adapter
	logger    *zap.Logger
}

func New(wh *warehouse.Adapter, logger *zap.Logger) *Retriever {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retriever{warehouse: wh, logger: logger.With(zap.String("component", "data_context"))}
}

var (
	salesKeywords     = []string{"sale", "revenue", "profit", "product", "store"}
	inventoryKeywords = []string{"inventory", "stock", "restock", "reorder"}
	customerKeywords  = []string{"customer", "segment", "purchase"}
	metricsKeywords   = []string{"metric", "kpi", "performance", "summary"}
)

// Retrieve applies the ordered selection rules to the question text and
// returns the matching DataContext plus its bounded text summary.
func (r *Retriever) Retrieve(ctx context.Context, questionText string, _ types.Intent) (types.DataContext, string) {
	lower := strings.ToLower(questionText)

	switch {
	case containsAny(lower, salesKeywords):
		dc := r.buildSalesContext(ctx)
		return dc, formatSummary(dc)
	case containsAny(lower, inventoryKeywords):
		dc := r.buildInventoryContext(ctx)
		return dc, formatSummary(dc)
	case containsAny(lower, customerKeywords):
		dc := r.buildCustomerContext(ctx)
		return dc, formatSummary(dc)
	case containsAny(lower, metricsKeywords):
		dc := r.warehouse.Metrics(ctx)
		return dc, formatSummary(dc)
	default:
		dc := types.DynamicContext{Description: "no matched source"}
		return dc, formatSummary(dc)
	}
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func (r *Retriever) buildSalesContext(ctx context.Context) types.SalesContext {
	records := r.warehouse.Sales(ctx, 30)

	var totalRevenue, totalProfit float64
	byProduct := map[string]float64{}
	byStore := map[string]float64{}
	for _, rec := range records {
		totalRevenue += rec.Revenue
		totalProfit += rec.Profit
		byProduct[rec.Product] += rec.Revenue
		byStore[rec.Store] += rec.Revenue
	}

	// margin = total_profit / max(1, total_revenue) * 100
	denom := totalRevenue
	if denom < 1 {
		denom = 1
	}
	margin := totalProfit / denom * 100

	return types.SalesContext{
		Records:      records,
		TotalRevenue: totalRevenue,
		TotalProfit:  totalProfit,
		TopProducts:  topN(byProduct, 5),
		TopStores:    topN(byStore, 3),
		MarginPct:    margin,
	}
}

func (r *Retriever) buildInventoryContext(ctx context.Context) types.InventoryContext {
	items := r.warehouse.Inventory(ctx)

	total := 0
	var low []types.InventoryRecord
	for _, it := range items {
		total += it.CurrentStock
		if it.CurrentStock <= it.ReorderLevel {
			low = append(low, it)
		}
	}
	return types.InventoryContext{Items: items, TotalStock: total, LowStockItems: low}
}

func (r *Retriever) buildCustomerContext(ctx context.Context) types.CustomerContext {
	customers := r.warehouse.Customers(ctx, 100)

	total := 0
	for _, c := range customers {
		total += c.TotalPurchases
	}
	avg := 0.0
	if len(customers) > 0 {
		avg = float64(total) / float64(len(customers))
	}
	return types.CustomerContext{Customers: customers, TotalPurchases: total, AveragePurchases: avg}
}

// topN ranks a label->amount map by amount descending, ties broken
// lexicographically ascending by label, so the top-products and top-stores
// lists are deterministic.
func topN(byLabel map[string]float64, n int) []types.LabeledAmount {
	out := make([]types.LabeledAmount, 0, len(byLabel))
	for label, amount := range byLabel {
		out = append(out, types.LabeledAmount{Label: label, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Label < out[j].Label
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
