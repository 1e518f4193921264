package datacontext

import (
	"fmt"
	"sort"
	"strings"

	"github.com/StephaneWamba/genai-data-insights-platform/types"
)

const summaryMaxLen = 4000

// formatSummary renders a DataContext variant into the bounded,
// deterministic text summary fed to the Insight Generator. It is a pure
// function of its input and switches exhaustively over the variants.
func formatSummary(dc types.DataContext) string {
	var b strings.Builder

	switch v := dc.(type) {
	case types.SalesContext:
		writeSalesSummary(&b, v)
	case types.InventoryContext:
		writeInventorySummary(&b, v)
	case types.CustomerContext:
		writeCustomerSummary(&b, v)
	case types.MetricsContext:
		writeMetricsSummary(&b, v)
	case types.DynamicContext:
		writeDynamicSummary(&b, v)
	default:
		b.WriteString("no matched source")
	}

	return truncate(b.String(), summaryMaxLen)
}

func writeSalesSummary(b *strings.Builder, ctx types.SalesContext) {
	fmt.Fprintf(b, "Sales: %d records, total revenue $%s, total profit $%s, margin %.2f%%\n",
		len(ctx.Records), formatMoney(ctx.TotalRevenue), formatMoney(ctx.TotalProfit), ctx.MarginPct)

	for _, p := range ctx.TopProducts {
		fmt.Fprintf(b, "%s: $%s\n", p.Label, formatMoney(p.Amount))
	}
	for _, s := range ctx.TopStores {
		fmt.Fprintf(b, "%s: $%s\n", s.Label, formatMoney(s.Amount))
	}

	sample := ctx.Records
	if len(sample) > 5 {
		sample = sample[:5]
	}
	for _, r := range sample {
		fmt.Fprintf(b, "%s: %s at %s - Qty: %d, Revenue: $%s, Profit: $%s\n",
			r.Date, r.Product, r.Store, r.Quantity, formatMoney(r.Revenue), formatMoney(r.Profit))
	}
}

func writeInventorySummary(b *strings.Builder, ctx types.InventoryContext) {
	fmt.Fprintf(b, "Inventory: %d items, total stock %d units, %d low-stock alerts\n",
		len(ctx.Items), ctx.TotalStock, len(ctx.LowStockItems))

	alerts := ctx.LowStockItems
	if len(alerts) > 5 {
		alerts = alerts[:5]
	}
	for _, a := range alerts {
		fmt.Fprintf(b, "%s at %s: %d units (reorder level: %d)\n", a.Product, a.Store, a.CurrentStock, a.ReorderLevel)
	}
}

func writeCustomerSummary(b *strings.Builder, ctx types.CustomerContext) {
	fmt.Fprintf(b, "Customers: %d customers, %d total purchases, %.2f average purchases\n",
		len(ctx.Customers), ctx.TotalPurchases, ctx.AveragePurchases)

	sample := ctx.Customers
	if len(sample) > 3 {
		sample = sample[:3]
	}
	for _, c := range sample {
		fmt.Fprintf(b, "%s: %d purchases, $%s spent\n", c.Name, c.TotalPurchases, formatMoney(c.TotalSpent))
	}
}

func writeMetricsSummary(b *strings.Builder, ctx types.MetricsContext) {
	fmt.Fprintf(b, "revenue: $%s\n", formatMoney(ctx.Revenue))
	fmt.Fprintf(b, "profit: $%s\n", formatMoney(ctx.Profit))
	fmt.Fprintf(b, "margin_pct: %.2f\n", ctx.MarginPct)
	fmt.Fprintf(b, "customer_count: %d\n", ctx.CustomerCount)
	fmt.Fprintf(b, "average_order_value: $%s\n", formatMoney(ctx.AverageOrderValue))
	fmt.Fprintf(b, "inventory_turnover: %.2f\n", ctx.InventoryTurnover)
}

func writeDynamicSummary(b *strings.Builder, ctx types.DynamicContext) {
	if len(ctx.Rows) == 0 {
		fmt.Fprintf(b, "%s\n", orDefault(ctx.Description, "no matched source"))
		return
	}

	cols := append([]string(nil), ctx.ColumnNames...)
	sort.Strings(cols)
	fmt.Fprintf(b, "columns: %s\n", strings.Join(cols, ", "))

	rows := ctx.Rows
	if len(rows) > 10 {
		rows = rows[:10]
	}
	for _, row := range rows {
		var cells []string
		for _, col := range ctx.ColumnNames {
			cells = append(cells, fmt.Sprintf("%s: %s", col, formatCell(row[col])))
		}
		b.WriteString(strings.Join(cells, ", "))
		b.WriteString("\n")
	}
}

func formatCell(v any) string {
	switch n := v.(type) {
	case float64:
		return formatMoney(n)
	case int:
		return fmt.Sprintf("%d", n)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// formatMoney renders a float with thousand separators and two decimals.
func formatMoney(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	whole := int64(v)
	frac := int64((v-float64(whole))*100 + 0.5)
	if frac >= 100 {
		whole++
		frac -= 100
	}

	digits := fmt.Sprintf("%d", whole)
	var grouped strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(d)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%s%s.%02d", sign, grouped.String(), frac)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// truncate tail-trims s to at most max characters, appending an ellipsis
// when truncation occurs.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
