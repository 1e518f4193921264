// Package visualization implements the Visualization Builder: it maps
// an Intent and DataContext to at most 3 chart specifications; an empty
// DataContext yields none.
package visualization

import (
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/StephaneWamba/genai-data-insights-platform/types"
)

const maxDataPoints = 50

// Builder maps an Intent and DataContext to chart specifications.
type Builder struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{logger: logger.With(zap.String("component", "visualization_builder"))}
}

// preferredKinds is the fallback selection table used when Intent carries
// no suggested visualizations.
var preferredKinds = map[types.IntentTag][]types.VisualizationKind{
	types.IntentTrendAnalysis:   {types.VizLineChart, types.VizAreaChart, types.VizMultiLineChart},
	types.IntentComparison:      {types.VizBarChart, types.VizHorizontalBarChart, types.VizRadarChart},
	types.IntentPrediction:      {types.VizLineChart, types.VizScatterPlot},
	types.IntentRootCause:       {types.VizBarChart, types.VizStackedBarChart},
	types.IntentRecommendation:  {types.VizDoughnutChart, types.VizPieChart, types.VizBarChart},
	types.IntentGeneralAnalysis: {types.VizBarChart},
}

// Build returns up to 3 Visualizations for the given Intent/DataContext.
func (b *Builder) Build(intent types.Intent, dc types.DataContext) []types.Visualization {
	if dc.RowCount() == 0 {
		return nil
	}

	kinds := intent.SuggestedVisualizations
	if len(kinds) == 0 {
		kinds = preferredKinds[intent.Intent]
	}
	if len(kinds) > 3 {
		kinds = kinds[:3]
	}

	dims := primaryDimension(dc)
	measures := measuresFor(dc)

	out := make([]types.Visualization, 0, len(kinds))
	for _, kind := range kinds {
		labels, values := boundedSeries(dims, measures)
		datasets := make([]types.ChartDataset, 0, len(values))
		for _, m := range values {
			datasets = append(datasets, types.ChartDataset{Label: m.label, Data: m.data})
		}

		out = append(out, types.Visualization{
			Kind:        kind,
			Title:       string(dc.Kind()) + " overview",
			DataSource:  string(dc.Kind()),
			DataPoints:  len(labels),
			ColumnsUsed: dc.Columns(),
			ChartData: types.ChartData{
				Labels:   labels,
				Datasets: datasets,
				Options: types.ChartOptions{
					Title:      string(dc.Kind()) + " overview",
					XAxisLabel: "category",
					YAxisLabel: "value",
				},
			},
		})
	}
	return out
}

type dimensionPoint struct {
	label   string
	measure float64 // primary measure, used for top-N ranking
}

type measureSeries struct {
	label string
	data  []float64
}

// primaryDimension extracts (label, primary-measure) pairs from dc's
// records, per variant: product for sales and inventory, customer name for
// customer data.
func primaryDimension(dc types.DataContext) []dimensionPoint {
	switch v := dc.(type) {
	case types.SalesContext:
		pts := make([]dimensionPoint, 0, len(v.Records))
		for _, r := range v.Records {
			pts = append(pts, dimensionPoint{label: r.Product, measure: r.Revenue})
		}
		return pts
	case types.InventoryContext:
		pts := make([]dimensionPoint, 0, len(v.Items))
		for _, it := range v.Items {
			pts = append(pts, dimensionPoint{label: it.Product, measure: float64(it.CurrentStock)})
		}
		return pts
	case types.CustomerContext:
		pts := make([]dimensionPoint, 0, len(v.Customers))
		for _, c := range v.Customers {
			pts = append(pts, dimensionPoint{label: c.Name, measure: float64(c.TotalPurchases)})
		}
		return pts
	case types.MetricsContext:
		return []dimensionPoint{{label: "overview", measure: v.Revenue}}
	case types.DynamicContext:
		pts := make([]dimensionPoint, 0, len(v.Rows))
		for i := range v.Rows {
			pts = append(pts, dimensionPoint{label: indexLabel(i), measure: 0})
		}
		return pts
	default:
		return nil
	}
}

func indexLabel(i int) string {
	return "row_" + strconv.Itoa(i)
}

// measuresFor selects the measure series for a DataContext variant: one
// dataset per measure (revenue and profit for sales and metrics, stock for
// inventory, purchases for customers; none for dynamic rows).
func measuresFor(dc types.DataContext) []measureSeries {
	switch v := dc.(type) {
	case types.SalesContext:
		revenue := make([]float64, len(v.Records))
		profit := make([]float64, len(v.Records))
		for i, r := range v.Records {
			revenue[i] = r.Revenue
			profit[i] = r.Profit
		}
		return []measureSeries{{"revenue", revenue}, {"profit", profit}}
	case types.InventoryContext:
		stock := make([]float64, len(v.Items))
		for i, it := range v.Items {
			stock[i] = float64(it.CurrentStock)
		}
		return []measureSeries{{"stock", stock}}
	case types.CustomerContext:
		purchases := make([]float64, len(v.Customers))
		for i, c := range v.Customers {
			purchases[i] = float64(c.TotalPurchases)
		}
		return []measureSeries{{"purchases", purchases}}
	case types.MetricsContext:
		return []measureSeries{{"revenue", []float64{v.Revenue}}, {"profit", []float64{v.Profit}}}
	default:
		return nil
	}
}

// boundedSeries applies a top-50, tie-broken-by-label bound, reordering
// every measure series to match the chosen label order.
func boundedSeries(points []dimensionPoint, measures []measureSeries) ([]string, []measureSeries) {
	order := make([]int, len(points))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := points[order[i]], points[order[j]]
		if a.measure != b.measure {
			return a.measure > b.measure
		}
		return a.label < b.label
	})
	if len(order) > maxDataPoints {
		order = order[:maxDataPoints]
	}

	labels := make([]string, len(order))
	for i, idx := range order {
		labels[i] = points[idx].label
	}

	reordered := make([]measureSeries, len(measures))
	for mi, m := range measures {
		data := make([]float64, len(order))
		for i, idx := range order {
			if idx < len(m.data) {
				data[i] = m.data[idx]
			}
		}
		reordered[mi] = measureSeries{label: m.label, data: data}
	}
	return labels, reordered
}
