// Package intent implements the Intent Analyzer: classification of a
// question via the LLM Gateway, with a deterministic keyword fallback and
// an intent:<fingerprint> cache layer.
package intent

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/StephaneWamba/genai-data-insights-platform/config"
	"github.com/StephaneWamba/genai-data-insights-platform/internal/cache"
	"github.com/StephaneWamba/genai-data-insights-platform/llm"
	"github.com/StephaneWamba/genai-data-insights-platform/types"
)

// Analyzer classifies questions into intents.
type Analyzer struct {
	gateway *llm.Gateway
	cache   *cache.Adapter
	logger  *zap.Logger
}

func New(gateway *llm.Gateway, c *cache.Adapter, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{gateway: gateway, cache: c, logger: logger.With(zap.String("component", "intent_analyzer"))}
}

// Classify returns the Intent for questionText. A cache hit under
// intent:<fingerprint> bypasses the LLM entirely; otherwise the gateway is
// consulted, with the keyword rule table as the fallback on failure.
func (a *Analyzer) Classify(ctx context.Context, questionText, fingerprint string) types.Intent {
	key := "intent:" + fingerprint
	var cached types.Intent
	if a.cache.GetJSON(ctx, key, &cached) {
		return cached
	}

	intent, ok := a.gateway.ClassifyIntent(ctx, questionText)
	if !ok {
		intent = keywordFallback(questionText)
	}

	a.cache.SetJSON(ctx, key, intent, config.IntentCacheTTL)
	return intent
}

type keywordRule struct {
	keywords []string
	intent   types.IntentTag
}

// keywordRules is evaluated in order; first match wins.
var keywordRules = []keywordRule{
	{[]string{"trend", "pattern", "over time"}, types.IntentTrendAnalysis},
	{[]string{"compare", "vs", "versus", "difference"}, types.IntentComparison},
	{[]string{"predict", "forecast", "future"}, types.IntentPrediction},
	{[]string{"why", "cause", "reason"}, types.IntentRootCause},
	{[]string{"recommend", "suggest", "action"}, types.IntentRecommendation},
}

// keywordFallback classifies without the LLM: fixed confidence 0.6, default
// categories and data sources, and the full visualization-kind set.
func keywordFallback(questionText string) types.Intent {
	lower := strings.ToLower(questionText)
	tag := types.IntentGeneralAnalysis
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				tag = rule.intent
				goto matched
			}
		}
	}
matched:
	return types.Intent{
		Intent:      tag,
		Confidence:  0.6,
		Categories:  []string{"sales", "performance"},
		DataSources: []types.DataSourceTag{types.DataSourceSales},
		SuggestedVisualizations: []types.VisualizationKind{
			types.VizBarChart, types.VizLineChart, types.VizPieChart, types.VizDoughnutChart,
			types.VizScatterPlot, types.VizBubbleChart, types.VizRadarChart, types.VizHorizontalBarChart,
			types.VizStackedBarChart, types.VizMultiLineChart, types.VizAreaChart,
		},
	}
}
