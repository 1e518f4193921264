// Package insightgen implements the Insight Generator: it feeds the
// question text and data-context summary to the LLM Gateway, validates the
// returned insights, and derives the deduplicated recommendation list.
package insightgen

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/StephaneWamba/genai-data-insights-platform/llm"
	"github.com/StephaneWamba/genai-data-insights-platform/types"
)

// Generator produces insights from a question and its data summary.
type Generator struct {
	gateway *llm.Gateway
	logger  *zap.Logger
}

func New(gateway *llm.Gateway, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{gateway: gateway, logger: logger.With(zap.String("component", "insight_generator"))}
}

// Generate returns 1-3 insights for the question, falling back to the
// single deterministic "General Business Analysis" insight when the
// gateway fails.
func (g *Generator) Generate(ctx context.Context, questionText, contextSummary string) []types.Insight {
	insights, ok := g.gateway.GenerateInsights(ctx, questionText, contextSummary)
	if ok {
		return insights
	}
	return []types.Insight{fallbackInsight()}
}

func fallbackInsight() types.Insight {
	return types.Insight{
		Title:        "General Business Analysis",
		Description:  "The LLM provider was unavailable; this is a degraded-mode placeholder insight.",
		Category:     types.InsightSummary,
		Confidence:   0.6,
		ActionItems:  []string{"Review data regularly", "Monitor key metrics"},
		DataEvidence: []string{"Based on query analysis"},
		DataSources:  []types.DataSourceTag{types.DataSourceFallback},
		CreatedAt:    time.Now(),
	}
}

// Recommendations composes the recommendation list from every insight's
// action items: order preserved, duplicates removed case-insensitively,
// two defaults appended if the result is empty.
func Recommendations(insights []types.Insight) []string {
	seen := map[string]bool{}
	var out []string
	for _, ins := range insights {
		for _, item := range ins.ActionItems {
			key := strings.ToLower(strings.TrimSpace(item))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		out = []string{"Monitor trend continuation", "Consider implementing suggested actions"}
	}
	return out
}
