package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	tiktoken "github.com/pkoukk/tiktoken-go"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/StephaneWamba/genai-data-insights-platform/types"
)

// Config configures the LLM Gateway.
type Config struct {
	Model           string
	CostPer1KTokens float64
	MinInterval     time.Duration
	Timeout         time.Duration
}

// UsageRecorder receives each outbound call's outcome and usage for
// process-wide metrics. A nil UsageRecorder disables forwarding; the
// CostLedger is kept either way.
type UsageRecorder interface {
	ObserveLLMCall(operation, status string)
	AddLLMUsage(tokens int, cost float64)
}

// Gateway is the single outbound channel to the LLM provider. It owns rate
// limiting and cost accounting as process-wide state and is injected into
// every component that needs LLM access, rather than living as a
// module-level singleton.
type Gateway struct {
	provider Provider
	cfg      Config
	limiter  *rate.Limiter
	ledger   *CostLedger
	recorder UsageRecorder
	logger   *zap.Logger
	enc      *tiktoken.Tiktoken
}

// New builds a Gateway. A nil provider (e.g. because LLM_API_KEY was empty)
// is valid: every call immediately reports failure so the caller applies
// its deterministic fallback.
func New(provider Provider, cfg Config, recorder UsageRecorder, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = 100 * time.Millisecond
	}
	enc, _ := tiktoken.GetEncoding("cl100k_base")
	return &Gateway{
		provider: provider,
		cfg:      cfg,
		limiter:  rate.NewLimiter(rate.Every(cfg.MinInterval), 1),
		ledger:   &CostLedger{},
		recorder: recorder,
		logger:   logger.With(zap.String("component", "llm_gateway")),
		enc:      enc,
	}
}

func (g *Gateway) observe(operation, status string) {
	if g.recorder != nil {
		g.recorder.ObserveLLMCall(operation, status)
	}
}

// Ledger exposes the process-wide cost ledger for reporting.
func (g *Gateway) Ledger() *CostLedger { return g.ledger }

// intentResponseSchema is the structured-output contract for classification.
type intentResponseSchema struct {
	Intent                  string   `json:"intent"`
	Confidence              float64  `json:"confidence"`
	Categories              []string `json:"categories"`
	DataSources             []string `json:"data_sources"`
	SuggestedVisualizations []string `json:"suggested_visualizations"`
}

const intentSystemPrompt = `You are a classification engine for a retail business-intelligence system. Classify the user's question into exactly one of these intents: trend_analysis, comparison, prediction, root_cause, recommendation, general_analysis.

Return ONLY a JSON object, no prose, matching this shape:
{"intent":"<one of the intents above>","confidence":<0..1>,"categories":["..."],"data_sources":["sales_data"|"inventory_data"|"customer_data"|"business_metrics", ...],"suggested_visualizations":["bar_chart"|"line_chart"|"pie_chart"|"doughnut_chart"|"scatter_plot"|"bubble_chart"|"radar_chart"|"horizontal_bar_chart"|"stacked_bar_chart"|"multi_line_chart"|"area_chart", ...]}

categories, data_sources and suggested_visualizations must each be non-empty.`

// ClassifyIntent classifies the question into an Intent. On any provider
// failure or schema violation it returns (zero, false) so the caller falls
// through to its keyword rule; it never returns an error.
func (g *Gateway) ClassifyIntent(ctx context.Context, questionText string) (types.Intent, bool) {
	if g.provider == nil {
		return types.Intent{}, false
	}
	if err := g.limiter.Wait(ctx); err != nil {
		g.logger.Warn("llm rate-limit wait cancelled", zap.Error(err))
		return types.Intent{}, false
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	resp, err := g.provider.Complete(ctx, CompletionRequest{
		Model: g.cfg.Model,
		Messages: []Message{
			{Role: RoleSystem, Content: intentSystemPrompt},
			{Role: RoleUser, Content: questionText},
		},
		Temperature: 0.2,
		MaxTokens:   300,
	})
	if err != nil {
		g.logger.Warn("llm classify_intent unavailable, falling back", zap.Error(err))
		g.observe("classify_intent", "error")
		return types.Intent{}, false
	}

	var parsed intentResponseSchema
	if err := json.Unmarshal([]byte(extractJSON(resp.Content)), &parsed); err != nil {
		g.logger.Warn("llm classify_intent schema violation, falling back", zap.Error(err))
		g.observe("classify_intent", "schema_error")
		return types.Intent{}, false
	}
	if len(parsed.Categories) == 0 || len(parsed.DataSources) == 0 || len(parsed.SuggestedVisualizations) == 0 {
		g.logger.Warn("llm classify_intent missing required fields, falling back")
		g.observe("classify_intent", "schema_error")
		return types.Intent{}, false
	}

	intent := types.Intent{
		Intent:                  types.IntentTag(parsed.Intent),
		Confidence:              clamp01(parsed.Confidence),
		Categories:              parsed.Categories,
		DataSources:             toDataSourceTags(parsed.DataSources),
		SuggestedVisualizations: toVisualizationKinds(parsed.SuggestedVisualizations),
	}
	if verr := intent.Validate(); verr != nil {
		g.logger.Warn("llm classify_intent produced invalid intent, falling back", zap.Error(verr))
		g.observe("classify_intent", "schema_error")
		return types.Intent{}, false
	}

	g.recordUsage("classify_intent", resp, questionText+intentSystemPrompt)
	return intent, true
}

const insightSystemPromptTemplate = `You are a retail business-intelligence analyst. Given the user's question and a summary of the data retrieved to answer it, produce 2 to 3 insights.

Rules:
- Cite specific numbers from the data summary provided below.
- Keep recommendations actionable and concrete.
- Return ONLY a JSON array, no prose, where each element matches:
{"title":"<=200 chars","description":"<=2000 chars","category":"trend"|"anomaly"|"recommendation"|"prediction"|"correlation"|"summary","confidence_score":<0..1>,"action_items":["..."],"data_evidence":["..."]}

Data summary:
%s`

type insightResponseItem struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Category        string   `json:"category"`
	ConfidenceScore float64  `json:"confidence_score"`
	ActionItems     []string `json:"action_items"`
	DataEvidence    []string `json:"data_evidence"`
}

// GenerateInsights produces 2-3 insights from the question and its data
// summary. On failure it returns (nil, false) so the caller applies the
// Insight Generator's fallback.
func (g *Gateway) GenerateInsights(ctx context.Context, questionText, contextSummary string) ([]types.Insight, bool) {
	if g.provider == nil {
		return nil, false
	}
	if err := g.limiter.Wait(ctx); err != nil {
		g.logger.Warn("llm rate-limit wait cancelled", zap.Error(err))
		return nil, false
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	resp, err := g.provider.Complete(ctx, CompletionRequest{
		Model: g.cfg.Model,
		Messages: []Message{
			{Role: RoleSystem, Content: fmt.Sprintf(insightSystemPromptTemplate, contextSummary)},
			{Role: RoleUser, Content: questionText},
		},
		Temperature: 0.5,
		MaxTokens:   1024,
	})
	if err != nil {
		g.logger.Warn("llm generate_insights unavailable, falling back", zap.Error(err))
		g.observe("generate_insights", "error")
		return nil, false
	}

	var items []insightResponseItem
	if err := json.Unmarshal([]byte(extractJSON(resp.Content)), &items); err != nil {
		g.logger.Warn("llm generate_insights schema violation, falling back", zap.Error(err))
		g.observe("generate_insights", "schema_error")
		return nil, false
	}
	if len(items) < 2 || len(items) > 3 {
		g.logger.Warn("llm generate_insights returned out-of-range count, falling back", zap.Int("count", len(items)))
		g.observe("generate_insights", "schema_error")
		return nil, false
	}

	insights := make([]types.Insight, 0, len(items))
	for _, it := range items {
		ins := types.Insight{
			Title:        it.Title,
			Description:  it.Description,
			Category:     types.InsightCategory(it.Category),
			Confidence:   clamp01(it.ConfidenceScore),
			ActionItems:  it.ActionItems,
			DataEvidence: it.DataEvidence,
			CreatedAt:    time.Now(),
		}
		if verr := ins.Validate(); verr != nil {
			g.logger.Warn("llm generate_insights produced invalid insight, falling back", zap.Error(verr))
			g.observe("generate_insights", "schema_error")
			return nil, false
		}
		insights = append(insights, ins)
	}

	g.recordUsage("generate_insights", resp, questionText+contextSummary)
	return insights, true
}

func (g *Gateway) recordUsage(operation string, resp *CompletionResponse, promptText string) {
	tokens := resp.TotalTokens
	if tokens == 0 {
		tokens = g.estimateTokens(promptText) + g.estimateTokens(resp.Content)
	}
	cost := costFor(tokens, g.cfg.CostPer1KTokens)
	g.ledger.Record(tokens, cost)
	g.observe(operation, "success")
	if g.recorder != nil {
		g.recorder.AddLLMUsage(tokens, cost)
	}
	g.logger.Info("llm call completed",
		zap.String("operation", operation),
		zap.Int("tokens", tokens),
		zap.Float64("cost", cost),
	)
}

func (g *Gateway) estimateTokens(text string) int {
	if g.enc == nil {
		return len(text) / 4
	}
	return len(g.enc.Encode(text, nil, nil))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func toDataSourceTags(raw []string) []types.DataSourceTag {
	out := make([]types.DataSourceTag, 0, len(raw))
	for _, r := range raw {
		out = append(out, types.DataSourceTag(r))
	}
	return out
}

func toVisualizationKinds(raw []string) []types.VisualizationKind {
	out := make([]types.VisualizationKind, 0, len(raw))
	for _, r := range raw {
		out = append(out, types.VisualizationKind(r))
	}
	return out
}

// extractJSON strips a leading/trailing code fence, in case the model wraps
// its JSON despite instructions not to.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
