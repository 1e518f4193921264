package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/StephaneWamba/genai-data-insights-platform/datacontext"
	"github.com/StephaneWamba/genai-data-insights-platform/insightgen"
	"github.com/StephaneWamba/genai-data-insights-platform/intent"
	"github.com/StephaneWamba/genai-data-insights-platform/internal/cache"
	"github.com/StephaneWamba/genai-data-insights-platform/llm"
	"github.com/StephaneWamba/genai-data-insights-platform/repository"
	"github.com/StephaneWamba/genai-data-insights-platform/types"
	"github.com/StephaneWamba/genai-data-insights-platform/visualization"
	"github.com/StephaneWamba/genai-data-insights-platform/warehouse"
)

// buildTestOrchestrator wires every component against disabled backends
// (nil LLM provider, nil cache backend, nil warehouse/metadata pools) so
// the full pipeline runs entirely through its fallback paths: even with
// the LLM, warehouse, and metadata store all unavailable, Process must
// still succeed.
func buildTestOrchestrator(t *testing.T) (*Orchestrator, *llm.Gateway) {
	t.Helper()
	logger := zap.NewNop()

	c := cache.New(cache.Config{}, nil, logger)
	repo := repository.New(nil, nil, logger)
	gw := llm.New(nil, llm.Config{MinInterval: time.Millisecond}, nil, logger)
	wh := warehouse.New(nil, nil, logger)

	ia := intent.New(gw, c, logger)
	dc := datacontext.New(wh, logger)
	ig := insightgen.New(gw, logger)
	vb := visualization.New(logger)

	return New(c, repo, ia, dc, ig, vb, logger), gw
}

// buildCachingTestOrchestrator is identical but backs the cache with a real
// miniredis instance, for scenarios that exercise the cache-hit path.
func buildCachingTestOrchestrator(t *testing.T) *Orchestrator {
	t.Helper()
	logger := zap.NewNop()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c := cache.New(cache.Config{URL: mr.Addr(), DefaultTTL: time.Minute}, nil, logger)
	repo := repository.New(nil, nil, logger)
	gw := llm.New(nil, llm.Config{MinInterval: time.Millisecond}, nil, logger)
	wh := warehouse.New(nil, nil, logger)

	ia := intent.New(gw, c, logger)
	dc := datacontext.New(wh, logger)
	ig := insightgen.New(gw, logger)
	vb := visualization.New(logger)

	return New(c, repo, ia, dc, ig, vb, logger)
}

func TestProcessValidationRejectsShortText(t *testing.T) {
	o, _ := buildTestOrchestrator(t)
	_, err := o.Process(context.Background(), "hi", "")
	require.NotNil(t, err)
	assert.Equal(t, types.ErrCodeValidation, err.Code)
}

func TestProcessValidationAcceptsExactlyThreeChars(t *testing.T) {
	o, _ := buildTestOrchestrator(t)
	env, err := o.Process(context.Background(), "why", "")
	require.Nil(t, err)
	assert.True(t, env.Success)
}

func TestProcessAllBackendsUnavailableStillSucceeds(t *testing.T) {
	o, _ := buildTestOrchestrator(t)
	env, err := o.Process(context.Background(), "Why are shoe sales down in Paris stores this quarter?", "u1")
	require.Nil(t, err)
	assert.True(t, env.Success)
	assert.Equal(t, types.IntentRootCause, env.Intent.Intent)
	require.Len(t, env.Insights, 1)
	assert.Equal(t, "General Business Analysis", env.Insights[0].Title)
	assert.Empty(t, env.Visualizations) // empty DataContext => no charts
	assert.NotEmpty(t, env.Recommendations)
}

func TestProcessInvariantsOnEveryEnvelope(t *testing.T) {
	o, _ := buildTestOrchestrator(t)
	env, err := o.Process(context.Background(), "Compare sales across regions", "u2")
	require.Nil(t, err)

	// 1-3 insights, at most 3 visualizations.
	assert.GreaterOrEqual(t, len(env.Insights), 1)
	assert.LessOrEqual(t, len(env.Insights), 3)
	assert.LessOrEqual(t, len(env.Visualizations), 3)

	// Confidence bounds and non-empty title/description.
	for _, in := range env.Insights {
		assert.GreaterOrEqual(t, in.Confidence, 0.0)
		assert.LessOrEqual(t, in.Confidence, 1.0)
		assert.NotEmpty(t, in.Title)
		assert.NotEmpty(t, in.Description)
	}

	// Intent tag from the closed set, confidence in [0,1].
	assert.True(t, types.ValidIntentTags[env.Intent.Intent])
	assert.GreaterOrEqual(t, env.Intent.Confidence, 0.0)
	assert.LessOrEqual(t, env.Intent.Confidence, 1.0)

	// No case-insensitive duplicate recommendations.
	seen := map[string]bool{}
	for _, r := range env.Recommendations {
		key := strings.ToLower(r)
		assert.False(t, seen[key])
		seen[key] = true
	}
}

func marshal(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func TestProcessCacheHitReturnsSameIntentInsightsVisualizations(t *testing.T) {
	o := buildCachingTestOrchestrator(t)
	ctx := context.Background()

	first, err := o.Process(ctx, "Show me revenue trends over the last 6 months", "u3")
	require.Nil(t, err)

	second, err := o.Process(ctx, "Show me revenue trends over the last 6 months", "u3")
	require.Nil(t, err)

	// Byte-identical intent/insights/visualizations on the cache hit.
	// Compare serialized forms: the cached copy has been through a JSON
	// round trip, which strips time.Time monotonic readings.
	assert.Equal(t, marshal(t, first.Intent), marshal(t, second.Intent))
	assert.Equal(t, marshal(t, first.Insights), marshal(t, second.Insights))
	assert.Equal(t, marshal(t, first.Visualizations), marshal(t, second.Visualizations))
	assert.NotNil(t, second.CachedAt)
}

func TestProcessCostLedgerMonotonicallyNonDecreasing(t *testing.T) {
	o, gw := buildTestOrchestrator(t)
	ctx := context.Background()

	before := gw.Ledger().Snapshot()
	_, err := o.Process(ctx, "Why are shoe sales trending down?", "u4")
	require.Nil(t, err)
	after := gw.Ledger().Snapshot()

	assert.GreaterOrEqual(t, after.TotalCost, before.TotalCost)
	assert.GreaterOrEqual(t, after.TotalTokens, before.TotalTokens)
}
