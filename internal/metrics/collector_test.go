package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Each test uses its own namespace since NewCollector registers with the
// default Prometheus registry and promauto panics on duplicate registration.

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestObserveHTTPRequestIncrementsCounterAndHistogram(t *testing.T) {
	c := NewCollector("test_http", zap.NewNop())
	c.ObserveHTTPRequest("GET", "/v1/questions", "200", 0.02)
	require.NotNil(t, c)
	require.Equal(t, 1.0, counterValue(t, c.httpRequestsTotal.WithLabelValues("GET", "/v1/questions", "200")))

	var m dto.Metric
	require.NoError(t, c.httpRequestDuration.WithLabelValues("GET", "/v1/questions").(prometheus.Metric).Write(&m))
	require.Equal(t, uint64(1), m.GetHistogram().GetSampleCount())
}

func TestAddLLMUsageAccumulates(t *testing.T) {
	c := NewCollector("test_llm_usage", zap.NewNop())
	c.AddLLMUsage(100, 0.002)
	c.AddLLMUsage(50, 0.001)
	require.Equal(t, 150.0, counterValue(t, c.llmTokensUsed))
	require.InDelta(t, 0.003, counterValue(t, c.llmCostTotal), 1e-9)
}

func TestObserveCacheHitAndMiss(t *testing.T) {
	c := NewCollector("test_cache", zap.NewNop())
	c.ObserveCache(true)
	c.ObserveCache(true)
	c.ObserveCache(false)
	require.Equal(t, 2.0, counterValue(t, c.cacheHits))
	require.Equal(t, 1.0, counterValue(t, c.cacheMisses))
}

func TestObserveWarehouseAndMetadataQueryDoNotPanic(t *testing.T) {
	c := NewCollector("test_store_durations", zap.NewNop())
	c.ObserveWarehouseQuery("sales", 0.01)
	c.ObserveMetadataQuery("create", 0.001)
}
