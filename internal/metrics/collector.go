// Package metrics provides the process's Prometheus metrics: the counters
// and histograms the query-to-insight pipeline emits for HTTP, LLM, cache,
// and the two backing stores.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Collector holds every Prometheus metric this service exports.
type Collector struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	llmRequestsTotal *prometheus.CounterVec
	llmTokensUsed    prometheus.Counter
	llmCostTotal     prometheus.Counter

	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter

	warehouseQueryDuration *prometheus.HistogramVec
	metadataQueryDuration  *prometheus.HistogramVec

	logger *zap.Logger
}

// NewCollector registers every metric under namespace with the default registry.
func NewCollector(namespace string, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{
		logger: logger.With(zap.String("component", "metrics")),

		httpRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_requests_total", Help: "Total HTTP requests.",
		}, []string{"method", "path", "status"}),

		httpRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds", Help: "HTTP request duration.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),

		llmRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "llm_requests_total", Help: "Total LLM gateway calls.",
		}, []string{"operation", "status"}),

		llmTokensUsed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "llm_tokens_used_total", Help: "Cumulative LLM tokens consumed.",
		}),

		llmCostTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "llm_cost_usd_total", Help: "Cumulative LLM spend in dollars.",
		}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "cache_hits_total", Help: "Cache Adapter hits.",
		}),
		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "cache_misses_total", Help: "Cache Adapter misses.",
		}),

		warehouseQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "warehouse_query_duration_seconds", Help: "Analytical store query duration.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
		}, []string{"operation"}),

		metadataQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "metadata_query_duration_seconds", Help: "Query repository operation duration.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"operation"}),
	}
}

func (c *Collector) ObserveHTTPRequest(method, path, status string, seconds float64) {
	c.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	c.httpRequestDuration.WithLabelValues(method, path).Observe(seconds)
}

func (c *Collector) ObserveLLMCall(operation, status string) {
	c.llmRequestsTotal.WithLabelValues(operation, status).Inc()
}

func (c *Collector) AddLLMUsage(tokens int, cost float64) {
	c.llmTokensUsed.Add(float64(tokens))
	c.llmCostTotal.Add(cost)
}

func (c *Collector) ObserveCache(hit bool) {
	if hit {
		c.cacheHits.Inc()
		return
	}
	c.cacheMisses.Inc()
}

func (c *Collector) ObserveWarehouseQuery(operation string, seconds float64) {
	c.warehouseQueryDuration.WithLabelValues(operation).Observe(seconds)
}

func (c *Collector) ObserveMetadataQuery(operation string, seconds float64) {
	c.metadataQueryDuration.WithLabelValues(operation).Observe(seconds)
}
