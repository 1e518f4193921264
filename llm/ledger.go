// Package llm implements the LLM Gateway: the single outbound channel
// to the language-model provider, wrapping rate limiting, cost accounting,
// structured-output validation, and deterministic fallbacks.
package llm

import "sync/atomic"

// CostLedger is the process-wide, atomically-updated record of cumulative
// LLM spend. A zero-value CostLedger is ready to use.
type CostLedger struct {
	costMicros   atomic.Int64 // cost * 1_000_000, for lock-free accumulation
	totalTokens  atomic.Int64
	requestCount atomic.Int64
}

// Record adds one successful call's usage to the ledger.
func (l *CostLedger) Record(tokens int, cost float64) {
	l.totalTokens.Add(int64(tokens))
	l.requestCount.Add(1)
	l.costMicros.Add(int64(cost * 1_000_000))
}

// LedgerSnapshot is a point-in-time read of the ledger.
type LedgerSnapshot struct {
	TotalCost    float64
	TotalTokens  int64
	RequestCount int64
}

// Snapshot returns the ledger's current state. Successive snapshots never
// decrease in any field.
func (l *CostLedger) Snapshot() LedgerSnapshot {
	return LedgerSnapshot{
		TotalCost:    float64(l.costMicros.Load()) / 1_000_000,
		TotalTokens:  l.totalTokens.Load(),
		RequestCount: l.requestCount.Load(),
	}
}

// costFor computes the $ cost of tokens at the configured per-1k rate.
func costFor(tokens int, costPer1K float64) float64 {
	return float64(tokens) / 1000 * costPer1K
}
