package llm

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLedgerSnapshotAccumulates(t *testing.T) {
	var l CostLedger
	l.Record(100, 0.002)
	l.Record(50, 0.001)

	snap := l.Snapshot()
	assert.Equal(t, int64(150), snap.TotalTokens)
	assert.Equal(t, int64(2), snap.RequestCount)
	assert.InDelta(t, 0.003, snap.TotalCost, 1e-9)
}

func TestLedgerZeroValueReadyToUse(t *testing.T) {
	var l CostLedger
	snap := l.Snapshot()
	assert.Equal(t, int64(0), snap.TotalTokens)
	assert.Equal(t, int64(0), snap.RequestCount)
	assert.Equal(t, 0.0, snap.TotalCost)
}

func TestLedgerConcurrentRecordsNeverLoseUpdates(t *testing.T) {
	var l CostLedger
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Record(1, 0.0001)
		}()
	}
	wg.Wait()

	snap := l.Snapshot()
	assert.Equal(t, int64(100), snap.TotalTokens)
	assert.Equal(t, int64(100), snap.RequestCount)
	assert.InDelta(t, 0.01, snap.TotalCost, 1e-6)
}

func TestCostForComputesProportionalSpend(t *testing.T) {
	assert.InDelta(t, 0.002, costFor(1000, 0.002), 1e-9)
	assert.InDelta(t, 0.001, costFor(500, 0.002), 1e-9)
	assert.Equal(t, 0.0, costFor(0, 0.002))
}
