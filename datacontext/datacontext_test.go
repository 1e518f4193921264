package datacontext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/StephaneWamba/genai-data-insights-platform/types"
	"github.com/StephaneWamba/genai-data-insights-platform/warehouse"
)

func newRetriever() *Retriever {
	wh := warehouse.New(nil, nil, zap.NewNop()) // nil pool => every call returns empty
	return New(wh, zap.NewNop())
}

func TestRetrieveSelectionRules(t *testing.T) {
	r := newRetriever()
	intent := types.Intent{Intent: types.IntentGeneralAnalysis}

	tests := []struct {
		question string
		wantKind types.DataContextKind
	}{
		{"Why are shoe sales down in Paris stores this quarter?", types.DataContextSales},
		{"Which products are overstocked?", types.DataContextInventory},
		{"Show me our top customer segments by purchase count", types.DataContextCustomer},
		{"Give me a KPI performance summary", types.DataContextMetrics},
		{"Tell me a joke", types.DataContextDynamic},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			dc, summary := r.Retrieve(context.Background(), tt.question, intent)
			assert.Equal(t, tt.wantKind, dc.Kind())
			assert.NotEmpty(t, summary)
		})
	}
}

func TestRetrieveSelectionOrderSalesWinsFirst(t *testing.T) {
	// "sale" and "customer" both appear; sales rule is listed first and must win.
	r := newRetriever()
	dc, _ := r.Retrieve(context.Background(), "customer sale revenue this month", types.Intent{})
	assert.Equal(t, types.DataContextSales, dc.Kind())
}

func TestRetrieveDynamicFallbackNote(t *testing.T) {
	r := newRetriever()
	dc, summary := r.Retrieve(context.Background(), "xyz unrelated text", types.Intent{})
	dyn, ok := dc.(types.DynamicContext)
	assert.True(t, ok)
	assert.Equal(t, "no matched source", dyn.Description)
	assert.Contains(t, summary, "no matched source")
}

func TestTopNOrdersByAmountThenLabel(t *testing.T) {
	byLabel := map[string]float64{
		"shoes": 100,
		"hats":  100,
		"socks": 50,
	}
	out := topN(byLabel, 2)
	assert.Equal(t, []types.LabeledAmount{{Label: "hats", Amount: 100}, {Label: "shoes", Amount: 100}}, out)
}
