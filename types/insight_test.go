package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validInsight() Insight {
	return Insight{
		Title:        "Revenue up",
		Description:  "Revenue increased 12% over the trailing 30 days.",
		Category:     InsightTrend,
		Confidence:   0.8,
		ActionItems:  []string{"Keep promoting top products"},
		DataEvidence: []string{"total revenue $120,000.00"},
	}
}

func TestInsightValidate(t *testing.T) {
	t.Run("valid insight passes", func(t *testing.T) {
		assert.Nil(t, validInsight().Validate())
	})

	t.Run("empty title rejected", func(t *testing.T) {
		in := validInsight()
		in.Title = ""
		assert.Equal(t, ErrCodeValidation, in.Validate().Code)
	})

	t.Run("empty description rejected", func(t *testing.T) {
		in := validInsight()
		in.Description = ""
		assert.NotNil(t, in.Validate())
	})

	t.Run("title over 200 chars rejected", func(t *testing.T) {
		in := validInsight()
		in.Title = strings.Repeat("a", 201)
		assert.NotNil(t, in.Validate())
	})

	t.Run("confidence out of range rejected", func(t *testing.T) {
		in := validInsight()
		in.Confidence = 1.5
		assert.NotNil(t, in.Validate())

		in.Confidence = -0.1
		assert.NotNil(t, in.Validate())
	})

	t.Run("an intent tag used as category is rejected", func(t *testing.T) {
		in := validInsight()
		in.Category = InsightCategory("general_analysis")
		err := in.Validate()
		assert.NotNil(t, err)
		assert.Equal(t, ErrCodeValidation, err.Code)
	})

	t.Run("more than 10 action items rejected", func(t *testing.T) {
		in := validInsight()
		items := make([]string, 11)
		for i := range items {
			items[i] = "item"
		}
		in.ActionItems = items
		assert.NotNil(t, in.Validate())
	})
}

func TestValidateInsightSet(t *testing.T) {
	assert.NotNil(t, ValidateInsightSet(nil))
	assert.NotNil(t, ValidateInsightSet([]Insight{}))
	assert.Nil(t, ValidateInsightSet([]Insight{validInsight()}))
	assert.Nil(t, ValidateInsightSet([]Insight{validInsight(), validInsight(), validInsight()}))
	assert.NotNil(t, ValidateInsightSet([]Insight{validInsight(), validInsight(), validInsight(), validInsight()}))
}
