package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateQuestionText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"two chars rejected", "hi", true},
		{"exactly three chars accepted", "why", false},
		{"typical question accepted", "Why are shoe sales down in Paris?", false},
		{"exactly 2000 chars accepted", strings.Repeat("a", 2000), false},
		{"2001 chars rejected", strings.Repeat("a", 2001), true},
		{"whitespace-only rejected after trim", "   ", true},
		{"trims before counting lower bound", "  hi  ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuestionText(tt.text)
			if tt.wantErr {
				assert.NotNil(t, err)
				assert.Equal(t, ErrCodeValidation, err.Code)
			} else {
				assert.Nil(t, err)
			}
		})
	}
}

func TestValidateUserTag(t *testing.T) {
	assert.Nil(t, ValidateUserTag(""))
	assert.Nil(t, ValidateUserTag(strings.Repeat("u", 255)))
	assert.NotNil(t, ValidateUserTag(strings.Repeat("u", 256)))
}
