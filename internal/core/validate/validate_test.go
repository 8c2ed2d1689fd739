package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/insuregenie/constants"
	"github.com/joseph-ayodele/insuregenie/internal/llm"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		fields llm.Fields
		pass   bool
	}{
		{"nil", nil, false},
		{"absent", llm.Fields{}, false},
		{"empty", llm.Fields{llm.FieldSummary: ""}, false},
		{"failure marker", llm.Fields{llm.FieldSummary: "❌ LLM API error: 500"}, false},
		{"ok", llm.Fields{llm.FieldSummary: "ok text"}, true},
		{"marker not at start", llm.Fields{llm.FieldSummary: "Covered: yes ❌ no"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.fields)
			if tt.pass {
				assert.Equal(t, constants.ValidationPass, got.Status)
				assert.Empty(t, got.Errors)
				assert.True(t, got.Passed())
				return
			}
			assert.Equal(t, constants.ValidationFail, got.Status)
			assert.Equal(t, []string{ErrSummaryMissing}, got.Errors)
			assert.False(t, got.Passed())
		})
	}
}

func TestNew(t *testing.T) {
	assert.Equal(t, constants.ValidationPass, New().Status)
	assert.Equal(t, constants.ValidationFail, New("x", "y").Status)
	assert.Len(t, New("x", "y").Errors, 2)
}
