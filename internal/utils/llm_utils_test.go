package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var labels = []string{"job opportunity", "collaboration request", "technical question", "general inquiry"}

func TestBuildCategoryPrompt(t *testing.T) {
	p := BuildCategoryPrompt("we are hiring", labels)
	assert.Contains(t, p, "- job opportunity\n- collaboration request")
	assert.Contains(t, p, "Message:\nwe are hiring")
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"bare", `{"label":"x","confidence":0.5}`, false},
		{"fenced", "```json\n{\"label\":\"x\",\"confidence\":0.5}\n```", false},
		{"prose", `Sure! Here it is: {"label":"x","confidence":0.5} Hope that helps.`, false},
		{"no object", "I cannot classify this", true},
		{"broken", `{"label": "x",`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v categoryResponse
			err := ExtractJSON(tt.text, &v)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "x", v.Label)
			assert.Equal(t, 0.5, v.Confidence)
		})
	}
}

func TestParseCategoryResponse(t *testing.T) {
	pred, err := ParseCategoryResponse(`{"label":"Technical Question","confidence":0.83}`, labels, "m1")
	require.NoError(t, err)
	assert.Equal(t, "technical question", pred.Label)
	assert.Equal(t, 0.83, pred.Confidence)
	assert.Equal(t, "m1", pred.ModelUsed)

	_, err = ParseCategoryResponse(`{"label":"sports","confidence":0.9}`, labels, "m1")
	assert.Error(t, err)

	_, err = ParseCategoryResponse(`{"confidence":0.9}`, labels, "m1")
	assert.Error(t, err)
}
