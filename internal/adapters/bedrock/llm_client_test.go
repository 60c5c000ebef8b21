package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var labels = []string{"job opportunity", "collaboration request", "technical question", "general inquiry"}

type fakeRuntime struct {
	input *bedrockruntime.InvokeModelInput
	body  string
	err   error
}

func (f *fakeRuntime) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: []byte(f.body)}, nil
}

func TestClassifyCategory_ModelFamilies(t *testing.T) {
	tests := []struct {
		name       string
		modelID    string
		body       string
		requestKey string
	}{
		{
			name:       "claude messages",
			modelID:    "anthropic.claude-3-haiku-20240307-v1:0",
			body:       `{"content":[{"type":"text","text":"{\"label\":\"collaboration request\",\"confidence\":0.66}"}]}`,
			requestKey: "messages",
		},
		{
			name:       "claude v2 completion",
			modelID:    "anthropic.claude-v2",
			body:       `{"completion":" {\"label\":\"collaboration request\",\"confidence\":0.66}"}`,
			requestKey: "max_tokens_to_sample",
		},
		{
			name:       "titan",
			modelID:    "amazon.titan-text-express-v1",
			body:       `{"results":[{"outputText":"{\"label\":\"collaboration request\",\"confidence\":0.66}"}]}`,
			requestKey: "textGenerationConfig",
		},
		{
			name:       "generic",
			modelID:    "meta.llama3-8b-instruct-v1:0",
			body:       `{"output":"{\"label\":\"collaboration request\",\"confidence\":0.66}"}`,
			requestKey: "max_tokens",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := &fakeRuntime{body: tt.body}
			c := NewBedrockClient(rt, tt.modelID, 100, 0, 1, 1024, nil, nil)

			pred, err := c.ClassifyCategory(context.Background(), "let's build something together", labels)
			require.NoError(t, err)
			assert.Equal(t, "collaboration request", pred.Label)
			assert.Equal(t, 0.66, pred.Confidence)
			assert.Equal(t, tt.modelID, pred.ModelUsed)

			require.NotNil(t, rt.input)
			assert.Equal(t, tt.modelID, *rt.input.ModelId)
			var req map[string]any
			require.NoError(t, json.Unmarshal(rt.input.Body, &req))
			assert.Contains(t, req, tt.requestKey)
		})
	}
}

func TestClassifyCategory_Errors(t *testing.T) {
	c := NewBedrockClient(&fakeRuntime{err: errors.New("throttled")}, "anthropic.claude-3-haiku", 100, 0, 1, 0, nil, nil)
	_, err := c.ClassifyCategory(context.Background(), "hi", labels)
	assert.Error(t, err)

	c = NewBedrockClient(&fakeRuntime{body: `{"results":[]}`}, "amazon.titan-text-lite-v1", 100, 0, 1, 0, nil, nil)
	_, err = c.ClassifyCategory(context.Background(), "hi", labels)
	assert.Error(t, err)

	c = NewBedrockClient(&fakeRuntime{body: `{"content":[]}`}, "anthropic.claude-3-haiku", 100, 0, 1, 0, nil, nil)
	_, err = c.ClassifyCategory(context.Background(), "hi", labels)
	assert.Error(t, err)
}
