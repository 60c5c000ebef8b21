package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mikey/portfolio-backend/internal/core"
)

// CategorySystemPrompt is sent as the system message to chat style providers
const CategorySystemPrompt = "You are a message classification system. Respond only with JSON."

const categoryPromptFormat = `Classify the following contact form message into exactly one of these labels:
%s

Respond with a JSON object containing:
- label: string (one of the labels above, copied exactly)
- confidence: number between 0 and 1 (how confident you are in the label)

Message:
%s

Respond only with the JSON object and nothing else.`

// categoryResponse is the structured answer expected from the LLM
type categoryResponse struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// BuildCategoryPrompt formats the zero-shot classification prompt
func BuildCategoryPrompt(text string, labels []string) string {
	var b strings.Builder
	for _, label := range labels {
		b.WriteString("- ")
		b.WriteString(label)
		b.WriteString("\n")
	}
	return fmt.Sprintf(categoryPromptFormat, strings.TrimRight(b.String(), "\n"), text)
}

// ExtractJSON decodes the first JSON object in text into v. Models often wrap
// the object in prose or code fences, so on a direct decode failure the outermost
// braces are cut out and decoded instead.
func ExtractJSON(text string, v any) error {
	err := json.Unmarshal([]byte(text), v)
	if err == nil {
		return nil
	}

	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return fmt.Errorf("failed to extract JSON from LLM response: %w", err)
	}

	if err := json.Unmarshal([]byte(text[start:end+1]), v); err != nil {
		return fmt.Errorf("failed to parse LLM response as JSON: %w", err)
	}
	return nil
}

// ParseCategoryResponse turns a raw LLM answer into a prediction. The label must
// be one of labels, compared case-insensitively.
func ParseCategoryResponse(text string, labels []string, model string) (*core.CategoryPrediction, error) {
	var resp categoryResponse
	if err := ExtractJSON(text, &resp); err != nil {
		return nil, err
	}

	label := strings.ToLower(strings.TrimSpace(resp.Label))
	if label == "" {
		return nil, errors.New("LLM response has no label")
	}
	for _, candidate := range labels {
		if strings.EqualFold(candidate, label) {
			return &core.CategoryPrediction{
				Label:      candidate,
				Confidence: resp.Confidence,
				ModelUsed:  model,
			}, nil
		}
	}
	return nil, fmt.Errorf("LLM returned unknown label %q", resp.Label)
}
