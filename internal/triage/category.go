package triage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mikey/portfolio-backend/internal/core"
	"go.uber.org/zap"
)

// ErrClassifierUnavailable marks a zero-shot classification that produced no usable label
var ErrClassifierUnavailable = errors.New("category classifier unavailable")

// ZeroShotLabels are the candidate labels offered to a zero-shot classifier
var ZeroShotLabels = []string{
	"job opportunity",
	"collaboration request",
	"technical question",
	"general inquiry",
}

var zeroShotCategories = map[string]core.Category{
	"job opportunity":       core.CategoryJobInquiry,
	"collaboration request": core.CategoryCollaboration,
	"technical question":    core.CategoryQuestion,
	"general inquiry":       core.CategoryQuestion,
}

// Keyword rule confidences
const (
	confidenceJob           = 0.7
	confidenceCollaboration = 0.7
	confidenceQuestion      = 0.6
	confidenceGeneral       = 0.5
)

// CategoryResult is the category classifier output
type CategoryResult struct {
	Category   core.Category
	Confidence float64
	ModelUsed  string
}

// CategoryClassifier assigns a coarse topic with keyword rules and an optional zero-shot model
type CategoryClassifier struct {
	job           *keywordMatcher
	collaboration *keywordMatcher
	question      *keywordMatcher
	zeroShot      core.CategoryClassifier
	maxRunes      int
	logger        *zap.Logger
}

// NewCategoryClassifier creates a category classifier. zeroShot may be nil.
func NewCategoryClassifier(cfg Config, zeroShot core.CategoryClassifier, logger *zap.Logger) *CategoryClassifier {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.UseZeroShotCategory {
		zeroShot = nil
	}
	return &CategoryClassifier{
		job:           newKeywordMatcher(cfg.JobKeywords),
		collaboration: newKeywordMatcher(cfg.CollaborationWords),
		question:      newKeywordMatcher(cfg.QuestionWords),
		zeroShot:      zeroShot,
		maxRunes:      cfg.MaxSentimentRunes,
		logger:        logger,
	}
}

// Classify picks a category for the lower-cased working text, trying the zero-shot
// model first when configured and falling back to keyword rules on any failure.
func (c *CategoryClassifier) Classify(ctx context.Context, lowered string) CategoryResult {
	if c.zeroShot != nil && lowered != "" {
		res, err := c.classifyZeroShot(ctx, lowered)
		if err == nil {
			return res
		}
		c.logger.Warn("Zero-shot category classification failed, using keyword rules", zap.Error(err))
	}
	return c.ClassifyKeywords(lowered)
}

func (c *CategoryClassifier) classifyZeroShot(ctx context.Context, lowered string) (CategoryResult, error) {
	text := lowered
	if runes := []rune(text); len(runes) > c.maxRunes {
		text = string(runes[:c.maxRunes])
	}

	pred, err := c.zeroShot.ClassifyCategory(ctx, text, ZeroShotLabels)
	if err != nil {
		return CategoryResult{}, fmt.Errorf("%w: %w", ErrClassifierUnavailable, err)
	}
	if pred == nil {
		return CategoryResult{}, fmt.Errorf("%w: empty prediction", ErrClassifierUnavailable)
	}

	category, ok := zeroShotCategories[strings.ToLower(strings.TrimSpace(pred.Label))]
	if !ok {
		return CategoryResult{}, fmt.Errorf("%w: unknown label %q", ErrClassifierUnavailable, pred.Label)
	}
	return CategoryResult{
		Category:   category,
		Confidence: round3(clamp(pred.Confidence, 0, 1)),
		ModelUsed:  pred.ModelUsed,
	}, nil
}

// ClassifyKeywords applies the keyword rules in order: job, collaboration, question, general
func (c *CategoryClassifier) ClassifyKeywords(lowered string) CategoryResult {
	switch {
	case c.job.Count(lowered) > 0:
		return CategoryResult{Category: core.CategoryJobInquiry, Confidence: confidenceJob, ModelUsed: "keywords"}
	case c.collaboration.Count(lowered) > 0:
		return CategoryResult{Category: core.CategoryCollaboration, Confidence: confidenceCollaboration, ModelUsed: "keywords"}
	case c.question.Count(lowered) > 0:
		return CategoryResult{Category: core.CategoryQuestion, Confidence: confidenceQuestion, ModelUsed: "keywords"}
	default:
		return CategoryResult{Category: core.CategoryGeneral, Confidence: confidenceGeneral, ModelUsed: "keywords"}
	}
}
