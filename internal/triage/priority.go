package triage

import (
	"strings"

	"github.com/mikey/portfolio-backend/internal/core"
)

// PriorityScore is the priority calculator output
type PriorityScore struct {
	Label core.Priority
	Score int
}

// PriorityCalculator ranks how urgently a human should read a message
type PriorityCalculator struct {
	urgency *keywordMatcher
}

// NewPriorityCalculator creates a priority calculator from the engine configuration
func NewPriorityCalculator(cfg Config) *PriorityCalculator {
	cfg = cfg.withDefaults()
	return &PriorityCalculator{
		urgency: newKeywordMatcher(cfg.UrgencyKeywords),
	}
}

// Calculate applies the priority rules in order to the lower-cased working text.
// Spam always ranks lowest.
func (p *PriorityCalculator) Calculate(lowered string, sentiment float64, isSpam bool) PriorityScore {
	if isSpam {
		return PriorityScore{Label: core.PriorityLow, Score: minPriority}
	}

	score := basePriority
	score += min(urgencyWeight*p.urgency.Count(lowered), maxUrgencyBoost)

	if sentiment < complaintThreshold {
		score += complaintBoost
	}
	if sentiment > gratitudeThreshold {
		score -= gratitudePenalty
	}
	if strings.Count(lowered, "?") >= minQuestionMarks {
		score += questionBoost
	}

	return Ranked(score)
}

// Bias shifts an already computed priority, keeping spam pinned at the bottom
func (p *PriorityCalculator) Bias(ps PriorityScore, delta int, isSpam bool) PriorityScore {
	if isSpam || delta == 0 {
		return ps
	}
	return Ranked(ps.Score + delta)
}

// Ranked clamps a raw score to [1, 10] and labels it
func Ranked(score int) PriorityScore {
	score = max(minPriority, min(maxPriority, score))
	return PriorityScore{Label: LabelForPriority(score), Score: score}
}

// LabelForPriority maps a priority score onto its label
func LabelForPriority(score int) core.Priority {
	switch {
	case score >= highPriorityScore:
		return core.PriorityHigh
	case score >= mediumPriority:
		return core.PriorityMedium
	default:
		return core.PriorityLow
	}
}
