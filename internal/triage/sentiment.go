package triage

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/jonreiter/govader"
	"github.com/mikey/portfolio-backend/internal/core"
	"github.com/mikey/portfolio-backend/internal/utils"
	"go.uber.org/zap"
)

// ErrEstimatorUnavailable is returned by a PolarityEstimator that cannot produce a score
var ErrEstimatorUnavailable = errors.New("polarity estimator unavailable")

// PolarityEstimator produces a polarity in [-1, 1] for a text.
// Implementations must be deterministic and safe for concurrent use.
type PolarityEstimator interface {
	Polarity(text string) (float64, error)
}

// LexiconEstimator scores polarity with the VADER lexicon. The lexicon is
// loaded once on first use and shared read-only by every caller.
type LexiconEstimator struct {
	once    sync.Once
	sia     *govader.SentimentIntensityAnalyzer
	loadErr error
}

// NewLexiconEstimator creates a lazily initialised VADER estimator
func NewLexiconEstimator() *LexiconEstimator {
	return &LexiconEstimator{}
}

func (e *LexiconEstimator) load() {
	defer func() {
		if r := recover(); r != nil {
			e.sia = nil
			e.loadErr = fmt.Errorf("%w: failed to load lexicon: %v", ErrEstimatorUnavailable, r)
		}
	}()
	e.sia = govader.NewSentimentIntensityAnalyzer()
	if e.sia == nil {
		e.loadErr = fmt.Errorf("%w: lexicon not loaded", ErrEstimatorUnavailable)
	}
}

// Polarity returns the VADER compound score of text
func (e *LexiconEstimator) Polarity(text string) (polarity float64, err error) {
	e.once.Do(e.load)
	if e.loadErr != nil {
		return 0, e.loadErr
	}
	if strings.TrimSpace(text) == "" {
		return 0, nil
	}

	defer func() {
		if r := recover(); r != nil {
			polarity = 0
			err = fmt.Errorf("%w: %v", ErrEstimatorUnavailable, r)
		}
	}()

	compound := e.sia.PolarityScores(text).Compound
	if math.IsNaN(compound) || math.IsInf(compound, 0) {
		return 0, fmt.Errorf("%w: non-finite compound score", ErrEstimatorUnavailable)
	}
	return clamp(compound, -1, 1), nil
}

// SentimentScore is the sentiment scorer output
type SentimentScore struct {
	Label    core.Sentiment
	Polarity float64
	Source   core.SentimentSource
}

// SentimentScorer combines a primary polarity estimator with a keyword fallback
type SentimentScorer struct {
	estimator PolarityEstimator
	maxRunes  int
	positive  *keywordMatcher
	negative  *keywordMatcher
	text      *utils.TextProcessor
	logger    *zap.Logger
}

// NewSentimentScorer creates a sentiment scorer. A nil estimator always uses the fallback.
func NewSentimentScorer(cfg Config, estimator PolarityEstimator, logger *zap.Logger) *SentimentScorer {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.UseMLSentiment {
		estimator = nil
	}
	return &SentimentScorer{
		estimator: estimator,
		maxRunes:  cfg.MaxSentimentRunes,
		positive:  newKeywordMatcher(cfg.PositiveWords),
		negative:  newKeywordMatcher(cfg.NegativeWords),
		text:      utils.NewTextProcessor(logger),
		logger:    logger,
	}
}

// Score computes the sentiment of the lower-cased working text
func (s *SentimentScorer) Score(lowered string) SentimentScore {
	polarity, err := s.primary(lowered)
	source := core.SentimentSourceLexicon
	if err != nil {
		if !errors.Is(err, ErrEstimatorUnavailable) {
			err = fmt.Errorf("%w: %v", ErrEstimatorUnavailable, err)
		}
		s.logger.Debug("Falling back to keyword sentiment", zap.Error(err))
		polarity = s.KeywordPolarity(lowered)
		source = core.SentimentSourceKeyword
	}

	polarity = round3(clamp(polarity, -1, 1))
	return SentimentScore{
		Label:    LabelForPolarity(polarity),
		Polarity: polarity,
		Source:   source,
	}
}

func (s *SentimentScorer) primary(lowered string) (float64, error) {
	if s.estimator == nil {
		return 0, ErrEstimatorUnavailable
	}
	return s.estimator.Polarity(s.text.TruncateRunes(lowered, s.maxRunes))
}

// KeywordPolarity is (positive - negative) / (positive + negative) over distinct word hits
func (s *SentimentScorer) KeywordPolarity(lowered string) float64 {
	pos := s.positive.Count(lowered)
	neg := s.negative.Count(lowered)
	total := pos + neg
	if total == 0 {
		return 0
	}
	return round3(float64(pos-neg) / float64(total))
}

// LabelForPolarity maps a polarity onto the three-way sentiment label
func LabelForPolarity(polarity float64) core.Sentiment {
	switch {
	case polarity > positiveThreshold:
		return core.SentimentPositive
	case polarity < negativeThreshold:
		return core.SentimentNegative
	default:
		return core.SentimentNeutral
	}
}
