package factory

import (
	"github.com/mikey/portfolio-backend/internal/config"
	"github.com/mikey/portfolio-backend/internal/core"
	"github.com/mikey/portfolio-backend/internal/triage"
	"github.com/mikey/portfolio-backend/internal/utils"
	"go.uber.org/zap"
)

// AnalyzerFactory builds the triage engine
type AnalyzerFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewAnalyzerFactory creates a new analyzer factory
func NewAnalyzerFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *AnalyzerFactory {
	return &AnalyzerFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateAnalyzer creates the analyzer. zeroShot may be nil.
func (f *AnalyzerFactory) CreateAnalyzer(zeroShot core.CategoryClassifier) (*triage.Analyzer, error) {
	triageCfg, err := f.cfg.GetTriage()
	if err != nil {
		return nil, err
	}

	engineCfg := EngineConfig(triageCfg)

	var estimator triage.PolarityEstimator
	if engineCfg.UseMLSentiment {
		estimator = triage.NewLexiconEstimator()
	}

	f.logger.Info("Triage engine configured",
		zap.Float64("spam_threshold", engineCfg.SpamThreshold),
		zap.Bool("ml_sentiment", engineCfg.UseMLSentiment),
		zap.Bool("zero_shot_category", engineCfg.UseZeroShotCategory && zeroShot != nil))

	return triage.NewAnalyzer(engineCfg, estimator, zeroShot, f.textProcessor, f.logger), nil
}

// EngineConfig maps the file configuration onto the engine tunables.
// Empty lists keep the built-in defaults.
func EngineConfig(tc config.TriageConfig) triage.Config {
	cfg := triage.DefaultConfig()
	cfg.SpamThreshold = tc.SpamThreshold
	cfg.UseMLSentiment = tc.UseMLSentiment
	cfg.UseZeroShotCategory = tc.UseZeroShotCategory
	cfg.ClassifierTimeout = tc.ClassifierTimeout
	cfg.MaxSentimentRunes = tc.MaxSentimentChars
	cfg.JobInquiryBias = tc.JobInquiryBias

	if len(tc.SpamKeywords) > 0 {
		cfg.SpamKeywords = tc.SpamKeywords
	}
	if len(tc.UrgencyKeywords) > 0 {
		cfg.UrgencyKeywords = tc.UrgencyKeywords
	}
	if len(tc.PositiveWords) > 0 {
		cfg.PositiveWords = tc.PositiveWords
	}
	if len(tc.NegativeWords) > 0 {
		cfg.NegativeWords = tc.NegativeWords
	}
	if len(tc.DisposableDomains) > 0 {
		cfg.DisposableDomains = tc.DisposableDomains
	}
	return cfg
}
