package factory

import (
	"fmt"

	"github.com/mikey/portfolio-backend/internal/adapters/bedrock"
	"github.com/mikey/portfolio-backend/internal/adapters/gemini"
	"github.com/mikey/portfolio-backend/internal/adapters/openai"
	"github.com/mikey/portfolio-backend/internal/config"
	"github.com/mikey/portfolio-backend/internal/core"
	"github.com/mikey/portfolio-backend/internal/utils"
	"go.uber.org/zap"
)

// LLMFactory creates the zero-shot category classifier
type LLMFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewLLMFactory creates a new LLM factory
func NewLLMFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *LLMFactory {
	return &LLMFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateClassifier creates a classifier for the configured provider. It
// returns nil when zero-shot categorisation is switched off.
func (f *LLMFactory) CreateClassifier() (core.CategoryClassifier, error) {
	if !f.cfg.GetBool("triage.use_zero_shot_category") {
		return nil, nil
	}

	provider := f.cfg.GetLLM().Provider
	f.logger.Info("Using zero-shot category classifier", zap.String("provider", provider))

	switch provider {
	case "bedrock":
		return bedrock.NewFactory(f.cfg, f.logger, f.textProcessor).CreateClassifier()
	case "gemini":
		return gemini.NewFactory(f.cfg, f.logger, f.textProcessor).CreateClassifier()
	case "openai":
		return openai.NewFactory(f.cfg, f.logger, f.textProcessor).CreateClassifier()
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}
