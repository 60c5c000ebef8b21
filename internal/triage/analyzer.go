// Package triage scores contact messages for spam, sentiment, priority and category.
//
// An Analyzer is built once at startup and shared by every request. It holds no
// per-call state; the only lazily created member is the polarity estimator, which
// initialises itself behind a sync.Once and is read-only afterwards.
package triage

import (
	"context"
	"strings"

	"github.com/mikey/portfolio-backend/internal/core"
	"github.com/mikey/portfolio-backend/internal/utils"
	"go.uber.org/zap"
)

// Analyzer orchestrates the spam detector, sentiment scorer, priority calculator
// and category classifier
type Analyzer struct {
	cfg       Config
	text      *utils.TextProcessor
	spam      *SpamDetector
	sentiment *SentimentScorer
	priority  *PriorityCalculator
	category  *CategoryClassifier
	logger    *zap.Logger
}

var _ core.MessageAnalyzer = (*Analyzer)(nil)

// NewAnalyzer creates an analyzer. estimator and zeroShot are optional capabilities;
// they are only consulted when the matching Config switch is on.
func NewAnalyzer(
	cfg Config,
	estimator PolarityEstimator,
	zeroShot core.CategoryClassifier,
	text *utils.TextProcessor,
	logger *zap.Logger,
) *Analyzer {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	if text == nil {
		text = utils.NewTextProcessor(logger)
	}
	return &Analyzer{
		cfg:       cfg,
		text:      text,
		spam:      NewSpamDetector(cfg),
		sentiment: NewSentimentScorer(cfg, estimator, logger),
		priority:  NewPriorityCalculator(cfg),
		category:  NewCategoryClassifier(cfg, zeroShot, logger),
		logger:    logger,
	}
}

// Config returns the effective engine configuration
func (a *Analyzer) Config() Config {
	return a.cfg
}

// Analyze scores a subject and message pair. The category is reported from keyword
// rules only and does not influence the priority.
func (a *Analyzer) Analyze(subject, message string) *core.AnalysisResult {
	subject = a.text.Normalize(subject)
	message = a.text.Normalize(message)
	text := a.text.Combine(subject, message)
	lowered := strings.ToLower(text)

	verdict := a.spam.Detect(SpamInput{Text: text, Subject: subject, Message: message})
	sentiment := a.sentiment.Score(lowered)
	priority := a.priority.Calculate(lowered, sentiment.Polarity, verdict.IsSpam)
	category := a.category.ClassifyKeywords(lowered)

	return a.assemble(verdict, sentiment, priority, category)
}

// AnalyzeMessage scores a full submission. Sender metadata enables extra spam
// signals, the category may come from the zero-shot classifier, and a job
// inquiry biases the priority score upwards.
func (a *Analyzer) AnalyzeMessage(ctx context.Context, submission *core.Submission) *core.AnalysisResult {
	if submission == nil {
		submission = &core.Submission{}
	}

	subject := a.text.Normalize(submission.Subject)
	message := a.text.Normalize(submission.Message)
	name := a.text.Normalize(submission.Name)
	email := strings.TrimSpace(submission.Email)
	text := a.text.Combine(subject, message)
	lowered := strings.ToLower(text)

	verdict := a.spam.Detect(SpamInput{
		Text:     text,
		Subject:  subject,
		Message:  message,
		Name:     name,
		Email:    email,
		HasName:  name != "",
		HasEmail: email != "",
	})
	sentiment := a.sentiment.Score(lowered)
	priority := a.priority.Calculate(lowered, sentiment.Polarity, verdict.IsSpam)

	var category CategoryResult
	if verdict.IsSpam {
		category = a.category.ClassifyKeywords(lowered)
	} else {
		cctx, cancel := context.WithTimeout(ctx, a.cfg.ClassifierTimeout)
		category = a.category.Classify(cctx, lowered)
		cancel()
	}

	if category.Category == core.CategoryJobInquiry {
		priority = a.priority.Bias(priority, a.cfg.JobInquiryBias, verdict.IsSpam)
	}

	result := a.assemble(verdict, sentiment, priority, category)
	a.logger.Debug("Message analyzed",
		zap.Bool("is_spam", result.IsSpam),
		zap.Float64("spam_score", result.SpamScore),
		zap.String("sentiment", string(result.Sentiment)),
		zap.String("sentiment_source", string(result.SentimentSource)),
		zap.Int("priority_score", result.PriorityScore),
		zap.String("category", string(result.Category)))
	return result
}

func (a *Analyzer) assemble(verdict SpamVerdict, sentiment SentimentScore, priority PriorityScore, category CategoryResult) *core.AnalysisResult {
	flags := make([]string, len(verdict.Flags))
	copy(flags, verdict.Flags)

	return &core.AnalysisResult{
		IsSpam:             verdict.IsSpam,
		SpamScore:          verdict.Score,
		Sentiment:          sentiment.Label,
		SentimentScore:     sentiment.Polarity,
		SentimentSource:    sentiment.Source,
		Priority:           priority.Label,
		PriorityScore:      priority.Score,
		Category:           category.Category,
		CategoryConfidence: category.Confidence,
		CategoryModel:      category.ModelUsed,
		Flags:              flags,
		AnalysisVersion:    AnalysisVersion,
	}
}
