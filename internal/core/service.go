package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// VisitorCounter is the stats counter incremented on every page visit
const VisitorCounter = "visitors"

// Message sources
const (
	SourceWeb   = "web"
	SourceEmail = "email"
)

// SenderWhitelist reports whether a sender address belongs to a trusted domain
type SenderWhitelist interface {
	IsWhitelisted(from string) bool
}

// ContactService is the core service behind the contact form and the site statistics
type ContactService struct {
	analyzer     MessageAnalyzer
	cache        CacheRepository
	store        MessageStore
	stats        StatsStore
	notifier     Notifier
	whitelist    SenderWhitelist
	logger       *zap.Logger
	cacheEnabled bool
	cacheTTL     time.Duration
	now          func() time.Time
}

// NewContactService creates a new contact service
func NewContactService(
	analyzer MessageAnalyzer,
	cache CacheRepository,
	store MessageStore,
	stats StatsStore,
	notifier Notifier,
	whitelist SenderWhitelist,
	logger *zap.Logger,
	cacheEnabled bool,
	cacheTTL time.Duration,
) *ContactService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactService{
		analyzer:     analyzer,
		cache:        cache,
		store:        store,
		stats:        stats,
		notifier:     notifier,
		whitelist:    whitelist,
		logger:       logger,
		cacheEnabled: cacheEnabled && cache != nil,
		cacheTTL:     cacheTTL,
		now:          time.Now,
	}
}

// ValidateSubmission checks that every field is present and the email address parses
func ValidateSubmission(sub *Submission) error {
	if sub == nil {
		return fmt.Errorf("%w: empty submission", ErrInvalidSubmission)
	}
	if strings.TrimSpace(sub.Name) == "" ||
		strings.TrimSpace(sub.Email) == "" ||
		strings.TrimSpace(sub.Subject) == "" ||
		strings.TrimSpace(sub.Message) == "" {
		return fmt.Errorf("%w: all fields are required", ErrInvalidSubmission)
	}

	email := strings.TrimSpace(sub.Email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("%w: invalid email address", ErrInvalidSubmission)
	}
	return nil
}

// Fingerprint identifies a submission for the analysis cache
func Fingerprint(sub *Submission) string {
	h := sha256.New()
	for _, field := range []string{sub.Name, sub.Email, sub.Subject, sub.Message} {
		h.Write([]byte(field))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Analyze triages a submission without storing it
func (s *ContactService) Analyze(ctx context.Context, sub *Submission) *AnalysisResult {
	if sub == nil {
		sub = &Submission{}
	}

	key := Fingerprint(sub)
	if s.cacheEnabled {
		if entry, err := s.cache.Get(ctx, key); err == nil && entry.Result != nil {
			s.logger.Debug("Cache hit for submission", zap.String("fingerprint", key))
			return entry.Result
		}
	}

	result := s.analyzer.AnalyzeMessage(ctx, sub)

	if s.cacheEnabled {
		now := s.now()
		entry := &CacheEntry{
			Key:       key,
			Result:    result,
			CreatedAt: now,
			ExpiresAt: now.Add(s.cacheTTL),
		}
		if err := s.cache.Set(ctx, entry); err != nil {
			s.logger.Error("Failed to update cache", zap.Error(err))
		}
	}

	return result
}

// Submit validates, triages and stores a contact submission and notifies the
// owner unless it is spam from an untrusted sender
func (s *ContactService) Submit(ctx context.Context, sub *Submission) (*ContactMessage, error) {
	if err := ValidateSubmission(sub); err != nil {
		return nil, err
	}

	analysis := s.Analyze(ctx, sub)

	source := sub.Source
	if source == "" {
		source = SourceWeb
	}
	now := s.now().UTC()
	msg := &ContactMessage{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(sub.Name),
		Email:     strings.TrimSpace(sub.Email),
		Subject:   strings.TrimSpace(sub.Subject),
		Message:   strings.TrimSpace(sub.Message),
		Source:    source,
		Analysis:  analysis,
		Status:    StatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	s.logger.Info("Contact message stored",
		zap.String("id", msg.ID),
		zap.String("source", msg.Source),
		zap.Bool("is_spam", analysis.IsSpam),
		zap.Float64("spam_score", analysis.SpamScore),
		zap.String("priority", string(analysis.Priority)))

	if !s.shouldNotify(msg) {
		s.logger.Info("Skipping notification for spam message",
			zap.String("id", msg.ID),
			zap.Strings("flags", analysis.Flags))
		return msg, nil
	}

	if err := s.notifier.NotifyNewMessage(ctx, msg); err != nil {
		if errors.Is(err, ErrNotifierDisabled) {
			s.logger.Debug("Notifications disabled", zap.String("id", msg.ID))
		} else {
			s.logger.Warn("Failed to send notification", zap.String("id", msg.ID), zap.Error(err))
		}
		return msg, nil
	}

	msg.EmailSent = true
	msg.UpdatedAt = s.now().UTC()
	if err := s.store.Replace(ctx, msg); err != nil {
		s.logger.Error("Failed to record notification", zap.String("id", msg.ID), zap.Error(err))
	}
	return msg, nil
}

func (s *ContactService) shouldNotify(msg *ContactMessage) bool {
	if s.notifier == nil {
		return false
	}
	if !msg.Analysis.IsSpam {
		return true
	}
	if s.whitelist != nil && s.whitelist.IsWhitelisted(msg.Email) {
		s.logger.Info("Notifying for whitelisted sender despite spam verdict",
			zap.String("sender", msg.Email),
			zap.String("action", "whitelist_bypass"))
		return true
	}
	return false
}

// ListMessages returns stored messages matching filter, newest first
func (s *ContactService) ListMessages(ctx context.Context, filter MessageFilter) ([]*ContactMessage, error) {
	msgs, err := s.store.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return msgs, nil
}

// GetMessage returns one stored message
func (s *ContactService) GetMessage(ctx context.Context, id string) (*ContactMessage, error) {
	msg, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", id, err)
	}
	return msg, nil
}

// MarkMessage changes the review status of a stored message
func (s *ContactService) MarkMessage(ctx context.Context, id string, status MessageStatus) (*ContactMessage, error) {
	switch status {
	case StatusNew, StatusRead, StatusArchived:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidSubmission, status)
	}

	msg, err := s.GetMessage(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg.Status == status {
		return msg, nil
	}

	msg.Status = status
	msg.UpdatedAt = s.now().UTC()
	if err := s.store.Replace(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to update message %s: %w", id, err)
	}
	return msg, nil
}

// RecordVisit increments the visitor counter and returns the new total
func (s *ContactService) RecordVisit(ctx context.Context) (int64, error) {
	n, err := s.stats.IncrementCounter(ctx, VisitorCounter)
	if err != nil {
		return 0, fmt.Errorf("failed to increment visitor counter: %w", err)
	}
	return n, nil
}

// VisitorCount returns the visitor counter without changing it
func (s *ContactService) VisitorCount(ctx context.Context) (int64, error) {
	n, err := s.stats.Counter(ctx, VisitorCounter)
	if err != nil {
		return 0, fmt.Errorf("failed to read visitor counter: %w", err)
	}
	return n, nil
}

// RecordResumeDownload logs a resume download and returns the running total
func (s *ContactService) RecordResumeDownload(ctx context.Context, download *ResumeDownload) (int64, error) {
	if download == nil {
		download = &ResumeDownload{}
	}
	if download.ID == "" {
		download.ID = uuid.NewString()
	}
	if download.DownloadedAt.IsZero() {
		download.DownloadedAt = s.now().UTC()
	}

	if err := s.stats.RecordDownload(ctx, download); err != nil {
		return 0, fmt.Errorf("failed to record resume download: %w", err)
	}
	return s.ResumeDownloadCount(ctx)
}

// ResumeDownloadCount returns the number of recorded resume downloads
func (s *ContactService) ResumeDownloadCount(ctx context.Context) (int64, error) {
	n, err := s.stats.CountDownloads(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count resume downloads: %w", err)
	}
	return n, nil
}

// ClientHash anonymises a client identifier such as a remote address
func ClientHash(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:8])
}
