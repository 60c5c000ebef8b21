package core

import (
	"context"
)

// MessageAnalyzer triages contact messages
type MessageAnalyzer interface {
	// Analyze scores a subject and message pair
	Analyze(subject, message string) *AnalysisResult

	// AnalyzeMessage scores a full submission including sender metadata
	AnalyzeMessage(ctx context.Context, submission *Submission) *AnalysisResult
}

// CategoryClassifier defines the interface for zero-shot category classification
type CategoryClassifier interface {
	// ClassifyCategory picks the best matching label for the text
	ClassifyCategory(ctx context.Context, text string, labels []string) (*CategoryPrediction, error)
}

// CacheRepository defines the interface for caching analysis results
type CacheRepository interface {
	// Get retrieves a cached entry by fingerprint
	Get(ctx context.Context, key string) (*CacheEntry, error)

	// Set stores a cache entry
	Set(ctx context.Context, entry *CacheEntry) error

	// Delete removes a cache entry
	Delete(ctx context.Context, key string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}

// MessageStore is the document store for contact messages
type MessageStore interface {
	Create(ctx context.Context, msg *ContactMessage) error
	Get(ctx context.Context, id string) (*ContactMessage, error)
	Replace(ctx context.Context, msg *ContactMessage) error
	Find(ctx context.Context, filter MessageFilter) ([]*ContactMessage, error)
}

// StatsStore keeps the visitor counter and the resume download log
type StatsStore interface {
	// IncrementCounter atomically adds one to the named counter and returns the new value
	IncrementCounter(ctx context.Context, name string) (int64, error)

	// Counter returns the current value of the named counter
	Counter(ctx context.Context, name string) (int64, error)

	RecordDownload(ctx context.Context, download *ResumeDownload) error
	CountDownloads(ctx context.Context) (int64, error)
}

// Notifier sends the owner a notification about a new contact message
type Notifier interface {
	NotifyNewMessage(ctx context.Context, msg *ContactMessage) error
}

// ProfileSource fetches the developer profile from the code host
type ProfileSource interface {
	FetchProfile(ctx context.Context) (*ProfileSnapshot, error)
}
