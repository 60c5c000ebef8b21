package core

import (
	"time"
)

// Sentiment is the three-way sentiment label of a message
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Priority is the three-way review priority of a message
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Category is the coarse topic of a contact message
type Category string

const (
	CategoryJobInquiry    Category = "job_inquiry"
	CategoryCollaboration Category = "collaboration"
	CategoryQuestion      Category = "question"
	CategoryGeneral       Category = "general"
)

// SentimentSource tells which sentiment path produced the polarity
type SentimentSource string

const (
	SentimentSourceLexicon SentimentSource = "lexicon"
	SentimentSourceKeyword SentimentSource = "keyword"
)

// MessageStatus is the review state of a stored contact message
type MessageStatus string

const (
	StatusNew      MessageStatus = "new"
	StatusRead     MessageStatus = "read"
	StatusArchived MessageStatus = "archived"
)

// Submission is a contact form submission. Name and Email are optional for analysis.
type Submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
	Source  string `json:"-"`
}

// AnalysisResult represents the outcome of triaging one message
type AnalysisResult struct {
	IsSpam             bool            `json:"is_spam" bson:"is_spam"`
	SpamScore          float64         `json:"spam_score" bson:"spam_score"`
	Sentiment          Sentiment       `json:"sentiment" bson:"sentiment"`
	SentimentScore     float64         `json:"sentiment_score" bson:"sentiment_score"`
	SentimentSource    SentimentSource `json:"sentiment_source,omitempty" bson:"sentiment_source,omitempty"`
	Priority           Priority        `json:"priority" bson:"priority"`
	PriorityScore      int             `json:"priority_score" bson:"priority_score"`
	Category           Category        `json:"category,omitempty" bson:"category,omitempty"`
	CategoryConfidence float64         `json:"category_confidence,omitempty" bson:"category_confidence,omitempty"`
	CategoryModel      string          `json:"category_model,omitempty" bson:"category_model,omitempty"`
	Flags              []string        `json:"flags,omitempty" bson:"flags,omitempty"`
	AnalysisVersion    string          `json:"analysis_version" bson:"analysis_version"`
}

// CategoryPrediction is the answer of a zero-shot category classifier
type CategoryPrediction struct {
	Label      string
	Confidence float64
	ModelUsed  string
}

// ContactMessage is a persisted contact submission together with its analysis
type ContactMessage struct {
	ID        string          `json:"id" bson:"_id"`
	Name      string          `json:"name" bson:"name"`
	Email     string          `json:"email" bson:"email"`
	Subject   string          `json:"subject" bson:"subject"`
	Message   string          `json:"message" bson:"message"`
	Source    string          `json:"source" bson:"source"`
	Analysis  *AnalysisResult `json:"analysis" bson:"analysis"`
	Status    MessageStatus   `json:"status" bson:"status"`
	EmailSent bool            `json:"email_sent" bson:"email_sent"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" bson:"updated_at"`
}

// MessageFilter narrows a message query. Zero values mean "any".
type MessageFilter struct {
	Spam     *bool
	Priority Priority
	Category Category
	Status   MessageStatus
	Limit    int64
}

// ResumeDownload is one entry of the resume download log
type ResumeDownload struct {
	ID           string    `json:"id" bson:"_id"`
	UserAgent    string    `json:"user_agent" bson:"user_agent"`
	Referrer     string    `json:"referrer" bson:"referrer"`
	ClientHash   string    `json:"client_hash" bson:"client_hash"`
	DownloadedAt time.Time `json:"downloaded_at" bson:"downloaded_at"`
}

// CacheEntry is a cached analysis keyed by a submission fingerprint
type CacheEntry struct {
	Key       string
	Result    *AnalysisResult
	CreatedAt time.Time
	ExpiresAt time.Time
}

// ProfileSnapshot is the raw developer profile as reported by the code host
type ProfileSnapshot struct {
	Username    string
	PublicRepos int
	Followers   int
	Repos       []RepoSummary
}

// RepoSummary describes one public repository of the profile
type RepoSummary struct {
	Name        string
	URL         string
	Description string
	Language    string
	Stars       int
	Forks       int
	Fork        bool
	UpdatedAt   time.Time
}

// ProfileStats is the aggregated developer profile served to the site
type ProfileStats struct {
	Username       string          `json:"username"`
	PublicRepos    int             `json:"public_repos"`
	Followers      int             `json:"followers"`
	TotalStars     int             `json:"total_stars"`
	TotalForks     int             `json:"total_forks"`
	Languages      []LanguageShare `json:"languages"`
	RecentActivity []RepoActivity  `json:"recent_activity"`
	FetchedAt      time.Time       `json:"fetched_at"`
}

// LanguageShare is the percentage of owned repositories using a primary language
type LanguageShare struct {
	Language   string  `json:"language"`
	Percentage float64 `json:"percentage"`
}

// RepoActivity is a recently updated repository
type RepoActivity struct {
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	Language    string    `json:"language,omitempty"`
	Stars       int       `json:"stars"`
	Updated     time.Time `json:"updated"`
}
