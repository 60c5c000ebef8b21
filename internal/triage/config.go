package triage

import "time"

// AnalysisVersion tags every AnalysisResult produced by this engine build
const AnalysisVersion = "2.0"

// DefaultSpamThreshold is the spam score at or above which a message is spam
const DefaultSpamThreshold = 0.5

// DefaultMaxSentimentRunes bounds the text handed to the polarity estimator
const DefaultMaxSentimentRunes = 512

// Spam signal weights
const (
	weightSpamKeyword      = 0.2
	maxSpamKeywordWeight   = 0.6
	weightURLSequence      = 0.4
	weightRepeatedChars    = 0.2
	weightShoutingText     = 0.2
	weightCurrencyRun      = 0.2
	weightShoutingSubject  = 0.2
	weightExclamations     = 0.1
	weightShortWithURL     = 0.2
	weightSuspiciousName   = 0.15
	weightDisposableDomain = 0.3
)

// Spam signal shapes
const (
	minRepeatedRun       = 5
	minShoutingTextLen   = 50
	minShoutingSubject   = 5
	maxExclamations      = 3
	shortMessageWords    = 10
	minSuspiciousNameLen = 2
)

// Sentiment and priority thresholds
const (
	positiveThreshold = 0.1
	negativeThreshold = -0.1

	basePriority       = 5
	minPriority        = 1
	maxPriority        = 10
	urgencyWeight      = 2
	maxUrgencyBoost    = 3
	complaintThreshold = -0.3
	complaintBoost     = 2
	gratitudeThreshold = 0.5
	gratitudePenalty   = 1
	minQuestionMarks   = 2
	questionBoost      = 1
	highPriorityScore  = 8
	mediumPriority     = 5
)

// Config enumerates the tunables of the triage engine
type Config struct {
	SpamThreshold       float64
	UseMLSentiment      bool
	UseZeroShotCategory bool
	ClassifierTimeout   time.Duration
	MaxSentimentRunes   int
	JobInquiryBias      int
	SpamKeywords        []string
	UrgencyKeywords     []string
	PositiveWords       []string
	NegativeWords       []string
	DisposableDomains   []string
	JobKeywords         []string
	CollaborationWords  []string
	QuestionWords       []string
}

// DefaultConfig returns the standard engine configuration
func DefaultConfig() Config {
	return Config{
		SpamThreshold:       DefaultSpamThreshold,
		UseMLSentiment:      true,
		UseZeroShotCategory: false,
		ClassifierTimeout:   5 * time.Second,
		MaxSentimentRunes:   DefaultMaxSentimentRunes,
		JobInquiryBias:      1,
		SpamKeywords:        clone(DefaultSpamKeywords),
		UrgencyKeywords:     clone(DefaultUrgencyKeywords),
		PositiveWords:       clone(DefaultPositiveWords),
		NegativeWords:       clone(DefaultNegativeWords),
		DisposableDomains:   clone(DefaultDisposableDomains),
		JobKeywords:         clone(DefaultJobKeywords),
		CollaborationWords:  clone(DefaultCollaborationWords),
		QuestionWords:       clone(DefaultQuestionWords),
	}
}

// withDefaults fills empty fields so a partially populated Config stays usable
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.SpamThreshold <= 0 {
		c.SpamThreshold = d.SpamThreshold
	}
	if c.ClassifierTimeout <= 0 {
		c.ClassifierTimeout = d.ClassifierTimeout
	}
	if c.MaxSentimentRunes <= 0 {
		c.MaxSentimentRunes = d.MaxSentimentRunes
	}
	if c.JobInquiryBias < 0 {
		c.JobInquiryBias = 0
	}
	if len(c.SpamKeywords) == 0 {
		c.SpamKeywords = d.SpamKeywords
	}
	if len(c.UrgencyKeywords) == 0 {
		c.UrgencyKeywords = d.UrgencyKeywords
	}
	if len(c.PositiveWords) == 0 {
		c.PositiveWords = d.PositiveWords
	}
	if len(c.NegativeWords) == 0 {
		c.NegativeWords = d.NegativeWords
	}
	if len(c.DisposableDomains) == 0 {
		c.DisposableDomains = d.DisposableDomains
	}
	if len(c.JobKeywords) == 0 {
		c.JobKeywords = d.JobKeywords
	}
	if len(c.CollaborationWords) == 0 {
		c.CollaborationWords = d.CollaborationWords
	}
	if len(c.QuestionWords) == 0 {
		c.QuestionWords = d.QuestionWords
	}
	return c
}

// DefaultSpamKeywords are matched as lower-case substrings of the working text
var DefaultSpamKeywords = []string{
	"viagra", "cialis", "casino", "lottery", "prize", "winner", "click here",
	"act now", "limited time", "free money", "earn cash", "work from home",
	"bitcoin", "cryptocurrency", "crypto investment", "investment opportunity",
	"guaranteed", "no risk", "double your", "weight loss", "get rich",
	"make money fast", "nigerian prince", "inheritance", "million dollars",
	"wire transfer", "tax refund", "claim now", "congratulations",
}

// DefaultUrgencyKeywords raise the priority of a message
var DefaultUrgencyKeywords = []string{
	"urgent", "asap", "immediately", "critical", "emergency",
	"security", "breach", "down", "error", "broken", "not working",
	"interview", "job offer", "opportunity", "hiring", "deadline",
}

// DefaultPositiveWords feed the keyword sentiment fallback
var DefaultPositiveWords = []string{
	"great", "excellent", "amazing", "wonderful", "fantastic", "love",
	"perfect", "awesome", "brilliant", "outstanding", "thank", "thanks",
	"happy", "good", "nice", "best", "impressive", "enjoy", "enjoyed",
	"appreciate", "interested",
}

// DefaultNegativeWords feed the keyword sentiment fallback
var DefaultNegativeWords = []string{
	"bad", "terrible", "awful", "horrible", "hate", "worst", "broken",
	"error", "fail", "failed", "problem", "issue", "bug", "wrong",
	"disappointed", "frustrating", "angry", "annoyed", "useless",
	"complaint", "furious",
}

// DefaultDisposableDomains are substrings of throwaway mail domains
var DefaultDisposableDomains = []string{
	"temp", "disposable", "throwaway", "10minutemail", "mailinator",
	"guerrillamail", "yopmail", "trashmail",
}

// DefaultJobKeywords mark job inquiries
var DefaultJobKeywords = []string{
	"job", "position", "hiring", "opportunity", "role", "career", "recruit",
}

// DefaultCollaborationWords mark collaboration requests
var DefaultCollaborationWords = []string{
	"collaborate", "collaboration", "partnership", "together", "project",
}

// DefaultQuestionWords mark questions
var DefaultQuestionWords = []string{
	"how", "what", "why", "question", "help",
}

func clone(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
