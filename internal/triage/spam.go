package triage

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mikey/portfolio-backend/internal/utils"
)

var (
	urlPattern         = regexp.MustCompile(`https?://\S+`)
	urlSequencePattern = regexp.MustCompile(`(?s)https?://.*https?://`)
	currencyRunPattern = regexp.MustCompile(`\p{Sc}{2,}`)
)

// SpamInput is the normalized material the spam detector scores.
// Name is only checked when HasName is set, Email only when HasEmail is set.
type SpamInput struct {
	Text     string
	Subject  string
	Message  string
	Name     string
	Email    string
	HasName  bool
	HasEmail bool
}

// SpamVerdict is the spam detector output
type SpamVerdict struct {
	Score  float64
	IsSpam bool
	Flags  []string
}

// SpamDetector scores text with additive keyword and pattern signals
type SpamDetector struct {
	threshold  float64
	keywords   *keywordMatcher
	disposable []string
}

// NewSpamDetector creates a spam detector from the engine configuration
func NewSpamDetector(cfg Config) *SpamDetector {
	cfg = cfg.withDefaults()
	disposable := make([]string, 0, len(cfg.DisposableDomains))
	for _, d := range cfg.DisposableDomains {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			disposable = append(disposable, d)
		}
	}
	return &SpamDetector{
		threshold:  cfg.SpamThreshold,
		keywords:   newKeywordMatcher(cfg.SpamKeywords),
		disposable: disposable,
	}
}

// DetectText scores a single already-combined text
func (d *SpamDetector) DetectText(text string) SpamVerdict {
	return d.Detect(SpamInput{Text: text, Message: text})
}

// Detect scores the input. It never fails; absent metadata skips its signals.
func (d *SpamDetector) Detect(in SpamInput) SpamVerdict {
	var (
		score float64
		flags []string
	)
	add := func(weight float64, flag string) {
		score += weight
		flags = append(flags, flag)
	}

	lowered := strings.ToLower(in.Text)

	if n := d.keywords.Count(lowered); n > 0 {
		add(math.Min(float64(n)*weightSpamKeyword, maxSpamKeywordWeight),
			fmt.Sprintf("Contains %d spam keyword(s)", n))
	}

	if urlSequencePattern.MatchString(lowered) {
		add(weightURLSequence, "Multiple URLs in sequence")
	}

	if hasRepeatedRun(lowered, minRepeatedRun) {
		add(weightRepeatedChars, "Repeated characters")
	}

	if utf8.RuneCountInString(in.Text) > minShoutingTextLen && utils.IsShouting(in.Text) {
		add(weightShoutingText, "Message all caps")
	}

	if currencyRunPattern.MatchString(in.Text) {
		add(weightCurrencyRun, "Repeated currency symbols")
	}

	subject := strings.TrimSpace(in.Subject)
	if utf8.RuneCountInString(subject) > minShoutingSubject && utils.IsShouting(subject) {
		add(weightShoutingSubject, "Subject all caps")
	}

	if n := strings.Count(in.Message, "!"); n > maxExclamations {
		add(weightExclamations, fmt.Sprintf("Excessive exclamation marks (%d)", n))
	}

	if in.Message != "" && len(strings.Fields(in.Message)) < shortMessageWords && urlPattern.MatchString(in.Message) {
		add(weightShortWithURL, "Short message with URL")
	}

	if in.HasName && isSuspiciousName(in.Name) {
		add(weightSuspiciousName, "Suspicious name")
	}
	if in.HasEmail && d.isDisposable(in.Email) {
		add(weightDisposableDomain, "Suspicious email domain")
	}

	score = round3(clamp(score, 0, 1))
	return SpamVerdict{
		Score:  score,
		IsSpam: d.IsSpam(score),
		Flags:  flags,
	}
}

// IsSpam applies the spam boundary. A score equal to the threshold is spam.
func (d *SpamDetector) IsSpam(score float64) bool {
	return score >= d.threshold
}

func (d *SpamDetector) isDisposable(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false
	}
	domain := email
	if at := strings.LastIndex(email, "@"); at >= 0 {
		domain = email[at+1:]
	}
	for _, marker := range d.disposable {
		if strings.Contains(domain, marker) {
			return true
		}
	}
	return false
}

func isSuspiciousName(name string) bool {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < minSuspiciousNameLen {
		return true
	}
	for _, r := range name {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// hasRepeatedRun reports whether some character repeats at least n times in a row
func hasRepeatedRun(text string, n int) bool {
	var (
		prev rune
		run  int
	)
	for i, r := range text {
		if i > 0 && r == prev {
			run++
		} else {
			run = 1
		}
		if run >= n {
			return true
		}
		prev = r
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
