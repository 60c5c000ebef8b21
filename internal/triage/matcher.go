package triage

import (
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"
)

// keywordMatcher finds which entries of a fixed keyword list occur in a text.
// Every keyword is reported at most once per text regardless of repetitions.
type keywordMatcher struct {
	matcher  *ahocorasick.Matcher
	keywords []string
}

func newKeywordMatcher(keywords []string) *keywordMatcher {
	normalized := make([]string, 0, len(keywords))
	seen := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		normalized = append(normalized, kw)
	}

	m := &keywordMatcher{keywords: normalized}
	if len(normalized) > 0 {
		m.matcher = ahocorasick.NewStringMatcher(normalized)
	}
	return m
}

// Matches returns the distinct keywords found in the lower-cased text
func (m *keywordMatcher) Matches(lowered string) []string {
	if m.matcher == nil || lowered == "" {
		return nil
	}

	// MatchThreadSafe keeps the automaton read-only so one matcher serves all callers
	hits := m.matcher.MatchThreadSafe([]byte(lowered))
	if len(hits) == 0 {
		return nil
	}

	found := make([]string, 0, len(hits))
	seen := make(map[int]struct{}, len(hits))
	for _, idx := range hits {
		if idx < 0 || idx >= len(m.keywords) {
			continue
		}
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		found = append(found, m.keywords[idx])
	}
	return found
}

// Count returns the number of distinct keywords found in the lower-cased text
func (m *keywordMatcher) Count(lowered string) int {
	return len(m.Matches(lowered))
}
