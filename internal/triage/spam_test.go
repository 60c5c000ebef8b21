package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpamDetector_EmptyText(t *testing.T) {
	d := NewSpamDetector(DefaultConfig())

	v := d.DetectText("")
	assert.Equal(t, 0.0, v.Score)
	assert.False(t, v.IsSpam)
	assert.Empty(t, v.Flags)
}

func TestSpamDetector_Signals(t *testing.T) {
	d := NewSpamDetector(DefaultConfig())

	tests := []struct {
		name  string
		in    SpamInput
		score float64
		flag  string
	}{
		{
			name:  "single keyword",
			in:    SpamInput{Text: "you are the winner of our draw", Message: "you are the winner of our draw"},
			score: 0.2,
			flag:  "Contains 1 spam keyword(s)",
		},
		{
			name:  "keyword contribution is capped",
			in:    SpamInput{Text: "lottery prize winner casino viagra bitcoin jackpot for you today", Message: "lottery prize winner casino viagra bitcoin jackpot for you today"},
			score: 0.6,
			flag:  "Contains 6 spam keyword(s)",
		},
		{
			name:  "repeated keyword counts once",
			in:    SpamInput{Text: "winner winner winner chicken dinner for the whole family", Message: "winner winner winner chicken dinner for the whole family"},
			score: 0.2,
			flag:  "Contains 1 spam keyword(s)",
		},
		{
			name:  "repeated characters",
			in:    SpamInput{Text: "hello there friend, noooooo way this is real and you know it", Message: "hello there friend, noooooo way this is real and you know it"},
			score: 0.2,
			flag:  "Repeated characters",
		},
		{
			name:  "long shouting text",
			in:    SpamInput{Text: "THIS IS A VERY LOUD MESSAGE THAT GOES ON AND ON FOR A WHILE", Message: "THIS IS A VERY LOUD MESSAGE THAT GOES ON AND ON FOR A WHILE"},
			score: 0.2,
			flag:  "Message all caps",
		},
		{
			name:  "currency run",
			in:    SpamInput{Text: "send $$ now to get paid back in full for your trouble soon", Message: "send $$ now to get paid back in full for your trouble soon"},
			score: 0.2,
			flag:  "Repeated currency symbols",
		},
		{
			name:  "shouting subject",
			in:    SpamInput{Text: "HELLO THERE just checking in about the thing we talked about", Subject: "HELLO THERE", Message: "just checking in about the thing we talked about"},
			score: 0.2,
			flag:  "Subject all caps",
		},
		{
			name:  "exclamation marks",
			in:    SpamInput{Text: "great! really! amazing! wow! thanks for the talk last week", Message: "great! really! amazing! wow! thanks for the talk last week"},
			score: 0.1,
			flag:  "Excessive exclamation marks (4)",
		},
		{
			name:  "short message with url",
			in:    SpamInput{Text: "see https://example.com", Message: "see https://example.com"},
			score: 0.2,
			flag:  "Short message with URL",
		},
		{
			name:  "suspicious name",
			in:    SpamInput{Text: "i would like to talk about the role you posted on your site", Message: "i would like to talk about the role you posted on your site", Name: "12345", Email: "a@example.com", HasName: true, HasEmail: true},
			score: 0.15,
			flag:  "Suspicious name",
		},
		{
			name:  "disposable email",
			in:    SpamInput{Text: "i would like to talk about the role you posted on your site", Message: "i would like to talk about the role you posted on your site", Name: "Alice", Email: "alice@tempmail.com", HasName: true, HasEmail: true},
			score: 0.3,
			flag:  "Suspicious email domain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := d.Detect(tt.in)
			assert.InDelta(t, tt.score, v.Score, 1e-9)
			require.Len(t, v.Flags, 1, "flags: %v", v.Flags)
			assert.Equal(t, tt.flag, v.Flags[0])
		})
	}
}

func TestSpamDetector_SenderSignalsNeedMetadata(t *testing.T) {
	d := NewSpamDetector(DefaultConfig())

	in := SpamInput{
		Text:    "i would like to talk about the role you posted on your site",
		Message: "i would like to talk about the role you posted on your site",
		Name:    "1",
		Email:   "x@throwaway.net",
	}
	assert.Equal(t, 0.0, d.Detect(in).Score)

	in.HasName, in.HasEmail = true, true
	assert.InDelta(t, 0.45, d.Detect(in).Score, 1e-9)

	in.HasName = false
	v := d.Detect(in)
	assert.InDelta(t, 0.3, v.Score, 1e-9)
	assert.Equal(t, []string{"Suspicious email domain"}, v.Flags)
}

func TestSpamDetector_URLSequence(t *testing.T) {
	d := NewSpamDetector(DefaultConfig())

	one := d.DetectText("please look at my portfolio at https://example.com when you have a moment to spare")
	assert.Equal(t, 0.0, one.Score)

	two := d.DetectText("please look at https://example.com and also http://example.org when you have a moment to spare")
	assert.InDelta(t, 0.4, two.Score, 1e-9)
	assert.Contains(t, two.Flags, "Multiple URLs in sequence")
}

func TestSpamDetector_ScoreIsClamped(t *testing.T) {
	d := NewSpamDetector(DefaultConfig())

	v := d.Detect(SpamInput{
		Text:     "FREE MONEY $$$ CLICK HERE!!!!! http://a.com http://b.com",
		Subject:  "FREE MONEY $$$",
		Message:  "CLICK HERE!!!!! http://a.com http://b.com",
		Name:     "7",
		Email:    "x@mailinator.com",
		HasName:  true,
		HasEmail: true,
	})
	assert.Equal(t, 1.0, v.Score)
	assert.True(t, v.IsSpam)
}

func TestSpamDetector_ThresholdBoundary(t *testing.T) {
	d := NewSpamDetector(DefaultConfig())
	assert.True(t, d.IsSpam(DefaultSpamThreshold), "a score equal to the threshold is spam")
	assert.False(t, d.IsSpam(0.499))

	cfg := DefaultConfig()
	cfg.SpamThreshold = 0.4
	atThreshold := NewSpamDetector(cfg).DetectText("you are a lottery winner")
	assert.Equal(t, 0.4, atThreshold.Score)
	assert.True(t, atThreshold.IsSpam)

	cfg.SpamThreshold = 0.41
	belowThreshold := NewSpamDetector(cfg).DetectText("you are a lottery winner")
	assert.Equal(t, 0.4, belowThreshold.Score)
	assert.False(t, belowThreshold.IsSpam)
}

func TestSpamDetector_CustomKeywords(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SpamKeywords = []string{"SEO Services", "backlinks"}
	d := NewSpamDetector(cfg)

	v := d.DetectText("we offer cheap seo services and quality backlinks for your website today")
	assert.InDelta(t, 0.4, v.Score, 1e-9)

	v = d.DetectText("you are a lottery winner")
	assert.Equal(t, 0.0, v.Score)
}

func TestHasRepeatedRun(t *testing.T) {
	assert.True(t, hasRepeatedRun("!!!!!", 5))
	assert.False(t, hasRepeatedRun("!!!!", 5))
	assert.True(t, hasRepeatedRun("ab€€€€€c", 5))
	assert.False(t, hasRepeatedRun("", 5))
}
