package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())

	tr, err := cfg.GetTriage()
	require.NoError(t, err)
	assert.Equal(t, 0.5, tr.SpamThreshold)
	assert.True(t, tr.UseMLSentiment)
	assert.False(t, tr.UseZeroShotCategory)
	assert.Equal(t, 5*time.Second, tr.ClassifierTimeout)
	assert.Equal(t, 512, tr.MaxSentimentChars)
	assert.Equal(t, 1, tr.JobInquiryBias)
	assert.Empty(t, tr.SpamKeywords)

	cc, err := cfg.GetCache()
	require.NoError(t, err)
	assert.Equal(t, "memory", cc.Type)
	assert.Equal(t, 24*time.Hour, cc.TTL)

	sc, err := cfg.GetServer()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", sc.ListenAddress)

	smtp, err := cfg.GetSMTP()
	require.NoError(t, err)
	assert.False(t, smtp.Enabled)

	gh, err := cfg.GetGitHub()
	require.NoError(t, err)
	assert.Empty(t, gh.Username)
	assert.Equal(t, time.Hour, gh.CacheTTL)
	assert.Equal(t, 30*24*time.Hour, gh.RecentWindow)
	assert.Equal(t, 5, gh.MaxRecent)

	assert.Equal(t, "openai", cfg.GetLLM().Provider)
	assert.Equal(t, "memory", cfg.GetString("store.type"))
}

func TestNewWithFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
triage:
  spam_threshold: 0.7
  use_zero_shot_category: true
  spam_keywords: ["seo services", "backlinks"]
  whitelisted_domains: ["acme.io"]
cache:
  type: redis
  ttl: 2h
`), 0o600))

	cfg, err := NewWithFile(path)
	require.NoError(t, err)

	tr, err := cfg.GetTriage()
	require.NoError(t, err)
	assert.Equal(t, 0.7, tr.SpamThreshold)
	assert.True(t, tr.UseZeroShotCategory)
	assert.Equal(t, []string{"seo services", "backlinks"}, tr.SpamKeywords)
	assert.Equal(t, []string{"acme.io"}, tr.WhitelistedDomains)

	cc, err := cfg.GetCache()
	require.NoError(t, err)
	assert.Equal(t, "redis", cc.Type)
	assert.Equal(t, 2*time.Hour, cc.TTL)
}

func TestNewWithFile_Missing(t *testing.T) {
	_, err := NewWithFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("PORTFOLIO_TRIAGE_SPAM_THRESHOLD", "0.65")
	t.Setenv("PORTFOLIO_SMTP_ENABLED", "true")

	cfg, err := NewWithFile(writeEmpty(t))
	require.NoError(t, err)

	tr, err := cfg.GetTriage()
	require.NoError(t, err)
	assert.Equal(t, 0.65, tr.SpamThreshold)

	smtp, err := cfg.GetSMTP()
	require.NoError(t, err)
	assert.True(t, smtp.Enabled)
}

func TestGetDuration_Invalid(t *testing.T) {
	v := NewEmptyViper()
	v.Set("cache.ttl", "forever")

	_, err := NewFromViper(v).GetCache()
	assert.Error(t, err)
}

func writeEmpty(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o600))
	return path
}
