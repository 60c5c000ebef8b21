package factory

import (
	"context"
	"testing"
	"time"

	"github.com/mikey/portfolio-backend/internal/adapters/cache"
	"github.com/mikey/portfolio-backend/internal/adapters/memstore"
	"github.com/mikey/portfolio-backend/internal/adapters/notify"
	"github.com/mikey/portfolio-backend/internal/config"
	"github.com/mikey/portfolio-backend/internal/core"
	"github.com/mikey/portfolio-backend/internal/triage"
	"github.com/mikey/portfolio-backend/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(overrides map[string]any) *config.Config {
	v := config.NewEmptyViper()
	for k, val := range overrides {
		v.Set(k, val)
	}
	return config.NewFromViper(v)
}

func TestEngineConfig(t *testing.T) {
	cfg := EngineConfig(config.TriageConfig{
		SpamThreshold:     0.7,
		UseMLSentiment:    false,
		ClassifierTimeout: 2 * time.Second,
		MaxSentimentChars: 256,
		JobInquiryBias:    2,
		SpamKeywords:      []string{"crypto giveaway"},
	})

	assert.Equal(t, 0.7, cfg.SpamThreshold)
	assert.False(t, cfg.UseMLSentiment)
	assert.Equal(t, 2*time.Second, cfg.ClassifierTimeout)
	assert.Equal(t, 256, cfg.MaxSentimentRunes)
	assert.Equal(t, 2, cfg.JobInquiryBias)
	assert.Equal(t, []string{"crypto giveaway"}, cfg.SpamKeywords)
	assert.Equal(t, triage.DefaultConfig().UrgencyKeywords, cfg.UrgencyKeywords)
	assert.Equal(t, triage.DefaultConfig().DisposableDomains, cfg.DisposableDomains)
}

func TestAnalyzerFactory_Defaults(t *testing.T) {
	cfg := testConfig(map[string]any{"triage.use_ml_sentiment": false})
	a, err := NewAnalyzerFactory(cfg, zap.NewNop(), utils.NewTextProcessor(zap.NewNop())).CreateAnalyzer(nil)
	require.NoError(t, err)

	got := a.Config()
	assert.Equal(t, triage.DefaultSpamThreshold, got.SpamThreshold)
	assert.Equal(t, 5*time.Second, got.ClassifierTimeout)
	assert.Equal(t, 1, got.JobInquiryBias)

	res := a.Analyze("Hello", "Just wanted to say hi.")
	assert.Equal(t, triage.AnalysisVersion, res.AnalysisVersion)
}

func TestAnalyzerFactory_InvalidTimeout(t *testing.T) {
	cfg := testConfig(map[string]any{"triage.classifier_timeout": "soon"})
	_, err := NewAnalyzerFactory(cfg, zap.NewNop(), nil).CreateAnalyzer(nil)
	assert.Error(t, err)
}

func TestLLMFactory(t *testing.T) {
	tp := utils.NewTextProcessor(zap.NewNop())

	c, err := NewLLMFactory(testConfig(nil), zap.NewNop(), tp).CreateClassifier()
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = NewLLMFactory(testConfig(map[string]any{
		"triage.use_zero_shot_category": true,
		"llm.provider":                  "watson",
	}), zap.NewNop(), tp).CreateClassifier()
	assert.Error(t, err)

	c, err = NewLLMFactory(testConfig(map[string]any{
		"triage.use_zero_shot_category": true,
		"llm.provider":                  "openai",
		"openai.api_key":                "sk-test",
	}), zap.NewNop(), tp).CreateClassifier()
	require.NoError(t, err)
	assert.NotNil(t, c)

	_, err = NewLLMFactory(testConfig(map[string]any{
		"triage.use_zero_shot_category": true,
		"llm.provider":                  "gemini",
	}), zap.NewNop(), tp).CreateClassifier()
	assert.Error(t, err)
}

func TestCacheFactory(t *testing.T) {
	f := NewCacheFactory(testConfig(map[string]any{"cache.cleanup_frequency": "0s"}), zap.NewNop())
	repo, err := f.CreateCacheRepository()
	require.NoError(t, err)
	mem, ok := repo.(*cache.MemoryCache)
	require.True(t, ok)
	mem.Stop()

	ttl, err := f.GetCacheTTL()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, ttl)
	assert.True(t, f.IsCacheEnabled())

	sqlitePath := t.TempDir() + "/nested/cache.db"
	repo, err = NewCacheFactory(testConfig(map[string]any{
		"cache.type":              "sqlite",
		"cache.sqlite_path":       sqlitePath,
		"cache.cleanup_frequency": "0s",
	}), zap.NewNop()).CreateCacheRepository()
	require.NoError(t, err)
	repo.(*cache.SQLiteCache).Stop()

	_, err = NewCacheFactory(testConfig(map[string]any{"cache.type": "memcached"}), zap.NewNop()).CreateCacheRepository()
	assert.Error(t, err)
}

func TestStoreFactory(t *testing.T) {
	s, err := NewStoreFactory(testConfig(nil), zap.NewNop()).CreateStore()
	require.NoError(t, err)
	assert.IsType(t, &memstore.Store{}, s)

	_, err = NewStoreFactory(testConfig(map[string]any{"store.type": "postgres"}), zap.NewNop()).CreateStore()
	assert.Error(t, err)
}

func TestNotifierFactory(t *testing.T) {
	n, err := NewNotifierFactory(testConfig(nil), zap.NewNop()).CreateNotifier()
	require.NoError(t, err)
	assert.IsType(t, notify.DisabledNotifier{}, n)

	n, err = NewNotifierFactory(testConfig(map[string]any{
		"smtp.enabled": true,
		"smtp.to":      "owner@example.com",
	}), zap.NewNop()).CreateNotifier()
	require.NoError(t, err)
	assert.IsType(t, &notify.SMTPNotifier{}, n)

	_, err = NewNotifierFactory(testConfig(map[string]any{"smtp.enabled": true}), zap.NewNop()).CreateNotifier()
	assert.Error(t, err)
}

func TestServerFactory(t *testing.T) {
	store := memstore.New(nil)
	svc := core.NewContactService(
		triage.NewAnalyzer(triage.DefaultConfig(), nil, nil, nil, nil),
		nil, store, store, notify.DisabledNotifier{}, nil, nil, false, 0,
	)

	servers, err := NewServerFactory(testConfig(nil), zap.NewNop(), svc, nil).CreateServers()
	require.NoError(t, err)
	require.Len(t, servers, 1)
	assert.Equal(t, "http-api", servers[0].Name())

	servers, err = NewServerFactory(testConfig(map[string]any{"intake.enabled": true}), zap.NewNop(), svc, nil).CreateServers()
	require.NoError(t, err)
	require.Len(t, servers, 2)
	assert.Equal(t, "mail-intake", servers[1].Name())
}

func TestProfileFactory(t *testing.T) {
	p, err := NewProfileFactory(testConfig(nil), zap.NewNop()).CreateProfileService()
	require.NoError(t, err)
	_, err = p.Stats(context.Background())
	assert.ErrorIs(t, err, core.ErrProfileUnavailable)

	p, err = NewProfileFactory(testConfig(map[string]any{
		"github.username": "octo",
		"github.base_url": "http://127.0.0.1:1",
	}), zap.NewNop()).CreateProfileService()
	require.NoError(t, err)
	assert.NotNil(t, p)

	_, err = NewProfileFactory(testConfig(map[string]any{"github.cache_ttl": "hourly"}), zap.NewNop()).CreateProfileService()
	assert.Error(t, err)
}
