package core_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mikey/portfolio-backend/internal/adapters/memstore"
	"github.com/mikey/portfolio-backend/internal/core"
	"github.com/mikey/portfolio-backend/internal/triage"
	"github.com/mikey/portfolio-backend/internal/whitelist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []*core.ContactMessage
	err  error
}

func (n *recordingNotifier) NotifyNewMessage(ctx context.Context, msg *core.ContactMessage) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, msg)
	return nil
}

type mapCache struct {
	mu      sync.Mutex
	entries map[string]*core.CacheEntry
	gets    int
	sets    int
	setErr  error
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]*core.CacheEntry)}
}

func (c *mapCache) Get(ctx context.Context, key string) (*core.CacheEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	e, ok := c.entries[key]
	if !ok {
		return nil, errors.New("miss")
	}
	return e, nil
}

func (c *mapCache) Set(ctx context.Context, entry *core.CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[entry.Key] = entry
	return nil
}

func (c *mapCache) Delete(ctx context.Context, key string) error { return nil }
func (c *mapCache) Cleanup(ctx context.Context) error            { return nil }

type countingAnalyzer struct {
	core.MessageAnalyzer
	mu    sync.Mutex
	calls int
}

func (a *countingAnalyzer) AnalyzeMessage(ctx context.Context, sub *core.Submission) *core.AnalysisResult {
	a.mu.Lock()
	a.calls++
	a.mu.Unlock()
	return a.MessageAnalyzer.AnalyzeMessage(ctx, sub)
}

type fixture struct {
	svc      *core.ContactService
	store    *memstore.Store
	notifier *recordingNotifier
	cache    *mapCache
	analyzer *countingAnalyzer
}

func newFixture(trusted ...string) *fixture {
	cfg := triage.DefaultConfig()
	cfg.UseMLSentiment = false

	f := &fixture{
		store:    memstore.New(nil),
		notifier: &recordingNotifier{},
		cache:    newMapCache(),
		analyzer: &countingAnalyzer{MessageAnalyzer: triage.NewAnalyzer(cfg, nil, nil, nil, nil)},
	}
	f.svc = core.NewContactService(
		f.analyzer,
		f.cache,
		f.store,
		f.store,
		f.notifier,
		whitelist.NewChecker(trusted, nil),
		nil,
		true,
		time.Hour,
	)
	return f
}

func validSubmission() *core.Submission {
	return &core.Submission{
		Name:    "Jane Doe",
		Email:   "jane@acme.io",
		Subject: "Hiring: backend role",
		Message: "We would like to schedule an interview with you next week.",
	}
}

func spamSubmission() *core.Submission {
	return &core.Submission{
		Name:    "Winner",
		Email:   "promo@mailinator.com",
		Subject: "FREE MONEY",
		Message: "CLICK HERE NOW!!!! http://a.com http://b.com",
	}
}

func TestValidateSubmission(t *testing.T) {
	tests := []struct {
		name  string
		sub   *core.Submission
		valid bool
	}{
		{"valid", validSubmission(), true},
		{"nil", nil, false},
		{"missing name", &core.Submission{Email: "a@b.io", Subject: "s", Message: "m"}, false},
		{"blank message", &core.Submission{Name: "n", Email: "a@b.io", Subject: "s", Message: "   "}, false},
		{"bad email", &core.Submission{Name: "n", Email: "not-an-email", Subject: "s", Message: "m"}, false},
		{"display name", &core.Submission{Name: "n", Email: "N <a@b.io>", Subject: "s", Message: "m"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := core.ValidateSubmission(tt.sub)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, core.ErrInvalidSubmission)
			}
		})
	}
}

func TestFingerprint(t *testing.T) {
	a := core.Fingerprint(&core.Submission{Name: "ab", Email: "c"})
	b := core.Fingerprint(&core.Submission{Name: "a", Email: "bc"})
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 64)
	assert.Equal(t, a, core.Fingerprint(&core.Submission{Name: "ab", Email: "c"}))
}

func TestSubmit_StoresAndNotifies(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	msg, err := f.svc.Submit(ctx, validSubmission())
	require.NoError(t, err)

	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, core.StatusNew, msg.Status)
	assert.Equal(t, core.SourceWeb, msg.Source)
	assert.True(t, msg.EmailSent)
	require.NotNil(t, msg.Analysis)
	assert.False(t, msg.Analysis.IsSpam)
	assert.Equal(t, core.CategoryJobInquiry, msg.Analysis.Category)
	assert.Equal(t, 9, msg.Analysis.PriorityScore)
	assert.Len(t, f.notifier.sent, 1)

	stored, err := f.store.Get(ctx, msg.ID)
	require.NoError(t, err)
	assert.True(t, stored.EmailSent)
	assert.Equal(t, msg.Analysis, stored.Analysis)
}

func TestSubmit_InvalidIsRejected(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Submit(context.Background(), &core.Submission{Name: "x"})
	assert.ErrorIs(t, err, core.ErrInvalidSubmission)

	all, err := f.store.Find(context.Background(), core.MessageFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Zero(t, f.analyzer.calls)
}

func TestSubmit_SpamIsStoredWithoutNotification(t *testing.T) {
	f := newFixture()

	msg, err := f.svc.Submit(context.Background(), spamSubmission())
	require.NoError(t, err)
	assert.True(t, msg.Analysis.IsSpam)
	assert.False(t, msg.EmailSent)
	assert.Empty(t, f.notifier.sent)

	spam := true
	found, err := f.svc.ListMessages(context.Background(), core.MessageFilter{Spam: &spam})
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestSubmit_WhitelistedSpamStillNotifies(t *testing.T) {
	f := newFixture("mailinator.com")

	msg, err := f.svc.Submit(context.Background(), spamSubmission())
	require.NoError(t, err)
	assert.True(t, msg.Analysis.IsSpam)
	assert.True(t, msg.EmailSent)
	assert.Len(t, f.notifier.sent, 1)
}

func TestSubmit_NotifierFailureIsNotFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"disabled", core.ErrNotifierDisabled},
		{"smtp failure", errors.New("connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.notifier.err = tt.err

			msg, err := f.svc.Submit(context.Background(), validSubmission())
			require.NoError(t, err)
			assert.False(t, msg.EmailSent)

			stored, err := f.store.Get(context.Background(), msg.ID)
			require.NoError(t, err)
			assert.False(t, stored.EmailSent)
		})
	}
}

func TestAnalyze_UsesCache(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first := f.svc.Analyze(ctx, validSubmission())
	second := f.svc.Analyze(ctx, validSubmission())

	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.analyzer.calls)
	assert.Equal(t, 1, f.cache.sets)

	other := validSubmission()
	other.Message = "Different text entirely"
	f.svc.Analyze(ctx, other)
	assert.Equal(t, 2, f.analyzer.calls)
}

func TestAnalyze_CacheFailureIsNotFatal(t *testing.T) {
	f := newFixture()
	f.cache.setErr = errors.New("disk full")

	res := f.svc.Analyze(context.Background(), validSubmission())
	require.NotNil(t, res)
	assert.Equal(t, triage.AnalysisVersion, res.AnalysisVersion)
}

func TestAnalyze_CacheDisabled(t *testing.T) {
	cfg := triage.DefaultConfig()
	cfg.UseMLSentiment = false
	store := memstore.New(nil)
	cache := newMapCache()
	svc := core.NewContactService(triage.NewAnalyzer(cfg, nil, nil, nil, nil), cache, store, store, &recordingNotifier{}, nil, nil, false, time.Hour)

	svc.Analyze(context.Background(), validSubmission())
	assert.Zero(t, cache.gets)
	assert.Zero(t, cache.sets)
}

func TestMarkMessage(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	msg, err := f.svc.Submit(ctx, validSubmission())
	require.NoError(t, err)

	updated, err := f.svc.MarkMessage(ctx, msg.ID, core.StatusArchived)
	require.NoError(t, err)
	assert.Equal(t, core.StatusArchived, updated.Status)

	got, err := f.svc.GetMessage(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, core.StatusArchived, got.Status)

	_, err = f.svc.MarkMessage(ctx, msg.ID, "deleted")
	assert.ErrorIs(t, err, core.ErrInvalidSubmission)

	_, err = f.svc.MarkMessage(ctx, "nope", core.StatusRead)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestVisitsAndDownloads(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		n, err := f.svc.RecordVisit(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(i), n)
	}
	n, err := f.svc.VisitorCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	d := &core.ResumeDownload{UserAgent: "curl/8"}
	total, err := f.svc.RecordResumeDownload(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.NotEmpty(t, d.ID)
	assert.False(t, d.DownloadedAt.IsZero())

	total, err = f.svc.ResumeDownloadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestClientHash(t *testing.T) {
	assert.Len(t, core.ClientHash("10.0.0.1", "curl"), 16)
	assert.Equal(t, core.ClientHash("a"), core.ClientHash("a"))
	assert.NotEqual(t, core.ClientHash("a"), core.ClientHash("b"))
}
