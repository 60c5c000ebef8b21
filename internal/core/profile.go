package core

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ProfileOptions tunes the profile aggregation
type ProfileOptions struct {
	CacheTTL     time.Duration
	RecentWindow time.Duration
	MaxRecent    int
	MaxLanguages int
}

func (o ProfileOptions) withDefaults() ProfileOptions {
	if o.RecentWindow <= 0 {
		o.RecentWindow = 30 * 24 * time.Hour
	}
	if o.MaxRecent <= 0 {
		o.MaxRecent = 5
	}
	if o.MaxLanguages <= 0 {
		o.MaxLanguages = 6
	}
	return o
}

// ProfileService aggregates developer profile statistics and keeps the last
// result for CacheTTL. A failed refresh serves the previous result when one exists.
type ProfileService struct {
	source ProfileSource
	opts   ProfileOptions
	logger *zap.Logger
	now    func() time.Time

	group     singleflight.Group
	mu        sync.RWMutex
	cached    *ProfileStats
	expiresAt time.Time
}

// NewProfileService creates a profile service. source may be nil, in which case
// Stats returns ErrProfileUnavailable.
func NewProfileService(source ProfileSource, opts ProfileOptions, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{
		source: source,
		opts:   opts.withDefaults(),
		logger: logger,
		now:    time.Now,
	}
}

// Stats returns the aggregated profile statistics
func (s *ProfileService) Stats(ctx context.Context) (*ProfileStats, error) {
	if s.source == nil {
		return nil, ErrProfileUnavailable
	}

	now := s.now()
	s.mu.RLock()
	cached, fresh := s.cached, now.Before(s.expiresAt)
	s.mu.RUnlock()
	if cached != nil && fresh {
		return cached, nil
	}

	v, err, _ := s.group.Do("profile", func() (interface{}, error) {
		snapshot, err := s.source.FetchProfile(ctx)
		if err != nil {
			return nil, err
		}
		stats := AggregateProfile(snapshot, s.now(), s.opts)

		s.mu.Lock()
		s.cached = stats
		s.expiresAt = stats.FetchedAt.Add(s.opts.CacheTTL)
		s.mu.Unlock()
		return stats, nil
	})
	if err != nil {
		if cached != nil {
			s.logger.Warn("Profile refresh failed, serving stale statistics", zap.Error(err))
			return cached, nil
		}
		return nil, err
	}
	return v.(*ProfileStats), nil
}

// AggregateProfile computes totals, language shares and recent activity.
// Forked repositories count towards neither stars, forks nor languages.
func AggregateProfile(snapshot *ProfileSnapshot, now time.Time, opts ProfileOptions) *ProfileStats {
	opts = opts.withDefaults()
	stats := &ProfileStats{
		Username:       snapshot.Username,
		PublicRepos:    snapshot.PublicRepos,
		Followers:      snapshot.Followers,
		Languages:      []LanguageShare{},
		RecentActivity: []RepoActivity{},
		FetchedAt:      now,
	}

	langCounts := make(map[string]int)
	withLanguage := 0
	cutoff := now.Add(-opts.RecentWindow)

	for _, repo := range snapshot.Repos {
		if repo.Fork {
			continue
		}
		stats.TotalStars += repo.Stars
		stats.TotalForks += repo.Forks
		if repo.Language != "" {
			langCounts[repo.Language]++
			withLanguage++
		}
		if repo.UpdatedAt.After(cutoff) {
			stats.RecentActivity = append(stats.RecentActivity, RepoActivity{
				Name:        repo.Name,
				URL:         repo.URL,
				Description: repo.Description,
				Language:    repo.Language,
				Stars:       repo.Stars,
				Updated:     repo.UpdatedAt,
			})
		}
	}

	for lang, n := range langCounts {
		stats.Languages = append(stats.Languages, LanguageShare{
			Language:   lang,
			Percentage: math.Round(float64(n)/float64(withLanguage)*1000) / 10,
		})
	}
	sort.Slice(stats.Languages, func(i, j int) bool {
		a, b := stats.Languages[i], stats.Languages[j]
		if a.Percentage != b.Percentage {
			return a.Percentage > b.Percentage
		}
		return a.Language < b.Language
	})
	if len(stats.Languages) > opts.MaxLanguages {
		stats.Languages = stats.Languages[:opts.MaxLanguages]
	}

	sort.SliceStable(stats.RecentActivity, func(i, j int) bool {
		return stats.RecentActivity[i].Updated.After(stats.RecentActivity[j].Updated)
	})
	if len(stats.RecentActivity) > opts.MaxRecent {
		stats.RecentActivity = stats.RecentActivity[:opts.MaxRecent]
	}

	return stats
}
