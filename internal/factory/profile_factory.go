package factory

import (
	"github.com/mikey/portfolio-backend/internal/adapters/github"
	"github.com/mikey/portfolio-backend/internal/config"
	"github.com/mikey/portfolio-backend/internal/core"
	"go.uber.org/zap"
)

// ProfileFactory creates the developer profile statistics service
type ProfileFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewProfileFactory creates a new profile factory
func NewProfileFactory(cfg *config.Config, logger *zap.Logger) *ProfileFactory {
	return &ProfileFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateProfileService returns the profile service. Without github.username the
// service has no source and reports the statistics as unavailable.
func (f *ProfileFactory) CreateProfileService() (*core.ProfileService, error) {
	ghCfg, err := f.cfg.GetGitHub()
	if err != nil {
		return nil, err
	}

	opts := core.ProfileOptions{
		CacheTTL:     ghCfg.CacheTTL,
		RecentWindow: ghCfg.RecentWindow,
		MaxRecent:    ghCfg.MaxRecent,
		MaxLanguages: ghCfg.MaxLanguages,
	}

	if ghCfg.Username == "" {
		f.logger.Info("GitHub profile statistics disabled")
		return core.NewProfileService(nil, opts, f.logger), nil
	}

	client, err := github.NewFromConfig(ghCfg, f.logger)
	if err != nil {
		return nil, err
	}
	f.logger.Info("Using GitHub profile statistics", zap.String("username", ghCfg.Username))
	return core.NewProfileService(client, opts, f.logger), nil
}
