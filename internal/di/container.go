package di

import (
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/portfolio-backend/internal/config"
	"github.com/mikey/portfolio-backend/internal/core"
	"github.com/mikey/portfolio-backend/internal/factory"
	"github.com/mikey/portfolio-backend/internal/logging"
	"github.com/mikey/portfolio-backend/internal/ports"
	"github.com/mikey/portfolio-backend/internal/utils"
	"github.com/mikey/portfolio-backend/internal/whitelist"
)

// cacheSettings groups the cache switches handed to the contact service
type cacheSettings struct {
	Enabled bool
	TTL     time.Duration
}

// BuildContainer creates and configures a dependency injection container for
// the API server. configFile may be empty to search the default locations.
func BuildContainer(configFile string) (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(func() (*config.Config, error) {
		return config.NewWithFile(configFile)
	}); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return nil, err
	}

	// Register factories
	for _, ctor := range []any{
		factory.NewLLMFactory,
		factory.NewAnalyzerFactory,
		factory.NewCacheFactory,
		factory.NewStoreFactory,
		factory.NewNotifierFactory,
		factory.NewProfileFactory,
		factory.NewServerFactory,
	} {
		if err := container.Provide(ctor); err != nil {
			return nil, err
		}
	}

	if err := provideEngine(container); err != nil {
		return nil, err
	}

	// Register cache repository, nil when caching is off
	if err := container.Provide(func(f *factory.CacheFactory) (core.CacheRepository, error) {
		if !f.IsCacheEnabled() {
			return nil, nil
		}
		return f.CreateCacheRepository()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.CacheFactory) (cacheSettings, error) {
		ttl, err := f.GetCacheTTL()
		if err != nil {
			return cacheSettings{}, err
		}
		return cacheSettings{Enabled: f.IsCacheEnabled(), TTL: ttl}, nil
	}); err != nil {
		return nil, err
	}

	// Register document store
	if err := container.Provide(func(f *factory.StoreFactory) (factory.DocumentStore, error) {
		return f.CreateStore()
	}); err != nil {
		return nil, err
	}

	// Register notifier
	if err := container.Provide(func(f *factory.NotifierFactory) (core.Notifier, error) {
		return f.CreateNotifier()
	}); err != nil {
		return nil, err
	}

	// Register trusted sender whitelist
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) core.SenderWhitelist {
		return whitelist.NewChecker(cfg.GetStringSlice("triage.whitelisted_domains"), logger)
	}); err != nil {
		return nil, err
	}

	// Register contact service
	if err := container.Provide(func(
		analyzer core.MessageAnalyzer,
		cacheRepo core.CacheRepository,
		settings cacheSettings,
		store factory.DocumentStore,
		notifier core.Notifier,
		trusted core.SenderWhitelist,
		logger *zap.Logger,
	) *core.ContactService {
		return core.NewContactService(
			analyzer,
			cacheRepo,
			store,
			store,
			notifier,
			trusted,
			logger,
			settings.Enabled,
			settings.TTL,
		)
	}); err != nil {
		return nil, err
	}

	// Register developer profile statistics
	if err := container.Provide(func(f *factory.ProfileFactory) (*core.ProfileService, error) {
		return f.CreateProfileService()
	}); err != nil {
		return nil, err
	}

	// Register inbound servers
	if err := container.Provide(func(f *factory.ServerFactory) ([]ports.Server, error) {
		return f.CreateServers()
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// provideEngine registers the zero-shot classifier and the triage analyzer
func provideEngine(container *dig.Container) error {
	if err := container.Provide(func(f *factory.LLMFactory) (core.CategoryClassifier, error) {
		return f.CreateClassifier()
	}); err != nil {
		return err
	}

	return container.Provide(func(f *factory.AnalyzerFactory, zeroShot core.CategoryClassifier) (core.MessageAnalyzer, error) {
		a, err := f.CreateAnalyzer(zeroShot)
		if err != nil {
			return nil, err
		}
		return a, nil
	})
}
