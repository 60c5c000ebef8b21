package factory

import (
	"context"
	"fmt"

	"github.com/mikey/portfolio-backend/internal/adapters/memstore"
	"github.com/mikey/portfolio-backend/internal/adapters/mongo"
	"github.com/mikey/portfolio-backend/internal/config"
	"github.com/mikey/portfolio-backend/internal/core"
	"go.uber.org/zap"
)

// DocumentStore holds contact messages and site statistics
type DocumentStore interface {
	core.MessageStore
	core.StatsStore
}

// StoreFactory creates the document store
type StoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewStoreFactory creates a new store factory
func NewStoreFactory(cfg *config.Config, logger *zap.Logger) *StoreFactory {
	return &StoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateStore creates the store selected by store.type
func (f *StoreFactory) CreateStore() (DocumentStore, error) {
	storeType := f.cfg.GetString("store.type")

	switch storeType {
	case "memory":
		f.logger.Warn("Using in-memory document store, data is lost on restart")
		return memstore.New(f.logger), nil
	case "mongo":
		mongoCfg, err := f.cfg.GetMongo()
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), mongoCfg.Timeout)
		defer cancel()
		store, err := mongo.Connect(ctx, mongoCfg.URI, mongoCfg.Database, f.logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported store type: %s", storeType)
	}
}
