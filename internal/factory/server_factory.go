package factory

import (
	"github.com/mikey/portfolio-backend/internal/adapters/httpapi"
	"github.com/mikey/portfolio-backend/internal/adapters/intake"
	"github.com/mikey/portfolio-backend/internal/config"
	"github.com/mikey/portfolio-backend/internal/core"
	"github.com/mikey/portfolio-backend/internal/ports"
	"go.uber.org/zap"
)

// ServerFactory creates the inbound servers based on configuration
type ServerFactory struct {
	cfg     *config.Config
	logger  *zap.Logger
	service *core.ContactService
	profile *core.ProfileService
}

// NewServerFactory creates a new server factory
func NewServerFactory(cfg *config.Config, logger *zap.Logger, service *core.ContactService, profile *core.ProfileService) *ServerFactory {
	return &ServerFactory{
		cfg:     cfg,
		logger:  logger,
		service: service,
		profile: profile,
	}
}

// CreateServers returns the HTTP API and, when enabled, the mail intake
func (f *ServerFactory) CreateServers() ([]ports.Server, error) {
	serverCfg, err := f.cfg.GetServer()
	if err != nil {
		return nil, err
	}
	servers := []ports.Server{httpapi.NewServer(f.service, f.profile, serverCfg, f.logger)}

	intakeCfg := f.cfg.GetIntake()
	if intakeCfg.Enabled {
		servers = append(servers, intake.NewServer(f.service, intakeCfg, f.logger))
	}
	return servers, nil
}
