package factory

import (
	"github.com/mikey/portfolio-backend/internal/adapters/notify"
	"github.com/mikey/portfolio-backend/internal/config"
	"github.com/mikey/portfolio-backend/internal/core"
	"go.uber.org/zap"
)

// NotifierFactory creates the owner notification sender
type NotifierFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewNotifierFactory creates a new notifier factory
func NewNotifierFactory(cfg *config.Config, logger *zap.Logger) *NotifierFactory {
	return &NotifierFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateNotifier returns an SMTP notifier, or a disabled one when smtp.enabled is false
func (f *NotifierFactory) CreateNotifier() (core.Notifier, error) {
	smtpCfg, err := f.cfg.GetSMTP()
	if err != nil {
		return nil, err
	}
	if !smtpCfg.Enabled {
		f.logger.Info("Email notifications disabled")
		return notify.DisabledNotifier{}, nil
	}
	n, err := notify.NewSMTPNotifier(smtpCfg, f.logger)
	if err != nil {
		return nil, err
	}
	return n, nil
}
