package factory

import (
	"fmt"

	"github.com/supriyakanse/agent-email-query/internal/adapters/imap"
	"github.com/supriyakanse/agent-email-query/internal/config"
	"github.com/supriyakanse/agent-email-query/internal/core"
	"go.uber.org/zap"
)

// SourceFactory creates mail sources based on configuration
type SourceFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewSourceFactory creates a new mail source factory
func NewSourceFactory(cfg *config.Config, logger *zap.Logger) *SourceFactory {
	return &SourceFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateMailSource creates a mail source based on the configuration
func (f *SourceFactory) CreateMailSource() (core.MailSource, error) {
	mailCfg := f.cfg.GetMail()

	switch mailCfg.Source {
	case "imap":
		return imap.NewSource(
			mailCfg.IMAPServer,
			mailCfg.Username,
			mailCfg.AppPassword,
			mailCfg.Mailbox,
			f.logger,
		), nil
	default:
		return nil, fmt.Errorf("unsupported mail source: %s", mailCfg.Source)
	}
}
