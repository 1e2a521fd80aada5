package factory

import (
	"context"
	"fmt"

	"github.com/mikey/gmail-filter-agent/internal/adapters/gmailapi"
	"github.com/mikey/gmail-filter-agent/internal/config"
	"github.com/mikey/gmail-filter-agent/internal/utils"
	"go.uber.org/zap"
)

// MailboxFactory creates Gmail mailbox clients
type MailboxFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewMailboxFactory creates a new mailbox factory
func NewMailboxFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *MailboxFactory {
	return &MailboxFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateMailboxClient authenticates against Gmail and creates the mailbox
// client. First run triggers the interactive OAuth consent flow.
func (f *MailboxFactory) CreateMailboxClient(ctx context.Context) (*gmailapi.Client, error) {
	gmailConfig := f.cfg.GetGmail()

	svc, err := gmailapi.NewService(ctx, gmailConfig.CredentialsFile, gmailConfig.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return gmailapi.NewClient(svc, f.logger, gmailConfig.PageSize, f.textProcessor), nil
}
