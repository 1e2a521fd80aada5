package di

import (
	"context"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/gmail-filter-agent/internal/adapters/gmailapi"
	"github.com/mikey/gmail-filter-agent/internal/adapters/repl"
	"github.com/mikey/gmail-filter-agent/internal/config"
	"github.com/mikey/gmail-filter-agent/internal/core"
	"github.com/mikey/gmail-filter-agent/internal/factory"
	"github.com/mikey/gmail-filter-agent/internal/logging"
	"github.com/mikey/gmail-filter-agent/internal/ports"
	"github.com/mikey/gmail-filter-agent/internal/tools"
	"github.com/mikey/gmail-filter-agent/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewAgentFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewExporterFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewMailboxFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register Gmail mailbox client and its port views
	if err := container.Provide(func(f *factory.MailboxFactory) (*gmailapi.Client, error) {
		return f.CreateMailboxClient(context.Background())
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(c *gmailapi.Client) core.MailboxSearcher {
		return c
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(c *gmailapi.Client) core.MailboxFetcher {
		return c
	}); err != nil {
		return nil, err
	}

	// Register email cache and enabled flag
	if err := container.Provide(func(f *factory.CacheFactory) (core.EmailCache, error) {
		return f.CreateEmailCache()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.CacheFactory) bool {
		return f.IsCacheEnabled()
	}); err != nil {
		return nil, err
	}

	// Register exporter
	if err := container.Provide(func(f *factory.ExporterFactory) core.EmailExporter {
		return f.CreateEmailExporter()
	}); err != nil {
		return nil, err
	}

	// Register core components
	if err := container.Provide(core.NewQueryTranslator); err != nil {
		return nil, err
	}
	if err := container.Provide(core.NewAmountFilterPipeline); err != nil {
		return nil, err
	}
	if err := container.Provide(core.NewEmailFilterService); err != nil {
		return nil, err
	}

	// Register agent client
	if err := container.Provide(func(f *factory.AgentFactory) (core.AgentClient, error) {
		return f.CreateAgentClient()
	}); err != nil {
		return nil, err
	}

	// Register tool executor
	if err := container.Provide(func(
		svc *core.EmailFilterService,
		textProcessor *utils.TextProcessor,
		cfg *config.Config,
		logger *zap.Logger,
	) *tools.Executor {
		return tools.NewExecutor(svc, logger, textProcessor, cfg.GetGmail().MaxResults, cfg.GetExport().MaxBodySize)
	}); err != nil {
		return nil, err
	}

	// Register console surface
	if err := container.Provide(func(
		agent core.AgentClient,
		executor *tools.Executor,
		cfg *config.Config,
		logger *zap.Logger,
	) ports.AgentSurface {
		return repl.NewConsole(agent, executor, cfg.GetAgent().MaxToolRounds, logger)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
