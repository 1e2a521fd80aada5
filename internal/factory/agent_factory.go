package factory

import (
	"fmt"

	"github.com/mikey/gmail-filter-agent/internal/adapters/gemini"
	"github.com/mikey/gmail-filter-agent/internal/adapters/openai"
	"github.com/mikey/gmail-filter-agent/internal/config"
	"github.com/mikey/gmail-filter-agent/internal/core"
	"github.com/mikey/gmail-filter-agent/internal/tools"
	"go.uber.org/zap"
)

// AgentFactory creates agent clients
type AgentFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewAgentFactory creates a new agent factory
func NewAgentFactory(cfg *config.Config, logger *zap.Logger) *AgentFactory {
	return &AgentFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateAgentClient creates a new agent client based on the configuration
func (f *AgentFactory) CreateAgentClient() (core.AgentClient, error) {
	agentConfig := f.cfg.GetAgent()
	specs := tools.Specs()

	switch agentConfig.Provider {
	case "gemini":
		geminiConfig := f.cfg.GetGemini()
		factory := gemini.NewFactory(
			geminiConfig.APIKey,
			geminiConfig.ModelName,
			geminiConfig.MaxTokens,
			geminiConfig.Temperature,
			geminiConfig.TopP,
			specs,
			tools.SystemInstruction,
			f.logger,
		)
		return factory.CreateAgentClient()
	case "openai":
		openaiConfig := f.cfg.GetOpenAI()
		factory := openai.NewFactory(
			openaiConfig.APIKey,
			openaiConfig.ModelName,
			openaiConfig.MaxTokens,
			openaiConfig.Temperature,
			openaiConfig.TopP,
			specs,
			tools.SystemInstruction,
			f.logger,
		)
		return factory.CreateAgentClient()
	default:
		return nil, fmt.Errorf("unsupported agent provider: %s", agentConfig.Provider)
	}
}
