package openai

import (
	"github.com/mikey/gmail-filter-agent/internal/core"
	"go.uber.org/zap"
)

// Factory creates new instances of OpenAIClient
type Factory struct {
	apiKey            string
	modelName         string
	maxTokens         int
	temperature       float32
	topP              float32
	specs             []core.ToolSpec
	systemInstruction string
	logger            *zap.Logger
}

// NewFactory creates a new factory for OpenAIClient instances
func NewFactory(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	specs []core.ToolSpec,
	systemInstruction string,
	logger *zap.Logger,
) *Factory {
	return &Factory{
		apiKey:            apiKey,
		modelName:         modelName,
		maxTokens:         maxTokens,
		temperature:       temperature,
		topP:              topP,
		specs:             specs,
		systemInstruction: systemInstruction,
		logger:            logger,
	}
}

// CreateAgentClient creates a new OpenAIClient
func (f *Factory) CreateAgentClient() (core.AgentClient, error) {
	return NewOpenAIClient(
		f.apiKey,
		f.modelName,
		f.maxTokens,
		f.temperature,
		f.topP,
		f.specs,
		f.systemInstruction,
		f.logger,
	), nil
}
