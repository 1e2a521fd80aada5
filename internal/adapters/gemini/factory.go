package gemini

import (
	"github.com/mikey/gmail-filter-agent/internal/core"
	"go.uber.org/zap"
)

// Factory creates new instances of GeminiClient
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

// NewFactory creates a new factory for GeminiClient instances
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

// CreateAgentClient creates a new GeminiClient
func (f *Factory) CreateAgentClient() (core.AgentClient, error) {
	return NewGeminiClient(
		f.apiKey,
		f.modelName,
		f.maxTokens,
		f.temperature,
		f.topP,
		f.specs,
		f.systemInstruction,
		f.logger,
	)
}
