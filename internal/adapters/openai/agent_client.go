package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mikey/gmail-filter-agent/internal/core"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIClient is an implementation of the AgentClient interface using the
// OpenAI chat completions API with tool calls.
type OpenAIClient struct {
	client            *openai.Client
	modelName         string
	maxTokens         int
	temperature       float32
	topP              float32
	tools             []openai.Tool
	systemInstruction string
	logger            *zap.Logger
}

// NewOpenAIClient creates a new OpenAI agent client with the given tool
// declarations and system instruction.
func NewOpenAIClient(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	specs []core.ToolSpec,
	systemInstruction string,
	logger *zap.Logger,
) *OpenAIClient {
	return &OpenAIClient{
		client:            openai.NewClient(apiKey),
		modelName:         modelName,
		maxTokens:         maxTokens,
		temperature:       temperature,
		topP:              topP,
		tools:             convertSpecs(specs),
		systemInstruction: systemInstruction,
		logger:            logger,
	}
}

// StartSession starts a new chat session. Conversation history is held in the
// session; the API itself is stateless.
func (c *OpenAIClient) StartSession(ctx context.Context) (core.AgentSession, error) {
	return &openaiSession{
		client: c,
		messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: c.systemInstruction},
		},
	}, nil
}

type openaiSession struct {
	client   *OpenAIClient
	messages []openai.ChatCompletionMessage
}

// Send forwards user input and returns the agent's reply.
func (s *openaiSession) Send(ctx context.Context, input string) (*core.AgentReply, error) {
	s.messages = append(s.messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: input,
	})
	return s.complete(ctx)
}

// SendToolResults returns tool outputs to the agent as role=tool messages.
func (s *openaiSession) SendToolResults(ctx context.Context, results []core.ToolResult) (*core.AgentReply, error) {
	for _, result := range results {
		content, err := json.Marshal(result.Response)
		if err != nil {
			return nil, fmt.Errorf("failed to encode tool result: %w", err)
		}
		s.messages = append(s.messages, openai.ChatCompletionMessage{
			Role:       openai.ChatMessageRoleTool,
			Content:    string(content),
			Name:       result.Name,
			ToolCallID: result.CallID,
		})
	}
	return s.complete(ctx)
}

func (s *openaiSession) complete(ctx context.Context) (*core.AgentReply, error) {
	resp, err := s.client.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.client.modelName,
		Messages:    s.messages,
		MaxTokens:   s.client.maxTokens,
		Temperature: s.client.temperature,
		TopP:        s.client.topP,
		Tools:       s.client.tools,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no completion choices returned")
	}

	msg := resp.Choices[0].Message
	s.messages = append(s.messages, msg)

	reply := &core.AgentReply{Text: msg.Content}
	for _, call := range msg.ToolCalls {
		args := map[string]any{}
		if call.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
				s.client.logger.Warn("Failed to decode tool call arguments",
					zap.String("tool", call.Function.Name),
					zap.Error(err))
				continue
			}
		}
		reply.ToolCalls = append(reply.ToolCalls, core.ToolCall{
			CallID: call.ID,
			Name:   call.Function.Name,
			Args:   args,
		})
	}

	return reply, nil
}

// convertSpecs translates the provider-neutral tool declarations into OpenAI
// function tools with JSON schema parameters.
func convertSpecs(specs []core.ToolSpec) []openai.Tool {
	tools := make([]openai.Tool, len(specs))
	for i, spec := range specs {
		properties := make(map[string]any, len(spec.Params))
		required := []string{}
		for _, param := range spec.Params {
			properties[param.Name] = convertParam(param)
			if param.Required {
				required = append(required, param.Name)
			}
		}
		tools[i] = openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        spec.Name,
				Description: spec.Description,
				Parameters: map[string]any{
					"type":       "object",
					"properties": properties,
					"required":   required,
				},
			},
		}
	}
	return tools
}

func convertParam(param core.ToolParam) map[string]any {
	schema := map[string]any{
		"type":        param.Type,
		"description": param.Description,
	}
	if param.Items != nil {
		schema["items"] = convertParam(*param.Items)
	}
	if len(param.Properties) > 0 {
		properties := make(map[string]any, len(param.Properties))
		required := []string{}
		for _, nested := range param.Properties {
			properties[nested.Name] = convertParam(nested)
			if nested.Required {
				required = append(required, nested.Name)
			}
		}
		schema["properties"] = properties
		if len(required) > 0 {
			schema["required"] = required
		}
	}
	return schema
}
