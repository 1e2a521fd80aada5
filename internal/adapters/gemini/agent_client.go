package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/gmail-filter-agent/internal/core"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// GeminiClient is an implementation of the AgentClient interface using
// Google Gemini function calling.
type GeminiClient struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
	logger    *zap.Logger
}

// NewGeminiClient creates a new Gemini agent client with the given tool
// declarations and system instruction.
func NewGeminiClient(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	specs []core.ToolSpec,
	systemInstruction string,
	logger *zap.Logger,
) (*GeminiClient, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemInstruction)},
	}
	model.Tools = []*genai.Tool{{FunctionDeclarations: convertSpecs(specs)}}

	return &GeminiClient{
		client:    client,
		model:     model,
		modelName: modelName,
		logger:    logger,
	}, nil
}

// Close closes the Gemini client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// StartSession starts a new chat session.
func (c *GeminiClient) StartSession(ctx context.Context) (core.AgentSession, error) {
	return &geminiSession{
		chat:   c.model.StartChat(),
		logger: c.logger,
	}, nil
}

type geminiSession struct {
	chat   *genai.ChatSession
	logger *zap.Logger
}

// Send forwards user input and returns the agent's reply.
func (s *geminiSession) Send(ctx context.Context, input string) (*core.AgentReply, error) {
	resp, err := s.chat.SendMessage(ctx, genai.Text(input))
	if err != nil {
		return nil, fmt.Errorf("failed to send message to Gemini: %w", err)
	}
	return s.parseReply(resp)
}

// SendToolResults returns tool outputs to the agent as function responses.
func (s *geminiSession) SendToolResults(ctx context.Context, results []core.ToolResult) (*core.AgentReply, error) {
	parts := make([]genai.Part, len(results))
	for i, result := range results {
		parts[i] = genai.FunctionResponse{
			Name:     result.Name,
			Response: result.Response,
		}
	}

	resp, err := s.chat.SendMessage(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("failed to send tool results to Gemini: %w", err)
	}
	return s.parseReply(resp)
}

// parseReply splits a candidate's parts into text and tool calls.
func (s *geminiSession) parseReply(resp *genai.GenerateContentResponse) (*core.AgentReply, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	reply := &core.AgentReply{}
	for _, part := range resp.Candidates[0].Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			reply.Text += string(p)
		case genai.FunctionCall:
			s.logger.Debug("Gemini requested tool call", zap.String("tool", p.Name))
			reply.ToolCalls = append(reply.ToolCalls, core.ToolCall{
				Name: p.Name,
				Args: p.Args,
			})
		}
	}

	return reply, nil
}

// convertSpecs translates the provider-neutral tool declarations into
// Gemini function declarations.
func convertSpecs(specs []core.ToolSpec) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, len(specs))
	for i, spec := range specs {
		properties := make(map[string]*genai.Schema, len(spec.Params))
		var required []string
		for _, param := range spec.Params {
			properties[param.Name] = convertParam(param)
			if param.Required {
				required = append(required, param.Name)
			}
		}
		decls[i] = &genai.FunctionDeclaration{
			Name:        spec.Name,
			Description: spec.Description,
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: properties,
				Required:   required,
			},
		}
	}
	return decls
}

func convertParam(param core.ToolParam) *genai.Schema {
	schema := &genai.Schema{
		Type:        convertType(param.Type),
		Description: param.Description,
	}
	if param.Items != nil {
		schema.Items = convertParam(*param.Items)
	}
	if len(param.Properties) > 0 {
		schema.Properties = make(map[string]*genai.Schema, len(param.Properties))
		for _, nested := range param.Properties {
			schema.Properties[nested.Name] = convertParam(nested)
			if nested.Required {
				schema.Required = append(schema.Required, nested.Name)
			}
		}
	}
	return schema
}

func convertType(t string) genai.Type {
	switch t {
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeUnspecified
	}
}
