package config

// AgentConfig represents the configuration for the agent runtime
type AgentConfig struct {
	Provider      string
	MaxToolRounds int
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// GmailConfig represents the configuration for the Gmail mailbox adapter
type GmailConfig struct {
	CredentialsFile string
	TokenFile       string
	MaxResults      int64
	PageSize        int64
}

// ExportConfig represents the configuration for CSV export
type ExportConfig struct {
	OutputDir   string
	MaxBodySize int
}

// GetAgent returns the agent configuration
func (c *Config) GetAgent() AgentConfig {
	return AgentConfig{
		Provider:      c.GetString("agent.provider"),
		MaxToolRounds: c.GetInt("agent.max_tool_rounds"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
	}
}

// GetGmail returns the Gmail adapter configuration
func (c *Config) GetGmail() GmailConfig {
	return GmailConfig{
		CredentialsFile: c.GetString("gmail.credentials_file"),
		TokenFile:       c.GetString("gmail.token_file"),
		MaxResults:      c.GetInt64("gmail.max_results"),
		PageSize:        c.GetInt64("gmail.page_size"),
	}
}

// GetExport returns the export configuration
func (c *Config) GetExport() ExportConfig {
	return ExportConfig{
		OutputDir:   c.GetString("export.output_dir"),
		MaxBodySize: c.GetInt("export.max_body_size"),
	}
}
