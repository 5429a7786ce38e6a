package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Rrens/sqlquery-ai/internal/llm"
	"github.com/rs/zerolog"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o"
)

// Provider implements llm.Provider for OpenAI
type Provider struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// NewProvider creates a new OpenAI provider
func NewProvider(cfg llm.ProviderConfig, opts llm.Options) *Provider {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	baseURL := strings.TrimRight(cfg.Endpoint, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Provider{
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: baseURL,
		client:  opts.Client(),
		logger:  opts.Logger.With().Str("provider", llm.OpenAI.String()).Logger(),
	}
}

// Name returns the provider identifier
func (p *Provider) Name() string {
	return llm.OpenAI.String()
}

// Model returns the model requests are sent to
func (p *Provider) Model() string {
	return p.model
}

// GenerateSQLQuery generates SQL from natural language
func (p *Provider) GenerateSQLQuery(ctx context.Context, userPrompt, schemaContext string) (string, error) {
	if p.apiKey == "" {
		return "", llm.MissingSetting(p.Name(), "api key")
	}

	chatReq := NewChatRequest(userPrompt, schemaContext)
	chatReq.Model = p.model

	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+p.apiKey)

	var chatResp ChatResponse
	if err := llm.PostJSON(ctx, p.client, p.Name(), p.baseURL+"/chat/completions", headers, chatReq, &chatResp); err != nil {
		return "", err
	}

	text, err := chatResp.Text(p.Name())
	if err != nil {
		return "", err
	}
	return llm.Extract(p.logger, text), nil
}

// ChatRequest is the chat completions request body shared with Azure OpenAI
type ChatRequest struct {
	Model          string          `json:"model,omitempty"`
	Messages       []ChatMessage   `json:"messages"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ResponseFormat struct {
	Type       string      `json:"type"`
	JSONSchema *JSONSchema `json:"json_schema,omitempty"`
}

type JSONSchema struct {
	Name   string          `json:"name"`
	Schema json.RawMessage `json:"schema"`
	Strict bool            `json:"strict"`
}

// ChatResponse is the subset of the chat completions reply we read
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// NewChatRequest builds the role, schema and user messages with a strict
// json_schema response format requiring a single "query" string.
func NewChatRequest(userPrompt, schemaContext string) ChatRequest {
	return ChatRequest{
		Messages: []ChatMessage{
			{Role: "system", Content: llm.SystemInstruction},
			{Role: "system", Content: llm.SchemaInstruction(schemaContext)},
			{Role: "user", Content: userPrompt},
		},
		ResponseFormat: &ResponseFormat{
			Type: "json_schema",
			JSONSchema: &JSONSchema{
				Name:   llm.QuerySchemaName,
				Schema: llm.QuerySchema,
				Strict: true,
			},
		},
	}
}

// Text returns the first choice's message content
func (r ChatResponse) Text(provider string) (string, error) {
	if len(r.Choices) == 0 {
		return "", llm.EmptyReply(provider, "no choices")
	}
	content := r.Choices[0].Message.Content
	if content == "" {
		return "", llm.EmptyReply(provider, "empty message content")
	}
	return content, nil
}
