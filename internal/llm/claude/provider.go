package claude

import (
	"context"
	"net/http"
	"strings"

	"github.com/Rrens/sqlquery-ai/internal/llm"
	"github.com/rs/zerolog"
)

const (
	defaultBaseURL   = "https://api.anthropic.com/v1"
	defaultModel     = "claude-3-sonnet-20240229"
	anthropicVersion = "2023-06-01"
	maxTokens        = 1000
)

// Provider implements llm.Provider for Anthropic's Claude messages API
type Provider struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// NewProvider creates a new Claude provider
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
		logger:  opts.Logger.With().Str("provider", llm.Claude.String()).Logger(),
	}
}

// Name returns the provider identifier
func (p *Provider) Name() string {
	return llm.Claude.String()
}

// Model returns the model requests are sent to
func (p *Provider) Model() string {
	return p.model
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// GenerateSQLQuery generates SQL from natural language.
// The messages API has no schema constraint, so the JSON shape is requested in the system prompt.
func (p *Provider) GenerateSQLQuery(ctx context.Context, userPrompt, schemaContext string) (string, error) {
	if p.apiKey == "" {
		return "", llm.MissingSetting(p.Name(), "api key")
	}

	req := messagesRequest{
		Model:     p.model,
		MaxTokens: maxTokens,
		System: llm.SystemInstruction +
			"\n\n" + llm.SchemaInstruction(schemaContext) +
			"\n\n" + llm.JSONOnlyInstruction,
		Messages: []message{
			{Role: "user", Content: userPrompt},
		},
	}

	headers := http.Header{}
	headers.Set("x-api-key", p.apiKey)
	headers.Set("anthropic-version", anthropicVersion)

	var resp messagesResponse
	if err := llm.PostJSON(ctx, p.client, p.Name(), p.baseURL+"/messages", headers, req, &resp); err != nil {
		return "", err
	}

	if len(resp.Content) == 0 || resp.Content[0].Text == "" {
		return "", llm.EmptyReply(p.Name(), "no content blocks")
	}
	return llm.Extract(p.logger, resp.Content[0].Text), nil
}
