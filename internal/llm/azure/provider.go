package azure

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/Rrens/sqlquery-ai/internal/llm"
	"github.com/Rrens/sqlquery-ai/internal/llm/openai"
	"github.com/rs/zerolog"
)

// APIVersion is the Azure OpenAI data-plane version supporting json_schema response formats
const APIVersion = "2024-08-01-preview"

// Provider implements llm.Provider for Azure-hosted OpenAI deployments
type Provider struct {
	apiKey     string
	endpoint   string
	deployment string
	client     *http.Client
	logger     zerolog.Logger
}

// NewProvider creates a new Azure OpenAI provider
func NewProvider(cfg llm.ProviderConfig, opts llm.Options) *Provider {
	return &Provider{
		apiKey:     cfg.APIKey,
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		deployment: cfg.DeploymentName,
		client:     opts.Client(),
		logger:     opts.Logger.With().Str("provider", llm.AzureOpenAI.String()).Logger(),
	}
}

// Name returns the provider identifier
func (p *Provider) Name() string {
	return llm.AzureOpenAI.String()
}

// GenerateSQLQuery generates SQL from natural language
func (p *Provider) GenerateSQLQuery(ctx context.Context, userPrompt, schemaContext string) (string, error) {
	switch {
	case p.apiKey == "":
		return "", llm.MissingSetting(p.Name(), "api key")
	case p.endpoint == "":
		return "", llm.MissingSetting(p.Name(), "endpoint")
	case p.deployment == "":
		return "", llm.MissingSetting(p.Name(), "deployment name")
	}

	headers := http.Header{}
	headers.Set("api-key", p.apiKey)

	var chatResp openai.ChatResponse
	if err := llm.PostJSON(ctx, p.client, p.Name(), p.completionsURL(), headers, openai.NewChatRequest(userPrompt, schemaContext), &chatResp); err != nil {
		return "", err
	}

	text, err := chatResp.Text(p.Name())
	if err != nil {
		return "", err
	}
	return llm.Extract(p.logger, text), nil
}

func (p *Provider) completionsURL() string {
	return p.endpoint + "/openai/deployments/" + url.PathEscape(p.deployment) +
		"/chat/completions?api-version=" + url.QueryEscape(APIVersion)
}
