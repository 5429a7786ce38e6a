package factory

import (
	"github.com/Rrens/sqlquery-ai/internal/llm"
	"github.com/Rrens/sqlquery-ai/internal/llm/azure"
	"github.com/Rrens/sqlquery-ai/internal/llm/claude"
	"github.com/Rrens/sqlquery-ai/internal/llm/gemini"
	"github.com/Rrens/sqlquery-ai/internal/llm/openai"
)

// Constructor builds a provider from its configuration. It performs no I/O.
type Constructor func(cfg llm.ProviderConfig, opts llm.Options) llm.Provider

var constructors = map[llm.ProviderType]Constructor{
	llm.OpenAI: func(cfg llm.ProviderConfig, opts llm.Options) llm.Provider {
		return openai.NewProvider(cfg, opts)
	},
	llm.AzureOpenAI: func(cfg llm.ProviderConfig, opts llm.Options) llm.Provider {
		return azure.NewProvider(cfg, opts)
	},
	llm.Claude: func(cfg llm.ProviderConfig, opts llm.Options) llm.Provider {
		return claude.NewProvider(cfg, opts)
	},
	llm.Gemini: func(cfg llm.ProviderConfig, opts llm.Options) llm.Provider {
		return gemini.NewProvider(cfg, opts)
	},
}

// New creates the provider for providerType.
// Credentials are not checked here; a missing key surfaces on the first GenerateSQLQuery call.
func New(providerType llm.ProviderType, cfg llm.ProviderConfig, opts llm.Options) (llm.Provider, error) {
	construct, ok := constructors[providerType]
	if !ok {
		return nil, &llm.ConfigurationError{Value: providerType.String()}
	}
	return construct(cfg, opts), nil
}

// ProviderInfo describes the configured provider without exposing credentials
type ProviderInfo struct {
	Name           string `json:"name"`
	Model          string `json:"model,omitempty"`
	Endpoint       string `json:"endpoint,omitempty"`
	DeploymentName string `json:"deployment_name,omitempty"`
	Configured     bool   `json:"configured"`
}

// Describe summarizes a provider selection for the provider listing endpoint
func Describe(providerType llm.ProviderType, cfg llm.ProviderConfig) (ProviderInfo, error) {
	if !providerType.Valid() {
		return ProviderInfo{}, &llm.ConfigurationError{Value: providerType.String()}
	}

	info := ProviderInfo{
		Name:           providerType.String(),
		Model:          cfg.Model,
		Endpoint:       cfg.Endpoint,
		DeploymentName: cfg.DeploymentName,
		Configured:     cfg.APIKey != "",
	}
	if providerType == llm.AzureOpenAI {
		info.Configured = info.Configured && cfg.Endpoint != "" && cfg.DeploymentName != ""
	}
	return info, nil
}
