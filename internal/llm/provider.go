package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// ProviderType identifies an LLM backend. The set is closed.
type ProviderType int

const (
	OpenAI ProviderType = iota
	AzureOpenAI
	Claude
	Gemini
)

var providerNames = map[ProviderType]string{
	OpenAI:      "openai",
	AzureOpenAI: "azure_openai",
	Claude:      "claude",
	Gemini:      "gemini",
}

// ProviderTypes returns every supported provider type in declaration order
func ProviderTypes() []ProviderType {
	return []ProviderType{OpenAI, AzureOpenAI, Claude, Gemini}
}

// String returns the canonical provider name
func (t ProviderType) String() string {
	if name, ok := providerNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ProviderType(%d)", int(t))
}

// Valid reports whether t is one of the supported providers
func (t ProviderType) Valid() bool {
	_, ok := providerNames[t]
	return ok
}

// ParseProviderType maps a configured provider name to its ProviderType
func ParseProviderType(name string) (ProviderType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "openai":
		return OpenAI, nil
	case "azure", "azure_openai", "azureopenai", "azure-openai":
		return AzureOpenAI, nil
	case "claude", "anthropic":
		return Claude, nil
	case "gemini", "google":
		return Gemini, nil
	}
	return 0, &ConfigurationError{Value: name}
}

// ProviderConfig carries credentials and model selection for one provider.
// Missing optional fields stay empty; they are only checked when a request is made.
type ProviderConfig struct {
	APIKey         string
	Endpoint       string
	DeploymentName string
	Model          string
}

// Provider generates a SQL query from a natural-language request
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// GenerateSQLQuery asks the backend for a query answering userPrompt
	// against the database described by schemaContext.
	GenerateSQLQuery(ctx context.Context, userPrompt, schemaContext string) (string, error)
}

// Options holds process-wide collaborators shared by every provider instance
type Options struct {
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Client returns the configured HTTP client or a default one bounded by DefaultRequestTimeout
func (o Options) Client() *http.Client {
	if o.HTTPClient != nil {
		return o.HTTPClient
	}
	return NewHTTPClient(DefaultRequestTimeout)
}
