package gemini

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Rrens/sqlquery-ai/internal/llm"
	"github.com/rs/zerolog"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-pro"
)

// Generation parameters are fixed for deterministic SQL output
const (
	temperature     = 0.0
	topP            = 0.95
	maxOutputTokens = 1000
)

type Provider struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

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
		logger:  opts.Logger.With().Str("provider", llm.Gemini.String()).Logger(),
	}
}

func (p *Provider) Name() string {
	return llm.Gemini.String()
}

func (p *Provider) Model() string {
	return p.model
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (p *Provider) GenerateSQLQuery(ctx context.Context, userPrompt, schemaContext string) (string, error) {
	if p.apiKey == "" {
		return "", llm.MissingSetting(p.Name(), "api key")
	}

	req := generateRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: buildPrompt(userPrompt, schemaContext)}},
		}},
		GenerationConfig: generationConfig{
			Temperature:     temperature,
			TopP:            topP,
			MaxOutputTokens: maxOutputTokens,
		},
	}

	var resp generateResponse
	if err := llm.PostJSON(ctx, p.client, p.Name(), p.generateURL(), nil, req, &resp); err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", llm.EmptyReply(p.Name(), "no candidates")
	}
	text := resp.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", llm.EmptyReply(p.Name(), "empty candidate part")
	}
	return llm.Extract(p.logger, text), nil
}

// generateURL carries the API key as the "key" query parameter
func (p *Provider) generateURL() string {
	return fmt.Sprintf("%s/models/%s:generateContent?%s",
		p.baseURL, url.PathEscape(p.model), url.Values{"key": {p.apiKey}}.Encode())
}

// buildPrompt folds role, schema, request and output shape into the single user turn
func buildPrompt(userPrompt, schemaContext string) string {
	return "You are a SQL assistant. Generate a SQL query based on the given schema and relationships. " +
		llm.SchemaInstruction(schemaContext) + "\n\n" +
		"User request: " + userPrompt + "\n\n" +
		"Return ONLY a JSON object with a single 'query' field containing your SQL query as a string, nothing else."
}
