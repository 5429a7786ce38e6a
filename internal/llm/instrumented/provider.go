package instrumented

import (
	"context"
	"time"

	"github.com/Rrens/sqlquery-ai/internal/llm"
	"github.com/Rrens/sqlquery-ai/internal/metrics"
	"github.com/rs/zerolog"
)

// Provider wraps an llm.Provider with latency metrics and error logging
type Provider struct {
	next   llm.Provider
	logger zerolog.Logger
}

// Wrap decorates next. The wrapper holds no mutable state.
func Wrap(next llm.Provider, logger zerolog.Logger) *Provider {
	return &Provider{
		next:   next,
		logger: logger.With().Str("provider", next.Name()).Logger(),
	}
}

func (p *Provider) Name() string {
	return p.next.Name()
}

func (p *Provider) GenerateSQLQuery(ctx context.Context, userPrompt, schemaContext string) (string, error) {
	start := time.Now()
	query, err := p.next.GenerateSQLQuery(ctx, userPrompt, schemaContext)
	elapsed := time.Since(start)

	metrics.ObserveProviderRequest(p.next.Name(), outcome(err), elapsed)

	if err != nil {
		p.logger.Error().Err(err).Dur("latency", elapsed).Msg("error generating SQL query")
		return "", err
	}

	p.logger.Debug().
		Dur("latency", elapsed).
		Int("prompt_length", len(userPrompt)).
		Int("query_length", len(query)).
		Msg("generated SQL query")
	return query, nil
}

func outcome(err error) string {
	if err == nil {
		return "success"
	}
	if perr, ok := llm.AsProviderError(err); ok {
		return string(perr.Kind)
	}
	return "error"
}
