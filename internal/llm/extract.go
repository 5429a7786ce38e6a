package llm

import (
	"github.com/Rrens/sqlquery-ai/internal/metrics"
	"github.com/rs/zerolog"
)

// Extract runs ExtractQuery on a provider reply, logging and counting the rule that matched
func Extract(logger zerolog.Logger, raw string) string {
	query, stage := ExtractQueryStage(raw)
	metrics.ObserveExtraction(string(stage))

	switch stage {
	case StageJSON:
		logger.Info().Str("query", query).Msg("provider response")
	case StageFence:
		logger.Warn().Msg("provider did not return valid JSON, extracted query from sql code block")
	default:
		logger.Warn().Int("length", len(raw)).Msg("provider did not return valid JSON, returning raw response")
	}
	return query
}
