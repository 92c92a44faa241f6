// Package extract turns raw provider payloads into candidate leads.
//
// Two strategies implement Extractor: FieldMap maps the structured contact
// fields the providers already expose, and ModelExtractor asks a generative
// model to infer leads from the combined payloads. Neither ever fails; a
// strategy that cannot produce anything returns no candidates.
package extract

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadgen/internal/config"
	"github.com/sells-group/leadgen/internal/model"
)

// Input carries the raw payloads plus the original search parameters.
type Input struct {
	Search      model.RawResult
	Directory   model.RawResult
	Term        string
	TargetCount int
	Latitude    float64
	Longitude   float64
}

// Extractor produces candidate leads from raw provider payloads.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, in Input) []model.CandidateLead
}

// New selects the extractor for cfg.Strategy. m is required for the model
// strategy and ignored otherwise.
func New(cfg config.ExtractConfig, m Model) (Extractor, error) {
	switch cfg.Strategy {
	case config.StrategyFieldMap, "":
		return NewFieldMap(), nil
	case config.StrategyModel:
		if m == nil {
			return nil, eris.New("extract: model strategy requires a model backend")
		}
		return NewModelExtractor(m, cfg.MaxRadiusKM).WithTimeout(cfg.Timeout()), nil
	default:
		return nil, eris.Errorf("extract: unknown strategy %q", cfg.Strategy)
	}
}
