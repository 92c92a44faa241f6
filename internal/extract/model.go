package extract

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen/internal/model"
)

// Model is a generative text backend.
type Model interface {
	Name() string
	Generate(ctx context.Context, p Prompt) (string, error)
}

// ModelExtractor is the model-assisted strategy.
type ModelExtractor struct {
	model       Model
	maxRadiusKM float64
	timeout     time.Duration
}

// DefaultModelTimeout bounds a model call when no timeout is configured.
const DefaultModelTimeout = 2 * time.Minute

// NewModelExtractor creates a model-assisted extractor. maxRadiusKM <= 0
// omits the distance bound from the request.
func NewModelExtractor(m Model, maxRadiusKM float64) *ModelExtractor {
	return &ModelExtractor{model: m, maxRadiusKM: maxRadiusKM, timeout: DefaultModelTimeout}
}

// WithTimeout sets the bound on the model call; d <= 0 keeps the default.
func (e *ModelExtractor) WithTimeout(d time.Duration) *ModelExtractor {
	if d > 0 {
		e.timeout = d
	}
	return e
}

// Name implements Extractor.
func (e *ModelExtractor) Name() string { return "model:" + e.model.Name() }

// Extract implements Extractor. A failed call or an unparseable response
// yields no candidates.
func (e *ModelExtractor) Extract(ctx context.Context, in Input) []model.CandidateLead {
	log := zap.L().With(zap.String("component", "extract"), zap.String("backend", e.model.Name()))

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	text, err := e.model.Generate(callCtx, BuildPrompt(in, e.maxRadiusKM))
	if err != nil {
		log.Warn("extract: model call failed, no candidates", zap.Error(err))
		return nil
	}

	leads, err := ParseLeads(text)
	if err != nil {
		log.Warn("extract: model response not parseable, no candidates",
			zap.Int("response_len", len(text)),
			zap.Error(err),
		)
		return nil
	}

	log.Debug("extract: model extraction complete", zap.Int("candidates", len(leads)))
	return leads
}

type leadsEnvelope struct {
	Leads []model.CandidateLead `json:"leads"`
}

// ParseLeads decodes a {"leads": [...]} response, tolerating markdown fences
// and surrounding prose.
func ParseLeads(text string) ([]model.CandidateLead, error) {
	cleaned := stripFences(text)
	if cleaned == "" {
		return nil, eris.New("extract: empty model response")
	}

	var env leadsEnvelope
	if err := json.Unmarshal([]byte(cleaned), &env); err != nil {
		return nil, eris.Wrap(err, "extract: unmarshal model response")
	}
	return env.Leads, nil
}
