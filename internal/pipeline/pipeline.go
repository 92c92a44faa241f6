// Package pipeline sequences a lead search: acquire, extract, validate,
// format, persist.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen/internal/acquire"
	"github.com/sells-group/leadgen/internal/extract"
	"github.com/sells-group/leadgen/internal/model"
)

// ErrInvalidRequest is wrapped by every Run error caused by bad input.
var ErrInvalidRequest = eris.New("pipeline: invalid request")

// Acquirer fetches the raw provider payloads for a search.
type Acquirer interface {
	Acquire(ctx context.Context, term string, lat, lng float64) acquire.Acquired
}

// Persister performs the bulk write of formatted leads.
type Persister interface {
	InsertLeads(ctx context.Context, tenantID string, leads []model.StorageLead, lat, lng float64) (int, error)
}

// Request is one lead search.
type Request struct {
	TenantID    string  `json:"tenant_id"`
	Term        string  `json:"term"`
	TargetCount int     `json:"target_count"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// Validate checks the request. Coordinates are not range-checked.
func (r Request) Validate() error {
	switch {
	case strings.TrimSpace(r.TenantID) == "":
		return eris.Wrap(ErrInvalidRequest, "tenant id is required")
	case strings.TrimSpace(r.Term) == "":
		return eris.Wrap(ErrInvalidRequest, "term is required")
	case r.TargetCount <= 0:
		return eris.Wrapf(ErrInvalidRequest, "target count must be positive, got %d", r.TargetCount)
	}
	return nil
}

// Result is the outcome of a run. Leads is the formatter output, returned
// whatever the store managed to write.
type Result struct {
	Leads      []model.StorageLead `json:"leads"`
	Candidates int                 `json:"candidates"`
	Validated  int                 `json:"validated"`
	Stored     int                 `json:"stored"`
	PersistErr error               `json:"-"`
	Duration   time.Duration       `json:"duration"`
}

// Pipeline runs the stages strictly in sequence. It holds no per-run state
// and is safe for concurrent use.
type Pipeline struct {
	acquirer  Acquirer
	extractor extract.Extractor
	store     Persister
}

// New creates a Pipeline. A nil store behaves as one that writes nothing.
func New(acquirer Acquirer, extractor extract.Extractor, store Persister) *Pipeline {
	return &Pipeline{acquirer: acquirer, extractor: extractor, store: store}
}

// Run executes one search. The only errors returned are ErrInvalidRequest
// wraps; provider, model and store failures are absorbed and show up as
// empty stages or Result.PersistErr.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	// Cancelling the caller does not abort a started run.
	ctx = context.WithoutCancel(ctx)

	log := zap.L().With(
		zap.String("component", "pipeline"),
		zap.String("tenant_id", req.TenantID),
		zap.String("term", req.Term),
	)
	start := time.Now()
	log.Info("pipeline: starting search",
		zap.Int("target_count", req.TargetCount),
		zap.Float64("lat", req.Latitude),
		zap.Float64("lng", req.Longitude),
	)

	stage := func(name string, began time.Time, fields ...zap.Field) {
		log.Info("pipeline: stage complete", append([]zap.Field{
			zap.String("stage", name),
			zap.Int64("duration_ms", time.Since(began).Milliseconds()),
		}, fields...)...)
	}

	began := time.Now()
	acquired := p.acquirer.Acquire(ctx, req.Term, req.Latitude, req.Longitude)
	stage("acquire", began,
		zap.Bool("search_ok", acquired.Search.OK()),
		zap.Bool("directory_ok", acquired.Directory.OK()),
	)

	began = time.Now()
	candidates := p.extractor.Extract(ctx, extract.Input{
		Search:      acquired.Search.Data(),
		Directory:   acquired.Directory.Data(),
		Term:        req.Term,
		TargetCount: req.TargetCount,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	})
	stage("extract", began, zap.String("strategy", p.extractor.Name()), zap.Int("candidates", len(candidates)))

	validated := Validate(candidates)
	leads := Format(validated)
	log.Debug("pipeline: validated and formatted",
		zap.Int("dropped", len(candidates)-len(validated)),
		zap.Int("leads", len(leads)),
	)

	result := &Result{
		Leads:      leads,
		Candidates: len(candidates),
		Validated:  len(validated),
	}

	began = time.Now()
	result.Stored, result.PersistErr = p.persist(ctx, req, leads)
	if result.PersistErr != nil {
		log.Error("pipeline: persist failed, returning unsaved leads",
			zap.Int("leads", len(leads)),
			zap.Error(result.PersistErr),
		)
	} else {
		stage("persist", began, zap.Int("stored", result.Stored))
	}

	result.Duration = time.Since(start)
	log.Info("pipeline: search complete",
		zap.Int("leads", len(leads)),
		zap.Int("stored", result.Stored),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}

func (p *Pipeline) persist(ctx context.Context, req Request, leads []model.StorageLead) (int, error) {
	if p.store == nil {
		return 0, nil
	}
	n, err := p.store.InsertLeads(ctx, req.TenantID, leads, req.Latitude, req.Longitude)
	if err != nil {
		return 0, eris.Wrap(err, "pipeline: insert leads")
	}
	return n, nil
}
