package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen/internal/model"
)

// Noop is the store used when persistence is disabled. Writes are dropped
// and report zero rows.
type Noop struct{}

func (Noop) InsertLeads(_ context.Context, tenantID string, leads []model.StorageLead, _, _ float64) (int, error) {
	if len(leads) > 0 {
		zap.L().Debug("store: persistence disabled, leads not written",
			zap.String("tenant_id", tenantID),
			zap.Int("leads", len(leads)),
		)
	}
	return 0, nil
}

func (Noop) ListLeads(context.Context, LeadFilter) ([]model.StorageLead, error) {
	return []model.StorageLead{}, nil
}

func (Noop) Ping(context.Context) error    { return nil }
func (Noop) Migrate(context.Context) error { return nil }
func (Noop) Close() error                  { return nil }
