// Package store persists formatted leads.
package store

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadgen/internal/model"
)

// Table holds every stored lead.
const Table = "leads"

// Default and maximum page sizes for ListLeads.
const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

// ErrMissingTenant is returned when a write or list has no tenant.
var ErrMissingTenant = eris.New("store: tenant id is required")

// LeadFilter specifies criteria for listing leads.
type LeadFilter struct {
	TenantID string `json:"tenant_id"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}

// limit clamps the requested page size.
func (f LeadFilter) limit() int {
	switch {
	case f.Limit <= 0:
		return DefaultListLimit
	case f.Limit > MaxListLimit:
		return MaxListLimit
	}
	return f.Limit
}

// Store defines the persistence interface for generated leads.
type Store interface {
	// InsertLeads writes the batch for tenantID, stamping every row with the
	// search coordinate. An empty batch writes nothing and returns 0.
	InsertLeads(ctx context.Context, tenantID string, leads []model.StorageLead, lat, lng float64) (int, error)
	// ListLeads returns a tenant's leads, newest first.
	ListLeads(ctx context.Context, filter LeadFilter) ([]model.StorageLead, error)

	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Close() error
}

// stamp prepares a batch for writing: tenant, coordinate, fresh ID and a
// shared creation time.
func stamp(tenantID string, leads []model.StorageLead, lat, lng float64, newID func() string, now func() time.Time) []model.StorageLead {
	created := now().UTC()
	out := make([]model.StorageLead, 0, len(leads))
	for _, l := range leads {
		s := l.WithOrigin(tenantID, lat, lng)
		s.ID = newID()
		s.CreatedAt = created
		if s.Emails == nil {
			s.Emails = []string{}
		}
		out = append(out, s)
	}
	return out
}

func checkTenant(tenantID string) error {
	if strings.TrimSpace(tenantID) == "" {
		return ErrMissingTenant
	}
	return nil
}
