package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/leadgen/internal/acquire"
	"github.com/sells-group/leadgen/internal/extract"
	"github.com/sells-group/leadgen/internal/model"
)

// --- Acquirer Mock ---

type mockAcquirer struct {
	mock.Mock
}

func (m *mockAcquirer) Acquire(ctx context.Context, term string, lat, lng float64) acquire.Acquired {
	args := m.Called(ctx, term, lat, lng)
	return args.Get(0).(acquire.Acquired)
}

// --- Persister Mock ---

type mockPersister struct {
	mock.Mock
}

func (m *mockPersister) InsertLeads(ctx context.Context, tenantID string, leads []model.StorageLead, lat, lng float64) (int, error) {
	args := m.Called(ctx, tenantID, leads, lat, lng)
	return args.Int(0), args.Error(1)
}

// --- Extractor Mock ---

type mockExtractor struct {
	mock.Mock
}

func (m *mockExtractor) Name() string { return "mock" }

func (m *mockExtractor) Extract(ctx context.Context, in extract.Input) []model.CandidateLead {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]model.CandidateLead)
}
