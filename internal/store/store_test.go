package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen/internal/model"
)

var (
	_ Store = (*PostgresStore)(nil)
	_ Store = (*SQLiteStore)(nil)
	_ Store = Noop{}
)

func TestNoop(t *testing.T) {
	ctx := context.Background()
	var st Store = Noop{}

	n, err := st.InsertLeads(ctx, "user-1", []model.StorageLead{{Name: "A"}}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	leads, err := st.ListLeads(ctx, LeadFilter{TenantID: "user-1"})
	require.NoError(t, err)
	assert.Empty(t, leads)

	assert.NoError(t, st.Ping(ctx))
	assert.NoError(t, st.Migrate(ctx))
	assert.NoError(t, st.Close())
}

func TestLeadFilter_Limit(t *testing.T) {
	assert.Equal(t, DefaultListLimit, LeadFilter{}.limit())
	assert.Equal(t, DefaultListLimit, LeadFilter{Limit: -1}.limit())
	assert.Equal(t, 25, LeadFilter{Limit: 25}.limit())
	assert.Equal(t, MaxListLimit, LeadFilter{Limit: MaxListLimit + 1}.limit())
}
