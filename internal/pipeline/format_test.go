package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen/internal/model"
)

func validated(c model.CandidateLead) model.ValidatedLead {
	return model.ValidatedLead{CandidateLead: c}
}

func TestFormat_FieldMapping(t *testing.T) {
	t.Parallel()

	got := Format([]model.ValidatedLead{validated(model.CandidateLead{
		Name:     "Acme",
		WhatsApp: "11988887777",
		Emails:   []string{"x@y.com"},
		Address:  "Rua X",
		About:    "provider-B",
	})})

	require.Len(t, got, 1)
	assert.Equal(t, model.StorageLead{
		Name:    "Acme",
		Phone:   "11988887777",
		Emails:  []string{"x@y.com"},
		Address: "Rua X",
		About:   "provider-B",
	}, got[0])
}

func TestFormat_PhoneKeptVerbatim(t *testing.T) {
	t.Parallel()

	got := Format([]model.ValidatedLead{validated(model.CandidateLead{Phone: "+55 (11) 3333-4444", Email: "a@b.com", Summary: "maps"})})

	require.Len(t, got, 1)
	assert.Equal(t, "+55 (11) 3333-4444", got[0].Phone)
	assert.Equal(t, []string{"a@b.com"}, got[0].Emails)
	assert.Equal(t, "maps", got[0].About)
	assert.Empty(t, got[0].TenantID)
	assert.Zero(t, got[0].Latitude)
}

func TestFormat_TotalAndOrdered(t *testing.T) {
	t.Parallel()

	in := []model.ValidatedLead{
		validated(model.CandidateLead{Name: "1", Phone: "11111111", Email: "a@a.com"}),
		validated(model.CandidateLead{Name: "2", Phone: "22222222", Email: "b@b.com"}),
		validated(model.CandidateLead{Name: "3", Phone: "33333333", Email: "c@c.com"}),
	}

	got := Format(in)
	require.Len(t, got, len(in))
	for i := range in {
		assert.Equal(t, in[i].Name, got[i].Name)
	}
}

func TestFormat_Empty(t *testing.T) {
	t.Parallel()

	got := Format(nil)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestFormat_DoesNotAliasInput(t *testing.T) {
	t.Parallel()

	in := []model.ValidatedLead{validated(model.CandidateLead{Phone: "11111111", Emails: []string{"a@a.com"}})}
	got := Format(in)
	got[0].Emails[0] = "changed@a.com"
	assert.Equal(t, "a@a.com", in[0].Emails[0])
}

func TestFormat_StoresValidatedEmailFirst(t *testing.T) {
	t.Parallel()

	got := Format(Validate([]model.CandidateLead{{
		Name:     "Acme",
		WhatsApp: "11988887777",
		Email:    "a@b.com",
		Emails:   []string{"not-an-email"},
	}}))

	require.Len(t, got, 1)
	assert.Equal(t, []string{"a@b.com", "not-an-email"}, got[0].Emails)
	assert.True(t, ValidEmail(got[0].Emails[0]))
}
