package extract

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen/internal/model"
)

func rawJSON(t *testing.T, s string) model.RawResult {
	t.Helper()
	var r model.RawResult
	require.NoError(t, json.Unmarshal([]byte(s), &r))
	return r
}

func TestMapSearch(t *testing.T) {
	raw := rawJSON(t, `{
		"places": [
			{"title": "Padaria Bela", "phoneNumber": "1133334444", "email": "contato@padariabela.com", "address": "Av. Paulista, 100"},
			{"title": "No Email", "phoneNumber": "1133335555", "address": "Rua A"},
			{"title": "No Phone", "email": "x@y.com"},
			{"title": "Blank Email", "phoneNumber": "1133336666", "email": "  "}
		]
	}`)

	got := MapSearch(raw)
	require.Len(t, got, 1)
	assert.Equal(t, model.CandidateLead{
		Name:    "Padaria Bela",
		Phone:   "1133334444",
		Email:   "contato@padariabela.com",
		Address: "Av. Paulista, 100",
		About:   model.ProvenanceSearch,
	}, got[0])
}

func TestMapSearch_AlternateListKeys(t *testing.T) {
	raw := rawJSON(t, `{"local": [{"name": "Acme", "phone": "1199998888", "email": "a@acme.com"}]}`)

	got := MapSearch(raw)
	require.Len(t, got, 1)
	assert.Equal(t, "Acme", got[0].Name)
	assert.Equal(t, "1199998888", got[0].Phone)
}

func TestMapSearch_NumericPhone(t *testing.T) {
	raw := rawJSON(t, `{"places": [{"title": "Acme", "phoneNumber": 1133334444, "email": "a@acme.com"}]}`)

	got := MapSearch(raw)
	require.Len(t, got, 1)
	assert.Equal(t, "1133334444", got[0].Phone)
}

func TestMapSearch_EntryWithoutEmailNeverKept(t *testing.T) {
	raw := rawJSON(t, `{"places": [{
		"title": "Full Of Data", "phoneNumber": "1133334444", "address": "Rua B",
		"website": "https://example.com", "rating": 4.9, "emails": ["hidden@example.com"]
	}]}`)

	assert.Empty(t, MapSearch(raw))
}

func TestMapDirectory(t *testing.T) {
	raw := rawJSON(t, `{
		"status": "OK",
		"data": [
			{"name": "Direct Phone", "phone_number": "+55 11 98888-7777", "full_address": "Rua X, 1",
			 "emails_and_contacts": {"emails": ["a@direct.com", "b@direct.com"]}},
			{"name": "Enriched Phone", "address": "Rua Y",
			 "emails_and_contacts": {"emails": ["c@enriched.com"], "phone_numbers": ["11977776666"]}},
			{"name": "No Email", "phone_number": "11966665555", "emails_and_contacts": {"emails": []}},
			{"name": "No Contacts", "phone_number": "11966665555"}
		]
	}`)

	got := MapDirectory(raw)
	require.Len(t, got, 2)

	assert.Equal(t, model.CandidateLead{
		Name:    "Direct Phone",
		Phone:   "+55 11 98888-7777",
		Emails:  []string{"a@direct.com"},
		Address: "Rua X, 1",
		About:   model.ProvenanceDirectory,
	}, got[0])
	assert.Equal(t, "11977776666", got[1].Phone)
	assert.Equal(t, []string{"c@enriched.com"}, got[1].Emails)
	assert.Equal(t, "Rua Y", got[1].Address)
}

func TestFieldMap_ConcatenatesSearchFirst(t *testing.T) {
	in := Input{
		Search: rawJSON(t, `{"places": [{"title": "A", "phoneNumber": "11111111", "email": "a@a.com"}]}`),
		Directory: rawJSON(t, `{"data": [
			{"name": "B", "phone_number": "22222222", "emails_and_contacts": {"emails": ["b@b.com"]}}
		]}`),
		Term:        "padaria",
		TargetCount: 10,
	}

	got := NewFieldMap().Extract(context.Background(), in)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Name)
	assert.Equal(t, model.ProvenanceSearch, got[0].About)
	assert.Equal(t, "B", got[1].Name)
	assert.Equal(t, model.ProvenanceDirectory, got[1].About)
}

func TestFieldMap_EmptyPayloads(t *testing.T) {
	got := NewFieldMap().Extract(context.Background(), Input{Search: model.RawResult{}, Directory: nil})
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestFieldMap_Name(t *testing.T) {
	assert.Equal(t, "fieldmap", NewFieldMap().Name())
}

func TestMapSearch_ComposesAccents(t *testing.T) {
	raw := model.RawResult{"places": []any{map[string]any{
		"title":       "Café São João",
		"phoneNumber": "1133334444",
		"email":       "cafe@x.com",
		"address":     "Praça da Sé",
	}}}

	got := MapSearch(raw)
	require.Len(t, got, 1)
	assert.Equal(t, "Café São João", got[0].Name)
	assert.Equal(t, "Praça da Sé", got[0].Address)
}
