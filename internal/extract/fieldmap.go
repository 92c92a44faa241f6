package extract

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/leadgen/internal/model"
)

// FieldMap is the deterministic strategy. It keeps only entries that already
// carry both a phone and an email and never calls a model.
type FieldMap struct{}

// NewFieldMap creates the field-mapping extractor.
func NewFieldMap() *FieldMap {
	return &FieldMap{}
}

// Name implements Extractor.
func (f *FieldMap) Name() string { return "fieldmap" }

// Extract implements Extractor. Search entries come first, then directory entries.
func (f *FieldMap) Extract(_ context.Context, in Input) []model.CandidateLead {
	search := MapSearch(in.Search)
	directory := MapDirectory(in.Directory)

	zap.L().Debug("extract: field mapping complete",
		zap.Int("search_candidates", len(search)),
		zap.Int("directory_candidates", len(directory)),
	)

	out := make([]model.CandidateLead, 0, len(search)+len(directory))
	out = append(out, search...)
	return append(out, directory...)
}

// MapSearch maps the search provider's place list.
func MapSearch(raw model.RawResult) []model.CandidateLead {
	var out []model.CandidateLead
	for _, place := range raw.Objects("places", "local", "results") {
		phone := place.String("phoneNumber", "phone")
		email := place.String("email")
		if phone == "" || email == "" {
			continue
		}
		out = append(out, model.CandidateLead{
			Name:    composed(place.String("title", "name")),
			Phone:   phone,
			Email:   email,
			Address: composed(place.String("address")),
			About:   model.ProvenanceSearch,
		})
	}
	return out
}

// MapDirectory maps the directory provider's business list. Phone comes from
// phone_number or the first enriched phone; email from the first enriched email.
func MapDirectory(raw model.RawResult) []model.CandidateLead {
	var out []model.CandidateLead
	for _, biz := range raw.Objects("data") {
		contacts := biz.Object("emails_and_contacts")
		phone := model.FirstNonEmpty(biz.String("phone_number"), contacts.FirstString("phone_numbers"))
		email := contacts.FirstString("emails")
		if phone == "" || email == "" {
			continue
		}
		out = append(out, model.CandidateLead{
			Name:    composed(biz.String("name")),
			Phone:   phone,
			Emails:  []string{email},
			Address: composed(biz.String("full_address", "address")),
			About:   model.ProvenanceDirectory,
		})
	}
	return out
}

// composed normalizes accented characters so the two providers spell the same
// place identically.
func composed(s string) string {
	return norm.NFC.String(s)
}
