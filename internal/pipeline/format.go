package pipeline

import "github.com/sells-group/leadgen/internal/model"

// Format maps each validated lead onto the storage schema, 1:1 and in order.
// Tenant and coordinates are left for the store to stamp.
func Format(leads []model.ValidatedLead) []model.StorageLead {
	out := make([]model.StorageLead, 0, len(leads))
	for _, l := range leads {
		out = append(out, model.StorageLead{
			Name:    l.Name,
			Phone:   l.ContactPhone(),
			Emails:  l.ContactEmails(),
			Address: l.Address,
			About:   l.Note(),
		})
	}
	return out
}
