package model

import (
	"encoding/json"
	"time"
)

// Provenance tags recorded on leads produced by deterministic field mapping.
const (
	ProvenanceSearch    = "provider-A" // generic search/maps provider
	ProvenanceDirectory = "provider-B" // local-business directory provider
)

// CandidateLead is the normalized record produced by an extractor. Contact
// fields may be missing entirely; the model-assisted extractor fills the
// alternate names (whatsapp, email, summary) while field mapping fills the
// canonical ones. Use the Contact* accessors instead of reading fields directly.
type CandidateLead struct {
	Name     string   `json:"name,omitempty" yaml:"name,omitempty"`
	Phone    string   `json:"phone,omitempty" yaml:"phone,omitempty"`
	WhatsApp string   `json:"whatsapp,omitempty" yaml:"whatsapp,omitempty"`
	Email    string   `json:"email,omitempty" yaml:"email,omitempty"`
	Emails   []string `json:"emails,omitempty" yaml:"emails,omitempty"`
	Address  string   `json:"address,omitempty" yaml:"address,omitempty"`
	About    string   `json:"about,omitempty" yaml:"about,omitempty"`
	Summary  string   `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// UnmarshalJSON accepts "email" as either a string or a list of strings; a
// list is folded into Emails. "phone" and "whatsapp" may be strings or bare
// numbers; any other type leaves the field empty.
func (c *CandidateLead) UnmarshalJSON(data []byte) error {
	type alias CandidateLead
	aux := struct {
		*alias
		Phone    json.RawMessage `json:"phone,omitempty"`
		WhatsApp json.RawMessage `json:"whatsapp,omitempty"`
		Email    json.RawMessage `json:"email,omitempty"`
	}{alias: (*alias)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	c.Phone = digitsValue(aux.Phone)
	c.WhatsApp = digitsValue(aux.WhatsApp)

	if len(aux.Email) == 0 || string(aux.Email) == "null" {
		return nil
	}
	var single string
	if err := json.Unmarshal(aux.Email, &single); err == nil {
		c.Email = single
		return nil
	}
	var list []string
	if err := json.Unmarshal(aux.Email, &list); err != nil {
		return err
	}
	c.Emails = append(list, c.Emails...)
	return nil
}

// digitsValue reads a phone-like value written as a string or a number.
// Numbers keep their exact literal digits.
func digitsValue(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// ContactPhone returns the phone in preference order: phone, whatsapp.
func (c CandidateLead) ContactPhone() string {
	return FirstNonEmpty(c.Phone, c.WhatsApp)
}

// ContactEmail returns the email in preference order: email, first of emails.
func (c CandidateLead) ContactEmail() string {
	return FirstNonEmpty(c.Email, firstOf(c.Emails))
}

// ContactEmails returns the email list with the preferred address (the one
// ContactEmail reports) first, followed by the remaining distinct entries of
// Emails. A lead with no email yields nil.
func (c CandidateLead) ContactEmails() []string {
	if c.Email == "" && len(c.Emails) == 0 {
		return nil
	}
	out := make([]string, 0, len(c.Emails)+1)
	seen := make(map[string]struct{}, len(c.Emails)+1)
	add := func(e string) {
		if e == "" {
			return
		}
		if _, dup := seen[e]; dup {
			return
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	add(c.Email)
	for _, e := range c.Emails {
		add(e)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Note returns the provenance/summary note in preference order: about, summary.
func (c CandidateLead) Note() string {
	return FirstNonEmpty(c.About, c.Summary)
}

// ValidatedLead is a CandidateLead that passed contact-plausibility checks.
// Only the validator constructs these.
type ValidatedLead struct {
	CandidateLead
}

// StorageLead is the persistence-schema record. TenantID, coordinates, ID and
// CreatedAt are populated by the store, never by the formatter.
type StorageLead struct {
	ID        string    `json:"id,omitempty" yaml:"id,omitempty"`
	TenantID  string    `json:"tenant_id,omitempty" yaml:"tenant_id,omitempty"`
	Name      string    `json:"name" yaml:"name"`
	Phone     string    `json:"phone" yaml:"phone"`
	Emails    []string  `json:"emails" yaml:"emails"`
	Address   string    `json:"address,omitempty" yaml:"address,omitempty"`
	About     string    `json:"about,omitempty" yaml:"about,omitempty"`
	Latitude  float64   `json:"latitude" yaml:"latitude"`
	Longitude float64   `json:"longitude" yaml:"longitude"`
	CreatedAt time.Time `json:"created_at,omitzero" yaml:"created_at,omitempty"`
}

// WithOrigin returns a copy of the lead stamped with the owning tenant and the
// coordinate of the search that produced it.
func (l StorageLead) WithOrigin(tenantID string, lat, lng float64) StorageLead {
	l.TenantID = tenantID
	l.Latitude = lat
	l.Longitude = lng
	if l.Emails != nil {
		emails := make([]string, len(l.Emails))
		copy(emails, l.Emails)
		l.Emails = emails
	}
	return l
}

// FirstNonEmpty returns the first non-empty value.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstOf(values []string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
