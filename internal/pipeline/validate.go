package pipeline

import (
	"regexp"

	"github.com/sells-group/leadgen/internal/model"
)

// minPhoneDigits is the shortest digit run accepted as a phone number.
const minPhoneDigits = 8

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate keeps the candidates carrying both a plausible phone and a
// plausible email, in input order. Rejected candidates are dropped silently.
func Validate(candidates []model.CandidateLead) []model.ValidatedLead {
	out := make([]model.ValidatedLead, 0, len(candidates))
	for _, c := range candidates {
		if !ValidPhone(c.ContactPhone()) || !ValidEmail(c.ContactEmail()) {
			continue
		}
		out = append(out, model.ValidatedLead{CandidateLead: c})
	}
	return out
}

// ValidPhone reports whether phone contains at least eight digits once all
// other characters are ignored.
func ValidPhone(phone string) bool {
	digits := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits++
			if digits >= minPhoneDigits {
				return true
			}
		}
	}
	return false
}

// ValidEmail reports whether email has the local@domain.tld shape.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
