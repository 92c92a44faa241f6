package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sells-group/leadgen/internal/model"
)

// Prompt is a provider-neutral model request: system blocks plus one user turn.
type Prompt struct {
	System []string
	User   string
}

const leadInstruction = `You are a specialist in finding commercial leads that have a valid WhatsApp/phone number and a valid email address.
Use only the SEARCH and DIRECTORY results supplied below. Keep only contacts whose phone and email are both present in that data.
Never invent, guess or complete contact information. Never return a lead without both a phone and an email.

Respond with a single JSON object and nothing else, in exactly this shape:
{
  "leads": [
    {
      "name": "business or contact name",
      "whatsapp": "digits only",
      "email": "valid email",
      "address": "optional",
      "summary": "source or notes"
    }
  ]
}
If no lead qualifies, respond with {"leads": []}.`

// BuildPrompt assembles the constrained instruction, the two raw payloads
// embedded verbatim, and the user request for at least TargetCount leads.
func BuildPrompt(in Input, maxRadiusKM float64) Prompt {
	return Prompt{
		System: []string{
			leadInstruction,
			"SEARCH: " + marshalRaw(in.Search),
			"DIRECTORY: " + marshalRaw(in.Directory),
		},
		User: userRequest(in, maxRadiusKM),
	}
}

func userRequest(in Input, maxRadiusKM float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Term: %s\n\n", in.Term)
	fmt.Fprintf(&b, "Find at least %d commercial leads near latitude %g and longitude %g.", max(in.TargetCount, 1), in.Latitude, in.Longitude)
	if maxRadiusKM > 0 {
		fmt.Fprintf(&b, " Only include businesses within %g km of that point.", maxRadiusKM)
	}
	return b.String()
}

func marshalRaw(raw model.RawResult) string {
	if raw == nil {
		return "{}"
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// stripFences unwraps a reply that arrived inside a markdown code fence
// (with or without a language tag) and trims any chatter around the
// outermost JSON object.
func stripFences(reply string) string {
	body := strings.TrimSpace(reply)
	if rest, ok := strings.CutPrefix(body, "```"); ok {
		// Drop the info string ("json", "JSON", ...) on the opening line.
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 && !strings.ContainsAny(rest[:nl], "{[") {
			rest = rest[nl+1:]
		} else {
			rest = strings.TrimPrefix(rest, "json")
		}
		body, _, _ = strings.Cut(rest, "```")
	}

	open, shut := strings.IndexByte(body, '{'), strings.LastIndexByte(body, '}')
	if open >= 0 && shut > open {
		body = body[open : shut+1]
	}
	return strings.TrimSpace(body)
}
