package model

import (
	"strconv"
	"strings"
	"time"
)

// RawResult is an opaque provider response. Only the fields the field-mapping
// extractor names are ever read from it; everything else passes through to
// the model-assisted extractor untouched.
type RawResult map[string]any

// String returns the first non-blank string found under keys, tried in order.
// Numeric values are rendered without exponent so phone numbers decoded as
// JSON numbers survive.
func (r RawResult) String(keys ...string) string {
	for _, k := range keys {
		if s := scalarString(r[k]); s != "" {
			return s
		}
	}
	return ""
}

// FirstString returns the value under key if it is a string, or the first
// non-blank string element if it is a list.
func (r RawResult) FirstString(key string) string {
	switch v := r[key].(type) {
	case []any:
		for _, item := range v {
			if s := scalarString(item); s != "" {
				return s
			}
		}
	case []string:
		for _, item := range v {
			if s := strings.TrimSpace(item); s != "" {
				return s
			}
		}
	default:
		return scalarString(v)
	}
	return ""
}

// Object returns the nested object under key, or nil.
func (r RawResult) Object(key string) RawResult {
	switch v := r[key].(type) {
	case map[string]any:
		return RawResult(v)
	case RawResult:
		return v
	}
	return nil
}

// Objects returns the object elements of the first list found under keys.
// Non-object elements are skipped.
func (r RawResult) Objects(keys ...string) []RawResult {
	for _, k := range keys {
		list, ok := r[k].([]any)
		if !ok || len(list) == 0 {
			continue
		}
		out := make([]RawResult, 0, len(list))
		for _, item := range list {
			if m, ok := item.(map[string]any); ok {
				out = append(out, RawResult(m))
			}
		}
		return out
	}
	return nil
}

func scalarString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	}
	return ""
}

// Fetch is the outcome of one provider call. A failed call carries Err and an
// empty Result; callers read the payload through Data and never need to
// branch on the error to proceed.
type Fetch struct {
	Provider string        `json:"provider"`
	Result   RawResult     `json:"result,omitempty"`
	Err      error         `json:"-"`
	Duration time.Duration `json:"duration"`
}

// OK reports whether the call succeeded.
func (f Fetch) OK() bool {
	return f.Err == nil
}

// Data returns the provider payload, or an empty RawResult on failure.
func (f Fetch) Data() RawResult {
	if f.Err != nil || f.Result == nil {
		return RawResult{}
	}
	return f.Result
}
