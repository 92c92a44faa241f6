package cost

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testRates() Rates {
	return Rates{
		"haiku":  {Input: 1.00, Output: 5.00, CacheWriteMul: 1.25, CacheReadMul: 0.1},
		"flash":  {Input: 0.30, Output: 2.50},
		"sonnet": {Input: 3.00, Output: 15.00, CacheWriteMul: 1.25, CacheReadMul: 0.1},
	}
}

func TestEstimate(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(testRates())

	tests := []struct {
		name  string
		model string
		usage Usage
		want  float64
	}{
		{
			name:  "haiku simple",
			model: "haiku",
			usage: Usage{Input: 1000000, Output: 100000},
			want:  1.00 + 0.50,
		},
		{
			name:  "haiku with cache",
			model: "haiku",
			usage: Usage{Input: 500000, Output: 50000, CacheWrite: 200000, CacheRead: 300000},
			// in: 0.50, out: 0.25, cw: 0.2 * 1.00 * 1.25 = 0.25, cr: 0.3 * 1.00 * 0.1 = 0.03
			want: 0.50 + 0.25 + 0.25 + 0.03,
		},
		{
			name:  "flash ignores cache without multipliers",
			model: "flash",
			usage: Usage{Input: 2000000, Output: 1000000, CacheRead: 1000000},
			want:  0.60 + 2.50,
		},
		{
			name:  "unknown model returns 0",
			model: "unknown",
			usage: Usage{Input: 1000000, Output: 1000000},
			want:  0,
		},
		{
			name:  "zero tokens returns 0",
			model: "sonnet",
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, calc.Estimate(tt.model, tt.usage), 1e-9)
		})
	}
}

func TestDefaultRates_CoverConfiguredModels(t *testing.T) {
	t.Parallel()
	rates := DefaultRates()

	for _, model := range []string{"claude-sonnet-4-5-20250929", "claude-haiku-4-5-20251001", "gemini-2.5-flash"} {
		rate, ok := rates[model]
		assert.True(t, ok, model)
		assert.Positive(t, rate.Input, model)
		assert.Positive(t, rate.Output, model)
	}
}

func TestLog_DoesNotPanic(t *testing.T) {
	t.Parallel()
	assert.NotPanics(t, func() {
		NewCalculator(DefaultRates()).Log("gemini-2.5-flash", "extract", Usage{Input: 10, Output: 2})
	})
}
