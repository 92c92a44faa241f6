package extract

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen/internal/cost"
	"github.com/sells-group/leadgen/pkg/anthropic"
	"github.com/sells-group/leadgen/pkg/gemini"
)

// AnthropicModel adapts the Anthropic client to Model.
type AnthropicModel struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	costs     *cost.Calculator
}

// NewAnthropicModel creates an Anthropic-backed Model.
func NewAnthropicModel(client anthropic.Client, model string, maxTokens int64) *AnthropicModel {
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	return &AnthropicModel{client: client, model: model, maxTokens: maxTokens, costs: cost.NewCalculator(cost.DefaultRates())}
}

// Name implements Model.
func (m *AnthropicModel) Name() string { return "anthropic" }

// Generate implements Model. System blocks carry no cache breakpoint.
func (m *AnthropicModel) Generate(ctx context.Context, p Prompt) (string, error) {
	system := make([]anthropic.SystemBlock, 0, len(p.System))
	for _, s := range p.System {
		system = append(system, anthropic.SystemBlock{Text: s})
	}

	temp := 0.0
	resp, err := m.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       m.model,
		MaxTokens:   m.maxTokens,
		System:      system,
		Messages:    []anthropic.Message{{Role: "user", Content: p.User}},
		Temperature: &temp,
	})
	if err != nil {
		return "", eris.Wrap(err, "extract: anthropic generate")
	}
	m.costs.Log(m.model, "extract", anthropicUsage(resp.Usage))
	if resp.Truncated() {
		zap.L().Warn("extract: model output truncated", zap.String("model", m.model), zap.Int64("max_tokens", m.maxTokens))
	}
	return resp.Text(), nil
}

// GeminiModel adapts the Gemini client to Model.
type GeminiModel struct {
	client    gemini.Client
	model     string
	maxTokens int32
	costs     *cost.Calculator
}

// NewGeminiModel creates a Gemini-backed Model.
func NewGeminiModel(client gemini.Client, model string, maxTokens int32) *GeminiModel {
	return &GeminiModel{client: client, model: model, maxTokens: maxTokens, costs: cost.NewCalculator(cost.DefaultRates())}
}

// Name implements Model.
func (m *GeminiModel) Name() string { return "gemini" }

// Generate implements Model with JSON-constrained output.
func (m *GeminiModel) Generate(ctx context.Context, p Prompt) (string, error) {
	temp := float32(0)
	resp, err := m.client.Generate(ctx, gemini.GenerateRequest{
		Model:       m.model,
		System:      p.System,
		Prompt:      p.User,
		JSON:        true,
		MaxTokens:   m.maxTokens,
		Temperature: &temp,
	})
	if err != nil {
		return "", eris.Wrap(err, "extract: gemini generate")
	}
	m.costs.Log(m.model, "extract", geminiUsage(resp))
	return resp.Text, nil
}

// Chat sends a free-text prompt with no system instruction.
func (m *AnthropicModel) Chat(ctx context.Context, prompt string) (string, error) {
	resp, err := m.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     m.model,
		MaxTokens: m.maxTokens,
		Messages:  []anthropic.Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", eris.Wrap(err, "extract: anthropic chat")
	}
	m.costs.Log(m.model, "chat", anthropicUsage(resp.Usage))
	return resp.Text(), nil
}

// Chat sends a free-text prompt without the JSON response constraint.
func (m *GeminiModel) Chat(ctx context.Context, prompt string) (string, error) {
	resp, err := m.client.Generate(ctx, gemini.GenerateRequest{
		Model:     m.model,
		Prompt:    prompt,
		MaxTokens: m.maxTokens,
	})
	if err != nil {
		return "", eris.Wrap(err, "extract: gemini chat")
	}
	m.costs.Log(m.model, "chat", geminiUsage(resp))
	return resp.Text, nil
}

func anthropicUsage(u anthropic.TokenUsage) cost.Usage {
	return cost.Usage{
		Input:      u.InputTokens,
		Output:     u.OutputTokens,
		CacheWrite: u.CacheCreationInputTokens,
		CacheRead:  u.CacheReadInputTokens,
	}
}

func geminiUsage(resp *gemini.GenerateResponse) cost.Usage {
	return cost.Usage{Input: int64(resp.InputTokens), Output: int64(resp.OutputTokens)}
}
