package dialogue

import (
	"context"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/bistroduet/gameserver/config"
	"github.com/bistroduet/gameserver/logger"
)

// LLMGenerator asks a language model for the waiter's line. Calls are
// capped at two seconds; callers go through Line, so a slow or failing
// model just means the static table speaks instead.
type LLMGenerator struct {
	model llms.Model
}

func NewLLMGenerator(apiKey, model string) (*LLMGenerator, error) {
	llm, err := openai.New(
		openai.WithModel(model),
		openai.WithToken(apiKey),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenAI client: %w", err)
	}
	return &LLMGenerator{model: llm}, nil
}

func (g *LLMGenerator) Generate(ctx context.Context, situation, hint string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	prompt := fmt.Sprintf(
		"You are a friendly waiter in a small bistro. Reply with a single short line, no quotes. Situation: %s. Context: %s.",
		situation, hint,
	)
	return llms.GenerateFromSinglePrompt(ctx, g.model, prompt)
}

// FromConfig picks the live generator when a credential is configured and
// the static table otherwise.
func FromConfig(cfg config.DialogueConfig) Generator {
	if cfg.APIKey == "" {
		return NewStaticGenerator()
	}
	g, err := NewLLMGenerator(cfg.APIKey, cfg.Model)
	if err != nil {
		logger.Log.Warnf("dialogue model unavailable, using static lines: %v", err)
		return NewStaticGenerator()
	}
	return g
}
