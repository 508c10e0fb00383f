package usecases

import (
	"context"
	"strings"

	"kotodama/internal/prompts"
	"kotodama/pkg/log"
)

// StealthMockSuffix marks the result when no credential is configured.
const StealthMockSuffix = " (No Key - Stealth Mock)"

// StealthUseCase rewrites text to evade AI-authorship detectors while
// preserving meaning and input language. Never fails: any error degrades to
// the original text.
type StealthUseCase struct {
	gen     TextGenerator
	prompts *prompts.Builder
}

// NewStealthUseCase creates a new StealthUseCase.
func NewStealthUseCase(gen TextGenerator, builder *prompts.Builder) *StealthUseCase {
	return &StealthUseCase{gen: gen, prompts: builder}
}

// Execute returns the stealth rewrite, or the input unchanged on empty text
// or any failure.
func (uc *StealthUseCase) Execute(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	if !generatorEnabled(uc.gen) {
		log.GlobalWarnCtx(ctx, "stealth rewrite without api key, returning mock")
		return text + StealthMockSuffix
	}

	result, err := uc.gen.Generate(ctx, uc.prompts.Stealth(text))
	if err != nil {
		log.GlobalErrorCtx(ctx, "stealth rewrite failed", "error", err)
		return text
	}
	return result
}
