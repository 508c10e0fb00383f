package usecases

import (
	"context"
	"strings"

	"kotodama/internal/domain"
	"kotodama/internal/prompts"
	"kotodama/pkg/log"
)

// HumanizeMockSuffix marks the result when no credential is configured, so
// the editor stays usable without a key.
const HumanizeMockSuffix = " (AI Key Missing)"

// HumanizeUseCase rewrites text to match the user's persona. It never fails:
// any error degrades to the original text.
type HumanizeUseCase struct {
	gen     TextGenerator
	prompts *prompts.Builder
}

// NewHumanizeUseCase creates a new HumanizeUseCase.
func NewHumanizeUseCase(gen TextGenerator, builder *prompts.Builder) *HumanizeUseCase {
	return &HumanizeUseCase{gen: gen, prompts: builder}
}

// Execute returns the persona-aligned rewrite, or the input unchanged on
// empty text or any failure.
func (uc *HumanizeUseCase) Execute(ctx context.Context, text string, persona domain.PersonaDNA) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	if !generatorEnabled(uc.gen) {
		log.GlobalWarnCtx(ctx, "humanize without api key, returning mock")
		return text + HumanizeMockSuffix
	}

	result, err := uc.gen.Generate(ctx, uc.prompts.Humanize(text, persona.Describe()))
	if err != nil {
		log.GlobalErrorCtx(ctx, "humanize failed", "error", err)
		return text
	}
	return result
}
