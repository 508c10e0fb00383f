package usecases

import (
	"context"
	"strings"

	"kotodama/internal/domain"
	"kotodama/internal/prompts"
)

// RewriteUseCase handles the server-invoked tone rewrite. Unlike the other
// capabilities it propagates errors, so the HTTP route can report a missing
// credential or an upstream failure explicitly.
type RewriteUseCase struct {
	gen     TextGenerator
	prompts *prompts.Builder
}

// NewRewriteUseCase creates a new RewriteUseCase.
func NewRewriteUseCase(gen TextGenerator, builder *prompts.Builder) *RewriteUseCase {
	return &RewriteUseCase{gen: gen, prompts: builder}
}

// Execute rewrites text in the requested tone. An empty tone falls back to
// the default.
func (uc *RewriteUseCase) Execute(ctx context.Context, text, tone string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", domain.ErrEmptyText
	}
	if !generatorEnabled(uc.gen) {
		return "", domain.ErrMissingAPIKey
	}
	if tone == "" {
		tone = domain.DefaultTone
	}

	return uc.gen.Generate(ctx, uc.prompts.Rewrite(text, tone))
}
