package usecases

import (
	"context"
	"strings"

	"kotodama/internal/decode"
	"kotodama/internal/domain"
	"kotodama/internal/prompts"
	"kotodama/pkg/log"
)

// RiskFallback is resolved when risk analysis fails for any reason.
var RiskFallback = domain.RiskResult{
	Score:    0,
	Level:    domain.RiskSafe,
	Warnings: []string{"Analysis Failed"},
	Reason:   "Could not analyze risk.",
}

// RiskAnalyzeUseCase scores a text for flame and leak risk. Never fails:
// empty text and a missing key resolve to the zero result, everything else
// to RiskFallback.
type RiskAnalyzeUseCase struct {
	gen     TextGenerator
	prompts *prompts.Builder
}

// NewRiskAnalyzeUseCase creates a new RiskAnalyzeUseCase.
func NewRiskAnalyzeUseCase(gen TextGenerator, builder *prompts.Builder) *RiskAnalyzeUseCase {
	return &RiskAnalyzeUseCase{gen: gen, prompts: builder}
}

// Execute analyzes a text snapshot for posting risk.
func (uc *RiskAnalyzeUseCase) Execute(ctx context.Context, text string) domain.RiskResult {
	if strings.TrimSpace(text) == "" || !generatorEnabled(uc.gen) {
		return domain.RiskResult{Level: domain.RiskSafe, Warnings: []string{}}
	}

	raw, err := uc.gen.GenerateJSON(ctx, uc.prompts.RiskAnalyze(text))
	if err != nil {
		log.GlobalErrorCtx(ctx, "risk analysis failed", "error", err)
		return RiskFallback
	}

	result, err := decode.DecodeRisk(raw)
	if err != nil {
		log.GlobalErrorCtx(ctx, "risk decode failed", "error", err)
		return RiskFallback
	}
	return result
}

// RiskFixUseCase rewrites a text to mitigate previously identified warning
// categories. Never fails: any error degrades to the original text.
type RiskFixUseCase struct {
	gen     TextGenerator
	prompts *prompts.Builder
}

// NewRiskFixUseCase creates a new RiskFixUseCase.
func NewRiskFixUseCase(gen TextGenerator, builder *prompts.Builder) *RiskFixUseCase {
	return &RiskFixUseCase{gen: gen, prompts: builder}
}

// Execute returns the mitigated rewrite, or the input unchanged on empty
// text, a missing key, or any failure.
func (uc *RiskFixUseCase) Execute(ctx context.Context, text string, warnings []string) string {
	if strings.TrimSpace(text) == "" || !generatorEnabled(uc.gen) {
		return text
	}

	result, err := uc.gen.Generate(ctx, uc.prompts.RiskFix(text, warnings))
	if err != nil {
		log.GlobalErrorCtx(ctx, "risk fix failed", "error", err)
		return text
	}
	return result
}
