package usecases

import (
	"context"
	"strings"

	"kotodama/internal/decode"
	"kotodama/internal/domain"
	"kotodama/internal/prompts"
	"kotodama/pkg/log"
)

// AnalyzeFallback is resolved when the model call or decode fails.
var AnalyzeFallback = domain.AnalysisResult{
	Score:    0,
	Emotions: []domain.Emotion{},
	Advice:   "Analysis failed.",
}

// AnalyzeUseCase scores the "Kotodama" resonance of a text. Never fails:
// empty text and a missing key resolve to the zero result, everything else
// to AnalyzeFallback.
type AnalyzeUseCase struct {
	gen     TextGenerator
	prompts *prompts.Builder
}

// NewAnalyzeUseCase creates a new AnalyzeUseCase.
func NewAnalyzeUseCase(gen TextGenerator, builder *prompts.Builder) *AnalyzeUseCase {
	return &AnalyzeUseCase{gen: gen, prompts: builder}
}

// Execute analyzes a text snapshot.
func (uc *AnalyzeUseCase) Execute(ctx context.Context, text string) domain.AnalysisResult {
	if strings.TrimSpace(text) == "" || !generatorEnabled(uc.gen) {
		return domain.AnalysisResult{Emotions: []domain.Emotion{}}
	}

	raw, err := uc.gen.GenerateJSON(ctx, uc.prompts.Analyze(text))
	if err != nil {
		log.GlobalErrorCtx(ctx, "analysis failed", "error", err)
		return AnalyzeFallback
	}

	result, err := decode.DecodeAnalysis(raw)
	if err != nil {
		log.GlobalErrorCtx(ctx, "analysis decode failed", "error", err)
		return AnalyzeFallback
	}
	return result
}
