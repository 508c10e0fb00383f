package usecases

import (
	"context"
	"strings"

	"kotodama/internal/decode"
	"kotodama/internal/domain"
	"kotodama/internal/prompts"
	"kotodama/pkg/log"
)

// ViralFallback is resolved when virality prediction fails.
var ViralFallback = domain.ViralResult{
	Score:             0,
	PotentialReach:    "Analysis Failed",
	StrongPoints:      []string{},
	ImprovementPoints: []string{"Error analyzing text"},
}

// ViralUseCase predicts the social media performance of a text. Never
// fails: empty text and a missing key resolve to the zero result,
// everything else to ViralFallback.
type ViralUseCase struct {
	gen     TextGenerator
	prompts *prompts.Builder
}

// NewViralUseCase creates a new ViralUseCase.
func NewViralUseCase(gen TextGenerator, builder *prompts.Builder) *ViralUseCase {
	return &ViralUseCase{gen: gen, prompts: builder}
}

// Execute predicts viral potential for a text snapshot.
func (uc *ViralUseCase) Execute(ctx context.Context, text string) domain.ViralResult {
	if strings.TrimSpace(text) == "" || !generatorEnabled(uc.gen) {
		return domain.ViralResult{
			PotentialReach:    "Unknown",
			StrongPoints:      []string{},
			ImprovementPoints: []string{},
		}
	}

	raw, err := uc.gen.GenerateJSON(ctx, uc.prompts.Viral(text))
	if err != nil {
		log.GlobalErrorCtx(ctx, "viral prediction failed", "error", err)
		return ViralFallback
	}

	result, err := decode.DecodeViral(raw)
	if err != nil {
		log.GlobalErrorCtx(ctx, "viral decode failed", "error", err)
		return ViralFallback
	}
	return result
}
