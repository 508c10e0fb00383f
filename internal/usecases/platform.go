package usecases

import (
	"context"
	"fmt"
	"strings"

	"kotodama/internal/decode"
	"kotodama/internal/domain"
	"kotodama/internal/prompts"
	"kotodama/pkg/log"
)

// PlatformCache defines the interface for memoizing platform results.
type PlatformCache interface {
	Get(sessionID string, platform domain.Platform) (domain.PlatformResult, bool)
	Set(sessionID string, platform domain.Platform, result domain.PlatformResult)
}

// platformFallback builds the failure result shown to the user. The copy is
// in the application locale, matching the rest of the platform output.
func platformFallback(err error) domain.PlatformResult {
	return domain.PlatformResult{
		Title:       "生成エラー",
		Tags:        []string{},
		Content:     "コンテンツの生成に失敗しました。もう一度お試しください。",
		Explanation: fmt.Sprintf("APIエラー: %v", err),
	}
}

// OptimizePlatformUseCase reformats a text for one publishing platform with
// cache-first memoization per session and platform. A forced regenerate
// bypasses the cache and overwrites the entry. Never fails: empty text and a
// missing key resolve to the zero result, everything else to the locale
// fallback.
type OptimizePlatformUseCase struct {
	gen     TextGenerator
	prompts *prompts.Builder
	cache   PlatformCache
}

// NewOptimizePlatformUseCase creates a new OptimizePlatformUseCase.
func NewOptimizePlatformUseCase(gen TextGenerator, builder *prompts.Builder, cache PlatformCache) *OptimizePlatformUseCase {
	return &OptimizePlatformUseCase{gen: gen, prompts: builder, cache: cache}
}

// Execute optimizes a text snapshot for the given platform. The sessionID
// scopes the cache; an empty sessionID disables caching for the call.
func (uc *OptimizePlatformUseCase) Execute(ctx context.Context, sessionID, text string, platform domain.Platform, force bool) domain.PlatformResult {
	if strings.TrimSpace(text) == "" || !generatorEnabled(uc.gen) {
		return domain.PlatformResult{Tags: []string{}, Explanation: "No API Key or empty text."}
	}

	cacheable := uc.cache != nil && sessionID != ""
	if cacheable && !force {
		if cached, found := uc.cache.Get(sessionID, platform); found {
			log.GlobalDebugCtx(ctx, "platform cache hit", "session_id", sessionID, "platform", platform)
			return cached
		}
	}

	raw, err := uc.gen.GenerateJSON(ctx, uc.prompts.Platform(text, platform))
	if err != nil {
		log.GlobalErrorCtx(ctx, "platform optimization failed", "platform", platform, "error", err)
		return platformFallback(err)
	}

	result, err := decode.DecodePlatform(raw)
	if err != nil {
		log.GlobalErrorCtx(ctx, "platform decode failed", "platform", platform, "error", err)
		return platformFallback(err)
	}

	// Only successful results are memoized; failures stay retryable.
	if cacheable {
		uc.cache.Set(sessionID, platform, result)
	}
	return result
}
