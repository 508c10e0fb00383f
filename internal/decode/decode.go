// Package decode recovers typed capability results from raw model output.
// Structured capabilities go through brace-scan extraction, a repair-tolerant
// JSON parse, and structural shape validation; free-text capabilities use the
// raw text verbatim and never touch this package.
package decode

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"kotodama/internal/domain"
)

// ExtractJSON recovers the JSON payload from raw model output by taking the
// substring from the first '{' to the last '}' inclusive. This tolerates
// surrounding prose and markdown fences. It is intentionally lossy: nested
// unrelated braces before the real object, or multiple objects, mis-extract.
// That tolerance is part of the decoder's contract and must not be replaced
// with a different heuristic.
func ExtractJSON(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("%w: no JSON object in response", domain.ErrDecodeFailed)
	}
	return raw[start : end+1], nil
}

// unmarshalPayload parses the extracted payload into v, attempting one
// repair pass when the model emits almost-JSON (trailing commas, single
// quotes, unquoted keys).
func unmarshalPayload(payload string, v any) error {
	if err := json.Unmarshal([]byte(payload), v); err == nil {
		return nil
	}

	repaired, err := jsonrepair.JSONRepair(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDecodeFailed, err)
	}
	if err := json.Unmarshal([]byte(repaired), v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDecodeFailed, err)
	}
	return nil
}

// decodeInto extracts and parses the JSON payload from raw model output.
func decodeInto(raw string, v any) error {
	payload, err := ExtractJSON(raw)
	if err != nil {
		return err
	}
	return unmarshalPayload(payload, v)
}

// Wire shapes use pointer fields for required members so an absent field is
// a shape mismatch, not a silent zero value. Shape mismatches share the
// decode-error channel with parse failures.

type analysisWire struct {
	Score    *int             `json:"score"`
	Emotions []domain.Emotion `json:"emotions"`
	Advice   *string          `json:"advice"`
}

// DecodeAnalysis parses a sentiment analysis response.
func DecodeAnalysis(raw string) (domain.AnalysisResult, error) {
	var w analysisWire
	if err := decodeInto(raw, &w); err != nil {
		return domain.AnalysisResult{}, err
	}
	if w.Score == nil || w.Advice == nil {
		return domain.AnalysisResult{}, fmt.Errorf("%w: analysis missing score or advice", domain.ErrDecodeFailed)
	}
	if w.Emotions == nil {
		w.Emotions = []domain.Emotion{}
	}
	return domain.AnalysisResult{
		Score:    *w.Score,
		Emotions: w.Emotions,
		Advice:   *w.Advice,
	}, nil
}

type riskWire struct {
	Score    *int    `json:"score"`
	Level    *string `json:"level"`
	Warnings []string `json:"warnings"`
	Reason   *string `json:"reason"`
}

// DecodeRisk parses a risk analysis response. The level is validated as a
// known enum value but is never re-derived from the score: an upstream
// mismatch between the two passes through uncorrected.
func DecodeRisk(raw string) (domain.RiskResult, error) {
	var w riskWire
	if err := decodeInto(raw, &w); err != nil {
		return domain.RiskResult{}, err
	}
	if w.Score == nil || w.Level == nil || w.Reason == nil {
		return domain.RiskResult{}, fmt.Errorf("%w: risk missing score, level or reason", domain.ErrDecodeFailed)
	}
	level := domain.RiskLevel(*w.Level)
	if !level.Valid() {
		return domain.RiskResult{}, fmt.Errorf("%w: unknown risk level %q", domain.ErrDecodeFailed, *w.Level)
	}
	if w.Warnings == nil {
		w.Warnings = []string{}
	}
	return domain.RiskResult{
		Score:    *w.Score,
		Level:    level,
		Warnings: w.Warnings,
		Reason:   *w.Reason,
	}, nil
}

type platformWire struct {
	Title       *string  `json:"title"`
	Tags        []string `json:"tags"`
	Content     *string  `json:"content"`
	Explanation *string  `json:"explanation"`
}

// DecodePlatform parses a platform optimization response.
func DecodePlatform(raw string) (domain.PlatformResult, error) {
	var w platformWire
	if err := decodeInto(raw, &w); err != nil {
		return domain.PlatformResult{}, err
	}
	if w.Title == nil || w.Content == nil {
		return domain.PlatformResult{}, fmt.Errorf("%w: platform result missing title or content", domain.ErrDecodeFailed)
	}
	if w.Tags == nil {
		w.Tags = []string{}
	}
	var explanation string
	if w.Explanation != nil {
		explanation = *w.Explanation
	}
	return domain.PlatformResult{
		Title:       *w.Title,
		Tags:        w.Tags,
		Content:     *w.Content,
		Explanation: explanation,
	}, nil
}

type viralWire struct {
	Score             *int     `json:"score"`
	PotentialReach    *string  `json:"potentialReach"`
	StrongPoints      []string `json:"strongPoints"`
	ImprovementPoints []string `json:"improvementPoints"`
}

// DecodeViral parses a virality prediction response.
func DecodeViral(raw string) (domain.ViralResult, error) {
	var w viralWire
	if err := decodeInto(raw, &w); err != nil {
		return domain.ViralResult{}, err
	}
	if w.Score == nil || w.PotentialReach == nil {
		return domain.ViralResult{}, fmt.Errorf("%w: viral result missing score or reach", domain.ErrDecodeFailed)
	}
	if w.StrongPoints == nil {
		w.StrongPoints = []string{}
	}
	if w.ImprovementPoints == nil {
		w.ImprovementPoints = []string{}
	}
	return domain.ViralResult{
		Score:             *w.Score,
		PotentialReach:    *w.PotentialReach,
		StrongPoints:      w.StrongPoints,
		ImprovementPoints: w.ImprovementPoints,
	}, nil
}
