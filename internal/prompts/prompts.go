// Package prompts renders the natural-language instructions sent to the
// generation model. Every builder is a pure function of its inputs.
package prompts

import (
	"fmt"
	"strings"

	"kotodama/internal/domain"
)

// DefaultLocale is the output language for the capabilities that fix their
// locale (rewrite, platform optimization, virality prediction).
const DefaultLocale = "Japanese (日本語)"

// Builder renders capability prompts with a configured output locale.
type Builder struct {
	locale string
}

// NewBuilder creates a prompt builder. An empty locale falls back to the
// default.
func NewBuilder(locale string) *Builder {
	if locale == "" {
		locale = DefaultLocale
	}
	return &Builder{locale: locale}
}

// Rewrite asks for a tone-adjusted rewrite in the configured locale.
func (b *Builder) Rewrite(text, tone string) string {
	if tone == "" {
		tone = domain.DefaultTone
	}
	return fmt.Sprintf(`Rewrite the following text to be more "%s".
Keep the original meaning but improve clarity and impact.
Language: %s.

Original Text:
%s

Return ONLY the rewritten text.`, tone, b.locale, text)
}

// Humanize asks for a persona-aligned rewrite in the input's own language.
func (b *Builder) Humanize(text, persona string) string {
	return fmt.Sprintf(`You are an AI editor capable of analyzing and rewriting text to align with a specific persona.

Persona DNA:
%s

Original Text:
%s

Task: Rewrite the text to sound more like the persona described above.
- Maintain the original meaning and roughly the same length/detail level. Do not summarize.
- Improve the flow and word choice to be more "human" and resonant ("Kotodama").
- If the text is empty, return empty.
- IMPORTANT: Output MUST be in the same language as the Original Text (e.g., if Japanese, output Japanese).

Return ONLY the rewritten text.`, persona, text)
}

// Stealth asks for a rewrite that maximizes lexical and structural variance
// to evade AI-authorship detectors while preserving meaning and language.
func (b *Builder) Stealth(text string) string {
	return fmt.Sprintf(`Rewrite the following text to bypass AI detection mechanisms (Anti-AI / Stealth Mode).

Target:
- Increase "Perplexity" and "Burstiness".
- Remove typical "AI-like" patterns (perfect grammar, uniform sentence length, overuse of transition words).
- Introduce human-like imperfections, unique vocabulary, and varied sentence structures.
- Make it sound raw, authentic, and slightly unpredictable, but keep the core meaning.
- IMPORTANT: Output MUST be in the same language as the input text.

Text:
%s

Return ONLY the rewritten text.`, text)
}

// RiskAnalyze asks for a strict-JSON risk assessment covering inflammatory
// content and information leakage.
func (b *Builder) RiskAnalyze(text string) string {
	return fmt.Sprintf(`Analyze the following text for SNS/Posting risks.

Check for:
1. Flame Risk (Inflammatory, Offensive, Discriminatory, Misleading content).
2. Leak Risk (PII, Credentials, Secrets, Internal Data).

Text:
%s

Return a JSON object with:
- "score" (0-100 integer): 0 is perfectly safe, 100 is extremely dangerous.
- "level" (string): "Safe" (0-19), "Medium" (20-59), "High" (60-100).
- "warnings" (array of strings): Specific warning tags (e.g., "Hate Speech", "API Key Leak", "Phone Number").
- "reason" (string): A brief explanation of the risk in the same language as the input text.`, text)
}

// RiskFix asks for a safer rewrite mitigating the named warning categories,
// redacting PII-like tokens with a fixed placeholder.
func (b *Builder) RiskFix(text string, warnings []string) string {
	return fmt.Sprintf(`Task: Rewrite the following text to mitigate the identified risks (%s).

Goal:
- Reduce inflammatory, offensive, or high-risk language.
- Maintain the original opinion/meaning but phrase it more constructively and safely.
- If the text contains PII (e.g., phone numbers), replace them with [REDACTED].
- IMPORTANT: Output MUST be in the same language as the input text.

Original Text:
%s

Return ONLY the rewritten, safer text.`, strings.Join(warnings, ", "), text)
}

// Analyze asks for the "Kotodama" resonance score, up to three emotions from
// the fixed vocabulary, and one sentence of advice in the input's language.
func (b *Builder) Analyze(text string) string {
	vocab := `"` + strings.Join(domain.EmotionVocabulary, `", "`) + `"`
	return fmt.Sprintf(`Analyze the "Kotodama" (Soul/Power/Human-ness) of the following text.

Text:
%s

Return a JSON object with:
1. "score" (0-100 integer): How "human", "impactful", and "resonant" the text is. 100 is a masterpiece, 0 is robotic/empty.
2. "emotions" (array of objects {label: string, value: 0-100}):
   - Identify the top 3 dominant emotions from this list if applicable: %s.
   - If none apply perfectly, use the closest English term.
   - "value" represents the intensity of that emotion.
3. "advice" (string): A short, one-sentence advice to improve the "Kotodama". VALIDATION: This advice MUST be in the same language as the input text.`, text, vocab)
}

// platformStyles is the fixed per-platform style directive lookup.
var platformStyles = map[domain.Platform]string{
	domain.PlatformZenn:    "Focus on technical knowledge sharing. Use a catchy title often with an emoji. Summarize the main tech insights.",
	domain.PlatformQiita:   "Strictly engineering focused. Title should be 'How-to' or 'Impl details'. Tags should be precise tech stack names.",
	domain.PlatformNote:    "Emotional, essay-like, storytelling. Title should be resonant and inviting. Content is a teaser or summary.",
	domain.PlatformTwitter: "Viral, punchy, under 140 chars (or thread starter). Use relevant hashtags. Casual tone.",
}

// PlatformStyle returns the style directive for a platform.
func PlatformStyle(p domain.Platform) string {
	return platformStyles[p]
}

// Platform asks for a strict-JSON reformatting of the text for one
// publishing platform, in the configured locale.
func (b *Builder) Platform(text string, platform domain.Platform) string {
	return fmt.Sprintf(`Task: Optimize the following text for publishing on **%s**.

Target Audience/Style: %s

Constraint:
- The output MUST be in %s.
- Return a valid JSON object ONLY. Do not include markdown or explanations outside JSON.

Original Text:
%s

JSON Schema:
{
    "title": "string",
    "tags": ["string", "string"],
    "content": "string",
    "explanation": "string"
}`, platform, platformStyles[platform], b.locale, text)
}

// Viral asks for a strict-JSON viral potential prediction in the configured
// locale.
func (b *Builder) Viral(text string) string {
	return fmt.Sprintf(`Analyze the viral potential of the following text if posted on social media (X/Twitter).

Target:
- Estimate the "Viral Potential" based on catchiness, emotional hook, relatability, and trend relevance.

Text:
%s

Output JSON Schema:
{
    "score": number (0-100),
    "potentialReach": "string" (e.g., "100 - 500 views", "10k+ impressions"),
    "improvementPoints": ["string", "string"],
    "strongPoints": ["string", "string"]
}

Constraint:
- Output must be in %s.
- Return ONLY valid JSON.`, text, b.locale)
}
