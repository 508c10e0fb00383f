// Package domain contains the core business entities and rules.
package domain

// AnalysisResult is the "Kotodama" sentiment analysis of the editor text.
type AnalysisResult struct {
	Score    int       `json:"score"`
	Emotions []Emotion `json:"emotions"`
	Advice   string    `json:"advice"`
}

// Emotion is a single detected emotion with its intensity (0-100).
type Emotion struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// EmotionVocabulary is the fixed set of labels the analysis prompt asks for.
// The model may fall back to the closest English term if none fit.
var EmotionVocabulary = []string{
	"Joy", "Trust", "Empathy", "Urgency", "Melancholy", "Anger", "Calm",
}

// Dominant returns the emotion with the highest intensity.
// The decoder keeps emotions unsorted, so consumers pick the maximum here.
func (a AnalysisResult) Dominant() (Emotion, bool) {
	if len(a.Emotions) == 0 {
		return Emotion{}, false
	}
	top := a.Emotions[0]
	for _, e := range a.Emotions[1:] {
		if e.Value > top.Value {
			top = e
		}
	}
	return top, true
}

// RiskLevel classifies how dangerous a text is to post.
type RiskLevel string

const (
	RiskSafe   RiskLevel = "Safe"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Valid reports whether the level is one of the known values.
func (l RiskLevel) Valid() bool {
	switch l {
	case RiskSafe, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// LevelForScore maps a risk score to its band: 0-19 Safe, 20-59 Medium,
// 60-100 High. This is the producer's contract only; the decoder never
// re-derives the level from the score, so upstream inconsistencies pass
// through verbatim.
func LevelForScore(score int) RiskLevel {
	switch {
	case score < 20:
		return RiskSafe
	case score < 60:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// RiskResult is the SNS posting risk assessment of a text.
type RiskResult struct {
	Score    int       `json:"score"`
	Level    RiskLevel `json:"level"`
	Warnings []string  `json:"warnings"`
	Reason   string    `json:"reason"`
}

// Platform is a publishing target with its own formatting conventions.
type Platform string

const (
	PlatformZenn    Platform = "Zenn"
	PlatformQiita   Platform = "Qiita"
	PlatformNote    Platform = "Note"
	PlatformTwitter Platform = "Twitter"
)

// Platforms lists every supported publishing target.
var Platforms = []Platform{PlatformZenn, PlatformQiita, PlatformNote, PlatformTwitter}

// ParsePlatform validates a platform name from user input.
func ParsePlatform(s string) (Platform, error) {
	for _, p := range Platforms {
		if string(p) == s {
			return p, nil
		}
	}
	return "", ErrUnknownPlatform
}

// PlatformResult is a text reformatted for one publishing platform.
type PlatformResult struct {
	Title       string   `json:"title"`
	Tags        []string `json:"tags"`
	Content     string   `json:"content"`
	Explanation string   `json:"explanation"`
}

// ViralResult is the predicted social media performance of a text.
type ViralResult struct {
	Score             int      `json:"score"`
	PotentialReach    string   `json:"potentialReach"`
	StrongPoints      []string `json:"strongPoints"`
	ImprovementPoints []string `json:"improvementPoints"`
}

// DefaultTone is applied when a rewrite request does not name one.
const DefaultTone = "casual"
