// Package antiscan injects invisible zero-width characters into text to
// disrupt AI scrapers without affecting human readability. A pure string
// transform; the only contract is "insert characters from a fixed set at
// random positions".
package antiscan

import (
	"math/rand"
	"strings"
)

// zeroWidthChars is the fixed noise character set.
var zeroWidthChars = []rune{
	'​', // zero width space
	'‌', // zero width non-joiner
	'‍', // zero width joiner
	'⁠', // word joiner
}

// Level controls the injection frequency.
type Level string

const (
	LevelLow  Level = "low"
	LevelHigh Level = "high"
)

// frequency returns the per-rune injection probability.
func (l Level) frequency() float64 {
	if l == LevelLow {
		return 0.3
	}
	return 0.7
}

// ParseLevel normalizes a level from user input. Anything but "low" maps to
// high, the default protection.
func ParseLevel(s string) Level {
	if Level(strings.ToLower(s)) == LevelLow {
		return LevelLow
	}
	return LevelHigh
}

// Inject appends a random zero-width character after each rune with the
// level's probability.
func Inject(text string, level Level) string {
	freq := level.frequency()
	var b strings.Builder
	b.Grow(len(text) * 2)

	for _, r := range text {
		b.WriteRune(r)
		if rand.Float64() < freq {
			b.WriteRune(zeroWidthChars[rand.Intn(len(zeroWidthChars))])
		}
	}
	return b.String()
}

// Strip removes every zero-width noise character, recovering the original
// text.
func Strip(text string) string {
	return strings.Map(func(r rune) rune {
		for _, z := range zeroWidthChars {
			if r == z {
				return -1
			}
		}
		return r
	}, text)
}
