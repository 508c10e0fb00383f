package antiscan_test

import (
	"strings"
	"testing"

	"kotodama/internal/antiscan"
)

func TestParseLevel_NormalizesInput(t *testing.T) {
	// Arrange
	cases := map[string]antiscan.Level{
		"low":     antiscan.LevelLow,
		"LOW":     antiscan.LevelLow,
		"high":    antiscan.LevelHigh,
		"":        antiscan.LevelHigh,
		"extreme": antiscan.LevelHigh,
	}

	// Act & Assert
	for input, want := range cases {
		if got := antiscan.ParseLevel(input); got != want {
			t.Errorf("ParseLevel(%q): got %v, want %v", input, got, want)
		}
	}
}

func TestInject_PreservesVisibleText(t *testing.T) {
	// Arrange
	text := "これは保護されたテキストです"

	// Act
	protected := antiscan.Inject(text, antiscan.LevelHigh)

	// Assert: stripping the noise recovers the original exactly.
	if antiscan.Strip(protected) != text {
		t.Errorf("strip(inject(text)) != text:\ngot  %q\nwant %q", antiscan.Strip(protected), text)
	}
}

func TestInject_HighLevel_AddsCharacters(t *testing.T) {
	// Arrange: long enough that zero insertions at p=0.7 is implausible.
	text := strings.Repeat("protect me ", 20)

	// Act
	protected := antiscan.Inject(text, antiscan.LevelHigh)

	// Assert
	if len([]rune(protected)) <= len([]rune(text)) {
		t.Error("expected high-level injection to add characters")
	}
}

func TestInject_EmptyText_StaysEmpty(t *testing.T) {
	// Act
	protected := antiscan.Inject("", antiscan.LevelHigh)

	// Assert
	if protected != "" {
		t.Errorf("got %q, want empty", protected)
	}
}

func TestStrip_CleanText_Unchanged(t *testing.T) {
	// Arrange
	text := "no noise here"

	// Act
	stripped := antiscan.Strip(text)

	// Assert
	if stripped != text {
		t.Errorf("got %q, want unchanged input", stripped)
	}
}

func TestStrip_RemovesAllZeroWidthCharacters(t *testing.T) {
	// Arrange
	text := "a​b‌c‍d⁠e"

	// Act
	stripped := antiscan.Strip(text)

	// Assert
	if stripped != "abcde" {
		t.Errorf("got %q, want abcde", stripped)
	}
}
