package domain

import (
	"strings"
	"time"
)

// Draft is a saved editor text, owned by the persistence collaborator and
// keyed by an opaque user identifier from the auth provider.
type Draft struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// maxTitleRunes bounds the derived draft title.
const maxTitleRunes = 30

// UntitledDraft is the placeholder title when the content yields none.
const UntitledDraft = "Untitled Draft"

// DraftTitle derives a title from content: the first line truncated to 30
// runes, or a fixed placeholder when that line is empty.
func DraftTitle(content string) string {
	first, _, _ := strings.Cut(content, "\n")
	runes := []rune(strings.TrimSpace(first))
	if len(runes) > maxTitleRunes {
		runes = runes[:maxTitleRunes]
	}
	title := string(runes)
	if title == "" {
		return UntitledDraft
	}
	return title
}
