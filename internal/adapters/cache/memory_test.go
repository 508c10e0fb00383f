package cache_test

import (
	"testing"
	"time"

	"kotodama/internal/adapters/cache"
	"kotodama/internal/domain"
)

func TestNormalizedKey_ReturnsCorrectFormat(t *testing.T) {
	// Arrange
	sessionID := "a1b2c3"
	platform := domain.PlatformTwitter
	expected := "/a1b2c3/platform/Twitter"

	// Act
	key := cache.NormalizedKey(sessionID, platform)

	// Assert
	if key != expected {
		t.Errorf("got %v, want %v", key, expected)
	}
}

func TestMemoryCache_SetAndGet_ReturnsResult(t *testing.T) {
	// Arrange
	c := cache.NewMemoryCache(5 * time.Minute)
	result := domain.PlatformResult{
		Title:   "Go並行処理入門",
		Tags:    []string{"go", "goroutine"},
		Content: "本文",
	}

	// Act
	c.Set("session-1", domain.PlatformZenn, result)
	got, found := c.Get("session-1", domain.PlatformZenn)

	// Assert
	if !found {
		t.Error("expected result to be found")
	}
	if got.Title != result.Title {
		t.Errorf("Title: got %v, want %v", got.Title, result.Title)
	}
	if got.Content != result.Content {
		t.Errorf("Content: got %v, want %v", got.Content, result.Content)
	}
}

func TestMemoryCache_GetNonExistent_ReturnsNotFound(t *testing.T) {
	// Arrange
	c := cache.NewMemoryCache(5 * time.Minute)

	// Act
	_, found := c.Get("nonexistent", domain.PlatformQiita)

	// Assert
	if found {
		t.Error("expected result to not be found")
	}
}

func TestMemoryCache_ExpiredEntry_ReturnsNotFound(t *testing.T) {
	// Arrange
	c := cache.NewMemoryCache(10 * time.Millisecond)
	result := domain.PlatformResult{Title: "Expired"}

	// Act
	c.Set("session-1", domain.PlatformNote, result)
	time.Sleep(20 * time.Millisecond) // Wait for expiration
	_, found := c.Get("session-1", domain.PlatformNote)

	// Assert
	if found {
		t.Error("expected expired result to not be found")
	}
}

func TestMemoryCache_DifferentPlatforms_SameSession_AreSeparate(t *testing.T) {
	// Arrange
	c := cache.NewMemoryCache(5 * time.Minute)
	zenn := domain.PlatformResult{Content: "Zenn rendition"}
	twitter := domain.PlatformResult{Content: "Twitter rendition"}

	// Act
	c.Set("session-1", domain.PlatformZenn, zenn)
	c.Set("session-1", domain.PlatformTwitter, twitter)
	got1, found1 := c.Get("session-1", domain.PlatformZenn)
	got2, found2 := c.Get("session-1", domain.PlatformTwitter)

	// Assert
	if !found1 || !found2 {
		t.Error("expected both results to be found")
	}
	if got1.Content != "Zenn rendition" {
		t.Errorf("zenn: got %v, want 'Zenn rendition'", got1.Content)
	}
	if got2.Content != "Twitter rendition" {
		t.Errorf("twitter: got %v, want 'Twitter rendition'", got2.Content)
	}
}

func TestMemoryCache_DifferentSessions_SamePlatform_AreSeparate(t *testing.T) {
	// Arrange
	c := cache.NewMemoryCache(5 * time.Minute)

	// Act
	c.Set("session-1", domain.PlatformQiita, domain.PlatformResult{Content: "From session 1"})
	_, found := c.Get("session-2", domain.PlatformQiita)

	// Assert
	if found {
		t.Error("expected other session's cache to be empty")
	}
}

func TestMemoryCache_OverwriteExisting_UpdatesResult(t *testing.T) {
	// Arrange
	c := cache.NewMemoryCache(5 * time.Minute)
	original := domain.PlatformResult{Content: "Original"}
	updated := domain.PlatformResult{Content: "Updated"}

	// Act
	c.Set("session-1", domain.PlatformZenn, original)
	c.Set("session-1", domain.PlatformZenn, updated)
	got, found := c.Get("session-1", domain.PlatformZenn)

	// Assert
	if !found {
		t.Error("expected result to be found")
	}
	if got.Content != "Updated" {
		t.Errorf("got %v, want 'Updated'", got.Content)
	}
}
