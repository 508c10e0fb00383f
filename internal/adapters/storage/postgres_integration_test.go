//go:build integration

package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"kotodama/internal/domain"
)

// setupPostgresContainer starts a disposable PostgreSQL instance and returns
// its connection string.
func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "kotodama",
			"POSTGRES_PASSWORD": "kotodama",
			"POSTGRES_DB":       "kotodama_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return nil, "", fmt.Errorf("failed to get port: %w", err)
	}

	connStr := fmt.Sprintf("postgres://kotodama:kotodama@%s:%s/kotodama_test?sslmode=disable",
		host, port.Port())
	return container, connStr, nil
}

func setupStore(t *testing.T) *PostgresStore {
	t.Helper()
	ctx := context.Background()

	container, connStr, err := setupPostgresContainer(ctx)
	if err != nil {
		t.Fatalf("setup container: %v", err)
	}
	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	store, err := NewPostgresStore(connStr)
	if err != nil {
		t.Fatalf("NewPostgresStore() error = %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestPostgresStore_SaveAndGet(t *testing.T) {
	// Arrange
	store := setupStore(t)
	ctx := context.Background()

	// Act
	saved, err := store.Save(ctx, domain.Draft{
		UserID:  "user-1",
		Title:   "今日の学び",
		Content: "今日の学び\n本文はこちら",
	})

	// Assert
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if saved.ID == "" {
		t.Error("expected a generated id")
	}
	if saved.CreatedAt.IsZero() {
		t.Error("expected a creation timestamp")
	}

	got, err := store.Get(ctx, "user-1", saved.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title != "今日の学び" || got.Content != saved.Content {
		t.Errorf("got %+v", got)
	}
}

func TestPostgresStore_List_NewestFirstAndUserScoped(t *testing.T) {
	// Arrange
	store := setupStore(t)
	ctx := context.Background()

	first, _ := store.Save(ctx, domain.Draft{UserID: "user-1", Title: "first", Content: "a"})
	time.Sleep(20 * time.Millisecond)
	second, _ := store.Save(ctx, domain.Draft{UserID: "user-1", Title: "second", Content: "b"})
	store.Save(ctx, domain.Draft{UserID: "user-2", Title: "other", Content: "c"})

	// Act
	drafts, err := store.List(ctx, "user-1")

	// Assert
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(drafts) != 2 {
		t.Fatalf("got %d drafts, want 2", len(drafts))
	}
	if drafts[0].ID != second.ID || drafts[1].ID != first.ID {
		t.Errorf("expected newest first, got [%s, %s]", drafts[0].Title, drafts[1].Title)
	}
}

func TestPostgresStore_Get_WrongUser_ReturnsNotFound(t *testing.T) {
	// Arrange
	store := setupStore(t)
	ctx := context.Background()
	saved, _ := store.Save(ctx, domain.Draft{UserID: "user-1", Title: "private", Content: "x"})

	// Act
	_, err := store.Get(ctx, "user-2", saved.ID)

	// Assert
	if err != domain.ErrDraftNotFound {
		t.Errorf("expected ErrDraftNotFound, got %v", err)
	}
}

func TestPostgresStore_Delete(t *testing.T) {
	// Arrange
	store := setupStore(t)
	ctx := context.Background()
	saved, _ := store.Save(ctx, domain.Draft{UserID: "user-1", Title: "doomed", Content: "x"})

	// Act
	err := store.Delete(ctx, "user-1", saved.ID)

	// Assert
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get(ctx, "user-1", saved.ID); err != domain.ErrDraftNotFound {
		t.Errorf("expected draft to be gone, got %v", err)
	}
	if err := store.Delete(ctx, "user-1", saved.ID); err != domain.ErrDraftNotFound {
		t.Errorf("double delete: expected ErrDraftNotFound, got %v", err)
	}
}
