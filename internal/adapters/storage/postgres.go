// Package storage implements the draft persistence collaborator on
// PostgreSQL.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"kotodama/internal/domain"
)

// PostgresStore persists drafts keyed by the opaque user identifier the
// auth collaborator supplies.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens the database and ensures the schema exists.
func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &PostgresStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS drafts (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_drafts_user_created
			ON drafts (user_id, created_at DESC)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

// Save inserts a new draft and returns it with its generated id and
// creation timestamp.
func (s *PostgresStore) Save(ctx context.Context, draft domain.Draft) (domain.Draft, error) {
	draft.ID = uuid.NewString()

	row := s.db.QueryRowContext(ctx,
		`INSERT INTO drafts (id, user_id, title, content)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		draft.ID, draft.UserID, draft.Title, draft.Content)
	if err := row.Scan(&draft.CreatedAt); err != nil {
		return domain.Draft{}, fmt.Errorf("failed to save draft: %w", err)
	}

	return draft, nil
}

// List returns the user's drafts ordered by creation time descending.
func (s *PostgresStore) List(ctx context.Context, userID string) ([]domain.Draft, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, title, content, created_at
		 FROM drafts
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	drafts := []domain.Draft{}
	for rows.Next() {
		var d domain.Draft
		if err := rows.Scan(&d.ID, &d.UserID, &d.Title, &d.Content, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan draft: %w", err)
		}
		drafts = append(drafts, d)
	}
	return drafts, rows.Err()
}

// Get loads one draft owned by the user.
func (s *PostgresStore) Get(ctx context.Context, userID, id string) (domain.Draft, error) {
	var d domain.Draft
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, content, created_at
		 FROM drafts
		 WHERE id = $1 AND user_id = $2`,
		id, userID)
	err := row.Scan(&d.ID, &d.UserID, &d.Title, &d.Content, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Draft{}, domain.ErrDraftNotFound
	}
	if err != nil {
		return domain.Draft{}, fmt.Errorf("failed to get draft: %w", err)
	}
	return d, nil
}

// Delete removes one draft owned by the user.
func (s *PostgresStore) Delete(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM drafts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrDraftNotFound
	}
	return nil
}
