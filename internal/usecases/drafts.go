package usecases

import (
	"context"

	"kotodama/internal/domain"
	"kotodama/pkg/log"
)

// DraftStore defines the interface for the draft persistence collaborator.
type DraftStore interface {
	Save(ctx context.Context, draft domain.Draft) (domain.Draft, error)
	List(ctx context.Context, userID string) ([]domain.Draft, error)
	Get(ctx context.Context, userID, id string) (domain.Draft, error)
	Delete(ctx context.Context, userID, id string) error
}

// DraftsUseCase manages the explicit save/load/delete lifecycle of drafts,
// keyed by the opaque user identifier from the auth collaborator.
type DraftsUseCase struct {
	store DraftStore
}

// NewDraftsUseCase creates a new DraftsUseCase.
func NewDraftsUseCase(store DraftStore) *DraftsUseCase {
	return &DraftsUseCase{store: store}
}

// Save persists the current editor text as a new draft, deriving the title
// from its first line.
func (uc *DraftsUseCase) Save(ctx context.Context, userID, content string) (domain.Draft, error) {
	draft := domain.Draft{
		UserID:  userID,
		Title:   domain.DraftTitle(content),
		Content: content,
	}

	saved, err := uc.store.Save(ctx, draft)
	if err != nil {
		return domain.Draft{}, err
	}

	log.GlobalInfoCtx(ctx, "draft saved", "draft_id", saved.ID, "title", saved.Title)
	return saved, nil
}

// List returns the user's drafts, newest first.
func (uc *DraftsUseCase) List(ctx context.Context, userID string) ([]domain.Draft, error) {
	return uc.store.List(ctx, userID)
}

// Get loads one draft. Selecting a draft fully replaces the editor text on
// the client side; the server only hands the content back.
func (uc *DraftsUseCase) Get(ctx context.Context, userID, id string) (domain.Draft, error) {
	return uc.store.Get(ctx, userID, id)
}

// Delete removes a draft after the client-side confirm.
func (uc *DraftsUseCase) Delete(ctx context.Context, userID, id string) error {
	return uc.store.Delete(ctx, userID, id)
}
