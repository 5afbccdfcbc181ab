package documents

import (
	"context"

	"notescan-backend/internal/shared/storage/object"
	"notescan-backend/internal/shared/telemetry"
)

// Service contains business logic for documents.
type Service struct {
	Store object.ObjectStore
	Repo  Repo
}

// Get returns a document by ID.
func (s *Service) Get(ctx context.Context, id string) (Document, error) {
	if id == "" {
		return Document{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, id)
}

// List returns all documents, newest first.
func (s *Service) List(ctx context.Context) ([]Document, error) {
	return s.Repo.List(ctx)
}

// UpdateTexts edits the user-editable text fields.
func (s *Service) UpdateTexts(ctx context.Context, id string, update TextUpdate) (Document, error) {
	if id == "" {
		return Document{}, ErrInvalidInput
	}
	return s.Repo.UpdateTexts(ctx, id, update)
}

// Delete removes a document and its backing file. Membership entries in note
// sets are left untouched; a dangling reference is accepted.
func (s *Service) Delete(ctx context.Context, id string) error {
	doc, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, doc.StorageKey); err != nil {
		telemetry.Warn("documents.delete_file_failed", map[string]any{
			"id":    id,
			"error": err.Error(),
		})
	}
	return s.Repo.Delete(ctx, id)
}
