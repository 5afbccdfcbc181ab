package documents

import "context"

// TextUpdate carries the user-editable text fields; nil means unchanged.
type TextUpdate struct {
	OCRText       *string
	AICleanedText *string
}

// Repo defines persistence operations for documents.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, id string) (Document, error)
	List(ctx context.Context) ([]Document, error)
	UpdateTexts(ctx context.Context, id string, update TextUpdate) (Document, error)
	Delete(ctx context.Context, id string) error
}
