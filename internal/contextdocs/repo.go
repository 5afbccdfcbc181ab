package contextdocs

import "context"

// Repo defines persistence operations for context documents.
type Repo interface {
	Create(ctx context.Context, doc ContextDocument) error
	GetByID(ctx context.Context, id string) (ContextDocument, error)
	List(ctx context.Context) ([]ContextDocument, error)
	ListRecent(ctx context.Context, limit int) ([]ContextDocument, error)
	Delete(ctx context.Context, id string) error
}
