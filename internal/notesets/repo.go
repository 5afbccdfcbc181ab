package notesets

import "context"

// Repo defines persistence operations for note sets.
type Repo interface {
	Create(ctx context.Context, ns NoteSet) error
	GetByID(ctx context.Context, id string) (NoteSet, error)
	List(ctx context.Context) ([]NoteSet, error)
	Update(ctx context.Context, ns NoteSet) error
	Delete(ctx context.Context, id string) error
}
