package contextdocs

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]ContextDocument
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]ContextDocument)}
}

// Create stores a context document.
func (r *MemoryRepo) Create(ctx context.Context, doc ContextDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[doc.ID] = doc
	return nil
}

// GetByID returns a context document by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (ContextDocument, error) {
	if err := ctx.Err(); err != nil {
		return ContextDocument{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.data[id]
	if !ok {
		return ContextDocument{}, ErrNotFound
	}
	return doc, nil
}

// List returns all context documents, newest first.
func (r *MemoryRepo) List(ctx context.Context) ([]ContextDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	docs := make([]ContextDocument, 0, len(r.data))
	for _, doc := range r.data {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].UploadedAt.After(docs[j].UploadedAt)
	})
	return docs, nil
}

// ListRecent returns the newest limit context documents.
func (r *MemoryRepo) ListRecent(ctx context.Context, limit int) ([]ContextDocument, error) {
	docs, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

// Delete removes a context document.
func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
