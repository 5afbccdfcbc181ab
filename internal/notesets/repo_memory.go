package notesets

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]NoteSet
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]NoteSet)}
}

// Create stores a note set.
func (r *MemoryRepo) Create(ctx context.Context, ns NoteSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[ns.ID] = cloneNoteSet(ns)
	return nil
}

// GetByID returns a note set by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (NoteSet, error) {
	if err := ctx.Err(); err != nil {
		return NoteSet{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	ns, ok := r.data[id]
	if !ok {
		return NoteSet{}, ErrNotFound
	}
	return cloneNoteSet(ns), nil
}

// List returns all note sets, most recently updated first.
func (r *MemoryRepo) List(ctx context.Context) ([]NoteSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	sets := make([]NoteSet, 0, len(r.data))
	for _, ns := range r.data {
		sets = append(sets, cloneNoteSet(ns))
	}
	sort.Slice(sets, func(i, j int) bool {
		return sets[i].UpdatedAt.After(sets[j].UpdatedAt)
	})
	return sets, nil
}

// Update replaces a stored note set.
func (r *MemoryRepo) Update(ctx context.Context, ns NoteSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[ns.ID]; !ok {
		return ErrNotFound
	}
	r.data[ns.ID] = cloneNoteSet(ns)
	return nil
}

// Delete removes a note set.
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

func cloneNoteSet(ns NoteSet) NoteSet {
	out := ns
	out.Documents = append([]Membership(nil), ns.Documents...)
	return out
}

var _ Repo = (*MemoryRepo)(nil)
