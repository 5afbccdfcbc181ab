package notesets

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"notescan-backend/internal/documents"
)

// Service contains business logic for note sets.
type Service struct {
	Repo Repo
	Docs documents.Repo

	now func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo, docs documents.Repo) *Service {
	return &Service{Repo: repo, Docs: docs, now: time.Now}
}

// Create builds a note set from existing documents. Orders are assigned
// densely by list position.
func (s *Service) Create(ctx context.Context, name string, documentIDs []string) (NoteSet, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return NoteSet{}, ErrInvalidInput
	}

	members := make([]Membership, 0, len(documentIDs))
	for i, id := range documentIDs {
		if strings.TrimSpace(id) == "" {
			return NoteSet{}, ErrInvalidInput
		}
		if _, err := s.Docs.GetByID(ctx, id); err != nil {
			return NoteSet{}, err
		}
		members = append(members, Membership{DocumentID: id, Order: i})
	}

	now := s.now().UTC()
	ns := NoteSet{
		ID:        uuid.NewString(),
		Name:      name,
		Documents: members,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Create(ctx, ns); err != nil {
		return NoteSet{}, err
	}
	return ns, nil
}

// CreateFromBatch persists a note set with caller-supplied memberships.
// Batch ingestion passes orders keyed to upload position, which stay sparse
// when some files of the batch fail.
func (s *Service) CreateFromBatch(ctx context.Context, name string, members []Membership) (NoteSet, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(members) == 0 {
		return NoteSet{}, ErrInvalidInput
	}

	now := s.now().UTC()
	ns := NoteSet{
		ID:        uuid.NewString(),
		Name:      name,
		Documents: append([]Membership(nil), members...),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Create(ctx, ns); err != nil {
		return NoteSet{}, err
	}
	return ns, nil
}

// Get returns a note set with its member documents resolved in order.
// Dangling references (member documents deleted since) are skipped.
func (s *Service) Get(ctx context.Context, id string) (NoteSet, []documents.Document, error) {
	ns, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return NoteSet{}, nil, err
	}

	docs := make([]documents.Document, 0, len(ns.Documents))
	for _, m := range sortedByOrder(ns.Documents) {
		doc, err := s.Docs.GetByID(ctx, m.DocumentID)
		if err != nil {
			if err == documents.ErrNotFound {
				continue
			}
			return NoteSet{}, nil, err
		}
		docs = append(docs, doc)
	}
	return ns, docs, nil
}

// List returns all note sets, most recently updated first.
func (s *Service) List(ctx context.Context) ([]NoteSet, error) {
	return s.Repo.List(ctx)
}

// Rename changes the note set name.
func (s *Service) Rename(ctx context.Context, id, name string) (NoteSet, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return NoteSet{}, ErrInvalidInput
	}
	ns, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return NoteSet{}, err
	}
	ns.Name = name
	return s.save(ctx, ns)
}

// ReplaceMembers swaps the membership list wholesale. Orders are assigned
// densely by list position.
func (s *Service) ReplaceMembers(ctx context.Context, id string, documentIDs []string) (NoteSet, error) {
	ns, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return NoteSet{}, err
	}

	members := make([]Membership, 0, len(documentIDs))
	for i, docID := range documentIDs {
		if strings.TrimSpace(docID) == "" {
			return NoteSet{}, ErrInvalidInput
		}
		if _, err := s.Docs.GetByID(ctx, docID); err != nil {
			return NoteSet{}, err
		}
		members = append(members, Membership{DocumentID: docID, Order: i})
	}
	ns.Documents = members
	return s.save(ctx, ns)
}

// Append adds one document at the end of the set.
func (s *Service) Append(ctx context.Context, id, documentID string) (NoteSet, error) {
	if strings.TrimSpace(documentID) == "" {
		return NoteSet{}, ErrInvalidInput
	}
	ns, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return NoteSet{}, err
	}
	for _, m := range ns.Documents {
		if m.DocumentID == documentID {
			return NoteSet{}, ErrDuplicateMember
		}
	}
	if _, err := s.Docs.GetByID(ctx, documentID); err != nil {
		return NoteSet{}, err
	}

	ns.Documents = append(ns.Documents, Membership{
		DocumentID: documentID,
		Order:      len(ns.Documents),
	})
	return s.save(ctx, ns)
}

// Remove drops one document from the set and re-packs the remaining orders
// into a dense 0-based sequence.
func (s *Service) Remove(ctx context.Context, id, documentID string) (NoteSet, error) {
	ns, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return NoteSet{}, err
	}

	remaining := make([]Membership, 0, len(ns.Documents))
	found := false
	for _, m := range sortedByOrder(ns.Documents) {
		if m.DocumentID == documentID {
			found = true
			continue
		}
		remaining = append(remaining, m)
	}
	if !found {
		return NoteSet{}, documents.ErrNotFound
	}
	for i := range remaining {
		remaining[i].Order = i
	}
	ns.Documents = remaining
	return s.save(ctx, ns)
}

// Delete removes the note set. Member documents are left untouched.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}

func (s *Service) save(ctx context.Context, ns NoteSet) (NoteSet, error) {
	ns.UpdatedAt = s.now().UTC()
	if err := s.Repo.Update(ctx, ns); err != nil {
		return NoteSet{}, err
	}
	return ns, nil
}

func sortedByOrder(members []Membership) []Membership {
	out := append([]Membership(nil), members...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}
