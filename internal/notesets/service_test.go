package notesets

import (
	"context"
	"errors"
	"testing"
	"time"

	"notescan-backend/internal/documents"
)

func seedDocs(t *testing.T, repo documents.Repo, ids ...string) {
	t.Helper()
	for _, id := range ids {
		err := repo.Create(context.Background(), documents.Document{
			ID:         id,
			Filename:   id + ".jpg",
			UploadedAt: time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("seed document %s: %v", id, err)
		}
	}
}

func newTestService(t *testing.T, docIDs ...string) *Service {
	t.Helper()
	docRepo := documents.NewMemoryRepo()
	seedDocs(t, docRepo, docIDs...)
	return NewService(NewMemoryRepo(), docRepo)
}

func TestCreateAssignsDenseOrders(t *testing.T) {
	svc := newTestService(t, "a", "b", "c")

	ns, err := svc.Create(context.Background(), "Lecture 1", []string{"b", "a", "c"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	want := []Membership{{"b", 0}, {"a", 1}, {"c", 2}}
	if len(ns.Documents) != len(want) {
		t.Fatalf("members = %v", ns.Documents)
	}
	for i, m := range ns.Documents {
		if m != want[i] {
			t.Errorf("member[%d] = %v, want %v", i, m, want[i])
		}
	}
}

func TestCreateRejectsUnknownDocument(t *testing.T) {
	svc := newTestService(t, "a")

	_, err := svc.Create(context.Background(), "Lecture 1", []string{"a", "ghost"})
	if !errors.Is(err, documents.ErrNotFound) {
		t.Fatalf("err = %v, want documents.ErrNotFound", err)
	}
}

func TestCreateFromBatchKeepsSparseOrders(t *testing.T) {
	svc := newTestService(t, "a", "b")

	members := []Membership{{DocumentID: "a", Order: 0}, {DocumentID: "b", Order: 3}}
	ns, err := svc.CreateFromBatch(context.Background(), "Notes 2026-08-29", members)
	if err != nil {
		t.Fatalf("CreateFromBatch: %v", err)
	}
	if ns.Documents[1].Order != 3 {
		t.Errorf("order = %d, want sparse order 3 preserved", ns.Documents[1].Order)
	}
}

func TestGetResolvesMembersInOrderAndSkipsDangling(t *testing.T) {
	docRepo := documents.NewMemoryRepo()
	seedDocs(t, docRepo, "a", "b", "c")
	svc := NewService(NewMemoryRepo(), docRepo)

	ns, err := svc.CreateFromBatch(context.Background(), "s", []Membership{
		{DocumentID: "c", Order: 4},
		{DocumentID: "a", Order: 0},
		{DocumentID: "b", Order: 2},
	})
	if err != nil {
		t.Fatalf("CreateFromBatch: %v", err)
	}

	if err := docRepo.Delete(context.Background(), "b"); err != nil {
		t.Fatalf("delete document: %v", err)
	}

	_, docs, err := svc.Get(context.Background(), ns.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(docs) != 2 || docs[0].ID != "a" || docs[1].ID != "c" {
		t.Errorf("resolved docs = %v, want [a c]", docs)
	}
}

func TestAppendRejectsDuplicate(t *testing.T) {
	svc := newTestService(t, "a", "b")
	ns, err := svc.Create(context.Background(), "s", []string{"a"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Append(context.Background(), ns.ID, "a"); !errors.Is(err, ErrDuplicateMember) {
		t.Fatalf("err = %v, want ErrDuplicateMember", err)
	}

	got, err := svc.Append(context.Background(), ns.ID, "b")
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if got.Documents[1] != (Membership{DocumentID: "b", Order: 1}) {
		t.Errorf("appended member = %v", got.Documents[1])
	}
}

func TestRemoveRepacksOrdersDensely(t *testing.T) {
	svc := newTestService(t, "a", "b", "c")
	ns, err := svc.CreateFromBatch(context.Background(), "s", []Membership{
		{DocumentID: "a", Order: 0},
		{DocumentID: "b", Order: 2},
		{DocumentID: "c", Order: 5},
	})
	if err != nil {
		t.Fatalf("CreateFromBatch: %v", err)
	}

	got, err := svc.Remove(context.Background(), ns.ID, "b")
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	want := []Membership{{"a", 0}, {"c", 1}}
	if len(got.Documents) != 2 || got.Documents[0] != want[0] || got.Documents[1] != want[1] {
		t.Errorf("members = %v, want %v", got.Documents, want)
	}
}

func TestRemoveMissingMember(t *testing.T) {
	svc := newTestService(t, "a")
	ns, err := svc.Create(context.Background(), "s", []string{"a"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Remove(context.Background(), ns.ID, "ghost"); !errors.Is(err, documents.ErrNotFound) {
		t.Fatalf("err = %v, want documents.ErrNotFound", err)
	}
}

func TestRenameRefreshesUpdatedAt(t *testing.T) {
	svc := newTestService(t, "a")
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	ns, err := svc.Create(context.Background(), "before", []string{"a"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	svc.now = func() time.Time { return base.Add(time.Hour) }
	got, err := svc.Rename(context.Background(), ns.ID, "after")
	if err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if got.Name != "after" {
		t.Errorf("Name = %q", got.Name)
	}
	if !got.UpdatedAt.After(ns.UpdatedAt) {
		t.Errorf("UpdatedAt not refreshed: %v <= %v", got.UpdatedAt, ns.UpdatedAt)
	}
}

func TestDeleteLeavesDocuments(t *testing.T) {
	docRepo := documents.NewMemoryRepo()
	seedDocs(t, docRepo, "a")
	svc := NewService(NewMemoryRepo(), docRepo)

	ns, err := svc.Create(context.Background(), "s", []string{"a"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Delete(context.Background(), ns.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Repo.GetByID(context.Background(), ns.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("note set still present: %v", err)
	}
	if _, err := docRepo.GetByID(context.Background(), "a"); err != nil {
		t.Errorf("member document removed by note set delete: %v", err)
	}
}
