package documents

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"notescan-backend/internal/shared/storage/object"
	localstore "notescan-backend/internal/shared/storage/object/local"
)

func newTestRouter(t *testing.T) (*gin.Engine, *MemoryRepo, object.ObjectStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := NewMemoryRepo()
	store := localstore.New(t.TempDir())
	h := NewHandler(&Service{Store: store, Repo: repo})
	r := gin.New()
	h.RegisterRoutes(r.Group("/api"))
	return r, repo, store
}

func seedDocument(t *testing.T, repo *MemoryRepo, store object.ObjectStore, id string) Document {
	t.Helper()
	key, size, mime, err := store.Save(context.Background(), "documents", id+".png", strings.NewReader("imagebytes"))
	if err != nil {
		t.Fatalf("store save: %v", err)
	}
	doc := Document{
		ID:            id,
		Filename:      id + ".png",
		OriginalName:  id + ".png",
		StorageKey:    key,
		MimeType:      mime,
		SizeBytes:     size,
		OCRText:       "raw text",
		OCRConfidence: 91.5,
		AICleanedText: "# Clean\n\ntext",
		AIProcessed:   true,
		AIModel:       "gpt-4o",
		UploadedAt:    time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("repo create: %v", err)
	}
	return doc
}

func TestGetDocument(t *testing.T) {
	r, repo, store := newTestRouter(t)
	seedDocument(t, repo, store, "doc-1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/documents/doc-1", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var got DocumentResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != "doc-1" || got.OCRText != "raw text" || !got.AIProcessed {
		t.Errorf("unexpected body: %+v", got)
	}
}

func TestGetDocumentNotFound(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/documents/ghost", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), "not_found") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestListDocumentsNewestFirst(t *testing.T) {
	r, repo, _ := newTestRouter(t)
	older := Document{ID: "old", UploadedAt: time.Now().Add(-time.Hour)}
	newer := Document{ID: "new", UploadedAt: time.Now()}
	repo.Create(context.Background(), older)
	repo.Create(context.Background(), newer)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/documents", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got []DocumentResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[0].ID != "new" || got[1].ID != "old" {
		t.Errorf("order = %v", got)
	}
}

func TestUpdateDocumentText(t *testing.T) {
	r, repo, store := newTestRouter(t)
	seedDocument(t, repo, store, "doc-1")

	body := strings.NewReader(`{"aiCleanedText":"edited"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/documents/doc-1", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var got DocumentResponse
	json.Unmarshal(w.Body.Bytes(), &got)
	if got.AICleanedText != "edited" {
		t.Errorf("AICleanedText = %q", got.AICleanedText)
	}
	if got.OCRText != "raw text" {
		t.Errorf("OCRText changed: %q", got.OCRText)
	}
}

func TestUpdateDocumentRejectsUnknownFields(t *testing.T) {
	r, repo, store := newTestRouter(t)
	seedDocument(t, repo, store, "doc-1")

	body := strings.NewReader(`{"ocrText":"x","bogus":true}`)
	req := httptest.NewRequest(http.MethodPut, "/api/documents/doc-1", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestUpdateDocumentRequiresAField(t *testing.T) {
	r, repo, store := newTestRouter(t)
	seedDocument(t, repo, store, "doc-1")

	req := httptest.NewRequest(http.MethodPut, "/api/documents/doc-1", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestDeleteDocumentRemovesFile(t *testing.T) {
	r, repo, store := newTestRouter(t)
	doc := seedDocument(t, repo, store, "doc-1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/documents/doc-1", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if _, err := repo.GetByID(context.Background(), "doc-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("document still present: %v", err)
	}
	if _, err := store.Open(context.Background(), doc.StorageKey); err == nil {
		t.Errorf("stored file still readable after delete")
	}
}

func TestDocumentImageStreamsStoredMime(t *testing.T) {
	r, repo, store := newTestRouter(t)
	doc := seedDocument(t, repo, store, "doc-1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/documents/doc-1/image", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Header().Get("Content-Type"); got != doc.MimeType {
		t.Errorf("Content-Type = %q, want %q", got, doc.MimeType)
	}
	if w.Body.String() != "imagebytes" {
		t.Errorf("body = %q", w.Body.String())
	}
}
