package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"notescan-backend/internal/cleanup"
	"notescan-backend/internal/documents"
	"notescan-backend/internal/layout"
	"notescan-backend/internal/ocr"
	"notescan-backend/internal/shared/storage/object"
	localstore "notescan-backend/internal/shared/storage/object/local"
)

type fakeOCR struct {
	result ocr.Result
	err    error
	failOn map[string]bool
	seen   []string
}

func (f *fakeOCR) Recognize(ctx context.Context, image []byte) (ocr.Result, error) {
	key := string(image)
	f.seen = append(f.seen, key)
	if f.failOn[key] {
		return ocr.Result{}, ocr.ErrFailed
	}
	if f.err != nil {
		return ocr.Result{}, f.err
	}
	if f.result.Text == "" {
		return ocr.Result{Text: "text of " + key, Confidence: 90}, nil
	}
	return f.result, nil
}

type fakeCleanup struct {
	lastInput cleanup.Input
	result    cleanup.Result
	succeed   bool
}

func (f *fakeCleanup) Clean(ctx context.Context, in cleanup.Input) cleanup.Result {
	f.lastInput = in
	if !f.succeed {
		return cleanup.Result{CleanedText: in.Text}
	}
	if f.result.CleanedText == "" {
		return cleanup.Result{Success: true, CleanedText: "cleaned: " + in.Text, Model: "gpt-4o"}
	}
	return f.result
}

type fakeLayout struct {
	result layout.Result
}

func (f *fakeLayout) Analyze(ctx context.Context, image []byte) layout.Result {
	return f.result
}

type staticContext struct {
	block string
}

func (s staticContext) ContextBlock(ctx context.Context, hint string, limit int) string {
	return s.block
}

func storeFile(t *testing.T, store object.ObjectStore, name, content string) UploadedFile {
	t.Helper()
	key, size, mime, err := store.Save(context.Background(), "documents", name, strings.NewReader(content))
	if err != nil {
		t.Fatalf("store save: %v", err)
	}
	return UploadedFile{
		StorageKey:   key,
		Filename:     name,
		OriginalName: name,
		MimeType:     mime,
		SizeBytes:    size,
	}
}

func newTestPipeline(t *testing.T) (*Pipeline, *fakeOCR, *fakeCleanup, *documents.MemoryRepo, object.ObjectStore) {
	t.Helper()
	ocrClient := &fakeOCR{failOn: map[string]bool{}}
	cleanupClient := &fakeCleanup{succeed: true}
	repo := documents.NewMemoryRepo()
	store := localstore.New(t.TempDir())
	p := &Pipeline{
		OCR:     ocrClient,
		Layout:  layout.Disabled{},
		Cleanup: cleanupClient,
		Context: staticContext{},
		Docs:    repo,
		Store:   store,
	}
	return p, ocrClient, cleanupClient, repo, store
}

func TestProcessFilePersistsDocument(t *testing.T) {
	p, _, _, repo, store := newTestPipeline(t)
	file := storeFile(t, store, "page1.png", "imageone")

	doc, err := p.ProcessFile(context.Background(), file)
	if err != nil {
		t.Fatalf("ProcessFile: %v", err)
	}
	if doc.OCRText != "text of imageone" {
		t.Errorf("OCRText = %q", doc.OCRText)
	}
	if doc.AICleanedText != "cleaned: text of imageone" || !doc.AIProcessed {
		t.Errorf("cleanup output missing: %+v", doc)
	}
	if doc.AIModel != "gpt-4o" {
		t.Errorf("AIModel = %q", doc.AIModel)
	}

	stored, err := repo.GetByID(context.Background(), doc.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.StorageKey != file.StorageKey {
		t.Errorf("StorageKey = %q, want %q", stored.StorageKey, file.StorageKey)
	}
}

func TestProcessFileDegradedCleanupKeepsRawText(t *testing.T) {
	p, _, cleanupClient, _, store := newTestPipeline(t)
	cleanupClient.succeed = false
	file := storeFile(t, store, "page1.png", "imageone")

	doc, err := p.ProcessFile(context.Background(), file)
	if err != nil {
		t.Fatalf("ProcessFile: %v", err)
	}
	if doc.AIProcessed {
		t.Errorf("AIProcessed = true, want false when cleanup degrades")
	}
	if doc.AICleanedText != doc.OCRText {
		t.Errorf("AICleanedText = %q, want raw text %q", doc.AICleanedText, doc.OCRText)
	}
}

func TestProcessFileOCRFailureAborts(t *testing.T) {
	p, ocrClient, _, repo, store := newTestPipeline(t)
	ocrClient.err = ocr.ErrFailed
	file := storeFile(t, store, "page1.png", "imageone")

	_, err := p.ProcessFile(context.Background(), file)
	if !errors.Is(err, ocr.ErrFailed) {
		t.Fatalf("err = %v, want ErrFailed", err)
	}
	var ingestErr *Error
	if !errors.As(err, &ingestErr) || ingestErr.Filename != "page1.png" {
		t.Errorf("err = %#v, want *Error carrying filename", err)
	}

	docs, listErr := repo.List(context.Background())
	if listErr != nil {
		t.Fatalf("List: %v", listErr)
	}
	if len(docs) != 0 {
		t.Errorf("document persisted despite recognition failure")
	}
}

func TestProcessFileFeedsContextAndLayoutIntoCleanup(t *testing.T) {
	p, _, cleanupClient, _, store := newTestPipeline(t)
	p.Context = staticContext{block: "\n\n## Reference Context:\nphysics glossary"}
	p.Layout = &fakeLayout{result: layout.Result{
		Success: true,
		Data: &layout.Data{
			PageCount:  1,
			Tables:     []layout.Table{{RowCount: 3, ColumnCount: 2}},
			Paragraphs: []layout.Paragraph{{Role: "title", Content: "Kinematics"}},
		},
	}}
	file := storeFile(t, store, "page1.png", "imageone")

	if _, err := p.ProcessFile(context.Background(), file); err != nil {
		t.Fatalf("ProcessFile: %v", err)
	}
	in := cleanupClient.lastInput
	if !strings.Contains(in.ContextBlock, "physics glossary") {
		t.Errorf("ContextBlock = %q", in.ContextBlock)
	}
	if !strings.Contains(in.LayoutSummary, "1 page(s)") || !strings.Contains(in.LayoutSummary, "Kinematics") {
		t.Errorf("LayoutSummary = %q", in.LayoutSummary)
	}
	if string(in.Image) != "imageone" {
		t.Errorf("image bytes not forwarded to cleanup")
	}
}
