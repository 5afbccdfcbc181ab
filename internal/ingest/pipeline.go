package ingest

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"notescan-backend/internal/cleanup"
	"notescan-backend/internal/documents"
	"notescan-backend/internal/layout"
	"notescan-backend/internal/ocr"
	"notescan-backend/internal/shared/metrics"
	"notescan-backend/internal/shared/storage/object"
	"notescan-backend/internal/shared/telemetry"
)

// ContextProvider supplies the prompt enrichment block for cleanup. The hint
// is the recognized text; providers may ignore it.
type ContextProvider interface {
	ContextBlock(ctx context.Context, hint string, limit int) string
}

// UploadedFile describes one stored upload awaiting ingestion. Index is the
// file's position in the original request and becomes the membership order
// when the batch is assembled.
type UploadedFile struct {
	Index        int
	StorageKey   string
	Filename     string
	OriginalName string
	MimeType     string
	SizeBytes    int64
}

// Pipeline runs the per-file ingestion sequence: recognition and layout
// analysis in parallel, then context retrieval, then cleanup, then persist.
type Pipeline struct {
	OCR     ocr.Client
	Layout  layout.Client
	Cleanup cleanup.Client
	Context ContextProvider
	Docs    documents.Repo
	Store   object.ObjectStore

	ContextLimit int
}

// ProcessFile ingests one stored upload and persists the resulting Document.
// Recognition and persistence failures abort this file only; layout, context,
// and cleanup degrade without failing.
func (p *Pipeline) ProcessFile(ctx context.Context, file UploadedFile) (documents.Document, error) {
	metrics.IncIngestStarted()
	start := time.Now()

	doc, err := p.process(ctx, file)
	metrics.ObserveIngestDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	if err != nil {
		metrics.IncIngestFailed()
		return documents.Document{}, &Error{Filename: file.OriginalName, Err: err}
	}

	metrics.IncIngestCompleted()
	return doc, nil
}

func (p *Pipeline) process(ctx context.Context, file UploadedFile) (documents.Document, error) {
	image, err := p.readImage(ctx, file.StorageKey)
	if err != nil {
		return documents.Document{}, fmt.Errorf("read stored image: %w", err)
	}

	// Recognition and layout analysis are independent; run them together
	// and join before the enrichment steps.
	var recognized ocr.Result
	var structure layout.Result

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		recognized, err = p.OCR.Recognize(gctx, image)
		return err
	})
	g.Go(func() error {
		structure = p.Layout.Analyze(gctx, image)
		return nil
	})
	if err := g.Wait(); err != nil {
		return documents.Document{}, err
	}

	contextBlock := ""
	if p.Context != nil {
		contextBlock = p.Context.ContextBlock(ctx, recognized.Text, p.ContextLimit)
	}

	layoutSummary := ""
	if structure.Success {
		layoutSummary = structure.Data.Summary()
	}

	cleaned := p.Cleanup.Clean(ctx, cleanup.Input{
		Text:          recognized.Text,
		Image:         image,
		ImageMime:     file.MimeType,
		ContextBlock:  contextBlock,
		LayoutSummary: layoutSummary,
	})

	doc := documents.Document{
		ID:            uuid.NewString(),
		Filename:      file.Filename,
		OriginalName:  file.OriginalName,
		StorageKey:    file.StorageKey,
		MimeType:      file.MimeType,
		SizeBytes:     file.SizeBytes,
		OCRText:       recognized.Text,
		OCRConfidence: recognized.Confidence,
		AICleanedText: cleaned.CleanedText,
		AIProcessed:   cleaned.Success,
		AIModel:       cleaned.Model,
		UploadedAt:    time.Now().UTC(),
	}
	if err := p.Docs.Create(ctx, doc); err != nil {
		return documents.Document{}, fmt.Errorf("persist document: %w", err)
	}

	telemetry.Info("ingest.file_complete", map[string]any{
		"document_id":    doc.ID,
		"original_name":  doc.OriginalName,
		"ocr_confidence": doc.OCRConfidence,
		"ai_processed":   doc.AIProcessed,
	})
	return doc, nil
}

func (p *Pipeline) readImage(ctx context.Context, storageKey string) ([]byte, error) {
	body, err := p.Store.Open(ctx, storageKey)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return io.ReadAll(body)
}
