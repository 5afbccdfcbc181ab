package contextdocs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"notescan-backend/internal/shared/storage/object"
	"notescan-backend/internal/shared/telemetry"
)

const storageCategory = "context"

// DefaultContextLimit bounds how many reference documents feed one prompt.
const DefaultContextLimit = 3

// Service contains business logic for context documents.
type Service struct {
	Store object.ObjectStore
	Repo  Repo
}

// Upload stores the file, extracts its textual content, and records the
// context document. Plain-text formats are read verbatim; PDFs go through
// text extraction.
func (s *Service) Upload(ctx context.Context, originalName, description, category string, r io.Reader) (ContextDocument, error) {
	if strings.TrimSpace(originalName) == "" {
		return ContextDocument{}, ErrInvalidInput
	}
	if category == "" {
		category = "general"
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, storageCategory, originalName, r)
	if err != nil {
		return ContextDocument{}, err
	}

	content, err := s.extractContent(ctx, storageKey, originalName, mimeType)
	if err != nil {
		_ = s.Store.Delete(ctx, storageKey)
		return ContextDocument{}, err
	}

	doc := ContextDocument{
		ID:           uuid.NewString(),
		Filename:     filepath.Base(storageKey),
		OriginalName: originalName,
		StorageKey:   storageKey,
		MimeType:     mimeType,
		SizeBytes:    size,
		Content:      content,
		Description:  description,
		Category:     category,
		UploadedAt:   time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		_ = s.Store.Delete(ctx, storageKey)
		return ContextDocument{}, err
	}

	return doc, nil
}

func (s *Service) extractContent(ctx context.Context, storageKey, originalName, mimeType string) (string, error) {
	body, err := s.Store.Open(ctx, storageKey)
	if err != nil {
		return "", fmt.Errorf("open stored file: %w", err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read stored file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	switch ext {
	case ".txt", ".md", ".json", ".csv":
		return string(raw), nil
	case ".pdf":
		content, err := extractPDF(raw)
		if err != nil {
			// The failure is in the uploaded bytes, not on our side.
			return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return content, nil
	}
	if strings.HasPrefix(mimeType, "text/") || mimeType == "application/json" {
		return string(raw), nil
	}
	return fmt.Sprintf("[File content - type: %s]", mimeType), nil
}

func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	return buf.String(), nil
}

// List returns all context documents, newest first.
func (s *Service) List(ctx context.Context) ([]ContextDocument, error) {
	return s.Repo.List(ctx)
}

// Delete removes a context document and its backing file.
func (s *Service) Delete(ctx context.Context, id string) error {
	doc, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, doc.StorageKey); err != nil {
		telemetry.Warn("contextdocs.delete_file_failed", map[string]any{
			"id":    id,
			"error": err.Error(),
		})
	}
	return s.Repo.Delete(ctx, id)
}

// ContextBlock renders the most recently uploaded reference documents into a
// prompt enrichment block. The hint is currently unused; retrieval is purely
// by recency. Storage failures degrade to an empty block so context
// enrichment never stalls the pipeline.
func (s *Service) ContextBlock(ctx context.Context, hint string, limit int) string {
	_ = hint
	if limit <= 0 {
		limit = DefaultContextLimit
	}

	docs, err := s.Repo.ListRecent(ctx, limit)
	if err != nil {
		telemetry.Warn("contextdocs.retrieval_degraded", map[string]any{"error": err.Error()})
		return ""
	}
	if len(docs) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\n## Reference Context:\n")
	for i, doc := range docs {
		fmt.Fprintf(&b, "\n### Reference Document %d: %s\n", i+1, doc.OriginalName)
		if doc.Description != "" {
			fmt.Fprintf(&b, "Description: %s\n", doc.Description)
		}
		if doc.Category != "" {
			fmt.Fprintf(&b, "Category: %s\n", doc.Category)
		}
		fmt.Fprintf(&b, "Content:\n%s\n", doc.Content)
	}
	return b.String()
}
