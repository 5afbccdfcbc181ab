package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"notescan-backend/internal/notesets"
	"notescan-backend/internal/shared/telemetry"
)

// BatchResult reports the outcome of a batch ingestion. NoteSet is nil when
// every file failed; the batch itself never fails atomically.
type BatchResult struct {
	NoteSet        *notesets.NoteSet
	ProcessedCount int
	ErrorCount     int
	Errors         []FileError
}

// Orchestrator runs the per-file pipeline over an ordered batch and
// assembles the successful subset into a note set.
type Orchestrator struct {
	Pipeline *Pipeline
	Sets     *notesets.Service
}

// ProcessBatch ingests the files strictly in input order, one at a time, so
// a single image buffer is in flight against the rate-limited external
// services. Each failure is isolated: the stored file is deleted, the error
// recorded, and processing continues. Membership order is the file's
// position in the original request, so surviving orders stay sparse when
// earlier files fail; the collection manager's remove operation is the place
// that re-packs orders densely.
func (o *Orchestrator) ProcessBatch(ctx context.Context, files []UploadedFile, name string) (BatchResult, error) {
	if name == "" {
		name = DefaultSetName(time.Now())
	}

	result := BatchResult{Errors: []FileError{}}
	members := make([]notesets.Membership, 0, len(files))

	for _, file := range files {
		doc, err := o.Pipeline.ProcessFile(ctx, file)
		if err != nil {
			result.ErrorCount++
			result.Errors = append(result.Errors, FileError{
				Filename: file.OriginalName,
				Reason:   reasonOf(err),
			})
			if delErr := o.Pipeline.Store.Delete(ctx, file.StorageKey); delErr != nil {
				telemetry.Warn("ingest.cleanup_file_failed", map[string]any{
					"storage_key": file.StorageKey,
					"error":       delErr.Error(),
				})
			}
			continue
		}

		result.ProcessedCount++
		members = append(members, notesets.Membership{
			DocumentID: doc.ID,
			Order:      file.Index,
		})
	}

	if len(members) == 0 {
		return result, nil
	}

	ns, err := o.Sets.CreateFromBatch(ctx, name, members)
	if err != nil {
		return result, fmt.Errorf("persist note set: %w", err)
	}
	result.NoteSet = &ns

	telemetry.Info("ingest.batch_complete", map[string]any{
		"note_set_id": ns.ID,
		"processed":   result.ProcessedCount,
		"failed":      result.ErrorCount,
	})
	return result, nil
}

// DefaultSetName generates the date-stamped name used when the caller
// supplies none.
func DefaultSetName(t time.Time) string {
	return "Notes " + t.Format("2006-01-02 15:04")
}

func reasonOf(err error) string {
	var ingestErr *Error
	if errors.As(err, &ingestErr) {
		return ingestErr.Err.Error()
	}
	return err.Error()
}
