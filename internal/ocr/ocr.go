package ocr

import (
	"context"
	"errors"
)

// Result holds the text recognized from one image.
type Result struct {
	Text       string
	Confidence float64 // 0-100
}

// Client abstracts text-recognition providers.
type Client interface {
	Recognize(ctx context.Context, image []byte) (Result, error)
}

// Unconfigured is a Client for deployments without recognition credentials.
// Every call fails with ErrNotConfigured.
type Unconfigured struct{}

func (Unconfigured) Recognize(ctx context.Context, image []byte) (Result, error) {
	return Result{}, ErrNotConfigured
}

var (
	// ErrNotConfigured means the recognition service credentials are absent.
	ErrNotConfigured = errors.New("recognition service not configured")
	// ErrFailed means the remote service reported a processing error.
	ErrFailed = errors.New("recognition processing failed")
	// ErrTimedOut means the poll budget was spent without a terminal result.
	ErrTimedOut = errors.New("recognition processing timed out")
)
