package ingest

import "fmt"

// FileError reports why one file of a batch was not ingested.
type FileError struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// Error wraps a per-file pipeline failure with the file it belongs to.
type Error struct {
	Filename string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("ingest %s: %v", e.Filename, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
