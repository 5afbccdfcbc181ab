package contextdocs

import "errors"

var (
	ErrNotFound     = errors.New("context document not found")
	ErrInvalidInput = errors.New("invalid input")
)
