package notesets

import "errors"

var (
	ErrNotFound        = errors.New("note set not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrDuplicateMember = errors.New("document is already a member of this note set")
)
