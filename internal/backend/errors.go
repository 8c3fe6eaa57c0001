package backend

import (
	"errors"
	"fmt"
)

// ErrRejected marks a response the backend answered but refused
// (non-2xx, or an envelope with status=false).
var ErrRejected = errors.New("backend rejected request")

// Error describes a failed resource operation.
type Error struct {
	Op         string
	Resource   string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("backend %s %s (HTTP %d): %v", e.Resource, e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("backend %s %s: %v", e.Resource, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
