package workflow

import (
	"errors"
	"fmt"
)

// Workflow failure kinds. Every engagement operation fails with exactly one of
// these so handlers can map the kind to an HTTP status and the UI can explain
// why the operation was refused.
var (
	ErrNotFound               = errors.New("not found")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrInvalidState           = errors.New("invalid state")
	ErrInvalidInput           = errors.New("invalid input")
	ErrDuplicateProposal      = errors.New("duplicate proposal")
	ErrAlreadySigned          = errors.New("already signed")
	ErrConflictLost           = errors.New("conflict lost")
	ErrTransportNotActive     = errors.New("transport not active")
	ErrMissingPaymentEvidence = errors.New("missing payment evidence")
	ErrRatingNotAllowed       = errors.New("rating not allowed")
)

// Errorf attaches a human-readable detail to a failure kind. The result
// satisfies errors.Is(err, kind).
func Errorf(kind error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}
