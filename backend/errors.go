package backend

import (
	"errors"
	"fmt"
)

// ErrNoCredential signals that no bearer credential is available at all.
// Callers must abort the dependent operation; there is no fallback token.
var ErrNoCredential = errors.New("backend: missing session credential")

// ErrNotFound signals that the backend has no record for the given key.
var ErrNotFound = errors.New("backend: record not found")

// ErrConflict signals a duplicate or stale write (status already applied,
// rating already submitted). Callers treat it as success.
var ErrConflict = errors.New("backend: conflicting or stale write")

// TransientError wraps transport failures and 5xx responses. The poller
// retries these implicitly on its next cycle; they are never shown to the user.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("backend: %s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// IsTransient reports whether err is a transport-level or 5xx failure.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// StatusError carries a non-2xx HTTP response code.
type StatusError struct {
	Op   string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend: %s: unexpected status %d", e.Op, e.Code)
}

// StatusCode extracts the HTTP status code from err, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	var te *TransientError
	if errors.As(err, &te) {
		return StatusCode(te.Err)
	}
	return 0
}
