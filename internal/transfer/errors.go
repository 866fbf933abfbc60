// Package transfer implements the bulk-download and upload operations on
// top of a narrow storage capability interface. Failures are reported as
// a closed set of error kinds so callers can branch programmatically
// instead of parsing log text.
package transfer

import (
	"errors"
	"fmt"

	"github.com/tonimelisma/box-go/internal/box"
)

// Kind is the closed enumeration of failure causes an operation can
// report. It deliberately stays coarse: callers need to pick a hint
// message and an exit path, not reconstruct the HTTP exchange.
type Kind int

const (
	KindUnknown Kind = iota
	KindConfigMissing
	KindAuthFailed
	KindNotFound
	KindForbidden
	KindTransferFailed
)

// String returns the stable textual name of the kind, used in logs.
func (k Kind) String() string {
	switch k {
	case KindConfigMissing:
		return "config_missing"
	case KindAuthFailed:
		return "auth_failed"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindTransferFailed:
		return "transfer_failed"
	case KindUnknown:
		return "unknown"
	default:
		return "unknown"
	}
}

// Error is the tagged error returned by operations in this package.
// Kind is the programmatic tag; Err preserves the underlying cause for
// logs and errors.Is checks.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("transfer: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// classify maps an underlying error to its Kind. Box sentinel errors
// carry the HTTP classification; everything else is unknown.
func classify(err error) Kind {
	switch {
	case errors.Is(err, box.ErrMissingCredentials):
		return KindConfigMissing
	case errors.Is(err, box.ErrUnauthorized):
		return KindAuthFailed
	case errors.Is(err, box.ErrForbidden):
		return KindForbidden
	case errors.Is(err, box.ErrNotFound):
		return KindNotFound
	default:
		return KindUnknown
	}
}

// wrap builds a tagged *Error, classifying err unless a kind is forced.
func wrap(op string, err error) *Error {
	return &Error{Kind: classify(err), Op: op, Err: err}
}

// KindOf extracts the Kind from an error returned by this package.
// Returns KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}

	return KindUnknown
}
