// Package apperr defines the typed failures shared by the inventory core,
// the storage backends, and the RPC layer.
//
// Callers branch on the Kind of an error, never on its message:
//
//	if apperr.KindOf(err) == apperr.KindConflict {
//		// reload and retry the whole operation
//	}
//
// Errors keep working with errors.Is against the package sentinels, even
// after being wrapped with fmt.Errorf("...: %w", err).
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	// KindUnknown is reported for errors that did not originate here
	// (driver failures, I/O errors, ...).
	KindUnknown Kind = iota
	// KindNotFound means a referenced item, batch, household or group is missing.
	KindNotFound
	// KindInvalidQuantity means a quantity is non-positive or exceeds what is available.
	KindInvalidQuantity
	// KindAlreadyInRequestedState means a shared-status change would be a no-op.
	KindAlreadyInRequestedState
	// KindUnauthorized means the caller's household may not see or mutate the batch.
	KindUnauthorized
	// KindConflict means the store's version check rejected a concurrent modification.
	KindConflict
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidQuantity:
		return "invalid_quantity"
	case KindAlreadyInRequestedState:
		return "already_in_requested_state"
	case KindUnauthorized:
		return "unauthorized"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Error is a failure with a Kind.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Message
}

// Is reports whether target is an *Error of the same kind. This lets
// errors.Is(err, apperr.ErrNotFound) match any not-found failure regardless
// of its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons.
var (
	ErrNotFound                = &Error{Kind: KindNotFound}
	ErrInvalidQuantity         = &Error{Kind: KindInvalidQuantity}
	ErrAlreadyInRequestedState = &Error{Kind: KindAlreadyInRequestedState}
	ErrUnauthorized            = &Error{Kind: KindUnauthorized}
	ErrConflict                = &Error{Kind: KindConflict}
)

// New returns an *Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NotFound returns a KindNotFound error.
func NotFound(format string, args ...any) error {
	return New(KindNotFound, format, args...)
}

// InvalidQuantity returns a KindInvalidQuantity error.
func InvalidQuantity(format string, args ...any) error {
	return New(KindInvalidQuantity, format, args...)
}

// AlreadyInRequestedState returns a KindAlreadyInRequestedState error.
func AlreadyInRequestedState(format string, args ...any) error {
	return New(KindAlreadyInRequestedState, format, args...)
}

// Unauthorized returns a KindUnauthorized error.
func Unauthorized(format string, args ...any) error {
	return New(KindUnauthorized, format, args...)
}

// Conflict returns a KindConflict error.
func Conflict(format string, args ...any) error {
	return New(KindConflict, format, args...)
}

// KindOf returns the Kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
