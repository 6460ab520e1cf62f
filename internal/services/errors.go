package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies service failures so handlers can map them to responses.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindInvalidInput covers malformed, missing or out-of-range fields and ids.
	KindInvalidInput
	// KindInvalidDate is an unparsable publishedDate.
	KindInvalidDate
	KindNotFound
	// KindConflict is a store-level uniqueness violation.
	KindConflict
	KindCacheUnavailable
	KindStoreUnavailable
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindInvalidDate:
		return "invalid_date"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindCacheUnavailable:
		return "cache_unavailable"
	case KindStoreUnavailable:
		return "store_unavailable"
	default:
		return "unknown"
	}
}

// Error is the error type returned by BookService.
// Message is safe to show to clients; Err holds the underlying cause.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) ErrorKind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindUnknown
}

// ErrNoBooksFound is returned by List when the requested page is empty.
var ErrNoBooksFound = errors.New("no books found")
