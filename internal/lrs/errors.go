package lrs

import (
	"errors"
	"fmt"
)

// Error represents a caller-facing failure detected by the query engine or
// transformation pipeline. These are caller-input or data-integrity errors,
// not transient faults: they are raised at the point of detection and
// surfaced unchanged, with no internal retry. Transient store errors are
// not translated; they propagate wrapped as internal errors.
type Error struct {
	// Kind identifies the error category.
	Kind Kind

	// Message is a human-readable description.
	Message string

	// StatementID identifies the affected statement, when known.
	StatementID string
}

// Kind categorizes caller-facing errors.
type Kind string

const (
	// KindBadRequest indicates malformed caller input: an invalid or
	// missing identifier, an unsupported agent query, an unknown filter
	// name, or a mismatched targeted-update id.
	KindBadRequest Kind = "BAD_REQUEST"

	// KindConflict indicates a data-integrity rejection: a resubmission
	// that differs under the immutability rule, or an attempt to void a
	// voiding statement.
	KindConflict Kind = "CONFLICT"

	// KindNotFound indicates a targeted lookup or reference-chain fetch
	// that matched nothing.
	KindNotFound Kind = "NOT_FOUND"

	// KindInternal indicates an unsupported operation or a store fault.
	KindInternal Kind = "INTERNAL"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatementID != "" {
		return fmt.Sprintf("%s: %s (statement=%s)", e.Kind, e.Message, e.StatementID)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// IsBadRequest reports whether err is a bad-request error.
// Uses errors.As to handle wrapped errors.
func IsBadRequest(err error) bool { return hasKind(err, KindBadRequest) }

// IsConflict reports whether err is a conflict error.
func IsConflict(err error) bool { return hasKind(err, KindConflict) }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return hasKind(err, KindNotFound) }

// IsInternal reports whether err is an internal error.
func IsInternal(err error) bool { return hasKind(err, KindInternal) }

func hasKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

func badRequestf(format string, args ...any) *Error {
	return &Error{Kind: KindBadRequest, Message: fmt.Sprintf(format, args...)}
}

func conflictf(statementID, format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...), StatementID: statementID}
}

func notFoundf(statementID, format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...), StatementID: statementID}
}

func internalf(format string, args ...any) *Error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf(format, args...)}
}
