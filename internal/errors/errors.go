// Package errors provides structured error types for chatlog.
// These errors carry the operation that failed and a Kind that callers use
// to decide whether a failure is surfaced or only logged.
package errors

import (
	"errors"
	"fmt"
)

// Op describes an operation, usually as "package.function".
type Op string

// Kind categorizes the type of error.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalid
	KindIO
	KindNetwork
	KindServer
	KindDecode
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindInvalid:
		return "invalid"
	case KindIO:
		return "I/O error"
	case KindNetwork:
		return "network error"
	case KindServer:
		return "server error"
	case KindDecode:
		return "decode error"
	case KindConfig:
		return "configuration error"
	default:
		return "unknown error"
	}
}

// Error is the structured error type for chatlog.
type Error struct {
	Op      Op     // Operation that failed
	Kind    Kind   // Category of error
	Err     error  // Underlying error
	Context string // Additional context
	Status  int    // HTTP status for KindServer, zero otherwise
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Context, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// E creates a new Error. Arguments can be:
// - Op: the operation name
// - Kind: the error kind
// - string: context message
// - error: the underlying error
func E(args ...any) error {
	e := &Error{}
	for _, arg := range args {
		switch a := arg.(type) {
		case Op:
			e.Op = a
		case Kind:
			e.Kind = a
		case string:
			e.Context = a
		case error:
			e.Err = a
		}
	}
	if e.Err == nil {
		e.Err = errors.New(e.Context)
		e.Context = ""
	}
	return e
}

// Is reports whether err is of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// GetKind returns the Kind of an error.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Detail returns the user-facing part of err: the server-supplied detail
// for server errors, the context or underlying message otherwise.
func Detail(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Kind == KindServer || e.Kind == KindInvalid {
		return e.Err.Error()
	}
	if e.Context != "" {
		return e.Context
	}
	return e.Err.Error()
}

// Transport errors

// TransportFailed wraps a request that never produced an HTTP response.
func TransportFailed(op Op, err error) error {
	return E(op, KindNetwork, "request failed", err)
}

// ServerFailed reports a non-success HTTP status. detail is the
// server-provided explanation, or the raw body when none was structured.
func ServerFailed(op Op, status int, detail string) error {
	if detail == "" {
		detail = fmt.Sprintf("HTTP %d", status)
	}
	return &Error{Op: op, Kind: KindServer, Err: errors.New(detail), Status: status}
}

// DecodeFailed wraps a response body that could not be parsed.
func DecodeFailed(op Op, err error) error {
	return E(op, KindDecode, "invalid response body", err)
}

// Archive errors

// ArchiveRejected reports a file that failed client-side validation.
func ArchiveRejected(name, reason string) error {
	return E(Op("upload.Validate"), KindInvalid, fmt.Sprintf("%s: %s", name, reason))
}

// ConversationNotFound reports an id missing from the catalog.
func ConversationNotFound(id string) error {
	return E(Op("catalog.Get"), KindNotFound, fmt.Sprintf("conversation %s not found", id))
}

// Config errors

func ConfigLoadFailed(path string, err error) error {
	return E(Op("config.Load"), KindConfig, fmt.Sprintf("failed to load config from %s", path), err)
}

func ConfigSaveFailed(path string, err error) error {
	return E(Op("config.Save"), KindConfig, fmt.Sprintf("failed to save config to %s", path), err)
}

func ConfigInvalid(reason string) error {
	return E(Op("config.Validate"), KindInvalid, reason)
}
