// Package errs defines the canonical error taxonomy used across the
// conversion pipeline: a closed set of kinds, consistent context
// attachment, and wrapping that composes with errors.Is/errors.As.
package errs

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind categorizes an error for routing, exit-code selection, and retry logic.
type Kind string

const (
	KindIO         Kind = "IO_ERROR"
	KindParse      Kind = "PARSE_ERROR"
	KindValidation Kind = "VALIDATION_ERROR"
	KindAsset      Kind = "ASSET_ERROR"
	KindPlugin     Kind = "PLUGIN_ERROR"
	KindInvalid    Kind = "INVALID_INPUT"
	KindCancelled  Kind = "CANCELLED"
)

// AssetErrorKind refines KindAsset errors per spec §7.
type AssetErrorKind string

const (
	AssetNotFound           AssetErrorKind = "NOT_FOUND"
	AssetNetworkError       AssetErrorKind = "NETWORK_ERROR"
	AssetCacheWriteFailed   AssetErrorKind = "CACHE_WRITE_FAILED"
	AssetTooLarge           AssetErrorKind = "TOO_LARGE"
	AssetDisallowedExt      AssetErrorKind = "DISALLOWED_EXTENSION"
	AssetDisallowedDomain   AssetErrorKind = "DISALLOWED_DOMAIN"
)

// exitCode maps a Kind to the process exit code cmd/ttrpgconv should use.
// Kept here (rather than in cmd) because it is a pure function of Kind.
var exitCode = map[Kind]int{
	KindIO:         10,
	KindParse:      11,
	KindValidation: 12,
	KindAsset:      13,
	KindPlugin:     14,
	KindInvalid:    15,
	KindCancelled:  130, // conventional SIGINT-style code for interrupted
}

// Error is the canonical error type across the conversion pipeline.
type Error struct {
	ID        string
	Timestamp time.Time
	Kind      Kind
	Op        string
	Message   string
	Context   map[string]any
	Err       error
}

// New creates an Error with no wrapped cause.
func New(kind Kind, op string, message string) *Error {
	return &Error{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Kind:      kind,
		Op:        op,
		Message:   message,
		Context:   map[string]any{},
	}
}

// Wrap creates an Error that carries an underlying cause.
func Wrap(kind Kind, op string, message string, cause error) *Error {
	e := New(kind, op, message)
	e.Err = cause
	return e
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s: %v", e.Kind, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Op, e.Message)
}

// Unwrap exposes the wrapped cause to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.Err }

// WithContext attaches a key/value pair of diagnostic context and returns e
// for chaining.
func (e *Error) WithContext(key string, value any) *Error {
	e.Context[key] = value
	return e
}

// ExitCode returns the process exit code associated with e's Kind.
func (e *Error) ExitCode() int {
	if code, ok := exitCode[e.Kind]; ok {
		return code
	}
	return 1
}

// Retryable reports whether the pipeline may reasonably retry the operation
// that produced this error. Only asset network errors are retryable at this
// layer; retry policy for those lives in internal/asset.
func (e *Error) Retryable() bool {
	return e.Kind == KindAsset && e.Context["asset_error_kind"] == string(AssetNetworkError)
}

// convenience constructors, mirroring the teacher's ValidationFailed/
// Transient/Terminal helpers but against the spec's seven kinds.

func IOFailed(op, message string, cause error) *Error {
	return Wrap(KindIO, op, message, cause)
}

func ParseFailed(op, message string, cause error) *Error {
	return Wrap(KindParse, op, message, cause)
}

func ValidationFailed(op, message string) *Error {
	return New(KindValidation, op, message)
}

func AssetFailed(op string, kind AssetErrorKind, sourceRef string, cause error) *Error {
	e := Wrap(KindAsset, op, string(kind), cause)
	e.WithContext("source_ref", sourceRef)
	e.WithContext("asset_error_kind", string(kind))
	return e
}

func PluginFailed(op, pluginName, message string, cause error) *Error {
	e := Wrap(KindPlugin, op, message, cause)
	if pluginName != "" {
		e.WithContext("plugin_name", pluginName)
	}
	return e
}

func InvalidInput(op, field, message string) *Error {
	e := New(KindInvalid, op, message)
	if field != "" {
		e.WithContext("field", field)
	}
	return e
}

func Cancelled(op string) *Error {
	return New(KindCancelled, op, "operation cancelled")
}

// IsCancelled reports whether err is (or wraps) a cancellation Error.
func IsCancelled(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == KindCancelled
	}
	return false
}
