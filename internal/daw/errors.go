// Package daw is the Live-Object Façade: a narrow, stable
// vocabulary over the DAW's object graph. Every handler goes through this
// package; nothing else touches the object graph directly.
package daw

import "errors"

// Sentinel errors forming the façade's error taxonomy. Handlers wrap these
// with fmt.Errorf("...: %w", Err...) to add context; the Dispatcher matches
// on the sentinel with errors.Is to decide wire-level behavior.
var (
	// ErrOutOfRange: an index accessor was given a negative index or one past
	// the current count.
	ErrOutOfRange = errors.New("out of range")
	// ErrNotFound: a browser item/URI or named device could not be resolved.
	ErrNotFound = errors.New("not found")
	// ErrBadValue: a parameter value could not be normalized, or failed
	// bounds checking after normalization.
	ErrBadValue = errors.New("bad value")
	// ErrConflict: the target slot/resource is already occupied and the
	// caller did not opt into overwrite.
	ErrConflict = errors.New("conflict")
	// ErrUnsupported: the operation isn't exposed by the host API. Handlers
	// that hit this prefer returning a structured result with a warning over
	// failing outright, when partial success is meaningful.
	ErrUnsupported = errors.New("unsupported")
)
