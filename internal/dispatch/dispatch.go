// Package dispatch implements the Command Dispatcher: it
// turns one parsed request into one response envelope, routing mutating
// handlers through the Thread Bridge and invoking read-only handlers
// directly.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/ableton-mcp/remote-bridge/internal/daw"
	"github.com/ableton-mcp/remote-bridge/internal/handlers"
	"github.com/ableton-mcp/remote-bridge/internal/threadbridge"
	"github.com/tidwall/gjson"
)

// Request is the decoded wire request.
type Request struct {
	Type   string
	Params gjson.Result
}

// Response is the decoded wire response.
type Response struct {
	Status  string `json:"status"`
	Result  any    `json:"result,omitempty"`
	Message string `json:"message,omitempty"`
}

// Dispatcher resolves a request's handler and runs it, shaping any error
// into the wire-level taxonomy.
type Dispatcher struct {
	registry *handlers.Registry
	song     *daw.Song
	bridge   *threadbridge.Bridge
	log      *slog.Logger
}

// New creates a Dispatcher over the given registry, façade, and bridge.
func New(registry *handlers.Registry, song *daw.Song, bridge *threadbridge.Bridge, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{registry: registry, song: song, bridge: bridge, log: log.With("component", "dispatch")}
}

// Dispatch runs req and returns exactly one Response.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) Response {
	entry, ok := d.registry.Lookup(req.Type)
	if !ok {
		return Response{Status: "error", Message: fmt.Sprintf("Unknown command: %s", req.Type)}
	}

	var result any
	var err error

	if !entry.MainThread {
		result, err = d.safeInvoke(entry, ctx, req.Params)
	} else {
		result, err = d.bridge.RunOnMain(ctx, func() (any, error) {
			return d.safeInvoke(entry, ctx, req.Params)
		})
	}

	if err != nil {
		return errorResponse(req.Type, err)
	}
	return Response{Status: "success", Result: result}
}

// safeInvoke recovers from a handler panic so one bad handler never takes
// the worker (or, for main-thread handlers, the scheduler goroutine) down
// with it.
func (d *Dispatcher) safeInvoke(entry handlers.Entry, ctx context.Context, params gjson.Result) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("handler panicked", "panic", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("internal error")
		}
	}()
	return entry.Fn(ctx, d.song, params)
}

// errorResponse classifies err against the daw/threadbridge sentinel
// taxonomy and produces the wire-level message. The full error
// is always logged; only a short message reaches the wire.
func errorResponse(cmdType string, err error) Response {
	switch {
	case errors.Is(err, threadbridge.ErrTimeout):
		slog.Error("handler timed out", "type", cmdType, "error", err)
		return Response{Status: "error", Message: "Timeout waiting for operation to complete"}
	case errors.Is(err, threadbridge.ErrShuttingDown):
		slog.Warn("handler aborted by shutdown", "type", cmdType, "error", err)
		return Response{Status: "error", Message: "Server is shutting down"}
	case errors.Is(err, daw.ErrOutOfRange),
		errors.Is(err, daw.ErrNotFound),
		errors.Is(err, daw.ErrBadValue),
		errors.Is(err, daw.ErrConflict),
		errors.Is(err, daw.ErrUnsupported):
		slog.Error("handler failed", "type", cmdType, "error", err)
		return Response{Status: "error", Message: err.Error()}
	default:
		slog.Error("handler failed", "type", cmdType, "error", err)
		return Response{Status: "error", Message: err.Error()}
	}
}
