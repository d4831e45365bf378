// Package threadbridge implements the blocking "hop to the main thread and
// return a result" mechanism. It is the only coupling point between an I/O
// worker (a goroutine handling one connection) and the scheduler that owns
// the DAW's main thread.
package threadbridge

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ableton-mcp/remote-bridge/internal/scheduler"
)

// ErrTimeout is returned when a submission does not complete within budget.
// The scheduled closure may still run later; its result is dropped. This is
// intentional, not a bug: the DAW-side mutation may have already committed
// even though the caller saw a timeout.
var ErrTimeout = errors.New("timeout waiting for operation to complete")

// ErrShuttingDown is delivered to any pending rendezvous when Shutdown is
// called, so blocked I/O workers can exit promptly.
var ErrShuttingDown = errors.New("bridge is shutting down")

// Bridge gives I/O workers a blocking RunOnMain call.
type Bridge struct {
	scheduler      scheduler.Scheduler
	defaultTimeout time.Duration
	log            *slog.Logger

	shutdown chan struct{}
}

// New creates a Bridge over the given Scheduler with the given default
// round-trip timeout.
func New(sched scheduler.Scheduler, defaultTimeout time.Duration, log *slog.Logger) *Bridge {
	if log == nil {
		log = slog.Default()
	}
	return &Bridge{
		scheduler:      sched,
		defaultTimeout: defaultTimeout,
		log:            log.With("component", "threadbridge"),
		shutdown:       make(chan struct{}),
	}
}

// result carries either a value or an error out of a scheduled closure.
type result struct {
	value any
	err   error
}

// RunOnMain runs fn on the main thread and returns its result, or ErrTimeout
// if it does not complete within the bridge's default timeout. If the
// calling goroutine is already the main thread (scheduler.IsOnMainThread),
// fn runs inline.
func (b *Bridge) RunOnMain(ctx context.Context, fn func() (any, error)) (any, error) {
	return b.RunOnMainTimeout(ctx, fn, b.defaultTimeout)
}

// RunOnMainTimeout is RunOnMain with an explicit timeout override.
func (b *Bridge) RunOnMainTimeout(ctx context.Context, fn func() (any, error), timeout time.Duration) (any, error) {
	if b.scheduler.IsOnMainThread() {
		v, err := fn()
		return v, err
	}

	// Single-shot rendezvous: one producer (the scheduled wrapper), one
	// consumer (this call). Buffered so the producer never blocks even if
	// the consumer has already timed out and walked away.
	done := make(chan result, 1)

	wrapper := func() {
		v, err := safeCall(fn)
		// Never blocks: the channel is buffered and has exactly one writer.
		done <- result{value: v, err: err}
	}

	if err := b.scheduler.Schedule(wrapper); err != nil {
		b.log.Error("failed to schedule main-thread work", "error", err)
		return nil, ErrTimeout
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case r := <-done:
		return r.value, r.err
	case <-timer.C:
		b.log.Warn("main-thread operation timed out", "timeout", timeout)
		return nil, ErrTimeout
	case <-b.shutdown:
		return nil, ErrShuttingDown
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// safeCall recovers from panics inside fn so a single bad handler can never
// take down the main-thread scheduler goroutine.
func safeCall(fn func() (any, error)) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errPanic(r)
		}
	}()
	return fn()
}

func errPanic(r any) error {
	return &panicError{recovered: r}
}

type panicError struct {
	recovered any
}

func (e *panicError) Error() string {
	return "handler panicked: " + toString(e.recovered)
}

func toString(v any) string {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	if s, ok := v.(string); ok {
		return s
	}
	return "unknown panic value"
}

// Shutdown wakes every pending RunOnMain call with ErrShuttingDown. It is
// idempotent; calling it more than once is a no-op after the first call.
func (b *Bridge) Shutdown() {
	select {
	case <-b.shutdown:
		// already closed
	default:
		close(b.shutdown)
	}
}

// DefaultTimeout returns the bridge's configured T_default.
func (b *Bridge) DefaultTimeout() time.Duration {
	return b.defaultTimeout
}
