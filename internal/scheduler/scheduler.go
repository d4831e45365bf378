// Package scheduler translates "run this later on the main thread" into a
// host scheduling primitive. A real control-surface host exposes a "run
// this closure after N ticks" hook; TickerScheduler stands in for that
// hook with a single dedicated goroutine that plays the role of the DAW's
// main thread.
package scheduler

import (
	"bytes"
	"errors"
	"log/slog"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"
)

// ErrSchedulingFailed is returned by Schedule when the adapter cannot accept
// more work, e.g. because it is shutting down or its queue is saturated.
var ErrSchedulingFailed = errors.New("scheduler: could not schedule callback")

// Scheduler is the main-thread scheduling primitive handlers never call
// directly — only the Thread Bridge uses it.
type Scheduler interface {
	// Schedule enqueues fn for execution on the main thread at the next
	// available tick. Callbacks submitted by the same caller run in
	// submission order (the queue is FIFO and has a single consumer).
	Schedule(fn func()) error
	// IsOnMainThread reports whether the calling code is already running
	// inside a closure dispatched by this scheduler.
	IsOnMainThread() bool
}

// queueCapacity bounds how many pending closures may be in flight before
// Schedule fails fast; mutating requests are serialized per connection, so
// this is generous headroom for many concurrent connections.
const queueCapacity = 256

// TickerScheduler is the default Scheduler: one dedicated goroutine drains a
// FIFO queue of closures, falling back to a periodic tick so the loop never
// busy-spins.
type TickerScheduler struct {
	tick   time.Duration
	queue  chan func()
	closed atomic.Bool
	// mainGoroutine holds the goroutine ID of the goroutine currently
	// executing Run, so IsOnMainThread answers for the calling goroutine
	// specifically rather than "is some closure running somewhere" — a
	// process-wide busy flag would say true for every goroutine while the
	// scheduler is busy with someone else's closure.
	mainGoroutine atomic.Uint64

	log *slog.Logger
}

// NewTickerScheduler creates a TickerScheduler with the given fallback tick
// interval. A tick of zero uses a 1ms default — this loop must feel
// effectively immediate to callers blocked in the Thread Bridge, so the
// tick only matters as a backstop between queue sends.
func NewTickerScheduler(tick time.Duration, log *slog.Logger) *TickerScheduler {
	if tick <= 0 {
		tick = time.Millisecond
	}
	if log == nil {
		log = slog.Default()
	}
	return &TickerScheduler{
		tick:  tick,
		queue: make(chan func(), queueCapacity),
		log:   log.With("component", "scheduler"),
	}
}

// Run blocks, draining the queue, until stop is closed. It must be invoked
// from the goroutine that should be treated as "the main thread" — typically
// a dedicated goroutine started once from main().
func (s *TickerScheduler) Run(stop <-chan struct{}) {
	s.mainGoroutine.Store(currentGoroutineID())
	s.log.Info("main-thread scheduler started", "tick", s.tick)
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			s.log.Info("main-thread scheduler stopping")
			s.drain()
			return
		case fn := <-s.queue:
			s.runSafely(fn)
		case <-ticker.C:
			s.drain()
		}
	}
}

// drain runs every closure currently queued without blocking for new ones.
func (s *TickerScheduler) drain() {
	for {
		select {
		case fn := <-s.queue:
			s.runSafely(fn)
		default:
			return
		}
	}
}

func (s *TickerScheduler) runSafely(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("panic in scheduled closure", "recovered", r)
		}
	}()
	fn()
}

// Schedule implements Scheduler.
func (s *TickerScheduler) Schedule(fn func()) error {
	if s.closed.Load() {
		return ErrSchedulingFailed
	}
	select {
	case s.queue <- fn:
		return nil
	default:
		return ErrSchedulingFailed
	}
}

// IsOnMainThread implements Scheduler: true only for the goroutine running
// Run itself, regardless of whether that goroutine happens to be busy with
// someone else's closure right now.
func (s *TickerScheduler) IsOnMainThread() bool {
	return currentGoroutineID() == s.mainGoroutine.Load()
}

// currentGoroutineID extracts the calling goroutine's runtime ID from its
// own stack trace header ("goroutine 123 [running]:"). There is no public
// API for this; it is only ever compared for equality against another ID
// taken the same way, never displayed or persisted.
func currentGoroutineID() uint64 {
	buf := make([]byte, 64)
	buf = buf[:runtime.Stack(buf, false)]
	buf = bytes.TrimPrefix(buf, []byte("goroutine "))
	if i := bytes.IndexByte(buf, ' '); i >= 0 {
		buf = buf[:i]
	}
	id, _ := strconv.ParseUint(string(buf), 10, 64)
	return id
}

// Stop marks the scheduler closed so further Schedule calls fail fast. The
// caller is still responsible for closing the channel passed to Run.
func (s *TickerScheduler) Stop() {
	s.closed.Store(true)
}
