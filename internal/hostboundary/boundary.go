// Package hostboundary owns the bridge's lifecycle inside the DAW's
// process: a thin object the host instantiates, which sets up logging,
// starts the Server on init, and tears it down on disconnect. The
// context-cancellation plus os/signal shutdown shape is lifted into an
// explicit lifecycle object instead of inline main() statements, since a
// real control surface calls on_init/on_disconnect from the host rather
// than running main() itself.
package hostboundary

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ableton-mcp/remote-bridge/internal/daw"
	"github.com/ableton-mcp/remote-bridge/internal/server"
)

// HostContext is whatever the DAW hands the control surface on init. The
// in-process standalone build has nothing meaningful to put here yet; it
// exists so Boundary's signature matches what a real host integration would
// call.
type HostContext struct{}

// Boundary is the bridge's host-facing lifecycle object. It owns the
// Server and exposes the log/show sinks every other component may use.
type Boundary struct {
	song *daw.Song
	srv  *server.Server
	log  *slog.Logger

	cancel context.CancelFunc

	initOnce       sync.Once
	disconnectOnce sync.Once

	mu      sync.Mutex
	lastErr error
	started bool
}

// New creates a Boundary around an already-constructed Server and Song. The
// Server is not started until OnInit runs.
func New(song *daw.Song, srv *server.Server, log *slog.Logger) *Boundary {
	if log == nil {
		log = slog.Default()
	}
	return &Boundary{song: song, srv: srv, log: log.With("component", "hostboundary")}
}

// OnInit starts the Server in the background. Failures are logged and
// surfaced to Show rather than raised into the host. OnInit returns once
// the Server's goroutine has been launched, before the listener is bound,
// so a bind failure normally arrives after it has returned: the returned
// error is then nil, and the failure shows up in the log, through Show and
// in Started.
func (b *Boundary) OnInit(ctx context.Context, _ HostContext) error {
	var startErr error
	b.initOnce.Do(func() {
		runCtx, cancel := context.WithCancel(ctx)
		b.cancel = cancel

		ready := make(chan error, 1)
		go func() {
			ready <- nil
			if err := b.srv.Start(runCtx); err != nil {
				b.mu.Lock()
				b.lastErr = err
				b.mu.Unlock()
				b.Show(fmt.Sprintf("AbletonMCP bridge failed to start: %v", err))
				b.Log("server start failed", "error", err)
			}
		}()
		<-ready

		b.mu.Lock()
		b.started = true
		b.mu.Unlock()
		b.Show("AbletonMCP Ready")
		b.Log("bridge initialized")
	})

	b.mu.Lock()
	startErr = b.lastErr
	b.mu.Unlock()
	return startErr
}

// OnDisconnect stops the Server and releases the Boundary's references. It
// is idempotent: repeated calls after the first are no-ops.
func (b *Boundary) OnDisconnect() error {
	b.disconnectOnce.Do(func() {
		b.Log("bridge disconnecting")
		if b.cancel != nil {
			b.cancel()
		}
		b.srv.Shutdown()
		b.Show("AbletonMCP stopped")
	})
	return nil
}

// Log is the cheap, any-thread logging sink.
func (b *Boundary) Log(msg string, args ...any) {
	b.log.Info(msg, args...)
}

// Show sets the DAW's status line. It is documented as main-thread-only and
// best-effort in a real host; the standalone build has no UI to update, so
// this logs at Info under the message "status" so operators can tell
// status-line updates apart from ordinary log lines.
func (b *Boundary) Show(msg string) {
	b.log.Info("status", "message", msg)
}

// Started reports whether OnInit successfully brought the Server up.
func (b *Boundary) Started() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.started && b.lastErr == nil
}
