// Package server implements the TCP Server & Connection Pool: a loopback
// listener that accepts connections, spawns one I/O worker goroutine per
// connection, and coordinates orderly shutdown with a bounded join. The
// worker registry is a mutex-guarded map keyed by a correlation id, in the
// shape of a broadcaster's client-subscription table; the accept loop
// shuts down when its context is cancelled, the way a typical Go server's
// Start method does.
package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/ableton-mcp/remote-bridge/internal/dispatch"
	"github.com/ableton-mcp/remote-bridge/internal/protocol"
	"github.com/google/uuid"
)

const (
	// acceptTimeout bounds how long Accept blocks before the loop re-checks
	// the running flag.
	acceptTimeout = 1 * time.Second
	// acceptErrorBackoff is the pause after a transient accept error.
	acceptErrorBackoff = 500 * time.Millisecond
	// workerJoinTimeout bounds the per-worker wait during shutdown.
	workerJoinTimeout = 1 * time.Second
)

// worker tracks one accepted connection's I/O goroutine.
type worker struct {
	conn net.Conn
	done chan struct{}
}

// Server owns the loopback listener and the registry of in-flight
// connection workers.
type Server struct {
	addr       string
	dispatcher *dispatch.Dispatcher
	log        *slog.Logger

	mu       sync.Mutex
	listener *net.TCPListener
	workers  map[string]*worker
	running  bool
}

// New creates a Server that will listen on addr (host:port) and dispatch
// every request it reads through dispatcher.
func New(addr string, dispatcher *dispatch.Dispatcher, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		addr:       addr,
		dispatcher: dispatcher,
		log:        log.With("component", "server"),
		workers:    make(map[string]*worker),
	}
}

// Start binds the listener and runs the accept loop until ctx is cancelled
// or a fatal listen error occurs. It blocks until the accept loop has fully
// stopped.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	tcpLn, ok := ln.(*net.TCPListener)
	if !ok {
		ln.Close()
		return errors.New("server: listener is not a TCP listener")
	}

	s.mu.Lock()
	s.listener = tcpLn
	s.running = true
	s.mu.Unlock()

	s.log.Info("accept loop starting", "addr", tcpLn.Addr().String())

	stopped := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			s.Shutdown()
		case <-stopped:
		}
	}()
	defer close(stopped)

	for {
		if !s.isRunning() {
			return nil
		}

		tcpLn.SetDeadline(time.Now().Add(acceptTimeout))
		conn, err := tcpLn.Accept()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				s.pruneWorkers()
				continue
			}
			if !s.isRunning() {
				// Shutdown closed the listener out from under us.
				return nil
			}
			s.log.Error("accept failed", "error", err)
			time.Sleep(acceptErrorBackoff)
			continue
		}

		s.spawnWorker(conn)
	}
}

func (s *Server) isRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// spawnWorker registers conn in the worker registry, under a fresh
// correlation ID used to tie together this connection's log lines, and
// starts its I/O goroutine.
func (s *Server) spawnWorker(conn net.Conn) {
	id := uuid.NewString()
	w := &worker{conn: conn, done: make(chan struct{})}

	s.mu.Lock()
	s.workers[id] = w
	s.mu.Unlock()

	s.log.Info("client connected", "conn_id", id, "remote_addr", conn.RemoteAddr().String(), "active_connections", s.activeConnections())

	go func() {
		defer close(w.done)
		defer s.unregisterWorker(id)
		defer conn.Close()
		s.handleConn(id, conn)
	}()
}

func (s *Server) unregisterWorker(id string) {
	s.mu.Lock()
	delete(s.workers, id)
	s.mu.Unlock()
}

// pruneWorkers removes any workers whose goroutine has already exited —
// opportunistic cleanup on each accept-loop tick.
func (s *Server) pruneWorkers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, w := range s.workers {
		select {
		case <-w.done:
			delete(s.workers, id)
		default:
		}
	}
}

func (s *Server) activeConnections() int {
	return s.ActiveConnections()
}

// ActiveConnections reports the number of connections currently registered
// in the worker pool. Exposed for the optional status HTTP surface.
func (s *Server) ActiveConnections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.workers)
}

// Addr returns the bound listen address, or the empty string before Start
// has completed binding.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// handleConn runs the read-dispatch-write loop for one connection until the
// client disconnects or a fatal frame error occurs.
func (s *Server) handleConn(connID string, conn net.Conn) {
	pc := protocol.NewConn(conn)
	if err := pc.SendGreeting(); err != nil {
		s.log.Warn("failed to send greeting", "conn_id", connID, "error", err)
		return
	}

	for {
		req, err := pc.ReadRequest()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.log.Warn("connection read failed", "conn_id", connID, "error", err)
				if werr := pc.WriteJSON(dispatch.Response{Status: "error", Message: err.Error()}); werr != nil {
					s.log.Warn("failed to write error response", "conn_id", connID, "error", werr)
				}
			}
			return
		}

		resp := s.dispatcher.Dispatch(context.Background(), dispatch.Request{
			Type:   req.Get("type").String(),
			Params: req.Get("params"),
		})

		if err := pc.WriteJSON(resp); err != nil {
			s.log.Warn("connection write failed", "conn_id", connID, "error", err)
			return
		}
	}
}

// Shutdown flips the running flag, closes the listener (unblocking Accept),
// and waits up to workerJoinTimeout per worker for its I/O goroutine to
// exit, logging any stragglers.
func (s *Server) Shutdown() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	ln := s.listener
	workers := make([]*worker, 0, len(s.workers))
	for _, w := range s.workers {
		workers = append(workers, w)
	}
	s.mu.Unlock()

	if ln != nil {
		ln.Close()
	}
	for _, w := range workers {
		w.conn.Close()
		select {
		case <-w.done:
		case <-time.After(workerJoinTimeout):
			s.log.Warn("worker did not exit within join timeout", "remote_addr", w.conn.RemoteAddr().String())
		}
	}
	s.log.Info("server stopped")
}
