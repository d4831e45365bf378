// Package httpstatus implements an optional, read-only local status HTTP
// surface, disabled by default via ABLETON_MCP_STATUS_ADDR. It never
// mutates the façade — only the TCP wire protocol does that — so a
// monitoring sidecar can poll it without going through the Thread Bridge.
package httpstatus

import (
	"context"
	"net/http"
	"time"

	"github.com/ableton-mcp/remote-bridge/internal/daw"
	"github.com/ableton-mcp/remote-bridge/internal/server"
	"github.com/gin-gonic/gin"
)

// Handlers serves read-only snapshots of bridge state. Nothing here ever
// acquires the façade's write path.
type Handlers struct {
	song      *daw.Song
	srv       *server.Server
	startedAt time.Time
}

// NewHandlers creates Handlers over the given façade and connection pool.
func NewHandlers(song *daw.Song, srv *server.Server) *Handlers {
	return &Handlers{song: song, srv: srv, startedAt: time.Now()}
}

// Healthz reports process liveness only — it never touches the façade, so
// it stays responsive even if a handler is wedged waiting on the Thread
// Bridge.
func (h *Handlers) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(h.startedAt).String(),
	})
}

// Status reports a read-only snapshot of session state and the connection
// pool, for operators who want a glance without opening the wire protocol.
func (h *Handlers) Status(c *gin.Context) {
	info := h.song.SessionInfo()
	c.JSON(http.StatusOK, gin.H{
		"status":                "ok",
		"tempo":                 info.Tempo,
		"signature_numerator":   info.SigNum,
		"signature_denominator": info.SigDenom,
		"is_playing":            info.Playing,
		"track_count":           info.TrackCount,
		"scene_count":           info.SceneCount,
		"return_count":          info.ReturnCount,
		"active_connections":    h.srv.ActiveConnections(),
		"listen_addr":           h.srv.Addr(),
	})
}

// NewRouter builds the gin.Engine serving Handlers. Callers are responsible
// for wrapping it in an *http.Server so it can participate in the same
// context-cancellation shutdown as the rest of the bridge.
func NewRouter(h *Handlers) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/healthz", h.Healthz)
	router.GET("/status", h.Status)
	return router
}

// Serve runs an *http.Server wrapping router on addr until ctx is
// cancelled, then shuts it down with a bounded grace period. Mirrors the
// teacher's Server.Start errChan/ctx.Done pattern (internal/radio/server.go)
// but scoped to this one optional surface instead of the whole bridge.
func Serve(ctx context.Context, addr string, router *gin.Engine) error {
	httpSrv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	}
}
