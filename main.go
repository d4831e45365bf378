package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ableton-mcp/remote-bridge/config"
	"github.com/ableton-mcp/remote-bridge/internal/daw"
	"github.com/ableton-mcp/remote-bridge/internal/dispatch"
	"github.com/ableton-mcp/remote-bridge/internal/handlers"
	"github.com/ableton-mcp/remote-bridge/internal/hostboundary"
	"github.com/ableton-mcp/remote-bridge/internal/httpstatus"
	"github.com/ableton-mcp/remote-bridge/internal/scheduler"
	"github.com/ableton-mcp/remote-bridge/internal/server"
	"github.com/ableton-mcp/remote-bridge/internal/threadbridge"
)

func main() {
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	slog.Info("starting bridge",
		"host", cfg.Host,
		"port", cfg.Port,
		"timeout", cfg.Timeout,
	)

	// The Live-Object Façade: in the real Ableton integration this would be
	// a thin view over the DAW's own object graph; standalone, main owns the
	// in-memory model directly so the repository is runnable end-to-end.
	song := daw.NewSong()

	sched := scheduler.NewTickerScheduler(0, logger)
	schedStop := make(chan struct{})
	go sched.Run(schedStop)

	bridge := threadbridge.New(sched, cfg.Timeout, logger)
	registry := handlers.BuildDefault()
	d := dispatch.New(registry, song, bridge, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	srv := server.New(addr, d, logger)

	boundary := hostboundary.New(song, srv, logger)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		slog.Info("shutdown signal received")
		cancel()
	}()

	if cfg.StatusAddr != "" {
		statusHandlers := httpstatus.NewHandlers(song, srv)
		router := httpstatus.NewRouter(statusHandlers)
		go func() {
			slog.Info("status HTTP surface starting", "addr", cfg.StatusAddr)
			if err := httpstatus.Serve(ctx, cfg.StatusAddr, router); err != nil {
				slog.Error("status HTTP surface failed", "error", err)
			}
		}()
	}

	if err := boundary.OnInit(ctx, hostboundary.HostContext{}); err != nil {
		slog.Error("bridge failed to start", "error", err)
		close(schedStop)
		os.Exit(1)
	}

	<-ctx.Done()
	boundary.OnDisconnect()
	bridge.Shutdown()
	sched.Stop()
	close(schedStop)

	slog.Info("bridge stopped")
}

func parseLevel(name string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return level
}
