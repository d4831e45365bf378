package hostboundary

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/ableton-mcp/remote-bridge/internal/daw"
	"github.com/ableton-mcp/remote-bridge/internal/dispatch"
	"github.com/ableton-mcp/remote-bridge/internal/handlers"
	"github.com/ableton-mcp/remote-bridge/internal/scheduler"
	"github.com/ableton-mcp/remote-bridge/internal/server"
	"github.com/ableton-mcp/remote-bridge/internal/threadbridge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBoundary(t *testing.T) (*Boundary, string) {
	t.Helper()

	sched := scheduler.NewTickerScheduler(time.Millisecond, nil)
	stop := make(chan struct{})
	go sched.Run(stop)
	t.Cleanup(func() { close(stop) })

	bridge := threadbridge.New(sched, time.Second, nil)
	song := daw.NewSong()
	d := dispatch.New(handlers.BuildDefault(), song, bridge, nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	srv := server.New(addr, d, nil)
	return New(song, srv, nil), addr
}

func TestBoundary_OnInitStartsServerAndIsIdempotent(t *testing.T) {
	b, addr := newTestBoundary(t)
	defer b.OnDisconnect()

	require.NoError(t, b.OnInit(context.Background(), HostContext{}))
	require.NoError(t, b.OnInit(context.Background(), HostContext{})) // second call is a no-op
	assert.True(t, b.Started())

	// Give the accept loop a moment to bind, then confirm it's actually
	// listening.
	var conn net.Conn
	var err error
	for i := 0; i < 20; i++ {
		conn, err = net.DialTimeout("tcp", addr, 100*time.Millisecond)
		if err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.NoError(t, err)
	conn.Close()
}

func TestBoundary_OnDisconnectIsIdempotent(t *testing.T) {
	b, _ := newTestBoundary(t)
	require.NoError(t, b.OnInit(context.Background(), HostContext{}))

	assert.NoError(t, b.OnDisconnect())
	assert.NoError(t, b.OnDisconnect())
}
