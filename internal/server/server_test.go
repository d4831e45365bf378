package server

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/ableton-mcp/remote-bridge/internal/daw"
	"github.com/ableton-mcp/remote-bridge/internal/dispatch"
	"github.com/ableton-mcp/remote-bridge/internal/handlers"
	"github.com/ableton-mcp/remote-bridge/internal/scheduler"
	"github.com/ableton-mcp/remote-bridge/internal/threadbridge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testHarness starts a real Server on an ephemeral loopback port backed by a
// TickerScheduler (so main-thread handlers actually run), and tears it all
// down on test cleanup.
type testHarness struct {
	addr string
}

func startHarness(t *testing.T, timeout time.Duration) *testHarness {
	t.Helper()

	sched := scheduler.NewTickerScheduler(time.Millisecond, nil)
	schedStop := make(chan struct{})
	go sched.Run(schedStop)
	t.Cleanup(func() { close(schedStop) })

	bridge := threadbridge.New(sched, timeout, nil)
	song := daw.NewSong()
	d := dispatch.New(handlers.BuildDefault(), song, bridge, nil)

	srv := New("127.0.0.1:0", d, nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()
	srv.addr = addr

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	go func() {
		close(started)
		_ = srv.Start(ctx)
	}()
	<-started
	// Give the accept loop a moment to bind before the first Dial.
	time.Sleep(20 * time.Millisecond)

	t.Cleanup(cancel)
	return &testHarness{addr: addr}
}

func (h *testHarness) dial(t *testing.T) net.Conn {
	t.Helper()
	var conn net.Conn
	var err error
	for i := 0; i < 20; i++ {
		conn, err = net.DialTimeout("tcp", h.addr, 100*time.Millisecond)
		if err == nil {
			return conn
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.NoError(t, err)
	return conn
}

func readJSON(t *testing.T, conn net.Conn, v any) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 4096)
	n, err := conn.Read(buf)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(buf[:n], v))
}

func TestServer_GreetingBytesMatchWireContract(t *testing.T) {
	h := startHarness(t, time.Second)
	conn := h.dial(t)
	defer conn.Close()

	var greeting map[string]string
	readJSON(t, conn, &greeting)
	assert.Equal(t, "connected", greeting["status"])
	assert.Equal(t, "AbletonMCP Ready", greeting["message"])
}

func TestServer_UnknownCommandReturnsErrorResponse(t *testing.T) {
	h := startHarness(t, time.Second)
	conn := h.dial(t)
	defer conn.Close()

	var greeting map[string]string
	readJSON(t, conn, &greeting)

	_, err := conn.Write([]byte(`{"type":"do_a_barrel_roll","params":{}}`))
	require.NoError(t, err)

	var resp map[string]any
	readJSON(t, conn, &resp)
	assert.Equal(t, "error", resp["status"])
	assert.Equal(t, "Unknown command: do_a_barrel_roll", resp["message"])
}

func TestServer_CreateTrackThenFireSceneByNameRoundTrips(t *testing.T) {
	h := startHarness(t, time.Second)
	conn := h.dial(t)
	defer conn.Close()

	var greeting map[string]string
	readJSON(t, conn, &greeting)

	_, err := conn.Write([]byte(`{"type":"create_midi_track","params":{"index":-1}}`))
	require.NoError(t, err)
	var createResp map[string]any
	readJSON(t, conn, &createResp)
	require.Equal(t, "success", createResp["status"])

	_, err = conn.Write([]byte(`{"type":"create_scene","params":{"index":-1}}`))
	require.NoError(t, err)
	var sceneResp map[string]any
	readJSON(t, conn, &sceneResp)
	require.Equal(t, "success", sceneResp["status"])

	_, err = conn.Write([]byte(`{"type":"get_session_info","params":{}}`))
	require.NoError(t, err)
	var infoResp map[string]any
	readJSON(t, conn, &infoResp)
	require.Equal(t, "success", infoResp["status"])
}

func TestServer_MainThreadHandlerTimesOutWhenSchedulerStalled(t *testing.T) {
	sched := scheduler.NewFakeScheduler() // never flushed — nothing runs on main
	bridge := threadbridge.New(sched, 30*time.Millisecond, nil)
	song := daw.NewSong()
	d := dispatch.New(handlers.BuildDefault(), song, bridge, nil)
	srv := New("127.0.0.1:0", d, nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()
	srv.addr = addr

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = srv.Start(ctx) }()

	h := &testHarness{addr: addr}
	conn := h.dial(t)
	defer conn.Close()

	var greeting map[string]string
	readJSON(t, conn, &greeting)

	_, err = conn.Write([]byte(`{"type":"create_midi_track","params":{"index":-1}}`))
	require.NoError(t, err)

	var resp map[string]any
	readJSON(t, conn, &resp)
	assert.Equal(t, "error", resp["status"])
	assert.Equal(t, "Timeout waiting for operation to complete", resp["message"])
}

func TestServer_MalformedFrameGetsOneErrorResponseThenCloses(t *testing.T) {
	h := startHarness(t, time.Second)
	conn := h.dial(t)
	defer conn.Close()

	var greeting map[string]string
	readJSON(t, conn, &greeting)

	_, err := conn.Write([]byte(`[1,2,3]`))
	require.NoError(t, err)

	var resp map[string]any
	readJSON(t, conn, &resp)
	assert.Equal(t, "error", resp["status"])

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 64)
	n, err := conn.Read(buf)
	assert.Equal(t, 0, n)
	assert.Error(t, err)
}

func TestServer_SplitRequestAcrossMultipleWritesStillParses(t *testing.T) {
	h := startHarness(t, time.Second)
	conn := h.dial(t)
	defer conn.Close()

	var greeting map[string]string
	readJSON(t, conn, &greeting)

	payload := `{"type":"get_session_info","params":{}}`
	_, err := conn.Write([]byte(payload[:15]))
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	_, err = conn.Write([]byte(payload[15:]))
	require.NoError(t, err)

	var resp map[string]any
	readJSON(t, conn, &resp)
	assert.Equal(t, "success", resp["status"])
}
