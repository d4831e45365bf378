package protocol

import (
	"encoding/json"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConn_SendGreeting(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	conn := NewConn(server)
	go func() { _ = conn.SendGreeting() }()

	buf := make([]byte, 256)
	client.SetReadDeadline(time.Now().Add(time.Second))
	n, err := client.Read(buf)
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(buf[:n], &decoded))
	assert.Equal(t, "connected", decoded["status"])
	assert.Equal(t, "AbletonMCP Ready", decoded["message"])
}

func TestConn_ReadRequest_WholeFrame(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	conn := NewConn(server)
	go func() {
		_, _ = client.Write([]byte(`{"type":"get_session_info","params":{}}`))
	}()

	req, err := conn.ReadRequest()
	require.NoError(t, err)
	assert.Equal(t, "get_session_info", req.Get("type").String())
}

func TestConn_ReadRequest_SplitAcrossMultipleWrites(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	conn := NewConn(server)
	full := `{"type":"set_tempo","params":{"tempo":128.0}}`
	go func() {
		_, _ = client.Write([]byte(full[:10]))
		time.Sleep(5 * time.Millisecond)
		_, _ = client.Write([]byte(full[10:]))
	}()

	req, err := conn.ReadRequest()
	require.NoError(t, err)
	assert.Equal(t, "set_tempo", req.Get("type").String())
	assert.Equal(t, 128.0, req.Get("params.tempo").Float())
}

func TestConn_ReadRequest_TwoConcatenatedRequestsLeavesRemainderForNextRead(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	conn := NewConn(server)
	first := `{"type":"start_playback","params":{}}`
	second := `{"type":"stop_playback","params":{}}`
	go func() {
		_, _ = client.Write([]byte(first + second))
	}()

	req1, err := conn.ReadRequest()
	require.NoError(t, err)
	assert.Equal(t, "start_playback", req1.Get("type").String())

	req2, err := conn.ReadRequest()
	require.NoError(t, err)
	assert.Equal(t, "stop_playback", req2.Get("type").String())
}

func TestConn_ReadRequest_MalformedFrameErrors(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	conn := NewConn(server)
	go func() {
		_, _ = client.Write([]byte(`[1, 2, 3]`))
	}()

	_, err := conn.ReadRequest()
	assert.ErrorIs(t, err, ErrMalformedFrame)
}

func TestConn_ReadRequest_DisconnectReturnsEOF(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()

	conn := NewConn(server)
	client.Close()

	_, err := conn.ReadRequest()
	assert.ErrorIs(t, err, io.EOF)
}
