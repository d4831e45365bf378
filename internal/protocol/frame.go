// Package protocol implements the Framed JSON Protocol:
// one JSON object per logical message, over a raw TCP byte stream. Conn
// wraps net.Conn and owns the per-connection read buffer; nothing above
// this package deals with partial reads or JSON framing.
package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/tidwall/gjson"
)

const (
	// readChunkSize is how much is read per socket Read call.
	readChunkSize = 8 * 1024
	// maxBufferBytes hard-closes a connection that never completes a frame
	// within this many accumulated bytes.
	maxBufferBytes = 16 * 1024 * 1024
)

// ErrFrameTooLarge is returned when the accumulated buffer exceeds
// maxBufferBytes without ever completing a parse.
var ErrFrameTooLarge = errors.New("protocol: frame exceeds maximum buffer size")

// ErrMalformedFrame is returned when the buffer contains JSON that can
// never become valid by appending more bytes (e.g. valid JSON that is not
// an object, or a syntax error that isn't simply "ran out of input").
var ErrMalformedFrame = errors.New("protocol: malformed request frame")

// Greeting is the first message sent on every accepted connection.
var Greeting = map[string]string{"status": "connected", "message": "AbletonMCP Ready"}

// Conn wraps a net.Conn with framed-JSON read/write and the accumulating
// read buffer.
type Conn struct {
	nc  net.Conn
	buf []byte
}

// NewConn wraps nc. The caller remains responsible for closing nc.
func NewConn(nc net.Conn) *Conn {
	return &Conn{nc: nc}
}

// SendGreeting writes the connection greeting. Must be the first write on
// a freshly accepted connection.
func (c *Conn) SendGreeting() error {
	return c.WriteJSON(Greeting)
}

// WriteJSON marshals v and writes it as one frame. net.Conn.Write already
// blocks until every byte is written or an error occurs, so one call is a
// complete send of one response.
func (c *Conn) WriteJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("protocol: failed to marshal response: %w", err)
	}
	_, err = c.nc.Write(data)
	return err
}

// ReadRequest blocks until one complete JSON object has been read, or
// returns an error. Returns io.EOF on a clean client disconnect.
func (c *Conn) ReadRequest() (gjson.Result, error) {
	chunk := make([]byte, readChunkSize)

	for {
		n, err := c.nc.Read(chunk)
		if n > 0 {
			c.buf = append(c.buf, chunk[:n]...)
		}
		if err != nil {
			return gjson.Result{}, err
		}

		if len(c.buf) > maxBufferBytes {
			return gjson.Result{}, ErrFrameTooLarge
		}

		result, complete, malformed := tryParse(c.buf)
		if malformed {
			return gjson.Result{}, ErrMalformedFrame
		}
		if complete {
			c.buf = c.buf[:0]
			return result, nil
		}
		// Incomplete: loop for more bytes.
	}
}

// tryParse attempts to parse buf as one complete JSON object.
//
//   - complete=true: buf is a full, valid JSON object; result is populated.
//   - malformed=true: buf can never become valid by appending more bytes;
//     the connection is treated as failed.
//   - both false: buf looks like a truncated value; wait for more bytes.
func tryParse(buf []byte) (result gjson.Result, complete bool, malformed bool) {
	trimmed := bytes.TrimSpace(buf)
	if len(trimmed) == 0 {
		return gjson.Result{}, false, false
	}

	var raw any
	err := json.Unmarshal(buf, &raw)
	if err == nil {
		if _, ok := raw.(map[string]any); !ok {
			return gjson.Result{}, false, true
		}
		return gjson.ParseBytes(buf), true, false
	}

	if errors.Is(err, io.ErrUnexpectedEOF) {
		return gjson.Result{}, false, false
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) && int(syntaxErr.Offset) >= len(bytes.TrimRight(buf, " \t\r\n")) {
		return gjson.Result{}, false, false
	}

	return gjson.Result{}, false, true
}
