// Package handlers implements the Handler Registry: one entry per wire
// command, grouped into files by area. Every handler is a small adapter
// between the wire's JSON params and the internal/daw façade; none of them
// touch net.Conn or know about framing.
package handlers

import (
	"context"
	"fmt"
	"sort"

	"github.com/ableton-mcp/remote-bridge/internal/daw"
	"github.com/tidwall/gjson"
)

// HandlerFunc runs one command against the façade and returns a
// JSON-serializable result or a typed error from the daw package.
type HandlerFunc func(ctx context.Context, song *daw.Song, params gjson.Result) (any, error)

// Entry is one registry row: a handler plus whether it must run on the
// main thread.
type Entry struct {
	Fn         HandlerFunc
	MainThread bool
}

// Registry is a name -> Entry lookup table, built once at startup and read
// concurrently by every connection's dispatch loop thereafter.
type Registry struct {
	entries map[string]Entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Register adds one handler. Registering the same name twice is a
// programmer error and panics, matching the registry being built once at
// startup rather than mutated at runtime.
func (r *Registry) Register(name string, mainThread bool, fn HandlerFunc) {
	if _, exists := r.entries[name]; exists {
		panic(fmt.Sprintf("handlers: duplicate registration for %q", name))
	}
	r.entries[name] = Entry{Fn: fn, MainThread: mainThread}
}

// Lookup returns the entry for name, or ok=false if unregistered (the
// Dispatcher turns that into "Unknown command: <type>").
func (r *Registry) Lookup(name string) (Entry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// Names returns every registered command name, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildDefault constructs the registry with every supported handler,
// grouped into the registerX helpers defined in this package's other
// files.
func BuildDefault() *Registry {
	r := NewRegistry()
	registerSessionHandlers(r)
	registerTrackHandlers(r)
	registerSceneHandlers(r)
	registerClipHandlers(r)
	registerDeviceHandlers(r)
	registerBrowserHandlers(r)
	registerPatternHandlers(r)
	registerTestMidiHandlers(r)
	return r
}
