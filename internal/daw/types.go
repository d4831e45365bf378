package daw

import "sync"

// TrackKind mirrors the Track view's kind enum.
type TrackKind string

const (
	KindAudio  TrackKind = "audio"
	KindMIDI   TrackKind = "midi"
	KindReturn TrackKind = "return"
	KindMaster TrackKind = "master"
	KindGroup  TrackKind = "group"
)

// DeviceType mirrors the derived device type enum.
type DeviceType string

const (
	DeviceInstrument  DeviceType = "instrument"
	DeviceAudioEffect DeviceType = "audio_effect"
	DeviceMIDIEffect  DeviceType = "midi_effect"
	DeviceRack        DeviceType = "rack"
	DeviceDrumMachine DeviceType = "drum_machine"
	DeviceUnknown     DeviceType = "unknown"
)

// MonitorState mirrors the monitoring enum: Name is the named state, and
// Raw can hold a host's raw integer state when Name is empty. The views
// built in this package report Name only.
type MonitorState struct {
	Name string // "in", "auto", "off", or "" if unrecognized
	Raw  int
}

// Parameter is a device/mixer parameter, reused for track volume/panning
// and send levels since they share the same normalize/clamp/quantize
// semantics.
type Parameter struct {
	Index       int
	Name        string
	Min         float64
	Max         float64
	Value       float64
	IsQuantized bool
	ValueItems  []string // ordered discrete labels, only set when IsQuantized
	Unit        string
}

// clamp returns v restricted to [p.Min, p.Max], rounded to the nearest
// integer if the parameter is quantized. This is the single place the
// "min ≤ value ≤ max" invariant is enforced.
func (p *Parameter) clamp(v float64) float64 {
	if v < p.Min {
		v = p.Min
	}
	if v > p.Max {
		v = p.Max
	}
	if p.IsQuantized {
		v = roundHalfAwayFromZero(v)
	}
	return v
}

// Set clamps v into range (rounding if quantized) and stores it, returning
// the final stored value.
func (p *Parameter) Set(v float64) float64 {
	p.Value = p.clamp(v)
	return p.Value
}

func roundHalfAwayFromZero(v float64) float64 {
	if v >= 0 {
		return float64(int64(v + 0.5))
	}
	return float64(int64(v - 0.5))
}

// Send is one entry in a track's ordered send list.
type Send struct {
	Index            int
	ReturnTrackIndex int // index into Song.Returns this send targets
	Level            *Parameter
}

// Note is a MIDI note event, including the optional extended fields. The
// in-memory façade always supports them, so they are
// plain fields rather than pointers; defaults mirror Ableton Live's own
// note defaults.
type Note struct {
	Pitch             int
	StartTime         float64
	Duration          float64
	Velocity          int
	Mute              bool
	Probability       float64 // default 1.0
	VelocityDeviation int     // default 0
	ReleaseVelocity   int     // default 64
	NoteID            int64   // opaque, allocated by the façade
}

// DefaultedNote fills in the Ableton-style defaults for any extended field
// left at its zero value by a caller that only supplied the core fields.
func DefaultedNote(n Note) Note {
	if n.Probability == 0 {
		n.Probability = 1.0
	}
	if n.ReleaseVelocity == 0 {
		n.ReleaseVelocity = 64
	}
	if n.Duration < 0.01 {
		n.Duration = 0.01
	}
	if n.Pitch < 0 {
		n.Pitch = 0
	}
	if n.Pitch > 127 {
		n.Pitch = 127
	}
	if n.Velocity < 0 {
		n.Velocity = 0
	}
	if n.Velocity > 127 {
		n.Velocity = 127
	}
	if n.StartTime < 0 {
		n.StartTime = 0
	}
	return n
}

// ClipSlot is one cell in the session grid.
type ClipSlot struct {
	HasClip bool
	Clip    *Clip
}

// Clip is one clip slot's contents in the session grid.
type Clip struct {
	Name       string
	Length     float64 // beats
	Looping    bool
	LoopStart  float64
	LoopEnd    float64
	IsMIDI     bool
	Playing    bool
	Recording  bool
	Notes      []Note
	nextNoteID int64
}

func (c *Clip) allocateNoteID() int64 {
	c.nextNoteID++
	return c.nextNoteID
}

// RoutingOption is one entry of a host-provided ordered option list, used by
// ResolveOption.
type RoutingOption struct {
	DisplayName string
	// Value is the host-specific payload the option resolves to (e.g. an
	// audio channel identifier); opaque to ResolveOption itself.
	Value any
}

// Routing is a track's I/O + monitoring + sidechain state.
type Routing struct {
	InputType     string
	InputChannel  string
	OutputType    string
	OutputChannel string
	Monitor       MonitorState

	InputTypeOptions     []RoutingOption
	InputChannelOptions  []RoutingOption
	OutputTypeOptions    []RoutingOption
	OutputChannelOptions []RoutingOption
}

// Device is one device's view, extended with the plumbing
// set_device_sidechain_source/set_device_audio_input need.
type Device struct {
	Index      int
	Name       string
	ClassName  string
	Type       DeviceType
	Parameters []*Parameter
	SampleURI  string // set once a sample has been loaded into a sampler-class device

	// Per-device I/O endpoints, present only on devices that expose them —
	// see HasIOEndpoints.
	HasIOEndpoints       bool
	InputRoutingTypes    []RoutingOption
	InputRoutingChannels []RoutingOption
	AudioInputType       string
	AudioInputChannel    string

	// Sidechain-capable devices (compressors, gates) expose these.
	IsSidechainCapable bool
	SidechainOn        bool
	SidechainSource    int // 0 = None, else 1-based index into Song.Tracks+Returns
	SidechainMono      bool
	SidechainPreFX     bool
}

// Track is one mixer track in the session.
type Track struct {
	Name      string
	Kind      TrackKind
	Mute      bool
	Solo      bool
	Arm       bool
	Volume    *Parameter
	Panning   *Parameter
	Sends     []*Send
	ClipSlots []*ClipSlot
	Devices   []*Device
	Routing   Routing
}

// MasterChannel is the session's master channel projection.
type MasterChannel struct {
	Name    string
	Volume  *Parameter
	Panning *Parameter
}

// Scene is one row of the session grid.
type Scene struct {
	Name string
}

// BrowserNode is one node in the browser tree.
type BrowserNode struct {
	Name       string
	URI        string
	IsFolder   bool
	IsDevice   bool
	IsLoadable bool
	Category   string // top-level category this node (or an ancestor) lives under
	Children   []*BrowserNode
}

// Song is the façade's root: the live object graph, guarded by a single
// RWMutex the way a single top-level container might guard its nested
// collections. Every façade operation is a Song method.
type Song struct {
	mu sync.RWMutex

	Tempo    float64
	SigNum   int
	SigDenom int
	Playing  bool

	Tracks  []*Track
	Returns []*Track
	Scenes  []*Scene
	Master  *MasterChannel

	SelectedScene int // index into Scenes; used by stop_scene's "global stop" rule

	Browser *BrowserNode
}
