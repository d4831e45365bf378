package daw

import (
	"fmt"
)

// newMixerTrack builds a fresh Track with default volume/panning parameters
// and one clip slot per existing scene, matching the session grid invariant
// that every audio/midi track has ClipSlots sized to len(Song.Scenes).
func (s *Song) newMixerTrack(name string, kind TrackKind) *Track {
	t := &Track{
		Name:    name,
		Kind:    kind,
		Volume:  &Parameter{Name: "Volume", Min: 0, Max: 1, Value: 0.85},
		Panning: &Parameter{Name: "Panning", Min: -1, Max: 1, Value: 0},
		Routing: Routing{
			InputType:     "Ext. In",
			OutputType:    "Master",
			OutputChannel: "Master",
			Monitor:       MonitorState{Name: "auto"},
		},
	}
	for range s.Scenes {
		t.ClipSlots = append(t.ClipSlots, &ClipSlot{})
	}
	return t
}

func insertAt[T any](slice []T, index int, item T) []T {
	if index < 0 || index >= len(slice) {
		return append(slice, item)
	}
	out := make([]T, 0, len(slice)+1)
	out = append(out, slice[:index]...)
	out = append(out, item)
	out = append(out, slice[index:]...)
	return out
}

func removeAt[T any](slice []T, index int) []T {
	out := make([]T, 0, len(slice)-1)
	out = append(out, slice[:index]...)
	out = append(out, slice[index+1:]...)
	return out
}

// CreateTrack creates an audio or MIDI track. index == -1 appends; otherwise
// the track is inserted at index.
func (s *Song) CreateTrack(kind TrackKind, index int) (trackIndex int, name string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if kind != KindAudio && kind != KindMIDI {
		return 0, "", fmt.Errorf("%w: track kind must be audio or midi", ErrBadValue)
	}
	if index != -1 && (index < 0 || index > len(s.Tracks)) {
		return 0, "", fmt.Errorf("%w: track index %d out of range", ErrOutOfRange, index)
	}

	base := "Audio"
	if kind == KindMIDI {
		base = "MIDI"
	}
	name = fmt.Sprintf("%s Track %d", base, len(s.Tracks)+1)
	t := s.newMixerTrack(name, kind)

	s.Tracks = insertAt(s.Tracks, index, t)
	if index == -1 {
		trackIndex = len(s.Tracks) - 1
	} else {
		trackIndex = index
	}
	return trackIndex, name, nil
}

// trackAt returns the track at index, bounds-checked. Must be called with
// s.mu held.
func (s *Song) trackAt(index int) (*Track, error) {
	if index < 0 || index >= len(s.Tracks) {
		return nil, fmt.Errorf("%w: track index %d out of range", ErrOutOfRange, index)
	}
	return s.Tracks[index], nil
}

// returnAt returns the return track at index, bounds-checked. Must be
// called with s.mu held.
func (s *Song) returnAt(index int) (*Track, error) {
	if index < 0 || index >= len(s.Returns) {
		return nil, fmt.Errorf("%w: return track index %d out of range", ErrOutOfRange, index)
	}
	return s.Returns[index], nil
}

// DeleteTrack removes the track at index.
func (s *Song) DeleteTrack(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.trackAt(index); err != nil {
		return err
	}
	s.Tracks = removeAt(s.Tracks, index)
	return nil
}

// DuplicateTrack copies the track at index to immediately after it
// (target_index is honored only when it is exactly index+1; otherwise the
// handler's caller is told via the returned note that the duplicate landed
// next to the source instead).
func (s *Song) DuplicateTrack(index int, targetIndex *int) (newIndex int, note string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, err := s.trackAt(index)
	if err != nil {
		return 0, "", err
	}

	dup := *src
	dup.Name = src.Name + " Copy"
	dup.Volume = &Parameter{}
	*dup.Volume = *src.Volume
	dup.Panning = &Parameter{}
	*dup.Panning = *src.Panning
	dup.ClipSlots = make([]*ClipSlot, len(src.ClipSlots))
	for i, slot := range src.ClipSlots {
		if slot == nil || !slot.HasClip {
			dup.ClipSlots[i] = &ClipSlot{}
			continue
		}
		clipCopy := *slot.Clip
		clipCopy.Notes = append([]Note(nil), slot.Clip.Notes...)
		dup.ClipSlots[i] = &ClipSlot{HasClip: true, Clip: &clipCopy}
	}
	dup.Devices = append([]*Device(nil), src.Devices...)
	dup.Sends = append([]*Send(nil), src.Sends...)

	insertPos := index + 1
	s.Tracks = insertAt(s.Tracks, insertPos, &dup)

	if targetIndex != nil && *targetIndex != insertPos {
		note = fmt.Sprintf("duplicated next to source at index %d; host API does not support an arbitrary target index", insertPos)
	}
	return insertPos, note, nil
}

// SetTrackName renames the track at index.
func (s *Song) SetTrackName(index int, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.trackAt(index)
	if err != nil {
		return err
	}
	t.Name = name
	return nil
}

// SetTrackVolume normalizes and clamps v against the track's volume
// parameter.
func (s *Song) SetTrackVolume(index int, v ParamValue) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.trackAt(index)
	if err != nil {
		return 0, err
	}
	n, err := Normalize(t.Volume, v)
	if err != nil {
		return 0, err
	}
	return t.Volume.Set(n), nil
}

// SetTrackPanning normalizes and clamps v against the track's panning
// parameter.
func (s *Song) SetTrackPanning(index int, v ParamValue) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.trackAt(index)
	if err != nil {
		return 0, err
	}
	n, err := Normalize(t.Panning, v)
	if err != nil {
		return 0, err
	}
	return t.Panning.Set(n), nil
}

// SetTrackMute, SetTrackSolo, SetTrackArm set the corresponding boolean
// track flag.
func (s *Song) SetTrackMute(index int, v bool) error { return s.setTrackFlag(index, v, flagMute) }
func (s *Song) SetTrackSolo(index int, v bool) error { return s.setTrackFlag(index, v, flagSolo) }
func (s *Song) SetTrackArm(index int, v bool) error  { return s.setTrackFlag(index, v, flagArm) }

type trackFlag int

const (
	flagMute trackFlag = iota
	flagSolo
	flagArm
)

func (s *Song) setTrackFlag(index int, v bool, flag trackFlag) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.trackAt(index)
	if err != nil {
		return err
	}
	switch flag {
	case flagMute:
		t.Mute = v
	case flagSolo:
		t.Solo = v
	case flagArm:
		t.Arm = v
	}
	return nil
}

// SetSendLevel normalizes and clamps v against the named send's level
// parameter.
func (s *Song) SetSendLevel(trackIndex, sendIndex int, v ParamValue) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.trackAt(trackIndex)
	if err != nil {
		return 0, err
	}
	if sendIndex < 0 || sendIndex >= len(t.Sends) {
		return 0, fmt.Errorf("%w: send index %d out of range", ErrOutOfRange, sendIndex)
	}
	send := t.Sends[sendIndex]
	n, err := Normalize(send.Level, v)
	if err != nil {
		return 0, err
	}
	return send.Level.Set(n), nil
}

// CreateReturnTrack appends a new return track, creating a corresponding
// send slot on every existing track.
func (s *Song) CreateReturnTrack(name string) (index int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" {
		name = fmt.Sprintf("Return %c", 'A'+len(s.Returns))
	}
	ret := s.newMixerTrack(name, KindReturn)
	ret.ClipSlots = nil
	s.Returns = append(s.Returns, ret)
	retIdx := len(s.Returns) - 1

	for _, t := range s.Tracks {
		t.Sends = append(t.Sends, &Send{
			Index:            len(t.Sends),
			ReturnTrackIndex: retIdx,
			Level:            &Parameter{Name: "Send " + name, Min: 0, Max: 1, Value: 0},
		})
	}
	return retIdx, nil
}

// DeleteReturnTrack removes the return track at index and its corresponding
// send slot from every track.
func (s *Song) DeleteReturnTrack(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.returnAt(index); err != nil {
		return err
	}
	s.Returns = removeAt(s.Returns, index)

	for _, t := range s.Tracks {
		var kept []*Send
		for _, send := range t.Sends {
			if send.ReturnTrackIndex == index {
				continue
			}
			if send.ReturnTrackIndex > index {
				send.ReturnTrackIndex--
			}
			send.Index = len(kept)
			kept = append(kept, send)
		}
		t.Sends = kept
	}
	return nil
}

// SetReturnTrackName renames the return track at index.
func (s *Song) SetReturnTrackName(index int, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.returnAt(index)
	if err != nil {
		return err
	}
	t.Name = name
	return nil
}

// RoutingUpdate is the parsed form of configure_track_routing's payload.
// Every field is a pointer/optional: nil/unset means "leave unchanged".
type RoutingUpdate struct {
	InputType     any
	InputChannel  any
	OutputType    any
	OutputChannel any
	Monitor       *string
	Arm           *bool
	Sends         []SendUpdate
}

// SendUpdate is one resolved {target, level} pair from the polymorphic
// sends payload.
type SendUpdate struct {
	Target any // int index, string name, or nil for positional
	Level  ParamValue
}

// RoutingResult is the aggregated state configure_track_routing returns.
type RoutingResult struct {
	InputType     string
	InputChannel  string
	OutputType    string
	OutputChannel string
	Monitor       string
	Arm           bool
	Sends         []float64
	Errors        []string
}

// ConfigureTrackRouting applies each present piece of upd in order and
// returns the aggregated final state.
func (s *Song) ConfigureTrackRouting(trackIndex int, upd RoutingUpdate) (RoutingResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.trackAt(trackIndex)
	if err != nil {
		return RoutingResult{}, err
	}

	var errs []string

	if upd.InputType != nil {
		if opt, err := ResolveOption(t.Routing.InputTypeOptions, upd.InputType); err != nil {
			errs = append(errs, "input_type: "+err.Error())
		} else if opt != nil {
			t.Routing.InputType = opt.DisplayName
		}
	}
	if upd.InputChannel != nil {
		if opt, err := ResolveOption(t.Routing.InputChannelOptions, upd.InputChannel); err != nil {
			errs = append(errs, "input_channel: "+err.Error())
		} else if opt != nil {
			t.Routing.InputChannel = opt.DisplayName
		}
	}
	if upd.OutputType != nil {
		if opt, err := ResolveOption(t.Routing.OutputTypeOptions, upd.OutputType); err != nil {
			errs = append(errs, "output_type: "+err.Error())
		} else if opt != nil {
			t.Routing.OutputType = opt.DisplayName
		}
	}
	if upd.OutputChannel != nil {
		if opt, err := ResolveOption(t.Routing.OutputChannelOptions, upd.OutputChannel); err != nil {
			errs = append(errs, "output_channel: "+err.Error())
		} else if opt != nil {
			t.Routing.OutputChannel = opt.DisplayName
		}
	}
	if upd.Monitor != nil {
		t.Routing.Monitor = MonitorState{Name: *upd.Monitor}
	}
	if upd.Arm != nil {
		t.Arm = *upd.Arm
	}

	for i, su := range upd.Sends {
		send, rerr := resolveSendTarget(t.Sends, su.Target, i)
		if rerr != nil {
			errs = append(errs, fmt.Sprintf("sends[%d]: %v", i, rerr))
			continue
		}
		n, nerr := Normalize(send.Level, su.Level)
		if nerr != nil {
			errs = append(errs, fmt.Sprintf("sends[%d]: %v", i, nerr))
			continue
		}
		send.Level.Set(n)
	}

	result := RoutingResult{
		InputType:     t.Routing.InputType,
		InputChannel:  t.Routing.InputChannel,
		OutputType:    t.Routing.OutputType,
		OutputChannel: t.Routing.OutputChannel,
		Monitor:       t.Routing.Monitor.Name,
		Arm:           t.Arm,
		Errors:        errs,
	}
	for _, send := range t.Sends {
		result.Sends = append(result.Sends, send.Level.Value)
	}
	return result, nil
}

// resolveSendTarget resolves a send update's target: an integer/numeric
// index, a string (matched case-insensitively as a substring of the send
// level's name, "Send <return-track name>" as set when the return track was
// created), or nil meaning positional (use positional).
func resolveSendTarget(sends []*Send, target any, positional int) (*Send, error) {
	switch t := target.(type) {
	case nil:
		if positional < 0 || positional >= len(sends) {
			return nil, fmt.Errorf("%w: positional send %d out of range", ErrOutOfRange, positional)
		}
		return sends[positional], nil
	case int:
		if t < 0 || t >= len(sends) {
			return nil, fmt.Errorf("%w: send index %d out of range", ErrOutOfRange, t)
		}
		return sends[t], nil
	case float64:
		idx := int(t)
		if idx < 0 || idx >= len(sends) {
			return nil, fmt.Errorf("%w: send index %d out of range", ErrOutOfRange, idx)
		}
		return sends[idx], nil
	case string:
		for _, send := range sends {
			if MatchName(send.Level.Name, t, MatchContains) {
				return send, nil
			}
		}
		return nil, fmt.Errorf("%w: no send matches %q", ErrNotFound, t)
	default:
		return nil, fmt.Errorf("%w: unsupported send target type %T", ErrBadValue, target)
	}
}
