package daw

import (
	"fmt"
	"strings"
)

// deviceFromBrowserNode builds a plausible Device for a resolved,
// loadable browser node. Real parameter lists come from the host; the
// in-memory façade gives every loaded device a minimal, generic parameter
// set (Device On/Off) so handlers downstream (get/set_device_parameter)
// have something real to operate on.
func deviceFromBrowserNode(node *BrowserNode) *Device {
	devType := DeviceUnknown
	switch {
	case strings.Contains(strings.ToLower(node.Category), "instrument"):
		devType = DeviceInstrument
	case strings.Contains(strings.ToLower(node.Category), "audio_effect"):
		devType = DeviceAudioEffect
	case strings.Contains(strings.ToLower(node.Category), "midi_effect"):
		devType = DeviceMIDIEffect
	case strings.Contains(strings.ToLower(node.Category), "drum"):
		devType = DeviceDrumMachine
	}
	return &Device{
		Name:      node.Name,
		ClassName: node.Name,
		Type:      devType,
		Parameters: []*Parameter{
			{Name: "Device On", Min: 0, Max: 1, Value: 1, IsQuantized: true, ValueItems: []string{"Off", "On"}},
		},
	}
}

// LoadBrowserItemResult is load_browser_item's return shape.
type LoadBrowserItemResult struct {
	DeviceIndex int
	Name        string
}

// LoadBrowserItem resolves itemURI in the browser and, if it names a
// loadable device, appends it to the track's device chain. clipIndex, when
// non-nil, is validated against the track's clip slots but otherwise only
// affects host-side selection, which the in-memory façade has no analog for.
func (s *Song) LoadBrowserItem(trackIndex int, itemURI string, clipIndex *int) (LoadBrowserItemResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.trackAt(trackIndex)
	if err != nil {
		return LoadBrowserItemResult{}, err
	}
	if clipIndex != nil && (*clipIndex < 0 || *clipIndex >= len(t.ClipSlots)) {
		return LoadBrowserItemResult{}, fmt.Errorf("%w: clip index %d out of range", ErrOutOfRange, *clipIndex)
	}

	node := findByURI(s.Browser, itemURI, 0)
	if node == nil {
		return LoadBrowserItemResult{}, fmt.Errorf("%w: browser item %q not found", ErrNotFound, itemURI)
	}
	if !node.IsLoadable {
		return LoadBrowserItemResult{}, fmt.Errorf("%w: browser item %q is not loadable", ErrBadValue, itemURI)
	}

	dev := deviceFromBrowserNode(node)
	dev.Index = len(t.Devices)
	t.Devices = append(t.Devices, dev)
	return LoadBrowserItemResult{DeviceIndex: dev.Index, Name: dev.Name}, nil
}

// LoadDeviceResult is load_device's return shape: the same as
// LoadBrowserItem plus the newly loaded device's parameter names.
type LoadDeviceResult struct {
	DeviceIndex    int
	Name           string
	ParameterNames []string
}

// LoadDevice loads deviceURI at deviceSlot (-1 appends) and returns the
// device's parameter name list for convenience.
func (s *Song) LoadDevice(trackIndex int, deviceURI string, deviceSlot int) (LoadDeviceResult, error) {
	s.mu.Lock()
	t, err := s.trackAt(trackIndex)
	if err != nil {
		s.mu.Unlock()
		return LoadDeviceResult{}, err
	}
	node := findByURI(s.Browser, deviceURI, 0)
	if node == nil {
		s.mu.Unlock()
		return LoadDeviceResult{}, fmt.Errorf("%w: browser item %q not found", ErrNotFound, deviceURI)
	}
	if !node.IsLoadable {
		s.mu.Unlock()
		return LoadDeviceResult{}, fmt.Errorf("%w: browser item %q is not loadable", ErrBadValue, deviceURI)
	}

	dev := deviceFromBrowserNode(node)
	if deviceSlot == -1 || deviceSlot >= len(t.Devices) {
		dev.Index = len(t.Devices)
		t.Devices = append(t.Devices, dev)
	} else if deviceSlot >= 0 {
		dev.Index = deviceSlot
		t.Devices[deviceSlot] = dev
	} else {
		s.mu.Unlock()
		return LoadDeviceResult{}, fmt.Errorf("%w: device slot %d out of range", ErrOutOfRange, deviceSlot)
	}
	names := make([]string, len(dev.Parameters))
	for i, p := range dev.Parameters {
		names[i] = p.Name
	}
	idx := dev.Index
	name := dev.Name
	s.mu.Unlock()
	return LoadDeviceResult{DeviceIndex: idx, Name: name, ParameterNames: names}, nil
}

// SampleLoadResult is the {loaded, warning?} shape
// load_simpler_with_sample/load_sampler_with_sample return.
type SampleLoadResult struct {
	DeviceIndex int
	Loaded      bool
	Warning     string
}

// LoadSampleIntoSampler uses the device already at deviceSlot when there is
// one (its class is not checked); otherwise it loads samplerURI and appends
// it to the device chain. It then tries, in order: (a) a browser
// path derived from filePath's breadcrumb, (b) a samples-root stem search,
// (c) a direct hotswap using the resolved sample node's URI.
func (s *Song) LoadSampleIntoSampler(trackIndex int, filePath, samplerURI string, deviceSlot int) (SampleLoadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.trackAt(trackIndex)
	if err != nil {
		return SampleLoadResult{}, err
	}

	var dev *Device
	if deviceSlot >= 0 && deviceSlot < len(t.Devices) {
		dev = t.Devices[deviceSlot]
	}
	if dev == nil {
		node := findByURI(s.Browser, samplerURI, 0)
		if node == nil {
			return SampleLoadResult{}, fmt.Errorf("%w: sampler instrument %q not found in browser", ErrNotFound, samplerURI)
		}
		dev = deviceFromBrowserNode(node)
		dev.Index = len(t.Devices)
		t.Devices = append(t.Devices, dev)
	}

	stem := stemOf(filePath)

	breadcrumb := []string{"samples"}
	if strings.Contains(filePath, "Factory Packs") {
		breadcrumb = []string{"samples", "Factory Packs"}
	} else if strings.Contains(filePath, "User Library") {
		breadcrumb = []string{"samples", "User Library"}
	} else if strings.Contains(filePath, "Core Library") {
		breadcrumb = []string{"samples", "Core Library"}
	}

	if node, err := resolvePath(s.Browser, strings.Join(breadcrumb, "/")); err == nil {
		for _, child := range node.Children {
			if strings.EqualFold(stemOf(child.Name), stem) {
				dev.SampleURI = child.URI
				return SampleLoadResult{DeviceIndex: dev.Index, Loaded: true}, nil
			}
		}
	}

	if node, err := FindSampleURIByStem(s.Browser, stem); err == nil {
		dev.SampleURI = node.URI
		return SampleLoadResult{DeviceIndex: dev.Index, Loaded: true}, nil
	}

	if node := findByURI(s.Browser, samplerURI, 0); node != nil {
		dev.SampleURI = samplerURI
		return SampleLoadResult{DeviceIndex: dev.Index, Loaded: true, Warning: "resolved via direct hotswap, not a breadcrumb or stem match"}, nil
	}

	return SampleLoadResult{DeviceIndex: dev.Index, Loaded: false, Warning: fmt.Sprintf("no browser path, stem match, or hotswap target found for %q", filePath)}, nil
}

// TestMidiParams is trigger_test_midi's parsed parameter set.
type TestMidiParams struct {
	TrackIndex    int
	ClipIndex     int
	Length        float64
	Pitch         int
	Velocity      int
	Duration      float64
	StartTime     float64
	OverwriteClip bool
	FireClip      bool
	CCNumber      *int
	CCValue       int
	Channel       int
}

// TestMidiResult is trigger_test_midi's return shape.
type TestMidiResult struct {
	NoteID    int64
	CCStatus  *int
	ClipFired bool
}

// TriggerTestMidi ensures the slot has a MIDI clip, writes a single note,
// optionally emits a raw MIDI CC, and optionally fires the clip.
func (s *Song) TriggerTestMidi(p TestMidiParams) (TestMidiResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, err := s.slotAt(p.TrackIndex, p.ClipIndex)
	if err != nil {
		return TestMidiResult{}, err
	}
	if slot.HasClip && !p.OverwriteClip {
		return TestMidiResult{}, fmt.Errorf("%w: slot already has a clip; pass overwrite_clip=true to replace it", ErrConflict)
	}
	if !slot.HasClip || p.OverwriteClip {
		length := p.Length
		if length <= 0 {
			length = 4.0
		}
		slot.HasClip = true
		slot.Clip = &Clip{Name: "Test MIDI", Length: length, IsMIDI: true, LoopEnd: length}
	}

	note := DefaultedNote(Note{
		Pitch:     p.Pitch,
		StartTime: p.StartTime,
		Duration:  p.Duration,
		Velocity:  p.Velocity,
	})
	note.NoteID = slot.Clip.allocateNoteID()
	slot.Clip.Notes = append(slot.Clip.Notes, note)

	result := TestMidiResult{NoteID: note.NoteID}

	if p.CCNumber != nil {
		status := 0xB0 | (p.Channel & 0x0F)
		result.CCStatus = &status
	}

	if p.FireClip {
		slot.Clip.Playing = true
		result.ClipFired = true
	}
	return result, nil
}
