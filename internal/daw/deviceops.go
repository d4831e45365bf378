package daw

import (
	"fmt"
	"strconv"
	"strings"
)

func (s *Song) deviceAt(trackIndex, deviceIndex int) (*Device, error) {
	t, err := s.trackAt(trackIndex)
	if err != nil {
		return nil, err
	}
	if deviceIndex < 0 || deviceIndex >= len(t.Devices) {
		return nil, fmt.Errorf("%w: device index %d out of range", ErrOutOfRange, deviceIndex)
	}
	return t.Devices[deviceIndex], nil
}

// resolveParamRef resolves parameter (an integer index or a case-insensitive
// name) against dev's parameter list.
func resolveParamRef(dev *Device, ref any) (*Parameter, error) {
	switch v := ref.(type) {
	case int:
		if v < 0 || v >= len(dev.Parameters) {
			return nil, fmt.Errorf("%w: parameter index %d out of range", ErrOutOfRange, v)
		}
		return dev.Parameters[v], nil
	case float64:
		idx := int(v)
		if idx < 0 || idx >= len(dev.Parameters) {
			return nil, fmt.Errorf("%w: parameter index %d out of range", ErrOutOfRange, idx)
		}
		return dev.Parameters[idx], nil
	case string:
		if idx, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return resolveParamRef(dev, idx)
		}
		for _, p := range dev.Parameters {
			if strings.EqualFold(p.Name, v) {
				return p, nil
			}
		}
		return nil, fmt.Errorf("%w: no parameter named %q", ErrNotFound, v)
	default:
		return nil, fmt.Errorf("%w: unsupported parameter reference type %T", ErrBadValue, ref)
	}
}

// GetDeviceParameters returns a copy of dev's full parameter list.
func (s *Song) GetDeviceParameters(trackIndex, deviceIndex int) ([]*Parameter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	dev, err := s.deviceAt(trackIndex, deviceIndex)
	if err != nil {
		return nil, err
	}
	return append([]*Parameter(nil), dev.Parameters...), nil
}

// SetDeviceParameter resolves ref against the device's parameters, then
// normalizes and clamps value.
func (s *Song) SetDeviceParameter(trackIndex, deviceIndex int, ref any, value ParamValue) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dev, err := s.deviceAt(trackIndex, deviceIndex)
	if err != nil {
		return 0, err
	}
	p, err := resolveParamRef(dev, ref)
	if err != nil {
		return 0, err
	}
	n, err := Normalize(p, value)
	if err != nil {
		return 0, err
	}
	return p.Set(n), nil
}

// ParamUpdate is one resolved {param, value} pair from set_device_parameters'
// polymorphic batch payload.
type ParamUpdate struct {
	Ref   any
	Value ParamValue
}

// SetDeviceParametersResult is the {updated, errors} aggregate
// set_device_parameters returns.
type SetDeviceParametersResult struct {
	Updated []string
	Errors  []string
}

// SetDeviceParameters applies each update independently, continuing past
// per-parameter failures.
func (s *Song) SetDeviceParameters(trackIndex, deviceIndex int, updates []ParamUpdate) (SetDeviceParametersResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dev, err := s.deviceAt(trackIndex, deviceIndex)
	if err != nil {
		return SetDeviceParametersResult{}, err
	}

	var res SetDeviceParametersResult
	for _, u := range updates {
		p, perr := resolveParamRef(dev, u.Ref)
		if perr != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("%v: %v", u.Ref, perr))
			continue
		}
		n, nerr := Normalize(p, u.Value)
		if nerr != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", p.Name, nerr))
			continue
		}
		p.Set(n)
		res.Updated = append(res.Updated, p.Name)
	}
	return res, nil
}

// SaveDeviceSnapshot returns {parameter_name: value} for every parameter.
func (s *Song) SaveDeviceSnapshot(trackIndex, deviceIndex int) (map[string]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	dev, err := s.deviceAt(trackIndex, deviceIndex)
	if err != nil {
		return nil, err
	}
	snap := make(map[string]float64, len(dev.Parameters))
	for _, p := range dev.Parameters {
		snap[p.Name] = p.Value
	}
	return snap, nil
}

// ApplyDeviceSnapshot restores parameter values by name, returning per-name
// applied/error status.
func (s *Song) ApplyDeviceSnapshot(trackIndex, deviceIndex int, snapshot map[string]float64) (applied []string, errs []string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dev, derr := s.deviceAt(trackIndex, deviceIndex)
	if derr != nil {
		return nil, nil, derr
	}
	for name, value := range snapshot {
		p, perr := resolveParamRef(dev, name)
		if perr != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", name, perr))
			continue
		}
		p.Set(value)
		applied = append(applied, name)
	}
	return applied, errs, nil
}

// SetDeviceSidechainSource enables sidechain on the device and points it at
// sourceTrackIndex: host enums are 1-based with 0 = None, so
// the stored SidechainSource is sourceTrackIndex+1. Also sets the mono and
// pre-fx flags. The device's own input routing (AudioInputType /
// AudioInputChannel) is left unchanged, even on a device with I/O endpoints.
func (s *Song) SetDeviceSidechainSource(trackIndex, deviceIndex, sourceTrackIndex int, preFX, mono bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	dev, err := s.deviceAt(trackIndex, deviceIndex)
	if err != nil {
		return err
	}
	if !dev.IsSidechainCapable {
		return fmt.Errorf("%w: device %q does not support sidechaining", ErrUnsupported, dev.Name)
	}
	if sourceTrackIndex < 0 || sourceTrackIndex >= len(s.Tracks)+len(s.Returns) {
		return fmt.Errorf("%w: sidechain source track index %d out of range", ErrOutOfRange, sourceTrackIndex)
	}
	dev.SidechainOn = true
	dev.SidechainSource = sourceTrackIndex + 1
	dev.SidechainPreFX = preFX
	dev.SidechainMono = mono
	return nil
}

// SetDeviceAudioInput resolves inputType/inputChannel against the device's
// per-device I/O endpoint lists. A device without I/O endpoints fails with
// ErrUnsupported; no other routing is tried.
func (s *Song) SetDeviceAudioInput(trackIndex, deviceIndex int, inputType, inputChannel any) (DeviceAudioInputResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dev, err := s.deviceAt(trackIndex, deviceIndex)
	if err != nil {
		return DeviceAudioInputResult{}, err
	}
	if !dev.HasIOEndpoints {
		return DeviceAudioInputResult{}, fmt.Errorf("%w: device %q does not expose per-device audio input routing", ErrUnsupported, dev.Name)
	}

	if inputType != nil {
		opt, rerr := ResolveOption(dev.InputRoutingTypes, inputType)
		if rerr != nil {
			return DeviceAudioInputResult{}, fmt.Errorf("input_type: %w", rerr)
		}
		if opt != nil {
			dev.AudioInputType = opt.DisplayName
		}
	}
	if inputChannel != nil {
		opt, rerr := ResolveOption(dev.InputRoutingChannels, inputChannel)
		if rerr != nil {
			return DeviceAudioInputResult{}, fmt.Errorf("input_channel: %w", rerr)
		}
		if opt != nil {
			dev.AudioInputChannel = opt.DisplayName
		}
	}
	return DeviceAudioInputResult{InputType: dev.AudioInputType, InputChannel: dev.AudioInputChannel}, nil
}

// DeviceAudioInputResult is set_device_audio_input's return shape.
type DeviceAudioInputResult struct {
	InputType    string
	InputChannel string
}

// RoutableDevice names one device that exposes input routing options, for
// list_routable_devices.
type RoutableDevice struct {
	TrackIndex  int
	DeviceIndex int
	Name        string
}

// ListRoutableDevices enumerates every device across all tracks that
// exposes input routing options.
func (s *Song) ListRoutableDevices() []RoutableDevice {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []RoutableDevice
	for ti, t := range s.Tracks {
		for di, d := range t.Devices {
			if d.HasIOEndpoints {
				out = append(out, RoutableDevice{TrackIndex: ti, DeviceIndex: di, Name: d.Name})
			}
		}
	}
	return out
}

// AddDevice appends a device to the track's device chain, returning its
// index. Used by the browser-loading handlers once a browser item/device
// spec has been resolved.
func (s *Song) AddDevice(trackIndex int, dev *Device) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.trackAt(trackIndex)
	if err != nil {
		return 0, err
	}
	dev.Index = len(t.Devices)
	t.Devices = append(t.Devices, dev)
	return dev.Index, nil
}
