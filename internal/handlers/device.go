package handlers

import (
	"context"

	"github.com/ableton-mcp/remote-bridge/internal/daw"
	"github.com/tidwall/gjson"
)

func registerDeviceHandlers(r *Registry) {
	r.Register("get_device_parameters", false, getDeviceParameters)
	r.Register("set_device_parameter", true, setDeviceParameter)
	r.Register("set_device_parameters", true, setDeviceParameters)
	r.Register("save_device_snapshot", false, saveDeviceSnapshot)
	r.Register("apply_device_snapshot", true, applyDeviceSnapshot)
	r.Register("set_device_sidechain_source", true, setDeviceSidechainSource)
	r.Register("set_device_audio_input", true, setDeviceAudioInput)
	r.Register("list_routable_devices", false, listRoutableDevices)
}

func encodeParameters(params []*daw.Parameter) []map[string]any {
	out := make([]map[string]any, 0, len(params))
	for _, pm := range params {
		entry := map[string]any{
			"index":        pm.Index,
			"name":         pm.Name,
			"min":          pm.Min,
			"max":          pm.Max,
			"value":        pm.Value,
			"is_quantized": pm.IsQuantized,
		}
		if len(pm.ValueItems) > 0 {
			entry["value_items"] = pm.ValueItems
		}
		if pm.Unit != "" {
			entry["unit"] = pm.Unit
		}
		out = append(out, entry)
	}
	return out
}

func getDeviceParameters(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	trackIdx, err := reqInt(p, "track_index")
	if err != nil {
		return nil, err
	}
	deviceIdx, err := reqInt(p, "device_index")
	if err != nil {
		return nil, err
	}
	params, err := song.GetDeviceParameters(trackIdx, deviceIdx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"parameters": encodeParameters(params)}, nil
}

func setDeviceParameter(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	trackIdx, err := reqInt(p, "track_index")
	if err != nil {
		return nil, err
	}
	deviceIdx, err := reqInt(p, "device_index")
	if err != nil {
		return nil, err
	}
	ref := paramRef(p, "parameter")
	value, err := reqParamValue(p, "value")
	if err != nil {
		return nil, err
	}
	v, err := song.SetDeviceParameter(trackIdx, deviceIdx, ref, value)
	if err != nil {
		return nil, err
	}
	return map[string]any{"value": v}, nil
}

func setDeviceParameters(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	trackIdx, err := reqInt(p, "track_index")
	if err != nil {
		return nil, err
	}
	deviceIdx, err := reqInt(p, "device_index")
	if err != nil {
		return nil, err
	}
	updates := decodeParamUpdates(p, "parameters")
	result, err := song.SetDeviceParameters(trackIdx, deviceIdx, updates)
	if err != nil {
		return nil, err
	}
	return map[string]any{"updated": result.Updated, "errors": result.Errors}, nil
}

func saveDeviceSnapshot(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	trackIdx, err := reqInt(p, "track_index")
	if err != nil {
		return nil, err
	}
	deviceIdx, err := reqInt(p, "device_index")
	if err != nil {
		return nil, err
	}
	snap, err := song.SaveDeviceSnapshot(trackIdx, deviceIdx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"snapshot": snap}, nil
}

func applyDeviceSnapshot(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	trackIdx, err := reqInt(p, "track_index")
	if err != nil {
		return nil, err
	}
	deviceIdx, err := reqInt(p, "device_index")
	if err != nil {
		return nil, err
	}
	snap := map[string]float64{}
	p.Get("snapshot").ForEach(func(key, val gjson.Result) bool {
		snap[key.String()] = val.Float()
		return true
	})
	applied, errs, err := song.ApplyDeviceSnapshot(trackIdx, deviceIdx, snap)
	if err != nil {
		return nil, err
	}
	return map[string]any{"applied": applied, "errors": errs}, nil
}

func setDeviceSidechainSource(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	trackIdx, err := reqInt(p, "track_index")
	if err != nil {
		return nil, err
	}
	deviceIdx, err := reqInt(p, "device_index")
	if err != nil {
		return nil, err
	}
	sourceTrackIdx, err := reqInt(p, "source_track_index")
	if err != nil {
		return nil, err
	}
	preFX := optBool(p, "pre_fx", true)
	mono := optBool(p, "mono", true)

	if err := song.SetDeviceSidechainSource(trackIdx, deviceIdx, sourceTrackIdx, preFX, mono); err != nil {
		return nil, err
	}
	return map[string]any{"sidechain_on": true}, nil
}

func setDeviceAudioInput(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	trackIdx, err := reqInt(p, "track_index")
	if err != nil {
		return nil, err
	}
	deviceIdx, err := reqInt(p, "device_index")
	if err != nil {
		return nil, err
	}
	inputType := anyRef(p, "input_type")
	inputChannel := anyRef(p, "input_channel")

	result, err := song.SetDeviceAudioInput(trackIdx, deviceIdx, inputType, inputChannel)
	if err != nil {
		return nil, err
	}
	return map[string]any{"input_type": result.InputType, "input_channel": result.InputChannel}, nil
}

func listRoutableDevices(_ context.Context, song *daw.Song, _ gjson.Result) (any, error) {
	devices := song.ListRoutableDevices()
	out := make([]map[string]any, 0, len(devices))
	for _, d := range devices {
		out = append(out, map[string]any{
			"track_index":  d.TrackIndex,
			"device_index": d.DeviceIndex,
			"name":         d.Name,
		})
	}
	return map[string]any{"devices": out}, nil
}
