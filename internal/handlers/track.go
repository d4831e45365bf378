package handlers

import (
	"context"

	"github.com/ableton-mcp/remote-bridge/internal/daw"
	"github.com/tidwall/gjson"
)

func registerTrackHandlers(r *Registry) {
	r.Register("get_track_info", false, getTrackInfo)
	r.Register("create_midi_track", true, createMidiTrack)
	r.Register("create_audio_track", true, createAudioTrack)
	r.Register("delete_track", true, deleteTrack)
	r.Register("duplicate_track", true, duplicateTrack)
	r.Register("set_track_name", true, setTrackName)
	r.Register("set_track_volume", true, setTrackVolume)
	r.Register("set_track_panning", true, setTrackPanning)
	r.Register("set_track_mute", true, setTrackMute)
	r.Register("set_track_solo", true, setTrackSolo)
	r.Register("set_track_arm", true, setTrackArm)
	r.Register("set_send_level", true, setSendLevel)
	r.Register("configure_track_routing", true, configureTrackRouting)
	r.Register("create_return_track", true, createReturnTrack)
	r.Register("delete_return_track", true, deleteReturnTrack)
	r.Register("set_return_track_name", true, setReturnTrackName)
}

func getTrackInfo(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	idx, err := reqInt(p, "track_index")
	if err != nil {
		return nil, err
	}
	view, err := song.TrackInfo(idx)
	if err != nil {
		return nil, err
	}

	sends := make([]map[string]any, 0, len(view.Sends))
	for _, sv := range view.Sends {
		sends = append(sends, map[string]any{
			"index":             sv.Index,
			"return_track_name": sv.ReturnTrackName,
			"value":             sv.Value,
			"min":               sv.Min,
			"max":               sv.Max,
		})
	}

	clipSlots := make([]map[string]any, 0, len(view.Clips))
	for _, cv := range view.Clips {
		slot := map[string]any{"has_clip": cv.HasClip}
		if cv.HasClip {
			slot["clip"] = map[string]any{
				"name":         cv.Name,
				"length":       cv.Length,
				"is_playing":   cv.Playing,
				"is_recording": cv.Recording,
			}
		}
		clipSlots = append(clipSlots, slot)
	}

	devices := make([]map[string]any, 0, len(view.Devices))
	for _, dv := range view.Devices {
		devices = append(devices, map[string]any{
			"index":      dv.Index,
			"name":       dv.Name,
			"class_name": dv.ClassName,
			"type":       string(dv.Type),
		})
	}

	return map[string]any{
		"index":      view.Index,
		"name":       view.Name,
		"kind":       string(view.Kind),
		"mute":       view.Mute,
		"solo":       view.Solo,
		"arm":        view.Arm,
		"volume":     view.Volume,
		"panning":    view.Panning,
		"sends":      sends,
		"clip_slots": clipSlots,
		"devices":    devices,
		"routing": map[string]any{
			"input_type":     view.Routing.InputType,
			"input_channel":  view.Routing.InputChannel,
			"output_type":    view.Routing.OutputType,
			"output_channel": view.Routing.OutputChannel,
			"monitor":        view.Routing.Monitor,
		},
	}, nil
}

func createMidiTrack(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	return createTrack(song, p, daw.KindMIDI)
}

func createAudioTrack(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	return createTrack(song, p, daw.KindAudio)
}

func createTrack(song *daw.Song, p gjson.Result, kind daw.TrackKind) (any, error) {
	index := optInt(p, "index", -1)
	idx, name, err := song.CreateTrack(kind, index)
	if err != nil {
		return nil, err
	}
	return map[string]any{"index": idx, "name": name}, nil
}

func deleteTrack(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	idx, err := reqInt(p, "track_index")
	if err != nil {
		return nil, err
	}
	if err := song.DeleteTrack(idx); err != nil {
		return nil, err
	}
	return map[string]any{"deleted": true}, nil
}

func duplicateTrack(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	idx, err := reqInt(p, "track_index")
	if err != nil {
		return nil, err
	}
	target := optIntPtr(p, "target_index")
	newIdx, note, err := song.DuplicateTrack(idx, target)
	if err != nil {
		return nil, err
	}
	result := map[string]any{"index": newIdx}
	if note != "" {
		result["note"] = note
	}
	return result, nil
}

func setTrackName(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	idx, err := reqInt(p, "track_index")
	if err != nil {
		return nil, err
	}
	name, err := reqString(p, "name")
	if err != nil {
		return nil, err
	}
	if err := song.SetTrackName(idx, name); err != nil {
		return nil, err
	}
	return map[string]any{"name": name}, nil
}

func setTrackVolume(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	idx, err := reqInt(p, "track_index")
	if err != nil {
		return nil, err
	}
	v, err := reqParamValue(p, "volume")
	if err != nil {
		return nil, err
	}
	value, err := song.SetTrackVolume(idx, v)
	if err != nil {
		return nil, err
	}
	return map[string]any{"volume": value}, nil
}

func setTrackPanning(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	idx, err := reqInt(p, "track_index")
	if err != nil {
		return nil, err
	}
	v, err := reqParamValue(p, "panning")
	if err != nil {
		return nil, err
	}
	value, err := song.SetTrackPanning(idx, v)
	if err != nil {
		return nil, err
	}
	return map[string]any{"panning": value}, nil
}

func setTrackMute(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	idx, err := reqInt(p, "track_index")
	if err != nil {
		return nil, err
	}
	v := optBool(p, "mute", false)
	if err := song.SetTrackMute(idx, v); err != nil {
		return nil, err
	}
	return map[string]any{"mute": v}, nil
}

func setTrackSolo(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	idx, err := reqInt(p, "track_index")
	if err != nil {
		return nil, err
	}
	v := optBool(p, "solo", false)
	if err := song.SetTrackSolo(idx, v); err != nil {
		return nil, err
	}
	return map[string]any{"solo": v}, nil
}

func setTrackArm(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	idx, err := reqInt(p, "track_index")
	if err != nil {
		return nil, err
	}
	v := optBool(p, "arm", false)
	if err := song.SetTrackArm(idx, v); err != nil {
		return nil, err
	}
	return map[string]any{"arm": v}, nil
}

func setSendLevel(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	trackIdx, err := reqInt(p, "track_index")
	if err != nil {
		return nil, err
	}
	sendIdx, err := reqInt(p, "send_index")
	if err != nil {
		return nil, err
	}
	v, err := reqParamValue(p, "level")
	if err != nil {
		return nil, err
	}
	value, err := song.SetSendLevel(trackIdx, sendIdx, v)
	if err != nil {
		return nil, err
	}
	return map[string]any{"level": value}, nil
}

func configureTrackRouting(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	trackIdx, err := reqInt(p, "track_index")
	if err != nil {
		return nil, err
	}

	upd := daw.RoutingUpdate{
		InputType:     anyRef(p, "input_type"),
		InputChannel:  anyRef(p, "input_channel"),
		OutputType:    anyRef(p, "output_type"),
		OutputChannel: anyRef(p, "output_channel"),
		Monitor:       optStringPtr(p, "monitor"),
		Arm:           optBoolPtr(p, "arm"),
		Sends:         decodeSends(p, "sends"),
	}

	result, err := song.ConfigureTrackRouting(trackIdx, upd)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"input_type":     result.InputType,
		"input_channel":  result.InputChannel,
		"output_type":    result.OutputType,
		"output_channel": result.OutputChannel,
		"monitor":        result.Monitor,
		"arm":            result.Arm,
		"sends":          result.Sends,
		"errors":         result.Errors,
	}, nil
}

func createReturnTrack(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	name := optString(p, "name", "")
	idx, err := song.CreateReturnTrack(name)
	if err != nil {
		return nil, err
	}
	return map[string]any{"index": idx}, nil
}

func deleteReturnTrack(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	idx, err := reqInt(p, "index")
	if err != nil {
		return nil, err
	}
	if err := song.DeleteReturnTrack(idx); err != nil {
		return nil, err
	}
	return map[string]any{"deleted": true}, nil
}

func setReturnTrackName(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	idx, err := reqInt(p, "index")
	if err != nil {
		return nil, err
	}
	name, err := reqString(p, "name")
	if err != nil {
		return nil, err
	}
	if err := song.SetReturnTrackName(idx, name); err != nil {
		return nil, err
	}
	return map[string]any{"name": name}, nil
}
