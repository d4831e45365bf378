package handlers

import (
	"context"

	"github.com/ableton-mcp/remote-bridge/internal/daw"
	"github.com/tidwall/gjson"
)

func registerClipHandlers(r *Registry) {
	r.Register("create_clip", true, createClip)
	r.Register("delete_clip", true, deleteClip)
	r.Register("duplicate_clip", true, duplicateClip)
	r.Register("add_notes_to_clip", true, addNotesToClip)
	r.Register("get_clip_notes", false, getClipNotes)
	r.Register("set_clip_name", true, setClipName)
	r.Register("set_clip_loop", true, setClipLoop)
	r.Register("set_clip_length", true, setClipLength)
	r.Register("quantize_clip", true, quantizeClip)
	r.Register("fire_clip", true, fireClip)
	r.Register("stop_clip", true, stopClip)
	r.Register("fire_clip_by_name", true, fireClipByName)
}

func createClip(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	trackIdx, err := reqInt(p, "track_index")
	if err != nil {
		return nil, err
	}
	clipIdx, err := reqInt(p, "clip_index")
	if err != nil {
		return nil, err
	}
	length := optFloat(p, "length", 4.0)
	if err := song.CreateClip(trackIdx, clipIdx, length); err != nil {
		return nil, err
	}
	return map[string]any{"created": true}, nil
}

func deleteClip(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	trackIdx, err := reqInt(p, "track_index")
	if err != nil {
		return nil, err
	}
	clipIdx, err := reqInt(p, "clip_index")
	if err != nil {
		return nil, err
	}
	if err := song.DeleteClip(trackIdx, clipIdx); err != nil {
		return nil, err
	}
	return map[string]any{"deleted": true}, nil
}

func duplicateClip(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	trackIdx, err := reqInt(p, "track_index")
	if err != nil {
		return nil, err
	}
	clipIdx, err := reqInt(p, "clip_index")
	if err != nil {
		return nil, err
	}
	targetTrack := optIntPtr(p, "target_track_index")
	targetClip := optIntPtr(p, "target_clip_index")

	dstTrack, dstClip, note, err := song.DuplicateClip(trackIdx, clipIdx, targetTrack, targetClip)
	if err != nil {
		return nil, err
	}
	result := map[string]any{"track_index": dstTrack, "clip_index": dstClip}
	if note != "" {
		result["note"] = note
	}
	return result, nil
}

func addNotesToClip(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	trackIdx, err := reqInt(p, "track_index")
	if err != nil {
		return nil, err
	}
	clipIdx, err := reqInt(p, "clip_index")
	if err != nil {
		return nil, err
	}
	notes := decodeNotes(p, "notes")
	count, err := song.AddNotesToClip(trackIdx, clipIdx, notes)
	if err != nil {
		return nil, err
	}
	return map[string]any{"note_count": count}, nil
}

func getClipNotes(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	trackIdx, err := reqInt(p, "track_index")
	if err != nil {
		return nil, err
	}
	clipIdx, err := reqInt(p, "clip_index")
	if err != nil {
		return nil, err
	}
	notes, err := song.GetClipNotes(trackIdx, clipIdx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"notes": encodeNotes(notes)}, nil
}

func encodeNotes(notes []daw.Note) []map[string]any {
	out := make([]map[string]any, 0, len(notes))
	for _, n := range notes {
		out = append(out, map[string]any{
			"pitch":              n.Pitch,
			"start_time":         n.StartTime,
			"duration":           n.Duration,
			"velocity":           n.Velocity,
			"mute":               n.Mute,
			"probability":        n.Probability,
			"velocity_deviation": n.VelocityDeviation,
			"release_velocity":   n.ReleaseVelocity,
			"note_id":            n.NoteID,
		})
	}
	return out
}

func setClipName(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	trackIdx, err := reqInt(p, "track_index")
	if err != nil {
		return nil, err
	}
	clipIdx, err := reqInt(p, "clip_index")
	if err != nil {
		return nil, err
	}
	name, err := reqString(p, "name")
	if err != nil {
		return nil, err
	}
	if err := song.SetClipName(trackIdx, clipIdx, name); err != nil {
		return nil, err
	}
	return map[string]any{"name": name}, nil
}

func setClipLoop(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	trackIdx, err := reqInt(p, "track_index")
	if err != nil {
		return nil, err
	}
	clipIdx, err := reqInt(p, "clip_index")
	if err != nil {
		return nil, err
	}
	start := optFloatPtr(p, "start")
	end := optFloatPtr(p, "end")
	loopOn := optBool(p, "loop_on", true)

	if err := song.SetClipLoop(trackIdx, clipIdx, start, end, loopOn); err != nil {
		return nil, err
	}
	return map[string]any{"loop_on": loopOn}, nil
}

func setClipLength(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	trackIdx, err := reqInt(p, "track_index")
	if err != nil {
		return nil, err
	}
	clipIdx, err := reqInt(p, "clip_index")
	if err != nil {
		return nil, err
	}
	length, err := reqFloat(p, "length")
	if err != nil {
		return nil, err
	}
	if err := song.SetClipLength(trackIdx, clipIdx, length); err != nil {
		return nil, err
	}
	return map[string]any{"length": length}, nil
}

func quantizeClip(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	trackIdx, err := reqInt(p, "track_index")
	if err != nil {
		return nil, err
	}
	clipIdx, err := reqInt(p, "clip_index")
	if err != nil {
		return nil, err
	}
	grid, err := reqInt(p, "grid")
	if err != nil {
		return nil, err
	}
	amount := optFloat(p, "amount", 1.0)
	if err := song.QuantizeClip(trackIdx, clipIdx, grid, amount); err != nil {
		return nil, err
	}
	return map[string]any{"quantized": true}, nil
}

func fireClip(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	trackIdx, err := reqInt(p, "track_index")
	if err != nil {
		return nil, err
	}
	clipIdx, err := reqInt(p, "clip_index")
	if err != nil {
		return nil, err
	}
	if err := song.FireClip(trackIdx, clipIdx); err != nil {
		return nil, err
	}
	return map[string]any{"fired": true}, nil
}

func stopClip(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	trackIdx, err := reqInt(p, "track_index")
	if err != nil {
		return nil, err
	}
	clipIdx, err := reqInt(p, "clip_index")
	if err != nil {
		return nil, err
	}
	if err := song.StopClip(trackIdx, clipIdx); err != nil {
		return nil, err
	}
	return map[string]any{"stopped": true}, nil
}

func fireClipByName(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	clipPattern, err := reqString(p, "clip_pattern")
	if err != nil {
		return nil, err
	}
	trackPattern := optString(p, "track_pattern", "")
	mode := matchMode(p, "match_mode")
	firstOnly := optBool(p, "first_only", true)

	matches, err := song.FireClipByName(clipPattern, trackPattern, mode, firstOnly)
	if err != nil {
		return nil, err
	}

	fired := make([]map[string]any, 0, len(matches))
	for _, m := range matches {
		fired = append(fired, map[string]any{"track_index": m.TrackIndex, "clip_index": m.ClipIndex})
	}
	return map[string]any{"fired_clips": fired}, nil
}
