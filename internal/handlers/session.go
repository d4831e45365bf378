package handlers

import (
	"context"

	"github.com/ableton-mcp/remote-bridge/internal/daw"
	"github.com/tidwall/gjson"
)

func registerSessionHandlers(r *Registry) {
	r.Register("get_session_info", false, getSessionInfo)
	r.Register("set_tempo", true, setTempo)
	r.Register("set_time_signature", true, setTimeSignature)
	r.Register("start_playback", true, startPlayback)
	r.Register("stop_playback", true, stopPlayback)
	r.Register("get_song_context", false, getSongContext)
}

func getSessionInfo(_ context.Context, song *daw.Song, _ gjson.Result) (any, error) {
	info := song.SessionInfo()
	return map[string]any{
		"tempo":                 info.Tempo,
		"signature_numerator":   info.SigNum,
		"signature_denominator": info.SigDenom,
		"is_playing":            info.Playing,
		"track_count":           info.TrackCount,
		"scene_count":           info.SceneCount,
		"return_track_count":    info.ReturnCount,
		"master_track": map[string]any{
			"name":    info.MasterName,
			"volume":  info.MasterVolume,
			"panning": info.MasterPanning,
		},
	}, nil
}

func setTempo(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	bpm, err := reqFloat(p, "tempo")
	if err != nil {
		return nil, err
	}
	return map[string]any{"tempo": song.SetTempo(bpm)}, nil
}

func setTimeSignature(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	num, err := reqInt(p, "numerator")
	if err != nil {
		return nil, err
	}
	denom, err := reqInt(p, "denominator")
	if err != nil {
		return nil, err
	}
	n, d := song.SetTimeSignature(num, denom)
	return map[string]any{"signature_numerator": n, "signature_denominator": d}, nil
}

func startPlayback(_ context.Context, song *daw.Song, _ gjson.Result) (any, error) {
	return map[string]any{"is_playing": song.SetPlaying(true)}, nil
}

func stopPlayback(_ context.Context, song *daw.Song, _ gjson.Result) (any, error) {
	return map[string]any{"is_playing": song.SetPlaying(false)}, nil
}

func getSongContext(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	includeClips := optBool(p, "include_clips", false)
	view := song.SongContext(includeClips)

	tracks := make([]map[string]any, 0, len(view.Tracks))
	for _, t := range view.Tracks {
		tr := map[string]any{
			"name":      t.Name,
			"kind":      string(t.Kind),
			"mute":      t.Mute,
			"solo":      t.Solo,
			"arm":       t.Arm,
			"devices":   t.Devices,
			"has_clips": t.HasClips,
		}
		if includeClips {
			clips := make([]map[string]any, 0, len(t.Clips))
			for _, c := range t.Clips {
				clips = append(clips, map[string]any{
					"slot_index": c.SlotIndex,
					"name":       c.Name,
					"length":     c.Length,
					"is_playing": c.Playing,
				})
			}
			tr["clips"] = clips
		}
		tracks = append(tracks, tr)
	}

	return map[string]any{
		"tracks":         tracks,
		"scenes":         view.Scenes,
		"tempo":          view.Tempo,
		"time_signature": view.TimeSignature,
		"is_playing":     view.Playing,
	}, nil
}
