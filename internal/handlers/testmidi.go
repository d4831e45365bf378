package handlers

import (
	"context"

	"github.com/ableton-mcp/remote-bridge/internal/daw"
	"github.com/tidwall/gjson"
)

func registerTestMidiHandlers(r *Registry) {
	r.Register("trigger_test_midi", true, triggerTestMidi)
}

func triggerTestMidi(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	trackIdx, err := reqInt(p, "track_index")
	if err != nil {
		return nil, err
	}
	clipIdx, err := reqInt(p, "clip_index")
	if err != nil {
		return nil, err
	}

	params := daw.TestMidiParams{
		TrackIndex:    trackIdx,
		ClipIndex:     clipIdx,
		Length:        optFloat(p, "length", 4.0),
		Pitch:         optInt(p, "pitch", 60),
		Velocity:      optInt(p, "velocity", 100),
		Duration:      optFloat(p, "duration", 0.5),
		StartTime:     optFloat(p, "start_time", 0),
		OverwriteClip: optBool(p, "overwrite_clip", false),
		FireClip:      optBool(p, "fire_clip", false),
		CCNumber:      optIntPtr(p, "cc_number"),
		CCValue:       optInt(p, "cc_value", 0),
		Channel:       optInt(p, "channel", 0),
	}

	result, err := song.TriggerTestMidi(params)
	if err != nil {
		return nil, err
	}

	out := map[string]any{"note_id": result.NoteID, "clip_fired": result.ClipFired}
	if result.CCStatus != nil {
		out["cc_status"] = *result.CCStatus
	}
	return out, nil
}
