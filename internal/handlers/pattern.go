package handlers

import (
	"context"

	"github.com/ableton-mcp/remote-bridge/internal/daw"
	"github.com/tidwall/gjson"
)

func registerPatternHandlers(r *Registry) {
	r.Register("add_basic_drum_pattern", true, addBasicDrumPattern)
	r.Register("add_chord_stack", true, addChordStack)
}

func addBasicDrumPattern(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	trackIdx, err := reqInt(p, "track_index")
	if err != nil {
		return nil, err
	}
	clipIdx, err := reqInt(p, "clip_index")
	if err != nil {
		return nil, err
	}
	length := optFloat(p, "length", 4.0)
	velocity := optInt(p, "velocity", 100)
	style := optString(p, "style", "four_on_floor")

	result, err := song.AddBasicDrumPattern(trackIdx, clipIdx, length, velocity, style)
	if err != nil {
		return nil, err
	}
	return map[string]any{"note_count": result.NoteCount, "style": result.Label}, nil
}

func addChordStack(_ context.Context, song *daw.Song, p gjson.Result) (any, error) {
	trackIdx, err := reqInt(p, "track_index")
	if err != nil {
		return nil, err
	}
	clipIdx, err := reqInt(p, "clip_index")
	if err != nil {
		return nil, err
	}
	rootMIDI := optInt(p, "root_midi", 60)
	quality := optString(p, "quality", "major")
	bars := optInt(p, "bars", 4)
	chordLength := optFloat(p, "chord_length", 1.0)

	result, err := song.AddChordStack(trackIdx, clipIdx, rootMIDI, quality, bars, chordLength)
	if err != nil {
		return nil, err
	}
	return map[string]any{"note_count": result.NoteCount, "quality": result.Label}, nil
}
