package daw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddBasicDrumPattern_FourOnFloor(t *testing.T) {
	s, idx := newSongWithOneMidiClipSlot(t)

	res, err := s.AddBasicDrumPattern(idx, 0, 1.0, 100, "four_on_floor")
	require.NoError(t, err)
	// 4 kicks + 2 snares + 8 hats = 14 notes for a single bar.
	assert.Equal(t, 14, res.NoteCount)
	assert.Equal(t, "four_on_floor", res.Label)

	notes, err := s.GetClipNotes(idx, 0)
	require.NoError(t, err)
	assert.Len(t, notes, 14)
}

func TestAddBasicDrumPattern_Trap(t *testing.T) {
	s, idx := newSongWithOneMidiClipSlot(t)

	res, err := s.AddBasicDrumPattern(idx, 0, 1.0, 100, "trap")
	require.NoError(t, err)
	// 2 kicks + 1 snare + 8 hats + 2 extra ghost hats = 13 notes.
	assert.Equal(t, 13, res.NoteCount)
}

func TestAddBasicDrumPattern_ReplacesExistingNotes(t *testing.T) {
	s, idx := newSongWithOneMidiClipSlot(t)
	require.NoError(t, s.CreateClip(idx, 0, 4))
	_, err := s.AddNotesToClip(idx, 0, []Note{{Pitch: 99, Duration: 1, Velocity: 50}})
	require.NoError(t, err)

	_, err = s.AddBasicDrumPattern(idx, 0, 1.0, 100, "four_on_floor")
	require.NoError(t, err)

	notes, err := s.GetClipNotes(idx, 0)
	require.NoError(t, err)
	for _, n := range notes {
		assert.NotEqual(t, 99, n.Pitch, "drum pattern must replace, not append to, existing notes")
	}
}

func TestAddChordStack_KnownAndUnknownQuality(t *testing.T) {
	s, idx := newSongWithOneMidiClipSlot(t)

	res, err := s.AddChordStack(idx, 0, 60, "minor", 2, 1.0)
	require.NoError(t, err)
	assert.Equal(t, 6, res.NoteCount) // 3 notes/chord * 2 bars

	notes, err := s.GetClipNotes(idx, 0)
	require.NoError(t, err)
	pitches := map[int]bool{}
	for _, n := range notes {
		pitches[n.Pitch] = true
	}
	assert.True(t, pitches[60])
	assert.True(t, pitches[63])
	assert.True(t, pitches[67])

	res2, err := s.AddChordStack(idx, 0, 60, "bogus-quality", 1, 1.0)
	require.NoError(t, err)
	assert.Equal(t, 3, res2.NoteCount, "unknown quality falls back to major's 3-note triad")
}
