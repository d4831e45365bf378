package daw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSongWithOneMidiClipSlot(t *testing.T) (*Song, int) {
	t.Helper()
	s := NewSong()
	_, err := s.CreateScene(-1, "")
	require.NoError(t, err)
	idx, _, err := s.CreateTrack(KindMIDI, -1)
	require.NoError(t, err)
	return s, idx
}

func TestCreateClip_ConflictOnOccupiedSlot(t *testing.T) {
	s, idx := newSongWithOneMidiClipSlot(t)
	require.NoError(t, s.CreateClip(idx, 0, 4))

	err := s.CreateClip(idx, 0, 4)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestAddNotesToClip_AppendsAndDefaultsExtendedFields(t *testing.T) {
	s, idx := newSongWithOneMidiClipSlot(t)
	require.NoError(t, s.CreateClip(idx, 0, 4))

	n, err := s.AddNotesToClip(idx, 0, []Note{{Pitch: 60, StartTime: 0, Duration: 1, Velocity: 100}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.AddNotesToClip(idx, 0, []Note{{Pitch: 64, StartTime: 1, Duration: 1, Velocity: 90}})
	require.NoError(t, err)
	assert.Equal(t, 2, n, "must append, not replace")

	notes, err := s.GetClipNotes(idx, 0)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, 1.0, notes[0].Probability)
	assert.Equal(t, 64, notes[0].ReleaseVelocity)
	assert.NotEqual(t, notes[0].NoteID, notes[1].NoteID)
}

func TestSetClipLoop_RejectsEndLessThanStart(t *testing.T) {
	s, idx := newSongWithOneMidiClipSlot(t)
	require.NoError(t, s.CreateClip(idx, 0, 4))

	start, end := 2.0, 1.0
	err := s.SetClipLoop(idx, 0, &start, &end, true)
	assert.ErrorIs(t, err, ErrBadValue)
}

func TestQuantizeClip(t *testing.T) {
	s, idx := newSongWithOneMidiClipSlot(t)
	require.NoError(t, s.CreateClip(idx, 0, 4))
	_, err := s.AddNotesToClip(idx, 0, []Note{{Pitch: 60, StartTime: 0.1, Duration: 0.3, Velocity: 100}})
	require.NoError(t, err)

	// grid=16 => 1/16 note => 0.25 beats; amount=1 snaps fully.
	require.NoError(t, s.QuantizeClip(idx, 0, 16, 1.0))

	notes, err := s.GetClipNotes(idx, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, notes[0].StartTime, 1e-9)
	assert.InDelta(t, 0.25, notes[0].Duration, 1e-9)
}

func TestQuantizeClip_PartialAmountBlends(t *testing.T) {
	s, idx := newSongWithOneMidiClipSlot(t)
	require.NoError(t, s.CreateClip(idx, 0, 4))
	_, err := s.AddNotesToClip(idx, 0, []Note{{Pitch: 60, StartTime: 0.5, Duration: 0.3, Velocity: 100}})
	require.NoError(t, err)

	require.NoError(t, s.QuantizeClip(idx, 0, 16, 0.5))

	notes, err := s.GetClipNotes(idx, 0)
	require.NoError(t, err)
	// quantized start for 0.5 at 0.25 grid is 0.5 exactly, so blend has no
	// visible effect on start; duration 0.3 -> nearest 0.25 grid is 0.25,
	// blended 50% = 0.275.
	assert.InDelta(t, 0.275, notes[0].Duration, 1e-9)
}

func TestDuplicateClip_AudioGetsPlaceholderAndWarning(t *testing.T) {
	s := NewSong()
	_, _ = s.CreateScene(-1, "")
	idx, _, _ := s.CreateTrack(KindAudio, -1)
	require.NoError(t, s.CreateClip(idx, 0, 4))

	track, _ := s.trackAt(idx)
	track.ClipSlots[0].Clip.IsMIDI = false

	dstTrack, dstClip, note, err := s.DuplicateClip(idx, 0, nil, nil)
	require.Error(t, err) // dest slot == src slot, already occupied
	_ = dstTrack
	_ = dstClip
	_ = note

	target := 1
	_, err = s.CreateScene(-1, "") // ensure a second clip slot exists
	require.NoError(t, err)
	dstTrack2, dstClip2, note2, err2 := s.DuplicateClip(idx, 0, nil, &target)
	require.NoError(t, err2)
	assert.Equal(t, idx, dstTrack2)
	assert.Equal(t, 1, dstClip2)
	assert.Contains(t, note2, "not supported")
}

func TestFireAndStopScene(t *testing.T) {
	s := NewSong()
	idx, _, _ := s.CreateTrack(KindMIDI, -1)
	sceneIdx, err := s.CreateScene(-1, "")
	require.NoError(t, err)
	require.NoError(t, s.CreateClip(idx, sceneIdx, 4))

	require.NoError(t, s.FireScene(sceneIdx))
	notes, _ := s.GetClipNotes(idx, sceneIdx)
	_ = notes
	track, _ := s.trackAt(idx)
	assert.True(t, track.ClipSlots[sceneIdx].Clip.Playing)

	require.NoError(t, s.StopScene(sceneIdx))
	assert.False(t, track.ClipSlots[sceneIdx].Clip.Playing)
}
