package daw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetTempo_ClampsToLiveRange(t *testing.T) {
	s := NewSong()
	assert.Equal(t, 999.0, s.SetTempo(5000))
	assert.Equal(t, 20.0, s.SetTempo(-10))
	assert.Equal(t, 140.0, s.SetTempo(140))
}

func TestSessionInfo(t *testing.T) {
	s := NewSong()
	_, _, _ = s.CreateTrack(KindAudio, -1)
	_, _ = s.CreateScene(-1, "")
	_, _ = s.CreateReturnTrack("")

	info := s.SessionInfo()
	assert.Equal(t, 1, info.TrackCount)
	assert.Equal(t, 1, info.SceneCount)
	assert.Equal(t, 1, info.ReturnCount)
	assert.Equal(t, 120.0, info.Tempo)
}

func TestSongContext_IncludeClipsToggle(t *testing.T) {
	s := NewSong()
	trackIdx, _, _ := s.CreateTrack(KindMIDI, -1)
	sceneIdx, _ := s.CreateScene(-1, "Verse")
	require.NoError(t, s.CreateClip(trackIdx, sceneIdx, 4))

	brief := s.SongContext(false)
	require.Len(t, brief.Tracks, 1)
	assert.True(t, brief.Tracks[0].HasClips)
	assert.Empty(t, brief.Tracks[0].Clips)

	full := s.SongContext(true)
	require.Len(t, full.Tracks[0].Clips, 1)
	assert.Equal(t, sceneIdx, full.Tracks[0].Clips[0].SlotIndex)
}
