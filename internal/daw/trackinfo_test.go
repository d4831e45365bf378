package daw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackInfo_ReflectsClipsSendsAndRouting(t *testing.T) {
	s := NewSong()
	trackIdx, _, err := s.CreateTrack(KindAudio, -1)
	require.NoError(t, err)
	sceneIdx, err := s.CreateScene(-1, "")
	require.NoError(t, err)
	require.NoError(t, s.CreateClip(trackIdx, sceneIdx, 4))

	retIdx, err := s.CreateReturnTrack("Reverb")
	require.NoError(t, err)

	info, err := s.TrackInfo(trackIdx)
	require.NoError(t, err)

	assert.Equal(t, trackIdx, info.Index)
	assert.Equal(t, KindAudio, info.Kind)

	require.Len(t, info.Clips, 1)
	assert.True(t, info.Clips[0].HasClip)
	assert.Equal(t, 4.0, info.Clips[0].Length)

	require.Len(t, info.Sends, 1)
	assert.Equal(t, "Reverb", info.Sends[0].ReturnTrackName)

	require.NoError(t, s.DeleteReturnTrack(retIdx))
	infoAfterDelete, err := s.TrackInfo(trackIdx)
	require.NoError(t, err)
	assert.Empty(t, infoAfterDelete.Sends)

	assert.Equal(t, "auto", info.Routing.Monitor)
}

func TestTrackInfo_OutOfRange(t *testing.T) {
	s := NewSong()
	_, err := s.TrackInfo(0)
	assert.ErrorIs(t, err, ErrOutOfRange)
}
