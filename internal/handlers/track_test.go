package handlers

import (
	"context"
	"testing"

	"github.com/ableton-mcp/remote-bridge/internal/daw"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestGetTrackInfo_RegisteredReadOnly(t *testing.T) {
	r := BuildDefault()
	entry, ok := r.Lookup("get_track_info")
	require.True(t, ok)
	assert.False(t, entry.MainThread)
}

func TestGetTrackInfo_ClipSlotShapeMatchesWireContract(t *testing.T) {
	song := daw.NewSong()
	trackIdx, _, err := song.CreateTrack(daw.KindAudio, -1)
	require.NoError(t, err)
	sceneIdx, err := song.CreateScene(-1, "")
	require.NoError(t, err)
	require.NoError(t, song.CreateClip(trackIdx, sceneIdx, 4))

	result, err := getTrackInfo(context.Background(), song, gjson.Parse(`{"track_index":0}`))
	require.NoError(t, err)

	m := result.(map[string]any)
	clipSlots := m["clip_slots"].([]map[string]any)
	require.NotEmpty(t, clipSlots)
	assert.Equal(t, true, clipSlots[0]["has_clip"])
	clip := clipSlots[0]["clip"].(map[string]any)
	assert.Equal(t, 4.0, clip["length"])
}

func TestGetTrackInfo_UnknownTrackIsOutOfRange(t *testing.T) {
	song := daw.NewSong()
	_, err := getTrackInfo(context.Background(), song, gjson.Parse(`{"track_index":0}`))
	assert.ErrorIs(t, err, daw.ErrOutOfRange)
}
