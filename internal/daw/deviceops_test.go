package daw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSongWithOneDevice(t *testing.T) (*Song, int, int) {
	t.Helper()
	s := NewSong()
	trackIdx, _, err := s.CreateTrack(KindAudio, -1)
	require.NoError(t, err)

	dev := &Device{
		Name: "Compressor",
		Parameters: []*Parameter{
			{Name: "Threshold", Min: -60, Max: 0, Value: -20},
			{Name: "Ratio", Min: 1, Max: 20, Value: 4},
		},
		IsSidechainCapable: true,
		HasIOEndpoints:     true,
		InputRoutingTypes:  []RoutingOption{{DisplayName: "Ext. In 1"}},
	}
	devIdx, err := s.AddDevice(trackIdx, dev)
	require.NoError(t, err)
	return s, trackIdx, devIdx
}

func TestSetDeviceParameter_ByIndexAndName(t *testing.T) {
	s, trackIdx, devIdx := newSongWithOneDevice(t)

	v, err := s.SetDeviceParameter(trackIdx, devIdx, 0, ParamValue{Kind: KindNumber, Num: -10})
	require.NoError(t, err)
	assert.Equal(t, -10.0, v)

	v, err = s.SetDeviceParameter(trackIdx, devIdx, "ratio", ParamValue{Kind: KindMax})
	require.NoError(t, err)
	assert.Equal(t, 20.0, v)

	_, err = s.SetDeviceParameter(trackIdx, devIdx, "nonexistent", ParamValue{Kind: KindNumber, Num: 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetDeviceParameters_BatchPartialFailure(t *testing.T) {
	s, trackIdx, devIdx := newSongWithOneDevice(t)

	res, err := s.SetDeviceParameters(trackIdx, devIdx, []ParamUpdate{
		{Ref: "threshold", Value: ParamValue{Kind: KindNumber, Num: -30}},
		{Ref: "nonexistent", Value: ParamValue{Kind: KindNumber, Num: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Threshold"}, res.Updated)
	require.Len(t, res.Errors, 1)
}

func TestSaveAndApplyDeviceSnapshot(t *testing.T) {
	s, trackIdx, devIdx := newSongWithOneDevice(t)

	snap, err := s.SaveDeviceSnapshot(trackIdx, devIdx)
	require.NoError(t, err)
	assert.Equal(t, -20.0, snap["Threshold"])

	_, err = s.SetDeviceParameter(trackIdx, devIdx, 0, ParamValue{Kind: KindNumber, Num: -5})
	require.NoError(t, err)

	applied, errs, err := s.ApplyDeviceSnapshot(trackIdx, devIdx, snap)
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Contains(t, applied, "Threshold")

	cur, err := s.SaveDeviceSnapshot(trackIdx, devIdx)
	require.NoError(t, err)
	assert.Equal(t, -20.0, cur["Threshold"])
}

func TestSetDeviceSidechainSource(t *testing.T) {
	s, trackIdx, devIdx := newSongWithOneDevice(t)
	otherTrack, _, _ := s.CreateTrack(KindAudio, -1)

	require.NoError(t, s.SetDeviceSidechainSource(trackIdx, devIdx, otherTrack, true, true))

	dev, err := s.deviceAt(trackIdx, devIdx)
	require.NoError(t, err)
	assert.True(t, dev.SidechainOn)
	assert.Equal(t, otherTrack+1, dev.SidechainSource)
}

func TestSetDeviceSidechainSource_UnsupportedDevice(t *testing.T) {
	s := NewSong()
	trackIdx, _, _ := s.CreateTrack(KindAudio, -1)
	devIdx, err := s.AddDevice(trackIdx, &Device{Name: "EQ Eight"})
	require.NoError(t, err)

	err = s.SetDeviceSidechainSource(trackIdx, devIdx, 0, true, true)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestListRoutableDevices(t *testing.T) {
	s, trackIdx, devIdx := newSongWithOneDevice(t)
	routable := s.ListRoutableDevices()
	require.Len(t, routable, 1)
	assert.Equal(t, trackIdx, routable[0].TrackIndex)
	assert.Equal(t, devIdx, routable[0].DeviceIndex)
}
