package daw

// SendView is one entry of a track's ordered send list, as exposed by the
// Track view: the resolved return-track name when Song.Returns still holds
// a track at that index, else empty.
type SendView struct {
	Index           int
	ReturnTrackName string
	Value           float64
	Min             float64
	Max             float64
}

// ClipSlotView is one entry of a track's ordered clip_slots list.
type ClipSlotView struct {
	HasClip bool
	// The following are only meaningful when HasClip is true.
	Name      string
	Length    float64
	Playing   bool
	Recording bool
}

// DeviceView is one entry of a track's ordered devices list.
type DeviceView struct {
	Index     int
	Name      string
	ClassName string
	Type      DeviceType
}

// RoutingView is a track's resolved I/O + monitoring block.
type RoutingView struct {
	InputType     string
	InputChannel  string
	OutputType    string
	OutputChannel string
	Monitor       string
}

// TrackInfoView is the full Track view returned by get_track_info.
type TrackInfoView struct {
	Index   int
	Name    string
	Kind    TrackKind
	Mute    bool
	Solo    bool
	Arm     bool
	Volume  float64
	Panning float64
	Sends   []SendView
	Clips   []ClipSlotView
	Devices []DeviceView
	Routing RoutingView
}

// TrackInfo returns the full Track view for the track at index.
func (s *Song) TrackInfo(index int) (TrackInfoView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.trackAt(index)
	if err != nil {
		return TrackInfoView{}, err
	}

	view := TrackInfoView{
		Index:   index,
		Name:    t.Name,
		Kind:    t.Kind,
		Mute:    t.Mute,
		Solo:    t.Solo,
		Arm:     t.Arm,
		Volume:  t.Volume.Value,
		Panning: t.Panning.Value,
		Routing: RoutingView{
			InputType:     t.Routing.InputType,
			InputChannel:  t.Routing.InputChannel,
			OutputType:    t.Routing.OutputType,
			OutputChannel: t.Routing.OutputChannel,
			Monitor:       t.Routing.Monitor.Name,
		},
	}

	for _, send := range t.Sends {
		sv := SendView{
			Index: send.Index,
			Value: send.Level.Value,
			Min:   send.Level.Min,
			Max:   send.Level.Max,
		}
		if send.ReturnTrackIndex >= 0 && send.ReturnTrackIndex < len(s.Returns) {
			sv.ReturnTrackName = s.Returns[send.ReturnTrackIndex].Name
		}
		view.Sends = append(view.Sends, sv)
	}

	for _, slot := range t.ClipSlots {
		cv := ClipSlotView{HasClip: slot.HasClip}
		if slot.HasClip {
			cv.Name = slot.Clip.Name
			cv.Length = slot.Clip.Length
			cv.Playing = slot.Clip.Playing
			cv.Recording = slot.Clip.Recording
		}
		view.Clips = append(view.Clips, cv)
	}

	for _, d := range t.Devices {
		view.Devices = append(view.Devices, DeviceView{
			Index:     d.Index,
			Name:      d.Name,
			ClassName: d.ClassName,
			Type:      d.Type,
		})
	}

	return view, nil
}
