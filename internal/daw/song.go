package daw

import "fmt"

// canonicalBrowserCategories is the top-level browser category set exposed
// by every host; a real host may expose additional ones, which NewSong's
// caller can append to Browser.Children.
var canonicalBrowserCategories = []string{
	"instruments", "sounds", "drums", "audio_effects", "midi_effects", "samples",
}

// NewSong builds a bare in-memory object graph standing in for the DAW's
// live object model: a session at 120 BPM / 4-4 with a master channel and
// a browser root holding one empty folder per canonical category, ready for
// CreateTrack/CreateScene calls to populate.
func NewSong() *Song {
	root := &BrowserNode{Name: "root", IsFolder: true}
	for _, cat := range canonicalBrowserCategories {
		root.Children = append(root.Children, &BrowserNode{
			Name:     cat,
			URI:      "query:" + cat,
			IsFolder: true,
			Category: cat,
		})
	}

	return &Song{
		Tempo:    120.0,
		SigNum:   4,
		SigDenom: 4,
		Master: &MasterChannel{
			Name:    "Master",
			Volume:  &Parameter{Name: "Volume", Min: 0, Max: 1, Value: 0.85},
			Panning: &Parameter{Name: "Panning", Min: -1, Max: 1, Value: 0},
		},
		Browser: root,
	}
}

// SessionInfo is the session/transport snapshot returned by get_session_info.
type SessionInfo struct {
	Tempo         float64
	SigNum        int
	SigDenom      int
	Playing       bool
	TrackCount    int
	SceneCount    int
	ReturnCount   int
	MasterName    string
	MasterVolume  float64
	MasterPanning float64
}

// SessionInfo returns a point-in-time snapshot of the transport and session
// shape.
func (s *Song) SessionInfo() SessionInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return SessionInfo{
		Tempo:         s.Tempo,
		SigNum:        s.SigNum,
		SigDenom:      s.SigDenom,
		Playing:       s.Playing,
		TrackCount:    len(s.Tracks),
		SceneCount:    len(s.Scenes),
		ReturnCount:   len(s.Returns),
		MasterName:    s.Master.Name,
		MasterVolume:  s.Master.Volume.Value,
		MasterPanning: s.Master.Panning.Value,
	}
}

// SetTempo clamps tempo to Ableton Live's documented [20, 999] BPM range and
// stores it, returning the final value.
func (s *Song) SetTempo(bpm float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if bpm < 20 {
		bpm = 20
	}
	if bpm > 999 {
		bpm = 999
	}
	s.Tempo = bpm
	return s.Tempo
}

// SetTimeSignature stores a new time signature numerator/denominator.
func (s *Song) SetTimeSignature(num, denom int) (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if num < 1 {
		num = 1
	}
	if denom < 1 {
		denom = 1
	}
	s.SigNum = num
	s.SigDenom = denom
	return s.SigNum, s.SigDenom
}

// SetPlaying starts or stops the global transport.
func (s *Song) SetPlaying(playing bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Playing = playing
	return s.Playing
}

// ClipSummary is one populated clip slot's denormalized view, included in
// TrackContext only when get_song_context's include_clips flag is set.
type ClipSummary struct {
	SlotIndex int
	Name      string
	Length    float64
	Playing   bool
}

// TrackContext is one track's denormalized view within SongContextView.
type TrackContext struct {
	Name     string
	Kind     TrackKind
	Mute     bool
	Solo     bool
	Arm      bool
	Devices  []string
	HasClips bool
	Clips    []ClipSummary
}

// SongContextView is the snapshot get_song_context returns: a denormalized
// view intended for an LLM planner.
type SongContextView struct {
	Tracks        []TrackContext
	Scenes        []string
	Tempo         float64
	TimeSignature string
	Playing       bool
}

// SongContext builds a denormalized planner-oriented snapshot. When
// includeClips is true, every populated clip slot is described; otherwise
// only whether a track has any clips at all is reported.
func (s *Song) SongContext(includeClips bool) SongContextView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	view := SongContextView{
		Tempo:         s.Tempo,
		TimeSignature: fmt.Sprintf("%d/%d", s.SigNum, s.SigDenom),
		Playing:       s.Playing,
	}
	for _, sc := range s.Scenes {
		view.Scenes = append(view.Scenes, sc.Name)
	}
	for _, t := range s.Tracks {
		tc := TrackContext{
			Name: t.Name,
			Kind: t.Kind,
			Mute: t.Mute,
			Solo: t.Solo,
			Arm:  t.Arm,
		}
		for _, d := range t.Devices {
			tc.Devices = append(tc.Devices, d.Name)
		}
		for i, slot := range t.ClipSlots {
			if !slot.HasClip {
				continue
			}
			tc.HasClips = true
			if includeClips {
				tc.Clips = append(tc.Clips, ClipSummary{
					SlotIndex: i,
					Name:      slot.Clip.Name,
					Length:    slot.Clip.Length,
					Playing:   slot.Clip.Playing,
				})
			}
		}
		view.Tracks = append(view.Tracks, tc)
	}
	return view
}
