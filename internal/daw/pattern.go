package daw

import "strings"

// chordIntervals is the fixed interval map add_chord_stack builds chords
// from; an unrecognized quality falls back to "major".
var chordIntervals = map[string][]int{
	"major": {0, 4, 7},
	"minor": {0, 3, 7},
	"sus2":  {0, 2, 7},
	"sus4":  {0, 5, 7},
	"7":     {0, 4, 7, 10},
	"maj7":  {0, 4, 7, 11},
	"min7":  {0, 3, 7, 10},
}

// ensureClip returns the clip at (trackIndex, clipIndex), creating an empty
// one of the given length if the slot is empty. Must be called with s.mu
// held.
func (s *Song) ensureClip(trackIndex, clipIndex int, length float64) (*Clip, error) {
	slot, err := s.slotAt(trackIndex, clipIndex)
	if err != nil {
		return nil, err
	}
	if !slot.HasClip {
		slot.HasClip = true
		slot.Clip = &Clip{Name: "Pattern", Length: length, IsMIDI: true, LoopEnd: length}
	}
	return slot.Clip, nil
}

// PatternResult is the {note_count, style|quality} shape the pattern
// helpers return.
type PatternResult struct {
	NoteCount int
	Label     string
}

// AddBasicDrumPattern writes a deterministic drum pattern to a new or
// existing clip, replacing any notes already there. Supported styles are
// "four_on_floor" (the default) and "trap".
func (s *Song) AddBasicDrumPattern(trackIndex, clipIndex int, length float64, velocity int, style string) (PatternResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if length <= 0 {
		length = 4.0
	}
	clip, err := s.ensureClip(trackIndex, clipIndex, length)
	if err != nil {
		return PatternResult{}, err
	}

	styleLower := strings.ToLower(style)
	bars := int(length)
	var notes []Note

	for bar := 0; bar < bars; bar++ {
		base := float64(bar) * 1.0
		if styleLower == "trap" {
			notes = append(notes,
				drumNote(36, base, 0.2, velocity),
				drumNote(36, base+0.75, 0.2, velocity-10),
				drumNote(38, base+0.5, 0.2, velocity+5),
			)
			for step := 0; step < 8; step++ {
				notes = append(notes, drumNote(42, base+float64(step)*0.125, 0.1, velocity-20))
			}
			notes = append(notes,
				drumNote(42, base+0.48, 0.05, velocity-25),
				drumNote(42, base+0.52, 0.05, velocity-25),
			)
		} else {
			for beat := 0; beat < 4; beat++ {
				notes = append(notes, drumNote(36, base+float64(beat)*0.25, 0.2, velocity))
			}
			notes = append(notes,
				drumNote(38, base+0.5, 0.2, velocity+5),
				drumNote(38, base+1.5, 0.2, velocity+5),
			)
			for step := 0; step < 8; step++ {
				notes = append(notes, drumNote(42, base+float64(step)*0.125, 0.1, velocity-20))
			}
		}
	}

	replaceClipNotes(clip, notes)
	return PatternResult{NoteCount: len(notes), Label: styleLower}, nil
}

func drumNote(pitch int, start, duration float64, velocity int) Note {
	return DefaultedNote(Note{Pitch: pitch, StartTime: start, Duration: duration, Velocity: velocity})
}

// AddChordStack writes bars repetitions of a chord built from quality's
// interval map onto rootMIDI, replacing any notes already in the clip.
func (s *Song) AddChordStack(trackIndex, clipIndex, rootMIDI int, quality string, bars int, chordLength float64) (PatternResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if bars <= 0 {
		bars = 4
	}
	clip, err := s.ensureClip(trackIndex, clipIndex, float64(bars))
	if err != nil {
		return PatternResult{}, err
	}

	intervals, ok := chordIntervals[strings.ToLower(quality)]
	if !ok {
		intervals = chordIntervals["major"]
	}

	var notes []Note
	for bar := 0; bar < bars; bar++ {
		start := float64(bar)
		for _, interval := range intervals {
			notes = append(notes, DefaultedNote(Note{
				Pitch:     rootMIDI + interval,
				StartTime: start,
				Duration:  chordLength,
				Velocity:  100,
			}))
		}
	}

	replaceClipNotes(clip, notes)
	return PatternResult{NoteCount: len(notes), Label: quality}, nil
}

// replaceClipNotes clears the clip's existing notes and writes notes in
// their place, allocating fresh note IDs.
func replaceClipNotes(clip *Clip, notes []Note) {
	clip.Notes = clip.Notes[:0]
	for _, n := range notes {
		n.NoteID = clip.allocateNoteID()
		clip.Notes = append(clip.Notes, n)
	}
}
