package daw

import "fmt"

// slotAt returns the clip slot at (trackIndex, clipIndex), bounds-checked.
// Must be called with s.mu held.
func (s *Song) slotAt(trackIndex, clipIndex int) (*ClipSlot, error) {
	t, err := s.trackAt(trackIndex)
	if err != nil {
		return nil, err
	}
	if clipIndex < 0 || clipIndex >= len(t.ClipSlots) {
		return nil, fmt.Errorf("%w: clip index %d out of range", ErrOutOfRange, clipIndex)
	}
	return t.ClipSlots[clipIndex], nil
}

// clipAt returns the clip at (trackIndex, clipIndex), failing with
// ErrNotFound if the slot is empty. Must be called with s.mu held.
func (s *Song) clipAt(trackIndex, clipIndex int) (*Clip, error) {
	slot, err := s.slotAt(trackIndex, clipIndex)
	if err != nil {
		return nil, err
	}
	if !slot.HasClip {
		return nil, fmt.Errorf("%w: no clip at track %d slot %d", ErrNotFound, trackIndex, clipIndex)
	}
	return slot.Clip, nil
}

// CreateClip creates an empty MIDI clip of the given length in the slot,
// failing with ErrConflict if the slot is already occupied.
func (s *Song) CreateClip(trackIndex, clipIndex int, length float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, err := s.slotAt(trackIndex, clipIndex)
	if err != nil {
		return err
	}
	if slot.HasClip {
		return fmt.Errorf("%w: slot %d on track %d already has a clip", ErrConflict, clipIndex, trackIndex)
	}
	if length <= 0 {
		length = 4.0
	}
	slot.HasClip = true
	slot.Clip = &Clip{Name: fmt.Sprintf("Clip %d", clipIndex+1), Length: length, IsMIDI: true, LoopEnd: length}
	return nil
}

// DeleteClip empties the slot.
func (s *Song) DeleteClip(trackIndex, clipIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, err := s.slotAt(trackIndex, clipIndex)
	if err != nil {
		return err
	}
	slot.HasClip = false
	slot.Clip = nil
	return nil
}

// DuplicateClip copies notes and loop bounds for MIDI clips; audio clips get
// an empty clip of the same length and a warning note.
func (s *Song) DuplicateClip(trackIndex, clipIndex int, targetTrack, targetClip *int) (dstTrack, dstClip int, note string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, err := s.clipAt(trackIndex, clipIndex)
	if err != nil {
		return 0, 0, "", err
	}

	dstTrack = trackIndex
	if targetTrack != nil {
		dstTrack = *targetTrack
	}
	dstClip = clipIndex
	if targetClip != nil {
		dstClip = *targetClip
	}

	dstSlot, err := s.slotAt(dstTrack, dstClip)
	if err != nil {
		return 0, 0, "", err
	}
	if dstSlot.HasClip {
		return 0, 0, "", fmt.Errorf("%w: destination slot %d on track %d already has a clip", ErrConflict, dstClip, dstTrack)
	}

	dup := &Clip{Name: src.Name + " Copy", Length: src.Length, IsMIDI: src.IsMIDI}
	if src.IsMIDI {
		dup.Looping = src.Looping
		dup.LoopStart = src.LoopStart
		dup.LoopEnd = src.LoopEnd
		dup.Notes = append([]Note(nil), src.Notes...)
	} else {
		dup.LoopEnd = src.Length
		note = "audio clip duplication is not supported via the host API; created an empty placeholder clip of the same length"
	}
	dstSlot.HasClip = true
	dstSlot.Clip = dup
	return dstTrack, dstClip, note, nil
}

// AddNotesToClip appends notes to the clip (does not clear existing notes).
func (s *Song) AddNotesToClip(trackIndex, clipIndex int, notes []Note) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clip, err := s.clipAt(trackIndex, clipIndex)
	if err != nil {
		return 0, err
	}
	for _, n := range notes {
		n = DefaultedNote(n)
		n.NoteID = clip.allocateNoteID()
		clip.Notes = append(clip.Notes, n)
	}
	return len(clip.Notes), nil
}

// GetClipNotes returns a copy of the clip's notes.
func (s *Song) GetClipNotes(trackIndex, clipIndex int) ([]Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clip, err := s.clipAt(trackIndex, clipIndex)
	if err != nil {
		return nil, err
	}
	return append([]Note(nil), clip.Notes...), nil
}

// SetClipName renames the clip.
func (s *Song) SetClipName(trackIndex, clipIndex int, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clip, err := s.clipAt(trackIndex, clipIndex)
	if err != nil {
		return err
	}
	clip.Name = name
	return nil
}

// SetClipLoop sets loop start/end (either may be nil to leave unchanged) and
// the loop-on flag, rejecting end <= start.
func (s *Song) SetClipLoop(trackIndex, clipIndex int, start, end *float64, loopOn bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clip, err := s.clipAt(trackIndex, clipIndex)
	if err != nil {
		return err
	}

	newStart := clip.LoopStart
	newEnd := clip.LoopEnd
	if start != nil {
		newStart = *start
	}
	if end != nil {
		newEnd = *end
	}
	if newEnd <= newStart {
		return fmt.Errorf("%w: loop end %.3f must be greater than loop start %.3f", ErrBadValue, newEnd, newStart)
	}
	clip.LoopStart = newStart
	clip.LoopEnd = newEnd
	clip.Looping = loopOn
	return nil
}

// SetClipLength adjusts the clip's length, requiring length > 0, and
// best-effort advances the loop end marker to match.
func (s *Song) SetClipLength(trackIndex, clipIndex int, length float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if length <= 0 {
		return fmt.Errorf("%w: clip length must be positive", ErrBadValue)
	}
	clip, err := s.clipAt(trackIndex, clipIndex)
	if err != nil {
		return err
	}
	clip.Length = length
	if clip.LoopEnd < length {
		clip.LoopEnd = length
	}
	return nil
}

// QuantizeClip quantizes every note's start/duration to the given grid
// (grid is a divisor of a whole note, e.g. 16 => 1/16 note => 0.25 beats),
// blended toward the quantized value by amount in [0,1].
func (s *Song) QuantizeClip(trackIndex, clipIndex int, grid int, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if grid <= 0 {
		return fmt.Errorf("%w: quantize grid must be positive", ErrBadValue)
	}
	if amount < 0 {
		amount = 0
	}
	if amount > 1 {
		amount = 1
	}

	clip, err := s.clipAt(trackIndex, clipIndex)
	if err != nil {
		return err
	}

	g := 4.0 / float64(grid) // beats per grid division (whole note = 4 beats)
	for i, n := range clip.Notes {
		qStart := roundHalfAwayFromZero(n.StartTime/g) * g
		qDur := roundHalfAwayFromZero(n.Duration/g) * g
		if qDur < 0.01 {
			qDur = 0.01
		}
		n.StartTime = n.StartTime*(1-amount) + qStart*amount
		n.Duration = n.Duration*(1-amount) + qDur*amount
		if n.Duration < 0.01 {
			n.Duration = 0.01
		}
		clip.Notes[i] = n
	}
	return nil
}

// FireClip starts clip playback.
func (s *Song) FireClip(trackIndex, clipIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clip, err := s.clipAt(trackIndex, clipIndex)
	if err != nil {
		return err
	}
	clip.Playing = true
	return nil
}

// StopClip stops clip playback.
func (s *Song) StopClip(trackIndex, clipIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clip, err := s.clipAt(trackIndex, clipIndex)
	if err != nil {
		return err
	}
	clip.Playing = false
	return nil
}

// ClipMatch is one (track, clip) hit from FireClipByName.
type ClipMatch struct {
	TrackIndex int
	ClipIndex  int
}

// FireClipByName fires every populated clip slot whose clip name matches
// clipPattern (and, if trackPattern is non-empty, whose track name also
// matches), or just the first such match if firstOnly.
func (s *Song) FireClipByName(clipPattern, trackPattern string, mode MatchMode, firstOnly bool) ([]ClipMatch, error) {
	s.mu.Lock()
	var matches []ClipMatch
	for ti, t := range s.Tracks {
		if trackPattern != "" && !MatchName(t.Name, trackPattern, mode) {
			continue
		}
		for ci, slot := range t.ClipSlots {
			if !slot.HasClip {
				continue
			}
			if MatchName(slot.Clip.Name, clipPattern, mode) {
				matches = append(matches, ClipMatch{TrackIndex: ti, ClipIndex: ci})
				if firstOnly {
					break
				}
			}
		}
		if firstOnly && len(matches) > 0 {
			break
		}
	}
	s.mu.Unlock()

	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: no clip matches %q", ErrNotFound, clipPattern)
	}
	for _, m := range matches {
		if err := s.FireClip(m.TrackIndex, m.ClipIndex); err != nil {
			return nil, err
		}
	}
	return matches, nil
}
