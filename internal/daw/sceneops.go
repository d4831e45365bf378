package daw

import "fmt"

func (s *Song) sceneAt(index int) (*Scene, error) {
	if index < 0 || index >= len(s.Scenes) {
		return nil, fmt.Errorf("%w: scene index %d out of range", ErrOutOfRange, index)
	}
	return s.Scenes[index], nil
}

// CreateScene inserts a scene at index (-1 appends) and a corresponding
// empty clip slot at that row on every track.
func (s *Song) CreateScene(index int, name string) (sceneIndex int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index != -1 && (index < 0 || index > len(s.Scenes)) {
		return 0, fmt.Errorf("%w: scene index %d out of range", ErrOutOfRange, index)
	}
	if name == "" {
		name = fmt.Sprintf("Scene %d", len(s.Scenes)+1)
	}

	scene := &Scene{Name: name}
	s.Scenes = insertAt(s.Scenes, index, scene)
	if index == -1 {
		sceneIndex = len(s.Scenes) - 1
	} else {
		sceneIndex = index
	}

	for _, t := range s.Tracks {
		t.ClipSlots = insertAt(t.ClipSlots, sceneIndex, &ClipSlot{})
	}
	return sceneIndex, nil
}

// DeleteScene removes the scene at index and the corresponding clip slot
// row from every track.
func (s *Song) DeleteScene(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.sceneAt(index); err != nil {
		return err
	}
	s.Scenes = removeAt(s.Scenes, index)
	for _, t := range s.Tracks {
		if index < len(t.ClipSlots) {
			t.ClipSlots = removeAt(t.ClipSlots, index)
		}
	}
	if s.SelectedScene >= len(s.Scenes) && len(s.Scenes) > 0 {
		s.SelectedScene = len(s.Scenes) - 1
	}
	return nil
}

// DuplicateScene copies the scene at index (and every track's clip at that
// row) to immediately after it.
func (s *Song) DuplicateScene(index int) (newIndex int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, err := s.sceneAt(index)
	if err != nil {
		return 0, err
	}

	dup := &Scene{Name: src.Name + " Copy"}
	insertPos := index + 1
	s.Scenes = insertAt(s.Scenes, insertPos, dup)

	for _, t := range s.Tracks {
		var newSlot *ClipSlot
		if index < len(t.ClipSlots) && t.ClipSlots[index].HasClip {
			clipCopy := *t.ClipSlots[index].Clip
			clipCopy.Notes = append([]Note(nil), t.ClipSlots[index].Clip.Notes...)
			newSlot = &ClipSlot{HasClip: true, Clip: &clipCopy}
		} else {
			newSlot = &ClipSlot{}
		}
		t.ClipSlots = insertAt(t.ClipSlots, insertPos, newSlot)
	}
	return insertPos, nil
}

// FireScene launches every populated clip slot in the scene's row.
func (s *Song) FireScene(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.sceneAt(index); err != nil {
		return err
	}
	s.SelectedScene = index
	for _, t := range s.Tracks {
		if index < len(t.ClipSlots) && t.ClipSlots[index].HasClip {
			t.ClipSlots[index].Clip.Playing = true
		}
	}
	return nil
}

// StopScene stops every clip slot in the scene's row, and — only if it is
// the selected scene — also issues a global stop across all clips.
func (s *Song) StopScene(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.sceneAt(index); err != nil {
		return err
	}
	for _, t := range s.Tracks {
		if index < len(t.ClipSlots) && t.ClipSlots[index].HasClip {
			t.ClipSlots[index].Clip.Playing = false
		}
	}
	if index == s.SelectedScene {
		for _, t := range s.Tracks {
			for _, slot := range t.ClipSlots {
				if slot.HasClip {
					slot.Clip.Playing = false
				}
			}
		}
	}
	return nil
}

// FireSceneByName fires every scene whose name matches pattern (or just the
// first, if firstOnly), returning the indices fired.
func (s *Song) FireSceneByName(pattern string, mode MatchMode, firstOnly bool) ([]int, error) {
	s.mu.Lock()
	var matches []int
	for i, sc := range s.Scenes {
		if MatchName(sc.Name, pattern, mode) {
			matches = append(matches, i)
			if firstOnly {
				break
			}
		}
	}
	s.mu.Unlock()

	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: no scene matches %q", ErrNotFound, pattern)
	}
	for _, idx := range matches {
		if err := s.FireScene(idx); err != nil {
			return nil, err
		}
	}
	return matches, nil
}
