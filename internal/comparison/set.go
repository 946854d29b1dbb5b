// Package comparison manages the user's side-by-side comparison selection.
package comparison

import (
	"github.com/rotisserie/eris"
)

// ErrFull is returned by Add when a capped set has no room left.
var ErrFull = eris.New("comparison: set is full")

// Set is an insertion-ordered set of innovation ids. Position carries no
// ranking meaning; it only fixes the column order for display. The zero
// value is an empty, unbounded set. A Set is not safe for concurrent use.
type Set struct {
	ids     []string
	index   map[string]struct{}
	maxSize int
}

// New returns an empty set. maxSize <= 0 means unbounded.
func New(maxSize int) *Set {
	if maxSize < 0 {
		maxSize = 0
	}
	return &Set{maxSize: maxSize}
}

// FromIDs builds a set from ids, dropping duplicates. The cap is not
// enforced here; callers restoring a snapshot keep whatever it held.
func FromIDs(ids []string, maxSize int) *Set {
	s := New(maxSize)
	for _, id := range ids {
		s.insert(id)
	}
	return s
}

// MaxSize returns the configured cap, 0 when unbounded.
func (s *Set) MaxSize() int {
	return s.maxSize
}

// Add inserts id if absent. Adding an id that is already present is a
// no-op and never fails, even on a full set.
func (s *Set) Add(id string) error {
	if s.Contains(id) {
		return nil
	}
	if s.maxSize > 0 && len(s.ids) >= s.maxSize {
		return eris.Wrapf(ErrFull, "max %d innovations", s.maxSize)
	}
	s.insert(id)
	return nil
}

func (s *Set) insert(id string) {
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[id]; ok {
		return
	}
	s.index[id] = struct{}{}
	s.ids = append(s.ids, id)
}

// Remove deletes id if present.
func (s *Set) Remove(id string) {
	if _, ok := s.index[id]; !ok {
		return
	}
	delete(s.index, id)
	for i, v := range s.ids {
		if v == id {
			s.ids = append(s.ids[:i:i], s.ids[i+1:]...)
			break
		}
	}
}

// Toggle removes id when present and adds it otherwise. added reports the
// resulting membership.
func (s *Set) Toggle(id string) (added bool, err error) {
	if s.Contains(id) {
		s.Remove(id)
		return false, nil
	}
	if err := s.Add(id); err != nil {
		return false, err
	}
	return true, nil
}

// Clear empties the set.
func (s *Set) Clear() {
	s.ids = nil
	s.index = nil
}

// Contains reports membership.
func (s *Set) Contains(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Len returns the number of ids.
func (s *Set) Len() int {
	return len(s.ids)
}

// IDs returns the ids in insertion order. The slice is a copy.
func (s *Set) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Clone returns an independent copy of s.
func (s *Set) Clone() *Set {
	return FromIDs(s.ids, s.maxSize)
}
