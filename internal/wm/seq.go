package wm

import "slices"

// seq is an ordered membership list. Index 0 is the front (top of the stack).
type seq[T comparable] []T

func (s *seq[T]) pushFront(v T) {
	*s = slices.Insert(*s, 0, v)
}

func (s *seq[T]) pushBack(v T) {
	*s = append(*s, v)
}

// insertAfter places v directly after anchor, or at the back when anchor is absent.
func (s *seq[T]) insertAfter(anchor, v T) {
	i := slices.Index(*s, anchor)
	if i < 0 {
		s.pushBack(v)
		return
	}
	*s = slices.Insert(*s, i+1, v)
}

func (s *seq[T]) remove(v T) bool {
	i := slices.Index(*s, v)
	if i < 0 {
		return false
	}
	*s = slices.Delete(*s, i, i+1)
	return true
}

func (s *seq[T]) toFront(v T) {
	if s.remove(v) {
		s.pushFront(v)
	}
}

func (s *seq[T]) toBack(v T) {
	if s.remove(v) {
		s.pushBack(v)
	}
}

func (s seq[T]) contains(v T) bool {
	return slices.Contains(s, v)
}

func (s seq[T]) index(v T) int {
	return slices.Index(s, v)
}

func (s seq[T]) first() (T, bool) {
	var zero T
	if len(s) == 0 {
		return zero, false
	}
	return s[0], true
}

func (s seq[T]) last() (T, bool) {
	var zero T
	if len(s) == 0 {
		return zero, false
	}
	return s[len(s)-1], true
}

// after returns the element following v, wrapping around.
func (s seq[T]) after(v T) (T, bool) {
	var zero T
	i := s.index(v)
	if i < 0 || len(s) == 0 {
		return zero, false
	}
	return s[(i+1)%len(s)], true
}

// before returns the element preceding v, wrapping around.
func (s seq[T]) before(v T) (T, bool) {
	var zero T
	i := s.index(v)
	if i < 0 || len(s) == 0 {
		return zero, false
	}
	return s[(i-1+len(s))%len(s)], true
}

func (s seq[T]) clone() []T {
	return slices.Clone(s)
}
