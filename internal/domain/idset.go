package domain

import "strings"

// IDSet is an insertion-ordered set of identifiers. The zero value is an
// empty set ready to use.
type IDSet struct {
	ids []string
}

func NewIDSet(ids ...string) IDSet {
	var s IDSet
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// ParseIDSet reads a comma separated list, skipping blanks and duplicates.
func ParseIDSet(raw string) IDSet {
	var s IDSet
	for _, id := range strings.Split(raw, ",") {
		id = strings.TrimSpace(id)
		if id != "" {
			s.Add(id)
		}
	}
	return s
}

func (s IDSet) Has(id string) bool {
	for _, v := range s.ids {
		if v == id {
			return true
		}
	}
	return false
}

// Add inserts id and reports whether the set changed.
func (s *IDSet) Add(id string) bool {
	if s.Has(id) {
		return false
	}
	s.ids = append(s.ids, id)
	return true
}

// Remove deletes id and reports whether the set changed.
func (s *IDSet) Remove(id string) bool {
	for i, v := range s.ids {
		if v == id {
			s.ids = append(s.ids[:i:i], s.ids[i+1:]...)
			return true
		}
	}
	return false
}

// Toggle flips membership of id. It returns true when id is a member afterwards.
func (s *IDSet) Toggle(id string) bool {
	if s.Remove(id) {
		return false
	}
	s.ids = append(s.ids, id)
	return true
}

// Toggled returns a copy of the set with id toggled, leaving s untouched.
func (s IDSet) Toggled(id string) IDSet {
	c := s.Clone()
	c.Toggle(id)
	return c
}

func (s IDSet) Clone() IDSet {
	return IDSet{ids: append([]string(nil), s.ids...)}
}

func (s IDSet) IDs() []string {
	return append([]string(nil), s.ids...)
}

func (s IDSet) Len() int {
	return len(s.ids)
}

func (s IDSet) String() string {
	return strings.Join(s.ids, ",")
}
