// SPDX-License-Identifier: MIT

package issues

import "go.uber.org/multierr"

// Set is an insertion-ordered collection of distinct issues.
// The zero value is ready to use and a nil *Set behaves as an empty set for
// every read-only method.
type Set struct {
	order []Issue
	seen  map[Issue]struct{}
}

// NewSet returns a set holding the given issues.
func NewSet(items ...Issue) *Set {
	s := &Set{}
	for _, it := range items {
		s.Add(it)
	}

	return s
}

// Add inserts it unless an equal issue is already present.
// Reports whether the set changed.
func (s *Set) Add(it Issue) bool {
	if s.seen == nil {
		s.seen = make(map[Issue]struct{})
	}
	if _, dup := s.seen[it]; dup {
		return false
	}
	s.seen[it] = struct{}{}
	s.order = append(s.order, it)

	return true
}

// Merge adds every issue of other, keeping other's order after the current ones.
func (s *Set) Merge(other *Set) {
	if other == nil {
		return
	}
	for _, it := range other.order {
		s.Add(it)
	}
}

// Has reports whether an issue of the given kind is present.
func (s *Set) Has(kind Kind) bool {
	if s == nil {
		return false
	}
	for _, it := range s.order {
		if it.Kind == kind {
			return true
		}
	}

	return false
}

// Len returns the number of distinct issues.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}

	return len(s.order)
}

// Issues returns a copy of the issues in insertion order.
func (s *Set) Issues() []Issue {
	if s == nil || len(s.order) == 0 {
		return nil
	}

	return append([]Issue(nil), s.order...)
}

// Clone returns an independent copy.
func (s *Set) Clone() *Set {
	if s == nil {
		return NewSet()
	}

	return NewSet(s.order...)
}

// Err combines all issues into one error, or returns nil for an empty set.
// The result supports errors.Is against every contained kind sentinel.
func (s *Set) Err() error {
	if s.Len() == 0 {
		return nil
	}
	var err error
	for _, it := range s.order {
		err = multierr.Append(err, it.Err())
	}

	return err
}
