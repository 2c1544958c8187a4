// Package matching decides whether a candidate CPE name is covered by a set
// of known instances.
package matching

import (
	"github.com/PhucNguyen204/cpe_engine/cpe"
)

// Superset reports whether the candidate name covers the known name: every
// candidate attribute, read as a pattern, contains the known attribute. Both
// sides are lifted to WFN first; when either side cannot lift, 1.1 names
// compare element-wise and mixed pairs simply do not match. The relation
// never errors.
func Superset(candidate, known *cpe.Name) bool {
	cw, errC := cpe.Lift(candidate)
	kw, errK := cpe.Lift(known)
	switch {
	case errC == nil && errK == nil:
		for _, att := range cpe.Attributes(cpe.V23) {
			if !cw.At(0, att).Contains(kw.At(0, att)) {
				return false
			}
		}
		return true
	case errC != nil && errK != nil:
		return multiElementSuperset(candidate, known)
	}
	return false
}

// multiElementSuperset compares unliftable (multi-element 1.1) names
// positionally: candidate element i must cover known element i.
func multiElementSuperset(candidate, known *cpe.Name) bool {
	if candidate.Elements() > known.Elements() {
		return false
	}
	for i := 0; i < candidate.Elements(); i++ {
		for _, att := range cpe.Attributes(cpe.V11) {
			if !candidate.At(i, att).Contains(known.At(i, att)) {
				return false
			}
		}
	}
	return true
}

// Set is an unordered collection of known instance names.
type Set struct {
	names []*cpe.Name
	pf    *prefilter
	dirty bool
	nopf  bool
}

// NewSet builds a known-instance set, deduplicating by source text.
func NewSet(names ...*cpe.Name) *Set {
	s := &Set{}
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add appends a name to the set, reporting false when an identical source
// string is already present.
func (s *Set) Add(n *cpe.Name) bool {
	for _, k := range s.names {
		if k.String() == n.String() {
			return false
		}
	}
	s.names = append(s.names, n)
	s.dirty = true
	return true
}

// Len returns the number of known instances.
func (s *Set) Len() int { return len(s.names) }

// Names returns the known instances in insertion order.
func (s *Set) Names() []*cpe.Name {
	return append([]*cpe.Name(nil), s.names...)
}

// SetPrefilterEnabled toggles the literal prefilter. Matching results are
// identical either way.
func (s *Set) SetPrefilterEnabled(enabled bool) {
	s.nopf = !enabled
	s.dirty = true
}

// NameMatch reports whether the candidate matches the set: some known
// instance is covered by the candidate. It short-circuits on the first hit,
// in insertion order.
func (s *Set) NameMatch(candidate *cpe.Name) bool {
	for _, i := range s.candidates(candidate) {
		if Superset(candidate, s.names[i]) {
			return true
		}
	}
	return false
}

func (s *Set) candidates(candidate *cpe.Name) []int {
	if s.nopf {
		return s.all()
	}
	if s.dirty {
		s.pf = buildPrefilter(s.names)
		s.dirty = false
	}
	return s.pf.candidates(candidate, len(s.names))
}

func (s *Set) all() []int {
	idx := make([]int, len(s.names))
	for i := range idx {
		idx[i] = i
	}
	return idx
}
