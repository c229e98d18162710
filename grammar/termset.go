package grammar

import (
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/jaimegarza/syntax-sub000/grammar/symbol"
)

// termSet is an ordered set of terminal symbols. Iterating it always yields IDs in ascending
// order, so tables built from it don't depend on insertion order.
type termSet struct {
	set *treeset.Set
}

func newTermSet(syms ...symbol.Symbol) *termSet {
	s := &termSet{
		set: treeset.NewWithIntComparator(),
	}
	for _, sym := range syms {
		s.set.Add(sym.Int())
	}
	return s
}

func (s *termSet) add(sym symbol.Symbol) bool {
	if s.set.Contains(sym.Int()) {
		return false
	}
	s.set.Add(sym.Int())
	return true
}

// merge adds all symbols of t and reports whether s grew.
func (s *termSet) merge(t *termSet) bool {
	if t == nil {
		return false
	}
	grown := false
	it := t.set.Iterator()
	for it.Next() {
		v := it.Value().(int)
		if s.set.Contains(v) {
			continue
		}
		s.set.Add(v)
		grown = true
	}
	return grown
}

func (s *termSet) contains(sym symbol.Symbol) bool {
	return s.set.Contains(sym.Int())
}

func (s *termSet) len() int {
	return s.set.Size()
}

func (s *termSet) clone() *termSet {
	c := newTermSet()
	c.merge(s)
	return c
}

func (s *termSet) symbols() []symbol.Symbol {
	syms := make([]symbol.Symbol, 0, s.set.Size())
	for _, v := range s.set.Values() {
		syms = append(syms, symbol.Symbol(v.(int)))
	}
	return syms
}

func (s *termSet) ints() []int {
	vs := make([]int, 0, s.set.Size())
	for _, v := range s.set.Values() {
		vs = append(vs, v.(int))
	}
	return vs
}
