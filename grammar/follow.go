package grammar

import (
	"fmt"

	"github.com/jaimegarza/syntax-sub000/grammar/symbol"
)

// followEntry is a FOLLOW set. The end-of-input symbol is an ordinary member because it has the
// terminal ID 0.
type followEntry struct {
	symbols *termSet
}

func newFollowEntry() *followEntry {
	return &followEntry{
		symbols: newTermSet(),
	}
}

func (e *followEntry) addEOF() bool {
	return e.symbols.add(symbol.SymbolEOF)
}

func (e *followEntry) merge(fst *firstEntry, flw *followEntry) bool {
	changed := false
	if fst != nil && e.symbols.merge(fst.symbols) {
		changed = true
	}
	if flw != nil && e.symbols.merge(flw.symbols) {
		changed = true
	}
	return changed
}

type followSet struct {
	set map[symbol.Symbol]*followEntry
}

func newFollow(prods *productionSet) *followSet {
	flw := &followSet{
		set: map[symbol.Symbol]*followEntry{},
	}
	for _, prod := range prods.getAllProductions() {
		if _, ok := flw.set[prod.lhs]; ok {
			continue
		}
		flw.set[prod.lhs] = newFollowEntry()
	}
	return flw
}

func (flw *followSet) find(sym symbol.Symbol) (*followEntry, error) {
	e, ok := flw.set[sym]
	if !ok {
		return nil, fmt.Errorf("an entry of FOLLOW was not found; symbol: %s", sym)
	}
	return e, nil
}

type followComContext struct {
	prods  *productionSet
	first  *firstSet
	follow *followSet
}

func newFollowComContext(prods *productionSet, first *firstSet) *followComContext {
	return &followComContext{
		prods:  prods,
		first:  first,
		follow: newFollow(prods),
	}
}

// genFollowSet computes FOLLOW sets of the non-terminal symbols having productions. FOLLOW of the
// augmented start symbol and of the start symbol contain the end-of-input symbol.
func genFollowSet(prods *productionSet, first *firstSet, augStart, start symbol.Symbol) (*followSet, error) {
	var ntsyms []symbol.Symbol
	{
		seen := map[symbol.Symbol]struct{}{}
		for _, prod := range prods.getAllProductions() {
			if _, ok := seen[prod.lhs]; ok {
				continue
			}
			seen[prod.lhs] = struct{}{}
			ntsyms = append(ntsyms, prod.lhs)
		}
	}

	cc := newFollowComContext(prods, first)
	for _, sym := range []symbol.Symbol{augStart, start} {
		e, err := cc.follow.find(sym)
		if err != nil {
			return nil, err
		}
		e.addEOF()
	}
	for pass := 1; ; pass++ {
		more := false
		for _, ntsym := range ntsyms {
			e, err := cc.follow.find(ntsym)
			if err != nil {
				return nil, err
			}
			changed, err := genFollowEntry(cc, e, ntsym)
			if err != nil {
				return nil, err
			}
			if changed {
				more = true
			}
		}
		if !more {
			tracer().Debugf("FOLLOW sets converged after %v passes", pass)
			break
		}
	}

	return cc.follow, nil
}

func genFollowEntry(cc *followComContext, acc *followEntry, ntsym symbol.Symbol) (bool, error) {
	changed := false
	for _, prod := range cc.prods.getAllProductions() {
		for i, sym := range prod.rhs {
			if sym != ntsym {
				continue
			}
			fst, err := cc.first.find(prod, i+1)
			if err != nil {
				return false, err
			}
			if acc.merge(fst, nil) {
				changed = true
			}
			if fst.empty && prod.lhs != ntsym {
				flw, err := cc.follow.find(prod.lhs)
				if err != nil {
					return false, err
				}
				if acc.merge(nil, flw) {
					changed = true
				}
			}
		}
	}

	return changed, nil
}
