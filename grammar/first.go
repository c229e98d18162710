package grammar

import (
	"fmt"

	"github.com/jaimegarza/syntax-sub000/grammar/symbol"
)

// firstEntry is a FIRST set. empty reports that the symbol or the sequence can derive the empty
// string.
type firstEntry struct {
	symbols *termSet
	empty   bool
}

func newFirstEntry() *firstEntry {
	return &firstEntry{
		symbols: newTermSet(),
		empty:   false,
	}
}

func (e *firstEntry) add(sym symbol.Symbol) bool {
	return e.symbols.add(sym)
}

func (e *firstEntry) addEmpty() bool {
	if !e.empty {
		e.empty = true
		return true
	}
	return false
}

func (e *firstEntry) mergeExceptEmpty(target *firstEntry) bool {
	if target == nil {
		return false
	}
	return e.symbols.merge(target.symbols)
}

type firstSet struct {
	set    map[symbol.Symbol]*firstEntry
	symTab *symbol.SymbolTableReader
}

func newFirstSet(prods *productionSet, symTab *symbol.SymbolTableReader) *firstSet {
	fst := &firstSet{
		set:    map[symbol.Symbol]*firstEntry{},
		symTab: symTab,
	}
	for _, prod := range prods.getAllProductions() {
		if _, ok := fst.set[prod.lhs]; ok {
			continue
		}
		fst.set[prod.lhs] = newFirstEntry()
	}

	return fst
}

// find returns FIRST of the RHS of a production starting at head.
func (fst *firstSet) find(prod *production, head int) (*firstEntry, error) {
	entry := newFirstEntry()
	if prod.rhsLen <= head {
		entry.addEmpty()
		return entry, nil
	}
	for _, sym := range prod.rhs[head:] {
		if fst.symTab.IsTerminal(sym) {
			entry.add(sym)
			return entry, nil
		}

		e := fst.findBySymbol(sym)
		if e == nil {
			return nil, fmt.Errorf("an entry of FIRST was not found; symbol: %s", sym)
		}
		entry.mergeExceptEmpty(e)
		if !e.empty {
			return entry, nil
		}
	}
	entry.addEmpty()
	return entry, nil
}

func (fst *firstSet) findBySymbol(sym symbol.Symbol) *firstEntry {
	return fst.set[sym]
}

// nullable reports whether a non-terminal symbol can derive the empty string.
func (fst *firstSet) nullable(sym symbol.Symbol) bool {
	e := fst.findBySymbol(sym)
	return e != nil && e.empty
}

type firstComContext struct {
	first *firstSet
}

func newFirstComContext(prods *productionSet, symTab *symbol.SymbolTableReader) *firstComContext {
	return &firstComContext{
		first: newFirstSet(prods, symTab),
	}
}

// genFirstSet computes FIRST sets by iterating over all productions until none of the sets grows.
func genFirstSet(prods *productionSet, symTab *symbol.SymbolTableReader) (*firstSet, error) {
	cc := newFirstComContext(prods, symTab)
	for pass := 1; ; pass++ {
		more := false
		for _, prod := range prods.getAllProductions() {
			e := cc.first.findBySymbol(prod.lhs)
			changed, err := genProdFirstEntry(cc, e, prod)
			if err != nil {
				return nil, err
			}
			if changed {
				more = true
			}
		}
		if !more {
			tracer().Debugf("FIRST sets converged after %v passes", pass)
			break
		}
	}
	return cc.first, nil
}

func genProdFirstEntry(cc *firstComContext, acc *firstEntry, prod *production) (bool, error) {
	if prod.isEmpty() {
		return acc.addEmpty(), nil
	}

	changed := false
	for _, sym := range prod.rhs {
		if cc.first.symTab.IsTerminal(sym) {
			return acc.add(sym) || changed, nil
		}

		e := cc.first.findBySymbol(sym)
		if e == nil {
			return false, fmt.Errorf("an entry of FIRST was not found; symbol: %s", sym)
		}
		if acc.mergeExceptEmpty(e) {
			changed = true
		}
		if !e.empty {
			return changed, nil
		}
	}
	return acc.addEmpty() || changed, nil
}
