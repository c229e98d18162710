package grammar

import (
	"fmt"

	"github.com/jaimegarza/syntax-sub000/grammar/symbol"
	spec "github.com/jaimegarza/syntax-sub000/spec/grammar"
)

type stateNum int

const (
	stateNumInitial = stateNum(0)
	stateNumNil     = stateNum(-1)
)

func (n stateNum) Int() int {
	return int(n)
}

func (n stateNum) String() string {
	return fmt.Sprintf("%v", int(n))
}

type state struct {
	num  stateNum
	from stateNum
	sym  symbol.Symbol

	kernel  []*dot
	closure []*dot
	dots    map[dotKey]*dot

	// review is true while lookaheads of the state grew after its transitions were last computed.
	review bool

	// row has a column per symbol ID. After transitions are computed it holds the shift targets
	// of terminal symbols and the goto targets of non-terminal symbols. completeState then adds
	// the reduce actions.
	row []int
}

func (s *state) dotCount() int {
	return len(s.kernel) + len(s.closure)
}

func (s *state) dotAt(i int) *dot {
	if i < len(s.kernel) {
		return s.kernel[i]
	}
	return s.closure[i-len(s.kernel)]
}

// allDots returns the kernel dots followed by the closure dots in creation order.
func (s *state) allDots() []*dot {
	ds := make([]*dot, 0, s.dotCount())
	ds = append(ds, s.kernel...)
	return append(ds, s.closure...)
}

type automatonBuilder struct {
	algorithm spec.Algorithm
	prods     *productionSet
	symTab    *symbol.SymbolTableReader
	first     *firstSet
	augStart  symbol.Symbol
	colCount  int

	states  []*state
	kernels map[kernelID]stateNum
}

func newAutomatonBuilder(algorithm spec.Algorithm, prods *productionSet, symTab *symbol.SymbolTableReader, first *firstSet, augStart symbol.Symbol) *automatonBuilder {
	return &automatonBuilder{
		algorithm: algorithm,
		prods:     prods,
		symTab:    symTab,
		first:     first,
		augStart:  augStart,
		colCount:  symTab.TerminalCount() + symTab.NonTerminalCount(),
		kernels:   map[kernelID]stateNum{},
	}
}

func (b *automatonBuilder) lalr() bool {
	return b.algorithm == spec.AlgorithmLALR
}

// build computes the canonical collection. Under LALR, passes over the states marked for review
// repeat until a pass grows no lookahead. Then a final pass over all states calls complete for
// each state in number order. SLR needs only the final pass.
func (b *automatonBuilder) build(complete func(s *state) error) error {
	prods, ok := b.prods.findByLHS(b.augStart)
	if !ok {
		return fmt.Errorf("the augmented start symbol has no production")
	}
	kernel := make([]*dot, 0, len(prods))
	for _, prod := range prods {
		d := newDot(prod, 0)
		if b.lalr() {
			d.lookAhead.add(symbol.SymbolEOF)
		}
		kernel = append(kernel, d)
	}
	if _, err := b.newState(stateNumNil, symbol.SymbolNil, kernel); err != nil {
		return err
	}

	finalPhase := !b.lalr()
	for pass := 1; ; pass++ {
		affected := 0
		for i := 0; i < len(b.states); i++ {
			s := b.states[i]
			if !s.review && !finalPhase {
				continue
			}
			// A transition of the state to itself can mark it for review again.
			s.review = false
			if err := b.closure(s); err != nil {
				return err
			}
			n, err := b.computeTransitions(s)
			if err != nil {
				return err
			}
			affected += n

			if finalPhase {
				if b.lalr() && n > 0 {
					return fmt.Errorf("lookaheads grew in the final pass; state: %v", s.num)
				}
				if err := complete(s); err != nil {
					return err
				}
			}
		}
		tracer().Debugf("pass %v: %v states, %v affected", pass, len(b.states), affected)

		if finalPhase {
			break
		}
		if affected == 0 {
			finalPhase = true
		}
	}
	tracer().Infof("%v automaton: %v states", b.algorithm, len(b.states))

	return nil
}

func (b *automatonBuilder) newState(from stateNum, sym symbol.Symbol, kernel []*dot) (*state, error) {
	s := &state{
		num:    stateNum(len(b.states)),
		from:   from,
		sym:    sym,
		kernel: kernel,
		dots:   map[dotKey]*dot{},
		review: true,
	}
	for _, d := range kernel {
		s.dots[d.key()] = d
	}
	if err := b.closure(s); err != nil {
		return nil, err
	}
	b.states = append(b.states, s)
	b.kernels[genKernelID(kernel)] = s.num
	tracer().Debugf("state %v created from state %v on %v; kernel: %v", s.num, from, sym, kernel)

	return s, nil
}

// closure adds a dot at the head of every production of each non-terminal symbol following a dot.
// Under LALR, the added dot takes FIRST of the rest of the marker's production, and also the
// marker's lookahead when that rest can be empty. Lookaheads can grow after a dot was added, so
// the scan repeats until nothing changes. Running closure again on a complete state changes
// nothing.
func (b *automatonBuilder) closure(s *state) error {
	for {
		grown := false
		for i := 0; i < s.dotCount(); i++ {
			d := s.dotAt(i)
			sym, ok := d.nextSymbol()
			if !ok || !b.symTab.IsNonTerminal(sym) {
				continue
			}
			prods, ok := b.prods.findByLHS(sym)
			if !ok {
				return fmt.Errorf("a non-terminal symbol has no production; symbol: %v", sym)
			}

			var fst *firstEntry
			if b.lalr() {
				var err error
				fst, err = b.first.find(d.prod, d.pos+1)
				if err != nil {
					return err
				}
			}

			for _, prod := range prods {
				key := dotKey{prod: prod.num, pos: 0}
				aux, ok := s.dots[key]
				if !ok {
					aux = newDot(prod, 0)
					s.dots[key] = aux
					s.closure = append(s.closure, aux)
					grown = true
				}
				if !b.lalr() {
					continue
				}
				if aux.lookAhead.merge(fst.symbols) {
					grown = true
				}
				if fst.empty {
					aux.carry = true
					if aux.lookAhead.merge(d.lookAhead) {
						grown = true
					}
				}
			}
		}
		if !grown {
			return nil
		}
	}
}

// computeTransitions writes the shift and goto targets of a state into its row, creating the
// target states that don't exist yet. It returns how many existing states got larger lookaheads.
func (b *automatonBuilder) computeTransitions(s *state) (int, error) {
	row := make([]int, b.colCount)
	affected := 0
	dots := s.allDots()
	for i, d := range dots {
		sym, ok := d.nextSymbol()
		if !ok || row[sym] != 0 {
			continue
		}

		var kernel []*dot
		for _, e := range dots[i:] {
			esym, ok := e.nextSymbol()
			if !ok || esym != sym {
				continue
			}
			nd := newDot(e.prod, e.pos+1)
			if b.lalr() {
				nd.lookAhead.merge(e.lookAhead)
			}
			kernel = append(kernel, nd)
		}

		num, ok := b.kernels[genKernelID(kernel)]
		if !ok {
			next, err := b.newState(s.num, sym, kernel)
			if err != nil {
				return 0, err
			}
			num = next.num
		} else if b.lalr() {
			next := b.states[num]
			if mergeKernel(next, kernel) {
				next.review = true
				affected++
				tracer().Debugf("state %v: lookaheads grew by the transition from state %v on %v", num, s.num, sym)
			}
		}
		row[sym] = num.Int()
	}
	s.row = row

	return affected, nil
}

// mergeKernel merges the lookaheads of kernel into the kernel of s having the same items and
// reports whether any of them grew.
func mergeKernel(s *state, kernel []*dot) bool {
	grown := false
	for _, d := range kernel {
		target, ok := s.dots[d.key()]
		if !ok {
			continue
		}
		if target.lookAhead.merge(d.lookAhead) {
			grown = true
		}
	}
	return grown
}
