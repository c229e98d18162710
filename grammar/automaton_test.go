package grammar

import (
	"fmt"
	"sort"
	"testing"

	"github.com/jaimegarza/syntax-sub000/grammar/symbol"
	spec "github.com/jaimegarza/syntax-sub000/spec/grammar"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

type expectedDot struct {
	key       dotKey
	lookAhead []int
	carry     bool
}

func dotsOf(ds []*dot) []expectedDot {
	var eds []expectedDot
	for _, d := range ds {
		eds = append(eds, expectedDot{
			key:       d.key(),
			lookAhead: d.lookAhead.ints(),
			carry:     d.carry,
		})
	}
	return eds
}

func TestAutomaton_LALR(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "syntax.grammar")
	defer teardown()

	gram := buildTestGrammar(t, exprGrammar)
	ab, tb := buildTestTables(t, gram, spec.AlgorithmLALR)

	genSym := newTestSymbolGenerator(t, gram.symbolTable)
	findProd := newTestProductionFinder(t, gram)
	genDot := newTestDotGenerator(findProd)
	la := func(texts ...string) []int {
		var syms []symbol.Symbol
		for _, text := range texts {
			syms = append(syms, genSym(text))
		}
		return symbolsToInts(syms...)
	}

	tests := []struct {
		from    stateNum
		sym     symbol.Symbol
		kernel  []expectedDot
		closure []expectedDot
		row     []int
	}{
		{
			from: stateNumNil,
			sym:  symbol.SymbolNil,
			kernel: []expectedDot{
				{key: genDot(0, "$start", "expr"), lookAhead: la("$")},
			},
			closure: []expectedDot{
				{key: genDot(0, "expr", "expr", "'+'", "term"), lookAhead: la("$", "'+'"), carry: true},
				{key: genDot(0, "expr", "term"), lookAhead: la("$", "'+'"), carry: true},
				{key: genDot(0, "term", "id"), lookAhead: la("$", "'+'"), carry: true},
			},
			row: []int{0, 0, 3, 1, 2, 0},
		},
		{
			from: 0,
			sym:  genSym("expr"),
			kernel: []expectedDot{
				{key: genDot(1, "$start", "expr"), lookAhead: la("$")},
				{key: genDot(1, "expr", "expr", "'+'", "term"), lookAhead: la("$", "'+'")},
			},
			row: []int{spec.ActionAccept, 4, 0, 0, 0, 0},
		},
		{
			from: 0,
			sym:  genSym("term"),
			kernel: []expectedDot{
				{key: genDot(1, "expr", "term"), lookAhead: la("$", "'+'")},
			},
			row: []int{-2, -2, 0, 0, 0, 0},
		},
		{
			from: 0,
			sym:  genSym("id"),
			kernel: []expectedDot{
				{key: genDot(1, "term", "id"), lookAhead: la("$", "'+'")},
			},
			row: []int{-3, -3, 0, 0, 0, 0},
		},
		{
			from: 1,
			sym:  genSym("'+'"),
			kernel: []expectedDot{
				{key: genDot(2, "expr", "expr", "'+'", "term"), lookAhead: la("$", "'+'")},
			},
			closure: []expectedDot{
				{key: genDot(0, "term", "id"), lookAhead: la("$", "'+'"), carry: true},
			},
			row: []int{0, 0, 3, 0, 5, 0},
		},
		{
			from: 4,
			sym:  genSym("term"),
			kernel: []expectedDot{
				{key: genDot(3, "expr", "expr", "'+'", "term"), lookAhead: la("$", "'+'")},
			},
			row: []int{-1, -1, 0, 0, 0, 0},
		},
	}
	if len(ab.states) != len(tests) {
		t.Fatalf("unexpected state count; want: %v, got: %v", len(tests), len(ab.states))
	}
	for i, tt := range tests {
		s := ab.states[i]
		assert.Equal(t, stateNum(i), s.num)
		assert.Equal(t, tt.from, s.from, "state %v", i)
		assert.Equal(t, tt.sym, s.sym, "state %v", i)
		assert.Equal(t, tt.kernel, dotsOf(s.kernel), "kernel of state %v", i)
		assert.Equal(t, tt.closure, dotsOf(s.closure), "closure of state %v", i)
		assert.Equal(t, tt.row, tb.rows[i], "row of state %v", i)
		assert.False(t, s.review, "state %v", i)
	}
	assert.Empty(t, tb.conflicts)
}

// In this grammar, SLR and LALR lookaheads differ: FOLLOW(r) contains '=' but no state reduces
// r → l on '=' under LALR.
const lalrOnlyGrammar = `
%%
s : l '=' r | r ;
l : '*' r | id ;
r : l ;
`

func TestAutomaton_MergedLookAheads(t *testing.T) {
	gram := buildTestGrammar(t, lalrOnlyGrammar)
	ab, tb := buildTestTables(t, gram, spec.AlgorithmLALR)

	findProd := newTestProductionFinder(t, gram)
	genDot := newTestDotGenerator(findProd)
	genSym := newTestSymbolGenerator(t, gram.symbolTable)

	var found bool
	for _, s := range ab.states {
		if len(s.kernel) != 2 || s.kernel[0].key() != genDot(1, "s", "l", "'='", "r") {
			continue
		}
		found = true
		assert.Equal(t, genDot(1, "r", "l"), s.kernel[1].key())
		assert.Equal(t, []int{symbol.SymbolEOF.Int()}, s.kernel[1].lookAhead.ints())
		row := tb.rows[s.num]
		assert.True(t, row[genSym("'='")] > 0, "'=' must be shifted")
		assert.Equal(t, newReduceAction(findProd("r", "l").num), row[symbol.SymbolEOF])
	}
	assert.True(t, found, "the state after l was not found")

	// Lookaheads flow from l → '*'・r into the state reached on l from there.
	for _, s := range ab.states {
		if len(s.kernel) != 1 || s.kernel[0].key() != genDot(1, "r", "l") {
			continue
		}
		assert.ElementsMatch(t, []int{symbol.SymbolEOF.Int(), genSym("'='").Int()}, s.kernel[0].lookAhead.ints())
	}
	assert.Empty(t, tb.conflicts)
}

func TestAutomaton_ClosureIsIdempotent(t *testing.T) {
	for _, src := range []string{exprGrammar, lalrOnlyGrammar} {
		for _, algorithm := range []spec.Algorithm{spec.AlgorithmLALR, spec.AlgorithmSLR} {
			gram := buildTestGrammar(t, src)
			ab, _ := buildTestTables(t, gram, algorithm)
			for _, s := range ab.states {
				before := dotsOf(s.allDots())
				if err := ab.closure(s); err != nil {
					t.Fatal(err)
				}
				assert.Equal(t, before, dotsOf(s.allDots()), "%v: state %v", algorithm, s.num)
			}
		}
	}
}

func TestAutomaton_KernelsAreUnique(t *testing.T) {
	gram := buildTestGrammar(t, lalrOnlyGrammar)
	ab, _ := buildTestTables(t, gram, spec.AlgorithmLALR)
	seen := map[kernelID]stateNum{}
	for _, s := range ab.states {
		id := genKernelID(s.kernel)
		if prev, ok := seen[id]; ok {
			t.Fatalf("states %v and %v have the same kernel", prev, s.num)
		}
		seen[id] = s.num
	}
}

func TestGenKernelID(t *testing.T) {
	gram := buildTestGrammar(t, exprGrammar)
	findProd := newTestProductionFinder(t, gram)
	p1 := findProd("$start", "expr")
	p2 := findProd("expr", "expr", "'+'", "term")

	a := genKernelID([]*dot{newDot(p1, 1), newDot(p2, 1)})
	b := genKernelID([]*dot{newDot(p2, 1), newDot(p1, 1)})
	assert.Equal(t, a, b, "order of dots must not matter")

	withLA := newDot(p1, 1)
	withLA.lookAhead.add(symbol.SymbolEOF)
	assert.Equal(t, a, genKernelID([]*dot{withLA, newDot(p2, 1)}), "lookaheads must not matter")

	assert.NotEqual(t, a, genKernelID([]*dot{newDot(p1, 1), newDot(p2, 2)}))
}

type lr1Item struct {
	key dotKey
	la  symbol.Symbol
}

// canonicalLookAheads builds the canonical LR(1) collection of a grammar and merges the kernel
// lookaheads of the states having the same core.
func canonicalLookAheads(t *testing.T, gram *Grammar) map[kernelID]map[dotKey]*termSet {
	t.Helper()

	fst, err := genFirstSet(gram.productionSet, gram.symbolTable)
	if err != nil {
		t.Fatal(err)
	}
	prods := gram.productionSet
	prodOf := func(it lr1Item) *production {
		p, ok := prods.findByNum(it.key.prod)
		if !ok {
			t.Fatalf("production %v was not found", it.key.prod)
		}
		return p
	}

	closure := func(kernel []lr1Item) []lr1Item {
		items := append([]lr1Item{}, kernel...)
		seen := map[lr1Item]struct{}{}
		for _, it := range items {
			seen[it] = struct{}{}
		}
		for i := 0; i < len(items); i++ {
			it := items[i]
			p := prodOf(it)
			if it.key.pos >= p.rhsLen || !gram.symbolTable.IsNonTerminal(p.rhs[it.key.pos]) {
				continue
			}
			e, err := fst.find(p, it.key.pos+1)
			if err != nil {
				t.Fatal(err)
			}
			las := e.symbols.symbols()
			if e.empty {
				las = append(las, it.la)
			}
			nps, _ := prods.findByLHS(p.rhs[it.key.pos])
			for _, np := range nps {
				for _, la := range las {
					n := lr1Item{key: dotKey{prod: np.num, pos: 0}, la: la}
					if _, ok := seen[n]; ok {
						continue
					}
					seen[n] = struct{}{}
					items = append(items, n)
				}
			}
		}
		return items
	}

	stateKey := func(kernel []lr1Item) string {
		sort.Slice(kernel, func(i, j int) bool {
			a, b := kernel[i], kernel[j]
			if a.key.prod != b.key.prod {
				return a.key.prod < b.key.prod
			}
			if a.key.pos != b.key.pos {
				return a.key.pos < b.key.pos
			}
			return a.la < b.la
		})
		return fmt.Sprint(kernel)
	}

	merged := map[kernelID]map[dotKey]*termSet{}
	initial := []lr1Item{{key: dotKey{prod: productionNumStart, pos: 0}, la: symbol.SymbolEOF}}
	seen := map[string]struct{}{stateKey(initial): {}}
	queue := [][]lr1Item{initial}
	for len(queue) > 0 {
		kernel := queue[0]
		queue = queue[1:]

		core := map[dotKey]*termSet{}
		var coreDots []*dot
		for _, it := range kernel {
			if _, ok := core[it.key]; !ok {
				core[it.key] = newTermSet()
				coreDots = append(coreDots, newDot(prodOf(it), it.key.pos))
			}
			core[it.key].add(it.la)
		}
		id := genKernelID(coreDots)
		if merged[id] == nil {
			merged[id] = map[dotKey]*termSet{}
		}
		for k, las := range core {
			if merged[id][k] == nil {
				merged[id][k] = newTermSet()
			}
			merged[id][k].merge(las)
		}

		next := map[symbol.Symbol][]lr1Item{}
		var syms []symbol.Symbol
		for _, it := range closure(kernel) {
			p := prodOf(it)
			if it.key.pos >= p.rhsLen {
				continue
			}
			sym := p.rhs[it.key.pos]
			if _, ok := next[sym]; !ok {
				syms = append(syms, sym)
			}
			next[sym] = append(next[sym], lr1Item{key: dotKey{prod: it.key.prod, pos: it.key.pos + 1}, la: it.la})
		}
		for _, sym := range syms {
			k := next[sym]
			sk := stateKey(k)
			if _, ok := seen[sk]; ok {
				continue
			}
			seen[sk] = struct{}{}
			queue = append(queue, k)
		}
	}
	return merged
}

func TestAutomaton_LookAheadsMatchMergedLR1(t *testing.T) {
	tests := []struct {
		caption string
		src     string
	}{
		{
			caption: "states with transitions to themselves",
			src: `
%start e
%%
e : e '+' t | t ;
t : t '*' f | f ;
f : '(' e ')' | id ;
`,
		},
		{
			caption: "lookaheads differing from FOLLOW",
			src:     lalrOnlyGrammar,
		},
		{
			caption: "nullable symbols",
			src: `
%start s
%%
s : a b 'c' | b 'd' ;
a : 'a' a | ;
b : 'b' | ;
`,
		},
		{
			caption: "nested lists",
			src: `
%start list
%%
list : '[' elems ']' ;
elems : elems ',' elem | elem ;
elem : list | id | ;
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			gram := buildTestGrammar(t, tt.src)
			ab, _ := buildTestTables(t, gram, spec.AlgorithmLALR)
			expected := canonicalLookAheads(t, gram)

			assert.Len(t, expected, len(ab.states))
			for _, s := range ab.states {
				assert.False(t, s.review, "state %v", s.num)
				las, ok := expected[genKernelID(s.kernel)]
				if !assert.True(t, ok, "state %v has no LR(1) counterpart", s.num) {
					continue
				}
				for _, d := range s.kernel {
					assert.Equal(t, las[d.key()].ints(), d.lookAhead.ints(), "state %v, dot %v", s.num, d)
				}
			}
		})
	}
}
