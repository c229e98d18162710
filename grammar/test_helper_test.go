package grammar

import (
	"strings"
	"testing"

	"github.com/jaimegarza/syntax-sub000/grammar/symbol"
	spec "github.com/jaimegarza/syntax-sub000/spec/grammar"
	"github.com/jaimegarza/syntax-sub000/spec/grammar/parser"
)

func buildTestGrammar(t *testing.T, src string) *Grammar {
	t.Helper()

	ast, err := parser.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	b := GrammarBuilder{
		AST: ast,
	}
	gram, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return gram
}

type testSymbolGenerator func(text string) symbol.Symbol

func newTestSymbolGenerator(t *testing.T, symTab *symbol.SymbolTableReader) testSymbolGenerator {
	return func(text string) symbol.Symbol {
		t.Helper()

		sym, ok := symTab.ToSymbol(text)
		if !ok {
			t.Fatalf("symbol was not found: %v", text)
		}
		return sym
	}
}

type testProductionFinder func(lhs string, rhs ...string) *production

// newTestProductionFinder returns a function finding a production of a grammar by its symbols.
func newTestProductionFinder(t *testing.T, gram *Grammar) testProductionFinder {
	genSym := newTestSymbolGenerator(t, gram.symbolTable)
	return func(lhs string, rhs ...string) *production {
		t.Helper()

		prods, ok := gram.productionSet.findByLHS(genSym(lhs))
		if !ok {
			t.Fatalf("productions were not found: %v", lhs)
		}
	LOOP:
		for _, prod := range prods {
			if len(prod.rhs) != len(rhs) {
				continue
			}
			for i, text := range rhs {
				if prod.rhs[i] != genSym(text) {
					continue LOOP
				}
			}
			return prod
		}
		t.Fatalf("a production was not found: %v → %v", lhs, rhs)
		return nil
	}
}

type testDotGenerator func(dot int, lhs string, rhs ...string) dotKey

func newTestDotGenerator(findProd testProductionFinder) testDotGenerator {
	return func(dot int, lhs string, rhs ...string) dotKey {
		return dotKey{
			prod: findProd(lhs, rhs...).num,
			pos:  dot,
		}
	}
}

func symbolsToInts(syms ...symbol.Symbol) []int {
	vs := make([]int, len(syms))
	for i, sym := range syms {
		vs[i] = sym.Int()
	}
	return vs
}

func buildTestTables(t *testing.T, gram *Grammar, algorithm spec.Algorithm) (*automatonBuilder, *lrTableBuilder) {
	t.Helper()

	fst, err := genFirstSet(gram.productionSet, gram.symbolTable)
	if err != nil {
		t.Fatal(err)
	}
	flw, err := genFollowSet(gram.productionSet, fst, gram.augmentedStartSymbol, gram.startSymbol)
	if err != nil {
		t.Fatal(err)
	}
	tb := &lrTableBuilder{
		algorithm: algorithm,
		prods:     gram.productionSet,
		symTab:    gram.symbolTable,
		follow:    flw,
		augStart:  gram.augmentedStartSymbol,
		termCount: gram.symbolTable.TerminalCount(),
	}
	ab := newAutomatonBuilder(algorithm, gram.productionSet, gram.symbolTable, fst, gram.augmentedStartSymbol)
	if err := ab.build(tb.completeState); err != nil {
		t.Fatal(err)
	}
	return ab, tb
}
