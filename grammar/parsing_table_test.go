package grammar

import (
	"errors"
	"strings"
	"testing"

	"github.com/jaimegarza/syntax-sub000/grammar/symbol"
	spec "github.com/jaimegarza/syntax-sub000/spec/grammar"
	"github.com/stretchr/testify/assert"
)

func TestResolveSRConflict(t *testing.T) {
	gram := buildTestGrammar(t, `
%left '-'
%left '+'
%right '^'
%nonassoc '<'
%%
e : e '+' e | e '-' e | e '^' e | e '<' e | '(' e ')' | id ;
`)
	findProd := newTestProductionFinder(t, gram)
	genSym := newTestSymbolGenerator(t, gram.symbolTable)
	b := &lrTableBuilder{
		symTab: gram.symbolTable,
	}

	add := findProd("e", "e", "'+'", "e")
	sub := findProd("e", "e", "'-'", "e")
	pow := findProd("e", "e", "'^'", "e")
	lt := findProd("e", "e", "'<'", "e")
	paren := findProd("e", "'('", "e", "')'")

	tests := []struct {
		caption string
		sym     string
		prod    *production
		act     ActionType
		method  conflictResolutionMethod
	}{
		{
			caption: "equal precedence and left associativity reduce",
			sym:     "'+'",
			prod:    add,
			act:     ActionTypeReduce,
			method:  ResolvedByAssoc,
		},
		{
			caption: "a terminal with greater precedence shifts",
			sym:     "'+'",
			prod:    sub,
			act:     ActionTypeShift,
			method:  ResolvedByPrec,
		},
		{
			caption: "a production with greater precedence reduces",
			sym:     "'-'",
			prod:    add,
			act:     ActionTypeReduce,
			method:  ResolvedByPrec,
		},
		{
			caption: "precedence 3 against a production of precedence 2 shifts",
			sym:     "'^'",
			prod:    add,
			act:     ActionTypeShift,
			method:  ResolvedByPrec,
		},
		{
			caption: "equal precedence and right associativity shift",
			sym:     "'^'",
			prod:    pow,
			act:     ActionTypeShift,
			method:  ResolvedByAssoc,
		},
		{
			caption: "equal precedence without associativity shifts",
			sym:     "'<'",
			prod:    lt,
			act:     ActionTypeShift,
			method:  ResolvedByShift,
		},
		{
			caption: "a terminal without precedence shifts",
			sym:     "'('",
			prod:    add,
			act:     ActionTypeShift,
			method:  ResolvedByShift,
		},
		{
			caption: "a production without precedence shifts",
			sym:     "'+'",
			prod:    paren,
			act:     ActionTypeShift,
			method:  ResolvedByShift,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			act, method := b.resolveSRConflict(genSym(tt.sym), tt.prod)
			assert.Equal(t, tt.act, act)
			assert.Equal(t, tt.method, method)
		})
	}
}

func TestComputeReduce_Precedence(t *testing.T) {
	gram := buildTestGrammar(t, `
%left '+'
%left '*'
%%
e : e '+' e | e '*' e | id ;
`)
	_, tb := buildTestTables(t, gram, spec.AlgorithmLALR)
	findProd := newTestProductionFinder(t, gram)
	genSym := newTestSymbolGenerator(t, gram.symbolTable)
	add := findProd("e", "e", "'+'", "e")
	mul := findProd("e", "e", "'*'", "e")

	// All conflicts are resolved by precedence or associativity.
	assert.Empty(t, tb.warnings)
	assert.NotEmpty(t, tb.conflicts)
	for _, c := range tb.conflicts {
		sr, ok := c.(*shiftReduceConflict)
		if !ok {
			t.Fatalf("unexpected conflict: %#v", c)
		}
		row := tb.rows[sr.state]
		switch {
		case sr.prodNum == add.num && sr.sym == genSym("'+'"):
			assert.Equal(t, newReduceAction(add.num), row[sr.sym])
			assert.Equal(t, ResolvedByAssoc, sr.resolvedBy)
		case sr.prodNum == add.num && sr.sym == genSym("'*'"):
			assert.True(t, row[sr.sym] > 0, "'*' must be shifted")
			assert.Equal(t, ResolvedByPrec, sr.resolvedBy)
		case sr.prodNum == mul.num:
			assert.Equal(t, newReduceAction(mul.num), row[sr.sym])
		}
	}
}

func TestComputeReduce_ReduceReduceConflict(t *testing.T) {
	gram := buildTestGrammar(t, `
%%
s : a | b ;
a : id ;
b : id ;
`)
	_, tb := buildTestTables(t, gram, spec.AlgorithmLALR)
	findProd := newTestProductionFinder(t, gram)
	a := findProd("a", "id")
	b := findProd("b", "id")

	if len(tb.conflicts) != 1 {
		t.Fatalf("unexpected conflicts: %v", len(tb.conflicts))
	}
	rr, ok := tb.conflicts[0].(*reduceReduceConflict)
	if !ok {
		t.Fatalf("unexpected conflict: %#v", tb.conflicts[0])
	}
	assert.Equal(t, a.num, rr.prodNum1)
	assert.Equal(t, b.num, rr.prodNum2)
	assert.Equal(t, ResolvedByProdOrder, rr.resolvedBy)
	// The production with the greater number wins.
	assert.Equal(t, newReduceAction(b.num), tb.rows[rr.state][rr.sym])

	if len(tb.warnings) != 1 {
		t.Fatalf("unexpected warnings: %v", tb.warnings)
	}
	assert.True(t, errors.Is(tb.warnings[0], semErrRRConflict))
	assert.True(t, tb.warnings[0].Warning)
}

// In this grammar, the state reached on s can both accept and reduce a → s on $.
const acceptConflictGrammar = `
%start s
%%
s : a | 'x' ;
a : s 'y' | s ;
`

func TestComputeReduce_AcceptIsKept(t *testing.T) {
	gram := buildTestGrammar(t, acceptConflictGrammar)
	_, tb := buildTestTables(t, gram, spec.AlgorithmLALR)
	findProd := newTestProductionFinder(t, gram)

	var found bool
	for _, c := range tb.conflicts {
		sr, ok := c.(*shiftReduceConflict)
		if !ok || sr.sym != symbol.SymbolEOF {
			continue
		}
		found = true
		assert.Equal(t, findProd("a", "s").num, sr.prodNum)
		assert.Equal(t, spec.ActionAccept, sr.nextState)
		assert.Equal(t, ResolvedByShift, sr.resolvedBy)
		assert.Equal(t, spec.ActionAccept, tb.rows[sr.state][symbol.SymbolEOF])
	}
	assert.True(t, found, "the conflict on $ was not recorded")

	var accepted bool
	for _, w := range tb.warnings {
		if errors.Is(w, semErrSRConflict) && strings.Contains(w.Detail, "Accept") {
			accepted = true
		}
	}
	assert.True(t, accepted, "the conflict on $ was not reported")
}

func TestComputeReduce_SLRAndLALR(t *testing.T) {
	gram := buildTestGrammar(t, lalrOnlyGrammar)

	_, lalr := buildTestTables(t, gram, spec.AlgorithmLALR)
	assert.Empty(t, lalr.conflicts)
	assert.Empty(t, lalr.warnings)

	_, slr := buildTestTables(t, gram, spec.AlgorithmSLR)
	if len(slr.conflicts) != 1 {
		t.Fatalf("unexpected conflicts: %v", len(slr.conflicts))
	}
	sr, ok := slr.conflicts[0].(*shiftReduceConflict)
	if !ok {
		t.Fatalf("unexpected conflict: %#v", slr.conflicts[0])
	}
	genSym := newTestSymbolGenerator(t, gram.symbolTable)
	assert.Equal(t, genSym("'='"), sr.sym)
	assert.Equal(t, ResolvedByShift, sr.resolvedBy)
	assert.True(t, slr.rows[sr.state][sr.sym] > 0, "the shift must win")

	if len(slr.warnings) != 1 {
		t.Fatalf("unexpected warnings: %v", slr.warnings)
	}
	w := slr.warnings[0]
	assert.True(t, errors.Is(w, semErrSRConflict))
	assert.Contains(t, w.Detail, "'='")
}

func TestCompile_IsDeterministic(t *testing.T) {
	src := `
%left '+' '-'
%left '*' '/'
%right UMINUS
%%
e : e '+' e | e '-' e | e '*' e | e '/' e | '-' e %prec UMINUS | '(' e ')' | num ;
`
	var prev *spec.CompiledGrammar
	var prevReport *spec.Report
	for i := 0; i < 5; i++ {
		gram := buildTestGrammar(t, src)
		cg, report, err := Compile(gram, EnableReporting())
		if err != nil {
			t.Fatal(err)
		}
		if prev != nil {
			assert.Equal(t, prev.Syntactic, cg.Syntactic)
			assert.Equal(t, prevReport.States, report.States)
		}
		prev = cg
		prevReport = report
	}
}
