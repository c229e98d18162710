package grammar

import (
	"fmt"

	"github.com/jaimegarza/syntax-sub000/compressor"
	verr "github.com/jaimegarza/syntax-sub000/error"
	"github.com/jaimegarza/syntax-sub000/grammar/symbol"
	spec "github.com/jaimegarza/syntax-sub000/spec/grammar"
	"github.com/jaimegarza/syntax-sub000/spec/grammar/parser"
)

// lexEntry is a token pattern. Patterns of quoted literals are generated and come first.
type lexEntry struct {
	name    string
	pattern string
	skip    bool
	row     int
}

type Grammar struct {
	name                 string
	symbolTable          *symbol.SymbolTableReader
	productionSet        *productionSet
	augmentedStartSymbol symbol.Symbol
	startSymbol          symbol.Symbol
	lexEntries           []*lexEntry

	warnings verr.SpecErrors
}

func (g *Grammar) Name() string {
	return g.name
}

// Warnings returns the diagnostics that didn't stop the grammar from being built.
func (g *Grammar) Warnings() verr.SpecErrors {
	return g.warnings
}

type GrammarBuilder struct {
	AST *parser.RootNode

	errs  verr.SpecErrors
	warns verr.SpecErrors

	symTab     *symbol.SymbolTable
	name       string
	startName  string
	startPos   parser.Position
	lexEntries []*lexEntry
	lexNames   map[string]struct{}
	lhs        map[string]struct{}
	extRefs    map[string]int
}

func (b *GrammarBuilder) Build() (*Grammar, error) {
	if b.AST == nil || len(b.AST.Productions) == 0 {
		return nil, verr.SpecErrors{
			{
				Cause: semErrNoProduction,
			},
		}
	}

	b.symTab = symbol.NewSymbolTable()
	b.lexNames = map[string]struct{}{}
	b.lhs = map[string]struct{}{}
	b.extRefs = map[string]int{}

	b.readDeclarations()
	b.readProductions()
	b.promoteUndeclaredSymbols()
	b.checkSkippedTokens()
	b.determineStartSymbol()
	if len(b.errs) > 0 {
		return nil, append(b.errs, b.warns...)
	}

	w := b.symTab.Writer()
	if _, _, err := w.RegisterNonTerminal(symbol.NameStart, 0); err != nil {
		return nil, err
	}
	if err := w.Freeze(); err != nil {
		return nil, err
	}
	r := b.symTab.Reader()

	augStart, _ := r.ToSymbol(symbol.NameStart)
	start, _ := r.ToSymbol(b.startName)
	prods, err := b.genProductionSet(r, augStart, start)
	if err != nil {
		return nil, err
	}
	if len(b.errs) > 0 {
		return nil, append(b.errs, b.warns...)
	}

	tracer().Infof("grammar '%v': %v terminals, %v non-terminals, %v productions", b.name, r.TerminalCount(), r.NonTerminalCount(), len(prods.getAllProductions()))

	return &Grammar{
		name:                 b.name,
		symbolTable:          r,
		productionSet:        prods,
		augmentedStartSymbol: augStart,
		startSymbol:          start,
		lexEntries:           b.lexEntries,
		warnings:             b.warns,
	}, nil
}

func (b *GrammarBuilder) errorf(cause error, detail string, pos parser.Position) {
	b.errs = append(b.errs, &verr.SpecError{
		Cause:  cause,
		Detail: detail,
		Row:    pos.Row,
		Col:    pos.Col,
	})
}

func (b *GrammarBuilder) warnf(cause error, detail string, pos parser.Position) {
	b.warns = append(b.warns, &verr.SpecError{
		Cause:   cause,
		Detail:  detail,
		Row:     pos.Row,
		Col:     pos.Col,
		Warning: true,
	})
}

// readDeclarations registers the declared symbols. Each precedence directive opens a new level
// above the previous ones.
func (b *GrammarBuilder) readDeclarations() {
	precLevel := 0
	for _, decl := range b.AST.Declarations {
		switch decl.Kind {
		case parser.DirectiveGrammar:
			if b.name != "" {
				b.errorf(semErrDuplicateGrammarName, decl.Symbols[0].Name, decl.Pos)
				continue
			}
			b.name = decl.Symbols[0].Name
		case parser.DirectiveStart:
			if b.startName != "" {
				b.errorf(semErrDuplicateStart, decl.Symbols[0].Name, decl.Pos)
				continue
			}
			b.startName = decl.Symbols[0].Name
			b.startPos = decl.Pos
		case parser.DirectiveType, parser.DirectiveName:
			for _, ds := range decl.Symbols {
				e, ok := b.declareNonTerminal(ds)
				if !ok {
					continue
				}
				if decl.Kind == parser.DirectiveType {
					e.Type = decl.Type
				} else {
					e.FullName = ds.FullName
				}
			}
		case parser.DirectiveLex, parser.DirectiveSkip:
			for _, ds := range decl.Symbols {
				e, ok := b.declareToken(ds)
				if !ok {
					continue
				}
				if _, dup := b.lexNames[e.Name]; dup {
					b.errorf(semErrDuplicateLexEntry, e.Name, ds.Pos)
					continue
				}
				b.lexNames[e.Name] = struct{}{}
				b.lexEntries = append(b.lexEntries, &lexEntry{
					name:    e.Name,
					pattern: ds.Pattern,
					skip:    decl.Kind == parser.DirectiveSkip,
					row:     ds.Pos.Row,
				})
			}
		default:
			if decl.Kind.IsPrecedence() {
				precLevel++
			}
			for _, ds := range decl.Symbols {
				e, ok := b.declareToken(ds)
				if !ok {
					continue
				}
				if ds.FullName != "" {
					e.FullName = ds.FullName
				}
				if decl.Type != "" {
					e.Type = decl.Type
				}
				if ds.Number >= 0 {
					b.assignTokenNumber(e, ds.Number, ds.Pos)
				}
				if decl.Kind == parser.DirectiveError {
					e.ErrorToken = true
				}
				if !decl.Kind.IsPrecedence() {
					continue
				}
				if e.Prec != 0 {
					b.warnf(semErrReassignedPrec, e.Name, ds.Pos)
					continue
				}
				e.Prec = precLevel
				e.Assoc = toAssoc(decl.Kind)
			}
		}
	}
}

func toAssoc(kind parser.DirectiveKind) symbol.Assoc {
	switch kind {
	case parser.DirectiveLeft:
		return symbol.AssocLeft
	case parser.DirectiveRight:
		return symbol.AssocRight
	case parser.DirectiveBinary:
		return symbol.AssocBinary
	}
	return symbol.AssocNone
}

func (b *GrammarBuilder) declareToken(ds *parser.DeclSymbolNode) (*symbol.Entry, bool) {
	e, created, err := b.symTab.Writer().RegisterTerminal(ds.Name, ds.Pos.Row)
	if err != nil {
		b.errorf(semErrNonTerminalAsToken, ds.Name, ds.Pos)
		return nil, false
	}
	if created && ds.Literal {
		b.assignLiteralToken(e)
	}
	return e, true
}

func (b *GrammarBuilder) declareNonTerminal(ds *parser.DeclSymbolNode) (*symbol.Entry, bool) {
	if ds.Literal {
		b.errorf(semErrLiteralAsNonTerminal, ds.Name, ds.Pos)
		return nil, false
	}
	e, _, err := b.symTab.Writer().RegisterNonTerminal(ds.Name, ds.Pos.Row)
	if err != nil {
		b.errorf(semErrTokenAsNonTerminal, ds.Name, ds.Pos)
		return nil, false
	}
	return e, true
}

// assignTokenNumber gives a token an explicit number. A number already taken by another token is
// skipped, and the token keeps its former number.
func (b *GrammarBuilder) assignTokenNumber(e *symbol.Entry, num int, pos parser.Position) {
	if other, ok := b.symTab.Writer().FindByToken(num); ok && other != e {
		b.warnf(semErrTokenNumberUsed, fmt.Sprintf("%v already used on token '%v'", num, other.Name), pos)
		return
	}
	e.Token = num
}

// assignLiteralToken numbers a single-character literal with its character code.
func (b *GrammarBuilder) assignLiteralToken(e *symbol.Entry) {
	c, ok := parser.LiteralValue(e.Name)
	if !ok {
		return
	}
	if _, used := b.symTab.Writer().FindByToken(int(c)); used {
		return
	}
	e.Token = int(c)
}

// readProductions registers left-hand sides first, so a name on a right-hand side is known as a
// non-terminal symbol regardless of where its productions are. Other unknown names are registered
// as non-terminal symbols for now.
func (b *GrammarBuilder) readProductions() {
	w := b.symTab.Writer()
	r := b.symTab.Reader()
	for _, prod := range b.AST.Productions {
		if _, _, err := w.RegisterNonTerminal(prod.LHS, prod.Pos.Row); err != nil {
			b.errorf(semErrTokenAsNonTerminal, prod.LHS, prod.Pos)
			continue
		}
		b.lhs[prod.LHS] = struct{}{}
	}

	for _, prod := range b.AST.Productions {
		for _, alt := range prod.RHS {
			for _, elem := range alt.Elements {
				var e *symbol.Entry
				if elem.Literal {
					var created bool
					var err error
					e, created, err = w.RegisterTerminal(elem.Name, elem.Pos.Row)
					if err != nil {
						b.errorf(semErrLiteralAsNonTerminal, elem.Name, elem.Pos)
						continue
					}
					if created {
						b.assignLiteralToken(e)
					}
				} else {
					var ok bool
					e, ok = r.Lookup(elem.Name)
					if !ok {
						e, _, _ = w.RegisterNonTerminal(elem.Name, elem.Pos.Row)
					}
				}
				e.Refs++
				if elem.Name != prod.LHS {
					b.extRefs[elem.Name]++
				}
			}
		}
	}
}

// promoteUndeclaredSymbols turns names that appear on right-hand sides but have no production
// into terminal symbols.
func (b *GrammarBuilder) promoteUndeclaredSymbols() {
	w := b.symTab.Writer()
	entries := append([]*symbol.Entry{}, b.symTab.Reader().Entries()...)
	for _, e := range entries {
		if e.IsTerminal() {
			continue
		}
		if _, ok := b.lhs[e.Name]; ok {
			continue
		}
		pos := parser.Position{Row: e.Row}
		if e.Refs == 0 {
			b.warnf(semErrUnusedSymbol, e.Name, pos)
			continue
		}
		if _, err := w.Promote(e.Name); err != nil {
			b.errorf(err, "", pos)
			continue
		}
		b.warnf(semErrUndeclaredToken, e.Name, pos)
	}
}

func (b *GrammarBuilder) checkSkippedTokens() {
	r := b.symTab.Reader()
	for _, le := range b.lexEntries {
		if !le.skip {
			continue
		}
		if e, ok := r.Lookup(le.name); ok && e.Refs > 0 {
			b.errorf(semErrSkipUsedInRule, le.name, parser.Position{Row: le.row})
		}
	}
}

// determineStartSymbol takes the %start symbol, or else the only non-terminal symbol that no other
// production refers to. References of a symbol within its own productions don't count.
func (b *GrammarBuilder) determineStartSymbol() {
	r := b.symTab.Reader()
	var cands []*symbol.Entry
	for _, e := range r.Entries() {
		if e.IsTerminal() {
			continue
		}
		if _, ok := b.lhs[e.Name]; !ok {
			continue
		}
		if b.extRefs[e.Name] == 0 {
			cands = append(cands, e)
		}
	}

	if b.startName != "" {
		e, ok := r.Lookup(b.startName)
		switch {
		case !ok:
			b.errorf(semErrUndefinedStart, b.startName, b.startPos)
			return
		case e.IsTerminal():
			b.errorf(semErrStartNotNonTerminal, b.startName, b.startPos)
			return
		}
		if _, ok := b.lhs[b.startName]; !ok {
			b.errorf(semErrUndefinedStart, b.startName, b.startPos)
			return
		}
		for _, c := range cands {
			if c.Name == b.startName {
				continue
			}
			b.warnf(semErrUnusedSymbol, c.Name, parser.Position{Row: c.Row})
		}
		return
	}

	switch len(cands) {
	case 0:
		b.errorf(semErrStartNotExist, "", parser.Position{})
	case 1:
		b.startName = cands[0].Name
		b.startPos = parser.Position{Row: cands[0].Row}
		b.warnf(semErrAssumedStart, b.startName, b.startPos)
	default:
		for _, c := range cands {
			b.warnf(semErrUnusedSymbol, c.Name, parser.Position{Row: c.Row})
		}
		b.errorf(semErrNoStart, "", parser.Position{})
	}
}

// genProductionSet numbers the productions in the order of the grammar file after the augmented
// production `$start → start`, which is always the production 0.
func (b *GrammarBuilder) genProductionSet(r *symbol.SymbolTableReader, augStart, start symbol.Symbol) (*productionSet, error) {
	prods := newProductionSet()
	p0, err := newProduction(augStart, []symbol.Symbol{start})
	if err != nil {
		return nil, err
	}
	prods.append(p0)

	for _, prod := range b.AST.Productions {
		lhs, ok := r.ToSymbol(prod.LHS)
		if !ok {
			return nil, fmt.Errorf("a symbol was not found in the symbol table: %v", prod.LHS)
		}
		for _, alt := range prod.RHS {
			rhs := make([]symbol.Symbol, 0, len(alt.Elements))
			for _, elem := range alt.Elements {
				sym, ok := r.ToSymbol(elem.Name)
				if !ok {
					return nil, fmt.Errorf("a symbol was not found in the symbol table: %v", elem.Name)
				}
				rhs = append(rhs, sym)
			}
			p, err := newProduction(lhs, rhs)
			if err != nil {
				return nil, err
			}
			p.row = alt.Pos.Row

			if alt.Prec != nil {
				e, ok := r.Lookup(alt.Prec.Name)
				if !ok || !e.IsTerminal() {
					b.errorf(semErrPrecNotTerminal, alt.Prec.Name, alt.Prec.Pos)
					continue
				}
				p.prec = e.Prec
				p.precSym = e.ID
			} else {
				for i := len(rhs) - 1; i >= 0; i-- {
					e, _ := r.Entry(rhs[i])
					if !e.IsTerminal() {
						continue
					}
					p.prec = e.Prec
					p.precSym = e.ID
					break
				}
			}

			prods.append(p)
		}
	}

	return prods, nil
}

type compileConfig struct {
	isReportingEnabled bool
	algorithm          spec.Algorithm
	tabular            bool
	compressionLevel   int
	onWarning          func(w *verr.SpecError)
}

type CompileOption func(config *compileConfig)

func EnableReporting() CompileOption {
	return func(config *compileConfig) {
		config.isReportingEnabled = true
	}
}

func Algorithm(algorithm spec.Algorithm) CompileOption {
	return func(config *compileConfig) {
		config.algorithm = algorithm
	}
}

// Tabular keeps a full row per state instead of packing the rows. The rows are compressed at the
// level set by CompressionLevel.
func Tabular() CompileOption {
	return func(config *compileConfig) {
		config.tabular = true
	}
}

func CompressionLevel(lv int) CompileOption {
	return func(config *compileConfig) {
		config.compressionLevel = lv
	}
}

// OnWarning registers a function receiving the warnings of a grammar and its conflicts.
func OnWarning(f func(w *verr.SpecError)) CompileOption {
	return func(config *compileConfig) {
		config.onWarning = f
	}
}

func Compile(gram *Grammar, opts ...CompileOption) (*spec.CompiledGrammar, *spec.Report, error) {
	config := &compileConfig{
		algorithm:        spec.AlgorithmLALR,
		compressionLevel: compressor.CompressionLevelMax,
	}
	for _, opt := range opts {
		opt(config)
	}
	if config.algorithm != spec.AlgorithmLALR && config.algorithm != spec.AlgorithmSLR {
		return nil, nil, fmt.Errorf("unknown algorithm: %v", config.algorithm)
	}

	symTab := gram.symbolTable
	firstSet, err := genFirstSet(gram.productionSet, symTab)
	if err != nil {
		return nil, nil, err
	}
	followSet, err := genFollowSet(gram.productionSet, firstSet, gram.augmentedStartSymbol, gram.startSymbol)
	if err != nil {
		return nil, nil, err
	}

	lexSpec, err := genLexicalSpec(gram)
	if err != nil {
		return nil, nil, err
	}

	terms := genTerminals(gram)
	nonTerms := genNonTerminals(gram, firstSet, followSet)

	tb := &lrTableBuilder{
		algorithm: config.algorithm,
		prods:     gram.productionSet,
		symTab:    symTab,
		follow:    followSet,
		augStart:  gram.augmentedStartSymbol,
		termCount: symTab.TerminalCount(),
	}
	if !config.tabular {
		termNames := make([]string, len(terms))
		for i, t := range terms {
			termNames[i] = t.FullName
		}
		nonTermNames := make([]string, len(nonTerms))
		for i, n := range nonTerms {
			nonTermNames[i] = n.FullName
		}
		tb.packer = compressor.NewPacker(termNames, nonTermNames)
	}

	ab := newAutomatonBuilder(config.algorithm, gram.productionSet, symTab, firstSet, gram.augmentedStartSymbol)
	if err := ab.build(tb.completeState); err != nil {
		return nil, nil, err
	}

	warnings := append(verr.SpecErrors{}, gram.warnings...)
	warnings = append(warnings, tb.warnings...)
	if config.onWarning != nil {
		for _, w := range warnings {
			config.onWarning(w)
		}
	}
	if len(tb.conflicts) > 0 {
		tracer().Infof("%v conflicts, %v of them not resolved by precedence", len(tb.conflicts), len(tb.warnings))
	}

	allProds := gram.productionSet.getAllProductions()
	lhsSyms := make([]int, len(allProds))
	altSymCounts := make([]int, len(allProds))
	for _, p := range allProds {
		lhsSyms[p.num] = p.lhs.Int()
		altSymCounts[p.num] = p.rhsLen
	}

	synSpec := &spec.SyntacticSpec{
		Packed:                  !config.tabular,
		StateCount:              len(ab.states),
		InitialState:            stateNumInitial.Int(),
		StartProduction:         productionNumStart.Int(),
		LHSSymbols:              lhsSyms,
		AlternativeSymbolCounts: altSymCounts,
		Terminals:               terms,
		TerminalCount:           len(terms),
		NonTerminals:            nonTerms,
		NonTerminalCount:        len(nonTerms),
		EOFSymbol:               symbol.SymbolEOF.Int(),
	}
	var packed *compressor.PackedTable
	if tb.packer != nil {
		packed = tb.packer.Finish()
		synSpec.States = packed.States
		synSpec.Actions = packed.Actions
		synSpec.GoTos = packed.GoTos
		synSpec.GoToPositions = packed.GoToPositions
		synSpec.ErrorMessages = packed.ErrorMessages
		synSpec.ActionCount = len(packed.Actions)
		synSpec.GoToCount = len(packed.GoTos)
	} else {
		tab, err := compressor.CompressRows(tb.rows, config.compressionLevel)
		if err != nil {
			return nil, nil, err
		}
		synSpec.Table = tab
		for _, row := range tb.rows {
			for i, v := range row {
				if v == 0 {
					continue
				}
				if i < len(terms) {
					synSpec.ActionCount++
				} else {
					synSpec.GoToCount++
				}
			}
		}
	}

	var report *spec.Report
	if config.isReportingEnabled {
		report, err = genReport(&reportSource{
			gram:      gram,
			algorithm: config.algorithm,
			automaton: ab,
			table:     tb,
			packed:    packed,
			terms:     terms,
			nonTerms:  nonTerms,
			warnings:  warnings,
		})
		if err != nil {
			return nil, nil, err
		}
	}

	return &spec.CompiledGrammar{
		Name:      gram.name,
		Algorithm: config.algorithm,
		Lexical:   lexSpec,
		Syntactic: synSpec,
	}, report, nil
}

func genTerminals(gram *Grammar) []*spec.Terminal {
	patterns := map[string]string{}
	for _, le := range gram.lexEntries {
		patterns[le.name] = le.pattern
	}

	r := gram.symbolTable
	terms := make([]*spec.Terminal, r.TerminalCount())
	for _, sym := range r.TerminalSymbols() {
		e, _ := r.Entry(sym)
		t := &spec.Terminal{
			ID:         sym.Int(),
			Name:       e.Name,
			FullName:   e.FullName,
			Token:      e.Token,
			Error:      e.ErrorToken,
			Precedence: e.Prec,
			Type:       e.Type,
			Pattern:    patterns[e.Name],
		}
		if e.Prec != 0 {
			t.Associativity = e.Assoc.String()
		}
		terms[sym] = t
	}
	return terms
}

func genNonTerminals(gram *Grammar, first *firstSet, follow *followSet) []*spec.NonTerminal {
	r := gram.symbolTable
	syms := r.NonTerminalSymbols()
	nonTerms := make([]*spec.NonTerminal, len(syms))
	for i, sym := range syms {
		e, _ := r.Entry(sym)
		n := &spec.NonTerminal{
			ID:       sym.Int(),
			Name:     e.Name,
			FullName: e.FullName,
			Type:     e.Type,
		}
		if fst := first.findBySymbol(sym); fst != nil {
			n.First = fst.symbols.ints()
			n.Nullable = fst.empty
		}
		if flw, err := follow.find(sym); err == nil {
			n.Follow = flw.symbols.ints()
		}
		nonTerms[i] = n
	}
	return nonTerms
}
