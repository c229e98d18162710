package symbol

import (
	"fmt"
	"strconv"
)

type Kind string

const (
	KindNonTerminal = Kind("non-terminal")
	KindTerminal    = Kind("terminal")
)

func (k Kind) String() string {
	return string(k)
}

type Assoc int

const (
	AssocNone Assoc = iota
	AssocLeft
	AssocRight
	AssocBinary
)

func (a Assoc) String() string {
	switch a {
	case AssocLeft:
		return "left"
	case AssocRight:
		return "right"
	case AssocBinary:
		return "binary"
	}
	return "none"
}

// Symbol is an ID of a symbol. Terminal symbols occupy the IDs [0, terminal count) and
// non-terminal symbols follow them. The ID 0 is always the end-of-input symbol.
type Symbol int

const (
	SymbolNil = Symbol(-1)
	SymbolEOF = Symbol(0)
)

func (s Symbol) Int() int {
	return int(s)
}

func (s Symbol) IsNil() bool {
	return s < 0
}

func (s Symbol) String() string {
	return strconv.Itoa(int(s))
}

const (
	// The names contain `$` to avoid conflicting with user-defined symbols.
	NameEOF   = "$"
	NameStart = "$start"

	// Tokens without an explicit number get one above this value.
	TokenNumberAutoBase = 32767

	tokenNumberNil = -1
)

// Entry holds everything known about a symbol. Entries are created while a grammar is read,
// and their IDs are fixed only when the table is frozen.
type Entry struct {
	ID         Symbol
	Name       string
	FullName   string
	Kind       Kind
	Token      int
	Prec       int
	Assoc      Assoc
	Type       string
	ErrorToken bool

	// Refs counts the occurrences of the symbol on right-hand sides.
	Refs int

	// Row is the line where the symbol appeared first.
	Row int
}

func (e *Entry) IsTerminal() bool {
	return e.Kind == KindTerminal
}

type SymbolTable struct {
	entries   []*Entry
	name2Ent  map[string]*Entry
	terms     []*Entry
	nonTerms  []*Entry
	frozen    bool
	termCount int
}

type SymbolTableWriter struct {
	*SymbolTable
}

type SymbolTableReader struct {
	*SymbolTable
}

func NewSymbolTable() *SymbolTable {
	eof := &Entry{
		ID:       SymbolNil,
		Name:     NameEOF,
		FullName: NameEOF,
		Kind:     KindTerminal,
		Token:    0,
	}
	return &SymbolTable{
		entries: []*Entry{eof},
		name2Ent: map[string]*Entry{
			NameEOF: eof,
		},
	}
}

func (t *SymbolTable) Writer() *SymbolTableWriter {
	return &SymbolTableWriter{
		SymbolTable: t,
	}
}

func (t *SymbolTable) Reader() *SymbolTableReader {
	return &SymbolTableReader{
		SymbolTable: t,
	}
}

func (w *SymbolTableWriter) register(name string, kind Kind, row int) (*Entry, bool, error) {
	if w.frozen {
		return nil, false, fmt.Errorf("symbol table is already frozen; symbol: %v", name)
	}
	if e, ok := w.name2Ent[name]; ok {
		if e.Kind != kind {
			return e, false, fmt.Errorf("'%v' is already registered as a %v", name, e.Kind)
		}
		return e, false, nil
	}
	e := &Entry{
		ID:       SymbolNil,
		Name:     name,
		FullName: name,
		Kind:     kind,
		Token:    tokenNumberNil,
		Row:      row,
	}
	w.entries = append(w.entries, e)
	w.name2Ent[name] = e
	return e, true, nil
}

// RegisterTerminal returns the entry of a terminal symbol, creating it when it doesn't exist yet.
// The second return value reports whether the entry was created.
func (w *SymbolTableWriter) RegisterTerminal(name string, row int) (*Entry, bool, error) {
	return w.register(name, KindTerminal, row)
}

// RegisterNonTerminal returns the entry of a non-terminal symbol, creating it when it doesn't exist yet.
func (w *SymbolTableWriter) RegisterNonTerminal(name string, row int) (*Entry, bool, error) {
	return w.register(name, KindNonTerminal, row)
}

// Promote turns a non-terminal symbol into a terminal symbol. The entry moves to the end of
// the terminal symbols.
func (w *SymbolTableWriter) Promote(name string) (*Entry, error) {
	if w.frozen {
		return nil, fmt.Errorf("symbol table is already frozen; symbol: %v", name)
	}
	e, ok := w.name2Ent[name]
	if !ok {
		return nil, fmt.Errorf("symbol not found: %v", name)
	}
	if e.Kind == KindTerminal {
		return e, nil
	}
	e.Kind = KindTerminal
	e.Token = tokenNumberNil
	for i, ent := range w.entries {
		if ent != e {
			continue
		}
		w.entries = append(w.entries[:i], w.entries[i+1:]...)
		break
	}
	w.entries = append(w.entries, e)
	return e, nil
}

func (w *SymbolTableWriter) FindByToken(token int) (*Entry, bool) {
	for _, e := range w.entries {
		if e.Kind == KindTerminal && e.Token == token {
			return e, true
		}
	}
	return nil, false
}

// Freeze assigns IDs to all symbols. Terminal symbols get IDs in registration order followed by
// non-terminal symbols, and terminals without a token number get one above TokenNumberAutoBase.
func (w *SymbolTableWriter) Freeze() error {
	if w.frozen {
		return fmt.Errorf("symbol table is already frozen")
	}

	used := map[int]struct{}{}
	for _, e := range w.entries {
		if e.Kind == KindTerminal && e.Token != tokenNumberNil {
			used[e.Token] = struct{}{}
		}
	}

	var terms, nonTerms []*Entry
	next := TokenNumberAutoBase + 1
	for _, e := range w.entries {
		if e.Kind != KindTerminal {
			nonTerms = append(nonTerms, e)
			continue
		}
		if e.Token == tokenNumberNil {
			for {
				if _, ok := used[next]; !ok {
					break
				}
				next++
			}
			e.Token = next
			used[next] = struct{}{}
		}
		e.ID = Symbol(len(terms))
		terms = append(terms, e)
	}
	for i, e := range nonTerms {
		e.ID = Symbol(len(terms) + i)
	}
	if len(terms) == 0 || terms[0].Name != NameEOF {
		return fmt.Errorf("the end-of-input symbol must have the ID 0")
	}

	w.terms = terms
	w.nonTerms = nonTerms
	w.termCount = len(terms)
	w.frozen = true

	return nil
}

func (r *SymbolTableReader) Frozen() bool {
	return r.frozen
}

func (r *SymbolTableReader) Lookup(name string) (*Entry, bool) {
	e, ok := r.name2Ent[name]
	return e, ok
}

func (r *SymbolTableReader) ToSymbol(name string) (Symbol, bool) {
	if e, ok := r.name2Ent[name]; ok && r.frozen {
		return e.ID, true
	}
	return SymbolNil, false
}

func (r *SymbolTableReader) Entry(sym Symbol) (*Entry, bool) {
	if !r.frozen || sym < 0 {
		return nil, false
	}
	if sym.Int() < len(r.terms) {
		return r.terms[sym], true
	}
	i := sym.Int() - len(r.terms)
	if i >= len(r.nonTerms) {
		return nil, false
	}
	return r.nonTerms[i], true
}

func (r *SymbolTableReader) ToText(sym Symbol) (string, bool) {
	e, ok := r.Entry(sym)
	if !ok {
		return "", false
	}
	return e.Name, true
}

func (r *SymbolTableReader) FullName(sym Symbol) string {
	e, ok := r.Entry(sym)
	if !ok {
		return ""
	}
	return e.FullName
}

func (r *SymbolTableReader) IsTerminal(sym Symbol) bool {
	return sym >= 0 && sym.Int() < r.termCount
}

func (r *SymbolTableReader) IsNonTerminal(sym Symbol) bool {
	return sym.Int() >= r.termCount && sym.Int() < r.termCount+len(r.nonTerms)
}

func (r *SymbolTableReader) TerminalCount() int {
	return len(r.terms)
}

func (r *SymbolTableReader) NonTerminalCount() int {
	return len(r.nonTerms)
}

// TerminalSymbols returns all terminal symbols in ID order, including the end-of-input symbol.
func (r *SymbolTableReader) TerminalSymbols() []Symbol {
	syms := make([]Symbol, len(r.terms))
	for i, e := range r.terms {
		syms[i] = e.ID
	}
	return syms
}

func (r *SymbolTableReader) NonTerminalSymbols() []Symbol {
	syms := make([]Symbol, len(r.nonTerms))
	for i, e := range r.nonTerms {
		syms[i] = e.ID
	}
	return syms
}

// Entries returns the entries in registration order. Before freezing, this is the only way to
// walk the table.
func (r *SymbolTableReader) Entries() []*Entry {
	return r.entries
}
