package grammar

import (
	"math"

	mlspec "github.com/nihei9/maleeni/spec"
)

// ActionAccept is the action the parser takes on the end-of-input symbol after reading the whole
// start symbol.
const ActionAccept = math.MaxInt32

// GoToDefaultOrigin is the origin of the catch-all entry that closes the goto list of a
// non-terminal symbol.
const GoToDefaultOrigin = -1

// MessageNil means a state has no error message.
const MessageNil = -1

type Algorithm string

const (
	AlgorithmLALR = Algorithm("lalr")
	AlgorithmSLR  = Algorithm("slr")
)

func (a Algorithm) String() string {
	return string(a)
}

type CompiledGrammar struct {
	Name      string         `json:"name"`
	Algorithm Algorithm      `json:"algorithm"`
	Lexical   *LexicalSpec   `json:"lexical,omitempty"`
	Syntactic *SyntacticSpec `json:"syntactic"`
}

// LexicalSpec holds a DFA compiled from the token patterns and the quoted literals of a grammar.
// KindToTerminal maps a lexical kind ID to a terminal symbol ID.
type LexicalSpec struct {
	Maleeni        *mlspec.CompiledLexSpec `json:"maleeni"`
	KindToTerminal []int                   `json:"kind_to_terminal"`
	Skip           []int                   `json:"skip"`
}

// Action is an entry of a packed action list. A positive target shifts to a state, a negative
// target reduces by the rule -target, and ActionAccept accepts the input.
type Action struct {
	Symbol int `json:"symbol"`
	Target int `json:"target"`
}

type GoTo struct {
	Origin      int `json:"origin"`
	Destination int `json:"destination"`
}

// PackedState is a packed row. The actions of the state are Actions[Position:Position+ActionCount]
// and any other terminal symbol takes the Default action. Message indexes ErrorMessages.
type PackedState struct {
	Number      int `json:"number"`
	Position    int `json:"position"`
	Default     int `json:"default"`
	ActionCount int `json:"action_count"`
	Message     int `json:"message"`
}

// RowTable is a tabular parsing table. Rows are indexed by state and columns by symbol ID; the
// goto entries of non-terminal symbols share a row with the actions of terminal symbols.
// CompressionLevel 0 keeps Entries as is, 1 keeps only unique rows, and 2 also overlays the
// unique rows by row displacement.
type RowTable struct {
	CompressionLevel int              `json:"compression_level"`
	RowCount         int              `json:"row_count"`
	ColCount         int              `json:"col_count"`
	Entries          []int            `json:"entries,omitempty"`
	UniqueRows       *UniqueRowsTable `json:"unique_rows,omitempty"`
}

type RowDisplacementTable struct {
	OriginalRowCount int   `json:"original_row_count"`
	OriginalColCount int   `json:"original_col_count"`
	EmptyValue       int   `json:"empty_value"`
	Entries          []int `json:"entries"`
	Bounds           []int `json:"bounds"`
	RowDisplacement  []int `json:"row_displacement"`
}

type UniqueRowsTable struct {
	UniqueEntries             *RowDisplacementTable `json:"unique_entries,omitempty"`
	UncompressedUniqueEntries []int                 `json:"uncompressed_unique_entries,omitempty"`
	RowNums                   []int                 `json:"row_nums"`
	OriginalRowCount          int                   `json:"original_row_count"`
	OriginalColCount          int                   `json:"original_col_count"`
}

type SyntacticSpec struct {
	Packed bool `json:"packed"`

	// packed tables
	States        []*PackedState `json:"states,omitempty"`
	Actions       []*Action      `json:"actions,omitempty"`
	GoTos         []*GoTo        `json:"gotos,omitempty"`
	GoToPositions []int          `json:"goto_positions,omitempty"`
	ErrorMessages []string       `json:"error_messages,omitempty"`

	// tabular table
	Table *RowTable `json:"table,omitempty"`

	StateCount              int            `json:"state_count"`
	ActionCount             int            `json:"action_count"`
	GoToCount               int            `json:"goto_count"`
	InitialState            int            `json:"initial_state"`
	StartProduction         int            `json:"start_production"`
	LHSSymbols              []int          `json:"lhs_symbols"`
	AlternativeSymbolCounts []int          `json:"alternative_symbol_counts"`
	Terminals               []*Terminal    `json:"terminals"`
	TerminalCount           int            `json:"terminal_count"`
	NonTerminals            []*NonTerminal `json:"non_terminals"`
	NonTerminalCount        int            `json:"non_terminal_count"`
	EOFSymbol               int            `json:"eof_symbol"`
}
