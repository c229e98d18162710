package parser

type Position struct {
	Row int
	Col int
}

func newPosition(row, col int) Position {
	return Position{
		Row: row,
		Col: col,
	}
}

// DirectiveKind names a declaration such as %token or %left.
type DirectiveKind string

const (
	DirectiveGrammar  = DirectiveKind("grammar")
	DirectiveToken    = DirectiveKind("token")
	DirectiveLeft     = DirectiveKind("left")
	DirectiveRight    = DirectiveKind("right")
	DirectiveNonAssoc = DirectiveKind("nonassoc")
	DirectiveBinary   = DirectiveKind("binary")
	DirectiveError    = DirectiveKind("error")
	DirectiveStart    = DirectiveKind("start")
	DirectiveType     = DirectiveKind("type")
	DirectiveName     = DirectiveKind("name")
	DirectiveLex      = DirectiveKind("lex")
	DirectiveSkip     = DirectiveKind("skip")
	directivePrec     = DirectiveKind("prec")
)

// IsPrecedence reports whether the directive opens a new precedence level.
func (k DirectiveKind) IsPrecedence() bool {
	switch k {
	case DirectiveLeft, DirectiveRight, DirectiveNonAssoc, DirectiveBinary:
		return true
	}
	return false
}

type RootNode struct {
	Declarations []*DeclarationNode
	Productions  []*ProductionNode
}

type DeclarationNode struct {
	Kind    DirectiveKind
	Type    string
	Symbols []*DeclSymbolNode
	Pos     Position
}

// DeclSymbolNode is a symbol listed in a declaration. FullName, Number, and Pattern are optional,
// and Number is -1 when it is omitted.
type DeclSymbolNode struct {
	Name     string
	Literal  bool
	FullName string
	Number   int
	Pattern  string
	Pos      Position
}

type ProductionNode struct {
	LHS string
	RHS []*AlternativeNode
	Pos Position
}

type AlternativeNode struct {
	Elements []*ElementNode
	Prec     *ElementNode
	Pos      Position
}

type ElementNode struct {
	Name    string
	Literal bool
	Pos     Position
}
