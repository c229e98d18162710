package parser

type SyntaxError struct {
	message string
}

func newSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		message: message,
	}
}

func (e *SyntaxError) Error() string {
	return e.message
}

var (
	// lexical errors
	synErrInvalidToken   = newSyntaxError("invalid token")
	synErrInvalidEscSeq  = newSyntaxError("invalid escape sequence")
	synErrEmptyLiteral   = newSyntaxError("a literal must include at least one character")
	synErrNumberTooLarge = newSyntaxError("a token number is too large")

	// syntax errors
	synErrNoSeparator         = newSyntaxError("declarations must be followed by %%")
	synErrUnexpectedToken     = newSyntaxError("unexpected token")
	synErrUnknownDirective    = newSyntaxError("unknown directive")
	synErrDirNoParameter      = newSyntaxError("a directive needs at least one parameter")
	synErrDirInvalidParam     = newSyntaxError("invalid parameter")
	synErrTypeNoTag           = newSyntaxError("%type needs a type tag such as <int>")
	synErrNameNoFullName      = newSyntaxError("%name needs a quoted full name for each symbol")
	synErrLexNoPattern        = newSyntaxError("a lexical directive needs a quoted pattern for each symbol")
	synErrNoProduction        = newSyntaxError("a grammar must have at least one production")
	synErrNoProductionName    = newSyntaxError("a production name is missing")
	synErrNoColon             = newSyntaxError("the colon must precede alternatives")
	synErrNoSemicolon         = newSyntaxError("the semicolon is missing at the last of an alternative")
	synErrPrecNoSymbol        = newSyntaxError("%prec must be followed by a terminal symbol")
	synErrDuplicatePrec       = newSyntaxError("an alternative can have only one %prec")
	synErrDirectiveInRule     = newSyntaxError("only %prec can appear in an alternative")
	synErrLiteralAsProduction = newSyntaxError("a literal cannot be the left-hand side of a production")
)
