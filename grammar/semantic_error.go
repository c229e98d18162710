package grammar

type SemanticError struct {
	message string
}

func newSemanticError(message string) *SemanticError {
	return &SemanticError{
		message: message,
	}
}

func (e *SemanticError) Error() string {
	return e.message
}

var (
	semErrNoProduction         = newSemanticError("a grammar needs at least one production")
	semErrDuplicateStart       = newSemanticError("distinguished symbol declared more than once")
	semErrNoStart              = newSemanticError("distinguished symbol cannot be determined; use %start")
	semErrStartNotExist        = newSemanticError("the distinguished symbol does not exist; use %start")
	semErrStartNotNonTerminal  = newSemanticError("distinguished symbol must be a non-terminal symbol")
	semErrUndefinedStart       = newSemanticError("distinguished symbol has no production")
	semErrAssumedStart         = newSemanticError("assumed distinguished symbol")
	semErrUnusedSymbol         = newSemanticError("symbol not used")
	semErrUndeclaredToken      = newSemanticError("token not declared")
	semErrReassignedPrec       = newSemanticError("reassigning precedence/associativity for token")
	semErrTokenNumberUsed      = newSemanticError("token number already used")
	semErrTokenAsNonTerminal   = newSemanticError("a token cannot be declared as a non-terminal symbol")
	semErrNonTerminalAsToken   = newSemanticError("a non-terminal symbol cannot be declared as a token")
	semErrLiteralAsNonTerminal = newSemanticError("a literal cannot be a non-terminal symbol")
	semErrPrecNotTerminal      = newSemanticError("%prec needs a terminal symbol")
	semErrDuplicateGrammarName = newSemanticError("grammar name declared more than once")
	semErrDuplicateLexEntry    = newSemanticError("a pattern for the token is already defined")
	semErrSkipUsedInRule       = newSemanticError("a skipped token cannot appear in productions")
	semErrInvalidPattern       = newSemanticError("invalid token pattern")
	semErrSRConflict           = newSemanticError("shift/reduce conflict")
	semErrRRConflict           = newSemanticError("reduce/reduce conflict")
)
