package parser

import (
	"testing"
)

func TestLexer_Run(t *testing.T) {
	idTok := func(text string) *token {
		return newTextToken(tokenKindID, text, Position{})
	}

	dirTok := func(text string) *token {
		return newTextToken(tokenKindDirective, text, Position{})
	}

	strTok := func(text string) *token {
		return newTextToken(tokenKindString, text, Position{})
	}

	litTok := func(text string) *token {
		return newTextToken(tokenKindLiteral, text, Position{})
	}

	tagTok := func(text string) *token {
		return newTextToken(tokenKindTypeTag, text, Position{})
	}

	numTok := func(num int) *token {
		return newNumberToken(num, Position{})
	}

	symTok := func(kind tokenKind) *token {
		return newSymbolToken(kind, Position{})
	}

	invalidTok := func(text string) *token {
		return newInvalidToken(text, Position{})
	}

	tests := []struct {
		caption string
		src     string
		tokens  []*token
		err     *SyntaxError
	}{
		{
			caption: "the lexer can recognize all kinds of tokens",
			src:     `%token <int> id "full name" 300 '+' : | ; , %%`,
			tokens: []*token{
				dirTok("token"),
				tagTok("int"),
				idTok("id"),
				strTok("full name"),
				numTok(300),
				litTok("'+'"),
				symTok(tokenKindColon),
				symTok(tokenKindOr),
				symTok(tokenKindSemicolon),
				symTok(tokenKindComma),
				symTok(tokenKindSeparator),
				newEOFToken(),
			},
		},
		{
			caption: "the lexer skips white spaces and comments",
			src: `a // a line comment
/* a block
   comment */ b`,
			tokens: []*token{
				idTok("a"),
				idTok("b"),
				newEOFToken(),
			},
		},
		{
			caption: "only a double quote is escaped in a string",
			src:     `"a\"b" "[a-z]+\\."`,
			tokens: []*token{
				strTok(`a"b`),
				strTok(`[a-z]+\\.`),
				newEOFToken(),
			},
		},
		{
			caption: "a literal keeps its quotes and escape sequences",
			src:     `'\n' '\''`,
			tokens: []*token{
				litTok(`'\n'`),
				litTok(`'\''`),
				newEOFToken(),
			},
		},
		{
			caption: "identifiers can include dots and underscores",
			src:     `_a.b1`,
			tokens: []*token{
				idTok("_a.b1"),
				newEOFToken(),
			},
		},
		{
			caption: "the lexer turns an unknown character into an invalid token",
			src:     `a @ b`,
			tokens: []*token{
				idTok("a"),
				invalidTok("@"),
				idTok("b"),
				newEOFToken(),
			},
		},
		{
			caption: "an empty literal is an error",
			src:     `''`,
			err:     synErrEmptyLiteral,
		},
		{
			caption: "an unknown escape sequence is an error",
			src:     `'\q'`,
			err:     synErrInvalidEscSeq,
		},
		{
			caption: "a token number that doesn't fit an int is an error",
			src:     `99999999999999999999999999`,
			err:     synErrNumberTooLarge,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			l, err := newLexer([]byte(tt.src))
			if err != nil {
				t.Fatal(err)
			}
			n := 0
			for {
				tok, err := l.next()
				if tt.err != nil {
					if err == nil {
						if tok.kind == tokenKindEOF {
							t.Fatalf("an error was not detected; want: %v", tt.err)
						}
						continue
					}
					lerr, ok := err.(*lexError)
					if !ok {
						t.Fatalf("unexpected error type; want: %T, got: %T", lerr, err)
					}
					if lerr.synErr != tt.err {
						t.Fatalf("unexpected error; want: %v, got: %v", tt.err, lerr.synErr)
					}
					break
				}
				if err != nil {
					t.Fatal(err)
				}
				if n >= len(tt.tokens) {
					t.Fatalf("too many tokens")
				}
				testToken(t, tt.tokens[n], tok)
				n++
				if tok.kind == tokenKindEOF {
					break
				}
			}
		})
	}
}

func TestLexer_Position(t *testing.T) {
	l, err := newLexer([]byte("a\n\n  b"))
	if err != nil {
		t.Fatal(err)
	}
	for _, row := range []int{1, 3} {
		tok, err := l.next()
		if err != nil {
			t.Fatal(err)
		}
		if tok.pos.Row != row {
			t.Fatalf("unexpected row of %v; want: %v, got: %v", tok.text, row, tok.pos.Row)
		}
	}
}

func testToken(t *testing.T, expected, actual *token) {
	t.Helper()

	if actual.kind != expected.kind || actual.text != expected.text || actual.num != expected.num {
		t.Fatalf("unexpected token; want: %+v, got: %+v", expected, actual)
	}
}
