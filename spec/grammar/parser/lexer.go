package parser

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

type tokenKind string

const (
	tokenKindID        = tokenKind("id")
	tokenKindLiteral   = tokenKind("literal")
	tokenKindString    = tokenKind("string")
	tokenKindNumber    = tokenKind("number")
	tokenKindTypeTag   = tokenKind("type tag")
	tokenKindDirective = tokenKind("directive")
	tokenKindSeparator = tokenKind("%%")
	tokenKindColon     = tokenKind(":")
	tokenKindOr        = tokenKind("|")
	tokenKindSemicolon = tokenKind(";")
	tokenKindComma     = tokenKind(",")
	tokenKindEOF       = tokenKind("eof")
	tokenKindInvalid   = tokenKind("invalid")
)

type token struct {
	kind tokenKind
	text string
	num  int
	pos  Position
}

func newSymbolToken(kind tokenKind, pos Position) *token {
	return &token{
		kind: kind,
		pos:  pos,
	}
}

func newTextToken(kind tokenKind, text string, pos Position) *token {
	return &token{
		kind: kind,
		text: text,
		pos:  pos,
	}
}

func newNumberToken(num int, pos Position) *token {
	return &token{
		kind: tokenKindNumber,
		num:  num,
		pos:  pos,
	}
}

func newEOFToken() *token {
	return &token{
		kind: tokenKindEOF,
	}
}

func newInvalidToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindInvalid,
		text: text,
		pos:  pos,
	}
}

// lexError is returned by scanner actions when a lexeme matches a pattern but is still malformed.
type lexError struct {
	synErr *SyntaxError
	detail string
	pos    Position
}

func (e *lexError) Error() string {
	return fmt.Sprintf("%v: %v", e.synErr, e.detail)
}

var (
	lexDef     *lexmachine.Lexer
	lexDefErr  error
	lexDefOnce sync.Once
)

func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

func emit(kind tokenKind) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		pos := newPosition(m.StartLine, m.StartColumn)
		switch kind {
		case tokenKindID:
			return newTextToken(kind, string(m.Bytes), pos), nil
		case tokenKindDirective:
			return newTextToken(kind, string(m.Bytes[1:]), pos), nil
		case tokenKindTypeTag:
			return newTextToken(kind, strings.TrimSpace(string(m.Bytes[1:len(m.Bytes)-1])), pos), nil
		}
		return newSymbolToken(kind, pos), nil
	}
}

func emitNumber(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
	n, err := strconv.Atoi(string(m.Bytes))
	if err != nil {
		return nil, &lexError{
			synErr: synErrNumberTooLarge,
			detail: string(m.Bytes),
			pos:    newPosition(m.StartLine, m.StartColumn),
		}
	}
	return newNumberToken(n, newPosition(m.StartLine, m.StartColumn)), nil
}

// emitString unquotes a double-quoted string. Only `\"` is an escape sequence so that regular
// expressions can be written without doubling their backslashes.
func emitString(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
	body := string(m.Bytes[1 : len(m.Bytes)-1])
	return newTextToken(tokenKindString, strings.ReplaceAll(body, `\"`, `"`), newPosition(m.StartLine, m.StartColumn)), nil
}

// emitLiteral keeps the quotes of a character literal because they are part of the symbol name.
func emitLiteral(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
	text := string(m.Bytes)
	if _, err := unquoteLiteral(text); err != nil {
		lerr := err.(*lexError)
		lerr.pos = newPosition(m.StartLine, m.StartColumn)
		return nil, lerr
	}
	return newTextToken(tokenKindLiteral, text, newPosition(m.StartLine, m.StartColumn)), nil
}

func unquoteLiteral(text string) (string, error) {
	body := text[1 : len(text)-1]
	if body == "" {
		return "", &lexError{synErr: synErrEmptyLiteral, detail: text}
	}
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", &lexError{synErr: synErrInvalidEscSeq, detail: text}
		}
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '0':
			b.WriteByte(0)
		case '\\', '\'', '"':
			b.WriteByte(body[i])
		default:
			return "", &lexError{synErr: synErrInvalidEscSeq, detail: text}
		}
	}
	return b.String(), nil
}

// LiteralValue returns the character a single-character literal such as '+' or '\n' stands for.
// The second return value is false for literals of more than one character.
func LiteralValue(lit string) (rune, bool) {
	if len(lit) < 3 || lit[0] != '\'' || lit[len(lit)-1] != '\'' {
		return 0, false
	}
	s, err := unquoteLiteral(lit)
	if err != nil {
		return 0, false
	}
	rs := []rune(s)
	if len(rs) != 1 {
		return 0, false
	}
	return rs[0], true
}

// LiteralText returns the characters a literal stands for without its quotes.
func LiteralText(lit string) (string, error) {
	if len(lit) < 2 || lit[0] != '\'' || lit[len(lit)-1] != '\'' {
		return "", fmt.Errorf("not a literal: %v", lit)
	}
	return unquoteLiteral(lit)
}

func lexerDefinition() (*lexmachine.Lexer, error) {
	lexDefOnce.Do(func() {
		l := lexmachine.NewLexer()
		l.Add([]byte(`( |\t|\n|\r)+`), skip)
		l.Add([]byte(`//[^\n]*`), skip)
		l.Add([]byte(`/\*([^*]|\*+[^*/])*\*+/`), skip)
		l.Add([]byte(`%%`), emit(tokenKindSeparator))
		l.Add([]byte(`%[a-z]+`), emit(tokenKindDirective))
		l.Add([]byte(`[A-Za-z_.][A-Za-z0-9_.]*`), emit(tokenKindID))
		l.Add([]byte(`[0-9]+`), emitNumber)
		l.Add([]byte(`"([^\\"\n]|(\\.))*"`), emitString)
		l.Add([]byte(`'([^\\'\n]|(\\.))*'`), emitLiteral)
		l.Add([]byte(`<[^>\n]+>`), emit(tokenKindTypeTag))
		l.Add([]byte(`:`), emit(tokenKindColon))
		l.Add([]byte(`\|`), emit(tokenKindOr))
		l.Add([]byte(`;`), emit(tokenKindSemicolon))
		l.Add([]byte(`,`), emit(tokenKindComma))
		lexDefErr = l.Compile()
		if lexDefErr != nil {
			tracer().Errorf("failed to compile the grammar scanner: %v", lexDefErr)
			return
		}
		lexDef = l
	})
	return lexDef, lexDefErr
}

type lexer struct {
	s *lexmachine.Scanner
}

func newLexer(src []byte) (*lexer, error) {
	def, err := lexerDefinition()
	if err != nil {
		return nil, err
	}
	s, err := def.Scanner(src)
	if err != nil {
		return nil, err
	}
	return &lexer{
		s: s,
	}, nil
}

func (l *lexer) next() (*token, error) {
	v, err, eof := l.s.Next()
	if eof {
		return newEOFToken(), nil
	}
	if err != nil {
		if ui, ok := err.(*machines.UnconsumedInput); ok {
			next := ui.FailTC
			if next <= ui.StartTC {
				next = ui.StartTC + 1
			}
			if next > len(ui.Text) {
				next = len(ui.Text)
			}
			l.s.TC = next
			return newInvalidToken(string(ui.Text[ui.StartTC:next]), newPosition(ui.StartLine, ui.StartColumn)), nil
		}
		if lerr, ok := err.(*lexError); ok {
			return nil, lerr
		}
		return nil, err
	}
	return v.(*token), nil
}
