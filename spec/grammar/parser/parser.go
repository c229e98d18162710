package parser

import (
	"fmt"
	"io"

	verr "github.com/jaimegarza/syntax-sub000/error"
)

func raiseSyntaxError(pos Position, synErr *SyntaxError, detail string) {
	panic(&verr.SpecError{
		Cause:  synErr,
		Detail: detail,
		Row:    pos.Row,
		Col:    pos.Col,
	})
}

// Parse reads a grammar file. Syntax errors are returned as verr.SpecErrors.
func Parse(src io.Reader) (*RootNode, error) {
	b, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	p, err := newParser(b)
	if err != nil {
		return nil, err
	}
	return p.parse()
}

type parser struct {
	lex       *lexer
	peekedTok *token
	lastTok   *token
}

func newParser(src []byte) (*parser, error) {
	lex, err := newLexer(src)
	if err != nil {
		return nil, err
	}
	return &parser{
		lex: lex,
	}, nil
}

func (p *parser) parse() (root *RootNode, retErr error) {
	defer func() {
		err := recover()
		if err == nil {
			return
		}
		switch e := err.(type) {
		case *verr.SpecError:
			retErr = verr.SpecErrors{e}
		case *lexError:
			retErr = verr.SpecErrors{
				{
					Cause:  e.synErr,
					Detail: e.detail,
					Row:    e.pos.Row,
					Col:    e.pos.Col,
				},
			}
		case error:
			retErr = e
		default:
			panic(err)
		}
	}()
	return p.parseRoot(), nil
}

func (p *parser) parseRoot() *RootNode {
	root := &RootNode{}
	for {
		if p.consume(tokenKindSeparator) {
			break
		}
		if p.consume(tokenKindEOF) {
			raiseSyntaxError(p.lastTok.pos, synErrNoSeparator, "")
		}
		if !p.consume(tokenKindDirective) {
			tok := p.peek()
			raiseSyntaxError(tok.pos, synErrUnexpectedToken, describeToken(tok))
		}
		root.Declarations = append(root.Declarations, p.parseDeclaration())
	}

	for {
		if p.consume(tokenKindEOF) || p.consume(tokenKindSeparator) {
			break
		}
		root.Productions = append(root.Productions, p.parseProduction())
	}
	if len(root.Productions) == 0 {
		raiseSyntaxError(p.lastTok.pos, synErrNoProduction, "")
	}

	tracer().Debugf("parsed %v declarations and %v productions", len(root.Declarations), len(root.Productions))

	return root
}

func (p *parser) parseDeclaration() *DeclarationNode {
	dirTok := p.lastTok
	decl := &DeclarationNode{
		Kind: DirectiveKind(dirTok.text),
		Pos:  dirTok.pos,
	}

	switch decl.Kind {
	case DirectiveGrammar, DirectiveStart:
		if !p.consume(tokenKindID) {
			raiseSyntaxError(dirTok.pos, synErrDirNoParameter, "%"+dirTok.text)
		}
		decl.Symbols = []*DeclSymbolNode{newDeclSymbol(p.lastTok)}
	case DirectiveToken, DirectiveError, DirectiveLeft, DirectiveRight, DirectiveNonAssoc, DirectiveBinary:
		if p.consume(tokenKindTypeTag) {
			decl.Type = p.lastTok.text
		}
		for {
			sym := p.parseDeclSymbol()
			if sym == nil {
				break
			}
			if p.consume(tokenKindString) {
				sym.FullName = p.lastTok.text
			}
			if p.consume(tokenKindNumber) {
				sym.Number = p.lastTok.num
			}
			decl.Symbols = append(decl.Symbols, sym)
		}
	case DirectiveType:
		if !p.consume(tokenKindTypeTag) {
			raiseSyntaxError(dirTok.pos, synErrTypeNoTag, "")
		}
		decl.Type = p.lastTok.text
		for {
			sym := p.parseDeclSymbol()
			if sym == nil {
				break
			}
			decl.Symbols = append(decl.Symbols, sym)
		}
	case DirectiveName:
		for {
			sym := p.parseDeclSymbol()
			if sym == nil {
				break
			}
			if !p.consume(tokenKindString) {
				raiseSyntaxError(sym.Pos, synErrNameNoFullName, sym.Name)
			}
			sym.FullName = p.lastTok.text
			decl.Symbols = append(decl.Symbols, sym)
		}
	case DirectiveLex, DirectiveSkip:
		for {
			sym := p.parseDeclSymbol()
			if sym == nil {
				break
			}
			if !p.consume(tokenKindString) {
				raiseSyntaxError(sym.Pos, synErrLexNoPattern, sym.Name)
			}
			sym.Pattern = p.lastTok.text
			decl.Symbols = append(decl.Symbols, sym)
		}
	default:
		raiseSyntaxError(dirTok.pos, synErrUnknownDirective, "%"+dirTok.text)
	}

	if len(decl.Symbols) == 0 {
		raiseSyntaxError(dirTok.pos, synErrDirNoParameter, "%"+dirTok.text)
	}

	return decl
}

func (p *parser) parseDeclSymbol() *DeclSymbolNode {
	p.consume(tokenKindComma)
	switch {
	case p.consume(tokenKindID), p.consume(tokenKindLiteral):
		return newDeclSymbol(p.lastTok)
	}
	return nil
}

func newDeclSymbol(tok *token) *DeclSymbolNode {
	return &DeclSymbolNode{
		Name:    tok.text,
		Literal: tok.kind == tokenKindLiteral,
		Number:  -1,
		Pos:     tok.pos,
	}
}

func (p *parser) parseProduction() *ProductionNode {
	if !p.consume(tokenKindID) {
		tok := p.peek()
		if tok.kind == tokenKindLiteral {
			raiseSyntaxError(tok.pos, synErrLiteralAsProduction, tok.text)
		}
		raiseSyntaxError(tok.pos, synErrNoProductionName, describeToken(tok))
	}
	lhsTok := p.lastTok
	if !p.consume(tokenKindColon) {
		raiseSyntaxError(p.peek().pos, synErrNoColon, lhsTok.text)
	}
	rhs := []*AlternativeNode{p.parseAlternative()}
	for p.consume(tokenKindOr) {
		rhs = append(rhs, p.parseAlternative())
	}
	if !p.consume(tokenKindSemicolon) {
		tok := p.peek()
		raiseSyntaxError(tok.pos, synErrNoSemicolon, describeToken(tok))
	}
	return &ProductionNode{
		LHS: lhsTok.text,
		RHS: rhs,
		Pos: lhsTok.pos,
	}
}

func (p *parser) parseAlternative() *AlternativeNode {
	alt := &AlternativeNode{
		Pos: p.peek().pos,
	}
	for {
		switch {
		case p.consume(tokenKindID), p.consume(tokenKindLiteral):
			alt.Elements = append(alt.Elements, &ElementNode{
				Name:    p.lastTok.text,
				Literal: p.lastTok.kind == tokenKindLiteral,
				Pos:     p.lastTok.pos,
			})
		case p.consume(tokenKindDirective):
			dirTok := p.lastTok
			if DirectiveKind(dirTok.text) != directivePrec {
				raiseSyntaxError(dirTok.pos, synErrDirectiveInRule, "%"+dirTok.text)
			}
			if alt.Prec != nil {
				raiseSyntaxError(dirTok.pos, synErrDuplicatePrec, "")
			}
			if !p.consume(tokenKindID) && !p.consume(tokenKindLiteral) {
				raiseSyntaxError(dirTok.pos, synErrPrecNoSymbol, "")
			}
			alt.Prec = &ElementNode{
				Name:    p.lastTok.text,
				Literal: p.lastTok.kind == tokenKindLiteral,
				Pos:     p.lastTok.pos,
			}
		default:
			return alt
		}
	}
}

func describeToken(tok *token) string {
	switch tok.kind {
	case tokenKindID, tokenKindLiteral, tokenKindInvalid:
		return tok.text
	case tokenKindString:
		return fmt.Sprintf("%q", tok.text)
	case tokenKindNumber:
		return fmt.Sprintf("%v", tok.num)
	case tokenKindDirective:
		return "%" + tok.text
	case tokenKindTypeTag:
		return "<" + tok.text + ">"
	}
	return string(tok.kind)
}

func (p *parser) peek() *token {
	if p.peekedTok != nil {
		return p.peekedTok
	}
	tok, err := p.lex.next()
	if err != nil {
		panic(err)
	}
	if tok.kind == tokenKindInvalid {
		raiseSyntaxError(tok.pos, synErrInvalidToken, tok.text)
	}
	p.peekedTok = tok
	return tok
}

func (p *parser) consume(expected tokenKind) bool {
	tok := p.peek()
	if tok.kind != expected {
		return false
	}
	p.peekedTok = nil
	p.lastTok = tok
	return true
}
