package parser

import (
	"errors"
	"strings"
	"testing"

	verr "github.com/jaimegarza/syntax-sub000/error"
)

func TestParse(t *testing.T) {
	decl := func(kind DirectiveKind, typ string, syms ...*DeclSymbolNode) *DeclarationNode {
		return &DeclarationNode{
			Kind:    kind,
			Type:    typ,
			Symbols: syms,
		}
	}
	sym := func(name string) *DeclSymbolNode {
		return &DeclSymbolNode{
			Name:    name,
			Literal: strings.HasPrefix(name, "'"),
			Number:  -1,
		}
	}
	withFullName := func(s *DeclSymbolNode, fullName string) *DeclSymbolNode {
		s.FullName = fullName
		return s
	}
	withNum := func(s *DeclSymbolNode, num int) *DeclSymbolNode {
		s.Number = num
		return s
	}
	withPat := func(s *DeclSymbolNode, pat string) *DeclSymbolNode {
		s.Pattern = pat
		return s
	}
	prod := func(lhs string, alts ...*AlternativeNode) *ProductionNode {
		return &ProductionNode{
			LHS: lhs,
			RHS: alts,
		}
	}
	alt := func(elems ...string) *AlternativeNode {
		a := &AlternativeNode{}
		for _, e := range elems {
			a.Elements = append(a.Elements, &ElementNode{
				Name:    e,
				Literal: strings.HasPrefix(e, "'"),
			})
		}
		return a
	}
	withPrec := func(a *AlternativeNode, prec string) *AlternativeNode {
		a.Prec = &ElementNode{
			Name:    prec,
			Literal: strings.HasPrefix(prec, "'"),
		}
		return a
	}

	tests := []struct {
		caption string
		src     string
		ast     *RootNode
		synErr  *SyntaxError
	}{
		{
			caption: "a grammar can contain only productions",
			src: `
%%
expr : expr '+' term | term ;
term : id ;
`,
			ast: &RootNode{
				Productions: []*ProductionNode{
					prod("expr", alt("expr", "'+'", "term"), alt("term")),
					prod("term", alt("id")),
				},
			},
		},
		{
			caption: "declarations can have type tags, full names, and token numbers",
			src: `
%grammar calc
%token <int> NUM "number" 300, ID
%left '+' '-'
%right '^' "power"
%nonassoc EQ
%binary CMP 400
%error ERR
%start expr
%type <node> expr term
%name expr "expression"
%lex NUM "[0-9]+"
%skip WS "[ \t]+"
%%
expr : NUM ;
`,
			ast: &RootNode{
				Declarations: []*DeclarationNode{
					decl(DirectiveGrammar, "", sym("calc")),
					decl(DirectiveToken, "int", withNum(withFullName(sym("NUM"), "number"), 300), sym("ID")),
					decl(DirectiveLeft, "", sym("'+'"), sym("'-'")),
					decl(DirectiveRight, "", withFullName(sym("'^'"), "power")),
					decl(DirectiveNonAssoc, "", sym("EQ")),
					decl(DirectiveBinary, "", withNum(sym("CMP"), 400)),
					decl(DirectiveError, "", sym("ERR")),
					decl(DirectiveStart, "", sym("expr")),
					decl(DirectiveType, "node", sym("expr"), sym("term")),
					decl(DirectiveName, "", withFullName(sym("expr"), "expression")),
					decl(DirectiveLex, "", withPat(sym("NUM"), "[0-9]+")),
					decl(DirectiveSkip, "", withPat(sym("WS"), `[ \t]+`)),
				},
				Productions: []*ProductionNode{
					prod("expr", alt("NUM")),
				},
			},
		},
		{
			caption: "an alternative can be empty and can have %prec",
			src: `
%left '-'
%right UMINUS
%%
list : | list item ;
item : '-' item %prec UMINUS
     | ID
     ;
`,
			ast: &RootNode{
				Declarations: []*DeclarationNode{
					decl(DirectiveLeft, "", sym("'-'")),
					decl(DirectiveRight, "", sym("UMINUS")),
				},
				Productions: []*ProductionNode{
					prod("list", alt(), alt("list", "item")),
					prod("item", withPrec(alt("'-'", "item"), "UMINUS"), alt("ID")),
				},
			},
		},
		{
			caption: "comments and the section after the second separator are ignored",
			src: `
// line comment
/* block
   comment */
%%
s : a ; // trailing
%%
anything @ goes # here
`,
			ast: &RootNode{
				Productions: []*ProductionNode{
					prod("s", alt("a")),
				},
			},
		},
		{
			caption: "a grammar needs the separator",
			src:     `%token a`,
			synErr:  synErrNoSeparator,
		},
		{
			caption: "a grammar needs a production",
			src:     `%token a %%`,
			synErr:  synErrNoProduction,
		},
		{
			caption: "an unknown directive is an error",
			src:     `%foo a %% s : a ;`,
			synErr:  synErrUnknownDirective,
		},
		{
			caption: "a directive needs a parameter",
			src:     `%left %% s : a ;`,
			synErr:  synErrDirNoParameter,
		},
		{
			caption: "%type needs a type tag",
			src:     `%type s %% s : a ;`,
			synErr:  synErrTypeNoTag,
		},
		{
			caption: "%name needs a full name",
			src:     `%name s %% s : a ;`,
			synErr:  synErrNameNoFullName,
		},
		{
			caption: "%lex needs a pattern",
			src:     `%lex NUM %% s : NUM ;`,
			synErr:  synErrLexNoPattern,
		},
		{
			caption: "a production needs a colon",
			src:     `%% s a ;`,
			synErr:  synErrNoColon,
		},
		{
			caption: "a production needs a semicolon",
			src:     `%% s : a`,
			synErr:  synErrNoSemicolon,
		},
		{
			caption: "a literal cannot be a left-hand side",
			src:     `%% '+' : a ;`,
			synErr:  synErrLiteralAsProduction,
		},
		{
			caption: "%prec needs a symbol",
			src:     `%% s : a %prec ;`,
			synErr:  synErrPrecNoSymbol,
		},
		{
			caption: "an alternative can have only one %prec",
			src:     `%% s : a %prec X %prec Y ;`,
			synErr:  synErrDuplicatePrec,
		},
		{
			caption: "only %prec can appear in an alternative",
			src:     `%% s : a %left ;`,
			synErr:  synErrDirectiveInRule,
		},
		{
			caption: "an empty literal is an error",
			src:     `%% s : '' ;`,
			synErr:  synErrEmptyLiteral,
		},
		{
			caption: "an unknown escape sequence in a literal is an error",
			src:     `%% s : '\q' ;`,
			synErr:  synErrInvalidEscSeq,
		},
		{
			caption: "an invalid character is an error",
			src:     `%% s : a @ ;`,
			synErr:  synErrInvalidToken,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			ast, err := Parse(strings.NewReader(tt.src))
			if tt.synErr != nil {
				var specErrs verr.SpecErrors
				if !errors.As(err, &specErrs) {
					t.Fatalf("unexpected error; want: %v, got: %v", tt.synErr, err)
				}
				if specErrs[0].Cause != tt.synErr {
					t.Fatalf("unexpected error; want: %v, got: %v", tt.synErr, specErrs[0].Cause)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			testRootNode(t, ast, tt.ast)
		})
	}
}

func TestParse_Position(t *testing.T) {
	src := `%token a
%%
s
  : a
  | b
  ;
`
	ast, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if ast.Declarations[0].Pos.Row != 1 {
		t.Fatalf("unexpected row of the declaration: %v", ast.Declarations[0].Pos.Row)
	}
	prod := ast.Productions[0]
	if prod.Pos.Row != 3 {
		t.Fatalf("unexpected row of the production: %v", prod.Pos.Row)
	}
	if prod.RHS[0].Pos.Row != 4 || prod.RHS[1].Pos.Row != 5 {
		t.Fatalf("unexpected rows of the alternatives: %v, %v", prod.RHS[0].Pos.Row, prod.RHS[1].Pos.Row)
	}

	_, err = Parse(strings.NewReader("%%\ns : a\n  | b\n"))
	var specErrs verr.SpecErrors
	if !errors.As(err, &specErrs) {
		t.Fatalf("unexpected error: %v", err)
	}
	if specErrs[0].Row != 0 {
		t.Fatalf("an error at the end of input has no row; got: %v", specErrs[0].Row)
	}
}

func TestLiteralValue(t *testing.T) {
	tests := []struct {
		lit   string
		value rune
		ok    bool
	}{
		{lit: `'+'`, value: '+', ok: true},
		{lit: `'\n'`, value: '\n', ok: true},
		{lit: `'\''`, value: '\'', ok: true},
		{lit: `'\\'`, value: '\\', ok: true},
		{lit: `'=='`, ok: false},
		{lit: `ID`, ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.lit, func(t *testing.T) {
			v, ok := LiteralValue(tt.lit)
			if ok != tt.ok || v != tt.value {
				t.Fatalf("unexpected value; want: %v (%v), got: %v (%v)", tt.value, tt.ok, v, ok)
			}
		})
	}
}

func testRootNode(t *testing.T, root, expected *RootNode) {
	t.Helper()
	if len(root.Declarations) != len(expected.Declarations) {
		t.Fatalf("unexpected declaration count; want: %v, got: %v", len(expected.Declarations), len(root.Declarations))
	}
	for i, decl := range root.Declarations {
		exp := expected.Declarations[i]
		if decl.Kind != exp.Kind || decl.Type != exp.Type {
			t.Fatalf("unexpected declaration; want: %v <%v>, got: %v <%v>", exp.Kind, exp.Type, decl.Kind, decl.Type)
		}
		if len(decl.Symbols) != len(exp.Symbols) {
			t.Fatalf("unexpected symbol count of %v; want: %v, got: %v", decl.Kind, len(exp.Symbols), len(decl.Symbols))
		}
		for j, sym := range decl.Symbols {
			e := exp.Symbols[j]
			if sym.Name != e.Name || sym.Literal != e.Literal || sym.FullName != e.FullName || sym.Number != e.Number || sym.Pattern != e.Pattern {
				t.Fatalf("unexpected symbol; want: %+v, got: %+v", e, sym)
			}
		}
	}
	if len(root.Productions) != len(expected.Productions) {
		t.Fatalf("unexpected production count; want: %v, got: %v", len(expected.Productions), len(root.Productions))
	}
	for i, prod := range root.Productions {
		exp := expected.Productions[i]
		if prod.LHS != exp.LHS {
			t.Fatalf("unexpected LHS; want: %v, got: %v", exp.LHS, prod.LHS)
		}
		if len(prod.RHS) != len(exp.RHS) {
			t.Fatalf("unexpected alternative count of %v; want: %v, got: %v", prod.LHS, len(exp.RHS), len(prod.RHS))
		}
		for j, alt := range prod.RHS {
			e := exp.RHS[j]
			if len(alt.Elements) != len(e.Elements) {
				t.Fatalf("unexpected element count; want: %v, got: %v", len(e.Elements), len(alt.Elements))
			}
			for k, elem := range alt.Elements {
				if elem.Name != e.Elements[k].Name || elem.Literal != e.Elements[k].Literal {
					t.Fatalf("unexpected element; want: %+v, got: %+v", e.Elements[k], elem)
				}
			}
			if (alt.Prec == nil) != (e.Prec == nil) {
				t.Fatalf("unexpected %%prec; want: %+v, got: %+v", e.Prec, alt.Prec)
			}
			if alt.Prec != nil && alt.Prec.Name != e.Prec.Name {
				t.Fatalf("unexpected %%prec; want: %v, got: %v", e.Prec.Name, alt.Prec.Name)
			}
		}
	}
}
