package grammar

import (
	"fmt"
	"io"
	"strings"

	verr "github.com/jaimegarza/syntax-sub000/error"
	"github.com/jaimegarza/syntax-sub000/grammar/symbol"
	spec "github.com/jaimegarza/syntax-sub000/spec/grammar"
	"github.com/jaimegarza/syntax-sub000/spec/grammar/parser"
	mlcompiler "github.com/nihei9/maleeni/compiler"
	mlspec "github.com/nihei9/maleeni/spec"
)

// genLexicalSpec compiles the %lex and %skip patterns and the quoted literals into a lexical
// specification. Patterns of quoted literals take precedence over the named patterns. A grammar
// without any pattern has no lexical specification.
func genLexicalSpec(gram *Grammar) (*spec.LexicalSpec, error) {
	r := gram.symbolTable

	named := map[string]*lexEntry{}
	for _, le := range gram.lexEntries {
		named[le.name] = le
	}

	var entries []*lexEntry
	for _, sym := range r.TerminalSymbols() {
		e, _ := r.Entry(sym)
		if !strings.HasPrefix(e.Name, "'") {
			continue
		}
		if _, ok := named[e.Name]; ok {
			continue
		}
		text, err := parser.LiteralText(e.Name)
		if err != nil {
			return nil, verr.SpecErrors{
				{
					Cause:  semErrInvalidPattern,
					Detail: e.Name,
					Row:    e.Row,
				},
			}
		}
		entries = append(entries, &lexEntry{
			name:    e.Name,
			pattern: mlspec.EscapePattern(text),
			row:     e.Row,
		})
	}
	entries = append(entries, gram.lexEntries...)
	if len(entries) == 0 {
		return nil, nil
	}

	kind2Sym := map[mlspec.LexKindName]symbol.Symbol{}
	skipKinds := map[mlspec.LexKindName]struct{}{}
	mlEntries := make([]*mlspec.LexEntry, 0, len(entries))
	for _, le := range entries {
		sym, ok := r.ToSymbol(le.name)
		if !ok {
			return nil, fmt.Errorf("a symbol was not found in the symbol table: %v", le.name)
		}
		// Kind names are generated because maleeni accepts only snake case names.
		kind := mlspec.LexKindName(fmt.Sprintf("kind_%v", sym.Int()))
		kind2Sym[kind] = sym
		if le.skip {
			skipKinds[kind] = struct{}{}
		}
		mlEntries = append(mlEntries, &mlspec.LexEntry{
			Kind:    kind,
			Pattern: mlspec.LexPattern(expandControlEscapes(le.pattern)),
		})
	}

	clspec, err, cErrs := mlcompiler.Compile(&mlspec.LexSpec{
		Name:    lexSpecName(gram.name),
		Entries: mlEntries,
	}, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
	if err != nil {
		if len(cErrs) == 0 {
			return nil, err
		}
		var specErrs verr.SpecErrors
		for _, cErr := range cErrs {
			var b strings.Builder
			writeCompileError(&b, cErr)
			specErrs = append(specErrs, &verr.SpecError{
				Cause:  semErrInvalidPattern,
				Detail: b.String(),
			})
		}
		return nil, specErrs
	}

	kind2Term := make([]int, len(clspec.KindNames))
	skip := make([]int, len(clspec.KindNames))
	for i, k := range clspec.KindNames {
		if k == mlspec.LexKindNameNil {
			kind2Term[mlspec.LexKindIDNil] = symbol.SymbolNil.Int()
			continue
		}
		sym, ok := kind2Sym[k]
		if !ok {
			return nil, fmt.Errorf("a lexical kind was not found: %v", k)
		}
		kind2Term[i] = sym.Int()
		if _, ok := skipKinds[k]; ok {
			skip[i] = 1
		}
	}
	tracer().Infof("lexical specification: %v kinds", len(mlEntries))

	return &spec.LexicalSpec{
		Maleeni:        clspec,
		KindToTerminal: kind2Term,
		Skip:           skip,
	}, nil
}

var controlCodePoints = map[byte]string{
	't': `\u{0009}`,
	'n': `\u{000A}`,
	'r': `\u{000D}`,
}

// expandControlEscapes rewrites \t, \n, and \r as code point expressions, which maleeni accepts
// both inside and outside bracket expressions. Other escape sequences are kept as they are.
func expandControlEscapes(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c != '\\' || i+1 >= len(pattern) {
			b.WriteByte(c)
			continue
		}
		i++
		if cp, ok := controlCodePoints[pattern[i]]; ok {
			b.WriteString(cp)
			continue
		}
		b.WriteByte(c)
		b.WriteByte(pattern[i])
	}
	return b.String()
}

// lexSpecName turns a grammar name into a snake case name.
func lexSpecName(name string) string {
	var b strings.Builder
	for _, c := range strings.ToLower(name) {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9' && b.Len() > 0:
			b.WriteRune(c)
		case b.Len() > 0 && !strings.HasSuffix(b.String(), "_"):
			b.WriteRune('_')
		}
	}
	s := strings.Trim(b.String(), "_")
	if s == "" {
		return "syntax"
	}
	return s
}

func writeCompileError(w io.Writer, cErr *mlcompiler.CompileError) {
	if cErr.Fragment {
		fmt.Fprintf(w, "fragment ")
	}
	fmt.Fprintf(w, "%v: %v", cErr.Kind, cErr.Cause)
	if cErr.Detail != "" {
		fmt.Fprintf(w, ": %v", cErr.Detail)
	}
}
