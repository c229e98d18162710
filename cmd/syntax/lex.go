package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	spec "github.com/jaimegarza/syntax-sub000/spec/grammar"
	mldriver "github.com/nihei9/maleeni/driver"
	"github.com/spf13/cobra"
)

var lexFlags = struct {
	source *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "lex",
		Short: "Tokenize a text stream with the lexical specification of a compiled grammar",
		Example: `  cat src | syntax lex grammar.json
  syntax lex grammar.json -s src`,
		Args: cobra.ExactArgs(1),
		RunE: runLex,
	}
	lexFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	rootCmd.AddCommand(cmd)
}

func runLex(cmd *cobra.Command, args []string) error {
	cgram, err := readCompiledGrammar(args[0])
	if err != nil {
		return err
	}

	src := io.Reader(os.Stdin)
	if *lexFlags.source != "" {
		f, err := os.Open(*lexFlags.source)
		if err != nil {
			return fmt.Errorf("Cannot open the source file %s: %w", *lexFlags.source, err)
		}
		defer f.Close()
		src = f
	}

	return tokenize(os.Stdout, cgram, src)
}

func readCompiledGrammar(path string) (*spec.CompiledGrammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the compiled grammar %s: %w", path, err)
	}
	defer f.Close()

	d, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	cgram := &spec.CompiledGrammar{}
	err = json.Unmarshal(d, cgram)
	if err != nil {
		return nil, err
	}
	return cgram, nil
}

// tokenize prints a line per token: the position, the terminal symbol, and the lexeme. Skipped
// tokens are marked and invalid ones are reported without stopping.
func tokenize(w io.Writer, cgram *spec.CompiledGrammar, src io.Reader) error {
	if cgram.Lexical == nil {
		return fmt.Errorf("the grammar %v has no token patterns", cgram.Name)
	}
	lex, err := mldriver.NewLexer(mldriver.NewLexSpec(cgram.Lexical.Maleeni), src)
	if err != nil {
		return err
	}

	terms := cgram.Syntactic.Terminals
	for {
		tok, err := lex.Next()
		if err != nil {
			return err
		}
		if tok.EOF {
			fmt.Fprintf(w, "%v:%v %v\n", tok.Row+1, tok.Col+1, terms[cgram.Syntactic.EOFSymbol].Name)
			return nil
		}
		if tok.Invalid {
			fmt.Fprintf(w, "%v:%v <invalid> %q\n", tok.Row+1, tok.Col+1, string(tok.Lexeme))
			continue
		}

		term := cgram.Lexical.KindToTerminal[tok.KindID]
		var skipped string
		if cgram.Lexical.Skip[tok.KindID] > 0 {
			skipped = " (skip)"
		}
		fmt.Fprintf(w, "%v:%v %v %q%v\n", tok.Row+1, tok.Col+1, terms[term].Name, string(tok.Lexeme), skipped)
	}
}
