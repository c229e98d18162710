package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jaimegarza/syntax-sub000/compressor"
	verr "github.com/jaimegarza/syntax-sub000/error"
	"github.com/jaimegarza/syntax-sub000/grammar"
	spec "github.com/jaimegarza/syntax-sub000/spec/grammar"
	"github.com/jaimegarza/syntax-sub000/spec/grammar/parser"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type compileFlagSet struct {
	algorithm        *string
	tabular          *bool
	compressionLevel *int
	quiet            *bool
}

func addCompileFlags(cmd *cobra.Command) *compileFlagSet {
	return &compileFlagSet{
		algorithm:        cmd.Flags().StringP("algorithm", "a", spec.AlgorithmLALR.String(), "table construction algorithm [lalr|slr]"),
		tabular:          cmd.Flags().Bool("tabular", false, "emit a row table instead of packed tables"),
		compressionLevel: cmd.Flags().Int("compression-level", compressor.CompressionLevelMax, "compression level of a row table [0-2]"),
		quiet:            cmd.Flags().BoolP("quiet", "q", false, "don't print warnings"),
	}
}

func (f *compileFlagSet) options(src *grammarSource) ([]grammar.CompileOption, error) {
	var opts []grammar.CompileOption
	switch a := spec.Algorithm(*f.algorithm); a {
	case spec.AlgorithmLALR, spec.AlgorithmSLR:
		opts = append(opts, grammar.Algorithm(a))
	default:
		return nil, fmt.Errorf("unknown algorithm: %v", *f.algorithm)
	}
	if *f.tabular {
		opts = append(opts, grammar.Tabular())
	}
	opts = append(opts, grammar.CompressionLevel(*f.compressionLevel))
	if !*f.quiet {
		opts = append(opts, grammar.OnWarning(func(w *verr.SpecError) {
			w.FilePath = src.filePath
			w.SourceName = src.sourceName
			pterm.Warning.Println(w.Error())
		}))
	}
	return opts, nil
}

// grammarSource is a grammar file. A grammar read from stdin is saved to a temporary file so
// that error messages can quote its lines.
type grammarSource struct {
	filePath   string
	sourceName string
	tmpDirPath string
}

func openGrammarSource(path string) (*grammarSource, error) {
	if path != "" {
		return &grammarSource{
			filePath:   path,
			sourceName: path,
		}, nil
	}

	tmpDirPath, err := os.MkdirTemp("", "syntax-*")
	if err != nil {
		return nil, err
	}
	src, err := io.ReadAll(os.Stdin)
	if err != nil {
		os.RemoveAll(tmpDirPath)
		return nil, err
	}
	filePath := filepath.Join(tmpDirPath, "stdin.syn")
	err = os.WriteFile(filePath, src, 0600)
	if err != nil {
		os.RemoveAll(tmpDirPath)
		return nil, err
	}
	return &grammarSource{
		filePath:   filePath,
		sourceName: "stdin",
		tmpDirPath: tmpDirPath,
	}, nil
}

func (s *grammarSource) Close() error {
	if s.tmpDirPath == "" {
		return nil
	}
	return os.RemoveAll(s.tmpDirPath)
}

// withSource sets the source of spec errors so that they print the file name and the
// offending line.
func (s *grammarSource) withSource(err error) error {
	if specErrs, ok := err.(verr.SpecErrors); ok {
		verr.WithSource(specErrs, s.filePath, s.sourceName)
	}
	return err
}

func (s *grammarSource) readGrammar() (*grammar.Grammar, error) {
	f, err := os.Open(s.filePath)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the grammar file %s: %w", s.sourceName, err)
	}
	defer f.Close()

	ast, err := parser.Parse(f)
	if err != nil {
		return nil, s.withSource(err)
	}

	b := grammar.GrammarBuilder{
		AST: ast,
	}
	gram, err := b.Build()
	if err != nil {
		return nil, s.withSource(err)
	}
	return gram, nil
}

// compileGrammarFile reads and compiles a grammar file, or stdin when path is empty.
func compileGrammarFile(path string, flags *compileFlagSet, extra ...grammar.CompileOption) (*spec.CompiledGrammar, *spec.Report, error) {
	src, err := openGrammarSource(path)
	if err != nil {
		return nil, nil, err
	}
	defer src.Close()

	gram, err := src.readGrammar()
	if err != nil {
		return nil, nil, err
	}

	opts, err := flags.options(src)
	if err != nil {
		return nil, nil, err
	}
	cgram, report, err := grammar.Compile(gram, append(opts, extra...)...)
	if err != nil {
		return nil, nil, src.withSource(err)
	}
	return cgram, report, nil
}
