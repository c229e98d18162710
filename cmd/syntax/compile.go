package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jaimegarza/syntax-sub000/grammar"
	"github.com/jaimegarza/syntax-sub000/report"
	spec "github.com/jaimegarza/syntax-sub000/spec/grammar"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var compileFlags = struct {
	output *string
	report *bool
	html   *bool
	*compileFlagSet
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "compile",
		Short:   "Compile a grammar into parsing tables",
		Example: `  syntax compile grammar.syn -o grammar.json --report`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	compileFlags.report = cmd.Flags().Bool("report", false, "write a report in JSON next to the output")
	compileFlags.html = cmd.Flags().Bool("html", false, "write a report in HTML next to the output")
	compileFlags.compileFlagSet = addCompileFlags(cmd)
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	var grmPath string
	if len(args) > 0 {
		grmPath = args[0]
	}

	var opts []grammar.CompileOption
	if *compileFlags.report || *compileFlags.html {
		opts = append(opts, grammar.EnableReporting())
	}
	cgram, rep, err := compileGrammarFile(grmPath, compileFlags.compileFlagSet, opts...)
	if err != nil {
		return err
	}

	cgramPath, reportPath, err := makeOutputFilePaths(cgram.Name, *compileFlags.output)
	if err != nil {
		return err
	}
	err = writeCompiledGrammar(cgram, cgramPath)
	if err != nil {
		return fmt.Errorf("Cannot write the compiled grammar: %w", err)
	}
	if rep == nil {
		return nil
	}

	if *compileFlags.report {
		err = writeFile(reportPath+".json", func(w io.Writer) error {
			return writeJSON(w, rep)
		})
		if err != nil {
			return fmt.Errorf("Cannot write the report: %w", err)
		}
	}
	if *compileFlags.html {
		err = writeFile(reportPath+".html", func(w io.Writer) error {
			return report.WriteHTML(w, rep)
		})
		if err != nil {
			return fmt.Errorf("Cannot write the report: %w", err)
		}
	}

	printConflicts(report.NewDescriber(rep))

	return nil
}

// printConflicts prints the conflicts that no precedence resolved.
func printConflicts(d *report.Describer) {
	implicit, _ := d.ConflictCounts()
	if implicit == 0 {
		return
	}
	pterm.Warning.Println(fmt.Sprintf("%v conflicts", implicit))
	data := pterm.TableData{
		{"State", "Conflict"},
	}
	for _, s := range d.Report().States {
		for _, c := range s.SRConflict {
			if c.ResolvedBy != grammar.ResolvedByShift.Int() {
				continue
			}
			data = append(data, []string{strconv.Itoa(s.Number), d.SRConflict(c)})
		}
		for _, c := range s.RRConflict {
			data = append(data, []string{strconv.Itoa(s.Number), d.RRConflict(c)})
		}
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func writeCompiledGrammar(cgram *spec.CompiledGrammar, path string) error {
	if path == "" {
		return writeJSON(os.Stdout, cgram)
	}
	return writeFile(path, func(w io.Writer) error {
		return writeJSON(w, cgram)
	})
}

func writeJSON(w io.Writer, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%v\n", string(b))
	return err
}

func writeFile(path string, write func(w io.Writer) error) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	return write(f)
}

// makeOutputFilePaths returns the path of the compiled grammar and the path of the report without
// its extension.
//
//  1. When the path is a directory path, the compiled grammar goes to <path>/<grammar-name>.json and
//     the report to <path>/<grammar-name>-report.
//  2. When the path is a file path or a non-existent path, the path is the compiled grammar and the
//     report goes to the same directory.
//  3. When the path is empty, the compiled grammar goes to stdout and the report to the current
//     directory.
func makeOutputFilePaths(gramName string, path string) (string, string, error) {
	if gramName == "" {
		gramName = "grammar"
	}
	reportFileName := gramName + "-report"

	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", "", err
		}
		return "", filepath.Join(wd, reportFileName), nil
	}

	fi, err := os.Stat(path)
	if err != nil && !os.IsNotExist(err) {
		return "", "", err
	}
	if os.IsNotExist(err) || !fi.IsDir() {
		dir, _ := filepath.Split(path)
		return path, filepath.Join(dir, reportFileName), nil
	}

	return filepath.Join(path, gramName+".json"), filepath.Join(path, reportFileName), nil
}
