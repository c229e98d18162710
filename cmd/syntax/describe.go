package main

import (
	"os"

	"github.com/jaimegarza/syntax-sub000/grammar"
	"github.com/jaimegarza/syntax-sub000/report"
	"github.com/spf13/cobra"
)

var describeFlags = struct {
	html *bool
	*compileFlagSet
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "describe",
		Short:   "Compile a grammar and print its report without writing the tables",
		Example: `  syntax describe grammar.syn --algorithm slr`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runDescribe,
	}
	describeFlags.html = cmd.Flags().Bool("html", false, "print the report in HTML")
	describeFlags.compileFlagSet = addCompileFlags(cmd)
	rootCmd.AddCommand(cmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	var grmPath string
	if len(args) > 0 {
		grmPath = args[0]
	}
	_, rep, err := compileGrammarFile(grmPath, describeFlags.compileFlagSet, grammar.EnableReporting())
	if err != nil {
		return err
	}

	if *describeFlags.html {
		return report.WriteHTML(os.Stdout, rep)
	}
	return report.WriteText(os.Stdout, rep)
}
