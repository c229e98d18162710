package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jaimegarza/syntax-sub000/report"
	spec "github.com/jaimegarza/syntax-sub000/spec/grammar"
	"github.com/spf13/cobra"
)

var showFlags = struct {
	html *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "show",
		Short:   "Print a report in a readable format",
		Example: `  syntax show grammar-report.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runShow,
	}
	showFlags.html = cmd.Flags().Bool("html", false, "print the report in HTML")
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	rep, err := readReport(args[0])
	if err != nil {
		return err
	}

	if *showFlags.html {
		return report.WriteHTML(os.Stdout, rep)
	}
	return report.WriteText(os.Stdout, rep)
}

func readReport(path string) (*spec.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the report %s: %w", path, err)
	}
	defer f.Close()

	d, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	rep := &spec.Report{}
	err = json.Unmarshal(d, rep)
	if err != nil {
		return nil, err
	}

	return rep, nil
}
