package main

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var rootFlags = struct {
	trace *string
}{}

var rootCmd = &cobra.Command{
	Use:   "syntax",
	Short: "Generate LALR(1) and SLR(1) parsing tables from a grammar",
	Long: `syntax provides the following features:
- Compiles a grammar into packed or tabular parsing tables.
- Prints a report of the automaton, its conflicts, and the packed tables.
- Explores a grammar interactively and tokenizes a text stream.
  These features are primarily aimed at debugging the grammar.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setUpTracing,
}

func init() {
	rootFlags.trace = rootCmd.PersistentFlags().String("trace", "Error", "trace level [Debug|Info|Error]")
}

func setUpTracing(cmd *cobra.Command, args []string) error {
	t := gologadapter.New()
	t.SetTraceLevel(tracing.TraceLevelFromString(*rootFlags.trace))
	gtrace.SyntaxTracer = t
	tracing.SetTraceSelector(tracing.SelectorForAdapter(func() tracing.Trace {
		return t
	}))
	return nil
}

func Execute() error {
	initDisplay()
	err := rootCmd.Execute()
	if err != nil {
		pterm.Error.Println(err)
		return err
	}
	return nil
}

func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}
