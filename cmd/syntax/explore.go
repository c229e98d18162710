package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/jaimegarza/syntax-sub000/grammar"
	"github.com/jaimegarza/syntax-sub000/report"
	spec "github.com/jaimegarza/syntax-sub000/spec/grammar"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var exploreFlags = struct {
	*compileFlagSet
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Explore the automaton of a grammar interactively",
		Long: `explore compiles a grammar and reads commands from the terminal:
  first X      FIRST set of a symbol
  follow X     FOLLOW set of a non-terminal symbol
  state N      items and actions of a state
  rule N       a rule
  conflicts    the conflicts of all states
  messages     the error messages
  quit         leave the explorer (or <ctrl>D)`,
		Example: `  syntax explore grammar.syn`,
		Args:    cobra.ExactArgs(1),
		RunE:    runExplore,
	}
	exploreFlags.compileFlagSet = addCompileFlags(cmd)
	rootCmd.AddCommand(cmd)
}

func runExplore(cmd *cobra.Command, args []string) error {
	_, rep, err := compileGrammarFile(args[0], exploreFlags.compileFlagSet, grammar.EnableReporting())
	if err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt: "syntax> ",
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("first"),
			readline.PcItem("follow"),
			readline.PcItem("state"),
			readline.PcItem("rule"),
			readline.PcItem("conflicts"),
			readline.PcItem("messages"),
			readline.PcItem("quit"),
		),
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	e := newExplorer(rep, os.Stdout)
	pterm.Info.Println(fmt.Sprintf("%v: %v states, %v rules; quit with <ctrl>D", rep.Name, len(rep.States), len(rep.Productions)))
	for {
		line, err := rl.Readline()
		if err != nil {
			break
		}
		quit, err := e.eval(line)
		if err != nil {
			pterm.Error.Println(err)
			continue
		}
		if quit {
			break
		}
	}
	return nil
}

type explorer struct {
	d *report.Describer
	w io.Writer
}

func newExplorer(rep *spec.Report, w io.Writer) *explorer {
	return &explorer{
		d: report.NewDescriber(rep),
		w: w,
	}
}

func (e *explorer) eval(line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "quit", "exit":
		return true, nil
	case "first":
		return false, e.withSymbol(args, e.first)
	case "follow":
		return false, e.withSymbol(args, e.follow)
	case "state":
		return false, e.withNumber(args, len(e.d.Report().States), e.state)
	case "rule":
		return false, e.withNumber(args, len(e.d.Report().Productions), e.rule)
	case "conflicts":
		e.conflicts()
		return false, nil
	case "messages":
		e.messages()
		return false, nil
	}
	return false, fmt.Errorf("unknown command: %v", cmd)
}

func (e *explorer) withSymbol(args []string, f func(sym int)) error {
	if len(args) != 1 {
		return fmt.Errorf("a symbol name is needed")
	}
	sym, ok := e.d.LookupSymbol(args[0])
	if !ok {
		return fmt.Errorf("unknown symbol: %v", args[0])
	}
	f(sym)
	return nil
}

func (e *explorer) withNumber(args []string, limit int, f func(n int)) error {
	if len(args) != 1 {
		return fmt.Errorf("a number is needed")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid number: %v", args[0])
	}
	if n < 0 || n >= limit {
		return fmt.Errorf("out of range: %v (0-%v)", n, limit-1)
	}
	f(n)
	return nil
}

func (e *explorer) first(sym int) {
	if e.d.IsTerminal(sym) {
		fmt.Fprintf(e.w, "FIRST(%v) = {%v}\n", e.d.SymbolName(sym), e.d.SymbolName(sym))
		return
	}
	n, _ := e.d.NonTerminal(sym)
	var nullable string
	if n.Nullable {
		nullable = ", ε"
	}
	fmt.Fprintf(e.w, "FIRST(%v) = {%v%v}\n", n.Name, e.d.SymbolList(n.First), nullable)
}

func (e *explorer) follow(sym int) {
	n, ok := e.d.NonTerminal(sym)
	if !ok {
		fmt.Fprintf(e.w, "%v is a terminal symbol\n", e.d.SymbolName(sym))
		return
	}
	fmt.Fprintf(e.w, "FOLLOW(%v) = {%v}\n", n.Name, e.d.SymbolList(n.Follow))
}

func (e *explorer) state(num int) {
	rep := e.d.Report()
	s := rep.States[num]
	fmt.Fprintf(e.w, "state %v", s.Number)
	if s.From >= 0 {
		fmt.Fprintf(e.w, " (from %v on %v)", s.From, e.d.SymbolName(s.Symbol))
	}
	fmt.Fprintf(e.w, "\n")
	for _, item := range s.Kernel {
		fmt.Fprintf(e.w, "%v\n", e.d.Item(item))
	}
	for _, item := range s.Closure {
		fmt.Fprintf(e.w, "%v\n", e.d.Item(item))
	}
	if s.Accept {
		fmt.Fprintf(e.w, "accept on %v\n", e.d.SymbolName(0))
	}
	for _, sh := range s.Shift {
		fmt.Fprintf(e.w, "%v\n", e.d.Shift(sh))
	}
	for _, r := range s.Reduce {
		fmt.Fprintf(e.w, "%v\n", e.d.Reduce(r))
	}
	for _, g := range s.GoTo {
		fmt.Fprintf(e.w, "%v\n", e.d.GoTo(g))
	}
	if rep.Packed {
		fmt.Fprintf(e.w, "default %v\n", e.d.Action(s.Default))
		if msg := e.d.Message(s.Message); msg != "" {
			fmt.Fprintf(e.w, "message %q\n", msg)
		}
	}
}

func (e *explorer) rule(num int) {
	prod := e.d.Report().Productions[num]
	fmt.Fprintf(e.w, "%4v %v", prod.Number, e.d.Rule(num))
	if prod.Precedence != 0 {
		fmt.Fprintf(e.w, " (prec %v)", prod.Precedence)
	}
	fmt.Fprintf(e.w, "\n")
}

func (e *explorer) conflicts() {
	fmt.Fprintf(e.w, "%v\n", e.d.ConflictSummary())
	for _, s := range e.d.Report().States {
		for _, c := range s.SRConflict {
			fmt.Fprintf(e.w, "%5v %v\n", s.Number, e.d.SRConflict(c))
		}
		for _, c := range s.RRConflict {
			fmt.Fprintf(e.w, "%5v %v\n", s.Number, e.d.RRConflict(c))
		}
	}
}

func (e *explorer) messages() {
	msgs := e.d.Report().ErrorMessages
	if len(msgs) == 0 {
		fmt.Fprintf(e.w, "no error messages\n")
		return
	}
	for i, msg := range msgs {
		fmt.Fprintf(e.w, "%4v %v\n", i, msg)
	}
}
