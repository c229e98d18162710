package report

import (
	"fmt"
	"strings"

	"github.com/jaimegarza/syntax-sub000/grammar"
	spec "github.com/jaimegarza/syntax-sub000/spec/grammar"
)

// Describer renders the parts of a report as human-readable text. Symbol IDs in a report are
// terminal IDs followed by non-terminal IDs, the same layout the compiled rows use.
type Describer struct {
	report *spec.Report
}

func NewDescriber(report *spec.Report) *Describer {
	return &Describer{
		report: report,
	}
}

func (d *Describer) Report() *spec.Report {
	return d.report
}

func (d *Describer) IsTerminal(sym int) bool {
	return sym >= 0 && sym < len(d.report.Terminals)
}

func (d *Describer) terminal(sym int) (*spec.Terminal, bool) {
	if !d.IsTerminal(sym) {
		return nil, false
	}
	return d.report.Terminals[sym], true
}

func (d *Describer) nonTerminal(sym int) (*spec.NonTerminal, bool) {
	i := sym - len(d.report.Terminals)
	if i < 0 || i >= len(d.report.NonTerminals) {
		return nil, false
	}
	return d.report.NonTerminals[i], true
}

func (d *Describer) SymbolName(sym int) string {
	if t, ok := d.terminal(sym); ok {
		return t.Name
	}
	if n, ok := d.nonTerminal(sym); ok {
		return n.Name
	}
	return fmt.Sprintf("<%v>", sym)
}

// SymbolFullName returns the display name of a symbol, falling back to its name.
func (d *Describer) SymbolFullName(sym int) string {
	if t, ok := d.terminal(sym); ok && t.FullName != "" {
		return t.FullName
	}
	if n, ok := d.nonTerminal(sym); ok && n.FullName != "" {
		return n.FullName
	}
	return d.SymbolName(sym)
}

// LookupSymbol finds a symbol ID by its name.
func (d *Describer) LookupSymbol(name string) (int, bool) {
	for _, t := range d.report.Terminals {
		if t.Name == name {
			return t.ID, true
		}
	}
	for _, n := range d.report.NonTerminals {
		if n.Name == name {
			return n.ID, true
		}
	}
	return 0, false
}

func (d *Describer) NonTerminal(sym int) (*spec.NonTerminal, bool) {
	return d.nonTerminal(sym)
}

func (d *Describer) SymbolList(syms []int) string {
	names := make([]string, len(syms))
	for i, sym := range syms {
		names[i] = d.SymbolName(sym)
	}
	return strings.Join(names, ", ")
}

// Rule renders a production as `lhs → rhs`; an empty right-hand side is printed as ε.
func (d *Describer) Rule(num int) string {
	if num < 0 || num >= len(d.report.Productions) {
		return fmt.Sprintf("<rule %v>", num)
	}
	prod := d.report.Productions[num]
	var b strings.Builder
	fmt.Fprintf(&b, "%v →", d.SymbolName(prod.LHS))
	if len(prod.RHS) == 0 {
		fmt.Fprintf(&b, " ε")
	}
	for _, sym := range prod.RHS {
		fmt.Fprintf(&b, " %v", d.SymbolName(sym))
	}
	return b.String()
}

func (d *Describer) Item(item *spec.Item) string {
	if item.Production < 0 || item.Production >= len(d.report.Productions) {
		return fmt.Sprintf("<rule %v>", item.Production)
	}
	prod := d.report.Productions[item.Production]

	var b strings.Builder
	fmt.Fprintf(&b, "%v →", d.SymbolName(prod.LHS))
	for i, sym := range prod.RHS {
		if i == item.Dot {
			fmt.Fprintf(&b, " ・")
		}
		fmt.Fprintf(&b, " %v", d.SymbolName(sym))
	}
	if item.Dot >= len(prod.RHS) {
		fmt.Fprintf(&b, " ・")
	}
	if len(item.LookAhead) > 0 {
		fmt.Fprintf(&b, ", {%v}", d.SymbolList(item.LookAhead))
	}
	if item.Carry {
		fmt.Fprintf(&b, " *")
	}
	return fmt.Sprintf("%4v %v", prod.Number, b.String())
}

// Action renders an entry of a parsing table row.
func (d *Describer) Action(act int) string {
	switch {
	case act == spec.ActionAccept:
		return "accept"
	case act > 0:
		return fmt.Sprintf("shift %v", act)
	case act < 0:
		return fmt.Sprintf("reduce %v", -act)
	}
	return "error"
}

func (d *Describer) Shift(tran *spec.Transition) string {
	return fmt.Sprintf("shift  %4v on %v", tran.State, d.SymbolName(tran.Symbol))
}

func (d *Describer) Reduce(red *spec.Reduce) string {
	return fmt.Sprintf("reduce %4v on %v", red.Production, d.SymbolList(red.LookAhead))
}

func (d *Describer) GoTo(tran *spec.Transition) string {
	return fmt.Sprintf("goto   %4v on %v", tran.State, d.SymbolName(tran.Symbol))
}

func (d *Describer) Message(msg int) string {
	if msg == spec.MessageNil || msg < 0 || msg >= len(d.report.ErrorMessages) {
		return ""
	}
	return d.report.ErrorMessages[msg]
}

func (d *Describer) SRConflict(sr *spec.SRConflict) string {
	sym := d.SymbolName(sr.Symbol)

	var adopted string
	switch {
	case sr.AdoptedState != nil:
		adopted = "shift"
	case sr.AdoptedProduction != nil:
		adopted = fmt.Sprintf("reduce %v", *sr.AdoptedProduction)
	}

	var resolvedBy string
	switch sr.ResolvedBy {
	case grammar.ResolvedByPrec.Int():
		if sr.AdoptedState != nil {
			resolvedBy = fmt.Sprintf("symbol %v has higher precedence than rule %v", sym, sr.Production)
		} else {
			resolvedBy = fmt.Sprintf("rule %v has higher precedence than symbol %v", sr.Production, sym)
		}
	case grammar.ResolvedByAssoc.Int():
		assoc := "no"
		if t, ok := d.terminal(sr.Symbol); ok && t.Associativity != "" {
			assoc = t.Associativity
		}
		resolvedBy = fmt.Sprintf("symbol %v and rule %v have the same precedence, and symbol %v has %v associativity", sym, sr.Production, sym, assoc)
	case grammar.ResolvedByShift.Int():
		resolvedBy = fmt.Sprintf("symbol %v and rule %v don't define a precedence comparison (default rule)", sym, sr.Production)
	default:
		resolvedBy = "?"
	}
	shift := fmt.Sprintf("shift %v", sr.State)
	if sr.State == spec.ActionAccept {
		shift = "accept"
		adopted = "accept"
	}
	return fmt.Sprintf("shift/reduce conflict (%v, reduce %v) on %v: %v adopted because %v", shift, sr.Production, sym, adopted, resolvedBy)
}

func (d *Describer) RRConflict(rr *spec.RRConflict) string {
	var resolvedBy string
	switch rr.ResolvedBy {
	case grammar.ResolvedByProdOrder.Int():
		resolvedBy = fmt.Sprintf("rules %v and %v don't define a precedence comparison (default rule)", rr.Production1, rr.Production2)
	default:
		resolvedBy = "?"
	}
	return fmt.Sprintf("reduce/reduce conflict (%v, %v) on %v: reduce %v adopted because %v", rr.Production1, rr.Production2, d.SymbolName(rr.Symbol), rr.AdoptedProduction, resolvedBy)
}

// ConflictCounts counts conflicts resolved by a default rule (implicit) and by precedence or
// associativity (explicit).
func (d *Describer) ConflictCounts() (implicit int, explicit int) {
	for _, s := range d.report.States {
		for _, c := range s.SRConflict {
			if c.ResolvedBy == grammar.ResolvedByShift.Int() {
				implicit++
			} else {
				explicit++
			}
		}
		for _, c := range s.RRConflict {
			if c.ResolvedBy == grammar.ResolvedByProdOrder.Int() {
				implicit++
			} else {
				explicit++
			}
		}
	}
	return implicit, explicit
}

func (d *Describer) ConflictSummary() string {
	implicit, explicit := d.ConflictCounts()
	var b strings.Builder
	if implicit == 1 {
		fmt.Fprintf(&b, "%v conflict occurred and resolved implicitly.\n", implicit)
	} else if implicit > 1 {
		fmt.Fprintf(&b, "%v conflicts occurred and resolved implicitly.\n", implicit)
	}
	if explicit == 1 {
		fmt.Fprintf(&b, "%v conflict occurred and resolved explicitly.\n", explicit)
	} else if explicit > 1 {
		fmt.Fprintf(&b, "%v conflicts occurred and resolved explicitly.\n", explicit)
	}
	if implicit == 0 && explicit == 0 {
		fmt.Fprintf(&b, "No conflict")
	}
	return strings.TrimSuffix(b.String(), "\n")
}
