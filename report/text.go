package report

import (
	"fmt"
	"io"
	"strconv"
	"text/template"

	"github.com/dekarrin/rosed"
	spec "github.com/jaimegarza/syntax-sub000/spec/grammar"
)

const tableWidth = 100

const textTemplate = `# {{ .Name }} ({{ .Algorithm }})

# Conflicts

{{ conflictSummary }}

# Terminals

{{ terminalTable }}

# Non-terminals

{{ nonTerminalTable }}

# Rules

{{ range .Productions -}}
{{ printRule . }}
{{ end }}
# States
{{ range .States }}
## State {{ .Number }}{{ if ge .From 0 }} (from {{ .From }} on {{ symbol .Symbol }}){{ end }}

{{ range .Kernel -}}
{{ item . }}
{{ end -}}
{{ range .Closure -}}
{{ item . }}
{{ end }}
{{ if .Accept -}}
accept on {{ symbol 0 }}
{{ end -}}
{{ range .Shift -}}
{{ shift . }}
{{ end -}}
{{ range .Reduce -}}
{{ reduce . }}
{{ end -}}
{{ range .GoTo -}}
{{ goto . }}
{{ end -}}
{{ range .SRConflict -}}
{{ srConflict . }}
{{ end -}}
{{ range .RRConflict -}}
{{ rrConflict . }}
{{ end -}}
{{ if $.Packed -}}
default {{ action .Default }}
{{ with message .Message }}message "{{ . }}"
{{ end -}}
{{ if ge .SharedWith 0 }}actions shared with state {{ .SharedWith }}
{{ end -}}
{{ end -}}
{{ end }}
{{- if .Packed }}
# Actions

{{ actionTable }}

# Gotos

{{ goToTable }}

# Error messages

{{ range $i, $m := .ErrorMessages -}}
{{ printf "%4v" $i }} {{ $m }}
{{ end -}}
{{ end }}
{{- if .Warnings }}
# Warnings

{{ range .Warnings -}}
{{ . }}
{{ end -}}
{{ end -}}
`

func newTable(data [][]string) string {
	return rosed.
		Edit("").
		InsertTableOpts(0, data, tableWidth, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func intOrDash(v int) string {
	if v == 0 {
		return "-"
	}
	return strconv.Itoa(v)
}

func (d *Describer) terminalTable() string {
	data := [][]string{
		{"ID", "Token", "Name", "Full name", "Prec", "Assoc", "Pattern"},
	}
	for _, t := range d.report.Terminals {
		name := t.Name
		if t.Error {
			name += " (error)"
		}
		data = append(data, []string{
			strconv.Itoa(t.ID),
			strconv.Itoa(t.Token),
			name,
			orDash(t.FullName),
			intOrDash(t.Precedence),
			orDash(t.Associativity),
			orDash(t.Pattern),
		})
	}
	return newTable(data)
}

func (d *Describer) nonTerminalTable() string {
	data := [][]string{
		{"ID", "Name", "Full name", "Nullable", "FIRST", "FOLLOW"},
	}
	for _, n := range d.report.NonTerminals {
		data = append(data, []string{
			strconv.Itoa(n.ID),
			n.Name,
			orDash(n.FullName),
			strconv.FormatBool(n.Nullable),
			orDash(d.SymbolList(n.First)),
			orDash(d.SymbolList(n.Follow)),
		})
	}
	return newTable(data)
}

func (d *Describer) actionTable() string {
	data := [][]string{
		{"Position", "State", "Symbol", "Action"},
	}
	owner := make([]int, len(d.report.Actions))
	for i := range owner {
		owner[i] = -1
	}
	for _, s := range d.report.States {
		if s.SharedWith >= 0 {
			continue
		}
		for i := s.Position; i < s.Position+s.ActionCount && i < len(owner); i++ {
			owner[i] = s.Number
		}
	}
	for i, a := range d.report.Actions {
		state := "-"
		if owner[i] >= 0 {
			state = strconv.Itoa(owner[i])
		}
		data = append(data, []string{
			strconv.Itoa(i),
			state,
			d.SymbolName(a.Symbol),
			d.Action(a.Target),
		})
	}
	return newTable(data)
}

func (d *Describer) goToTable() string {
	data := [][]string{
		{"Position", "Non-terminal", "Origin", "Destination"},
	}
	owner := map[int]int{}
	for i, pos := range d.report.GoToPositions {
		if pos < 0 {
			continue
		}
		if _, ok := owner[pos]; !ok {
			owner[pos] = len(d.report.Terminals) + i
		}
	}
	var nonTerm int
	for i, g := range d.report.GoTos {
		if sym, ok := owner[i]; ok {
			nonTerm = sym
		}
		origin := "*"
		if g.Origin != spec.GoToDefaultOrigin {
			origin = strconv.Itoa(g.Origin)
		}
		data = append(data, []string{
			strconv.Itoa(i),
			d.SymbolName(nonTerm),
			origin,
			strconv.Itoa(g.Destination),
		})
	}
	return newTable(data)
}

func (d *Describer) funcs() template.FuncMap {
	return template.FuncMap{
		"conflictSummary":  d.ConflictSummary,
		"terminalTable":    d.terminalTable,
		"nonTerminalTable": d.nonTerminalTable,
		"actionTable":      d.actionTable,
		"goToTable":        d.goToTable,
		"symbol":           d.SymbolName,
		"item":             d.Item,
		"shift":            d.Shift,
		"reduce":           d.Reduce,
		"goto":             d.GoTo,
		"action":           d.Action,
		"message":          d.Message,
		"srConflict":       d.SRConflict,
		"rrConflict":       d.RRConflict,
		"printRule": func(prod *spec.Production) string {
			return fmt.Sprintf("%4v %2v %v", prod.Number, intOrDash(prod.Precedence), d.Rule(prod.Number))
		},
	}
}

// WriteText writes a report as plain text.
func WriteText(w io.Writer, report *spec.Report) error {
	d := NewDescriber(report)
	tmpl, err := template.New("").Funcs(d.funcs()).Parse(textTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, report)
}
