package report

import (
	htmltemplate "html/template"
	"io"

	spec "github.com/jaimegarza/syntax-sub000/spec/grammar"
)

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{ .Name }}</title>
<style>
body { font-family: sans-serif; }
table { border-collapse: collapse; margin-bottom: 1em; }
th, td { border: 1px solid #999; padding: 2px 6px; text-align: left; }
pre { margin: 0; }
.conflict { color: #b00; }
</style>
</head>
<body>
<h1>{{ .Name }} ({{ .Algorithm }})</h1>

<h2>Conflicts</h2>
<p>{{ conflictSummary }}</p>

<h2>Terminals</h2>
<table>
<tr><th>ID</th><th>Token</th><th>Name</th><th>Full name</th><th>Prec</th><th>Assoc</th><th>Pattern</th></tr>
{{ range .Terminals -}}
<tr><td>{{ .ID }}</td><td>{{ .Token }}</td><td>{{ .Name }}{{ if .Error }} (error){{ end }}</td><td>{{ .FullName }}</td><td>{{ if .Precedence }}{{ .Precedence }}{{ end }}</td><td>{{ .Associativity }}</td><td><code>{{ .Pattern }}</code></td></tr>
{{ end -}}
</table>

<h2>Non-terminals</h2>
<table>
<tr><th>ID</th><th>Name</th><th>Full name</th><th>Nullable</th><th>FIRST</th><th>FOLLOW</th></tr>
{{ range .NonTerminals -}}
<tr><td>{{ .ID }}</td><td>{{ .Name }}</td><td>{{ .FullName }}</td><td>{{ .Nullable }}</td><td>{{ symbolList .First }}</td><td>{{ symbolList .Follow }}</td></tr>
{{ end -}}
</table>

<h2>Rules</h2>
<table>
<tr><th>Number</th><th>Prec</th><th>Rule</th></tr>
{{ range .Productions -}}
<tr><td>{{ .Number }}</td><td>{{ if .Precedence }}{{ .Precedence }}{{ end }}</td><td>{{ rule .Number }}</td></tr>
{{ end -}}
</table>

<h2>States</h2>
{{ range .States }}
<h3 id="state-{{ .Number }}">State {{ .Number }}{{ if ge .From 0 }} (from <a href="#state-{{ .From }}">{{ .From }}</a> on {{ symbol .Symbol }}){{ end }}</h3>
<pre>
{{ range .Kernel -}}
{{ item . }}
{{ end -}}
{{ range .Closure -}}
{{ item . }}
{{ end -}}
</pre>
<pre>
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
</pre>
{{ range .SRConflict -}}
<p class="conflict">{{ srConflict . }}</p>
{{ end -}}
{{ range .RRConflict -}}
<p class="conflict">{{ rrConflict . }}</p>
{{ end -}}
{{ if $.Packed -}}
<p>default {{ action .Default }}{{ with message .Message }}, message "{{ . }}"{{ end }}{{ if ge .SharedWith 0 }}, actions shared with state {{ .SharedWith }}{{ end }}</p>
{{ end -}}
{{ end }}
{{ if .Packed -}}
<h2>Actions</h2>
<table>
<tr><th>Position</th><th>Symbol</th><th>Action</th></tr>
{{ range $i, $a := .Actions -}}
<tr><td>{{ $i }}</td><td>{{ symbol $a.Symbol }}</td><td>{{ action $a.Target }}</td></tr>
{{ end -}}
</table>

<h2>Gotos</h2>
<table>
<tr><th>Position</th><th>Origin</th><th>Destination</th></tr>
{{ range $i, $g := .GoTos -}}
<tr><td>{{ $i }}</td><td>{{ if lt $g.Origin 0 }}*{{ else }}{{ $g.Origin }}{{ end }}</td><td>{{ $g.Destination }}</td></tr>
{{ end -}}
</table>

<h2>Error messages</h2>
<ol start="0">
{{ range .ErrorMessages -}}
<li>{{ . }}</li>
{{ end -}}
</ol>
{{ end -}}
{{ if .Warnings -}}
<h2>Warnings</h2>
<ul>
{{ range .Warnings -}}
<li><pre>{{ . }}</pre></li>
{{ end -}}
</ul>
{{ end -}}
</body>
</html>
`

// WriteHTML writes a report as a standalone HTML page.
func WriteHTML(w io.Writer, report *spec.Report) error {
	d := NewDescriber(report)
	fns := htmltemplate.FuncMap(d.funcs())
	fns["symbolList"] = d.SymbolList
	fns["rule"] = d.Rule
	tmpl, err := htmltemplate.New("").Funcs(fns).Parse(htmlTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, report)
}
