/*
Package compressor shrinks parsing tables.

A Packer turns the dense row of each state into a default action plus a short list of explicit
actions, shares identical lists between states, gives every non-terminal symbol a default goto,
and synthesizes an error message per state. The dense compressors (UniqueRowsTable and
RowDisplacementTable) serve the tabular form instead.

The package traces with key 'syntax.compressor'.
*/
package compressor

import "github.com/npillmayer/schuko/tracing"

func tracer() tracing.Trace {
	return tracing.Select("syntax.compressor")
}
