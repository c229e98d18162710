/*
Package grammar builds LALR(1) and SLR(1) parsing tables.

A Grammar is built from the AST of a grammar file by GrammarBuilder. Compile then computes the
FIRST and FOLLOW sets, the canonical collection of item sets with their lookaheads, and the
parsing actions of every state, and packs them into tables.

The package traces with key 'syntax.grammar'.
*/
package grammar

import "github.com/npillmayer/schuko/tracing"

func tracer() tracing.Trace {
	return tracing.Select("syntax.grammar")
}
