/*
Package parser reads grammar files.

A grammar file consists of declarations, a `%%` separator, and productions.
Everything after a second `%%` is ignored.

	%token <int> NUM "number"
	%left '+' '-'
	%left '*' '/'
	%%
	expr : expr '+' expr
	     | expr '*' expr
	     | NUM
	     ;

The parser traces with key 'syntax.parser'.
*/
package parser

import "github.com/npillmayer/schuko/tracing"

func tracer() tracing.Trace {
	return tracing.Select("syntax.parser")
}
