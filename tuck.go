// Package tuck compiles rewrite grammars and applies them to text.
//
// A grammar is a list of declarations. Each declaration pairs a pattern
// with an action that replaces what the pattern matched:
//
//	0..9+: number;       wrap the run in a branch labeled "number"
//	a..z+. word;         merge the run into one leaf labeled "word"
//	ws~;                 delete the run
//	{ rule rule ... }    run the rules as a group until none applies
//	%rule                run the rule in a single pass
//	"name" = pattern;    define a named pattern, referenced as "name"
//
// Target text is split into one node per character before the rules run.
// Each node carries its own text, "u" followed by its code point and, for
// whitespace, "ws".
package tuck

import (
	"github.com/gnoswap-labs/tuck/meta"
)

// Node is a node of the forest a grammar produces.
type Node = meta.Node

// Compile compiles a grammar. The error wraps meta.ErrCompile.
func Compile(grammar string) (*meta.Program, error) {
	return meta.Compile(grammar)
}

// Parse compiles grammar and runs it over text, returning the resulting
// forest.
func Parse(grammar, text string) ([]*Node, error) {
	prog, err := meta.Compile(grammar)
	if err != nil {
		return nil, err
	}
	return prog.Run(text), nil
}
