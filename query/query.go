// Package query selects nodes from a labeled forest by label path.
//
// A selector is a sequence of steps separated by "/" (children) or "//"
// (descendants at any depth). A step is "*" or a comma separated list of
// labels, any of which a node must carry:
//
//	expr/number        numbers directly under a top-level expr
//	//call             every call node
//	oper//int,decimal  any int or decimal inside a top-level oper
package query

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/gnoswap-labs/tuck/meta"
)

type Selector struct {
	Deep  bool    `parser:"@Descend?"`
	First *Step   `parser:"@@"`
	Rest  []*Next `parser:"@@*"`
}

type Next struct {
	Deep bool  `parser:"( @Descend | '/' )"`
	Step *Step `parser:"@@"`
}

type Step struct {
	Any    bool     `parser:"  @'*'"`
	Labels []string `parser:"| @Label ( ',' @Label )*"`
}

var (
	selectorLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Descend", Pattern: `//`},
		{Name: "Punct", Pattern: `[/,*]`},
		{Name: "Label", Pattern: `[\p{L}\p{N}_\-]+`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	parser = participle.MustBuild[Selector](
		participle.Lexer(selectorLexer),
		participle.Elide("Whitespace"),
	)
)

// Compile parses a selector.
func Compile(s string) (*Selector, error) {
	sel, err := parser.ParseString("selector", s)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", s, err)
	}
	return sel, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(s string) *Selector {
	sel, err := Compile(s)
	if err != nil {
		panic(err)
	}
	return sel
}

// Select returns the nodes of forest the selector reaches, in document
// order and without duplicates.
func (s *Selector) Select(forest []*meta.Node) []*meta.Node {
	current := s.First.filter(candidates(forest, s.Deep))
	for _, next := range s.Rest {
		var below []*meta.Node
		for _, n := range current {
			below = append(below, candidates(n.Children(), next.Deep)...)
		}
		current = next.Step.filter(dedupe(below))
	}
	return current
}

func (s *Selector) String() string {
	var sb strings.Builder
	if s.Deep {
		sb.WriteString("//")
	}
	sb.WriteString(s.First.String())
	for _, next := range s.Rest {
		if next.Deep {
			sb.WriteString("//")
		} else {
			sb.WriteString("/")
		}
		sb.WriteString(next.Step.String())
	}
	return sb.String()
}

func (s *Step) String() string {
	if s.Any {
		return "*"
	}
	return strings.Join(s.Labels, ",")
}

func (s *Step) matches(n *meta.Node) bool {
	if s.Any {
		return true
	}
	for _, l := range s.Labels {
		if n.Labels.Has(l) {
			return true
		}
	}
	return false
}

func (s *Step) filter(nodes []*meta.Node) []*meta.Node {
	var out []*meta.Node
	for _, n := range nodes {
		if s.matches(n) {
			out = append(out, n)
		}
	}
	return out
}

// candidates returns nodes themselves or, when deep, nodes and all their
// descendants.
func candidates(nodes []*meta.Node, deep bool) []*meta.Node {
	if !deep {
		return nodes
	}
	var out []*meta.Node
	for _, n := range nodes {
		n.Walk(func(d *meta.Node) bool {
			out = append(out, d)
			return true
		})
	}
	return out
}

func dedupe(nodes []*meta.Node) []*meta.Node {
	seen := make(map[*meta.Node]bool, len(nodes))
	out := nodes[:0]
	for _, n := range nodes {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
