package meta

import (
	"sort"
	"strings"

	"github.com/gnoswap-labs/tuck/rewrite"
)

// Tree is a rule tree over Labels.
type Tree = rewrite.Tree[Labels]

// Program is a compiled grammar: its top-level rules in source order and
// the named patterns they may reference.
type Program struct {
	Definitions map[string]*Pattern
	Rules       []*Tree
}

// Execute runs every rule once, in order, against tokens. It reports
// whether any rule changed the list.
func (p *Program) Execute(tokens *[]*Node) bool {
	return p.Trace(tokens, nil)
}

// Trace is Execute with fn called for every rewrite.
func (p *Program) Trace(tokens *[]*Node, fn rewrite.TraceFunc[Labels]) bool {
	changed := false
	for _, rule := range p.Rules {
		if rule.Trace(tokens, fn) {
			changed = true
		}
	}
	return changed
}

// Run segments text and executes the program on it, returning the
// resulting forest.
func (p *Program) Run(text string) []*Node {
	tokens := Tokens(text)
	p.Execute(&tokens)
	return tokens
}

func (p *Program) String() string {
	var sb strings.Builder
	names := make([]string, 0, len(p.Definitions))
	for name := range p.Definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		sb.WriteString(`"` + name + `" = ` + p.Definitions[name].String() + "\n")
	}
	for _, rule := range p.Rules {
		sb.WriteString(rule.String() + "\n")
	}
	return sb.String()
}
