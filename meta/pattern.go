package meta

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gnoswap-labs/tuck/matcher"
)

// PatternKind identifies a deferred pattern expression.
type PatternKind int

const (
	PatLiteral PatternKind = iota + 1
	PatRange
	PatTag
	PatAlt
	PatOptional
	PatRepeat
	PatConcat
	PatRef
)

// Pattern is a pattern expression as written in a grammar. It becomes a
// live matcher only when resolved against the definitions of a Program,
// which lets definitions refer to each other by name in any order.
type Pattern struct {
	Kind PatternKind
	// Text is the literal text, the tag name or the referenced definition.
	Text   string
	Lo, Hi rune
	Subs   []*Pattern
	// Offset is the position of the expression in the grammar source.
	Offset int
}

func (p *Pattern) String() string {
	switch p.Kind {
	case PatLiteral:
		return fmt.Sprintf("raw(%s)", p.Text)
	case PatRange:
		return fmt.Sprintf("%d..%d", p.Lo, p.Hi)
	case PatTag:
		return fmt.Sprintf("has(%s)", p.Text)
	case PatAlt:
		return "choose(" + joinPatterns(p.Subs) + ")"
	case PatOptional:
		return "opt(" + p.Subs[0].String() + ")"
	case PatRepeat:
		return "repeat(" + p.Subs[0].String() + ")"
	case PatConcat:
		return "mult(" + joinPatterns(p.Subs) + ")"
	case PatRef:
		return fmt.Sprintf("ref(%s)", p.Text)
	}
	return "unknown"
}

func joinPatterns(ps []*Pattern) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = p.String()
	}
	return strings.Join(parts, ",")
}

// resolver turns patterns into matchers. Each definition is resolved at
// most once, into a cell that is registered before its body is built, so
// recursive references end at the cell instead of recursing forever.
type resolver struct {
	source string
	defs   map[string]*Pattern
	cells  map[string]*matcher.Cell[Labels]
}

func newResolver(source string, defs map[string]*Pattern) *resolver {
	return &resolver{
		source: source,
		defs:   defs,
		cells:  make(map[string]*matcher.Cell[Labels]),
	}
}

func (r *resolver) resolve(p *Pattern) (*matcher.Matcher[Labels], error) {
	switch p.Kind {
	case PatLiteral:
		return matcher.Literal[Labels](p.Text), nil
	case PatRange:
		return matcher.Range[Labels](p.Lo, p.Hi), nil
	case PatTag:
		return HasTag(p.Text), nil
	case PatOptional, PatRepeat:
		sub, err := r.resolve(p.Subs[0])
		if err != nil {
			return nil, err
		}
		if p.Kind == PatOptional {
			return matcher.Optional(sub), nil
		}
		return matcher.Repeat(sub), nil
	case PatAlt, PatConcat:
		subs := make([]*matcher.Matcher[Labels], 0, len(p.Subs))
		for _, s := range p.Subs {
			m, err := r.resolve(s)
			if err != nil {
				return nil, err
			}
			subs = append(subs, m)
		}
		if p.Kind == PatAlt {
			return matcher.Alt(subs...), nil
		}
		return matcher.Concat(subs...), nil
	case PatRef:
		cell, err := r.cell(p.Text, p.Offset)
		if err != nil {
			return nil, err
		}
		return matcher.Ref(cell), nil
	}
	return nil, newCompileError(r.source, p.Offset, "unknown pattern kind %d", p.Kind)
}

func (r *resolver) cell(name string, offset int) (*matcher.Cell[Labels], error) {
	if c, ok := r.cells[name]; ok {
		return c, nil
	}
	def, ok := r.defs[name]
	if !ok {
		return nil, newCompileError(r.source, offset, "undefined pattern %q", name)
	}
	c := matcher.NewCell[Labels](name)
	r.cells[name] = c
	m, err := r.resolve(def)
	if err != nil {
		return nil, err
	}
	c.Bind(m)
	return c, nil
}

// checkLeftRecursion rejects definitions that can reach themselves without
// consuming a token; matching them would never terminate.
func checkLeftRecursion(source string, defs map[string]*Pattern) error {
	nullable := make(map[string]bool, len(defs))
	for changed := true; changed; {
		changed = false
		for name, p := range defs {
			if !nullable[name] && isNullable(p, nullable) {
				nullable[name] = true
				changed = true
			}
		}
	}

	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(defs))
	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case visiting:
			return newCompileError(source, defs[name].Offset, "left-recursive definition %q", name)
		case done:
			return nil
		}
		state[name] = visiting
		var refs []string
		leftRefs(defs[name], nullable, &refs)
		for _, ref := range refs {
			if _, ok := defs[ref]; !ok {
				continue // reported by the resolver
			}
			if err := visit(ref); err != nil {
				return err
			}
		}
		state[name] = done
		return nil
	}
	for _, name := range names {
		if err := visit(name); err != nil {
			return err
		}
	}
	return nil
}

func isNullable(p *Pattern, nullable map[string]bool) bool {
	switch p.Kind {
	case PatOptional, PatRepeat:
		return true
	case PatAlt:
		for _, s := range p.Subs {
			if isNullable(s, nullable) {
				return true
			}
		}
		return false
	case PatConcat:
		for _, s := range p.Subs {
			if !isNullable(s, nullable) {
				return false
			}
		}
		return true
	case PatRef:
		return nullable[p.Text]
	}
	return false
}

// leftRefs collects the references p may invoke before consuming anything.
func leftRefs(p *Pattern, nullable map[string]bool, out *[]string) {
	switch p.Kind {
	case PatRef:
		*out = append(*out, p.Text)
	case PatOptional, PatRepeat, PatAlt:
		for _, s := range p.Subs {
			leftRefs(s, nullable, out)
		}
	case PatConcat:
		for _, s := range p.Subs {
			leftRefs(s, nullable, out)
			if !isNullable(s, nullable) {
				return
			}
		}
	}
}
