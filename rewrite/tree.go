package rewrite

import (
	"strings"

	"github.com/gnoswap-labs/tuck/matcher"
	"github.com/gnoswap-labs/tuck/token"
)

// TreeKind identifies a rule tree node.
type TreeKind int

const (
	// LeafRule pairs a matcher with an action.
	LeafRule TreeKind = iota + 1
	// GroupRule runs its children as a priority fixed point.
	GroupRule
	// OnceRule runs its child in single-pass mode.
	OnceRule
)

// Tree composes rules into a schedule.
//
//   - A leaf performs at most one rewrite per execution, at the leftmost
//     match.
//   - A group executes its children in order and starts over from the first
//     child whenever one of them changes the list, so earlier children always
//     get first refusal. It stops once a full pass changes nothing.
//   - A once node executes its child a single time: a leaf rewrites every
//     match in one sweep, a group runs each child once without restarting,
//     and a nested once falls back to the normal execution of its child.
type Tree[L any] struct {
	Kind TreeKind
	// Name is an optional human readable description used when tracing.
	Name string

	Matcher  *matcher.Matcher[L]
	Action   Action[L]
	Children []*Tree[L]
}

// NewLeaf returns a leaf rule.
func NewLeaf[L any](m *matcher.Matcher[L], a Action[L]) *Tree[L] {
	return &Tree[L]{Kind: LeafRule, Matcher: m, Action: a}
}

// NewGroup returns a group of rules.
func NewGroup[L any](children ...*Tree[L]) *Tree[L] {
	return &Tree[L]{Kind: GroupRule, Children: children}
}

// NewOnce wraps child for single-pass execution.
func NewOnce[L any](child *Tree[L]) *Tree[L] {
	return &Tree[L]{Kind: OnceRule, Children: []*Tree[L]{child}}
}

// TraceFunc observes every rewrite performed while executing a tree. at is
// the index the replacement was spliced in at.
type TraceFunc[L any] func(rule *Tree[L], at int, replacement []*token.Node[L])

// Execute runs t against tokens and reports whether the list changed.
func (t *Tree[L]) Execute(tokens *[]*token.Node[L]) bool {
	return t.execute(tokens, nil)
}

// Trace is Execute with fn called for every rewrite.
func (t *Tree[L]) Trace(tokens *[]*token.Node[L], fn TraceFunc[L]) bool {
	return t.execute(tokens, fn)
}

func (t *Tree[L]) hook(fn TraceFunc[L]) onRewrite[L] {
	if fn == nil {
		return nil
	}
	return func(at int, replacement []*token.Node[L]) {
		fn(t, at, replacement)
	}
}

func (t *Tree[L]) execute(tokens *[]*token.Node[L], fn TraceFunc[L]) bool {
	switch t.Kind {
	case LeafRule:
		return replaceFirst(t.Matcher, t.Action, tokens, t.hook(fn))

	case GroupRule:
		changed := false
		for i := 0; i < len(t.Children); {
			if t.Children[i].execute(tokens, fn) {
				changed = true
				i = 0
				continue
			}
			i++
		}
		return changed

	case OnceRule:
		return t.Children[0].executeOnce(tokens, fn)
	}
	return false
}

func (t *Tree[L]) executeOnce(tokens *[]*token.Node[L], fn TraceFunc[L]) bool {
	switch t.Kind {
	case LeafRule:
		return replaceAllOnce(t.Matcher, t.Action, tokens, t.hook(fn))

	case GroupRule:
		changed := false
		for _, c := range t.Children {
			if c.executeOnce(tokens, fn) {
				changed = true
			}
		}
		return changed

	case OnceRule:
		// once inside once is not transitive: the inner child runs normally
		return t.Children[0].execute(tokens, fn)
	}
	return false
}

// String renders the tree shape. Leaves print their name when set.
func (t *Tree[L]) String() string {
	switch t.Kind {
	case LeafRule:
		if t.Name != "" {
			return t.Name
		}
		return t.Matcher.String() + " -> " + t.Action.String()
	case GroupRule:
		parts := make([]string, len(t.Children))
		for i, c := range t.Children {
			parts[i] = c.String()
		}
		return "{ " + strings.Join(parts, " ") + " }"
	case OnceRule:
		return "%" + t.Children[0].String()
	}
	return "unknown"
}
