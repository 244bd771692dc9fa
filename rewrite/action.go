package rewrite

import (
	"fmt"

	"github.com/gnoswap-labs/tuck/token"
)

// ActionKind identifies what an Action does with a matched run.
type ActionKind int

const (
	// Merge collapses the run into one leaf.
	Merge ActionKind = iota + 1
	// Wrap nests the run under one branch.
	Wrap
	// Delete drops the run.
	Delete
)

func (k ActionKind) String() string {
	switch k {
	case Merge:
		return "merge"
	case Wrap:
		return "wrap"
	case Delete:
		return "delete"
	default:
		return "unknown"
	}
}

// Action turns a matched run of tokens into its replacement.
type Action[L any] struct {
	Kind   ActionKind
	Labels L
}

// MergeAs returns an action that collapses a run into a single leaf
// labeled with labels, discarding its inner structure.
func MergeAs[L any](labels L) Action[L] {
	return Action[L]{Kind: Merge, Labels: labels}
}

// WrapAs returns an action that keeps a run as the children of a new
// branch labeled with labels.
func WrapAs[L any](labels L) Action[L] {
	return Action[L]{Kind: Wrap, Labels: labels}
}

// Remove returns an action that deletes a run.
func Remove[L any]() Action[L] {
	return Action[L]{Kind: Delete}
}

// Apply returns the replacement for run. The run slice becomes owned by
// the result when the action wraps it. An empty run always yields an
// empty replacement.
func (a Action[L]) Apply(run []*token.Node[L]) []*token.Node[L] {
	if len(run) == 0 {
		return nil
	}
	switch a.Kind {
	case Merge:
		first, last := run[0], run[len(run)-1]
		return []*token.Node[L]{
			token.Leaf(first.Root, first.Span().Start, last.Span().End, a.Labels),
		}
	case Wrap:
		return []*token.Node[L]{token.Branch(run, a.Labels)}
	case Delete:
		return nil
	}
	panic(fmt.Sprintf("rewrite: unknown action kind %d", a.Kind))
}

func (a Action[L]) String() string {
	if a.Kind == Delete {
		return a.Kind.String()
	}
	return fmt.Sprintf("%s%v", a.Kind, a.Labels)
}
