package token

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Node is a single element of a token forest. A node is either a leaf,
// covering the half-open byte range [start, end) of Root, or a branch
// holding an ordered, non-empty list of children.
//
// Nodes are never mutated once built. Rewriting replaces whole runs of
// nodes with freshly constructed ones.
type Node[L any] struct {
	// Root is the original text every node of a run is drawn from.
	Root string
	// Labels is the author-defined classification payload.
	Labels L

	start, end int
	children   []*Node[L]
}

// Span is a half-open byte range into a node's root text.
type Span struct {
	Start int
	End   int
}

// Len returns the width of the span in bytes.
func (s Span) Len() int { return s.End - s.Start }

// Leaf creates a leaf node over root[start:end].
func Leaf[L any](root string, start, end int, labels L) *Node[L] {
	if start < 0 || end > len(root) || start > end {
		panic(fmt.Sprintf("token: leaf span [%d, %d) out of bounds for root of length %d", start, end, len(root)))
	}
	return &Node[L]{Root: root, Labels: labels, start: start, end: end}
}

// Branch creates a branch node owning children. The root text is taken
// from the first child.
func Branch[L any](children []*Node[L], labels L) *Node[L] {
	if len(children) == 0 {
		panic("token: branch must have at least one child")
	}
	return &Node[L]{Root: children[0].Root, Labels: labels, children: children}
}

// FromText segments text into one leaf per character. classify receives
// each rune and its byte offset and returns the labels of that leaf.
func FromText[L any](text string, classify func(r rune, i int) L) []*Node[L] {
	nodes := make([]*Node[L], 0, len(text))
	for i := 0; i < len(text); {
		r, width := utf8.DecodeRuneInString(text[i:])
		nodes = append(nodes, &Node[L]{Root: text, Labels: classify(r, i), start: i, end: i + width})
		i += width
	}
	return nodes
}

// IsLeaf reports whether n is a leaf.
func (n *Node[L]) IsLeaf() bool { return n.children == nil }

// Children returns the children of a branch, or nil for a leaf.
// The returned slice must not be modified.
func (n *Node[L]) Children() []*Node[L] { return n.children }

// Child returns the i-th child, or nil when there is no such child.
func (n *Node[L]) Child(i int) *Node[L] {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Span returns the effective span of the node. For a branch this is the
// start of its first child to the end of its last child.
func (n *Node[L]) Span() Span {
	if n.IsLeaf() {
		return Span{Start: n.start, End: n.end}
	}
	first := n.children[0].Span()
	last := n.children[len(n.children)-1].Span()
	return Span{Start: first.Start, End: last.End}
}

// Content returns the text the node denotes.
func (n *Node[L]) Content() string {
	s := n.Span()
	return n.Root[s.Start:s.End]
}

// Walk visits n and its descendants depth-first, parents before children.
// Returning false from fn skips the node's children.
func (n *Node[L]) Walk(fn func(*Node[L]) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// Graph renders the node as an indented bracket tree: leaves print their
// content, branches print their children between braces.
func (n *Node[L]) Graph() string {
	var sb strings.Builder
	n.graph(0, &sb)
	return sb.String()
}

func (n *Node[L]) graph(depth int, sb *strings.Builder) {
	indent := strings.Repeat("\t", depth)
	if n.IsLeaf() {
		sb.WriteString(indent)
		sb.WriteString(n.Content())
		sb.WriteByte('\n')
		return
	}
	sb.WriteString(indent)
	sb.WriteString("{\n")
	for _, c := range n.children {
		c.graph(depth+1, sb)
	}
	sb.WriteString(indent)
	sb.WriteString("}\n")
}

// GraphForest renders every node of a forest, one graph after another.
func GraphForest[L any](nodes []*Node[L]) string {
	var sb strings.Builder
	for _, n := range nodes {
		sb.WriteString(n.Graph())
	}
	return sb.String()
}

// ForestContent concatenates the content of every node in nodes.
func ForestContent[L any](nodes []*Node[L]) string {
	var sb strings.Builder
	for _, n := range nodes {
		sb.WriteString(n.Content())
	}
	return sb.String()
}
