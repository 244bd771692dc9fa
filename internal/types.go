package internal

import "github.com/gnoswap-labs/tuck/meta"

// Result is the forest produced for one input file.
type Result struct {
	Filename string
	Forest   []*meta.Node
}

// JSONNode is the serialized form of a forest node.
type JSONNode struct {
	Labels   []string   `json:"labels"`
	Start    int        `json:"start"`
	End      int        `json:"end"`
	Text     string     `json:"text"`
	Children []JSONNode `json:"children,omitempty"`
}

// ToJSON converts a forest into its serialized form.
func ToJSON(forest []*meta.Node) []JSONNode {
	out := make([]JSONNode, 0, len(forest))
	for _, n := range forest {
		out = append(out, toJSONNode(n))
	}
	return out
}

func toJSONNode(n *meta.Node) JSONNode {
	span := n.Span()
	node := JSONNode{
		Labels: n.Labels,
		Start:  span.Start,
		End:    span.End,
		Text:   n.Content(),
	}
	if !n.IsLeaf() {
		node.Children = ToJSON(n.Children())
	}
	return node
}
