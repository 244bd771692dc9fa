package meta

import (
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/gnoswap-labs/tuck/matcher"
	"github.com/gnoswap-labs/tuck/token"
)

// Labels is the label set carried by every node a Program produces.
type Labels []string

// Has reports whether tag is one of l.
func (l Labels) Has(tag string) bool { return slices.Contains(l, tag) }

func (l Labels) String() string { return strings.Join(l, ",") }

// Node is a node of a labeled token forest.
type Node = token.Node[Labels]

// Classify returns the built-in labels of a target-text character: its
// literal text, "u" followed by its decimal code point, and "ws" for
// whitespace and control characters.
func Classify(r rune, _ int) Labels {
	labels := Labels{string(r), "u" + strconv.Itoa(int(r))}
	if unicode.IsSpace(r) || unicode.IsControl(r) {
		labels = append(labels, "ws")
	}
	return labels
}

// Tokens segments text into the initial forest a Program runs on.
func Tokens(text string) []*Node {
	return token.FromText(text, Classify)
}

// HasTag matches one token carrying tag.
func HasTag(tag string) *matcher.Matcher[Labels] {
	return matcher.Tag(tag, func(l Labels) bool { return l.Has(tag) })
}
