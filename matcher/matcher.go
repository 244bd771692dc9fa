// Package matcher implements the pattern algebra used by rewrite rules.
//
// A Matcher inspects a prefix of a token list and reports how many tokens
// it consumes. Matchers are pure: they never modify the list they inspect
// and always give the same answer for the same input. Composition never
// backtracks across matcher boundaries; ordered choice and greedy
// repetition are resolved locally.
package matcher

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gnoswap-labs/tuck/token"
)

// Kind identifies a matcher variant.
type Kind int

const (
	KindLiteral Kind = iota + 1
	KindTag
	KindText
	KindRange
	KindAlt
	KindOptional
	KindRepeat
	KindConcat
	KindRef
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "Literal"
	case KindTag:
		return "Tag"
	case KindText:
		return "Text"
	case KindRange:
		return "Range"
	case KindAlt:
		return "Alt"
	case KindOptional:
		return "Optional"
	case KindRepeat:
		return "Repeat"
	case KindConcat:
		return "Concat"
	case KindRef:
		return "Ref"
	default:
		return "Unknown"
	}
}

// Matcher is a closed sum over the matcher variants. Only the fields
// relevant to kind are set.
type Matcher[L any] struct {
	kind Kind

	text     string            // Literal
	pred     func(L) bool      // Tag
	textPred func(string) bool // Text
	desc     string            // Tag, Text
	lo, hi   rune              // Range
	subs     []*Matcher[L]
	cell     *Cell[L] // Ref
}

// Cell is a late-bound slot holding a matcher. It lets named patterns
// refer to each other, or to themselves, before they are fully built.
type Cell[L any] struct {
	Name string
	m    *Matcher[L]
}

// NewCell returns an unbound cell.
func NewCell[L any](name string) *Cell[L] {
	return &Cell[L]{Name: name}
}

// Bind sets the matcher the cell delegates to.
func (c *Cell[L]) Bind(m *Matcher[L]) { c.m = m }

// Bound reports whether the cell has been bound.
func (c *Cell[L]) Bound() bool { return c.m != nil }

// Literal matches one token whose content equals text.
func Literal[L any](text string) *Matcher[L] {
	return &Matcher[L]{kind: KindLiteral, text: text}
}

// Tag matches one token whose labels satisfy pred. desc is only used when
// printing the matcher.
func Tag[L any](desc string, pred func(L) bool) *Matcher[L] {
	return &Matcher[L]{kind: KindTag, pred: pred, desc: desc}
}

// Range matches one token whose content is a single rune in [lo, hi].
func Range[L any](lo, hi rune) *Matcher[L] {
	return &Matcher[L]{kind: KindRange, lo: lo, hi: hi}
}

// Alt tries each option in order and returns the first success.
func Alt[L any](options ...*Matcher[L]) *Matcher[L] {
	return &Matcher[L]{kind: KindAlt, subs: options}
}

// Optional matches sub if possible and otherwise consumes nothing.
func Optional[L any](sub *Matcher[L]) *Matcher[L] {
	return &Matcher[L]{kind: KindOptional, subs: []*Matcher[L]{sub}}
}

// Repeat applies sub as many times as it keeps matching.
func Repeat[L any](sub *Matcher[L]) *Matcher[L] {
	return &Matcher[L]{kind: KindRepeat, subs: []*Matcher[L]{sub}}
}

// Concat matches each part in order against the remaining tokens.
func Concat[L any](parts ...*Matcher[L]) *Matcher[L] {
	return &Matcher[L]{kind: KindConcat, subs: parts}
}

// OneOrMore is Concat(sub, Repeat(sub)).
func OneOrMore[L any](sub *Matcher[L]) *Matcher[L] {
	return Concat(sub, Repeat(sub))
}

// Ref delegates to whatever matcher cell is bound to at match time.
func Ref[L any](cell *Cell[L]) *Matcher[L] {
	return &Matcher[L]{kind: KindRef, cell: cell}
}

// AnyOf matches one token whose content is any single character of chars.
func AnyOf[L any](chars string) *Matcher[L] {
	opts := make([]*Matcher[L], 0, utf8.RuneCountInString(chars))
	for _, r := range chars {
		opts = append(opts, Literal[L](string(r)))
	}
	return Alt(opts...)
}

// Text matches one token whose content satisfies pred.
func Text[L any](desc string, pred func(string) bool) *Matcher[L] {
	return &Matcher[L]{kind: KindText, textPred: pred, desc: desc}
}

// Not matches one token whose content differs from text.
func Not[L any](text string) *Matcher[L] {
	return Text[L]("!"+text, func(s string) bool { return s != text })
}

// Kind returns the variant of m.
func (m *Matcher[L]) Kind() Kind { return m.kind }

// Match attempts to match a prefix of tokens. It returns the number of
// tokens consumed, which may be zero, and whether the match succeeded.
func (m *Matcher[L]) Match(tokens []*token.Node[L]) (int, bool) {
	switch m.kind {
	case KindLiteral:
		if len(tokens) == 0 || tokens[0].Content() != m.text {
			return 0, false
		}
		return 1, true

	case KindTag:
		if len(tokens) == 0 || !m.pred(tokens[0].Labels) {
			return 0, false
		}
		return 1, true

	case KindText:
		if len(tokens) == 0 || !m.textPred(tokens[0].Content()) {
			return 0, false
		}
		return 1, true

	case KindRange:
		if len(tokens) == 0 {
			return 0, false
		}
		s := tokens[0].Content()
		r, width := utf8.DecodeRuneInString(s)
		if width == 0 || width != len(s) || r < m.lo || r > m.hi {
			return 0, false
		}
		return 1, true

	case KindAlt:
		for _, opt := range m.subs {
			if n, ok := opt.Match(tokens); ok {
				return n, true
			}
		}
		return 0, false

	case KindOptional:
		if n, ok := m.subs[0].Match(tokens); ok {
			return n, true
		}
		return 0, true

	case KindRepeat:
		total := 0
		for total < len(tokens) {
			n, ok := m.subs[0].Match(tokens[total:])
			// a zero-width success would repeat forever
			if !ok || n == 0 {
				break
			}
			total += n
		}
		return total, true

	case KindConcat:
		total := 0
		for _, part := range m.subs {
			n, ok := part.Match(tokens[total:])
			if !ok {
				return 0, false
			}
			total += n
		}
		return total, true

	case KindRef:
		if m.cell == nil || m.cell.m == nil {
			return 0, false
		}
		return m.cell.m.Match(tokens)
	}
	return 0, false
}

// MatchAll reports whether m consumes exactly the whole token list.
func (m *Matcher[L]) MatchAll(tokens []*token.Node[L]) bool {
	n, ok := m.Match(tokens)
	return ok && n == len(tokens)
}

// String renders m in a compact functional notation.
func (m *Matcher[L]) String() string {
	switch m.kind {
	case KindLiteral:
		return fmt.Sprintf("raw(%s)", m.text)
	case KindTag:
		return fmt.Sprintf("has(%s)", m.desc)
	case KindText:
		return fmt.Sprintf("text(%s)", m.desc)
	case KindRange:
		return fmt.Sprintf("%d..%d", m.lo, m.hi)
	case KindAlt:
		return "choose(" + joinSubs(m.subs) + ")"
	case KindOptional:
		return "opt(" + m.subs[0].String() + ")"
	case KindRepeat:
		return "repeat(" + m.subs[0].String() + ")"
	case KindConcat:
		return "mult(" + joinSubs(m.subs) + ")"
	case KindRef:
		if m.cell == nil {
			return "ref()"
		}
		return fmt.Sprintf("ref(%s)", m.cell.Name)
	}
	return "unknown"
}

func joinSubs[L any](subs []*Matcher[L]) string {
	parts := make([]string, len(subs))
	for i, s := range subs {
		parts[i] = s.String()
	}
	return strings.Join(parts, ",")
}
