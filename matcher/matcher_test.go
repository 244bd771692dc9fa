package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnoswap-labs/tuck/token"
)

type labels = []string

func tokens(text string) []*token.Node[labels] {
	return token.FromText(text, func(r rune, _ int) labels {
		if r >= '0' && r <= '9' {
			return labels{"digit"}
		}
		return labels{}
	})
}

func has(tag string) *Matcher[labels] {
	return Tag(tag, func(l labels) bool {
		for _, t := range l {
			if t == tag {
				return true
			}
		}
		return false
	})
}

func lit(s string) *Matcher[labels] { return Literal[labels](s) }

func TestMatchAll(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		matcher *Matcher[labels]
		input   string
		want    bool
	}{
		{name: "literal match", matcher: lit("a"), input: "a", want: true},
		{name: "literal mismatch", matcher: lit("a"), input: "b", want: false},
		{name: "literal on empty input", matcher: lit("a"), input: "", want: false},
		{name: "literal leaves rest", matcher: lit("a"), input: "aa", want: false},

		{name: "concat exact", matcher: Concat(lit("a"), lit("b")), input: "ab", want: true},
		{name: "concat too short", matcher: Concat(lit("a"), lit("b")), input: "a", want: false},
		{name: "concat reversed", matcher: Concat(lit("a"), lit("b")), input: "ba", want: false},
		{name: "concat extra prefix", matcher: Concat(lit("a"), lit("b")), input: "aab", want: false},
		{name: "empty concat on empty", matcher: Concat[labels](), input: "", want: true},

		{name: "alt first", matcher: Alt(lit("a"), lit("b")), input: "a", want: true},
		{name: "alt second", matcher: Alt(lit("a"), lit("b")), input: "b", want: true},
		{name: "alt none", matcher: Alt(lit("a"), lit("b")), input: "c", want: false},

		{name: "optional present", matcher: Optional(lit("a")), input: "a", want: true},
		{name: "optional absent", matcher: Optional(lit("a")), input: "", want: true},

		{name: "repeat many", matcher: Repeat(lit("a")), input: "aaaa", want: true},
		{name: "repeat none", matcher: Repeat(lit("a")), input: "", want: true},
		{name: "repeat stops on other", matcher: Repeat(lit("a")), input: "aab", want: false},

		{name: "one or more single", matcher: OneOrMore(lit("a")), input: "a", want: true},
		{name: "one or more empty", matcher: OneOrMore(lit("a")), input: "", want: false},

		{name: "tag match", matcher: OneOrMore(has("digit")), input: "123", want: true},
		{name: "tag mismatch", matcher: has("digit"), input: "x", want: false},

		{name: "range inside", matcher: Range[labels]('a', 'z'), input: "q", want: true},
		{name: "range outside", matcher: Range[labels]('a', 'z'), input: "Q", want: false},
		{name: "range multibyte", matcher: Range[labels]('α', 'ω'), input: "λ", want: true},

		{name: "text predicate", matcher: Repeat(Not[labels]("#")), input: "ab c", want: true},
		{name: "any of", matcher: Repeat(AnyOf[labels]("xyz")), input: "zyx", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.matcher.MatchAll(tokens(tt.input)))
		})
	}
}

func TestGreedyRepeatDoesNotBacktrack(t *testing.T) {
	t.Parallel()
	m := Concat(Repeat(lit("a")), lit("a"))
	_, ok := m.Match(tokens("aaa"))
	assert.False(t, ok)
	assert.False(t, m.MatchAll(tokens("aaa")))
}

func TestAlternationIsOrdered(t *testing.T) {
	t.Parallel()
	m := Alt(lit("a"), Concat(lit("a"), lit("b")))
	n, ok := m.Match(tokens("ab"))
	require.True(t, ok)
	assert.Equal(t, 1, n)
}

func TestZeroWidthRepeatTerminates(t *testing.T) {
	t.Parallel()
	m := Repeat(Optional(lit("x")))
	n, ok := m.Match(tokens("aaa"))
	assert.True(t, ok)
	assert.Equal(t, 0, n)
}

func TestMatchIsPure(t *testing.T) {
	t.Parallel()
	ts := tokens("aab")
	before := token.ForestContent(ts)
	m := Concat(Repeat(lit("a")), Optional(lit("b")))

	n1, ok1 := m.Match(ts)
	n2, ok2 := m.Match(ts)

	assert.Equal(t, n1, n2)
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, 3, n1)
	assert.Len(t, ts, 3)
	assert.Equal(t, before, token.ForestContent(ts))
}

func TestRef(t *testing.T) {
	t.Parallel()
	cell := NewCell[labels]("list")
	// list = 'a' & list?
	cell.Bind(Concat(lit("a"), Optional(Ref(cell))))
	m := Ref(cell)

	assert.True(t, cell.Bound())
	assert.True(t, m.MatchAll(tokens("aaaa")))
	assert.False(t, m.MatchAll(tokens("")))
	assert.Equal(t, "ref(list)", m.String())

	unbound := Ref(NewCell[labels]("missing"))
	_, ok := unbound.Match(tokens("a"))
	assert.False(t, ok)
}

func TestString(t *testing.T) {
	t.Parallel()
	m := Concat(Alt(lit("a"), has("digit")), Optional(Repeat(Range[labels](48, 57))))
	assert.Equal(t, "mult(choose(raw(a),has(digit)),opt(repeat(48..57)))", m.String())
	assert.Equal(t, KindConcat, m.Kind())
	assert.Equal(t, "Concat", m.Kind().String())
}
