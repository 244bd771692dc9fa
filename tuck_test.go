package tuck

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnoswap-labs/tuck/meta"
)

const calcGrammar = `
	## recognize words
	   (e.g. sqrt, abs)
	##
	%a..z | A..Z | '_'. letter;
	%letter+. word;

	## recognize digits and positive integers
	   (integers cannot have leading zeroes. It's
	   mainly to show off that it's possible)
	##
	%1..9. nonzero, digit;
	%0. digit;
	%nonzero & digit*. int, positive, number, expr;
	%'0'. int, positive, number, expr;

	# decimals and negative numbers
	%int & '.' & int+. decimal, positive, number, expr;
	%'-' & positive: negative, number, expr;

	# whitespace
	%ws~;

	## the members of "PEMDAS" you know and love, along with function
	   calls
	##
	{
		'(' & expr & ')': parens, expr;
		word & parens: call, expr;
		expr & '*' | '/' & expr: oper, expr;
		expr & '+' | '-' & expr: oper, expr;
	}
`

// calc evaluates the forest produced by calcGrammar. It expects a single
// top-level expression.
func calc(t *testing.T, text string) (float64, bool) {
	t.Helper()
	forest, err := Parse(calcGrammar, text)
	require.NoError(t, err)
	if len(forest) != 1 {
		return 0, false
	}
	return evalCalc(forest[0])
}

func evalCalc(n *Node) (float64, bool) {
	switch {
	case !n.Labels.Has("expr"):
		return 0, false

	case n.Labels.Has("parens"):
		inner := n.Child(1)
		if inner == nil {
			return 0, false
		}
		return evalCalc(inner)

	case n.Labels.Has("number"):
		v, err := strconv.ParseFloat(n.Content(), 64)
		return v, err == nil

	case n.Labels.Has("oper"):
		lhs, rhs, op := n.Child(0), n.Child(2), n.Child(1)
		if lhs == nil || rhs == nil || op == nil {
			return 0, false
		}
		a, ok := evalCalc(lhs)
		if !ok {
			return 0, false
		}
		b, ok := evalCalc(rhs)
		if !ok {
			return 0, false
		}
		switch op.Content() {
		case "+":
			return a + b, true
		case "-":
			return a - b, true
		case "*":
			return a * b, true
		case "/":
			return a / b, true
		}

	case n.Labels.Has("call"):
		name, arg := n.Child(0), n.Child(1)
		if name == nil || arg == nil {
			return 0, false
		}
		v, ok := evalCalc(arg)
		if !ok {
			return 0, false
		}
		switch name.Content() {
		case "sqrt":
			return math.Sqrt(v), true
		case "abs":
			return math.Abs(v), true
		case "ln":
			return math.Log(v), true
		}
	}
	return 0, false
}

func TestCalculator(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input    string
		expected float64
		ok       bool
	}{
		{input: "1", expected: 1, ok: true},
		{input: "a", ok: false},
		{input: "", ok: false},
		{input: " 101", expected: 101, ok: true},
		{input: "0101", ok: false},
		{input: "1 + 2 * 3 + 1", expected: 8, ok: true},
		{input: "1 + 1 * ((((50))))", expected: 51, ok: true},
		{input: "(1 + 1) * 3", expected: 6, ok: true},
		{input: "10 / 4", expected: 2.5, ok: true},
		{input: "1.5 * 2", expected: 3, ok: true},
		{input: "-3 + 1", expected: -2, ok: true},
		{input: "sqrt(abs(ln(1)))", expected: 0, ok: true},
		{input: "sqrt(abs(ln(1)", ok: false},
		{input: "nope(4)", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, ok := calc(t, tt.input)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.expected, got, 1e-9)
			}
		})
	}
}

func TestParseCompileFailure(t *testing.T) {
	t.Parallel()
	forest, err := Parse(`"undefined": x;`, "abc")
	require.Error(t, err)
	assert.Nil(t, forest)
	assert.True(t, errors.Is(err, meta.ErrCompile))

	_, err = Compile("a: b")
	assert.ErrorIs(t, err, meta.ErrCompile)
}
