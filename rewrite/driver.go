package rewrite

import (
	"slices"

	"github.com/gnoswap-labs/tuck/matcher"
	"github.com/gnoswap-labs/tuck/token"
)

// TestAndTransform tries m at tokens[start:]. On a match the matched run
// is spliced out, replaced with the action's output at the same index,
// and the length of the replacement is returned so callers can skip past
// it.
//
// A match that consumes no tokens leaves the list untouched and is
// reported as no match.
func TestAndTransform[L any](m *matcher.Matcher[L], a Action[L], tokens *[]*token.Node[L], start int) (int, bool) {
	if start > len(*tokens) {
		return 0, false
	}
	n, ok := m.Match((*tokens)[start:])
	if !ok || n == 0 {
		return 0, false
	}
	run := slices.Clone((*tokens)[start : start+n])
	replacement := a.Apply(run)
	*tokens = slices.Replace(*tokens, start, start+n, replacement...)
	return len(replacement), true
}

// ReplaceFirst applies the rule at the leftmost position where m matches
// and reports whether anything changed.
func ReplaceFirst[L any](m *matcher.Matcher[L], a Action[L], tokens *[]*token.Node[L]) bool {
	return replaceFirst(m, a, tokens, nil)
}

// ReplaceAllOnce sweeps the list once from left to right, rewriting every
// match it meets. Tokens produced by a rewrite are skipped over rather
// than re-tested in the same sweep.
func ReplaceAllOnce[L any](m *matcher.Matcher[L], a Action[L], tokens *[]*token.Node[L]) bool {
	return replaceAllOnce(m, a, tokens, nil)
}

type onRewrite[L any] func(at int, replacement []*token.Node[L])

func replaceFirst[L any](m *matcher.Matcher[L], a Action[L], tokens *[]*token.Node[L], hook onRewrite[L]) bool {
	for i := 0; i < len(*tokens); i++ {
		if n, ok := TestAndTransform(m, a, tokens, i); ok {
			if hook != nil {
				hook(i, (*tokens)[i:i+n])
			}
			return true
		}
	}
	return false
}

func replaceAllOnce[L any](m *matcher.Matcher[L], a Action[L], tokens *[]*token.Node[L], hook onRewrite[L]) bool {
	changed := false
	for i := 0; i < len(*tokens); {
		n, ok := TestAndTransform(m, a, tokens, i)
		if !ok {
			i++
			continue
		}
		if hook != nil {
			hook(i, (*tokens)[i:i+n])
		}
		changed = true
		i += n
	}
	return changed
}
