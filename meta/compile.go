package meta

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/gnoswap-labs/tuck/rewrite"
)

// Compile turns grammar source into a Program.
//
// The source is first tagged by the bootstrap rules. Every top-level node
// left afterwards must be a declaration: anything else is reported as an
// error at its position. Definitions are gathered before rules are built,
// so a rule may reference a definition that appears later in the source.
func Compile(source string) (*Program, error) {
	c := &compiler{source: source, defs: make(map[string]*Pattern)}

	var rules []*Node
	for _, tok := range Tag(source) {
		switch {
		case tok.Labels.Has(tagDef):
			if err := c.define(tok); err != nil {
				return nil, err
			}
		case tok.Labels.Has(tagRep):
			rules = append(rules, tok)
		default:
			return nil, c.errorf(tok, "unexpected %q", tok.Content())
		}
	}

	if err := checkLeftRecursion(source, c.defs); err != nil {
		return nil, err
	}
	c.res = newResolver(source, c.defs)

	prog := &Program{Definitions: c.defs}
	for _, tok := range rules {
		tree, err := c.rule(tok)
		if err != nil {
			return nil, err
		}
		prog.Rules = append(prog.Rules, tree)
	}

	// unreferenced definitions still have to resolve
	names := make([]string, 0, len(c.defs))
	for name := range c.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := c.res.cell(name, c.defs[name].Offset); err != nil {
			return nil, err
		}
	}
	return prog, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(source string) *Program {
	prog, err := Compile(source)
	if err != nil {
		panic(err)
	}
	return prog
}

type compiler struct {
	source string
	defs   map[string]*Pattern
	res    *resolver
}

func (c *compiler) errorf(tok *Node, format string, args ...any) error {
	return newCompileError(c.source, tok.Span().Start, format, args...)
}

func (c *compiler) child(tok *Node, i int) (*Node, error) {
	if child := tok.Child(i); child != nil {
		return child, nil
	}
	return nil, c.errorf(tok, "malformed %q", tok.Content())
}

// define records `"name" = expr;`.
func (c *compiler) define(tok *Node) error {
	ref, err := c.child(tok, 0)
	if err != nil {
		return err
	}
	name := unquote(ref.Content(), 1)
	if _, dup := c.defs[name]; dup {
		return c.errorf(ref, "pattern %q defined twice", name)
	}
	body, err := c.child(tok, 2)
	if err != nil {
		return err
	}
	p, err := c.pattern(body)
	if err != nil {
		return err
	}
	c.defs[name] = p
	return nil
}

func (c *compiler) rule(tok *Node) (*rewrite.Tree[Labels], error) {
	switch {
	case tok.Labels.Has(tagOnce):
		inner, err := c.child(tok, 1)
		if err != nil {
			return nil, err
		}
		tree, err := c.rule(inner)
		if err != nil {
			return nil, err
		}
		return rewrite.NewOnce(tree), nil

	case tok.Labels.Has(tagRepLeaf):
		return c.leaf(tok)

	case tok.Labels.Has(tagRepBranch):
		children := tok.Children()
		group := rewrite.NewGroup[Labels]()
		for _, child := range children[1 : len(children)-1] {
			tree, err := c.rule(child)
			if err != nil {
				return nil, err
			}
			group.Children = append(group.Children, tree)
		}
		return group, nil
	}
	return nil, c.errorf(tok, "unexpected %q", tok.Content())
}

// leaf builds `expr : tags;`, `expr . tags;` or `expr ~;`.
func (c *compiler) leaf(tok *Node) (*rewrite.Tree[Labels], error) {
	head, err := c.child(tok, 0)
	if err != nil {
		return nil, err
	}
	p, err := c.pattern(head)
	if err != nil {
		return nil, err
	}
	m, err := c.res.resolve(p)
	if err != nil {
		return nil, err
	}

	var action rewrite.Action[Labels]
	if tok.Labels.Has(tagRepRemove) {
		action = rewrite.Remove[Labels]()
	} else {
		// labels sit at every other child after the separator: e : a , b ;
		children := tok.Children()
		var labels Labels
		for i := 2; i < len(children); i += 2 {
			labels = append(labels, children[i].Content())
		}
		if tok.Labels.Has(tagRepDeep) {
			action = rewrite.WrapAs(labels)
		} else {
			action = rewrite.MergeAs(labels)
		}
	}

	tree := rewrite.NewLeaf(m, action)
	tree.Name = strings.Join(strings.Fields(tok.Content()), " ")
	return tree, nil
}

func (c *compiler) pattern(tok *Node) (*Pattern, error) {
	at := tok.Span().Start
	labels := tok.Labels
	switch {
	case labels.Has(tagMult), labels.Has(tagChoose):
		kind := PatConcat
		if labels.Has(tagChoose) {
			kind = PatAlt
		}
		p := &Pattern{Kind: kind, Offset: at}
		children := tok.Children()
		for i := 0; i < len(children); i += 2 {
			sub, err := c.pattern(children[i])
			if err != nil {
				return nil, err
			}
			p.Subs = append(p.Subs, sub)
		}
		return p, nil

	case labels.Has(tagParens):
		inner, err := c.child(tok, 1)
		if err != nil {
			return nil, err
		}
		return c.pattern(inner)

	case labels.Has(tagOpt), labels.Has(tagRepeat), labels.Has(tagOneOrMore):
		inner, err := c.child(tok, 0)
		if err != nil {
			return nil, err
		}
		sub, err := c.pattern(inner)
		if err != nil {
			return nil, err
		}
		switch {
		case labels.Has(tagOpt):
			return &Pattern{Kind: PatOptional, Subs: []*Pattern{sub}, Offset: at}, nil
		case labels.Has(tagRepeat):
			return &Pattern{Kind: PatRepeat, Subs: []*Pattern{sub}, Offset: at}, nil
		}
		rest := &Pattern{Kind: PatRepeat, Subs: []*Pattern{sub}, Offset: at}
		return &Pattern{Kind: PatConcat, Subs: []*Pattern{sub, rest}, Offset: at}, nil

	case labels.Has(tagRaw):
		return &Pattern{Kind: PatLiteral, Text: unquote(tok.Content(), 1), Offset: at}, nil

	case labels.Has(tagQuote):
		p := &Pattern{Kind: PatConcat, Offset: at}
		for _, r := range unquote(tok.Content(), 2) {
			p.Subs = append(p.Subs, &Pattern{Kind: PatLiteral, Text: string(r), Offset: at})
		}
		return p, nil

	case labels.Has(tagRange):
		text := tok.Content()
		lo, _ := utf8.DecodeRuneInString(text)
		hi, _ := utf8.DecodeLastRuneInString(text)
		if lo > hi {
			return nil, c.errorf(tok, "empty range %q", text)
		}
		return &Pattern{Kind: PatRange, Lo: lo, Hi: hi, Offset: at}, nil

	case labels.Has(tagRef):
		return &Pattern{Kind: PatRef, Text: unquote(tok.Content(), 1), Offset: at}, nil

	case labels.Has(tagWord):
		return &Pattern{Kind: PatTag, Text: tok.Content(), Offset: at}, nil
	}
	return nil, c.errorf(tok, "unexpected %q in pattern", tok.Content())
}

// unquote strips n bytes of delimiter from both ends of s.
func unquote(s string, n int) string {
	if len(s) < 2*n {
		return ""
	}
	return s[n : len(s)-n]
}
