package meta

import (
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/gnoswap-labs/tuck/matcher"
	"github.com/gnoswap-labs/tuck/rewrite"
	"github.com/gnoswap-labs/tuck/token"
)

// Grammar-role labels attached by the bootstrap tagger.
const (
	tagExpr  = "expr"
	tagRaw   = "raw"
	tagRef   = "ref"
	tagQuote = "quote"
	tagRange = "range"
	tagWord  = "word"

	tagParens    = "parens"
	tagOpt       = "opt"
	tagRepeat    = "repeat"
	tagOneOrMore = "one_or_more"
	tagChoose    = "choose"
	tagMult      = "mult"

	tagRep        = "rep"
	tagRepLeaf    = "rep_leaf"
	tagRepDeep    = "rep_deep"
	tagRepShallow = "rep_shallow"
	tagRepRemove  = "rep_remove"
	tagRepBranch  = "rep_branch"
	tagOnce       = "once"
	tagDef        = "def"
)

type pat = *matcher.Matcher[Labels]

func lit(s string) pat { return matcher.Literal[Labels](s) }

func seq(parts ...pat) pat { return matcher.Concat(parts...) }

func many(sub pat) pat { return matcher.Repeat(sub) }

// singleRune matches one token whose text is exactly one character
// accepted by ok.
func singleRune(desc string, ok func(rune) bool) pat {
	return matcher.Text[Labels](desc, func(s string) bool {
		r, width := utf8.DecodeRuneInString(s)
		return width > 0 && width == len(s) && ok(r)
	})
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-'
}

// quoted matches left, a run of characters on one line that are not
// right, then right.
func quoted(left, right string) pat {
	body := matcher.Text[Labels]("!"+right, func(s string) bool { return s != right && s != "\n" })
	return seq(lit(left), many(body), lit(right))
}

// tagList matches the label list of a declaration: "a, b, c" then end.
func tagList(end string) pat {
	return seq(many(seq(HasTag(tagWord), lit(","))), HasTag(tagWord), lit(end))
}

// infix matches expr op (expr op)* expr.
func infix(op string) pat {
	expr := HasTag(tagExpr)
	return seq(expr, lit(op), many(seq(expr, lit(op))), expr)
}

func once(mt pat, a rewrite.Action[Labels]) *rewrite.Tree[Labels] {
	return rewrite.NewOnce(rewrite.NewLeaf(mt, a))
}

func leaf(mt pat, a rewrite.Action[Labels]) *rewrite.Tree[Labels] {
	return rewrite.NewLeaf(mt, a)
}

func wrap(tags ...string) rewrite.Action[Labels]  { return rewrite.WrapAs(Labels(tags)) }
func merge(tags ...string) rewrite.Action[Labels] { return rewrite.MergeAs(Labels(tags)) }

var (
	bootstrapOnce  sync.Once
	bootstrapRules []*rewrite.Tree[Labels]
)

// bootstrap returns the fixed rule set that tags grammar source. It is
// built from the same matchers and actions grammars compile into, but is
// never itself produced from grammar text.
func bootstrap() []*rewrite.Tree[Labels] {
	bootstrapOnce.Do(func() {
		del := rewrite.Remove[Labels]()
		plain := singleRune("plain", func(r rune) bool { return r != '.' && !unicode.IsSpace(r) })
		expr := HasTag(tagExpr)

		bootstrapRules = []*rewrite.Tree[Labels]{
			// quoted literals and definition names
			once(quoted("'", "'"), merge(tagRaw, tagExpr)),
			once(quoted(`"`, `"`), merge(tagRef, tagExpr)),

			// comments: ## block ## and # to end of line
			once(seq(lit("#"), lit("#"), many(matcher.Not[Labels]("#")), lit("#"), lit("#")), del),
			once(seq(lit("#"), many(matcher.Not[Labels]("\n")), matcher.Optional(lit("\n"))), del),

			// {.verbatim.} blocks and a..z ranges
			once(seq(lit("{"), lit("."), many(matcher.Not[Labels](".")), lit("."), lit("}")), merge(tagQuote, tagExpr)),
			once(seq(plain, lit("."), lit("."), plain), merge(tagRange, tagExpr)),

			once(matcher.OneOrMore(singleRune("word", isWordRune)), merge(tagWord, tagExpr)),
			once(singleRune("space", unicode.IsSpace), del),

			// operator sugar, innermost first
			rewrite.NewGroup(
				leaf(seq(lit("("), expr, lit(")")), wrap(tagParens, tagExpr)),
				leaf(seq(expr, lit("?")), wrap(tagOpt, tagExpr)),
				leaf(seq(expr, lit("*")), wrap(tagRepeat, tagExpr)),
				leaf(seq(expr, lit("+")), wrap(tagOneOrMore, tagExpr)),
				leaf(infix("|"), wrap(tagChoose, tagExpr)),
				leaf(infix("&"), wrap(tagMult, tagExpr)),
			),

			// declarations
			rewrite.NewGroup(
				once(seq(expr, lit(":"), tagList(";")), wrap(tagRepLeaf, tagRepDeep, tagRep)),
				once(seq(expr, lit("."), tagList(";")), wrap(tagRepLeaf, tagRepShallow, tagRep)),
				once(seq(expr, lit("~"), lit(";")), wrap(tagRepLeaf, tagRepRemove, tagRep)),
				once(seq(HasTag(tagRef), lit("="), expr, lit(";")), wrap(tagDef)),
				once(seq(lit("%"), HasTag(tagRep)), wrap(tagOnce, tagRep)),
				once(seq(lit("{"), many(HasTag(tagRep)), lit("}")), wrap(tagRepBranch, tagRep)),
			),
		}
	})
	return bootstrapRules
}

// Tag runs the bootstrap tagger over grammar source and returns the
// tagged forest. A well-formed grammar yields only nodes labeled "rep"
// or "def".
func Tag(source string) []*Node {
	tox := token.FromText(source, func(rune, int) Labels { return nil })
	for _, rule := range bootstrap() {
		rule.Execute(&tox)
	}
	return tox
}
