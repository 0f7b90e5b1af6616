/*
Package json spaces the string values of JSON documents.

Object keys are identifiers of a data model, not prose, and are copied
verbatim, as are numbers, literals, punctuation and white space:

	{"title": "标题Title", "中文key": 1}   =>   {"title": "标题 Title", "中文key": 1}

The structure of a document is checked against the JSON grammar by an
Earley parser (package gorgo) before anything is spaced. Trailing commas
and unterminated containers are syntax errors.
*/
package json

import (
	"strings"

	"github.com/emirpasic/gods/stacks/arraystack"

	paranoid "github.com/kookyleo/paranoid-space"
	"github.com/kookyleo/paranoid-space/internal/grammar"
	"github.com/kookyleo/paranoid-space/internal/scan"
)

// Rules of JSON parse trees.
const (
	RuleDocument    paranoid.Rule = "document"
	RuleObject      paranoid.Rule = "object"
	RuleArray       paranoid.Rule = "array"
	RuleKey         paranoid.Rule = "key"
	RuleString      paranoid.Rule = "string"
	RuleQuote       paranoid.Rule = "quote"
	RuleBody        paranoid.Rule = "body"
	RuleNumber      paranoid.Rule = "number"
	RuleLiteral     paranoid.Rule = "literal"
	RulePunctuation paranoid.Rule = "punctuation"
	RuleSpace       paranoid.Rule = "space"
)

// Parse parses a JSON document into a tree.
func Parse(input string) (*paranoid.Node, error) {
	c := scan.New("json", input)
	tokens, err := lex(c)
	if err != nil {
		return nil, err
	}
	t := grammar.NewTokenizer(tokens, len(input), func(kind int) bool {
		return kind == tokSpace
	})
	if err := grammar.Check(getParser(), t, c); err != nil {
		return nil, err
	}
	return build(c, tokens)
}

// build arranges the tokens of a valid document into a tree.
func build(c *scan.Cursor, tokens []grammar.Token) (*paranoid.Node, error) {
	doc := paranoid.Branch(RuleDocument)
	open := arraystack.New()
	open.Push(doc)
	top := func() *paranoid.Node {
		n, _ := open.Peek()
		return n.(*paranoid.Node)
	}
	for i, tok := range tokens {
		switch tok.Kind {
		case tokLBrace, tokLBracket:
			rule := RuleObject
			if tok.Kind == tokLBracket {
				rule = RuleArray
			}
			container := paranoid.Branch(rule, paranoid.Leaf(RulePunctuation, tok.Text))
			top().Add(container)
			open.Push(container)
			if open.Size() > paranoid.MaxNesting {
				return nil, c.Errorf(tok.Pos, "nesting deeper than %d levels", paranoid.MaxNesting)
			}
		case tokRBrace, tokRBracket:
			top().Add(paranoid.Leaf(RulePunctuation, tok.Text))
			open.Pop()
		case tokColon, tokComma:
			top().Add(paranoid.Leaf(RulePunctuation, tok.Text))
		case tokString:
			if isKey(tokens, i) {
				top().Add(paranoid.Leaf(RuleKey, tok.Text))
			} else {
				top().Add(quoted(tok.Text))
			}
		case tokNumber:
			top().Add(paranoid.Leaf(RuleNumber, tok.Text))
		case tokLiteral:
			top().Add(paranoid.Leaf(RuleLiteral, tok.Text))
		default:
			top().Add(paranoid.Leaf(RuleSpace, tok.Text))
		}
	}
	return doc, nil
}

// A string is a key if the next significant token is a colon.
func isKey(tokens []grammar.Token, i int) bool {
	for _, tok := range tokens[i+1:] {
		if tok.Kind != tokSpace {
			return tok.Kind == tokColon
		}
	}
	return false
}

func quoted(s string) *paranoid.Node {
	return paranoid.Branch(RuleString,
		paranoid.Leaf(RuleQuote, s[:1]),
		paranoid.Leaf(RuleBody, s[1:len(s)-1]),
		paranoid.Leaf(RuleQuote, s[len(s)-1:]),
	)
}

// Process spaces a JSON document with the default Spacer.
func Process(input string) (string, error) {
	return ProcessWith(paranoid.Default(), input)
}

// ProcessWith spaces a JSON document with sp.
func ProcessWith(sp *paranoid.Spacer, input string) (string, error) {
	doc, err := Parse(input)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.Grow(len(input) + len(input)/8)
	var render paranoid.Renderer
	render = func(b *strings.Builder, n *paranoid.Node) {
		if n.Rule == RuleBody {
			b.WriteString(sp.Spacing(n.Text))
			return
		}
		paranoid.Render(b, n, render)
	}
	render(&b, doc)
	return b.String(), nil
}
