// Package css spaces comments and string literals of CSS style sheets.
//
// Selectors, properties, values and at-rules are copied verbatim. Only the
// bodies of comments and of quoted strings are prose:
//
//	content: "提示Tip";   =>   content: "提示 Tip";
//
// Escaped newlines within strings (line continuations) are preserved.
package css

import (
	"strings"

	paranoid "github.com/kookyleo/paranoid-space"
	"github.com/kookyleo/paranoid-space/internal/scan"
)

// Rules of CSS parse trees.
const (
	RuleStylesheet paranoid.Rule = "stylesheet"
	RuleComment    paranoid.Rule = "comment"
	RuleString     paranoid.Rule = "string"
	RuleCode       paranoid.Rule = "code"
	RuleDelimiter  paranoid.Rule = "delimiter"
	RuleQuote      paranoid.Rule = "quote"
	RuleBody       paranoid.Rule = "body"
)

// Parse parses a style sheet into a tree of code, comment and string nodes.
func Parse(input string) (*paranoid.Node, error) {
	c := scan.New("css", input)
	sheet := paranoid.Branch(RuleStylesheet)
	start := 0
	flush := func() {
		if c.Pos > start {
			sheet.Add(paranoid.Leaf(RuleCode, input[start:c.Pos]))
		}
	}
	for !c.EOF() {
		switch ch := c.Peek(); {
		case ch == '/' && c.PeekAt(1) == '*':
			flush()
			from := c.Pos
			c.Skip(2)
			if !c.SkipTo("*/") {
				return nil, c.Errorf(from, "unterminated comment")
			}
			sheet.Add(paranoid.Branch(RuleComment,
				paranoid.Leaf(RuleDelimiter, "/*"),
				paranoid.Leaf(RuleBody, input[from+2:c.Pos]),
				paranoid.Leaf(RuleDelimiter, "*/"),
			))
			c.Skip(2)
			start = c.Pos
		case ch == '"' || ch == '\'':
			flush()
			str, err := c.Quoted(RuleString, RuleQuote, RuleBody)
			if err != nil {
				return nil, err
			}
			sheet.Add(str)
			start = c.Pos
		case ch == '\\':
			c.Skip(2) // escaped character within an identifier
		default:
			c.Skip(1)
		}
	}
	flush()
	return sheet, nil
}

// Process spaces a style sheet with the default Spacer.
func Process(input string) (string, error) {
	return ProcessWith(paranoid.Default(), input)
}

// ProcessWith spaces a style sheet with sp.
func ProcessWith(sp *paranoid.Spacer, input string) (string, error) {
	sheet, err := Parse(input)
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
	render(&b, sheet)
	return b.String(), nil
}
