/*
Package js spaces comments, string literals and template literals of
JavaScript (and TypeScript) sources.

Code is copied verbatim. Prose are the bodies of line and block comments,
the bodies of single- and double-quoted strings, and the text chunks of
template literals. Expressions within templates

	`结果是${value}`

are scanned as code, recursively: strings, nested templates and braces
within an expression do not terminate it.

Regular expression literals are recognized by the token preceding the
slash and copied verbatim, so quotes within a regular expression do not
start a string.
*/
package js

import (
	"strings"

	paranoid "github.com/kookyleo/paranoid-space"
	"github.com/kookyleo/paranoid-space/internal/scan"
)

// Rules of JavaScript parse trees.
const (
	RuleScript       paranoid.Rule = "script"
	RuleCode         paranoid.Rule = "code"
	RuleLineComment  paranoid.Rule = "line-comment"
	RuleBlockComment paranoid.Rule = "block-comment"
	RuleString       paranoid.Rule = "string"
	RuleTemplate     paranoid.Rule = "template"
	RuleExpression   paranoid.Rule = "expression"
	RuleRegexp       paranoid.Rule = "regexp"
	RuleDelimiter    paranoid.Rule = "delimiter"
	RuleQuote        paranoid.Rule = "quote"
	RuleBody         paranoid.Rule = "body"  // comment or string body
	RuleChunk        paranoid.Rule = "chunk" // literal text of a template
)

// Keywords after which a slash starts a regular expression.
var regexpKeywords = map[string]bool{
	"return": true, "typeof": true, "instanceof": true, "in": true, "of": true,
	"new": true, "delete": true, "void": true, "throw": true, "case": true,
	"do": true, "else": true, "yield": true, "await": true,
}

type parser struct {
	c        *scan.Cursor
	lastSig  byte   // last significant byte of code; 'a' for words, '0' for numbers
	lastWord string // last word of code
}

// Parse parses a script into a tree.
func Parse(input string) (*paranoid.Node, error) {
	p := &parser{c: scan.New("js", input)}
	script := paranoid.Branch(RuleScript)
	if p.c.HasPrefix("#!") {
		p.c.SkipWhile(func(b byte) bool { return b != '\n' })
		script.Add(paranoid.Leaf(RuleCode, p.c.From(0)))
	}
	if err := p.code(script, false); err != nil {
		return nil, err
	}
	return script, nil
}

// code scans code into parent. Within a template expression it stops at
// the closing brace, leaving the cursor on it.
func (p *parser) code(parent *paranoid.Node, inExpr bool) error {
	c := p.c
	start, depth := c.Pos, 0
	flush := func() {
		if c.Pos > start {
			parent.Add(paranoid.Leaf(RuleCode, c.Src[start:c.Pos]))
		}
	}
	for !c.EOF() {
		ch := c.Peek()
		switch {
		case ch == '/' && c.PeekAt(1) == '/':
			flush()
			from := c.Pos
			c.SkipWhile(func(b byte) bool { return b != '\n' })
			parent.Add(paranoid.Branch(RuleLineComment,
				paranoid.Leaf(RuleDelimiter, "//"),
				paranoid.Leaf(RuleBody, c.Src[from+2:c.Pos]),
			))
			start = c.Pos
		case ch == '/' && c.PeekAt(1) == '*':
			flush()
			from := c.Pos
			c.Skip(2)
			if !c.SkipTo("*/") {
				return c.Errorf(from, "unterminated comment")
			}
			parent.Add(paranoid.Branch(RuleBlockComment,
				paranoid.Leaf(RuleDelimiter, "/*"),
				paranoid.Leaf(RuleBody, c.Src[from+2:c.Pos]),
				paranoid.Leaf(RuleDelimiter, "*/"),
			))
			c.Skip(2)
			start = c.Pos
		case ch == '/' && p.regexpAllowed():
			if end := p.regexpEnd(); end > 0 {
				flush()
				parent.Add(paranoid.Leaf(RuleRegexp, c.Src[c.Pos:end]))
				c.Pos = end
				start = c.Pos
				p.lastSig, p.lastWord = ')', ""
			} else {
				c.Skip(1)
				p.lastSig, p.lastWord = '/', ""
			}
		case ch == '"' || ch == '\'':
			flush()
			str, err := c.Quoted(RuleString, RuleQuote, RuleBody)
			if err != nil {
				return err
			}
			parent.Add(str)
			start = c.Pos
			p.lastSig, p.lastWord = '"', ""
		case ch == '`':
			flush()
			tpl, err := p.template()
			if err != nil {
				return err
			}
			parent.Add(tpl)
			start = c.Pos
			p.lastSig, p.lastWord = '`', ""
		case inExpr && ch == '{':
			depth++
			c.Skip(1)
			p.lastSig, p.lastWord = '{', ""
		case inExpr && ch == '}':
			if depth == 0 {
				flush()
				return nil
			}
			depth--
			c.Skip(1)
			p.lastSig, p.lastWord = '}', ""
		case scan.IsIdentStart(ch):
			from := c.Pos
			c.SkipWhile(scan.IsIdent)
			p.lastSig, p.lastWord = 'a', c.From(from)
		case ch >= '0' && ch <= '9':
			c.SkipWhile(func(b byte) bool { return b == '.' || scan.IsIdent(b) })
			p.lastSig, p.lastWord = '0', ""
		case scan.IsSpace(ch):
			c.Skip(1)
		default:
			c.Skip(1)
			p.lastSig, p.lastWord = ch, ""
		}
	}
	flush()
	if inExpr {
		return c.Errorf(c.Pos, "unterminated template expression")
	}
	return nil
}

// template scans a template literal, starting at the opening backtick.
func (p *parser) template() (*paranoid.Node, error) {
	c := p.c
	from := c.Pos
	if err := c.Enter(); err != nil {
		return nil, err
	}
	defer c.Leave()
	tpl := paranoid.Branch(RuleTemplate, paranoid.Leaf(RuleQuote, "`"))
	c.Skip(1)
	start := c.Pos
	flush := func() {
		if c.Pos > start {
			tpl.Add(paranoid.Leaf(RuleChunk, c.Src[start:c.Pos]))
		}
	}
	for !c.EOF() {
		switch c.Peek() {
		case '\\':
			c.Skip(2)
		case '`':
			flush()
			c.Skip(1)
			return tpl.Add(paranoid.Leaf(RuleQuote, "`")), nil
		case '$':
			if c.PeekAt(1) != '{' {
				c.Skip(1)
				continue
			}
			flush()
			expr := paranoid.Branch(RuleExpression, paranoid.Leaf(RuleDelimiter, "${"))
			c.Skip(2)
			p.lastSig, p.lastWord = 0, ""
			if err := p.code(expr, true); err != nil {
				return nil, err
			}
			c.Skip(1)
			tpl.Add(expr.Add(paranoid.Leaf(RuleDelimiter, "}")))
			start = c.Pos
		default:
			c.Skip(1)
		}
	}
	return nil, c.Errorf(from, "unterminated template literal")
}

func (p *parser) regexpAllowed() bool {
	switch p.lastSig {
	case 0:
		return true
	case 'a':
		return regexpKeywords[p.lastWord]
	case '0', ')', ']', '}', '"', '`':
		return false
	}
	return true
}

// regexpEnd returns the end offset of a regular expression literal starting
// at the cursor, or -1 if there is none on this line.
func (p *parser) regexpEnd() int {
	src := p.c.Src
	inClass := false
	for i := p.c.Pos + 1; i < len(src); i++ {
		switch src[i] {
		case '\n', '\r':
			return -1
		case '\\':
			i++
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '/':
			if inClass {
				continue
			}
			i++
			for i < len(src) && scan.IsIdent(src[i]) {
				i++
			}
			return i
		}
	}
	return -1
}

// Process spaces a script with the default Spacer.
func Process(input string) (string, error) {
	return ProcessWith(paranoid.Default(), input)
}

// ProcessWith spaces a script with sp.
func ProcessWith(sp *paranoid.Spacer, input string) (string, error) {
	script, err := Parse(input)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.Grow(len(input) + len(input)/8)
	var render paranoid.Renderer
	render = func(b *strings.Builder, n *paranoid.Node) {
		switch n.Rule {
		case RuleBody, RuleChunk:
			b.WriteString(sp.Spacing(n.Text))
		default:
			paranoid.Render(b, n, render)
		}
	}
	render(&b, script)
	return b.String(), nil
}
