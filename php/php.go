/*
Package php spaces PHP templates.

A PHP file alternates between HTML chunks and PHP chunks enclosed in
<?php … ?>, <?= … ?> or <? … ?>. The closing tag of the last chunk may be
missing. HTML chunks are processed by package html in fragment mode, since
elements are often opened in one chunk and closed in another.

Within PHP chunks, prose are

  - bodies of //, # and block comments,
  - single-quoted strings and nowdocs,
  - literal parts of double-quoted strings and heredocs.

Interpolations ($name, $a->b, $a[…], {$…}, ${…}) and heredoc labels are
kept as they are. String literals frequently carry markup, so their prose
is processed as an HTML fragment, falling back to plain spacing if it does
not parse.
*/
package php

import (
	"strings"

	paranoid "github.com/kookyleo/paranoid-space"
	"github.com/kookyleo/paranoid-space/html"
	"github.com/kookyleo/paranoid-space/internal/scan"
)

// Rules of PHP parse trees.
const (
	RuleProgram       paranoid.Rule = "program"
	RuleHTML          paranoid.Rule = "html"
	RuleChunk         paranoid.Rule = "php"
	RuleTag           paranoid.Rule = "tag"
	RuleCode          paranoid.Rule = "code"
	RuleComment       paranoid.Rule = "comment"
	RuleString        paranoid.Rule = "string"
	RuleHeredoc       paranoid.Rule = "heredoc"
	RuleDelimiter     paranoid.Rule = "delimiter"
	RuleBody          paranoid.Rule = "body"
	RuleLiteral       paranoid.Rule = "literal"
	RuleInterpolation paranoid.Rule = "interpolation"
)

type parser struct {
	c *scan.Cursor
}

// Parse parses a PHP file into a tree.
func Parse(input string) (*paranoid.Node, error) {
	p := &parser{c: scan.New("php", input)}
	c := p.c
	prog := paranoid.Branch(RuleProgram)
	for !c.EOF() {
		from := c.Pos
		for !c.EOF() && openTag(c.Rest()) == "" {
			c.Skip(1)
		}
		if c.Pos > from {
			prog.Add(paranoid.Leaf(RuleHTML, c.From(from)))
		}
		if c.EOF() {
			break
		}
		chunk, err := p.chunk()
		if err != nil {
			return nil, err
		}
		prog.Add(chunk)
	}
	return prog, nil
}

// openTag returns the PHP open tag at the start of s, if any.
func openTag(s string) string {
	switch {
	case !strings.HasPrefix(s, "<?"):
		return ""
	case len(s) >= 5 && strings.EqualFold(s[:5], "<?php") && (len(s) == 5 || scan.IsSpace(s[5])):
		return s[:5]
	case strings.HasPrefix(s, "<?="):
		return "<?="
	case len(s) == 2 || scan.IsSpace(s[2]):
		return "<?"
	}
	return ""
}

// chunk parses PHP code from an open tag up to and including the close tag.
func (p *parser) chunk() (*paranoid.Node, error) {
	c := p.c
	tag := openTag(c.Rest())
	c.Skip(len(tag))
	chunk := paranoid.Branch(RuleChunk, paranoid.Leaf(RuleTag, tag))
	start := c.Pos
	flush := func() {
		if c.Pos > start {
			chunk.Add(paranoid.Leaf(RuleCode, c.Src[start:c.Pos]))
		}
	}
	for !c.EOF() {
		var node *paranoid.Node
		var err error
		switch ch := c.Peek(); {
		case c.HasPrefix("?>"):
			flush()
			c.Skip(2)
			return chunk.Add(paranoid.Leaf(RuleTag, "?>")), nil
		case c.HasPrefix("//"):
			flush()
			node = p.lineComment("//")
		case ch == '#' && c.PeekAt(1) != '[':
			flush()
			node = p.lineComment("#")
		case c.HasPrefix("/*"):
			flush()
			node, err = p.blockComment()
		case ch == '\'':
			flush()
			node, err = c.Quoted(RuleString, RuleDelimiter, RuleLiteral)
		case ch == '"':
			flush()
			node, err = p.doubleQuoted()
		case c.HasPrefix("<<<"):
			flush()
			node, err = p.heredoc()
		default:
			c.Skip(1)
			continue
		}
		if err != nil {
			return nil, err
		}
		chunk.Add(node)
		start = c.Pos
	}
	flush()
	return chunk, nil
}

// lineComment ends at a newline or a close tag, whichever comes first.
func (p *parser) lineComment(delim string) *paranoid.Node {
	c := p.c
	c.Skip(len(delim))
	from := c.Pos
	for !c.EOF() && c.Peek() != '\n' && !c.HasPrefix("?>") {
		c.Skip(1)
	}
	return paranoid.Branch(RuleComment,
		paranoid.Leaf(RuleDelimiter, delim),
		paranoid.Leaf(RuleBody, c.From(from)),
	)
}

func (p *parser) blockComment() (*paranoid.Node, error) {
	c := p.c
	from := c.Pos
	c.Skip(2)
	if !c.SkipTo("*/") {
		return nil, c.Errorf(from, "unterminated comment")
	}
	body := c.From(from + 2)
	c.Skip(2)
	return paranoid.Branch(RuleComment,
		paranoid.Leaf(RuleDelimiter, "/*"),
		paranoid.Leaf(RuleBody, body),
		paranoid.Leaf(RuleDelimiter, "*/"),
	), nil
}

func (p *parser) doubleQuoted() (*paranoid.Node, error) {
	c := p.c
	from := c.Pos
	c.Skip(1)
	str := paranoid.Branch(RuleString, paranoid.Leaf(RuleDelimiter, `"`))
	if err := p.interpolated(str, len(c.Src), '"'); err != nil {
		return nil, err
	}
	if c.EOF() {
		return nil, c.Errorf(from, "unterminated string")
	}
	c.Skip(1)
	return str.Add(paranoid.Leaf(RuleDelimiter, `"`)), nil
}

// heredoc parses <<<LABEL, <<<"LABEL" and <<<'LABEL' (nowdoc). The closing
// label may be indented.
func (p *parser) heredoc() (*paranoid.Node, error) {
	c := p.c
	from := c.Pos
	c.Skip(3)
	c.SkipWhile(func(b byte) bool { return b == ' ' || b == '\t' })
	quote := c.Peek()
	if quote == '\'' || quote == '"' {
		c.Skip(1)
	} else {
		quote = 0
	}
	labelStart := c.Pos
	c.SkipWhile(scan.IsIdent)
	label := c.From(labelStart)
	if label == "" {
		return nil, c.Errorf(from, "missing heredoc label")
	}
	if quote != 0 {
		if c.Peek() != quote {
			return nil, c.Errorf(from, "malformed heredoc label")
		}
		c.Skip(1)
	}
	if c.Peek() == '\r' {
		c.Skip(1)
	}
	if c.Peek() != '\n' {
		return nil, c.Errorf(from, "heredoc label must end its line")
	}
	c.Skip(1)
	doc := paranoid.Branch(RuleHeredoc, paranoid.Leaf(RuleDelimiter, c.From(from)))
	bodyStart := c.Pos
	end, closing := findClosingLabel(c.Src, bodyStart, label)
	if end < 0 {
		return nil, c.Errorf(from, "unterminated heredoc %s", label)
	}
	if quote == '\'' {
		c.Pos = end
		doc.Add(paranoid.Leaf(RuleLiteral, c.From(bodyStart)))
	} else if err := p.interpolated(doc, end, 0); err != nil {
		return nil, err
	}
	if c.Pos > end {
		return nil, c.Errorf(from, "interpolation runs past the end of heredoc %s", label)
	}
	c.Pos = end + len(closing)
	return doc.Add(paranoid.Leaf(RuleDelimiter, closing)), nil
}

// findClosingLabel finds the line closing a heredoc started at offset from.
// It returns the end of the body and the closing text, which starts with
// the newline ending the last body line.
func findClosingLabel(src string, from int, label string) (int, string) {
	isClosing := func(line int) (string, bool) {
		i := line
		for i < len(src) && (src[i] == ' ' || src[i] == '\t') {
			i++
		}
		if !strings.HasPrefix(src[i:], label) {
			return "", false
		}
		after := i + len(label)
		if after < len(src) && scan.IsIdent(src[after]) {
			return "", false
		}
		return src[line:after], true
	}
	if closing, ok := isClosing(from); ok {
		return from, closing
	}
	for i := from; i < len(src); i++ {
		if src[i] != '\n' {
			continue
		}
		if closing, ok := isClosing(i + 1); ok {
			end := i
			if end > from && src[end-1] == '\r' {
				end--
			}
			return end, src[end:i+1] + closing
		}
	}
	return -1, ""
}

// interpolated scans the content of a double-quoted string or heredoc up to
// offset end or an unescaped quote, splitting it into literal parts and
// interpolations. A quote of 0 does not end the content.
func (p *parser) interpolated(parent *paranoid.Node, end int, quote byte) error {
	c := p.c
	start := c.Pos
	flush := func() {
		if c.Pos > start {
			parent.Add(paranoid.Leaf(RuleLiteral, c.Src[start:c.Pos]))
		}
	}
	for c.Pos < end && (quote == 0 || c.Peek() != quote) {
		switch ch := c.Peek(); {
		case ch == '\\':
			c.Skip(2)
			if c.Pos > end {
				c.Pos = end
			}
			continue
		case ch == '$' && isVarStart(c.PeekAt(1)):
			flush()
			from := c.Pos
			p.simpleVariable()
			parent.Add(paranoid.Leaf(RuleInterpolation, c.From(from)))
		case ch == '$' && c.PeekAt(1) == '{', ch == '{' && c.PeekAt(1) == '$':
			flush()
			from := c.Pos
			if err := p.braced(); err != nil {
				return err
			}
			parent.Add(paranoid.Leaf(RuleInterpolation, c.From(from)))
		default:
			c.Skip(1)
			continue
		}
		start = c.Pos
	}
	flush()
	return nil
}

// simpleVariable skips $name, optionally followed by one [index] or
// ->property.
func (p *parser) simpleVariable() {
	c := p.c
	c.Skip(1)
	c.SkipWhile(scan.IsIdent)
	switch {
	case c.Peek() == '[':
		if i := strings.IndexAny(c.Rest(), "]\"\n"); i > 0 && c.Rest()[i] == ']' {
			c.Skip(i + 1)
		}
	case c.HasPrefix("->") && isVarStart(c.PeekAt(2)):
		c.Skip(2)
		c.SkipWhile(scan.IsIdent)
	}
}

// braced skips {$…} or ${…} including nested braces and quoted strings.
func (p *parser) braced() error {
	c := p.c
	from := c.Pos
	if c.Peek() == '$' {
		c.Skip(1)
	}
	depth := 0
	for !c.EOF() {
		switch c.Peek() {
		case '{':
			depth++
			if depth > paranoid.MaxNesting {
				return c.Errorf(c.Pos, "nesting deeper than %d levels", paranoid.MaxNesting)
			}
		case '}':
			depth--
			if depth == 0 {
				c.Skip(1)
				return nil
			}
		case '\'', '"':
			if !c.SkipQuoted() {
				return c.Errorf(from, "unterminated interpolation")
			}
			continue
		}
		c.Skip(1)
	}
	return c.Errorf(from, "unterminated interpolation")
}

func isVarStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b >= 0x80
}

// Process spaces a PHP file with the default Spacer.
func Process(input string) (string, error) {
	return ProcessWith(paranoid.Default(), input)
}

// ProcessWith spaces a PHP file with sp.
func ProcessWith(sp *paranoid.Spacer, input string) (string, error) {
	prog, err := Parse(input)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.Grow(len(input) + len(input)/8)
	var render paranoid.Renderer
	render = func(b *strings.Builder, n *paranoid.Node) {
		switch n.Rule {
		case RuleHTML:
			b.WriteString(fragment(sp, n.Text, false))
		case RuleLiteral:
			b.WriteString(fragment(sp, n.Text, true))
		case RuleBody:
			b.WriteString(sp.Spacing(n.Text))
		default:
			paranoid.Render(b, n, render)
		}
	}
	render(&b, prog)
	return b.String(), nil
}

// fragment processes HTML. If it does not parse, it is spaced as plain text
// or kept as it is.
func fragment(sp *paranoid.Spacer, text string, spaceOnFailure bool) string {
	out, err := html.ProcessFragmentWith(sp, text)
	if err == nil {
		return out
	}
	if spaceOnFailure {
		return sp.Spacing(text)
	}
	paranoid.CT().Errorf("php: cannot process HTML chunk, keeping it: %v", err)
	return text
}
