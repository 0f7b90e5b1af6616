/*
Package rust spaces comments and string literals of Rust source files.

Prose are the bodies of line and block comments, string literals, byte
strings and raw strings. Code, char literals, lifetimes and the markers of
raw strings are left alone. Block comments nest.

Doc comments (/// and //! lines, /** and /*! blocks) are Markdown. Their
line prefixes are stripped, the remaining content is processed by package
markdown as a whole, and the result is put back behind the original
prefixes line by line. Code examples in doc comments thus stay untouched.
*/
package rust

import (
	"strings"
	"unicode/utf8"

	"github.com/emirpasic/gods/stacks/arraystack"

	paranoid "github.com/kookyleo/paranoid-space"
	"github.com/kookyleo/paranoid-space/internal/scan"
)

// Rules of Rust parse trees.
const (
	RuleProgram       paranoid.Rule = "program"
	RuleCode          paranoid.Rule = "code"
	RuleLineComment   paranoid.Rule = "line-comment"
	RuleBlockComment  paranoid.Rule = "block-comment"
	RuleOuterLineDoc  paranoid.Rule = "outer-line-doc"  // consecutive /// lines
	RuleInnerLineDoc  paranoid.Rule = "inner-line-doc"  // consecutive //! lines
	RuleOuterBlockDoc paranoid.Rule = "outer-block-doc" // /** … */
	RuleInnerBlockDoc paranoid.Rule = "inner-block-doc" // /*! … */
	RuleDocLine       paranoid.Rule = "doc-line"
	RuleString        paranoid.Rule = "string"
	RuleRawString     paranoid.Rule = "raw-string"
	RuleDelimiter     paranoid.Rule = "delimiter"
	RuleQuote         paranoid.Rule = "quote"
	RuleBody          paranoid.Rule = "body"
)

type parser struct {
	c     *scan.Cursor
	start int // start of pending code
	prog  *paranoid.Node
}

// Parse parses Rust source into a tree.
func Parse(input string) (*paranoid.Node, error) {
	p := &parser{c: scan.New("rust", input), prog: paranoid.Branch(RuleProgram)}
	c := p.c
	for !c.EOF() {
		var node *paranoid.Node
		var err error
		switch ch := c.Peek(); {
		case c.HasPrefix("///") && c.PeekAt(3) != '/':
			node = p.lineDoc("///", RuleOuterLineDoc)
		case c.HasPrefix("//!"):
			node = p.lineDoc("//!", RuleInnerLineDoc)
		case c.HasPrefix("//"):
			p.flush()
			from := c.Pos
			c.SkipWhile(func(b byte) bool { return b != '\n' })
			node = paranoid.Branch(RuleLineComment,
				paranoid.Leaf(RuleDelimiter, "//"),
				paranoid.Leaf(RuleBody, c.Src[from+2:c.Pos]),
			)
		case c.HasPrefix("/*"):
			node, err = p.blockComment()
		case ch == '"':
			p.flush()
			node, err = c.Quoted(RuleString, RuleQuote, RuleBody)
		case ch == '\'':
			p.charOrLifetime()
			continue
		case scan.IsIdentStart(ch) && ch != '$':
			node, err = p.identifier()
			if node == nil && err == nil {
				continue
			}
		default:
			c.Skip(1)
			continue
		}
		if err != nil {
			return nil, err
		}
		p.prog.Add(node)
		p.start = c.Pos
	}
	p.flush()
	return p.prog, nil
}

func (p *parser) flush() {
	if p.c.Pos > p.start {
		p.prog.Add(paranoid.Leaf(RuleCode, p.c.Src[p.start:p.c.Pos]))
	}
	p.start = p.c.Pos
}

// lineDoc collects consecutive doc comment lines of the same kind. Lines
// after the first carry their indentation.
func (p *parser) lineDoc(marker string, rule paranoid.Rule) *paranoid.Node {
	c := p.c
	p.flush()
	doc := paranoid.Branch(rule)
	from := c.Pos
	for {
		c.SkipWhile(func(b byte) bool { return b != '\n' })
		c.Skip(1)
		doc.Add(paranoid.Leaf(RuleDocLine, c.From(from)))
		next := c.Pos
		for next < len(c.Src) && (c.Src[next] == ' ' || c.Src[next] == '\t') {
			next++
		}
		rest := c.Src[next:]
		if c.EOF() || !strings.HasPrefix(rest, marker) || (marker == "///" && strings.HasPrefix(rest, "////")) {
			return doc
		}
		from = c.Pos
	}
}

// blockComment scans a possibly nested block comment. Open comments are
// kept on a stack of their offsets.
func (p *parser) blockComment() (*paranoid.Node, error) {
	c := p.c
	p.flush()
	from := c.Pos
	open := arraystack.New()
	open.Push(from)
	c.Skip(2)
	for open.Size() > 0 {
		switch {
		case c.EOF():
			innermost, _ := open.Peek()
			return nil, c.Errorf(innermost.(int), "unterminated block comment")
		case c.HasPrefix("/*"):
			open.Push(c.Pos)
			if open.Size() > paranoid.MaxNesting {
				return nil, c.Errorf(c.Pos, "nesting deeper than %d levels", paranoid.MaxNesting)
			}
			c.Skip(2)
		case c.HasPrefix("*/"):
			open.Pop()
			c.Skip(2)
		default:
			c.Skip(1)
		}
	}
	text := c.From(from)
	body := text[2 : len(text)-2]
	switch {
	case strings.HasPrefix(text, "/**") && !strings.HasPrefix(text, "/***") && text != "/**/":
		return blockDoc(RuleOuterBlockDoc, "/**", text), nil
	case strings.HasPrefix(text, "/*!"):
		return blockDoc(RuleInnerBlockDoc, "/*!", text), nil
	}
	return paranoid.Branch(RuleBlockComment,
		paranoid.Leaf(RuleDelimiter, "/*"),
		paranoid.Leaf(RuleBody, body),
		paranoid.Leaf(RuleDelimiter, "*/"),
	), nil
}

func blockDoc(rule paranoid.Rule, open, text string) *paranoid.Node {
	doc := paranoid.Branch(rule, paranoid.Leaf(RuleDelimiter, open))
	for _, line := range strings.SplitAfter(text[len(open):len(text)-2], "\n") {
		doc.Add(paranoid.Leaf(RuleDocLine, line))
	}
	return doc.Add(paranoid.Leaf(RuleDelimiter, "*/"))
}

// charOrLifetime skips a char literal or the tick of a lifetime or label.
// Both are code.
func (p *parser) charOrLifetime() {
	c := p.c
	if c.PeekAt(1) == '\\' && c.PeekAt(2) != 0 {
		end := strings.IndexByte(c.Src[c.Pos+3:], '\'')
		if end >= 0 {
			c.Skip(end + 4)
			return
		}
	} else if _, size := utf8.DecodeRuneInString(c.Src[c.Pos+1:]); size > 0 && c.PeekAt(1+size) == '\'' {
		c.Skip(size + 2)
		return
	}
	c.Skip(1)
}

// identifier reads an identifier. Prefixes of byte strings, C strings and raw
// strings start a string literal, for which a node is returned.
func (p *parser) identifier() (*paranoid.Node, error) {
	c := p.c
	from := c.Pos
	c.SkipWhile(scan.IsIdent)
	word := c.From(from)
	switch word {
	case "b", "c":
		if c.Peek() == '"' {
			c.Pos = from
			p.flush()
			c.Skip(1)
			str, err := c.Quoted(RuleString, RuleQuote, RuleBody)
			if err != nil {
				return nil, err
			}
			str.Children[0].Text = word + str.Children[0].Text
			return str, nil
		}
	case "r", "br", "cr":
		if c.Peek() == '"' || c.Peek() == '#' {
			return p.rawString(from)
		}
	}
	return nil, nil
}

// rawString scans r#"…"# with any number of hashes. The cursor is behind the
// r prefix. r#ident is a raw identifier and left as code.
func (p *parser) rawString(from int) (*paranoid.Node, error) {
	c := p.c
	prefixEnd := c.Pos
	c.SkipWhile(func(b byte) bool { return b == '#' })
	hashes := c.Pos - prefixEnd
	if c.Peek() != '"' {
		return nil, nil
	}
	c.Skip(1)
	open := c.From(from)
	bodyStart := c.Pos
	closing := "\"" + strings.Repeat("#", hashes)
	if !c.SkipTo(closing) {
		return nil, c.Errorf(from, "unterminated raw string")
	}
	body := c.From(bodyStart)
	c.Pos = from
	p.flush()
	c.Pos = bodyStart + len(body) + len(closing)
	return paranoid.Branch(RuleRawString,
		paranoid.Leaf(RuleDelimiter, open),
		paranoid.Leaf(RuleBody, body),
		paranoid.Leaf(RuleDelimiter, closing),
	), nil
}

// Process spaces Rust source with the default Spacer.
func Process(input string) (string, error) {
	return ProcessWith(paranoid.Default(), input)
}

// ProcessWith spaces Rust source with sp.
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
		case RuleBody:
			b.WriteString(sp.Spacing(n.Text))
		case RuleOuterLineDoc, RuleInnerLineDoc, RuleOuterBlockDoc, RuleInnerBlockDoc:
			b.WriteString(docComment(sp, n))
		default:
			paranoid.Render(b, n, render)
		}
	}
	render(&b, prog)
	return b.String(), nil
}
