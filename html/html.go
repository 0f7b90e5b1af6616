/*
Package html spaces the text of HTML documents and fragments.

Tags, attribute names, entities, doctypes, CDATA sections and processing
instructions are copied verbatim. Prose are

  - text between tags,
  - values of attributes which hold human readable text (title, alt,
    placeholder, value, label, aria-label, …),
  - comment bodies, which are processed as HTML fragments themselves.

Embedded languages are delegated to their walkers: the content of script
elements goes to package js (or package json for JSON script types), the
content of style elements to package css. If an embedded walker fails, the
raw content is kept and a warning is traced; the document as a whole does
not fail.

The parser is strict about structure: an unterminated tag, a stray end tag
or an element without end tag is a syntax error. Void elements (br, img,
input, …) and self-closing tags need no end tag. Elements whose end tag
HTML lets authors omit (html, head, body, li, p, option, table rows and
cells, …) are closed implicitly, by a start tag which may not nest in them,
by the end tag of an enclosing element or by the end of the document.

An unquoted value of a prose attribute is quoted if spacing inserts a
space into it:

	<p title=中文abc>   =>   <p title="中文 abc">
*/
package html

import (
	"regexp"
	"strings"

	"github.com/emirpasic/gods/stacks/arraystack"

	paranoid "github.com/kookyleo/paranoid-space"
	"github.com/kookyleo/paranoid-space/css"
	"github.com/kookyleo/paranoid-space/internal/scan"
	"github.com/kookyleo/paranoid-space/js"
	"github.com/kookyleo/paranoid-space/json"
)

// Rules of HTML parse trees.
const (
	RuleDocument    paranoid.Rule = "document"
	RuleElement     paranoid.Rule = "element"
	RuleStartTag    paranoid.Rule = "start-tag"
	RuleEndTag      paranoid.Rule = "end-tag"
	RuleAttribute   paranoid.Rule = "attribute"
	RuleName        paranoid.Rule = "name"
	RuleValue       paranoid.Rule = "value"
	RuleProseValue  paranoid.Rule = "prose-value"
	RuleBareProse   paranoid.Rule = "bare-prose-value"
	RuleMarkup      paranoid.Rule = "markup" // tag delimiters, white space within tags
	RuleQuote       paranoid.Rule = "quote"
	RuleText        paranoid.Rule = "text"
	RuleEntity      paranoid.Rule = "entity"
	RuleComment     paranoid.Rule = "comment"
	RuleCommentBody paranoid.Rule = "comment-body"
	RuleDeclaration paranoid.Rule = "declaration" // doctype, CDATA, processing instructions
	RuleScript      paranoid.Rule = "script"      // JavaScript content of a script element
	RuleJSON        paranoid.Rule = "json"        // JSON content of a script element
	RuleStyle       paranoid.Rule = "style"       // CSS content of a style element
	RuleRawText     paranoid.Rule = "raw-text"    // content of other script types
)

// ProseAttributes lists the attributes whose values are spaced.
var ProseAttributes = map[string]bool{
	"title":                true,
	"alt":                  true,
	"placeholder":          true,
	"value":                true,
	"label":                true,
	"content":              true,
	"summary":              true,
	"aria-label":           true,
	"aria-description":     true,
	"aria-placeholder":     true,
	"aria-roledescription": true,
	"data-title":           true,
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
	"keygen": true, "command": true,
}

// Elements whose end tag may be omitted. They are closed by the end tag
// of an enclosing element or by the end of the document.
var optionalEndTag = map[string]bool{
	"html": true, "head": true, "body": true,
	"li": true, "dt": true, "dd": true, "p": true, "rt": true, "rp": true,
	"option": true, "optgroup": true, "colgroup": true, "caption": true,
	"thead": true, "tbody": true, "tfoot": true, "tr": true, "td": true, "th": true,
}

// closedBy lists the start tags which implicitly close an open element
// with an optional end tag.
var closedBy = map[string]map[string]bool{
	"li":       set("li"),
	"dt":       set("dt", "dd"),
	"dd":       set("dt", "dd"),
	"rt":       set("rt", "rp"),
	"rp":       set("rt", "rp"),
	"option":   set("option", "optgroup"),
	"optgroup": set("optgroup"),
	"colgroup": set("colgroup", "thead", "tbody", "tfoot", "tr"),
	"caption":  set("colgroup", "thead", "tbody", "tfoot", "tr"),
	"thead":    set("tbody", "tfoot"),
	"tbody":    set("tbody", "tfoot"),
	"tr":       set("tr", "tbody", "tfoot"),
	"td":       set("td", "th", "tr", "tbody", "tfoot"),
	"th":       set("td", "th", "tr", "tbody", "tfoot"),
	"p":        closesParagraph,
}

var closesParagraph = set("address", "article", "aside", "blockquote",
	"details", "dialog", "div", "dl", "fieldset", "figcaption", "figure",
	"footer", "form", "h1", "h2", "h3", "h4", "h5", "h6", "header", "hgroup",
	"hr", "main", "menu", "nav", "ol", "p", "pre", "section", "table", "ul")

func set(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, name := range names {
		m[name] = true
	}
	return m
}

var entityPattern = regexp.MustCompile(`^&(#[0-9]{1,7}|#[xX][0-9a-fA-F]{1,6}|[A-Za-z][A-Za-z0-9]{1,31});`)

type element struct {
	name string
	node *paranoid.Node
	pos  int
}

type parser struct {
	c        *scan.Cursor
	open     *arraystack.Stack // of *element, the document at the bottom
	fragment bool
}

func (p *parser) top() *element {
	e, _ := p.open.Peek()
	return e.(*element)
}

// Parse parses an HTML document or fragment into a tree.
func Parse(input string) (*paranoid.Node, error) {
	return parse(input, false)
}

// ParseFragment parses a piece of HTML cut out of a template. Elements may
// be left open and end tags may close elements opened outside the piece.
func ParseFragment(input string) (*paranoid.Node, error) {
	return parse(input, true)
}

func parse(input string, fragment bool) (*paranoid.Node, error) {
	p := &parser{c: scan.New("html", input), open: arraystack.New(), fragment: fragment}
	doc := paranoid.Branch(RuleDocument)
	p.open.Push(&element{node: doc})
	c := p.c
	start := 0
	flush := func() {
		if c.Pos > start {
			p.top().node.Add(paranoid.Leaf(RuleText, input[start:c.Pos]))
		}
	}
	for !c.EOF() {
		var node *paranoid.Node
		var err error
		switch ch := c.Peek(); {
		case ch == '<' && c.HasPrefix("<!--"):
			flush()
			node, err = p.comment()
		case ch == '<' && c.HasPrefix("<![CDATA["):
			flush()
			node, err = p.declaration("]]>")
		case ch == '<' && c.PeekAt(1) == '!':
			flush()
			node, err = p.declaration(">")
		case ch == '<' && c.PeekAt(1) == '?':
			flush()
			node, err = p.declaration("?>")
		case ch == '<' && c.PeekAt(1) == '/' && isAlpha(c.PeekAt(2)):
			flush()
			err = p.endTag()
		case ch == '<' && isAlpha(c.PeekAt(1)):
			flush()
			err = p.element()
		case ch == '&' && entityPattern.MatchString(c.Rest()):
			flush()
			m := entityPattern.FindString(c.Rest())
			c.Skip(len(m))
			node = paranoid.Leaf(RuleEntity, m)
		default:
			c.Skip(1)
			continue
		}
		if err != nil {
			return nil, err
		}
		if node != nil {
			p.top().node.Add(node)
		}
		start = c.Pos
	}
	flush()
	for p.open.Size() > 1 {
		e := p.top()
		if !optionalEndTag[e.name] && !p.fragment {
			return nil, c.Errorf(e.pos, "element <%s> is not closed", e.name)
		}
		p.open.Pop()
	}
	return doc, nil
}

func (p *parser) comment() (*paranoid.Node, error) {
	c := p.c
	from := c.Pos
	c.Skip(4)
	if !c.SkipTo("-->") {
		return nil, c.Errorf(from, "unterminated comment")
	}
	body := c.From(from + 4)
	c.Skip(3)
	return paranoid.Branch(RuleComment,
		paranoid.Leaf(RuleMarkup, "<!--"),
		paranoid.Leaf(RuleCommentBody, body),
		paranoid.Leaf(RuleMarkup, "-->"),
	), nil
}

func (p *parser) declaration(end string) (*paranoid.Node, error) {
	c := p.c
	from := c.Pos
	c.Skip(2)
	if !c.SkipTo(end) {
		return nil, c.Errorf(from, "unterminated declaration")
	}
	c.Skip(len(end))
	return paranoid.Leaf(RuleDeclaration, c.From(from)), nil
}

// element parses a start tag and, for raw text elements, the element's
// content and end tag.
func (p *parser) element() error {
	c := p.c
	from := c.Pos
	tag, name, selfClosing, err := p.startTag()
	if err != nil {
		return err
	}
	for p.open.Size() > 1 && closedBy[p.top().name][name] {
		p.open.Pop()
	}
	elem := paranoid.Branch(RuleElement, tag)
	p.top().node.Add(elem)
	switch {
	case selfClosing || voidElements[name]:
		return nil
	case name == "script" || name == "style":
		return p.rawText(elem, name, contentRule(name, tag))
	}
	p.open.Push(&element{name: name, node: elem, pos: from})
	if p.open.Size() > paranoid.MaxNesting {
		return c.Errorf(from, "nesting deeper than %d levels", paranoid.MaxNesting)
	}
	return nil
}

func (p *parser) startTag() (*paranoid.Node, string, bool, error) {
	c := p.c
	from := c.Pos
	c.Skip(1)
	c.SkipWhile(isNameByte)
	name := strings.ToLower(c.From(from + 1))
	tag := paranoid.Branch(RuleStartTag, paranoid.Leaf(RuleMarkup, c.From(from)))
	for {
		if c.EOF() {
			return nil, "", false, c.Errorf(from, "unterminated tag <%s>", name)
		}
		switch ch := c.Peek(); {
		case scan.IsSpace(ch):
			ws := c.Pos
			c.SkipWhile(scan.IsSpace)
			tag.Add(paranoid.Leaf(RuleMarkup, c.From(ws)))
		case ch == '>':
			c.Skip(1)
			return tag.Add(paranoid.Leaf(RuleMarkup, ">")), name, false, nil
		case ch == '/' && c.PeekAt(1) == '>':
			c.Skip(2)
			return tag.Add(paranoid.Leaf(RuleMarkup, "/>")), name, true, nil
		case ch == '/' || ch == '"' || ch == '\'' || ch == '=':
			c.Skip(1)
			tag.Add(paranoid.Leaf(RuleMarkup, c.From(c.Pos-1)))
		default:
			attr, err := p.attribute()
			if err != nil {
				return nil, "", false, err
			}
			tag.Add(attr)
		}
	}
}

func (p *parser) attribute() (*paranoid.Node, error) {
	c := p.c
	from := c.Pos
	c.SkipWhile(isAttributeNameByte)
	name := c.From(from)
	attr := paranoid.Branch(RuleAttribute, paranoid.Leaf(RuleName, name))
	save := c.Pos
	c.SkipWhile(scan.IsSpace)
	if c.Peek() != '=' {
		c.Pos = save
		return attr, nil
	}
	c.Skip(1)
	c.SkipWhile(scan.IsSpace)
	attr.Add(paranoid.Leaf(RuleMarkup, c.From(save)))
	valueRule := RuleValue
	if ProseAttributes[strings.ToLower(name)] {
		valueRule = RuleProseValue
	}
	switch q := c.Peek(); q {
	case '"', '\'':
		open := c.Pos
		c.Skip(1)
		if !c.SkipTo(string(q)) {
			return nil, c.Errorf(open, "unterminated attribute value")
		}
		attr.Add(
			paranoid.Leaf(RuleQuote, string(q)),
			paranoid.Leaf(valueRule, c.From(open+1)),
			paranoid.Leaf(RuleQuote, string(q)),
		)
		c.Skip(1)
	default:
		v := c.Pos
		c.SkipWhile(func(b byte) bool { return !scan.IsSpace(b) && b != '>' })
		if valueRule == RuleProseValue {
			valueRule = RuleBareProse
		}
		attr.Add(paranoid.Leaf(valueRule, c.From(v)))
	}
	return attr, nil
}

// rawText reads the content of a script or style element up to its end tag.
func (p *parser) rawText(elem *paranoid.Node, name string, rule paranoid.Rule) error {
	c := p.c
	from := c.Pos
	i := strings.Index(strings.ToLower(c.Rest()), "</"+name)
	if i < 0 {
		return c.Errorf(from, "element <%s> is not closed", name)
	}
	c.Skip(i)
	content := c.From(from)
	end := c.Pos
	if !c.SkipTo(">") {
		return c.Errorf(end, "unterminated end tag </%s>", name)
	}
	c.Skip(1)
	elem.Add(paranoid.Leaf(rule, content), paranoid.Leaf(RuleEndTag, c.From(end)))
	return nil
}

func (p *parser) endTag() error {
	c := p.c
	from := c.Pos
	c.Skip(2)
	c.SkipWhile(isNameByte)
	name := strings.ToLower(c.From(from + 2))
	if !c.SkipTo(">") {
		return c.Errorf(from, "unterminated end tag </%s>", name)
	}
	c.Skip(1)
	end := paranoid.Leaf(RuleEndTag, c.From(from))
	// Look for the matching open element. Elements with optional end tags
	// above it are closed implicitly.
	for k, v := range p.open.Values() {
		e := v.(*element)
		if e.name == name && e.node.Rule == RuleElement {
			for j := 0; j < k; j++ {
				p.open.Pop()
			}
			p.open.Pop()
			e.node.Add(end)
			return nil
		}
		if !optionalEndTag[e.name] {
			break
		}
	}
	if optionalEndTag[name] || p.fragment {
		p.top().node.Add(end)
		return nil
	}
	return c.Errorf(from, "unexpected end tag </%s>", name)
}

// contentRule decides how the content of a script or style element is
// processed, depending on its type attribute.
func contentRule(name string, tag *paranoid.Node) paranoid.Rule {
	if name == "style" {
		return RuleStyle
	}
	typ := ""
	for _, attr := range tag.Find(RuleAttribute) {
		if strings.EqualFold(attr.Children[0].Text, "type") && len(attr.Children) > 2 {
			for _, c := range attr.Children[2:] {
				if c.Rule == RuleValue {
					typ = strings.ToLower(strings.TrimSpace(c.Text))
				}
			}
		}
	}
	switch {
	case typ == "", typ == "module", strings.Contains(typ, "javascript"), strings.Contains(typ, "ecmascript"):
		return RuleScript
	case strings.Contains(typ, "json"):
		return RuleJSON
	}
	return RuleRawText
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isNameByte(b byte) bool {
	return isAlpha(b) || (b >= '0' && b <= '9') || b == '-' || b == ':' || b == '_' || b == '.'
}

func isAttributeNameByte(b byte) bool {
	return !scan.IsSpace(b) && b != '=' && b != '>' && b != '/' && b != '"' && b != '\'' && b != '<'
}

// Process spaces an HTML document with the default Spacer.
func Process(input string) (string, error) {
	return ProcessWith(paranoid.Default(), input)
}

// ProcessWith spaces an HTML document with sp.
func ProcessWith(sp *paranoid.Spacer, input string) (string, error) {
	doc, err := Parse(input)
	if err != nil {
		return "", err
	}
	return render(sp, doc, len(input)), nil
}

// ProcessFragmentWith spaces a piece of HTML cut out of a template, see
// ParseFragment.
func ProcessFragmentWith(sp *paranoid.Spacer, input string) (string, error) {
	doc, err := ParseFragment(input)
	if err != nil {
		return "", err
	}
	return render(sp, doc, len(input)), nil
}

func render(sp *paranoid.Spacer, doc *paranoid.Node, size int) string {
	var b strings.Builder
	b.Grow(size + size/8)
	var walk paranoid.Renderer
	walk = func(b *strings.Builder, n *paranoid.Node) {
		switch n.Rule {
		case RuleText, RuleProseValue:
			b.WriteString(sp.Spacing(n.Text))
		case RuleBareProse:
			b.WriteString(quoteIfSpaced(n.Text, sp.Spacing(n.Text)))
		case RuleCommentBody:
			b.WriteString(delegate("comment", n.Text, func(s string) (string, error) {
				return ProcessWith(sp, s)
			}, sp.Spacing))
		case RuleScript:
			b.WriteString(delegate("script", n.Text, func(s string) (string, error) {
				return js.ProcessWith(sp, s)
			}, nil))
		case RuleJSON:
			b.WriteString(delegate("script", n.Text, func(s string) (string, error) {
				return json.ProcessWith(sp, s)
			}, nil))
		case RuleStyle:
			b.WriteString(delegate("style", n.Text, func(s string) (string, error) {
				return css.ProcessWith(sp, s)
			}, nil))
		default:
			paranoid.Render(b, n, walk)
		}
	}
	walk(&b, doc)
	return b.String()
}

// quoteIfSpaced quotes an unquoted attribute value which got spaces, since
// a space would end the value. If the value holds both kinds of quotes, it
// is kept unspaced.
func quoteIfSpaced(value, spaced string) string {
	switch {
	case spaced == value:
		return value
	case !strings.Contains(spaced, `"`):
		return `"` + spaced + `"`
	case !strings.Contains(spaced, "'"):
		return "'" + spaced + "'"
	}
	return value
}

// delegate processes embedded content with another walker. If that fails,
// fallback is applied to the content, or the content is kept as is.
func delegate(what, content string, process func(string) (string, error), fallback func(string) string) string {
	if strings.TrimSpace(content) == "" {
		return content
	}
	out, err := process(content)
	if err == nil {
		return out
	}
	paranoid.CT().Errorf("html: cannot process %s, keeping it: %v", what, err)
	if fallback != nil {
		return fallback(content)
	}
	return content
}
