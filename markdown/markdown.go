/*
Package markdown spaces the prose of Markdown documents.

Markdown is processed line by line, so that every structural character of a
document survives: heading, list and blockquote markers, task boxes, table
pipes and delimiter rows, horizontal rules, emphasis delimiters, link
destinations and HTML tags are copied verbatim. Code spans, fenced and
indented code blocks, front matter and HTML comments are not touched at all.

Prose are the remaining text runs of paragraphs, headings, list items,
blockquotes and table cells, the text of links and the alternative text of
images:

	# Example示例                  =>   # Example 示例
	- item1项                      =>   - item1 项
	![alt替代内容](/img.png)        =>   ![alt 替代内容](/img.png)
	使用`code`命令                  =>   使用`code`命令

Line breaks are never added or removed, so the lines of a processed
document correspond one to one to the lines of the input. Package rust
relies on this for doc comments.
*/
package markdown

import (
	"regexp"
	"strings"

	paranoid "github.com/kookyleo/paranoid-space"
)

// Rules of Markdown parse trees.
const (
	RuleDocument paranoid.Rule = "document"
	RuleLine     paranoid.Rule = "line"
	RuleText     paranoid.Rule = "text"    // prose
	RuleCode     paranoid.Rule = "code"    // code spans and code block lines
	RuleFence    paranoid.Rule = "fence"   // opening and closing code fences
	RuleMarker   paranoid.Rule = "marker"  // block markers, emphasis delimiters, link brackets
	RuleRaw      paranoid.Rule = "raw"     // lines copied as a whole
	RuleLink     paranoid.Rule = "link"    // [text](destination)
	RuleImage    paranoid.Rule = "image"   // ![alt](destination)
	RuleURL      paranoid.Rule = "url"     // link destinations and references
	RuleTag      paranoid.Rule = "tag"     // inline HTML and autolinks
	RuleNewline  paranoid.Rule = "newline" // line terminators
)

var (
	fenceOpen      = regexp.MustCompile("^ {0,3}(`{3,}|~{3,})")
	thematicBreak  = regexp.MustCompile(`^ {0,3}((\*[ \t]*){3,}|(-[ \t]*){3,}|(_[ \t]*){3,})$`)
	setextLine     = regexp.MustCompile(`^ {0,3}=+[ \t]*$`)
	tableDelimiter = regexp.MustCompile(`^[ \t]*\|?[ \t]*:?-+:?[ \t]*(\|[ \t]*:?-+:?[ \t]*)*\|?[ \t]*$`)
	linkDefinition = regexp.MustCompile(`^ {0,3}\[[^\]]+\]:[ \t]*\S`)
	atxHeading     = regexp.MustCompile(`^ {0,3}#{1,6}([ \t]+|$)`)
	blockquote     = regexp.MustCompile(`^ {0,3}>[ \t]?`)
	listItem       = regexp.MustCompile(`^ {0,3}([-+*]|[0-9]{1,9}[.)])([ \t]+|$)`)
	taskBox        = regexp.MustCompile(`^\[[ xX]\]([ \t]+|$)`)
	inlineTag      = regexp.MustCompile(`^<(/?[A-Za-z][A-Za-z0-9-]*([ \t][^<>]*)?/?|[A-Za-z][A-Za-z0-9+.-]*:[^ \t<>]*|[^ \t<>@]+@[^ \t<>]+|!--.*?--)>`)
)

type block int

const (
	paragraph block = iota
	blank
	list
	fenced
	indented
	comment
	frontMatter
)

// Parse parses a Markdown document into a tree of lines. The document may
// start with front matter.
func Parse(input string) (*paranoid.Node, error) {
	return parse(input, true)
}

// ParseSnippet parses Markdown embedded in another document, such as a doc
// comment. A snippet has no front matter, so a leading "---" line is a
// thematic break.
func ParseSnippet(input string) (*paranoid.Node, error) {
	return parse(input, false)
}

func parse(input string, withFrontMatter bool) (*paranoid.Node, error) {
	doc := paranoid.Branch(RuleDocument)
	state, last := paragraph, blank
	fence, listOpen := "", false
	for i, line := range splitLines(input) {
		text, nl := trimNewline(line)
		node := paranoid.Branch(RuleLine)
		switch {
		case withFrontMatter && i == 0 && text == "---" && strings.Contains(input, "\n---"):
			state = frontMatter
			node.Add(paranoid.Leaf(RuleRaw, text))
		case state == frontMatter:
			node.Add(paranoid.Leaf(RuleRaw, text))
			if strings.TrimRight(text, " \t") == "---" || text == "..." {
				state = paragraph
			}
		case state == fenced:
			if closesFence(text, fence) {
				node.Add(paranoid.Leaf(RuleFence, text))
				state = paragraph
			} else {
				node.Add(paranoid.Leaf(RuleCode, text))
			}
		case state == comment:
			node.Add(paranoid.Leaf(RuleRaw, text))
			if strings.Contains(text, "-->") {
				state = paragraph
			}
		case isBlank(text):
			node.Add(paranoid.Leaf(RuleRaw, text))
			if state != indented {
				state = paragraph
			}
			last = blank
		case isIndented(text) && (state == indented || (last == blank && !listOpen)):
			node.Add(paranoid.Leaf(RuleCode, text))
			state, last = indented, indented
		case fenceOpen.MatchString(text) && validFence(text):
			fence = strings.TrimLeft(fenceOpen.FindString(text), " ")
			node.Add(paranoid.Leaf(RuleFence, text))
			state, last = fenced, fenced
			listOpen = listOpen && isIndentedAtAll(text)
		case strings.HasPrefix(strings.TrimLeft(text, " "), "<!--") && !strings.Contains(text, "-->"):
			node.Add(paranoid.Leaf(RuleRaw, text))
			state, last = comment, comment
		default:
			kind, err := blocks(node, text, 0)
			if err != nil {
				return nil, err
			}
			if kind == list {
				listOpen = true
			} else if !isIndentedAtAll(text) {
				listOpen = false
			}
			state, last = paragraph, kind
		}
		if nl != "" {
			node.Add(paranoid.Leaf(RuleNewline, nl))
		}
		doc.Add(node)
	}
	return doc, nil
}

// blocks handles the block structure of a single line, i.e. markers of
// headings, blockquotes and list items, and hands the rest of the line to
// the inline scanner.
func blocks(node *paranoid.Node, text string, depth int) (block, error) {
	if depth > paranoid.MaxNesting {
		return paragraph, paranoid.NewSyntaxError("markdown", text, 0,
			"nesting deeper than %d levels", paranoid.MaxNesting)
	}
	switch {
	case thematicBreak.MatchString(text), setextLine.MatchString(text),
		linkDefinition.MatchString(text):
		node.Add(paranoid.Leaf(RuleRaw, text))
		return paragraph, nil
	case strings.Contains(text, "-") && tableDelimiter.MatchString(text):
		node.Add(paranoid.Leaf(RuleRaw, text))
		return paragraph, nil
	case atxHeading.MatchString(text):
		m := atxHeading.FindString(text)
		node.Add(paranoid.Leaf(RuleMarker, m))
		return paragraph, inline(node, text[len(m):], depth)
	case blockquote.MatchString(text):
		m := blockquote.FindString(text)
		node.Add(paranoid.Leaf(RuleMarker, m))
		return blocks(node, text[len(m):], depth+1)
	case listItem.MatchString(text):
		m := listItem.FindString(text)
		node.Add(paranoid.Leaf(RuleMarker, m))
		rest := text[len(m):]
		if box := taskBox.FindString(rest); box != "" {
			node.Add(paranoid.Leaf(RuleMarker, box))
			rest = rest[len(box):]
		}
		if _, err := blocks(node, rest, depth+1); err != nil {
			return paragraph, err
		}
		return list, nil
	}
	return paragraph, inline(node, text, depth)
}

// inline scans the inline content of a line.
func inline(parent *paranoid.Node, text string, depth int) error {
	if depth > paranoid.MaxNesting {
		return paranoid.NewSyntaxError("markdown", text, 0,
			"nesting deeper than %d levels", paranoid.MaxNesting)
	}
	start, i := 0, 0
	flush := func() {
		if i > start {
			parent.Add(paranoid.Leaf(RuleText, text[start:i]))
		}
	}
	for i < len(text) {
		switch text[i] {
		case '\\':
			i += 2
		case '`':
			n := runLength(text[i:], '`')
			end := closingRun(text, i+n, n)
			if end < 0 {
				i += n
				continue
			}
			flush()
			parent.Add(paranoid.Leaf(RuleCode, text[i:end]))
			i, start = end, end
		case '*', '~':
			n := runLength(text[i:], text[i])
			if text[i] == '~' && n < 2 {
				i++
				continue
			}
			flush()
			parent.Add(paranoid.Leaf(RuleMarker, text[i:i+n]))
			i += n
			start = i
		case '<':
			m := inlineTag.FindString(text[i:])
			if m == "" {
				i++
				continue
			}
			flush()
			parent.Add(paranoid.Leaf(RuleTag, m))
			i += len(m)
			start = i
		case '!', '[':
			open := 1
			if text[i] == '!' {
				if i+1 >= len(text) || text[i+1] != '[' {
					i++
					continue
				}
				open = 2
			}
			label, dest := link(text, i+open)
			if label < 0 {
				i += open
				continue
			}
			flush()
			var node *paranoid.Node
			if open == 2 {
				node = paranoid.Branch(RuleImage,
					paranoid.Leaf(RuleMarker, "!["),
					paranoid.Leaf(RuleText, text[i+2:label]))
			} else {
				node = paranoid.Branch(RuleLink, paranoid.Leaf(RuleMarker, "["))
				if err := inline(node, text[i+1:label], depth+1); err != nil {
					return err
				}
			}
			node.Add(paranoid.Leaf(RuleMarker, "]"), paranoid.Leaf(RuleURL, text[label+1:dest]))
			parent.Add(node)
			i, start = dest, dest
		default:
			i++
		}
	}
	if i > len(text) {
		i = len(text)
	}
	flush()
	return nil
}

// link looks for the closing bracket of a link label starting at from, and
// for a destination "(…)" or reference "[…]" directly after it. Returns the
// offset of the closing bracket and the end of the destination, or -1.
func link(text string, from int) (int, int) {
	label := matching(text, from, '[', ']')
	if label < 0 || label+1 >= len(text) {
		return -1, -1
	}
	switch text[label+1] {
	case '(':
		if end := matching(text, label+2, '(', ')'); end >= 0 {
			return label, end + 1
		}
	case '[':
		if end := matching(text, label+2, '[', ']'); end >= 0 {
			return label, end + 1
		}
	}
	return -1, -1
}

// matching finds the bracket closing an open bracket right before from,
// skipping escapes and code spans.
func matching(text string, from int, open, close byte) int {
	level := 1
	for i := from; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case '`':
			n := runLength(text[i:], '`')
			if end := closingRun(text, i+n, n); end >= 0 {
				i = end - 1
			} else {
				i += n - 1
			}
		case open:
			level++
		case close:
			level--
			if level == 0 {
				return i
			}
		}
	}
	return -1
}

func runLength(s string, b byte) int {
	n := 0
	for n < len(s) && s[n] == b {
		n++
	}
	return n
}

// closingRun finds a run of exactly n backticks at or after from and returns
// the offset behind it, or -1.
func closingRun(text string, from, n int) int {
	for i := from; i < len(text); {
		if text[i] != '`' {
			i++
			continue
		}
		m := runLength(text[i:], '`')
		if m == n {
			return i + m
		}
		i += m
	}
	return -1
}

func validFence(text string) bool {
	marker := strings.TrimLeft(fenceOpen.FindString(text), " ")
	info := text[len(fenceOpen.FindString(text)):]
	return marker[0] != '`' || !strings.Contains(info, "`")
}

func closesFence(text, fence string) bool {
	t := strings.TrimLeft(text, " ")
	if len(text)-len(t) > 3 {
		return false
	}
	n := runLength(t, fence[0])
	return n >= len(fence) && strings.TrimSpace(t[n:]) == ""
}

func isBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}

func isIndented(text string) bool {
	return strings.HasPrefix(text, "    ") || strings.HasPrefix(text, "\t")
}

func isIndentedAtAll(text string) bool {
	return strings.HasPrefix(text, " ") || strings.HasPrefix(text, "\t")
}

// splitLines splits s after every newline.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func trimNewline(line string) (string, string) {
	switch {
	case strings.HasSuffix(line, "\r\n"):
		return line[:len(line)-2], "\r\n"
	case strings.HasSuffix(line, "\n"):
		return line[:len(line)-1], "\n"
	}
	return line, ""
}

// Process spaces a Markdown document with the default Spacer.
func Process(input string) (string, error) {
	return ProcessWith(paranoid.Default(), input)
}

// ProcessWith spaces a Markdown document with sp.
func ProcessWith(sp *paranoid.Spacer, input string) (string, error) {
	doc, err := Parse(input)
	if err != nil {
		return "", err
	}
	return render(sp, doc, len(input)), nil
}

// ProcessSnippetWith spaces a Markdown snippet with sp, see ParseSnippet.
func ProcessSnippetWith(sp *paranoid.Spacer, input string) (string, error) {
	doc, err := ParseSnippet(input)
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
		if n.Rule == RuleText {
			b.WriteString(sp.Spacing(n.Text))
			return
		}
		paranoid.Render(b, n, walk)
	}
	walk(&b, doc)
	return b.String()
}
