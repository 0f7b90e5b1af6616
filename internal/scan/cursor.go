/*
Package scan provides a byte cursor over a document, shared by the
hand-written parsers of the walker packages.

All delimiters the walkers look for are ASCII, so the cursor moves over
bytes. Multi-byte UTF-8 sequences never contain ASCII bytes and are carried
along unharmed.
*/
package scan

import (
	"strings"

	paranoid "github.com/kookyleo/paranoid-space"
)

// Cursor is a position within a document.
type Cursor struct {
	Format string // walker name, used for error messages
	Src    string
	Pos    int
	depth  int
}

// New creates a cursor at the start of src.
func New(format, src string) *Cursor {
	return &Cursor{Format: format, Src: src}
}

// EOF is true if the cursor is at the end of its document.
func (c *Cursor) EOF() bool {
	return c.Pos >= len(c.Src)
}

// Peek returns the byte at the cursor, or 0 at the end of the document.
func (c *Cursor) Peek() byte {
	return c.PeekAt(0)
}

// PeekAt returns the byte i positions after the cursor, or 0 beyond the end.
func (c *Cursor) PeekAt(i int) byte {
	if c.Pos+i >= len(c.Src) || c.Pos+i < 0 {
		return 0
	}
	return c.Src[c.Pos+i]
}

// HasPrefix is true if the document continues with s at the cursor.
func (c *Cursor) HasPrefix(s string) bool {
	return strings.HasPrefix(c.Src[c.Pos:], s)
}

// HasPrefixFold is like HasPrefix, ignoring ASCII case.
func (c *Cursor) HasPrefixFold(s string) bool {
	rest := c.Src[c.Pos:]
	return len(rest) >= len(s) && strings.EqualFold(rest[:len(s)], s)
}

// Rest returns the unread part of the document.
func (c *Cursor) Rest() string {
	return c.Src[c.Pos:]
}

// From returns the text between offset from and the cursor.
func (c *Cursor) From(from int) string {
	return c.Src[from:c.Pos]
}

// Skip advances the cursor by n bytes.
func (c *Cursor) Skip(n int) {
	c.Pos += n
	if c.Pos > len(c.Src) {
		c.Pos = len(c.Src)
	}
}

// SkipTo advances the cursor to the next occurrence of s and reports whether
// s has been found. If not, the cursor is left at the end of the document.
func (c *Cursor) SkipTo(s string) bool {
	i := strings.Index(c.Src[c.Pos:], s)
	if i < 0 {
		c.Pos = len(c.Src)
		return false
	}
	c.Pos += i
	return true
}

// SkipWhile advances the cursor as long as pred holds for the current byte.
func (c *Cursor) SkipWhile(pred func(byte) bool) {
	for c.Pos < len(c.Src) && pred(c.Src[c.Pos]) {
		c.Pos++
	}
}

// SkipQuoted expects the cursor at an opening quote and moves it behind the
// matching closing quote. A backslash escapes the byte following it,
// including a newline (line continuation). Returns false if the document
// ends before the closing quote.
func (c *Cursor) SkipQuoted() bool {
	quote := c.Src[c.Pos]
	for c.Pos++; c.Pos < len(c.Src); c.Pos++ {
		switch c.Src[c.Pos] {
		case '\\':
			c.Pos++
		case quote:
			c.Pos++
			return true
		}
	}
	c.Pos = len(c.Src)
	return false
}

// Enter increments the nesting depth and returns an error if it exceeds
// paranoid.MaxNesting.
func (c *Cursor) Enter() error {
	c.depth++
	if c.depth > paranoid.MaxNesting {
		return c.Errorf(c.Pos, "nesting deeper than %d levels", paranoid.MaxNesting)
	}
	return nil
}

// Leave decrements the nesting depth.
func (c *Cursor) Leave() {
	c.depth--
}

// Errorf creates a syntax error for a byte offset of the document.
func (c *Cursor) Errorf(offset int, msg string, args ...interface{}) error {
	err := paranoid.NewSyntaxError(c.Format, c.Src, offset, msg, args...)
	paranoid.CT().Debugf("%v", err)
	return err
}

// Quoted scans a quoted string at the cursor and returns it as a container
// of three leaves: opening quote, body and closing quote.
func (c *Cursor) Quoted(rule, quoteRule, bodyRule paranoid.Rule) (*paranoid.Node, error) {
	from := c.Pos
	if !c.SkipQuoted() {
		return nil, c.Errorf(from, "unterminated string")
	}
	q := c.Src[from : from+1]
	return paranoid.Branch(rule,
		paranoid.Leaf(quoteRule, q),
		paranoid.Leaf(bodyRule, c.Src[from+1:c.Pos-1]),
		paranoid.Leaf(quoteRule, q),
	), nil
}

// IsSpace is true for ASCII white space.
func IsSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == '\v'
}

// IsIdentStart is true for bytes which may start an identifier. Bytes of
// multi-byte UTF-8 sequences count as letters.
func IsIdentStart(b byte) bool {
	return b == '_' || b == '$' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b >= 0x80
}

// IsIdent is true for bytes which may continue an identifier.
func IsIdent(b byte) bool {
	return IsIdentStart(b) || (b >= '0' && b <= '9')
}
