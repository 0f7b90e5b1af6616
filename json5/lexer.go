package json5

import (
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/kookyleo/paranoid-space/internal/grammar"
	"github.com/kookyleo/paranoid-space/internal/scan"
)

var numberPattern = regexp.MustCompile(
	`^[+-]?(Infinity|NaN|0[xX][0-9a-fA-F]+|([0-9]+\.?[0-9]*|\.[0-9]+)([eE][+-]?[0-9]+)?)$`)

var punctuation = map[byte]int{
	'{': tokLBrace,
	'}': tokRBrace,
	'[': tokLBracket,
	']': tokRBracket,
	':': tokColon,
	',': tokComma,
}

var literals = map[string]bool{
	"true": true, "false": true, "null": true, "Infinity": true, "NaN": true,
}

// spaceAt returns the length of a white space rune at the cursor, or 0.
// JSON5 white space includes Unicode space separators and the BOM.
func spaceAt(c *scan.Cursor) int {
	if ch := c.Peek(); ch < utf8.RuneSelf {
		if scan.IsSpace(ch) {
			return 1
		}
		return 0
	}
	r, size := utf8.DecodeRuneInString(c.Rest())
	if r == '\uFEFF' || r == '\u2028' || r == '\u2029' || unicode.Is(unicode.Zs, r) {
		return size
	}
	return 0
}

func isNumberByte(b byte) bool {
	return b == '.' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// lex splits a document into tokens. Every byte of the input belongs to
// exactly one token.
func lex(c *scan.Cursor) ([]grammar.Token, error) {
	var tokens []grammar.Token
	emit := func(kind, from int) {
		tokens = append(tokens, grammar.Token{Kind: kind, Text: c.From(from), Pos: from})
	}
	for !c.EOF() {
		from := c.Pos
		ch := c.Peek()
		if kind, ok := punctuation[ch]; ok {
			c.Skip(1)
			emit(kind, from)
			continue
		}
		if n := spaceAt(c); n > 0 {
			for n > 0 {
				c.Skip(n)
				n = spaceAt(c)
			}
			emit(tokSpace, from)
			continue
		}
		switch {
		case ch == '/' && c.PeekAt(1) == '/':
			c.SkipWhile(func(b byte) bool { return b != '\n' && b != '\r' })
			emit(tokLineComment, from)
		case ch == '/' && c.PeekAt(1) == '*':
			c.Skip(2)
			if !c.SkipTo("*/") {
				return nil, c.Errorf(from, "unterminated comment")
			}
			c.Skip(2)
			emit(tokBlockComment, from)
		case ch == '"' || ch == '\'':
			if !c.SkipQuoted() {
				return nil, c.Errorf(from, "unterminated string")
			}
			emit(tokString, from)
		case ch == '+' || ch == '-' || ch == '.' || (ch >= '0' && ch <= '9'):
			c.Skip(1)
			for !c.EOF() {
				b := c.Peek()
				if isNumberByte(b) {
					c.Skip(1)
				} else if (b == '+' || b == '-') && (c.PeekAt(-1) == 'e' || c.PeekAt(-1) == 'E') && !isHex(c.From(from)) {
					c.Skip(1)
				} else {
					break
				}
			}
			if !numberPattern.MatchString(c.From(from)) {
				return nil, c.Errorf(from, "malformed number %q", c.From(from))
			}
			emit(tokNumber, from)
		case scan.IsIdentStart(ch) || ch == '\\':
			c.SkipWhile(func(b byte) bool { return scan.IsIdent(b) || b == '\\' })
			if literals[c.From(from)] {
				emit(tokLiteral, from)
			} else {
				emit(tokIdentifier, from)
			}
		default:
			return nil, c.Errorf(from, "unexpected character %q", ch)
		}
	}
	return tokens, nil
}

func isHex(s string) bool {
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	return len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}
