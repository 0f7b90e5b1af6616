package json

import (
	"regexp"

	"github.com/kookyleo/paranoid-space/internal/grammar"
	"github.com/kookyleo/paranoid-space/internal/scan"
)

var numberPattern = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

func isNumberByte(b byte) bool {
	return (b >= '0' && b <= '9') || b == '-' || b == '+' || b == '.' || b == 'e' || b == 'E'
}

func isLetter(b byte) bool {
	return b >= 'a' && b <= 'z'
}

func isJSONSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

var punctuation = map[byte]int{
	'{': tokLBrace,
	'}': tokRBrace,
	'[': tokLBracket,
	']': tokRBracket,
	':': tokColon,
	',': tokComma,
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
		switch {
		case isJSONSpace(ch):
			c.SkipWhile(isJSONSpace)
			emit(tokSpace, from)
		case ch == '"':
			if !c.SkipQuoted() {
				return nil, c.Errorf(from, "unterminated string")
			}
			emit(tokString, from)
		case ch == '-' || (ch >= '0' && ch <= '9'):
			c.SkipWhile(isNumberByte)
			if !numberPattern.MatchString(c.From(from)) {
				return nil, c.Errorf(from, "malformed number %q", c.From(from))
			}
			emit(tokNumber, from)
		case isLetter(ch):
			c.SkipWhile(isLetter)
			switch c.From(from) {
			case "true", "false", "null":
				emit(tokLiteral, from)
			default:
				return nil, c.Errorf(from, "unexpected literal %q", c.From(from))
			}
		default:
			return nil, c.Errorf(from, "unexpected character %q", ch)
		}
	}
	return tokens, nil
}
