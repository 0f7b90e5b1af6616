/*
Package grammar connects the hand-written lexers of the walker packages to
gorgo's Earley parser.

Walkers for data formats (JSON, JSON5) lex their input into a slice of
Tokens first. The token slice is then checked against a context-free
grammar, feeding only significant tokens to the parser. If the parser
accepts, the walker builds its tree from the very same tokens, so white
space and comments end up in the tree unchanged.
*/
package grammar

import (
	"github.com/npillmayer/gorgo/lr/earley"
	"github.com/npillmayer/gorgo/lr/scanner"

	"github.com/kookyleo/paranoid-space/internal/scan"
)

// Token is a lexeme of a document.
type Token struct {
	Kind int    // token value as used in the grammar
	Text string // source text
	Pos  int    // byte offset within the document
}

// Tokenizer implements the scanner.Tokenizer interface for a slice of
// tokens.
type Tokenizer struct {
	tokens  []Token
	ignore  func(kind int) bool // tokens not fed to the parser
	next    int                 // next token to read
	end     int                 // length of the document
	last    int                 // offset of the token read last
	handler func(error)
}

// NewTokenizer creates a tokenizer for a document of length end.
// Tokens for which ignore returns true are skipped.
func NewTokenizer(tokens []Token, end int, ignore func(kind int) bool) *Tokenizer {
	if ignore == nil {
		ignore = func(int) bool { return false }
	}
	return &Tokenizer{tokens: tokens, end: end, ignore: ignore}
}

// NextToken is part of interface scanner.Tokenizer.
func (t *Tokenizer) NextToken(expected []int) (int, interface{}, uint64, uint64) {
	for t.next < len(t.tokens) {
		tok := t.tokens[t.next]
		t.next++
		if t.ignore(tok.Kind) {
			continue
		}
		t.last = tok.Pos
		return tok.Kind, tok.Text, uint64(tok.Pos), uint64(len(tok.Text))
	}
	t.last = t.end
	return scanner.EOF, "", uint64(t.end), 0
}

// SetErrorHandler sets an error handler function, which receives an error.
func (t *Tokenizer) SetErrorHandler(h func(error)) {
	t.handler = h
}

// LastPos returns the offset of the token read last. After a failed parse,
// this is the token the parser choked on.
func (t *Tokenizer) LastPos() int {
	return t.last
}

// Check parses the tokens of a document with parser. Returns a syntax error
// located at the offending token if the parser does not accept the input.
func Check(parser *earley.Parser, t *Tokenizer, c *scan.Cursor) error {
	accept, err := parser.Parse(t, nil)
	if err != nil {
		return c.Errorf(t.LastPos(), "%v", err)
	}
	if !accept {
		if t.LastPos() >= t.end {
			return c.Errorf(t.end, "unexpected end of input")
		}
		return c.Errorf(t.LastPos(), "unexpected token")
	}
	return nil
}
