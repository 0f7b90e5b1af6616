package paranoid

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrSyntax is the error all syntax errors of walkers match with errors.Is.
var ErrSyntax = errors.New("syntax error")

// SyntaxError reports a location in a document where a walker could not
// parse its input. Line and Column are 1-based, Column counts runes.
type SyntaxError struct {
	Format string // name of the walker, e.g. "html"
	Line   int
	Column int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: syntax error at %d:%d: %s", e.Format, e.Line, e.Column, e.Msg)
}

// Is makes errors.Is(err, ErrSyntax) hold for every *SyntaxError.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

// NewSyntaxError creates a syntax error for a byte offset into input.
func NewSyntaxError(format, input string, offset int, msg string, args ...interface{}) *SyntaxError {
	line, col := Position(input, offset)
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &SyntaxError{Format: format, Line: line, Column: col, Msg: msg}
}

// Position converts a byte offset into input to a 1-based line and column.
// Offsets beyond the end of input are clipped.
func Position(input string, offset int) (line, col int) {
	if offset > len(input) {
		offset = len(input)
	}
	if offset < 0 {
		offset = 0
	}
	head := input[:offset]
	line = strings.Count(head, "\n") + 1
	if i := strings.LastIndexByte(head, '\n'); i >= 0 {
		head = head[i+1:]
	}
	return line, utf8.RuneCountInString(head) + 1
}
