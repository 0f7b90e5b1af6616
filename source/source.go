/*
Package source spaces comments and string literals of source files in any
language known to the Chroma lexers.

Comment and string tokens are prose. Preprocessor directives, hashbangs,
interpolations, escapes, regular expressions, char literals and symbols are
not. Leading and trailing ASCII punctuation of a prose token (comment
markers, quotes) is excluded from spacing.
*/
package source

import (
	"errors"
	"strings"
	"unicode"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"

	paranoid "github.com/kookyleo/paranoid-space"
)

// Rules of source parse trees.
const (
	RuleSource  paranoid.Rule = "source"
	RuleCode    paranoid.Rule = "code"
	RuleComment paranoid.Rule = "comment"
	RuleString  paranoid.Rule = "string"
)

// ErrUnknownLanguage is returned if no lexer can be found for a language.
var ErrUnknownLanguage = errors.New("unknown language")

var proseTokens = map[chroma.TokenType]paranoid.Rule{
	chroma.Comment:              RuleComment,
	chroma.CommentSingle:        RuleComment,
	chroma.CommentMultiline:     RuleComment,
	chroma.CommentSpecial:       RuleComment,
	chroma.LiteralString:        RuleString,
	chroma.LiteralStringDouble:  RuleString,
	chroma.LiteralStringSingle:  RuleString,
	chroma.LiteralStringDoc:     RuleString,
	chroma.LiteralStringHeredoc: RuleString,
}

// Lexer finds the lexer for a language name, alias or file name. If name is
// empty or unknown, the lexer is guessed from the text.
func Lexer(name, text string) chroma.Lexer {
	if name != "" {
		if l := lexers.Get(name); l != nil {
			return l
		}
		if l := lexers.Match(name); l != nil {
			return l
		}
	}
	if text != "" {
		return lexers.Analyse(text)
	}
	return nil
}

// Parse tokenises text with the lexer for lang.
func Parse(lang, text string) (*paranoid.Node, error) {
	lexer := Lexer(lang, text)
	if lexer == nil {
		return nil, ErrUnknownLanguage
	}
	format := strings.ToLower(lexer.Config().Name)
	tokens, err := chroma.Tokenise(chroma.Coalesce(lexer), nil, text)
	if err != nil {
		return nil, paranoid.NewSyntaxError(format, text, 0, "%v", err)
	}
	tokens = trimEnsuredNewline(tokens, text)
	src := paranoid.Branch(RuleSource)
	var last *paranoid.Node
	length := 0
	for _, tok := range tokens {
		if tok.Type == chroma.EOFType || tok.Value == "" {
			continue
		}
		length += len(tok.Value)
		rule, ok := proseTokens[tok.Type]
		if !ok {
			rule = RuleCode
		}
		if last != nil && last.Rule == rule {
			last.Text += tok.Value
			continue
		}
		last = paranoid.Leaf(rule, tok.Value)
		src.Add(last)
	}
	if length != len(text) || src.Source() != text {
		return nil, paranoid.NewSyntaxError(format, text, min(length, len(text)),
			"lexer %s does not reproduce its input", lexer.Config().Name)
	}
	paranoid.CT().Debugf("source: %d tokens with lexer %s", len(tokens), lexer.Config().Name)
	return src, nil
}

// trimEnsuredNewline removes the newline some lexers append to their input.
func trimEnsuredNewline(tokens []chroma.Token, text string) []chroma.Token {
	if strings.HasSuffix(text, "\n") {
		return tokens
	}
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i].Type == chroma.EOFType || tokens[i].Value == "" {
			continue
		}
		if strings.HasSuffix(tokens[i].Value, "\n") {
			tokens[i].Value = strings.TrimSuffix(tokens[i].Value, "\n")
		}
		break
	}
	return tokens
}

// Process spaces the comments and strings of text in language lang with the
// default Spacer.
func Process(lang, text string) (string, error) {
	return ProcessWith(paranoid.Default(), lang, text)
}

// ProcessWith spaces the comments and strings of text in language lang
// with sp.
func ProcessWith(sp *paranoid.Spacer, lang, text string) (string, error) {
	src, err := Parse(lang, text)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.Grow(len(text) + len(text)/8)
	var render paranoid.Renderer
	render = func(b *strings.Builder, n *paranoid.Node) {
		switch n.Rule {
		case RuleComment, RuleString:
			head, body, tail := trimPunct(n.Text)
			b.WriteString(head)
			b.WriteString(sp.Spacing(body))
			b.WriteString(tail)
		default:
			paranoid.Render(b, n, render)
		}
	}
	render(&b, src)
	return b.String(), nil
}

// trimPunct splits off leading and trailing ASCII punctuation.
func trimPunct(s string) (string, string, string) {
	isPunct := func(r rune) bool {
		return r < unicode.MaxASCII && (unicode.IsPunct(r) || unicode.IsSymbol(r))
	}
	body := strings.TrimLeftFunc(s, isPunct)
	head := s[:len(s)-len(body)]
	trimmed := strings.TrimRightFunc(body, isPunct)
	return head, trimmed, body[len(trimmed):]
}
