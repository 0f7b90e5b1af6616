package json5

import (
	"sync"

	"github.com/npillmayer/gorgo/lr"
	"github.com/npillmayer/gorgo/lr/earley"
)

// Token values of the JSON5 grammar.
const (
	tokSpace = iota + 1
	tokLineComment
	tokBlockComment
	tokLBrace
	tokRBrace
	tokLBracket
	tokRBracket
	tokColon
	tokComma
	tokString
	tokNumber
	tokLiteral    // true, false, null, Infinity, NaN
	tokIdentifier // unquoted keys
)

var globalJSON5Grammar *lr.LRAnalysis

var initParser sync.Once

func getParser() *earley.Parser {
	initParser.Do(func() {
		globalJSON5Grammar = NewJSON5Grammar()
	})
	parser := earley.NewParser(globalJSON5Grammar, earley.GenerateTree(false), earley.StoreTokens(false))
	if parser == nil {
		panic("could not create JSON5 grammar parser")
	}
	return parser
}

// NewJSON5Grammar creates the grammar of JSON5 documents, on the level of
// tokens. Comments and white space are not part of the grammar.
func NewJSON5Grammar() *lr.LRAnalysis {
	b := lr.NewGrammarBuilder("JSON5")
	b.LHS("JSON5").N("Value").End()
	b.LHS("Value").N("Object").End()
	b.LHS("Value").N("Array").End()
	b.LHS("Value").T("string", tokString).End()
	b.LHS("Value").T("number", tokNumber).End()
	b.LHS("Value").T("literal", tokLiteral).End()
	//
	b.LHS("Object").T("{", tokLBrace).T("}", tokRBrace).End()
	b.LHS("Object").T("{", tokLBrace).N("Members").T("}", tokRBrace).End()
	b.LHS("Object").T("{", tokLBrace).N("Members").T(",", tokComma).T("}", tokRBrace).End()
	b.LHS("Members").N("Member").End()
	b.LHS("Members").N("Members").T(",", tokComma).N("Member").End()
	b.LHS("Member").N("Key").T(":", tokColon).N("Value").End()
	b.LHS("Key").T("string", tokString).End()
	b.LHS("Key").T("identifier", tokIdentifier).End()
	b.LHS("Key").T("literal", tokLiteral).End()
	//
	b.LHS("Array").T("[", tokLBracket).T("]", tokRBracket).End()
	b.LHS("Array").T("[", tokLBracket).N("Elements").T("]", tokRBracket).End()
	b.LHS("Array").T("[", tokLBracket).N("Elements").T(",", tokComma).T("]", tokRBracket).End()
	b.LHS("Elements").N("Value").End()
	b.LHS("Elements").N("Elements").T(",", tokComma).N("Value").End()
	//
	g, err := b.Grammar()
	if err != nil {
		panic(err)
	}
	return lr.Analysis(g)
}
