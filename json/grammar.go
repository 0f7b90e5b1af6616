package json

import (
	"sync"

	"github.com/npillmayer/gorgo/lr"
	"github.com/npillmayer/gorgo/lr/earley"
)

// Token values of the JSON grammar.
const (
	tokSpace = iota + 1
	tokLBrace
	tokRBrace
	tokLBracket
	tokRBracket
	tokColon
	tokComma
	tokString
	tokNumber
	tokLiteral // true, false, null
)

var globalJSONGrammar *lr.LRAnalysis

var initParser sync.Once

func getParser() *earley.Parser {
	initParser.Do(func() {
		globalJSONGrammar = NewJSONGrammar()
	})
	parser := earley.NewParser(globalJSONGrammar, earley.GenerateTree(false), earley.StoreTokens(false))
	if parser == nil {
		panic("could not create JSON grammar parser")
	}
	return parser
}

// NewJSONGrammar creates the grammar of RFC 8259 documents, on the level of
// tokens. It is usually not called by clients directly, but rather used
// transparently with a call to Parse.
func NewJSONGrammar() *lr.LRAnalysis {
	b := lr.NewGrammarBuilder("JSON")
	b.LHS("JSON").N("Value").End()
	b.LHS("Value").N("Object").End()
	b.LHS("Value").N("Array").End()
	b.LHS("Value").T("string", tokString).End()
	b.LHS("Value").T("number", tokNumber).End()
	b.LHS("Value").T("literal", tokLiteral).End()
	//
	b.LHS("Object").T("{", tokLBrace).T("}", tokRBrace).End()
	b.LHS("Object").T("{", tokLBrace).N("Members").T("}", tokRBrace).End()
	b.LHS("Members").N("Member").End()
	b.LHS("Members").N("Members").T(",", tokComma).N("Member").End()
	b.LHS("Member").T("string", tokString).T(":", tokColon).N("Value").End()
	//
	b.LHS("Array").T("[", tokLBracket).T("]", tokRBracket).End()
	b.LHS("Array").T("[", tokLBracket).N("Elements").T("]", tokRBracket).End()
	b.LHS("Elements").N("Value").End()
	b.LHS("Elements").N("Elements").T(",", tokComma).N("Value").End()
	//
	g, err := b.Grammar()
	if err != nil {
		panic(err)
	}
	return lr.Analysis(g)
}
