/*
Package registry maps file names and format names to walkers.

Files with one of the extensions of a built-in walker are processed by it.
Other files whose extension or hashbang go-enry recognises as a programming
language are processed by package source, if Chroma has a lexer for that
language. Everything else is treated as plain text and spaced as a whole.
*/
package registry

import (
	"path/filepath"
	"sort"
	"strings"

	enry "github.com/go-enry/go-enry/v2"

	paranoid "github.com/kookyleo/paranoid-space"
	"github.com/kookyleo/paranoid-space/css"
	"github.com/kookyleo/paranoid-space/html"
	"github.com/kookyleo/paranoid-space/js"
	"github.com/kookyleo/paranoid-space/json"
	"github.com/kookyleo/paranoid-space/json5"
	"github.com/kookyleo/paranoid-space/markdown"
	"github.com/kookyleo/paranoid-space/php"
	"github.com/kookyleo/paranoid-space/rust"
	"github.com/kookyleo/paranoid-space/source"
)

// ProcessFunc spaces a document.
type ProcessFunc func(sp *paranoid.Spacer, text string) (string, error)

// Walker is a named document processor.
type Walker struct {
	Name       string
	Extensions []string
	Process    ProcessFunc
}

// Plain spaces a document as a whole.
var Plain = &Walker{
	Name: "text",
	Process: func(sp *paranoid.Spacer, text string) (string, error) {
		return sp.Spacing(text), nil
	},
}

// Walkers are the built-in walkers.
var Walkers = map[string]*Walker{
	"html":     {Name: "html", Extensions: []string{".html", ".htm"}, Process: html.ProcessWith},
	"css":      {Name: "css", Extensions: []string{".css"}, Process: css.ProcessWith},
	"js":       {Name: "js", Extensions: []string{".js", ".mjs", ".cjs"}, Process: js.ProcessWith},
	"json":     {Name: "json", Extensions: []string{".json"}, Process: json.ProcessWith},
	"json5":    {Name: "json5", Extensions: []string{".json5"}, Process: json5.ProcessWith},
	"markdown": {Name: "markdown", Extensions: []string{".md", ".markdown"}, Process: markdown.ProcessWith},
	"rust":     {Name: "rust", Extensions: []string{".rs"}, Process: rust.ProcessWith},
	"php":      {Name: "php", Extensions: []string{".php"}, Process: php.ProcessWith},
	"text":     Plain,
}

var aliases = map[string]string{
	"htm":        "html",
	"javascript": "js",
	"md":         "markdown",
	"rs":         "rust",
	"txt":        "text",
	"plain":      "text",
}

var byExtension = func() map[string]*Walker {
	m := make(map[string]*Walker)
	for _, w := range Walkers {
		for _, ext := range w.Extensions {
			m[ext] = w
		}
	}
	return m
}()

// Names returns the names of the built-in walkers, sorted.
func Names() []string {
	names := make([]string, 0, len(Walkers))
	for name := range Walkers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup finds a walker by name. Besides the built-in walkers and their
// aliases, any language Chroma has a lexer for is accepted.
func Lookup(name string) (*Walker, bool) {
	key := strings.ToLower(name)
	if alias, ok := aliases[key]; ok {
		key = alias
	}
	if w, ok := Walkers[key]; ok {
		return w, true
	}
	if source.Lexer(name, "") != nil {
		return sourceWalker(name), true
	}
	return nil, false
}

// ForFile selects the walker for a file. content is used to recognise
// hashbang lines and may be nil.
func ForFile(path string, content []byte) *Walker {
	ext := strings.ToLower(filepath.Ext(path))
	if w, ok := byExtension[ext]; ok {
		return w
	}
	lang, _ := enry.GetLanguageByExtension(path)
	if lang == "" && len(content) > 0 {
		lang, _ = enry.GetLanguageByShebang(content)
	}
	if lang == "" || enry.GetLanguageType(lang) != enry.Programming {
		return Plain
	}
	if w, ok := Lookup(lang); ok {
		paranoid.CT().Debugf("registry: %s is %s", path, lang)
		return w
	}
	return Plain
}

func sourceWalker(lang string) *Walker {
	return &Walker{
		Name: strings.ToLower(lang),
		Process: func(sp *paranoid.Spacer, text string) (string, error) {
			return source.ProcessWith(sp, lang, text)
		},
	}
}

// Process spaces the content of a file with the default Spacer.
func Process(path, text string) (string, error) {
	return ProcessWith(paranoid.Default(), path, text)
}

// ProcessWith spaces the content of a file with sp.
func ProcessWith(sp *paranoid.Spacer, path, text string) (string, error) {
	return ForFile(path, []byte(text)).Process(sp, text)
}
