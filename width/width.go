package width

import (
	"unicode"

	jj "github.com/cloudfoundry/jibber_jabber"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	xwidth "golang.org/x/text/width"
)

// Class is the width class of a rune, as seen by the spacing engine.
type Class int8

// Width classes
const (
	Half Class = iota // narrow: Latin letters, digits, ASCII symbols, zero-width runes
	Full              // wide: ideographs, kana, hangul, fullwidth forms, CJK punctuation
)

func (c Class) String() string {
	if c == Full {
		return "Full"
	}
	return "Half"
}

// Category is one of 6 char categories as defined in UAX#11.
type Category int8

// East_Asian_Width properties
const (
	N  Category = iota // Neutral (Not East Asian)
	A                  // East Asian Ambiguous
	W                  // East Asian Wide
	Na                 // East Asian Narrow
	H                  // East Asian Halfwidth
	F                  // East Asian Fullwidth
)

var categoryNames = [...]string{"N", "A", "W", "Na", "H", "F"}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "?"
	}
	return categoryNames[c]
}

// WidthCategory returns the width category of a single rune as proposed by the UAX#11
// standard.
//
// Returns one of N, A, Na, W, H, F.
func WidthCategory(r rune) Category {
	switch xwidth.LookupRune(r).Kind() {
	case xwidth.EastAsianAmbiguous:
		return A
	case xwidth.EastAsianWide:
		return W
	case xwidth.EastAsianNarrow:
		return Na
	case xwidth.EastAsianHalfwidth:
		return H
	case xwidth.EastAsianFullwidth:
		return F
	}
	if unicode.Is(cjkDefaultWide, r) {
		return W
	}
	// UAX#11:
	//  - All code points, assigned or unassigned, that are not listed
	//      explicitly are given the value "N".
	return N
}

// cjkDefaultWide holds the code points which UAX#11 defaults to "W" when
// unassigned:
//
//	CJK Unified Ideographs Extension A: U+3400..U+4DBF
//	CJK Unified Ideographs:             U+4E00..U+9FFF
//	CJK Compatibility Ideographs:       U+F900..U+FAFF
//	Plane 2:                            U+20000..U+2FFFD
//	Plane 3:                            U+30000..U+3FFFD
var cjkDefaultWide = &unicode.RangeTable{
	R16: []unicode.Range16{
		{0x3400, 0x4dbf, 1},
		{0x4e00, 0x9fff, 1},
		{0xf900, 0xfaff, 1},
	},
	R32: []unicode.Range32{
		{0x20000, 0x2fffd, 1},
		{0x30000, 0x3fffd, 1},
	},
}

// Context represents information about the typesetting environment.
//
// From UAX#11:
// The term context as used here includes extra information such as explicit
// markup, knowledge of the source code page, font information, or language and
// script identification
//
// A Context is immutable after construction and may be shared between goroutines.
type Context struct {
	ForceEastAsian bool            // force East Asian context
	Script         language.Script // ISO 15924 script identifier
	Locale         string          // ISO 639/3166 locale string
	wide           bool            // ambiguous runes resolve to wide
}

// EastAsianContext is a context for East Asian languages.
var EastAsianContext = &Context{
	ForceEastAsian: true,
	Script:         language.MustParseScript("Hant"),
	Locale:         "zh-Hant",
	wide:           true,
}

// LatinContext is a context for western languages.
var LatinContext = &Context{
	Script: language.MustParseScript("Latn"),
	Locale: "en-US",
}

var (
	narrowCondition = &runewidth.Condition{EastAsianWidth: false, StrictEmojiNeutral: true}
	wideCondition   = &runewidth.Condition{EastAsianWidth: true, StrictEmojiNeutral: true}
)

// IsEastAsian is true if ambiguous runes are wide in this context.
func (ctx *Context) IsEastAsian() bool {
	return ctx != nil && (ctx.ForceEastAsian || ctx.wide)
}

func (ctx *Context) condition() *runewidth.Condition {
	if ctx.IsEastAsian() {
		return wideCondition
	}
	return narrowCondition
}

// Width returns the display width of a rune in terms of `en`s, where 1en
// stands for 1/2em, i.e. half a full width character.
// Zero width runes and control characters have a width of 0.
//
// If a nil context is given, LatinContext is assumed.
//
// Returns either 0, 1 (narrow character) or 2 (wide character).
//
// Runes measured as narrow, but categorized as W or F by UAX#11, are wide.
// This covers unassigned code points of the CJK blocks and characters newer
// than the measuring tables.
func (ctx *Context) Width(r rune) int {
	w := ctx.condition().RuneWidth(r)
	if w == 1 && r >= minWide {
		switch WidthCategory(r) {
		case W, F:
			return 2
		}
	}
	return w
}

// minWide is the first rune of category W.
const minWide = 0x1100

// Classify returns the width class of r in this context.
func (ctx *Context) Classify(r rune) Class {
	if ctx.Width(r) >= 2 {
		return Full
	}
	return Half
}

// Classify returns the width class of r in the LatinContext.
func Classify(r rune) Class {
	return LatinContext.Classify(r)
}

// StringWidth returns the accumulated width of all runes of s.
func (ctx *Context) StringWidth(s string) int {
	w := 0
	for _, r := range s {
		w += ctx.Width(r)
	}
	return w
}

// --- Locales ---------------------------------------------------------------

func isEastAsian(script language.Script, lang language.Tag) bool {
	switch script.String() {
	case
		// East Asian
		"Bopo", "Hanb", "Hani", "Hans",
		"Hant", "Hang", "Hira", "Kana",
		"Jpan", "Kore", "Yiii":
		return true
	}
	_, _, confidence := eaMatch.Match(lang)
	return confidence != language.No
}

var eaMatch = language.NewMatcher([]language.Tag{
	language.Chinese, // The first language is used as fallback.
	language.Japanese,
	language.Korean,
	language.Vietnamese,
	language.Mongolian,
	language.Burmese,
	language.Khmer,
})

// ContextForLocale creates a context for a BCP 47 locale string,
// e.g. "zh-HK" or "de-CH". Unparsable locales yield a Latin context.
func ContextForLocale(locale string) *Context {
	lang, err := language.Parse(locale)
	if err != nil {
		T().Infof("width: cannot parse locale %q, using Latin context: %v", locale, err)
		return LatinContext
	}
	script, _ := lang.Script()
	return &Context{
		Script: script,
		Locale: locale,
		wide:   isEastAsian(script, lang),
	}
}

// ContextFromEnvironment creates a context from the user's locale settings.
func ContextFromEnvironment() *Context {
	userLocale, err := jj.DetectIETF()
	if err != nil {
		T().Errorf(err.Error())
		userLocale = "en-US"
		T().Infof("width: default user locale %v", userLocale)
	} else {
		T().Infof("width: detected user locale %v", userLocale)
	}
	return ContextForLocale(userLocale)
}
