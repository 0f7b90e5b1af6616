package json5

import (
	"errors"
	"testing"

	paranoid "github.com/kookyleo/paranoid-space"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestProcess(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	for i, x := range []struct {
		input, expected string
	}{
		{`{ "a": 1, "b": 2, }`, `{ "a": 1, "b": 2, }`},
		{`[1, 2, 3,]`, `[1, 2, 3,]`},
		{`{ key1: "值1", "键2": "值2", 'key 3': 'value3' }`,
			`{ key1: "值 1", "键2": "值 2", 'key 3': 'value3' }`},
		{"{\n  // 注释before\n  a: 1,\n}", "{\n  // 注释 before\n  a: 1,\n}"},
		{"{ /*block注释 */ a: 1 }", "{ /*block 注释 */ a: 1 }"},
		{"[1] //comment最终", "[1] //comment 最终"},
		{`{ 'single': '单引号single' }`, `{ 'single': '单引号 single' }`},
		{"{ long: '这是一个长字符串，\\\n可以用反斜杠换行' }", "{ long: '这是一个长字符串，\\\n可以用反斜杠换行' }"},
		{`{ hex: 0xFF, inf: -Infinity, nan: NaN, frac: .5, exp: 1e-3, pos: +1 }`,
			`{ hex: 0xFF, inf: -Infinity, nan: NaN, frac: .5, exp: 1e-3, pos: +1 }`},
		{`{ 中文键: "中文值abc", $id: null, _x: true }`, `{ 中文键: "中文值 abc", $id: null, _x: true }`},
		{"{}", "{}"},
	} {
		out, err := Process(x.input)
		if err != nil {
			t.Errorf("test #%d: unexpected error: %v", i, err)
			continue
		}
		if out != x.expected {
			t.Errorf("test #%d: expected %q, is %q", i, x.expected, out)
		}
	}
}

func TestTree(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	input := "// head\n{ a: [1, 'x', /* c */ {b: null}], }\n"
	doc, err := Parse(input)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Source() != input {
		t.Errorf("tree does not reproduce input: %q", doc.Source())
	}
	if n := len(doc.Find(RuleComment)); n != 2 {
		t.Errorf("expected 2 comments, found %d", n)
	}
	if n := len(doc.Find(RuleKey)); n != 2 {
		t.Errorf("expected 2 keys, found %d", n)
	}
}

func TestErrors(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	for _, input := range []string{
		`{ "key": "value" `,
		`{ a: 1,, }`,
		`[,]`,
		`{ a: undefined }`,
		`/* open`,
		`{ a: 'open }`,
		`{ a: 1.2.3 }`,
	} {
		if _, err := Process(input); !errors.Is(err, paranoid.ErrSyntax) {
			t.Errorf("expected syntax error for %q, got %v", input, err)
		}
	}
}
