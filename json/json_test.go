package json

import (
	"errors"
	"strings"
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
		{`{"a": "甲b", "c": "乙d"}`, `{"a": "甲 b", "c": "乙 d"}`},
		{`{"甲a": "b"}`, `{"甲a": "b"}`},
		{`["甲a", "乙b", "丙c"]`, `["甲 a", "乙 b", "丙 c"]`},
		{"{}", "{}"},
		{"[]", "[]"},
		{`"顶层top"`, `"顶层 top"`},
		{`{"n": -1.5e3, "ok": true, "none": null}`, `{"n": -1.5e3, "ok": true, "none": null}`},
		{"{\n  \"嵌套\": {\"列表\": [\"中文a\", {\"x\": \"b中文\"}]}\n}\n",
			"{\n  \"嵌套\": {\"列表\": [\"中文 a\", {\"x\": \"b 中文\"}]}\n}\n"},
		{`{"esc": "引号\"quote\"和\\反斜杠"}`, `{"esc": "引号\"quote\"和\\反斜杠"}`},
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
	input := "{ \"k\" : [1, \"v\", {\"x\": false}] }"
	doc, err := Parse(input)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Source() != input {
		t.Errorf("tree does not reproduce input: %q", doc.Source())
	}
	if n := len(doc.Find(RuleKey)); n != 2 {
		t.Errorf("expected 2 keys, found %d", n)
	}
	if n := len(doc.Find(RuleString)); n != 1 {
		t.Errorf("expected 1 string value, found %d", n)
	}
	if n := len(doc.Find(RuleObject)); n != 2 {
		t.Errorf("expected 2 objects, found %d", n)
	}
}

func TestErrors(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	for _, input := range []string{
		`{"a": "b"`,
		`{"a": "b",}`,
		`["a",]`,
		`{"a" "b"}`,
		`{a: 1}`,
		`['a']`,
		`[01]`,
		`{"a": "open}`,
		``,
		`[1] [2]`,
	} {
		_, err := Process(input)
		if !errors.Is(err, paranoid.ErrSyntax) {
			t.Errorf("expected syntax error for %q, got %v", input, err)
		}
	}
}

func TestErrorPosition(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	_, err := Process("{\n  \"a\": 1,\n}")
	var se *paranoid.SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("expected *SyntaxError, got %v", err)
	}
	if se.Format != "json" || se.Line < 2 {
		t.Errorf("unexpected error location %v", se)
	}
}

func TestNesting(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	deep := strings.Repeat("[", paranoid.MaxNesting+1) + strings.Repeat("]", paranoid.MaxNesting+1)
	if _, err := Process(deep); !errors.Is(err, paranoid.ErrSyntax) {
		t.Errorf("expected nesting error, got %v", err)
	}
	ok := strings.Repeat("[", 10) + `"中文a"` + strings.Repeat("]", 10)
	if out, err := Process(ok); err != nil || !strings.Contains(out, `"中文 a"`) {
		t.Errorf("expected nested array to be processed, is %q, %v", out, err)
	}
}
