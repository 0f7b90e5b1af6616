package paranoid

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestNodeSource(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	tree := Branch("doc",
		Leaf("code", "x = "),
		Branch("string", Leaf("quote", `"`), Leaf("body", "中文abc"), Leaf("quote", `"`)),
		Leaf("code", ";\n"),
	)
	tree.Add(nil, Leaf("comment", "// 注释"))
	if src := tree.Source(); src != "x = \"中文abc\";\n// 注释" {
		t.Errorf("unexpected source %q", src)
	}
	if n := len(tree.Find("quote")); n != 2 {
		t.Errorf("expected 2 quote nodes, found %d", n)
	}
	var b strings.Builder
	tree.Dump(&b)
	t.Logf("tree =\n%s", b.String())
	if !strings.Contains(b.String(), `    body "中文abc"`) {
		t.Errorf("expected dump to show nested leaf, is\n%s", b.String())
	}
}

func TestRender(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	tree := Branch("doc",
		Leaf("code", "f("),
		Branch("string", Leaf("quote", `'`), Leaf("body", "你好world"), Leaf("quote", `'`)),
		Leaf("code", ")"),
	)
	var render Renderer
	render = func(b *strings.Builder, n *Node) {
		if n.Rule == "body" {
			b.WriteString(Spacing(n.Text))
			return
		}
		Render(b, n, render)
	}
	var b strings.Builder
	render(&b, tree)
	if b.String() != "f('你好 world')" {
		t.Errorf("expected body to be spaced, is %q", b.String())
	}
}

func TestSyntaxError(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	input := "line one\n第二行 <div\nthird"
	err := NewSyntaxError("html", input, strings.Index(input, "<div"), "unterminated tag %q", "div")
	if err.Line != 2 || err.Column != 5 {
		t.Errorf("expected error at 2:5, is %d:%d", err.Line, err.Column)
	}
	if !errors.Is(err, ErrSyntax) {
		t.Errorf("expected syntax error to match ErrSyntax")
	}
	wrapped := fmt.Errorf("processing index.html: %w", err)
	var se *SyntaxError
	if !errors.As(wrapped, &se) || se.Format != "html" {
		t.Errorf("expected wrapped error to unwrap to *SyntaxError")
	}
	if err.Error() != `html: syntax error at 2:5: unterminated tag "div"` {
		t.Errorf("unexpected error message %q", err.Error())
	}
	if l, c := Position("abc", 99); l != 1 || c != 4 {
		t.Errorf("expected clipped position 1:4, is %d:%d", l, c)
	}
}
