package registry

import (
	"testing"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestForFile(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	for i, x := range []struct {
		path, content, walker string
	}{
		{"index.html", "", "html"},
		{"INDEX.HTM", "", "html"},
		{"style.css", "", "css"},
		{"app.mjs", "", "js"},
		{"package.json", "", "json"},
		{"config.json5", "", "json5"},
		{"README.md", "", "markdown"},
		{"lib.rs", "", "rust"},
		{"index.php", "", "php"},
		{"main.py", "", "python"},
		{"main.go", "", "go"},
		{"run", "#!/usr/bin/env python3\nprint('x')\n", "python"},
		{"notes.txt", "", "text"},
		{"noext", "", "text"},
	} {
		w := ForFile(x.path, []byte(x.content))
		if w.Name != x.walker {
			t.Errorf("test #%d: expected walker %q for %s, is %q", i, x.walker, x.path, w.Name)
		}
	}
}

func TestLookup(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	for _, name := range Names() {
		if w, ok := Lookup(name); !ok || w.Name != name {
			t.Errorf("expected to find walker %q", name)
		}
	}
	if w, ok := Lookup("md"); !ok || w.Name != "markdown" {
		t.Errorf("expected alias md to resolve to markdown")
	}
	if w, ok := Lookup("Python"); !ok || w.Name != "python" {
		t.Errorf("expected a source walker for Python")
	}
	if _, ok := Lookup("no-such-format"); ok {
		t.Errorf("expected lookup of unknown format to fail")
	}
}

func TestProcess(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	for i, x := range []struct {
		path, input, expected string
	}{
		{"a.txt", "中文English", "中文 English"},
		{"a.md", "# 标题Title\n`代码code`\n", "# 标题 Title\n`代码code`\n"},
		{"a.json", `{"键key": "值value"}`, `{"键key": "值 value"}`},
		{"a.html", "<p>段落Paragraph</p>", "<p>段落 Paragraph</p>"},
		{"a.py", "# 注释comment\n", "# 注释 comment\n"},
	} {
		out, err := Process(x.path, x.input)
		if err != nil {
			t.Errorf("test #%d: unexpected error: %v", i, err)
			continue
		}
		if out != x.expected {
			t.Errorf("test #%d: expected %q, is %q", i, x.expected, out)
		}
	}
	if _, err := Process("broken.json", `{"a": "b"`); err == nil {
		t.Errorf("expected broken JSON to fail")
	}
}
