package rust

import (
	"errors"
	"os"
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
		{"let x = 1; // 这是一个comment", "let x = 1; // 这是一个 comment"},
		{"let x = 1; //This is a comment", "let x = 1; //This is a comment"},
		{"//// 不是doc", "//// 不是 doc"},
		{"/*This is a block comment*/", "/*This is a block comment*/"},
		{"/*This is a block comment\n        /*This is a nested block comment*/\n        */",
			"/*This is a block comment\n        /*This is a nested block comment*/\n        */"},
		{"/*This is a 块注释\n        This is另一行\n        */", "/*This is a 块注释\n        This is 另一行\n        */"},
		{"/**/ /***/", "/**/ /***/"},
		{`let s = r#"Raw string content中文 with "quotes" and \escapes"#;`,
			`let s = r#"Raw string content 中文 with "quotes" and \escapes"#;`},
		{`let s = r"原始raw";`, `let s = r"原始 raw";`},
		{`let msg = "Hello\n world世界\t!";`, `let msg = "Hello\n world 世界\t!";`},
		{`let bytes = b"byte string内容";`, `let bytes = b"byte string 内容";`},
		{`let raw_bytes = br#"raw byte内容"#;`, `let raw_bytes = br#"raw byte 内容"#;`},
		{`let message = "Hello, world!你好，世界！ Contains escapes: \n\t\""; // Regular string 普通字符串`,
			`let message = "Hello, world! 你好，世界！ Contains escapes: \n\t\""; // Regular string 普通字符串`},
		{`let c = '"'; let s = "字符char";`, `let c = '"'; let s = "字符 char";`},
		{`let c = '\''; let d = '中'; // 注释note`, `let c = '\''; let d = '中'; // 注释 note`},
		{`fn f<'a>(x: &'a str) -> &'a str { "生命lifetime" }`, `fn f<'a>(x: &'a str) -> &'a str { "生命 lifetime" }`},
		{`let r#type = 1; // 原始ident`, `let r#type = 1; // 原始 ident`},
		{`变量abc`, `变量abc`},
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

func TestDocComments(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	for i, x := range []struct {
		input, expected string
	}{
		{"/// this is一条注释\n", "/// this is 一条注释\n"},
		{"\n/**\n * This is a block doc comment\n * This is another line\n*/\n",
			"\n/**\n * This is a block doc comment\n * This is another line\n*/\n"},
		{"/*!\nInner comment中文\nAnother line 行*/", "/*!\nInner comment 中文\nAnother line 行*/"},
		{"/// Line doc comment中文\n/// Another line 行\n/// ```rust\n/// let x = 1;\n/// ```",
			"/// Line doc comment 中文\n/// Another line 行\n/// ```rust\n/// let x = 1;\n/// ```"},
		{"/** Outer block doc comment\n * 函数的块文档注释\n */", "/** Outer block doc comment\n * 函数的块文档注释\n */"},
		{"//! Inner line doc comment中文\n//! Another line 行", "//! Inner line doc comment 中文\n//! Another line 行"},
		{"    /// 缩进indented\n    /// `代码code`\n    fn f() {}",
			"    /// 缩进 indented\n    /// `代码code`\n    fn f() {}"},
		{"/// 文档doc\n\n/// 第二second\n", "/// 文档 doc\n\n/// 第二 second\n"},
		{"///\n/// 空行empty\n", "///\n/// 空行 empty\n"},
		{"/// ---\n/// 中文a\n/// ---\n", "/// ---\n/// 中文 a\n/// ---\n"},
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

func TestDocBlocks(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	prog, err := Parse("/// this is a comment line\n/// this is another comment line\n\n/// this is yet another comment line")
	if err != nil {
		t.Fatal(err)
	}
	docs := prog.Find(RuleOuterLineDoc)
	if len(docs) != 2 {
		t.Fatalf("expected 2 doc comment blocks, found %d", len(docs))
	}
	if n := len(docs[0].Children); n != 2 {
		t.Errorf("expected first block to have 2 lines, has %d", n)
	}
	if docs[0].Children[1].Text != "/// this is another comment line\n" {
		t.Errorf("unexpected second line %q", docs[0].Children[1].Text)
	}
	prog, err = Parse("/**\n * this is a comment line\n * this is another comment line\n */")
	if err != nil {
		t.Fatal(err)
	}
	docs = prog.Find(RuleOuterBlockDoc)
	if len(docs) != 1 {
		t.Fatalf("expected 1 block doc comment, found %d", len(docs))
	}
	lines := docs[0].Find(RuleDocLine)
	if len(lines) != 4 || lines[0].Text != "\n" || lines[3].Text != " " {
		t.Errorf("unexpected doc lines %v", lines)
	}
}

func TestSpacedFileIsStable(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	src, err := os.ReadFile("testdata/spaced.rs")
	if err != nil {
		t.Fatal(err)
	}
	prog, err := Parse(string(src))
	if err != nil {
		t.Fatal(err)
	}
	if prog.Source() != string(src) {
		t.Errorf("tree does not reproduce input")
	}
	out, err := Process(string(src))
	if err != nil {
		t.Fatal(err)
	}
	if out != string(src) {
		t.Errorf("processing a spaced file changed it:\n%s", out)
	}
}

func TestSyntaxErrors(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	for i, input := range []string{
		`let s = "open`,
		`let s = r#"open"`,
		"/* open /* nested */",
		strings.Repeat("/*", paranoid.MaxNesting+1),
	} {
		_, err := Process(input)
		if err == nil {
			t.Errorf("test #%d: expected error for %q", i, input)
			continue
		}
		if !errors.Is(err, paranoid.ErrSyntax) {
			t.Errorf("test #%d: expected syntax error, is %v", i, err)
		}
	}
}
