package php

import (
	"errors"
	"os"
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
		{"<div><p>Just HTML</p></div>", "<div><p>Just HTML</p></div>"},
		{"<?php // Line Comment ?>", "<?php // Line Comment ?>"},
		{"<?php /* Block Comment */ ?>", "<?php /* Block Comment */ ?>"},
		{"<?php 'Single Quoted'; \"Double Quoted \\\" Escaped\"; ?>", "<?php 'Single Quoted'; \"Double Quoted \\\" Escaped\"; ?>"},
		{"<h1>Title</h1><?php echo 'Hello'; // Say hello ?> <p>World</p>", "<h1>Title</h1><?php echo 'Hello'; // Say hello ?> <p>World</p>"},
		{`<input type="text" value="<?php echo $value; ?>">`, `<input type="text" value="<?php echo $value; ?>">`},
		{`<?php echo "中文abc"; ?>`, `<?php echo "中文 abc"; ?>`},
		{`<?php echo '单引号single'; ?>`, `<?php echo '单引号 single'; ?>`},
		{`<?php echo "你好{$user->name}欢迎welcome"; ?>`, `<?php echo "你好{$user->name}欢迎 welcome"; ?>`},
		{`<?php echo "姓名：{$person["姓名"]}abc"; ?>`, `<?php echo "姓名：{$person["姓名"]}abc"; ?>`},
		{`<?php echo "${var}中文abc"; ?>`, `<?php echo "${var}中文 abc"; ?>`},
		{`<?php echo "值$a->b 中文abc"; ?>`, `<?php echo "值$a->b 中文 abc"; ?>`},
		{`<?php echo "项$list[0]项目item"; ?>`, `<?php echo "项$list[0]项目 item"; ?>`},
		{`<?php echo "<h2>变量Output示例</h2>"; ?>`, `<?php echo "<h2>变量 Output 示例</h2>"; ?>`},
		{`<?php echo "<pre>内容content: $x</pre>"; ?>`, `<?php echo "<pre>内容 content: $x</pre>"; ?>`},
		{"<?php # 井号comment\n$a = 1; ?>", "<?php # 井号 comment\n$a = 1; ?>"},
		{"<?php #[Attribute] class 类A {} ?>", "<?php #[Attribute] class 类A {} ?>"},
		{`<?= "标题title" ?>`, `<?= "标题 title" ?>`},
		{"<?php\n$a = <<<'EOT'\n单引号nowdoc $x\nEOT;\n", "<?php\n$a = <<<'EOT'\n单引号 nowdoc $x\nEOT;\n"},
		{"<?php\n$a = <<<EOT\n双引号heredoc$x 中文abc\nEOT;\n", "<?php\n$a = <<<EOT\n双引号 heredoc$x 中文 abc\nEOT;\n"},
		{"<?php\n  $a = <<<\"EOT\"\n    缩进indent\n    EOT;\n", "<?php\n  $a = <<<\"EOT\"\n    缩进 indent\n    EOT;\n"},
		{"<?php $a = <<<EOT\nEOT;\n", "<?php $a = <<<EOT\nEOT;\n"},
		{"<div>标题Title<?php echo 1; ?></div>", "<div>标题 Title<?php echo 1; ?></div>"},
		{`<?xml version="1.0"?><a>中文abc</a>`, `<?xml version="1.0"?><a>中文 abc</a>`},
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

func TestSpacedFileIsStable(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	src, err := os.ReadFile("testdata/spaced.php")
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
	if n := len(prog.Find(RuleHeredoc)); n != 2 {
		t.Errorf("expected 2 heredocs, found %d", n)
	}
	if n := len(prog.Find(RuleChunk)); n != 2 {
		t.Errorf("expected 2 PHP chunks, found %d", n)
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
		`<?php echo "open`,
		`<?php echo 'open`,
		"<?php /* open",
		"<?php $a = <<<EOT\nno end\n",
		"<?php $a = <<<\n",
		`<?php echo "{$a["x"]`,
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
