package paranoid

import (
	"strings"
	"sync"
	"testing"

	"github.com/kookyleo/paranoid-space/width"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

var spacingTests = []struct {
	input, expected string
}{
	{"", ""},
	{"中", "中"},
	{"中文English", "中文 English"},
	{"English中文", "English 中文"},
	{"价格是$50和¥300", "价格是 $50 和 ¥300"},
	{"中文!", "中文!"},
	{"当你凝视着bug，bug也凝视着你", "当你凝视着 bug，bug 也凝视着你"},
	{"a啊 ", "a 啊 "},
	{"中\nb", "中\nb"},
	{"使用了Python的print()函数打印\"你好,世界\"", "使用了 Python 的 print() 函数打印\"你好, 世界\""},
	{"价格人民币¥100美元$100欧元€100英镑£100", "价格人民币 ¥100 美元 $100 欧元 €100 英镑 £100"},
	{"全角空格　和半角空格 混用", "全角空格　和半角空格 混用"},
	{"AＡBＢCＣ和abc以及1１２３和123混排", "A Ａ B Ｂ C Ｃ和 abc 以及 1 １２３和 123 混排"},
	{"文件保存在~/Documents目录", "文件保存在 ~/Documents 目录"},
	{"用户目录是~，完整路径是~/Documents", "用户目录是 ~，完整路径是 ~/Documents"},
	{"函数add(a,b)返回a+b", "函数 add(a,b) 返回 a+b"},
	{"网址是example.com而不是example。com", "网址是 example.com 而不是 example。com"},
	{`他说"这很好"然后离开了`, `他说"这很好"然后离开了`},
	{"安装命令是npm install --save-dev @types/react使用v16.8版本", "安装命令是 npm install --save-dev @types/react 使用 v16.8 版本"},
	{"name|age|gender表示不同字段", "name|age|gender 表示不同字段"},
	{"5+3*2=11，需要满足x>0且y<100", "5+3*2=11，需要满足 x>0 且 y<100"},
	{"命令是`ls -la`，注意不要用''", "命令是 `ls -la`，注意不要用''"},
	{`你好\n world\t!`, `你好\n world\t!`},
	{"日本語とEnglishの混在", "日本語と English の混在"},
	{"한국어와English", "한국어와 English"},
	{"#标签 @用户", "#标签 @用户"},
}

func TestSpacing(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	for i, x := range spacingTests {
		if s := Spacing(x.input); s != x.expected {
			t.Errorf("test #%d: expected %q, is %q", i, x.expected, s)
		}
	}
}

func TestSpacingIdempotent(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	for i, x := range spacingTests {
		once := Spacing(x.input)
		if twice := Spacing(once); twice != once {
			t.Errorf("test #%d: spacing is not idempotent: %q => %q", i, once, twice)
		}
	}
}

func TestSpacingNoDoubleSpace(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	for i, x := range spacingTests {
		if strings.Contains(x.input, "  ") {
			continue
		}
		if s := Spacing(x.input); strings.Contains(s, "  ") {
			t.Errorf("test #%d: spacing introduced a double space: %q", i, s)
		}
	}
}

func TestSpacingSameClass(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	for _, s := range []string{"Hello, World!", "x := a[i] + 1", "纯中文文本，没有英文。", "ＡＢＣ１２３"} {
		if out := Spacing(s); out != s {
			t.Errorf("expected same-class text %q to be unchanged, is %q", s, out)
		}
	}
}

func TestSpacingEastAsianContext(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	sp := NewSpacer(width.EastAsianContext)
	if s := sp.Spacing("价格€100"); s != "价格€100" {
		t.Errorf("expected wide euro sign to attach to the number, is %q", s)
	}
	if s := Spacing("价格€100"); s != "价格 €100" {
		t.Errorf("expected narrow euro sign to be spaced, is %q", s)
	}
	if s := sp.Spacing("他说“hello”"); s != "他说“hello”" {
		t.Errorf("expected wide quotes to stay attached, is %q", s)
	}
	if sp.Context() != width.EastAsianContext {
		t.Errorf("expected spacer to carry its context")
	}
	var nilsp *Spacer
	if nilsp.Context() != width.LatinContext {
		t.Errorf("expected nil spacer to use Latin context")
	}
}

func TestSpacingConcurrent(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	var wg sync.WaitGroup
	errs := make(chan string, 8*len(spacingTests))
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, x := range spacingTests {
				if s := Spacing(x.input); s != x.expected {
					errs <- s
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for s := range errs {
		t.Errorf("concurrent spacing produced unexpected %q", s)
	}
}

func BenchmarkSpacing(b *testing.B) {
	text := strings.Repeat("当你凝视着bug，bug也凝视着你。", 64)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Spacing(text)
	}
}
