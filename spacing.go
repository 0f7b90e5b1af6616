package paranoid

import (
	"bytes"
	"context"
	"unicode"

	pool "github.com/jolestar/go-commons-pool"
	"github.com/kookyleo/paranoid-space/width"
)

// A Spacer inserts spaces between full-width and half-width runes.
// The width of a rune is measured within a width.Context, which decides how
// East Asian Ambiguous runes are classified.
//
// A Spacer is immutable and safe for concurrent use.
type Spacer struct {
	ctx *width.Context
}

// NewSpacer creates a Spacer for a width context. A nil context denotes
// width.LatinContext.
func NewSpacer(ctx *width.Context) *Spacer {
	if ctx == nil {
		ctx = width.LatinContext
	}
	return &Spacer{ctx: ctx}
}

var defaultSpacer = NewSpacer(width.LatinContext)

// Default returns the Spacer used by package level function Spacing.
// It classifies ambiguous runes as narrow.
func Default() *Spacer {
	return defaultSpacer
}

// Spacing inserts spaces into text with the default Spacer.
//
//	Spacing("中文English")       => "中文 English"
//	Spacing("价格是$50和¥300")   => "价格是 $50 和 ¥300"
func Spacing(text string) string {
	return defaultSpacer.Spacing(text)
}

// Context returns the width context of sp.
func (sp *Spacer) Context() *width.Context {
	if sp == nil {
		return width.LatinContext
	}
	return sp.ctx
}

// Spacing performs a single left-to-right scan over text, keeping the
// previous rune, and inserts a space wherever NeedsSpace says so.
// It never removes or reorders runes.
func (sp *Spacer) Spacing(text string) string {
	if len(text) < 2 {
		return text
	}
	buf := borrowBuffer()
	defer releaseBuffer(buf)
	var prev rune
	first := true
	for _, cur := range text {
		if !first && sp.NeedsSpace(prev, cur) {
			buf.WriteByte(' ')
		}
		buf.WriteRune(cur)
		prev, first = cur, false
	}
	return buf.String()
}

// NeedsSpace decides whether a space goes between prev and cur.
func (sp *Spacer) NeedsSpace(prev, cur rune) bool {
	if prev == ' ' {
		return false
	}
	ctx := sp.Context()
	p, c := ctx.Classify(prev), ctx.Classify(cur)
	switch {
	case p == width.Full && c == width.Half:
		return !(cur == ' ' ||
			isFullPunct(prev) || prev == '～' || prev == '·' || prev == '、' ||
			isHalfStop(cur) ||
			((prev == '¥' || prev == '€') && unicode.IsNumber(cur)))
	case p == width.Half && c == width.Full:
		return !(isHalfOpener(prev) ||
			isFullPunct(cur) ||
			((prev == '$' || prev == '¥' || prev == '€') && !isFullPunct(cur)) ||
			prev == '\n')
	}
	return false
}

// CJK punctuation which needs no space on its outer side.
func isFullPunct(r rune) bool {
	switch r {
	case '，', '。', '！', '？', '：', '；', '“', '”', '‘', '’',
		'《', '》', '【', '】', '（', '）', '—', '…':
		return true
	}
	return false
}

// ASCII punctuation and control characters which attach to the preceding
// full-width run.
func isHalfStop(r rune) bool {
	switch r {
	case ',', '.', '!', '?', ':', ';', '"', '\'', '\n', '\r', '\t', '\\':
		return true
	}
	return false
}

// Quotes, brackets and sigils which attach to the following full-width run.
func isHalfOpener(r rune) bool {
	switch r {
	case '"', '\'', '[', '{', '<', '@', '#', '%', '^', '&', '_', '|', '\\':
		return true
	}
	return false
}

// --- Buffer pool -----------------------------------------------------------

// Scratch buffers are short-lived objects, allocated for every prose leaf
// of every document. To avoid multiple allocation we will pool them.
type bufferPool struct {
	opool *pool.ObjectPool
	ctx   context.Context
}

var globalBufferPool *bufferPool

func init() {
	globalBufferPool = &bufferPool{}
	factory := pool.NewPooledObjectFactorySimple(
		func(context.Context) (interface{}, error) {
			return &bytes.Buffer{}, nil
		})
	globalBufferPool.ctx = context.Background()
	config := pool.NewDefaultPoolConfig()
	config.MaxTotal = -1 // infinity
	config.BlockWhenExhausted = false
	globalBufferPool.opool = pool.NewObjectPool(globalBufferPool.ctx, factory, config)
}

func borrowBuffer() *bytes.Buffer {
	o, err := globalBufferPool.opool.BorrowObject(globalBufferPool.ctx)
	if err != nil {
		CT().Errorf("spacing: cannot borrow buffer: %v", err)
		return &bytes.Buffer{}
	}
	return o.(*bytes.Buffer)
}

// Clears the buffer and puts it back into the pool.
func releaseBuffer(buf *bytes.Buffer) {
	buf.Reset()
	_ = globalBufferPool.opool.ReturnObject(globalBufferPool.ctx, buf)
}
