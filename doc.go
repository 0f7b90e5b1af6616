/*
Package paranoid inserts spaces between full-width and half-width characters.

# Description

Mixed-script text, e.g. Chinese interspersed with English words, numbers or
code identifiers, is easier to read if a space separates runs of CJK characters
from runs of Latin characters:

	当你凝视着bug，bug也凝视着你    =>    当你凝视着 bug，bug 也凝视着你

Inserting these spaces by hand is tedious, and doing it blindly with a
search-and-replace breaks source files: a space inside an HTML tag, a JSON key
or a regular expression changes the meaning of the document. Package paranoid
therefore has two parts:

(1) The spacing engine, function Spacing (or a configured Spacer). It scans
text rune by rune, remembering only the previous rune, and decides for every
adjacent pair whether to insert a space. The decision depends on the width
class of both runes (see package width) and on a small set of punctuation
exceptions.

(2) Walkers for structured formats, one sub-package per format (html, css, js,
json, json5, markdown, rust, php and source for everything chroma can lex).
A walker parses its input into a tree of Nodes, then visits the tree in
pre-order. Natural-language leaves (“prose”: comments, string contents, text
nodes, …) are passed through the spacing engine, all other leaves are copied
byte for byte.

# Spacing Rules

Let prev be the previous and cur be the current rune.

	prev == ' '                       => never insert
	Full  → Half, unless cur is a space, prev is CJK punctuation,
	              cur is ASCII punctuation or a line break,
	              or prev is a currency sign followed by a number
	Half  → Full, unless prev is an opening quote, bracket or sigil,
	              cur is CJK punctuation,
	              prev is a currency sign, or prev is a newline
	same class                        => never insert

Spacing never deletes or reorders characters. It is idempotent: applying it
twice yields the same result as applying it once.

# Concurrency

All functions of this package and its sub-packages are reentrant. Trees are
created per call and discarded afterwards, no mutable state is shared between
calls. Walkers may be used concurrently on different inputs.

# BSD License

Copyright (c) 2026, the paranoid-space authors

All rights reserved.
Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.
*/
package paranoid

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
)

// CT traces to the core-tracer.
func CT() tracing.Trace {
	return gtrace.CoreTracer
}

// MaxNesting is the maximum depth of nested constructs (elements, comments,
// template expressions, blockquotes) a walker will accept.
// Deeper nesting is reported as a syntax error.
const MaxNesting = 256

func init() {
	if gtrace.CoreTracer == nil {
		gtrace.CoreTracer = gologadapter.New()
		gtrace.CoreTracer.SetTraceLevel(tracing.LevelError)
	}
	if gtrace.SyntaxTracer == nil {
		gtrace.SyntaxTracer = gologadapter.New()
		gtrace.SyntaxTracer.SetTraceLevel(tracing.LevelError)
	}
}
