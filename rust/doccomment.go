package rust

import (
	"regexp"
	"strings"

	paranoid "github.com/kookyleo/paranoid-space"
	"github.com/kookyleo/paranoid-space/markdown"
)

var docPrefix = map[paranoid.Rule]*regexp.Regexp{
	RuleOuterLineDoc:  regexp.MustCompile(`^\s*/// ?`),
	RuleInnerLineDoc:  regexp.MustCompile(`^\s*//! ?`),
	RuleOuterBlockDoc: regexp.MustCompile(`^\s*\* ?`),
	RuleInnerBlockDoc: regexp.MustCompile(`^\s*\* ?`),
}

// docComment renders a doc comment. The content behind the line prefixes
// is processed as one Markdown document and zipped back line by line with
// the prefixes. If Markdown changes the number of lines, missing lines are
// left empty and surplus lines are dropped.
func docComment(sp *paranoid.Spacer, n *paranoid.Node) string {
	var open, close string
	var lines []string
	for _, ch := range n.Children {
		switch {
		case ch.Rule == RuleDocLine:
			lines = append(lines, ch.Text)
		case open == "":
			open = ch.Text
		default:
			close = ch.Text
		}
	}
	if len(lines) == 0 {
		return n.Source()
	}
	re := docPrefix[n.Rule]
	prefixes := make([]string, len(lines))
	var content strings.Builder
	for i, line := range lines {
		if loc := re.FindStringIndex(line); loc != nil {
			prefixes[i] = line[:loc[1]]
			line = line[loc[1]:]
		}
		content.WriteString(line)
	}
	spaced, err := markdown.ProcessSnippetWith(sp, content.String())
	if err != nil {
		paranoid.CT().Errorf("rust: doc comment is not Markdown, keeping it: %v", err)
		spaced = content.String()
	}
	out := splitDocLines(spaced)
	result := make([]string, len(prefixes))
	for i, prefix := range prefixes {
		if i < len(out) {
			result[i] = prefix + out[i]
		} else {
			result[i] = prefix
		}
	}
	text := strings.Join(result, "\n")
	if last := lines[len(lines)-1]; strings.HasSuffix(last, "\n") && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return open + text + close
}

// splitDocLines splits text into lines without their newlines. A final
// newline does not start another line.
func splitDocLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
