package main

import (
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
)

const diffContext = 2

var (
	headerColor = color.New(color.Bold)
	hunkColor   = color.New(color.FgCyan)
	deleteColor = color.New(color.FgRed)
	insertColor = color.New(color.FgGreen)
)

// writeDiff prints a unified diff of before and after. Lines are colored
// unless color output is disabled.
func writeDiff(w io.Writer, path, before, after string) error {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(before),
		B:        splitLines(after),
		FromFile: path,
		ToFile:   path,
		Context:  diffContext,
	})
	if err != nil || text == "" {
		return err
	}
	for i, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		switch {
		case i < 2:
			headerColor.Fprintln(w, line)
		case strings.HasPrefix(line, "@@"):
			hunkColor.Fprintln(w, line)
		case strings.HasPrefix(line, "-"):
			deleteColor.Fprintln(w, line)
		case strings.HasPrefix(line, "+"):
			insertColor.Fprintln(w, line)
		default:
			io.WriteString(w, line+"\n")
		}
	}
	return nil
}

// splitLines splits s into lines for difflib, each ending in a newline.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		return lines[:len(lines)-1]
	}
	lines[len(lines)-1] += "\n"
	return lines
}
