package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sergi/go-diff/diffmatchpatch"
)

var (
	addStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	delStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// Diff prints a line diff from before to after, prefixing changed lines
// with + or -. Unchanged lines are elided.
func Diff(w io.Writer, before, after string) {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	changed := false
	for _, d := range diffs {
		var prefix string
		var style lipgloss.Style
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix, style = "+ ", addStyle
		case diffmatchpatch.DiffDelete:
			prefix, style = "- ", delStyle
		default:
			continue
		}
		changed = true
		for _, l := range splitLines(d.Text) {
			fmt.Fprintln(w, style.Render(prefix+l))
		}
	}
	if !changed {
		fmt.Fprintln(w, skipStyle.Render("  (no changes)"))
	}
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, "\n")
}
