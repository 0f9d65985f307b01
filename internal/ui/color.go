package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	genStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	skipStyle = lipgloss.NewStyle().Faint(true)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	dryStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

func line(w io.Writer, tag string, path, detail string) {
	out := tag + "  " + path
	if detail != "" {
		out += "  " + skipStyle.Render("("+detail+")")
	}
	fmt.Fprintln(w, out)
}

func GenLine(w io.Writer, path string) {
	line(w, genStyle.Render("gen "), path, "")
}

// SkipLine reports an existing file left untouched.
func SkipLine(w io.Writer, path, reason string) {
	line(w, skipStyle.Render("skip"), path, reason)
}

func WarnLine(w io.Writer, path, reason string) {
	line(w, warnStyle.Render("warn"), path, reason)
}

// DryLine reports a file a real run would write.
func DryLine(w io.Writer, path string) {
	line(w, dryStyle.Render("dry "), path, "would write")
}

func FailLine(w io.Writer, path string, err error) {
	line(w, failStyle.Render("fail"), path, err.Error())
}

// Count is one labelled number in a summary.
type Count struct {
	Label string
	N     int
}

// SummaryLine prints "<stage>: 2 generated, 1 skipped". Zero counts are
// left out; with nothing to report it prints "<stage>: nothing to do".
func SummaryLine(w io.Writer, stage string, counts []Count) {
	var parts []string
	for _, c := range counts {
		if c.N > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", c.N, c.Label))
		}
	}
	if len(parts) == 0 {
		fmt.Fprintf(w, "%s: nothing to do\n", stage)
		return
	}
	fmt.Fprintf(w, "%s: %s\n", stage, strings.Join(parts, ", "))
}
