package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	actionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	unknownStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// ShowHeader prints the scenario title of a step map listing.
func ShowHeader(w io.Writer, scenario string, steps int) {
	fmt.Fprintf(w, "%s  %s\n", headerStyle.Render(scenario), skipStyle.Render(fmt.Sprintf("%d steps", steps)))
}

// ShowStep prints one classified step. The action column is padded to
// actionWidth so selector names line up.
func ShowStep(w io.Writer, action, selectorName, selector, note string, actionWidth int) {
	style := actionStyle
	if action == "unknown" {
		style = unknownStyle
	}
	out := "  " + style.Render(fmt.Sprintf("%-*s", actionWidth, action)) + "  " + selectorName
	if selector != "" {
		out += "  " + skipStyle.Render(selector)
	}
	if note != "" {
		out += fmt.Sprintf("  %q", note)
	}
	fmt.Fprintln(w, out)
}

// ListRow prints one feature: its base name, scenario count and the state of
// its step map.
func ListRow(w io.Writer, base string, scenarios int, state string, baseWidth int) {
	st := skipStyle
	switch state {
	case "missing":
		st = warnStyle
	case "stale":
		st = dryStyle
	}
	fmt.Fprintf(w, "%-*s  %3d scenarios  %s\n", baseWidth, base, scenarios, st.Render(state))
}

// StatusBlock prints the outcome counts of one stage's latest run.
func StatusBlock(w io.Writer, stage, runID, startedAt string, counts []Count) {
	fmt.Fprintf(w, "%s  %s  %s\n", headerStyle.Render(stage), startedAt, skipStyle.Render(runID))
	if len(counts) == 0 {
		fmt.Fprintln(w, "  no artifacts recorded")
		return
	}
	for _, c := range counts {
		fmt.Fprintf(w, "  %s: %d\n", c.Label, c.N)
	}
}

// NoRun reports a stage with no recorded runs.
func NoRun(w io.Writer, stage string) {
	fmt.Fprintf(w, "%s  %s\n", headerStyle.Render(stage), skipStyle.Render("never run"))
}

// Rule prints a thin separator sized to width.
func Rule(w io.Writer, width int) {
	fmt.Fprintln(w, skipStyle.Render(strings.Repeat("─", width)))
}
