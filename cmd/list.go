package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriserin/testgen/internal/parser"
	"github.com/chriserin/testgen/internal/pipeline"
	"github.com/chriserin/testgen/internal/stepmap"
	"github.com/chriserin/testgen/internal/ui"
)

var staleFlag bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List feature files and the state of their step maps",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunList(cmd.OutOrStdout(), env, staleFlag)
	},
}

func init() {
	listCmd.Flags().BoolVar(&staleFlag, "stale", false, "Show only features whose step map is missing or out of date")
	rootCmd.AddCommand(listCmd)
}

// Step map states reported by list.
const (
	stateCurrent = "current"
	stateMissing = "missing"
	stateStale   = "stale"
)

type listRow struct {
	base      string
	scenarios int
	state     string
}

func RunList(w io.Writer, env *pipeline.Env, staleOnly bool) error {
	dir := env.FeaturesDir()
	matches, err := filepath.Glob(filepath.Join(dir, "*"+pipeline.FeatureSuffix))
	if err != nil {
		return fmt.Errorf("scanning %s: %w", dir, err)
	}
	sort.Strings(matches)
	if len(matches) == 0 {
		fmt.Fprintf(w, "no features in %s\n", dir)
		return nil
	}

	var rows []listRow
	baseWidth := 0
	for _, path := range matches {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		base := strings.TrimSuffix(filepath.Base(path), pipeline.FeatureSuffix)
		r := listRow{
			base:      base,
			scenarios: len(parser.ParseFile(path, content).Scenarios),
			state:     stepMapState(path, filepath.Join(env.StepMapsDir(), stepmap.FileName(base))),
		}
		if staleOnly && r.state == stateCurrent {
			continue
		}
		if len(base) > baseWidth {
			baseWidth = len(base)
		}
		rows = append(rows, r)
	}

	for _, r := range rows {
		ui.ListRow(w, r.base, r.scenarios, r.state, baseWidth)
	}
	return nil
}

// stepMapState compares modification times of a feature and its step map.
func stepMapState(feature, stepMap string) string {
	sm, err := os.Stat(stepMap)
	if err != nil {
		return stateMissing
	}
	f, err := os.Stat(feature)
	if err == nil && f.ModTime().After(sm.ModTime()) {
		return stateStale
	}
	return stateCurrent
}
