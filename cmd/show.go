package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriserin/testgen/internal/pipeline"
	"github.com/chriserin/testgen/internal/stepmap"
	"github.com/chriserin/testgen/internal/ui"
)

var showCmd = &cobra.Command{
	Use:   "show <feature> [scenario]",
	Short: "Show the classified steps of a feature's step map",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		scenario := ""
		if len(args) == 2 {
			scenario = args[1]
		}
		return RunShow(cmd.OutOrStdout(), env, args[0], scenario)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

// RunShow prints every scenario of the step map for feature, or only the one
// named scenario.
func RunShow(w io.Writer, env *pipeline.Env, feature, scenario string) error {
	base := strings.TrimSuffix(stepmap.BaseName(feature), pipeline.FeatureSuffix)
	path := filepath.Join(env.StepMapsDir(), stepmap.FileName(base))

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("no step map for %s, run `testgen steps --file %s` first", base, base)
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	sm, err := stepmap.Unmarshal(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if scenario != "" {
		steps, ok := sm.Get(scenario)
		if !ok {
			return fmt.Errorf("scenario %q not found in %s", scenario, path)
		}
		showScenario(w, scenario, steps)
		return nil
	}

	first := true
	sm.Each(func(name string, steps []stepmap.ActionDescriptor) {
		if !first {
			fmt.Fprintln(w)
		}
		first = false
		showScenario(w, name, steps)
	})
	return nil
}

func showScenario(w io.Writer, name string, steps []stepmap.ActionDescriptor) {
	ui.ShowHeader(w, name, len(steps))
	width := 0
	for _, s := range steps {
		if len(s.Action) > width {
			width = len(s.Action)
		}
	}
	for _, s := range steps {
		ui.ShowStep(w, string(s.Action), s.SelectorName, s.Selector, s.Note, width)
	}
}
