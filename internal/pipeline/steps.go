package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chriserin/testgen/internal/classify"
	"github.com/chriserin/testgen/internal/db"
	"github.com/chriserin/testgen/internal/parser"
	"github.com/chriserin/testgen/internal/stepmap"
	"github.com/chriserin/testgen/pkg/logging"
)

// FeatureSuffix marks the inputs of the steps stage.
const FeatureSuffix = ".feature"

// Steps classifies the selected feature files and writes one step map per
// feature.
func Steps(ctx context.Context, env *Env, opts Options) (*Report, error) {
	report := &Report{Stage: db.StageSteps, RunID: newRunID()}
	sel := env.selectInputs(env.FeaturesDir(), FeatureSuffix, opts)
	for _, p := range sel.missing {
		report.add(inputMissing(p))
	}
	if len(sel.paths) == 0 {
		return report, noInputs(db.StageSteps)
	}

	led := env.openLedger(db.StageSteps, report.RunID, opts.DryRun)
	defer led.close()

	c := classify.New(env.Selectors)
	for _, p := range sel.paths {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		items := env.stepsOne(p, c, opts)
		led.record(items...)
		report.add(items...)
	}
	return report, nil
}

func (e *Env) stepsOne(path string, c stepmap.Classifier, opts Options) []Item {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return []Item{inputMissing(path)}
	}
	if err != nil {
		return []Item{inputFailed(path, err)}
	}

	pf := parser.ParseFile(path, content)
	var items []Item
	for _, perr := range pf.Errors {
		logging.Warn("parser", "%s:%d: %s", path, perr.Line, perr.Message)
		items = append(items, Item{
			Path:    path,
			Kind:    "input",
			Outcome: Warned,
			Reason:  fmt.Sprintf("line %d: %s", perr.Line, perr.Message),
		})
	}
	if len(pf.Background) > 0 {
		logging.Debug("parser", "%s: %d background steps are not part of any scenario", path, len(pf.Background))
	}

	scenarios := make([]stepmap.Scenario, 0, len(pf.Scenarios))
	for _, s := range pf.Scenarios {
		scenarios = append(scenarios, stepmap.Scenario{Name: s.Name, Steps: s.Steps})
	}
	sm := stepmap.Assemble(scenarios, c)
	data, err := stepmap.Marshal(sm)
	if err != nil {
		return append(items, inputFailed(path, err))
	}

	base := strings.TrimSuffix(filepath.Base(path), FeatureSuffix)
	out := filepath.Join(e.StepMapsDir(), stepmap.FileName(base))
	logging.Debug("pipeline", "%s: %d scenarios, %d steps", path, sm.Len(), sm.StepCount())
	return append(items, emit(out, "stepMap", data, writePolicy{force: opts.Force, dryRun: opts.DryRun}))
}
