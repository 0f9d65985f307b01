package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chriserin/testgen/internal/codegen"
	"github.com/chriserin/testgen/internal/db"
	"github.com/chriserin/testgen/internal/registry"
	"github.com/chriserin/testgen/internal/stepmap"
	"github.com/chriserin/testgen/pkg/logging"
)

// Tests generates page objects and specs for the selected step maps.
func Tests(ctx context.Context, env *Env, opts Options) (*Report, error) {
	report := &Report{Stage: db.StageTests, RunID: newRunID()}
	target, err := env.Target()
	if err != nil {
		return report, err
	}

	sel := env.selectInputs(env.StepMapsDir(), stepmap.FileSuffix, opts)
	for _, p := range sel.missing {
		report.add(inputMissing(p))
	}
	if len(sel.paths) == 0 {
		return report, noInputs(db.StageTests)
	}

	led := env.openLedger(db.StageTests, report.RunID, opts.DryRun)
	defer led.close()

	var clashes map[string][]string
	if target.Naming().SharedScope {
		clashes = typeClashes(env.StepMapsDir())
	}

	for _, p := range sel.paths {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if others := clashes[stepmap.BaseName(p)]; len(others) > 0 {
			item := Item{
				Path:    p,
				Kind:    "input",
				Outcome: Warned,
				Reason:  fmt.Sprintf("generates the same Go names as %s, rename one of them", strings.Join(others, ", ")),
			}
			logging.Warn("pipeline", "%s: %s", p, item.Reason)
			led.record(item)
			report.add(item)
			continue
		}
		items := env.testsOne(p, target, opts)
		led.record(items...)
		report.add(items...)
	}
	return report, nil
}

// typeClashes maps each step map base name in dir to the other base names
// whose page object type is the same.
func typeClashes(dir string) map[string][]string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	byType := map[string][]string{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), stepmap.FileSuffix) {
			continue
		}
		base := stepmap.BaseName(entry.Name())
		name := codegen.TypeName(base)
		byType[name] = append(byType[name], base)
	}
	clashes := map[string][]string{}
	for _, bases := range byType {
		if len(bases) < 2 {
			continue
		}
		for _, b := range bases {
			for _, other := range bases {
				if other != b {
					clashes[b] = append(clashes[b], other)
				}
			}
		}
	}
	return clashes
}

func (e *Env) testsOne(path string, target codegen.Target, opts Options) []Item {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return []Item{inputMissing(path)}
	}
	if err != nil {
		return []Item{inputFailed(path, err)}
	}
	sm, err := stepmap.Unmarshal(data)
	if err != nil {
		return []Item{inputFailed(path, err)}
	}

	base := stepmap.BaseName(path)
	reg := registry.Build(sm)
	arts, err := codegen.Generate(base, sm, reg, target)
	if err != nil {
		return []Item{inputFailed(path, err)}
	}
	logging.Debug("pipeline", "%s: %d accessors, %d scenarios", path, reg.Len(), sm.Len())

	var items []Item
	for _, a := range arts.All() {
		out := filepath.Join(e.dirFor(a.Kind), a.Name)
		items = append(items, emit(out, a.Kind.String(), []byte(a.Content), writePolicy{
			force:      opts.Force,
			dryRun:     opts.DryRun,
			createOnly: a.CreateOnly(),
		}))
	}
	return items
}
