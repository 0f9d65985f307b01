package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"sync"

	"github.com/chriserin/testgen/internal/stepmap"
	"github.com/chriserin/testgen/internal/watch"
	"github.com/chriserin/testgen/pkg/logging"
)

// Stage describes one generation stage for watch mode.
type Stage struct {
	Name   string
	Suffix string
	Dir    func(*Env) string
	Run    func(context.Context, *Env, Options) (*Report, error)
}

var (
	StepsStage = Stage{Name: "steps", Suffix: FeatureSuffix, Dir: (*Env).FeaturesDir, Run: Steps}
	TestsStage = Stage{Name: "tests", Suffix: stepmap.FileSuffix, Dir: (*Env).StepMapsDir, Run: Tests}
)

// Watch runs stage once over the selected inputs, then again for every input
// that is created or written, until ctx is done. Runs for one input are
// serialized; onReport is never called concurrently.
func Watch(ctx context.Context, env *Env, opts Options, stage Stage, onReport func(*Report)) error {
	dir := stage.Dir(env)
	w, err := watch.New(dir, stage.Suffix)
	if err != nil {
		return err
	}

	var mu sync.Mutex
	report := func(r *Report) {
		mu.Lock()
		defer mu.Unlock()
		onReport(r)
	}

	r, err := stage.Run(ctx, env, opts)
	if err != nil && !errors.Is(err, ErrNoInputs) {
		return err
	}
	report(r)

	wanted := map[string]bool{}
	for _, f := range opts.Files {
		wanted[resolveName(dir, f, stage.Suffix)] = true
	}
	matcher := env.ignoreMatcher()

	return w.Run(ctx, func(path string) {
		if !opts.All && !wanted[filepath.Clean(path)] {
			return
		}
		if opts.All && matcher != nil && matcher.MatchesPath(filepath.Base(path)) {
			return
		}
		single := opts
		single.All = false
		single.Files = []string{path}
		r, err := stage.Run(ctx, env, single)
		if err != nil && !errors.Is(err, ErrNoInputs) {
			logging.Error("watch", err, "%s: re-running %s", stage.Name, path)
		}
		report(r)
	})
}
