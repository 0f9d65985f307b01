package cmd

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/chriserin/testgen/internal/pipeline"
)

var syncFlags stageFlags

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run steps then tests",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunSync(cmd.Context(), cmd.OutOrStdout(), env, syncFlags.options())
	},
}

func init() {
	syncFlags.register(syncCmd, "feature")
	rootCmd.AddCommand(syncCmd)
}

// RunSync runs the steps stage, then the tests stage over the step maps of
// the same features. A dry run generates tests from the step maps already on
// disk. In watch mode both stages watch their inputs side by side.
func RunSync(ctx context.Context, w io.Writer, env *pipeline.Env, opts pipeline.Options) error {
	if err := requireSelection(opts); err != nil {
		return err
	}
	testsOpts := opts
	testsOpts.Files = featureBases(opts.Files)

	if opts.Watch {
		var mu sync.Mutex
		out := &lockedWriter{w: w, mu: &mu}
		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i, run := range []struct {
			stage pipeline.Stage
			opts  pipeline.Options
		}{{pipeline.StepsStage, opts}, {pipeline.TestsStage, testsOpts}} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs[i] = RunStage(ctx, out, env, run.stage, run.opts)
			}()
		}
		wg.Wait()
		return errors.Join(errs...)
	}

	if err := RunStage(ctx, w, env, pipeline.StepsStage, opts); err != nil {
		return err
	}
	return RunStage(ctx, w, env, pipeline.TestsStage, testsOpts)
}

// featureBases turns feature file arguments into names the tests stage
// resolves against the step map directory.
func featureBases(files []string) []string {
	var out []string
	for _, f := range files {
		out = append(out, strings.TrimSuffix(filepath.Base(f), pipeline.FeatureSuffix))
	}
	return out
}

type lockedWriter struct {
	w  io.Writer
	mu *sync.Mutex
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
