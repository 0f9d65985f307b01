package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chriserin/testgen/internal/pipeline"
	"github.com/chriserin/testgen/internal/ui"
)

// stageFlags are the flags shared by steps, tests and sync.
type stageFlags struct {
	all    bool
	files  []string
	force  bool
	dryRun bool
	watch  bool
}

func (f *stageFlags) register(cmd *cobra.Command, noun string) {
	cmd.Flags().BoolVar(&f.all, "all", false, "Process every "+noun)
	cmd.Flags().StringSliceVar(&f.files, "file", nil, "Process the named "+noun+" (repeatable)")
	cmd.Flags().BoolVar(&f.force, "force", false, "Overwrite existing output")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Report what would be written without writing")
	cmd.Flags().BoolVar(&f.watch, "watch", false, "Keep running and regenerate on change")
}

func (f *stageFlags) options() pipeline.Options {
	return pipeline.Options{
		All:     f.all,
		Files:   f.files,
		Force:   f.force,
		DryRun:  f.dryRun,
		Watch:   f.watch,
		Verbose: verboseFlag,
	}
}

func requireSelection(opts pipeline.Options) error {
	if !opts.All && len(opts.Files) == 0 {
		return fmt.Errorf("%w: pass --all or --file", pipeline.ErrNoInputs)
	}
	return nil
}

// RunStage runs stage once and prints its report, or watches its inputs
// until ctx is done when opts.Watch is set.
func RunStage(ctx context.Context, w io.Writer, env *pipeline.Env, stage pipeline.Stage, opts pipeline.Options) error {
	if err := requireSelection(opts); err != nil {
		return err
	}
	if opts.Watch {
		return pipeline.Watch(ctx, env, opts, stage, func(r *pipeline.Report) {
			printReport(w, r, opts.Verbose)
		})
	}
	r, err := stage.Run(ctx, env, opts)
	printReport(w, r, opts.Verbose)
	if err != nil {
		return err
	}
	if r.Unusable() {
		return fmt.Errorf("%s: %w", stage.Name, pipeline.ErrNoOutput)
	}
	return nil
}

func printReport(w io.Writer, r *pipeline.Report, verbose bool) {
	if r == nil {
		return
	}
	for _, it := range r.Items {
		switch it.Outcome {
		case pipeline.Generated:
			ui.GenLine(w, it.Path)
		case pipeline.Skipped:
			ui.SkipLine(w, it.Path, it.Reason)
		case pipeline.Warned:
			ui.WarnLine(w, it.Path, it.Reason)
		case pipeline.DryRun:
			ui.DryLine(w, it.Path)
			if verbose {
				ui.Diff(w, it.Before, it.After)
			}
		case pipeline.Failed:
			err := it.Err
			if err == nil {
				err = errors.New(it.Reason)
			}
			ui.FailLine(w, it.Path, err)
		}
	}
	counts := make([]ui.Count, 0, len(pipeline.Outcomes))
	for _, o := range pipeline.Outcomes {
		counts = append(counts, ui.Count{Label: string(o), N: r.Count(o)})
	}
	ui.SummaryLine(w, r.Stage, counts)
}
