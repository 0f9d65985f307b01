package cmd

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chriserin/testgen/internal/db"
	"github.com/chriserin/testgen/internal/pipeline"
	"github.com/chriserin/testgen/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status [path...]",
	Short: "Show the latest run of each stage, or the last outcome of files",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return RunStatusFiles(cmd.OutOrStdout(), env, args)
		}
		return RunStatusReport(cmd.OutOrStdout(), env)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func openLedger(env *pipeline.Env) (*sql.DB, error) {
	path := env.Path(env.Settings.Paths.Ledger)
	if _, err := os.Stat(filepath.Dir(path)); os.IsNotExist(err) {
		return nil, fmt.Errorf("run `testgen init` first")
	}
	sqlDB, err := db.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	return sqlDB, nil
}

// RunStatusReport prints outcome counts for the latest steps and tests runs.
func RunStatusReport(w io.Writer, env *pipeline.Env) error {
	sqlDB, err := openLedger(env)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	for i, stage := range []string{db.StageSteps, db.StageTests} {
		if i > 0 {
			ui.Rule(w, 40)
		}
		run, ok, err := db.LatestRun(sqlDB, stage)
		if err != nil {
			return err
		}
		if !ok {
			ui.NoRun(w, stage)
			continue
		}
		rows, err := db.OutcomeCounts(sqlDB, run.ID)
		if err != nil {
			return err
		}
		counts := make([]ui.Count, 0, len(rows))
		for _, r := range rows {
			counts = append(counts, ui.Count{Label: r.Outcome, N: r.Count})
		}
		ui.StatusBlock(w, stage, run.UUID, run.StartedAt, counts)
	}
	return nil
}

// RunStatusFiles prints the most recent recorded outcome of each path.
func RunStatusFiles(w io.Writer, env *pipeline.Env, paths []string) error {
	sqlDB, err := openLedger(env)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	for _, p := range paths {
		outcome, ok, err := db.LastOutcome(sqlDB, filepath.Clean(p))
		if err != nil {
			return err
		}
		if !ok {
			outcome = "never recorded"
		}
		fmt.Fprintf(w, "%s  %s\n", p, outcome)
	}
	return nil
}
