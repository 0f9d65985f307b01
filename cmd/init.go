package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriserin/testgen/internal/db"
	"github.com/chriserin/testgen/internal/pipeline"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize testgen in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunInit(cmd.OutOrStdout(), env)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

// RunInit creates the input directories and the run ledger, and keeps the
// ledger out of git.
func RunInit(w io.Writer, env *pipeline.Env) error {
	ledger := env.Path(env.Settings.Paths.Ledger)
	for _, dir := range []string{env.FeaturesDir(), env.StepMapsDir(), filepath.Dir(ledger)} {
		if err := ensureDir(w, dir); err != nil {
			return err
		}
	}

	_, err := os.Stat(ledger)
	dbExists := err == nil
	sqlDB, err := db.Open(ledger)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	sqlDB.Close()
	if dbExists {
		fmt.Fprintf(w, "%s already exists\n", ledger)
	} else {
		fmt.Fprintf(w, "%s created\n", ledger)
	}

	entry := filepath.ToSlash(env.Settings.Paths.Ledger)
	msgs, err := ensureGitignore(env.Path(".gitignore"), entry)
	if err != nil {
		return fmt.Errorf("updating .gitignore: %w", err)
	}
	for _, msg := range msgs {
		fmt.Fprintln(w, msg)
	}
	return nil
}

func ensureDir(w io.Writer, dir string) error {
	_, err := os.Stat(dir)
	exists := err == nil
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	if exists {
		fmt.Fprintf(w, "%s/ already exists\n", dir)
	} else {
		fmt.Fprintf(w, "%s/ created\n", dir)
	}
	return nil
}

func ensureGitignore(path, entry string) ([]string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte(entry+"\n"), 0o644); err != nil {
			return nil, err
		}
		return []string{".gitignore created", entry + " added to .gitignore"}, nil
	}
	if err != nil {
		return nil, err
	}

	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == entry {
			return []string{entry + " already in .gitignore"}, nil
		}
	}

	content := string(data)
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += entry + "\n"

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return nil, err
	}
	return []string{entry + " added to .gitignore"}, nil
}
