package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/chriserin/testgen/internal/config"
	"github.com/chriserin/testgen/internal/pipeline"
	"github.com/chriserin/testgen/pkg/logging"
)

var (
	configFlag  string
	verboseFlag bool

	env      *pipeline.Env
	closeLog func() error
)

var rootCmd = &cobra.Command{
	Use:          "testgen",
	Short:        "testgen — generate browser tests from Gherkin features",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := pipeline.Load(configFlag)
		if err != nil {
			return err
		}
		env = loaded

		level, err := logging.ParseLevel(env.Settings.Log.Level)
		if err != nil {
			return err
		}
		if verboseFlag {
			level = logging.LevelDebug
		}
		logFile := ""
		if env.Settings.Log.File != "" {
			logFile = env.Path(env.Settings.Log.File)
		}
		closeLog = logging.Init(logging.Options{Level: level, Output: cmd.ErrOrStderr(), File: logFile})
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if closeLog != nil {
			return closeLog()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", config.DefaultFile, "Path to the settings file")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Debug logging and dry-run diffs")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
