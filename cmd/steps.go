package cmd

import (
	"github.com/spf13/cobra"

	"github.com/chriserin/testgen/internal/pipeline"
)

var stepsFlags stageFlags

var stepsCmd = &cobra.Command{
	Use:   "steps",
	Short: "Classify feature files into step maps",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunStage(cmd.Context(), cmd.OutOrStdout(), env, pipeline.StepsStage, stepsFlags.options())
	},
}

func init() {
	stepsFlags.register(stepsCmd, "feature file")
	rootCmd.AddCommand(stepsCmd)
}
