package cmd

import (
	"github.com/spf13/cobra"

	"github.com/chriserin/testgen/internal/pipeline"
)

var testsFlags stageFlags

var testsCmd = &cobra.Command{
	Use:   "tests",
	Short: "Generate page objects and specs from step maps",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunStage(cmd.Context(), cmd.OutOrStdout(), env, pipeline.TestsStage, testsFlags.options())
	},
}

func init() {
	testsFlags.register(testsCmd, "step map")
	rootCmd.AddCommand(testsCmd)
}
