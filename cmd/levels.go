package cmd

import (
	"github.com/spf13/cobra"
)

// levelsCmd represents the levels command.
var levelsCmd = newLevelsCmd()

func newLevelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "List obfuscation levels and the passes they run",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return workflow.Levels(cmd.Context())
		},
	}
}

func init() {
	rootCmd.AddCommand(levelsCmd)
}
