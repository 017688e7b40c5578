package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"luaveil.dev/pkg/luaveil/internal/controller"
	"luaveil.dev/pkg/luaveil/internal/domain"
	m "luaveil.dev/pkg/luaveil/internal/model"
)

var lastInputFlag bool
var lastOutputFlag bool
var lastLevelFlag bool

// lastCmd represents the last command.
var lastCmd = newLastCmd()

func newLastCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "last",
		Short: "Print the result of the last obfuscation",
		Long: `Print part of the last saved session: the obfuscated script (default),
the input it was produced from or the level that was used.`,
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return workflow.Last(cmd.Context(), domain.LastArgs{
				Session: m.Path(viper.GetString(sessionFileConfigKey)),
				Part:    sessionPart(),
			})
		},
	}

	cmd.Flags().BoolVar(&lastInputFlag, "input", false, "print the last input script")
	cmd.Flags().BoolVar(&lastOutputFlag, "output", false, "print the last obfuscated script")
	cmd.Flags().BoolVar(&lastLevelFlag, "level", false, "print the last obfuscation level")
	cmd.MarkFlagsMutuallyExclusive("input", "output", "level")

	return cmd
}

func init() {
	rootCmd.AddCommand(lastCmd)
}

func sessionPart() controller.SessionPart {
	switch {
	case lastInputFlag:
		return controller.SessionInput
	case lastLevelFlag:
		return controller.SessionLevel
	default:
		return controller.SessionOutput
	}
}
