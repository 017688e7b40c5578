package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"luaveil.dev/pkg/luaveil/internal/domain"
	m "luaveil.dev/pkg/luaveil/internal/model"
)

var levelFlag string
var seedFlag int64
var outputFlag string
var parallelFlag int
var verifyFlag bool
var cfProbabilityFlag float64
var stdinFlag bool
var stdoutFlag bool
var diffFlag bool

// obfuscateCmd represents the obfuscate command.
var obfuscateCmd = newObfuscateCmd()

func newObfuscateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "obfuscate [paths...]",
		Aliases: []string{"obf"},
		Short:   "Obfuscate Lua scripts",
		Long:    obfuscateLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := obfuscateSettings(cmd)
			if err != nil {
				return err
			}

			if stdinFlag || (len(args) == 1 && args[0] == "-") {
				return workflow.ObfuscateStream(cmd.Context(), domain.StreamArgs{
					Settings: settings,
					Input:    cmd.InOrStdin(),
				})
			}

			return workflow.Obfuscate(cmd.Context(), domain.ObfuscateArgs{
				Settings: settings,
				Paths:    parsePaths(args),
				Exclude:  viper.GetStringSlice(excludeConfigKey),
				Output:   m.Path(viper.GetString(outputFlagName)),
				Threads:  viper.GetInt(parallelConfigKey),
				Stdout:   stdoutFlag,
				Diff:     diffFlag,
			})
		},
	}

	configureObfuscateFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(obfuscateCmd)
}

func configureObfuscateFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&levelFlag, levelFlagName, "l", viper.GetString(levelConfigKey), "obfuscation level: 1 (minimal), 2 (standard) or 3 (maximum)")
	bindFlagToConfig(cmd.Flags().Lookup(levelFlagName), levelConfigKey)

	cmd.Flags().Int64Var(&seedFlag, seedFlagName, 0, "seed for reproducible output (random when unset)")

	cmd.Flags().StringVarP(&outputFlag, outputFlagName, "o", viper.GetString(outputFlagName), "directory for obfuscated scripts (empty writes next to each source)")
	bindFlagToConfig(cmd.Flags().Lookup(outputFlagName), outputFlagName)

	cmd.Flags().IntVarP(&parallelFlag, parallelFlagName, "p", viper.GetInt(parallelConfigKey), "number of scripts obfuscated in parallel")
	bindFlagToConfig(cmd.Flags().Lookup(parallelFlagName), parallelConfigKey)

	cmd.Flags().BoolVar(&verifyFlag, verifyFlagName, viper.GetBool(verifyConfigKey), "run original and obfuscated scripts and compare results")
	bindFlagToConfig(cmd.Flags().Lookup(verifyFlagName), verifyConfigKey)

	cmd.Flags().Float64Var(&cfProbabilityFlag, cfProbabilityFlagName, viper.GetFloat64(cfProbabilityConfigKey), "override the per-line control-flow probability (0..1, negative keeps the level default)")
	bindFlagToConfig(cmd.Flags().Lookup(cfProbabilityFlagName), cfProbabilityConfigKey)

	cmd.Flags().BoolVar(&stdinFlag, "stdin", false, "read one script from standard input and print the result")
	cmd.Flags().BoolVar(&stdoutFlag, "stdout", false, "print obfuscated scripts instead of writing files")
	cmd.Flags().BoolVar(&diffFlag, "diff", false, "show a unified diff for every script")
}

func obfuscateSettings(cmd *cobra.Command) (domain.Settings, error) {
	level, err := m.ParseLevel(viper.GetString(levelConfigKey))
	if err != nil {
		return domain.Settings{}, err
	}

	probability := viper.GetFloat64(cfProbabilityConfigKey)
	if probability > 1 {
		return domain.Settings{}, fmt.Errorf("--%s must be at most 1, got %g", cfProbabilityFlagName, probability)
	}

	return domain.Settings{
		Level:                  level,
		Seed:                   seedFlag,
		Seeded:                 cmd.Flags().Changed(seedFlagName),
		ControlFlowProbability: probability,
		Verify:                 viper.GetBool(verifyConfigKey),
		Session:                m.Path(viper.GetString(sessionFileConfigKey)),
	}, nil
}
