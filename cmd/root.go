// Package cmd provides the root command and CLI setup for luaveil.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"luaveil.dev/pkg/luaveil/internal/adapter"
	"luaveil.dev/pkg/luaveil/internal/controller"
	"luaveil.dev/pkg/luaveil/internal/domain"
	m "luaveil.dev/pkg/luaveil/internal/model"
)

var sourceFSAdapter adapter.SourceFSAdapter
var luaRunner adapter.LuaRunnerAdapter
var sessionStore adapter.SessionStore
var obfuscator domain.Obfuscator
var workflow domain.Workflow
var ui controller.UI

// excludePatterns is a root-level flag that filters files for applicable commands.
var excludePatterns []string

var verboseFlag bool
var logFileFlag string

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	sourceFSAdapter = adapter.NewLocalSourceFSAdapter()
	luaRunner = adapter.NewLocalLuaRunnerAdapter(viper.GetDuration(verifyTimeoutConfigKey))
	sessionStore = adapter.NewYAMLSessionStore()
	obfuscator = domain.NewObfuscator()
	workflow = domain.NewWorkflow(
		sourceFSAdapter,
		luaRunner,
		sessionStore,
		ui,
		obfuscator,
	)
}

const pathPatternsHelp = `Supports Go-style path patterns:
  - ./...          recursively scan current directory
  - ./src/...      recursively scan src directory
  - ./a.lua ./lib  a single script and the top level of a directory
  - -              read one script from standard input`

const rootLongDescription = `luaveil obfuscates Lua source code. Scripts keep their behaviour while
locals are renamed, string literals are encrypted behind generated decoders
and, at higher levels, dead control flow, junk functions and comment noise
are mixed in.

` + pathPatternsHelp

const obfuscateLongDescription = `Obfuscate Lua scripts at the selected level (default: current directory).

Level 1 (Minimal) renames locals and encrypts strings with a fixed key.
Level 2 (Standard) adds control-flow camouflage and per-string keys.
Level 3 (Maximum) adds tamper checks, junk functions, key schedules and noise.

` + pathPatternsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "luaveil",
		Short: "Lua source obfuscator",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}
}

func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude files matching regex (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)

	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, viper.GetString(logFilenameKey), "log file path")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFileFlagName), logFilenameKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		stop()
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}
