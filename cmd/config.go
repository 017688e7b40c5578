package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"luaveil.dev/pkg/luaveil/internal/adapter"
	m "luaveil.dev/pkg/luaveil/internal/model"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "luaveil"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	levelFlagName         = "level"
	seedFlagName          = "seed"
	outputFlagName        = "output"
	excludeFlagName       = "exclude"
	parallelFlagName      = "parallel"
	verifyFlagName        = "verify"
	cfProbabilityFlagName = "cf-probability"
	verboseFlagName       = "verbose"
	logFileFlagName       = "log-file"

	levelConfigKey         = "obfuscate.level"
	parallelConfigKey      = "obfuscate.parallel"
	verifyConfigKey        = "obfuscate.verify"
	verifyTimeoutConfigKey = "obfuscate.verify_timeout"
	cfProbabilityConfigKey = "obfuscate.control_flow_probability"
	excludeConfigKey       = "paths.exclude"
	sessionFileConfigKey   = "session.file"

	defaultLevel         = int(m.LevelStandard)
	defaultParallel      = 1
	defaultVerify        = false
	defaultOutputDir     = ".luaveil-out"
	defaultSessionFile   = ".luaveil/session.yaml"
	defaultCFProbability = -1.0

	envPrefix = "LUAVEIL"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".luaveil.log"
	defaultLogLevel      = "info"
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

func init() {
	// A missing .env is the common case.
	_ = godotenv.Load()

	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	setDefaults()

	if err := readConfig(viper.GetViper()); err != nil {
		slog.Warn("Ignoring config file", "file", viper.ConfigFileUsed(), "error", err)
	}
}

// readConfig loads the config file into v. A missing file is not an error;
// a file that exists but cannot be read or parsed is.
func readConfig(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("read config %s: %w", v.ConfigFileUsed(), err)
}

func setDefaults() {
	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(levelConfigKey, defaultLevel)
	viper.SetDefault(parallelConfigKey, defaultParallel)
	viper.SetDefault(verifyConfigKey, defaultVerify)
	viper.SetDefault(verifyTimeoutConfigKey, adapter.DefaultRunTimeout.String())
	viper.SetDefault(cfProbabilityConfigKey, defaultCFProbability)
	viper.SetDefault(outputFlagName, defaultOutputDir)
	viper.SetDefault(excludeConfigKey, []string{})
	viper.SetDefault(sessionFileConfigKey, defaultSessionFile)

	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Numeric slog levels are accepted too (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at the configured level; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
