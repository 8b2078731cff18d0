// Package main implements the command-line interface for cmig, the compose
// image migrator. It lists the container images referenced by a compose file
// and rewrites them to point at a new registry.
//
// The CLI commands are:
//   - extract: print the images referenced by a compose file
//   - migrate: rewrite image references to a new registry and write the result
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lucas-albers-lz4/cmig/pkg/compose"
	"github.com/lucas-albers-lz4/cmig/pkg/exitcodes"
	log "github.com/lucas-albers-lz4/cmig/pkg/log"
	"github.com/lucas-albers-lz4/cmig/pkg/targets"
)

// BinaryVersion is set at build time with -ldflags "-X main.BinaryVersion=...".
var BinaryVersion = "dev"

const (
	envPrefix      = "CMIG"
	configFileName = ".cmig"
	configFileType = "yaml"
)

// Configuration keys. Each is also a flag name and, upper-cased with '-'
// replaced by '_', an environment variable under the CMIG_ prefix.
const (
	keyLogLevel  = "log-level"
	keyLogFormat = "log-format"
	keyDebug     = "debug"
	keyRegistry  = "registry"
	keyOutput    = "output"
	keyTarget    = "target"
	keyFormat    = "format"
	keyDryRun    = "dry-run"
)

// AppFs defines the filesystem to use, allows mocking in tests.
var AppFs = afero.NewOsFs()

// SetFs replaces the current filesystem with the provided one and returns a function to restore it.
func SetFs(newFs afero.Fs) func() {
	oldFs := AppFs
	AppFs = newFs
	return func() { AppFs = oldFs }
}

// newRootCmd builds the command tree. Every tree gets its own viper instance
// so settings never leak between invocations.
func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "cmig",
		Short: "Extract and migrate container image references in compose files",
		Long: `cmig reads compose files, lists the container images their services use and
rewrites those references to a new registry while keeping their tags.

Only the 'image' field of each service and of its 'build' section is changed;
everything else in the file is written back as it was. An optional target list
restricts a migration to selected images.`,
		Version:       BinaryVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(v, cmd, cfgFile); err != nil {
				return err
			}
			return setupLogging(v)
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.cmig.yaml or $HOME/.cmig.yaml)")
	cmd.PersistentFlags().String(keyLogLevel, "info", "set log level (debug, info, warn, error)")
	cmd.PersistentFlags().String(keyLogFormat, "", "log format (json, text); defaults to $LOG_FORMAT or json")
	cmd.PersistentFlags().Bool(keyDebug, false, "enable debug logging")

	cmd.AddCommand(newExtractCmd(v))
	cmd.AddCommand(newMigrateCmd(v))
	return cmd
}

// Execute runs the root command. It is called by main.main().
func Execute() error {
	return newRootCmd().Execute()
}

// initConfig wires flags, CMIG_* environment variables and the optional
// config file into v. Flags win over environment, environment over the file.
func initConfig(v *viper.Viper, cmd *cobra.Command, cfgFile string) error {
	v.SetFs(AppFs)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return &exitcodes.ExitCodeError{
			Code: exitcodes.ExitInputConfigurationError,
			Err:  fmt.Errorf("failed to bind flags: %w", err),
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return &exitcodes.ExitCodeError{
			Code: exitcodes.ExitInputConfigurationError,
			Err:  fmt.Errorf("failed to read config file: %w", err),
		}
	}
	log.Debug("Loaded config file", "file", v.ConfigFileUsed())
	return nil
}

// setupLogging applies the log format and level. --debug overrides --log-level.
func setupLogging(v *viper.Viper) error {
	if format := v.GetString(keyLogFormat); format != "" {
		if err := log.SetFormat(format); err != nil {
			return &exitcodes.ExitCodeError{Code: exitcodes.ExitInputConfigurationError, Err: err}
		}
	}

	level := log.LevelInfo
	if v.GetBool(keyDebug) {
		level = log.LevelDebug
	} else if levelStr := v.GetString(keyLogLevel); levelStr != "" {
		parsed, err := log.ParseLevel(levelStr)
		if err != nil {
			log.Warn("Invalid log level, using default", "level", levelStr, "default", level.String(), "error", err)
		} else {
			level = parsed
		}
	}
	log.SetLevel(level)
	log.Debug("Logging configured", "level", level.String(), "version", BinaryVersion)
	return nil
}

// loadTargets loads the allow-list named by the target setting. No setting
// means no allow-list. A missing file only logs a warning so the migration
// falls back to rewriting every image.
func loadTargets(v *viper.Viper) (targets.Set, error) {
	path := v.GetString(keyTarget)
	if path == "" {
		return nil, nil
	}

	set, err := targets.Load(AppFs, path)
	if err != nil {
		if errors.Is(err, targets.ErrNotFound) {
			log.Warn("Target images file not found, will migrate all images", "file", path)
			return nil, nil
		}
		return nil, &exitcodes.ExitCodeError{Code: exitcodes.ExitIOError, Err: err}
	}
	log.Info("Loaded target images", "file", path, "entries", set.Len())
	return set, nil
}

// wrapError attaches the exit code matching a compose or filesystem failure.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := exitcodes.IsExitCodeError(err); ok {
		return err
	}

	code := exitcodes.ExitIOError
	switch {
	case errors.Is(err, compose.ErrNotFound):
		code = exitcodes.ExitFileNotFound
	case errors.Is(err, compose.ErrInvalidFormat):
		code = exitcodes.ExitInvalidFormat
	}
	return &exitcodes.ExitCodeError{Code: code, Err: err}
}
