package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lucas-albers-lz4/cmig/pkg/exitcodes"
	log "github.com/lucas-albers-lz4/cmig/pkg/log"
	"github.com/lucas-albers-lz4/cmig/pkg/migrate"
)

// newMigrateCmd creates the cobra command for the 'migrate' operation.
func newMigrateCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate <yaml_file>",
		Short: "Rewrite the image references of a compose file to a new registry",
		Long: "Rewrites every valid image reference of a compose file to <registry>/<name>:<tag>, " +
			"where <name> is the last path segment of the original image and <tag> its tag " +
			"(latest when missing). Registry and namespace segments of the original are dropped.\n\n" +
			"The result is written to --output, or next to the input with '.migrated' inserted " +
			"before the extension. When a target images file is given only listed images are rewritten.",
		Example: `  cmig migrate docker-compose.yml --registry registry.example.com
  cmig migrate docker-compose.yml -r harbor.local/mirror -o out.yml --target target-images.txt
  cmig migrate docker-compose.yml -r harbor.local/mirror --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd, v, args[0])
		},
	}

	cmd.Flags().StringP(keyRegistry, "r", "", "New registry base URL (required)")
	cmd.Flags().StringP(keyOutput, "o", "", "Output file path (default: <input>.migrated.<ext>)")
	cmd.Flags().StringP(keyTarget, "t", "", "Target images file; only listed images are migrated")
	cmd.Flags().Bool(keyDryRun, false, "Print the migrated document to stdout instead of writing a file")
	return cmd
}

func runMigrate(cmd *cobra.Command, v *viper.Viper, path string) error {
	registry := v.GetString(keyRegistry)
	if registry == "" {
		return &exitcodes.ExitCodeError{
			Code: exitcodes.ExitMissingRequiredFlag,
			Err:  errors.New("--registry is required for migrate command"),
		}
	}

	allow, err := loadTargets(v)
	if err != nil {
		return err
	}
	m := migrate.New(AppFs, allow)

	if v.GetBool(keyDryRun) {
		data, rewrites, err := m.Render(path, registry)
		if err != nil {
			return wrapError(err)
		}
		log.Info("Dry run, nothing written", "input", path, "rewritten", len(rewrites))
		_, err = cmd.OutOrStdout().Write(data)
		return wrapError(err)
	}

	result, err := m.Migrate(path, registry, v.GetString(keyOutput))
	if err != nil {
		return wrapError(err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Migration complete. Output written to: %s\n", result.OutputPath)
	return wrapError(err)
}
