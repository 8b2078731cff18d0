package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"sigs.k8s.io/yaml"

	"github.com/lucas-albers-lz4/cmig/pkg/exitcodes"
	"github.com/lucas-albers-lz4/cmig/pkg/migrate"
)

// Output formats of the extract command.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// newExtractCmd creates the cobra command for the 'extract' operation.
func newExtractCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <yaml_file>",
		Short: "List the container images referenced by a compose file",
		Long: "Reads a compose file and prints the distinct, valid image references of its " +
			"services (the 'image' field and 'build.image'), sorted, one per line.\n\n" +
			"The json and yaml formats add the normalized registry, repository and tag of " +
			"each image and whether the target list selects it for migration.",
		Example: `  cmig extract docker-compose.yml
  cmig extract docker-compose.yml --format json --target target-images.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, v, args[0])
		},
	}

	cmd.Flags().StringP(keyTarget, "t", "", "Target images file; marks which images a migration would rewrite")
	cmd.Flags().StringP(keyFormat, "f", formatText, "Output format (text, json, yaml)")
	return cmd
}

func runExtract(cmd *cobra.Command, v *viper.Viper, path string) error {
	format := strings.ToLower(v.GetString(keyFormat))
	switch format {
	case formatText, formatJSON, formatYAML:
	default:
		return &exitcodes.ExitCodeError{
			Code: exitcodes.ExitInputConfigurationError,
			Err:  fmt.Errorf("unsupported output format '%s' (use text, json or yaml)", format),
		}
	}

	allow, err := loadTargets(v)
	if err != nil {
		return err
	}
	m := migrate.New(AppFs, allow)
	out := cmd.OutOrStdout()

	if format == formatText {
		images, err := m.Extract(path)
		if err != nil {
			return wrapError(err)
		}
		_, err = fmt.Fprintln(out, strings.Join(images, "\n"))
		return wrapError(err)
	}

	infos, err := m.Describe(path)
	if err != nil {
		return wrapError(err)
	}

	var data []byte
	if format == formatJSON {
		data, err = json.MarshalIndent(infos, "", "  ")
		data = append(data, '\n')
	} else {
		data, err = yaml.Marshal(infos)
	}
	if err != nil {
		return &exitcodes.ExitCodeError{
			Code: exitcodes.ExitGeneralRuntimeError,
			Err:  fmt.Errorf("failed to render %s output: %w", format, err),
		}
	}
	_, err = out.Write(data)
	return wrapError(err)
}
