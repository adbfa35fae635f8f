package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/peopleforrester/claude-dotfiles/internal/config"
	"github.com/peopleforrester/claude-dotfiles/internal/errors"
	"github.com/peopleforrester/claude-dotfiles/pkg/fileutil"
)

var configInitForce bool

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false,
		"overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the cdot configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	Long: `Write a config file populated with the default settings, ready to
edit. The file goes to ~/.config/cdot/config.yaml unless --config points
elsewhere. An existing file is left alone unless --force is given.`,
	Example: `  # Create the default config file
  cdot config init

  # Replace a broken config file with a fresh one
  cdot config init --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runConfigInitWithWriter(cmd.OutOrStdout())
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration as cdot sees it after merging the config
file, environment variables, and built-in defaults.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runConfigShowWithWriter(cmd.OutOrStdout())
	},
}

func runConfigInitWithWriter(w io.Writer) error {
	path := configFile
	if path == "" {
		path = config.DefaultPath()
	}

	if fileutil.Exists(path) && !configInitForce {
		return errors.NewUserError(
			errors.Newf("config file already exists at %s", path),
			"Use --force to overwrite it")
	}

	if err := config.Save(path, config.Default()); err != nil {
		return err
	}

	fmt.Fprintf(w, "%s✓ wrote %s%s\n", colorGreen, path, colorReset)
	return nil
}

func runConfigShowWithWriter(w io.Writer) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}
	_, err = w.Write(data)
	return errors.Wrap(err, "writing output")
}
