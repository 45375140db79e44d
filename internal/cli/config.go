package cli

import (
	"fmt"

	"github.com/javajack/xlbudget/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
	Long: `Manages the xlbudget configuration.

Config file location: ~/.xlbudget/config.yaml (override with --config or
$XLBUDGET_CONFIG). Values may reference environment variables as ${NAME}.

Subcommands:
  show    print the effective configuration
  init    write a default configuration file
  path    print the configuration file path`,
}

var configShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Print the effective configuration",
	Annotations: map[string]string{annotationRawConfig: "true"},
	RunE:        runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Writes the default configuration to the config file path.

Fails if the file already exists unless --force is given.`,
	Annotations: map[string]string{annotationRawConfig: "true"},
	RunE:        runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:         "path",
	Short:       "Print the configuration file path",
	Annotations: map[string]string{annotationRawConfig: "true"},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), loader.ConfigPath())
	},
}

var configForce bool

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite an existing config file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)

	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	shown, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if loader.Exists() {
		fmt.Fprintf(cmd.OutOrStdout(), "# config file: %s\n", loader.ConfigPath())
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "# config file: (defaults)")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "# journal: %s\n", loader.JournalPath(shown))

	data, err := yaml.Marshal(shown)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if loader.Exists() && !configForce {
		return fmt.Errorf("config file already exists: %s\nuse --force to overwrite", loader.ConfigPath())
	}
	if err := loader.Save(config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "config file written: %s\n", loader.ConfigPath())
	return nil
}
