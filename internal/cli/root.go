// Package cli implements the xlbudget command line.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/javajack/xlbudget/internal/config"
	"github.com/spf13/cobra"
)

// EnvDebug forces debug logging when set to a true value.
const EnvDebug = "XLBUDGET_DEBUG"

// annotationRawConfig marks commands that must run even when the config file
// does not load, such as config init.
const annotationRawConfig = "xlbudget/raw-config"

var version = "dev"

var (
	configPath string
	logLevel   string

	loader *config.Loader
	cfg    *config.Config
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

var rootCmd = &cobra.Command{
	Use:   "xlbudget",
	Short: "Rebuild subtotal formulas in budget ledger workbooks",
	Long: `xlbudget reshapes exported budget ledger workbooks and writes the
quantity, line total and hierarchical subtotal formulas back into them.

Every sheet goes through the same fixed sequence: unmerge, unwrap text,
drop columns B and C, split the description and code columns, then write
product formulas into O, line totals into U, and subtotals for every coded
row into U.

Configuration is read from ~/.xlbudget/config.yaml (see "xlbudget config").`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.xlbudget/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "xlbudget %s\n", version)
	},
}

// SetVersion sets the version reported by "xlbudget version".
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// setup loads the configuration and builds the logger for every command.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if configPath != "" {
		loader = config.NewLoaderWithPath(configPath)
	} else if loader, err = config.NewLoader(); err != nil {
		return err
	}

	if cmd.Annotations[annotationRawConfig] == "true" {
		cfg = config.DefaultConfig()
	} else if cfg, err = loader.Load(); err != nil {
		return err
	}

	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if config.GetEnvBool(EnvDebug) {
		cfg.Log.Level = "debug"
	}
	logger, err = newLogger(cmd.ErrOrStderr(), cfg.Log)
	return err
}

func newLogger(w io.Writer, lc config.LogConfig) (*slog.Logger, error) {
	lvl, err := lc.SlogLevel()
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(lc.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
