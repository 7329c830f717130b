package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/naapi/naapi-config/pkg/logger"
	"github.com/naapi/naapi-config/pkg/presenter"
)

var rootCmd = &cobra.Command{
	Use:   "naapi-config",
	Short: "Point the Codex CLI and Claude Code at NAAPI",
	Long: `naapi-config writes the Codex CLI config.toml and auth.json and the Claude Code
settings.json so both tools use the NAAPI endpoint.

Without a subcommand it opens an interactive form. Every value can also be
set through ~/.naapi-config/config.yaml or NAAPI_* environment variables.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupCommand,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runTUI(cmd)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default is $HOME/.naapi-config/config.yaml)")
	flags.String("env-file", "", "Load environment variables from this file first")
	flags.String("log-level", logger.DefaultLevel, "Log level (panic, fatal, error, warn, info, debug, trace)")
	flags.String("log-format", "text", "Log format (text or json)")
	flags.BoolP("quiet", "q", false, "Only print errors and requested output")

	_ = viper.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("log_format", flags.Lookup("log-format"))
}

// setupCommand loads configuration and installs the logger in the command
// context before any subcommand runs.
func setupCommand(cmd *cobra.Command, _ []string) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	configFile, _ := cmd.Flags().GetString("config")
	if err := loadConfig(envFile, configFile); err != nil {
		return err
	}

	if err := logger.Configure(logger.Options{
		Level:  viper.GetString("log_level"),
		Format: viper.GetString("log_format"),
	}); err != nil {
		return err
	}

	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		presenter.SetQuiet(true)
	}

	ctx := logger.WithLogger(cmd.Context(), logger.L.WithField("command", cmd.CommandPath()))
	if used := viper.ConfigFileUsed(); used != "" {
		logger.G(ctx).WithField("config", used).Debug("loaded config file")
	}
	cmd.SetContext(ctx)
	return nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	cancel()
	if err != nil {
		presenter.Error(err, "")
		os.Exit(1)
	}
}
