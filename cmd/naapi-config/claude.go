package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/naapi/naapi-config/pkg/logger"
	"github.com/naapi/naapi-config/pkg/osutil"
	"github.com/naapi/naapi-config/pkg/presenter"
	"github.com/naapi/naapi-config/pkg/profile"
	"github.com/naapi/naapi-config/pkg/store"
)

var claudeCmd = &cobra.Command{
	Use:   "claude",
	Short: "Manage the Claude Code profile",
	Long: `Manage the Claude Code profile stored in the "env" object of
~/.claude/settings.json: ANTHROPIC_BASE_URL, ANTHROPIC_AUTH_TOKEN,
ANTHROPIC_DEFAULT_OPUS_MODEL and CLAUDE_CODE_DISABLE_NONESSENTIAL_TRAFFIC.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var claudeLoadCmd = &cobra.Command{
	Use:   "load",
	Short: "Print the Claude Code profile merged with the values on disk",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		s, err := newStore()
		if err != nil {
			return err
		}
		p, err := baseClaudeProfile()
		if err != nil {
			return err
		}

		patch, err := s.LoadClaudeProfile(ctx)
		if err != nil {
			return err
		}
		patch.Apply(&p)

		format, _ := cmd.Flags().GetString("output")
		showSecrets, _ := cmd.Flags().GetBool("show-secrets")
		return printValue(cmd.OutOrStdout(), format, displayClaude(p, showSecrets))
	},
}

var claudeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the settings file a write would produce",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		s, err := newStore()
		if err != nil {
			return err
		}
		p, err := resolveClaudeProfile(ctx, cmd.Flags(), s)
		if err != nil {
			return err
		}

		showSecrets, _ := cmd.Flags().GetBool("show-secrets")
		settings, err := store.RenderClaudeSettings(displayClaude(p, showSecrets))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", s.Paths().ClaudeSettings, settings)

		if copySettings, _ := cmd.Flags().GetBool("copy"); copySettings {
			full, err := store.RenderClaudeSettings(p)
			if err != nil {
				return err
			}
			if err := osutil.Copy(clip, string(full)); err != nil {
				return err
			}
			presenter.Success("Copied settings.json to the clipboard")
		}
		return nil
	},
}

var claudeWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write the Claude Code settings file",
	Long: `Write ~/.claude/settings.json.

The whole file is replaced by an object holding only the "env" entries managed
here. Values start from the built-in defaults and the config file, then the
file on disk (with --load), then any flag given on the command line.

Examples:
  naapi-config claude write --auth-token ...
  naapi-config claude write --load --disable-nonessential-traffic=false
  naapi-config claude write --token-from-clipboard --yes`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		s, err := newStore()
		if err != nil {
			return err
		}
		p, err := resolveClaudeProfile(ctx, cmd.Flags(), s)
		if err != nil {
			return err
		}

		result, err := s.WriteClaudeProfile(ctx, p, writeConfirmer(cmd))
		if err != nil {
			return err
		}
		reportResult(presenter.Default(), "Claude Code", result, s.Paths().ClaudeSettings)
		return nil
	},
}

var claudeOpenCmd = &cobra.Command{
	Use:   "open",
	Short: "Reveal the settings file in the file manager",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := newStore()
		if err != nil {
			return err
		}
		return openAndReport(cmd.Context(), s.Paths().ClaudeSettings)
	},
}

func init() {
	addOutputFlags(claudeLoadCmd)

	addClaudeValueFlags(claudeShowCmd.Flags())
	claudeShowCmd.Flags().Bool("show-secrets", false, "Print the auth token instead of masking it")
	claudeShowCmd.Flags().Bool("copy", false, "Copy the rendered settings.json to the clipboard")

	addClaudeValueFlags(claudeWriteCmd.Flags())
	addWriteFlags(claudeWriteCmd.Flags())

	claudeCmd.AddCommand(claudeLoadCmd, claudeShowCmd, claudeWriteCmd, claudeOpenCmd)
	rootCmd.AddCommand(claudeCmd)
}

func addClaudeValueFlags(fs *pflag.FlagSet) {
	fs.String("auth-token", "", "ANTHROPIC_AUTH_TOKEN to write (or set NAAPI_CLAUDE_AUTH_TOKEN)")
	fs.String("base-url", "", "API base URL (default "+profile.DefaultClaudeBaseURL+")")
	fs.String("opus-model", "", "Default Opus model (default "+profile.DefaultClaudeOpusModel+")")
	fs.Bool("disable-nonessential-traffic", profile.DefaultClaudeDisableTraffic, "Disable telemetry and other nonessential traffic")
	fs.Bool("load", false, "Start from the values currently on disk")
	fs.Bool("token-from-clipboard", false, "Read the auth token from the clipboard")
}

func claudeFlagPatch(fs *pflag.FlagSet) profile.ClaudePatch {
	patch := profile.ClaudePatch{
		BaseURL:          changedString(fs, "base-url"),
		AuthToken:        changedString(fs, "auth-token"),
		DefaultOpusModel: changedString(fs, "opus-model"),
	}
	if fs.Changed("disable-nonessential-traffic") {
		if v, err := fs.GetBool("disable-nonessential-traffic"); err == nil {
			patch.DisableNonessentialTraffic = &v
		}
	}
	return patch
}

// resolveClaudeProfile merges defaults, config, the settings file (with
// --load) and explicit flags, in that order.
func resolveClaudeProfile(ctx context.Context, fs *pflag.FlagSet, s *store.Store) (profile.ClaudeProfile, error) {
	p, err := baseClaudeProfile()
	if err != nil {
		return p, err
	}

	if load, _ := fs.GetBool("load"); load {
		patch, err := s.LoadClaudeProfile(ctx)
		switch {
		case store.IsNotFound(err):
			logger.G(ctx).WithField("path", s.Paths().ClaudeSettings).Info("no settings file to load")
		case err != nil:
			return p, err
		default:
			patch.Apply(&p)
		}
	}

	claudeFlagPatch(fs).Apply(&p)

	if fromClipboard, _ := fs.GetBool("token-from-clipboard"); fromClipboard {
		token, err := osutil.Paste(clip)
		if err != nil {
			return p, errors.Wrap(err, "failed to read the auth token")
		}
		p.AuthToken = token
	}
	return p, nil
}
