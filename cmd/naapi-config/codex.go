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
	"github.com/naapi/naapi-config/pkg/tui"
)

var (
	clip   osutil.Clipboard = osutil.SystemClipboard
	opener tui.PathOpener   = osutil.NewOpener()
)

var codexCmd = &cobra.Command{
	Use:   "codex",
	Short: "Manage the Codex CLI profile",
	Long: `Manage the Codex CLI profile stored in ~/.codex/config.toml and ~/.codex/auth.json.

The config file selects the "naapi" model provider and its base URL, model,
reasoning effort and verbosity. The auth file holds OPENAI_API_KEY.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var codexLoadCmd = &cobra.Command{
	Use:   "load",
	Short: "Print the Codex profile merged with the values on disk",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		s, err := newStore()
		if err != nil {
			return err
		}
		p, err := baseCodexProfile()
		if err != nil {
			return err
		}

		patch, err := s.LoadCodexProfile(ctx)
		if err != nil {
			return err
		}
		patch.Apply(&p)

		format, _ := cmd.Flags().GetString("output")
		showSecrets, _ := cmd.Flags().GetBool("show-secrets")
		return printValue(cmd.OutOrStdout(), format, displayCodex(p, showSecrets))
	},
}

var codexShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the Codex files a write would produce",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		s, err := newStore()
		if err != nil {
			return err
		}
		p, err := resolveCodexProfile(ctx, cmd.Flags(), s)
		if err != nil {
			return err
		}

		showSecrets, _ := cmd.Flags().GetBool("show-secrets")
		config, err := store.RenderCodexConfig(p)
		if err != nil {
			return err
		}
		auth, err := store.RenderCodexAuth(displayCodex(p, showSecrets))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "# %s\n%s\n# %s\n%s", s.Paths().CodexConfig, config, s.Paths().CodexAuth, auth)

		if copyConfig, _ := cmd.Flags().GetBool("copy"); copyConfig {
			if err := osutil.Copy(clip, string(config)); err != nil {
				return err
			}
			presenter.Success("Copied config.toml to the clipboard")
		}
		return nil
	},
}

var codexWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write the Codex config and auth files",
	Long: `Write ~/.codex/config.toml and ~/.codex/auth.json.

Values start from the built-in defaults and the config file, then the files on
disk (with --load), then any flag given on the command line. Existing files are
only replaced after confirmation, or with --yes.

Examples:
  naapi-config codex write --api-key sk-...
  naapi-config codex write --load --model gpt-5.2-codex --diff
  naapi-config codex write --key-from-clipboard --yes`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		s, err := newStore()
		if err != nil {
			return err
		}
		p, err := resolveCodexProfile(ctx, cmd.Flags(), s)
		if err != nil {
			return err
		}

		confirmer := writeConfirmer(cmd)
		result, err := s.WriteCodexProfile(ctx, p, confirmer)
		if err != nil {
			return err
		}
		reportResult(presenter.Default(), "Codex", result, s.Paths().CodexConfig, s.Paths().CodexAuth)
		return nil
	},
}

var codexOpenCmd = &cobra.Command{
	Use:       "open [config|auth]",
	Short:     "Reveal a Codex file in the file manager",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"config", "auth"},
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newStore()
		if err != nil {
			return err
		}
		path := s.Paths().CodexConfig
		if len(args) == 1 && args[0] == "auth" {
			path = s.Paths().CodexAuth
		}
		return openAndReport(cmd.Context(), path)
	},
}

var codexModelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the suggested Codex models",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		for _, m := range modelList() {
			fmt.Fprintln(cmd.OutOrStdout(), m)
		}
	},
}

func init() {
	addOutputFlags(codexLoadCmd)

	addCodexValueFlags(codexShowCmd.Flags())
	codexShowCmd.Flags().Bool("show-secrets", false, "Print the API key instead of masking it")
	codexShowCmd.Flags().Bool("copy", false, "Copy the rendered config.toml to the clipboard")

	addCodexValueFlags(codexWriteCmd.Flags())
	addWriteFlags(codexWriteCmd.Flags())

	for _, c := range []*cobra.Command{codexShowCmd, codexWriteCmd} {
		_ = c.RegisterFlagCompletionFunc("reasoning-effort", fixedCompletion(profile.ReasoningEfforts))
		_ = c.RegisterFlagCompletionFunc("verbosity", fixedCompletion(profile.Verbosities))
		_ = c.RegisterFlagCompletionFunc("model", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return modelList(), cobra.ShellCompDirectiveNoFileComp
		})
	}

	codexCmd.AddCommand(codexLoadCmd, codexShowCmd, codexWriteCmd, codexOpenCmd, codexModelsCmd)
	rootCmd.AddCommand(codexCmd)
}

func addCodexValueFlags(fs *pflag.FlagSet) {
	fs.String("api-key", "", "OPENAI_API_KEY to write (or set NAAPI_CODEX_API_KEY)")
	fs.String("base-url", "", "Provider base URL (default "+profile.DefaultCodexBaseURL+")")
	fs.String("model", "", "Model name (default "+profile.DefaultCodexModel+")")
	fs.String("reasoning-effort", "", "Reasoning effort (default "+profile.DefaultCodexReasoning+")")
	fs.String("verbosity", "", "Response verbosity (default "+profile.DefaultCodexVerbosity+")")
	fs.Bool("load", false, "Start from the values currently on disk")
	fs.Bool("key-from-clipboard", false, "Read the API key from the clipboard")
}

func addWriteFlags(fs *pflag.FlagSet) {
	fs.BoolP("yes", "y", false, "Approve warnings and overwrites without prompting")
	fs.Bool("diff", false, "Show a diff of files that will be overwritten")
}

func fixedCompletion(values []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// changedString returns the flag value only when it was given explicitly.
func changedString(fs *pflag.FlagSet, name string) *string {
	if !fs.Changed(name) {
		return nil
	}
	v, err := fs.GetString(name)
	if err != nil {
		return nil
	}
	return &v
}

func codexFlagPatch(fs *pflag.FlagSet) profile.CodexPatch {
	return profile.CodexPatch{
		BaseURL:         changedString(fs, "base-url"),
		Model:           changedString(fs, "model"),
		ReasoningEffort: changedString(fs, "reasoning-effort"),
		Verbosity:       changedString(fs, "verbosity"),
		APIKey:          changedString(fs, "api-key"),
	}
}

// resolveCodexProfile merges defaults, config, disk values (with --load) and
// explicit flags, in that order.
func resolveCodexProfile(ctx context.Context, fs *pflag.FlagSet, s *store.Store) (profile.CodexProfile, error) {
	p, err := baseCodexProfile()
	if err != nil {
		return p, err
	}

	if load, _ := fs.GetBool("load"); load {
		patch, err := s.LoadCodexProfile(ctx)
		if err != nil {
			return p, err
		}
		patch.Apply(&p)
	}

	codexFlagPatch(fs).Apply(&p)

	if fromClipboard, _ := fs.GetBool("key-from-clipboard"); fromClipboard {
		key, err := osutil.Paste(clip)
		if err != nil {
			return p, errors.Wrap(err, "failed to read the API key")
		}
		p.APIKey = key
	}

	logger.G(ctx).WithField("model", p.Model).Debug("resolved codex profile")
	return p, nil
}

func writeConfirmer(cmd *cobra.Command) store.Confirmer {
	yes, _ := cmd.Flags().GetBool("yes")
	showDiff, _ := cmd.Flags().GetBool("diff")
	if showDiff {
		return newConfirmer(presenter.Default(), yes, cmd.OutOrStdout())
	}
	return newConfirmer(presenter.Default(), yes, nil)
}

func openAndReport(ctx context.Context, path string) error {
	target, err := opener.OpenPath(path)
	if err != nil {
		return err
	}
	logger.G(ctx).WithField("target", target).Debug("opened path")
	presenter.Success("Opened " + target)
	return nil
}
