package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/naapi/naapi-config/pkg/presenter"
	"github.com/naapi/naapi-config/pkg/profile"
	"github.com/naapi/naapi-config/pkg/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Summarise the Codex and Claude Code profiles on disk",
	Long: `Load both profiles from disk and report what each file holds.

Missing files are reported as warnings. Files that cannot be read or parsed are
errors; all of them are reported before the command fails.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := newStore()
		if err != nil {
			return err
		}
		return runStatus(cmd.Context(), presenter.Default(), s)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(ctx context.Context, p presenter.Presenter, s *store.Store) error {
	var result *multierror.Error

	if err := reportCodexStatus(ctx, p, s); err != nil {
		result = multierror.Append(result, err)
	}
	p.Separator()
	if err := reportClaudeStatus(ctx, p, s); err != nil {
		result = multierror.Append(result, err)
	}

	return result.ErrorOrNil()
}

func reportCodexStatus(ctx context.Context, p presenter.Presenter, s *store.Store) error {
	paths := s.Paths()
	p.Section("Codex")
	reportFile(p, paths.CodexConfig)
	reportFile(p, paths.CodexAuth)

	patch, err := s.LoadCodexProfile(ctx)
	if err != nil {
		p.Error(err, "Codex")
		return err
	}
	if patch.Empty() {
		return nil
	}

	reportValue(p, "base_url", patch.BaseURL)
	reportValue(p, "model", patch.Model)
	reportValue(p, "reasoning_effort", patch.ReasoningEffort)
	reportValue(p, "verbosity", patch.Verbosity)
	reportSecret(p, "api_key", patch.APIKey)

	var loaded profile.CodexProfile
	patch.Apply(&loaded)
	if err := loaded.Validate(); err != nil {
		p.Warning(err.Error())
	}
	for _, w := range loaded.Warnings() {
		p.Warning(w)
	}
	return nil
}

func reportClaudeStatus(ctx context.Context, p presenter.Presenter, s *store.Store) error {
	p.Section("Claude Code")
	reportFile(p, s.Paths().ClaudeSettings)

	patch, err := s.LoadClaudeProfile(ctx)
	if store.IsNotFound(err) {
		return nil
	}
	if err != nil {
		p.Error(err, "Claude Code")
		return err
	}

	reportValue(p, store.EnvAnthropicBaseURL, patch.BaseURL)
	reportSecret(p, store.EnvAnthropicAuthToken, patch.AuthToken)
	reportValue(p, store.EnvAnthropicOpusModel, patch.DefaultOpusModel)
	if patch.DisableNonessentialTraffic != nil {
		v := strconv.FormatBool(*patch.DisableNonessentialTraffic)
		reportValue(p, store.EnvDisableNonessential, &v)
	} else {
		reportValue(p, store.EnvDisableNonessential, nil)
	}

	var loaded profile.ClaudeProfile
	patch.Apply(&loaded)
	if err := loaded.Validate(); err != nil {
		p.Warning(err.Error())
	}
	return nil
}

func reportFile(p presenter.Presenter, path string) {
	if _, err := os.Stat(path); err != nil {
		p.Warning("missing " + path)
		return
	}
	p.Success("found " + path)
}

func reportValue(p presenter.Presenter, name string, v *string) {
	value := "(not set)"
	if v != nil {
		value = *v
	}
	p.Info(fmt.Sprintf("  %-42s %s", name, value))
}

func reportSecret(p presenter.Presenter, name string, v *string) {
	if v != nil {
		masked := maskString(*v)
		v = &masked
	}
	reportValue(p, name, v)
}
