package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/naapi/naapi-config/pkg/presenter"
	"github.com/naapi/naapi-config/pkg/profile"
	"github.com/naapi/naapi-config/pkg/store"
)

const (
	formatYAML = "yaml"
	formatJSON = "json"
)

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", formatYAML, "Output format: yaml or json")
	cmd.Flags().Bool("show-secrets", false, "Print secrets instead of masking them")
	_ = cmd.RegisterFlagCompletionFunc("output", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{formatYAML, formatJSON}, cobra.ShellCompDirectiveNoFileComp
	})
}

// printValue writes v to w as YAML or JSON.
func printValue(w io.Writer, format string, v any) error {
	switch format {
	case formatYAML, "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, "failed to encode yaml")
		}
		return enc.Close()
	case formatJSON:
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to encode json")
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	default:
		return errors.Errorf("unsupported output format %q (expected yaml or json)", format)
	}
}

// maskString masks a string, showing only the first and last 4 characters.
func maskString(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 12 {
		return "****"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

func displayCodex(p profile.CodexProfile, showSecrets bool) profile.CodexProfile {
	if !showSecrets {
		p.APIKey = maskString(p.APIKey)
	}
	return p
}

func displayClaude(p profile.ClaudeProfile, showSecrets bool) profile.ClaudeProfile {
	if !showSecrets {
		p.AuthToken = maskString(p.AuthToken)
	}
	return p
}

// promptConfirmer asks the store's confirmation questions on the terminal.
type promptConfirmer struct {
	presenter presenter.Presenter
	diffs     io.Writer
}

func newConfirmer(p presenter.Presenter, yes bool, diffs io.Writer) store.Confirmer {
	if yes {
		return store.AlwaysConfirm
	}
	return &promptConfirmer{presenter: p, diffs: diffs}
}

func (c *promptConfirmer) ConfirmWarning(_ context.Context, message string) bool {
	c.presenter.Warning(message)
	return c.presenter.Confirm("Continue anyway?")
}

func (c *promptConfirmer) ConfirmOverwrite(_ context.Context, files []store.Overwrite) bool {
	c.presenter.Section("Files to overwrite")
	for _, f := range files {
		c.presenter.Info("  " + f.Path)
	}
	if c.diffs != nil {
		for _, f := range files {
			if f.Diff != "" {
				fmt.Fprint(c.diffs, f.Diff)
			}
		}
	}
	return c.presenter.Confirm("Overwrite these files?")
}

// reportResult prints the outcome of a write. A declined write is not an error.
func reportResult(p presenter.Presenter, target string, result store.Result, paths ...string) {
	if result == store.Declined {
		p.Warning("Nothing written: " + target + " write was declined")
		return
	}
	p.Success("Wrote " + target + " profile")
	for _, path := range paths {
		p.Info("  " + path)
	}
}
