package main

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/naapi/naapi-config/pkg/store"
)

var schemaTargets = map[string]func() *jsonschema.Schema{
	"codex-auth":      generateSchema[store.CodexAuth],
	"claude-settings": generateSchema[store.ClaudeSettings],
}

var schemaCmd = &cobra.Command{
	Use:       "schema codex-auth|claude-settings",
	Short:     "Print the JSON schema of a file written by naapi-config",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"codex-auth", "claude-settings"},
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := renderSchema(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

func generateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

func renderSchema(target string) (string, error) {
	generate, ok := schemaTargets[target]
	if !ok {
		return "", errors.Errorf("unknown schema %q", target)
	}
	out, err := json.MarshalIndent(generate(), "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to encode schema")
	}
	return string(out), nil
}
