package main

import (
	"github.com/spf13/cobra"

	"github.com/naapi/naapi-config/pkg/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Edit and write both profiles in an interactive form",
	Long: `Open the interactive form. The form starts from the built-in defaults and the
config file; pass --load to read the current files on start.

Keys:
  ctrl+t          switch between the Codex and Claude Code tabs
  tab, shift+tab  move between fields
  ctrl+n, ctrl+p  cycle the options of model, reasoning effort and verbosity
  space           toggle the nonessential traffic switch
  ctrl+r          reveal or mask the focused secret
  ctrl+l          load the current tab from disk
  ctrl+s          write the current tab
  ctrl+o          reveal the target file
  ctrl+y, ctrl+v  copy or paste the focused field
  ctrl+c          quit`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runTUI(cmd)
	},
}

func init() {
	rootCmd.Flags().Bool("load", false, "Load both profiles from disk on start")
	tuiCmd.Flags().Bool("load", false, "Load both profiles from disk on start")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command) error {
	s, err := newStore()
	if err != nil {
		return err
	}
	codex, err := baseCodexProfile()
	if err != nil {
		return err
	}
	claude, err := baseClaudeProfile()
	if err != nil {
		return err
	}
	load, _ := cmd.Flags().GetBool("load")

	return tui.Run(cmd.Context(), tui.Options{
		Store:     s,
		Codex:     codex,
		Claude:    claude,
		Models:    modelList(),
		Clipboard: clip,
		Opener:    opener,
		AutoLoad:  load,
	})
}
