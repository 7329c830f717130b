package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naapi/naapi-config/pkg/profile"
	"github.com/naapi/naapi-config/pkg/store"
)

const statusTTL = 4 * time.Second

type codexLoadedMsg struct {
	patch profile.CodexPatch
	err   error
}

type claudeLoadedMsg struct {
	patch profile.ClaudePatch
	err   error
}

type plannedMsg struct {
	plan *store.Plan
	err  error
}

type writtenMsg struct {
	target store.Target
	err    error
}

type openedMsg struct {
	target string
	err    error
}

type statusExpiredMsg struct {
	seq int
}

func loadCodexCmd(ctx context.Context, s *store.Store) tea.Cmd {
	return func() tea.Msg {
		patch, err := s.LoadCodexProfile(ctx)
		return codexLoadedMsg{patch: patch, err: err}
	}
}

func loadClaudeCmd(ctx context.Context, s *store.Store) tea.Cmd {
	return func() tea.Msg {
		patch, err := s.LoadClaudeProfile(ctx)
		return claudeLoadedMsg{patch: patch, err: err}
	}
}

func planCodexCmd(ctx context.Context, s *store.Store, p profile.CodexProfile) tea.Cmd {
	return func() tea.Msg {
		plan, err := s.PlanCodex(ctx, p)
		return plannedMsg{plan: plan, err: err}
	}
}

func planClaudeCmd(ctx context.Context, s *store.Store, p profile.ClaudeProfile) tea.Cmd {
	return func() tea.Msg {
		plan, err := s.PlanClaude(ctx, p)
		return plannedMsg{plan: plan, err: err}
	}
}

func applyCmd(ctx context.Context, s *store.Store, plan *store.Plan) tea.Cmd {
	return func() tea.Msg {
		return writtenMsg{target: plan.Target, err: s.Apply(ctx, plan)}
	}
}

func openCmd(o PathOpener, path string) tea.Cmd {
	return func() tea.Msg {
		target, err := o.OpenPath(path)
		return openedMsg{target: target, err: err}
	}
}

func expireStatusCmd(seq int) tea.Cmd {
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return statusExpiredMsg{seq: seq}
	})
}
