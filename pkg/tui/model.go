// Package tui implements the interactive form for editing and writing the
// Codex and Claude Code profiles.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"github.com/naapi/naapi-config/pkg/logger"
	"github.com/naapi/naapi-config/pkg/osutil"
	"github.com/naapi/naapi-config/pkg/profile"
	"github.com/naapi/naapi-config/pkg/store"
)

// PathOpener reveals a path in the desktop file manager.
type PathOpener interface {
	OpenPath(path string) (string, error)
}

// Options configures a Model.
type Options struct {
	Store     *store.Store
	Codex     profile.CodexProfile
	Claude    profile.ClaudeProfile
	Models    []string
	Clipboard osutil.Clipboard
	Opener    PathOpener
	// AutoLoad loads both profiles from disk when the program starts.
	AutoLoad bool
}

// Model is the bubbletea model of the form.
type Model struct {
	ctx       context.Context
	store     *store.Store
	clipboard osutil.Clipboard
	opener    PathOpener

	tab      Tab
	forms    [2]*form
	inflight int
	pending  *store.Plan

	status    string
	statusErr bool
	statusSeq int

	autoLoad bool
	width    int
	height   int
}

// NewModel creates a form holding the given profiles.
func NewModel(ctx context.Context, opts Options) Model {
	if opts.Clipboard == nil {
		opts.Clipboard = osutil.SystemClipboard
	}
	if opts.Opener == nil {
		opts.Opener = osutil.NewOpener()
	}

	codex := newCodexForm(opts.Models)
	codex.setCodexProfile(opts.Codex)
	claude := newClaudeForm()
	claude.setClaudeProfile(opts.Claude)

	m := Model{
		ctx:       ctx,
		store:     opts.Store,
		clipboard: opts.Clipboard,
		opener:    opts.Opener,
		forms:     [2]*form{TabCodex: codex, TabClaude: claude},
		autoLoad:  opts.AutoLoad,
	}
	m.current().focused().focus()
	if opts.AutoLoad {
		m.inflight = 2
	}
	return m
}

// Init starts the cursor blink and, with AutoLoad, loads both profiles.
func (m Model) Init() tea.Cmd {
	if !m.autoLoad {
		return textinput.Blink
	}
	return tea.Batch(
		textinput.Blink,
		tea.Sequence(loadCodexCmd(m.ctx, m.store), loadClaudeCmd(m.ctx, m.store)),
	)
}

func (m Model) current() *form {
	return m.forms[m.tab]
}

func (m Model) busy() bool {
	return m.inflight > 0
}

// CodexProfile returns the Codex profile currently held by the form.
func (m Model) CodexProfile() profile.CodexProfile {
	return m.forms[TabCodex].codexProfile()
}

// ClaudeProfile returns the Claude Code profile currently held by the form.
func (m Model) ClaudeProfile() profile.ClaudeProfile {
	return m.forms[TabClaude].claudeProfile()
}

// Update handles the message updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case codexLoadedMsg:
		m.inflight--
		p := m.CodexProfile()
		msg.patch.Apply(&p)
		m.forms[TabCodex].setCodexProfile(p)
		if msg.err != nil {
			return m, m.setError(msg.err)
		}
		if msg.patch.Empty() {
			return m, m.setStatus("No Codex values found on disk")
		}
		return m, m.setStatus("Loaded Codex profile")

	case claudeLoadedMsg:
		m.inflight--
		if msg.err != nil {
			if store.IsNotFound(msg.err) {
				return m, m.setStatus("No Claude Code settings found on disk")
			}
			return m, m.setError(msg.err)
		}
		p := m.ClaudeProfile()
		msg.patch.Apply(&p)
		m.forms[TabClaude].setClaudeProfile(p)
		return m, m.setStatus("Loaded Claude Code profile")

	case plannedMsg:
		if msg.err != nil {
			m.inflight--
			return m, m.setError(msg.err)
		}
		if len(msg.plan.Warnings) > 0 || len(msg.plan.Overwrites()) > 0 {
			m.inflight--
			m.pending = msg.plan
			return m, nil
		}
		return m, applyCmd(m.ctx, m.store, msg.plan)

	case writtenMsg:
		m.inflight--
		if msg.err != nil {
			return m, m.setError(msg.err)
		}
		return m, m.setStatus(fmt.Sprintf("Wrote %s profile", targetLabel(msg.target)))

	case openedMsg:
		if msg.err != nil {
			return m, m.setError(msg.err)
		}
		return m, m.setStatus("Opened " + msg.target)

	case statusExpiredMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusErr = false
		}
		return m, nil
	}

	return m.updateFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.pending != nil {
		plan := m.pending
		m.pending = nil
		if msg.String() == "y" || msg.String() == "Y" {
			m.inflight++
			return m, applyCmd(m.ctx, m.store, plan)
		}
		logger.G(m.ctx).WithField("target", plan.Target).Info("write declined")
		return m, m.setStatus("Write cancelled")
	}

	fm := m.current()
	f := fm.focused()

	switch msg.String() {
	case "ctrl+t":
		f.blur()
		m.tab = (m.tab + 1) % 2
		return m, m.current().focused().focus()
	case "tab", "down":
		return m, fm.move(1)
	case "shift+tab", "up":
		return m, fm.move(-1)
	case "ctrl+r":
		f.toggleReveal()
		return m, nil
	case "ctrl+n":
		f.cycle(1)
		return m, nil
	case "ctrl+p":
		f.cycle(-1)
		return m, nil
	case "ctrl+l":
		if m.busy() {
			return m, nil
		}
		m.inflight++
		if m.tab == TabClaude {
			return m, loadClaudeCmd(m.ctx, m.store)
		}
		return m, loadCodexCmd(m.ctx, m.store)
	case "ctrl+s":
		if m.busy() {
			return m, nil
		}
		m.inflight++
		if m.tab == TabClaude {
			return m, planClaudeCmd(m.ctx, m.store, m.ClaudeProfile())
		}
		return m, planCodexCmd(m.ctx, m.store, m.CodexProfile())
	case "ctrl+o":
		return m, openCmd(m.opener, m.targetPath())
	case "ctrl+y":
		if err := osutil.Copy(m.clipboard, fieldText(f)); err != nil {
			return m, m.setError(err)
		}
		return m, m.setStatus("Copied " + f.label)
	case "ctrl+v":
		if f.toggle {
			return m, nil
		}
		text, err := osutil.Paste(m.clipboard)
		if err != nil {
			return m, m.setError(err)
		}
		f.setValue(text)
		return m, m.setStatus("Pasted into " + f.label)
	case " ":
		if f.toggle {
			f.checked = !f.checked
			return m, nil
		}
	}

	return m.updateFocused(msg)
}

// updateFocused forwards msg to the text input that has focus.
func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	f := m.current().focused()
	if f.toggle {
		return m, nil
	}
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return m, cmd
}

// targetPath is the file ctrl+o reveals: the auth file when the Codex key
// has focus, otherwise the main file of the tab.
func (m Model) targetPath() string {
	paths := m.store.Paths()
	if m.tab == TabClaude {
		return paths.ClaudeSettings
	}
	if m.current().focus == codexAPIKey {
		return paths.CodexAuth
	}
	return paths.CodexConfig
}

func (m *Model) setStatus(text string) tea.Cmd {
	m.statusSeq++
	m.status = text
	m.statusErr = false
	return expireStatusCmd(m.statusSeq)
}

func (m *Model) setError(err error) tea.Cmd {
	logger.G(m.ctx).WithError(err).Debug("tui operation failed")
	cmd := m.setStatus("Error: " + err.Error())
	m.statusErr = true
	return cmd
}

func fieldText(f *field) string {
	if f.toggle {
		if f.checked {
			return "1"
		}
		return "0"
	}
	return f.value()
}

func targetLabel(t store.Target) string {
	if t == store.TargetClaude {
		return TabClaude.String()
	}
	return TabCodex.String()
}

// Run starts the full-screen form and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	if opts.Store == nil {
		return errors.New("tui requires a store")
	}
	p := tea.NewProgram(NewModel(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return errors.Wrap(err, "failed to run tui")
	}
	return nil
}
