package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naapi/naapi-config/pkg/profile"
)

// Tab selects which profile the form edits.
type Tab int

const (
	TabCodex Tab = iota
	TabClaude
)

func (t Tab) String() string {
	if t == TabClaude {
		return "Claude Code"
	}
	return "Codex"
}

// field is one row of a form. Toggle fields hold a bool instead of text.
type field struct {
	label    string
	input    textinput.Model
	secret   bool
	revealed bool
	options  []string
	toggle   bool
	checked  bool
}

func newTextField(label, placeholder string) *field {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = 512
	ti.Width = 48
	return &field{label: label, input: ti}
}

func newSecretField(label, placeholder string) *field {
	f := newTextField(label, placeholder)
	f.secret = true
	f.input.EchoMode = textinput.EchoPassword
	f.input.EchoCharacter = '•'
	return f
}

func newOptionField(label string, options []string) *field {
	f := newTextField(label, "")
	f.options = options
	return f
}

func newToggleField(label string) *field {
	return &field{label: label, toggle: true}
}

func (f *field) value() string {
	return f.input.Value()
}

func (f *field) setValue(v string) {
	f.input.SetValue(v)
	f.input.CursorEnd()
}

// toggleReveal switches a secret field between masked and plain display.
func (f *field) toggleReveal() {
	if !f.secret {
		return
	}
	f.revealed = !f.revealed
	if f.revealed {
		f.input.EchoMode = textinput.EchoNormal
	} else {
		f.input.EchoMode = textinput.EchoPassword
	}
}

// cycle moves to the next (step 1) or previous (step -1) option. A value that
// is not in the list starts from the first option.
func (f *field) cycle(step int) {
	if len(f.options) == 0 {
		return
	}
	idx := -1
	for i, o := range f.options {
		if o == f.value() {
			idx = i
			break
		}
	}
	if idx < 0 {
		idx = 0
	} else {
		idx = (idx + step + len(f.options)) % len(f.options)
	}
	f.setValue(f.options[idx])
}

func (f *field) focus() tea.Cmd {
	if f.toggle {
		return nil
	}
	return f.input.Focus()
}

func (f *field) blur() {
	if !f.toggle {
		f.input.Blur()
	}
}

// form is the ordered field list of one tab.
type form struct {
	fields []*field
	focus  int
}

func (fm *form) focused() *field {
	return fm.fields[fm.focus]
}

func (fm *form) move(step int) tea.Cmd {
	fm.focused().blur()
	fm.focus = (fm.focus + step + len(fm.fields)) % len(fm.fields)
	return fm.focused().focus()
}

const (
	codexAPIKey = iota
	codexBaseURL
	codexModel
	codexReasoning
	codexVerbosity
)

const (
	claudeAuthToken = iota
	claudeBaseURL
	claudeOpusModel
	claudeDisableTraffic
)

func newCodexForm(models []string) *form {
	if len(models) == 0 {
		models = []string{profile.DefaultCodexModel}
	}
	return &form{fields: []*field{
		codexAPIKey:    newSecretField("OPENAI_API_KEY", profile.APIKeyPrefix+"..."),
		codexBaseURL:   newTextField("Base URL", profile.DefaultCodexBaseURL),
		codexModel:     newOptionField("Model", models),
		codexReasoning: newOptionField("Reasoning effort", profile.ReasoningEfforts),
		codexVerbosity: newOptionField("Verbosity", profile.Verbosities),
	}}
}

func newClaudeForm() *form {
	return &form{fields: []*field{
		claudeAuthToken:      newSecretField("ANTHROPIC_AUTH_TOKEN", "token"),
		claudeBaseURL:        newTextField("Base URL", profile.DefaultClaudeBaseURL),
		claudeOpusModel:      newTextField("Default Opus model", profile.DefaultClaudeOpusModel),
		claudeDisableTraffic: newToggleField("Disable nonessential traffic"),
	}}
}

func (fm *form) codexProfile() profile.CodexProfile {
	return profile.CodexProfile{
		APIKey:          fm.fields[codexAPIKey].value(),
		BaseURL:         fm.fields[codexBaseURL].value(),
		Model:           fm.fields[codexModel].value(),
		ReasoningEffort: fm.fields[codexReasoning].value(),
		Verbosity:       fm.fields[codexVerbosity].value(),
	}
}

func (fm *form) setCodexProfile(p profile.CodexProfile) {
	fm.fields[codexAPIKey].setValue(p.APIKey)
	fm.fields[codexBaseURL].setValue(p.BaseURL)
	fm.fields[codexModel].setValue(p.Model)
	fm.fields[codexReasoning].setValue(p.ReasoningEffort)
	fm.fields[codexVerbosity].setValue(p.Verbosity)
}

func (fm *form) claudeProfile() profile.ClaudeProfile {
	return profile.ClaudeProfile{
		AuthToken:                  fm.fields[claudeAuthToken].value(),
		BaseURL:                    fm.fields[claudeBaseURL].value(),
		DefaultOpusModel:           fm.fields[claudeOpusModel].value(),
		DisableNonessentialTraffic: fm.fields[claudeDisableTraffic].checked,
	}
}

func (fm *form) setClaudeProfile(p profile.ClaudeProfile) {
	fm.fields[claudeAuthToken].setValue(p.AuthToken)
	fm.fields[claudeBaseURL].setValue(p.BaseURL)
	fm.fields[claudeOpusModel].setValue(p.DefaultOpusModel)
	fm.fields[claudeDisableTraffic].checked = p.DisableNonessentialTraffic
}
