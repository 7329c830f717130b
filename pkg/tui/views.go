package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/naapi/naapi-config/pkg/store"
)

var (
	accent = lipgloss.AdaptiveColor{Light: "#7aa2f7", Dark: "#7aa2f7"}
	muted  = lipgloss.Color("240")

	activeTabStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(accent).Padding(0, 1)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(muted).Padding(0, 1)
	labelStyle       = lipgloss.NewStyle().Width(30)
	focusedLabel     = labelStyle.Foreground(accent).Bold(true)
	hintStyle        = lipgloss.NewStyle().Foreground(muted)
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	overlayStyle     = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("214")).
				Padding(1, 2)
)

const keyHelp = "ctrl+t tab · ctrl+l load · ctrl+s write · ctrl+o open · ctrl+y copy · ctrl+v paste · ctrl+r reveal · ctrl+n/p option · ctrl+c quit"

// View renders the UI
func (m Model) View() string {
	if m.pending != nil {
		return m.place(overlayView(m.pending))
	}

	sections := []string{
		m.tabsView(),
		m.formView(),
		hintStyle.Render(strings.Join(m.targetPaths(), "\n")),
		hintStyle.Render(keyHelp),
		m.statusView(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) tabsView() string {
	var tabs []string
	for _, t := range []Tab{TabCodex, TabClaude} {
		style := inactiveTabStyle
		if t == m.tab {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(t.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n"
}

func (m Model) formView() string {
	fm := m.current()
	var b strings.Builder
	for i, f := range fm.fields {
		label := labelStyle
		marker := "  "
		if i == fm.focus {
			label = focusedLabel
			marker = "› "
		}
		b.WriteString(marker)
		b.WriteString(label.Render(f.label))
		b.WriteString(fieldView(f))
		b.WriteString("\n")
	}
	return b.String()
}

func fieldView(f *field) string {
	if f.toggle {
		if f.checked {
			return "[x]"
		}
		return "[ ]"
	}
	view := f.input.View()
	if len(f.options) > 0 {
		view += hintStyle.Render("  (" + strings.Join(f.options, ", ") + ")")
	}
	return view
}

func (m Model) targetPaths() []string {
	paths := m.store.Paths()
	if m.tab == TabClaude {
		return []string{paths.ClaudeSettings}
	}
	return []string{paths.CodexConfig, paths.CodexAuth}
}

func (m Model) statusView() string {
	switch {
	case m.busy():
		return hintStyle.Render("Working...")
	case m.status == "":
		return ""
	case m.statusErr:
		return errorStyle.Render(m.status)
	default:
		return statusStyle.Render(m.status)
	}
}

func overlayView(plan *store.Plan) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Confirm " + targetLabel(plan.Target) + " write"))
	b.WriteString("\n\n")
	for _, w := range plan.Warnings {
		b.WriteString(errorStyle.Render("! " + w))
		b.WriteString("\n")
	}
	if existing := plan.ExistingPaths(); len(existing) > 0 {
		b.WriteString("These files will be overwritten:\n")
		for _, p := range existing {
			b.WriteString("  " + p + "\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("Press y to write, any other key to cancel."))
	return overlayStyle.Render(b.String())
}

func (m Model) place(content string) string {
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
