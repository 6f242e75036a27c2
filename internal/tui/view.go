package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"vidtools/internal/ops"
	"vidtools/internal/runner"
)

var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorAccent  = lipgloss.Color("#06B6D4")
	colorSuccess = lipgloss.Color("#10B981")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")
	colorText    = lipgloss.Color("#F9FAFB")
	colorBorder  = lipgloss.Color("#374151")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			Background(colorPrimary).
			Padding(0, 2)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Width(20)

	focusedLabelStyle = lipgloss.NewStyle().
				Foreground(colorAccent).
				Bold(true).
				Width(20)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2).
			MarginTop(1)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			MarginTop(1)
)

func (m Model) View() string {
	switch m.state {
	case StateForm:
		return m.viewForm()
	case StateRunning:
		return m.viewRunning()
	case StateResult:
		return m.viewResult()
	default:
		return m.menu.View()
	}
}

func (m Model) viewForm() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(ops.Title(m.form.action)))
	b.WriteString("\n")

	var rows []string
	for i, fl := range m.form.fields {
		label := fl.label
		if fl.required {
			label += " *"
		}
		style := labelStyle
		if i == m.focus {
			style = focusedLabelStyle
		}
		rows = append(rows, style.Render(label)+m.inputs[i].View())
	}
	b.WriteString(boxStyle.Render(strings.Join(rows, "\n")))
	b.WriteString("\n")
	if m.formErr != "" {
		b.WriteString(errorStyle.Render("✗ " + m.formErr))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("tab/↓ next • shift+tab/↑ previous • enter on last field or ctrl+s run • esc back"))
	return b.String()
}

func (m Model) viewRunning() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(ops.Title(m.operation)))
	b.WriteString("\n")

	var body string
	if m.operation == ops.OpInfo {
		body = "Inspecting..."
	} else {
		body = m.progress.ViewAs(progressFraction(m.current)) + "\n\n" + progressLine(m.current)
	}
	body += "\n" + labelStyle.Render("Elapsed") + m.elapsed()
	b.WriteString(boxStyle.Render(body))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("esc cancel • ctrl+c quit"))
	return b.String()
}

func (m Model) viewResult() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(ops.Title(m.operation)))
	b.WriteString("\n")
	var body string
	if m.err != nil {
		body = errorStyle.Render("✗ Failed") + "\n\n" + m.err.Error()
	} else {
		body = successStyle.Render("✓ Done") + "\n\n" + m.summary
	}
	b.WriteString(boxStyle.Render(body))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter/esc back to menu • q quit"))
	return b.String()
}

func progressFraction(p runner.Progress) float64 {
	if p.Percent < 0 {
		return 0
	}
	return min(p.Percent/100, 1)
}

func progressLine(p runner.Progress) string {
	if p.Percent < 0 && p.Current == 0 {
		return "Starting ffmpeg..."
	}
	return p.Message()
}

// String renders the state name, mostly for test failures.
func (s State) String() string {
	switch s {
	case StateMenu:
		return "menu"
	case StateForm:
		return "form"
	case StateRunning:
		return "running"
	case StateResult:
		return "result"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}
