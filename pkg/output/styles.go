package output

import "github.com/charmbracelet/lipgloss"

type styles struct {
	header     lipgloss.Style
	cell       lipgloss.Style
	persistent lipgloss.Style
	transient  lipgloss.Style
	border     lipgloss.Style
	key        lipgloss.Style
	message    lipgloss.Style
	errorLabel lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		header:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1),
		cell:       r.NewStyle().Padding(0, 1),
		persistent: r.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("10")),
		transient:  r.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("8")),
		border:     r.NewStyle().Foreground(lipgloss.Color("8")),
		key:        r.NewStyle().Bold(true),
		message:    r.NewStyle().Foreground(lipgloss.Color("14")),
		errorLabel: r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
}

// plainStyles only pads cells, so text output carries no escape codes.
func plainStyles() styles {
	pad := lipgloss.NewStyle().Padding(0, 1)
	plain := lipgloss.NewStyle()
	return styles{
		header:     pad,
		cell:       pad,
		persistent: pad,
		transient:  pad,
		border:     plain,
		key:        plain,
		message:    plain,
		errorLabel: plain,
	}
}
