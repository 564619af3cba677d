package present

import "github.com/charmbracelet/lipgloss"

type styles struct {
	header    lipgloss.Style
	divider   lipgloss.Style
	primary   lipgloss.Style
	secondary lipgloss.Style
	reason    lipgloss.Style
	tip       lipgloss.Style
	info      lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		header:    r.NewStyle().Bold(true),
		divider:   r.NewStyle().Foreground(lipgloss.Color("240")),
		primary:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		secondary: r.NewStyle().Foreground(lipgloss.Color("250")),
		reason:    r.NewStyle().Italic(true),
		tip:       r.NewStyle().Faint(true),
		info:      r.NewStyle().Foreground(lipgloss.Color("39")),
	}
}
