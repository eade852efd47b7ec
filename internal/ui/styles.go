package ui

import (
	"github.com/charmbracelet/lipgloss"

	"todoman/internal/theme"
	"todoman/internal/todo"
)

type styles struct {
	app      lipgloss.Style
	title    lipgloss.Style
	bar      lipgloss.Style
	selected lipgloss.Style
	done     lipgloss.Style
	muted    lipgloss.Style
	overdue  lipgloss.Style
	status   lipgloss.Style
	errText  lipgloss.Style
	form     lipgloss.Style
	priority map[todo.Priority]lipgloss.Style
}

type palette struct {
	fg, muted, accent, errFg  lipgloss.Color
	high, medium, low, border lipgloss.Color
}

var palettes = map[theme.Theme]palette{
	theme.Light: {
		fg: "#1f2937", muted: "#6b7280", accent: "#2563eb", errFg: "#b91c1c",
		high: "#dc2626", medium: "#d97706", low: "#059669", border: "#9ca3af",
	},
	theme.Dark: {
		fg: "#e5e7eb", muted: "#9ca3af", accent: "#60a5fa", errFg: "#f87171",
		high: "#f87171", medium: "#fbbf24", low: "#34d399", border: "#4b5563",
	},
}

func stylesFor(t theme.Theme) styles {
	p, ok := palettes[t]
	if !ok {
		p = palettes[theme.Light]
	}
	return styles{
		app:      lipgloss.NewStyle().Padding(1, 2).Foreground(p.fg),
		title:    lipgloss.NewStyle().Bold(true).Foreground(p.accent).MarginBottom(1),
		bar:      lipgloss.NewStyle().Foreground(p.muted),
		selected: lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		done:     lipgloss.NewStyle().Strikethrough(true).Foreground(p.muted),
		muted:    lipgloss.NewStyle().Foreground(p.muted),
		overdue:  lipgloss.NewStyle().Bold(true).Foreground(p.errFg),
		status:   lipgloss.NewStyle().Italic(true),
		errText:  lipgloss.NewStyle().Bold(true).Foreground(p.errFg),
		form: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 1),
		priority: map[todo.Priority]lipgloss.Style{
			todo.PriorityHigh:   lipgloss.NewStyle().Bold(true).Foreground(p.high),
			todo.PriorityMedium: lipgloss.NewStyle().Foreground(p.medium),
			todo.PriorityLow:    lipgloss.NewStyle().Foreground(p.low),
		},
	}
}
