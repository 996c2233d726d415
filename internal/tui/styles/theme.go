package styles

import (
	"docbrowse/internal/config"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the core UI styles
type Theme struct {
	App        lipgloss.Style
	Title      lipgloss.Style
	Breadcrumb lipgloss.Style
	StatValue  lipgloss.Style
	StatLabel  lipgloss.Style
	Card       lipgloss.Style
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Detail     lipgloss.Style
	EmptyTitle lipgloss.Style
	Error      lipgloss.Style
	Success    lipgloss.Style
	Warning    lipgloss.Style
	Info       lipgloss.Style
	Action     lipgloss.Style
	Link       lipgloss.Style
	Help       lipgloss.Style
}

// New builds the theme for the colors of a configuration.
func New(cfg *config.Config) Theme {
	t := cfg.Theme
	primary := lipgloss.Color(t.Primary)
	border := lipgloss.Color(t.Border)
	info := lipgloss.Color(t.Info)

	return Theme{
		App: lipgloss.NewStyle().
			Padding(1, 2),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary).
			MarginBottom(1),
		Breadcrumb: lipgloss.NewStyle().
			Foreground(info),
		StatValue: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(t.Emphasis)),
		StatLabel: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#959595")),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true),
		Unselected: lipgloss.NewStyle(),
		Detail: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")),
		EmptyTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(t.Warning)),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Error)),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)),
		Info: lipgloss.NewStyle().
			Foreground(info),
		Action: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary),
		Link: lipgloss.NewStyle().
			Underline(true).
			Foreground(info),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5A9")),
	}
}

// Default is the theme of the default configuration.
func Default() Theme {
	return New(config.New())
}

// Plain renders text without color or decoration.
func Plain() Theme {
	s := lipgloss.NewStyle()
	return Theme{
		App:        s,
		Title:      s,
		Breadcrumb: s,
		StatValue:  s,
		StatLabel:  s,
		Card:       lipgloss.NewStyle().MarginRight(3),
		Selected:   s,
		Unselected: s,
		Detail:     s,
		EmptyTitle: s,
		Error:      s,
		Success:    s,
		Warning:    s,
		Info:       s,
		Action:     s,
		Link:       s,
		Help:       s,
	}
}
