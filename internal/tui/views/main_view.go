package views

import (
	"fmt"
	"strings"

	"docbrowse/internal/nav"
	"docbrowse/internal/tui/components"
	"docbrowse/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// ModelReader defines the interface that views use to read model state
type ModelReader interface {
	Screen() nav.Screen
	Theme() styles.Theme
	ItemsView() string
	PreviewView() string
	LoadingView() string
	StatusView() string
	FilterView() string
	ShowHelp() bool
	HelpView() string
}

// Parts are the pre-rendered widgets of a screen.
type Parts struct {
	Items   string
	Preview string
	Loading string
}

var actionKeys = map[nav.ActionKind]string{
	nav.ActionOpen:     "o",
	nav.ActionDownload: "d",
	nav.ActionPreview:  "p",
	nav.ActionBack:     "esc",
}

func RenderMainView(m ModelReader) string {
	theme := m.Theme()
	var sb strings.Builder

	sb.WriteString(RenderScreen(m.Screen(), theme, Parts{
		Items:   m.ItemsView(),
		Preview: m.PreviewView(),
		Loading: m.LoadingView(),
	}))

	if f := m.FilterView(); f != "" {
		sb.WriteString("\n" + f)
	}
	if st := m.StatusView(); st != "" {
		sb.WriteString("\n" + st)
	}
	if m.ShowHelp() {
		sb.WriteString("\n\n" + RenderHelp(theme))
	}
	sb.WriteString("\n" + m.HelpView())

	return theme.App.Render(sb.String())
}

// RenderPlain renders a screen as uncolored text with every item listed.
func RenderPlain(s nav.Screen) string {
	visible := make([]int, len(s.Items))
	for i := range visible {
		visible[i] = i
	}
	return RenderPlainItems(s, visible)
}

// RenderPlainItems is RenderPlain restricted to the given item indices.
func RenderPlainItems(s nav.Screen, visible []int) string {
	theme := styles.Plain()
	var preview string
	if s.Preview != nil {
		preview = strings.TrimRight(s.Preview.Content, "\n")
	}
	return RenderScreen(s, theme, Parts{
		Items:   components.RenderItems(s.Items, visible, -1, false, theme),
		Preview: preview,
		Loading: s.LoadingText,
	})
}

// RenderScreen renders the typed screen model.
func RenderScreen(s nav.Screen, theme styles.Theme, p Parts) string {
	var sb strings.Builder

	sb.WriteString(theme.Breadcrumb.Render(s.Breadcrumb) + "\n\n")
	if s.Title != "" {
		sb.WriteString(theme.Title.Render(s.Title) + "\n")
	}

	switch s.Status {
	case nav.StatusLoading:
		sb.WriteString(p.Loading + "\n")
		return sb.String()
	case nav.StatusFailed:
		sb.WriteString(theme.Error.Render("❌ "+s.ErrorText) + "\n")
		if len(s.Actions) > 0 {
			sb.WriteString("\n" + renderActions(s.Actions, theme) + "\n")
		}
		return sb.String()
	}

	if len(s.Stats) > 0 {
		sb.WriteString(renderStats(s.Stats, theme) + "\n\n")
	}
	if s.Empty != nil {
		sb.WriteString(theme.EmptyTitle.Render(s.Empty.Title) + "\n")
		sb.WriteString(s.Empty.Text + "\n")
	}
	if p.Items != "" {
		sb.WriteString(p.Items)
	}
	if s.Meta != "" {
		sb.WriteString(theme.Info.Render(s.Meta) + "\n\n")
	}
	if s.Link != nil {
		sb.WriteString("Signed link: " + theme.Link.Render(s.Link.SignedURL) + "\n")
	}
	for _, line := range s.Info {
		sb.WriteString(theme.Detail.Render(line) + "\n")
	}
	if s.Preview != nil {
		sb.WriteString(p.Preview + "\n")
	}
	if len(s.Actions) > 0 {
		sb.WriteString("\n" + renderActions(s.Actions, theme) + "\n")
	}
	return sb.String()
}

func renderStats(stats []nav.Stat, theme styles.Theme) string {
	cards := make([]string, 0, len(stats))
	for _, st := range stats {
		body := theme.StatValue.Render(fmt.Sprint(st.Value)) + "\n" + theme.StatLabel.Render(st.Label)
		cards = append(cards, theme.Card.Render(body))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func renderActions(actions []nav.Action, theme styles.Theme) string {
	parts := make([]string, 0, len(actions))
	for _, a := range actions {
		parts = append(parts, fmt.Sprintf("[%s] %s", actionKeys[a.Kind], theme.Action.Render(a.Label)))
	}
	return strings.Join(parts, "  ")
}

func RenderHelp(theme styles.Theme) string {
	return theme.Help.Render(`Quick Start Guide:
  Pick a project, then a release (or the unreleased current release).
  Selecting a file creates a signed link that expires after a while;
  open it in your browser, download it, or preview it here.
  Type / to filter the list with a glob such as *login* or v1.*`)
}
