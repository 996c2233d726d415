package components

import (
	"strings"

	"docbrowse/internal/log"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// PreviewPane scrolls the content of a file preview, optionally styled as
// markdown.
type PreviewPane struct {
	viewport viewport.Model
	raw      string
	markdown bool
	wrap     int
}

func NewPreviewPane(markdown bool, wrap int) *PreviewPane {
	return &PreviewPane{
		viewport: viewport.New(80, 20),
		markdown: markdown,
		wrap:     wrap,
	}
}

// Configure changes the rendering mode and re-renders the current content.
func (p *PreviewPane) Configure(markdown bool, wrap int) {
	if p.markdown == markdown && p.wrap == wrap {
		return
	}
	p.markdown = markdown
	p.wrap = wrap
	if p.raw != "" {
		p.SetContent(p.raw)
	}
}

func (p *PreviewPane) SetSize(width, height int) {
	if width < 10 {
		width = 10
	}
	if height < 3 {
		height = 3
	}
	p.viewport.Width = width
	p.viewport.Height = height
}

// SetContent shows raw and scrolls to the top.
func (p *PreviewPane) SetContent(raw string) {
	p.raw = raw
	p.viewport.SetContent(p.render(raw))
	p.viewport.GotoTop()
}

func (p *PreviewPane) render(raw string) string {
	if !p.markdown {
		return strings.TrimRight(raw, "\n")
	}
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if p.wrap > 0 {
		opts = append(opts, glamour.WithWordWrap(p.wrap))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		log.LogWithError(err).Warn("markdown renderer unavailable, showing raw preview")
		return raw
	}
	out, err := r.Render(raw)
	if err != nil {
		log.LogWithError(err).Warn("markdown render failed, showing raw preview")
		return raw
	}
	return out
}

func (p *PreviewPane) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return cmd
}

func (p *PreviewPane) View() string {
	return p.viewport.View()
}
