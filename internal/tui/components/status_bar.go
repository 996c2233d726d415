package components

import (
	"docbrowse/internal/tui/styles"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// NoticeKind selects the style of a notice.
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeSuccess
	NoticeWarning
)

// StatusBar shows the loading spinner and transient notices.
type StatusBar struct {
	text    string
	spinner spinner.Model
	loading bool

	notice     string
	noticeKind NoticeKind
	noticeID   int
}

func NewStatusBar() *StatusBar {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return &StatusBar{spinner: s}
}

// SetLoading shows or hides the spinner. The returned command starts the
// spinner ticking.
func (s *StatusBar) SetLoading(loading bool, text string) tea.Cmd {
	s.loading = loading
	s.text = text
	if loading {
		return s.spinner.Tick
	}
	return nil
}

func (s *StatusBar) Loading() bool {
	return s.loading
}

// ShowNotice replaces the current notice and returns its id.
func (s *StatusBar) ShowNotice(text string, kind NoticeKind) int {
	s.noticeID++
	s.notice = text
	s.noticeKind = kind
	return s.noticeID
}

// ClearNotice removes the notice if id is still the current one.
func (s *StatusBar) ClearNotice(id int) {
	if id == s.noticeID {
		s.notice = ""
	}
}

// DismissNotice removes any notice.
func (s *StatusBar) DismissNotice() bool {
	had := s.notice != ""
	s.notice = ""
	return had
}

func (s *StatusBar) Notice() string {
	return s.notice
}

func (s *StatusBar) Update(msg tea.Msg) tea.Cmd {
	if s.loading {
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return cmd
	}
	return nil
}

// SpinnerView renders just the spinner frame.
func (s *StatusBar) SpinnerView() string {
	return s.spinner.View()
}

func (s *StatusBar) View(theme styles.Theme) string {
	var out string
	if s.loading && s.text != "" {
		out = theme.Help.Render(s.spinner.View() + " " + s.text)
	}
	if s.notice != "" {
		style := theme.Info
		switch s.noticeKind {
		case NoticeSuccess:
			style = theme.Success
		case NoticeWarning:
			style = theme.Warning
		}
		if out != "" {
			out += "\n"
		}
		out += style.Render(s.notice)
	}
	return out
}
