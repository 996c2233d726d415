package tui

import (
	"context"
	"time"

	"docbrowse/internal/actions"
	"docbrowse/internal/config"
	"docbrowse/internal/errors"
	"docbrowse/internal/log"
	"docbrowse/internal/nav"
	"docbrowse/internal/tui/components"
	"docbrowse/internal/tui/messages"
	"docbrowse/internal/tui/styles"
	"docbrowse/internal/tui/views"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// NoticeTimeout is how long a notice stays up.
const NoticeTimeout = 3 * time.Second

// Opener launches a signed URL externally.
type Opener interface {
	Open(url string) error
}

// Saver writes a signed URL to disk.
type Saver interface {
	Save(ctx context.Context, signedURL, displayName string) (actions.Saved, error)
}

// Options wire the model to its collaborators.
type Options struct {
	Config        *config.Config
	Opener        Opener
	Saver         Saver
	StartProject  string
	ConfigUpdates <-chan *config.Config
}

type Model struct {
	ctx  context.Context
	ctrl *nav.Controller
	cfg  *config.Config

	opener Opener
	saver  Saver

	theme   styles.Theme
	keys    KeyMap
	help    help.Model
	status  *components.StatusBar
	list    *components.ItemList
	preview *components.PreviewPane

	filterInput textinput.Model
	filtering   bool

	startProject  string
	configUpdates <-chan *config.Config

	width    int
	height   int
	showHelp bool
}

// New creates the browser model. ctx bounds every request it issues.
func New(ctx context.Context, f nav.Fetcher, opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.New()
	}

	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "glob, e.g. *login* or v1.*"

	return &Model{
		ctx:           ctx,
		ctrl:          nav.New(f),
		cfg:           cfg,
		opener:        opts.Opener,
		saver:         opts.Saver,
		theme:         styles.New(cfg),
		keys:          DefaultKeyMap(),
		help:          help.New(),
		status:        components.NewStatusBar(),
		list:          components.NewItemList(),
		preview:       components.NewPreviewPane(cfg.Preview.RenderMarkdown, cfg.Preview.WordWrap),
		filterInput:   ti,
		startProject:  opts.StartProject,
		configUpdates: opts.ConfigUpdates,
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	var req *nav.Request
	if m.startProject != "" {
		req = m.ctrl.EnterReleases(m.startProject, m.startProject)
	} else {
		req = m.ctrl.EnterProjects()
	}
	return tea.Batch(m.issue(req), m.waitForConfig())
}

// View implements tea.Model
func (m *Model) View() string {
	return views.RenderMainView(m)
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.preview.SetSize(msg.Width-4, msg.Height-12)
		return m, nil

	case messages.ResultMsg:
		return m, m.settle(msg.Result)

	case messages.NoticeMsg:
		return m, m.notify(msg)

	case messages.ClearNoticeMsg:
		m.status.ClearNotice(msg.ID)
		return m, nil

	case messages.ConfigUpdateMsg:
		m.applyConfig(msg.Config)
		return m, m.waitForConfig()

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	if m.status.Loading() {
		return m, m.status.Update(msg)
	}
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status.DismissNotice()

	if m.filtering {
		return m, m.handleFilterKeys(msg)
	}

	screen := m.ctrl.Screen()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	case key.Matches(msg, m.keys.GoBack):
		if m.list.Filter() != "" {
			m.list.SetFilter("")
			return m, nil
		}
		return m, m.issue(m.ctrl.GoBack())
	case key.Matches(msg, m.keys.Reload):
		return m, m.issue(m.ctrl.Reload())
	case screen.Preview != nil && screen.Status == nav.StatusReady:
		// the preview pane owns scrolling keys
		return m, m.preview.Update(msg)
	case key.Matches(msg, m.keys.Up):
		m.list.MoveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.list.MoveCursor(1)
	case key.Matches(msg, m.keys.GotoTop):
		m.list.GotoTop()
	case key.Matches(msg, m.keys.GotoBottom):
		m.list.GotoBottom()
	case key.Matches(msg, m.keys.Enter):
		return m, m.issue(m.ctrl.Select(m.list.Selected()))
	case key.Matches(msg, m.keys.Filter):
		if len(screen.Items) > 0 {
			m.filtering = true
			m.filterInput.SetValue(m.list.Filter())
			return m, m.filterInput.Focus()
		}
	case key.Matches(msg, m.keys.Open):
		if screen.HasAction(nav.ActionOpen) && screen.Link != nil {
			return m, m.openLink(screen.Link.SignedURL)
		}
	case key.Matches(msg, m.keys.Download):
		if screen.HasAction(nav.ActionDownload) && screen.Link != nil {
			return m, m.download(screen.Link.SignedURL, screen.Entry.Args.FileName)
		}
	case key.Matches(msg, m.keys.Preview):
		return m, m.issue(m.ctrl.Preview())
	}
	return m, nil
}

func (m *Model) handleFilterKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		m.filtering = false
		m.filterInput.Blur()
		return nil
	case tea.KeyEsc:
		m.filtering = false
		m.filterInput.Blur()
		m.filterInput.SetValue("")
		m.list.SetFilter("")
		return nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	if err := m.list.SetFilter(m.filterInput.Value()); err != nil {
		log.Debugf("ignoring incomplete filter %q: %v", m.filterInput.Value(), err)
	}
	return cmd
}

// issue runs req off the event loop. A nil request does nothing.
func (m *Model) issue(req *nav.Request) tea.Cmd {
	if req == nil {
		return nil
	}
	m.filtering = false
	spin := m.status.SetLoading(true, "")

	ctx := m.ctx
	return tea.Batch(spin, func() tea.Msg {
		return messages.ResultMsg{Result: req.Run(ctx)}
	})
}

func (m *Model) settle(res nav.Result) tea.Cmd {
	if !m.ctrl.Settle(res) {
		return nil
	}
	m.status.SetLoading(false, "")

	screen := m.ctrl.Screen()
	m.list.SetItems(screen.Items)
	if screen.Preview != nil {
		m.preview.SetContent(screen.Preview.Content)
	}
	return nil
}

func (m *Model) openLink(url string) tea.Cmd {
	opener := m.opener
	if opener == nil {
		opener = actions.NewOpener(m.cfg.Open.Command)
	}
	return func() tea.Msg {
		if err := opener.Open(url); err != nil {
			return messages.NoticeMsg{Err: err}
		}
		return messages.NoticeMsg{Text: "Opened document in your browser"}
	}
}

func (m *Model) download(url, name string) tea.Cmd {
	if m.saver == nil {
		return nil
	}
	saver, ctx := m.saver, m.ctx
	return func() tea.Msg {
		saved, err := saver.Save(ctx, url, name)
		if err != nil {
			return messages.NoticeMsg{Err: err}
		}
		return messages.NoticeMsg{Text: saved.Notice()}
	}
}

func (m *Model) notify(msg messages.NoticeMsg) tea.Cmd {
	text, kind := msg.Text, components.NoticeSuccess
	if msg.Err != nil {
		kind = components.NoticeWarning
		switch {
		case errors.IsPopupBlocked(msg.Err):
			text = "Could not open a browser. Copy the signed link above instead."
		default:
			text = "Download failed: " + msg.Err.Error()
		}
	}
	id := m.status.ShowNotice(text, kind)
	return tea.Tick(NoticeTimeout, func(time.Time) tea.Msg {
		return messages.ClearNoticeMsg{ID: id}
	})
}

func (m *Model) waitForConfig() tea.Cmd {
	if m.configUpdates == nil {
		return nil
	}
	updates := m.configUpdates
	return func() tea.Msg {
		cfg, ok := <-updates
		if !ok {
			return nil
		}
		return messages.ConfigUpdateMsg{Config: cfg}
	}
}

func (m *Model) applyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	m.cfg = cfg
	m.theme = styles.New(cfg)
	m.preview.Configure(cfg.Preview.RenderMarkdown, cfg.Preview.WordWrap)
	// Commands already issued keep the opener and saver they captured
	if o, ok := m.opener.(*actions.Opener); ok {
		m.opener = o.WithCommand(cfg.Open.Command)
	}
	if d, ok := m.saver.(*actions.Downloader); ok {
		m.saver = d.WithDir(cfg.Downloads.Dir)
	}
	log.LogWithFields(log.F("theme", cfg.Theme.Name)).Info("configuration reloaded")
}

// Controller exposes the navigation controller.
func (m *Model) Controller() *nav.Controller {
	return m.ctrl
}

// Screen implements views.ModelReader
func (m *Model) Screen() nav.Screen {
	return m.ctrl.Screen()
}

func (m *Model) Theme() styles.Theme {
	return m.theme
}

func (m *Model) ItemsView() string {
	return m.list.View(m.theme, true)
}

func (m *Model) PreviewView() string {
	return m.preview.View()
}

func (m *Model) LoadingView() string {
	return m.theme.Help.Render(m.status.SpinnerView() + " " + m.ctrl.Screen().LoadingText)
}

func (m *Model) StatusView() string {
	return m.status.View(m.theme)
}

func (m *Model) FilterView() string {
	if m.filtering {
		return m.filterInput.View()
	}
	if f := m.list.Filter(); f != "" {
		return m.theme.Help.Render("filter: " + f + " (esc to clear)")
	}
	return ""
}

func (m *Model) ShowHelp() bool {
	return m.showHelp
}

func (m *Model) HelpView() string {
	return m.help.View(m.keys)
}

// Cursor returns the cursor row within the visible items.
func (m *Model) Cursor() int {
	return m.list.Cursor()
}

// Notice returns the notice currently shown, if any.
func (m *Model) Notice() string {
	return m.status.Notice()
}

func (m *Model) Filtering() bool {
	return m.filtering
}
