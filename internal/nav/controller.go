package nav

import (
	"context"
	"strings"

	"docbrowse/internal/api"
	"docbrowse/internal/log"

	"go.uber.org/atomic"
)

// Fetcher is the subset of the browse API the controller needs.
type Fetcher interface {
	Projects(ctx context.Context) (*api.ProjectList, error)
	ReleasesOverview(ctx context.Context, bucket string) (*api.ReleasesOverview, error)
	CurrentRelease(ctx context.Context, bucket string) (*api.CurrentRelease, error)
	ReleaseFiles(ctx context.Context, bucket, tag string) (*api.ReleaseFiles, error)
	SignedLink(ctx context.Context, bucket, path string) (*api.SignedLink, error)
	Preview(ctx context.Context, bucket, path string) (*api.Preview, error)
}

// Request is an issued fetch. Run performs it; it may be called from any
// goroutine and does not touch controller state.
type Request struct {
	Token uint64
	Entry Entry

	fetcher Fetcher
	load    loader
}

// Result is a settled request.
type Result struct {
	Token uint64
	Entry Entry
	Err   error

	fill func(*Screen)
}

// Run performs the fetch.
func (r *Request) Run(ctx context.Context) Result {
	fill, err := r.load(ctx, r.fetcher, r.Entry.Args)
	return Result{Token: r.Token, Entry: r.Entry, Err: err, fill: fill}
}

// Controller owns the navigation state. Its methods must be called from a
// single goroutine (the UI event loop); only Request.Run runs elsewhere.
type Controller struct {
	fetcher Fetcher
	token   *atomic.Uint64

	current Entry
	project *Project
	release string
	section string
	history []Entry

	screen Screen
}

// New returns a controller in the initial Projects state. Nothing is fetched
// until EnterProjects is called.
func New(f Fetcher) *Controller {
	c := &Controller{
		fetcher: f,
		token:   atomic.NewUint64(0),
		current: ProjectsEntry(),
	}
	c.screen = Screen{Entry: c.current, Breadcrumb: "Projects", Status: StatusLoading}
	return c
}

// EnterProjects clears all state and lists the projects.
func (c *Controller) EnterProjects() *Request {
	return c.Navigate(ProjectsEntry())
}

// EnterReleases lists the releases and the unreleased summary of bucket.
func (c *Controller) EnterReleases(bucket, displayName string) *Request {
	return c.Navigate(ReleasesEntry(bucket, displayName))
}

// EnterCurrentRelease lists the files not yet bound to a release.
func (c *Controller) EnterCurrentRelease(bucket string) *Request {
	return c.Navigate(CurrentReleaseEntry(bucket))
}

// EnterReleaseFiles lists the release note and MR documents of tag.
func (c *Controller) EnterReleaseFiles(bucket, tag string) *Request {
	return c.Navigate(ReleaseFilesEntry(bucket, tag))
}

// RequestFileAccess fetches a fresh signed link for path.
func (c *Controller) RequestFileAccess(bucket, path, displayName string) *Request {
	return c.Navigate(FileAccessEntry(bucket, path, displayName))
}

// RequestFilePreview fetches the raw content of path.
func (c *Controller) RequestFilePreview(bucket, path, displayName string) *Request {
	return c.Navigate(FilePreviewEntry(bucket, path, displayName))
}

// Navigate descends to e, remembering the current view in history.
// Navigating to Projects resets history instead.
func (c *Controller) Navigate(e Entry) *Request {
	if e.View == ViewProjects {
		c.history = nil
	} else {
		c.history = append(c.history, c.current)
	}
	return c.load(e)
}

// GoBack pops the most recent history entry and restores it. It returns nil
// when the history is empty.
func (c *Controller) GoBack() *Request {
	if len(c.history) == 0 {
		return nil
	}
	prev := c.history[len(c.history)-1]
	c.history = c.history[:len(c.history)-1]
	if prev.View == ViewProjects {
		c.history = nil
	}
	return c.load(prev)
}

// Reload re-enters the current view without touching history.
func (c *Controller) Reload() *Request {
	return c.load(c.current)
}

// Select navigates to the target of item i of the current screen. It returns
// nil when i is out of range or the screen is not ready.
func (c *Controller) Select(i int) *Request {
	if c.screen.Status != StatusReady || i < 0 || i >= len(c.screen.Items) {
		return nil
	}
	return c.Navigate(c.screen.Items[i].Target)
}

// Preview follows the preview action of a ready file-access screen.
func (c *Controller) Preview() *Request {
	if c.current.View != ViewFileAccess || !c.screen.HasAction(ActionPreview) {
		return nil
	}
	a := c.current.Args
	return c.RequestFilePreview(a.Bucket, a.Path, a.FileName)
}

// Settle applies a result. Results of superseded requests are discarded and
// Settle reports false.
func (c *Controller) Settle(res Result) bool {
	if res.Token != c.token.Load() {
		log.LogWithFields(log.F("view", res.Entry.String()), log.F("token", res.Token)).Debug("discarding stale result")
		return false
	}

	if res.Err != nil {
		c.screen.Status = StatusFailed
		c.screen.Err = res.Err
		c.screen.ErrorText = failureText(res.Entry.View, res.Err)
		c.screen.Actions = failureActions(res.Entry.View, len(c.history) > 0)
		log.LogWithError(res.Err).With(log.F("view", res.Entry.String())).Warn("view failed to load")
		return true
	}

	c.screen.Status = StatusReady
	if res.fill != nil {
		res.fill(&c.screen)
	}
	return true
}

// Do runs req synchronously and settles it. A nil request is a no-op.
func (c *Controller) Do(ctx context.Context, req *Request) bool {
	if req == nil {
		return false
	}
	return c.Settle(req.Run(ctx))
}

// Screen returns the current screen model.
func (c *Controller) Screen() Screen {
	return c.screen
}

// State returns a snapshot of the navigation state.
func (c *Controller) State() State {
	s := State{
		Current: c.current,
		Release: c.release,
		History: append([]Entry(nil), c.history...),
	}
	if c.project != nil {
		p := *c.project
		s.Project = &p
	}
	return s
}

// CanGoBack reports whether back-navigation is available.
func (c *Controller) CanGoBack() bool {
	return len(c.history) > 0
}

func (c *Controller) load(e Entry) *Request {
	c.current = e
	c.track(e)

	token := c.token.Inc()
	c.screen = Screen{
		Entry:       e,
		Status:      StatusLoading,
		Breadcrumb:  c.breadcrumb(e),
		Title:       titleFor(e),
		LoadingText: loadingText[e.View],
		BackVisible: len(c.history) > 0,
	}

	log.LogWithFields(log.F("view", e.String()), log.F("token", token), log.F("depth", len(c.history))).Debug("entering view")
	return &Request{Token: token, Entry: e, fetcher: c.fetcher, load: dispatch[e.View]}
}

// track updates the project and release context for e.
func (c *Controller) track(e Entry) {
	a := e.Args
	switch e.View {
	case ViewProjects:
		c.project = nil
		c.release = ""
		c.section = ""
		return
	case ViewReleases:
		c.project = &Project{Bucket: a.Bucket, Name: a.DisplayName}
		c.release = ""
		c.section = ""
	case ViewCurrentRelease:
		c.release = ""
		c.section = "Current Release"
	case ViewReleaseFiles:
		c.release = a.Tag
		c.section = a.Tag
	}

	if c.project == nil || c.project.Bucket != a.Bucket {
		name := a.DisplayName
		if name == "" {
			name = a.Bucket
		}
		c.project = &Project{Bucket: a.Bucket, Name: name}
	} else if a.DisplayName != "" {
		c.project.Name = a.DisplayName
	}
}

func (c *Controller) breadcrumb(e Entry) string {
	parts := []string{"Projects"}
	if e.View == ViewProjects || c.project == nil {
		return parts[0]
	}
	parts = append(parts, c.project.Name)
	if e.View != ViewReleases && c.section != "" {
		parts = append(parts, c.section)
	}
	switch e.View {
	case ViewFileAccess:
		parts = append(parts, e.Args.FileName)
	case ViewFilePreview:
		parts = append(parts, e.Args.FileName, "Preview")
	}
	return strings.Join(parts, " > ")
}
