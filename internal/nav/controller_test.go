package nav

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"docbrowse/internal/api"
	"docbrowse/internal/errors"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher serves canned data; a non-nil error field fails that call.
type fakeFetcher struct {
	projects  api.ProjectList
	releases  api.ReleaseList
	current   api.CurrentRelease
	files     api.ReleaseFiles
	link      api.SignedLink
	preview   api.Preview
	errs      map[string]error
	callCount map[string]int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		projects: api.ProjectList{Projects: []api.Project{{BucketName: "proj-a", DisplayName: "Project A"}}},
		releases: api.ReleaseList{Releases: []api.Release{{Tag: "v1.0", ReleaseNote: true, MRDocsCount: 3}}},
		current: api.CurrentRelease{TotalFiles: 1, Files: []api.FileEntry{
			{Path: "current_release/20240115_ab12_feature-login.md", DisplayName: "Feature Login", Size: 2048},
		}},
		files: api.ReleaseFiles{
			ReleaseNote: &api.FileEntry{Path: "releases/v1.0/release-note.md", DisplayName: "Release Note - v1.0", Size: 100},
			MRDocs:      []api.FileEntry{{Path: "releases/v1.0/mr_docs/a.md", DisplayName: "A", Size: 512}},
		},
		link:      api.SignedLink{Path: "releases/v1.0/mr_docs/a.md", SignedURL: "https://storage.example/a?sig=1", ExpiresIn: "1h", Size: 512},
		preview:   api.Preview{Size: 5, Content: "# Hi\n"},
		errs:      map[string]error{},
		callCount: map[string]int{},
	}
}

func (f *fakeFetcher) call(name string) error {
	f.callCount[name]++
	return f.errs[name]
}

func (f *fakeFetcher) Projects(context.Context) (*api.ProjectList, error) {
	if err := f.call("projects"); err != nil {
		return nil, err
	}
	return &f.projects, nil
}

func (f *fakeFetcher) ReleasesOverview(context.Context, string) (*api.ReleasesOverview, error) {
	relErr, curErr := f.call("releases"), f.call("current")
	if relErr != nil {
		return nil, relErr
	}
	if curErr != nil {
		return nil, curErr
	}
	return &api.ReleasesOverview{Releases: f.releases, Current: f.current}, nil
}

func (f *fakeFetcher) CurrentRelease(context.Context, string) (*api.CurrentRelease, error) {
	if err := f.call("current"); err != nil {
		return nil, err
	}
	return &f.current, nil
}

func (f *fakeFetcher) ReleaseFiles(context.Context, string, string) (*api.ReleaseFiles, error) {
	if err := f.call("files"); err != nil {
		return nil, err
	}
	return &f.files, nil
}

func (f *fakeFetcher) SignedLink(context.Context, string, string) (*api.SignedLink, error) {
	if err := f.call("link"); err != nil {
		return nil, err
	}
	return &f.link, nil
}

func (f *fakeFetcher) Preview(context.Context, string, string) (*api.Preview, error) {
	if err := f.call("preview"); err != nil {
		return nil, err
	}
	return &f.preview, nil
}

func serverError(endpoint string, status int) error {
	return errors.NewAPIError("unexpected response", endpoint, status, nil)
}

func assertHistoryInvariant(t *testing.T, c *Controller) {
	t.Helper()
	s := c.State()
	assert.Equal(t, len(s.History) == 0, s.CurrentView() == ViewProjects,
		"history %v with current view %s", s.History, s.Current)
	assert.Equal(t, len(s.History) > 0, c.Screen().BackVisible)
}

func TestInitialState(t *testing.T) {
	c := New(newFakeFetcher())
	s := c.State()
	assert.Equal(t, ViewProjects, s.CurrentView())
	assert.Empty(t, s.History)
	assert.Nil(t, s.Project)
	assert.False(t, c.CanGoBack())
	assert.Nil(t, c.GoBack())
}

func TestProjectListScenario(t *testing.T) {
	f := newFakeFetcher()
	c := New(f)

	req := c.EnterProjects()
	assert.Equal(t, StatusLoading, c.Screen().Status)
	assert.Equal(t, "Loading projects...", c.Screen().LoadingText)
	require.True(t, c.Do(context.Background(), req))

	screen := c.Screen()
	assert.Equal(t, StatusReady, screen.Status)
	require.Len(t, screen.Items, 1)
	assert.Equal(t, "Project A", screen.Items[0].Title)
	assert.Equal(t, "Bucket: proj-a", screen.Items[0].Detail)

	want := Entry{View: ViewReleases, Args: Args{Bucket: "proj-a", DisplayName: "Project A"}}
	if diff := cmp.Diff(want, screen.Items[0].Target); diff != "" {
		t.Errorf("click-through target mismatch (-want +got):\n%s", diff)
	}

	require.True(t, c.Do(context.Background(), c.Select(0)))
	s := c.State()
	assert.Equal(t, ViewReleases, s.CurrentView())
	require.NotNil(t, s.Project)
	assert.Equal(t, Project{Bucket: "proj-a", Name: "Project A"}, *s.Project)
	assert.Equal(t, "Projects > Project A", c.Screen().Breadcrumb)
}

func TestEmptyProjects(t *testing.T) {
	f := newFakeFetcher()
	f.projects = api.ProjectList{}
	c := New(f)

	require.True(t, c.Do(context.Background(), c.EnterProjects()))
	screen := c.Screen()
	assert.Empty(t, screen.Items)
	require.NotNil(t, screen.Empty)
	assert.Equal(t, "No Projects Found", screen.Empty.Title)
}

func TestReleasesScenarioWithoutCurrent(t *testing.T) {
	f := newFakeFetcher()
	f.current = api.CurrentRelease{TotalFiles: 0}
	c := New(f)

	require.True(t, c.Do(context.Background(), c.EnterReleases("proj-a", "Project A")))
	screen := c.Screen()
	require.Len(t, screen.Items, 1)
	assert.Equal(t, "v1.0", screen.Items[0].Title)
	assert.Equal(t, "Release Note: ✅ Available | MR Documents: 3", screen.Items[0].Detail)
	assert.Equal(t, ReleaseFilesEntry("proj-a", "v1.0"), screen.Items[0].Target)

	want := []Stat{{Value: 1, Label: "Published Releases"}, {Value: 0, Label: "Unreleased MRs"}}
	if diff := cmp.Diff(want, screen.Stats); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestReleasesWithCurrent(t *testing.T) {
	f := newFakeFetcher()
	f.current.TotalFiles = 4
	c := New(f)

	require.True(t, c.Do(context.Background(), c.EnterReleases("proj-a", "Project A")))
	screen := c.Screen()
	require.Len(t, screen.Items, 2)
	assert.Equal(t, "Current Release (Unreleased MRs)", screen.Items[0].Title)
	assert.Equal(t, "4 MR documentation files ready for next release", screen.Items[0].Detail)
	assert.Equal(t, CurrentReleaseEntry("proj-a"), screen.Items[0].Target)
}

func TestReleasesEmpty(t *testing.T) {
	f := newFakeFetcher()
	f.releases = api.ReleaseList{}
	f.current = api.CurrentRelease{}
	c := New(f)

	require.True(t, c.Do(context.Background(), c.EnterReleases("proj-a", "Project A")))
	require.NotNil(t, c.Screen().Empty)
	assert.Equal(t, "No Documentation Found", c.Screen().Empty.Title)
}

func TestReleasesFailIfEitherFetchFails(t *testing.T) {
	for _, failing := range []string{"releases", "current"} {
		t.Run(failing, func(t *testing.T) {
			f := newFakeFetcher()
			f.errs[failing] = serverError("/x", http.StatusInternalServerError)
			c := New(f)

			require.True(t, c.Do(context.Background(), c.EnterReleases("proj-a", "Project A")))
			screen := c.Screen()
			assert.Equal(t, StatusFailed, screen.Status)
			assert.Empty(t, screen.Items, "no partial update")
			assert.Empty(t, screen.Stats, "no partial update")
			assert.Contains(t, screen.ErrorText, "Failed to load releases")
			assert.True(t, screen.HasAction(ActionBack))
			assertHistoryInvariant(t, c)
		})
	}
}

func TestGoBackReturnsToPreviousView(t *testing.T) {
	ctx := context.Background()
	c := New(newFakeFetcher())

	steps := []func() *Request{
		c.EnterProjects,
		func() *Request { return c.EnterReleases("proj-a", "Project A") },
		func() *Request { return c.EnterReleaseFiles("proj-a", "v1.0") },
		func() *Request { return c.RequestFileAccess("proj-a", "releases/v1.0/mr_docs/a.md", "A") },
		func() *Request { return c.RequestFilePreview("proj-a", "releases/v1.0/mr_docs/a.md", "A") },
	}

	var visited []Entry
	for _, step := range steps {
		require.True(t, c.Do(ctx, step()))
		visited = append(visited, c.State().Current)
		assertHistoryInvariant(t, c)
	}

	for i := len(visited) - 2; i >= 0; i-- {
		req := c.GoBack()
		require.NotNil(t, req)
		require.True(t, c.Do(ctx, req))
		if diff := cmp.Diff(visited[i], c.State().Current); diff != "" {
			t.Fatalf("back step %d mismatch (-want +got):\n%s", i, diff)
		}
		assert.Len(t, c.State().History, i)
		assertHistoryInvariant(t, c)
	}

	assert.Nil(t, c.GoBack(), "going back on projects is a no-op")
	assert.Equal(t, ViewProjects, c.State().CurrentView())
}

func TestHistoryInvariantAcrossSequences(t *testing.T) {
	ctx := context.Background()
	c := New(newFakeFetcher())

	ops := []struct {
		name string
		op   func() *Request
	}{
		{"projects", c.EnterProjects},
		{"releases", func() *Request { return c.EnterReleases("proj-a", "Project A") }},
		{"current", func() *Request { return c.EnterCurrentRelease("proj-a") }},
		{"back", c.GoBack},
		{"files", func() *Request { return c.EnterReleaseFiles("proj-a", "v1.0") }},
		{"access", func() *Request { return c.RequestFileAccess("proj-a", "p.md", "P") }},
		{"reload", c.Reload},
		{"back", c.GoBack},
		{"back", c.GoBack},
		{"back", c.GoBack},
		{"back", c.GoBack},
		{"releases", func() *Request { return c.EnterReleases("proj-a", "Project A") }},
		{"projects", c.EnterProjects},
	}
	for _, o := range ops {
		c.Do(ctx, o.op())
		assertHistoryInvariant(t, c)
	}
	assert.Empty(t, c.State().History)
}

func TestReloadKeepsHistory(t *testing.T) {
	ctx := context.Background()
	f := newFakeFetcher()
	c := New(f)

	c.Do(ctx, c.EnterReleases("proj-a", "Project A"))
	c.Do(ctx, c.EnterCurrentRelease("proj-a"))
	before := c.State()

	require.True(t, c.Do(ctx, c.Reload()))
	if diff := cmp.Diff(before, c.State()); diff != "" {
		t.Errorf("reload changed state (-before +after):\n%s", diff)
	}
	assert.Equal(t, 3, f.callCount["current"], "overview, entry and reload each fetch")
}

func TestCurrentReleaseScreen(t *testing.T) {
	ctx := context.Background()
	c := New(newFakeFetcher())
	c.Do(ctx, c.EnterReleases("proj-a", "Project A"))
	require.True(t, c.Do(ctx, c.EnterCurrentRelease("proj-a")))

	screen := c.Screen()
	assert.Equal(t, "Projects > Project A > Current Release", screen.Breadcrumb)
	require.Len(t, screen.Items, 1)
	assert.Equal(t, "📄", screen.Items[0].Icon)
	assert.Contains(t, screen.Items[0].Detail, "Size: 2.0 KB")
	assert.Equal(t, FileAccessEntry("proj-a", "current_release/20240115_ab12_feature-login.md", "Feature Login"), screen.Items[0].Target)
}

func TestReleaseFilesScreen(t *testing.T) {
	ctx := context.Background()
	f := newFakeFetcher()
	c := New(f)
	c.Do(ctx, c.EnterReleases("proj-a", "Project A"))
	require.True(t, c.Do(ctx, c.EnterReleaseFiles("proj-a", "v1.0")))

	screen := c.Screen()
	assert.Equal(t, "Projects > Project A > v1.0", screen.Breadcrumb)
	assert.Equal(t, "v1.0", c.State().Release)
	require.Len(t, screen.Items, 2)
	assert.Equal(t, "📋", screen.Items[0].Icon)
	assert.Equal(t, "Release Note - v1.0", screen.Items[0].Title)

	f.files = api.ReleaseFiles{}
	require.True(t, c.Do(ctx, c.Reload()))
	require.NotNil(t, c.Screen().Empty)
	assert.Equal(t, "No Files Found", c.Screen().Empty.Title)
}

func TestFileAccessScenario(t *testing.T) {
	ctx := context.Background()
	c := New(newFakeFetcher())
	c.Do(ctx, c.EnterReleases("proj-a", "Project A"))
	c.Do(ctx, c.EnterReleaseFiles("proj-a", "v1.0"))
	require.True(t, c.Do(ctx, c.RequestFileAccess("proj-a", "releases/v1.0/mr_docs/a.md", "A")))

	screen := c.Screen()
	assert.Equal(t, StatusReady, screen.Status)
	assert.Equal(t, "📄 A", screen.Title)
	assert.Equal(t, "Projects > Project A > v1.0 > A", screen.Breadcrumb)

	kinds := make([]ActionKind, 0, len(screen.Actions))
	for _, a := range screen.Actions {
		kinds = append(kinds, a.Kind)
	}
	if diff := cmp.Diff([]ActionKind{ActionOpen, ActionDownload, ActionPreview}, kinds); diff != "" {
		t.Errorf("actions mismatch (-want +got):\n%s", diff)
	}

	require.NotNil(t, screen.Link)
	assert.Equal(t, "https://storage.example/a?sig=1", screen.Link.SignedURL)

	require.NotEmpty(t, screen.Info)
	assert.Contains(t, screen.Info[0], "1h")
}

func TestFileAccessFailure(t *testing.T) {
	ctx := context.Background()
	f := newFakeFetcher()
	f.errs["link"] = serverError("/files/x", http.StatusNotFound)
	c := New(f)
	c.Do(ctx, c.EnterReleases("proj-a", "Project A"))
	require.True(t, c.Do(ctx, c.RequestFileAccess("proj-a", "x", "X")))

	screen := c.Screen()
	assert.Equal(t, StatusFailed, screen.Status)
	assert.Contains(t, screen.ErrorText, "Failed to generate access link")
	assert.Nil(t, screen.Link)
	require.Len(t, screen.Actions, 1)
	assert.Equal(t, ActionBack, screen.Actions[0].Kind)
}

func TestPreviewErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantText string
		tooLarge bool
	}{
		{"too_large", errors.NewAPIErrorKind(errors.PreviewTooLarge, "too large", "/preview", http.StatusRequestEntityTooLarge, nil), "Preview failed: File too large for preview (max 50KB)", true},
		{"server_error", serverError("/preview", http.StatusInternalServerError), "Preview failed: Failed to load preview", false},
		{"not_found", serverError("/preview", http.StatusNotFound), "Preview failed: Failed to load preview", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFakeFetcher()
			f.errs["preview"] = tt.err
			c := New(f)
			c.Do(ctx, c.EnterReleases("proj-a", "Project A"))
			c.Do(ctx, c.RequestFileAccess("proj-a", "a.md", "A"))
			require.True(t, c.Do(ctx, c.Preview()))

			screen := c.Screen()
			assert.Equal(t, StatusFailed, screen.Status)
			assert.Equal(t, tt.wantText, screen.ErrorText)
			assert.Equal(t, tt.tooLarge, errors.IsPreviewTooLarge(screen.Err))
			require.Len(t, screen.Actions, 1)
			assert.Equal(t, LabelBackToAccess, screen.Actions[0].Label)

			// back to file options fetches a fresh link
			before := f.callCount["link"]
			require.True(t, c.Do(ctx, c.GoBack()))
			assert.Equal(t, ViewFileAccess, c.State().CurrentView())
			assert.Equal(t, before+1, f.callCount["link"])
		})
	}
}

func TestPreviewSuccess(t *testing.T) {
	ctx := context.Background()
	c := New(newFakeFetcher())
	c.Do(ctx, c.EnterReleases("proj-a", "Project A"))
	c.Do(ctx, c.EnterCurrentRelease("proj-a"))
	c.Do(ctx, c.RequestFileAccess("proj-a", "a.md", "A"))
	require.True(t, c.Do(ctx, c.Preview()))

	screen := c.Screen()
	assert.Equal(t, "📄 A - Preview", screen.Title)
	assert.Equal(t, "Projects > Project A > Current Release > A > Preview", screen.Breadcrumb)
	require.NotNil(t, screen.Preview)
	assert.Equal(t, "# Hi\n", screen.Preview.Content)
	assert.Nil(t, c.Preview(), "preview is only offered from file access")
}

func TestStaleResultsAreDiscarded(t *testing.T) {
	ctx := context.Background()
	f := newFakeFetcher()
	c := New(f)
	c.Do(ctx, c.EnterProjects())

	slow := c.EnterReleases("proj-a", "Project A")
	slowResult := slow.Run(ctx)

	c.GoBack()
	fast := c.EnterReleases("proj-b", "Project B")
	f.releases = api.ReleaseList{Releases: []api.Release{{Tag: "v9"}}}
	require.True(t, c.Settle(fast.Run(ctx)))

	assert.False(t, c.Settle(slowResult), "superseded result must be discarded")
	screen := c.Screen()
	require.NotEmpty(t, screen.Items)
	assert.Equal(t, "v9", screen.Items[len(screen.Items)-1].Title)
	assert.Equal(t, "Projects > Project B", screen.Breadcrumb)
}

func TestSelectBounds(t *testing.T) {
	c := New(newFakeFetcher())
	req := c.EnterProjects()
	assert.Nil(t, c.Select(0), "nothing selectable while loading")
	c.Do(context.Background(), req)
	assert.Nil(t, c.Select(-1))
	assert.Nil(t, c.Select(5))
	assert.NotNil(t, c.Select(0))
}

func TestFormatSize(t *testing.T) {
	tests := map[int64]string{
		0:     "0.0 KB",
		512:   "0.5 KB",
		2048:  "2.0 KB",
		51200: "50.0 KB",
	}
	for n, want := range tests {
		assert.Equal(t, want, FormatSize(n), fmt.Sprint(n))
	}
}
