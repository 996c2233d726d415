package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"docbrowse/internal/nav"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loginDoc = "current_release/20240115103000_ab12cd_feature-login.md"

// newBackend serves a small documentation tree.
func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		escaped := "current_release%2F20240115103000_ab12cd_feature-login.md"
		routes := map[string]string{
			"/api/v1/browse/projects": `{"projects":[
				{"bucket_name":"42-proj-a","display_name":"proj-a (ID: 42)"},
				{"bucket_name":"43-beta","display_name":"beta (ID: 43)"}]}`,
			"/api/v1/browse/projects/42-proj-a/releases": `{"releases":[
				{"release_tag":"v1.0","release_note":true,"mr_docs_count":1}]}`,
			"/api/v1/browse/projects/42-proj-a/current-release": `{"total_files":1,"files":[
				{"file_path":"` + loginDoc + `","display_name":"Feature Login","created":"2024-01-15T10:30:00Z","size":2048}]}`,
			"/api/v1/browse/projects/42-proj-a/files/" + escaped: `{"file_path":"` + loginDoc + `",
				"signed_url":"` + srv.URL + `/signed/login","expires_in":"1h","created":"2024-01-15T10:30:00Z","size":16}`,
			"/api/v1/browse/projects/42-proj-a/files/releases%2Fv1.0%2Fgone.md": `{"file_path":"releases/v1.0/gone.md",
				"signed_url":"` + srv.URL + `/signed/gone","expires_in":"1h","created":"2024-01-15T10:30:00Z","size":16}`,
		}

		switch r.URL.EscapedPath() {
		case "/signed/login":
			w.Write([]byte("# Feature login\n"))
			return
		case "/api/v1/browse/projects/42-proj-a/files/" + escaped + "/preview":
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			w.Write([]byte(`{"detail":"File too large for preview"}`))
			return
		}

		body, ok := routes[r.URL.EscapedPath()]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// runCmd executes the root command and returns stdout.
func runCmd(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DOCBROWSE_SERVER", "")

	cfg := filepath.Join(t.TempDir(), "config.yaml")
	full := append([]string{"--config", cfg}, args...)
	if srv != nil {
		full = append([]string{"--server", srv.URL}, full...)
	}

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs(full)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestHelpListsCommands(t *testing.T) {
	out, err := runCmd(t, nil, "--help")
	require.NoError(t, err)
	for _, name := range []string{"tui", "projects", "releases", "files", "link", "preview", "download", "config"} {
		assert.Contains(t, out, name)
	}
}

func TestProjectsCommand(t *testing.T) {
	srv := newBackend(t)

	out, err := runCmd(t, srv, "projects")
	require.NoError(t, err)
	assert.Contains(t, out, "Documentation Projects")
	assert.Contains(t, out, "proj-a (ID: 42)")
	assert.Contains(t, out, "beta (ID: 43)")
	assert.Contains(t, out, "Projects Available")

	out, err = runCmd(t, srv, "projects", "--match", "beta")
	require.NoError(t, err)
	assert.Contains(t, out, "beta (ID: 43)")
	assert.NotContains(t, out, "proj-a (ID: 42)")
}

func TestReleasesAndFilesCommands(t *testing.T) {
	srv := newBackend(t)

	out, err := runCmd(t, srv, "releases", "42-proj-a")
	require.NoError(t, err)
	assert.Contains(t, out, "v1.0")
	assert.Contains(t, out, "Current Release")

	out, err = runCmd(t, srv, "files", "42-proj-a", "current")
	require.NoError(t, err)
	assert.Contains(t, out, "Current Release (Unreleased MRs)")
	assert.Contains(t, out, "Feature Login")
}

func TestFilesRequestNavigatesOnce(t *testing.T) {
	tests := []struct {
		tag  string
		want nav.View
	}{
		{"current", nav.ViewCurrentRelease},
		{"v1.0", nav.ViewReleaseFiles},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			c := nav.New(nil)
			req := filesRequest(c, "42-proj-a", tt.tag)
			require.NotNil(t, req)
			assert.Equal(t, uint64(1), req.Token)

			s := c.State()
			assert.Equal(t, tt.want, s.CurrentView())
			assert.Equal(t, []nav.Entry{nav.ProjectsEntry()}, s.History)
		})
	}
}

func TestServerFailure(t *testing.T) {
	srv := newBackend(t)

	out, err := runCmd(t, srv, "releases", "missing")
	require.Error(t, err)
	assert.Contains(t, out, "❌")
}

func TestInvalidServerFlag(t *testing.T) {
	_, err := runCmd(t, nil, "--server", "not-a-url", "projects")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--server")
}

func TestLinkCommand(t *testing.T) {
	srv := newBackend(t)

	out, err := runCmd(t, srv, "link", "42-proj-a", loginDoc)
	require.NoError(t, err)
	assert.Contains(t, out, srv.URL+"/signed/login")
	assert.Contains(t, out, "This link expires in 1h")
}

func TestPreviewTooLarge(t *testing.T) {
	srv := newBackend(t)

	out, err := runCmd(t, srv, "preview", "42-proj-a", loginDoc)
	require.Error(t, err)
	assert.Contains(t, out, "Preview failed: File too large for preview (max 50KB)")
}

func TestDownloadCommand(t *testing.T) {
	srv := newBackend(t)
	dir := t.TempDir()

	out, err := runCmd(t, srv, "download", "42-proj-a", loginDoc, "--dir", dir)
	require.NoError(t, err)

	want := filepath.Join(dir, "Feature Login - January 15, 2024.md")
	data, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.Equal(t, "# Feature login\n", string(data))
	assert.Contains(t, out, "Saved "+want+" (16 B)")
}

func TestDownloadExpiredLink(t *testing.T) {
	srv := newBackend(t)
	dir := t.TempDir()

	_, err := runCmd(t, srv, "download", "42-proj-a", "releases/v1.0/gone.md", "--dir", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "download releases/v1.0/gone.md")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestConfigInit(t *testing.T) {
	t.Setenv("DOCBROWSE_SERVER", "")
	cfg := filepath.Join(t.TempDir(), "nested", "config.yaml")

	run := func(args ...string) (string, error) {
		var stdout bytes.Buffer
		cmd := NewRootCmd()
		cmd.SetArgs(append([]string{"--config", cfg}, args...))
		cmd.SetOut(&stdout)
		cmd.SetErr(&bytes.Buffer{})
		err := cmd.Execute()
		return stdout.String(), err
	}

	out, err := run("config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "(not found, showing defaults)")

	_, err = run("config", "init", "--theme", "dark")
	require.NoError(t, err)
	require.FileExists(t, cfg)

	_, err = run("config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	out, err = run("config", "show")
	require.NoError(t, err)
	assert.NotContains(t, out, "not found")
	assert.Contains(t, out, "name: dark")
	assert.Contains(t, out, "base_url: http://127.0.0.1:8000")
}
