// Package api is a typed client for the documentation browse REST API.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"docbrowse/internal/errors"
	"docbrowse/internal/log"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// BasePath is the browse API prefix.
const BasePath = "/api/v1/browse"

// Client calls the browse endpoints. The zero timeout leaves network
// defaults in place.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets a client-wide request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New returns a client rooted at baseURL (scheme://host[/prefix]).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  "docbrowse",
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ProjectsPath and friends build endpoint paths with escaped segments.
func ProjectsPath() string {
	return BasePath + "/projects"
}

func ReleasesPath(bucket string) string {
	return ProjectsPath() + "/" + url.PathEscape(bucket) + "/releases"
}

func CurrentReleasePath(bucket string) string {
	return ProjectsPath() + "/" + url.PathEscape(bucket) + "/current-release"
}

func ReleaseFilesPath(bucket, tag string) string {
	return ReleasesPath(bucket) + "/" + url.PathEscape(tag) + "/files"
}

// FilePath escapes the whole object path as one segment.
func FilePath(bucket, path string) string {
	return ProjectsPath() + "/" + url.PathEscape(bucket) + "/files/" + url.PathEscape(path)
}

func PreviewPath(bucket, path string) string {
	return FilePath(bucket, path) + "/preview"
}

// Projects lists every project bucket.
func (c *Client) Projects(ctx context.Context) (*ProjectList, error) {
	var out ProjectList
	if err := c.getJSON(ctx, ProjectsPath(), "failed to fetch projects", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Releases lists the published releases of bucket.
func (c *Client) Releases(ctx context.Context, bucket string) (*ReleaseList, error) {
	var out ReleaseList
	if err := c.getJSON(ctx, ReleasesPath(bucket), "failed to fetch releases", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CurrentRelease lists the files not yet bound to a release.
func (c *Client) CurrentRelease(ctx context.Context, bucket string) (*CurrentRelease, error) {
	var out CurrentRelease
	if err := c.getJSON(ctx, CurrentReleasePath(bucket), "failed to fetch current release", &out); err != nil {
		return nil, err
	}
	if out.TotalFiles == 0 && len(out.Files) > 0 {
		out.TotalFiles = len(out.Files)
	}
	EnsureDisplayNames(out.Files)
	return &out, nil
}

// ReleasesOverview fetches the release list and the current release summary
// concurrently. It returns only once both requests have settled and fails if
// either does.
func (c *Client) ReleasesOverview(ctx context.Context, bucket string) (*ReleasesOverview, error) {
	var (
		releases *ReleaseList
		current  *CurrentRelease
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		releases, err = c.Releases(gctx, bucket)
		return err
	})
	g.Go(func() error {
		var err error
		current, err = c.CurrentRelease(gctx, bucket)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &ReleasesOverview{Releases: *releases, Current: *current}, nil
}

// ReleaseFiles lists the release note and MR documents of one tag.
func (c *Client) ReleaseFiles(ctx context.Context, bucket, tag string) (*ReleaseFiles, error) {
	var out ReleaseFiles
	if err := c.getJSON(ctx, ReleaseFilesPath(bucket, tag), "failed to fetch release files", &out); err != nil {
		return nil, err
	}
	EnsureDisplayNames(out.MRDocs)
	if out.ReleaseNote != nil && out.ReleaseNote.DisplayName == "" {
		out.ReleaseNote.DisplayName = "Release Note - " + tag
	}
	return &out, nil
}

// SignedLink asks the backend to sign a direct URL for path.
func (c *Client) SignedLink(ctx context.Context, bucket, path string) (*SignedLink, error) {
	var out SignedLink
	if err := c.getJSON(ctx, FilePath(bucket, path), "failed to generate access link", &out); err != nil {
		return nil, err
	}
	if out.Path == "" {
		out.Path = path
	}
	return &out, nil
}

// Preview fetches the raw content of path. A 413 answer yields an error for
// which errors.IsPreviewTooLarge is true.
func (c *Client) Preview(ctx context.Context, bucket, path string) (*Preview, error) {
	var out Preview
	if err := c.getJSON(ctx, PreviewPath(bucket, path), "failed to load preview", &out); err != nil {
		var apiErr *errors.APIError
		if errors.As(err, &apiErr) && apiErr.Status() == http.StatusRequestEntityTooLarge {
			return nil, errors.NewAPIErrorKind(errors.PreviewTooLarge, "file too large for preview", apiErr.Endpoint(), apiErr.Status(), nil)
		}
		return nil, err
	}
	if out.Path == "" {
		out.Path = path
	}
	return &out, nil
}

// Download streams the object behind a signed URL into w and returns the
// number of bytes written.
func (c *Client) Download(ctx context.Context, signedURL string, w io.Writer) (int64, error) {
	resp, err := c.do(ctx, signedURL, "")
	if err != nil {
		return 0, errors.NewKind(errors.DownloadFailed, "download failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return 0, errors.NewKind(errors.DownloadFailed, "download failed",
			errors.NewAPIError("signed url rejected", "", resp.StatusCode, nil))
	}
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, errors.NewKind(errors.DownloadFailed, "download interrupted", err)
	}
	return n, nil
}

func (c *Client) getJSON(ctx context.Context, path, failure string, out interface{}) error {
	resp, err := c.do(ctx, c.baseURL+path, "application/json")
	if err != nil {
		return errors.NewAPIError(failure, path, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// The body of a failed response is not needed
		io.Copy(io.Discard, resp.Body)
		log.LogWithContext(ctx).With(log.F("endpoint", path), log.F("status", resp.StatusCode)).Warn("browse API returned error status")
		return errors.NewAPIError(failure, path, resp.StatusCode, nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.NewAPIError(failure, path, resp.StatusCode, errors.Wrap(err, "decode response"))
	}
	return nil
}

func (c *Client) do(ctx context.Context, rawURL, accept string) (*http.Response, error) {
	requestID := uuid.NewString()
	ctx = context.WithValue(ctx, log.RequestIDKey, requestID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Request-ID", requestID)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.LogWithContext(ctx).With(log.F("url", redact(rawURL)), log.F("error", err)).Debug("request failed")
		return nil, err
	}
	log.LogWithContext(ctx).With(
		log.F("url", redact(rawURL)),
		log.F("status", resp.StatusCode),
		log.F("duration", time.Since(start).String()),
	).Debug("request settled")
	return resp, nil
}

// redact drops the query string, which carries the signature of signed URLs.
func redact(rawURL string) string {
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}
