package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Timestamp accepts RFC 3339 and the zone-less ISO form some backends emit.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02",
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil || raw == "" {
		ts.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			ts.Time = t
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", raw)
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.Format(time.RFC3339Nano))
}

// Project is one documentation bucket.
type Project struct {
	BucketName  string `json:"bucket_name"`
	DisplayName string `json:"display_name"`
	ProjectID   int    `json:"project_id,omitempty"`
	ProjectName string `json:"project_name,omitempty"`
}

// ProjectList is the body of GET /projects.
type ProjectList struct {
	Projects []Project `json:"projects"`
}

// NoteFlag decodes the release_note field, which the backend sends either as
// a boolean or as a file object (null when absent).
type NoteFlag bool

func (n *NoteFlag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")), bytes.Equal(data, []byte("false")):
		*n = false
	case bytes.Equal(data, []byte("true")):
		*n = true
	default:
		*n = len(data) > 0
	}
	return nil
}

func (n NoteFlag) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(n))
}

// Release is one published tag.
type Release struct {
	Tag         string   `json:"release_tag"`
	ReleaseNote NoteFlag `json:"release_note"`
	MRDocsCount int      `json:"mr_docs_count"`
	Path        string   `json:"path,omitempty"`
}

// ReleaseList is the body of GET /projects/{bucket}/releases.
type ReleaseList struct {
	Releases   []Release `json:"releases"`
	BucketName string    `json:"bucket_name,omitempty"`
}

// FileEntry is a stored document.
type FileEntry struct {
	Path        string    `json:"file_path"`
	DisplayName string    `json:"display_name"`
	Created     Timestamp `json:"created"`
	Size        int64     `json:"size"`
	Type        string    `json:"type,omitempty"`
}

// CurrentRelease is the body of GET /projects/{bucket}/current-release.
type CurrentRelease struct {
	TotalFiles int         `json:"total_files"`
	Files      []FileEntry `json:"files"`
	BucketName string      `json:"bucket_name,omitempty"`
}

// ReleaseFiles is the body of GET /projects/{bucket}/releases/{tag}/files.
type ReleaseFiles struct {
	ReleaseTag  string      `json:"release_tag,omitempty"`
	ReleaseNote *FileEntry  `json:"release_note"`
	MRDocs      []FileEntry `json:"mr_docs"`
}

// ReleasesOverview joins the release list with the unreleased summary.
type ReleasesOverview struct {
	Releases ReleaseList
	Current  CurrentRelease
}

// SignedLink is a time-limited direct URL for one file. It is never cached.
type SignedLink struct {
	Path      string    `json:"file_path"`
	SignedURL string    `json:"signed_url"`
	ExpiresIn string    `json:"expires_in"`
	Created   Timestamp `json:"created"`
	Size      int64     `json:"size"`
}

// Preview is the raw text of a small file.
type Preview struct {
	Path    string    `json:"file_path,omitempty"`
	Created Timestamp `json:"created"`
	Size    int64     `json:"size"`
	Content string    `json:"content"`
}
