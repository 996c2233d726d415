package actions

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"docbrowse/internal/errors"
	"docbrowse/internal/log"

	"github.com/dustin/go-humanize"
)

// DefaultDirPermissions is used when the download directory is created.
const DefaultDirPermissions = 0755

// maxNameAttempts bounds the "name (n).md" suffixes tried before giving up.
const maxNameAttempts = 100

// Getter streams the body behind a signed URL.
type Getter interface {
	Download(ctx context.Context, signedURL string, w io.Writer) (int64, error)
}

// Downloader saves signed links as markdown files.
type Downloader struct {
	Dir    string
	getter Getter
}

// Saved describes a completed download.
type Saved struct {
	Path  string
	Bytes int64
}

// Notice is the text shown to the user after a download.
func (s Saved) Notice() string {
	return fmt.Sprintf("Saved %s (%s)", s.Path, humanize.Bytes(uint64(s.Bytes)))
}

// NewDownloader returns a downloader writing into dir.
func NewDownloader(g Getter, dir string) *Downloader {
	if dir == "" {
		dir = "."
	}
	return &Downloader{Dir: dir, getter: g}
}

// WithDir returns a copy of d writing into dir. d itself is left untouched.
func (d *Downloader) WithDir(dir string) *Downloader {
	return NewDownloader(d.getter, dir)
}

// Save fetches signedURL and writes it to <displayName>.md, or to
// <displayName> (n).md when that file already exists. A partial file is
// removed on failure.
func (d *Downloader) Save(ctx context.Context, signedURL, displayName string) (Saved, error) {
	if err := os.MkdirAll(d.Dir, DefaultDirPermissions); err != nil {
		return Saved{}, errors.NewKind(errors.DownloadFailed, "create download directory", err)
	}

	f, path, err := createUnique(d.Dir, FileName(displayName))
	if err != nil {
		return Saved{}, errors.NewKind(errors.DownloadFailed, "create "+path, err)
	}

	n, err := d.getter.Download(ctx, signedURL, f)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = errors.NewKind(errors.DownloadFailed, "write "+path, cerr)
	}
	if err != nil {
		os.Remove(path)
		return Saved{}, err
	}

	log.LogWithFields(log.F("path", path), log.F("bytes", n)).Info("document downloaded")
	return Saved{Path: path, Bytes: n}, nil
}

// createUnique creates name in dir, or "base (n).md" when name is taken.
// Existing files are never overwritten.
func createUnique(dir, name string) (*os.File, string, error) {
	base := strings.TrimSuffix(name, ".md")
	path := filepath.Join(dir, name)
	for i := 1; ; i++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			return f, path, nil
		}
		if !os.IsExist(err) || i >= maxNameAttempts {
			return nil, path, err
		}
		path = filepath.Join(dir, fmt.Sprintf("%s (%d).md", base, i))
	}
}

// FileName turns a display name into a safe markdown file name.
func FileName(displayName string) string {
	name := strings.TrimSpace(displayName)
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
	name = strings.TrimSuffix(name, ".md")
	if name == "" || name == "." || name == ".." {
		name = "document"
	}
	return name + ".md"
}
