// Package nav owns the browser's navigation state: which view is showing,
// the back-navigation history, and the screen model each view renders.
//
// Every fetch-triggering operation updates the state and the screen
// synchronously (loading) and returns a Request. The caller runs the request
// off the event loop and hands the Result back to Settle, which applies it
// only if no newer request has been issued since.
package nav

import "fmt"

// View identifies one screen of the browser.
type View int

const (
	ViewProjects View = iota
	ViewReleases
	ViewCurrentRelease
	ViewReleaseFiles
	// ViewFileAccess shows a signed link and its actions.
	ViewFileAccess
	ViewFilePreview
)

func (v View) String() string {
	switch v {
	case ViewProjects:
		return "projects"
	case ViewReleases:
		return "releases"
	case ViewCurrentRelease:
		return "current-release"
	case ViewReleaseFiles:
		return "release-files"
	case ViewFileAccess:
		return "file-access"
	case ViewFilePreview:
		return "file-preview"
	default:
		return fmt.Sprintf("view(%d)", int(v))
	}
}

// Args are the arguments of a view entry operation. Fields a view does not
// take stay empty.
type Args struct {
	Bucket      string
	DisplayName string // project display name
	Tag         string
	Path        string
	FileName    string // file display name
}

// Entry is a view together with the arguments that produced it. History is
// a stack of entries.
type Entry struct {
	View View
	Args Args
}

func (e Entry) String() string {
	switch e.View {
	case ViewReleases:
		return fmt.Sprintf("%s(%s)", e.View, e.Args.Bucket)
	case ViewCurrentRelease:
		return fmt.Sprintf("%s(%s)", e.View, e.Args.Bucket)
	case ViewReleaseFiles:
		return fmt.Sprintf("%s(%s, %s)", e.View, e.Args.Bucket, e.Args.Tag)
	case ViewFileAccess, ViewFilePreview:
		return fmt.Sprintf("%s(%s, %s)", e.View, e.Args.Bucket, e.Args.Path)
	default:
		return e.View.String()
	}
}

// ProjectsEntry and friends build entries for each view.
func ProjectsEntry() Entry {
	return Entry{View: ViewProjects}
}

func ReleasesEntry(bucket, displayName string) Entry {
	return Entry{View: ViewReleases, Args: Args{Bucket: bucket, DisplayName: displayName}}
}

func CurrentReleaseEntry(bucket string) Entry {
	return Entry{View: ViewCurrentRelease, Args: Args{Bucket: bucket}}
}

func ReleaseFilesEntry(bucket, tag string) Entry {
	return Entry{View: ViewReleaseFiles, Args: Args{Bucket: bucket, Tag: tag}}
}

func FileAccessEntry(bucket, path, fileName string) Entry {
	return Entry{View: ViewFileAccess, Args: Args{Bucket: bucket, Path: path, FileName: fileName}}
}

func FilePreviewEntry(bucket, path, fileName string) Entry {
	return Entry{View: ViewFilePreview, Args: Args{Bucket: bucket, Path: path, FileName: fileName}}
}

// Project identifies the project being browsed.
type Project struct {
	Bucket string
	Name   string
}

// State is a snapshot of the navigation state.
type State struct {
	Current Entry
	Project *Project
	Release string
	History []Entry
}

// CurrentView is shorthand for State.Current.View.
func (s State) CurrentView() View {
	return s.Current.View
}
