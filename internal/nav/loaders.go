package nav

import (
	"context"
	"fmt"

	"docbrowse/internal/api"
	"docbrowse/internal/errors"
)

// loader fetches the data of one view and returns a function that fills the
// screen with it. The fill function runs on the event loop.
type loader func(ctx context.Context, f Fetcher, a Args) (func(*Screen), error)

// dispatch maps each view to its entry operation.
var dispatch = map[View]loader{
	ViewProjects:       loadProjects,
	ViewReleases:       loadReleases,
	ViewCurrentRelease: loadCurrentRelease,
	ViewReleaseFiles:   loadReleaseFiles,
	ViewFileAccess:     loadFileAccess,
	ViewFilePreview:    loadFilePreview,
}

var loadingText = map[View]string{
	ViewProjects:       "Loading projects...",
	ViewReleases:       "Loading releases...",
	ViewCurrentRelease: "Loading current release files...",
	ViewReleaseFiles:   "Loading release files...",
	ViewFileAccess:     "Generating access link...",
	ViewFilePreview:    "Loading preview...",
}

var failurePrefix = map[View]string{
	ViewProjects:       "Failed to load projects",
	ViewReleases:       "Failed to load releases",
	ViewCurrentRelease: "Failed to load current release files",
	ViewReleaseFiles:   "Failed to load release files",
	ViewFileAccess:     "Failed to generate access link",
	ViewFilePreview:    "Failed to load preview",
}

// TooLargeText is shown when the backend refuses a preview with 413.
const TooLargeText = "File too large for preview (max 50KB)"

// Action labels.
const (
	LabelOpen         = "🔗 Open Document"
	LabelDownload     = "💾 Download"
	LabelPreview      = "👁️ Preview"
	LabelBack         = "← Back"
	LabelBackToAccess = "← Back to File Options"
)

func titleFor(e Entry) string {
	a := e.Args
	switch e.View {
	case ViewProjects:
		return "Documentation Projects"
	case ViewReleases:
		return "📁 " + a.DisplayName
	case ViewCurrentRelease:
		return "📝 Current Release (Unreleased MRs)"
	case ViewReleaseFiles:
		return "🏷️ Release " + a.Tag
	case ViewFileAccess:
		return "📄 " + a.FileName
	case ViewFilePreview:
		return "📄 " + a.FileName + " - Preview"
	default:
		return ""
	}
}

func failureText(v View, err error) string {
	if v == ViewFilePreview {
		if errors.IsPreviewTooLarge(err) {
			return "Preview failed: " + TooLargeText
		}
		return "Preview failed: " + failurePrefix[v]
	}
	return failurePrefix[v] + ": " + err.Error()
}

func failureActions(v View, canGoBack bool) []Action {
	switch v {
	case ViewFileAccess:
		return []Action{{Kind: ActionBack, Label: LabelBack}}
	case ViewFilePreview:
		return []Action{{Kind: ActionBack, Label: LabelBackToAccess}}
	}
	if canGoBack {
		return []Action{{Kind: ActionBack, Label: LabelBack}}
	}
	return nil
}

func loadProjects(ctx context.Context, f Fetcher, _ Args) (func(*Screen), error) {
	list, err := f.Projects(ctx)
	if err != nil {
		return nil, err
	}
	return func(s *Screen) {
		if len(list.Projects) == 0 {
			s.Empty = &Empty{
				Title: "No Projects Found",
				Text:  "No projects found. Create some documentation first by running your GitLab CI/CD pipeline!",
			}
			return
		}
		s.Stats = []Stat{{Value: len(list.Projects), Label: "Projects Available"}}
		for _, p := range list.Projects {
			name := p.DisplayName
			if name == "" {
				name = p.BucketName
			}
			s.Items = append(s.Items, Item{
				Icon:   "📁",
				Title:  name,
				Detail: "Bucket: " + p.BucketName,
				Target: ReleasesEntry(p.BucketName, name),
			})
		}
	}, nil
}

func loadReleases(ctx context.Context, f Fetcher, a Args) (func(*Screen), error) {
	ov, err := f.ReleasesOverview(ctx, a.Bucket)
	if err != nil {
		return nil, err
	}
	return func(s *Screen) {
		releases := ov.Releases.Releases
		total := ov.Current.TotalFiles
		s.Stats = []Stat{
			{Value: len(releases), Label: "Published Releases"},
			{Value: total, Label: "Unreleased MRs"},
		}
		if total > 0 {
			s.Items = append(s.Items, Item{
				Icon:   "📝",
				Title:  "Current Release (Unreleased MRs)",
				Detail: fmt.Sprintf("%d MR documentation files ready for next release", total),
				Target: CurrentReleaseEntry(a.Bucket),
			})
		}
		for _, r := range releases {
			note := "❌ Missing"
			if r.ReleaseNote {
				note = "✅ Available"
			}
			s.Items = append(s.Items, Item{
				Icon:   "🏷️",
				Title:  r.Tag,
				Detail: fmt.Sprintf("Release Note: %s | MR Documents: %d", note, r.MRDocsCount),
				Target: ReleaseFilesEntry(a.Bucket, r.Tag),
			})
		}
		if len(s.Items) == 0 {
			s.Empty = &Empty{
				Title: "No Documentation Found",
				Text:  "This project doesn't have any documentation yet. Start by creating merge requests and running your CI/CD pipeline!",
			}
		}
	}, nil
}

func loadCurrentRelease(ctx context.Context, f Fetcher, a Args) (func(*Screen), error) {
	cur, err := f.CurrentRelease(ctx, a.Bucket)
	if err != nil {
		return nil, err
	}
	return func(s *Screen) {
		s.Stats = []Stat{{Value: len(cur.Files), Label: "MR Documents"}}
		if len(cur.Files) == 0 {
			s.Empty = &Empty{
				Title: "No Current MRs",
				Text:  "No unreleased merge request documentation found. Create some MRs to see documentation here!",
			}
			return
		}
		for _, file := range cur.Files {
			s.Items = append(s.Items, fileItem("📄", a.Bucket, file))
		}
	}, nil
}

func loadReleaseFiles(ctx context.Context, f Fetcher, a Args) (func(*Screen), error) {
	files, err := f.ReleaseFiles(ctx, a.Bucket, a.Tag)
	if err != nil {
		return nil, err
	}
	return func(s *Screen) {
		notes := 0
		if files.ReleaseNote != nil {
			notes = 1
		}
		s.Stats = []Stat{
			{Value: len(files.MRDocs), Label: "MR Documents"},
			{Value: notes, Label: "Release Note"},
		}
		if files.ReleaseNote != nil {
			s.Items = append(s.Items, fileItem("📋", a.Bucket, *files.ReleaseNote))
		}
		for _, file := range files.MRDocs {
			s.Items = append(s.Items, fileItem("📄", a.Bucket, file))
		}
		if len(s.Items) == 0 {
			s.Empty = &Empty{
				Title: "No Files Found",
				Text:  "This release doesn't have any documentation files yet.",
			}
		}
	}, nil
}

func loadFileAccess(ctx context.Context, f Fetcher, a Args) (func(*Screen), error) {
	link, err := f.SignedLink(ctx, a.Bucket, a.Path)
	if err != nil {
		return nil, err
	}
	return func(s *Screen) {
		path := link.Path
		if path == "" {
			path = a.Path
		}
		s.Meta = fileMeta(link.Created.Time, link.Size, path)
		s.Link = &Link{
			Path:      path,
			SignedURL: link.SignedURL,
			ExpiresIn: link.ExpiresIn,
			Created:   link.Created.Time,
			Size:      link.Size,
		}
		s.Actions = []Action{
			{Kind: ActionOpen, Label: LabelOpen},
			{Kind: ActionDownload, Label: LabelDownload},
			{Kind: ActionPreview, Label: LabelPreview},
		}
		s.Info = []string{
			"Direct Access: This link expires in " + link.ExpiresIn,
			"Security: The link is signed and grants read access to this file only.",
		}
	}, nil
}

func loadFilePreview(ctx context.Context, f Fetcher, a Args) (func(*Screen), error) {
	p, err := f.Preview(ctx, a.Bucket, a.Path)
	if err != nil {
		return nil, err
	}
	return func(s *Screen) {
		s.Meta = fileMeta(p.Created.Time, p.Size, a.Path)
		s.Preview = &Preview{Created: p.Created.Time, Size: p.Size, Content: p.Content}
		s.Actions = []Action{{Kind: ActionBack, Label: LabelBackToAccess}}
	}, nil
}

func fileItem(icon, bucket string, file api.FileEntry) Item {
	name := file.DisplayName
	if name == "" {
		name = api.DisplayNameFor(file.Path)
	}
	return Item{
		Icon:   icon,
		Title:  name,
		Detail: fmt.Sprintf("Created: %s | Size: %s", FormatDate(file.Created.Time), FormatSize(file.Size)),
		Target: FileAccessEntry(bucket, file.Path, name),
	}
}
