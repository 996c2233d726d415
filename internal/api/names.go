package api

import (
	"path"
	"strings"
	"time"
	"unicode"
)

// DisplayNameFor derives a readable name from a stored document path of the
// form <yyyymmdd...>_<sha>_<branch>.md, e.g.
// "current_release/20240115103000_ab12cd_feature-login.md" becomes
// "Feature Login - January 15, 2024". Other names are title-cased.
func DisplayNameFor(filePath string) string {
	name := strings.TrimSuffix(path.Base(filePath), ".md")

	parts := strings.Split(name, "_")
	if len(parts) >= 3 {
		date := "Unknown Date"
		if ts := parts[0]; len(ts) >= 8 {
			if t, err := time.Parse("20060102", ts[:8]); err == nil {
				date = t.Format("January 02, 2006")
			}
		}
		branch := strings.Join(parts[2:], "_")
		return titleWords(branch) + " - " + date
	}

	return titleWords(name)
}

func titleWords(s string) string {
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// EnsureDisplayNames fills empty display names in place.
func EnsureDisplayNames(files []FileEntry) {
	for i := range files {
		if files[i].DisplayName == "" {
			files[i].DisplayName = DisplayNameFor(files[i].Path)
		}
	}
}
