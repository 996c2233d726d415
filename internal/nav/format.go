package nav

import (
	"fmt"
	"time"
)

// FormatSize renders a byte count in kilobytes with one decimal.
func FormatSize(n int64) string {
	return fmt.Sprintf("%.1f KB", float64(n)/1024)
}

// FormatDate renders t in local time, or "Unknown" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "Unknown"
	}
	return t.Local().Format("January 2, 2006 at 03:04 PM")
}

func fileMeta(created time.Time, size int64, path string) string {
	return fmt.Sprintf("Created: %s | Size: %s | Path: %s", FormatDate(created), FormatSize(size), path)
}
