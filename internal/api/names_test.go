package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayNameFor(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"current_release/20240115103000_ab12cd_feature-login.md", "Feature Login - January 15, 2024"},
		{"releases/v1/mr_docs/20231231_sha_fix_null_pointer.md", "Fix Null Pointer - December 31, 2023"},
		{"x/2024_sha_short-date.md", "Short Date - Unknown Date"},
		{"x/abcdefgh_sha_bad-date.md", "Bad Date - Unknown Date"},
		{"releases/v1/release-note.md", "Release Note"},
		{"plain", "Plain"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DisplayNameFor(tt.path), tt.path)
	}
}

func TestEnsureDisplayNames(t *testing.T) {
	files := []FileEntry{
		{Path: "a/20240101_x_one.md"},
		{Path: "b.md", DisplayName: "Kept"},
	}
	EnsureDisplayNames(files)
	assert.Equal(t, "One - January 01, 2024", files[0].DisplayName)
	assert.Equal(t, "Kept", files[1].DisplayName)
}
