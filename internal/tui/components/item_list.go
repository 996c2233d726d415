package components

import (
	"fmt"
	"strings"

	"docbrowse/internal/nav"
	"docbrowse/internal/tui/styles"

	"github.com/gobwas/glob"
)

// ItemList is the cursor-driven list of a listing screen. An optional glob
// filter narrows which items are visible.
type ItemList struct {
	items   []nav.Item
	visible []int
	cursor  int
	pattern string
	matcher glob.Glob
}

func NewItemList() *ItemList {
	return &ItemList{}
}

// SetItems replaces the items, clears the filter and resets the cursor.
func (il *ItemList) SetItems(items []nav.Item) {
	il.items = items
	il.pattern = ""
	il.matcher = nil
	il.cursor = 0
	il.refresh()
}

// CompileFilter turns a user pattern into a case-insensitive glob. A pattern
// without wildcards matches anywhere in the title.
func CompileFilter(pattern string) (glob.Glob, error) {
	p := strings.ToLower(strings.TrimSpace(pattern))
	if !strings.ContainsAny(p, "*?[{") {
		p = "*" + p + "*"
	}
	return glob.Compile(p)
}

// FilterItems returns the indices of the items whose title matches pattern.
func FilterItems(items []nav.Item, pattern string) ([]int, error) {
	g, err := CompileFilter(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", pattern, err)
	}
	var out []int
	for i, it := range items {
		if g.Match(strings.ToLower(it.Title)) {
			out = append(out, i)
		}
	}
	return out, nil
}

// SetFilter narrows the visible items. An invalid pattern keeps the previous
// filter and returns the compile error.
func (il *ItemList) SetFilter(pattern string) error {
	if strings.TrimSpace(pattern) == "" {
		il.pattern = ""
		il.matcher = nil
		il.refresh()
		return nil
	}
	g, err := CompileFilter(pattern)
	if err != nil {
		return err
	}
	il.pattern = pattern
	il.matcher = g
	il.refresh()
	return nil
}

func (il *ItemList) refresh() {
	il.visible = il.visible[:0]
	for i, it := range il.items {
		if il.matcher == nil || il.matcher.Match(strings.ToLower(it.Title)) {
			il.visible = append(il.visible, i)
		}
	}
	if il.cursor >= len(il.visible) {
		il.cursor = len(il.visible) - 1
	}
	if il.cursor < 0 {
		il.cursor = 0
	}
}

func (il *ItemList) MoveCursor(delta int) {
	newPos := il.cursor + delta
	if newPos >= 0 && newPos < len(il.visible) {
		il.cursor = newPos
	}
}

func (il *ItemList) GotoTop() { il.cursor = 0 }

func (il *ItemList) GotoBottom() {
	if len(il.visible) > 0 {
		il.cursor = len(il.visible) - 1
	}
}

// Selected returns the index into the full item slice of the item under the
// cursor, or -1 when nothing is visible.
func (il *ItemList) Selected() int {
	if il.cursor < 0 || il.cursor >= len(il.visible) {
		return -1
	}
	return il.visible[il.cursor]
}

func (il *ItemList) Cursor() int { return il.cursor }

func (il *ItemList) Visible() []int { return il.visible }

func (il *ItemList) Filter() string { return il.pattern }

func (il *ItemList) Items() []nav.Item { return il.items }

// View renders the visible items.
func (il *ItemList) View(theme styles.Theme, showCursor bool) string {
	return RenderItems(il.items, il.visible, il.cursor, showCursor, theme)
}

// RenderItems renders items[visible...] with a cursor marker on row cursor.
func RenderItems(items []nav.Item, visible []int, cursor int, showCursor bool, theme styles.Theme) string {
	var s strings.Builder
	for row, idx := range visible {
		it := items[idx]
		style := theme.Unselected
		marker := "  "
		if showCursor && row == cursor {
			style = theme.Selected
			marker = "> "
		}
		s.WriteString(fmt.Sprintf("%s%s %s\n", marker, it.Icon, style.Render(it.Title)))
		if it.Detail != "" {
			s.WriteString("     " + theme.Detail.Render(it.Detail) + "\n")
		}
	}
	return s.String()
}
