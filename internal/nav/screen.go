package nav

import "time"

// Status is the settle state of the current screen.
type Status int

const (
	StatusLoading Status = iota
	StatusReady
	StatusFailed
)

// ActionKind names what an action does.
type ActionKind int

const (
	ActionOpen ActionKind = iota
	ActionDownload
	ActionPreview
	// ActionBack returns to the previous view.
	ActionBack
)

// Action is a button of a file screen.
type Action struct {
	Kind  ActionKind
	Label string
}

// Stat is one summary counter.
type Stat struct {
	Value int
	Label string
}

// Item is one selectable row; selecting it navigates to Target.
type Item struct {
	Icon   string
	Title  string
	Detail string
	Target Entry
}

// Empty is shown instead of items when a listing has nothing in it.
type Empty struct {
	Title string
	Text  string
}

// Link describes a signed access link.
type Link struct {
	Path      string
	SignedURL string
	ExpiresIn string
	Created   time.Time
	Size      int64
}

// Preview holds raw file text.
type Preview struct {
	Created time.Time
	Size    int64
	Content string
}

// Screen is the typed view model of whatever is displayed. It carries no
// presentation markup.
type Screen struct {
	Entry       Entry
	Status      Status
	Breadcrumb  string
	Title       string
	LoadingText string
	BackVisible bool

	Stats []Stat
	Items []Item
	Empty *Empty

	Meta    string
	Info    []string
	Link    *Link
	Preview *Preview
	Actions []Action

	Err       error
	ErrorText string
}

// HasAction reports whether the screen offers an action of kind k.
func (s Screen) HasAction(k ActionKind) bool {
	for _, a := range s.Actions {
		if a.Kind == k {
			return true
		}
	}
	return false
}
