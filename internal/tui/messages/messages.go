package messages

import (
	"docbrowse/internal/config"
	"docbrowse/internal/nav"
)

// ResultMsg carries a settled navigation request back to the event loop.
type ResultMsg struct {
	Result nav.Result
}

// NoticeMsg reports the outcome of a file action. A nil Err is a success.
type NoticeMsg struct {
	Text string
	Err  error
}

// ClearNoticeMsg dismisses notice ID once its timer fires.
type ClearNoticeMsg struct {
	ID int
}

type ConfigUpdateMsg struct {
	Config *config.Config
}
