package ui

import (
	"time"

	"github.com/drake/galley/render"
	"github.com/drake/galley/session"
)

// showTextMsg replaces the output with a text dish.
type showTextMsg string

// showMarkupMsg replaces the output with a markup dish.
type showMarkupMsg string

// showHighlightedMsg overlays highlighted text on a text dish.
type showHighlightedMsg struct {
	Text     string
	Language string
}

// fileInfoMsg shows a binary dish's file information.
type fileInfoMsg render.FileInfo

// closeFileInfoMsg hides the file information.
type closeFileInfoMsg struct{}

// statsMsg updates the stats block.
type statsMsg string

// loadingMsg toggles the bake indicator.
type loadingMsg bool

// editableMsg toggles input editing.
type editableMsg bool

// clearStatusMsg drops the current notice.
type clearStatusMsg struct{}

// noticeMsg shows a transient notice.
type noticeMsg struct {
	Text     string
	Duration time.Duration
}

// noticeExpiredMsg ends notice Seq; later notices are unaffected.
type noticeExpiredMsg struct {
	Seq int
}

// inputMsg mirrors the pipeline input.
type inputMsg struct {
	Text   string
	Binary bool
}

// affordancesMsg enables or disables action keys.
type affordancesMsg session.Affordances

// promptMsg opens the one-line prompt.
type promptMsg struct {
	ID      string
	Label   string
	Initial string
}
