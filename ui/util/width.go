package util

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// VisibleLen returns the display width of s, ignoring ANSI codes.
func VisibleLen(s string) int {
	return runewidth.StringWidth(ansi.Strip(s))
}

// Truncate cuts s to width display cells, ending in an ellipsis when cut.
// ANSI styling is preserved.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if VisibleLen(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}

// PadRight pads s with spaces to width display cells.
func PadRight(s string, width int) string {
	if n := width - VisibleLen(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

// JoinEnds places left and right on one line of the given width, right
// aligned, truncating left first when they do not fit.
func JoinEnds(left, right string, width int) string {
	rw := VisibleLen(right)
	if rw >= width {
		return Truncate(right, width)
	}
	left = Truncate(left, width-rw-1)
	gap := width - VisibleLen(left) - rw
	return left + strings.Repeat(" ", gap) + right
}
