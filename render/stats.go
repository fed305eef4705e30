package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/drake/galley/dish"
)

const minStatsWidth = 4

// FormatStats renders the stats block:
//
//	time:  7ms
//	length: 1234
//	lines:    5
//
// Values are right-aligned to the widest value shown, at least four columns.
// The lines row is omitted when the dish has no line count.
func FormatStats(d dish.Dish) string {
	timeVal := strconv.FormatInt(d.Duration.Milliseconds(), 10) + "ms"
	lengthVal := strconv.Itoa(d.Length())
	lines, hasLines := d.LineCount()
	linesVal := strconv.Itoa(lines)

	width := max(minStatsWidth, len(timeVal), len(lengthVal))
	if hasLines {
		width = max(width, len(linesVal))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "time: %*s\n", width, timeVal)
	fmt.Fprintf(&b, "length: %*s", width, lengthVal)
	if hasLines {
		fmt.Fprintf(&b, "\nlines: %*s", width, linesVal)
	}
	return b.String()
}
