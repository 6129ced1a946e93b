package textutil

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// PadRight pads text with spaces to the given terminal column width,
// truncating with an ellipsis when it is wider.
func PadRight(text string, width int) string {
	if width <= 0 {
		return ""
	}
	w := runewidth.StringWidth(text)
	if w > width {
		return runewidth.Truncate(text, width, "…")
	}
	return text + strings.Repeat(" ", width-w)
}

// MaxWidth returns the widest terminal column width among values.
func MaxWidth(values []string) int {
	widest := 0
	for _, v := range values {
		widest = max(widest, runewidth.StringWidth(v))
	}
	return widest
}
