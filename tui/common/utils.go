package common

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
)

// RelativeTime renders t relative to now, e.g. "3 hours ago". A zero time
// renders as an empty string.
func RelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	if now.Sub(t) < time.Minute && !t.After(now) {
		return "just now"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// Truncate shortens s to width terminal cells, adding an ellipsis. It is
// ANSI-aware so styled text keeps its escapes intact.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}

// SingleLine collapses whitespace, including newlines, to single spaces.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Plural formats n with the noun, pluralized with an "s" when n != 1.
func Plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%s %ss", humanize.Comma(int64(n)), noun)
}
