package match

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// isoDuration matches the PT[nH][nM][nS] shape the video API reports.
// Days, weeks, and fractional seconds are deliberately out of scope.
var isoDuration = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseISODuration converts an ISO-8601 duration like "PT3M45S" to
// whole seconds. Any input that does not match the exact shape
// (including "" and "P1D") yields 0, never an error: a zero sentinel
// is safer than aborting a whole run over one bad value. Callers must
// treat 0 as "no target duration", not as a real measurement.
func ParseISODuration(iso string) int {
	m := isoDuration.FindStringSubmatch(iso)
	if m == nil {
		return 0
	}

	atoi := func(s string) int {
		if s == "" {
			return 0
		}
		n, _ := strconv.Atoi(s)
		return n
	}

	return atoi(m[1])*3600 + atoi(m[2])*60 + atoi(m[3])
}

// FormatISODuration renders seconds in the same PT[nH][nM][nS] shape,
// omitting zero components ("PT0S" for zero or negative input).
func FormatISODuration(seconds int) string {
	if seconds <= 0 {
		return "PT0S"
	}

	var b strings.Builder
	b.WriteString("PT")
	if h := seconds / 3600; h > 0 {
		fmt.Fprintf(&b, "%dH", h)
	}
	if m := (seconds % 3600) / 60; m > 0 {
		fmt.Fprintf(&b, "%dM", m)
	}
	if s := seconds % 60; s > 0 {
		fmt.Fprintf(&b, "%dS", s)
	}
	return b.String()
}
