package feed

import (
	"fmt"
	"strconv"
	"time"
)

// FormatDwellTime renders a duration in seconds as "MMmin SSsec". Zero,
// negative, and absent inputs all render as the empty sentinel.
func FormatDwellTime(seconds float64) string {
	if seconds <= 0 {
		return EmptyDwell
	}
	total := int(seconds)
	return fmt.Sprintf("%02dmin %02dsec", total/60, total%60)
}

// FormatNumber renders an integer with thousands separators.
func FormatNumber(n int) string {
	s := strconv.Itoa(n)
	neg := false
	if n < 0 {
		neg = true
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		return "-" + s
	}
	return s
}

// FormatPercentage renders a signed comparison percentage and reports
// whether it reads as positive.
func FormatPercentage(p float64) (string, bool) {
	positive := p >= 0
	sign := ""
	if positive {
		sign = "+"
	}
	return fmt.Sprintf("%s%.1f%%", sign, p), positive
}

// FormatTimestamp renders an ISO-8601 timestamp in local time, falling
// back to the raw string when it does not parse.
func FormatTimestamp(ts string) string {
	parsed, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return parsed.Local().Format("Jan 02 15:04")
}
