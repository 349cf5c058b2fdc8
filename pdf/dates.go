package pdf

import (
	"strings"
	"time"
)

// accepted input layouts, most specific first
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// NormalizeDate converts a human-entered date ("YYYY-MM-DD" or
// "YYYY-MM-DD HH:MM[:SS]", with either a space or a T separator) into the
// PDF date token D:YYYYMMDDHHMMSS. It reports false for empty or
// unrecognized input.
func NormalizeDate(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	value = strings.Replace(value, "T", " ", 1)

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return "D:" + t.Format("20060102150405"), true
		}
	}
	return "", false
}
