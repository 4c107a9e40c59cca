// Package ingest reconciles heterogeneous spreadsheet exports into canonical
// matter records: header aliasing, value coercion, row building, duplicate
// detection and owner auto-provisioning.
package ingest

import (
	"strconv"
	"strings"
	"time"
)

const isoDate = "2006-01-02"

// ParseDate accepts DD/MM/YYYY or YYYY-MM-DD and returns the ISO form.
// Anything else is returned unchanged so bad source data stays visible in
// the record instead of silently disappearing.
func ParseDate(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}
	layout := isoDate
	if strings.Contains(trimmed, "/") {
		layout = "02/01/2006"
	}
	parsed, err := time.Parse(layout, trimmed)
	if err != nil {
		return s
	}
	return parsed.Format(isoDate)
}

// ParseIntDefault coerces a spreadsheet cell to an integer. Thousands
// separators are stripped, the usual not-available tokens and blanks map to
// def, and float-looking strings truncate. Failures never propagate; they
// yield def.
func ParseIntDefault(value string, def int) int {
	s := strings.TrimSpace(value)
	s = strings.ReplaceAll(s, ",", "")
	switch strings.ToLower(s) {
	case "", "na", "n/a", "none":
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return int(f)
}

// closedMarkers are matched as substrings: spreadsheet status columns are
// free text ("Signed - pending countersign", "Completed 12/3"), so the
// check is deliberately over-inclusive.
var closedMarkers = []string{"close", "complete", "executed", "signed"}

// IsClosedStatus reports whether a free-text status means the matter is done.
func IsClosedStatus(status string) bool {
	s := strings.ToLower(strings.TrimSpace(status))
	if s == "closed" || s == "done" {
		return true
	}
	for _, marker := range closedMarkers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}

// CycleDays returns the calendar-day span from receivedISO to closedISO,
// clamped at zero. Missing or unparseable dates count as zero days.
func CycleDays(receivedISO, closedISO string) int {
	received, err := time.Parse(isoDate, strings.TrimSpace(receivedISO))
	if err != nil {
		return 0
	}
	closed, err := time.Parse(isoDate, strings.TrimSpace(closedISO))
	if err != nil {
		return 0
	}
	days := int(closed.Sub(received).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
