// Package utils provides shared utility functions
package utils

import (
	"math"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
)

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatFileSize converts a byte count to "1.5 MB" style text with at most
// two decimals, trailing zeros dropped. GB is the largest unit.
func FormatFileSize(size int64) string {
	if size <= 0 {
		return "0 Bytes"
	}
	const unit = 1024
	value := float64(size)
	exp := 0
	for value >= unit && exp < len(sizeUnits)-1 {
		value /= unit
		exp++
	}
	value = math.Round(value*100) / 100
	return strconv.FormatFloat(value, 'f', -1, 64) + " " + sizeUnits[exp]
}

// FormatDate renders a timestamp in local time for the track table
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

// FormatAge renders t relative to now, e.g. "3 days ago"
func FormatAge(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.RelTime(t, now, "ago", "from now")
}
