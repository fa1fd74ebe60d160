package utils

import (
	"strconv"
	"strings"
	"time"
)

// BuildReportCacheKey returns a stable key for one rendered report. Zero
// times and zero month/year are left empty so reports without a period share
// a single key per format.
func BuildReportCacheKey(kind, format string, start, end time.Time, month, year int) string {
	s := ""
	if !start.IsZero() {
		s = start.Format(time.DateOnly)
	}
	e := ""
	if !end.IsZero() {
		e = end.Format(time.DateOnly)
	}
	m := ""
	if month != 0 {
		m = strconv.Itoa(month)
	}
	y := ""
	if year != 0 {
		y = strconv.Itoa(year)
	}

	return "reports:v1:kind=" + strings.ToLower(kind) +
		":format=" + strings.ToLower(format) +
		":start=" + s +
		":end=" + e +
		":month=" + m +
		":year=" + y
}
