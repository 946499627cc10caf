package campaign

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Layouts tried in order: day-first, ISO, month-first, day-first dashed.
var dateLayouts = []string{
	"02/01/2006",
	"2006-01-02",
	"01/02/2006",
	"02-01-2006",
}

// Lenient layouts, tried after dateLayouts. The bool tells whether the
// layout carries a time of day.
var lenientLayouts = []struct {
	layout  string
	hasTime bool
}{
	{time.RFC3339, true},
	{"2006-01-02 15:04:05", true},
	{"2006-01-02T15:04:05", true},
	{"2006-01-02 15:04", true},
	{"02/01/2006 15:04:05", true},
	{"02/01/2006 15:04", true},
	{"2/1/2006", false},
	{"2006/01/02", false},
	{"02.01.2006", false},
	{"2 Jan 2006", false},
	{"Jan 2, 2006", false},
	{"02/01/06", false},
}

// ParseDate reads a campaign date cell in local time. dateOnly is true when
// the cell had no time of day. Excel serial numbers are accepted.
func ParseDate(cell string) (t time.Time, dateOnly bool, ok bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return time.Time{}, false, false
	}
	for _, l := range dateLayouts {
		if t, err := time.ParseInLocation(l, s, time.Local); err == nil {
			return t, true, true
		}
	}
	for _, l := range lenientLayouts {
		if t, err := time.ParseInLocation(l.layout, s, time.Local); err == nil {
			return t, !l.hasTime, true
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			local := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.Local)
			return local, serial == float64(int64(serial)), true
		}
	}
	return time.Time{}, false, false
}

// endOfDay moves a date-only end bound to the last instant of that day.
func endOfDay(t time.Time) time.Time {
	return t.AddDate(0, 0, 1).Add(-time.Nanosecond)
}
