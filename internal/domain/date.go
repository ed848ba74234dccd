package domain

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// DisplayDateLayout is the dd/mm/yyyy format dates use at the API boundary.
const DisplayDateLayout = "02/01/2006"

// StorageDateLayout is the layout of DATE columns.
const StorageDateLayout = "2006-01-02"

// ErrInvalidDate is returned when a date string cannot be parsed.
var ErrInvalidDate = errors.New("invalid date, expected dd/mm/yyyy")

// ParseDate parses a dd/mm/yyyy date (day and month may omit the leading
// zero). yyyy-mm-dd is accepted as well. The result is midnight UTC so that
// calendar arithmetic never crosses a timezone boundary.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}

	if strings.Contains(s, "-") {
		t, err := time.Parse(StorageDateLayout, s)
		if err != nil {
			return time.Time{}, ErrInvalidDate
		}
		return t, nil
	}

	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return time.Time{}, ErrInvalidDate
	}

	day, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	year, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil || len(parts[2]) != 4 {
		return time.Time{}, ErrInvalidDate
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalises 31/02 into March; reject instead.
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// FormatDate renders a calendar date as dd/mm/yyyy. The zero time renders as "".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DisplayDateLayout)
}

// DateOf truncates t to its calendar date, expressed as midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from start to end.
func DaysBetween(start, end time.Time) int {
	start = DateOf(start)
	end = DateOf(end)
	return int(end.Sub(start).Hours() / 24)
}
