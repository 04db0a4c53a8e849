package main

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// period is one calendar month's reporting window. start is always the first
// day of the month; end is the calendar month end.
type period struct {
	start time.Time
	end   time.Time
}

func (p period) startString() string { return p.start.Format("2006-01-02") }
func (p period) endString() string   { return p.end.Format("2006-01-02") }

// monthRanges returns one period per calendar month touched by the inclusive
// [start, end] range. An inverted range yields no periods; a range contained
// in a single month yields exactly one.
func monthRanges(start, end time.Time) []period {
	start = dateOnly(start)
	end = dateOnly(end)
	if end.Before(start) {
		return nil
	}

	var periods []period
	cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cur.After(last) {
		periods = append(periods, period{start: cur, end: cur.AddDate(0, 1, -1)})
		cur = cur.AddDate(0, 1, 0)
	}
	return periods
}

// lastQuarter returns the first and last day of the most recently completed
// calendar quarter relative to now. Used as the default reporting window.
func lastQuarter(now time.Time) (time.Time, time.Time) {
	year := now.Year()
	quarter := (int(now.Month())-1)/3 - 1
	if quarter < 0 {
		quarter = 3
		year--
	}
	start := time.Date(year, time.Month(quarter*3+1), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 3, -1)
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("empty date")
	}
	layouts := []string{
		"2006-01-02",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05Z07:00",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date format: %s", value)
}

func dateOnly(value time.Time) time.Time {
	if value.IsZero() {
		return value
	}
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween is the absolute whole-day distance between two dates.
func daysBetween(a, b time.Time) int {
	d := dateOnly(a).Sub(dateOnly(b))
	if d < 0 {
		d = -d
	}
	return int(d.Hours() / 24)
}
