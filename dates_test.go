package main

import (
	"testing"
	"time"
)

func TestMonthRangesQuarter(t *testing.T) {
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)

	periods := monthRanges(start, end)
	if len(periods) != 3 {
		t.Fatalf("expected 3 periods, got %d", len(periods))
	}

	wantStarts := []string{"2024-01-01", "2024-02-01", "2024-03-01"}
	wantEnds := []string{"2024-01-31", "2024-02-29", "2024-03-31"}
	for i, p := range periods {
		if p.startString() != wantStarts[i] {
			t.Fatalf("period %d start: got %s, want %s", i, p.startString(), wantStarts[i])
		}
		if p.endString() != wantEnds[i] {
			t.Fatalf("period %d end: got %s, want %s", i, p.endString(), wantEnds[i])
		}
		if p.start.Day() != 1 {
			t.Fatalf("period %d start not first of month: %s", i, p.startString())
		}
	}
}

func TestMonthRangesSameMonth(t *testing.T) {
	start := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)

	periods := monthRanges(start, end)
	if len(periods) != 1 {
		t.Fatalf("expected 1 period, got %d", len(periods))
	}
	if periods[0].startString() != "2024-06-01" || periods[0].endString() != "2024-06-30" {
		t.Fatalf("unexpected period %s..%s", periods[0].startString(), periods[0].endString())
	}
}

func TestMonthRangesInverted(t *testing.T) {
	start := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	if periods := monthRanges(start, end); len(periods) != 0 {
		t.Fatalf("inverted range must yield no periods, got %d", len(periods))
	}
}

func TestMonthRangesYearBoundary(t *testing.T) {
	start := time.Date(2023, 11, 20, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)

	periods := monthRanges(start, end)
	if len(periods) != 4 {
		t.Fatalf("expected 4 periods, got %d", len(periods))
	}
	if periods[1].startString() != "2023-12-01" || periods[2].startString() != "2024-01-01" {
		t.Fatalf("year boundary mishandled: %s, %s", periods[1].startString(), periods[2].startString())
	}
}

func TestLastQuarter(t *testing.T) {
	cases := []struct {
		now   time.Time
		start string
		end   string
	}{
		{time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC), "2026-04-01", "2026-06-30"},
		{time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), "2025-10-01", "2025-12-31"},
		{time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), "2026-07-01", "2026-09-30"},
	}
	for _, tc := range cases {
		start, end := lastQuarter(tc.now)
		if start.Format("2006-01-02") != tc.start || end.Format("2006-01-02") != tc.end {
			t.Fatalf("lastQuarter(%s): got %s..%s, want %s..%s",
				tc.now.Format("2006-01-02"),
				start.Format("2006-01-02"), end.Format("2006-01-02"),
				tc.start, tc.end)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)
	if got := daysBetween(a, b); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	if got := daysBetween(b, a); got != 3 {
		t.Fatalf("expected absolute distance 3, got %d", got)
	}
	if got := daysBetween(a, a); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}
