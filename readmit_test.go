package main

import (
	"context"
	"testing"
)

func TestResultsIn30Day(t *testing.T) {
	run := newTestRun(t)
	mustExec(t, run, `INSERT INTO inpatient VALUES (1, 'General', '2024-01-05', '2024-01-10', 'Acute Hospital', 5)`)
	mustExec(t, run, `INSERT INTO inpatient VALUES (1, 'Mercy', '2024-01-25', '2024-01-28', 'Acute Hospital', 3)`)
	// member 4 has a single stay and never comes back
	mustExec(t, run, `INSERT INTO inpatient VALUES (4, 'General', '2024-01-12', '2024-01-15', 'Acute Hospital', 3)`)

	res, err := resultsIn30Day(context.Background(), run, monthOf(t, "2024-01-01", "2024-01-31"))
	if err != nil {
		t.Fatalf("results in 30 day: %v", err)
	}
	if res.column != "results_in_30dr-2024-01" {
		t.Fatalf("expected column results_in_30dr-2024-01, got %s", res.column)
	}
	if res.values["General"] != "1" {
		t.Fatalf("expected General=1, got %v", res.values)
	}
	if _, ok := res.values["Mercy"]; ok {
		t.Fatalf("the readmission itself is not an index stay here: %v", res.values)
	}
}

func TestResultsIn30DayWindowBoundary(t *testing.T) {
	run := newTestRun(t)
	// readmitted exactly 30 days after discharge: counts
	mustExec(t, run, `INSERT INTO inpatient VALUES (2, 'General', '2023-12-01', '2024-01-01', 'Acute Hospital', 31)`)
	mustExec(t, run, `INSERT INTO inpatient VALUES (2, 'Mercy', '2024-01-31', '2024-02-05', 'Acute Hospital', 5)`)
	// readmitted 31 days after discharge: does not count
	mustExec(t, run, `INSERT INTO inpatient VALUES (3, 'Lakeside', '2023-12-02', '2024-01-01', 'Acute Hospital', 30)`)
	mustExec(t, run, `INSERT INTO inpatient VALUES (3, 'Mercy', '2024-02-01', NULL, 'Acute Hospital', NULL)`)

	res, err := resultsIn30Day(context.Background(), run, monthOf(t, "2023-12-01", "2023-12-31"))
	if err != nil {
		t.Fatalf("results in 30 day: %v", err)
	}
	if res.values["General"] != "1" {
		t.Fatalf("expected General=1 (30-day boundary inclusive), got %v", res.values)
	}
	if _, ok := res.values["Lakeside"]; ok {
		t.Fatalf("31-day gap must not count: %v", res.values)
	}
}

func TestReadmits30Day(t *testing.T) {
	run := newTestRun(t)
	mustExec(t, run, `INSERT INTO inpatient VALUES (1, 'General', '2024-01-05', '2024-01-10', 'Acute Hospital', 5)`)
	mustExec(t, run, `INSERT INTO inpatient VALUES (1, 'Mercy', '2024-01-25', '2024-01-28', 'Acute Hospital', 3)`)

	res, err := readmits30Day(context.Background(), run, monthOf(t, "2024-01-01", "2024-01-31"))
	if err != nil {
		t.Fatalf("readmits: %v", err)
	}
	if res.column != "30dr-2024-01" {
		t.Fatalf("expected column 30dr-2024-01, got %s", res.column)
	}
	if res.values["Mercy"] != "1" {
		t.Fatalf("expected Mercy=1, got %v", res.values)
	}
	if _, ok := res.values["General"]; ok {
		t.Fatalf("the index stay is not a readmission: %v", res.values)
	}
}

func TestReadmits30DayOutsideWindow(t *testing.T) {
	run := newTestRun(t)
	mustExec(t, run, `INSERT INTO inpatient VALUES (3, 'General', '2023-12-02', '2024-01-01', 'Acute Hospital', 30)`)
	mustExec(t, run, `INSERT INTO inpatient VALUES (3, 'Mercy', '2024-02-01', NULL, 'Acute Hospital', NULL)`)

	res, err := readmits30Day(context.Background(), run, monthOf(t, "2024-02-01", "2024-02-29"))
	if err != nil {
		t.Fatalf("readmits: %v", err)
	}
	if len(res.values) != 0 {
		t.Fatalf("31-day gap must not count as a readmit, got %v", res.values)
	}
}
