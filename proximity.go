package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// proximityWindowDays is how close an inpatient discharge must be to an
// infection date to count the infection as hospital acquired there.
const proximityWindowDays = 7

const unmatchedInfectionsFile = "hospital_inf_without_visit.csv"

type infectionMatch struct {
	memberID  string
	facility  string
	occurred  time.Time
	daysApart int
}

// infectionsByHospital counts hospital-acquired infections per hospital by
// matching each infection to the nearest inpatient stay whose discharge falls
// within the proximity window. When a subject has several qualifying stays
// for the same infection date, the smallest day difference wins. Infections
// with no qualifying stay are written to a diagnostic side file.
//
// The output column is the fixed name "infections"; the spread assembler
// disambiguates it across months.
func infectionsByHospital(ctx context.Context, run *runContext, p period) (monthResult, error) {
	infections, err := run.db.queryTable(ctx, `SELECT * FROM infections
		WHERE where_infection_was_acquired = 'Hospital'
		AND date_time_occurred BETWEEN ? AND ?;`,
		p.startString(), p.endString())
	if err != nil {
		return monthResult{}, err
	}

	joined, err := run.db.queryTable(ctx, `SELECT infections.member_id, admission_date, discharge_date, facility, los, date_time_occurred
		FROM infections
		LEFT JOIN inpatient ON infections.member_id = inpatient.member_id
		WHERE where_infection_was_acquired = 'Hospital'
		AND date_time_occurred BETWEEN ? AND ?;`,
		p.startString(), p.endString())
	if err != nil {
		return monthResult{}, err
	}

	candidates, computable := proximityCandidates(joined)
	if !computable {
		// no joined stays carry a usable discharge date, so there is
		// nothing to match: emit the no-data sentinel instead of failing
		return monthResult{column: "infections", values: map[string]string{"None": "None"}}, nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].daysApart < candidates[j].daysApart
	})

	type infectionKey struct {
		memberID string
		occurred time.Time
	}
	seen := make(map[infectionKey]bool, len(candidates))
	matched := make(map[string]bool, len(candidates))
	counts := map[string]int{}
	for _, c := range candidates {
		key := infectionKey{memberID: c.memberID, occurred: c.occurred}
		if seen[key] {
			continue
		}
		seen[key] = true
		matched[c.memberID] = true
		counts[c.facility]++
	}

	if err := writeUnmatchedInfections(run.outputDir, infections, matched); err != nil {
		return monthResult{}, err
	}

	values := make(map[string]string, len(counts))
	for facility, n := range counts {
		values[facility] = fmt.Sprintf("%d", n)
	}
	return monthResult{column: "infections", values: values}, nil
}

// proximityCandidates computes the day distance between each infection and
// each joined inpatient discharge, keeping pairs inside the window. The
// second return reports whether any pair had a computable distance at all;
// false means the join was degenerate (no rows, or discharge dates all NULL).
func proximityCandidates(joined *table) ([]infectionMatch, bool) {
	memberIdx := joined.index("member_id")
	dischargeIdx := joined.index("discharge_date")
	facilityIdx := joined.index("facility")
	occurredIdx := joined.index("date_time_occurred")
	if memberIdx < 0 || dischargeIdx < 0 || facilityIdx < 0 || occurredIdx < 0 {
		return nil, false
	}

	computable := false
	var candidates []infectionMatch
	for _, row := range joined.Rows {
		occurred, ok := cellDate(row[occurredIdx])
		if !ok {
			continue
		}
		discharged, ok := cellDate(row[dischargeIdx])
		if !ok {
			continue
		}
		computable = true

		days := daysBetween(occurred, discharged)
		if days > proximityWindowDays {
			continue
		}

		member, _ := cellString(row[memberIdx])
		facility, ok := cellString(row[facilityIdx])
		if !ok {
			facility = "Unknown"
		}
		candidates = append(candidates, infectionMatch{
			memberID:  member,
			facility:  facility,
			occurred:  occurred,
			daysApart: days,
		})
	}
	return candidates, computable
}

// writeUnmatchedInfections overwrites the diagnostic file with every
// hospital-acquired infection whose subject has no qualifying stay.
func writeUnmatchedInfections(outputDir string, infections *table, matched map[string]bool) error {
	memberIdx := infections.index("member_id")
	if memberIdx < 0 {
		return fmt.Errorf("infections result has no member_id column")
	}

	file, err := os.Create(filepath.Join(outputDir, unmatchedInfectionsFile))
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(infections.Columns); err != nil {
		return err
	}
	for _, row := range infections.Rows {
		member, _ := cellString(row[memberIdx])
		if matched[member] {
			continue
		}
		record := make([]string, len(row))
		for i, cell := range row {
			record[i], _ = cellString(cell)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
