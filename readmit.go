package main

import (
	"context"
	"strconv"
	"time"
)

// readmitWindowDays bounds how long after a discharge a new admission still
// counts as a readmission.
const readmitWindowDays = 30

// stay is one inpatient admission record.
type stay struct {
	memberID     string
	facility     string
	admitted     time.Time
	discharged   time.Time
	hasDischarge bool
}

func inpatientStays(ctx context.Context, run *runContext) ([]stay, map[string][]stay, error) {
	result, err := run.db.queryTable(ctx,
		`SELECT member_id, facility, admission_date, discharge_date FROM inpatient;`)
	if err != nil {
		return nil, nil, err
	}

	stays := make([]stay, 0, len(result.Rows))
	byMember := make(map[string][]stay)
	for _, row := range result.Rows {
		admitted, ok := cellDate(row[2])
		if !ok {
			continue
		}
		member, _ := cellString(row[0])
		facility, ok := cellString(row[1])
		if !ok {
			facility = "Unknown"
		}
		s := stay{memberID: member, facility: facility, admitted: admitted}
		s.discharged, s.hasDischarge = cellDate(row[3])

		stays = append(stays, s)
		byMember[member] = append(byMember[member], s)
	}
	return stays, byMember, nil
}

// resultsIn30Day counts admissions in the month whose member comes back to
// hospital within 30 days of that stay's discharge. Counted once per index
// stay, grouped by the index stay's facility.
func resultsIn30Day(ctx context.Context, run *runContext, p period) (monthResult, error) {
	stays, byMember, err := inpatientStays(ctx, run)
	if err != nil {
		return monthResult{}, err
	}

	counts := map[string]int{}
	for _, s := range stays {
		if s.admitted.Before(p.start) || s.admitted.After(p.end) || !s.hasDischarge {
			continue
		}
		cutoff := s.discharged.AddDate(0, 0, readmitWindowDays)
		for _, other := range byMember[s.memberID] {
			if other.admitted.After(s.discharged) && !other.admitted.After(cutoff) {
				counts[s.facility]++
				break
			}
		}
	}

	return monthResult{
		column: "results_in_30dr-" + p.start.Format("2006-01"),
		values: renderCounts(counts),
	}, nil
}

// readmits30Day counts admissions in the month that follow a prior discharge
// of the same member by at most 30 days, grouped by the readmission's
// facility.
func readmits30Day(ctx context.Context, run *runContext, p period) (monthResult, error) {
	stays, byMember, err := inpatientStays(ctx, run)
	if err != nil {
		return monthResult{}, err
	}

	counts := map[string]int{}
	for _, s := range stays {
		if s.admitted.Before(p.start) || s.admitted.After(p.end) {
			continue
		}
		for _, prior := range byMember[s.memberID] {
			if !prior.hasDischarge || !prior.discharged.Before(s.admitted) {
				continue
			}
			if daysBetween(s.admitted, prior.discharged) <= readmitWindowDays {
				counts[s.facility]++
				break
			}
		}
	}

	return monthResult{
		column: "30dr-" + p.start.Format("2006-01"),
		values: renderCounts(counts),
	}, nil
}

func renderCounts(counts map[string]int) map[string]string {
	values := make(map[string]string, len(counts))
	for key, n := range counts {
		values[key] = strconv.Itoa(n)
	}
	return values
}
