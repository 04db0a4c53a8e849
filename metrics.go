package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// monthResult is one month's aggregation: facility identifier -> rendered
// count, tagged with the column name that carries the month.
type monthResult struct {
	column string
	values map[string]string
}

type monthFunc func(ctx context.Context, run *runContext, p period) (monthResult, error)

// metric drives one output CSV: where the facility universe comes from and
// how each month's counts are produced.
type metric struct {
	name         string
	outFile      string
	table        string
	keyColumn    string
	universeArgs []any
	fn           monthFunc
}

// runContext carries the per-run dependencies every pipeline stage needs.
type runContext struct {
	db        *database
	outputDir string
	log       zerolog.Logger
}

// countByKey builds a monthFunc around a grouped count query. The query must
// name the grouping key first and the count second, and take the month start
// and end dates as its final two parameters (after any extras). The result
// column is columnPattern with the month start formatted by dateLayout; an
// empty layout keeps the pattern as a fixed name.
func countByKey(query, columnPattern, dateLayout string, extra ...any) monthFunc {
	return func(ctx context.Context, run *runContext, p period) (monthResult, error) {
		args := append(append([]any{}, extra...), p.startString(), p.endString())
		result, err := run.db.queryTable(ctx, query, args...)
		if err != nil {
			return monthResult{}, err
		}

		column := columnPattern
		if dateLayout != "" {
			column = fmt.Sprintf(columnPattern, p.start.Format(dateLayout))
		}

		values := make(map[string]string, len(result.Rows))
		for _, row := range result.Rows {
			key, ok := cellString(row[0])
			if !ok {
				key = "Unknown"
			}
			count, _ := cellInt(row[1])
			values[key] = strconv.Itoa(count)
		}
		return monthResult{column: column, values: values}, nil
	}
}

// reportMetrics is the strategy table: every vendor performance report, in
// the order their files are written.
var reportMetrics = []metric{
	{
		name:      "alf_census",
		outFile:   "alf_census.csv",
		table:     "alfs",
		keyColumn: "facility_name",
		fn: countByKey(`SELECT facility_name, COUNT(DISTINCT member_id) FROM alfs
			WHERE (discharge_date >= ? OR discharge_date IS NULL)
			AND admission_date <= ?
			GROUP BY facility_name;`,
			"census-%s", "2006-01"),
	},
	{
		name:      "hosp_from_alf",
		outFile:   "hosp_from_alf.csv",
		table:     "alfs",
		keyColumn: "facility_name",
		fn: countByKey(`SELECT facility_name, COUNT(DISTINCT member_id) FROM alfs
			WHERE discharge_date BETWEEN ? AND ?
			AND discharge_type = 'Hospital/ER'
			GROUP BY facility_name;`,
			"hosp_admits-%s", "2006-01-02"),
	},
	{
		name:      "nf_census",
		outFile:   "nf_census.csv",
		table:     "nursing_home",
		keyColumn: "facility",
		// census of nursing facility residents comes from inpatient stays,
		// the universe from the nursing_home reference table
		fn: countByKey(`SELECT facility, COUNT(DISTINCT member_id) FROM inpatient
			WHERE (discharge_date >= ? OR discharge_date IS NULL)
			AND admission_date <= ?
			GROUP BY facility;`,
			"census-%s", "2006-01"),
	},
	{
		name:      "hosp_from_nf",
		outFile:   "hosp_from_nf.csv",
		table:     "nursing_home",
		keyColumn: "facility",
		fn: countByKey(`SELECT facility, COUNT(DISTINCT member_id) FROM nursing_home
			WHERE discharge_date BETWEEN ? AND ?
			AND discharge_disposition = 'Acute care hospital or psychiatric facility'
			GROUP BY facility;`,
			"hosp_admits-%s", "2006-01-02"),
	},
	{
		name:      "hosp_admissions",
		outFile:   "hosp_admissions.csv",
		table:     "inpatient",
		keyColumn: "facility",
		fn: countByKey(`SELECT facility, COUNT(DISTINCT member_id) FROM inpatient
			WHERE admission_date BETWEEN ? AND ?
			GROUP BY facility;`,
			"admissions-%s", "2006-01"),
	},
	{
		name:      "hosp_admit_results_in_30day",
		outFile:   "hosp_admit_results_in_30day.csv",
		table:     "inpatient",
		keyColumn: "facility",
		fn:        resultsIn30Day,
	},
	{
		name:      "hosp_30_day_readmits",
		outFile:   "hosp_30_day_readmits.csv",
		table:     "inpatient",
		keyColumn: "facility",
		fn:        readmits30Day,
	},
	{
		name:      "hosp_infections",
		outFile:   "hosp_infections.csv",
		table:     "inpatient",
		keyColumn: "facility",
		fn:        infectionsByHospital,
	},
	{
		name:      "adc_census",
		outFile:   "adc_census.csv",
		table:     "authorizations",
		keyColumn: "vendor",
		fn: countByKey(`SELECT vendor, COUNT(DISTINCT member_id) FROM authorizations
			WHERE service_type = 'Adult Day Center Attendance'
			AND (approval_expiration_date >= ? OR approval_expiration_date IS NULL)
			AND approval_effective_date <= ?
			GROUP BY vendor;`,
			"adc_census-%s", "2006-01"),
	},
	pressureUlcerMetric("SNF"),
	pressureUlcerMetric("ALF"),
}

// pressureUlcerMetric is the wound variant: the universe and the monthly
// counts both key on the nullable living_detail field, and the source rows
// are filtered to one facility type.
func pressureUlcerMetric(facilityType string) metric {
	return metric{
		name:         strings.ToLower(facilityType) + "_pulcers",
		outFile:      strings.ToLower(facilityType) + "_pulcers.csv",
		table:        "wounds",
		keyColumn:    "living_detail",
		universeArgs: []any{facilityType},
		fn: countByKey(`SELECT living_detail, COUNT(DISTINCT member_id) FROM wounds
			WHERE living_situation = ?
			AND date_time_occurred BETWEEN ? AND ?
			GROUP BY living_detail;`,
			facilityType+"_pulcers-%s", "2006-01-02", facilityType),
	}
}

// buildSpread assembles one metric's wide table across every month in the
// reporting range: universe first, then one left-join per month with
// immediate zero-fill.
func buildSpread(ctx context.Context, run *runContext, m metric, months []period) (*spread, error) {
	universe, err := facilityUniverse(ctx, run.db, m.table, m.keyColumn, m.universeArgs...)
	if err != nil {
		return nil, err
	}

	s := newSpread(m.keyColumn, universe)
	for _, p := range months {
		res, err := m.fn(ctx, run, p)
		if err != nil {
			return nil, fmt.Errorf("month %s: %w", p.start.Format("2006-01"), err)
		}
		s.merge(res)
	}
	return s, nil
}
