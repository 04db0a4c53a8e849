package main

import (
	"context"
	"fmt"
)

// universeFilters restricts which rows count toward a table's facility
// universe. Keyed by table name so a new source table gets a row here rather
// than another conditional.
var universeFilters = map[string]string{
	"authorizations": "WHERE service_type = 'Adult Day Center Attendance'",
	"inpatient":      "WHERE admission_type = 'Acute Hospital' OR admission_type = 'Psych Unit / Facility'",
	"wounds":         "WHERE living_situation = ?",
}

// facilityUniverse returns the distinct facility identifiers appearing in a
// table, in first-seen order. Every facility a monthly aggregation can
// produce must come out of this set or the spread join drops it. NULL
// identifiers map to "Unknown".
func facilityUniverse(ctx context.Context, db *database, tableName, column string, args ...any) ([]string, error) {
	query := fmt.Sprintf("SELECT DISTINCT(%s) FROM %s", column, tableName)
	if filter, ok := universeFilters[tableName]; ok {
		query += " " + filter
	}

	result, err := db.queryTable(ctx, query+";", args...)
	if err != nil {
		return nil, fmt.Errorf("facility universe for %s: %w", tableName, err)
	}

	seen := make(map[string]bool, len(result.Rows))
	var universe []string
	for _, row := range result.Rows {
		name, ok := cellString(row[0])
		if !ok {
			name = "Unknown"
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		universe = append(universe, name)
	}
	return universe, nil
}
