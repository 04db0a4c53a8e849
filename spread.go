package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
)

// spread is the wide report table for one metric: one row per facility in the
// universe, one column per month. After every merge each cell is defined;
// a facility with no rows that month holds "0", never an empty cell.
type spread struct {
	keyColumn string
	keys      []string
	columns   []string
	cells     map[string][]string
}

func newSpread(keyColumn string, universe []string) *spread {
	s := &spread{
		keyColumn: keyColumn,
		keys:      append([]string(nil), universe...),
		cells:     make(map[string][]string, len(universe)),
	}
	return s
}

// merge left-joins one month's aggregation onto the universe. Facilities
// absent from the month fill with zero immediately so later merges never see
// a hole. A column name already present (the fixed infections column) gets a
// _2, _3... suffix in arrival order to keep the CSV well formed.
func (s *spread) merge(res monthResult) {
	name := res.column
	if s.hasColumn(name) {
		for i := 2; ; i++ {
			candidate := fmt.Sprintf("%s_%d", res.column, i)
			if !s.hasColumn(candidate) {
				name = candidate
				break
			}
		}
	}
	s.columns = append(s.columns, name)

	for _, key := range s.keys {
		value, ok := res.values[key]
		if !ok {
			value = "0"
		}
		s.cells[key] = append(s.cells[key], value)
	}
}

func (s *spread) hasColumn(name string) bool {
	for _, c := range s.columns {
		if c == name {
			return true
		}
	}
	return false
}

// writeCSV writes the spread with rows stable-sorted by the facility key so
// repeated runs over unchanged data are byte identical.
func (s *spread) writeCSV(path string) error {
	keys := append([]string(nil), s.keys...)
	sort.Strings(keys)

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(append([]string{s.keyColumn}, s.columns...)); err != nil {
		return err
	}
	for _, key := range keys {
		if err := writer.Write(append([]string{key}, s.cells[key]...)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
