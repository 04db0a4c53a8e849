package main

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// database wraps the sql handle with the driver name so queries written with
// ?-style placeholders can be rebound for Postgres.
type database struct {
	driver string
	db     *sql.DB
}

// table is a generic tabular query result. Cell values keep whatever Go type
// the driver produced; the cell* helpers normalize them.
type table struct {
	Columns []string
	Rows    [][]any
}

func (t *table) index(column string) int {
	for i, c := range t.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

func openDatabase(ctx context.Context, cfg *Config) (*database, error) {
	db, err := sql.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 12*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &database{driver: cfg.DBDriver, db: db}, nil
}

func (d *database) Close() error {
	return d.db.Close()
}

// queryTable executes a parameterized query and returns every row untyped.
func (d *database) queryTable(ctx context.Context, query string, args ...any) (*table, error) {
	rows, err := d.db.QueryContext(ctx, rebind(d.driver, query), args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	result := &table{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return result, nil
}

// rebind rewrites ?-style placeholders to $1..$N for the pgx driver. SQLite
// takes ? directly.
func rebind(driver, query string) string {
	if driver != "pgx" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// cellString renders a cell as text. The second return is false for NULL.
func cellString(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case []byte:
		return string(t), true
	case time.Time:
		return t.Format("2006-01-02"), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	default:
		return fmt.Sprint(t), true
	}
}

// cellDate parses a cell as a calendar date, normalized to midnight UTC.
func cellDate(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return dateOnly(t), true
	case string:
		parsed, err := parseDate(t)
		if err != nil {
			return time.Time{}, false
		}
		return dateOnly(parsed), true
	case []byte:
		parsed, err := parseDate(string(t))
		if err != nil {
			return time.Time{}, false
		}
		return dateOnly(parsed), true
	default:
		return time.Time{}, false
	}
}

func cellInt(v any) (int, bool) {
	switch t := v.(type) {
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case []byte:
		n, err := strconv.Atoi(string(t))
		return n, err == nil
	case string:
		n, err := strconv.Atoi(t)
		return n, err == nil
	default:
		return 0, false
	}
}
