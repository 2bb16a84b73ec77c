package survey

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	_ "modernc.org/sqlite"
)

// DefaultTable is the SQLite table read when none is given.
const DefaultTable = "respondents"

var tableNameRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// LoadJSON reads a JSON array of objects.
func LoadJSON(r io.Reader) ([]RawRecord, error) {
	var rows []RawRecord
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode records JSON: %w", err)
	}
	return rows, nil
}

// LoadCSV reads a CSV document with a header row. All values stay strings;
// numeric coercion happens in Normalize and the aggregators.
func LoadCSV(r io.Reader) ([]RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	var rows []RawRecord
	for line := 2; ; line++ {
		cols, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}
		row := make(RawRecord, len(headers))
		for i, h := range headers {
			if h == "" || i >= len(cols) {
				continue
			}
			row[h] = cols[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// LoadSQLite reads every row of table from the SQLite database at path.
func LoadSQLite(ctx context.Context, path, table string) ([]RawRecord, error) {
	if table == "" {
		table = DefaultTable
	}
	if !tableNameRE.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to stat database: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM "%s"`, table))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var out []RawRecord
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make(RawRecord, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				row[c] = string(b)
				continue
			}
			row[c] = vals[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}
	return out, nil
}

// LoadFile picks a loader from the file extension: .json, .csv, or
// .db/.sqlite/.sqlite3 (reading table).
func LoadFile(ctx context.Context, path, table string) ([]RawRecord, error) {
	cleanPath := filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(cleanPath))
	switch ext {
	case ".db", ".sqlite", ".sqlite3":
		return LoadSQLite(ctx, cleanPath, table)
	case ".json", ".csv":
	default:
		return nil, fmt.Errorf("unsupported record file extension %q", ext)
	}

	f, err := os.Open(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open records: %w", err)
	}
	defer f.Close()

	if ext == ".json" {
		return LoadJSON(f)
	}
	return LoadCSV(f)
}
