package store

import (
	"database/sql"

	"github.com/pkg/errors"
)

// ScanRows reads a result set into generic rows without knowing the schema.
// Byte slices are rendered as strings so embedding columns come back in
// their textual form.
func ScanRows(rows *sql.Rows) ([]ResultRow, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read result columns")
	}

	list := []ResultRow{}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.Wrap(err, "failed to scan row")
		}

		row := ResultRow{}
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		list = append(list, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// ScanStrings reads a single-column result set, as produced by the table and
// database listings.
func ScanStrings(rows *sql.Rows) ([]string, error) {
	list := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, errors.Wrap(err, "failed to scan name")
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
