package dbx

import (
	"context"
	"database/sql"
)

// ScanRows reads every remaining row into a column-name keyed map, keeping
// each value exactly as the driver produced it. rows is closed on return.
func ScanRows(rows *sql.Rows) ([]map[string]any, error) {
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var result []map[string]any
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(cols))
		for i, c := range cols {
			row[c] = values[i]
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ScanOne is ScanRows for statements expected to yield at most one row.
// It returns sql.ErrNoRows when the result set is empty.
func ScanOne(rows *sql.Rows) (map[string]any, error) {
	all, err := ScanRows(rows)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, sql.ErrNoRows
	}
	return all[0], nil
}

// QueryAll runs query and returns every row as a column-name keyed map.
func QueryAll(ctx context.Context, db DBTX, query string, args ...any) ([]map[string]any, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return ScanRows(rows)
}

// QueryOne runs query and returns its first row, or sql.ErrNoRows.
func QueryOne(ctx context.Context, db DBTX, query string, args ...any) (map[string]any, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return ScanOne(rows)
}
