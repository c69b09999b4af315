package postgres

import (
	"context"

	"github.com/NarmalaSk/diem/internal/vecsql"
	"github.com/NarmalaSk/diem/store"
)

func (d *DB) ListDatabases(ctx context.Context, pattern string) ([]string, error) {
	query := "SELECT datname FROM pg_database WHERE datistemplate = false"
	args := []any{}
	if pattern != "" {
		query += " AND datname LIKE $1"
		args = append(args, pattern)
	}
	query += " ORDER BY datname"

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &store.EngineExecutionError{Op: "list databases", Err: err}
	}
	defer rows.Close()
	return store.ScanStrings(rows)
}

func (d *DB) ListTables(ctx context.Context, pattern string) ([]string, error) {
	query := "SELECT table_name FROM information_schema.tables WHERE table_schema = 'public' AND table_type = 'BASE TABLE'"
	args := []any{}
	if pattern != "" {
		query += " AND table_name LIKE $1"
		args = append(args, pattern)
	}
	query += " ORDER BY table_name"

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &store.EngineExecutionError{Op: "list tables", Err: err}
	}
	defer rows.Close()
	return store.ScanStrings(rows)
}

func (d *DB) CopyPage(ctx context.Context, req *store.CopyRequest) (int64, error) {
	stmt, err := vecsql.BuildCopyPage(d.dialect, req.Source, req.Dest, req.KeyColumn, req.PageSize)
	if err != nil {
		return 0, err
	}
	result, err := d.db.ExecContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return 0, &store.EngineExecutionError{Op: "copy page", Err: err}
	}
	copied, _ := result.RowsAffected()
	return copied, nil
}
