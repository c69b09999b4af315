package postgres

import (
	"context"

	"github.com/NarmalaSk/diem/internal/vecsql"
	"github.com/NarmalaSk/diem/store"
)

// CreateTable creates a vector table and its hnsw index. The vector
// extension is enabled first; all statements are idempotent.
func (d *DB) CreateTable(ctx context.Context, desc *vecsql.TableDescriptor) error {
	stmts, err := vecsql.BuildCreateTable(d.dialect, desc)
	if err != nil {
		return err
	}
	if _, err := d.db.ExecContext(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return &store.EngineExecutionError{Op: "enable vector extension", Err: err}
	}
	for _, stmt := range stmts {
		if _, err := d.db.ExecContext(ctx, stmt.SQL, stmt.Args...); err != nil {
			return &store.EngineExecutionError{Op: "create table", Err: err}
		}
	}
	return nil
}

func (d *DB) DropTable(ctx context.Context, table string, confirmed bool) error {
	stmt, err := vecsql.BuildDropTable(d.dialect, table, confirmed)
	if err != nil {
		return err
	}
	if _, err := d.db.ExecContext(ctx, stmt.SQL, stmt.Args...); err != nil {
		return &store.EngineExecutionError{Op: "drop table", Err: err}
	}
	return nil
}

func (d *DB) InsertVector(ctx context.Context, table string, row vecsql.Row) error {
	stmt, err := vecsql.BuildInsertRow(d.dialect, table, row)
	if err != nil {
		return err
	}
	if _, err := d.db.ExecContext(ctx, stmt.SQL, stmt.Args...); err != nil {
		return &store.EngineExecutionError{Op: "insert vector", Err: err}
	}
	return nil
}

func (d *DB) BatchInsert(ctx context.Context, table string, columns []string, rows []vecsql.Row) (*store.BatchResult, error) {
	stmt, err := vecsql.BuildInsert(d.dialect, table, columns)
	if err != nil {
		return nil, err
	}
	return store.RunBatch(ctx, store.NewBatchConn(d.db), stmt, rows)
}

func (d *DB) UpdateVectors(ctx context.Context, table string, set vecsql.Row, where string, params map[string]any) (int64, error) {
	stmt, err := vecsql.BuildUpdate(d.dialect, table, set, where, params)
	if err != nil {
		return 0, err
	}
	result, err := d.db.ExecContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return 0, &store.EngineExecutionError{Op: "update vectors", Err: err}
	}
	affected, _ := result.RowsAffected()
	return affected, nil
}

func (d *DB) DeleteVectors(ctx context.Context, table string, where string, params map[string]any) (int64, error) {
	stmt, err := vecsql.BuildDelete(d.dialect, table, where, params)
	if err != nil {
		return 0, err
	}
	result, err := d.db.ExecContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return 0, &store.EngineExecutionError{Op: "delete vectors", Err: err}
	}
	affected, _ := result.RowsAffected()
	return affected, nil
}

func (d *DB) Search(ctx context.Context, opts *store.SearchOptions) ([]store.ResultRow, error) {
	stmt, err := vecsql.BuildSearch(d.dialect, opts.Table, opts.Query, opts.Metric, opts.Limit)
	if err != nil {
		return nil, err
	}
	rows, err := d.db.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, &store.EngineExecutionError{Op: "similarity search", Err: err}
	}
	defer rows.Close()
	return store.ScanRows(rows)
}

func (d *DB) GetAll(ctx context.Context, table string) ([]store.ResultRow, error) {
	stmt, err := vecsql.BuildSelectAll(d.dialect, table)
	if err != nil {
		return nil, err
	}
	rows, err := d.db.QueryContext(ctx, stmt.SQL)
	if err != nil {
		return nil, &store.EngineExecutionError{Op: "select all", Err: err}
	}
	defer rows.Close()
	return store.ScanRows(rows)
}
