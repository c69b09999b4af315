package store

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"

	"github.com/NarmalaSk/diem/internal/vecsql"
)

// SkippedRow records one malformed row left out of a batch.
type SkippedRow struct {
	// Row is the 1-based position within the batch.
	Row    int
	Reason string
}

// BatchResult summarizes one batch job.
type BatchResult struct {
	JobID    string
	Inserted int
	Skipped  []SkippedRow
}

// BatchTx is the transaction surface the batch executor needs.
type BatchTx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Commit() error
	Rollback() error
}

// BatchConn opens transactions for batch jobs.
type BatchConn interface {
	BeginBatchTx(ctx context.Context) (BatchTx, error)
}

type sqlBatchConn struct {
	db *sql.DB
}

func (c sqlBatchConn) BeginBatchTx(ctx context.Context) (BatchTx, error) {
	return c.db.BeginTx(ctx, nil)
}

// NewBatchConn adapts a *sql.DB for the batch executor.
func NewBatchConn(db *sql.DB) BatchConn {
	return sqlBatchConn{db: db}
}

// RunBatch applies the insert template to every row inside one transaction.
//
// Failure handling is deliberately asymmetric. A row whose embedding does not
// parse is recorded as skipped and the batch continues: one malformed row
// never aborts the job. A statement execution failure rolls the whole
// transaction back and the batch reports zero rows committed, because
// partial application under an engine error is unsafe. Cancellation is
// observed between rows and also ends in a rollback; a transaction is never
// left open.
func RunBatch(ctx context.Context, conn BatchConn, stmt *vecsql.InsertStatement, rows []vecsql.Row) (*BatchResult, error) {
	result := &BatchResult{JobID: uuid.NewString()}

	tx, err := conn.BeginBatchTx(ctx)
	if err != nil {
		return nil, &EngineExecutionError{Op: "begin batch", Err: err}
	}

	for i, row := range rows {
		select {
		case <-ctx.Done():
			_ = tx.Rollback()
			return nil, &EngineExecutionError{Op: "batch insert", Err: ctx.Err()}
		default:
		}

		args, err := stmt.BindRow(row)
		if err != nil {
			rowErr := &vecsql.RowParseError{Line: i + 1, Err: err}
			result.Skipped = append(result.Skipped, SkippedRow{Row: i + 1, Reason: err.Error()})
			slog.Warn("skipping malformed batch row",
				"job_id", result.JobID, "row", i+1, "error", rowErr.Error())
			continue
		}

		if _, err := tx.ExecContext(ctx, stmt.SQL, args...); err != nil {
			_ = tx.Rollback()
			slog.Error("batch rolled back",
				"job_id", result.JobID, "row", i+1, "applied", result.Inserted, "error", err.Error())
			return nil, &EngineExecutionError{Op: "batch insert", Err: err}
		}
		result.Inserted++
	}

	if err := tx.Commit(); err != nil {
		return nil, &EngineExecutionError{Op: "batch commit", Err: err}
	}

	slog.Info("batch committed",
		"job_id", result.JobID, "inserted", result.Inserted, "skipped", len(result.Skipped))
	return result, nil
}
