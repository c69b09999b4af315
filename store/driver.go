package store

import (
	"context"
	"database/sql"

	"github.com/NarmalaSk/diem/internal/vecsql"
)

// ResultRow is one fetched row, keyed by column name. Embedding columns are
// rendered in their textual form.
type ResultRow map[string]any

// SearchOptions describes a similarity search.
type SearchOptions struct {
	Table  string
	Query  []float32
	Metric vecsql.Metric
	// Limit is the maximum number of rows returned.
	Limit int
}

// CopyRequest describes one page copy performed by the analytics runner.
type CopyRequest struct {
	Source string
	Dest   string
	// KeyColumn identifies rows already present in Dest, default "id".
	KeyColumn string
	PageSize  int
}

// Driver is the engine-specific execution layer. Statement text is assembled
// by internal/vecsql; a driver only binds and executes with its own dialect
// and connection.
type Driver interface {
	GetDB() *sql.DB
	Close() error
	Ping(ctx context.Context) error

	// CreateTable creates a vector table, a no-op when it already exists.
	CreateTable(ctx context.Context, desc *vecsql.TableDescriptor) error
	// DropTable drops a table. confirmed is the caller's explicit
	// confirmation; without it the statement is never issued.
	DropTable(ctx context.Context, table string, confirmed bool) error

	InsertVector(ctx context.Context, table string, row vecsql.Row) error
	// BatchInsert applies all rows in one transaction; malformed rows are
	// skipped, execution failures roll the whole batch back.
	BatchInsert(ctx context.Context, table string, columns []string, rows []vecsql.Row) (*BatchResult, error)
	// UpdateVectors and DeleteVectors require a non-empty filter clause and
	// report the number of rows affected.
	UpdateVectors(ctx context.Context, table string, set vecsql.Row, where string, params map[string]any) (int64, error)
	DeleteVectors(ctx context.Context, table string, where string, params map[string]any) (int64, error)

	Search(ctx context.Context, opts *SearchOptions) ([]ResultRow, error)
	GetAll(ctx context.Context, table string) ([]ResultRow, error)
	ListDatabases(ctx context.Context, pattern string) ([]string, error)
	ListTables(ctx context.Context, pattern string) ([]string, error)

	// CopyPage copies up to PageSize rows missing from Dest out of Source
	// and reports how many were copied.
	CopyPage(ctx context.Context, req *CopyRequest) (int64, error)
}
