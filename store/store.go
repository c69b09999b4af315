// Package store holds the domain types and the caller-owned facade over one
// database driver. There is no ambient global connection: a Store is opened,
// passed around explicitly and closed by its owner.
package store

import (
	"context"

	"github.com/NarmalaSk/diem/internal/vecsql"
)

// Store wraps one Driver for the duration of a session.
type Store struct {
	driver Driver
}

// New creates a store over an already-opened driver.
func New(driver Driver) *Store {
	return &Store{driver: driver}
}

// GetDriver returns the underlying driver.
func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.driver.Ping(ctx)
}

// CreateTable creates a vector table, a no-op when it already exists.
func (s *Store) CreateTable(ctx context.Context, desc *vecsql.TableDescriptor) error {
	return s.driver.CreateTable(ctx, desc)
}

// DropTable drops a table after explicit confirmation.
func (s *Store) DropTable(ctx context.Context, table string, confirmed bool) error {
	return s.driver.DropTable(ctx, table, confirmed)
}

// InsertVector inserts one row. The row must carry an embedding value.
func (s *Store) InsertVector(ctx context.Context, table string, row vecsql.Row) error {
	return s.driver.InsertVector(ctx, table, row)
}

// BatchInsert applies rows transactionally with row-level error isolation.
func (s *Store) BatchInsert(ctx context.Context, table string, columns []string, rows []vecsql.Row) (*BatchResult, error) {
	return s.driver.BatchInsert(ctx, table, columns, rows)
}

// UpdateVectors updates rows matched by the required filter clause.
func (s *Store) UpdateVectors(ctx context.Context, table string, set vecsql.Row, where string, params map[string]any) (int64, error) {
	return s.driver.UpdateVectors(ctx, table, set, where, params)
}

// DeleteVectors deletes rows matched by the required filter clause.
func (s *Store) DeleteVectors(ctx context.Context, table string, where string, params map[string]any) (int64, error) {
	return s.driver.DeleteVectors(ctx, table, where, params)
}

// Search returns up to opts.Limit rows in non-decreasing distance order.
func (s *Store) Search(ctx context.Context, opts *SearchOptions) ([]ResultRow, error) {
	return s.driver.Search(ctx, opts)
}

func (s *Store) GetAll(ctx context.Context, table string) ([]ResultRow, error) {
	return s.driver.GetAll(ctx, table)
}

func (s *Store) ListDatabases(ctx context.Context, pattern string) ([]string, error) {
	return s.driver.ListDatabases(ctx, pattern)
}

func (s *Store) ListTables(ctx context.Context, pattern string) ([]string, error) {
	return s.driver.ListTables(ctx, pattern)
}

// CopyPage copies one page of rows between tables for the analytics runner.
func (s *Store) CopyPage(ctx context.Context, req *CopyRequest) (int64, error) {
	return s.driver.CopyPage(ctx, req)
}
