package vecsql

import (
	"fmt"

	"github.com/pgvector/pgvector-go"
)

// Dialect supplies the engine-specific fragments the builder composes:
// placeholder style, vector column type, vector literal constructor,
// distance expression and vector index declaration. Everything else is
// shared between engines.
type Dialect interface {
	Name() string
	// Placeholder returns the 1-based n-th bind placeholder.
	Placeholder(n int) string
	// VectorColumn returns the column definition for the embedding column.
	VectorColumn(dim int) string
	// VectorValue wraps the n-th placeholder in the engine's vector
	// constructor, so the vector is always bound, never inlined.
	VectorValue(n int) string
	// BindVector converts a parsed vector into the driver bind value.
	BindVector(vec []float32) (any, error)
	// DistanceExpr returns the distance between column and the n-th
	// placeholder under the given metric. Smaller is closer.
	DistanceExpr(column string, n int, metric Metric) string
	// InlineVectorIndex returns a vector index clause for the CREATE TABLE
	// column list, when the engine declares indexes inline.
	InlineVectorIndex(desc *TableDescriptor) (string, bool)
	// VectorIndexStatement returns a separate index DDL statement, when the
	// engine declares indexes standalone.
	VectorIndexStatement(desc *TableDescriptor) (Statement, bool)
	// CreateTableSuffix is appended after the closing parenthesis.
	CreateTableSuffix() string
}

// MariaDB returns the dialect for MariaDB's native vector type
// (VECTOR columns, VEC_FromText, VEC_DISTANCE_*).
func MariaDB() Dialect { return mariaDialect{} }

// Postgres returns the dialect for PostgreSQL with the pgvector extension.
func Postgres() Dialect { return postgresDialect{} }

type mariaDialect struct{}

func (mariaDialect) Name() string              { return "mysql" }
func (mariaDialect) Placeholder(int) string    { return "?" }
func (mariaDialect) VectorColumn(d int) string { return fmt.Sprintf("VECTOR(%d) NOT NULL", d) }
func (mariaDialect) VectorValue(int) string    { return "VEC_FromText(?)" }
func (mariaDialect) CreateTableSuffix() string { return " ENGINE=InnoDB" }

func (mariaDialect) BindVector(vec []float32) (any, error) {
	return MarshalEmbedding(vec)
}

func (d mariaDialect) DistanceExpr(column string, n int, metric Metric) string {
	fn := "VEC_DISTANCE_COSINE"
	if metric == MetricEuclidean {
		fn = "VEC_DISTANCE_EUCLIDEAN"
	}
	return fmt.Sprintf("%s(%s, VEC_FromText(?))", fn, column)
}

func (mariaDialect) InlineVectorIndex(desc *TableDescriptor) (string, bool) {
	return fmt.Sprintf("VECTOR INDEX %s (%s) M=%d DISTANCE=%s",
		desc.indexName(), EmbeddingColumn, desc.M, desc.Metric), true
}

func (mariaDialect) VectorIndexStatement(*TableDescriptor) (Statement, bool) {
	return Statement{}, false
}

type postgresDialect struct{}

func (postgresDialect) Name() string              { return "postgres" }
func (postgresDialect) Placeholder(n int) string  { return fmt.Sprintf("$%d", n) }
func (postgresDialect) VectorColumn(d int) string { return fmt.Sprintf("vector(%d) NOT NULL", d) }
func (postgresDialect) VectorValue(n int) string  { return fmt.Sprintf("$%d", n) }
func (postgresDialect) CreateTableSuffix() string { return "" }

func (postgresDialect) BindVector(vec []float32) (any, error) {
	return pgvector.NewVector(vec), nil
}

func (d postgresDialect) DistanceExpr(column string, n int, metric Metric) string {
	op := "<=>"
	if metric == MetricEuclidean {
		op = "<->"
	}
	return fmt.Sprintf("(%s %s $%d)", column, op, n)
}

func (postgresDialect) InlineVectorIndex(*TableDescriptor) (string, bool) {
	return "", false
}

func (postgresDialect) VectorIndexStatement(desc *TableDescriptor) (Statement, bool) {
	ops := "vector_cosine_ops"
	if desc.Metric == MetricEuclidean {
		ops = "vector_l2_ops"
	}
	sql := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s USING hnsw (%s %s) WITH (m = %d)",
		desc.indexName(), desc.Name, EmbeddingColumn, ops, desc.M)
	return Statement{SQL: sql}, true
}

func (d *TableDescriptor) indexName() string {
	if d.IndexName != "" {
		return d.IndexName
	}
	return d.Name + "_vec_idx"
}
