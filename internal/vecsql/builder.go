package vecsql

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// BuildCreateTable composes the DDL for a vector table: the optional extra
// columns, one embedding column of the declared dimension, the optional
// primary key and the vector index. It returns one statement for engines
// that declare indexes inline and two for engines that declare them
// standalone. The statement is idempotent (IF NOT EXISTS).
func BuildCreateTable(d Dialect, desc *TableDescriptor) ([]Statement, error) {
	if err := ValidateIdentifier(desc.Name); err != nil {
		return nil, err
	}
	if desc.IndexName != "" {
		if err := ValidateIdentifier(desc.IndexName); err != nil {
			return nil, err
		}
	}
	metric, err := ParseMetric(string(desc.Metric))
	if err != nil {
		return nil, err
	}
	desc.Metric = metric
	if desc.Dim < 1 {
		return nil, errors.Errorf("vector dimension must be a positive integer, got %d", desc.Dim)
	}
	if desc.M < 1 {
		return nil, errors.Errorf("index tuning parameter M must be a positive integer, got %d", desc.M)
	}

	defs := make([]string, 0, len(desc.OtherColumns)+3)
	for _, name := range sortedKeys(desc.OtherColumns) {
		if err := ValidateIdentifier(name); err != nil {
			return nil, err
		}
		colType := desc.OtherColumns[name]
		if err := validateColumnType(colType); err != nil {
			return nil, err
		}
		defs = append(defs, fmt.Sprintf("  %s %s", name, colType))
	}
	defs = append(defs, fmt.Sprintf("  %s %s", EmbeddingColumn, d.VectorColumn(desc.Dim)))

	if desc.PrimaryKey != "" {
		if err := ValidateIdentifier(desc.PrimaryKey); err != nil {
			return nil, err
		}
		if _, ok := desc.OtherColumns[desc.PrimaryKey]; !ok {
			return nil, errors.Errorf("primary key %q is not a declared column", desc.PrimaryKey)
		}
		defs = append(defs, fmt.Sprintf("  PRIMARY KEY (%s)", desc.PrimaryKey))
	}

	if clause, ok := d.InlineVectorIndex(desc); ok {
		defs = append(defs, "  "+clause)
	}

	stmts := []Statement{{
		SQL: fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n)%s",
			desc.Name, strings.Join(defs, ",\n"), d.CreateTableSuffix()),
	}}
	if stmt, ok := d.VectorIndexStatement(desc); ok {
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

// InsertStatement is a reusable insert template: one statement text plus a
// binder that turns each row into its argument list. The same template is
// applied to every row of a batch.
type InsertStatement struct {
	SQL     string
	dialect Dialect
	columns []string
}

// BuildInsert builds an insert template for the given column set. The column
// list must include the embedding column; the embedding value is wrapped in
// the engine's vector constructor applied to a bound parameter.
func BuildInsert(d Dialect, table string, columns []string) (*InsertStatement, error) {
	if err := ValidateIdentifier(table); err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, &SerializationError{Reason: "no columns to insert"}
	}
	hasEmbedding := false
	values := make([]string, 0, len(columns))
	for i, col := range columns {
		if err := ValidateIdentifier(col); err != nil {
			return nil, err
		}
		if col == EmbeddingColumn {
			hasEmbedding = true
			values = append(values, d.VectorValue(i+1))
		} else {
			values = append(values, d.Placeholder(i+1))
		}
	}
	if !hasEmbedding {
		return nil, &SerializationError{Reason: fmt.Sprintf("missing %q column", EmbeddingColumn)}
	}

	return &InsertStatement{
		SQL: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			table, strings.Join(columns, ", "), strings.Join(values, ", ")),
		dialect: d,
		columns: columns,
	}, nil
}

// BindRow produces the argument list for one row. The embedding value is
// parsed and converted to the dialect's bind form; a malformed embedding or
// a missing column fails the row without touching the statement text.
func (s *InsertStatement) BindRow(row Row) ([]any, error) {
	args := make([]any, 0, len(s.columns))
	for _, col := range s.columns {
		value, ok := row[col]
		if !ok {
			return nil, &SerializationError{Reason: fmt.Sprintf("row has no value for column %q", col)}
		}
		if col == EmbeddingColumn {
			vec, err := ParseEmbedding(value)
			if err != nil {
				return nil, err
			}
			bound, err := s.dialect.BindVector(vec)
			if err != nil {
				return nil, err
			}
			args = append(args, bound)
			continue
		}
		args = append(args, value)
	}
	return args, nil
}

// BuildInsertRow builds a single-row insert from a row map. The map must
// contain the embedding column; columns are emitted in sorted order so the
// statement text is deterministic.
func BuildInsertRow(d Dialect, table string, row Row) (*Statement, error) {
	if len(row) == 0 {
		return nil, &SerializationError{Reason: "row is empty"}
	}
	if _, ok := row[EmbeddingColumn]; !ok {
		return nil, &SerializationError{Reason: fmt.Sprintf("row has no %q key", EmbeddingColumn)}
	}
	columns := sortedKeys(row)
	tmpl, err := BuildInsert(d, table, columns)
	if err != nil {
		return nil, err
	}
	args, err := tmpl.BindRow(row)
	if err != nil {
		return nil, err
	}
	return &Statement{SQL: tmpl.SQL, Args: args}, nil
}

// BuildUpdate composes an UPDATE with per-column SET expressions and a
// caller-supplied WHERE clause with named parameters. An empty clause is
// rejected: an update that would touch the whole table unconditionally
// never executes.
func BuildUpdate(d Dialect, table string, set Row, where string, params map[string]any) (*Statement, error) {
	if err := ValidateIdentifier(table); err != nil {
		return nil, err
	}
	if strings.TrimSpace(where) == "" {
		return nil, &UnsafeMutationError{Op: "update", Reason: "a WHERE clause is required"}
	}
	if len(set) == 0 {
		return nil, &SerializationError{Reason: "no columns to update"}
	}

	exprs := make([]string, 0, len(set))
	args := make([]any, 0, len(set))
	n := 0
	for _, col := range sortedKeys(set) {
		if err := ValidateIdentifier(col); err != nil {
			return nil, err
		}
		n++
		if col == EmbeddingColumn {
			vec, err := ParseEmbedding(set[col])
			if err != nil {
				return nil, err
			}
			bound, err := d.BindVector(vec)
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, fmt.Sprintf("%s = %s", col, d.VectorValue(n)))
			args = append(args, bound)
			continue
		}
		exprs = append(exprs, fmt.Sprintf("%s = %s", col, d.Placeholder(n)))
		args = append(args, set[col])
	}

	clause, whereArgs, err := expandNamedParams(d, where, params, n)
	if err != nil {
		return nil, err
	}
	return &Statement{
		SQL:  fmt.Sprintf("UPDATE %s SET %s WHERE %s", table, strings.Join(exprs, ", "), clause),
		Args: append(args, whereArgs...),
	}, nil
}

// BuildDelete composes a DELETE with a required WHERE clause, under the same
// unconditional-mutation rejection as BuildUpdate.
func BuildDelete(d Dialect, table, where string, params map[string]any) (*Statement, error) {
	if err := ValidateIdentifier(table); err != nil {
		return nil, err
	}
	if strings.TrimSpace(where) == "" {
		return nil, &UnsafeMutationError{Op: "delete", Reason: "a WHERE clause is required"}
	}
	clause, args, err := expandNamedParams(d, where, params, 0)
	if err != nil {
		return nil, err
	}
	return &Statement{
		SQL:  fmt.Sprintf("DELETE FROM %s WHERE %s", table, clause),
		Args: args,
	}, nil
}

// BuildSearch composes a similarity search ordered by ascending distance
// between the embedding column and the bound query vector, limited to k
// rows.
func BuildSearch(d Dialect, table string, query []float32, metric Metric, k int) (*Statement, error) {
	if err := ValidateIdentifier(table); err != nil {
		return nil, err
	}
	normalized, err := ParseMetric(string(metric))
	if err != nil {
		return nil, err
	}
	metric = normalized
	if k < 1 {
		return nil, errors.Errorf("result count k must be a positive integer, got %d", k)
	}
	if len(query) == 0 {
		return nil, &SerializationError{Reason: "query vector is empty"}
	}
	bound, err := d.BindVector(query)
	if err != nil {
		return nil, err
	}
	return &Statement{
		SQL: fmt.Sprintf("SELECT *, %s AS distance FROM %s ORDER BY distance ASC LIMIT %s",
			d.DistanceExpr(EmbeddingColumn, 1, metric), table, d.Placeholder(2)),
		Args: []any{bound, k},
	}, nil
}

// BuildSelectAll composes a full-table select.
func BuildSelectAll(d Dialect, table string) (*Statement, error) {
	if err := ValidateIdentifier(table); err != nil {
		return nil, err
	}
	return &Statement{SQL: fmt.Sprintf("SELECT * FROM %s", table)}, nil
}

// BuildDropTable composes DROP TABLE. The confirmed flag is the caller's
// out-of-band confirmation; without it no statement is produced.
func BuildDropTable(d Dialect, table string, confirmed bool) (*Statement, error) {
	if err := ValidateIdentifier(table); err != nil {
		return nil, err
	}
	if !confirmed {
		return nil, &UnsafeMutationError{Op: "drop table", Reason: "destructive operation was not confirmed"}
	}
	return &Statement{SQL: fmt.Sprintf("DROP TABLE IF EXISTS %s", table)}, nil
}

// BuildCopyPage composes the page copy used by the analytics runner: insert
// into dest the rows of source whose key is not present yet, at most
// pageSize of them.
func BuildCopyPage(d Dialect, source, dest, key string, pageSize int) (*Statement, error) {
	if err := ValidateIdentifiers(source, dest, key); err != nil {
		return nil, err
	}
	if pageSize < 1 {
		return nil, errors.Errorf("page size must be a positive integer, got %d", pageSize)
	}
	return &Statement{
		SQL: fmt.Sprintf(
			"INSERT INTO %s SELECT s.* FROM %s s WHERE NOT EXISTS (SELECT 1 FROM %s d WHERE d.%s = s.%s) LIMIT %s",
			dest, source, dest, key, key, d.Placeholder(1)),
		Args: []any{pageSize},
	}, nil
}

// CheckDimension verifies an embedding against a declared dimensionality.
func CheckDimension(vec []float32, dim int) error {
	if dim > 0 && len(vec) != dim {
		return &DimensionMismatchError{Want: dim, Got: len(vec)}
	}
	return nil
}

// validateColumnType restricts engine type strings to the characters type
// declarations are made of, so a column type can never smuggle statement
// syntax into the DDL.
func validateColumnType(colType string) error {
	if strings.TrimSpace(colType) == "" {
		return errors.New("column type is empty")
	}
	for _, c := range colType {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == ' ' || c == '(' || c == ')' || c == ',' || c == '_':
		default:
			return errors.Errorf("column type %q contains unsupported character %q", colType, c)
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
