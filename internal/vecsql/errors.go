package vecsql

import "fmt"

// InvalidIdentifierError reports a table, column or index name that is not a
// safe bare SQL identifier. It is returned before any statement text is
// assembled and before any I/O is attempted.
type InvalidIdentifierError struct {
	Name string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid identifier %q: must match [A-Za-z_][A-Za-z0-9_]* and be at most %d characters", e.Name, maxIdentifierLen)
}

// InvalidMetricError reports a distance metric outside {cosine, euclidean}.
type InvalidMetricError struct {
	Metric string
}

func (e *InvalidMetricError) Error() string {
	return fmt.Sprintf("invalid distance metric %q: choose %q or %q", e.Metric, MetricCosine, MetricEuclidean)
}

// DimensionMismatchError reports an embedding whose length disagrees with the
// table's declared dimensionality.
type DimensionMismatchError struct {
	Want int
	Got  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("embedding has %d dimensions, table declares %d", e.Got, e.Want)
}

// UnsafeMutationError reports an update or delete without a filter clause, or
// a table drop without confirmation. Mutations that would affect a whole
// table unconditionally are rejected rather than executed.
type UnsafeMutationError struct {
	Op     string
	Reason string
}

func (e *UnsafeMutationError) Error() string {
	return fmt.Sprintf("refusing unsafe %s: %s", e.Op, e.Reason)
}

// SerializationError reports a value that does not represent a flat numeric
// sequence and therefore cannot be used as an embedding.
type SerializationError struct {
	Reason string
}

func (e *SerializationError) Error() string {
	return "embedding is not a flat numeric sequence: " + e.Reason
}

// RowParseError reports one malformed row inside a batch. It is non-fatal to
// the batch: the row is skipped and the batch continues.
type RowParseError struct {
	Line int
	Err  error
}

func (e *RowParseError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

func (e *RowParseError) Unwrap() error {
	return e.Err
}
