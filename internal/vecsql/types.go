// Package vecsql assembles parameterized SQL for vector tables.
//
// It is the only place in the project where statement text is built from
// user-supplied pieces. Identifiers are validated before they are inlined,
// and every variable value is bound as a driver parameter; no value is ever
// formatted into the statement text.
package vecsql

import "strings"

// EmbeddingColumn is the reserved column name that holds the vector value
// in every table managed by this project.
const EmbeddingColumn = "embedding"

// Metric is a supported vector distance metric.
type Metric string

const (
	MetricCosine    Metric = "cosine"
	MetricEuclidean Metric = "euclidean"
)

// ParseMetric normalizes and checks a metric name.
func ParseMetric(s string) (Metric, error) {
	switch Metric(strings.ToLower(s)) {
	case MetricCosine:
		return MetricCosine, nil
	case MetricEuclidean:
		return MetricEuclidean, nil
	}
	return "", &InvalidMetricError{Metric: s}
}

// Row is one row of column name to value, as supplied by the caller.
// The embedding column holds either a parsed vector or its textual form.
type Row map[string]any

// TableDescriptor describes a vector table at creation time. The schema is
// immutable afterwards from this project's perspective.
type TableDescriptor struct {
	Name string
	// Dim is the declared embedding dimensionality.
	Dim int
	// OtherColumns maps extra column names to engine type strings.
	OtherColumns map[string]string
	// PrimaryKey, when set, must name one of OtherColumns.
	PrimaryKey string
	Metric     Metric
	// M is the vector index tuning parameter (HNSW M).
	M int
	// IndexName defaults to <table>_vec_idx.
	IndexName string
}

// Statement is a built SQL statement with its bound arguments.
type Statement struct {
	SQL  string
	Args []any
}
