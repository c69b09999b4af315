package vecsql

import (
	"testing"

	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productsDescriptor() *TableDescriptor {
	return &TableDescriptor{
		Name: "products",
		Dim:  3,
		OtherColumns: map[string]string{
			"name":        "VARCHAR(128)",
			"description": "TEXT",
		},
		PrimaryKey: "name",
		Metric:     MetricCosine,
		M:          8,
	}
}

func TestBuildCreateTableMariaDB(t *testing.T) {
	t.Parallel()

	stmts, err := BuildCreateTable(MariaDB(), productsDescriptor())
	require.NoError(t, err)
	require.Len(t, stmts, 1)

	want := "CREATE TABLE IF NOT EXISTS products (\n" +
		"  description TEXT,\n" +
		"  name VARCHAR(128),\n" +
		"  embedding VECTOR(3) NOT NULL,\n" +
		"  PRIMARY KEY (name),\n" +
		"  VECTOR INDEX products_vec_idx (embedding) M=8 DISTANCE=cosine\n" +
		") ENGINE=InnoDB"
	assert.Equal(t, want, stmts[0].SQL)
	assert.Empty(t, stmts[0].Args)
}

func TestBuildCreateTablePostgres(t *testing.T) {
	t.Parallel()

	desc := productsDescriptor()
	desc.Metric = MetricEuclidean
	stmts, err := BuildCreateTable(Postgres(), desc)
	require.NoError(t, err)
	require.Len(t, stmts, 2)

	assert.Contains(t, stmts[0].SQL, "embedding vector(3) NOT NULL")
	assert.Equal(t,
		"CREATE INDEX IF NOT EXISTS products_vec_idx ON products USING hnsw (embedding vector_l2_ops) WITH (m = 8)",
		stmts[1].SQL)
}

func TestBuildCreateTableRejectsBadInput(t *testing.T) {
	t.Parallel()

	bad := productsDescriptor()
	bad.Name = "products; DROP TABLE users"
	_, err := BuildCreateTable(MariaDB(), bad)
	var identErr *InvalidIdentifierError
	require.ErrorAs(t, err, &identErr)

	bad = productsDescriptor()
	bad.Metric = "manhattan"
	_, err = BuildCreateTable(MariaDB(), bad)
	var metricErr *InvalidMetricError
	require.ErrorAs(t, err, &metricErr)

	bad = productsDescriptor()
	bad.PrimaryKey = "missing"
	_, err = BuildCreateTable(MariaDB(), bad)
	require.ErrorContains(t, err, "not a declared column")

	bad = productsDescriptor()
	bad.OtherColumns = map[string]string{"name": "VARCHAR(128)); DROP TABLE users; --"}
	_, err = BuildCreateTable(MariaDB(), bad)
	require.ErrorContains(t, err, "unsupported character")

	bad = productsDescriptor()
	bad.Dim = 0
	_, err = BuildCreateTable(MariaDB(), bad)
	require.ErrorContains(t, err, "dimension")

	bad = productsDescriptor()
	bad.M = 0
	_, err = BuildCreateTable(MariaDB(), bad)
	require.ErrorContains(t, err, "tuning parameter")
}

func TestBuildInsertRow(t *testing.T) {
	t.Parallel()

	row := Row{"name": "Item", "embedding": []float32{0.1, 0.2, 0.3}}

	stmt, err := BuildInsertRow(MariaDB(), "products", row)
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO products (embedding, name) VALUES (VEC_FromText(?), ?)", stmt.SQL)
	require.Len(t, stmt.Args, 2)
	assert.Equal(t, "[0.1,0.2,0.3]", stmt.Args[0])
	assert.Equal(t, "Item", stmt.Args[1])

	stmt, err = BuildInsertRow(Postgres(), "products", row)
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO products (embedding, name) VALUES ($1, $2)", stmt.SQL)
	assert.IsType(t, pgvector.Vector{}, stmt.Args[0])
}

func TestBuildInsertRowRequiresEmbeddingKey(t *testing.T) {
	t.Parallel()

	_, err := BuildInsertRow(MariaDB(), "products", Row{"name": "Item"})
	var serErr *SerializationError
	require.ErrorAs(t, err, &serErr)

	_, err = BuildInsertRow(MariaDB(), "products", Row{})
	require.ErrorAs(t, err, &serErr)
}

func TestInsertTemplateBindRow(t *testing.T) {
	t.Parallel()

	tmpl, err := BuildInsert(MariaDB(), "products", []string{"name", "embedding"})
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO products (name, embedding) VALUES (?, VEC_FromText(?))", tmpl.SQL)

	args, err := tmpl.BindRow(Row{"name": "Item", "embedding": "[1, 2]"})
	require.NoError(t, err)
	assert.Equal(t, []any{"Item", "[1,2]"}, args)

	_, err = tmpl.BindRow(Row{"name": "Item", "embedding": "broken"})
	var serErr *SerializationError
	require.ErrorAs(t, err, &serErr)

	_, err = tmpl.BindRow(Row{"embedding": "[1, 2]"})
	require.ErrorAs(t, err, &serErr)
}

func TestBuildInsertRejectsMissingEmbeddingColumn(t *testing.T) {
	t.Parallel()

	_, err := BuildInsert(MariaDB(), "products", []string{"name", "description"})
	var serErr *SerializationError
	require.ErrorAs(t, err, &serErr)
}

func TestBuildUpdate(t *testing.T) {
	t.Parallel()

	set := Row{"name": "New", "embedding": []float32{1, 2}}
	stmt, err := BuildUpdate(MariaDB(), "products", set, "name = :old", map[string]any{"old": "Old"})
	require.NoError(t, err)
	assert.Equal(t, "UPDATE products SET embedding = VEC_FromText(?), name = ? WHERE name = ?", stmt.SQL)
	assert.Equal(t, []any{"[1,2]", "New", "Old"}, stmt.Args)

	stmt, err = BuildUpdate(Postgres(), "products", set, "name = :old", map[string]any{"old": "Old"})
	require.NoError(t, err)
	assert.Equal(t, "UPDATE products SET embedding = $1, name = $2 WHERE name = $3", stmt.SQL)
}

func TestBuildUpdateRejectsMissingFilter(t *testing.T) {
	t.Parallel()

	for _, where := range []string{"", "   "} {
		_, err := BuildUpdate(MariaDB(), "products", Row{"name": "x"}, where, nil)
		var unsafeErr *UnsafeMutationError
		require.ErrorAs(t, err, &unsafeErr)
		assert.Equal(t, "update", unsafeErr.Op)
	}
}

func TestBuildDelete(t *testing.T) {
	t.Parallel()

	stmt, err := BuildDelete(MariaDB(), "products", "name = :name", map[string]any{"name": "Item"})
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM products WHERE name = ?", stmt.SQL)
	assert.Equal(t, []any{"Item"}, stmt.Args)

	_, err = BuildDelete(MariaDB(), "products", "", nil)
	var unsafeErr *UnsafeMutationError
	require.ErrorAs(t, err, &unsafeErr)
	assert.Equal(t, "delete", unsafeErr.Op)
}

func TestBuildSearch(t *testing.T) {
	t.Parallel()

	query := []float32{0.1, 0.2, 0.3}

	stmt, err := BuildSearch(MariaDB(), "products", query, MetricCosine, 5)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT *, VEC_DISTANCE_COSINE(embedding, VEC_FromText(?)) AS distance FROM products ORDER BY distance ASC LIMIT ?",
		stmt.SQL)
	assert.Equal(t, []any{"[0.1,0.2,0.3]", 5}, stmt.Args)

	stmt, err = BuildSearch(MariaDB(), "products", query, MetricEuclidean, 5)
	require.NoError(t, err)
	assert.Contains(t, stmt.SQL, "VEC_DISTANCE_EUCLIDEAN")

	stmt, err = BuildSearch(Postgres(), "products", query, MetricCosine, 5)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT *, (embedding <=> $1) AS distance FROM products ORDER BY distance ASC LIMIT $2",
		stmt.SQL)
	assert.Equal(t, pgvector.NewVector(query), stmt.Args[0])

	stmt, err = BuildSearch(Postgres(), "products", query, MetricEuclidean, 5)
	require.NoError(t, err)
	assert.Contains(t, stmt.SQL, "<->")
}

func TestBuildSearchNormalizesMetricCase(t *testing.T) {
	t.Parallel()

	query := []float32{0.1, 0.2, 0.3}

	stmt, err := BuildSearch(MariaDB(), "products", query, "EUCLIDEAN", 5)
	require.NoError(t, err)
	assert.Contains(t, stmt.SQL, "VEC_DISTANCE_EUCLIDEAN")

	stmt, err = BuildSearch(Postgres(), "products", query, "Euclidean", 5)
	require.NoError(t, err)
	assert.Contains(t, stmt.SQL, "<->")
}

func TestBuildCreateTableNormalizesMetricCase(t *testing.T) {
	t.Parallel()

	desc := productsDescriptor()
	desc.Metric = "EUCLIDEAN"
	stmts, err := BuildCreateTable(MariaDB(), desc)
	require.NoError(t, err)
	assert.Contains(t, stmts[0].SQL, "DISTANCE=euclidean")

	desc = productsDescriptor()
	desc.Metric = "Euclidean"
	stmts, err = BuildCreateTable(Postgres(), desc)
	require.NoError(t, err)
	require.Len(t, stmts, 2)
	assert.Contains(t, stmts[1].SQL, "vector_l2_ops")
}

func TestBuildSearchRejectsBadInput(t *testing.T) {
	t.Parallel()

	_, err := BuildSearch(MariaDB(), "products", []float32{1}, "ip", 5)
	var metricErr *InvalidMetricError
	require.ErrorAs(t, err, &metricErr)

	_, err = BuildSearch(MariaDB(), "products", []float32{1}, MetricCosine, 0)
	require.ErrorContains(t, err, "result count")

	_, err = BuildSearch(MariaDB(), "products", nil, MetricCosine, 5)
	var serErr *SerializationError
	require.ErrorAs(t, err, &serErr)
}

func TestBuildDropTable(t *testing.T) {
	t.Parallel()

	stmt, err := BuildDropTable(MariaDB(), "products", true)
	require.NoError(t, err)
	assert.Equal(t, "DROP TABLE IF EXISTS products", stmt.SQL)

	_, err = BuildDropTable(MariaDB(), "products", false)
	var unsafeErr *UnsafeMutationError
	require.ErrorAs(t, err, &unsafeErr)
	assert.Equal(t, "drop table", unsafeErr.Op)
}

func TestBuildSelectAll(t *testing.T) {
	t.Parallel()

	stmt, err := BuildSelectAll(MariaDB(), "products")
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM products", stmt.SQL)

	_, err = BuildSelectAll(MariaDB(), "pro;ducts")
	var identErr *InvalidIdentifierError
	require.ErrorAs(t, err, &identErr)
}

func TestBuildCopyPage(t *testing.T) {
	t.Parallel()

	stmt, err := BuildCopyPage(MariaDB(), "products", "products_analytics", "id", 1000)
	require.NoError(t, err)
	assert.Equal(t,
		"INSERT INTO products_analytics SELECT s.* FROM products s WHERE NOT EXISTS (SELECT 1 FROM products_analytics d WHERE d.id = s.id) LIMIT ?",
		stmt.SQL)
	assert.Equal(t, []any{1000}, stmt.Args)

	_, err = BuildCopyPage(MariaDB(), "products", "dest", "id", 0)
	require.ErrorContains(t, err, "page size")

	_, err = BuildCopyPage(MariaDB(), "products", "de st", "id", 10)
	var identErr *InvalidIdentifierError
	require.ErrorAs(t, err, &identErr)
}
