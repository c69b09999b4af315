package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NarmalaSk/diem/internal/vecsql"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rows.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadCSVRows(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, "name,embedding\n"+
		`a,"[0.1, 0.2]"`+"\n"+
		`b,"[0.3, 0.4]"`+"\n")

	columns, rows, err := readCSVRows(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "embedding"}, columns)
	require.Len(t, rows, 2)
	assert.Equal(t, vecsql.Row{"name": "a", "embedding": "[0.1, 0.2]"}, rows[0])
	assert.Equal(t, vecsql.Row{"name": "b", "embedding": "[0.3, 0.4]"}, rows[1])
}

func TestReadCSVRowsKeepsMalformedEmbeddingCells(t *testing.T) {
	t.Parallel()

	// Malformed embeddings are not the reader's problem: the batch executor
	// skips them row by row.
	path := writeCSV(t, "name,embedding\na,broken\n")

	_, rows, err := readCSVRows(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "broken", rows[0]["embedding"])
}

func TestReadCSVRowsRequiresEmbeddingColumn(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, "name,description\na,b\n")
	_, _, err := readCSVRows(path)
	require.ErrorContains(t, err, `"embedding"`)
}

func TestReadCSVRowsRejectsUnsafeHeader(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, "name;drop,embedding\na,[0.1]\n")
	_, _, err := readCSVRows(path)
	var identErr *vecsql.InvalidIdentifierError
	require.ErrorAs(t, err, &identErr)
}

func TestReadCSVRowsMissingFile(t *testing.T) {
	t.Parallel()

	_, _, err := readCSVRows(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}

func TestRootCommandTree(t *testing.T) {
	t.Parallel()

	root := NewRootCmd()
	expected := []string{
		"connect", "close", "create-table", "delete-table", "insert-vector",
		"insert-batch", "search", "update-vector", "delete-vectors",
		"list-databases", "list-tables", "get-all", "sync", "embed",
	}
	for _, name := range expected {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestInsertVectorChecksDimension(t *testing.T) {
	root := NewRootCmd()
	root.SetArgs([]string{"insert-vector", "--table", "t",
		"--data", `{"embedding": [0.1, 0.2]}`, "--dim", "3"})
	err := root.Execute()
	var dimErr *vecsql.DimensionMismatchError
	require.ErrorAs(t, err, &dimErr)
	assert.Equal(t, 3, dimErr.Want)
	assert.Equal(t, 2, dimErr.Got)
}

func TestUpdateVectorRequiresWhere(t *testing.T) {
	root := NewRootCmd()
	root.SetArgs([]string{"update-vector", "--table", "t", "--data", "{}"})
	err := root.Execute()
	require.ErrorContains(t, err, "where")
}

func TestDeleteVectorsRequiresWhere(t *testing.T) {
	root := NewRootCmd()
	root.SetArgs([]string{"delete-vectors", "--table", "t"})
	err := root.Execute()
	require.ErrorContains(t, err, "where")
}
