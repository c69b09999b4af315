package vecsql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandNamedParams(t *testing.T) {
	t.Parallel()

	clause, args, err := expandNamedParams(MariaDB(), "name = :name AND qty > :min", map[string]any{
		"name": "Item",
		"min":  3,
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, "name = ? AND qty > ?", clause)
	assert.Equal(t, []any{"Item", 3}, args)
}

func TestExpandNamedParamsNumbersFromStart(t *testing.T) {
	t.Parallel()

	clause, args, err := expandNamedParams(Postgres(), "id = :id", map[string]any{"id": 7}, 2)
	require.NoError(t, err)
	assert.Equal(t, "id = $3", clause)
	assert.Equal(t, []any{7}, args)
}

func TestExpandNamedParamsRepeatedReference(t *testing.T) {
	t.Parallel()

	clause, args, err := expandNamedParams(MariaDB(), ":v < a AND b < :v", map[string]any{"v": 1}, 0)
	require.NoError(t, err)
	assert.Equal(t, "? < a AND b < ?", clause)
	assert.Equal(t, []any{1, 1}, args)
}

func TestExpandNamedParamsLeavesQuotedTextAlone(t *testing.T) {
	t.Parallel()

	clause, args, err := expandNamedParams(MariaDB(), "note = ':literal' AND id = :id", map[string]any{"id": 1}, 0)
	require.NoError(t, err)
	assert.Equal(t, "note = ':literal' AND id = ?", clause)
	assert.Equal(t, []any{1}, args)
}

func TestExpandNamedParamsLeavesCastsAlone(t *testing.T) {
	t.Parallel()

	clause, args, err := expandNamedParams(Postgres(), "id::text = :id", map[string]any{"id": "7"}, 0)
	require.NoError(t, err)
	assert.Equal(t, "id::text = $1", clause)
	assert.Equal(t, []any{"7"}, args)
}

func TestExpandNamedParamsMariaDBBackslashEscape(t *testing.T) {
	t.Parallel()

	clause, args, err := expandNamedParams(MariaDB(),
		`note = 'it\'s' AND id = :id`, map[string]any{"id": 1}, 0)
	require.NoError(t, err)
	assert.Equal(t, `note = 'it\'s' AND id = ?`, clause)
	assert.Equal(t, []any{1}, args)

	// Postgres standard literals take backslash literally, so the same
	// clause ends inside an open literal.
	_, _, err = expandNamedParams(Postgres(),
		`note = 'it\'s' AND id = :id`, map[string]any{"id": 1}, 0)
	require.ErrorContains(t, err, "unterminated")
}

func TestExpandNamedParamsMissingValue(t *testing.T) {
	t.Parallel()

	_, _, err := expandNamedParams(MariaDB(), "id = :id", nil, 0)
	require.ErrorContains(t, err, `parameter "id"`)
}

func TestExpandNamedParamsUnterminatedLiteral(t *testing.T) {
	t.Parallel()

	_, _, err := expandNamedParams(MariaDB(), "note = 'oops", nil, 0)
	require.ErrorContains(t, err, "unterminated")
}
