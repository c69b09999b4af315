package vecsql

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseEmbedding(t *testing.T) {
	t.Parallel()

	want := []float32{0.1, 0.2, 0.3}

	cases := map[string]any{
		"float32 slice": []float32{0.1, 0.2, 0.3},
		"float64 slice": []float64{0.1, 0.2, 0.3},
		"json string":   "[0.1, 0.2, 0.3]",
		"json bytes":    []byte("[0.1, 0.2, 0.3]"),
		"any slice":     []any{0.1, 0.2, 0.3},
	}
	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			vec, err := ParseEmbedding(value)
			require.NoError(t, err)
			require.InDeltaSlice(t, want, vec, 1e-6)
		})
	}
}

func TestParseEmbeddingRejectsMalformedValues(t *testing.T) {
	t.Parallel()

	cases := map[string]any{
		"nil":           nil,
		"empty slice":   []float32{},
		"empty json":    "[]",
		"not json":      "not a vector",
		"nested":        "[[0.1], [0.2]]",
		"mixed":         []any{0.1, "x"},
		"object":        `{"v": 1}`,
		"number":        3.14,
		"string number": "3.14",
	}
	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseEmbedding(value)
			var serErr *SerializationError
			require.ErrorAs(t, err, &serErr)
		})
	}
}

func TestMarshalEmbeddingRoundTrip(t *testing.T) {
	t.Parallel()

	text, err := MarshalEmbedding([]float32{0.1, 0.2, 0.3})
	require.NoError(t, err)
	require.Equal(t, "[0.1,0.2,0.3]", text)

	vec, err := ParseEmbedding(text)
	require.NoError(t, err)
	require.InDeltaSlice(t, []float32{0.1, 0.2, 0.3}, vec, 1e-6)
}

func TestCheckDimension(t *testing.T) {
	t.Parallel()

	require.NoError(t, CheckDimension([]float32{1, 2, 3}, 3))
	require.NoError(t, CheckDimension([]float32{1, 2, 3}, 0))

	err := CheckDimension([]float32{1, 2}, 3)
	var dimErr *DimensionMismatchError
	require.ErrorAs(t, err, &dimErr)
	require.Equal(t, 3, dimErr.Want)
	require.Equal(t, 2, dimErr.Got)
}
