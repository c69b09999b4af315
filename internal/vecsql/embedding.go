package vecsql

import (
	"encoding/json"
	"fmt"
)

// ParseEmbedding converts a caller-supplied value into a flat float32 vector.
// It accepts native float slices, []any as produced by encoding/json, and
// textual JSON (string or []byte). An empty sequence, a nested sequence or a
// non-numeric element yields a SerializationError. Dimensionality against a
// table descriptor is checked by the builder when the descriptor is known.
func ParseEmbedding(value any) ([]float32, error) {
	switch v := value.(type) {
	case nil:
		return nil, &SerializationError{Reason: "value is nil"}
	case []float32:
		return checkNonEmpty(v)
	case []float64:
		out := make([]float32, len(v))
		for i, f := range v {
			out[i] = float32(f)
		}
		return checkNonEmpty(out)
	case []any:
		out := make([]float32, len(v))
		for i, e := range v {
			f, ok := asFloat(e)
			if !ok {
				return nil, &SerializationError{Reason: fmt.Sprintf("element %d is %T, not a number", i, e)}
			}
			out[i] = f
		}
		return checkNonEmpty(out)
	case string:
		return parseEmbeddingJSON([]byte(v))
	case []byte:
		return parseEmbeddingJSON(v)
	case json.RawMessage:
		return parseEmbeddingJSON(v)
	}
	return nil, &SerializationError{Reason: fmt.Sprintf("unsupported value type %T", value)}
}

// MarshalEmbedding renders a vector in the JSON text form understood by the
// engine's vector constructor, e.g. "[0.1,0.2,0.3]".
func MarshalEmbedding(vec []float32) (string, error) {
	raw, err := json.Marshal(vec)
	if err != nil {
		return "", &SerializationError{Reason: err.Error()}
	}
	return string(raw), nil
}

func parseEmbeddingJSON(raw []byte) ([]float32, error) {
	var vec []float32
	if err := json.Unmarshal(raw, &vec); err != nil {
		return nil, &SerializationError{Reason: err.Error()}
	}
	return checkNonEmpty(vec)
}

func checkNonEmpty(vec []float32) ([]float32, error) {
	if len(vec) == 0 {
		return nil, &SerializationError{Reason: "sequence is empty"}
	}
	return vec, nil
}

func asFloat(v any) (float32, bool) {
	switch n := v.(type) {
	case float64:
		return float32(n), true
	case float32:
		return n, true
	case int:
		return float32(n), true
	case int64:
		return float32(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return float32(f), true
	}
	return 0, false
}
