package plan

// Candidate is an assembled plan before validation: the decoded JSON object
// keyed by backend field names, exactly as recovered from model output.
type Candidate map[string]any

// Clone returns a deep copy so later stages never mutate caller-owned state.
func (c Candidate) Clone() Candidate {
	if c == nil {
		return nil
	}
	return deepCopy(map[string]any(c)).(map[string]any)
}

// List returns the value at key as a list, or nil when absent or not a list.
func (c Candidate) List(key string) []any {
	if v, ok := c[key].([]any); ok {
		return v
	}
	return nil
}

// String returns the value at key as a string, or "" when absent.
func (c Candidate) String(key string) string {
	if v, ok := c[key].(string); ok {
		return v
	}
	return ""
}

// Number returns the numeric value at key and whether it was present.
func (c Candidate) Number(key string) (float64, bool) {
	return AsNumber(c[key])
}

// AsNumber converts decoded JSON numbers (and Go numeric types) to float64.
func AsNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// DeepCopy copies decoded JSON values (maps, lists and scalars).
func DeepCopy(v any) any {
	return deepCopy(v)
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = deepCopy(val)
		}
		return out
	case Candidate:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = deepCopy(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = deepCopy(val)
		}
		return out
	default:
		return v
	}
}
