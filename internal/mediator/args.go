package mediator

// Args is the argument mapping a leaf receives. By the time a leaf sees it,
// the contract has run: required fields are present, defaults are filled,
// enums are normalized to canonical case, and numeric fields hold values
// the typed getters below can read without error handling.
type Args map[string]interface{}

// Has reports whether the argument was supplied (or defaulted).
func (a Args) Has(name string) bool {
	v, ok := a[name]
	return ok && v != nil
}

// String returns the named argument as a string, or "" when absent.
func (a Args) String(name string) string {
	if s, ok := a[name].(string); ok {
		return s
	}
	return ""
}

// Int returns the named argument as an int. JSON numbers arrive as float64;
// both representations are accepted.
func (a Args) Int(name string) int {
	switch v := a[name].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// Float returns the named argument as a float64.
func (a Args) Float(name string) float64 {
	switch v := a[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

// Bool returns the named argument as a bool, or false when absent.
func (a Args) Bool(name string) bool {
	if b, ok := a[name].(bool); ok {
		return b
	}
	return false
}

// Strings returns the named argument as a string slice. JSON arrays arrive
// as []interface{}; non-string elements are skipped.
func (a Args) Strings(name string) []string {
	switch v := a[name].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Map returns the named argument as a nested object, or nil when absent.
func (a Args) Map(name string) map[string]interface{} {
	if m, ok := a[name].(map[string]interface{}); ok {
		return m
	}
	return nil
}

// clone copies the mapping so validation normalization never mutates the
// caller's view of the request.
func (a Args) clone() Args {
	out := make(Args, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
