package openapi

import (
	"math"
	"sort"
)

// Helpers reading the loosely typed description document. Documents built
// in-process carry Go types; documents decoded from JSON/YAML carry float64,
// []any and friends, so both shapes are accepted.

func stringOf(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func mapOf(m map[string]any, key string) map[string]any {
	v, _ := m[key].(map[string]any)
	return v
}

func boolOf(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}

func intOf(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	}
	return 0, false
}

func intPtrOf(m map[string]any, key string) *int64 {
	v, ok := m[key]
	if !ok {
		return nil
	}
	n, ok := intOf(v)
	if !ok {
		return nil
	}
	return &n
}

func stringsOf(v any) []string {
	switch s := v.(type) {
	case string:
		return []string{s}
	case []string:
		return s
	case []any:
		out := make([]string, 0, len(s))
		for _, e := range s {
			if str, ok := e.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}

func sliceOf(m map[string]any, key string) []any {
	s, _ := m[key].([]any)
	return s
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
