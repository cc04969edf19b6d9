// Where: internal/domain/value/value.go
// What: Coercion helpers for decoded TOML values.
// Why: go-toml decodes into untyped maps and slices.
package value

import (
	"fmt"
	"time"
)

// AsString renders a scalar for display and comparison. Local dates and
// times keep their TOML spelling; nil is "".
func AsString(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return typed
	case time.Time:
		return typed.Format(time.RFC3339)
	case fmt.Stringer:
		return typed.String()
	}
	return fmt.Sprint(v)
}

// AsMapSlice returns the tables of an array of tables, or nil when any
// element is not a table. A single table is wrapped.
func AsMapSlice(v any) []map[string]any {
	switch typed := v.(type) {
	case map[string]any:
		return []map[string]any{typed}
	case []map[string]any:
		return typed
	case []any:
		out := make([]map[string]any, 0, len(typed))
		for _, item := range typed {
			m, ok := item.(map[string]any)
			if !ok {
				return nil
			}
			out = append(out, m)
		}
		return out
	}
	return nil
}
