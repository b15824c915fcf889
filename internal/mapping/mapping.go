// Package mapping converts between the backend's wire shape and the
// typed domain records. The backend mixes snake_case and camelCase and
// omits optional fields freely, so every read coalesces a fixed alias
// priority list and applies a declared default; every write renames to
// the wire field names, coerces numerics, and normalizes timestamps.
package mapping

import (
	"strconv"
	"strings"
	"time"
)

// Mode selects the write shape.
type Mode int

const (
	// Create produces a full payload with declared defaults filled in.
	Create Mode = iota
	// Update produces the payload for an existing record. Sparse
	// semantics live in the per-kind patch encoders; composite
	// entities always send their full nested payload on update.
	Update
)

// Declared defaults. A record missing one of these fields acquires the
// default on read and on create, never an empty value.
const (
	DefaultTargetHumidity = 50.0
	DefaultTemperature    = 22.0
	DefaultBattery        = 100.0
	DefaultSignal         = 100.0
	DefaultFirmware       = "1.0.0"
)

// now is stubbed in tests.
var now = time.Now

// str returns the first present non-empty string among keys, else def.
func str(m map[string]any, def string, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return def
}

// num returns the first present numeric value among keys, else def.
// String-typed numbers coming from form inputs are parsed; the backend
// rejects stringly-typed numerics, so writes must never forward them.
func num(m map[string]any, def float64, keys ...string) float64 {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		if f, ok := coerce(v); ok {
			return f
		}
	}
	return def
}

// numOpt is num for fields where an explicit zero must stay distinct
// from an absent value. It returns nil when no alias is present.
func numOpt(m map[string]any, keys ...string) *float64 {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		if f, ok := coerce(v); ok {
			return &f
		}
	}
	return nil
}

// fallback fills an absent numeric with its declared default.
func fallback(v *float64, def float64) *float64 {
	if v == nil {
		return &def
	}
	return v
}

// numOr dereferences an optional numeric, substituting the declared
// default only when the field was never set.
func numOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func coerce(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// boolean returns the first present bool among keys, else def.
func boolean(m map[string]any, def bool, keys ...string) bool {
	for _, k := range keys {
		if b, ok := m[k].(bool); ok {
			return b
		}
	}
	return def
}

// sub returns the first present nested object among keys.
func sub(m map[string]any, keys ...string) (map[string]any, bool) {
	for _, k := range keys {
		if child, ok := m[k].(map[string]any); ok {
			return child, true
		}
	}
	return nil, false
}

// list returns the first present array among keys.
func list(m map[string]any, keys ...string) []any {
	for _, k := range keys {
		if items, ok := m[k].([]any); ok {
			return items
		}
	}
	return nil
}

// numbers reads a numeric trend/history series.
func numbers(m map[string]any, keys ...string) []float64 {
	items := list(m, keys...)
	out := make([]float64, 0, len(items))
	for _, item := range items {
		if f, ok := coerce(item); ok {
			out = append(out, f)
		}
	}
	return out
}

// strs reads a string array.
func strs(m map[string]any, keys ...string) []string {
	items := list(m, keys...)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// isoOrNow normalizes a timestamp for the wire. Display placeholders
// like "Hozir" are not ISO-8601 and are replaced with the current
// instant; anything already carrying a date/time separator passes
// through untouched.
func isoOrNow(s string) string {
	if s == "" || !strings.Contains(s, "T") {
		return now().UTC().Format(time.RFC3339)
	}
	return s
}

// setIf adds k=v when v is a non-empty string.
func setIf(m map[string]any, k, v string) {
	if v != "" {
		m[k] = v
	}
}
