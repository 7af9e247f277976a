package schema

import (
	"strconv"
	"strings"

	"github.com/aargau-farmshops/internal/debug"
	"github.com/aargau-farmshops/internal/hours"
)

// Reconcile coerces every record's fields to the schema, in place. Missing
// fields get the field default; mismatched values are coerced best-effort
// and fall back to the default when conversion fails. Extra keys are
// preserved. An empty opening_hours value is replaced with the fixed
// fallback string instead of a literal zero value, because the canonical
// schema expects a non-empty descriptive string.
//
// This is the lenient half of the strict/lenient pair; see Validate for
// the strict half. verbose gates per-substitution diagnostics.
func (s Schema) Reconcile(records []map[string]interface{}, verbose bool) {
	for _, r := range records {
		for _, field := range s.fields {
			value, present := r[field.Name]

			if !present {
				r[field.Name] = field.Default
				debug.Output(verbose, "reconcile: defaulted missing field %q", field.Name)
			} else if kind, ok := kindOf(value); !ok || kind != field.Kind {
				coerced, ok := coerce(value, field.Kind)
				if !ok {
					coerced = field.Default
					debug.Output(verbose, "reconcile: zeroed unconvertible field %q (%T)", field.Name, value)
				}
				r[field.Name] = coerced
			}

			if field.Name == "opening_hours" && emptyHours(r[field.Name]) {
				r[field.Name] = hours.Fallback
			}
		}
	}
}

// coerce attempts a best-effort conversion of value to the target kind.
func coerce(value interface{}, target Kind) (interface{}, bool) {
	switch target {
	case KindString:
		switch v := value.(type) {
		case string:
			return v, true
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), true
		case int:
			return strconv.Itoa(v), true
		case bool:
			return strconv.FormatBool(v), true
		}
		return nil, false

	case KindInt:
		switch v := value.(type) {
		case int:
			return v, true
		case float64:
			return int(v), true
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				return n, true
			}
		}
		return nil, false

	case KindFloat:
		switch v := value.(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f, true
			}
		}
		return nil, false

	case KindBool:
		if v, ok := value.(bool); ok {
			return v, true
		}
		return nil, false

	case KindList:
		if kind, ok := kindOf(value); ok && kind == KindList {
			return value, true
		}
		return []interface{}{}, true

	case KindMap:
		if kind, ok := kindOf(value); ok && kind == KindMap {
			return value, true
		}
		return map[string]interface{}{}, true
	}

	return nil, false
}

// emptyHours reports whether an opening_hours value carries no usable data.
func emptyHours(v interface{}) bool {
	switch hoursValue := v.(type) {
	case nil:
		return true
	case string:
		return hoursValue == ""
	case map[string]interface{}:
		return len(hoursValue) == 0
	case map[string]string:
		return len(hoursValue) == 0
	}
	return false
}
