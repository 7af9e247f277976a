package record

import "strconv"

// RawRecord is one untyped place record as decoded from a JSON or CSV
// source. Values are whatever the decoder produced; all access goes through
// the typed getters below so missing or oddly-typed fields degrade to zero
// values instead of panicking.
type RawRecord map[string]interface{}

// Shape identifies which of the two known input layouts a raw record uses.
type Shape int

const (
	// ShapeProvider is the nested layout returned by the place-search
	// provider (geometry.location, address_components, weekday text).
	ShapeProvider Shape = iota
	// ShapeNormalized is the flat layout produced by earlier cleaning runs
	// (top-level latitude/longitude/canton).
	ShapeNormalized
)

// String returns the shape name for diagnostics.
func (s Shape) String() string {
	if s == ShapeNormalized {
		return "normalized"
	}
	return "provider"
}

// DetectShape classifies a raw record. A record is normalized when it
// carries a flat latitude field under either spelling; everything else is
// treated as provider output.
func DetectShape(r RawRecord) Shape {
	if _, ok := r["latitude"]; ok {
		return ShapeNormalized
	}
	if _, ok := r["lat"]; ok {
		return ShapeNormalized
	}
	return ShapeProvider
}

// Name returns the record's display name, empty when absent.
func (r RawRecord) Name() string {
	return r.GetString("name")
}

// PlaceID returns the provider place identifier, "unknown" when absent.
// Used for log diagnostics only.
func (r RawRecord) PlaceID() string {
	if id := r.GetString("place_id"); id != "" {
		return id
	}
	return "unknown"
}

// GetString returns the string value under key, or "" when the key is
// missing or not a string.
func (r RawRecord) GetString(key string) string {
	if s, ok := r[key].(string); ok {
		return s
	}
	return ""
}

// GetStringList returns the list value under key with every string element
// kept, or nil when the key is missing or not a list.
func (r RawRecord) GetStringList(key string) []string {
	list, ok := r[key].([]interface{})
	if !ok {
		// CSV sources and already-typed callers may carry a real []string.
		if typed, ok := r[key].([]string); ok {
			out := make([]string, len(typed))
			copy(out, typed)
			return out
		}
		return nil
	}

	var out []string
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// GetBool returns the boolean value under key. String sources (CSV) are
// accepted with the usual spellings.
func (r RawRecord) GetBool(key string) (value bool, present bool) {
	switch v := r[key].(type) {
	case bool:
		return v, true
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b, true
		}
	}
	return false, false
}

// OrganicFlag returns the explicit organic certification flag, reading
// organic_certified first and organic second. present reports whether
// either key carried a usable value.
func (r RawRecord) OrganicFlag() (value bool, present bool) {
	if v, ok := r.GetBool("organic_certified"); ok {
		return v, true
	}
	return r.GetBool("organic")
}

// Products returns the record's explicit product list, nil when absent.
func (r RawRecord) Products() []string {
	return r.GetStringList("products")
}

// toFloat converts a decoded JSON or CSV value to float64. ok is false for
// missing, non-numeric and unparseable values.
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// getMap returns the nested mapping under key, or nil.
func getMap(m map[string]interface{}, key string) map[string]interface{} {
	if nested, ok := m[key].(map[string]interface{}); ok {
		return nested
	}
	return nil
}
