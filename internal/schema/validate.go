package schema

import (
	"log"
	"sort"
)

// Validate strictly checks every record against the schema: the key sets
// must match exactly and every shared value's runtime kind must equal the
// schema kind, with no coercion. It returns false on the first failing
// record, logging the key-set difference or type mismatch. Used by the
// batch exporter; the canton pipeline uses the lenient Reconcile instead.
func (s Schema) Validate(records []map[string]interface{}) bool {
	for _, r := range records {
		if !s.validateRecord(r) {
			log.Printf("Validation failed for record with place_id: %s", recordID(r))
			return false
		}
	}
	return true
}

func (s Schema) validateRecord(r map[string]interface{}) bool {
	var missing, extra []string
	for _, field := range s.fields {
		if _, ok := r[field.Name]; !ok {
			missing = append(missing, field.Name)
		}
	}
	for key := range r {
		if _, ok := s.byName[key]; !ok {
			extra = append(extra, key)
		}
	}
	if len(missing) > 0 || len(extra) > 0 {
		sort.Strings(missing)
		sort.Strings(extra)
		if len(missing) > 0 {
			log.Printf("Record is missing keys: %v", missing)
		}
		if len(extra) > 0 {
			log.Printf("Record has extra keys: %v", extra)
		}
		return false
	}

	for _, field := range s.fields {
		kind, ok := kindOf(r[field.Name])
		if !ok || kind != field.Kind {
			log.Printf("Type mismatch for key %q: expected %s, got %T",
				field.Name, field.Kind, r[field.Name])
			return false
		}
	}
	return true
}

// recordID identifies a record in diagnostics by its place id when it has
// one.
func recordID(r map[string]interface{}) string {
	if id, ok := r["place_id"].(string); ok && id != "" {
		return id
	}
	return "unknown"
}
