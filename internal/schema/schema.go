// Package schema reconciles and validates generic record mappings against
// a field schema. The schema is either declared in code (the canonical
// shop schema) or derived from an example record, mirroring the sample
// files the flat export contract is written against.
package schema

import (
	"encoding/json"
	"fmt"
	"os"
)

// Kind is the coarse value type of a schema field.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindList
	KindMap
)

// String returns the kind name for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	}
	return "unknown"
}

// Field describes one schema entry: its name, kind and the default
// substituted when the field is missing or irrecoverably mismatched.
type Field struct {
	Name    string
	Kind    Kind
	Default interface{}
}

// Schema is an ordered field list with name lookup.
type Schema struct {
	fields []Field
	byName map[string]Field
}

// New builds a schema from an ordered field list. Fields without an
// explicit default get their kind's zero value.
func New(fields []Field) Schema {
	byName := make(map[string]Field, len(fields))
	for i, f := range fields {
		if f.Default == nil {
			f.Default = zeroValue(f.Kind)
			fields[i] = f
		}
		byName[f.Name] = f
	}
	return Schema{fields: fields, byName: byName}
}

// Fields returns the schema's fields in declaration order.
func (s Schema) Fields() []Field {
	return s.fields
}

// Len returns the number of schema fields.
func (s Schema) Len() int {
	return len(s.fields)
}

// Canonical is the application-facing shop schema, declared once in code.
func Canonical() Schema {
	return New([]Field{
		{Name: "id", Kind: KindInt},
		{Name: "name", Kind: KindString},
		{Name: "description", Kind: KindString},
		{Name: "address", Kind: KindString},
		{Name: "canton", Kind: KindString},
		{Name: "phone", Kind: KindString},
		{Name: "email", Kind: KindString},
		{Name: "website", Kind: KindString},
		{Name: "opening_hours", Kind: KindString},
		{Name: "products", Kind: KindList},
		{Name: "organic", Kind: KindBool},
		{Name: "lat", Kind: KindFloat},
		{Name: "lng", Kind: KindFloat},
		{Name: "image", Kind: KindString},
	})
}

// FromExample derives a schema from an example record: its keys and the
// kind of each key's value. Only the value types matter, never the
// content.
func FromExample(example map[string]interface{}) Schema {
	fields := make([]Field, 0, len(example))
	for name, value := range example {
		kind, ok := kindOf(value)
		if !ok {
			kind = KindString
		}
		fields = append(fields, Field{Name: name, Kind: kind})
	}
	return New(fields)
}

// LoadReference reads a schema reference file: either a list whose first
// element is the example record, or a bare record mapping.
func LoadReference(path string) (Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Schema{}, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}

	var decoded interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return Schema{}, fmt.Errorf("failed to parse schema file %s: %w", path, err)
	}

	switch v := decoded.(type) {
	case []interface{}:
		if len(v) == 0 {
			return Schema{}, fmt.Errorf("schema file %s is an empty list", path)
		}
		example, ok := v[0].(map[string]interface{})
		if !ok {
			return Schema{}, fmt.Errorf("schema file %s: first element is not a record", path)
		}
		return FromExample(example), nil
	case map[string]interface{}:
		return FromExample(v), nil
	default:
		return Schema{}, fmt.Errorf("schema file %s holds %T, not a record or list", path, decoded)
	}
}

// kindOf classifies a decoded value. ok is false for nil and unsupported
// types.
func kindOf(v interface{}) (Kind, bool) {
	switch v.(type) {
	case string:
		return KindString, true
	case bool:
		return KindBool, true
	case int:
		return KindInt, true
	case float64:
		return KindFloat, true
	case []interface{}, []string:
		return KindList, true
	case map[string]interface{}, map[string]string:
		return KindMap, true
	}
	return KindString, false
}

// zeroValue returns the empty value of a kind, in JSON-decoded shape.
func zeroValue(k Kind) interface{} {
	switch k {
	case KindString:
		return ""
	case KindInt:
		return 0
	case KindFloat:
		return 0.0
	case KindBool:
		return false
	case KindList:
		return []interface{}{}
	case KindMap:
		return map[string]interface{}{}
	}
	return nil
}
