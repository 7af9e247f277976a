package record

import (
	"testing"
)

func TestDetectShape(t *testing.T) {
	tests := []struct {
		name string
		raw  RawRecord
		want Shape
	}{
		{"flat latitude key", RawRecord{"latitude": 47.1}, ShapeNormalized},
		{"flat lat key", RawRecord{"lat": 47.1}, ShapeNormalized},
		{"string latitude from CSV", RawRecord{"latitude": "47.1"}, ShapeNormalized},
		{"nested geometry", RawRecord{"geometry": map[string]interface{}{}}, ShapeProvider},
		{"empty record", RawRecord{}, ShapeProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectShape(tt.raw); got != tt.want {
				t.Errorf("DetectShape() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProviderPositionDefaultsIndependently(t *testing.T) {
	raw := RawRecord{
		"geometry": map[string]interface{}{
			"location": map[string]interface{}{"lat": "not numeric", "lng": 8.04},
		},
	}

	lat, lng := NewExtractor(raw).Position()
	if lat != 0 {
		t.Errorf("lat = %v, want 0 on unparseable value", lat)
	}
	if lng != 8.04 {
		t.Errorf("lng = %v, want 8.04", lng)
	}
}

func TestProviderCanton(t *testing.T) {
	tests := []struct {
		name string
		raw  RawRecord
		want string
	}{
		{
			name: "level one component",
			raw: RawRecord{
				"address_components": []interface{}{
					map[string]interface{}{"long_name": "Aarau", "types": []interface{}{"locality"}},
					map[string]interface{}{"long_name": "Zürich", "types": []interface{}{"administrative_area_level_1"}},
				},
			},
			want: "Zürich",
		},
		{
			name: "missing component defaults",
			raw:  RawRecord{"address_components": []interface{}{}},
			want: DefaultCanton,
		},
		{
			name: "no components at all defaults",
			raw:  RawRecord{},
			want: DefaultCanton,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewExtractor(tt.raw).Canton(); got != tt.want {
				t.Errorf("Canton() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizedPositionPreference(t *testing.T) {
	tests := []struct {
		name    string
		raw     RawRecord
		wantLat float64
		wantLng float64
	}{
		{
			name:    "latitude preferred over lat",
			raw:     RawRecord{"latitude": 47.5, "lat": 1.0, "longitude": 8.5},
			wantLat: 47.5,
			wantLng: 8.5,
		},
		{
			name:    "lat used when latitude absent",
			raw:     RawRecord{"lat": 47.5, "lng": 8.5},
			wantLat: 47.5,
			wantLng: 8.5,
		},
		{
			name:    "string values parsed",
			raw:     RawRecord{"latitude": "47.5", "longitude": "8.5"},
			wantLat: 47.5,
			wantLng: 8.5,
		},
		{
			name:    "garbage defaults to zero",
			raw:     RawRecord{"latitude": "n/a", "longitude": true},
			wantLat: 0,
			wantLng: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, lng := NewExtractor(tt.raw).Position()
			if lat != tt.wantLat || lng != tt.wantLng {
				t.Errorf("Position() = (%v, %v), want (%v, %v)", lat, lng, tt.wantLat, tt.wantLng)
			}
		})
	}
}

func TestOrganicFlagPreference(t *testing.T) {
	tests := []struct {
		name        string
		raw         RawRecord
		wantValue   bool
		wantPresent bool
	}{
		{"organic_certified wins", RawRecord{"organic_certified": false, "organic": true}, false, true},
		{"organic alone", RawRecord{"organic": true}, true, true},
		{"csv string flag", RawRecord{"organic_certified": "true"}, true, true},
		{"neither present", RawRecord{}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, present := tt.raw.OrganicFlag()
			if value != tt.wantValue || present != tt.wantPresent {
				t.Errorf("OrganicFlag() = (%v, %v), want (%v, %v)", value, present, tt.wantValue, tt.wantPresent)
			}
		})
	}
}

func TestProviderContactHasNoEmail(t *testing.T) {
	raw := RawRecord{
		"formatted_phone_number": "062 111 22 33",
		"email":                  "ignored@example.ch",
		"website":                "https://example.ch",
	}

	contact := NewExtractor(raw).Contact()
	if contact.Phone != "062 111 22 33" {
		t.Errorf("Phone = %q", contact.Phone)
	}
	if contact.Email != "" {
		t.Errorf("Email = %q, want empty for provider records", contact.Email)
	}
	if contact.Website != "https://example.ch" {
		t.Errorf("Website = %q", contact.Website)
	}
}
