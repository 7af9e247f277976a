package record

import (
	"strings"

	"github.com/aargau-farmshops/internal/hours"
)

// DefaultCanton is substituted when a record carries no canton information.
const DefaultCanton = "Aargau"

// Contact groups the contact fields extracted from a record.
type Contact struct {
	Phone   string
	Email   string
	Website string
}

// FieldExtractor reads the position, address, opening-hours and contact
// fields out of one raw record layout. Implementations never fail: missing
// or malformed data degrades to zero values and fixed defaults.
type FieldExtractor interface {
	// Position returns the coordinates, each defaulting to 0.0
	// independently when missing or unparseable.
	Position() (lat, lng float64)
	// Address returns the display address, empty when absent.
	Address() string
	// Canton returns the canton name, DefaultCanton when absent.
	Canton() string
	// Hours returns the day-abbreviation to hours-text mapping.
	Hours() map[string]string
	// Contact returns phone, email and website.
	Contact() Contact
}

// NewExtractor returns the extractor matching the record's detected shape.
func NewExtractor(r RawRecord) FieldExtractor {
	if DetectShape(r) == ShapeNormalized {
		return &NormalizedRecord{raw: r}
	}
	return &ProviderRecord{raw: r}
}

// ProviderRecord extracts fields from the nested provider layout.
type ProviderRecord struct {
	raw RawRecord
}

// Position reads geometry.location.{lat,lng}.
func (p *ProviderRecord) Position() (float64, float64) {
	location := getMap(getMap(p.raw, "geometry"), "location")
	lat, _ := toFloat(location["lat"])
	lng, _ := toFloat(location["lng"])
	return lat, lng
}

// Address reads formatted_address.
func (p *ProviderRecord) Address() string {
	return p.raw.GetString("formatted_address")
}

// Canton reads the long_name of the administrative_area_level_1 address
// component, falling back to DefaultCanton.
func (p *ProviderRecord) Canton() string {
	if name := p.addressComponent("administrative_area_level_1"); name != "" {
		return name
	}
	return DefaultCanton
}

// Hours parses opening_hours.weekday_text into the canonical day mapping.
func (p *ProviderRecord) Hours() map[string]string {
	openingHours := getMap(p.raw, "opening_hours")
	var lines []string
	if list, ok := openingHours["weekday_text"].([]interface{}); ok {
		for _, item := range list {
			if s, ok := item.(string); ok {
				lines = append(lines, s)
			}
		}
	}
	return hours.ParseWeekdayText(lines)
}

// Contact reads formatted_phone_number and website. The provider never
// carries an email address.
func (p *ProviderRecord) Contact() Contact {
	return Contact{
		Phone:   p.raw.GetString("formatted_phone_number"),
		Email:   "",
		Website: p.raw.GetString("website"),
	}
}

// addressComponent returns the long_name of the first address component
// whose types include the given level.
func (p *ProviderRecord) addressComponent(level string) string {
	components, ok := p.raw["address_components"].([]interface{})
	if !ok {
		return ""
	}

	for _, item := range components {
		component, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		types, ok := component["types"].([]interface{})
		if !ok {
			continue
		}
		for _, t := range types {
			if s, ok := t.(string); ok && s == level {
				if name, ok := component["long_name"].(string); ok {
					return name
				}
				return ""
			}
		}
	}
	return ""
}

// NormalizedRecord extracts fields from the flat, previously-cleaned layout.
type NormalizedRecord struct {
	raw RawRecord
}

// Position reads latitude/lat and longitude/lng, in that preference order.
func (n *NormalizedRecord) Position() (float64, float64) {
	lat := n.firstFloat("latitude", "lat")
	lng := n.firstFloat("longitude", "lng")
	return lat, lng
}

// Address reads the flat address field.
func (n *NormalizedRecord) Address() string {
	return n.raw.GetString("address")
}

// Canton reads the flat canton field, falling back to DefaultCanton.
func (n *NormalizedRecord) Canton() string {
	if canton := strings.TrimSpace(n.raw.GetString("canton")); canton != "" {
		return canton
	}
	return DefaultCanton
}

// Hours returns the already-normalized day mapping when present.
func (n *NormalizedRecord) Hours() map[string]string {
	switch v := n.raw["opening_hours"].(type) {
	case map[string]interface{}:
		byDay := make(map[string]string, len(v))
		for day, text := range v {
			if s, ok := text.(string); ok {
				byDay[day] = s
			}
		}
		return byDay
	case map[string]string:
		byDay := make(map[string]string, len(v))
		for day, text := range v {
			byDay[day] = text
		}
		return byDay
	}
	return map[string]string{}
}

// Contact passes phone, email and website through.
func (n *NormalizedRecord) Contact() Contact {
	return Contact{
		Phone:   n.raw.GetString("phone"),
		Email:   n.raw.GetString("email"),
		Website: n.raw.GetString("website"),
	}
}

// firstFloat returns the first key holding a parseable number, 0.0 otherwise.
func (n *NormalizedRecord) firstFloat(keys ...string) float64 {
	for _, key := range keys {
		if v, ok := n.raw[key]; ok {
			if f, ok := toFloat(v); ok {
				return f
			}
			// The preferred key exists but is garbage; the policy is
			// default-to-zero, not fall through to the alternate spelling.
			return 0
		}
	}
	return 0
}
