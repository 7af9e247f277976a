package record

// Shop is the canonical, application-facing record produced by the
// pipeline. Field order matches the published schema.
type Shop struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Address      string   `json:"address"`
	Canton       string   `json:"canton"`
	Phone        string   `json:"phone"`
	Email        string   `json:"email"`
	Website      string   `json:"website"`
	OpeningHours string   `json:"opening_hours"`
	Products     []string `json:"products"`
	Organic      bool     `json:"organic"`
	Lat          float64  `json:"lat"`
	Lng          float64  `json:"lng"`
	Image        string   `json:"image"`
}

// AsMap returns the shop as a generic mapping for schema reconciliation and
// grouped output. Products are widened to []interface{} so the value shapes
// match JSON-decoded reference examples.
func (s Shop) AsMap() map[string]interface{} {
	return map[string]interface{}{
		"id":            s.ID,
		"name":          s.Name,
		"description":   s.Description,
		"address":       s.Address,
		"canton":        s.Canton,
		"phone":         s.Phone,
		"email":         s.Email,
		"website":       s.Website,
		"opening_hours": s.OpeningHours,
		"products":      widenStrings(s.Products),
		"organic":       s.Organic,
		"lat":           s.Lat,
		"lng":           s.Lng,
		"image":         s.Image,
	}
}

// FlatShop is the batch-export record variant. It keeps opening hours as a
// day mapping and carries the maps URL instead of id/image, matching the
// validated flat-file schema consumed by spreadsheet tooling.
type FlatShop struct {
	Name             string            `json:"name"`
	Address          string            `json:"address"`
	Latitude         float64           `json:"latitude"`
	Longitude        float64           `json:"longitude"`
	Products         []string          `json:"products"`
	OrganicCertified bool              `json:"organic_certified"`
	PaymentMethods   []string          `json:"payment_methods"`
	OpeningHours     map[string]string `json:"opening_hours"`
	Website          string            `json:"website"`
	GoogleMapsURL    string            `json:"google_maps_url"`
}

// AsMap returns the flat record as a generic mapping for strict schema
// validation against a JSON-decoded reference example.
func (f FlatShop) AsMap() map[string]interface{} {
	byDay := make(map[string]interface{}, len(f.OpeningHours))
	for day, text := range f.OpeningHours {
		byDay[day] = text
	}

	return map[string]interface{}{
		"name":              f.Name,
		"address":           f.Address,
		"latitude":          f.Latitude,
		"longitude":         f.Longitude,
		"products":          widenStrings(f.Products),
		"organic_certified": f.OrganicCertified,
		"payment_methods":   widenStrings(f.PaymentMethods),
		"opening_hours":     byDay,
		"website":           f.Website,
		"google_maps_url":   f.GoogleMapsURL,
	}
}

// widenStrings converts a string slice to the []interface{} form produced
// by a JSON decode. A nil slice becomes an empty list, never null.
func widenStrings(values []string) []interface{} {
	out := make([]interface{}, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}
