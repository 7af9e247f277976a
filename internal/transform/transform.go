// Package transform converts one raw place record into the canonical shop
// schema, composing field extraction, heuristic enrichment and
// opening-hours formatting.
package transform

import (
	"fmt"

	"github.com/aargau-farmshops/internal/enrich"
	"github.com/aargau-farmshops/internal/hours"
	"github.com/aargau-farmshops/internal/record"
)

// MalformedRecordError reports a raw input that was not a structured
// record. This is the only hard rejection in the transform stage; every
// other missing-field case degrades to defaults.
type MalformedRecordError struct {
	Value string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("record is a bare value, not a structured record: %q", e.Value)
}

// Transformer assigns sequential identifiers while converting records. Not
// safe for concurrent use; the pipeline is single-threaded.
type Transformer struct {
	nextID int
}

// New returns a Transformer whose first accepted record gets id 1.
func New() *Transformer {
	return &Transformer{nextID: 1}
}

// Shop converts one raw input into a canonical Shop, consuming the next
// sequential id on success.
func (t *Transformer) Shop(raw interface{}) (record.Shop, error) {
	r, err := asRecord(raw)
	if err != nil {
		return record.Shop{}, err
	}

	shop := buildShop(r, t.nextID)
	t.nextID++
	return shop, nil
}

// Flat converts one raw input into the batch-export record variant. Flat
// records carry no id, so no sequence number is consumed.
func (t *Transformer) Flat(raw interface{}) (record.FlatShop, error) {
	r, err := asRecord(raw)
	if err != nil {
		return record.FlatShop{}, err
	}
	return buildFlat(r), nil
}

// asRecord rejects bare values; everything mapping-shaped is accepted.
func asRecord(raw interface{}) (record.RawRecord, error) {
	switch v := raw.(type) {
	case record.RawRecord:
		return v, nil
	case map[string]interface{}:
		return record.RawRecord(v), nil
	case string:
		return nil, &MalformedRecordError{Value: v}
	default:
		return nil, &MalformedRecordError{Value: fmt.Sprintf("%v", v)}
	}
}

func buildShop(r record.RawRecord, id int) record.Shop {
	extractor := record.NewExtractor(r)
	lat, lng := extractor.Position()
	canton := extractor.Canton()
	contact := extractor.Contact()
	name := r.Name()

	organic, _ := r.OrganicFlag()
	if record.DetectShape(r) == record.ShapeProvider {
		// Keyword inference applies to provider output only; cleaned
		// records already carry an authoritative flag.
		organic = organic || enrich.LooksOrganic(name)
	}

	products := enrich.Products(name, r.Products())

	description := r.GetString("description")
	if description == "" {
		description = enrich.Description(name, canton, organic, products)
	}

	image := r.GetString("image")
	if image == "" {
		image = enrich.ImageFilename(name)
	}

	return record.Shop{
		ID:           id,
		Name:         name,
		Description:  description,
		Address:      extractor.Address(),
		Canton:       canton,
		Phone:        contact.Phone,
		Email:        contact.Email,
		Website:      contact.Website,
		OpeningHours: hours.Format(extractor.Hours()),
		Products:     products,
		Organic:      organic,
		Lat:          lat,
		Lng:          lng,
		Image:        image,
	}
}

func buildFlat(r record.RawRecord) record.FlatShop {
	extractor := record.NewExtractor(r)
	lat, lng := extractor.Position()
	organic, _ := r.OrganicFlag()

	products := r.Products()
	if products == nil {
		products = []string{}
	}
	payment := r.GetStringList("payment_methods")
	if payment == nil {
		payment = []string{}
	}

	return record.FlatShop{
		Name:             r.Name(),
		Address:          extractor.Address(),
		Latitude:         lat,
		Longitude:        lng,
		Products:         products,
		OrganicCertified: organic,
		PaymentMethods:   payment,
		OpeningHours:     extractor.Hours(),
		Website:          r.GetString("website"),
		GoogleMapsURL:    mapsURL(r),
	}
}

// mapsURL returns the record's explicit maps URL, or derives one from the
// place id when possible.
func mapsURL(r record.RawRecord) string {
	if url := r.GetString("url"); url != "" {
		return url
	}
	if url := r.GetString("google_maps_url"); url != "" {
		return url
	}
	if id := r.GetString("place_id"); id != "" && id != "unknown" {
		return "https://maps.google.com/?cid=" + id
	}
	return ""
}
