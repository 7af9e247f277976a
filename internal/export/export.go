// Package export writes flat, spreadsheet-friendly views of place data:
// a plain JSON list, a flattened CSV of raw provider records, and a CSV of
// canonical shops.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/aargau-farmshops/internal/grouper"
	"github.com/aargau-farmshops/internal/record"
)

// addressColumns are the address component types lifted into their own CSV
// columns when flattening raw provider records.
var addressColumns = []string{"locality", "administrative_area_level_1", "postal_code", "country"}

// rawColumns is the fixed column layout of the flattened raw CSV.
var rawColumns = []string{
	"name", "formatted_address", "latitude", "longitude", "opening_hours",
	"locality", "administrative_area_level_1", "postal_code", "country",
	"place_id", "website", "formatted_phone_number",
}

// WriteJSONList writes records as a plain JSON list, indented, with
// non-ASCII kept literal.
func WriteJSONList(records []record.RawRecord, path string) error {
	return grouper.WriteJSON(path, records)
}

// WriteRawCSV flattens raw provider records into a tabular CSV: nested
// coordinates become latitude/longitude columns, weekday text is joined
// with "; ", and selected address component types get their own columns.
func WriteRawCSV(records []record.RawRecord, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(rawColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, r := range records {
		extractor := record.NewExtractor(r)
		lat, lng := extractor.Position()

		row := []string{
			r.Name(),
			extractor.Address(),
			formatFloat(lat),
			formatFloat(lng),
			joinedWeekdayText(r),
		}
		for _, level := range addressColumns {
			row = append(row, addressComponent(r, level))
		}
		row = append(row,
			r.GetString("place_id"),
			r.GetString("website"),
			r.GetString("formatted_phone_number"),
		)

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}

// shopColumns is the fixed column layout of the canonical shop CSV.
var shopColumns = []string{
	"id", "name", "description", "address", "canton", "phone", "email",
	"website", "opening_hours", "products", "organic", "lat", "lng", "image",
}

// WriteShopsCSV writes canonical shops as CSV, products joined with "; ".
func WriteShopsCSV(shops []record.Shop, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(shopColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, s := range shops {
		row := []string{
			strconv.Itoa(s.ID),
			s.Name,
			s.Description,
			s.Address,
			s.Canton,
			s.Phone,
			s.Email,
			s.Website,
			s.OpeningHours,
			strings.Join(s.Products, "; "),
			strconv.FormatBool(s.Organic),
			formatFloat(s.Lat),
			formatFloat(s.Lng),
			s.Image,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// joinedWeekdayText flattens opening_hours.weekday_text into one cell.
func joinedWeekdayText(r record.RawRecord) string {
	openingHours, ok := r["opening_hours"].(map[string]interface{})
	if !ok {
		return ""
	}
	list, ok := openingHours["weekday_text"].([]interface{})
	if !ok {
		return ""
	}

	var lines []string
	for _, item := range list {
		if s, ok := item.(string); ok {
			lines = append(lines, s)
		}
	}
	return strings.Join(lines, "; ")
}

// addressComponent returns the long_name of the first component matching
// the given type, or "".
func addressComponent(r record.RawRecord, level string) string {
	components, ok := r["address_components"].([]interface{})
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
				name, _ := component["long_name"].(string)
				return name
			}
		}
	}
	return ""
}
