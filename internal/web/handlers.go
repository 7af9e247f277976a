package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/aargau-farmshops/internal/record"
)

// ShopsHandler serves the read-only shop endpoints.
type ShopsHandler struct {
	Dataset *Dataset
}

// ListShops returns shops filtered by canton, organic, product and free
// text query parameters.
func (h *ShopsHandler) ListShops(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := Filter{
		Canton:  query.Get("canton"),
		Product: query.Get("product"),
		Query:   query.Get("q"),
		Limit:   parseIntParam(query.Get("limit"), 0),
	}
	if v := query.Get("organic"); v != "" {
		organic, err := strconv.ParseBool(v)
		if err != nil {
			http.Error(w, "invalid organic parameter", http.StatusBadRequest)
			return
		}
		filter.Organic = &organic
	}

	shops := h.Dataset.Select(filter)
	if shops == nil {
		shops = []record.Shop{}
	}
	writeJSON(w, map[string]interface{}{
		"farmshops": shops,
		"count":     len(shops),
	})
}

// GetShop returns one shop by id.
func (h *ShopsHandler) GetShop(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	shop, ok := h.Dataset.ByID(id)
	if !ok {
		http.Error(w, "shop not found", http.StatusNotFound)
		return
	}
	writeJSON(w, shop)
}

// ListCantons returns the cantons with their shop counts.
func (h *ShopsHandler) ListCantons(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"cantons": h.Dataset.CantonCounts(),
	})
}

// geoJSONFeature is one point feature for map display.
type geoJSONFeature struct {
	Type       string                 `json:"type"`
	Geometry   geoJSONGeometry        `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

type geoJSONGeometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"` // lng, lat
}

// GetGeoJSON returns the filtered shops as a GeoJSON FeatureCollection.
// Shops without coordinates are omitted.
func (h *ShopsHandler) GetGeoJSON(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := Filter{
		Canton:  query.Get("canton"),
		Product: query.Get("product"),
		Query:   query.Get("q"),
	}

	features := []geoJSONFeature{}
	for _, shop := range h.Dataset.Select(filter) {
		if shop.Lat == 0 && shop.Lng == 0 {
			continue
		}
		features = append(features, geoJSONFeature{
			Type: "Feature",
			Geometry: geoJSONGeometry{
				Type:        "Point",
				Coordinates: [2]float64{shop.Lng, shop.Lat},
			},
			Properties: map[string]interface{}{
				"id":      shop.ID,
				"name":    shop.Name,
				"canton":  shop.Canton,
				"organic": shop.Organic,
				"image":   shop.Image,
			},
		})
	}

	writeJSON(w, map[string]interface{}{
		"type":     "FeatureCollection",
		"features": features,
	})
}

// writeJSON writes an API response with non-ASCII kept literal.
func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.Encode(payload)
}

// parseIntParam parses an integer query parameter with a default.
func parseIntParam(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	return defaultValue
}
