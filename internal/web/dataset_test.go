package web

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeDataset(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	aargau := `{"farmshops": [
		{"id": 1, "name": "Bio Hof Müller", "canton": "Aargau", "organic": true,
		 "products": ["vegetables"], "lat": 47.39, "lng": 8.04, "address": "Aarau"},
		{"id": 3, "name": "Weingut am See", "canton": "Aargau", "organic": false,
		 "products": ["wines"], "lat": 47.17, "lng": 8.10, "address": "Meisterschwanden"}
	], "count": 2}`
	bern := `{"farmshops": [
		{"id": 2, "name": "Hofladen Meier", "canton": "Bern", "organic": false,
		 "products": ["eggs", "honey"], "lat": 0, "lng": 0, "address": "Lenzburgstrasse"}
	], "count": 1}`

	if err := os.WriteFile(filepath.Join(dir, "farmshops_aargau_v1_0.json"), []byte(aargau), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "farmshops_bern_v1_0.json"), []byte(bern), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoadDataset(t *testing.T) {
	dataset, err := LoadDataset(writeDataset(t), "farmshops")
	if err != nil {
		t.Fatalf("LoadDataset() error = %v", err)
	}

	if dataset.Len() != 3 {
		t.Errorf("Len() = %d, want 3", dataset.Len())
	}
	if shop, ok := dataset.ByID(2); !ok || shop.Name != "Hofladen Meier" {
		t.Errorf("ByID(2) = %v, %v", shop, ok)
	}

	counts := dataset.CantonCounts()
	if len(counts) != 2 || counts[0].Canton != "Aargau" || counts[0].Count != 2 {
		t.Errorf("CantonCounts() = %v", counts)
	}
}

func TestDatasetSelect(t *testing.T) {
	dataset, err := LoadDataset(writeDataset(t), "farmshops")
	if err != nil {
		t.Fatal(err)
	}

	organic := true
	tests := []struct {
		name    string
		filter  Filter
		wantIDs []int
	}{
		{"no filter returns all in id order", Filter{}, []int{1, 2, 3}},
		{"canton filter case-insensitive", Filter{Canton: "aargau"}, []int{1, 3}},
		{"organic filter", Filter{Organic: &organic}, []int{1}},
		{"product filter", Filter{Product: "honey"}, []int{2}},
		{"text query over name", Filter{Query: "weingut"}, []int{3}},
		{"text query over address", Filter{Query: "lenzburg"}, []int{2}},
		{"limit", Filter{Limit: 2}, []int{1, 2}},
		{"combined filters", Filter{Canton: "Aargau", Query: "bio"}, []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shops := dataset.Select(tt.filter)
			if len(shops) != len(tt.wantIDs) {
				t.Fatalf("Select() returned %d shops, want %d", len(shops), len(tt.wantIDs))
			}
			for i, shop := range shops {
				if shop.ID != tt.wantIDs[i] {
					t.Errorf("Select() ids mismatch at %d: got %d, want %d", i, shop.ID, tt.wantIDs[i])
				}
			}
		})
	}
}

func TestGeoJSONOmitsZeroCoordinates(t *testing.T) {
	dataset, err := LoadDataset(writeDataset(t), "farmshops")
	if err != nil {
		t.Fatal(err)
	}

	handler := &ShopsHandler{Dataset: dataset}
	req := httptest.NewRequest(http.MethodGet, "/api/farmshops/geojson", nil)
	rec := httptest.NewRecorder()
	handler.GetGeoJSON(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Bio Hof Müller") || strings.Contains(body, "Hofladen Meier") {
		t.Errorf("geojson body = %s", body)
	}
}
