package etl

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/aargau-farmshops/internal/hours"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestPipelineRun(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()

	rawSource := filepath.Join(inputDir, "raw.json")
	writeFile(t, rawSource, `[
		{
			"name": "Bio Hof Müller",
			"place_id": "p1",
			"geometry": {"location": {"lat": 47.39, "lng": 8.04}},
			"formatted_address": "Dorfstrasse 12, 5000 Aarau",
			"address_components": [
				{"long_name": "Aargau", "types": ["administrative_area_level_1", "political"]}
			]
		},
		{"name": "Hofladen Meier", "latitude": 46.95, "longitude": 7.45, "canton": "Bern"}
	]`)
	cleanedSource := filepath.Join(inputDir, "cleaned.json")
	writeFile(t, cleanedSource, `{"farmshops": [
		{"name": "Bio Hof Müller", "latitude": 0, "longitude": 0, "canton": "Zürich"},
		{"name": "Weingut am See", "latitude": 47.17, "longitude": 8.10, "canton": "Aargau"}
	]}`)

	pipeline := NewPipeline(Options{
		Sources:       []string{rawSource, cleanedSource},
		OutputDir:     outputDir,
		CollectionKey: "farmshops",
		FilePrefix:    "farmshops",
		SchemaVersion: "1.0",
		IncludeMeta:   true,
	})

	summary, err := pipeline.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// Duplicate "Bio Hof Müller" collapses to its first (provider) form.
	if summary.Ingested != 3 {
		t.Errorf("Ingested = %d, want 3", summary.Ingested)
	}
	if summary.Transformed != 3 || summary.Skipped != 0 {
		t.Errorf("Transformed/Skipped = %d/%d, want 3/0", summary.Transformed, summary.Skipped)
	}
	if len(summary.Groups) != 2 {
		t.Fatalf("got %d groups, want 2 (aargau, bern)", len(summary.Groups))
	}

	data, err := os.ReadFile(filepath.Join(outputDir, "farmshops_aargau_v1_0.json"))
	if err != nil {
		t.Fatalf("aargau output missing: %v", err)
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatal(err)
	}

	shops, ok := payload["farmshops"].([]interface{})
	if !ok || len(shops) != 2 {
		t.Fatalf("aargau farmshops = %#v, want 2 records", payload["farmshops"])
	}

	first := shops[0].(map[string]interface{})
	if first["id"] != 1.0 {
		t.Errorf("first id = %v, want 1", first["id"])
	}
	if first["name"] != "Bio Hof Müller" {
		t.Errorf("first name = %v", first["name"])
	}
	if first["organic"] != true {
		t.Errorf("organic = %v, want true", first["organic"])
	}
	if first["opening_hours"] != hours.Fallback {
		t.Errorf("opening_hours = %v, want fallback", first["opening_hours"])
	}
	if payload["canton"] != "aargau" {
		t.Errorf("metadata canton = %v", payload["canton"])
	}
}

func TestPipelineFailsWithoutRecords(t *testing.T) {
	inputDir := t.TempDir()
	broken := filepath.Join(inputDir, "broken.json")
	writeFile(t, broken, `not json at all`)

	pipeline := NewPipeline(Options{
		Sources:       []string{broken},
		OutputDir:     t.TempDir(),
		CollectionKey: "farmshops",
		FilePrefix:    "farmshops",
	})
	if _, err := pipeline.Run(); err == nil {
		t.Error("Run() error = nil, want failure when nothing was ingested")
	}
}

func TestRunBatch(t *testing.T) {
	inputDir := t.TempDir()
	writeFile(t, filepath.Join(inputDir, "raw.json"), `[
		{
			"name": "Bio Hof Müller",
			"place_id": "p1",
			"geometry": {"location": {"lat": 47.39, "lng": 8.04}},
			"formatted_address": "Dorfstrasse 12, 5000 Aarau"
		}
	]`)

	schemaFile := filepath.Join(inputDir, "sample_schema.json")
	writeFile(t, schemaFile, `[{
		"name": "", "address": "", "latitude": 0.0, "longitude": 0.0,
		"products": [], "organic_certified": false, "payment_methods": [],
		"opening_hours": {}, "website": "", "google_maps_url": ""
	}]`)

	outputFile := filepath.Join(inputDir, "farmshops_validated.json")
	if err := RunBatch(inputDir, schemaFile, outputFile, "farmshops"); err != nil {
		t.Fatalf("RunBatch() error = %v", err)
	}

	data, err := os.ReadFile(outputFile)
	if err != nil {
		t.Fatal(err)
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatal(err)
	}
	records, ok := payload["farmshops"].([]interface{})
	if !ok || len(records) != 1 {
		t.Fatalf("farmshops = %#v, want 1 record", payload["farmshops"])
	}
	flat := records[0].(map[string]interface{})
	if flat["google_maps_url"] != "https://maps.google.com/?cid=p1" {
		t.Errorf("google_maps_url = %v", flat["google_maps_url"])
	}
	if _, hasID := flat["id"]; hasID {
		t.Error("flat export variant must not carry an id")
	}
}

func TestRunBatchRejectsSchemaMismatch(t *testing.T) {
	inputDir := t.TempDir()
	writeFile(t, filepath.Join(inputDir, "raw.json"), `[{"name": "A"}]`)

	// Reference demands a key the flat variant never produces.
	schemaFile := filepath.Join(inputDir, "sample_schema.json")
	writeFile(t, schemaFile, `[{"name": "", "rating": 0.0}]`)

	outputFile := filepath.Join(inputDir, "farmshops_validated.json")
	if err := RunBatch(inputDir, schemaFile, outputFile, "farmshops"); err == nil {
		t.Fatal("RunBatch() error = nil, want validation failure")
	}
	if _, err := os.Stat(outputFile); !os.IsNotExist(err) {
		t.Error("output written despite validation failure")
	}
}
