package grouper

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func shop(name, canton string) map[string]interface{} {
	return map[string]interface{}{"name": name, "canton": canton}
}

func TestCantonKey(t *testing.T) {
	tests := []struct {
		canton string
		want   string
	}{
		{"Aargau", "aargau"},
		{"Basel-Landschaft", "basel_landschaft"},
		{"St. Gallen", "st._gallen"},
		{"GRAUBÜNDEN", "graubünden"},
	}

	for _, tt := range tests {
		t.Run(tt.canton, func(t *testing.T) {
			if got := CantonKey(tt.canton); got != tt.want {
				t.Errorf("CantonKey(%q) = %q, want %q", tt.canton, got, tt.want)
			}
		})
	}
}

func TestPartition(t *testing.T) {
	records := []map[string]interface{}{
		shop("1", "Aargau"), shop("2", "Bern"), shop("3", "Aargau"),
		shop("4", "Zürich"), shop("5", "Bern"), shop("6", "Aargau"),
		shop("7", "Zürich"), shop("8", "Aargau"), shop("9", "Bern"),
		shop("10", "Zürich"),
	}

	groups := Partition(records)
	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}

	total := 0
	for _, g := range groups {
		total += len(g.Records)
	}
	if total != 10 {
		t.Errorf("group sizes sum to %d, want 10", total)
	}

	// Group order follows first appearance; record order is preserved.
	if groups[0].Canton != "aargau" || groups[1].Canton != "bern" || groups[2].Canton != "zürich" {
		t.Errorf("group order = %s, %s, %s", groups[0].Canton, groups[1].Canton, groups[2].Canton)
	}
	wantFirst := []string{"1", "3", "6", "8"}
	for i, r := range groups[0].Records {
		if r["name"] != wantFirst[i] {
			t.Errorf("aargau records out of order: got %v at %d, want %v", r["name"], i, wantFirst[i])
		}
	}

	// Every record stays in its own canton bucket; nothing is forced into
	// the first-created group.
	for _, g := range groups {
		for _, r := range g.Records {
			if CantonKey(r["canton"].(string)) != g.Canton {
				t.Errorf("record %v landed in group %s", r["name"], g.Canton)
			}
		}
	}
}

func TestPartitionEmptyInput(t *testing.T) {
	groups := Partition(nil)
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1 fallback group", len(groups))
	}
	if groups[0].Canton != "aargau" || len(groups[0].Records) != 0 {
		t.Errorf("fallback group = %s with %d records", groups[0].Canton, len(groups[0].Records))
	}
}

func TestFileName(t *testing.T) {
	if got := FileName("farmshops", "aargau", "1.0"); got != "farmshops_aargau_v1_0.json" {
		t.Errorf("FileName() = %q", got)
	}
	if got := FileName("farmshops", "bern", ""); got != "farmshops_bern.json" {
		t.Errorf("FileName() without version = %q", got)
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	records := []map[string]interface{}{
		shop("Bio Hof Müller", "Aargau"),
		shop("Hofladen Meier", "Bern"),
	}

	results := Write(records, Options{
		OutputDir:     dir,
		CollectionKey: "farmshops",
		FilePrefix:    "farmshops",
		SchemaVersion: "1.0",
		IncludeMeta:   true,
		Sources:       []string{"data/raw.json"},
	})

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	for _, res := range results {
		if res.Err != nil {
			t.Fatalf("write %s: %v", res.Canton, res.Err)
		}

		data, err := os.ReadFile(res.Path)
		if err != nil {
			t.Fatalf("read %s: %v", res.Path, err)
		}

		var payload map[string]interface{}
		if err := json.Unmarshal(data, &payload); err != nil {
			t.Fatalf("parse %s: %v", res.Path, err)
		}

		list, ok := payload["farmshops"].([]interface{})
		if !ok || len(list) != 1 {
			t.Errorf("%s: farmshops = %#v, want list of 1", res.Path, payload["farmshops"])
		}
		if payload["count"] != 1.0 {
			t.Errorf("%s: count = %v, want 1", res.Path, payload["count"])
		}
		if payload["schema_version"] != "1.0" {
			t.Errorf("%s: schema_version = %v", res.Path, payload["schema_version"])
		}
		if payload["generated_at"] == nil {
			t.Errorf("%s: generated_at missing", res.Path)
		}
	}

	// Non-ASCII names must be written literally, not escaped.
	data, err := os.ReadFile(filepath.Join(dir, "farmshops_aargau_v1_0.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Bio Hof Müller") {
		t.Error("output escaped non-ASCII characters")
	}
}

func TestWriteFailureIsIsolated(t *testing.T) {
	dir := t.TempDir()

	// Occupy the aargau output path with a directory so that group fails.
	blocked := filepath.Join(dir, "farmshops_aargau_v1_0.json")
	if err := os.Mkdir(blocked, 0755); err != nil {
		t.Fatal(err)
	}

	records := []map[string]interface{}{
		shop("A", "Aargau"),
		shop("B", "Bern"),
	}
	results := Write(records, Options{
		OutputDir:     dir,
		CollectionKey: "farmshops",
		FilePrefix:    "farmshops",
		SchemaVersion: "1.0",
	})

	var failed, succeeded int
	for _, res := range results {
		if res.Err != nil {
			failed++
		} else {
			succeeded++
		}
	}
	if failed != 1 || succeeded != 1 {
		t.Errorf("failed = %d, succeeded = %d, want 1 and 1", failed, succeeded)
	}
	if _, err := os.Stat(filepath.Join(dir, "farmshops_bern_v1_0.json")); err != nil {
		t.Errorf("bern group not written after aargau failure: %v", err)
	}
}
