// Package ingest reads raw place records from JSON and CSV sources,
// flattens the accepted container shapes and deduplicates by name. A
// malformed source yields zero records and is logged; it never aborts the
// run. The run fails only when no record survives all sources.
package ingest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aargau-farmshops/internal/record"
)

// Loader reads raw records from files. collectionKey names the wrapper key
// under which previously-written output files carry their record list.
type Loader struct {
	collectionKey string
}

// NewLoader creates a loader that unwraps mappings keyed by collectionKey.
func NewLoader(collectionKey string) *Loader {
	return &Loader{collectionKey: collectionKey}
}

// Ingest reads every source in the given order, drops records without a
// name and keeps the first occurrence of each name. It fails only when
// zero records remain after all sources were attempted.
func (l *Loader) Ingest(paths []string) ([]record.RawRecord, error) {
	var raw []record.RawRecord
	for _, path := range paths {
		records := l.LoadFile(path)
		log.Printf("Loaded %d records from %s", len(records), path)
		raw = append(raw, records...)
	}

	unique := Dedup(raw)
	log.Printf("Parsed %d total unique raw records", len(unique))

	if len(unique) == 0 {
		return nil, fmt.Errorf("no usable records found in %d source(s)", len(paths))
	}
	return unique, nil
}

// LoadFile reads one source, choosing the parser by extension. Unparseable
// sources are logged and yield zero records.
func (l *Loader) LoadFile(path string) []record.RawRecord {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return l.loadCSV(path)
	default:
		return l.loadJSON(path)
	}
}

// DiscoverSources lists the *.json and *.csv files of a directory in a
// stable order, excluding any file with the given base name (typically a
// previously-written output file, to avoid re-ingesting it).
func DiscoverSources(dir, excludeBase string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".json" && ext != ".csv" {
			continue
		}
		if excludeBase != "" && name == excludeBase {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	sort.Strings(paths)
	return paths, nil
}

// Dedup drops records without a name and keeps the first occurrence of
// each name, preserving insertion order.
func Dedup(records []record.RawRecord) []record.RawRecord {
	seen := make(map[string]bool, len(records))
	unique := make([]record.RawRecord, 0, len(records))

	for _, r := range records {
		name := r.Name()
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		unique = append(unique, r)
	}
	return unique
}

// loadJSON accepts a list of records, a single record, or a wrapper
// mapping whose collection key holds a list of records.
func (l *Loader) loadJSON(path string) []record.RawRecord {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Failed to read %s: %v", path, err)
		return nil
	}

	var decoded interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		log.Printf("Failed to parse JSON file %s: %v", path, err)
		return nil
	}

	switch v := decoded.(type) {
	case []interface{}:
		return l.flattenList(path, v)
	case map[string]interface{}:
		if wrapped, ok := v[l.collectionKey].([]interface{}); ok {
			return l.flattenList(path, wrapped)
		}
		return []record.RawRecord{record.RawRecord(v)}
	default:
		log.Printf("Skipped %s: top-level value is %T, not a record container", path, decoded)
		return nil
	}
}

// flattenList keeps the mapping entries of a list, logging a count of
// everything else.
func (l *Loader) flattenList(path string, list []interface{}) []record.RawRecord {
	records := make([]record.RawRecord, 0, len(list))
	dropped := 0

	for _, item := range list {
		if m, ok := item.(map[string]interface{}); ok {
			records = append(records, record.RawRecord(m))
		} else {
			dropped++
		}
	}

	if dropped > 0 {
		log.Printf("Filtered out %d non-record entries from %s", dropped, path)
	}
	return records
}

// loadCSV reads a header row plus data rows into string-valued records.
func (l *Loader) loadCSV(path string) []record.RawRecord {
	file, err := os.Open(path)
	if err != nil {
		log.Printf("Failed to open %s: %v", path, err)
		return nil
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		log.Printf("Failed to read CSV header from %s: %v", path, err)
		return nil
	}

	rows, err := reader.ReadAll()
	if err != nil {
		log.Printf("Failed to parse CSV file %s: %v", path, err)
		return nil
	}

	records := make([]record.RawRecord, 0, len(rows))
	for _, row := range rows {
		r := make(record.RawRecord, len(header))
		for i, column := range header {
			if i < len(row) {
				r[column] = row[i]
			}
		}
		records = append(records, r)
	}
	return records
}
