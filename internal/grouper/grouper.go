// Package grouper partitions reconciled records by canton and writes one
// versioned JSON file per group. A single group's write failure is logged
// and does not block the remaining groups.
package grouper

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Options controls grouping and output naming.
type Options struct {
	OutputDir     string
	CollectionKey string   // payload key holding the record list
	FilePrefix    string   // output filename prefix, e.g. "farmshops"
	SchemaVersion string   // embedded in the filename, "." → "_"
	IncludeMeta   bool     // extend each payload with run metadata
	Sources       []string // source file list recorded in metadata
}

// Group is one canton partition, in input order.
type Group struct {
	Canton  string // normalized canton key
	Records []map[string]interface{}
}

// Result reports the outcome of writing one group.
type Result struct {
	Canton string
	Path   string
	Count  int
	Err    error
}

// defaultCantonKey is used when the input is empty and a single fallback
// group must still be written.
const defaultCantonKey = "aargau"

// CantonKey normalizes a canton name into a grouping key: lower-cased,
// spaces and hyphens mapped to underscores.
func CantonKey(canton string) string {
	key := strings.ToLower(canton)
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")
	return key
}

// Partition splits records by normalized canton key, preserving per-group
// insertion order and group order of first appearance. Every record lands
// in the bucket of its own canton; an empty input yields one empty group
// under the default canton key.
func Partition(records []map[string]interface{}) []Group {
	var groups []Group
	index := make(map[string]int)

	for _, r := range records {
		canton, _ := r["canton"].(string)
		key := CantonKey(canton)
		if key == "" {
			key = defaultCantonKey
		}

		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Canton: key})
		}
		groups[i].Records = append(groups[i].Records, r)
	}

	if len(groups) == 0 {
		groups = append(groups, Group{Canton: defaultCantonKey, Records: []map[string]interface{}{}})
	}
	return groups
}

// Write partitions the records and persists one JSON file per canton
// group. It returns one Result per group; write failures are recorded and
// logged, never propagated as a run failure.
func Write(records []map[string]interface{}, opts Options) []Result {
	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		log.Printf("Failed to create output directory %s: %v", opts.OutputDir, err)
		return []Result{{Err: fmt.Errorf("failed to create output directory: %w", err)}}
	}

	groups := Partition(records)
	results := make([]Result, 0, len(groups))

	for _, group := range groups {
		path := filepath.Join(opts.OutputDir, FileName(opts.FilePrefix, group.Canton, opts.SchemaVersion))
		err := writeGroup(group, path, opts)
		if err != nil {
			log.Printf("Failed to write %s group to %s: %v", group.Canton, path, err)
		} else {
			log.Printf("Wrote %d records for canton %s to %s", len(group.Records), group.Canton, path)
		}
		results = append(results, Result{
			Canton: group.Canton,
			Path:   path,
			Count:  len(group.Records),
			Err:    err,
		})
	}
	return results
}

// FileName builds the per-group output filename, embedding the canton key
// and the schema version with dots replaced by underscores.
func FileName(prefix, cantonKey, version string) string {
	if version == "" {
		return fmt.Sprintf("%s_%s.json", prefix, cantonKey)
	}
	return fmt.Sprintf("%s_%s_v%s.json", prefix, cantonKey, strings.ReplaceAll(version, ".", "_"))
}

func writeGroup(group Group, path string, opts Options) error {
	payload := map[string]interface{}{
		opts.CollectionKey: group.Records,
	}
	if opts.IncludeMeta {
		payload["count"] = len(group.Records)
		payload["canton"] = group.Canton
		payload["schema_version"] = opts.SchemaVersion
		payload["sources"] = opts.Sources
		payload["generated_at"] = time.Now().UTC().Format(time.RFC3339)
	}
	return WriteJSON(path, payload)
}

// WriteJSON persists a payload as indented UTF-8 JSON with non-ASCII
// characters kept literal.
func WriteJSON(path string, payload interface{}) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(payload); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}
