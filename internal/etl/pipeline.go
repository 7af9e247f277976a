// Package etl wires ingestion, transformation, schema reconciliation and
// canton-grouped output into one pipeline run. The whole run is
// single-threaded and in-memory; only the ingestion and write boundaries
// touch disk.
package etl

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"

	"github.com/aargau-farmshops/internal/debug"
	"github.com/aargau-farmshops/internal/grouper"
	"github.com/aargau-farmshops/internal/ingest"
	"github.com/aargau-farmshops/internal/schema"
	"github.com/aargau-farmshops/internal/transform"
)

// Options configures one pipeline run.
type Options struct {
	Sources       []string // source files, processed in this order
	OutputDir     string
	CollectionKey string
	FilePrefix    string
	SchemaVersion string
	IncludeMeta   bool
	Debug         bool
}

// Summary reports what a run did.
type Summary struct {
	Ingested    int
	Transformed int
	Skipped     int
	Groups      []grouper.Result
}

// Pipeline converts raw place sources into grouped canonical output.
type Pipeline struct {
	opts Options
}

// NewPipeline creates a pipeline with the given options.
func NewPipeline(opts Options) *Pipeline {
	return &Pipeline{opts: opts}
}

// Run executes ingest → transform → reconcile → group & write. Individual
// bad records are logged and skipped; the run fails only when no record
// survives ingestion or transformation.
func (p *Pipeline) Run() (*Summary, error) {
	done := debug.Timing(p.opts.Debug, "pipeline run")
	defer done()

	loader := ingest.NewLoader(p.opts.CollectionKey)
	raw, err := loader.Ingest(p.opts.Sources)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Ingested: len(raw)}

	transformer := transform.New()
	records := make([]map[string]interface{}, 0, len(raw))
	for _, r := range raw {
		shop, err := transformer.Shop(r)
		if err != nil {
			var malformed *transform.MalformedRecordError
			if errors.As(err, &malformed) {
				log.Printf("Error transforming record: %v", err)
				log.Printf("Failed for place_id: %s", r.PlaceID())
				summary.Skipped++
				continue
			}
			return nil, fmt.Errorf("transform failed: %w", err)
		}
		records = append(records, shop.AsMap())
	}
	summary.Transformed = len(records)
	log.Printf("Transformed %d records (%d skipped)", summary.Transformed, summary.Skipped)

	if len(records) == 0 {
		return nil, fmt.Errorf("no records were successfully transformed")
	}

	schema.Canonical().Reconcile(records, p.opts.Debug)

	summary.Groups = grouper.Write(records, grouper.Options{
		OutputDir:     p.opts.OutputDir,
		CollectionKey: p.opts.CollectionKey,
		FilePrefix:    p.opts.FilePrefix,
		SchemaVersion: p.opts.SchemaVersion,
		IncludeMeta:   p.opts.IncludeMeta,
		Sources:       p.opts.Sources,
	})
	return summary, nil
}

// RunBatch executes the strict batch-export variant: every JSON/CSV file
// of inputDir (minus the output file itself) is ingested, flat-transformed
// and validated against the example schema file; a single validated output
// file is written only when the whole batch passes.
func RunBatch(inputDir, schemaFile, outputFile, collectionKey string) error {
	sources, err := ingest.DiscoverSources(inputDir, filepath.Base(outputFile))
	if err != nil {
		return err
	}
	log.Printf("Found %d source files in %s", len(sources), inputDir)

	loader := ingest.NewLoader(collectionKey)
	raw, err := loader.Ingest(sources)
	if err != nil {
		return err
	}

	transformer := transform.New()
	records := make([]map[string]interface{}, 0, len(raw))
	for _, r := range raw {
		flat, err := transformer.Flat(r)
		if err != nil {
			log.Printf("Error transforming record: %v", err)
			log.Printf("Failed for place_id: %s", r.PlaceID())
			continue
		}
		records = append(records, flat.AsMap())
	}
	log.Printf("Transformed %d records", len(records))

	if len(records) == 0 {
		return fmt.Errorf("no records were successfully transformed")
	}

	reference, err := schema.LoadReference(schemaFile)
	if err != nil {
		return err
	}
	if !reference.Validate(records) {
		return fmt.Errorf("schema validation failed")
	}

	payload := map[string]interface{}{collectionKey: records}
	if err := grouper.WriteJSON(outputFile, payload); err != nil {
		return err
	}
	log.Printf("Successfully wrote %d records to %s", len(records), outputFile)
	return nil
}
