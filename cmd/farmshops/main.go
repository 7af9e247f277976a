package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/aargau-farmshops/internal/config"
	"github.com/aargau-farmshops/internal/etl"
	"github.com/aargau-farmshops/internal/export"
	"github.com/aargau-farmshops/internal/ingest"
	"github.com/aargau-farmshops/internal/record"
	"github.com/aargau-farmshops/internal/store"
	"github.com/aargau-farmshops/internal/transform"
	"github.com/aargau-farmshops/internal/web"
)

const version = "1.2.0"

func main() {
	config.LoadEnv()

	rootCmd := &cobra.Command{
		Use:   "farmshops",
		Short: "Swiss farm shop data pipeline",
		Long:  `Ingests raw and previously-cleaned place records, normalizes them into the canonical farm shop schema and writes canton-grouped, versioned output files`,
	}

	rootCmd.AddCommand(createRunCmd())
	rootCmd.AddCommand(createETLCmd())
	rootCmd.AddCommand(createExportCmd())
	rootCmd.AddCommand(createStoreCmd())
	rootCmd.AddCommand(createServeCmd())
	rootCmd.AddCommand(createVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// createRunCmd creates the canton-grouping pipeline command
func createRunCmd() *cobra.Command {
	var (
		outputDir     string
		schemaVersion string
		includeMeta   bool
		debugFlag     bool
	)

	cmd := &cobra.Command{
		Use:   "run [sources...]",
		Short: "Run the canton pipeline over the given source files",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			pipeline := etl.NewPipeline(etl.Options{
				Sources:       args,
				OutputDir:     outputDir,
				CollectionKey: config.GetEnv("FARMSHOPS_COLLECTION_KEY", "farmshops"),
				FilePrefix:    "farmshops",
				SchemaVersion: schemaVersion,
				IncludeMeta:   includeMeta,
				Debug:         debugFlag,
			})

			summary, err := pipeline.Run()
			if err != nil {
				log.Fatalf("Pipeline failed: %v", err)
			}

			fmt.Printf("Ingested %d records, transformed %d, skipped %d\n",
				summary.Ingested, summary.Transformed, summary.Skipped)
			failed := 0
			for _, group := range summary.Groups {
				if group.Err != nil {
					failed++
					continue
				}
				fmt.Printf("  %s: %d records -> %s\n", group.Canton, group.Count, group.Path)
			}
			if failed > 0 {
				log.Fatalf("%d canton group(s) failed to write", failed)
			}
		},
	}

	cmd.Flags().StringVar(&outputDir, "output-dir", config.GetEnv("FARMSHOPS_OUTPUT_DIR", "data/cantons"), "Directory for canton output files")
	cmd.Flags().StringVar(&schemaVersion, "schema-version", config.GetEnv("FARMSHOPS_SCHEMA_VERSION", "1.0"), "Schema version embedded in filenames and metadata")
	cmd.Flags().BoolVar(&includeMeta, "meta", true, "Include run metadata in each output file")
	cmd.Flags().BoolVar(&debugFlag, "debug", config.GetEnvBool("FARMSHOPS_DEBUG", false), "Enable verbose debug output")
	return cmd
}

// createETLCmd creates the strict batch-export command
func createETLCmd() *cobra.Command {
	var (
		inputDir   string
		schemaFile string
		outputFile string
	)

	cmd := &cobra.Command{
		Use:   "etl",
		Short: "Run the strict batch export against a sample schema file",
		Run: func(cmd *cobra.Command, args []string) {
			if inputDir == "" || schemaFile == "" || outputFile == "" {
				log.Fatal("--input-dir, --schema-file and --output-file are required")
			}
			key := config.GetEnv("FARMSHOPS_COLLECTION_KEY", "farmshops")
			if err := etl.RunBatch(inputDir, schemaFile, outputFile, key); err != nil {
				log.Fatalf("ETL failed: %v", err)
			}
		},
	}

	cmd.Flags().StringVar(&inputDir, "input-dir", "", "Directory containing raw place files")
	cmd.Flags().StringVar(&schemaFile, "schema-file", "", "Path to sample schema file")
	cmd.Flags().StringVar(&outputFile, "output-file", "", "Path to validated output file")
	return cmd
}

// createExportCmd creates the flat-file export command
func createExportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export [source] [destination]",
		Short: "Export a source file as a flat JSON list or flattened CSV",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			loader := ingest.NewLoader(config.GetEnv("FARMSHOPS_COLLECTION_KEY", "farmshops"))
			records := loader.LoadFile(args[0])
			if len(records) == 0 {
				log.Fatalf("No records found in %s", args[0])
			}

			var err error
			switch format {
			case "json":
				err = export.WriteJSONList(records, args[1])
			case "csv":
				err = export.WriteRawCSV(records, args[1])
			default:
				log.Fatalf("Unsupported format %q, use json or csv", format)
			}
			if err != nil {
				log.Fatalf("Export failed: %v", err)
			}
			fmt.Printf("Exported %d records to %s\n", len(records), args[1])
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Export format: json or csv")
	return cmd
}

// createStoreCmd creates the Postgres load command
func createStoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "store [sources...]",
		Short: "Run the transform stage and load the shops into Postgres",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			loader := ingest.NewLoader(config.GetEnv("FARMSHOPS_COLLECTION_KEY", "farmshops"))
			raw, err := loader.Ingest(args)
			if err != nil {
				log.Fatalf("Ingest failed: %v", err)
			}

			transformer := transform.New()
			var shops []record.Shop
			for _, r := range raw {
				shop, err := transformer.Shop(r)
				if err != nil {
					log.Printf("Error transforming record: %v", err)
					continue
				}
				shops = append(shops, shop)
			}

			db, err := store.Open()
			if err != nil {
				log.Fatalf("Failed to connect to database: %v", err)
			}
			defer db.Close()

			if err := db.Init(); err != nil {
				log.Fatalf("Failed to initialize schema: %v", err)
			}
			inserted, err := db.ReplaceAll(shops)
			if err != nil {
				log.Fatalf("Failed to load shops: %v", err)
			}
			fmt.Printf("Loaded %d shops into Postgres\n", inserted)
		},
	}
}

// createServeCmd creates the viewer API command
func createServeCmd() *cobra.Command {
	var (
		host    string
		port    int
		dataDir string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a read-only JSON API over the written canton files",
		Run: func(cmd *cobra.Command, args []string) {
			server, err := web.NewServer(web.Config{
				Host:          host,
				Port:          port,
				DataDir:       dataDir,
				CollectionKey: config.GetEnv("FARMSHOPS_COLLECTION_KEY", "farmshops"),
			})
			if err != nil {
				log.Fatalf("Failed to start viewer: %v", err)
			}
			if err := server.Run(); err != nil {
				log.Fatalf("Viewer failed: %v", err)
			}
		},
	}

	cmd.Flags().StringVar(&host, "host", config.GetEnv("WEB_HOST", "0.0.0.0"), "Listen host")
	cmd.Flags().IntVar(&port, "port", config.GetEnvInt("WEB_PORT", 8080), "Listen port")
	cmd.Flags().StringVar(&dataDir, "data-dir", config.GetEnv("FARMSHOPS_OUTPUT_DIR", "data/cantons"), "Directory holding canton output files")
	return cmd
}

func createVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the pipeline version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}
}
