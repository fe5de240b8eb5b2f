package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/veilware/veil/internal/analyzer"
	"github.com/veilware/veil/internal/batch"
	"github.com/veilware/veil/internal/cache"
	"github.com/veilware/veil/internal/config"
	"github.com/veilware/veil/internal/engine"
	"github.com/veilware/veil/internal/logger"
	"github.com/veilware/veil/internal/pii"
	"github.com/veilware/veil/internal/recognizer"
)

func main() {
	var (
		configPath    = flag.String("config", "", "Configuration file path")
		inputFile     = flag.String("input", "", "Input dataset file (CSV, JSONL, or Parquet)")
		outputFile    = flag.String("output", "", "Output file (CSV or JSONL, derived from input when empty)")
		language      = flag.String("language", "", "Detection language (defaults to configured language)")
		deterministic = flag.Bool("deterministic", true, "Derive fake values from originals so repeats share one fake")
		threshold     = flag.Float64("threshold", 0, "Confidence threshold override (0 keeps the configured value)")
		batchSize     = flag.Int("batch-size", 256, "Records per batch")
		workers       = flag.Int("workers", 4, "Number of worker goroutines")
		progress      = flag.Int("progress", 1000, "Log progress every N records (0 disables)")
	)
	flag.Parse()

	if *inputFile == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s --input dataset.csv\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --input prompts.parquet --output clean.jsonl --workers 8\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --input logs.jsonl --language de --deterministic=false\n", os.Args[0])
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting Veil bulk anonymizer",
		zap.String("input", *inputFile),
		zap.String("config", *configPath))

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Received shutdown signal, cancelling operations...")
		cancel()
	}()

	if _, err := os.Stat(*inputFile); os.IsNotExist(err) {
		log.Fatal("Input file does not exist", zap.String("file", *inputFile))
	}

	lang := cfg.Engine.Language
	if *language != "" {
		lang, err = pii.ParseLanguage(*language)
		if err != nil {
			log.Fatal("Unsupported language", zap.String("language", *language), zap.Error(err))
		}
	}

	// Build the anonymization engine
	registry := recognizer.NewRegistry(log.WithComponent("recognizer").Logger)
	cacheStore, err := cache.New(&cfg.Cache, log.WithComponent("cache").Logger)
	if err != nil {
		log.Fatal("Failed to create analysis cache", zap.Error(err))
	}
	az, err := analyzer.New(&cfg.Analyzer, registry, cacheStore, log.WithComponent("analyzer").Logger)
	if err != nil {
		log.Fatal("Failed to create analyzer", zap.Error(err))
	}
	defer func() {
		if c, ok := az.(io.Closer); ok {
			c.Close()
		}
	}()

	ecfg := cfg.Engine
	ecfg.Language = lang
	ecfg.DeterministicFakes = *deterministic
	if *threshold > 0 {
		ecfg.ConfidenceThreshold = *threshold
	}
	eng, err := engine.NewPipeline(&ecfg, az, log.WithComponent("engine").Logger)
	if err != nil {
		log.Fatal("Failed to create pipeline", zap.Error(err))
	}

	pipeline := batch.NewPipeline(eng, &batch.Config{
		Workers:        *workers,
		BatchSize:      *batchSize,
		ProgressReport: *progress,
	}, log.WithComponent("batch").Logger)

	outputPath := *outputFile
	if outputPath == "" {
		outputPath = defaultOutputPath(*inputFile)
	}

	// Process the file
	result, err := pipeline.ProcessFile(ctx, *inputFile, outputPath)
	if err != nil {
		log.Fatal("Bulk anonymization failed", zap.Error(err))
	}

	// Report results
	rate := 0.0
	if result.Duration > 0 {
		rate = float64(result.TotalRecords) / result.Duration.Seconds()
	}
	log.Info("Dataset anonymization completed",
		zap.String("input", *inputFile),
		zap.String("output", outputPath),
		zap.String("sidecar", batch.SidecarPath(outputPath)),
		zap.Int64("total_records", result.TotalRecords),
		zap.Int64("processed_ok", result.ProcessedOK),
		zap.Int64("failed", result.Failed),
		zap.Int64("total_entities", result.TotalEntities),
		zap.Duration("duration", result.Duration),
		zap.Float64("records_per_second", rate))

	if len(result.Errors) > 0 {
		log.Warn("Processing completed with errors", zap.Strings("errors", result.Errors))
	}
}

// defaultOutputPath places the anonymized copy next to the input. Parquet
// inputs switch to JSONL since only text formats are written.
func defaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	base := strings.TrimSuffix(input, ext)
	if batch.DetectFileFormat(input) == batch.FormatParquet {
		return base + ".anonymized.jsonl"
	}
	return base + ".anonymized" + ext
}
