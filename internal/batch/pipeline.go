// Package batch anonymizes dataset files record by record. Rows are read
// in batches, anonymized on a worker pool, and written back in input order
// together with a JSONL sidecar of entity maps keyed by record ID so the
// output can be deanonymized later.
package batch

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/parquet-go"
	"go.uber.org/zap"

	"github.com/veilware/veil/internal/engine"
	"github.com/veilware/veil/internal/pii"
)

// maxScanBuffer bounds a single JSONL line. Dataset texts run long, the
// bufio default of 64KB does not cover them.
const maxScanBuffer = 16 << 20

// Pipeline runs bulk anonymization over dataset files.
type Pipeline struct {
	engine *engine.Pipeline
	config *Config
	logger *zap.Logger
}

// NewPipeline creates a bulk pipeline on top of an anonymization engine.
func NewPipeline(eng *engine.Pipeline, cfg *Config, logger *zap.Logger) *Pipeline {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Pipeline{engine: eng, config: cfg, logger: logger}
}

// ProcessFile anonymizes inputPath into outputPath. The input format is
// detected from the input extension (CSV, JSONL, or Parquet), the output
// format from the output extension (CSV or JSONL). A sidecar file next to
// the output holds one entity-map line per record that produced entities.
func (p *Pipeline) ProcessFile(ctx context.Context, inputPath, outputPath string) (*Result, error) {
	start := time.Now()
	result := &Result{}

	inFormat := DetectFileFormat(inputPath)
	outFormat := DetectFileFormat(outputPath)
	if outFormat == FormatParquet {
		return nil, fmt.Errorf("parquet output is not supported, use csv or jsonl")
	}

	p.logger.Info("Starting bulk anonymization",
		zap.String("input", inputPath),
		zap.String("output", outputPath),
		zap.String("input_format", string(inFormat)),
		zap.String("output_format", string(outFormat)),
		zap.Int("batch_size", p.config.BatchSize),
		zap.Int("workers", p.workers()))

	in, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	side, err := os.Create(SidecarPath(outputPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create sidecar file: %w", err)
	}
	defer side.Close()

	writer, err := newRecordWriter(outFormat, out)
	if err != nil {
		return nil, err
	}
	sidecar := json.NewEncoder(side)

	switch inFormat {
	case FormatCSV:
		err = p.processCSV(ctx, start, in, writer, sidecar, result)
	case FormatJSONL:
		err = p.processJSONL(ctx, start, in, writer, sidecar, result)
	case FormatParquet:
		err = p.processParquet(ctx, start, in, writer, sidecar, result)
	default:
		err = fmt.Errorf("unsupported input format: %s", inFormat)
	}
	if err != nil {
		return result, err
	}

	if err := writer.Flush(); err != nil {
		return result, fmt.Errorf("failed to flush output: %w", err)
	}

	result.Duration = time.Since(start)
	p.logger.Info("Bulk anonymization completed",
		zap.Int64("total_records", result.TotalRecords),
		zap.Int64("processed_ok", result.ProcessedOK),
		zap.Int64("failed", result.Failed),
		zap.Int64("total_entities", result.TotalEntities),
		zap.Duration("duration", result.Duration))
	return result, nil
}

// processCSV reads CSV input. The header must name a "text" column; an
// "id" column is optional, row numbers fill the gap.
func (p *Pipeline) processCSV(ctx context.Context, start time.Time, in io.Reader, w recordWriter, sidecar *json.Encoder, result *Result) error {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read CSV header: %w", err)
	}

	idIdx, textIdx := -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "id":
			idIdx = i
		case "text":
			textIdx = i
		}
	}
	if textIdx == -1 {
		return fmt.Errorf("no text column in CSV header: %v", header)
	}

	var row int64
	return p.processBatches(ctx, start, func() ([]Record, error) {
		var batch []Record
		for len(batch) < p.config.BatchSize {
			fields, err := reader.Read()
			if err == io.EOF {
				break
			}
			row++
			if err != nil {
				p.logger.Warn("Skipping unreadable CSV row", zap.Int64("row", row), zap.Error(err))
				result.TotalRecords++
				result.Failed++
				continue
			}
			if textIdx >= len(fields) {
				p.logger.Warn("Skipping short CSV row", zap.Int64("row", row), zap.Int("fields", len(fields)))
				result.TotalRecords++
				result.Failed++
				continue
			}
			rec := Record{Text: fields[textIdx]}
			if idIdx >= 0 && idIdx < len(fields) {
				rec.ID = fields[idIdx]
			}
			if rec.ID == "" {
				rec.ID = strconv.FormatInt(row, 10)
			}
			batch = append(batch, rec)
		}
		return batch, nil
	}, w, sidecar, result)
}

// processJSONL reads one JSON object per line. Scanning line by line keeps
// a malformed line from poisoning the rest of the stream.
func (p *Pipeline) processJSONL(ctx context.Context, start time.Time, in io.Reader, w recordWriter, sidecar *json.Encoder, result *Result) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxScanBuffer)

	var row int64
	return p.processBatches(ctx, start, func() ([]Record, error) {
		var batch []Record
		for len(batch) < p.config.BatchSize {
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil && len(batch) == 0 {
					return nil, fmt.Errorf("failed to scan input: %w", err)
				}
				break
			}
			row++
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}
			var rec Record
			if err := json.Unmarshal(line, &rec); err != nil {
				p.logger.Warn("Skipping undecodable JSON line", zap.Int64("line", row), zap.Error(err))
				result.TotalRecords++
				result.Failed++
				continue
			}
			if rec.ID == "" {
				rec.ID = strconv.FormatInt(row, 10)
			}
			batch = append(batch, rec)
		}
		return batch, nil
	}, w, sidecar, result)
}

// processParquet reads Parquet input. Unlike the text formats there is no
// recovery point after a bad record, so read errors are fatal.
func (p *Pipeline) processParquet(ctx context.Context, start time.Time, in *os.File, w recordWriter, sidecar *json.Encoder, result *Result) error {
	reader := parquet.NewReader(in)
	defer reader.Close()

	var row int64
	return p.processBatches(ctx, start, func() ([]Record, error) {
		var batch []Record
		for len(batch) < p.config.BatchSize {
			var rec Record
			err := reader.Read(&rec)
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, fmt.Errorf("failed to read parquet record: %w", err)
			}
			row++
			if rec.ID == "" {
				rec.ID = strconv.FormatInt(row, 10)
			}
			batch = append(batch, rec)
		}
		return batch, nil
	}, w, sidecar, result)
}

// processBatches drives the read-anonymize-write loop shared by all input
// formats. Cancellation is honored between batches.
func (p *Pipeline) processBatches(ctx context.Context, start time.Time, readBatch func() ([]Record, error), w recordWriter, sidecar *json.Encoder, result *Result) error {
	var lastReport int64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		batch, err := readBatch()
		if err != nil {
			return fmt.Errorf("failed to read batch: %w", err)
		}
		if len(batch) == 0 {
			return nil
		}

		for _, out := range p.processBatch(ctx, batch) {
			result.TotalRecords++
			if out.err != nil {
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("record %s: %v", out.rec.ID, out.err))
				p.logger.Warn("Record anonymization failed", zap.String("id", out.rec.ID), zap.Error(out.err))
				continue
			}
			if err := w.Write(Record{ID: out.rec.ID, Text: out.res.AnonymizedText}); err != nil {
				return fmt.Errorf("failed to write output record: %w", err)
			}
			if len(out.res.Entities) > 0 {
				if err := sidecar.Encode(MapEntry{ID: out.rec.ID, Entities: out.res.Entities}); err != nil {
					return fmt.Errorf("failed to write sidecar entry: %w", err)
				}
			}
			result.ProcessedOK++
			result.TotalEntities += int64(out.res.TotalEntities)
		}

		if p.config.ProgressReport > 0 && result.TotalRecords-lastReport >= int64(p.config.ProgressReport) {
			lastReport = result.TotalRecords
			p.reportProgress(start, result)
		}
	}
}

type outcome struct {
	rec Record
	res *pii.ProcessingResult
	err error
}

// processBatch anonymizes one batch on the worker pool. Outcomes keep
// batch order so the writer can emit records in input order.
func (p *Pipeline) processBatch(ctx context.Context, batch []Record) []outcome {
	outcomes := make([]outcome, len(batch))
	jobs := make(chan int, len(batch))
	for i := range batch {
		jobs <- i
	}
	close(jobs)

	workers := p.workers()
	if workers > len(batch) {
		workers = len(batch)
	}

	var wg sync.WaitGroup
	for n := 0; n < workers; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				res, err := p.engine.Process(ctx, batch[i].Text)
				outcomes[i] = outcome{rec: batch[i], res: res, err: err}
			}
		}()
	}
	wg.Wait()
	return outcomes
}

func (p *Pipeline) workers() int {
	if p.config.Workers > 0 {
		return p.config.Workers
	}
	return 1
}

// reportProgress logs current throughput.
func (p *Pipeline) reportProgress(start time.Time, result *Result) {
	elapsed := time.Since(start)
	rate := float64(result.TotalRecords) / elapsed.Seconds()

	p.logger.Info("Bulk progress",
		zap.Int64("records", result.TotalRecords),
		zap.Int64("ok", result.ProcessedOK),
		zap.Int64("failed", result.Failed),
		zap.Float64("rate_per_sec", rate),
		zap.Duration("elapsed", elapsed))
}

// recordWriter emits anonymized records in one of the text output formats.
type recordWriter interface {
	Write(Record) error
	Flush() error
}

func newRecordWriter(format FileFormat, out io.Writer) (recordWriter, error) {
	switch format {
	case FormatCSV:
		w := csv.NewWriter(out)
		if err := w.Write([]string{"id", "text"}); err != nil {
			return nil, fmt.Errorf("failed to write CSV header: %w", err)
		}
		return &csvRecordWriter{w: w}, nil
	case FormatJSONL:
		return &jsonlRecordWriter{enc: json.NewEncoder(out)}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

type csvRecordWriter struct{ w *csv.Writer }

func (c *csvRecordWriter) Write(rec Record) error {
	return c.w.Write([]string{rec.ID, rec.Text})
}

func (c *csvRecordWriter) Flush() error {
	c.w.Flush()
	return c.w.Error()
}

type jsonlRecordWriter struct{ enc *json.Encoder }

func (j *jsonlRecordWriter) Write(rec Record) error { return j.enc.Encode(rec) }

func (j *jsonlRecordWriter) Flush() error { return nil }
