package batch

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/veilware/veil/internal/pii"
)

// Record is a single text row from the input dataset.
type Record struct {
	ID   string `csv:"id" json:"id" parquet:"id,optional"`
	Text string `csv:"text" json:"text" parquet:"text"`
}

// MapEntry is one sidecar line pairing a record ID with the entity map
// needed to reverse its anonymization.
type MapEntry struct {
	ID       string        `json:"id"`
	Entities pii.EntityMap `json:"entities"`
}

// Result summarizes one bulk run.
type Result struct {
	TotalRecords  int64         `json:"total_records"`
	ProcessedOK   int64         `json:"processed_ok"`
	Failed        int64         `json:"failed"`
	TotalEntities int64         `json:"total_entities"`
	Duration      time.Duration `json:"duration"`
	Errors        []string      `json:"errors,omitempty"`
}

// Config contains bulk pipeline configuration
type Config struct {
	Workers        int `yaml:"workers" mapstructure:"workers"`                 // 4
	BatchSize      int `yaml:"batch_size" mapstructure:"batch_size"`           // 256
	ProgressReport int `yaml:"progress_report" mapstructure:"progress_report"` // 1000
}

// DefaultConfig returns bulk pipeline defaults.
func DefaultConfig() *Config {
	return &Config{
		Workers:        4,
		BatchSize:      256,
		ProgressReport: 1000,
	}
}

// FileFormat represents supported dataset file formats
type FileFormat string

const (
	FormatCSV     FileFormat = "csv"
	FormatJSONL   FileFormat = "jsonl"
	FormatParquet FileFormat = "parquet"
)

// DetectFileFormat detects file format from the extension. Unknown
// extensions fall back to CSV.
func DetectFileFormat(filename string) FileFormat {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jsonl", ".json":
		return FormatJSONL
	case ".parquet":
		return FormatParquet
	default:
		return FormatCSV
	}
}

// SidecarPath returns the entity-map sidecar location for an output file.
func SidecarPath(outputPath string) string {
	ext := filepath.Ext(outputPath)
	return strings.TrimSuffix(outputPath, ext) + ".entities.jsonl"
}
