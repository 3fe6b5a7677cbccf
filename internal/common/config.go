package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Paths     PathsConfig
	Converter ConverterConfig
	Pipeline  PipelineConfig
	Database  DatabaseConfig
}

// PathsConfig holds the directory and file locations used by the batch.
// All paths are explicit; there is no process-wide mutable path state.
type PathsConfig struct {
	SourceDir   string // raw document drop, scanned recursively by collect
	InvoicesDir string // flat directory of <key>.pdf files to process
	DocsDir     string // parallel directory of converted <key>.docx artifacts
	CatalogPath string // product catalog (.csv or .xlsx)
	OutputPath  string // clean output table (.csv or .xlsx)
}

// ConverterConfig holds the PDF-to-DOCX conversion settings.
type ConverterConfig struct {
	Command string        // converter binary; empty disables conversion
	Timeout time.Duration // per-conversion bound
}

// PipelineConfig holds batch processing settings.
type PipelineConfig struct {
	Workers     int           // concurrent document pipelines
	DocTimeout  time.Duration // per-document bound
	Precision   int32         // fractional digits for monetary values
	MaxAmounts  int           // monetary tokens pulled per amounts scan
	CatalogName string        // catalog column holding the product name
	CatalogSize string        // catalog column holding the size
}

// DatabaseConfig holds the relational loader settings.
type DatabaseConfig struct {
	Driver string // "sqlite" or "postgres"
	DSN    string
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			SourceDir:   getEnv("INV_SOURCE_DIR", ""),
			InvoicesDir: getEnv("INV_PDF_DIR", "./invoices"),
			DocsDir:     getEnv("INV_DOCX_DIR", "./docs"),
			CatalogPath: getEnv("INV_CATALOG_PATH", ""),
			OutputPath:  getEnv("INV_OUTPUT_PATH", "./invoices.csv"),
		},
		Converter: ConverterConfig{
			Command: getEnv("INV_CONVERTER", "pdf2docx"),
			Timeout: getEnvAsDuration("INV_CONVERTER_TIMEOUT", 90*time.Second),
		},
		Pipeline: PipelineConfig{
			Workers:     getEnvAsInt("INV_WORKERS", 4),
			DocTimeout:  getEnvAsDuration("INV_DOC_TIMEOUT", 2*time.Minute),
			Precision:   int32(getEnvAsInt("INV_PRECISION", 2)),
			MaxAmounts:  getEnvAsInt("INV_MAX_AMOUNTS", 3),
			CatalogName: getEnv("INV_CATALOG_NAME_COL", "REFERÊNCIA"),
			CatalogSize: getEnv("INV_CATALOG_SIZE_COL", "TAMANHO"),
		},
		Database: DatabaseConfig{
			Driver: getEnv("INV_DB_DRIVER", "sqlite"),
			DSN:    getEnv("INV_DB_DSN", "./invoices.db"),
		},
	}
}

// Validate checks the preconditions for running the processing batch.
func (c *Config) Validate() error {
	if c.Paths.InvoicesDir == "" {
		return NewAppError("CONFIG_ERROR", "INV_PDF_DIR is required", ErrInvalidInput)
	}
	if c.Paths.CatalogPath == "" {
		return NewAppError("CONFIG_ERROR", "INV_CATALOG_PATH is required", ErrInvalidInput)
	}
	if c.Pipeline.Workers < 1 {
		return NewAppError("CONFIG_ERROR", "INV_WORKERS must be >= 1", ErrInvalidInput)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
