package common

import (
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Ingest IngestConfig
	Report ReportConfig
}

// IngestConfig holds batch-reading configuration
type IngestConfig struct {
	DateLayout  string // Go layout for batch dates, default dd/mm/yyyy
	SheetName   string // worksheet read from XLSX batches
	HeaderRow   int    // 1-based header row inside XLSX batches
	AliasesPath string // optional YAML column-alias map
	RulesPath   string // optional JSON extraction-rules override
}

// ReportConfig holds run-summary configuration
type ReportConfig struct {
	TopProviders int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Ingest: IngestConfig{
			DateLayout:  getEnv("LEDGER_DATE_LAYOUT", "02/01/2006"),
			SheetName:   getEnv("LEDGER_XLSX_SHEET", ""),
			HeaderRow:   getEnvAsInt("LEDGER_XLSX_HEADER_ROW", 1),
			AliasesPath: getEnv("LEDGER_ALIASES_FILE", ""),
			RulesPath:   getEnv("LEDGER_RULES_FILE", ""),
		},
		Report: ReportConfig{
			TopProviders: getEnvAsInt("LEDGER_TOP_PROVIDERS", 10),
		},
	}
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

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Ingest.DateLayout == "" {
		return NewAppError("CONFIG_ERROR", "LEDGER_DATE_LAYOUT is required", ErrInvalidInput)
	}
	if c.Ingest.HeaderRow < 1 {
		return NewAppError("CONFIG_ERROR", "LEDGER_XLSX_HEADER_ROW must be >= 1", ErrInvalidInput)
	}
	return nil
}
