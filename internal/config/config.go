package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/alexanderramin/costbook/internal/domain"
	"github.com/alexanderramin/costbook/internal/estimate"
	"github.com/shopspring/decimal"
)

// DefaultTaxRatePercent is the tax applied to summaries unless overridden.
const DefaultTaxRatePercent = estimate.DefaultTaxRatePercent

// Config holds process-wide settings for the costbook CLI.
type Config struct {
	// DBPath is the SQLite database file. Ignored when DatabaseURL is set.
	DBPath         string
	DatabaseURL    string
	TaxRatePercent decimal.Decimal
	LogUseCases    bool
	MetricsFile    string
}

// DefaultConfig returns a Config backed by ~/.costbook/costbook.db.
func DefaultConfig() Config {
	return Config{
		DBPath:         defaultDBPath(),
		TaxRatePercent: decimal.NewFromInt(DefaultTaxRatePercent),
	}
}

// LoadConfig reads configuration from environment variables, falling back
// to defaults for unset or unusable values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("COSTBOOK_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("COSTBOOK_DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("COSTBOOK_TAX_RATE_PERCENT"); v != "" {
		if d, err := domain.ParseDecimal(v); err == nil && !d.IsNegative() {
			cfg.TaxRatePercent = d
		}
	}
	if v := os.Getenv("COSTBOOK_LOG_USE_CASES"); v != "" {
		cfg.LogUseCases, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("COSTBOOK_METRICS_FILE"); v != "" {
		cfg.MetricsFile = v
	}

	return cfg
}

// UsesPostgres reports whether a Postgres URL replaces the SQLite file.
func (c Config) UsesPostgres() bool {
	return c.DatabaseURL != ""
}

// Estimate returns the summary options derived from c.
func (c Config) Estimate() estimate.Config {
	return estimate.Config{TaxRatePercent: c.TaxRatePercent}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "costbook.db"
	}
	return filepath.Join(home, ".costbook", "costbook.db")
}
