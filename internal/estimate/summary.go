package estimate

import (
	"fmt"

	"github.com/alexanderramin/costbook/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultTaxRatePercent is the tax rate applied when none is configured.
const DefaultTaxRatePercent = 16

var hundred = decimal.NewFromInt(100)

// Config holds the options that affect summaries.
type Config struct {
	TaxRatePercent decimal.Decimal
}

// DefaultConfig returns a Config using DefaultTaxRatePercent.
func DefaultConfig() Config {
	return Config{TaxRatePercent: decimal.NewFromInt(DefaultTaxRatePercent)}
}

// Validate rejects negative or out-of-range tax rates.
func (c Config) Validate() error {
	if err := domain.CheckRange(c.TaxRatePercent); err != nil {
		return fmt.Errorf("tax rate: %w", err)
	}
	if c.TaxRatePercent.IsNegative() {
		return fmt.Errorf("tax rate %s%% must not be negative", c.TaxRatePercent)
	}
	return nil
}

// Summary is the derived money totals of an estimate.
type Summary struct {
	Subtotal       decimal.Decimal
	TaxRatePercent decimal.Decimal
	TaxAmount      decimal.Decimal
	GrandTotal     decimal.Decimal
}

// ComputeSummary totals the group amounts of est and applies an additive
// tax: TaxAmount = Subtotal × rate / 100 rounded to cents, and
// GrandTotal = Subtotal + TaxAmount exactly.
func ComputeSummary(est *domain.Estimate, cfg Config) Summary {
	subtotal := sumAmounts(est.Groups)
	tax := domain.RoundMoney(subtotal.Mul(cfg.TaxRatePercent).Div(hundred))
	return Summary{
		Subtotal:       subtotal,
		TaxRatePercent: cfg.TaxRatePercent,
		TaxAmount:      tax,
		GrandTotal:     subtotal.Add(tax),
	}
}
