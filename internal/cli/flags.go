package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/costbook/internal/domain"
	"github.com/alexanderramin/costbook/internal/estimate"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// decimalValue is a pflag.Value holding an exact decimal.
type decimalValue struct {
	d *decimal.Decimal
}

var _ pflag.Value = decimalValue{}

func newDecimalValue(def decimal.Decimal, p *decimal.Decimal) decimalValue {
	*p = def
	return decimalValue{d: p}
}

func (v decimalValue) String() string {
	if v.d == nil {
		return "0"
	}
	return v.d.String()
}

func (v decimalValue) Set(s string) error {
	d, err := domain.ParseDecimal(s)
	if err != nil {
		return fmt.Errorf("%q is not a usable decimal number: %w", s, err)
	}
	*v.d = d
	return nil
}

func (decimalValue) Type() string { return "decimal" }

// decimalVar registers a decimal flag on fs.
func decimalVar(fs *pflag.FlagSet, p *decimal.Decimal, name string, def decimal.Decimal, usage string) {
	fs.Var(newDecimalValue(def, p), name, usage)
}

// addTaxRateFlag registers --tax-rate defaulting to the configured rate and
// returns a func resolving the effective summary config.
func addTaxRateFlag(cmd *cobra.Command, app *App) func() estimate.Config {
	var rate decimal.Decimal
	decimalVar(cmd.Flags(), &rate, "tax-rate", app.Config.TaxRatePercent, "Tax rate percent applied to the subtotal")
	return func() estimate.Config {
		return estimate.Config{TaxRatePercent: rate}
	}
}

// parseDateFlag parses an optional YYYY-MM-DD flag value.
func parseDateFlag(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: invalid date format %q (expected YYYY-MM-DD)", name, value)
	}
	return t, nil
}
