package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of fractional digits kept on amounts (cents).
const MoneyPlaces = 2

// Bounds on user-supplied quantities, rates and tax rates.
const (
	MaxIntegerDigits  = 15
	MaxFractionDigits = 20
)

// ErrOutOfRange marks a number with too many integer or fractional digits.
var ErrOutOfRange = errors.New("number out of range")

// CheckRange rejects d when its integer part exceeds MaxIntegerDigits or its
// scale exceeds MaxFractionDigits. It reads only the coefficient and the
// exponent, so values like 1e100000000 are rejected without expanding them.
func CheckRange(d decimal.Decimal) error {
	exp := int64(d.Exponent())
	if -exp > MaxFractionDigits {
		return fmt.Errorf("%w: more than %d decimal places", ErrOutOfRange, MaxFractionDigits)
	}
	if int64(d.NumDigits())+exp > MaxIntegerDigits {
		return fmt.Errorf("%w: more than %d integer digits", ErrOutOfRange, MaxIntegerDigits)
	}
	return nil
}

// ParseDecimal parses s and applies CheckRange.
func ParseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, err
	}
	if err := CheckRange(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// RoundMoney rounds d to cents, half away from zero.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// LineAmount is quantity × rate rounded to cents.
func LineAmount(quantity, rate decimal.Decimal) decimal.Decimal {
	return RoundMoney(quantity.Mul(rate))
}

// MustDecimal parses s and panics on failure. Intended for constants and tests.
func MustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(fmt.Sprintf("domain: invalid decimal literal %q: %v", s, err))
	}
	return d
}
