package domain

import "github.com/shopspring/decimal"

// CoalesceStr returns the first non-empty string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// DecimalFromPtrWithDefault returns the first non-nil *decimal.Decimal value, or the fallback.
func DecimalFromPtrWithDefault(fallback decimal.Decimal, ptrs ...*decimal.Decimal) decimal.Decimal {
	for _, p := range ptrs {
		if p != nil {
			return *p
		}
	}
	return fallback
}

// StringFromPtrWithDefault returns the first non-nil *string value, or the fallback.
func StringFromPtrWithDefault(fallback string, ptrs ...*string) string {
	for _, p := range ptrs {
		if p != nil {
			return *p
		}
	}
	return fallback
}
