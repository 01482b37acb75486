package importer

import (
	"errors"
	"regexp"
	"strings"

	"github.com/alexanderramin/costbook/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	errNotNumeric = errors.New("not a number")
	errNegative   = errors.New("negative value")
	errNotLevel   = errors.New("level must be a whole number between 0 and 2")
)

// numericRegex validates that a string is a valid numeric format after cleanup.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// ParseNumber coerces a spreadsheet cell into a non-negative decimal.
// Empty cells read as zero. Currency symbols, thousands separators and
// Excel ="..." wrappers are stripped; accounting parentheses mark a
// negative value, which is rejected. Values outside domain.CheckRange are
// rejected too.
func ParseNumber(c Cell) (decimal.Decimal, error) {
	var d decimal.Decimal
	switch c.Kind {
	case CellEmpty:
		return decimal.Zero, nil
	case CellNumber:
		d = c.Number
	default:
		s := cleanNumeric(c.Text)
		if !numericRegex.MatchString(s) {
			return decimal.Zero, errNotNumeric
		}
		var err error
		d, err = decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, errNotNumeric
		}
	}
	if err := domain.CheckRange(d); err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, errNegative
	}
	return d, nil
}

// ParseLevel reads an explicit depth. ok is false when the cell is empty
// and the depth must be inferred.
func ParseLevel(c Cell) (depth int, ok bool, err error) {
	var d decimal.Decimal
	switch c.Kind {
	case CellEmpty:
		return 0, false, nil
	case CellNumber:
		d = c.Number
	default:
		if d, err = decimal.NewFromString(cleanCell(c.Text)); err != nil {
			return 0, true, errNotLevel
		}
	}
	if domain.CheckRange(d) != nil || !d.IsInteger() || d.IsNegative() || d.GreaterThan(decimal.NewFromInt(2)) {
		return 0, true, errNotLevel
	}
	return int(d.IntPart()), true, nil
}

func cleanNumeric(s string) string {
	s = cleanCell(s)

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.NewReplacer(
		"$", "",
		"€", "", // Euro
		"£", "", // Pound
		",", "",
		"\u00a0", "",
		" ", "",
	).Replace(s)

	if negative {
		s = "-" + s
	}
	return s
}

// cleanCell strips spreadsheet export artifacts around a value.
func cleanCell(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}
	return strings.TrimSpace(strings.Trim(s, `"'`))
}
