package formatter

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// Money formats d with thousands separators and exactly two decimals,
// e.g. 1234.5 -> "1,234.50".
func Money(d decimal.Decimal) string {
	return groupThousands(d.StringFixed(2))
}

// Number formats a quantity or rate with thousands separators, keeping
// only the decimals it carries.
func Number(d decimal.Decimal) string {
	return groupThousands(d.String())
}

// Percent formats a rate such as 16 or 8.25 as "16%" / "8.25%".
func Percent(d decimal.Decimal) string {
	return d.String() + "%"
}

// groupThousands inserts separators into the whole part of a plain decimal
// string. Values that do not fit an int64 are returned unchanged.
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return sign + s
	}
	out := sign + humanize.Comma(n)
	if hasFrac {
		out += "." + frac
	}
	return out
}

// HumanDate returns "Jan 2, 2006", or "-" for the zero time.
func HumanDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("Jan 2, 2006")
}

// HumanTimestamp returns a relative time such as "3 minutes ago".
func HumanTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

// TruncID shortens a UUID to its first 8 characters, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// orDash returns s, or a dim "-" when s is blank.
func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return Dim("-")
	}
	return s
}
