package formatter

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/costbook/internal/domain"
	"github.com/stretchr/testify/assert"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// stripANSI removes ANSI escape codes so assertions are terminal-independent.
func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestMoney(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"0", "0.00"},
		{"4640", "4,640.00"},
		{"1234567.5", "1,234,567.50"},
		{"999.999", "1,000.00"},
		{"-1500.25", "-1,500.25"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Money(domain.MustDecimal(tt.in)))
		})
	}
}

func TestNumber_KeepsOwnPrecision(t *testing.T) {
	assert.Equal(t, "12,500", Number(domain.MustDecimal("12500")))
	assert.Equal(t, "2.125", Number(domain.MustDecimal("2.125")))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "16%", Percent(domain.MustDecimal("16")))
	assert.Equal(t, "8.25%", Percent(domain.MustDecimal("8.25")))
}

func TestHumanDate(t *testing.T) {
	assert.Equal(t, "-", HumanDate(time.Time{}))
	assert.Equal(t, "Mar 1, 2025", HumanDate(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestHumanTimestamp(t *testing.T) {
	assert.Equal(t, "-", HumanTimestamp(time.Time{}))
	assert.Contains(t, HumanTimestamp(time.Now().Add(-3*time.Hour)), "hours ago")
}

func TestTruncID(t *testing.T) {
	assert.Equal(t, "0123abcd", stripANSI(TruncID("0123abcd-4567-89ef")))
	assert.Equal(t, "short", stripANSI(TruncID("short")))
}

func TestRenderAlignedTable_RightAlignsNumbers(t *testing.T) {
	out := stripANSI(RenderAlignedTable(
		[]string{"NAME", "AMOUNT"},
		[]Align{AlignLeft, AlignRight},
		[][]string{{"Excavation", "2,500.00"}, {"Fill", "250.00"}},
	))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, "Excavation  2,500.00", lines[2])
	assert.Equal(t, "Fill          250.00", lines[3])
}

func TestRenderTable_Empty(t *testing.T) {
	assert.Empty(t, RenderTable(nil, nil))
}

func TestRenderTree_Connectors(t *testing.T) {
	out := stripANSI(RenderTree([]TreeItem{
		{Code: "1", Title: "Sitework", Level: 0, IsLast: false, Detail: "10.00"},
		{Code: "1.1", Title: "Excavation", Level: 1, IsLast: true, Detail: "10.00"},
		{Code: "2", Title: "Structure", Level: 0, IsLast: true},
		{Code: "2.1", Title: "Footings", Level: 1, IsLast: true},
		{Code: "2.1.1", Title: "Rebar", Level: 2, IsLast: true},
	}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[1], "└─ 1.1 Excavation"))
	assert.True(t, strings.HasPrefix(lines[4], "   └─ 2.1.1 Rebar"))
	assert.True(t, strings.HasSuffix(lines[0], "10.00"))
}
