package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/costbook/internal/domain"
	"github.com/shopspring/decimal"
)

// CellKind tags the shape of a raw spreadsheet value.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
)

// Cell is an untrusted spreadsheet value: empty, free text, or an already
// numeric value. Text is parsed only when the row is lifted into the tree.
type Cell struct {
	Kind   CellKind
	Text   string
	Number decimal.Decimal
}

// TextCell wraps s; blank strings become an empty cell.
func TextCell(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return Cell{}
	}
	return Cell{Kind: CellText, Text: s}
}

// NumberCell wraps an already numeric value.
func NumberCell(d decimal.Decimal) Cell {
	return Cell{Kind: CellNumber, Number: d}
}

// IntCell wraps an integer, typically a level.
func IntCell(n int) Cell {
	return NumberCell(decimal.NewFromInt(int64(n)))
}

func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty
}

func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return c.Number.String()
	}
	return ""
}

// UnmarshalJSON accepts null, strings and numbers. Any other literal, and
// any number outside domain.CheckRange, is kept as text so that it
// surfaces later as an invalid-number error instead of failing the whole
// document.
func (c *Cell) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*c = Cell{}
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decoding cell: %w", err)
		}
		*c = TextCell(s)
	default:
		d, err := decimal.NewFromString(string(data))
		if err != nil || domain.CheckRange(d) != nil {
			*c = TextCell(string(data))
			return nil
		}
		*c = NumberCell(d)
	}
	return nil
}

func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CellText:
		return json.Marshal(c.Text)
	case CellNumber:
		return []byte(c.Number.String()), nil
	}
	return []byte("null"), nil
}

// RawRow is one tabulated input row before validation. Line is the 1-based
// row number in the source file, or 0 when the rows did not come from a file.
type RawRow struct {
	Line        int      `json:"-"`
	Code        string   `json:"code,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Unit        string   `json:"unit,omitempty"`
	Quantity    Cell     `json:"quantity"`
	Rate        Cell     `json:"rate"`
	Amount      Cell     `json:"amount,omitempty"`
	Level       Cell     `json:"level,omitempty"`
	Notes       []string `json:"notes,omitempty"`
}

// Header carries estimate-level fields supplied next to the rows.
type Header struct {
	Name       string `json:"name"`
	ProjectRef string `json:"project,omitempty"`
	ClientRef  string `json:"client,omitempty"`
	IssueDate  string `json:"issue_date,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// File is a fully materialized row source.
type File struct {
	Header Header   `json:"estimate"`
	Rows   []RawRow `json:"rows"`
}

// Merge returns h with empty fields filled from fallback.
func (h Header) Merge(fallback Header) Header {
	return Header{
		Name:       domain.CoalesceStr(h.Name, fallback.Name),
		ProjectRef: domain.CoalesceStr(h.ProjectRef, fallback.ProjectRef),
		ClientRef:  domain.CoalesceStr(h.ClientRef, fallback.ClientRef),
		IssueDate:  domain.CoalesceStr(h.IssueDate, fallback.IssueDate),
		Notes:      domain.CoalesceStr(h.Notes, fallback.Notes),
	}
}

// Apply copies the header onto est. IssueDate must be YYYY-MM-DD when set.
func (h Header) Apply(est *domain.Estimate) error {
	if h.IssueDate != "" {
		d, err := time.Parse("2006-01-02", h.IssueDate)
		if err != nil {
			return fmt.Errorf("issue date: invalid date format %q (expected YYYY-MM-DD)", h.IssueDate)
		}
		est.IssueDate = d
	}
	est.Name = h.Name
	est.ProjectRef = h.ProjectRef
	est.ClientRef = h.ClientRef
	est.Notes = h.Notes
	return nil
}
