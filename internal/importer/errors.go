package importer

import "fmt"

// ErrorKind classifies a row-level import problem.
type ErrorKind string

const (
	KindOrphanRow     ErrorKind = "orphan-row"
	KindInvalidNumber ErrorKind = "invalid-number"
	KindDuplicateCode ErrorKind = "duplicate-code"
	KindInvalidLevel  ErrorKind = "invalid-level"
	KindCodeHierarchy ErrorKind = "code-hierarchy"
	KindMissingName   ErrorKind = "missing-name"
)

// ImportError is a non-fatal problem found while lifting rows into a tree.
// RowIndex is the 0-based position in the input rows; Line is the source
// file row when known.
type ImportError struct {
	Kind     ErrorKind `json:"kind"`
	RowIndex int       `json:"row_index"`
	Line     int       `json:"line,omitempty"`
	Column   string    `json:"column,omitempty"`
	Value    string    `json:"value,omitempty"`
	Message  string    `json:"message"`
}

func (e ImportError) String() string {
	loc := fmt.Sprintf("row %d", e.RowIndex)
	if e.Line > 0 {
		loc = fmt.Sprintf("row %d (line %d)", e.RowIndex, e.Line)
	}
	if e.Column != "" {
		loc += " " + e.Column
	}
	return fmt.Sprintf("%s: %s: %s", loc, e.Kind, e.Message)
}
