package importer

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/costbook/internal/domain"
	"github.com/alexanderramin/costbook/internal/estimate"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Result is the outcome of Normalize. Estimate is always non-nil and fully
// rolled up; Errors lists every row-level problem in input order.
type Result struct {
	Estimate *domain.Estimate
	Errors   []ImportError
	Skipped  int
}

func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// ErrorsOfKind filters Errors by kind.
func (r *Result) ErrorsOfKind(kind ErrorKind) []ImportError {
	var out []ImportError
	for _, e := range r.Errors {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// CountByKind tallies Errors per kind.
func (r *Result) CountByKind() map[ErrorKind]int {
	counts := make(map[ErrorKind]int)
	for _, e := range r.Errors {
		counts[e.Kind]++
	}
	return counts
}

type normalizer struct {
	est       *domain.Estimate
	errs      []ImportError
	skipped   int
	open      []*domain.Node
	codes     map[int]map[string]bool
	prevDepth int
}

// Normalize lifts flat rows into a three-level estimate tree. It never
// fails: malformed rows are skipped or repaired and reported in Errors.
func Normalize(rows []RawRow) *Result {
	n := &normalizer{
		est:   &domain.Estimate{Status: domain.EstimateDraft},
		codes: make(map[int]map[string]bool),
	}
	for i, row := range rows {
		n.add(i, row)
	}
	estimate.Recompute(n.est)
	return &Result{Estimate: n.est, Errors: n.errs, Skipped: n.skipped}
}

func (n *normalizer) report(kind ErrorKind, idx int, row RawRow, column, value, format string, args ...any) {
	n.errs = append(n.errs, ImportError{
		Kind:     kind,
		RowIndex: idx,
		Line:     row.Line,
		Column:   column,
		Value:    value,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (n *normalizer) add(idx int, row RawRow) {
	code := strings.TrimSpace(row.Code)

	depth, explicit, err := ParseLevel(row.Level)
	if err != nil {
		n.report(KindInvalidLevel, idx, row, "level", row.Level.String(), "%v", err)
		n.skipped++
		return
	}
	if !explicit {
		depth = n.inferDepth(code)
		if depth > domain.MaxDepth {
			n.report(KindInvalidLevel, idx, row, "code", code,
				"code %q nests deeper than a subsection", code)
			n.skipped++
			return
		}
	}

	if depth > len(n.open) {
		n.report(KindOrphanRow, idx, row, "level", row.Level.String(),
			"depth %d has no open parent at depth %d", depth, depth-1)
		n.skipped++
		return
	}

	n.open = n.open[:depth]
	kind, _ := domain.KindAtDepth(depth)
	node := &domain.Node{
		ID:          uuid.New().String(),
		Kind:        kind,
		Code:        code,
		Name:        strings.TrimSpace(row.Name),
		Description: strings.TrimSpace(row.Description),
		Unit:        strings.TrimSpace(row.Unit),
		Quantity:    n.number(idx, row, "quantity", row.Quantity),
		Rate:        n.number(idx, row, "rate", row.Rate),
		Notes:       append([]string(nil), row.Notes...),
	}

	if node.Name == "" {
		n.report(KindMissingName, idx, row, "name", "", "row has no name, using code %q", code)
		node.Name = code
	}

	if code != "" {
		seen := n.codes[depth]
		if seen == nil {
			seen = make(map[string]bool)
			n.codes[depth] = seen
		}
		key := domain.CodeKey(code)
		if seen[key] {
			n.report(KindDuplicateCode, idx, row, "code", code,
				"code %q already used by another %s", code, kind)
		}
		seen[key] = true
	}

	var parent *domain.Node
	if depth > 0 {
		parent = n.open[depth-1]
	}
	if explicit && parent != nil && parent.Code != "" && code != "" && !domain.IsCodeParent(parent.Code, code) {
		n.report(KindCodeHierarchy, idx, row, "code", code,
			"code %q is not nested under parent code %q", code, parent.Code)
	}

	if parent == nil {
		n.est.Groups = append(n.est.Groups, node)
	} else {
		parent.Children = append(parent.Children, node)
	}
	n.open = append(n.open, node)
	n.prevDepth = depth
}

// inferDepth places a row without an explicit level. The deepest open node
// whose code prefixes this code becomes the parent; rows without a code stay
// at the previous depth.
func (n *normalizer) inferDepth(code string) int {
	if code == "" {
		return n.prevDepth
	}
	for d := len(n.open) - 1; d >= 0; d-- {
		if domain.IsCodeParent(n.open[d].Code, code) {
			return d + 1
		}
	}
	return 0
}

func (n *normalizer) number(idx int, row RawRow, column string, c Cell) decimal.Decimal {
	d, err := ParseNumber(c)
	if err != nil {
		n.report(KindInvalidNumber, idx, row, column, c.String(),
			"%s %q: %v, using 0", column, c.String(), err)
		return decimal.Zero
	}
	return d
}
