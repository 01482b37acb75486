package estimate

import (
	"fmt"
	"iter"

	"github.com/alexanderramin/costbook/internal/domain"
)

type IssueKind string

const (
	IssueDuplicateCode    IssueKind = "duplicate-code"
	IssueNegativeQuantity IssueKind = "negative-quantity"
	IssueNegativeRate     IssueKind = "negative-rate"
	IssueOrphanedNode     IssueKind = "orphaned-node"
	IssueRollupMismatch   IssueKind = "rollup-mismatch"
	IssueCodeHierarchy    IssueKind = "code-hierarchy"
)

// Issue is a single structural or numeric problem found in an estimate.
type Issue struct {
	Kind    IssueKind
	NodeID  string
	Code    string
	Message string
}

func (i Issue) String() string {
	if i.Code != "" {
		return fmt.Sprintf("%s [%s]: %s", i.Kind, i.Code, i.Message)
	}
	return fmt.Sprintf("%s: %s", i.Kind, i.Message)
}

// Validate lazily reports the issues in est in display order. It never
// fails; callers decide which issues are fatal.
func Validate(est *domain.Estimate) iter.Seq[Issue] {
	return func(yield func(Issue) bool) {
		codes := make(map[int]map[string]bool)
		var visit func(nodes []*domain.Node, parent *domain.Node, depth int) bool
		visit = func(nodes []*domain.Node, parent *domain.Node, depth int) bool {
			for _, n := range nodes {
				for _, issue := range nodeIssues(n, parent, depth, codes) {
					if !yield(issue) {
						return false
					}
				}
				if !visit(n.Children, n, depth+1) {
					return false
				}
			}
			return true
		}
		visit(est.Groups, nil, 0)
	}
}

// Validate reports the issues in the tree's estimate.
func (t *Tree) Validate() iter.Seq[Issue] {
	return Validate(t.est)
}

func nodeIssues(n, parent *domain.Node, depth int, codes map[int]map[string]bool) []Issue {
	var issues []Issue
	add := func(kind IssueKind, format string, args ...any) {
		issues = append(issues, Issue{
			Kind:    kind,
			NodeID:  n.ID,
			Code:    n.Code,
			Message: fmt.Sprintf(format, args...),
		})
	}

	if want, ok := domain.KindAtDepth(depth); !ok || n.Kind != want {
		add(IssueOrphanedNode, "%s %q sits at depth %d", n.Kind, n.Name, depth)
	}

	if n.Code != "" {
		seen := codes[depth]
		if seen == nil {
			seen = make(map[string]bool)
			codes[depth] = seen
		}
		key := domain.CodeKey(n.Code)
		if seen[key] {
			add(IssueDuplicateCode, "code %q already used at depth %d", n.Code, depth)
		}
		seen[key] = true

		if parent != nil && parent.Code != "" && !domain.IsCodeParent(parent.Code, n.Code) {
			add(IssueCodeHierarchy, "code %q is not nested under parent code %q", n.Code, parent.Code)
		}
	}

	if n.Quantity.IsNegative() {
		add(IssueNegativeQuantity, "quantity %s is negative", n.Quantity)
	}
	if n.Rate.IsNegative() {
		add(IssueNegativeRate, "rate %s is negative", n.Rate)
	}

	if want := expectedAmount(n); !n.Amount.Equal(want) {
		add(IssueRollupMismatch, "amount %s, expected %s", n.Amount.StringFixed(domain.MoneyPlaces), want.StringFixed(domain.MoneyPlaces))
	}

	return issues
}
