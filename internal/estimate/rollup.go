package estimate

import (
	"github.com/alexanderramin/costbook/internal/domain"
	"github.com/shopspring/decimal"
)

// Recompute rebuilds every amount in est bottom-up.
func Recompute(est *domain.Estimate) {
	for _, g := range est.Groups {
		recomputeSubtree(g)
	}
}

// recomputeSubtree is a post-order walk: children settle before their parent.
func recomputeSubtree(n *domain.Node) {
	for _, c := range n.Children {
		recomputeSubtree(c)
	}
	recomputeNode(n)
}

// recomputeNode assumes the node's children are already consistent.
func recomputeNode(n *domain.Node) {
	n.Amount = expectedAmount(n)
}

func expectedAmount(n *domain.Node) decimal.Decimal {
	if !n.HasChildren() {
		return domain.LineAmount(n.Quantity, n.Rate)
	}
	return sumAmounts(n.Children)
}

func sumAmounts(nodes []*domain.Node) decimal.Decimal {
	total := decimal.Zero
	for _, n := range nodes {
		total = total.Add(n.Amount)
	}
	return total
}
