package domain

import "github.com/shopspring/decimal"

// Node is a group, section or subsection of an estimate. Amount is derived:
// quantity × rate for nodes without children, the sum of child amounts
// otherwise.
type Node struct {
	ID          string
	Kind        NodeKind
	Code        string
	Name        string
	Description string
	Quantity    decimal.Decimal
	Unit        string
	Rate        decimal.Decimal
	Amount      decimal.Decimal
	Notes       []string
	Children    []*Node
}

// HasChildren reports whether the node's amount is a rollup of its children.
func (n *Node) HasChildren() bool {
	return len(n.Children) > 0
}

// Clone returns a deep copy of the node and its subtree.
func (n *Node) Clone() *Node {
	c := *n
	if n.Notes != nil {
		c.Notes = append([]string(nil), n.Notes...)
	}
	c.Children = cloneNodes(n.Children)
	return &c
}

func cloneNodes(nodes []*Node) []*Node {
	if nodes == nil {
		return nil
	}
	out := make([]*Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}
