// Package estimate maintains the rollup invariants of an estimate tree:
// leaf amounts are quantity × rate, internal amounts are the sum of their
// children, and every mutation reconciles the ancestor chain.
//
// A Tree is not safe for concurrent use; callers serialize edits.
package estimate

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/costbook/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidParent = errors.New("invalid parent")
	ErrNodeNotFound  = errors.New("node not found")
	ErrDuplicateID   = errors.New("duplicate node id")
	ErrNegativeValue = errors.New("negative value")
)

// Tree indexes an estimate's nodes by ID so that mutations can reconcile
// only the affected ancestor chain.
type Tree struct {
	est    *domain.Estimate
	nodes  map[string]*domain.Node
	parent map[string]*domain.Node // nil for groups
}

// New indexes est. Nodes without an ID are assigned one. Amounts are taken
// as stored; call Recompute to rebuild them.
func New(est *domain.Estimate) (*Tree, error) {
	t := &Tree{
		est:    est,
		nodes:  make(map[string]*domain.Node),
		parent: make(map[string]*domain.Node),
	}
	var err error
	est.Walk(func(n, parent *domain.Node, _ int) bool {
		if n.ID == "" {
			n.ID = uuid.New().String()
		}
		if _, dup := t.nodes[n.ID]; dup {
			err = fmt.Errorf("indexing node %q: %w", n.ID, ErrDuplicateID)
			return false
		}
		t.nodes[n.ID] = n
		t.parent[n.ID] = parent
		return true
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Estimate returns the underlying estimate value.
func (t *Tree) Estimate() *domain.Estimate {
	return t.est
}

// Len returns the number of indexed nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node looks up a node by ID.
func (t *Tree) Node(id string) (*domain.Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Parent returns the parent of id, or nil for groups.
func (t *Tree) Parent(id string) (*domain.Node, error) {
	if _, ok := t.nodes[id]; !ok {
		return nil, fmt.Errorf("node %q: %w", id, ErrNodeNotFound)
	}
	return t.parent[id], nil
}

// Insert appends node as the last child of parentID, or as the last group
// when parentID is empty. The node may carry its own children. Amounts of
// the inserted subtree and of every ancestor are recomputed.
func (t *Tree) Insert(parentID string, node *domain.Node) error {
	if node == nil {
		return fmt.Errorf("inserting nil node: %w", ErrInvalidParent)
	}

	var parent *domain.Node
	if parentID == "" {
		if node.Kind != domain.NodeGroup {
			return fmt.Errorf("%s cannot be a root node: %w", node.Kind, ErrInvalidParent)
		}
	} else {
		p, ok := t.nodes[parentID]
		if !ok {
			return fmt.Errorf("parent %q does not exist: %w", parentID, ErrInvalidParent)
		}
		want, ok := p.Kind.ChildKind()
		if !ok || node.Kind != want {
			return fmt.Errorf("%s cannot be a child of %s: %w", node.Kind, p.Kind, ErrInvalidParent)
		}
		parent = p
	}

	if err := t.checkSubtree(node, make(map[string]bool)); err != nil {
		return err
	}

	// All checks passed; from here on nothing fails.
	if parent == nil {
		t.est.Groups = append(t.est.Groups, node)
	} else {
		parent.Children = append(parent.Children, node)
	}
	t.index(node, parent)
	recomputeSubtree(node)
	t.reconcileFrom(parent)
	return nil
}

// checkSubtree verifies kinds, IDs and values of a subtree about to be inserted.
func (t *Tree) checkSubtree(n *domain.Node, seen map[string]bool) error {
	if n.ID != "" {
		if _, exists := t.nodes[n.ID]; exists || seen[n.ID] {
			return fmt.Errorf("node %q: %w", n.ID, ErrDuplicateID)
		}
		seen[n.ID] = true
	}
	if err := checkNonNegative(n.Quantity, n.Rate); err != nil {
		return fmt.Errorf("node %q: %w", n.Name, err)
	}
	if len(n.Children) == 0 {
		return nil
	}
	want, ok := n.Kind.ChildKind()
	if !ok {
		return fmt.Errorf("%s cannot have children: %w", n.Kind, ErrInvalidParent)
	}
	for _, c := range n.Children {
		if c == nil || c.Kind != want {
			return fmt.Errorf("child of %s must be %s: %w", n.Kind, want, ErrInvalidParent)
		}
		if err := t.checkSubtree(c, seen); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tree) index(n, parent *domain.Node) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	t.nodes[n.ID] = n
	t.parent[n.ID] = parent
	for _, c := range n.Children {
		t.index(c, n)
	}
}

func (t *Tree) unindex(n *domain.Node) {
	delete(t.nodes, n.ID)
	delete(t.parent, n.ID)
	for _, c := range n.Children {
		t.unindex(c)
	}
}

// Patch is a partial node update. Nil fields are left unchanged.
type Patch struct {
	Code        *string
	Name        *string
	Description *string
	Unit        *string
	Quantity    *decimal.Decimal
	Rate        *decimal.Decimal
	Notes       *[]string
}

// Update applies patch to node id and reconciles its amount and ancestors.
func (t *Tree) Update(id string, patch Patch) error {
	n, ok := t.nodes[id]
	if !ok {
		return fmt.Errorf("node %q: %w", id, ErrNodeNotFound)
	}
	q := domain.DecimalFromPtrWithDefault(n.Quantity, patch.Quantity)
	r := domain.DecimalFromPtrWithDefault(n.Rate, patch.Rate)
	if err := checkNonNegative(q, r); err != nil {
		return fmt.Errorf("node %q: %w", id, err)
	}

	n.Quantity = q
	n.Rate = r
	n.Code = domain.StringFromPtrWithDefault(n.Code, patch.Code)
	n.Name = domain.StringFromPtrWithDefault(n.Name, patch.Name)
	n.Description = domain.StringFromPtrWithDefault(n.Description, patch.Description)
	n.Unit = domain.StringFromPtrWithDefault(n.Unit, patch.Unit)
	if patch.Notes != nil {
		n.Notes = append([]string(nil), (*patch.Notes)...)
	}

	t.reconcileFrom(n)
	return nil
}

// Remove detaches node id and its subtree, then reconciles former ancestors.
func (t *Tree) Remove(id string) error {
	n, ok := t.nodes[id]
	if !ok {
		return fmt.Errorf("node %q: %w", id, ErrNodeNotFound)
	}
	parent := t.parent[id]
	if parent == nil {
		t.est.Groups = removeChild(t.est.Groups, n)
	} else {
		parent.Children = removeChild(parent.Children, n)
	}
	t.unindex(n)
	t.reconcileFrom(parent)
	return nil
}

func removeChild(nodes []*domain.Node, target *domain.Node) []*domain.Node {
	out := nodes[:0]
	for _, n := range nodes {
		if n != target {
			out = append(out, n)
		}
	}
	// Clear the tail so the detached node is not retained by the backing array.
	for i := len(out); i < len(nodes); i++ {
		nodes[i] = nil
	}
	return out
}

// reconcileFrom recomputes n and every ancestor up to the root.
func (t *Tree) reconcileFrom(n *domain.Node) {
	for n != nil {
		recomputeNode(n)
		n = t.parent[n.ID]
	}
}

// Summary computes totals for the current tree.
func (t *Tree) Summary(cfg Config) Summary {
	return ComputeSummary(t.est, cfg)
}

func checkNonNegative(quantity, rate decimal.Decimal) error {
	if err := domain.CheckRange(quantity); err != nil {
		return fmt.Errorf("quantity: %w", err)
	}
	if err := domain.CheckRange(rate); err != nil {
		return fmt.Errorf("rate: %w", err)
	}
	if quantity.IsNegative() {
		return fmt.Errorf("quantity %s: %w", quantity, ErrNegativeValue)
	}
	if rate.IsNegative() {
		return fmt.Errorf("rate %s: %w", rate, ErrNegativeValue)
	}
	return nil
}
