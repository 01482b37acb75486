package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTransition is returned when a status change is not allowed
// from the estimate's current status.
var ErrInvalidTransition = errors.New("invalid status transition")

// Estimate is the root of an estimate tree: a header plus ordered groups.
type Estimate struct {
	ID         string
	Name       string
	ProjectRef string
	ClientRef  string
	IssueDate  time.Time
	Status     EstimateStatus
	Notes      string
	Groups     []*Node
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

var allowedTransitions = map[EstimateStatus][]EstimateStatus{
	EstimateDraft:    {EstimatePending},
	EstimatePending:  {EstimateApproved, EstimateRejected, EstimateDraft},
	EstimateRejected: {EstimateDraft},
}

// Transition moves the estimate to next. Approved estimates are final.
// Transitioning to the current status is a no-op.
func (e *Estimate) Transition(next EstimateStatus, now time.Time) error {
	if e.Status == next {
		return nil
	}
	for _, s := range allowedTransitions[e.Status] {
		if s == next {
			e.Status = next
			e.UpdatedAt = now
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, e.Status, next)
}

// NodeCount returns the number of nodes in the tree.
func (e *Estimate) NodeCount() int {
	count := 0
	e.Walk(func(*Node, *Node, int) bool {
		count++
		return true
	})
	return count
}

// Walk visits every node in display order (pre-order). fn receives the
// node, its parent (nil for groups) and its depth. Returning false stops
// the walk.
func (e *Estimate) Walk(fn func(n, parent *Node, depth int) bool) {
	var visit func(nodes []*Node, parent *Node, depth int) bool
	visit = func(nodes []*Node, parent *Node, depth int) bool {
		for _, n := range nodes {
			if !fn(n, parent, depth) {
				return false
			}
			if !visit(n.Children, n, depth+1) {
				return false
			}
		}
		return true
	}
	visit(e.Groups, nil, 0)
}

// Clone returns a deep copy of the estimate.
func (e *Estimate) Clone() *Estimate {
	c := *e
	c.Groups = cloneNodes(e.Groups)
	return &c
}
