package testutil

import (
	"time"

	"github.com/alexanderramin/costbook/internal/domain"
	"github.com/alexanderramin/costbook/internal/estimate"
	"github.com/google/uuid"
)

// Estimate options
type EstimateOption func(*domain.Estimate)

func WithStatus(s domain.EstimateStatus) EstimateOption {
	return func(e *domain.Estimate) {
		e.Status = s
	}
}

func WithProjectRef(ref string) EstimateOption {
	return func(e *domain.Estimate) {
		e.ProjectRef = ref
	}
}

func WithClientRef(ref string) EstimateOption {
	return func(e *domain.Estimate) {
		e.ClientRef = ref
	}
}

func WithIssueDate(d time.Time) EstimateOption {
	return func(e *domain.Estimate) {
		e.IssueDate = d
	}
}

// WithGroups attaches groups and recomputes every amount.
func WithGroups(groups ...*domain.Node) EstimateOption {
	return func(e *domain.Estimate) {
		e.Groups = append(e.Groups, groups...)
		estimate.Recompute(e)
	}
}

func NewTestEstimate(name string, opts ...EstimateOption) *domain.Estimate {
	now := time.Now().UTC().Truncate(time.Second)
	e := &domain.Estimate{
		ID:        uuid.New().String(),
		Name:      name,
		Status:    domain.EstimateDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Node options
type NodeOption func(*domain.Node)

func WithCode(code string) NodeOption {
	return func(n *domain.Node) {
		n.Code = code
	}
}

func WithUnit(unit string) NodeOption {
	return func(n *domain.Node) {
		n.Unit = unit
	}
}

func WithNotes(notes ...string) NodeOption {
	return func(n *domain.Node) {
		n.Notes = notes
	}
}

func WithChildren(children ...*domain.Node) NodeOption {
	return func(n *domain.Node) {
		n.Children = append(n.Children, children...)
	}
}

// NewTestNode builds a node with the given quantity and rate. Amounts are
// left for estimate.Recompute.
func NewTestNode(kind domain.NodeKind, name, qty, rate string, opts ...NodeOption) *domain.Node {
	n := &domain.Node{
		ID:       uuid.New().String(),
		Kind:     kind,
		Name:     name,
		Quantity: domain.MustDecimal(qty),
		Rate:     domain.MustDecimal(rate),
		Unit:     "u",
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NewSiteworkEstimate returns the canonical two-group sample:
//
//	1 Sitework          = 2,750.00
//	  1.1 Excavation    100 m3 × 25.00
//	  1.2 Fill          10 m3 × 25.00
//	2 Structure         = 1,250.00
//	  2.1 Footings      = 450.00
//	    2.1.1 Rebar     150 kg × 3.00
//	  2.2 Columns       4 ea × 200.00
//
// Subtotal 4,000.00; at 16% tax 640.00, grand total 4,640.00.
func NewSiteworkEstimate(opts ...EstimateOption) *domain.Estimate {
	groups := WithGroups(
		NewTestNode(domain.NodeGroup, "Sitework", "1", "0", WithCode("1"), WithChildren(
			NewTestNode(domain.NodeSection, "Excavation", "100", "25", WithCode("1.1"), WithUnit("m3")),
			NewTestNode(domain.NodeSection, "Fill", "10", "25", WithCode("1.2"), WithUnit("m3")),
		)),
		NewTestNode(domain.NodeGroup, "Structure", "1", "0", WithCode("2"), WithChildren(
			NewTestNode(domain.NodeSection, "Footings", "1", "0", WithCode("2.1"), WithChildren(
				NewTestNode(domain.NodeSubsection, "Rebar", "150", "3", WithCode("2.1.1"), WithUnit("kg"),
					WithNotes("grade 60")),
			)),
			NewTestNode(domain.NodeSection, "Columns", "4", "200", WithCode("2.2"), WithUnit("ea")),
		)),
	)
	return NewTestEstimate("Warehouse", append([]EstimateOption{groups}, opts...)...)
}
