package domain

import "fmt"

type EstimateStatus string

const (
	EstimateDraft    EstimateStatus = "draft"
	EstimatePending  EstimateStatus = "pending"
	EstimateApproved EstimateStatus = "approved"
	EstimateRejected EstimateStatus = "rejected"
)

// ValidEstimateStatuses is the canonical set of accepted status strings.
var ValidEstimateStatuses = map[string]bool{
	"draft": true, "pending": true, "approved": true, "rejected": true,
}

// ParseEstimateStatus returns the status for s or an error naming the accepted values.
func ParseEstimateStatus(s string) (EstimateStatus, error) {
	if !ValidEstimateStatuses[s] {
		return "", fmt.Errorf("invalid estimate status %q (expected draft|pending|approved|rejected)", s)
	}
	return EstimateStatus(s), nil
}

// NodeKind is the fixed depth role of a node in the estimate hierarchy.
type NodeKind string

const (
	NodeGroup      NodeKind = "group"
	NodeSection    NodeKind = "section"
	NodeSubsection NodeKind = "subsection"
)

// MaxDepth is the depth of the deepest node kind (subsection).
const MaxDepth = 2

// ValidNodeKinds is the canonical set of accepted node kind strings.
var ValidNodeKinds = map[string]bool{
	"group": true, "section": true, "subsection": true,
}

// ParseNodeKind returns the kind for s or an error naming the accepted values.
func ParseNodeKind(s string) (NodeKind, error) {
	if !ValidNodeKinds[s] {
		return "", fmt.Errorf("invalid node kind %q (expected group|section|subsection)", s)
	}
	return NodeKind(s), nil
}

// KindAtDepth maps a depth (0..MaxDepth) to its node kind.
func KindAtDepth(depth int) (NodeKind, bool) {
	switch depth {
	case 0:
		return NodeGroup, true
	case 1:
		return NodeSection, true
	case 2:
		return NodeSubsection, true
	}
	return "", false
}

// Depth returns the nesting depth of the kind, or -1 for unknown kinds.
func (k NodeKind) Depth() int {
	switch k {
	case NodeGroup:
		return 0
	case NodeSection:
		return 1
	case NodeSubsection:
		return 2
	}
	return -1
}

// ChildKind returns the only kind allowed directly under k.
// Subsections are leaves and report false.
func (k NodeKind) ChildKind() (NodeKind, bool) {
	switch k {
	case NodeGroup:
		return NodeSection, true
	case NodeSection:
		return NodeSubsection, true
	}
	return "", false
}
