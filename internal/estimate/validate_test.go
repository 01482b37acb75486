package estimate

import (
	"testing"

	"github.com/alexanderramin/costbook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectIssues(est *domain.Estimate) []Issue {
	var out []Issue
	for issue := range Validate(est) {
		out = append(out, issue)
	}
	return out
}

func issueKinds(issues []Issue) []IssueKind {
	kinds := make([]IssueKind, len(issues))
	for i, is := range issues {
		kinds[i] = is.Kind
	}
	return kinds
}

func TestValidate_CleanTree(t *testing.T) {
	tree := newSampleTree(t)
	assert.Empty(t, collectIssues(tree.Estimate()))
}

func TestValidate_DuplicateCodeAtSameDepth(t *testing.T) {
	tree := newSampleTree(t)
	require.NoError(t, tree.Insert("", node("g2", domain.NodeGroup, "2", "1", "1")))
	require.NoError(t, tree.Insert("g2", node("s9", domain.NodeSection, "1.1", "1", "1")))

	issues := collectIssues(tree.Estimate())
	require.NotEmpty(t, issues)
	assert.Contains(t, issueKinds(issues), IssueDuplicateCode)
	for _, is := range issues {
		if is.Kind == IssueDuplicateCode {
			assert.Equal(t, "s9", is.NodeID, "the first occurrence is not flagged")
		}
	}
}

func TestValidate_DuplicateCodeIgnoresZeroSuffix(t *testing.T) {
	est := &domain.Estimate{Groups: []*domain.Node{
		{ID: "g1", Kind: domain.NodeGroup, Code: "1"},
		{ID: "g2", Kind: domain.NodeGroup, Code: "1.0"},
	}}
	Recompute(est)

	issues := collectIssues(est)
	require.Len(t, issues, 1)
	assert.Equal(t, IssueDuplicateCode, issues[0].Kind)
	assert.Equal(t, "g2", issues[0].NodeID)
}

func TestValidate_SameCodeAtDifferentDepthsIsAllowed(t *testing.T) {
	est := &domain.Estimate{Groups: []*domain.Node{
		{ID: "g", Kind: domain.NodeGroup, Code: "A", Children: []*domain.Node{
			{ID: "s", Kind: domain.NodeSection, Code: "A"},
		}},
	}}
	Recompute(est)
	assert.NotContains(t, issueKinds(collectIssues(est)), IssueDuplicateCode)
}

func TestValidate_NegativeValues(t *testing.T) {
	est := &domain.Estimate{Groups: []*domain.Node{
		{ID: "g", Kind: domain.NodeGroup, Quantity: dec("-1"), Rate: dec("-2")},
	}}
	Recompute(est)

	kinds := issueKinds(collectIssues(est))
	assert.Contains(t, kinds, IssueNegativeQuantity)
	assert.Contains(t, kinds, IssueNegativeRate)
}

func TestValidate_OrphanedNode(t *testing.T) {
	est := &domain.Estimate{Groups: []*domain.Node{
		{ID: "s", Kind: domain.NodeSection, Name: "loose section"},
	}}
	issues := collectIssues(est)
	require.Len(t, issues, 1)
	assert.Equal(t, IssueOrphanedNode, issues[0].Kind)
	assert.Equal(t, "s", issues[0].NodeID)
}

func TestValidate_RollupMismatch(t *testing.T) {
	tree := newSampleTree(t)
	s1, _ := tree.Node("s1")
	s1.Amount = dec("1")

	issues := collectIssues(tree.Estimate())
	var mismatched []string
	for _, is := range issues {
		if is.Kind == IssueRollupMismatch {
			mismatched = append(mismatched, is.NodeID)
		}
	}
	// s1 disagrees with its children, and g1 now disagrees with s1.
	assert.ElementsMatch(t, []string{"s1", "g1"}, mismatched)
}

func TestValidate_CodeHierarchy(t *testing.T) {
	tree := newSampleTree(t)
	require.NoError(t, tree.Insert("s2", node("x7", domain.NodeSubsection, "3.1.1", "1", "1")))

	issues := collectIssues(tree.Estimate())
	require.Len(t, issues, 1)
	assert.Equal(t, IssueCodeHierarchy, issues[0].Kind)
	assert.Contains(t, issues[0].String(), "3.1.1")
}

func TestValidate_ZeroSuffixParentCode(t *testing.T) {
	est := &domain.Estimate{Groups: []*domain.Node{
		{ID: "g", Kind: domain.NodeGroup, Code: "1.0", Children: []*domain.Node{
			{ID: "s", Kind: domain.NodeSection, Code: "1.1"},
		}},
	}}
	Recompute(est)
	assert.Empty(t, collectIssues(est))
}

func TestValidate_IsLazy(t *testing.T) {
	est := &domain.Estimate{Groups: []*domain.Node{
		{ID: "a", Kind: domain.NodeSection},
		{ID: "b", Kind: domain.NodeSection},
		{ID: "c", Kind: domain.NodeSection},
	}}

	seen := 0
	for range Validate(est) {
		seen++
		break
	}
	assert.Equal(t, 1, seen)
}
