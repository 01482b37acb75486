package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/alexanderramin/costbook/internal/domain"
	"github.com/alexanderramin/costbook/internal/estimate"
	"github.com/alexanderramin/costbook/internal/repository"
	"github.com/alexanderramin/costbook/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEstimateService(t *testing.T, observers ...UseCaseObserver) (EstimateService, *sql.DB) {
	t.Helper()
	database := testutil.NewTestDB(t)
	svc := NewEstimateService(repository.NewSQLEstimateRepo(database), testutil.NewTestUoW(database), observers...)
	return svc, database
}

func ptrDec(s string) *decimal.Decimal {
	d := domain.MustDecimal(s)
	return &d
}

func ptrStr(s string) *string { return &s }

func findByCode(t *testing.T, e *domain.Estimate, code string) *domain.Node {
	t.Helper()
	var found *domain.Node
	e.Walk(func(n, _ *domain.Node, _ int) bool {
		if n.Code == code {
			found = n
			return false
		}
		return true
	})
	require.NotNil(t, found, "no node with code %s", code)
	return found
}

func TestEstimateService_CreateAssignsDefaults(t *testing.T) {
	svc, _ := newTestEstimateService(t)
	ctx := context.Background()

	est := &domain.Estimate{Name: "Clinic", Groups: []*domain.Node{
		{Kind: domain.NodeGroup, Name: "G", Quantity: domain.MustDecimal("2"), Rate: domain.MustDecimal("5")},
	}}
	require.NoError(t, svc.Create(ctx, est))

	assert.NotEmpty(t, est.ID)
	assert.Equal(t, domain.EstimateDraft, est.Status)
	assert.False(t, est.CreatedAt.IsZero())
	assert.NotEmpty(t, est.Groups[0].ID)

	fetched, err := svc.Get(ctx, est.ID)
	require.NoError(t, err)
	assert.Equal(t, "10", fetched.Groups[0].Amount.String())
}

func TestEstimateService_CreateRequiresName(t *testing.T) {
	svc, _ := newTestEstimateService(t)
	err := svc.Create(context.Background(), &domain.Estimate{Name: "  "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}

func TestEstimateService_InsertUpdateRemoveNode(t *testing.T) {
	svc, _ := newTestEstimateService(t)
	ctx := context.Background()

	est := testutil.NewSiteworkEstimate()
	require.NoError(t, svc.Create(ctx, est))
	site := findByCode(t, est, "1")

	// Kind is inferred from the parent.
	n := &domain.Node{Code: "1.3", Name: "Compaction", Quantity: domain.MustDecimal("10"), Rate: domain.MustDecimal("5")}
	require.NoError(t, svc.InsertNode(ctx, est.ID, site.ID, n))
	assert.Equal(t, domain.NodeSection, n.Kind)

	fetched, err := svc.Get(ctx, est.ID)
	require.NoError(t, err)
	assert.Equal(t, "2800", findByCode(t, fetched, "1").Amount.String())

	updated, err := svc.UpdateNode(ctx, est.ID, n.ID, estimate.Patch{Quantity: ptrDec("20"), Name: ptrStr("Compaction (2 passes)")})
	require.NoError(t, err)
	assert.Equal(t, "100", updated.Amount.String())

	fetched, err = svc.Get(ctx, est.ID)
	require.NoError(t, err)
	assert.Equal(t, "2850", findByCode(t, fetched, "1").Amount.String())
	assert.Equal(t, "Compaction (2 passes)", findByCode(t, fetched, "1.3").Name)

	require.NoError(t, svc.RemoveNode(ctx, est.ID, findByCode(t, fetched, "2").ID))
	sum, err := svc.Summary(ctx, est.ID, estimate.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "2850", sum.Subtotal.String())
	assert.Equal(t, "456", sum.TaxAmount.String())
	assert.Equal(t, "3306", sum.GrandTotal.String())
}

func TestEstimateService_FailedMutationLeavesStoredTreeUnchanged(t *testing.T) {
	svc, _ := newTestEstimateService(t)
	ctx := context.Background()

	est := testutil.NewSiteworkEstimate()
	require.NoError(t, svc.Create(ctx, est))
	before, err := svc.Get(ctx, est.ID)
	require.NoError(t, err)

	_, err = svc.UpdateNode(ctx, est.ID, findByCode(t, est, "1.1").ID, estimate.Patch{Rate: ptrDec("-1")})
	assert.ErrorIs(t, err, estimate.ErrNegativeValue)

	err = svc.InsertNode(ctx, est.ID, "", &domain.Node{Kind: domain.NodeSection, Name: "loose"})
	assert.ErrorIs(t, err, estimate.ErrInvalidParent)

	err = svc.InsertNode(ctx, est.ID, "missing", &domain.Node{Name: "x"})
	assert.ErrorIs(t, err, estimate.ErrInvalidParent)

	err = svc.RemoveNode(ctx, est.ID, "missing")
	assert.ErrorIs(t, err, estimate.ErrNodeNotFound)

	after, err := svc.Get(ctx, est.ID)
	require.NoError(t, err)
	assert.Equal(t, before.NodeCount(), after.NodeCount())
	assert.True(t, before.UpdatedAt.Equal(after.UpdatedAt))
	sumBefore := estimate.ComputeSummary(before, estimate.DefaultConfig())
	sumAfter := estimate.ComputeSummary(after, estimate.DefaultConfig())
	assert.True(t, sumBefore.GrandTotal.Equal(sumAfter.GrandTotal))
}

func TestEstimateService_MutationRollsBackOnWriteFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLEstimateRepo(database)
	ctx := context.Background()

	est := testutil.NewSiteworkEstimate()
	require.NoError(t, repo.Create(ctx, est))

	// ExecContext #1 clears the nodes, #2..#8 re-insert them; fail mid-way.
	failUoW := &testutil.FailOnNthExecUoW{
		DB:     database,
		FailOn: 4,
		Err:    fmt.Errorf("injected node insert failure"),
	}
	svc := NewEstimateService(repo, failUoW)

	_, err := svc.UpdateNode(ctx, est.ID, findByCode(t, est, "1.1").ID, estimate.Patch{Quantity: ptrDec("1")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected node insert failure")

	fetched, err := repo.GetByID(ctx, est.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, fetched.NodeCount(), "node set should be intact after rollback")
	assert.Equal(t, "100", findByCode(t, fetched, "1.1").Quantity.String())
	assert.Equal(t, "2500", findByCode(t, fetched, "1.1").Amount.String())
}

func TestEstimateService_StatusLifecycle(t *testing.T) {
	svc, _ := newTestEstimateService(t)
	ctx := context.Background()

	est := testutil.NewSiteworkEstimate()
	require.NoError(t, svc.Create(ctx, est))

	_, err := svc.SetStatus(ctx, est.ID, domain.EstimateApproved)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	got, err := svc.SetStatus(ctx, est.ID, domain.EstimatePending)
	require.NoError(t, err)
	assert.Equal(t, domain.EstimatePending, got.Status)

	_, err = svc.SetStatus(ctx, est.ID, domain.EstimateApproved)
	require.NoError(t, err)

	fetched, err := svc.Get(ctx, est.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EstimateApproved, fetched.Status)

	err = svc.RemoveNode(ctx, est.ID, findByCode(t, fetched, "1").ID)
	assert.ErrorIs(t, err, ErrEstimateLocked)

	_, err = svc.SetStatus(ctx, est.ID, domain.EstimateDraft)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestEstimateService_ListAndDelete(t *testing.T) {
	svc, _ := newTestEstimateService(t)
	ctx := context.Background()

	a := testutil.NewSiteworkEstimate()
	b := testutil.NewTestEstimate("Shed")
	require.NoError(t, svc.Create(ctx, a))
	require.NoError(t, svc.Create(ctx, b))

	listed, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	require.NoError(t, svc.Delete(ctx, b.ID))
	_, err = svc.Get(ctx, b.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	listed, err = svc.List(ctx, domain.EstimateDraft)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "4000", listed[0].Subtotal.String())
}

func TestEstimateService_ValidateReportsStoredInconsistencies(t *testing.T) {
	svc, database := newTestEstimateService(t)
	ctx := context.Background()

	est := testutil.NewSiteworkEstimate()
	require.NoError(t, svc.Create(ctx, est))

	issues, err := svc.Validate(ctx, est.ID)
	require.NoError(t, err)
	assert.Empty(t, issues)

	// Corrupt a stored amount behind the service's back.
	_, err = database.Exec(`UPDATE estimate_nodes SET amount = '1' WHERE code = '1.1'`)
	require.NoError(t, err)

	issues, err = svc.Validate(ctx, est.ID)
	require.NoError(t, err)
	require.NotEmpty(t, issues)
	for _, is := range issues {
		assert.Equal(t, estimate.IssueRollupMismatch, is.Kind)
	}
}

func TestEstimateService_SummaryRejectsNegativeTax(t *testing.T) {
	svc, _ := newTestEstimateService(t)
	ctx := context.Background()

	est := testutil.NewSiteworkEstimate()
	require.NoError(t, svc.Create(ctx, est))

	_, err := svc.Summary(ctx, est.ID, estimate.Config{TaxRatePercent: domain.MustDecimal("-5")})
	assert.Error(t, err)

	s, err := svc.Summary(ctx, est.ID, estimate.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "4000", s.Subtotal.String())
	assert.Equal(t, "640", s.TaxAmount.String())
	assert.Equal(t, "4640", s.GrandTotal.String())
}
