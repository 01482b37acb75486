package estimate

import (
	"testing"

	"github.com/alexanderramin/costbook/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSummary_SiteworkExample(t *testing.T) {
	tree, err := New(&domain.Estimate{})
	require.NoError(t, err)
	require.NoError(t, tree.Insert("", node("g", domain.NodeGroup, "1", "1", "0")))
	require.NoError(t, tree.Insert("g", node("s", domain.NodeSection, "1.1", "100", "25")))

	s := tree.Summary(Config{TaxRatePercent: dec("16")})
	assertDec(t, "2500", s.Subtotal)
	assertDec(t, "400", s.TaxAmount)
	assertDec(t, "2900", s.GrandTotal)
	assertDec(t, "16", s.TaxRatePercent)
}

func TestComputeSummary_SumsAllGroups(t *testing.T) {
	tree := newSampleTree(t)
	require.NoError(t, tree.Insert("", node("g2", domain.NodeGroup, "2", "2", "27")))

	s := tree.Summary(Config{TaxRatePercent: decimal.Zero})
	assertDec(t, "500", s.Subtotal)
	assertDec(t, "0", s.TaxAmount)
	assertDec(t, "500", s.GrandTotal)
}

func TestComputeSummary_EmptyEstimate(t *testing.T) {
	s := ComputeSummary(&domain.Estimate{}, DefaultConfig())
	assert.True(t, s.Subtotal.IsZero())
	assert.True(t, s.TaxAmount.IsZero())
	assert.True(t, s.GrandTotal.IsZero())
}

func TestComputeSummary_GrandTotalIdentity(t *testing.T) {
	est := &domain.Estimate{Groups: []*domain.Node{
		node("a", domain.NodeGroup, "1", "3", "333.33"),
		node("b", domain.NodeGroup, "2", "7", "0.07"),
	}}
	Recompute(est)

	for _, rate := range []string{"0", "1", "7.5", "16", "33.333", "100", "250"} {
		s := ComputeSummary(est, Config{TaxRatePercent: dec(rate)})
		assert.Truef(t, s.GrandTotal.Equal(s.Subtotal.Add(s.TaxAmount)), "rate %s", rate)
		assert.Truef(t, s.TaxAmount.Equal(s.TaxAmount.Round(2)), "rate %s: tax %s has sub-cent digits", rate, s.TaxAmount)
	}
}

func TestComputeSummary_TaxRoundsHalfAwayFromZero(t *testing.T) {
	est := &domain.Estimate{Groups: []*domain.Node{node("a", domain.NodeGroup, "1", "1", "0.05")}}
	Recompute(est)

	s := ComputeSummary(est, Config{TaxRatePercent: dec("10")})
	assertDec(t, "0.01", s.TaxAmount)
	assertDec(t, "0.06", s.GrandTotal)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.NoError(t, Config{TaxRatePercent: decimal.Zero}.Validate())
	assert.Error(t, Config{TaxRatePercent: dec("-1")}.Validate())
	assert.ErrorIs(t, Config{TaxRatePercent: dec("1e100000000")}.Validate(), domain.ErrOutOfRange)
}

func TestDefaultConfig_IsSixteenPercent(t *testing.T) {
	assertDec(t, "16", DefaultConfig().TaxRatePercent)
}
