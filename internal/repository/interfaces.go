package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/costbook/internal/domain"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// EstimateListing is a header-only view of an estimate with its totals.
type EstimateListing struct {
	Estimate  *domain.Estimate
	NodeCount int
	Subtotal  decimal.Decimal
}

// EstimateRepo persists estimates and their node trees. Node rows are
// written as a whole: callers mutate the tree in memory and replace it.
type EstimateRepo interface {
	Create(ctx context.Context, e *domain.Estimate) error
	GetByID(ctx context.Context, id string) (*domain.Estimate, error)
	List(ctx context.Context, status domain.EstimateStatus) ([]EstimateListing, error)
	UpdateHeader(ctx context.Context, e *domain.Estimate) error
	ReplaceNodes(ctx context.Context, e *domain.Estimate) error
	Delete(ctx context.Context, id string) error
}
