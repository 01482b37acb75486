package service

import (
	"context"
	"errors"

	"github.com/alexanderramin/costbook/internal/domain"
	"github.com/alexanderramin/costbook/internal/estimate"
	"github.com/alexanderramin/costbook/internal/importer"
	"github.com/alexanderramin/costbook/internal/repository"
)

var (
	// ErrEstimateLocked is returned when editing the nodes of an approved estimate.
	ErrEstimateLocked = errors.New("estimate is approved and cannot be edited")

	// ErrImportRejected is returned by strict imports that recorded row errors.
	// The accompanying ImportResult still carries the full error list.
	ErrImportRejected = errors.New("import rejected")
)

type EstimateService interface {
	Create(ctx context.Context, e *domain.Estimate) error
	Get(ctx context.Context, id string) (*domain.Estimate, error)
	List(ctx context.Context, status domain.EstimateStatus) ([]repository.EstimateListing, error)
	InsertNode(ctx context.Context, estimateID, parentID string, n *domain.Node) error
	UpdateNode(ctx context.Context, estimateID, nodeID string, patch estimate.Patch) (*domain.Node, error)
	RemoveNode(ctx context.Context, estimateID, nodeID string) error
	Summary(ctx context.Context, id string, cfg estimate.Config) (estimate.Summary, error)
	Validate(ctx context.Context, id string) ([]estimate.Issue, error)
	SetStatus(ctx context.Context, id string, status domain.EstimateStatus) (*domain.Estimate, error)
	Delete(ctx context.Context, id string) error
}

// ImportOptions controls how a row source becomes a stored estimate.
// Header fields override those found in the source.
type ImportOptions struct {
	Header importer.Header
	DryRun bool
	Strict bool
}

// ImportResult holds the outcome of an estimate import.
type ImportResult struct {
	Estimate *domain.Estimate
	Errors   []importer.ImportError
	Rows     int
	Skipped  int
	Saved    bool
}

type ImportService interface {
	ImportFile(ctx context.Context, path string, opts ImportOptions) (*ImportResult, error)
	ImportRows(ctx context.Context, rows []importer.RawRow, opts ImportOptions) (*ImportResult, error)
}
