package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/costbook/internal/db"
	"github.com/alexanderramin/costbook/internal/domain"
	"github.com/alexanderramin/costbook/internal/estimate"
	"github.com/alexanderramin/costbook/internal/repository"
	"github.com/google/uuid"
)

type estimateService struct {
	estimates repository.EstimateRepo
	uow       db.UnitOfWork
	txRepo    func(db.DBTX) repository.EstimateRepo
	observer  UseCaseObserver
	now       func() time.Time
}

// NewEstimateService builds the estimate use cases. Reads go through
// estimates; every write runs inside uow on a tx-scoped repository.
func NewEstimateService(estimates repository.EstimateRepo, uow db.UnitOfWork, observers ...UseCaseObserver) EstimateService {
	return &estimateService{
		estimates: estimates,
		uow:       uow,
		txRepo:    func(tx db.DBTX) repository.EstimateRepo { return repository.NewSQLEstimateRepo(tx) },
		observer:  useCaseObserverOrNoop(observers),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *estimateService) Create(ctx context.Context, e *domain.Estimate) (err error) {
	defer observe(ctx, s.observer, "create-estimate", time.Now(), map[string]any{"name": e.Name}, &err)

	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("estimate name is required")
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Status == "" {
		e.Status = domain.EstimateDraft
	}
	now := s.now()
	e.CreatedAt = now
	e.UpdatedAt = now

	if _, err = estimate.New(e); err != nil {
		return err
	}
	estimate.Recompute(e)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return s.txRepo(tx).Create(ctx, e)
	})
}

func (s *estimateService) Get(ctx context.Context, id string) (*domain.Estimate, error) {
	return s.estimates.GetByID(ctx, id)
}

func (s *estimateService) List(ctx context.Context, status domain.EstimateStatus) ([]repository.EstimateListing, error) {
	return s.estimates.List(ctx, status)
}

func (s *estimateService) InsertNode(ctx context.Context, estimateID, parentID string, n *domain.Node) (err error) {
	fields := map[string]any{"estimate": estimateID, "kind": string(n.Kind)}
	defer observe(ctx, s.observer, "insert-node", time.Now(), fields, &err)

	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return s.mutate(ctx, estimateID, func(t *estimate.Tree) error {
		if n.Kind == "" {
			n.Kind = childKindOf(t, parentID)
		}
		return t.Insert(parentID, n)
	})
}

// childKindOf is the only kind a new child of parentID may have. Unknown
// parents yield an empty kind and Insert reports them.
func childKindOf(t *estimate.Tree, parentID string) domain.NodeKind {
	if parentID == "" {
		return domain.NodeGroup
	}
	p, ok := t.Node(parentID)
	if !ok {
		return ""
	}
	kind, _ := p.Kind.ChildKind()
	return kind
}

func (s *estimateService) UpdateNode(ctx context.Context, estimateID, nodeID string, patch estimate.Patch) (updated *domain.Node, err error) {
	defer observe(ctx, s.observer, "update-node", time.Now(), map[string]any{"estimate": estimateID, "node": nodeID}, &err)

	err = s.mutate(ctx, estimateID, func(t *estimate.Tree) error {
		if err := t.Update(nodeID, patch); err != nil {
			return err
		}
		updated, _ = t.Node(nodeID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *estimateService) RemoveNode(ctx context.Context, estimateID, nodeID string) (err error) {
	defer observe(ctx, s.observer, "remove-node", time.Now(), map[string]any{"estimate": estimateID, "node": nodeID}, &err)

	return s.mutate(ctx, estimateID, func(t *estimate.Tree) error {
		return t.Remove(nodeID)
	})
}

// mutate loads the estimate inside a transaction, applies fn to its tree and
// writes the whole node set back. A failing fn leaves storage untouched.
func (s *estimateService) mutate(ctx context.Context, id string, fn func(t *estimate.Tree) error) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := s.txRepo(tx)
		est, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if est.Status == domain.EstimateApproved {
			return fmt.Errorf("estimate %s: %w", id, ErrEstimateLocked)
		}
		tree, err := estimate.New(est)
		if err != nil {
			return fmt.Errorf("loading estimate %s: %w", id, err)
		}
		if err := fn(tree); err != nil {
			return err
		}
		est.UpdatedAt = s.now()
		if err := repo.ReplaceNodes(ctx, est); err != nil {
			return err
		}
		return repo.UpdateHeader(ctx, est)
	})
}

func (s *estimateService) Summary(ctx context.Context, id string, cfg estimate.Config) (estimate.Summary, error) {
	if err := cfg.Validate(); err != nil {
		return estimate.Summary{}, err
	}
	est, err := s.estimates.GetByID(ctx, id)
	if err != nil {
		return estimate.Summary{}, err
	}
	return estimate.ComputeSummary(est, cfg), nil
}

func (s *estimateService) Validate(ctx context.Context, id string) ([]estimate.Issue, error) {
	est, err := s.estimates.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	var issues []estimate.Issue
	for issue := range estimate.Validate(est) {
		issues = append(issues, issue)
	}
	return issues, nil
}

func (s *estimateService) SetStatus(ctx context.Context, id string, status domain.EstimateStatus) (est *domain.Estimate, err error) {
	defer observe(ctx, s.observer, "set-status", time.Now(), map[string]any{"estimate": id, "status": string(status)}, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := s.txRepo(tx)
		loaded, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := loaded.Transition(status, s.now()); err != nil {
			return fmt.Errorf("estimate %s: %w", id, err)
		}
		est = loaded
		return repo.UpdateHeader(ctx, loaded)
	})
	if err != nil {
		return nil, err
	}
	return est, nil
}

func (s *estimateService) Delete(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "delete-estimate", time.Now(), map[string]any{"estimate": id}, &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return s.txRepo(tx).Delete(ctx, id)
	})
}
