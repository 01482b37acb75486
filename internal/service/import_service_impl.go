package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/costbook/internal/db"
	"github.com/alexanderramin/costbook/internal/importer"
	"github.com/alexanderramin/costbook/internal/repository"
	"github.com/google/uuid"
)

const untitledEstimate = "Untitled estimate"

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
	now      func() time.Time
}

func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ImportFile loads rows from a .csv, .json or .xlsx file. Without a name
// from options or the file, the estimate is named after the file.
func (s *importService) ImportFile(ctx context.Context, path string, opts ImportOptions) (*ImportResult, error) {
	file, err := importer.LoadRows(path)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	opts.Header = opts.Header.Merge(file.Header)
	if opts.Header.Name == "" {
		opts.Header.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s.ImportRows(ctx, file.Rows, opts)
}

func (s *importService) ImportRows(ctx context.Context, rows []importer.RawRow, opts ImportOptions) (result *ImportResult, err error) {
	fields := map[string]any{"rows": len(rows), "dry_run": opts.DryRun, "strict": opts.Strict}
	defer observe(ctx, s.observer, "import-estimate", time.Now(), fields, &err)

	res := importer.Normalize(rows)
	est := res.Estimate
	if opts.Header.Name == "" {
		opts.Header.Name = untitledEstimate
	}
	if err := opts.Header.Apply(est); err != nil {
		return nil, fmt.Errorf("import header: %w", err)
	}
	est.ID = uuid.New().String()
	now := s.now()
	est.CreatedAt = now
	est.UpdatedAt = now

	result = &ImportResult{
		Estimate: est,
		Errors:   res.Errors,
		Rows:     len(rows),
		Skipped:  res.Skipped,
	}
	fields["nodes"] = est.NodeCount()
	fields["row_errors"] = len(res.Errors)

	if opts.Strict && res.HasErrors() {
		return result, fmt.Errorf("%w: %d row error(s)", ErrImportRejected, len(res.Errors))
	}
	if opts.DryRun {
		return result, nil
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLEstimateRepo(tx).Create(ctx, est)
	})
	if err != nil {
		return result, fmt.Errorf("saving imported estimate: %w", err)
	}
	result.Saved = true
	return result, nil
}
