package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/costbook/internal/db"
	"github.com/alexanderramin/costbook/internal/domain"
	"github.com/shopspring/decimal"
)

// SQLEstimateRepo implements EstimateRepo over database/sql. Queries use '?'
// placeholders; pass a db.WithDialect wrapper for Postgres.
type SQLEstimateRepo struct {
	q db.DBTX
}

// NewSQLEstimateRepo creates a new SQLEstimateRepo.
func NewSQLEstimateRepo(q db.DBTX) *SQLEstimateRepo {
	return &SQLEstimateRepo{q: q}
}

const estimateColumns = `id, name, project_ref, client_ref, issue_date, status, notes, created_at, updated_at`

func (r *SQLEstimateRepo) Create(ctx context.Context, e *domain.Estimate) error {
	query := `INSERT INTO estimates (` + estimateColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.q.ExecContext(ctx, query,
		e.ID,
		e.Name,
		e.ProjectRef,
		e.ClientRef,
		nullableTimeToString(e.IssueDate, dateLayout),
		string(e.Status),
		e.Notes,
		formatTimestamp(e.CreatedAt),
		formatTimestamp(e.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting estimate: %w", err)
	}
	return r.insertNodes(ctx, e)
}

func (r *SQLEstimateRepo) GetByID(ctx context.Context, id string) (*domain.Estimate, error) {
	query := `SELECT ` + estimateColumns + ` FROM estimates WHERE id = ?`
	e, err := scanEstimate(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("estimate %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	if err := r.loadNodes(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// List returns estimate headers, optionally filtered by status, oldest first.
// An empty status lists every estimate.
func (r *SQLEstimateRepo) List(ctx context.Context, status domain.EstimateStatus) ([]EstimateListing, error) {
	query := `SELECT ` + estimateColumns + ` FROM estimates`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at, name`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing estimates: %w", err)
	}
	defer rows.Close()

	var out []EstimateListing
	index := make(map[string]int)
	for rows.Next() {
		e, err := scanEstimate(rows)
		if err != nil {
			return nil, err
		}
		index[e.ID] = len(out)
		out = append(out, EstimateListing{Estimate: e, Subtotal: decimal.Zero})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating estimates: %w", err)
	}
	if len(out) == 0 {
		return out, nil
	}

	if err := r.accumulateTotals(ctx, out, index); err != nil {
		return nil, err
	}
	return out, nil
}

// accumulateTotals fills node counts and subtotals. Sums are done in Go so
// that no backend coerces the stored decimal strings to floating point.
func (r *SQLEstimateRepo) accumulateTotals(ctx context.Context, out []EstimateListing, index map[string]int) error {
	query := `SELECT estimate_id, CASE WHEN parent_id IS NULL THEN 1 ELSE 0 END, amount FROM estimate_nodes`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("totalling estimates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var estimateID, amountStr string
		var isRoot int
		if err := rows.Scan(&estimateID, &isRoot, &amountStr); err != nil {
			return fmt.Errorf("scanning node total: %w", err)
		}
		i, ok := index[estimateID]
		if !ok {
			continue
		}
		out[i].NodeCount++
		if isRoot == 1 {
			amount, err := parseDecimal("amount", amountStr)
			if err != nil {
				return err
			}
			out[i].Subtotal = out[i].Subtotal.Add(amount)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating node totals: %w", err)
	}
	return nil
}

func (r *SQLEstimateRepo) UpdateHeader(ctx context.Context, e *domain.Estimate) error {
	query := `UPDATE estimates SET name = ?, project_ref = ?, client_ref = ?, issue_date = ?, status = ?, notes = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.q.ExecContext(ctx, query,
		e.Name,
		e.ProjectRef,
		e.ClientRef,
		nullableTimeToString(e.IssueDate, dateLayout),
		string(e.Status),
		e.Notes,
		formatTimestamp(e.UpdatedAt),
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("updating estimate: %w", err)
	}
	return requireAffected(res, "estimate "+e.ID)
}

// ReplaceNodes deletes every stored node of e and writes its current tree.
func (r *SQLEstimateRepo) ReplaceNodes(ctx context.Context, e *domain.Estimate) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM estimate_nodes WHERE estimate_id = ?`, e.ID); err != nil {
		return fmt.Errorf("clearing estimate nodes: %w", err)
	}
	return r.insertNodes(ctx, e)
}

func (r *SQLEstimateRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM estimate_nodes WHERE estimate_id = ?`, id); err != nil {
		return fmt.Errorf("deleting estimate nodes: %w", err)
	}
	res, err := r.q.ExecContext(ctx, `DELETE FROM estimates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting estimate: %w", err)
	}
	return requireAffected(res, "estimate "+id)
}

// insertNodes writes the tree in pre-order so parents exist before children.
func (r *SQLEstimateRepo) insertNodes(ctx context.Context, e *domain.Estimate) error {
	query := `INSERT INTO estimate_nodes
		(estimate_id, id, parent_id, kind, code, name, description, quantity, unit, rate, amount, notes, order_index)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var insert func(nodes []*domain.Node, parent *domain.Node) error
	insert = func(nodes []*domain.Node, parent *domain.Node) error {
		for i, n := range nodes {
			notes, err := encodeNotes(n.Notes)
			if err != nil {
				return err
			}
			var parentID any
			if parent != nil {
				parentID = parent.ID
			}
			_, err = r.q.ExecContext(ctx, query,
				e.ID,
				n.ID,
				parentID,
				string(n.Kind),
				n.Code,
				n.Name,
				n.Description,
				n.Quantity.String(),
				n.Unit,
				n.Rate.String(),
				n.Amount.String(),
				notes,
				i,
			)
			if err != nil {
				return fmt.Errorf("inserting node %s: %w", n.ID, err)
			}
			if err := insert(n.Children, n); err != nil {
				return err
			}
		}
		return nil
	}
	return insert(e.Groups, nil)
}

// loadNodes reassembles the tree of e from its stored node rows.
func (r *SQLEstimateRepo) loadNodes(ctx context.Context, e *domain.Estimate) error {
	query := `SELECT id, parent_id, kind, code, name, description, quantity, unit, rate, amount, notes
		FROM estimate_nodes WHERE estimate_id = ? ORDER BY order_index, id`
	rows, err := r.q.QueryContext(ctx, query, e.ID)
	if err != nil {
		return fmt.Errorf("listing estimate nodes: %w", err)
	}
	defer rows.Close()

	type loaded struct {
		node     *domain.Node
		parentID sql.NullString
	}
	var all []loaded
	byID := make(map[string]*domain.Node)
	for rows.Next() {
		n, parentID, err := scanNode(rows)
		if err != nil {
			return err
		}
		all = append(all, loaded{node: n, parentID: parentID})
		byID[n.ID] = n
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating estimate nodes: %w", err)
	}

	// Rows are ordered by sibling position, so appending in row order keeps
	// every child list ordered regardless of when the parent was seen.
	e.Groups = nil
	for _, l := range all {
		if !l.parentID.Valid {
			e.Groups = append(e.Groups, l.node)
			continue
		}
		parent, ok := byID[l.parentID.String]
		if !ok {
			return fmt.Errorf("node %s references missing parent %s", l.node.ID, l.parentID.String)
		}
		parent.Children = append(parent.Children, l.node)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEstimate(s scanner) (*domain.Estimate, error) {
	var e domain.Estimate
	var statusStr, createdAtStr, updatedAtStr string
	var issueDate sql.NullString

	err := s.Scan(
		&e.ID, &e.Name, &e.ProjectRef, &e.ClientRef, &issueDate,
		&statusStr, &e.Notes, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning estimate: %w", err)
	}

	status, err := domain.ParseEstimateStatus(statusStr)
	if err != nil {
		return nil, fmt.Errorf("estimate %s: %w", e.ID, err)
	}
	e.Status = status
	e.IssueDate = parseNullableTime(issueDate, dateLayout)
	if e.CreatedAt, err = parseTimestamp(createdAtStr); err != nil {
		return nil, err
	}
	if e.UpdatedAt, err = parseTimestamp(updatedAtStr); err != nil {
		return nil, err
	}
	return &e, nil
}

func scanNode(s scanner) (*domain.Node, sql.NullString, error) {
	var n domain.Node
	var parentID sql.NullString
	var kindStr, qtyStr, rateStr, amountStr, notesStr string

	err := s.Scan(
		&n.ID, &parentID, &kindStr, &n.Code, &n.Name, &n.Description,
		&qtyStr, &n.Unit, &rateStr, &amountStr, &notesStr,
	)
	if err != nil {
		return nil, parentID, fmt.Errorf("scanning estimate node: %w", err)
	}

	if n.Kind, err = domain.ParseNodeKind(kindStr); err != nil {
		return nil, parentID, fmt.Errorf("node %s: %w", n.ID, err)
	}
	if n.Quantity, err = parseDecimal("quantity", qtyStr); err != nil {
		return nil, parentID, fmt.Errorf("node %s: %w", n.ID, err)
	}
	if n.Rate, err = parseDecimal("rate", rateStr); err != nil {
		return nil, parentID, fmt.Errorf("node %s: %w", n.ID, err)
	}
	if n.Amount, err = parseDecimal("amount", amountStr); err != nil {
		return nil, parentID, fmt.Errorf("node %s: %w", n.ID, err)
	}
	if n.Notes, err = decodeNotes(notesStr); err != nil {
		return nil, parentID, fmt.Errorf("node %s: %w", n.ID, err)
	}
	return &n, parentID, nil
}

func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}

// Compile-time contract assertion.
var _ EstimateRepo = (*SQLEstimateRepo)(nil)
