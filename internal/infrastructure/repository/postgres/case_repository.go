package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kittipatc/opsdesk/internal/core/domain"
)

type CaseRepository struct {
	db *sql.DB
}

func NewCaseRepository(db *sql.DB) *CaseRepository {
	return &CaseRepository{db: db}
}

func (r *CaseRepository) Create(ctx context.Context, c *domain.Case) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO cases (id, title, description, category, assignee, priority, status, created_at, updated_at, closed_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
`, c.ID, c.Title, c.Description, c.Category, c.Assignee, c.Priority, string(c.Status), c.CreatedAt, c.UpdatedAt, c.ClosedAt)
	if err != nil {
		return fmt.Errorf("create case: %w", err)
	}
	return nil
}

func (r *CaseRepository) GetByID(ctx context.Context, id string) (*domain.Case, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, title, description, category, assignee, priority, status, created_at, updated_at, closed_at
FROM cases
WHERE id = $1
`, id)

	c, err := scanCase(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get case %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get case by id: %w", err)
	}
	return &c, nil
}

func (r *CaseRepository) List(ctx context.Context, status domain.CaseStatus, limit int) ([]domain.Case, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
SELECT id, title, description, category, assignee, priority, status, created_at, updated_at, closed_at
FROM cases
`
	args := []any{limit}
	if status != "" {
		query += "WHERE status = $2\n"
		args = append(args, string(status))
	}
	query += "ORDER BY priority DESC, updated_at DESC\nLIMIT $1"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Case, 0)
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan case: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cases: %w", err)
	}
	return out, nil
}

func (r *CaseRepository) Update(ctx context.Context, c *domain.Case) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE cases
SET title = $2, description = $3, category = $4, assignee = $5, priority = $6, status = $7, updated_at = $8, closed_at = $9
WHERE id = $1
`, c.ID, c.Title, c.Description, c.Category, c.Assignee, c.Priority, string(c.Status), c.UpdatedAt, c.ClosedAt)
	if err != nil {
		return fmt.Errorf("update case: %w", err)
	}
	return requireRowAffected(result, "update case", c.ID)
}

func scanCase(row rowScanner) (domain.Case, error) {
	var c domain.Case
	var status string
	err := row.Scan(
		&c.ID,
		&c.Title,
		&c.Description,
		&c.Category,
		&c.Assignee,
		&c.Priority,
		&status,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.ClosedAt,
	)
	if err != nil {
		return domain.Case{}, err
	}
	c.Status = domain.CaseStatus(status)
	return c, nil
}
