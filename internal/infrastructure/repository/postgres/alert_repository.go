package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kittipatc/opsdesk/internal/core/domain"
)

type AlertRepository struct {
	db *sql.DB
}

func NewAlertRepository(db *sql.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

func (r *AlertRepository) Create(ctx context.Context, alert *domain.Alert) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO alerts (id, title, detail, source, severity, status, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
`, alert.ID, alert.Title, alert.Detail, alert.Source, string(alert.Severity), string(alert.Status), alert.CreatedAt, alert.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create alert: %w", err)
	}
	return nil
}

func (r *AlertRepository) GetByID(ctx context.Context, id string) (*domain.Alert, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, title, detail, source, severity, status, created_at, updated_at
FROM alerts
WHERE id = $1
`, id)

	alert, err := scanAlert(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get alert %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get alert by id: %w", err)
	}
	return &alert, nil
}

func (r *AlertRepository) List(ctx context.Context, status domain.AlertStatus, limit int) ([]domain.Alert, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
SELECT id, title, detail, source, severity, status, created_at, updated_at
FROM alerts
`
	args := []any{limit}
	if status != "" {
		query += "WHERE status = $2\n"
		args = append(args, string(status))
	}
	query += "ORDER BY created_at DESC\nLIMIT $1"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Alert, 0)
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		out = append(out, alert)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alerts: %w", err)
	}
	return out, nil
}

func (r *AlertRepository) UpdateStatus(ctx context.Context, id string, status domain.AlertStatus) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE alerts
SET status = $2, updated_at = $3
WHERE id = $1
`, id, string(status), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update alert status: %w", err)
	}
	return requireRowAffected(result, "update alert status", id)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAlert(row rowScanner) (domain.Alert, error) {
	var alert domain.Alert
	var severity, status string
	err := row.Scan(
		&alert.ID,
		&alert.Title,
		&alert.Detail,
		&alert.Source,
		&severity,
		&status,
		&alert.CreatedAt,
		&alert.UpdatedAt,
	)
	if err != nil {
		return domain.Alert{}, err
	}
	alert.Severity = domain.AlertSeverity(severity)
	alert.Status = domain.AlertStatus(status)
	return alert, nil
}
