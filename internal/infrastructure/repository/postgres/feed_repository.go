package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kittipatc/opsdesk/internal/core/domain"
)

type FeedRepository struct {
	db *sql.DB
}

func NewFeedRepository(db *sql.DB) *FeedRepository {
	return &FeedRepository{db: db}
}

func (r *FeedRepository) Append(ctx context.Context, item *domain.FeedItem) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO feed_items (id, kind, title, body, ref_id, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
`, item.ID, item.Kind, item.Title, item.Body, item.RefID, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("append feed item: %w", err)
	}
	return nil
}

func (r *FeedRepository) ListRecent(ctx context.Context, limit int) ([]domain.FeedItem, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, kind, title, body, ref_id, created_at
FROM feed_items
ORDER BY created_at DESC
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list feed items: %w", err)
	}
	defer rows.Close()

	out := make([]domain.FeedItem, 0, limit)
	for rows.Next() {
		var item domain.FeedItem
		if err := rows.Scan(&item.ID, &item.Kind, &item.Title, &item.Body, &item.RefID, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan feed item: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feed items: %w", err)
	}
	return out, nil
}
