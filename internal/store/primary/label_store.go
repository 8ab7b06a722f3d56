package primary

import (
	"context"
	"fmt"
	"time"

	"tagwise/internal/models"
	"tagwise/internal/store"
)

// --- Label Store Implementation ---

func (s *StoreImpl) CreateLabel(ctx context.Context, label *models.Label) error {
	query := `
		INSERT INTO labels (name, kind, active, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name, kind) DO UPDATE SET active = EXCLUDED.active`

	if label.CreatedAt.IsZero() {
		label.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(ctx, query, label.Name, label.Kind, label.Active, label.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create label %q: %w", label.Name, err)
	}
	return nil
}

func (s *StoreImpl) GetActiveTopicLabels(ctx context.Context) ([]string, error) {
	return s.activeLabels(ctx, models.LabelKindTopic)
}

func (s *StoreImpl) GetActiveContentTypeLabels(ctx context.Context) ([]string, error) {
	return s.activeLabels(ctx, models.LabelKindContentType)
}

func (s *StoreImpl) activeLabels(ctx context.Context, kind string) ([]string, error) {
	query := `SELECT name FROM labels WHERE kind = $1 AND active ORDER BY name`
	rows, err := s.db.Query(ctx, query, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s labels: %w", kind, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan label row: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating label rows: %w", err)
	}
	return names, nil
}

var _ store.LabelStore = (*StoreImpl)(nil)
