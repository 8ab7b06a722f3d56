package primary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"tagwise/internal/models"
	"tagwise/internal/store"
)

// --- Result Store Implementation ---

// WriteResult upserts the classification for a post. A rewrite of an
// existing result is legal (e.g. after an operator reset).
func (s *StoreImpl) WriteResult(ctx context.Context, result *models.Classification) error {
	query := `
		INSERT INTO classifications (post_id, is_low_value, topic_tags, content_types, classified_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (post_id) DO UPDATE
		SET is_low_value = EXCLUDED.is_low_value,
		    topic_tags = EXCLUDED.topic_tags,
		    content_types = EXCLUDED.content_types,
		    classified_at = EXCLUDED.classified_at`

	if result.ClassifiedAt.IsZero() {
		result.ClassifiedAt = time.Now()
	}
	_, err := s.db.Exec(ctx, query,
		result.PostID, result.IsLowValue, result.TopicTags, result.ContentTypes, result.ClassifiedAt)
	if err != nil {
		return fmt.Errorf("failed to write result for post %s: %w", result.PostID, err)
	}
	return nil
}

func (s *StoreImpl) GetResult(ctx context.Context, postID string) (*models.Classification, error) {
	query := `
		SELECT post_id, is_low_value, topic_tags, content_types, classified_at
		FROM classifications WHERE post_id = $1`

	result := &models.Classification{}
	err := s.db.QueryRow(ctx, query, postID).Scan(
		&result.PostID, &result.IsLowValue, &result.TopicTags, &result.ContentTypes, &result.ClassifiedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get result for post %s: %w", postID, err)
	}
	return result, nil
}

func (s *StoreImpl) IncrementRetry(ctx context.Context, postID string) error {
	query := `UPDATE posts SET retry_count = retry_count + 1 WHERE id = $1`
	cmdTag, err := s.db.Exec(ctx, query, postID)
	if err != nil {
		return fmt.Errorf("failed to increment retry for post %s: %w", postID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("post %s not found to increment retry: %w", postID, models.ErrNotFound)
	}
	return nil
}

func (s *StoreImpl) ResetRetry(ctx context.Context, postID string) error {
	query := `UPDATE posts SET retry_count = 0 WHERE id = $1`
	cmdTag, err := s.db.Exec(ctx, query, postID)
	if err != nil {
		return fmt.Errorf("failed to reset retry for post %s: %w", postID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("post %s not found to reset retry: %w", postID, models.ErrNotFound)
	}
	return nil
}

var _ store.ResultStore = (*StoreImpl)(nil)
