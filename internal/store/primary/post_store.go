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

// --- Post Store Implementation ---

func (s *StoreImpl) CreatePost(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (id, source, text, retry_count, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING`

	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(ctx, query, post.ID, post.Source, post.Text, post.RetryCount, post.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create post %s: %w", post.ID, err)
	}
	return nil
}

func (s *StoreImpl) GetPost(ctx context.Context, id string) (*models.Post, error) {
	query := `SELECT id, source, text, retry_count, created_at FROM posts WHERE id = $1`
	post := &models.Post{}
	if err := scanPost(s.db.QueryRow(ctx, query, id), post); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post %s: %w", id, err)
	}
	return post, nil
}

// FetchUnclassified returns posts with no classification row whose
// retry count has not reached the ceiling, newest first. The filter,
// when non-empty, restricts by post source.
func (s *StoreImpl) FetchUnclassified(ctx context.Context, filter string, maxRetries, limit, offset int) ([]*models.Post, error) {
	query := `
		SELECT p.id, p.source, p.text, p.retry_count, p.created_at
		FROM posts p
		LEFT JOIN classifications c ON c.post_id = p.id
		WHERE c.post_id IS NULL
		  AND p.retry_count < $1
		  AND ($2 = '' OR p.source = $2)
		ORDER BY p.created_at DESC, p.id
		LIMIT $3 OFFSET $4`

	rows, err := s.db.Query(ctx, query, maxRetries, filter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query unclassified posts: %w", err)
	}
	defer rows.Close()
	return collectPosts(rows)
}

// FetchFailedRetryable returns posts that failed at least once but are
// still under the retry ceiling.
func (s *StoreImpl) FetchFailedRetryable(ctx context.Context, filter string, maxRetries, limit int) ([]*models.Post, error) {
	query := `
		SELECT p.id, p.source, p.text, p.retry_count, p.created_at
		FROM posts p
		LEFT JOIN classifications c ON c.post_id = p.id
		WHERE c.post_id IS NULL
		  AND p.retry_count > 0
		  AND p.retry_count < $1
		  AND ($2 = '' OR p.source = $2)
		ORDER BY p.created_at DESC, p.id
		LIMIT $3`

	rows, err := s.db.Query(ctx, query, maxRetries, filter, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query retryable posts: %w", err)
	}
	defer rows.Close()
	return collectPosts(rows)
}

func (s *StoreImpl) CountUnclassified(ctx context.Context, filter string, maxRetries int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM posts p
		LEFT JOIN classifications c ON c.post_id = p.id
		WHERE c.post_id IS NULL
		  AND p.retry_count < $1
		  AND ($2 = '' OR p.source = $2)`

	var count int
	if err := s.db.QueryRow(ctx, query, maxRetries, filter).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unclassified posts: %w", err)
	}
	return count, nil
}

func collectPosts(rows pgx.Rows) ([]*models.Post, error) {
	var posts []*models.Post
	for rows.Next() {
		post := &models.Post{}
		if err := scanPost(rows, post); err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}
	return posts, nil
}

var _ store.PostStore = (*StoreImpl)(nil)
