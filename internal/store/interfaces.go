package store

import (
	"context"

	"tagwise/internal/models"
)

// --- Post Store ---

// PostStore supplies items to classify. FetchUnclassified returns
// posts with no classification row and a retry count below maxRetries,
// newest first, so repeated fetches make forward progress as results
// are written back.
type PostStore interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id string) (*models.Post, error)
	FetchUnclassified(ctx context.Context, filter string, maxRetries, limit, offset int) ([]*models.Post, error)
	FetchFailedRetryable(ctx context.Context, filter string, maxRetries, limit int) ([]*models.Post, error)
	CountUnclassified(ctx context.Context, filter string, maxRetries int) (int, error)

	Ping(ctx context.Context) error
}

// --- Result Store ---

type ResultStore interface {
	WriteResult(ctx context.Context, result *models.Classification) error
	GetResult(ctx context.Context, postID string) (*models.Classification, error)
	IncrementRetry(ctx context.Context, postID string) error
	ResetRetry(ctx context.Context, postID string) error
}

// --- Batch Store ---

type BatchStore interface {
	UpsertBatchRecord(ctx context.Context, rec *models.BatchRecord) error
	GetBatchRecord(ctx context.Context, batchID string) (*models.BatchRecord, error)
	ListBatchRecords(ctx context.Context, limit, offset int) ([]*models.BatchRecord, error)
}

// --- Label Store ---

// LabelStore is the vocabulary source. Active labels may change
// between batch runs; the orchestrator re-reads them at batch start,
// not per item.
type LabelStore interface {
	GetActiveTopicLabels(ctx context.Context) ([]string, error)
	GetActiveContentTypeLabels(ctx context.Context) ([]string, error)
	CreateLabel(ctx context.Context, label *models.Label) error
}

// --- Job Client ---

type JobClient interface {
	EnqueueClassifyBatch(ctx context.Context, batchID, filter string, chunkSize int) error
	Close() error
}
