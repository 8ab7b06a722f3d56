package primary

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"tagwise/internal/models"
	"tagwise/internal/store"
)

// --- Batch Store Implementation ---

// UpsertBatchRecord inserts or fully replaces the record for a batch
// id. The orchestrator owns the record; counters are always written as
// a consistent snapshot, never field by field.
func (s *StoreImpl) UpsertBatchRecord(ctx context.Context, rec *models.BatchRecord) error {
	query := `
		INSERT INTO batch_records
			(batch_id, filter, chunk_size, status, total_items, processed_items, failed_items,
			 error_message, started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (batch_id) DO UPDATE
		SET filter = EXCLUDED.filter,
		    chunk_size = EXCLUDED.chunk_size,
		    status = EXCLUDED.status,
		    total_items = EXCLUDED.total_items,
		    processed_items = EXCLUDED.processed_items,
		    failed_items = EXCLUDED.failed_items,
		    error_message = EXCLUDED.error_message,
		    started_at = EXCLUDED.started_at,
		    completed_at = EXCLUDED.completed_at`

	_, err := s.db.Exec(ctx, query,
		rec.BatchID, rec.Filter, rec.ChunkSize, rec.Status, rec.TotalItems,
		rec.ProcessedItems, rec.FailedItems, rec.ErrorMessage, rec.StartedAt, rec.CompletedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert batch record %s: %w", rec.BatchID, err)
	}
	return nil
}

func (s *StoreImpl) GetBatchRecord(ctx context.Context, batchID string) (*models.BatchRecord, error) {
	query := `
		SELECT batch_id, filter, chunk_size, status, total_items, processed_items, failed_items,
		       error_message, started_at, completed_at
		FROM batch_records WHERE batch_id = $1`

	rec := &models.BatchRecord{}
	err := s.db.QueryRow(ctx, query, batchID).Scan(
		&rec.BatchID, &rec.Filter, &rec.ChunkSize, &rec.Status, &rec.TotalItems,
		&rec.ProcessedItems, &rec.FailedItems, &rec.ErrorMessage, &rec.StartedAt, &rec.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get batch record %s: %w", batchID, err)
	}
	return rec, nil
}

func (s *StoreImpl) ListBatchRecords(ctx context.Context, limit, offset int) ([]*models.BatchRecord, error) {
	query := `
		SELECT batch_id, filter, chunk_size, status, total_items, processed_items, failed_items,
		       error_message, started_at, completed_at
		FROM batch_records
		ORDER BY started_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := s.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query batch records: %w", err)
	}
	defer rows.Close()

	var records []*models.BatchRecord
	for rows.Next() {
		rec := &models.BatchRecord{}
		err := rows.Scan(
			&rec.BatchID, &rec.Filter, &rec.ChunkSize, &rec.Status, &rec.TotalItems,
			&rec.ProcessedItems, &rec.FailedItems, &rec.ErrorMessage, &rec.StartedAt, &rec.CompletedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan batch record row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating batch record rows: %w", err)
	}
	return records, nil
}

var _ store.BatchStore = (*StoreImpl)(nil)
