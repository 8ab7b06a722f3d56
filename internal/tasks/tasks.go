package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Task types used in Asynq.
const (
	// TypeClassifyBatch runs a classification batch to completion.
	TypeClassifyBatch = "classify:batch"
)

// ClassifyBatchPayload is the payload of a TypeClassifyBatch task.
type ClassifyBatchPayload struct {
	BatchID   string `json:"batch_id"`
	Filter    string `json:"filter"`
	ChunkSize int    `json:"chunk_size"`
}

// NewClassifyBatchTask builds the asynq task for one batch run.
func NewClassifyBatchTask(batchID, filter string, chunkSize int) (*asynq.Task, error) {
	payload, err := json.Marshal(ClassifyBatchPayload{
		BatchID:   batchID,
		Filter:    filter,
		ChunkSize: chunkSize,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal classify batch payload: %w", err)
	}
	return asynq.NewTask(TypeClassifyBatch, payload), nil
}
