package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"

	"tagwise/internal/batch"
	"tagwise/internal/tasks"
	"tagwise/pkg/classifier"
)

// ClassifyDeps bundles what the classification task handler needs.
type ClassifyDeps struct {
	Orchestrator *batch.Orchestrator
	Classifier   classifier.Classifier
}

// RegisterHandlers wires all task handlers onto the mux.
func RegisterHandlers(mux *asynq.ServeMux, deps ClassifyDeps) {
	mux.HandleFunc(tasks.TypeClassifyBatch, HandleClassifyBatch(deps))
}

// HandleClassifyBatch runs one batch synchronously inside the asynq
// worker. Asynq cancels ctx on shutdown, which the orchestrator turns
// into a cooperative batch cancellation.
func HandleClassifyBatch(deps ClassifyDeps) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload tasks.ClassifyBatchPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("unmarshal classify batch payload: %v: %w", err, asynq.SkipRetry)
		}
		log.Infof("Worker picked up batch %s (filter=%q chunk=%d)",
			payload.BatchID, payload.Filter, payload.ChunkSize)

		err := deps.Orchestrator.Run(ctx, payload.BatchID, payload.Filter, payload.ChunkSize, deps.Classifier)
		if err != nil {
			return fmt.Errorf("run batch %s: %w", payload.BatchID, err)
		}
		return nil
	}
}
