package store

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"

	"tagwise/internal/tasks"
)

// AsynqJobClient enqueues classification batch tasks onto Redis for
// the worker process to pick up.
type AsynqJobClient struct {
	client *asynq.Client
}

func NewAsynqJobClient(redisAddr, redisPassword string, redisDB int) (*AsynqJobClient, error) {
	if redisAddr == "" {
		return nil, fmt.Errorf("redis address cannot be empty for AsynqJobClient")
	}
	cli := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       redisDB,
	})
	return &AsynqJobClient{client: cli}, nil
}

func (jc *AsynqJobClient) Close() error {
	return jc.client.Close()
}

// EnqueueClassifyBatch schedules one batch run on the classification
// queue. The task is keyed by batch id so a duplicate enqueue of an
// unfinished batch is rejected by asynq rather than run twice.
func (jc *AsynqJobClient) EnqueueClassifyBatch(ctx context.Context, batchID, filter string, chunkSize int) error {
	task, err := tasks.NewClassifyBatchTask(batchID, filter, chunkSize)
	if err != nil {
		return err
	}
	info, err := jc.client.EnqueueContext(ctx, task,
		asynq.Queue("classification"),
		asynq.TaskID(batchID),
	)
	if err != nil {
		return fmt.Errorf("enqueue classify batch %s: %w", batchID, err)
	}
	log.Debugf("Enqueued classify batch task id=%s queue=%s", info.ID, info.Queue)
	return nil
}

var _ JobClient = (*AsynqJobClient)(nil)
