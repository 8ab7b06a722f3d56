package worker

import (
	"context"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tagwise/internal/tasks"
)

func TestHandleClassifyBatch_MalformedPayloadSkipsRetry(t *testing.T) {
	handler := HandleClassifyBatch(ClassifyDeps{})

	task := asynq.NewTask(tasks.TypeClassifyBatch, []byte("not json"))
	err := handler(context.Background(), task)

	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry, "a malformed payload must not be retried")
}

func TestNewClassifyBatchTask_RoundTrip(t *testing.T) {
	task, err := tasks.NewClassifyBatchTask("b1", "weibo", 50)
	require.NoError(t, err)
	assert.Equal(t, tasks.TypeClassifyBatch, task.Type())
	assert.JSONEq(t, `{"batch_id":"b1","filter":"weibo","chunk_size":50}`, string(task.Payload()))
}
