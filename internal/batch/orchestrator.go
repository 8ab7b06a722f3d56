package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"tagwise/internal/models"
	"tagwise/internal/store"
	"tagwise/pkg/classifier"
)

// Config holds the orchestration knobs. The zero value is usable;
// withDefaults fills in the documented defaults.
type Config struct {
	// MaxRetries is the per-post failure ceiling. A post whose retry
	// count reaches it is parked until an operator resets the counter.
	MaxRetries int
	// DefaultChunkSize bounds one fetch when the caller passes 0.
	DefaultChunkSize int
	// ChunkDelay is the pause between chunks, bounding write pressure
	// on storage.
	ChunkDelay time.Duration
	// ItemTimeout bounds one classifier call. A timeout counts as a
	// per-item failure, not a batch failure.
	ItemTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.DefaultChunkSize <= 0 {
		c.DefaultChunkSize = 20
	}
	if c.ChunkDelay <= 0 {
		c.ChunkDelay = 500 * time.Millisecond
	}
	if c.ItemTimeout <= 0 {
		c.ItemTimeout = 60 * time.Second
	}
	return c
}

// Status is the caller-facing view of one batch.
type Status struct {
	models.BatchRecord
	IsActive     bool
	CurrentChunk int
	TotalChunks  int
}

type activeRun struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Orchestrator drives classification batches. It owns the only piece
// of in-process shared mutable state, the batchID → active-run
// registry, guarded by a single mutex. Distinct batch ids may run
// concurrently; a second Start for an active id fails with
// ErrAlreadyRunning.
type Orchestrator struct {
	posts   store.PostStore
	results store.ResultStore
	batches store.BatchStore
	labels  store.LabelStore
	cfg     Config

	mu     sync.Mutex
	active map[string]*activeRun
}

func NewOrchestrator(posts store.PostStore, results store.ResultStore, batches store.BatchStore, labels store.LabelStore, cfg Config) *Orchestrator {
	return &Orchestrator{
		posts:   posts,
		results: results,
		batches: batches,
		labels:  labels,
		cfg:     cfg.withDefaults(),
		active:  make(map[string]*activeRun),
	}
}

// Start begins a batch run asynchronously and returns once the record
// is persisted with status processing. Setup failures (counting items,
// writing the record) are fatal batch-start errors reported to the
// caller, not retried per item.
func (o *Orchestrator) Start(ctx context.Context, batchID, filter string, chunkSize int, cl classifier.Classifier) error {
	rec, runCtx, err := o.begin(ctx, batchID, filter, chunkSize)
	if err != nil {
		return err
	}
	go func() {
		if err := o.runLoop(runCtx, rec, cl); err != nil {
			log.Errorf("Batch %s terminated: %v", rec.BatchID, err)
		}
	}()
	return nil
}

// Run executes a batch synchronously, returning when it reaches a
// terminal state. Cancellation of ctx stops the run the same way Stop
// does. Used by the background worker.
func (o *Orchestrator) Run(ctx context.Context, batchID, filter string, chunkSize int, cl classifier.Classifier) error {
	rec, runCtx, err := o.begin(ctx, batchID, filter, chunkSize)
	if err != nil {
		return err
	}
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			o.cancelRun(batchID)
		case <-stop:
		}
	}()
	return o.runLoop(runCtx, rec, cl)
}

// Stop signals cooperative cancellation. The running loop observes it
// at the next item boundary; callers poll Status to see the eventual
// cancelled transition. Stopping a batch that is not active marks any
// stored non-terminal record cancelled, which makes Stop idempotent.
func (o *Orchestrator) Stop(ctx context.Context, batchID string) error {
	if o.cancelRun(batchID) {
		return nil
	}
	rec, err := o.batches.GetBatchRecord(ctx, batchID)
	if err != nil {
		return err
	}
	if models.TerminalBatchStatus(rec.Status) {
		return nil
	}
	now := time.Now()
	rec.Status = models.BatchStatusCancelled
	rec.CompletedAt = &now
	return o.batches.UpsertBatchRecord(ctx, rec)
}

// Status returns the stored record plus liveness and chunk-progress
// estimates.
func (o *Orchestrator) Status(ctx context.Context, batchID string) (*Status, error) {
	rec, err := o.batches.GetBatchRecord(ctx, batchID)
	if err != nil {
		return nil, err
	}
	o.mu.Lock()
	_, isActive := o.active[batchID]
	o.mu.Unlock()

	st := &Status{BatchRecord: *rec, IsActive: isActive}
	if rec.ChunkSize > 0 {
		st.TotalChunks = (rec.TotalItems + rec.ChunkSize - 1) / rec.ChunkSize
		st.CurrentChunk = rec.ProcessedItems / rec.ChunkSize
		if st.CurrentChunk > st.TotalChunks {
			st.CurrentChunk = st.TotalChunks
		}
	}
	return st, nil
}

// ListBatches returns stored batch records, most recent first.
func (o *Orchestrator) ListBatches(ctx context.Context, limit, offset int) ([]*models.BatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return o.batches.ListBatchRecords(ctx, limit, offset)
}

// begin registers the run and persists the initial record. The run
// context is detached from the caller: returning from Start must not
// cancel the loop.
func (o *Orchestrator) begin(ctx context.Context, batchID, filter string, chunkSize int) (*models.BatchRecord, context.Context, error) {
	if batchID == "" {
		return nil, nil, fmt.Errorf("batch id cannot be empty: %w", models.ErrValidation)
	}
	if chunkSize <= 0 {
		chunkSize = o.cfg.DefaultChunkSize
	}

	o.mu.Lock()
	if _, exists := o.active[batchID]; exists {
		o.mu.Unlock()
		return nil, nil, fmt.Errorf("batch %s: %w", batchID, models.ErrAlreadyRunning)
	}
	runCtx, cancel := context.WithCancel(context.Background())
	o.active[batchID] = &activeRun{cancel: cancel, done: make(chan struct{})}
	o.mu.Unlock()

	total, err := o.posts.CountUnclassified(ctx, filter, o.cfg.MaxRetries)
	if err != nil {
		o.finish(batchID)
		return nil, nil, fmt.Errorf("count pending posts for batch %s: %w", batchID, err)
	}
	rec := &models.BatchRecord{
		BatchID:    batchID,
		Filter:     filter,
		ChunkSize:  chunkSize,
		Status:     models.BatchStatusProcessing,
		TotalItems: total,
		StartedAt:  time.Now(),
	}
	if err := o.batches.UpsertBatchRecord(ctx, rec); err != nil {
		o.finish(batchID)
		return nil, nil, fmt.Errorf("persist batch record %s: %w", batchID, err)
	}
	log.Infof("Batch %s started: %d pending items, chunk size %d", batchID, total, chunkSize)
	return rec, runCtx, nil
}

// runLoop is the batch main loop. Cancellation is observed only at
// item boundaries; store writes use detached contexts so an observed
// cancellation can still be persisted. Whatever happens, the record
// never stays in processing: panics and storage errors transition it
// to failed before surfacing.
func (o *Orchestrator) runLoop(ctx context.Context, rec *models.BatchRecord, cl classifier.Classifier) (err error) {
	defer o.finish(rec.BatchID)
	defer func() {
		if r := recover(); r != nil {
			o.persistFailed(rec, fmt.Sprintf("panic: %v", r))
			panic(r)
		}
	}()

	vocab, err := o.readVocabulary()
	if err != nil {
		o.persistFailed(rec, err.Error())
		return err
	}

	processed, failed := 0, 0
	for {
		if ctx.Err() != nil {
			return o.persistCancelled(rec, processed, failed)
		}
		// Failed items stay in the pending set for this run, so skip
		// exactly that many from the front of each fetch.
		posts, ferr := o.posts.FetchUnclassified(context.Background(), rec.Filter, o.cfg.MaxRetries, rec.ChunkSize, failed)
		if ferr != nil {
			err = fmt.Errorf("fetch chunk: %w", ferr)
			o.persistFailed(rec, err.Error())
			return err
		}
		if len(posts) == 0 {
			break
		}

		for _, post := range posts {
			if ctx.Err() != nil {
				return o.persistCancelled(rec, processed, failed)
			}
			if cerr := o.classifyOne(post, cl, vocab); cerr != nil {
				failed++
				log.Warnf("Batch %s: post %s failed (retry %d): %v", rec.BatchID, post.ID, post.RetryCount+1, cerr)
				if serr := o.results.IncrementRetry(context.Background(), post.ID); serr != nil {
					err = fmt.Errorf("increment retry for post %s: %w", post.ID, serr)
					o.persistFailed(rec, err.Error())
					return err
				}
			} else {
				processed++
			}
		}

		// counters are persisted as one consistent snapshot per chunk
		rec.ProcessedItems = processed
		rec.FailedItems = failed
		if serr := o.batches.UpsertBatchRecord(context.Background(), rec); serr != nil {
			err = fmt.Errorf("persist progress: %w", serr)
			o.persistFailed(rec, err.Error())
			return err
		}

		select {
		case <-ctx.Done():
			return o.persistCancelled(rec, processed, failed)
		case <-time.After(o.cfg.ChunkDelay):
		}
	}

	now := time.Now()
	rec.ProcessedItems = processed
	rec.FailedItems = failed
	rec.Status = models.BatchStatusCompleted
	rec.CompletedAt = &now
	if serr := o.batches.UpsertBatchRecord(context.Background(), rec); serr != nil {
		return fmt.Errorf("persist completed batch %s: %w", rec.BatchID, serr)
	}
	log.Infof("Batch %s completed: processed=%d failed=%d", rec.BatchID, processed, failed)
	return nil
}

// classifyOne runs the classifier with its own timeout and writes the
// result back. The timeout context is detached from the run context on
// purpose: an in-flight call completes or times out on its own, it is
// never interrupted by Stop.
func (o *Orchestrator) classifyOne(post *models.Post, cl classifier.Classifier, vocab classifier.Vocabulary) error {
	itemCtx, cancel := context.WithTimeout(context.Background(), o.cfg.ItemTimeout)
	defer cancel()

	res, err := cl.Classify(itemCtx, post.Text, vocab)
	if err != nil {
		return err
	}
	result := &models.Classification{
		PostID:       post.ID,
		IsLowValue:   res.IsLowValue,
		TopicTags:    res.TopicTags,
		ContentTypes: res.ContentTypes,
		ClassifiedAt: time.Now(),
	}
	if err := o.results.WriteResult(context.Background(), result); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	if err := o.results.ResetRetry(context.Background(), post.ID); err != nil {
		return fmt.Errorf("reset retry: %w", err)
	}
	return nil
}

// readVocabulary loads the active labels once per batch.
func (o *Orchestrator) readVocabulary() (classifier.Vocabulary, error) {
	ctx := context.Background()
	topics, err := o.labels.GetActiveTopicLabels(ctx)
	if err != nil {
		return classifier.Vocabulary{}, fmt.Errorf("read topic labels: %w", err)
	}
	types, err := o.labels.GetActiveContentTypeLabels(ctx)
	if err != nil {
		return classifier.Vocabulary{}, fmt.Errorf("read content type labels: %w", err)
	}
	return classifier.Vocabulary{TopicLabels: topics, ContentTypeLabels: types}, nil
}

func (o *Orchestrator) persistCancelled(rec *models.BatchRecord, processed, failed int) error {
	now := time.Now()
	rec.ProcessedItems = processed
	rec.FailedItems = failed
	rec.Status = models.BatchStatusCancelled
	rec.CompletedAt = &now
	if err := o.batches.UpsertBatchRecord(context.Background(), rec); err != nil {
		log.Errorf("Failed to persist cancelled batch %s: %v", rec.BatchID, err)
	}
	log.Infof("Batch %s cancelled: processed=%d failed=%d", rec.BatchID, processed, failed)
	return nil
}

func (o *Orchestrator) persistFailed(rec *models.BatchRecord, message string) {
	now := time.Now()
	rec.Status = models.BatchStatusFailed
	rec.ErrorMessage = &message
	rec.CompletedAt = &now
	if err := o.batches.UpsertBatchRecord(context.Background(), rec); err != nil {
		log.Errorf("Failed to persist failed batch %s: %v", rec.BatchID, err)
	}
}

// cancelRun cancels the active run for batchID, reporting whether one
// existed.
func (o *Orchestrator) cancelRun(batchID string) bool {
	o.mu.Lock()
	run, ok := o.active[batchID]
	o.mu.Unlock()
	if ok {
		run.cancel()
	}
	return ok
}

func (o *Orchestrator) finish(batchID string) {
	o.mu.Lock()
	if run, ok := o.active[batchID]; ok {
		close(run.done)
		delete(o.active, batchID)
	}
	o.mu.Unlock()
}

// WaitUntilDone blocks until the named run deregisters, or ctx
// expires. Intended for tests and graceful shutdown.
func (o *Orchestrator) WaitUntilDone(ctx context.Context, batchID string) error {
	o.mu.Lock()
	run, ok := o.active[batchID]
	o.mu.Unlock()
	if !ok {
		return nil
	}
	select {
	case <-run.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
