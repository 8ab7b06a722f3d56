package apihandlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tagwise/internal/app"
	"tagwise/internal/batch"
	"tagwise/internal/models"
	"tagwise/internal/rules"
	"tagwise/internal/textfeat"
	"tagwise/pkg/classifier"
)

// --- In-memory store ---

type stubStore struct {
	mu         sync.Mutex
	posts      []*models.Post
	classified map[string]bool
	batches    map[string]*models.BatchRecord
}

func newStubStore(posts ...*models.Post) *stubStore {
	return &stubStore{
		posts:      posts,
		classified: make(map[string]bool),
		batches:    make(map[string]*models.BatchRecord),
	}
}

func (s *stubStore) pending() []*models.Post {
	var out []*models.Post
	for _, p := range s.posts {
		if !s.classified[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

func (s *stubStore) CreatePost(ctx context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = append(s.posts, post)
	return nil
}

func (s *stubStore) GetPost(ctx context.Context, id string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *stubStore) FetchUnclassified(ctx context.Context, filter string, maxRetries, limit, offset int) ([]*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending := s.pending()
	if offset >= len(pending) {
		return nil, nil
	}
	pending = pending[offset:]
	if len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (s *stubStore) FetchFailedRetryable(ctx context.Context, filter string, maxRetries, limit int) ([]*models.Post, error) {
	return nil, nil
}

func (s *stubStore) CountUnclassified(ctx context.Context, filter string, maxRetries int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending()), nil
}

func (s *stubStore) Ping(ctx context.Context) error { return nil }

func (s *stubStore) WriteResult(ctx context.Context, result *models.Classification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.classified[result.PostID] = true
	return nil
}

func (s *stubStore) GetResult(ctx context.Context, postID string) (*models.Classification, error) {
	return nil, models.ErrNotFound
}

func (s *stubStore) IncrementRetry(ctx context.Context, postID string) error { return nil }
func (s *stubStore) ResetRetry(ctx context.Context, postID string) error     { return nil }

func (s *stubStore) UpsertBatchRecord(ctx context.Context, rec *models.BatchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	s.batches[rec.BatchID] = &cp
	return nil
}

func (s *stubStore) GetBatchRecord(ctx context.Context, batchID string) (*models.BatchRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.batches[batchID]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (s *stubStore) ListBatchRecords(ctx context.Context, limit, offset int) ([]*models.BatchRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.BatchRecord
	for _, rec := range s.batches {
		cp := *rec
		out = append(out, &cp)
	}
	return out, nil
}

func (s *stubStore) GetActiveTopicLabels(ctx context.Context) ([]string, error) {
	return []string{"人工智能", "编程"}, nil
}

func (s *stubStore) GetActiveContentTypeLabels(ctx context.Context) ([]string, error) {
	return []string{"研究/数据", "个人经历/成长", "闲聊/日常"}, nil
}

func (s *stubStore) CreateLabel(ctx context.Context, label *models.Label) error { return nil }

// gateClassifier blocks every call until release is closed, keeping a
// run active for as long as a test needs it.
type gateClassifier struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gateClassifier) Classify(ctx context.Context, text string, vocab classifier.Vocabulary) (classifier.Result, error) {
	g.once.Do(func() { close(g.started) })
	<-g.release
	return classifier.Result{}, nil
}

// --- Harness ---

func newTestApp(t *testing.T, cl classifier.Classifier, st *stubStore) *app.App {
	t.Helper()
	ruleSet, err := rules.NewRuleSet(rules.DefaultRules())
	require.NoError(t, err)
	rc := classifier.NewRuleClassifier(rules.NewScorer(ruleSet, textfeat.NewExtractor()))
	if cl == nil {
		cl = rc
	}
	return &app.App{
		PostStore:      st,
		ResultStore:    st,
		BatchStore:     st,
		LabelStore:     st,
		RuleClassifier: rc,
		Classifier:     cl,
		Orchestrator: batch.NewOrchestrator(st, st, st, st, batch.Config{
			ChunkDelay:  time.Millisecond,
			ItemTimeout: time.Second,
		}),
	}
}

func newTestRouter(a *app.App) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAPIHandler(a)
	api := r.Group("/api/v1")
	api.POST("/batches", h.StartBatchHandler)
	api.GET("/batches", h.ListBatchesHandler)
	api.GET("/batches/:id", h.GetBatchHandler)
	api.DELETE("/batches/:id", h.StopBatchHandler)
	api.POST("/classify", h.ClassifyHandler)
	return r
}

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// --- Tests ---

func TestStartBatchHandler_RunsBatchToCompletion(t *testing.T) {
	a := newTestApp(t, nil, newStubStore())
	r := newTestRouter(a)

	w := doRequest(r, http.MethodPost, "/api/v1/batches", `{"batchId":"b1"}`)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), `"b1"`)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, a.Orchestrator.WaitUntilDone(ctx, "b1"))

	w = doRequest(r, http.MethodGet, "/api/v1/batches/b1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), models.BatchStatusCompleted)
}

func TestStartBatchHandler_ConflictWhenAlreadyRunning(t *testing.T) {
	gate := &gateClassifier{started: make(chan struct{}), release: make(chan struct{})}
	st := newStubStore(&models.Post{ID: "p1", Source: "weibo", Text: "文本"})
	a := newTestApp(t, gate, st)
	r := newTestRouter(a)

	w := doRequest(r, http.MethodPost, "/api/v1/batches", `{"batchId":"b1"}`)
	require.Equal(t, http.StatusAccepted, w.Code)

	select {
	case <-gate.started:
	case <-time.After(2 * time.Second):
		t.Fatal("batch never reached the classifier")
	}

	w = doRequest(r, http.MethodPost, "/api/v1/batches", `{"batchId":"b1"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"conflict"`)

	close(gate.release)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, a.Orchestrator.WaitUntilDone(ctx, "b1"))
}

func TestStartBatchHandler_BadRequest(t *testing.T) {
	a := newTestApp(t, nil, newStubStore())
	r := newTestRouter(a)

	for name, body := range map[string]string{
		"malformed body":      `not json`,
		"negative chunk size": `{"chunkSize":-1}`,
	} {
		t.Run(name, func(t *testing.T) {
			w := doRequest(r, http.MethodPost, "/api/v1/batches", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"bad_request"`)
		})
	}
}

func TestStartBatchHandler_AsyncRequiresJobQueue(t *testing.T) {
	a := newTestApp(t, nil, newStubStore())
	r := newTestRouter(a)

	w := doRequest(r, http.MethodPost, "/api/v1/batches", `{"batchId":"b1","async":true}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Redis")
}

func TestGetBatchHandler_NotFound(t *testing.T) {
	a := newTestApp(t, nil, newStubStore())
	r := newTestRouter(a)

	w := doRequest(r, http.MethodGet, "/api/v1/batches/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"not_found"`)
}

func TestStopBatchHandler_NotFound(t *testing.T) {
	a := newTestApp(t, nil, newStubStore())
	r := newTestRouter(a)

	w := doRequest(r, http.MethodDelete, "/api/v1/batches/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestClassifyHandler(t *testing.T) {
	a := newTestApp(t, nil, newStubStore())
	r := newTestRouter(a)

	w := doRequest(r, http.MethodPost, "/api/v1/classify", `{"text":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := `{"text":"今天学习了机器学习算法,模型准确率提升了15%,数据很有说服力"}`
	w = doRequest(r, http.MethodPost, "/api/v1/classify", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "研究/数据")
	assert.Contains(t, w.Body.String(), `"candidates"`)
}
