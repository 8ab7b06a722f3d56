package apihandlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tagwise/internal/app"
	"tagwise/internal/models"
	"tagwise/pkg/classifier"
)

type APIHandler struct {
	App *app.App
}

func NewAPIHandler(a *app.App) *APIHandler {
	return &APIHandler{App: a}
}

type startBatchRequest struct {
	BatchID   string `json:"batchId"`
	Filter    string `json:"filter"`
	ChunkSize int    `json:"chunkSize"`
	Async     bool   `json:"async"`
}

type startBatchResponse struct {
	BatchID string `json:"batchId"`
	Queued  bool   `json:"queued"`
}

// StartBatchHandler launches a classification batch. With async set and
// a configured job client the batch is enqueued for the worker pool;
// otherwise it runs in-process in the background.
func (h *APIHandler) StartBatchHandler(c *gin.Context) {
	var req startBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if req.BatchID == "" {
		req.BatchID = uuid.NewString()
	}
	if req.ChunkSize < 0 {
		BadRequest(c, "chunkSize must not be negative")
		return
	}

	if req.Async {
		if h.App.JobClient == nil {
			Conflict(c, "async batches require a configured Redis job queue")
			return
		}
		if err := h.App.JobClient.EnqueueClassifyBatch(c.Request.Context(), req.BatchID, req.Filter, req.ChunkSize); err != nil {
			Internal(c, fmt.Sprintf("StartBatchHandler: failed to enqueue batch: %v", err))
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"data": startBatchResponse{BatchID: req.BatchID, Queued: true}})
		return
	}

	err := h.App.Orchestrator.Start(c.Request.Context(), req.BatchID, req.Filter, req.ChunkSize, h.App.Classifier)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrAlreadyRunning):
			Conflict(c, fmt.Sprintf("batch %s is already running", req.BatchID))
		case errors.Is(err, models.ErrValidation):
			BadRequest(c, err.Error())
		default:
			Internal(c, fmt.Sprintf("StartBatchHandler: failed to start batch: %v", err))
		}
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"data": startBatchResponse{BatchID: req.BatchID}})
}

// GetBatchHandler returns the stored record plus liveness and chunk
// progress for one batch.
func (h *APIHandler) GetBatchHandler(c *gin.Context) {
	batchID := c.Param("id")
	status, err := h.App.Orchestrator.Status(c.Request.Context(), batchID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			NotFound(c, fmt.Sprintf("batch %s not found", batchID))
			return
		}
		Internal(c, fmt.Sprintf("GetBatchHandler: failed to read batch: %v", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": status})
}

// ListBatchesHandler returns stored batch records, most recent first.
func (h *APIHandler) ListBatchesHandler(c *gin.Context) {
	limit, err := parsePositiveIntQuery(c, "limit", 20)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	offset, err := parsePositiveIntQuery(c, "offset", 0)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	records, err := h.App.Orchestrator.ListBatches(c.Request.Context(), limit, offset)
	if err != nil {
		Internal(c, fmt.Sprintf("ListBatchesHandler: failed to list batches: %v", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": records})
}

// StopBatchHandler requests cooperative cancellation. The transition to
// cancelled is observed via GetBatchHandler, not in this response.
func (h *APIHandler) StopBatchHandler(c *gin.Context) {
	batchID := c.Param("id")
	if err := h.App.Orchestrator.Stop(c.Request.Context(), batchID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			NotFound(c, fmt.Sprintf("batch %s not found", batchID))
			return
		}
		Internal(c, fmt.Sprintf("StopBatchHandler: failed to stop batch: %v", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"batchId": batchID, "stopping": true}})
}

type classifyRequest struct {
	Text string `json:"text"`
}

// ClassifyHandler classifies a single text without persisting anything.
// Rule candidates are included so API consumers can see scores and
// matched evidence alongside the final labels.
func (h *APIHandler) ClassifyHandler(c *gin.Context) {
	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		BadRequest(c, "text must not be empty")
		return
	}

	vocab, err := h.readVocabulary(c)
	if err != nil {
		Internal(c, fmt.Sprintf("ClassifyHandler: failed to read label vocabulary: %v", err))
		return
	}
	result, err := h.App.Classifier.Classify(c.Request.Context(), req.Text, vocab)
	if err != nil {
		Internal(c, fmt.Sprintf("ClassifyHandler: classification failed: %v", err))
		return
	}

	resp := gin.H{
		"result":     result,
		"candidates": h.App.RuleClassifier.Candidates(req.Text),
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (h *APIHandler) readVocabulary(c *gin.Context) (classifier.Vocabulary, error) {
	topics, err := h.App.LabelStore.GetActiveTopicLabels(c.Request.Context())
	if err != nil {
		return classifier.Vocabulary{}, err
	}
	types, err := h.App.LabelStore.GetActiveContentTypeLabels(c.Request.Context())
	if err != nil {
		return classifier.Vocabulary{}, err
	}
	return classifier.Vocabulary{TopicLabels: topics, ContentTypeLabels: types}, nil
}

func parsePositiveIntQuery(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("query parameter %q must be a non-negative integer", name)
	}
	return v, nil
}
