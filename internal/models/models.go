package models

import (
	"time"
)

// Post is one unit of content to classify. Posts are owned by the
// storage layer; the classification core never mutates the text.
type Post struct {
	ID         string    `db:"id"`
	Source     string    `db:"source"`
	Text       string    `db:"text"`
	RetryCount int       `db:"retry_count"`
	CreatedAt  time.Time `db:"created_at"`
}

// Classification is the persisted decision for one post.
type Classification struct {
	PostID       string    `db:"post_id"`
	IsLowValue   bool      `db:"is_low_value"`
	TopicTags    []string  `db:"topic_tags"`
	ContentTypes []string  `db:"content_types"`
	ClassifiedAt time.Time `db:"classified_at"`
}

// Label is an entry in the allowed vocabulary. Kind is either
// LabelKindTopic or LabelKindContentType.
type Label struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Kind      string    `db:"kind"`
	Active    bool      `db:"active"`
	CreatedAt time.Time `db:"created_at"`
}

const (
	LabelKindTopic       = "topic"
	LabelKindContentType = "content_type"
)

// BatchRecord mirrors the batch_records table. A record is created when
// a batch starts and is mutated only by the orchestrator run that owns
// it; once Status leaves BatchStatusProcessing the record is final.
type BatchRecord struct {
	BatchID        string     `db:"batch_id"`
	Filter         string     `db:"filter"`
	ChunkSize      int        `db:"chunk_size"`
	Status         string     `db:"status"`
	TotalItems     int        `db:"total_items"`
	ProcessedItems int        `db:"processed_items"`
	FailedItems    int        `db:"failed_items"`
	ErrorMessage   *string    `db:"error_message"`
	StartedAt      time.Time  `db:"started_at"`
	CompletedAt    *time.Time `db:"completed_at"`
}
