package models

import "time"

// Event bus envelope
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"` // upload, dedup-requested, dedup-completed
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}

// Deduplication run request, carried on the dedup-requests topic.
type DedupRequest struct {
	MasterlistID uint64 `json:"masterlist_id"`
	RequestedBy  string `json:"requested_by,omitempty"`
}

// Outcome of a completed deduplication run, published for operators.
type DedupResult struct {
	MasterlistID uint64        `json:"masterlist_id"`
	PairCount    int           `json:"pair_count"`
	RecordCount  int           `json:"record_count"`
	Elapsed      time.Duration `json:"elapsed"`
	CompletedAt  time.Time     `json:"completed_at"`
}

type UploadResponse struct {
	ID          uint64    `json:"id"`
	Status      string    `json:"status"`
	RecordCount int       `json:"record_count"`
	Timestamp   time.Time `json:"timestamp"`
}

type DedupTriggerResponse struct {
	MasterlistID uint64 `json:"masterlist_id"`
	Queued       bool   `json:"queued"`
}

type ReviewUpdateRequest struct {
	Status string `json:"status"`
}
