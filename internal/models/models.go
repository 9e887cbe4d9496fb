package models

import (
	"time"
)

// Source values for IngestMessage, set by the normalizer from the request
// encoding.
const (
	SourceJSONUpload = "json_upload"
	SourceTextUpload = "text_upload"
)

// JSONIngestRequest matches the structured JSON ingest payload.
type JSONIngestRequest struct {
	TenantID string `json:"tenant_id"`
	Text     string `json:"text"`
	LogID    string `json:"log_id,omitempty"`
}

// IngestMessage is the canonical message produced by the normalizer and
// carried through the queue. (tenant_id, log_id) is the sole storage
// identity; request_id is tracing-only and carries no uniqueness contract.
type IngestMessage struct {
	TenantID       string    `json:"tenant_id"`
	LogID          string    `json:"log_id"`
	NormalizedText string    `json:"normalized_text"`
	Source         string    `json:"source"`
	ReceivedAt     time.Time `json:"received_at"`
	RequestID      string    `json:"request_id"`
}

// ProcessedRecord is the persisted form of a message after redaction.
// Redelivery of the same (tenant_id, log_id) overwrites the whole record.
type ProcessedRecord struct {
	TenantID     string    `json:"tenant_id" dynamodbav:"tenant_id"`
	LogID        string    `json:"log_id" dynamodbav:"log_id"`
	Source       string    `json:"source" dynamodbav:"source"`
	OriginalText string    `json:"original_text" dynamodbav:"original_text"`
	RedactedText string    `json:"redacted_text" dynamodbav:"redacted_text"`
	ReceivedAt   time.Time `json:"received_at" dynamodbav:"received_at"`
	ProcessedAt  time.Time `json:"processed_at" dynamodbav:"processed_at"`
	RequestID    string    `json:"request_id" dynamodbav:"request_id"`
	WorkerID     string    `json:"worker_id" dynamodbav:"worker_id"`
	Attempt      int       `json:"attempt" dynamodbav:"attempt"`
}

// EnqueueResponse is returned to the client after a successful enqueue.
type EnqueueResponse struct {
	Status    string `json:"status"`
	LogID     string `json:"log_id"`
	RequestID string `json:"request_id"`
}

// ErrorResponse is the structured error body for 4xx/5xx responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
