// Package normalize validates inbound requests and converts them into the
// canonical IngestMessage. It performs no I/O; the clock and id generator
// are injectable so tests stay deterministic.
package normalize

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"logscrub/internal/models"
)

const (
	tenantHeader  = "X-Tenant-ID"
	requestHeader = "X-Request-ID"
)

// Kind classifies a validation failure.
type Kind int

const (
	EmptyBody Kind = iota
	MissingField
	MalformedPayload
	MissingTenantHeader
	UnsupportedContentType
)

func (k Kind) String() string {
	switch k {
	case EmptyBody:
		return "empty_body"
	case MissingField:
		return "missing_field"
	case MalformedPayload:
		return "malformed_payload"
	case MissingTenantHeader:
		return "missing_tenant_header"
	case UnsupportedContentType:
		return "unsupported_content_type"
	}
	return "unknown"
}

// ValidationError is a client error; it is never retried by this subsystem.
type ValidationError struct {
	Kind   Kind
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed: %s (%s)", e.Kind, e.Field)
	}
	if e.Detail != "" {
		return fmt.Sprintf("validation failed: %s: %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("validation failed: %s", e.Kind)
}

// Message returns the client-facing description for the error body.
func (e *ValidationError) Message() string {
	switch e.Kind {
	case EmptyBody:
		return "request body cannot be empty"
	case MissingField:
		return fmt.Sprintf("%s is required in JSON payload", e.Field)
	case MalformedPayload:
		return fmt.Sprintf("invalid JSON: %s", e.Detail)
	case MissingTenantHeader:
		return "X-Tenant-ID header is required for text/plain requests"
	case UnsupportedContentType:
		return "Content-Type must be application/json or text/plain"
	}
	return "invalid request"
}

// Request is the normalizer's view of an inbound request. Header lookup is
// case-insensitive.
type Request struct {
	Headers map[string]string
	Body    string
}

// Header returns the value for name, matching case-insensitively.
func (r Request) Header(name string) string {
	for k, v := range r.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// Normalizer converts raw requests into canonical messages.
type Normalizer struct {
	Now   func() time.Time
	NewID func() string
}

// New returns a Normalizer using the system clock and UUID generation.
func New() *Normalizer {
	return &Normalizer{
		Now:   func() time.Time { return time.Now().UTC() },
		NewID: uuid.NewString,
	}
}

// Normalize validates req and produces an IngestMessage. Failures are
// returned as *ValidationError.
func (n *Normalizer) Normalize(req Request) (models.IngestMessage, error) {
	if strings.TrimSpace(req.Body) == "" {
		return models.IngestMessage{}, &ValidationError{Kind: EmptyBody}
	}

	contentType := req.Header("Content-Type")
	contentType = strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))

	var (
		tenantID string
		logID    string
		text     string
		source   string
	)

	switch contentType {
	case "application/json":
		var payload models.JSONIngestRequest
		if err := json.Unmarshal([]byte(req.Body), &payload); err != nil {
			return models.IngestMessage{}, &ValidationError{Kind: MalformedPayload, Detail: err.Error()}
		}
		if payload.TenantID == "" {
			return models.IngestMessage{}, &ValidationError{Kind: MissingField, Field: "tenant_id"}
		}
		if strings.TrimSpace(payload.Text) == "" {
			return models.IngestMessage{}, &ValidationError{Kind: MissingField, Field: "text"}
		}
		tenantID = payload.TenantID
		logID = payload.LogID
		text = payload.Text
		source = models.SourceJSONUpload

	case "text/plain":
		tenantID = req.Header(tenantHeader)
		if tenantID == "" {
			return models.IngestMessage{}, &ValidationError{Kind: MissingTenantHeader}
		}
		// Body is taken verbatim; interior whitespace is content.
		text = req.Body
		source = models.SourceTextUpload

	default:
		return models.IngestMessage{}, &ValidationError{Kind: UnsupportedContentType}
	}

	if logID == "" {
		logID = n.NewID()
	}
	requestID := req.Header(requestHeader)
	if requestID == "" {
		requestID = n.NewID()
	}

	return models.IngestMessage{
		TenantID:       tenantID,
		LogID:          logID,
		NormalizedText: text,
		Source:         source,
		ReceivedAt:     n.Now().UTC(),
		RequestID:      requestID,
	}, nil
}
