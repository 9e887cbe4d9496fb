package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"

	"logscrub/internal/logging"
	"logscrub/internal/models"
	"logscrub/internal/normalize"
	"logscrub/internal/queue"
)

type fakePublisher struct {
	published []models.IngestMessage
	err       error
}

func (f *fakePublisher) Publish(_ context.Context, msg models.IngestMessage) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, msg)
	return nil
}

func testApp(pub queue.Publisher) *app {
	return &app{
		normalizer: normalize.New(),
		publisher:  pub,
		logger:     logging.Discard(),
	}
}

func postIngest(body string, headers map[string]string) events.APIGatewayV2HTTPRequest {
	req := events.APIGatewayV2HTTPRequest{
		RawPath: "/ingest",
		Headers: headers,
		Body:    body,
	}
	req.RequestContext.HTTP.Method = http.MethodPost
	return req
}

func TestHandleJSONAccepted(t *testing.T) {
	pub := &fakePublisher{}
	a := testApp(pub)

	resp, err := a.handle(context.Background(), postIngest(
		`{"tenant_id":"acme","log_id":"001","text":"hello"}`,
		map[string]string{"content-type": "application/json"},
	))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d, want 202; body %s", resp.StatusCode, resp.Body)
	}

	var body models.EnqueueResponse
	if err := json.Unmarshal([]byte(resp.Body), &body); err != nil {
		t.Fatalf("response body: %v", err)
	}
	if body.Status != "accepted" || body.LogID != "001" || body.RequestID == "" {
		t.Errorf("body = %+v", body)
	}
	if len(pub.published) != 1 || pub.published[0].TenantID != "acme" {
		t.Errorf("published = %+v", pub.published)
	}
}

func TestHandleBase64Body(t *testing.T) {
	pub := &fakePublisher{}
	a := testApp(pub)

	req := postIngest(
		base64.StdEncoding.EncodeToString([]byte("plain body")),
		map[string]string{"content-type": "text/plain", "x-tenant-id": "acme"},
	)
	req.IsBase64Encoded = true

	resp, err := a.handle(context.Background(), req)
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d, want 202; body %s", resp.StatusCode, resp.Body)
	}
	if pub.published[0].NormalizedText != "plain body" {
		t.Errorf("text = %q", pub.published[0].NormalizedText)
	}
	if pub.published[0].Source != models.SourceTextUpload {
		t.Errorf("source = %q", pub.published[0].Source)
	}
}

func TestHandleValidationFailure(t *testing.T) {
	pub := &fakePublisher{}
	a := testApp(pub)

	resp, err := a.handle(context.Background(), postIngest(
		`{"text": "hello"}`,
		map[string]string{"content-type": "application/json"},
	))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	var body models.ErrorResponse
	if err := json.Unmarshal([]byte(resp.Body), &body); err != nil {
		t.Fatalf("response body: %v", err)
	}
	if body.Error != "Bad Request" {
		t.Errorf("error = %q", body.Error)
	}
	if len(pub.published) != 0 {
		t.Error("validation failure must not publish a message")
	}
}

func TestHandlePublishFailure(t *testing.T) {
	a := testApp(&fakePublisher{err: &queue.PublishFailure{Err: errors.New("broker down")}})

	resp, err := a.handle(context.Background(), postIngest(
		`{"tenant_id":"acme","text":"hello"}`,
		map[string]string{"content-type": "application/json"},
	))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
}

func TestHandleUnknownRoute(t *testing.T) {
	a := testApp(&fakePublisher{})

	req := postIngest("x", nil)
	req.RawPath = "/other"
	resp, err := a.handle(context.Background(), req)
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}
