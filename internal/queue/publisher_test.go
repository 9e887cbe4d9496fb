package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"logscrub/internal/models"
)

type fakeSQS struct {
	in  *sqs.SendMessageInput
	err error
}

func (f *fakeSQS) SendMessage(_ context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.in = in
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("mid-1")}, nil
}

func sampleMessage() models.IngestMessage {
	return models.IngestMessage{
		TenantID:       "acme",
		LogID:          "001",
		NormalizedText: "hello",
		Source:         models.SourceJSONUpload,
		ReceivedAt:     time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		RequestID:      "req-1",
	}
}

func TestPublishSendsBodyAndAttributes(t *testing.T) {
	fake := &fakeSQS{}
	p := NewSQSPublisher(fake, "https://queue.example/ingest", nil)

	msg := sampleMessage()
	if err := p.Publish(context.Background(), msg); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if fake.in == nil {
		t.Fatal("SendMessage not called")
	}
	if got := aws.ToString(fake.in.QueueUrl); got != "https://queue.example/ingest" {
		t.Errorf("queue url = %q", got)
	}

	var decoded models.IngestMessage
	if err := json.Unmarshal([]byte(aws.ToString(fake.in.MessageBody)), &decoded); err != nil {
		t.Fatalf("body not valid JSON: %v", err)
	}
	if decoded != msg {
		t.Errorf("round-tripped message = %+v, want %+v", decoded, msg)
	}

	for attr, want := range map[string]string{"tenant_id": "acme", "log_id": "001"} {
		av, ok := fake.in.MessageAttributes[attr]
		if !ok {
			t.Fatalf("missing message attribute %q", attr)
		}
		if aws.ToString(av.StringValue) != want {
			t.Errorf("attribute %s = %q, want %q", attr, aws.ToString(av.StringValue), want)
		}
		if aws.ToString(av.DataType) != "String" {
			t.Errorf("attribute %s data type = %q", attr, aws.ToString(av.DataType))
		}
	}
}

func TestPublishWrapsTransportError(t *testing.T) {
	sendErr := errors.New("connection reset")
	p := NewSQSPublisher(&fakeSQS{err: sendErr}, "https://queue.example/ingest", nil)

	err := p.Publish(context.Background(), sampleMessage())
	var pf *PublishFailure
	if !errors.As(err, &pf) {
		t.Fatalf("expected *PublishFailure, got %v", err)
	}
	if !errors.Is(err, sendErr) {
		t.Error("PublishFailure should wrap the transport error")
	}
}
