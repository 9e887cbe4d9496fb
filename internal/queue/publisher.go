// Package queue publishes canonical messages to the durable at-least-once
// queue transport.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"logscrub/internal/logging"
	"logscrub/internal/models"
)

// Publisher hands a message to the queue. Implementations do not retry;
// retry on failure is the caller's or the transport's responsibility.
type Publisher interface {
	Publish(ctx context.Context, msg models.IngestMessage) error
}

// PublishFailure wraps a transport-level send error. The caller must surface
// it as a server error so the client can retry the whole request.
type PublishFailure struct {
	Err error
}

func (e *PublishFailure) Error() string {
	return fmt.Sprintf("publish failed: %v", e.Err)
}

func (e *PublishFailure) Unwrap() error {
	return e.Err
}

// SQSAPI is the slice of the SQS client used by the publisher.
type SQSAPI interface {
	SendMessage(ctx context.Context, in *sqs.SendMessageInput, opts ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSPublisher sends messages to a single SQS queue, attaching tenant_id and
// log_id as message attributes for filtering and observability.
type SQSPublisher struct {
	client   SQSAPI
	queueURL string
	logger   *slog.Logger
}

// NewSQSPublisher builds a publisher for queueURL.
func NewSQSPublisher(client SQSAPI, queueURL string, logger *slog.Logger) *SQSPublisher {
	return &SQSPublisher{
		client:   client,
		queueURL: queueURL,
		logger:   logging.Default(logger).With("component", "publisher"),
	}
}

// Publish serializes msg and sends it. Ownership of msg ends at queue
// acceptance.
func (p *SQSPublisher) Publish(ctx context.Context, msg models.IngestMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return &PublishFailure{Err: fmt.Errorf("encode message: %w", err)}
	}

	out, err := p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]sqstypes.MessageAttributeValue{
			"tenant_id": {
				DataType:    aws.String("String"),
				StringValue: aws.String(msg.TenantID),
			},
			"log_id": {
				DataType:    aws.String("String"),
				StringValue: aws.String(msg.LogID),
			},
		},
	})
	if err != nil {
		p.logger.Error("publish failed",
			"tenant_id", msg.TenantID,
			"log_id", msg.LogID,
			"error", err)
		return &PublishFailure{Err: err}
	}

	p.logger.Info("message published",
		"tenant_id", msg.TenantID,
		"log_id", msg.LogID,
		"request_id", msg.RequestID,
		"message_id", aws.ToString(out.MessageId))
	return nil
}
