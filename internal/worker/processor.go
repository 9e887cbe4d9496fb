// Package worker consumes batches of queued messages, redacts them, and
// writes processed records with at-least-once, idempotent semantics.
//
// One item's failure never discards a sibling's successful write: outcomes
// are tracked per item and reported back to the transport as a partial-batch
// failure list, so only the failed items are redelivered.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"golang.org/x/sync/errgroup"

	"logscrub/internal/logging"
	"logscrub/internal/models"
	"logscrub/internal/redact"
	"logscrub/internal/store"
)

const (
	defaultConcurrency = 4
	defaultItemTimeout = 30 * time.Second
)

// DecodePolicy controls what happens to a message whose body cannot be
// decoded into an IngestMessage.
type DecodePolicy int

const (
	// DecodeRetry reports the item failed so the transport redelivers it.
	// Conservative default: a transient corruption is retried, a truly
	// malformed payload eventually lands in the transport's dead-letter
	// queue if one is configured.
	DecodeRetry DecodePolicy = iota
	// DecodeDrop acknowledges the item and logs it, so a malformed payload
	// is never redelivered.
	DecodeDrop
)

// ParseDecodePolicy maps the configuration strings "retry" and "drop".
func ParseDecodePolicy(s string) (DecodePolicy, error) {
	switch s {
	case "", "retry":
		return DecodeRetry, nil
	case "drop":
		return DecodeDrop, nil
	}
	return DecodeRetry, fmt.Errorf("unknown decode failure policy %q", s)
}

// ProcessFunc is the domain-specific processing step run before redaction.
// It may be slow or CPU-bound and must respect ctx.
type ProcessFunc func(ctx context.Context, msg models.IngestMessage) error

// SimulatedLoad returns a ProcessFunc that sleeps perChar for every byte of
// the message text, aborting early when ctx expires.
func SimulatedLoad(perChar time.Duration) ProcessFunc {
	return func(ctx context.Context, msg models.IngestMessage) error {
		timer := time.NewTimer(time.Duration(len(msg.NormalizedText)) * perChar)
		defer timer.Stop()
		select {
		case <-timer.C:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Config assembles a Processor. Store is required; everything else has a
// usable default.
type Config struct {
	Store        store.Store
	Redactor     *redact.Redactor
	Process      ProcessFunc
	WorkerID     string
	Concurrency  int
	ItemTimeout  time.Duration
	DecodePolicy DecodePolicy
	Now          func() time.Time
	Logger       *slog.Logger
}

// Processor handles one delivered batch at a time. Items within a batch run
// concurrently up to the configured limit; the processor keeps no state
// across batches, so a pool of workers needs no coordination beyond the
// queue and store themselves.
type Processor struct {
	store        store.Store
	redactor     *redact.Redactor
	process      ProcessFunc
	workerID     string
	concurrency  int
	itemTimeout  time.Duration
	decodePolicy DecodePolicy
	now          func() time.Time
	logger       *slog.Logger
}

// New builds a Processor from cfg.
func New(cfg Config) *Processor {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.ItemTimeout <= 0 {
		cfg.ItemTimeout = defaultItemTimeout
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	return &Processor{
		store:        cfg.Store,
		redactor:     cfg.Redactor,
		process:      cfg.Process,
		workerID:     cfg.WorkerID,
		concurrency:  cfg.Concurrency,
		itemTimeout:  cfg.ItemTimeout,
		decodePolicy: cfg.DecodePolicy,
		now:          cfg.Now,
		logger:       logging.Default(cfg.Logger).With("component", "processor"),
	}
}

// ProcessBatch processes every record in event and returns the identifiers
// of the items that must be redelivered. Items absent from the failure list
// are acknowledged by the transport.
func (p *Processor) ProcessBatch(ctx context.Context, event events.SQSEvent) events.SQSEventResponse {
	p.logger.Info("batch received", "record_count", len(event.Records))

	var (
		mu       sync.Mutex
		failures []events.SQSBatchItemFailure
	)
	fail := func(messageID string) {
		mu.Lock()
		defer mu.Unlock()
		failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: messageID})
	}

	var g errgroup.Group
	g.SetLimit(p.concurrency)
	for _, record := range event.Records {
		record := record
		g.Go(func() error {
			p.handleRecord(ctx, record, fail)
			return nil
		})
	}
	_ = g.Wait()

	p.logger.Info("batch finished",
		"record_count", len(event.Records),
		"failed_count", len(failures))
	return events.SQSEventResponse{BatchItemFailures: failures}
}

func (p *Processor) handleRecord(ctx context.Context, record events.SQSMessage, fail func(string)) {
	// Batch deadline exceeded: leave the item unacknowledged rather than
	// start work that cannot finish.
	if ctx.Err() != nil {
		fail(record.MessageId)
		return
	}

	var msg models.IngestMessage
	if err := json.Unmarshal([]byte(record.Body), &msg); err != nil {
		if p.decodePolicy == DecodeDrop {
			p.logger.Error("dropping undecodable message",
				"message_id", record.MessageId,
				"error", err)
			return
		}
		p.logger.Error("undecodable message, leaving for redelivery",
			"message_id", record.MessageId,
			"error", err)
		fail(record.MessageId)
		return
	}

	attempt := receiveCount(record)
	itemCtx, cancel := context.WithTimeout(ctx, p.itemTimeout)
	defer cancel()

	if err := p.processItem(itemCtx, msg, attempt); err != nil {
		p.logger.Error("item failed",
			"tenant_id", msg.TenantID,
			"log_id", msg.LogID,
			"attempt", attempt,
			"error", err)
		fail(record.MessageId)
		return
	}

	p.logger.Info("item processed",
		"tenant_id", msg.TenantID,
		"log_id", msg.LogID,
		"attempt", attempt)
}

func (p *Processor) processItem(ctx context.Context, msg models.IngestMessage, attempt int) error {
	if p.process != nil {
		if err := p.process(ctx, msg); err != nil {
			return fmt.Errorf("process: %w", err)
		}
	}

	redacted := msg.NormalizedText
	if p.redactor != nil {
		redacted = p.redactor.Apply(msg.NormalizedText)
	}

	return p.store.Put(ctx, models.ProcessedRecord{
		TenantID:     msg.TenantID,
		LogID:        msg.LogID,
		Source:       msg.Source,
		OriginalText: msg.NormalizedText,
		RedactedText: redacted,
		ReceivedAt:   msg.ReceivedAt,
		ProcessedAt:  p.now().UTC(),
		RequestID:    msg.RequestID,
		WorkerID:     p.workerID,
		Attempt:      attempt,
	})
}

// receiveCount reads the transport's approximate redelivery count,
// defaulting to 1 when absent or unparsable.
func receiveCount(record events.SQSMessage) int {
	raw, ok := record.Attributes["ApproximateReceiveCount"]
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
