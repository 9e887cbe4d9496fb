package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"logscrub/internal/logging"
	"logscrub/internal/models"
)

// DynamoAPI is the slice of the DynamoDB client used by the store.
type DynamoAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Dynamo writes records to a table with partition key tenant_id and sort key
// log_id.
type Dynamo struct {
	client DynamoAPI
	table  string
	logger *slog.Logger
}

// NewDynamo builds a store over table.
func NewDynamo(client DynamoAPI, table string, logger *slog.Logger) *Dynamo {
	return &Dynamo{
		client: client,
		table:  table,
		logger: logging.Default(logger).With("component", "store"),
	}
}

// Put writes rec, replacing any existing item under the same key. No
// condition expression is used: redelivery must overwrite, not be rejected.
func (s *Dynamo) Put(ctx context.Context, rec models.ProcessedRecord) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return &Failure{TenantID: rec.TenantID, LogID: rec.LogID, Err: fmt.Errorf("marshal record: %w", err)}
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return &Failure{TenantID: rec.TenantID, LogID: rec.LogID, Err: err}
	}

	s.logger.Info("record stored",
		"tenant_id", rec.TenantID,
		"log_id", rec.LogID,
		"attempt", rec.Attempt)
	return nil
}
