package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"logscrub/internal/config"
	"logscrub/internal/redact"
	"logscrub/internal/store"
	"logscrub/internal/worker"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	settings, err := config.Load(context.Background())
	if err != nil {
		logger.Error("configuration error", "error", err)
		os.Exit(1)
	}

	policy, err := worker.ParseDecodePolicy(settings.DecodeFailurePolicy)
	if err != nil {
		logger.Error("configuration error", "error", err)
		os.Exit(1)
	}

	workerID := lambdacontext.FunctionName
	if workerID == "" {
		workerID = "local-worker"
	}

	var process worker.ProcessFunc
	if settings.SimulatedLoadPerChar > 0 {
		process = worker.SimulatedLoad(settings.SimulatedLoadPerChar)
	}

	db := dynamodb.NewFromConfig(settings.AWSConfig)
	processor := worker.New(worker.Config{
		Store:        store.NewDynamo(db, settings.DynamoDBTableName, logger),
		Redactor:     redact.Phones(),
		Process:      process,
		WorkerID:     workerID,
		Concurrency:  settings.WorkerConcurrency,
		ItemTimeout:  settings.ItemTimeout,
		DecodePolicy: policy,
		Logger:       logger,
	})

	lambda.Start(func(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
		return processor.ProcessBatch(ctx, event), nil
	})
}
