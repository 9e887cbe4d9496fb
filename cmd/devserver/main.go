// Command devserver runs the ingest front door as a plain HTTP server for
// local development. It serves the same pipeline as the ingest Lambda:
// normalize, publish to SQS, and answer 202/400/500.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"logscrub/internal/config"
	"logscrub/internal/queue"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	settings, err := config.Load(context.Background())
	if err != nil {
		logger.Error("configuration error", "error", err)
		os.Exit(1)
	}

	client := sqs.NewFromConfig(settings.AWSConfig)
	publisher := queue.NewSQSPublisher(client, settings.SQSQueueURL, logger)
	srv := newServer(publisher, logger)

	logger.Info("dev server listening", "addr", settings.ListenAddr)
	if err := http.ListenAndServe(settings.ListenAddr, srv.routes()); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
