package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"logscrub/internal/config"
	"logscrub/internal/models"
	"logscrub/internal/normalize"
	"logscrub/internal/queue"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	settings, err := config.Load(context.Background())
	if err != nil {
		logger.Error("configuration error", "error", err)
		os.Exit(1)
	}

	app := newApp(settings, logger)
	lambda.Start(app.handle)
}

type app struct {
	normalizer *normalize.Normalizer
	publisher  queue.Publisher
	logger     *slog.Logger
}

func newApp(settings config.Settings, logger *slog.Logger) *app {
	client := sqs.NewFromConfig(settings.AWSConfig)
	return &app{
		normalizer: normalize.New(),
		publisher:  queue.NewSQSPublisher(client, settings.SQSQueueURL, logger),
		logger:     logger.With("component", "ingest"),
	}
}

func (a *app) handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	method := req.RequestContext.HTTP.Method
	path := req.RawPath
	a.logger.Info("request received", "method", method, "path", path)

	if method != http.MethodPost || path != "/ingest" {
		return jsonResponse(http.StatusNotFound, models.ErrorResponse{Error: "Not Found"}), nil
	}

	body := req.Body
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return jsonResponse(http.StatusBadRequest, models.ErrorResponse{
				Error:   "Bad Request",
				Message: "invalid base64 body",
			}), nil
		}
		body = string(decoded)
	}

	msg, err := a.normalizer.Normalize(normalize.Request{Headers: req.Headers, Body: body})
	if err != nil {
		var verr *normalize.ValidationError
		if errors.As(err, &verr) {
			a.logger.Warn("validation failed", "kind", verr.Kind.String())
			return jsonResponse(http.StatusBadRequest, models.ErrorResponse{
				Error:   "Bad Request",
				Message: verr.Message(),
			}), nil
		}
		a.logger.Error("normalization error", "error", err)
		return jsonResponse(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Internal Server Error",
		}), nil
	}

	if err := a.publisher.Publish(ctx, msg); err != nil {
		a.logger.Error("ingest rejected",
			"tenant_id", msg.TenantID,
			"log_id", msg.LogID,
			"error", err)
		return jsonResponse(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "failed to publish message to queue",
		}), nil
	}

	a.logger.Info("ingest accepted",
		"tenant_id", msg.TenantID,
		"log_id", msg.LogID,
		"request_id", msg.RequestID)
	return jsonResponse(http.StatusAccepted, models.EnqueueResponse{
		Status:    "accepted",
		LogID:     msg.LogID,
		RequestID: msg.RequestID,
	}), nil
}

func jsonResponse(code int, payload any) events.APIGatewayV2HTTPResponse {
	body, _ := json.Marshal(payload)
	return events.APIGatewayV2HTTPResponse{
		StatusCode: code,
		Body:       string(body),
		Headers: map[string]string{
			"content-type": "application/json",
		},
	}
}
