package main

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"logscrub/internal/logging"
	"logscrub/internal/models"
	"logscrub/internal/normalize"
	"logscrub/internal/queue"
)

// maxBodyBytes bounds inbound payloads; SQS caps messages at 256 KiB anyway.
const maxBodyBytes = 256 << 10

type server struct {
	normalizer *normalize.Normalizer
	publisher  queue.Publisher
	logger     *slog.Logger
}

func newServer(publisher queue.Publisher, logger *slog.Logger) *server {
	return &server{
		normalizer: normalize.New(),
		publisher:  publisher,
		logger:     logging.Default(logger).With("component", "devserver"),
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Post("/ingest", s.handleIngest)
	return r
}

func (s *server) handleIngest(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{
			Error:   "Bad Request",
			Message: "unreadable request body",
		})
		return
	}

	headers := make(map[string]string, len(r.Header))
	for name := range r.Header {
		headers[name] = r.Header.Get(name)
	}

	msg, err := s.normalizer.Normalize(normalize.Request{Headers: headers, Body: string(body)})
	if err != nil {
		var verr *normalize.ValidationError
		if errors.As(err, &verr) {
			s.logger.Warn("validation failed", "kind", verr.Kind.String())
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{
				Error:   "Bad Request",
				Message: verr.Message(),
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal Server Error"})
		return
	}

	if err := s.publisher.Publish(r.Context(), msg); err != nil {
		s.logger.Error("ingest rejected",
			"tenant_id", msg.TenantID,
			"log_id", msg.LogID,
			"error", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "failed to publish message to queue",
		})
		return
	}

	writeJSON(w, http.StatusAccepted, models.EnqueueResponse{
		Status:    "accepted",
		LogID:     msg.LogID,
		RequestID: msg.RequestID,
	})
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}
