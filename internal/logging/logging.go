// Package logging provides small helpers for dependency-injected slog loggers.
//
// Components never touch global loggers; each one takes a *slog.Logger at
// construction and scopes it with slog.With. Handler setup (format, level,
// destination) happens only in main(). When no logger is supplied, a discard
// logger keeps the nil checks out of call sites.
package logging

import (
	"context"
	"log/slog"
)

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(discardHandler{})
}

// Default returns logger if non-nil, otherwise a discard logger.
//
//	func NewPublisher(logger *slog.Logger) *Publisher {
//	    logger = logging.Default(logger)
//	    ...
//	}
func Default(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return Discard()
}
