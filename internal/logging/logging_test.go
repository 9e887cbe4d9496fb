package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestDiscard(t *testing.T) {
	logger := Discard()
	if logger == nil {
		t.Fatal("Discard() returned nil")
	}
	// Must not panic and must report disabled at every level.
	logger.Info("hello")
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("discard logger should not be enabled")
	}
}

func TestDefault(t *testing.T) {
	t.Run("nil yields discard", func(t *testing.T) {
		logger := Default(nil)
		if logger == nil {
			t.Fatal("Default(nil) returned nil")
		}
		if logger.Enabled(context.Background(), slog.LevelInfo) {
			t.Error("Default(nil) should return a discard logger")
		}
	})

	t.Run("non-nil passes through", func(t *testing.T) {
		in := slog.Default()
		if got := Default(in); got != in {
			t.Error("Default should return the provided logger unchanged")
		}
	})
}
