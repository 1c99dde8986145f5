package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestConfig(t *testing.T) {
	cfg := Config(false, false)
	if cfg.Encoding != "console" {
		t.Fatalf("expected console encoding, got %q", cfg.Encoding)
	}
	if cfg.Level.Level() != zapcore.InfoLevel {
		t.Fatalf("expected info level, got %s", cfg.Level.Level())
	}
	if cfg.EncoderConfig.MessageKey != "step" {
		t.Fatalf("unexpected message key %q", cfg.EncoderConfig.MessageKey)
	}

	cfg = Config(true, true)
	if cfg.Encoding != "json" || cfg.Level.Level() != zapcore.DebugLevel {
		t.Fatalf("expected json debug config, got %s %s", cfg.Encoding, cfg.Level.Level())
	}
}

func TestNew(t *testing.T) {
	log, err := New(true, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if log.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("debug should be disabled")
	}
}
