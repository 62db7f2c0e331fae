package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoggerErrorIncludesContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Format: "json", Output: buf})

	ctx := context.Background()
	ctx = log.WithRunID(ctx, "run-123")

	log.Error(ctx, "boom", errors.New("boom"))

	if !bytes.Contains(buf.Bytes(), []byte("\"run_id\":\"run-123\"")) {
		t.Fatalf("expected run_id to be preserved; entry=%s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("\"service\":\"test\"")) {
		t.Fatalf("expected service field; entry=%s", buf.String())
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: zerolog.WarnLevel, Format: "json", Output: buf})

	log.Info(context.Background(), "hidden")
	log.Debug(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected info/debug to be filtered, got %s", buf.String())
	}

	log.Warn(context.Background(), "shown")
	if !bytes.Contains(buf.Bytes(), []byte("shown")) {
		t.Fatalf("expected warn entry, got %s", buf.String())
	}
}

func TestWithFieldsAreScopedToContext(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Format: "json", Output: buf})

	base := context.Background()
	scoped := log.WithFields(base, map[string]any{"rows": 3})

	log.Info(base, "plain")
	if bytes.Contains(buf.Bytes(), []byte("\"rows\"")) {
		t.Fatalf("fields leaked into parent context: %s", buf.String())
	}
	log.Info(scoped, "scoped")
	if !bytes.Contains(buf.Bytes(), []byte("\"rows\":3")) {
		t.Fatalf("expected rows field, got %s", buf.String())
	}
}

func TestParseLevelDefaults(t *testing.T) {
	if lvl := ParseLevel(""); lvl != zerolog.InfoLevel {
		t.Fatalf("expected default info level, got %v", lvl)
	}
	if lvl := ParseLevel("invalid"); lvl != zerolog.InfoLevel {
		t.Fatalf("invalid level should fallback to info, got %v", lvl)
	}
	if lvl := ParseLevel("DEBUG"); lvl != zerolog.DebugLevel {
		t.Fatalf("expected debug, got %v", lvl)
	}
}
