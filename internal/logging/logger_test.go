// Ecomd - Products and Carts Storefront Service
// Copyright 2026 Ecomd Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ecomd/ecomd

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"panic", zerolog.PanicLevel},
		{"disabled", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestInitJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Timestamp: true, Output: &buf})
	defer Init(DefaultConfig())

	Info().Str("component", "test").Msg("hello")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v (got %q)", err, buf.String())
	}
	if entry["message"] != "hello" {
		t.Errorf("message = %v, want hello", entry["message"])
	}
	if entry["component"] != "test" {
		t.Errorf("component = %v, want test", entry["component"])
	}
	if _, ok := entry["time"]; !ok {
		t.Error("expected timestamp field in output")
	}
}

func TestCtxCarriesIDs(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Output: &buf})
	defer Init(DefaultConfig())

	ctx := WithRequestID(context.Background(), "req-123")
	ctx = WithCorrelationID(ctx, "corr-456")

	Ctx(ctx).Info().Msg("with ids")

	out := buf.String()
	if !strings.Contains(out, "req-123") {
		t.Errorf("output missing request id: %s", out)
	}
	if !strings.Contains(out, "corr-456") {
		t.Errorf("output missing correlation id: %s", out)
	}
}

func TestCtxChainsFieldBuilders(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Output: &buf})
	defer Init(DefaultConfig())

	ctx := WithRequestID(context.Background(), "req-789")

	// Same call shape the managers use: level and field methods chained
	// directly off the Ctx return.
	Ctx(ctx).Info().Int64("product_id", 42).Str("code", "ABC123").Msg("product updated")
	Ctx(ctx).Error().Int64("cart_id", 7).Msg("cart flush failed")

	out := buf.String()
	if !strings.Contains(out, "product updated") || !strings.Contains(out, "cart flush failed") {
		t.Fatalf("missing chained log lines, got %s", out)
	}
	if !strings.Contains(out, `"product_id":42`) {
		t.Errorf("output missing product_id field: %s", out)
	}
	if !strings.Contains(out, "req-789") {
		t.Errorf("output missing request id: %s", out)
	}
}

func TestRequestIDRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if _, ok := RequestID(ctx); ok {
		t.Error("empty context should have no request id")
	}

	ctx = WithRequestID(ctx, "abc")
	id, ok := RequestID(ctx)
	if !ok || id != "abc" {
		t.Errorf("RequestID = %q, %v; want abc, true", id, ok)
	}
}

func TestSlogHandlerWritesToZerolog(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	zl := NewTestLogger(&buf)
	slogger := slog.New(NewSlogHandlerWithLogger(zl))

	slogger.Info("order placed", slog.Int64("cart_id", 7), slog.String("backend", "file"))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if entry["message"] != "order placed" {
		t.Errorf("message = %v, want %q", entry["message"], "order placed")
	}
	if entry["cart_id"] != float64(7) {
		t.Errorf("cart_id = %v, want 7", entry["cart_id"])
	}
	if entry["backend"] != "file" {
		t.Errorf("backend = %v, want file", entry["backend"])
	}
}

func TestSlogHandlerGroups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	zl := NewTestLogger(&buf)
	slogger := slog.New(NewSlogHandlerWithLogger(zl)).WithGroup("store")

	slogger.Warn("slow flush", slog.String("op", "insert"))

	if !strings.Contains(buf.String(), "store.op") {
		t.Errorf("expected group-qualified key store.op, got %s", buf.String())
	}
}
