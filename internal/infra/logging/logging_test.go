//go:build !integration

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"slack-translate-bot/internal/config"
)

func TestWith_AddsContextFields(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter(&buf, config.LogConfig{Level: "debug", Format: "json"}, false)

	ctx := WithTraceID(context.Background(), "t-1")
	ctx = WithUserID(ctx, "U1")
	ctx = WithChannelID(ctx, "C1")

	With(ctx, base).Info().Msg("hello")

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("log line is not json: %v (%q)", err, buf.String())
	}
	for k, want := range map[string]string{"trace_id": "t-1", "user_id": "U1", "channel_id": "C1", "message": "hello"} {
		if got[k] != want {
			t.Errorf("field %s = %v, want %s", k, got[k], want)
		}
	}
	if _, ok := got["pass_id"]; ok {
		t.Errorf("pass_id should be absent when unset")
	}
	if TraceID(ctx) != "t-1" {
		t.Errorf("TraceID() = %q", TraceID(ctx))
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, config.LogConfig{Level: "warn", Format: "json"}, false)
	l.Info().Msg("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level, got %q", buf.String())
	}
	l.Warn().Msg("kept")
	if buf.Len() == 0 {
		t.Fatalf("warn should be written")
	}
}

func TestRedact(t *testing.T) {
	if got := Redact("hola mundo amigos", true); got != "hola mundo amigos" {
		t.Errorf("dev mode should not redact, got %q", got)
	}
	if got := Redact("short", false); got != "***" {
		t.Errorf("short text = %q, want ***", got)
	}
	if got := Redact("hola mundo amigos", false); got != "hola...os" {
		t.Errorf("long text = %q", got)
	}
}
