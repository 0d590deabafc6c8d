package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestBuild_JSONFieldsAndComponent(t *testing.T) {
	var buf bytes.Buffer
	l := Build(Config{Level: "info", Component: "api"}, &buf)
	l.Info().Msg("hello")

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("not json: %v (%s)", err, buf.String())
	}
	if m["msg"] != "hello" || m["component"] != "api" || m["level"] != "info" {
		t.Fatalf("fields=%v", m)
	}
	if _, ok := m["timestamp"]; !ok {
		t.Fatalf("missing timestamp: %v", m)
	}
}

func TestBuild_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := Build(Config{Level: "warn"}, &buf)
	l.Info().Msg("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn: %s", buf.String())
	}
	l.Warn().Msg("kept")
	if buf.Len() == 0 {
		t.Fatalf("warn should be written")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug": zerolog.DebugLevel, " WARN ": zerolog.WarnLevel,
		"error": zerolog.ErrorLevel, "": zerolog.InfoLevel, "bogus": zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q)=%v want %v", in, got, want)
		}
	}
}

func TestFromContext_AppliesFields(t *testing.T) {
	var buf bytes.Buffer
	parent := zerolog.New(&buf)
	ctx := WithStation(WithRequestID(context.Background(), "abc"), "BEERWAH")
	FromContext(ctx, &parent).Info().Msg("x")

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("not json: %v", err)
	}
	if m["request_id"] != "abc" || m["station"] != "BEERWAH" {
		t.Fatalf("fields=%v", m)
	}
}

func TestWithRequestID_GeneratesWhenEmpty(t *testing.T) {
	ctx := WithRequestID(context.Background(), "")
	id, _ := ctx.Value(ctxReqIDKey).(string)
	if len(id) != 16 {
		t.Fatalf("generated id=%q", id)
	}
}

func TestFromContext_NilParentIsSafe(t *testing.T) {
	FromContext(context.Background(), nil).Info().Msg("discarded")
}
