package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}

	if err := InitWithOptions(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestLoggerJSONWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithOptions(Options{Format: "json", Output: &buf}); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	ctx := WithRequestID(context.Background(), "req-42")
	Named("draw").Info(ctx, "team drawn", String("collector", "alice"), Int("power", 321))

	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	if line["msg"] != "team drawn" {
		t.Errorf("msg = %v", line["msg"])
	}
	if line["request_id"] != "req-42" {
		t.Errorf("request_id = %v", line["request_id"])
	}
	if line["component"] != "draw" {
		t.Errorf("component = %v", line["component"])
	}
	if line["power"] != float64(321) {
		t.Errorf("power = %v", line["power"])
	}
	if src, _ := line["source"].(string); !strings.Contains(src, "logger_test.go") {
		t.Errorf("source = %v", line["source"])
	}
}

func TestLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithOptions(Options{Output: &buf}); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	if err := SetLevelString("warn"); err != nil {
		t.Fatalf("SetLevelString: %v", err)
	}
	defer func() { _ = SetLevelString("info") }()

	Get().Info(context.Background(), "hidden")
	Get().Warn(context.Background(), "shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line written at warn level: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn line missing: %s", out)
	}
	if err := SetLevelString("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestRequestID(t *testing.T) {
	if _, ok := RequestIDFromContext(context.Background()); ok {
		t.Fatal("empty context should carry no request id")
	}
	id := NewRequestID()
	if len(id) != 36 {
		t.Fatalf("unexpected request id %q", id)
	}
	got, ok := RequestIDFromContext(WithRequestID(context.Background(), id))
	if !ok || got != id {
		t.Fatalf("got %q, %v", got, ok)
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info(context.Background(), "ignored")
	if l.Named("x") == nil {
		t.Fatal("named nop logger is nil")
	}
}
