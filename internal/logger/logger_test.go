package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func parseLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	line := strings.TrimSpace(buf.String())
	var m map[string]any
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, line)
	}
	return m
}

func TestKeyRenames(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf, Options{})

	log.Warn("something happened")

	m := parseLine(t, &buf)
	if m["message"] != "something happened" {
		t.Errorf("message = %v, want %q", m["message"], "something happened")
	}
	if m["level"] != "warning" {
		t.Errorf("level = %v, want warning", m["level"])
	}
	if _, ok := m["timestamp"]; !ok {
		t.Error("timestamp key missing")
	}
	if _, ok := m["time"]; ok {
		t.Error("time key should be renamed to timestamp")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("warn", &buf, Options{})

	log.Info("quiet")
	if buf.Len() != 0 {
		t.Errorf("info record emitted at warn level: %q", buf.String())
	}

	log.Error("loud")
	if buf.Len() == 0 {
		t.Error("error record not emitted at warn level")
	}
}

func TestWithHelpers(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("debug", &buf, Options{})

	log.WithModule("sermon").WithChatID("U123").WithField("topic", "grace").Debug("search")

	m := parseLine(t, &buf)
	if m["module"] != "sermon" {
		t.Errorf("module = %v, want sermon", m["module"])
	}
	if m["chat_id"] != "U123" {
		t.Errorf("chat_id = %v, want U123", m["chat_id"])
	}
	if m["topic"] != "grace" {
		t.Errorf("topic = %v, want grace", m["topic"])
	}
}

type countingHandler struct {
	count int
	level slog.Level
}

func (c *countingHandler) Enabled(_ context.Context, l slog.Level) bool { return l >= c.level }
func (c *countingHandler) Handle(_ context.Context, _ slog.Record) error {
	c.count++
	return nil
}
func (c *countingHandler) WithAttrs([]slog.Attr) slog.Handler { return c }
func (c *countingHandler) WithGroup(string) slog.Handler      { return c }

func TestMultiHandlerFanOut(t *testing.T) {
	a := &countingHandler{level: slog.LevelDebug}
	b := &countingHandler{level: slog.LevelError}
	log := slog.New(NewMultiHandler(a, b, nil))

	log.Info("hello")
	log.Error("boom")

	if a.count != 2 {
		t.Errorf("handler a count = %d, want 2", a.count)
	}
	if b.count != 1 {
		t.Errorf("handler b count = %d, want 1 (info filtered)", b.count)
	}
}
