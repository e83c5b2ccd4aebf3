package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestInit_ContextFields(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Config{Level: "info", Format: "json", Writer: &buf}))

	ctx := WithRequestID(context.Background(), "req-42")
	ctx = WithTraceID(ctx, "trace-7")
	ctx = WithSpanID(ctx, "span-1")
	Info(ctx, "calculation completed", "product", "mortgage")
	Debug(ctx, "dropped below level")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "calculation completed", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "req-42", entry["request_id"])
	assert.Equal(t, "trace-7", entry["trace_id"])
	assert.Equal(t, "span-1", entry["span_id"])
	assert.Equal(t, "mortgage", entry["product"])

	assert.Equal(t, "req-42", RequestID(ctx))
	assert.Equal(t, "trace-7", TraceID(ctx))
	assert.Empty(t, RequestID(context.Background()))
}

func TestLogDuration(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Config{Format: "text", Writer: &buf}))

	done := LogDuration(context.Background(), "simulate", "samples", 10)
	done()

	out := buf.String()
	assert.Contains(t, out, "msg=simulate")
	assert.Contains(t, out, "samples=10")
	assert.Contains(t, out, "duration=")
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	l, err := New(Config{Output: "file", FilePath: path, MaxSize: 1})
	require.NoError(t, err)

	l.Info("written to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}
