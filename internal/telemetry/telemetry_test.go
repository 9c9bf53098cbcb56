package telemetry_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"inventory/internal/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNewLogger_AddsTraceContext(t *testing.T) {
	var buf bytes.Buffer
	logger := telemetry.NewLogger(&buf, "inventory", "test", slog.LevelInfo)

	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	logger.InfoContext(ctx, "inside span")
	span.End()

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "inside span", record["msg"])
	assert.Equal(t, "inventory", record["service.name"])
	assert.Equal(t, span.SpanContext().TraceID().String(), record["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), record["span_id"])
}

func TestNewLogger_WithoutSpan(t *testing.T) {
	var buf bytes.Buffer
	logger := telemetry.NewLogger(&buf, "inventory", "test", slog.LevelInfo)

	logger.With(slog.String("component", "x")).Info("no span")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.NotContains(t, record, "trace_id")
	assert.Equal(t, "x", record["component"])
}

func TestNewTelemetry_ExportsMetricsToRegistry(t *testing.T) {
	ctx := context.Background()
	tel, err := telemetry.NewTelemetry(ctx, telemetry.Config{ServiceName: "inventory", Environment: "test"})
	require.NoError(t, err)
	defer func() { assert.NoError(t, tel.Shutdown(ctx)) }()

	counter, err := tel.Meter.Int64Counter("test.requests")
	require.NoError(t, err)
	counter.Add(ctx, 3)

	families, err := tel.Registry.Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if strings.HasPrefix(f.GetName(), "test_requests") {
			found = true
			assert.Equal(t, 3.0, f.GetMetric()[0].GetCounter().GetValue())
		}
	}
	assert.True(t, found, "counter not exported")
}
