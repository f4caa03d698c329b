package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })
	return recorder
}

func TestTraceHelpers_SpanNames(t *testing.T) {
	recorder := withRecorder(t)
	ctx := context.Background()

	_, span := TraceBusinessLogic(ctx, "validate_draft")
	span.End()
	_, span = TraceCacheGet(ctx, "cnpj:cache:11222333000181")
	span.End()
	_, span = TraceCacheSet(ctx, "cnpj:cache:11222333000181", time.Hour)
	span.End()
	_, span = TraceDatabaseOperation(ctx, "create", "registrations")
	span.End()
	_, span = TraceBlobOperation(ctx, "upload", "registrations/1/selfie-me.png")
	span.End()
	_, span = TraceExternalService(ctx, "brasilapi", "fetch_cnpj")
	span.End()

	var names []string
	for _, s := range recorder.Ended() {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{
		"business_logic.validate_draft",
		"cache_get",
		"cache_set",
		"db.create",
		"blob.upload",
		"external_service.brasilapi",
	}, names)
}

func TestRecordErrorInSpan(t *testing.T) {
	recorder := withRecorder(t)

	_, span := TraceExternalService(context.Background(), "brasilapi", "fetch_cnpj")
	RecordErrorInSpan(span, errors.New("timeout"), map[string]interface{}{"cnpj.masked": "11.***", "attempt": 1})
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "Error", ended[0].Status().Code.String())
	assert.Len(t, ended[0].Events(), 1)
}

func TestToAttribute(t *testing.T) {
	assert.Equal(t, attribute.StringValue("x"), toAttribute("k", "x").Value)
	assert.Equal(t, attribute.Int64Value(3), toAttribute("k", 3).Value)
	assert.Equal(t, attribute.BoolValue(true), toAttribute("k", true).Value)
	assert.Equal(t, attribute.StringValue("1s"), toAttribute("k", time.Second).Value)
	assert.Equal(t, attribute.StringValue("unknown_type"), toAttribute("k", struct{}{}).Value)
}
