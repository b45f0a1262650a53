package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTracing installs a tracer provider backed by an in-memory span
// recorder and restores the original provider on cleanup.
func setupTracing(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	tracer = otel.Tracer("fincoach")

	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		tracer = otel.Tracer("fincoach")
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Logf("shutdown tracer provider: %v", err)
		}
	})
	return exporter
}

func TestStartTurnSpan(t *testing.T) {
	exporter := setupTracing(t)
	spans := NewSpanManager()

	_, span := spans.StartTurnSpan(context.Background(), "onboarding", "thread-1")
	require.NotNil(t, span)
	span.End()

	recorded := exporter.GetSpans()
	require.Len(t, recorded, 1)
	assert.Equal(t, "fincoach.turn", recorded[0].Name)

	var graphName, threadID string
	for _, attr := range recorded[0].Attributes {
		switch attr.Key {
		case "graph.name":
			graphName = attr.Value.AsString()
		case "thread.id":
			threadID = attr.Value.AsString()
		}
	}
	assert.Equal(t, "onboarding", graphName)
	assert.Equal(t, "thread-1", threadID)
}

func TestStartNodeSpan_ChildOfTurn(t *testing.T) {
	exporter := setupTracing(t)
	spans := NewSpanManager()

	ctx, turnSpan := spans.StartTurnSpan(context.Background(), "activity", "thread-1")
	_, nodeSpan := spans.StartNodeSpan(ctx, "chat_activity")
	nodeSpan.End()
	turnSpan.End()

	recorded := exporter.GetSpans()
	require.Len(t, recorded, 2)
	assert.Equal(t, "fincoach.node.chat_activity", recorded[0].Name)
	assert.Equal(t, recorded[1].SpanContext.SpanID(), recorded[0].Parent.SpanID())
}

func TestEndSpanWithError(t *testing.T) {
	exporter := setupTracing(t)
	spans := NewSpanManager()

	_, span := spans.StartNodeSpan(context.Background(), "chat")
	spans.EndSpanWithError(span, errors.New("model unavailable"))

	recorded := exporter.GetSpans()
	require.Len(t, recorded, 1)
	assert.Equal(t, codes.Error, recorded[0].Status.Code)
	require.Len(t, recorded[0].Events, 1)
	assert.Equal(t, "exception", recorded[0].Events[0].Name)

	exporter.Reset()
	_, span = spans.StartNodeSpan(context.Background(), "chat")
	spans.EndSpanWithError(span, nil)

	recorded = exporter.GetSpans()
	require.Len(t, recorded, 1)
	assert.Equal(t, codes.Ok, recorded[0].Status.Code)
}

func TestNoopSpanManager(t *testing.T) {
	spans := NoopSpanManager{}

	ctx, span := spans.StartTurnSpan(context.Background(), "onboarding", "thread-1")
	require.NotNil(t, span)
	assert.False(t, span.IsRecording())

	_, nodeSpan := spans.StartNodeSpan(ctx, "chat")
	assert.False(t, nodeSpan.IsRecording())

	assert.NotPanics(t, func() {
		spans.EndSpanWithError(nodeSpan, errors.New("ignored"))
		spans.AddSpanEvent(ctx, "ignored")
	})
}
