package observability

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func restoreTracing(t *testing.T) {
	t.Helper()
	prevTracer := Tracer
	prevProvider := otel.GetTracerProvider()
	t.Cleanup(func() {
		Tracer = prevTracer
		otel.SetTracerProvider(prevProvider)
	})
}

func TestInitTracing_Disabled(t *testing.T) {
	restoreTracing(t)

	shutdown, err := InitTracing(context.Background(), TracingConfig{ServiceName: "feed-test"})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))

	_, span := StartSpan(context.Background(), "feed.assemble")
	assert.False(t, span.SpanContext().IsSampled())
	EndSpan(span, nil)
}

func TestInitTracing_StdoutExportsSpans(t *testing.T) {
	restoreTracing(t)
	var out bytes.Buffer

	shutdown, err := InitTracing(context.Background(), TracingConfig{
		Enabled:      true,
		Exporter:     "stdout",
		Environment:  "test",
		SamplerRatio: 1,
		Writer:       &out,
	})
	require.NoError(t, err)

	_, span := StartSpan(context.Background(), "feed.trending")
	assert.True(t, span.SpanContext().IsSampled())
	EndSpan(span, errors.New("disk unreadable"))

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, out.String(), "feed.trending")
	assert.Contains(t, out.String(), DefaultServiceName)
	assert.Contains(t, out.String(), "disk unreadable")
}

func TestSamplerFor(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), samplerFor(1).Description())
	assert.Equal(t, sdktrace.AlwaysSample().Description(), samplerFor(2.5).Description())
	assert.Contains(t, samplerFor(0.25).Description(), "ParentBased")
}
