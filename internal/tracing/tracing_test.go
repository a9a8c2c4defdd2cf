package tracing

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	"testing"
)

func TestTracerProvider_NoCollector(t *testing.T) {
	tp, err := TracerProvider("")
	require.NoError(t, err)

	_, isSDK := tp.(*tracesdk.TracerProvider)
	assert.False(t, isSDK)

	_, span := tp.Tracer("test").Start(context.Background(), "convert")
	span.End()

	assert.NoError(t, Shutdown(context.Background(), tp))
	assert.NoError(t, Shutdown(context.Background(), tp))
}

func TestTracerProvider_Collector(t *testing.T) {
	tp, err := TracerProvider("http://localhost:14268/api/traces")
	require.NoError(t, err)

	_, isSDK := tp.(*tracesdk.TracerProvider)
	assert.True(t, isSDK)
}

func TestShutdown_Exporting(t *testing.T) {
	tp := tracesdk.NewTracerProvider(tracesdk.WithSyncer(nopExporter{}))
	assert.NoError(t, Shutdown(context.Background(), tp))
}

type nopExporter struct{}

func (nopExporter) ExportSpans(context.Context, []tracesdk.ReadOnlySpan) error {
	return nil
}

func (nopExporter) Shutdown(context.Context) error {
	return nil
}
