package tracing

import (
	"context"
	"fmt"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	service     = "race-results"
	environment = "production"
)

// TracerProvider exports spans to the Jaeger collector at url.
// Without a url spans go to a no-op provider.
func TracerProvider(url string) (trace.TracerProvider, error) {
	if url == "" {
		return trace.NewNoopTracerProvider(), nil
	}

	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(url)))
	if err != nil {
		return nil, fmt.Errorf("jaeger.New failed: %w", err)
	}
	tp := tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(exp),
		tracesdk.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(service),
			attribute.String("environment", environment),
		)),
	)
	return tp, nil
}

// Shutdown flushes an exporting provider, other providers have nothing to flush.
func Shutdown(ctx context.Context, tp trace.TracerProvider) error {
	sdk, ok := tp.(*tracesdk.TracerProvider)
	if !ok {
		return nil
	}
	if err := sdk.Shutdown(ctx); err != nil {
		return fmt.Errorf("tp.Shutdown failed: %w", err)
	}
	return nil
}
