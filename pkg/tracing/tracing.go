package tracing

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"
	"go.uber.org/zap"
)

const serviceName = "pos-gateway"

// ShutdownFunc flushes and stops the tracer provider.
type ShutdownFunc func(ctx context.Context) error

func noopShutdown(context.Context) error { return nil }

// Init installs a global OTLP/gRPC tracer provider exporting to address.
// An empty address leaves the no-op provider in place.
func Init(ctx context.Context, address, version string, logger *zap.Logger) (ShutdownFunc, error) {
	if address == "" {
		logger.Debug("No tracing endpoint supplied; tracing not enabled")
		return noopShutdown, nil
	}
	logger.Info("Starting tracing", zap.String("endpoint", address))

	driver := otlptracegrpc.NewClient(
		otlptracegrpc.WithEndpoint(address),
		otlptracegrpc.WithInsecure(),
	)
	exp, err := otlptrace.New(ctx, driver)
	if err != nil {
		return nil, fmt.Errorf("set up OTLP exporter: %w", err)
	}

	hostname, err := os.Hostname()
	if err != nil {
		logger.Debug("Failed to obtain hostname", zap.Error(err))
		hostname = "unknown"
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceInstanceIDKey.String(hostname),
			attribute.String("release", version),
		)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(ctx)
	}, nil
}
