package telemetry

import (
	"context"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ShutdownFunc flushes and stops the tracer provider.
type ShutdownFunc func(ctx context.Context) error

// InitTracing installs a global tracer provider that exports spans as JSON
// through the stdout exporter. Spans go to outputFile, or to os.Stderr when
// outputFile is "-". An empty outputFile leaves the no-op provider in place.
func InitTracing(serviceName, version, outputFile string) (ShutdownFunc, error) {
	if outputFile == "" {
		return func(context.Context) error { return nil }, nil
	}

	var (
		w      io.Writer = os.Stderr
		closer io.Closer
	)

	if outputFile != "-" {
		f, err := os.Create(outputFile)
		if err != nil {
			return nil, err
		}

		w, closer = f, f
	}

	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(w),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return nil, err
	}

	return InitTracingWithExporter(serviceName, version, exporter, closer)
}

// InitTracingWithExporter installs a global tracer provider on any span
// exporter. closer, if not nil, is closed after the provider shuts down.
func InitTracingWithExporter(
	serviceName, version string,
	exporter sdktrace.SpanExporter,
	closer io.Closer,
) (ShutdownFunc, error) {
	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", version),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	return func(ctx context.Context) error {
		err := tp.Shutdown(ctx)
		if closer != nil {
			if closeErr := closer.Close(); err == nil {
				err = closeErr
			}
		}

		return err
	}, nil
}
