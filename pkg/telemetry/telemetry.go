// Package telemetry configures the global OpenTelemetry tracer provider.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/macropower/scout/pkg/version"
)

// Exporter names a span exporter.
type Exporter string

const (
	ExporterNone   Exporter = "none"
	ExporterStdout Exporter = "stdout"
	ExporterOTLP   Exporter = "otlp"

	serviceName = "scout"
)

var (
	ErrUnknownExporter = errors.New("unknown trace exporter")

	AllExporters = []string{
		string(ExporterNone),
		string(ExporterStdout),
		string(ExporterOTLP),
	}
)

// ShutdownFunc flushes and stops the tracer provider.
type ShutdownFunc func(context.Context) error

// Config selects and configures the span exporter.
type Config struct {
	// Writer receives spans for [ExporterStdout].
	Writer io.Writer
	// Exporter is one of [AllExporters]. Empty means [ExporterNone].
	Exporter string
	// Endpoint is the OTLP gRPC endpoint (host:port). Empty uses the
	// OTEL_EXPORTER_OTLP_ENDPOINT environment variable or the SDK default.
	Endpoint string
	// Insecure disables TLS for the OTLP connection.
	Insecure bool
}

// Setup installs a global tracer provider. With [ExporterNone] a no-op
// provider is installed, so spans cost nothing.
func Setup(ctx context.Context, cfg Config) (ShutdownFunc, error) {
	noopShutdown := func(context.Context) error { return nil }

	exporterName := Exporter(strings.ToLower(cfg.Exporter))
	if exporterName == "" {
		exporterName = ExporterNone
	}

	if !slices.Contains(AllExporters, string(exporterName)) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownExporter, cfg.Exporter)
	}

	var (
		exporter sdktrace.SpanExporter
		err      error
	)

	switch exporterName {
	case ExporterNone:
		otel.SetTracerProvider(noop.NewTracerProvider())

		return noopShutdown, nil

	case ExporterStdout:
		opts := []stdouttrace.Option{stdouttrace.WithPrettyPrint()}
		if cfg.Writer != nil {
			opts = append(opts, stdouttrace.WithWriter(cfg.Writer))
		}

		exporter, err = stdouttrace.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("create stdout exporter: %w", err)
		}

	case ExporterOTLP:
		var opts []otlptracegrpc.Option
		if cfg.Endpoint != "" {
			opts = append(opts, otlptracegrpc.WithEndpoint(cfg.Endpoint))
		}
		if cfg.Insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}

		exporter, err = otlptracegrpc.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("create otlp exporter: %w", err)
		}
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", version.GetVersion()),
		)),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}
