// Package tracing configures the process-wide OpenTelemetry tracer provider
// used by the assignment engine and the location tracker.
package tracing

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// Options selects the span exporter. Endpoint is only used by the OTLP exporter;
// when empty the OTEL_EXPORTER_OTLP_* environment applies.
type Options struct {
	ServiceName string
	Environment string
	Exporter    string
	Endpoint    string
	Insecure    bool
	// Writer receives stdout spans. Defaults to os.Stdout.
	Writer io.Writer
}

// Init installs a tracer provider and returns its shutdown function, which
// flushes pending spans. With ExporterNone spans are sampled but never exported.
func Init(ctx context.Context, opts Options) (func(context.Context) error, error) {
	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			attribute.String("service.name", opts.ServiceName),
			attribute.String("deployment.environment", opts.Environment),
		),
	)
	if err != nil {
		return nil, err
	}

	providerOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}

	switch opts.Exporter {
	case "", ExporterNone:
	case ExporterStdout:
		stdoutOpts := []stdouttrace.Option{}
		if opts.Writer != nil {
			stdoutOpts = append(stdoutOpts, stdouttrace.WithWriter(opts.Writer))
		}
		exporter, exportErr := stdouttrace.New(stdoutOpts...)
		if exportErr != nil {
			return nil, exportErr
		}
		providerOpts = append(providerOpts, sdktrace.WithBatcher(exporter))
	case ExporterOTLP:
		otlpOpts := []otlptracehttp.Option{}
		if opts.Endpoint != "" {
			otlpOpts = append(otlpOpts, otlptracehttp.WithEndpoint(opts.Endpoint))
		}
		if opts.Insecure {
			otlpOpts = append(otlpOpts, otlptracehttp.WithInsecure())
		}
		exporter, exportErr := otlptracehttp.New(ctx, otlpOpts...)
		if exportErr != nil {
			return nil, exportErr
		}
		providerOpts = append(providerOpts, sdktrace.WithBatcher(exporter))
	default:
		return nil, fmt.Errorf("unknown trace exporter %q", opts.Exporter)
	}

	provider := sdktrace.NewTracerProvider(providerOpts...)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return provider.Shutdown, nil
}
