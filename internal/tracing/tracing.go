package tracing

import (
  "context"
  "fmt"
  "os"

  "github.com/rs/zerolog/log"
  "go.opentelemetry.io/otel"
  "go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
  "go.opentelemetry.io/otel/propagation"
  "go.opentelemetry.io/otel/sdk/resource"
  sdktrace "go.opentelemetry.io/otel/sdk/trace"
  semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// Init installs the global tracer provider and propagator. Tracing is only
// exported when an OTLP endpoint is configured and OTEL_SDK_DISABLED is not
// "true"; otherwise only the propagator is installed. The returned function
// flushes and stops the provider.
func Init(ctx context.Context, serviceName string) (func(context.Context) error, error) {
  otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
    propagation.TraceContext{},
    propagation.Baggage{},
  ))

  if !Enabled() {
    log.Info().Msg("ℹ tracing disabled")
    return func(context.Context) error { return nil }, nil
  }

  res, err := resource.New(ctx,
    resource.WithAttributes(semconv.ServiceNameKey.String(serviceName)),
    resource.WithFromEnv(),
    resource.WithTelemetrySDK(),
  )
  if err != nil {
    return nil, fmt.Errorf("failed to create resource: %w", err)
  }

  exporter, err := otlptracehttp.New(ctx)
  if err != nil {
    return nil, fmt.Errorf("failed to create exporter: %w", err)
  }

  tp := sdktrace.NewTracerProvider(
    sdktrace.WithBatcher(exporter),
    sdktrace.WithResource(res),
  )
  otel.SetTracerProvider(tp)

  log.Info().Str("service", serviceName).Msg("✓ tracing enabled")
  return tp.Shutdown, nil
}

func Enabled() bool {
  if os.Getenv("OTEL_SDK_DISABLED") == "true" {
    return false
  }
  return os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" ||
    os.Getenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT") != ""
}
