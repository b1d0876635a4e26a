package telemetry

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"shopsmart/api/config"
)

// InitTracer installs a global tracer provider exporting to stdout. When
// tracing is disabled the returned shutdown func is a no-op.
func InitTracer(cfg config.TelemetryConfig, logger *slog.Logger) (func(context.Context) error, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			"",
			semconv.ServiceName(cfg.ServiceName),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	logger.Info("OpenTelemetry initialized", slog.String("service", cfg.ServiceName))
	return tp.Shutdown, nil
}

// HTTPClient returns the client used for outbound AI calls, instrumented when
// tracing is enabled.
func HTTPClient(cfg config.TelemetryConfig, timeout time.Duration) *http.Client {
	client := &http.Client{Timeout: timeout}
	if cfg.Enabled {
		client.Transport = otelhttp.NewTransport(http.DefaultTransport)
	}
	return client
}
