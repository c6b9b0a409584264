package telemetry

import (
	"context"

	"github.com/odpf/salt/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"

	"github.com/odpf/jobpack/config"
)

// InitTracing registers a jaeger backed tracer provider when an address is
// configured. The returned func flushes pending spans.
func InitTracing(l log.Logger, conf config.TelemetryConfig) (func(), error) {
	if conf.JaegerAddr == "" {
		return func() {}, nil
	}

	l.Debug("enabling jaeger traces to %s", conf.JaegerAddr)
	tp, err := tracerProvider(conf.JaegerAddr)
	if err != nil {
		return nil, err
	}
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			l.Warn("failed to shutdown trace provider: %s", err)
		}
	}, nil
}

func tracerProvider(url string) (*tracesdk.TracerProvider, error) {
	jaegerExporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(url)))
	if err != nil {
		return nil, err
	}
	tp := tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(jaegerExporter),
		tracesdk.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(config.ClientName),
			semconv.ServiceVersionKey.String(config.BuildVersion),
			attribute.String("build_commit", config.BuildCommit),
			attribute.String("build_date", config.BuildDate),
		)),
	)
	return tp, nil
}
