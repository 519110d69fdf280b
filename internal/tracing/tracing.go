package tracing

import (
	"context"

	"github.com/go-logr/zerologr"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// ServiceName is reported as the service.name resource attribute
const ServiceName = "barogreen-admin"

// tracer returns the package tracer. This must be a function (not a package-level var)
// because the global TracerProvider isn't set until Init() runs.
func tracer() trace.Tracer {
	return otel.Tracer("barogreen")
}

// Init creates and registers a tracer provider with an OTLP HTTP exporter
// sending to endpoint (host:port). Returns the provider so the caller can
// defer Shutdown.
func Init(ctx context.Context, endpoint string) (*sdktrace.TracerProvider, error) {
	// Bridge OTel's internal logger to zerolog
	otel.SetLogger(zerologr.New(&log.Logger))

	exp, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(ServiceName),
		)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp, nil
}

// ActionSpan starts a span for a moderation action with standard attributes.
func ActionSpan(ctx context.Context, entity, action string, id int) (context.Context, trace.Span) {
	return tracer().Start(ctx, "moderation.action",
		trace.WithAttributes(
			attribute.String("moderation.entity", entity),
			attribute.String("moderation.action", action),
			attribute.Int("moderation.id", id),
		),
	)
}

// AuditSpan starts a span for an audit store operation.
func AuditSpan(ctx context.Context, backend, op string) (context.Context, trace.Span) {
	return tracer().Start(ctx, "audit."+op,
		trace.WithAttributes(
			attribute.String("audit.backend", backend),
			attribute.String("audit.op", op),
		),
	)
}

// EndWithError records an error on a span and sets its status.
// If err is nil, this is a no-op.
func EndWithError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
