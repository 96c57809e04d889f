package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/duynhne/profile-editor/config"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer          trace.Tracer
	tracerProvider  *sdktrace.TracerProvider
	detectedService string
)

// InitTracing installs a global OTLP/HTTP tracer provider built from cfg.Tracing.
// The resource carries the service name, version and environment; spans are
// batched and sampled at OTEL_SAMPLE_RATE.
//
// Example:
//
//	cfg := config.Load()
//	if _, err := middleware.InitTracing(cfg); err != nil {
//	    logger.Warn("Failed to initialize tracing", zap.Error(err))
//	}
//	defer middleware.Shutdown(context.Background())
func InitTracing(cfg *config.Config) (*sdktrace.TracerProvider, error) {
	if !cfg.Tracing.Enabled {
		return nil, errors.New("tracing is disabled (TRACING_ENABLED=false)")
	}
	if cfg.Tracing.Endpoint == "" {
		return nil, errors.New("OTEL_COLLECTOR_ENDPOINT is required when tracing is enabled")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exporter, err := otlptracehttp.New(
		ctx,
		otlptracehttp.WithEndpoint(cfg.Tracing.Endpoint),
		otlptracehttp.WithInsecure(),
		otlptracehttp.WithCompression(otlptracehttp.GzipCompression),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	// a partial detector failure still yields a usable resource
	res, _ := CreateResource(ctx, cfg)
	detectedService = GetServiceName(res)

	tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter,
			sdktrace.WithBatchTimeout(5*time.Second),
			sdktrace.WithExportTimeout(30*time.Second),
			sdktrace.WithMaxExportBatchSize(cfg.Tracing.MaxExportBatchSize),
		),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.Tracing.SampleRate)),
	)

	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	tracer = otel.Tracer(detectedService)

	return tracerProvider, nil
}

// shouldTrace determines if a request should be traced based on path
// Skips readiness/liveness probes, the metrics endpoint and the favicon
func shouldTrace(path string) bool {
	for _, skip := range []string{"/health", "/ready", "/metrics", "/favicon.ico"} {
		if strings.HasPrefix(path, skip) {
			return false
		}
	}
	return true
}

// TracingMiddleware returns a Gin middleware for OpenTelemetry tracing.
// Install it after InitTracing so otelgin picks up the configured provider;
// with tracing disabled it records into the global no-op provider.
//
// Usage:
//
//	r := gin.New()
//	r.Use(middleware.TracingMiddleware())
//	r.Use(middleware.LoggingMiddleware(logger))
func TracingMiddleware() gin.HandlerFunc {
	serviceName := detectedService
	if serviceName == "" {
		serviceName = unknownService
	}
	otelMiddleware := otelgin.Middleware(
		serviceName,
		otelgin.WithTracerProvider(otel.GetTracerProvider()),
	)

	return func(c *gin.Context) {
		if !shouldTrace(c.Request.URL.Path) {
			c.Next()
			return
		}
		otelMiddleware(c)
	}
}

// GetTracer returns the tracer named after the detected service.
// Before InitTracing it falls back to the global provider, so store and editor
// spans are safe to start in tests.
func GetTracer() trace.Tracer {
	if tracer == nil {
		serviceName := detectedService
		if serviceName == "" {
			serviceName = unknownService
		}
		return otel.Tracer(serviceName)
	}
	return tracer
}

// StartSpan starts a new span with the given name
//
// Usage:
//
//	ctx, span := middleware.StartSpan(ctx, "profile.save", trace.WithAttributes(
//	    attribute.String("layer", "logic"),
//	))
//	defer span.End()
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	//nolint:spancheck // span is returned to caller who is responsible for calling span.End()
	return GetTracer().Start(ctx, name, opts...)
}

// Shutdown flushes pending spans and stops the tracer provider.
// It is a no-op when InitTracing was never called. Call it last during
// graceful shutdown, after the HTTP server and the profile store are closed.
//
// Usage:
//
//	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GetShutdownTimeoutDuration())
//	defer cancel()
//	if err := middleware.Shutdown(shutdownCtx); err != nil {
//	    logger.Error("Tracer shutdown error", zap.Error(err))
//	}
func Shutdown(ctx context.Context) error {
	if tracerProvider == nil {
		return nil
	}
	if err := tracerProvider.ForceFlush(ctx); err != nil {
		return fmt.Errorf("failed to flush traces: %w", err)
	}
	if err := tracerProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown tracer provider: %w", err)
	}
	return nil
}

// AddSpanAttributes adds attributes to the current span if it's recording
//
// Usage:
//
//	middleware.AddSpanAttributes(ctx,
//	    attribute.Bool("picture.cancelled", true),
//	)
func AddSpanAttributes(ctx context.Context, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(attrs...)
	}
}

// RecordError records an error in the current span if it's recording
// and marks the span status as Error.
//
// Usage:
//
//	if err := e.store.SaveProfile(ctx, merged); err != nil {
//	    middleware.RecordError(ctx, err)
//	    return err
//	}
func RecordError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
