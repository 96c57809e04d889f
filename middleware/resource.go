package middleware

import (
	"context"
	"fmt"
	"os"

	"github.com/duynhne/profile-editor/config"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// unknownService is the default service name when nothing is configured
const unknownService = "unknown-service"

// serviceNameFor prefers OTEL_SERVICE_NAME, then the configured service name
func serviceNameFor(cfg *config.Config) string {
	if name := os.Getenv("OTEL_SERVICE_NAME"); name != "" {
		return name
	}
	if cfg != nil && cfg.Tracing.ServiceName != "" {
		return cfg.Tracing.ServiceName
	}
	if cfg != nil && cfg.Service.Name != "" {
		return cfg.Service.Name
	}
	return unknownService
}

// CreateResource builds the OpenTelemetry resource describing this process.
// On detector failure a minimal resource is returned together with the error.
func CreateResource(ctx context.Context, cfg *config.Config) (*resource.Resource, error) {
	serviceName := serviceNameFor(cfg)
	attrs := []resource.Option{
		resource.WithFromEnv(),
		resource.WithProcess(),
		resource.WithOS(),
		resource.WithHost(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(cfg.Service.Version),
			semconv.DeploymentEnvironmentKey.String(cfg.Service.Env),
		),
	}

	res, err := resource.New(ctx, attrs...)
	if err != nil {
		return resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
		), fmt.Errorf("resource detection partial failure (using fallback): %w", err)
	}
	return res, nil
}

// GetServiceName extracts service name from a resource
func GetServiceName(res *resource.Resource) string {
	if res == nil {
		return unknownService
	}
	for _, attr := range res.Attributes() {
		if attr.Key == semconv.ServiceNameKey {
			return attr.Value.AsString()
		}
	}
	return unknownService
}
