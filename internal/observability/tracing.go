package observability

import (
	"context"
	"time"

	"github.com/nova-solidum/app-onboarding/internal/config"
	"github.com/nova-solidum/app-onboarding/internal/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	// ServiceName identifies the onboarding API in traces
	ServiceName      = "nova-solidum-onboarding"
	serviceNamespace = "nova-solidum"
	serviceVersion   = "v1.0.0"
)

var (
	tracerProvider *sdktrace.TracerProvider
)

// Tracer returns a tracer scoped under the onboarding service, e.g.
// "nova-solidum-onboarding/http"
func Tracer(scope string) trace.Tracer {
	return otel.Tracer(ServiceName + "/" + scope)
}

// resourceAttributes describes the running deployment: which storage backend
// holds registrations, whether the admin area is open and how long CNPJ
// lookups may take
func resourceAttributes(cfg *config.Config) []attribute.KeyValue {
	return []attribute.KeyValue{
		semconv.ServiceNameKey.String(ServiceName),
		semconv.ServiceNamespaceKey.String(serviceNamespace),
		semconv.ServiceVersionKey.String(serviceVersion),
		semconv.DeploymentEnvironmentKey.String(cfg.Environment),
		attribute.String("onboarding.storage_driver", cfg.StorageDriver),
		attribute.Bool("onboarding.admin_enabled", cfg.Admin.Configured()),
		attribute.Bool("onboarding.jwt_verified", cfg.JWTSecret != ""),
	}
}

// InitTracer initializes the OpenTelemetry tracer. With tracing disabled the
// global no-op provider stays in place.
func InitTracer(ctx context.Context, cfg *config.Config) {
	if cfg == nil || !cfg.TracingEnabled {
		logging.Logger.Info("tracing is disabled")
		return
	}

	client := otlptracegrpc.NewClient(
		otlptracegrpc.WithInsecure(),
		otlptracegrpc.WithEndpoint(cfg.TracingEndpoint),
		otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
	)
	exporter, err := otlptrace.New(ctx, client)
	if err != nil {
		logging.Logger.Error("failed to create OTLP exporter", zap.Error(err))
		return
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(resourceAttributes(cfg)...),
	)
	if err != nil {
		logging.Logger.Error("failed to create resource", zap.Error(err))
		return
	}

	tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter,
			sdktrace.WithMaxExportBatchSize(512),
			sdktrace.WithBatchTimeout(time.Second*10),
			sdktrace.WithMaxQueueSize(2048),
		),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(samplingRatio(cfg.Environment)))),
	)

	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logging.Logger.Info("tracer initialized",
		zap.String("service", ServiceName),
		zap.String("endpoint", cfg.TracingEndpoint),
		zap.Float64("sampling_ratio", samplingRatio(cfg.Environment)),
	)
}

// samplingRatio keeps every trace outside production
func samplingRatio(environment string) float64 {
	if environment == "production" {
		return 0.25
	}
	return 1
}

// ShutdownTracer shuts down the tracer provider
func ShutdownTracer() {
	if tracerProvider == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := tracerProvider.Shutdown(ctx); err != nil {
		logging.Logger.Error("failed to shutdown tracer provider", zap.Error(err))
	}
}
