package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/terry001-s/socialgraph/pkg/config"
	"github.com/terry001-s/socialgraph/pkg/logging"
)

var (
	tracer   trace.Tracer
	rpcCalls metric.Int64Counter
)

// Init wires tracing (Jaeger) and metrics (Prometheus) and returns a
// shutdown function that flushes both
func Init(cfg *config.TelemetryConfig) (func(), error) {
	if !cfg.Enabled {
		logging.GetLogger().Info("Telemetry disabled")
		return func() {}, nil
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion("0.1.0"),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	var shutdownFuncs []func(context.Context) error

	if cfg.JaegerURL != "" {
		shutdownTraces, err := initTraces(cfg.JaegerURL, res)
		if err != nil {
			return nil, err
		}
		shutdownFuncs = append(shutdownFuncs, shutdownTraces)
	}

	if cfg.PrometheusEnabled {
		shutdownMetrics, err := initMetrics(res)
		if err != nil {
			return nil, err
		}
		shutdownFuncs = append(shutdownFuncs, shutdownMetrics)
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	tracer = otel.Tracer(cfg.ServiceName)
	if err := initInstruments(cfg.ServiceName); err != nil {
		return nil, fmt.Errorf("failed to create instruments: %w", err)
	}

	shutdown := func() {
		for _, fn := range shutdownFuncs {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			if err := fn(ctx); err != nil {
				logging.GetLogger().Error("Error shutting down telemetry", zap.Error(err))
			}
			cancel()
		}
	}
	return shutdown, nil
}

func initTraces(jaegerURL string, res *resource.Resource) (func(context.Context) error, error) {
	exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(jaegerURL)))
	if err != nil {
		return nil, fmt.Errorf("failed to create Jaeger exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	logging.GetLogger().Info("Jaeger exporter initialized", zap.String("url", jaegerURL))
	return tp.Shutdown, nil
}

func initMetrics(res *resource.Resource) (func(context.Context) error, error) {
	// The exporter registers with the default Prometheus registry, served
	// on the HTTP /metrics endpoint
	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logging.GetLogger().Info("Prometheus exporter initialized")
	return mp.Shutdown, nil
}

func initInstruments(serviceName string) error {
	meter := otel.Meter(serviceName)
	var err error
	rpcCalls, err = meter.Int64Counter("rpc.requests",
		metric.WithDescription("JSON-RPC method invocations"))
	return err
}

// CountRPC increments the per-method request counter
func CountRPC(ctx context.Context, method string) {
	if rpcCalls == nil {
		return
	}
	rpcCalls.Add(ctx, 1, metric.WithAttributes(attribute.String("method", method)))
}

// Tracer returns the global tracer
func Tracer() trace.Tracer {
	if tracer == nil {
		return noop.NewTracerProvider().Tracer("socialgraph")
	}
	return tracer
}

// StartSpan starts a new span
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, opts...)
}
