package observability

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "shopPlanner"

var (
	tracerOnce sync.Once
	shutdownFn func(context.Context) error
)

// InitTracing настраивает глобальный провайдер трассировки.
// exporter: "" или "none" — без экспорта, "stdout" — вывод спанов в stdout.
func InitTracing(service, exporter string) (func(context.Context) error, error) {
	var initErr error
	tracerOnce.Do(func() {
		switch strings.ToLower(strings.TrimSpace(exporter)) {
		case "", "none":
			otel.SetTracerProvider(noop.NewTracerProvider())
			shutdownFn = func(context.Context) error { return nil }
			return
		case "stdout":
		default:
			initErr = fmt.Errorf("unsupported trace exporter %q", exporter)
			return
		}

		exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			initErr = err
			return
		}
		res, err := resource.New(context.Background(),
			resource.WithAttributes(attribute.String("service.name", service)),
		)
		if err != nil {
			initErr = err
			return
		}
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exp),
			sdktrace.WithResource(res),
		)
		otel.SetTracerProvider(tp)
		shutdownFn = tp.Shutdown
	})
	if shutdownFn == nil {
		shutdownFn = func(context.Context) error { return nil }
	}
	return shutdownFn, initErr
}

func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name, trace.WithAttributes(attrs...))
}
