// Package tracing configura OpenTelemetry. Sin OTEL_EXPORTER_OTLP_ENDPOINT es un no-op.
package tracing

import (
	"context"
	"net/http"
	"os"

	"sistpec-api/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// Init registra un exportador OTLP/HTTP si hay endpoint y devuelve la función de cierre.
func Init(ctx context.Context, log logger.Logger, serviceName, environment string) (func(context.Context) error, error) {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		log.Info("tracing disabled: OTEL_EXPORTER_OTLP_ENDPOINT not set", nil)
		return func(context.Context) error { return nil }, nil
	}

	// el exportador lee OTEL_EXPORTER_OTLP_ENDPOINT (URL completa, http o https)
	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.DeploymentEnvironment(environment),
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
	log.Info("tracing initialized", map[string]any{"endpoint": endpoint})
	return tp.Shutdown, nil
}

// Handler envuelve el router completo con un span por request.
func Handler(next http.Handler, serviceName string) http.Handler {
	return otelhttp.NewHandler(next, serviceName,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}

// RouteName renombra el span con el patrón de chi una vez resuelta la ruta,
// así /api/casos/12 y /api/casos/13 quedan agrupados.
func RouteName(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				trace.SpanFromContext(r.Context()).SetName(r.Method + " " + p)
			}
		}
	})
}
