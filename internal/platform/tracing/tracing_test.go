package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"sistpec-api/internal/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInit_SinEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	shutdown, err := Init(context.Background(), logger.Nop(), "sistpec-api", "test")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInit_ExportaAURLDelColector(t *testing.T) {
	var hits atomic.Int32
	collector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/traces" {
			hits.Add(1)
		}
		w.Header().Set("Content-Type", "application/x-protobuf")
		w.WriteHeader(http.StatusOK)
	}))
	defer collector.Close()

	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", collector.URL)

	ctx := context.Background()
	shutdown, err := Init(ctx, logger.Nop(), "sistpec-api", "test")
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(ctx, "GET /api/casos")
	span.End()

	require.NoError(t, shutdown(ctx))
	assert.Positive(t, hits.Load())
}
