package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sistpec_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sistpec_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	casosCreados = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sistpec_casos_creados_total",
		Help: "Cases created",
	})

	loginTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sistpec_login_total",
		Help: "Login attempts by result",
	}, []string{"result"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

func IncCasoCreado() {
	casosCreados.Inc()
}

// ObserveLogin cuenta intentos de login: ok, invalid, inactive, expired, error.
func ObserveLogin(result string) {
	loginTotal.WithLabelValues(result).Inc()
}

// Handler expone el registry por defecto.
func Handler() http.Handler {
	return promhttp.Handler()
}
