package middleware

import (
	"net/http"
	"time"

	"sistpec-api/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger deja el logger (con request_id) en el contexto y registra
// cada request al terminar.
func RequestLogger(base logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := chimw.GetReqID(r.Context())
			log := base.With(map[string]any{"request_id": reqID})

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(logger.WithContext(r.Context(), log)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := map[string]any{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      status,
				"duration_ms": time.Since(start).Milliseconds(),
			}
			if status >= http.StatusInternalServerError {
				log.Warn("request", fields)
				return
			}
			log.Info("request", fields)
		})
	}
}
