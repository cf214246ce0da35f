package middleware

import (
	"net/http"
	"runtime/debug"

	"sistpec-api/internal/platform/httpjson"
	"sistpec-api/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Recover responde 500 {detail} ante un panic y lo registra con el stack.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logger.FromContext(r.Context()).Error("panic", map[string]any{
				"panic":      rec,
				"method":     r.Method,
				"path":       r.URL.Path,
				"request_id": chimw.GetReqID(r.Context()),
				"stack":      string(debug.Stack()),
			})
			httpjson.WriteDetail(w, http.StatusInternalServerError, "Error interno del servidor")
		}()
		next.ServeHTTP(w, r)
	})
}
