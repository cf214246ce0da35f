package middleware

import (
	"net/http"

	"sistpec-api/internal/platform/httpjson"
	"sistpec-api/internal/platform/logger"
	"sistpec-api/internal/ports/capabilities"
)

// RequireAuth corta con 401 si no hay claims. Las rutas en skip pasan sin sesión.
func RequireAuth(skip ...string) func(http.Handler) http.Handler {
	open := make(map[string]bool, len(skip))
	for _, p := range skip {
		open[p] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if open[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			if _, ok := GetClaims(r.Context()); !ok {
				httpjson.WriteDetail(w, http.StatusUnauthorized, "No autenticado")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireCapabilityForWrites exige la capacidad en POST/PUT/PATCH/DELETE.
// Las lecturas pasan sin revisar. Sin claims se consulta al resolver como
// anónimo; si lo rechaza la respuesta es 401.
func RequireCapabilityForWrites(resolver capabilities.CapabilitiesResolver, capability string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			claims, authenticated := GetClaims(r.Context())
			allowed, err := resolver.HasFeature(r.Context(), capabilities.CapabilityCheck{
				UserID:     claims.UserID,
				Rol:        claims.Rol,
				Capability: capability,
			})
			if err != nil {
				logger.FromContext(r.Context()).Error("capability check failed", map[string]any{
					"capability": capability,
					"error":      err,
				})
				httpjson.WriteDetail(w, http.StatusInternalServerError, "Error interno del servidor")
				return
			}
			if !allowed && !authenticated {
				httpjson.WriteDetail(w, http.StatusUnauthorized, "No autenticado")
				return
			}
			if !allowed {
				httpjson.WriteDetail(w, http.StatusForbidden, "Permisos insuficientes")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
