package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"sistpec-api/internal/platform/logger"
	"sistpec-api/internal/ports/auth"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// AuthContext verifica el Bearer token (si viene) y deja los claims de la
// sesión en el contexto. Un token ausente o rechazado no corta el request:
// RequireAuth y RequireCapabilityForWrites deciden si la ruta exige sesión.
func AuthContext(verifier auth.AuthVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r.Header.Get("Authorization"))
			if verifier == nil || token == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			claims, err := verifier.Verify(ctx, token)
			switch {
			case err == nil:
				ctx = WithClaims(ctx, claims)
				ctx = logger.WithContext(ctx, logger.FromContext(ctx).With(map[string]any{"id_usuario": claims.UserID}))
			case errors.Is(err, auth.ErrSessionNotFound):
				logger.FromContext(ctx).Debug("sesión cerrada o expirada", nil)
			default:
				logger.FromContext(ctx).Debug("token rechazado", map[string]any{"error": err.Error()})
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func WithClaims(ctx context.Context, c auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// GetClaims devuelve los claims de la sesión verificada, si hay.
func GetClaims(ctx context.Context) (auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(auth.Claims)
	return c, ok
}

// BearerToken extrae el token de "Authorization: Bearer <token>".
func BearerToken(header string) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
