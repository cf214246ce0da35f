package auth

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidToken    = errors.New("auth: token inválido o expirado")
	ErrSessionNotFound = errors.New("auth: sesión no encontrada")
)

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// SessionStore guarda sesiones con expiración (Redis o memoria).
type SessionStore interface {
	Create(ctx context.Context, s Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
	// DeleteUser cierra todas las sesiones de un usuario.
	DeleteUser(ctx context.Context, userID int64) error
}
