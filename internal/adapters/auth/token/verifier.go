package token

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sistpec-api/internal/ports/auth"
)

// Verifier implementa auth.AuthVerifier: token válido y sesión viva.
type Verifier struct {
	tokens   *Manager
	sessions auth.SessionStore
}

func NewVerifier(tokens *Manager, sessions auth.SessionStore) *Verifier {
	return &Verifier{tokens: tokens, sessions: sessions}
}

func (v *Verifier) Verify(ctx context.Context, tokenString string) (auth.Claims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return auth.Claims{}, auth.ErrInvalidToken
	}

	claims, err := v.tokens.Parse(tokenString)
	if err != nil {
		return auth.Claims{}, err
	}

	s, err := v.sessions.Get(ctx, claims.SessionID)
	if errors.Is(err, auth.ErrSessionNotFound) {
		return auth.Claims{}, auth.ErrInvalidToken
	}
	if err != nil {
		return auth.Claims{}, fmt.Errorf("token: leer sesión: %w", err)
	}
	if s.UserID != claims.UserID {
		return auth.Claims{}, auth.ErrInvalidToken
	}
	return claims, nil
}
