// Package token emite y valida los JWT de sesión (HS256).
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"sistpec-api/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
)

const defaultIssuer = "sistpec-api"

type jwtClaims struct {
	Username string `json:"nombre_usuario"`
	Rol      string `json:"rol"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewManager(secret, issuer string) *Manager {
	if issuer == "" {
		issuer = defaultIssuer
	}
	return &Manager{secret: []byte(secret), issuer: issuer, now: time.Now}
}

// Issue firma un token para la sesión; el id de sesión va en jti y el
// usuario en sub.
func (m *Manager) Issue(s auth.Session) (string, error) {
	if s.ID == "" || s.UserID <= 0 {
		return "", errors.New("token: sesión y usuario requeridos")
	}
	claims := jwtClaims{
		Username: s.Username,
		Rol:      s.Rol,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			Subject:   strconv.FormatInt(s.UserID, 10),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(m.now()),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse valida firma, emisor y expiración. No consulta la sesión.
func (m *Manager) Parse(tokenString string) (auth.Claims, error) {
	var claims jwtClaims
	tok, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !tok.Valid {
		return auth.Claims{}, fmt.Errorf("%w: %v", auth.ErrInvalidToken, err)
	}

	uid, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || uid <= 0 || claims.ID == "" {
		return auth.Claims{}, auth.ErrInvalidToken
	}
	return auth.Claims{
		UserID:    uid,
		Username:  claims.Username,
		Rol:       claims.Rol,
		SessionID: claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
