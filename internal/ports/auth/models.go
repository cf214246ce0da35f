package auth

import "time"

// Claims representa la información extraída del token.
type Claims struct {
	UserID    int64
	Username  string
	Rol       string
	SessionID string
	ExpiresAt time.Time
}

// Session es la sesión del lado del servidor; el token solo es válido
// mientras exista.
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	Rol       string    `json:"rol"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
