package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"sistpec-api/internal/domain/usuarios"
	"sistpec-api/internal/platform/apperr"
	"sistpec-api/internal/platform/dates"
	"sistpec-api/internal/platform/logger"
	"sistpec-api/internal/platform/metrics"
	portauth "sistpec-api/internal/ports/auth"
	"sistpec-api/internal/ports/storage"

	"github.com/google/uuid"
)

var (
	errCredencialesReq = apperr.Validation("Usuario y contraseña son requeridos")
	errCredenciales    = apperr.Unauthorized("Usuario o contraseña incorrectos")
	errInactivo        = apperr.Forbidden("El usuario está inactivo")
	errNoVigente       = apperr.Forbidden("El usuario aún no está vigente")
	errVigenciaVencida = apperr.Forbidden("La vigencia del usuario ha expirado")
	ErrTokenRequerido  = apperr.Unauthorized("Token no proporcionado")
	ErrTokenInvalido   = apperr.Unauthorized("Token inválido o expirado")
)

// Users es la parte del repositorio de usuarios que usa el login.
type Users interface {
	GetByNombreUsuario(ctx context.Context, nombreUsuario string) (usuarios.Usuario, error)
}

type PasswordVerifier interface {
	Verify(encoded, plain string) (bool, error)
	VerifyDummy(plain string)
}

type Tokens interface {
	Issue(s portauth.Session) (string, error)
	Parse(token string) (portauth.Claims, error)
}

type Service struct {
	users    Users
	hasher   PasswordVerifier
	tokens   Tokens
	sessions portauth.SessionStore
	verifier portauth.AuthVerifier
	ttl      time.Duration
	now      func() time.Time
	newID    func() string
}

func NewService(
	users Users,
	hasher PasswordVerifier,
	tokens Tokens,
	sessions portauth.SessionStore,
	verifier portauth.AuthVerifier,
	ttl time.Duration,
) *Service {
	return &Service{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		sessions: sessions,
		verifier: verifier,
		ttl:      ttl,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

type LoginResult struct {
	Usuario   usuarios.Usuario
	Token     string
	ExpiresAt time.Time
}

func (s *Service) Login(ctx context.Context, nombreUsuario, password string) (LoginResult, error) {
	nombreUsuario = strings.TrimSpace(nombreUsuario)
	if nombreUsuario == "" || password == "" {
		return LoginResult{}, errCredencialesReq
	}
	log := logger.FromContext(ctx)

	u, err := s.users.GetByNombreUsuario(ctx, nombreUsuario)
	if errors.Is(err, storage.ErrNotFound) {
		// mismo costo que una contraseña incorrecta
		s.hasher.VerifyDummy(password)
		metrics.ObserveLogin("invalid")
		return LoginResult{}, errCredenciales
	}
	if err != nil {
		metrics.ObserveLogin("error")
		return LoginResult{}, err
	}

	ok, err := s.hasher.Verify(u.PasswordHash, password)
	if err != nil {
		log.Warn("hash de contraseña no verificable", map[string]any{"id_usuario": u.ID, "error": err})
	}
	if !ok {
		metrics.ObserveLogin("invalid")
		return LoginResult{}, errCredenciales
	}

	if !u.Activo {
		metrics.ObserveLogin("inactive")
		return LoginResult{}, errInactivo
	}
	now := s.now()
	hoy := dates.Of(now)
	if u.VigenciaInicio != nil && u.VigenciaInicio.After(hoy) {
		metrics.ObserveLogin("inactive")
		return LoginResult{}, errNoVigente
	}
	if u.VigenciaFin != nil && u.VigenciaFin.Before(hoy) {
		metrics.ObserveLogin("expired")
		return LoginResult{}, errVigenciaVencida
	}

	sess := portauth.Session{
		ID:        s.newID(),
		UserID:    u.ID,
		Username:  u.NombreUsuario,
		Rol:       usuarios.Rol(u.TipoUsuario),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, sess, s.ttl); err != nil {
		metrics.ObserveLogin("error")
		return LoginResult{}, err
	}
	tok, err := s.tokens.Issue(sess)
	if err != nil {
		_ = s.sessions.Delete(ctx, sess.ID)
		metrics.ObserveLogin("error")
		return LoginResult{}, err
	}

	metrics.ObserveLogin("ok")
	log.Info("login", map[string]any{"id_usuario": u.ID, "session": sess.ID})
	return LoginResult{Usuario: u, Token: tok, ExpiresAt: sess.ExpiresAt}, nil
}

// Logout elimina la sesión del token. Un token inválido o ya cerrado no es error.
func (s *Service) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	c, err := s.tokens.Parse(token)
	if err != nil {
		return nil
	}
	return s.sessions.Delete(ctx, c.SessionID)
}

func (s *Service) Validate(ctx context.Context, token string) (portauth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return portauth.Claims{}, ErrTokenRequerido
	}
	c, err := s.verifier.Verify(ctx, token)
	if errors.Is(err, portauth.ErrInvalidToken) {
		return portauth.Claims{}, ErrTokenInvalido
	}
	if err != nil {
		return portauth.Claims{}, err
	}
	return c, nil
}
