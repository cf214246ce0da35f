package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"sistpec-api/internal/platform/logger"
	"sistpec-api/internal/ports/auth"
	"sistpec-api/internal/ports/capabilities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	valid string
}

func (f fakeVerifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if token != f.valid {
		return auth.Claims{}, auth.ErrInvalidToken
	}
	return auth.Claims{UserID: 7, Username: "lsoto", Rol: "recepcionista"}, nil
}

type fakeResolver struct {
	allow bool
	err   error
	got   capabilities.CapabilityCheck
}

func (f *fakeResolver) HasFeature(ctx context.Context, in capabilities.CapabilityCheck) (bool, error) {
	f.got = in
	return f.allow, f.err
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func detail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var d struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	return d.Detail
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("bearer  abc "))
	assert.Equal(t, "", BearerToken("Basic abc"))
	assert.Equal(t, "", BearerToken("abc"))
	assert.Equal(t, "", BearerToken(""))
}

func TestAuthContext(t *testing.T) {
	var got auth.Claims
	var ok bool
	h := AuthContext(fakeVerifier{valid: "bueno"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = GetClaims(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bueno")
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.True(t, ok)
	assert.Equal(t, int64(7), got.UserID)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer malo")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.False(t, ok)

	// sin verifier pasa de largo
	AuthContext(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok = GetClaims(r.Context())
	})).ServeHTTP(httptest.NewRecorder(), req)
	assert.False(t, ok)
}

func TestRequireAuth(t *testing.T) {
	h := RequireAuth("/api/auth/login")(okHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/casos", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "No autenticado", detail(t, rec))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/casos", nil)
	h.ServeHTTP(rec, req.WithContext(WithClaims(req.Context(), auth.Claims{UserID: 1})))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequireCapabilityForWrites(t *testing.T) {
	withClaims := func(method string) *http.Request {
		req := httptest.NewRequest(method, "/api/usuarios", nil)
		return req.WithContext(WithClaims(req.Context(), auth.Claims{UserID: 3, Rol: "recepcionista"}))
	}

	t.Run("lectura sin revisar", func(t *testing.T) {
		res := &fakeResolver{}
		rec := httptest.NewRecorder()
		RequireCapabilityForWrites(res, capabilities.UsuariosWrite)(okHandler).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/usuarios", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, res.got.Capability)
	})

	t.Run("sin permiso", func(t *testing.T) {
		res := &fakeResolver{}
		rec := httptest.NewRecorder()
		RequireCapabilityForWrites(res, capabilities.UsuariosWrite)(okHandler).ServeHTTP(rec, withClaims(http.MethodPost))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "Permisos insuficientes", detail(t, rec))
		assert.Equal(t, capabilities.CapabilityCheck{UserID: 3, Rol: "recepcionista", Capability: capabilities.UsuariosWrite}, res.got)
	})

	t.Run("anónimo rechazado", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RequireCapabilityForWrites(&fakeResolver{}, capabilities.UsuariosWrite)(okHandler).
			ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/usuarios/1", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("anónimo permitido", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RequireCapabilityForWrites(&fakeResolver{allow: true}, capabilities.UsuariosWrite)(okHandler).
			ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/usuarios/1", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("error del resolver", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RequireCapabilityForWrites(&fakeResolver{err: errors.New("boom")}, capabilities.UsuariosWrite)(okHandler).
			ServeHTTP(rec, withClaims(http.MethodPost))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestRecover(t *testing.T) {
	h := RequestLogger(logger.Nop())(Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("se cayó")
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Error interno del servidor", detail(t, rec))
}
