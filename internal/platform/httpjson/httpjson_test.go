package httpjson

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sistpec-api/internal/platform/apperr"
	"sistpec-api/internal/ports/storage"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func detailOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var d Detail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	return d.Detail
}

func TestWriteError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		detail string
	}{
		{"validación", apperr.Validation("El nombre es requerido"), 400, "El nombre es requerido"},
		{"conflicto", apperr.Conflict("Ya existe un propietario con ese CURP"), 400, "Ya existe un propietario con ese CURP"},
		{"no encontrado envuelto", fmt.Errorf("get: %w", apperr.NotFound("Caso no encontrado")), 404, "Caso no encontrado"},
		{"prohibido", apperr.Forbidden("El usuario está inactivo"), 403, "El usuario está inactivo"},
		{"integridad", apperr.Integrity("El contenido de la hoja de reporte está dañado"), 500, "El contenido de la hoja de reporte está dañado"},
		{"bd caída", fmt.Errorf("%w: dial tcp", storage.ErrUnavailable), 503, "Base de datos no disponible"},
		{"inesperado", errors.New("pq: relation casos does not exist"), 500, "Error interno del servidor"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, httptest.NewRequest(http.MethodGet, "/api/casos", nil), tc.err)
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.detail, detailOf(t, rec))
		})
	}
}

func TestDecode(t *testing.T) {
	var dst struct {
		Nombre string `json:"nombre"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"nombre":"Juan","alias":"x"}`))
	require.NoError(t, Decode(r, &dst))
	assert.Equal(t, "Juan", dst.Nombre)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	err := Decode(r, &dst)
	require.ErrorIs(t, err, apperr.ErrValidation)
	msg, _ := apperr.Message(err)
	assert.Equal(t, "Cuerpo JSON requerido", msg)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{nombre`))
	assert.ErrorIs(t, Decode(r, &dst), apperr.ErrValidation)
}

func TestQuery(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?id_upp=4&activo=si&fecha=2024-03-15&mvz=+Soto+&limit=20", nil)
	q := NewQuery(r)

	assert.Equal(t, int64(4), *q.Int64("id_upp"))
	assert.True(t, *q.Bool("activo"))
	assert.Equal(t, "2024-03-15", q.Date("fecha").String())
	assert.Equal(t, "Soto", q.String("mvz"))
	assert.Nil(t, q.Int64("id_caso"))
	assert.Equal(t, 20, q.Limit(DefaultLimit, MaxLimit))
	assert.NoError(t, q.Err())

	q = NewQuery(httptest.NewRequest(http.MethodGet, "/?id_upp=x&fecha=ayer", nil))
	assert.Nil(t, q.Int64("id_upp"))
	assert.Nil(t, q.Date("fecha"))
	err := q.Err()
	require.ErrorIs(t, err, apperr.ErrValidation)
	msg, _ := apperr.Message(err)
	assert.Equal(t, "Parámetro id_upp inválido: se espera un entero", msg)

	q = NewQuery(httptest.NewRequest(http.MethodGet, "/?limit=9999", nil))
	assert.Equal(t, DefaultLimit, q.Limit(DefaultLimit, MaxLimit))
	assert.Error(t, q.Err())
}

func TestPathID(t *testing.T) {
	withID := func(v string) *http.Request {
		rc := chi.NewRouteContext()
		rc.URLParams.Add("id", v)
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rc))
	}

	id, err := PathID(withID("12"), "id")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	for _, bad := range []string{"0", "-3", "abc", ""} {
		_, err := PathID(withID(bad), "id")
		assert.ErrorIs(t, err, apperr.ErrValidation, bad)
	}
}
