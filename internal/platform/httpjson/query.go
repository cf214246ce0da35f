package httpjson

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"sistpec-api/internal/platform/apperr"
	"sistpec-api/internal/platform/dates"

	"github.com/go-chi/chi/v5"
)

// Límites comunes de los listados.
const (
	DefaultLimit = 100
	MaxLimit     = 500
)

// Query lee filtros del query string acumulando el primer error,
// para que los handlers no tengan que chequear parámetro por parámetro.
type Query struct {
	values url.Values
	err    error
}

func NewQuery(r *http.Request) *Query {
	return &Query{values: r.URL.Query()}
}

func (q *Query) fail(name, why string) {
	if q.err == nil {
		q.err = apperr.Validation(fmt.Sprintf("Parámetro %s inválido: %s", name, why))
	}
}

func (q *Query) raw(name string) string {
	return strings.TrimSpace(q.values.Get(name))
}

// String devuelve el valor sin espacios ("" si no viene).
func (q *Query) String(name string) string {
	return q.raw(name)
}

func (q *Query) Int64(name string) *int64 {
	v := q.raw(name)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		q.fail(name, "se espera un entero")
		return nil
	}
	return &n
}

func (q *Query) Int(name string) *int {
	n := q.Int64(name)
	if n == nil {
		return nil
	}
	i := int(*n)
	return &i
}

func (q *Query) Bool(name string) *bool {
	v := strings.ToLower(q.raw(name))
	if v == "" {
		return nil
	}
	var b bool
	switch v {
	case "true", "1", "yes", "si", "on":
		b = true
	case "false", "0", "no", "off":
		b = false
	default:
		q.fail(name, "se espera true/false")
		return nil
	}
	return &b
}

func (q *Query) Date(name string) *dates.Date {
	v := q.raw(name)
	if v == "" {
		return nil
	}
	d, err := dates.Parse(v)
	if err != nil {
		q.fail(name, "se espera YYYY-MM-DD")
		return nil
	}
	return &d
}

// Limit aplica default y rango permitido [1, max].
func (q *Query) Limit(def, max int) int {
	n := q.Int("limit")
	if n == nil {
		return def
	}
	if *n < 1 || *n > max {
		q.fail("limit", fmt.Sprintf("debe estar entre 1 y %d", max))
		return def
	}
	return *n
}

func (q *Query) Err() error {
	return q.err
}

// PathID lee un id numérico de la ruta; 0 y negativos son inválidos.
func PathID(r *http.Request, name string) (int64, error) {
	v := chi.URLParam(r, name)
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation(fmt.Sprintf("Identificador inválido: %q", v))
	}
	return id, nil
}
