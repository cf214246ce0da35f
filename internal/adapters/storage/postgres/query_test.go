package postgres

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"sistpec-api/internal/ports/storage"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilters_Build(t *testing.T) {
	var w filters
	w.add("c.id_upp = $%d", int64(4))
	w.contains("u.clave_upp", "10-005")

	q, args := w.build("SELECT * FROM casos c", "c.id_caso DESC", 50)
	assert.Contains(t, q, "WHERE c.id_upp = $1")
	assert.Contains(t, q, "AND u.clave_upp ILIKE '%' || $2::text || '%'")
	assert.Contains(t, q, "ORDER BY c.id_caso DESC LIMIT $3")
	assert.Equal(t, []any{int64(4), "10-005", 50}, args)

	var empty filters
	q, args = empty.build("SELECT 1", "1", 0)
	assert.NotContains(t, q, "WHERE")
	assert.NotContains(t, q, "LIMIT")
	assert.Empty(t, args)
}

func TestBuildUpdate(t *testing.T) {
	allowed := columnSet("nombre", "curp", "updated_at")

	var ch storage.Changes
	ch.Set("curp", "PEGJ800101HDGRRN09")
	ch.Set("nombre", "Juan")
	ch.Set("curp", nil)

	q, args, err := buildUpdate("propietarios", "id_propietario", 9, ch, allowed)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE propietarios SET curp = $1, nombre = $2 WHERE id_propietario = $3", q)
	assert.Equal(t, []any{nil, "Juan", int64(9)}, args)

	_, _, err = buildUpdate("propietarios", "id_propietario", 9, storage.Changes{}, allowed)
	assert.Error(t, err)

	var bad storage.Changes
	bad.Set("id_propietario", 1)
	_, _, err = buildUpdate("propietarios", "id_propietario", 9, bad, allowed)
	assert.ErrorContains(t, err, "no actualizable")
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(sql.ErrNoRows), storage.ErrNotFound)

	dup := translate(&pgconn.PgError{Code: "23505", ConstraintName: "uq_propietarios_curp"})
	assert.ErrorIs(t, dup, storage.ErrDuplicate)
	c, ok := storage.Constraint(dup)
	require.True(t, ok)
	assert.Equal(t, "uq_propietarios_curp", c)

	fk := translate(&pgconn.PgError{Code: "23503", ConstraintName: "fk_muestras_caso"})
	assert.ErrorIs(t, fk, storage.ErrReference)

	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "08006"}), storage.ErrUnavailable)
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "57P01"}), storage.ErrUnavailable)
	assert.ErrorIs(t, translate(driver.ErrBadConn), storage.ErrUnavailable)

	other := errors.New("syntax")
	assert.Equal(t, other, translate(other))

	check := &pgconn.PgError{Code: "23514"}
	assert.Equal(t, error(check), translate(check))
}
