package upp

import (
	"context"
	"strings"
	"testing"
	"time"

	"sistpec-api/internal/domain/catalogos"
	"sistpec-api/internal/platform/apperr"
	"sistpec-api/internal/ports/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCatalogRepo struct{}

func (testCatalogRepo) List(ctx context.Context, c catalogos.Catalogo) ([]catalogos.Item, error) {
	return []catalogos.Item{{ID: 7, Nombre: "Gómez Palacio"}}, nil
}

func (testCatalogRepo) FindID(ctx context.Context, c catalogos.Catalogo, nombre string, m catalogos.Match) (int64, bool, error) {
	if c == catalogos.Municipios && strings.Contains(strings.ToLower("Gómez Palacio"), strings.ToLower(nombre)) {
		return 7, true, nil
	}
	return 0, false, nil
}

type testRepo struct {
	rows        map[int64]UPP
	last        int64
	owners      map[int64]bool
	lastChanges storage.Changes
}

func newTestRepo() *testRepo {
	return &testRepo{rows: map[int64]UPP{}, owners: map[int64]bool{1: true}}
}

func (r *testRepo) Create(ctx context.Context, u UPP) (int64, error) {
	for _, o := range r.rows {
		if o.Clave == u.Clave {
			return 0, storage.Duplicate(ConstraintClave)
		}
	}
	if !r.owners[u.IDPropietario] {
		return 0, storage.Reference(ConstraintPropietario)
	}
	r.last++
	u.ID = r.last
	r.rows[u.ID] = u
	return u.ID, nil
}

func (r *testRepo) GetByID(ctx context.Context, id int64) (View, error) {
	u, ok := r.rows[id]
	if !ok {
		return View{}, storage.ErrNotFound
	}
	return View{UPP: u}, nil
}

func (r *testRepo) GetByClave(ctx context.Context, clave string) (View, error) {
	for _, u := range r.rows {
		if strings.EqualFold(u.Clave, clave) {
			return View{UPP: u}, nil
		}
	}
	return View{}, storage.ErrNotFound
}

func (r *testRepo) List(ctx context.Context, f ListFilter) ([]View, error) {
	return nil, nil
}

func (r *testRepo) Update(ctx context.Context, id int64, ch storage.Changes) error {
	u, ok := r.rows[id]
	if !ok {
		return storage.ErrNotFound
	}
	if v, ok := ch.Value(ColClave); ok {
		for oid, o := range r.rows {
			if oid != id && o.Clave == v.(string) {
				return storage.Duplicate(ConstraintClave)
			}
		}
		u.Clave = v.(string)
	}
	if v, ok := ch.Value(ColEstatus); ok {
		u.Estatus = v.(bool)
	}
	r.rows[id] = u
	r.lastChanges = ch
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.rows[id]; !ok {
		return storage.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func newTestService() (*Service, *testRepo) {
	repo := newTestRepo()
	svc := NewService(repo, catalogos.NewService(testCatalogRepo{}))
	svc.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return svc, repo
}

func str(s string) *string { return &s }

func message(t *testing.T, err error) string {
	t.Helper()
	msg, ok := apperr.Message(err)
	require.True(t, ok, "se esperaba apperr, llegó %v", err)
	return msg
}

func TestCreate_UppercasesClaveAndDefaultsActive(t *testing.T) {
	svc, repo := newTestService()

	id, err := svc.Create(context.Background(), CreateInput{
		Clave:         " 10-005-0001 a ",
		IDPropietario: 1,
		Municipio:     str("gómez"),
	})
	require.NoError(t, err)

	u := repo.rows[id]
	assert.Equal(t, "10-005-0001 A", u.Clave)
	assert.True(t, u.Estatus)
	require.NotNil(t, u.IDMunicipio)
	assert.Equal(t, int64(7), *u.IDMunicipio)
}

func TestCreate_Errors(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{IDPropietario: 1})
	assert.Equal(t, "La clave UPP es requerida", message(t, err))

	_, err = svc.Create(ctx, CreateInput{Clave: "X"})
	assert.Equal(t, "El propietario es requerido", message(t, err))

	_, err = svc.Create(ctx, CreateInput{Clave: "X", IDPropietario: 99})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, "El propietario especificado no existe", message(t, err))

	_, err = svc.Create(ctx, CreateInput{Clave: "X", IDPropietario: 1, Municipio: str("Mapimí")})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Create(ctx, CreateInput{Clave: "DUP", IDPropietario: 1})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{Clave: "dup", IDPropietario: 1})
	assert.Equal(t, "Ya existe una UPP con esa clave", message(t, err))
}

func TestUpdate_DuplicateClave(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, _ = svc.Create(ctx, CreateInput{Clave: "A", IDPropietario: 1})
	id, _ := svc.Create(ctx, CreateInput{Clave: "B", IDPropietario: 1})

	err := svc.Update(ctx, id, UpdateInput{Clave: str("a")})
	assert.Equal(t, "Ya existe otra UPP con esa clave", message(t, err))
}

func TestUpdate_NoFields(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	assert.ErrorIs(t, svc.Update(ctx, 5, UpdateInput{}), ErrNotFound)

	id, _ := svc.Create(ctx, CreateInput{Clave: "A", IDPropietario: 1})
	assert.Equal(t, "No hay campos para actualizar", message(t, svc.Update(ctx, id, UpdateInput{})))
}

func TestSetEstatus_RoundTrip(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	id, _ := svc.Create(ctx, CreateInput{Clave: "A", IDPropietario: 1})

	require.NoError(t, svc.SetEstatus(ctx, id, false))
	assert.False(t, repo.rows[id].Estatus)
	assert.Equal(t, []string{ColEstatus, ColFechaActualizacion}, repo.lastChanges.Columns())

	require.NoError(t, svc.SetEstatus(ctx, id, true))
	assert.True(t, repo.rows[id].Estatus)

	assert.ErrorIs(t, svc.SetEstatus(ctx, 77, true), ErrNotFound)
}

func TestGetByClave(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.GetByClave(ctx, "")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.GetByClave(ctx, "nada")
	assert.Equal(t, "UPP no encontrada.", message(t, err))

	id, _ := svc.Create(ctx, CreateInput{Clave: "ABC", IDPropietario: 1})
	v, err := svc.GetByClave(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, id, v.ID)
}
