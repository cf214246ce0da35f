package muestras

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

var testCatalogs = map[catalogos.Catalogo][]catalogos.Item{
	catalogos.EstatusMuestra: {{ID: 1, Nombre: "PENDIENTE"}, {ID: 2, Nombre: "RECIBIDA"}},
	catalogos.TiposMuestra:   {{ID: 1, Nombre: "Sangre completa"}, {ID: 2, Nombre: "Suero"}},
}

func (testCatalogRepo) List(ctx context.Context, c catalogos.Catalogo) ([]catalogos.Item, error) {
	return testCatalogs[c], nil
}

func (testCatalogRepo) FindID(ctx context.Context, c catalogos.Catalogo, nombre string, m catalogos.Match) (int64, bool, error) {
	for _, it := range testCatalogs[c] {
		a, b := strings.ToLower(it.Nombre), strings.ToLower(nombre)
		if a == b || (m == catalogos.Contains && strings.Contains(a, b)) {
			return it.ID, true, nil
		}
	}
	return 0, false, nil
}

type testRepo struct {
	rows       map[int64]Muestra
	last       int64
	casos      map[int64]bool
	referenced map[int64]bool
	lastUpdate storage.Changes
}

func newTestRepo() *testRepo {
	return &testRepo{
		rows:       map[int64]Muestra{},
		casos:      map[int64]bool{1: true},
		referenced: map[int64]bool{},
	}
}

func (r *testRepo) Create(ctx context.Context, m Muestra) (int64, error) {
	if !r.casos[m.IDCaso] {
		return 0, storage.Reference(ConstraintCaso)
	}
	r.last++
	m.ID = r.last
	r.rows[m.ID] = m
	return m.ID, nil
}

func (r *testRepo) GetByID(ctx context.Context, id int64) (View, error) {
	m, ok := r.rows[id]
	if !ok {
		return View{}, storage.ErrNotFound
	}
	return View{Muestra: m}, nil
}

func (r *testRepo) List(ctx context.Context, f ListFilter) ([]View, error) {
	out := make([]View, 0)
	for _, m := range r.rows {
		out = append(out, View{Muestra: m})
	}
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, id int64, ch storage.Changes) error {
	m, ok := r.rows[id]
	if !ok {
		return storage.ErrNotFound
	}
	if v, ok := ch.Value(ColIDTipoMuestra); ok {
		t := v.(int64)
		m.IDTipoMuestra = &t
	}
	r.rows[id] = m
	r.lastUpdate = ch
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.rows[id]; !ok {
		return storage.ErrNotFound
	}
	if r.referenced[id] {
		return storage.Reference("fk_resultados_muestra")
	}
	delete(r.rows, id)
	return nil
}

func newTestService() (*Service, *testRepo) {
	repo := newTestRepo()
	svc := NewService(repo, catalogos.NewService(testCatalogRepo{}))
	svc.now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }
	return svc, repo
}

func str(s string) *string { return &s }

func TestCreate_DefaultsPendienteAndResolvesTipo(t *testing.T) {
	svc, repo := newTestService()

	id, err := svc.Create(context.Background(), CreateInput{
		IDCaso:        1,
		CodigoMuestra: " M-001 ",
		TipoMuestra:   str("suer"),
		Especie:       str("Bovino"),
	})
	require.NoError(t, err)

	m := repo.rows[id]
	assert.Equal(t, "M-001", m.CodigoMuestra)
	assert.Equal(t, int64(1), m.IDEstatusMuestra)
	require.NotNil(t, m.IDTipoMuestra)
	assert.Equal(t, int64(2), *m.IDTipoMuestra)
	assert.Equal(t, svc.now(), m.CreatedAt)
}

func TestCreate_UnknownTipo(t *testing.T) {
	svc, repo := newTestService()

	_, err := svc.Create(context.Background(), CreateInput{IDCaso: 1, CodigoMuestra: "M", TipoMuestra: str("orina")})
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Empty(t, repo.rows)
}

func TestCreate_MissingCaso(t *testing.T) {
	svc, repo := newTestService()

	_, err := svc.Create(context.Background(), CreateInput{IDCaso: 42, CodigoMuestra: "M"})
	require.ErrorIs(t, err, apperr.ErrNotFound)
	msg, _ := apperr.Message(err)
	assert.Equal(t, "El caso especificado no existe", msg)
	assert.Empty(t, repo.rows)
}

func TestCreate_Validation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{CodigoMuestra: "M"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Create(ctx, CreateInput{IDCaso: 1, CodigoMuestra: "  "})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestUpdate(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	id, _ := svc.Create(ctx, CreateInput{IDCaso: 1, CodigoMuestra: "M"})

	require.NoError(t, svc.Update(ctx, id, UpdateInput{TipoMuestra: str("sangre")}))
	assert.Equal(t, int64(1), *repo.rows[id].IDTipoMuestra)
	assert.Equal(t, []string{ColIDTipoMuestra, ColUpdatedAt}, repo.lastUpdate.Columns())

	assert.ErrorIs(t, svc.Update(ctx, id, UpdateInput{}), apperr.ErrValidation)
	assert.ErrorIs(t, svc.Update(ctx, 99, UpdateInput{}), ErrNotFound)
}

func TestDelete_Referenced(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	id, _ := svc.Create(ctx, CreateInput{IDCaso: 1, CodigoMuestra: "M"})
	repo.referenced[id] = true

	err := svc.Delete(ctx, id)
	msg, _ := apperr.Message(err)
	assert.Equal(t, "No se puede eliminar: la muestra tiene registros relacionados", msg)
	assert.ErrorIs(t, svc.Delete(ctx, 500), ErrNotFound)
}
