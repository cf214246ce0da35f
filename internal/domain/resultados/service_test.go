package resultados

import (
	"context"
	"strings"
	"testing"
	"time"

	"sistpec-api/internal/domain/catalogos"
	"sistpec-api/internal/platform/apperr"
	"sistpec-api/internal/platform/dates"
	"sistpec-api/internal/ports/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCatalogRepo struct{}

var catResultado = []catalogos.Item{{ID: 1, Nombre: "POSITIVO"}, {ID: 2, Nombre: "NEGATIVO"}}

func (testCatalogRepo) List(ctx context.Context, c catalogos.Catalogo) ([]catalogos.Item, error) {
	return catResultado, nil
}

func (testCatalogRepo) FindID(ctx context.Context, c catalogos.Catalogo, nombre string, m catalogos.Match) (int64, bool, error) {
	for _, it := range catResultado {
		if strings.EqualFold(it.Nombre, nombre) {
			return it.ID, true, nil
		}
	}
	return 0, false, nil
}

type testRepo struct {
	rows       map[int64]Resultado
	last       int64
	muestras   map[int64]bool
	lastUpdate storage.Changes
	lastFilter ListFilter
}

func newTestRepo() *testRepo {
	return &testRepo{rows: map[int64]Resultado{}, muestras: map[int64]bool{3: true}}
}

func (r *testRepo) Create(ctx context.Context, res Resultado) (int64, error) {
	if !r.muestras[res.IDMuestra] {
		return 0, storage.Reference(ConstraintMuestra)
	}
	if res.IDUsuarioValida != nil && *res.IDUsuarioValida != 1 {
		return 0, storage.Reference(ConstraintUsuario)
	}
	r.last++
	res.ID = r.last
	r.rows[res.ID] = res
	return res.ID, nil
}

func (r *testRepo) GetByID(ctx context.Context, id int64) (View, error) {
	res, ok := r.rows[id]
	if !ok {
		return View{}, storage.ErrNotFound
	}
	return View{Resultado: res}, nil
}

func (r *testRepo) List(ctx context.Context, f ListFilter) ([]View, error) {
	r.lastFilter = f
	return []View{}, nil
}

func (r *testRepo) Update(ctx context.Context, id int64, ch storage.Changes) error {
	res, ok := r.rows[id]
	if !ok {
		return storage.ErrNotFound
	}
	if v, ok := ch.Value(ColIDResultado); ok {
		n := v.(int64)
		res.IDResultado = &n
	}
	r.rows[id] = res
	r.lastUpdate = ch
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
	svc.now = func() time.Time { return time.Date(2024, 3, 20, 8, 0, 0, 0, time.UTC) }
	return svc, repo
}

func str(s string) *string { return &s }

func fecha() *dates.Date {
	d := dates.New(2024, 3, 20)
	return &d
}

func TestCreate_ResolvesResultadoByName(t *testing.T) {
	svc, repo := newTestService()

	id, err := svc.Create(context.Background(), CreateInput{
		IDMuestra:      3,
		IDPrueba:       1,
		Resultado:      str("negativo"),
		FechaResultado: fecha(),
	})
	require.NoError(t, err)

	res := repo.rows[id]
	require.NotNil(t, res.IDResultado)
	assert.Equal(t, int64(2), *res.IDResultado)
	assert.Equal(t, "2024-03-20", res.FechaResultado.String())
}

func TestCreate_UnknownResultado(t *testing.T) {
	svc, repo := newTestService()

	_, err := svc.Create(context.Background(), CreateInput{IDMuestra: 3, IDPrueba: 1, Resultado: str("dudoso"), FechaResultado: fecha()})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Empty(t, repo.rows)
}

func TestCreate_MissingMuestra(t *testing.T) {
	svc, repo := newTestService()

	_, err := svc.Create(context.Background(), CreateInput{IDMuestra: 8, IDPrueba: 1, FechaResultado: fecha()})
	require.ErrorIs(t, err, apperr.ErrNotFound)
	msg, _ := apperr.Message(err)
	assert.Equal(t, "La muestra especificada no existe", msg)
	assert.Empty(t, repo.rows)
}

func TestCreate_MissingUsuarioValida(t *testing.T) {
	svc, _ := newTestService()
	otro := int64(40)

	_, err := svc.Create(context.Background(), CreateInput{IDMuestra: 3, IDPrueba: 1, FechaResultado: fecha(), IDUsuarioValida: &otro})
	msg, _ := apperr.Message(err)
	assert.Equal(t, "El usuario especificado no existe", msg)
}

func TestCreate_RequiredFields(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{IDPrueba: 1, FechaResultado: fecha()})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = svc.Create(ctx, CreateInput{IDMuestra: 3, FechaResultado: fecha()})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = svc.Create(ctx, CreateInput{IDMuestra: 3, IDPrueba: 1})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestList_NormalizesResultadoFilter(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	_, err := svc.List(ctx, ListFilter{Resultado: " positivo "})
	require.NoError(t, err)
	assert.Equal(t, "POSITIVO", repo.lastFilter.Resultado)

	id := int64(2)
	_, _ = svc.List(ctx, ListFilter{IDResultado: &id, Resultado: "positivo"})
	assert.Equal(t, "", repo.lastFilter.Resultado)
}

func TestUpdate(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	id, _ := svc.Create(ctx, CreateInput{IDMuestra: 3, IDPrueba: 1, FechaResultado: fecha()})
	require.NoError(t, svc.Update(ctx, id, UpdateInput{Resultado: str("POSITIVO")}))
	assert.Equal(t, int64(1), *repo.rows[id].IDResultado)
	assert.Equal(t, []string{ColIDResultado, ColUpdatedAt}, repo.lastUpdate.Columns())

	assert.ErrorIs(t, svc.Update(ctx, id, UpdateInput{}), apperr.ErrValidation)
	assert.ErrorIs(t, svc.Update(ctx, 77, UpdateInput{Valor: str("1:25")}), ErrNotFound)
}

func TestDelete(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	id, _ := svc.Create(ctx, CreateInput{IDMuestra: 3, IDPrueba: 1, FechaResultado: fecha()})
	require.NoError(t, svc.Delete(ctx, id))
	assert.ErrorIs(t, svc.Delete(ctx, id), ErrNotFound)
}
