package catalogos

import (
	"context"
	"strings"
	"testing"

	"sistpec-api/internal/platform/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo map[Catalogo][]Item

func (r testRepo) List(ctx context.Context, c Catalogo) ([]Item, error) {
	return r[c], nil
}

func (r testRepo) FindID(ctx context.Context, c Catalogo, nombre string, m Match) (int64, bool, error) {
	for _, it := range r[c] {
		if strings.EqualFold(it.Nombre, nombre) || (m == Contains && strings.Contains(strings.ToLower(it.Nombre), strings.ToLower(nombre))) {
			return it.ID, true, nil
		}
	}
	return 0, false, nil
}

func newTestService() *Service {
	return NewService(testRepo{
		EstatusCaso: {{ID: 1, Nombre: "ABIERTO"}, {ID: 2, Nombre: "CERRADO"}},
		Municipios:  {{ID: 5, Nombre: "Gómez Palacio"}},
	})
}

func TestList(t *testing.T) {
	svc := newTestService()

	items, err := svc.List(context.Background(), " Estatus-Caso ")
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, err = svc.List(context.Background(), "planetas")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolve(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	id, err := svc.Resolve(ctx, Municipios, "palacio", Contains, "Municipio")
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)

	_, err = svc.Resolve(ctx, EstatusCaso, "PERDIDO", Exact, "Estatus de caso")
	require.ErrorIs(t, err, apperr.ErrValidation)
	msg, _ := apperr.Message(err)
	assert.Equal(t, "Estatus de caso no reconocido: PERDIDO", msg)

	_, err = svc.Resolve(ctx, EstatusCaso, "  ", Exact, "Estatus de caso")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestDefault(t *testing.T) {
	svc := newTestService()

	id, err := svc.Default(context.Background(), EstatusCaso, EstatusCasoAbierto)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	_, err = svc.Default(context.Background(), EstatusMuestra, EstatusMuestraPendiente)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, apperr.ErrValidation)
}
