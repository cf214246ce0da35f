package memory

import (
	"context"
	"testing"
	"time"

	"sistpec-api/internal/domain/catalogos"
	"sistpec-api/internal/domain/propietarios"
	"sistpec-api/internal/domain/upp"
	"sistpec-api/internal/ports/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestNextNumeroCaso_PorAnio(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	now := time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	n1, _ := s.NextNumeroCaso(ctx)
	n2, _ := s.NextNumeroCaso(ctx)
	assert.Equal(t, "CASO-2024-00001", n1)
	assert.Equal(t, "CASO-2024-00002", n2)

	now = now.Add(2 * time.Hour)
	n3, _ := s.NextNumeroCaso(ctx)
	assert.Equal(t, "CASO-2025-00001", n3)
}

func TestCatalogos_FindID(t *testing.T) {
	r := NewCatalogosRepo(NewStore())
	ctx := context.Background()

	id, ok, err := r.FindID(ctx, catalogos.EstatusCaso, "cerrado", catalogos.Exact)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(3), id)

	_, ok, _ = r.FindID(ctx, catalogos.Municipios, "palacio", catalogos.Exact)
	assert.False(t, ok)
	id, ok, _ = r.FindID(ctx, catalogos.Municipios, "palacio", catalogos.Contains)
	assert.True(t, ok)
	assert.Equal(t, int64(2), id)
}

func TestPropietarios_Constraints(t *testing.T) {
	s := NewStore()
	props := NewPropietariosRepo(s)
	upps := NewUPPRepo(s)
	ctx := context.Background()

	id1, err := props.Create(ctx, propietarios.Propietario{Nombre: "Juan Pérez", CURP: ptr("PEGJ800101HDGRRN09"), Estatus: propietarios.EstatusActivo})
	require.NoError(t, err)
	id2, err := props.Create(ctx, propietarios.Propietario{Nombre: "Ana Ruiz", Estatus: propietarios.EstatusActivo})
	require.NoError(t, err)

	_, err = props.Create(ctx, propietarios.Propietario{Nombre: "Otro", CURP: ptr("PEGJ800101HDGRRN09")})
	require.ErrorIs(t, err, storage.ErrDuplicate)
	c, _ := storage.Constraint(err)
	assert.Equal(t, propietarios.ConstraintCURP, c)

	// el update que choca no deja cambios a medias
	var ch storage.Changes
	ch.Set(propietarios.ColNombre, "Ana María Ruiz")
	ch.Set(propietarios.ColCURP, ptr("PEGJ800101HDGRRN09"))
	require.ErrorIs(t, props.Update(ctx, id2, ch), storage.ErrDuplicate)
	p2, err := props.GetByID(ctx, id2)
	require.NoError(t, err)
	assert.Equal(t, "Ana Ruiz", p2.Nombre)

	var bad storage.Changes
	bad.Set("id_propietario", 5)
	assert.Error(t, props.Update(ctx, id2, bad))

	// FK de UPP
	_, err = upps.Create(ctx, upp.UPP{Clave: "10-001", IDPropietario: 99})
	require.ErrorIs(t, err, storage.ErrReference)
	_, err = upps.Create(ctx, upp.UPP{Clave: "10-001", IDPropietario: id1, IDMunicipio: ptr(int64(77))})
	c, _ = storage.Constraint(err)
	assert.Equal(t, upp.ConstraintMunicipio, c)

	_, err = upps.Create(ctx, upp.UPP{Clave: "10-001", IDPropietario: id1, IDMunicipio: ptr(int64(1))})
	require.NoError(t, err)
	_, err = upps.Create(ctx, upp.UPP{Clave: "10-001", IDPropietario: id2})
	require.ErrorIs(t, err, storage.ErrDuplicate)

	// propietario con UPP no se borra
	assert.ErrorIs(t, props.Delete(ctx, id1), storage.ErrReference)
	assert.NoError(t, props.Delete(ctx, id2))
	assert.ErrorIs(t, props.Delete(ctx, id2), storage.ErrNotFound)
}
