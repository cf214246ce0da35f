package casos

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"sistpec-api/internal/domain/catalogos"
	"sistpec-api/internal/platform/apperr"
	"sistpec-api/internal/platform/dates"
	"sistpec-api/internal/ports/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var estatusCaso = []catalogos.Item{{ID: 1, Nombre: "ABIERTO"}, {ID: 2, Nombre: "EN_PROCESO"}, {ID: 3, Nombre: "CERRADO"}}

type testCatalogRepo struct {
	items []catalogos.Item
}

func (r testCatalogRepo) List(ctx context.Context, c catalogos.Catalogo) ([]catalogos.Item, error) {
	return r.items, nil
}

func (r testCatalogRepo) FindID(ctx context.Context, c catalogos.Catalogo, nombre string, m catalogos.Match) (int64, bool, error) {
	for _, it := range r.items {
		if strings.EqualFold(it.Nombre, nombre) {
			return it.ID, true, nil
		}
	}
	return 0, false, nil
}

type testRepo struct {
	rows       map[int64]Caso
	last       int64
	upps       map[int64]string
	users      map[int64]bool
	lastUpdate storage.Changes
}

func newTestRepo() *testRepo {
	return &testRepo{
		rows:  map[int64]Caso{},
		upps:  map[int64]string{10: "10-001-0001"},
		users: map[int64]bool{1: true, 2: true},
	}
}

func (r *testRepo) check(c Caso) error {
	if _, ok := r.upps[c.IDUPP]; !ok {
		return storage.Reference(ConstraintUPP)
	}
	if c.IDMVZ != nil && !r.users[*c.IDMVZ] {
		return storage.Reference(ConstraintMVZ)
	}
	if c.IDUsuarioRecepciona != nil && !r.users[*c.IDUsuarioRecepciona] {
		return storage.Reference(ConstraintRecepciona)
	}
	return nil
}

func (r *testRepo) Create(ctx context.Context, c Caso) (int64, error) {
	if err := r.check(c); err != nil {
		return 0, err
	}
	r.last++
	c.ID = r.last
	r.rows[c.ID] = c
	return c.ID, nil
}

func (r *testRepo) GetByID(ctx context.Context, id int64) (View, error) {
	c, ok := r.rows[id]
	if !ok {
		return View{}, storage.ErrNotFound
	}
	v := View{Caso: c, ClaveUPP: r.upps[c.IDUPP], Propietario: "Juan Pérez"}
	for _, it := range estatusCaso {
		if it.ID == c.IDEstatusCaso {
			v.EstatusCaso = it.Nombre
		}
	}
	return v, nil
}

func (r *testRepo) List(ctx context.Context, f ListFilter) ([]View, error) {
	out := make([]View, 0, len(r.rows))
	for id := r.last; id > 0; id-- {
		if _, ok := r.rows[id]; ok {
			v, _ := r.GetByID(ctx, id)
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, id int64, ch storage.Changes) error {
	c, ok := r.rows[id]
	if !ok {
		return storage.ErrNotFound
	}
	if v, ok := ch.Value(ColIDUPP); ok {
		c.IDUPP = v.(int64)
	}
	if v, ok := ch.Value(ColIDEstatusCaso); ok {
		c.IDEstatusCaso = v.(int64)
	}
	if err := r.check(c); err != nil {
		return err
	}
	r.rows[id] = c
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

type testNumbers struct {
	n   int
	err error
}

func (g *testNumbers) NextNumeroCaso(ctx context.Context) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	g.n++
	return fmt.Sprintf("CASO-2024-%05d", g.n), nil
}

type testTx struct {
	calls int
}

func (t *testTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type fixture struct {
	svc     *Service
	repo    *testRepo
	numbers *testNumbers
	tx      *testTx
}

func newFixture(items []catalogos.Item) fixture {
	f := fixture{repo: newTestRepo(), numbers: &testNumbers{}, tx: &testTx{}}
	f.svc = NewService(f.repo, f.numbers, f.tx, catalogos.NewService(testCatalogRepo{items: items}))
	f.svc.now = func() time.Time { return time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC) }
	return f
}

func fecha(y int, m time.Month, d int) *dates.Date {
	v := dates.New(y, m, d)
	return &v
}

func TestEpiWeek(t *testing.T) {
	cases := []struct {
		date       dates.Date
		week, year int
	}{
		{dates.New(2024, 3, 15), 11, 2024},
		{dates.New(2021, 1, 1), 53, 2020},
		{dates.New(2024, 12, 30), 1, 2025},
		{dates.New(2023, 1, 2), 1, 2023},
	}
	for _, c := range cases {
		w, y := EpiWeek(c.date)
		assert.Equal(t, c.week, w, c.date.String())
		assert.Equal(t, c.year, y, c.date.String())
	}
}

func TestCreate_DefaultsAndNumber(t *testing.T) {
	f := newFixture(estatusCaso)

	c, err := f.svc.Create(context.Background(), CreateInput{
		IDUPP:          10,
		FechaRecepcion: fecha(2024, 3, 15),
		IDUsuarioCrea:  1,
	})
	require.NoError(t, err)

	assert.Equal(t, "CASO-2024-00001", c.NumeroCaso)
	assert.Equal(t, int64(1), c.IDEstatusCaso)
	assert.Equal(t, "ABIERTO", c.Estatus)
	assert.Equal(t, 1, f.tx.calls)

	row := f.repo.rows[c.ID]
	require.NotNil(t, row.IDUsuarioRecepciona)
	assert.Equal(t, int64(1), *row.IDUsuarioRecepciona)
	assert.Equal(t, 11, *row.SemanaEpidemiologica)
	assert.Equal(t, 2024, *row.AnioEpidemiologico)
	assert.Equal(t, f.svc.now(), row.CreatedAt)
}

func TestCreate_KeepsClientWeek(t *testing.T) {
	f := newFixture(estatusCaso)
	semana := 9

	c, err := f.svc.Create(context.Background(), CreateInput{
		IDUPP:                10,
		FechaRecepcion:       fecha(2024, 3, 15),
		SemanaEpidemiologica: &semana,
		IDUsuarioCrea:        2,
	})
	require.NoError(t, err)

	row := f.repo.rows[c.ID]
	assert.Equal(t, 9, *row.SemanaEpidemiologica)
	assert.Equal(t, 2024, *row.AnioEpidemiologico)
}

func TestCreate_Numbering(t *testing.T) {
	f := newFixture(estatusCaso)
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		c, err := f.svc.Create(ctx, CreateInput{IDUPP: 10, FechaRecepcion: fecha(2024, 3, 15), IDUsuarioCrea: 1})
		require.NoError(t, err)
		assert.Regexp(t, `^CASO-\d{4}-\d{5}$`, c.NumeroCaso)
		assert.False(t, seen[c.NumeroCaso])
		seen[c.NumeroCaso] = true
	}
}

func TestCreate_ForeignKeys(t *testing.T) {
	f := newFixture(estatusCaso)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, CreateInput{IDUPP: 99, FechaRecepcion: fecha(2024, 3, 15), IDUsuarioCrea: 1})
	require.ErrorIs(t, err, apperr.ErrNotFound)
	msg, _ := apperr.Message(err)
	assert.Equal(t, "La UPP especificada no existe", msg)

	_, err = f.svc.Create(ctx, CreateInput{IDUPP: 10, FechaRecepcion: fecha(2024, 3, 15), IDUsuarioCrea: 77})
	require.ErrorIs(t, err, apperr.ErrNotFound)
	msg, _ = apperr.Message(err)
	assert.Equal(t, "El usuario especificado no existe", msg)

	assert.Empty(t, f.repo.rows)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(estatusCaso)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, CreateInput{FechaRecepcion: fecha(2024, 3, 15), IDUsuarioCrea: 1})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.svc.Create(ctx, CreateInput{IDUPP: 10, IDUsuarioCrea: 1})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.svc.Create(ctx, CreateInput{IDUPP: 10, FechaRecepcion: fecha(2024, 3, 15)})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreate_MissingDefaultStatusIsInternal(t *testing.T) {
	f := newFixture(nil)

	_, err := f.svc.Create(context.Background(), CreateInput{IDUPP: 10, FechaRecepcion: fecha(2024, 3, 15), IDUsuarioCrea: 1})
	require.Error(t, err)
	_, visible := apperr.Message(err)
	assert.False(t, visible)
	assert.Empty(t, f.repo.rows)
}

func TestCreate_GeneratorFailure(t *testing.T) {
	f := newFixture(estatusCaso)
	f.numbers.err = errors.New("secuencia bloqueada")

	_, err := f.svc.Create(context.Background(), CreateInput{IDUPP: 10, FechaRecepcion: fecha(2024, 3, 15), IDUsuarioCrea: 1})
	require.Error(t, err)
	assert.Empty(t, f.repo.rows)
}

func TestUpdate_EstatusByName(t *testing.T) {
	f := newFixture(estatusCaso)
	ctx := context.Background()

	c, _ := f.svc.Create(ctx, CreateInput{IDUPP: 10, FechaRecepcion: fecha(2024, 3, 15), IDUsuarioCrea: 1})

	require.NoError(t, f.svc.Update(ctx, c.ID, UpdateInput{Estatus: str("cerrado")}))
	assert.Equal(t, int64(3), f.repo.rows[c.ID].IDEstatusCaso)
	assert.Equal(t, []string{ColIDEstatusCaso, ColUpdatedAt}, f.repo.lastUpdate.Columns())

	err := f.svc.Update(ctx, c.ID, UpdateInput{Estatus: str("archivado")})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestUpdate_EmptyAndMissing(t *testing.T) {
	f := newFixture(estatusCaso)
	ctx := context.Background()

	assert.ErrorIs(t, f.svc.Update(ctx, 5, UpdateInput{}), ErrNotFound)

	c, _ := f.svc.Create(ctx, CreateInput{IDUPP: 10, FechaRecepcion: fecha(2024, 3, 15), IDUsuarioCrea: 1})
	assert.ErrorIs(t, f.svc.Update(ctx, c.ID, UpdateInput{}), apperr.ErrValidation)

	upp := int64(99)
	err := f.svc.Update(ctx, c.ID, UpdateInput{IDUPP: &upp})
	msg, _ := apperr.Message(err)
	assert.Equal(t, "La UPP especificada no existe", msg)
}

func TestDelete(t *testing.T) {
	f := newFixture(estatusCaso)
	ctx := context.Background()

	c, _ := f.svc.Create(ctx, CreateInput{IDUPP: 10, FechaRecepcion: fecha(2024, 3, 15), IDUsuarioCrea: 1})
	require.NoError(t, f.svc.Delete(ctx, c.ID))
	assert.ErrorIs(t, f.svc.Delete(ctx, c.ID), ErrNotFound)
}

func TestExportXLSX(t *testing.T) {
	f := newFixture(estatusCaso)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, CreateInput{IDUPP: 10, FechaRecepcion: fecha(2024, 3, 15), IDUsuarioCrea: 1})
	require.NoError(t, err)

	buf, err := f.svc.ExportXLSX(ctx, ListFilter{})
	require.NoError(t, err)

	book, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, exportHeaders[0], rows[0][0])
	assert.Equal(t, "CASO-2024-00001", rows[1][0])
	assert.Equal(t, "2024-03-15", rows[1][1])
	assert.Equal(t, "10-001-0001", rows[1][2])
	assert.Equal(t, "ABIERTO", rows[1][8])
}

func str(s string) *string { return &s }
