package hojareporte

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"sistpec-api/internal/platform/apperr"
	"sistpec-api/internal/platform/dates"
	"sistpec-api/internal/ports/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	rows map[int64]Hoja
	last int64
}

func newTestRepo() *testRepo {
	return &testRepo{rows: map[int64]Hoja{}}
}

func (r *testRepo) Create(ctx context.Context, h Hoja) (int64, error) {
	if h.IDUsuario != 1 {
		return 0, storage.Reference(ConstraintUsuario)
	}
	if h.IDCaso != nil && *h.IDCaso != 5 {
		return 0, storage.Reference(ConstraintCaso)
	}
	r.last++
	h.ID = r.last
	r.rows[h.ID] = h
	return h.ID, nil
}

func (r *testRepo) GetByID(ctx context.Context, id int64) (View, error) {
	h, ok := r.rows[id]
	if !ok {
		return View{}, storage.ErrNotFound
	}
	return View{Hoja: h, UsuarioNombre: "Ana López", Usuario: "ana"}, nil
}

func (r *testRepo) List(ctx context.Context, f ListFilter) ([]View, error) {
	out := make([]View, 0)
	for id := r.last; id > 0; id-- {
		if h, ok := r.rows[id]; ok {
			out = append(out, View{Hoja: h})
		}
	}
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, id int64, ch storage.Changes) error {
	h, ok := r.rows[id]
	if !ok {
		return storage.ErrNotFound
	}
	_ = ch.Each(func(col string, v any) error {
		switch col {
		case ColContenido:
			h.Contenido, _ = v.(json.RawMessage)
		case ColArchivo:
			h.Archivo, _ = v.(*string)
		case ColPeriodoFin:
			d := v.(dates.Date)
			h.PeriodoFin = &d
		}
		return nil
	})
	r.rows[id] = h
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.rows[id]; !ok {
		return storage.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

type testFiles struct {
	objects map[string][]byte
}

func (f *testFiles) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[key] = b
	return nil
}

func (f *testFiles) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	b, ok := f.objects[key]
	if !ok {
		return nil, "", storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), "application/pdf", nil
}

func (f *testFiles) Delete(ctx context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func newTestService() (*Service, *testRepo, *testFiles) {
	repo := newTestRepo()
	files := &testFiles{objects: map[string][]byte{}}
	svc := NewService(repo, files)
	svc.now = func() time.Time { return time.Date(2024, 4, 2, 12, 0, 0, 0, time.UTC) }
	n := 0
	svc.newID = func() string {
		n++
		return "id" + string(rune('0'+n))
	}
	return svc, repo, files
}

func TestCreate_StoresObjectContent(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	id, err := svc.Create(ctx, CreateInput{
		IDUsuario: 1,
		Contenido: json.RawMessage(` {"casos": 3, "notas": "ok"} `),
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 4, 2, 12, 0, 0, 0, time.UTC), repo.rows[id].Fecha)

	rep, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"casos": float64(3), "notas": "ok"}, rep.Contenido)
}

func TestCreate_NullContent(t *testing.T) {
	svc, repo, _ := newTestService()

	id, err := svc.Create(context.Background(), CreateInput{IDUsuario: 1, Contenido: json.RawMessage("null")})
	require.NoError(t, err)
	assert.Nil(t, repo.rows[id].Contenido)
}

func TestCreate_Validation(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()
	inicio, fin := dates.New(2024, 3, 31), dates.New(2024, 3, 1)

	cases := []struct {
		name string
		in   CreateInput
	}{
		{"sin usuario", CreateInput{}},
		{"contenido arreglo", CreateInput{IDUsuario: 1, Contenido: json.RawMessage(`[1,2]`)}},
		{"contenido texto", CreateInput{IDUsuario: 1, Contenido: json.RawMessage(`"hola"`)}},
		{"periodo invertido", CreateInput{IDUsuario: 1, PeriodoInicio: &inicio, PeriodoFin: &fin}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.in)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
	assert.Empty(t, repo.rows)
}

func TestCreate_MissingReferences(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{IDUsuario: 9})
	msg, _ := apperr.Message(err)
	assert.Equal(t, "El usuario especificado no existe", msg)

	caso := int64(99)
	_, err = svc.Create(ctx, CreateInput{IDUsuario: 1, IDCaso: &caso})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGet_CorruptContentIsIntegrityError(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	id, _ := svc.Create(ctx, CreateInput{IDUsuario: 1})
	h := repo.rows[id]
	h.Contenido = json.RawMessage(`{"roto":`)
	repo.rows[id] = h

	_, err := svc.Get(ctx, id)
	require.ErrorIs(t, err, apperr.ErrIntegrity)
	msg, _ := apperr.Message(err)
	assert.Equal(t, "El contenido de la hoja de reporte está dañado", msg)

	_, err = svc.List(ctx, ListFilter{})
	assert.ErrorIs(t, err, apperr.ErrIntegrity)
}

func TestUpdate(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()
	inicio := dates.New(2024, 3, 10)

	id, _ := svc.Create(ctx, CreateInput{IDUsuario: 1, PeriodoInicio: &inicio, Contenido: json.RawMessage(`{"a":1}`)})

	require.NoError(t, svc.Update(ctx, id, UpdateInput{Contenido: json.RawMessage("null")}))
	assert.Nil(t, repo.rows[id].Contenido)

	antes := dates.New(2024, 3, 1)
	err := svc.Update(ctx, id, UpdateInput{PeriodoFin: &antes})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	assert.ErrorIs(t, svc.Update(ctx, id, UpdateInput{}), apperr.ErrValidation)
	assert.ErrorIs(t, svc.Update(ctx, 42, UpdateInput{}), ErrNotFound)
}

func TestAttachFile_ReplacesPrevious(t *testing.T) {
	svc, repo, files := newTestService()
	ctx := context.Background()

	id, _ := svc.Create(ctx, CreateInput{IDUsuario: 1})

	first, err := svc.AttachFile(ctx, id, "Informe.PDF", "application/pdf", strings.NewReader("uno"), 3)
	require.NoError(t, err)
	assert.Equal(t, "hoja-reporte/1/id1.pdf", first)
	assert.Equal(t, first, *repo.rows[id].Archivo)

	second, err := svc.AttachFile(ctx, id, "otro.pdf", "application/pdf", strings.NewReader("dos"), 3)
	require.NoError(t, err)
	assert.NotContains(t, files.objects, first)
	assert.Contains(t, files.objects, second)

	rc, ct, name, err := svc.OpenFile(ctx, id)
	require.NoError(t, err)
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	assert.Equal(t, "dos", string(body))
	assert.Equal(t, "application/pdf", ct)
	assert.Equal(t, "id2.pdf", name)
}

func TestAttachFile_Errors(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.AttachFile(ctx, 7, "a.pdf", "", strings.NewReader("x"), 1)
	assert.ErrorIs(t, err, ErrNotFound)

	id, _ := svc.Create(ctx, CreateInput{IDUsuario: 1})
	_, err = svc.AttachFile(ctx, id, "a.pdf", "", strings.NewReader(""), 0)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, _, _, err = svc.OpenFile(ctx, id)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestDelete_RemovesAttachment(t *testing.T) {
	svc, repo, files := newTestService()
	ctx := context.Background()

	id, _ := svc.Create(ctx, CreateInput{IDUsuario: 1})
	key, err := svc.AttachFile(ctx, id, "a.pdf", "application/pdf", strings.NewReader("x"), 1)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, id))
	assert.Empty(t, repo.rows)
	assert.NotContains(t, files.objects, key)
	assert.ErrorIs(t, svc.Delete(ctx, id), ErrNotFound)
}
