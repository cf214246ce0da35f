package usuarios

import (
	"context"
	"testing"
	"time"

	"sistpec-api/internal/platform/apperr"
	"sistpec-api/internal/platform/dates"
	"sistpec-api/internal/ports/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	rows       map[int64]Usuario
	last       int64
	referenced map[int64]bool
	lastUpdate storage.Changes
}

func newTestRepo() *testRepo {
	return &testRepo{
		rows:       map[int64]Usuario{},
		referenced: map[int64]bool{},
	}
}

func (r *testRepo) unique(u Usuario) error {
	for id, o := range r.rows {
		if id == u.ID {
			continue
		}
		if o.NombreUsuario == u.NombreUsuario {
			return storage.Duplicate(ConstraintNombreUsuario)
		}
		if o.Correo == u.Correo {
			return storage.Duplicate(ConstraintCorreo)
		}
	}
	return nil
}

func (r *testRepo) Create(ctx context.Context, u Usuario) (int64, error) {
	if err := r.unique(u); err != nil {
		return 0, err
	}
	r.last++
	u.ID = r.last
	r.rows[u.ID] = u
	return u.ID, nil
}

func (r *testRepo) GetByID(ctx context.Context, id int64) (Usuario, error) {
	u, ok := r.rows[id]
	if !ok {
		return Usuario{}, storage.ErrNotFound
	}
	return u, nil
}

func (r *testRepo) GetByNombreUsuario(ctx context.Context, nombre string) (Usuario, error) {
	for _, u := range r.rows {
		if u.NombreUsuario == nombre {
			return u, nil
		}
	}
	return Usuario{}, storage.ErrNotFound
}

func (r *testRepo) List(ctx context.Context, f ListFilter) ([]Usuario, error) {
	out := make([]Usuario, 0, len(r.rows))
	for _, u := range r.rows {
		out = append(out, u)
	}
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, id int64, ch storage.Changes) error {
	u, ok := r.rows[id]
	if !ok {
		return storage.ErrNotFound
	}
	if v, ok := ch.Value(ColCorreo); ok {
		u.Correo = v.(string)
	}
	if v, ok := ch.Value(ColPasswordHash); ok {
		u.PasswordHash = v.(string)
	}
	if v, ok := ch.Value(ColActivo); ok {
		u.Activo = v.(bool)
	}
	if err := r.unique(u); err != nil {
		return err
	}
	r.rows[id] = u
	r.lastUpdate = ch
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.rows[id]; !ok {
		return storage.ErrNotFound
	}
	if r.referenced[id] {
		return storage.Reference("fk_casos_mvz")
	}
	delete(r.rows, id)
	return nil
}

type fakeHasher struct{}

func (fakeHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

func newTestService() (*Service, *testRepo) {
	repo := newTestRepo()
	svc := NewService(repo, fakeHasher{})
	svc.now = func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) }
	return svc, repo
}

func validInput() CreateInput {
	return CreateInput{
		Nombre:          "María",
		ApellidoPaterno: "López",
		NombreUsuario:   "mlopez",
		Correo:          "MLopez@Example.com",
		Password:        "secreto123",
		TipoUsuario:     TipoRecepcionista,
	}
}

func TestCreate_HashesPasswordAndDefaultsActivo(t *testing.T) {
	svc, repo := newTestService()

	id, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	u := repo.rows[id]
	assert.Equal(t, "hashed:secreto123", u.PasswordHash)
	assert.Equal(t, "mlopez@example.com", u.Correo)
	assert.True(t, u.Activo)
	assert.Equal(t, svc.now(), u.FechaCreacion)
}

func TestCreate_Validation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	cases := map[string]func(*CreateInput){
		"sin nombre":      func(in *CreateInput) { in.Nombre = " " },
		"sin paterno":     func(in *CreateInput) { in.ApellidoPaterno = "" },
		"correo invalido": func(in *CreateInput) { in.Correo = "no-es-correo" },
		"password corta":  func(in *CreateInput) { in.Password = "1234567" },
		"tipo invalido":   func(in *CreateInput) { in.TipoUsuario = 9 },
		"vigencia":        func(in *CreateInput) { a, b := dates.New(2024, 5, 1), dates.New(2024, 4, 1); in.VigenciaInicio, in.VigenciaFin = &a, &b },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := validInput()
			mutate(&in)
			_, err := svc.Create(ctx, in)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}

func TestCreate_Duplicates(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	_, err = svc.Create(ctx, validInput())
	msg, _ := apperr.Message(err)
	assert.Equal(t, "El nombre de usuario ya existe", msg)

	in := validInput()
	in.NombreUsuario = "otro"
	_, err = svc.Create(ctx, in)
	msg, _ = apperr.Message(err)
	assert.Equal(t, "El correo electrónico ya está registrado", msg)
}

func TestUpdate_RehashesPassword(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	id, _ := svc.Create(ctx, validInput())
	nueva := "otraClave99"
	require.NoError(t, svc.Update(ctx, id, UpdateInput{Password: &nueva}))

	assert.Equal(t, "hashed:otraClave99", repo.rows[id].PasswordHash)
	assert.Equal(t, []string{ColPasswordHash, ColFechaActualizacion}, repo.lastUpdate.Columns())
}

func TestUpdate_VigenciaUsesStoredBound(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	in := validInput()
	ini := dates.New(2024, 6, 1)
	in.VigenciaInicio = &ini
	id, err := svc.Create(ctx, in)
	require.NoError(t, err)

	fin := dates.New(2024, 1, 1)
	err = svc.Update(ctx, id, UpdateInput{VigenciaFin: &fin})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, 0, repo.lastUpdate.Len())
}

func TestUpdate_EmptyChanges(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	assert.ErrorIs(t, svc.Update(ctx, 7, UpdateInput{}), ErrNotFound)

	id, _ := svc.Create(ctx, validInput())
	assert.ErrorIs(t, svc.Update(ctx, id, UpdateInput{}), apperr.ErrValidation)
}

func TestSetActivo(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	id, _ := svc.Create(ctx, validInput())
	require.NoError(t, svc.SetActivo(ctx, id, false))
	assert.False(t, repo.rows[id].Activo)

	assert.ErrorIs(t, svc.SetActivo(ctx, 99, true), ErrNotFound)
}

type fakeRevoker struct{ revoked []int64 }

func (f *fakeRevoker) DeleteUser(ctx context.Context, userID int64) error {
	f.revoked = append(f.revoked, userID)
	return nil
}

func TestSessionsRevoked(t *testing.T) {
	svc, _ := newTestService()
	rev := &fakeRevoker{}
	svc.WithSessions(rev)
	ctx := context.Background()

	id, _ := svc.Create(ctx, validInput())
	nombre := "Mariana"
	require.NoError(t, svc.Update(ctx, id, UpdateInput{Nombre: &nombre}))
	require.NoError(t, svc.SetActivo(ctx, id, true))
	assert.Empty(t, rev.revoked)

	pass := "otraClave123"
	require.NoError(t, svc.Update(ctx, id, UpdateInput{Password: &pass}))
	no := false
	require.NoError(t, svc.Update(ctx, id, UpdateInput{Activo: &no}))
	require.NoError(t, svc.SetActivo(ctx, id, false))
	require.NoError(t, svc.Delete(ctx, id))
	assert.Equal(t, []int64{id, id, id, id}, rev.revoked)

	assert.ErrorIs(t, svc.SetActivo(ctx, id, false), ErrNotFound)
	assert.Len(t, rev.revoked, 4)
}

func TestDelete_Referenced(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	id, _ := svc.Create(ctx, validInput())
	repo.referenced[id] = true

	err := svc.Delete(ctx, id)
	require.ErrorIs(t, err, apperr.ErrConflict)
	msg, _ := apperr.Message(err)
	assert.Equal(t, "No se puede eliminar: el usuario tiene registros relacionados", msg)
}

func TestRol(t *testing.T) {
	assert.Equal(t, "administrador", Rol(TipoAdministrador))
	assert.Equal(t, "mvzAutorizado", Rol(TipoMVZAutorizado))
	assert.Equal(t, "", Rol(42))
}
