package memory

import (
	"context"
	"strings"

	"sistpec-api/internal/domain/casos"
	"sistpec-api/internal/domain/catalogos"
	"sistpec-api/internal/domain/hojareporte"
	"sistpec-api/internal/domain/resultados"
	"sistpec-api/internal/domain/usuarios"
	"sistpec-api/internal/ports/storage"
)

type usuariosRepo struct {
	s *Store
}

func NewUsuariosRepo(s *Store) usuarios.Repository {
	return &usuariosRepo{s: s}
}

func (r *usuariosRepo) check(u usuarios.Usuario) error {
	for id, other := range r.s.usuarios {
		if id == u.ID {
			continue
		}
		if other.NombreUsuario == u.NombreUsuario {
			return storage.Duplicate(usuarios.ConstraintNombreUsuario)
		}
		if strings.EqualFold(other.Correo, u.Correo) {
			return storage.Duplicate(usuarios.ConstraintCorreo)
		}
	}
	if !r.s.catalogHas(catalogos.TiposUsuario, u.TipoUsuario) {
		return storage.Reference(usuarios.ConstraintTipo)
	}
	return nil
}

func (r *usuariosRepo) withTipo(u usuarios.Usuario) usuarios.Usuario {
	u.NombreTipo, _ = r.s.catalogName(catalogos.TiposUsuario, u.TipoUsuario)
	return u
}

func (r *usuariosRepo) Create(ctx context.Context, u usuarios.Usuario) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.check(u); err != nil {
		return 0, err
	}
	u.ID = r.s.nextID("usuarios")
	u.NombreTipo = ""
	r.s.usuarios[u.ID] = u
	return u.ID, nil
}

func (r *usuariosRepo) GetByID(ctx context.Context, id int64) (usuarios.Usuario, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.usuarios[id]
	if !ok {
		return usuarios.Usuario{}, storage.ErrNotFound
	}
	return r.withTipo(u), nil
}

func (r *usuariosRepo) GetByNombreUsuario(ctx context.Context, nombreUsuario string) (usuarios.Usuario, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.usuarios {
		if u.NombreUsuario == nombreUsuario {
			return r.withTipo(u), nil
		}
	}
	return usuarios.Usuario{}, storage.ErrNotFound
}

func (r *usuariosRepo) List(ctx context.Context, f usuarios.ListFilter) ([]usuarios.Usuario, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]usuarios.Usuario, 0)
	for _, u := range r.s.usuarios {
		if f.NombreUsuario != "" && !containsFold(u.NombreUsuario, f.NombreUsuario) {
			continue
		}
		if f.Correo != "" && !containsFold(u.Correo, f.Correo) {
			continue
		}
		if f.ClaveDeRumiantes != "" && !ptrContainsFold(u.ClaveDeRumiantes, f.ClaveDeRumiantes) {
			continue
		}
		if f.TipoUsuario != nil && u.TipoUsuario != *f.TipoUsuario {
			continue
		}
		if f.Activo != nil && u.Activo != *f.Activo {
			continue
		}
		out = append(out, r.withTipo(u))
	}
	sortDesc(out, func(u usuarios.Usuario) int64 { return u.ID })
	return limit(out, f.Limit), nil
}

func (r *usuariosRepo) Update(ctx context.Context, id int64, ch storage.Changes) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.usuarios[id]
	if !ok {
		return storage.ErrNotFound
	}
	err := ch.Each(func(col string, v any) error {
		switch col {
		case usuarios.ColNombre:
			u.Nombre = asString(v)
		case usuarios.ColApellidoPaterno:
			u.ApellidoPaterno = asString(v)
		case usuarios.ColApellidoMaterno:
			u.ApellidoMaterno = asStringPtr(v)
		case usuarios.ColNombreUsuario:
			u.NombreUsuario = asString(v)
		case usuarios.ColCorreo:
			u.Correo = asString(v)
		case usuarios.ColPasswordHash:
			u.PasswordHash = asString(v)
		case usuarios.ColTipoUsuario:
			u.TipoUsuario = asInt64(v)
		case usuarios.ColClaveDeRumiantes:
			u.ClaveDeRumiantes = asStringPtr(v)
		case usuarios.ColVigenciaInicio:
			u.VigenciaInicio = asDatePtr(v)
		case usuarios.ColVigenciaFin:
			u.VigenciaFin = asDatePtr(v)
		case usuarios.ColActivo:
			u.Activo = asBool(v)
		case usuarios.ColFechaActualizacion:
			u.FechaActualizacion = asTimePtr(v)
		default:
			return unknownColumn("usuarios", col)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := r.check(u); err != nil {
		return err
	}
	r.s.usuarios[id] = u
	return nil
}

func (r *usuariosRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.usuarios[id]; !ok {
		return storage.ErrNotFound
	}
	for _, c := range r.s.casos {
		if eqInt64(c.IDMVZ, id) {
			return storage.Reference(casos.ConstraintMVZ)
		}
		if eqInt64(c.IDUsuarioRecepciona, id) {
			return storage.Reference(casos.ConstraintRecepciona)
		}
	}
	for _, res := range r.s.resultados {
		if eqInt64(res.IDUsuarioValida, id) {
			return storage.Reference(resultados.ConstraintUsuario)
		}
	}
	for _, h := range r.s.hojas {
		if h.IDUsuario == id {
			return storage.Reference(hojareporte.ConstraintUsuario)
		}
	}
	delete(r.s.usuarios, id)
	return nil
}
