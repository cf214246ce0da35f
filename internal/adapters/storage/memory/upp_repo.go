package memory

import (
	"context"
	"sort"
	"strings"

	"sistpec-api/internal/domain/casos"
	"sistpec-api/internal/domain/catalogos"
	"sistpec-api/internal/domain/upp"
	"sistpec-api/internal/ports/storage"
)

type uppRepo struct {
	s *Store
}

func NewUPPRepo(s *Store) upp.Repository {
	return &uppRepo{s: s}
}

func (r *uppRepo) check(u upp.UPP) error {
	for id, other := range r.s.upps {
		if id != u.ID && strings.EqualFold(other.Clave, u.Clave) {
			return storage.Duplicate(upp.ConstraintClave)
		}
	}
	if _, ok := r.s.propietarios[u.IDPropietario]; !ok {
		return storage.Reference(upp.ConstraintPropietario)
	}
	if u.IDMunicipio != nil && !r.s.catalogHas(catalogos.Municipios, *u.IDMunicipio) {
		return storage.Reference(upp.ConstraintMunicipio)
	}
	return nil
}

func (r *uppRepo) view(u upp.UPP) upp.View {
	v := upp.View{UPP: u}
	if p, ok := r.s.propietarios[u.IDPropietario]; ok {
		v.Propietario = p.Nombre
	}
	v.Municipio = r.s.catalogNamePtr(catalogos.Municipios, u.IDMunicipio)
	if u.IDMunicipio != nil {
		if idEstado, ok := r.s.municipioEstado[*u.IDMunicipio]; ok {
			v.Estado = r.s.catalogNamePtr(catalogos.Estados, &idEstado)
		}
	}
	return v
}

func (r *uppRepo) Create(ctx context.Context, u upp.UPP) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.check(u); err != nil {
		return 0, err
	}
	u.ID = r.s.nextID("upp")
	r.s.upps[u.ID] = u
	return u.ID, nil
}

func (r *uppRepo) GetByID(ctx context.Context, id int64) (upp.View, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.upps[id]
	if !ok {
		return upp.View{}, storage.ErrNotFound
	}
	return r.view(u), nil
}

func (r *uppRepo) GetByClave(ctx context.Context, clave string) (upp.View, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.upps {
		if strings.EqualFold(u.Clave, strings.TrimSpace(clave)) {
			return r.view(u), nil
		}
	}
	return upp.View{}, storage.ErrNotFound
}

func (r *uppRepo) List(ctx context.Context, f upp.ListFilter) ([]upp.View, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]upp.View, 0)
	for _, u := range r.s.upps {
		if f.SoloActivas && !u.Estatus {
			continue
		}
		v := r.view(u)
		if f.Search != "" && !containsFold(v.Clave, f.Search) && !containsFold(v.Propietario, f.Search) {
			continue
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Clave < out[j].Clave })
	return limit(out, f.Limit), nil
}

func (r *uppRepo) Update(ctx context.Context, id int64, ch storage.Changes) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.upps[id]
	if !ok {
		return storage.ErrNotFound
	}
	err := ch.Each(func(col string, v any) error {
		switch col {
		case upp.ColClave:
			u.Clave = asString(v)
		case upp.ColIDPropietario:
			u.IDPropietario = asInt64(v)
		case upp.ColIDMunicipio:
			u.IDMunicipio = asInt64Ptr(v)
		case upp.ColLocalidad:
			u.Localidad = asStringPtr(v)
		case upp.ColDireccion:
			u.Direccion = asStringPtr(v)
		case upp.ColTelefonoContacto:
			u.TelefonoContacto = asStringPtr(v)
		case upp.ColEstatus:
			u.Estatus = asBool(v)
		case upp.ColFechaActualizacion:
			u.FechaActualizacion = asTimePtr(v)
		default:
			return unknownColumn("upp", col)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := r.check(u); err != nil {
		return err
	}
	r.s.upps[id] = u
	return nil
}

func (r *uppRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.upps[id]; !ok {
		return storage.ErrNotFound
	}
	for _, c := range r.s.casos {
		if c.IDUPP == id {
			return storage.Reference(casos.ConstraintUPP)
		}
	}
	delete(r.s.upps, id)
	return nil
}
