package memory

import (
	"context"
	"strings"

	"sistpec-api/internal/domain/casos"
	"sistpec-api/internal/domain/catalogos"
	"sistpec-api/internal/domain/hojareporte"
	"sistpec-api/internal/domain/muestras"
	"sistpec-api/internal/ports/storage"
)

type casosRepo struct {
	s *Store
}

func NewCasosRepo(s *Store) casos.Repository {
	return &casosRepo{s: s}
}

func (r *casosRepo) check(c casos.Caso) error {
	for id, other := range r.s.casos {
		if id != c.ID && other.NumeroCaso == c.NumeroCaso {
			return storage.Duplicate(casos.ConstraintNumero)
		}
	}
	if _, ok := r.s.upps[c.IDUPP]; !ok {
		return storage.Reference(casos.ConstraintUPP)
	}
	if c.IDMVZ != nil {
		if _, ok := r.s.usuarios[*c.IDMVZ]; !ok {
			return storage.Reference(casos.ConstraintMVZ)
		}
	}
	if c.IDUsuarioRecepciona != nil {
		if _, ok := r.s.usuarios[*c.IDUsuarioRecepciona]; !ok {
			return storage.Reference(casos.ConstraintRecepciona)
		}
	}
	if !r.s.catalogHas(catalogos.EstatusCaso, c.IDEstatusCaso) {
		return storage.Reference(casos.ConstraintEstatus)
	}
	return nil
}

// userName devuelve el nombre completo de un usuario o nil.
func (s *Store) userName(id *int64) *string {
	if id == nil {
		return nil
	}
	u, ok := s.usuarios[*id]
	if !ok {
		return nil
	}
	n := u.NombreCompleto()
	return &n
}

func (r *casosRepo) view(c casos.Caso) casos.View {
	v := casos.View{Caso: c}
	if u, ok := r.s.upps[c.IDUPP]; ok {
		v.ClaveUPP = u.Clave
		v.Localidad = u.Localidad
		v.Municipio = r.s.catalogNamePtr(catalogos.Municipios, u.IDMunicipio)
		if p, ok := r.s.propietarios[u.IDPropietario]; ok {
			v.Propietario = p.Nombre
		}
	}
	v.MVZ = r.s.userName(c.IDMVZ)
	v.UsuarioRecepciona = r.s.userName(c.IDUsuarioRecepciona)
	v.EstatusCaso, _ = r.s.catalogName(catalogos.EstatusCaso, c.IDEstatusCaso)
	return v
}

func (r *casosRepo) Create(ctx context.Context, c casos.Caso) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.check(c); err != nil {
		return 0, err
	}
	c.ID = r.s.nextID("casos")
	r.s.casos[c.ID] = c
	return c.ID, nil
}

func (r *casosRepo) GetByID(ctx context.Context, id int64) (casos.View, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.casos[id]
	if !ok {
		return casos.View{}, storage.ErrNotFound
	}
	return r.view(c), nil
}

func (r *casosRepo) List(ctx context.Context, f casos.ListFilter) ([]casos.View, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]casos.View, 0)
	for _, c := range r.s.casos {
		v := r.view(c)
		if !matchCaso(v, f) {
			continue
		}
		out = append(out, v)
	}
	sortDesc(out, func(v casos.View) int64 { return v.ID })
	return limit(out, f.Limit), nil
}

func matchCaso(v casos.View, f casos.ListFilter) bool {
	switch {
	case f.NumeroCaso != "" && !containsFold(v.NumeroCaso, f.NumeroCaso):
		return false
	case f.IDUPP != nil && v.IDUPP != *f.IDUPP:
		return false
	case f.ClaveUPP != "" && !containsFold(v.ClaveUPP, f.ClaveUPP):
		return false
	case f.Propietario != "" && !containsFold(v.Propietario, f.Propietario):
		return false
	case f.FechaRecepcion != nil && !v.FechaRecepcion.Equal(*f.FechaRecepcion):
		return false
	case f.Semana != nil && (v.SemanaEpidemiologica == nil || *v.SemanaEpidemiologica != *f.Semana):
		return false
	case f.Anio != nil && (v.AnioEpidemiologico == nil || *v.AnioEpidemiologico != *f.Anio):
		return false
	}

	if f.IDEstatusCaso != nil {
		if v.IDEstatusCaso != *f.IDEstatusCaso {
			return false
		}
	} else if f.Estatus != "" && !strings.EqualFold(v.EstatusCaso, f.Estatus) {
		return false
	}

	if f.IDMVZ != nil {
		if !eqInt64(v.IDMVZ, *f.IDMVZ) {
			return false
		}
	} else if f.MVZ != "" && !ptrContainsFold(v.MVZ, f.MVZ) {
		return false
	}
	return true
}

func (r *casosRepo) Update(ctx context.Context, id int64, ch storage.Changes) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.casos[id]
	if !ok {
		return storage.ErrNotFound
	}
	err := ch.Each(func(col string, v any) error {
		switch col {
		case casos.ColIDUPP:
			c.IDUPP = asInt64(v)
		case casos.ColIDMVZ:
			c.IDMVZ = asInt64Ptr(v)
		case casos.ColIDUsuarioRecepciona:
			c.IDUsuarioRecepciona = asInt64Ptr(v)
		case casos.ColIDEstatusCaso:
			c.IDEstatusCaso = asInt64(v)
		case casos.ColFechaRecepcion:
			if d := asDatePtr(v); d != nil {
				c.FechaRecepcion = *d
			}
		case casos.ColSemanaEpidemiologica:
			c.SemanaEpidemiologica = asIntPtr(v)
		case casos.ColAnioEpidemiologico:
			c.AnioEpidemiologico = asIntPtr(v)
		case casos.ColObservaciones:
			c.Observaciones = asStringPtr(v)
		case casos.ColUpdatedAt:
			c.UpdatedAt = asTimePtr(v)
		default:
			return unknownColumn("casos", col)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := r.check(c); err != nil {
		return err
	}
	r.s.casos[id] = c
	return nil
}

func (r *casosRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.casos[id]; !ok {
		return storage.ErrNotFound
	}
	for _, m := range r.s.muestras {
		if m.IDCaso == id {
			return storage.Reference(muestras.ConstraintCaso)
		}
	}
	for _, h := range r.s.hojas {
		if eqInt64(h.IDCaso, id) {
			return storage.Reference(hojareporte.ConstraintCaso)
		}
	}
	delete(r.s.casos, id)
	return nil
}
