package memory

import (
	"context"

	"sistpec-api/internal/domain/catalogos"
	"sistpec-api/internal/domain/muestras"
	"sistpec-api/internal/domain/resultados"
	"sistpec-api/internal/ports/storage"
)

type muestrasRepo struct {
	s *Store
}

func NewMuestrasRepo(s *Store) muestras.Repository {
	return &muestrasRepo{s: s}
}

func (r *muestrasRepo) check(m muestras.Muestra) error {
	if _, ok := r.s.casos[m.IDCaso]; !ok {
		return storage.Reference(muestras.ConstraintCaso)
	}
	if m.IDTipoMuestra != nil && !r.s.catalogHas(catalogos.TiposMuestra, *m.IDTipoMuestra) {
		return storage.Reference(muestras.ConstraintTipo)
	}
	if !r.s.catalogHas(catalogos.EstatusMuestra, m.IDEstatusMuestra) {
		return storage.Reference(muestras.ConstraintEstatus)
	}
	if m.IDEspecie != nil && !r.s.catalogHas(catalogos.Especies, *m.IDEspecie) {
		return storage.Reference(muestras.ConstraintEspecie)
	}
	if m.IDRaza != nil && !r.s.catalogHas(catalogos.Razas, *m.IDRaza) {
		return storage.Reference(muestras.ConstraintRaza)
	}
	return nil
}

func (r *muestrasRepo) view(m muestras.Muestra) muestras.View {
	v := muestras.View{Muestra: m}
	if c, ok := r.s.casos[m.IDCaso]; ok {
		v.NumeroCaso = c.NumeroCaso
		if u, ok := r.s.upps[c.IDUPP]; ok {
			v.ClaveUPP = u.Clave
			if p, ok := r.s.propietarios[u.IDPropietario]; ok {
				v.NombrePropietario = p.Nombre
			}
		}
	}
	v.TipoMuestra = r.s.catalogNamePtr(catalogos.TiposMuestra, m.IDTipoMuestra)
	v.EstatusMuestra, _ = r.s.catalogName(catalogos.EstatusMuestra, m.IDEstatusMuestra)
	v.EspecieNombre = r.s.catalogNamePtr(catalogos.Especies, m.IDEspecie)
	v.Raza = r.s.catalogNamePtr(catalogos.Razas, m.IDRaza)
	return v
}

func (r *muestrasRepo) Create(ctx context.Context, m muestras.Muestra) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.check(m); err != nil {
		return 0, err
	}
	m.ID = r.s.nextID("muestras")
	r.s.muestras[m.ID] = m
	return m.ID, nil
}

func (r *muestrasRepo) GetByID(ctx context.Context, id int64) (muestras.View, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.muestras[id]
	if !ok {
		return muestras.View{}, storage.ErrNotFound
	}
	return r.view(m), nil
}

func (r *muestrasRepo) List(ctx context.Context, f muestras.ListFilter) ([]muestras.View, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]muestras.View, 0)
	for _, m := range r.s.muestras {
		v := r.view(m)
		switch {
		case f.IDCaso != nil && v.IDCaso != *f.IDCaso:
			continue
		case f.CodigoMuestra != "" && !containsFold(v.CodigoMuestra, f.CodigoMuestra):
			continue
		case f.NumeroArete != "" && !ptrContainsFold(v.NumeroArete, f.NumeroArete):
			continue
		case f.IDEspecie != nil && !eqInt64(v.IDEspecie, *f.IDEspecie):
			continue
		case f.IDTipoMuestra != nil && !eqInt64(v.IDTipoMuestra, *f.IDTipoMuestra):
			continue
		case f.IDEstatusMuestra != nil && v.IDEstatusMuestra != *f.IDEstatusMuestra:
			continue
		case f.IDEstatusMuestra == nil && f.Estatus != "" && !containsFold(v.EstatusMuestra, f.Estatus):
			continue
		case !inRange(v.FechaToma, f.FechaDesde, f.FechaHasta):
			continue
		}
		out = append(out, v)
	}
	sortDesc(out, func(v muestras.View) int64 { return v.ID })
	return limit(out, f.Limit), nil
}

func (r *muestrasRepo) Update(ctx context.Context, id int64, ch storage.Changes) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.muestras[id]
	if !ok {
		return storage.ErrNotFound
	}
	err := ch.Each(func(col string, v any) error {
		switch col {
		case muestras.ColIDCaso:
			m.IDCaso = asInt64(v)
		case muestras.ColIDTipoMuestra:
			m.IDTipoMuestra = asInt64Ptr(v)
		case muestras.ColIDEstatusMuestra:
			m.IDEstatusMuestra = asInt64(v)
		case muestras.ColCodigoMuestra:
			m.CodigoMuestra = asString(v)
		case muestras.ColNumeroArete:
			m.NumeroArete = asStringPtr(v)
		case muestras.ColIDEspecie:
			m.IDEspecie = asInt64Ptr(v)
		case muestras.ColIDRaza:
			m.IDRaza = asInt64Ptr(v)
		case muestras.ColEspecie:
			m.Especie = asStringPtr(v)
		case muestras.ColSexo:
			m.Sexo = asStringPtr(v)
		case muestras.ColEdad:
			m.Edad = asStringPtr(v)
		case muestras.ColFechaToma:
			m.FechaToma = asDatePtr(v)
		case muestras.ColObservaciones:
			m.Observaciones = asStringPtr(v)
		case muestras.ColUpdatedAt:
			m.UpdatedAt = asTimePtr(v)
		default:
			return unknownColumn("muestras", col)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := r.check(m); err != nil {
		return err
	}
	r.s.muestras[id] = m
	return nil
}

func (r *muestrasRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.muestras[id]; !ok {
		return storage.ErrNotFound
	}
	for _, res := range r.s.resultados {
		if res.IDMuestra == id {
			return storage.Reference(resultados.ConstraintMuestra)
		}
	}
	delete(r.s.muestras, id)
	return nil
}
